package domain

// InboundSms is a transient inbound SMS webhook payload. Not persisted.
type InboundSms struct {
	From string
	To   string
	Body string
}

// SupportEvent is a transient inbound support-platform webhook payload
// describing activity on a conversation. Not persisted.
type SupportEvent struct {
	ContactID         string
	Open              bool
	SourceAttachments []Attachment
	Parts             []ConversationPart
}
