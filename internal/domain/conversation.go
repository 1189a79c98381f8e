package domain

import "time"

// ConversationState enumerates lifecycle states the provider reports.
type ConversationState string

const (
	ConversationStateOpen   ConversationState = "open"
	ConversationStateClosed ConversationState = "closed"
)

// Attachment is a file attached to a conversation message.
type Attachment struct {
	Name        string
	URL         string
	ContentType string
}

// ConversationPart is one message within a conversation.
type ConversationPart struct {
	Body        string
	Attachments []Attachment
}

// ConversationSource is the originating message of a conversation. Its
// attachments carry the structural marker used to recognize SMS threads.
type ConversationSource struct {
	Body        string
	Attachments []Attachment
}

// Conversation is an ongoing exchange tracked by the support provider. The
// ContactID is a weak reference into the directory; the provider owns both
// records. This service reads conversations and appends replies, nothing else.
type Conversation struct {
	ID        string
	ContactID string
	State     ConversationState
	Source    ConversationSource
	Parts     []ConversationPart
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Open reports whether the conversation is still active.
func (c *Conversation) Open() bool {
	return c.State == ConversationStateOpen
}
