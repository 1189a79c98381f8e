package events

import "time"

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventContactCreated EventType = "contact_created"
	EventThreadStarted  EventType = "thread_started"
	EventReplyAppended  EventType = "reply_appended"
	EventSmsSent        EventType = "sms_sent"
	EventEventSkipped   EventType = "event_skipped"
)

// Event represents a relay event emitted by the router.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	ContactID string      `json:"contact_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// ContactCreatedPayload payload.
type ContactCreatedPayload struct {
	Phone       string `json:"phone"`
	Provisional bool   `json:"provisional"`
}

// ThreadStartedPayload payload.
type ThreadStartedPayload struct {
	BodyPreview string `json:"body_preview"`
}

// ReplyAppendedPayload payload.
type ReplyAppendedPayload struct {
	ConversationID string `json:"conversation_id"`
	BodyPreview    string `json:"body_preview"`
}

// SmsSentPayload payload.
type SmsSentPayload struct {
	To          string `json:"to"`
	BodyPreview string `json:"body_preview"`
}

// EventSkippedPayload payload.
type EventSkippedPayload struct {
	Reason string `json:"reason"`
}
