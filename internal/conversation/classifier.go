package conversation

import "github.com/spec-kit/sms-bridge/internal/domain"

// Classifier decides whether a conversation originated from the SMS channel.
// SMS threads are recognized by a structural fingerprint: the originating
// message carries the bridge's logo image as its first attachment. The
// provider's tag filters proved unreliable in list queries, and threads
// created before any tagging change would be lost, so the attachment marker
// stays the mechanism of record.
type Classifier struct {
	sentinelFilename string
}

// NewClassifier builds a classifier keyed to the sentinel attachment name.
func NewClassifier(sentinelFilename string) *Classifier {
	return &Classifier{sentinelFilename: sentinelFilename}
}

// IsSmsThread reports whether conv is an open SMS-origin conversation.
func (c *Classifier) IsSmsThread(conv *domain.Conversation) bool {
	if conv == nil || !conv.Open() {
		return false
	}
	return c.matches(conv.Source.Attachments)
}

// IsSmsEvent applies the same fingerprint to an inbound webhook payload.
func (c *Classifier) IsSmsEvent(event *domain.SupportEvent) bool {
	if event == nil || !event.Open {
		return false
	}
	return c.matches(event.SourceAttachments)
}

func (c *Classifier) matches(attachments []domain.Attachment) bool {
	if len(attachments) == 0 {
		return false
	}
	return attachments[0].Name == c.sentinelFilename
}
