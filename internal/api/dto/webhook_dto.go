package dto

import "github.com/spec-kit/sms-bridge/internal/domain"

// TwilioWebhook is the form-encoded payload Twilio posts for inbound SMS.
type TwilioWebhook struct {
	From string `form:"From" json:"From"`
	To   string `form:"To" json:"To"`
	Body string `form:"Body" json:"Body"`
}

// ToDomain converts the webhook payload to the transient domain event.
func (w TwilioWebhook) ToDomain() *domain.InboundSms {
	return &domain.InboundSms{From: w.From, To: w.To, Body: w.Body}
}

// IntercomWebhook is the notification envelope the support platform posts.
type IntercomWebhook struct {
	Topic string `json:"topic"`
	Data  struct {
		Item IntercomItem `json:"item"`
	} `json:"data"`
}

// IntercomItem is the conversation snapshot inside a notification.
type IntercomItem struct {
	ID   string `json:"id"`
	Open bool   `json:"open"`
	User struct {
		ID string `json:"id"`
	} `json:"user"`
	Source struct {
		Attachments []IntercomAttachment `json:"attachments"`
	} `json:"source"`
	ConversationParts struct {
		Parts []IntercomPart `json:"conversation_parts"`
	} `json:"conversation_parts"`
}

// IntercomAttachment is an attachment reference in a notification.
type IntercomAttachment struct {
	Name        string `json:"name"`
	URL         string `json:"url"`
	ContentType string `json:"content_type"`
}

// IntercomPart is one conversation part in a notification.
type IntercomPart struct {
	Body        string               `json:"body"`
	Attachments []IntercomAttachment `json:"attachments"`
}

// ToDomain converts the notification item to the transient domain event.
func (i IntercomItem) ToDomain() *domain.SupportEvent {
	event := &domain.SupportEvent{
		ContactID:         i.User.ID,
		Open:              i.Open,
		SourceAttachments: toDomainAttachments(i.Source.Attachments),
	}
	for _, p := range i.ConversationParts.Parts {
		event.Parts = append(event.Parts, domain.ConversationPart{
			Body:        p.Body,
			Attachments: toDomainAttachments(p.Attachments),
		})
	}
	return event
}

func toDomainAttachments(in []IntercomAttachment) []domain.Attachment {
	if len(in) == 0 {
		return nil
	}
	out := make([]domain.Attachment, 0, len(in))
	for _, a := range in {
		out = append(out, domain.Attachment{
			Name:        a.Name,
			URL:         a.URL,
			ContentType: a.ContentType,
		})
	}
	return out
}
