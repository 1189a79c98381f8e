package intercom

import (
	"time"

	"github.com/spec-kit/sms-bridge/internal/domain"
)

// CreateContactParams describes a new directory record.
type CreateContactParams struct {
	Phone      string
	ExternalID string
	Name       string
}

// CreateMessageParams starts a new conversation from a contact.
type CreateMessageParams struct {
	FromContactID  string
	Body           string
	AttachmentURLs []string
}

// ReplyParams appends a contact reply to an existing conversation.
type ReplyParams struct {
	ContactID      string
	Body           string
	AttachmentURLs []string
}

// ContactPage is one page of directory records plus the cursor for the next.
type ContactPage struct {
	Contacts   []domain.Contact
	NextCursor string
}

// ConversationPage is one page of conversations plus the cursor for the next.
type ConversationPage struct {
	Conversations []domain.Conversation
	NextCursor    string
}

// Wire shapes below mirror the provider's REST payloads.

type contactJSON struct {
	ID         string `json:"id"`
	ExternalID string `json:"external_id"`
	Role       string `json:"role,omitempty"`
	Name       string `json:"name"`
	Phone      string `json:"phone"`
	Email      string `json:"email"`
	CreatedAt  int64  `json:"created_at"`
}

type contactListJSON struct {
	Data  []contactJSON `json:"data"`
	Pages pagesJSON     `json:"pages"`
}

type pagesJSON struct {
	Next *pageCursorJSON `json:"next"`
}

type pageCursorJSON struct {
	StartingAfter string `json:"starting_after"`
}

type attachmentJSON struct {
	Name        string `json:"name"`
	URL         string `json:"url"`
	ContentType string `json:"content_type"`
}

type conversationPartJSON struct {
	Body        string           `json:"body"`
	Attachments []attachmentJSON `json:"attachments"`
}

type conversationPartsJSON struct {
	Parts []conversationPartJSON `json:"conversation_parts"`
}

type conversationSourceJSON struct {
	Body        string           `json:"body"`
	Attachments []attachmentJSON `json:"attachments"`
}

type conversationContactsJSON struct {
	Contacts []struct {
		ID string `json:"id"`
	} `json:"contacts"`
}

type conversationJSON struct {
	ID        string                   `json:"id"`
	State     string                   `json:"state"`
	Contacts  conversationContactsJSON `json:"contacts"`
	Source    conversationSourceJSON   `json:"source"`
	Parts     conversationPartsJSON    `json:"conversation_parts"`
	CreatedAt int64                    `json:"created_at"`
	UpdatedAt int64                    `json:"updated_at"`
}

type conversationListJSON struct {
	Conversations []conversationJSON `json:"conversations"`
	Pages         pagesJSON          `json:"pages"`
}

type createContactJSON struct {
	Role       string `json:"role"`
	ExternalID string `json:"external_id,omitempty"`
	Name       string `json:"name,omitempty"`
	Phone      string `json:"phone"`
}

type fromJSON struct {
	Type string `json:"type"`
	ID   string `json:"id"`
}

type createMessageJSON struct {
	From           fromJSON `json:"from"`
	Body           string   `json:"body"`
	AttachmentURLs []string `json:"attachment_urls,omitempty"`
}

type replyJSON struct {
	MessageType    string   `json:"message_type"`
	Type           string   `json:"type"`
	ContactID      string   `json:"intercom_user_id"`
	Body           string   `json:"body"`
	AttachmentURLs []string `json:"attachment_urls,omitempty"`
}

func (c contactJSON) toDomain() domain.Contact {
	return domain.Contact{
		ID:         c.ID,
		ExternalID: c.ExternalID,
		Name:       c.Name,
		Phone:      c.Phone,
		Email:      c.Email,
		CreatedAt:  time.Unix(c.CreatedAt, 0).UTC(),
	}
}

func (c conversationJSON) toDomain() domain.Conversation {
	conv := domain.Conversation{
		ID:        c.ID,
		State:     domain.ConversationState(c.State),
		CreatedAt: time.Unix(c.CreatedAt, 0).UTC(),
		UpdatedAt: time.Unix(c.UpdatedAt, 0).UTC(),
		Source: domain.ConversationSource{
			Body:        c.Source.Body,
			Attachments: toDomainAttachments(c.Source.Attachments),
		},
	}
	if len(c.Contacts.Contacts) > 0 {
		conv.ContactID = c.Contacts.Contacts[0].ID
	}
	for _, p := range c.Parts.Parts {
		conv.Parts = append(conv.Parts, domain.ConversationPart{
			Body:        p.Body,
			Attachments: toDomainAttachments(p.Attachments),
		})
	}
	return conv
}

func toDomainAttachments(in []attachmentJSON) []domain.Attachment {
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
