package routing

import (
	"context"
	"strings"
	"time"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/sms-bridge/internal/conversation"
	"github.com/spec-kit/sms-bridge/internal/dedup"
	"github.com/spec-kit/sms-bridge/internal/directory"
	"github.com/spec-kit/sms-bridge/internal/domain"
	"github.com/spec-kit/sms-bridge/internal/events"
	"github.com/spec-kit/sms-bridge/internal/intercom"
	"github.com/spec-kit/sms-bridge/internal/phone"
	"github.com/spec-kit/sms-bridge/internal/sms"
	"github.com/spec-kit/sms-bridge/pkg/util"
)

// Router relays inbound events between the SMS channel and the support
// platform. Each handled event performs exactly one remote write: a new
// conversation, an appended reply, or an outbound SMS.
type Router struct {
	directory     *directory.Lookup
	locator       *conversation.Locator
	classifier    *conversation.Classifier
	conversations intercom.ConversationAPI
	sender        sms.Sender
	phones        *phone.Formatter
	guard         dedup.Guard
	dispatcher    events.Dispatcher
	logger        *zap.Logger
	logoURL       string
}

// Dependencies bundles collaborators for the router.
type Dependencies struct {
	Directory     *directory.Lookup
	Locator       *conversation.Locator
	Classifier    *conversation.Classifier
	Conversations intercom.ConversationAPI
	Sender        sms.Sender
	Phones        *phone.Formatter
	Guard         dedup.Guard
	Dispatcher    events.Dispatcher
	Logger        *zap.Logger
	LogoURL       string
}

// NewRouter constructs the router.
func NewRouter(deps Dependencies) *Router {
	guard := deps.Guard
	if guard == nil {
		guard = dedup.NopGuard{}
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Router{
		directory:     deps.Directory,
		locator:       deps.Locator,
		classifier:    deps.Classifier,
		conversations: deps.Conversations,
		sender:        deps.Sender,
		phones:        deps.Phones,
		guard:         guard,
		dispatcher:    deps.Dispatcher,
		logger:        logger,
		logoURL:       deps.LogoURL,
	}
}

// HandleInboundSms turns an inbound SMS into a support-conversation message:
// resolve the sender to a contact (creating a provisional one when needed),
// then either start a new SMS thread or append to the active one.
func (r *Router) HandleInboundSms(ctx context.Context, msg *domain.InboundSms) error {
	if msg == nil || msg.From == "" || msg.Body == "" {
		return util.NewValidationError("sender phone and body required", nil)
	}

	// A sender phone that cannot be parsed is fatal here; there is no other
	// number to fall back to.
	normalized, err := r.phones.Normalize(msg.From)
	if err != nil {
		return err
	}

	if !r.guard.Admit(ctx, msg) {
		r.logger.Info("duplicate inbound sms suppressed", zap.String("from", normalized))
		return nil
	}

	contact, created, err := r.directory.FindOrCreateByPhone(ctx, normalized)
	if err != nil {
		return err
	}
	if created {
		r.publish(events.Event{
			Type:      events.EventContactCreated,
			ContactID: contact.ID,
			Payload: events.ContactCreatedPayload{
				Phone:       contact.Phone,
				Provisional: contact.Provisional(),
			},
		})
	}

	thread, err := r.locator.FindActiveSmsThread(ctx, contact.ID)
	if err != nil {
		return err
	}

	if thread == nil {
		// The logo attachment is the marker future classification keys on.
		err := r.conversations.CreateMessage(ctx, intercom.CreateMessageParams{
			FromContactID:  contact.ID,
			Body:           msg.Body,
			AttachmentURLs: []string{r.logoURL},
		})
		if err != nil {
			return err
		}
		r.publish(events.Event{
			Type:      events.EventThreadStarted,
			ContactID: contact.ID,
			Payload:   events.ThreadStartedPayload{BodyPreview: preview(msg.Body)},
		})
		return nil
	}

	if err := r.conversations.ReplyToConversation(ctx, thread.ID, intercom.ReplyParams{
		ContactID: contact.ID,
		Body:      msg.Body,
	}); err != nil {
		return err
	}
	r.publish(events.Event{
		Type:      events.EventReplyAppended,
		ContactID: contact.ID,
		Payload: events.ReplyAppendedPayload{
			ConversationID: thread.ID,
			BodyPreview:    preview(msg.Body),
		},
	})
	return nil
}

// HandleSupportEvent turns support-platform activity on an SMS thread into an
// outbound SMS. Events on non-SMS conversations are acknowledged untouched.
func (r *Router) HandleSupportEvent(ctx context.Context, event *domain.SupportEvent) error {
	if event == nil || event.ContactID == "" || len(event.Parts) == 0 {
		return util.NewValidationError("contact reference and conversation parts required", nil)
	}

	if !r.classifier.IsSmsEvent(event) {
		r.publish(events.Event{
			Type:      events.EventEventSkipped,
			ContactID: event.ContactID,
			Payload:   events.EventSkippedPayload{Reason: "not an sms thread"},
		})
		return nil
	}

	contact, err := r.directory.FindByID(ctx, event.ContactID)
	if err != nil {
		return err
	}
	if contact.Phone == "" {
		return util.NewMissingPhone(contact.ID)
	}

	body := flatten(event.Parts[0].Body)
	if err := r.sender.Send(ctx, contact.Phone, body); err != nil {
		return err
	}
	r.publish(events.Event{
		Type:      events.EventSmsSent,
		ContactID: contact.ID,
		Payload: events.SmsSentPayload{
			To:          contact.Phone,
			BodyPreview: preview(body),
		},
	})
	return nil
}

func (r *Router) publish(event events.Event) {
	if r.dispatcher == nil {
		return
	}
	event.ID = uuid.NewString()
	event.Timestamp = time.Now().UTC()
	if err := r.dispatcher.Publish(context.Background(), event); err != nil {
		r.logger.Warn("event publish failed", zap.String("type", string(event.Type)), zap.Error(err))
	}
}

// flatten strips HTML markup from a conversation part body so it reads as
// plain text in an SMS. Part bodies are simple paragraph HTML.
func flatten(body string) string {
	text, err := htmltomarkdown.ConvertString(body)
	if err != nil {
		return strings.TrimSpace(body)
	}
	return strings.TrimSpace(text)
}

func preview(body string) string {
	const max = 80
	if len(body) <= max {
		return body
	}
	return body[:max]
}
