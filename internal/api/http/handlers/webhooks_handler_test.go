package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/sms-bridge/internal/conversation"
	"github.com/spec-kit/sms-bridge/internal/directory"
	"github.com/spec-kit/sms-bridge/internal/domain"
	"github.com/spec-kit/sms-bridge/internal/intercom"
	"github.com/spec-kit/sms-bridge/internal/phone"
	"github.com/spec-kit/sms-bridge/internal/routing"
	"github.com/spec-kit/sms-bridge/pkg/util"
)

// stubProvider satisfies the provider surfaces with canned data.
type stubProvider struct {
	contacts []domain.Contact
	messages int
}

func (s *stubProvider) ListContacts(ctx context.Context, cursor string) (*intercom.ContactPage, error) {
	return &intercom.ContactPage{Contacts: s.contacts}, nil
}

func (s *stubProvider) GetContact(ctx context.Context, id string) (*domain.Contact, error) {
	for i := range s.contacts {
		if s.contacts[i].ID == id {
			return &s.contacts[i], nil
		}
	}
	return nil, util.NewNotFound("contact", nil)
}

func (s *stubProvider) CreateContact(ctx context.Context, params intercom.CreateContactParams) (*domain.Contact, error) {
	contact := domain.Contact{ID: "new", Phone: params.Phone}
	s.contacts = append(s.contacts, contact)
	return &contact, nil
}

func (s *stubProvider) ListConversations(ctx context.Context, contactID, cursor string) (*intercom.ConversationPage, error) {
	return &intercom.ConversationPage{}, nil
}

func (s *stubProvider) CreateMessage(ctx context.Context, params intercom.CreateMessageParams) error {
	s.messages++
	return nil
}

func (s *stubProvider) ReplyToConversation(ctx context.Context, conversationID string, params intercom.ReplyParams) error {
	return nil
}

type noopSender struct{}

func (noopSender) Send(ctx context.Context, to, body string) error { return nil }

func newTestApp(provider *stubProvider) *fiber.App {
	phones := phone.NewFormatter("US")
	classifier := conversation.NewClassifier("logo.png")
	router := routing.NewRouter(routing.Dependencies{
		Directory:     directory.NewLookup(provider, phones),
		Locator:       conversation.NewLocator(provider, classifier),
		Classifier:    classifier,
		Conversations: provider,
		Sender:        noopSender{},
		Phones:        phones,
		LogoURL:       "https://x/logo.png",
	})

	app := fiber.New()
	handler := NewWebhooksHandler(router, zap.NewNop())
	app.Post("/sms", handler.InboundSms)
	app.Post("/intercom", handler.InboundIntercom)
	return app
}

func postForm(t *testing.T, app *fiber.App, path string, form url.Values) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func TestInboundSmsWebhookProcessed(t *testing.T) {
	provider := &stubProvider{}
	app := newTestApp(provider)

	resp := postForm(t, app, "/sms", url.Values{
		"From": {"555.123.4567"},
		"To":   {"+15550001111"},
		"Body": {"Hi"},
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 1, provider.messages)
}

func TestInboundSmsWebhookIncompleteAcknowledged(t *testing.T) {
	provider := &stubProvider{}
	app := newTestApp(provider)

	// Missing Body: acknowledged without touching the pipeline.
	resp := postForm(t, app, "/sms", url.Values{
		"From": {"555.123.4567"},
		"To":   {"+15550001111"},
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 0, provider.messages)
}

func TestInboundSmsWebhookPipelineFailureStillAcknowledged(t *testing.T) {
	provider := &stubProvider{}
	app := newTestApp(provider)

	resp := postForm(t, app, "/sms", url.Values{
		"From": {"not-a-phone"},
		"To":   {"+15550001111"},
		"Body": {"Hi"},
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 0, provider.messages)
}

func TestInboundIntercomWebhookAcknowledged(t *testing.T) {
	provider := &stubProvider{
		contacts: []domain.Contact{{ID: "U1", Phone: "(555) 123-4567", Email: "u1@example.com"}},
	}
	app := newTestApp(provider)

	body := `{
		"topic": "conversation.admin.replied",
		"data": {"item": {
			"open": true,
			"user": {"id": "U1"},
			"source": {"attachments": [{"name": "logo.png"}]},
			"conversation_parts": {"conversation_parts": [{"body": "<p>done</p>"}]}
		}}
	}`
	req := httptest.NewRequest(http.MethodPost, "/intercom", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// An envelope without parts is acknowledged too.
	req = httptest.NewRequest(http.MethodPost, "/intercom", strings.NewReader(`{"data":{"item":{"user":{"id":"U1"}}}}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
