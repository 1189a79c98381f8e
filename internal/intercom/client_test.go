package intercom

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/sms-bridge/internal/config"
	"github.com/spec-kit/sms-bridge/pkg/util"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(config.IntercomConfig{
		Token:    "test-token",
		BaseURL:  server.URL,
		PageSize: 2,
	})
}

func TestListContactsPaging(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/contacts", r.URL.Path)
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		assert.Equal(t, "2", r.URL.Query().Get("per_page"))

		if r.URL.Query().Get("starting_after") == "" {
			_, _ = w.Write([]byte(`{
				"data": [
					{"id": "u1", "phone": "(555) 123-4567", "email": "a@example.com", "created_at": 1714000000},
					{"id": "u2", "phone": "", "email": ""}
				],
				"pages": {"next": {"starting_after": "u2"}}
			}`))
			return
		}
		assert.Equal(t, "u2", r.URL.Query().Get("starting_after"))
		_, _ = w.Write([]byte(`{"data": [{"id": "u3", "phone": "555.999.0000"}], "pages": {}}`))
	})

	page, err := client.ListContacts(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, page.Contacts, 2)
	assert.Equal(t, "u1", page.Contacts[0].ID)
	assert.Equal(t, "(555) 123-4567", page.Contacts[0].Phone)
	assert.False(t, page.Contacts[0].Provisional())
	assert.True(t, page.Contacts[1].Provisional())
	assert.Equal(t, "u2", page.NextCursor)

	page, err = client.ListContacts(context.Background(), page.NextCursor)
	require.NoError(t, err)
	require.Len(t, page.Contacts, 1)
	assert.Empty(t, page.NextCursor)
}

func TestGetContactNotFound(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"errors":[{"code":"not_found"}]}`, http.StatusNotFound)
	})

	_, err := client.GetContact(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, util.IsNotFound(err))
}

func TestCreateContactPayload(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/contacts", r.URL.Path)

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "user", body["role"])
		assert.Equal(t, "(555) 123-4567", body["phone"])
		assert.Equal(t, "ext-1", body["external_id"])

		_, _ = w.Write([]byte(`{"id": "u9", "external_id": "ext-1", "phone": "(555) 123-4567"}`))
	})

	contact, err := client.CreateContact(context.Background(), CreateContactParams{
		Phone:      "(555) 123-4567",
		ExternalID: "ext-1",
	})
	require.NoError(t, err)
	assert.Equal(t, "u9", contact.ID)
	assert.True(t, contact.Provisional())
}

func TestListConversationsMapping(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/contacts/u1/conversations", r.URL.Path)
		_, _ = w.Write([]byte(`{
			"conversations": [{
				"id": "c1",
				"state": "open",
				"contacts": {"contacts": [{"id": "u1"}]},
				"source": {"body": "<p>Hi</p>", "attachments": [{"name": "logo.png", "url": "https://x/logo.png"}]},
				"conversation_parts": {"conversation_parts": [{"body": "<p>reply</p>"}]},
				"updated_at": 1714000000
			}],
			"pages": {}
		}`))
	})

	page, err := client.ListConversations(context.Background(), "u1", "")
	require.NoError(t, err)
	require.Len(t, page.Conversations, 1)

	conv := page.Conversations[0]
	assert.Equal(t, "c1", conv.ID)
	assert.Equal(t, "u1", conv.ContactID)
	assert.True(t, conv.Open())
	require.Len(t, conv.Source.Attachments, 1)
	assert.Equal(t, "logo.png", conv.Source.Attachments[0].Name)
	require.Len(t, conv.Parts, 1)
	assert.Equal(t, "<p>reply</p>", conv.Parts[0].Body)
}

func TestCreateMessageAndReplyPayloads(t *testing.T) {
	var paths []string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		switch r.URL.Path {
		case "/messages":
			from := body["from"].(map[string]any)
			assert.Equal(t, "user", from["type"])
			assert.Equal(t, "u1", from["id"])
			assert.Equal(t, "Hi", body["body"])
			assert.Equal(t, []any{"https://x/logo.png"}, body["attachment_urls"])
		case "/conversations/c1/reply":
			assert.Equal(t, "comment", body["message_type"])
			assert.Equal(t, "user", body["type"])
			assert.Equal(t, "u1", body["intercom_user_id"])
			assert.Equal(t, "again", body["body"])
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{}`))
	})

	err := client.CreateMessage(context.Background(), CreateMessageParams{
		FromContactID:  "u1",
		Body:           "Hi",
		AttachmentURLs: []string{"https://x/logo.png"},
	})
	require.NoError(t, err)

	err = client.ReplyToConversation(context.Background(), "c1", ReplyParams{
		ContactID: "u1",
		Body:      "again",
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"/messages", "/conversations/c1/reply"}, paths)
}

func TestServerErrorSurfaces(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream broke", http.StatusBadGateway)
	})

	_, err := client.ListContacts(context.Background(), "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}
