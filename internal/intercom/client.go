package intercom

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/spec-kit/sms-bridge/internal/config"
	"github.com/spec-kit/sms-bridge/internal/domain"
	"github.com/spec-kit/sms-bridge/pkg/util"
)

// DirectoryAPI is the directory surface of the support provider.
type DirectoryAPI interface {
	ListContacts(ctx context.Context, cursor string) (*ContactPage, error)
	GetContact(ctx context.Context, id string) (*domain.Contact, error)
	CreateContact(ctx context.Context, params CreateContactParams) (*domain.Contact, error)
}

// ConversationAPI is the conversation surface of the support provider.
type ConversationAPI interface {
	ListConversations(ctx context.Context, contactID, cursor string) (*ConversationPage, error)
	CreateMessage(ctx context.Context, params CreateMessageParams) error
	ReplyToConversation(ctx context.Context, conversationID string, params ReplyParams) error
}

// Client is a typed HTTP client for the support provider's REST API.
// It implements DirectoryAPI and ConversationAPI.
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
	pageSize   int
}

// NewClient builds a client from config. The transport timeout is a backstop;
// per-request deadlines come from the caller's context.
func NewClient(cfg config.IntercomConfig) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    cfg.BaseURL,
		token:      cfg.Token,
		pageSize:   cfg.PageSize,
	}
}

// ListContacts fetches one page of the directory.
func (c *Client) ListContacts(ctx context.Context, cursor string) (*ContactPage, error) {
	query := url.Values{"per_page": {strconv.Itoa(c.pageSize)}}
	if cursor != "" {
		query.Set("starting_after", cursor)
	}

	var list contactListJSON
	if err := c.do(ctx, http.MethodGet, "/contacts", query, nil, &list); err != nil {
		return nil, err
	}

	page := &ContactPage{Contacts: make([]domain.Contact, 0, len(list.Data))}
	for _, raw := range list.Data {
		page.Contacts = append(page.Contacts, raw.toDomain())
	}
	if list.Pages.Next != nil {
		page.NextCursor = list.Pages.Next.StartingAfter
	}
	return page, nil
}

// GetContact fetches a single directory record by provider id.
func (c *Client) GetContact(ctx context.Context, id string) (*domain.Contact, error) {
	var raw contactJSON
	err := c.do(ctx, http.MethodGet, "/contacts/"+url.PathEscape(id), nil, nil, &raw)
	if err != nil {
		if isStatus(err, http.StatusNotFound) {
			return nil, util.NewNotFound("contact", map[string]any{"contact_id": id})
		}
		return nil, err
	}
	contact := raw.toDomain()
	return &contact, nil
}

// CreateContact creates a directory record.
func (c *Client) CreateContact(ctx context.Context, params CreateContactParams) (*domain.Contact, error) {
	body := createContactJSON{
		Role:       "user",
		ExternalID: params.ExternalID,
		Name:       params.Name,
		Phone:      params.Phone,
	}

	var raw contactJSON
	if err := c.do(ctx, http.MethodPost, "/contacts", nil, body, &raw); err != nil {
		return nil, err
	}
	contact := raw.toDomain()
	return &contact, nil
}

// ListConversations fetches one page of a contact's conversations.
func (c *Client) ListConversations(ctx context.Context, contactID, cursor string) (*ConversationPage, error) {
	query := url.Values{"per_page": {strconv.Itoa(c.pageSize)}}
	if cursor != "" {
		query.Set("starting_after", cursor)
	}
	path := "/contacts/" + url.PathEscape(contactID) + "/conversations"

	var list conversationListJSON
	if err := c.do(ctx, http.MethodGet, path, query, nil, &list); err != nil {
		return nil, err
	}

	page := &ConversationPage{Conversations: make([]domain.Conversation, 0, len(list.Conversations))}
	for _, raw := range list.Conversations {
		page.Conversations = append(page.Conversations, raw.toDomain())
	}
	if list.Pages.Next != nil {
		page.NextCursor = list.Pages.Next.StartingAfter
	}
	return page, nil
}

// CreateMessage starts a new conversation from the given contact.
func (c *Client) CreateMessage(ctx context.Context, params CreateMessageParams) error {
	body := createMessageJSON{
		From:           fromJSON{Type: "user", ID: params.FromContactID},
		Body:           params.Body,
		AttachmentURLs: params.AttachmentURLs,
	}
	return c.do(ctx, http.MethodPost, "/messages", nil, body, nil)
}

// ReplyToConversation appends a contact reply to a conversation.
func (c *Client) ReplyToConversation(ctx context.Context, conversationID string, params ReplyParams) error {
	body := replyJSON{
		MessageType:    "comment",
		Type:           "user",
		ContactID:      params.ContactID,
		Body:           params.Body,
		AttachmentURLs: params.AttachmentURLs,
	}
	path := "/conversations/" + url.PathEscape(conversationID) + "/reply"
	return c.do(ctx, http.MethodPost, path, nil, body, nil)
}

type statusError struct {
	status int
	body   string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("intercom api status %d: %s", e.status, e.body)
}

func isStatus(err error, status int) bool {
	se, ok := err.(*statusError)
	return ok && se.status == status
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, in, out any) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reqBody io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reqBody)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &statusError{status: resp.StatusCode, body: truncate(string(data), 256)}
	}
	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
