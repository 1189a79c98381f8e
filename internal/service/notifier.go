package service

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/sms-bridge/internal/config"
	"github.com/spec-kit/sms-bridge/internal/events"
)

// Notifier mirrors relay events to the log and, when configured, to an ops
// webhook. Delivery is best effort; a failed notification never fails a relay.
type Notifier struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	cfg        config.NotifyConfig
	httpClient *http.Client
}

// NewNotifier creates the service.
func NewNotifier(dispatcher events.Dispatcher, logger *zap.Logger, cfg config.NotifyConfig) *Notifier {
	return &Notifier{
		dispatcher: dispatcher,
		logger:     logger,
		cfg:        cfg,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// RegisterHandlers subscribes to events.
func (n *Notifier) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventContactCreated, n.handle)
	n.dispatcher.Subscribe(events.EventThreadStarted, n.handle)
	n.dispatcher.Subscribe(events.EventReplyAppended, n.handle)
	n.dispatcher.Subscribe(events.EventSmsSent, n.handle)
	n.dispatcher.Subscribe(events.EventEventSkipped, n.handle)
}

func (n *Notifier) handle(ctx context.Context, event events.Event) error {
	n.logger.Info(string(event.Type),
		zap.String("contact_id", event.ContactID),
		zap.Any("payload", event.Payload))
	n.postWebhook(ctx, event)
	return nil
}

func (n *Notifier) postWebhook(ctx context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.WebhookURL) == "" {
		return
	}

	payload, err := json.Marshal(event)
	if err != nil {
		n.logger.Warn("notify marshal failed", zap.Error(err))
		return
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.cfg.WebhookURL, bytes.NewReader(payload))
	if err != nil {
		n.logger.Warn("notify request failed", zap.Error(err))
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.httpClient.Do(req)
	if err != nil {
		n.logger.Warn("notify delivery failed", zap.Error(err))
		return
	}
	_ = resp.Body.Close()
}
