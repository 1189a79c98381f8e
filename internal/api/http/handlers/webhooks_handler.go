package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/sms-bridge/internal/api/dto"
	"github.com/spec-kit/sms-bridge/internal/routing"
)

// WebhooksHandler exposes the two inbound webhook endpoints. Both providers
// retry on non-2xx responses, so every delivery is acknowledged with 200 and
// pipeline failures surface only in the log.
type WebhooksHandler struct {
	router *routing.Router
	logger *zap.Logger
}

// NewWebhooksHandler constructs handler.
func NewWebhooksHandler(router *routing.Router, logger *zap.Logger) *WebhooksHandler {
	return &WebhooksHandler{router: router, logger: logger}
}

// InboundSms handles POST /sms.
func (h *WebhooksHandler) InboundSms(c *fiber.Ctx) error {
	var req dto.TwilioWebhook
	if err := c.BodyParser(&req); err != nil {
		h.logger.Warn("unparsable sms webhook", zap.Error(err))
		return c.SendStatus(http.StatusOK)
	}
	if req.From == "" || req.To == "" || req.Body == "" {
		return c.SendStatus(http.StatusOK)
	}

	if err := h.router.HandleInboundSms(c.UserContext(), req.ToDomain()); err != nil {
		h.logger.Error("inbound sms failed", zap.String("from", req.From), zap.Error(err))
	}
	return c.SendStatus(http.StatusOK)
}

// InboundIntercom handles POST /intercom.
func (h *WebhooksHandler) InboundIntercom(c *fiber.Ctx) error {
	var req dto.IntercomWebhook
	if err := c.BodyParser(&req); err != nil {
		h.logger.Warn("unparsable intercom webhook", zap.Error(err))
		return c.SendStatus(http.StatusOK)
	}
	item := req.Data.Item
	if item.User.ID == "" || len(item.ConversationParts.Parts) == 0 {
		return c.SendStatus(http.StatusOK)
	}

	if err := h.router.HandleSupportEvent(c.UserContext(), item.ToDomain()); err != nil {
		h.logger.Error("inbound support event failed",
			zap.String("topic", req.Topic),
			zap.String("contact_id", item.User.ID),
			zap.Error(err))
	}
	return c.SendStatus(http.StatusOK)
}
