package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/sms-bridge/internal/api/http/handlers"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health   *handlers.HealthHandler
	Webhooks *handlers.WebhooksHandler
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	app.Post("/sms", cfg.Webhooks.InboundSms)
	app.Post("/intercom", cfg.Webhooks.InboundIntercom)
}
