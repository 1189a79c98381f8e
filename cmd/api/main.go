package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/sms-bridge/internal/api/http"
	"github.com/spec-kit/sms-bridge/internal/api/http/handlers"
	"github.com/spec-kit/sms-bridge/internal/config"
	"github.com/spec-kit/sms-bridge/internal/conversation"
	"github.com/spec-kit/sms-bridge/internal/dedup"
	"github.com/spec-kit/sms-bridge/internal/directory"
	"github.com/spec-kit/sms-bridge/internal/events"
	"github.com/spec-kit/sms-bridge/internal/intercom"
	"github.com/spec-kit/sms-bridge/internal/observability"
	"github.com/spec-kit/sms-bridge/internal/phone"
	"github.com/spec-kit/sms-bridge/internal/routing"
	"github.com/spec-kit/sms-bridge/internal/service"
	"github.com/spec-kit/sms-bridge/internal/sms"
	"github.com/spec-kit/sms-bridge/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	metrics := observability.NewMetrics()

	var guard dedup.Guard = dedup.NopGuard{}
	if cfg.Redis.Addr != "" && cfg.Dedup.Window() > 0 {
		guard = dedup.NewRedisGuard(cfg.Redis, cfg.Dedup.Window(), logger)
	}

	intercomClient := intercom.NewClient(cfg.Intercom)
	smsClient := sms.NewClient(cfg.Twilio)

	phones := phone.NewFormatter(cfg.Phone.Region)
	lookup := directory.NewLookup(intercomClient, phones)
	classifier := conversation.NewClassifier(cfg.Intercom.LogoFilename)
	locator := conversation.NewLocator(intercomClient, classifier)

	dispatcher := events.NewInMemoryDispatcher()
	notifier := service.NewNotifier(dispatcher, logger, cfg.Notify)
	worker.StartNotifierWorker(notifier)

	router := routing.NewRouter(routing.Dependencies{
		Directory:     lookup,
		Locator:       locator,
		Classifier:    classifier,
		Conversations: intercomClient,
		Sender:        smsClient,
		Phones:        phones,
		Guard:         guard,
		Dispatcher:    dispatcher,
		Logger:        logger,
		LogoURL:       cfg.Intercom.LogoURL,
	})

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	redisPinger, _ := guard.(handlers.Pinger)
	healthHandler := handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, redisPinger)
	webhooksHandler := handlers.NewWebhooksHandler(router, logger)

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:   healthHandler,
		Webhooks: webhooksHandler,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
