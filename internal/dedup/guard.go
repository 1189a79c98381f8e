package dedup

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/sms-bridge/internal/config"
	"github.com/spec-kit/sms-bridge/internal/domain"
)

// Guard suppresses duplicate deliveries of the same inbound SMS within a short
// window. Two near-simultaneous messages from one sender can otherwise both
// observe "no active thread" and both start one; the window narrows that race
// without pretending to eliminate it.
type Guard interface {
	// Admit reports whether the message should be processed. A false return
	// means an identical message was admitted within the window.
	Admit(ctx context.Context, msg *domain.InboundSms) bool
}

// NopGuard admits everything. Used when no Redis address is configured.
type NopGuard struct{}

func (NopGuard) Admit(ctx context.Context, msg *domain.InboundSms) bool { return true }

type redisGuard struct {
	client *redis.Client
	window time.Duration
	logger *zap.Logger
}

// NewRedisGuard connects to Redis and returns a window guard. Connectivity
// problems degrade to admitting everything rather than dropping traffic.
func NewRedisGuard(cfg config.RedisConfig, window time.Duration, logger *zap.Logger) Guard {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		logger.Warn("unable to reach redis", zap.Error(err))
	} else {
		logger.Info("connected to redis")
	}

	return &redisGuard{client: client, window: window, logger: logger}
}

// Ping verifies Redis connectivity for readiness probes.
func (g *redisGuard) Ping(ctx context.Context) error {
	return g.client.Ping(ctx).Err()
}

func (g *redisGuard) Admit(ctx context.Context, msg *domain.InboundSms) bool {
	ok, err := g.client.SetNX(ctx, Key(msg), "1", g.window).Result()
	if err != nil {
		g.logger.Warn("dedup check failed, admitting", zap.Error(err))
		return true
	}
	return ok
}

// Key derives the dedup key for an inbound SMS from its sender and body.
func Key(msg *domain.InboundSms) string {
	sum := sha256.Sum256([]byte(msg.From + "\x00" + msg.Body))
	return "smsbridge:dedup:" + hex.EncodeToString(sum[:])
}
