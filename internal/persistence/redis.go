package persistence

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/autoserve/support-service/internal/config"
)

// Redis wraps the go-redis client. It backs the best-effort unread reply
// counters; Postgres remains the source of truth for read state.
type Redis struct {
	Client *redis.Client
}

// NewRedis connects to Redis using the provided configuration.
func NewRedis(cfg config.RedisConfig, logger *zap.Logger) *Redis {
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

	return &Redis{Client: client}
}

// Close closes the client.
func (r *Redis) Close() {
	if r != nil && r.Client != nil {
		_ = r.Client.Close()
	}
}

// Ping verifies Redis connectivity.
func (r *Redis) Ping(ctx context.Context) error {
	if r == nil || r.Client == nil {
		return errors.New("redis client not configured")
	}
	return r.Client.Ping(ctx).Err()
}

func customerUnreadKey(ticketID string) string {
	return "ticket:" + ticketID + ":unread:customer"
}

// IncrUnreadByCustomer bumps the customer-facing unread counter for a ticket.
func (r *Redis) IncrUnreadByCustomer(ctx context.Context, ticketID string) error {
	if r == nil || r.Client == nil {
		return errors.New("redis client not configured")
	}
	return r.Client.Incr(ctx, customerUnreadKey(ticketID)).Err()
}

// ClearUnreadByCustomer drops the counter after the customer has read the
// thread or the ticket is deleted.
func (r *Redis) ClearUnreadByCustomer(ctx context.Context, ticketID string) error {
	if r == nil || r.Client == nil {
		return errors.New("redis client not configured")
	}
	return r.Client.Del(ctx, customerUnreadKey(ticketID)).Err()
}

// UnreadByCustomer reads the current counter value; missing keys count zero.
func (r *Redis) UnreadByCustomer(ctx context.Context, ticketID string) (int64, error) {
	if r == nil || r.Client == nil {
		return 0, errors.New("redis client not configured")
	}
	val, err := r.Client.Get(ctx, customerUnreadKey(ticketID)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return val, err
}
