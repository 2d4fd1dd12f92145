// Package events delivers domain events to the external notifier over Redis
// pub/sub. Delivery is best-effort: a slow or unavailable broker is logged and
// never fails the transaction that produced the event.
package events

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"
	domainevents "spay.backend/internal/domain/events"
	"spay.backend/pkg/logger"
	"spay.backend/pkg/redis"
)

// publishTimeout bounds a single publish attempt.
const publishTimeout = 2 * time.Second

var redisPublish = redis.Publish

// RedisPublisher publishes domain events on a Redis channel.
type RedisPublisher struct {
	channel string
}

// NewRedisPublisher creates a publisher on the given channel.
func NewRedisPublisher(channel string) *RedisPublisher {
	return &RedisPublisher{channel: channel}
}

// Publish sends the event asynchronously. The caller's transaction has
// already committed; failures are logged, never propagated.
func (p *RedisPublisher) Publish(ctx context.Context, event *domainevents.Event) {
	payload, err := json.Marshal(event)
	if err != nil {
		logger.Error(ctx, "failed to encode domain event",
			zap.String("event_type", string(event.Type)), zap.Error(err))
		return
	}

	go func() {
		pubCtx, cancel := context.WithTimeout(context.Background(), publishTimeout)
		defer cancel()

		if err := redisPublish(pubCtx, p.channel, payload); err != nil {
			logger.Warn(pubCtx, "failed to publish domain event",
				zap.String("event_type", string(event.Type)),
				zap.String("transaction_id", event.TransactionID.String()),
				zap.Error(err))
		}
	}()
}
