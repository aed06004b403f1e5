package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/hookline/hookline/internal/domain"
	"github.com/hookline/hookline/pkg/logger"
)

const (
	readyKey   = "webhook:deliveries:ready"
	delayedKey = "webhook:deliveries:delayed"

	// popTimeout bounds each blocking pop so consumers notice context
	// cancellation and promote due delayed messages regularly.
	popTimeout = 1 * time.Second

	// promoteBatchSize caps how many delayed messages move per pass.
	promoteBatchSize = 100
)

// redisDeliveryQueue implements domain.DeliveryQueue on Redis with two
// structures: a list of ready messages popped FIFO, and a sorted set of
// delayed messages scored by their due time. Consumers promote due messages
// before each blocking pop.
//
// Messages are removed from Redis when popped, before the worker finishes
// them, so a worker crash can lose an in-flight message. The delivery row in
// PostgreSQL remains the source of truth for such stalls.
type redisDeliveryQueue struct {
	client *redis.Client
	logger logger.Logger
	now    func() time.Time
}

// NewRedisDeliveryQueue creates a delivery queue backed by Redis.
func NewRedisDeliveryQueue(client *redis.Client, log logger.Logger) domain.DeliveryQueue {
	return &redisDeliveryQueue{
		client: client,
		logger: log,
		now:    time.Now,
	}
}

// Enqueue schedules a dispatch of the delivery after at least delay.
func (q *redisDeliveryQueue) Enqueue(ctx context.Context, deliveryID string, attemptCount int, delay time.Duration) error {
	msg := domain.DeliveryMessage{
		DeliveryID:   deliveryID,
		AttemptCount: attemptCount,
	}

	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal delivery message: %w", err)
	}

	if delay <= 0 {
		if err := q.client.RPush(ctx, readyKey, data).Err(); err != nil {
			return fmt.Errorf("failed to enqueue delivery message: %w", err)
		}
		return nil
	}

	due := q.now().Add(delay)
	err = q.client.ZAdd(ctx, delayedKey, redis.Z{
		Score:  float64(due.UnixMilli()),
		Member: data,
	}).Err()
	if err != nil {
		return fmt.Errorf("failed to schedule delayed delivery message: %w", err)
	}

	return nil
}

// Consume blocks until a message is ready or ctx is done.
func (q *redisDeliveryQueue) Consume(ctx context.Context) (*domain.DeliveryMessage, error) {
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if err := q.promoteDue(ctx); err != nil {
			q.logger.Warn(fmt.Sprintf("Failed to promote delayed messages: %v", err))
		}

		res, err := q.client.BLPop(ctx, popTimeout, readyKey).Result()
		if err == redis.Nil {
			continue
		}
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			return nil, fmt.Errorf("failed to pop delivery message: %w", err)
		}

		// BLPop returns [key, value].
		var msg domain.DeliveryMessage
		if err := json.Unmarshal([]byte(res[1]), &msg); err != nil {
			q.logger.Warn(fmt.Sprintf("Discarding malformed delivery message: %v", err))
			continue
		}

		return &msg, nil
	}
}

// promoteDue moves delayed messages whose due time has passed onto the ready
// list. The ZRem guard keeps concurrent consumers from promoting the same
// message twice.
func (q *redisDeliveryQueue) promoteDue(ctx context.Context) error {
	nowScore := fmt.Sprintf("%d", q.now().UnixMilli())

	members, err := q.client.ZRangeByScore(ctx, delayedKey, &redis.ZRangeBy{
		Min:   "-inf",
		Max:   nowScore,
		Count: promoteBatchSize,
	}).Result()
	if err != nil {
		return err
	}

	for _, member := range members {
		removed, err := q.client.ZRem(ctx, delayedKey, member).Result()
		if err != nil {
			return err
		}
		if removed == 0 {
			continue
		}
		if err := q.client.RPush(ctx, readyKey, member).Err(); err != nil {
			return err
		}
	}

	return nil
}
