package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/hookline/hookline/internal/domain"
	"github.com/hookline/hookline/pkg/logger"
)

// redisSubscriptionCache is a best-effort Redis cache in front of the
// subscription repository. Every failure degrades to a miss or a no-op so
// that a Redis outage slows the hot path down but never breaks it.
type redisSubscriptionCache struct {
	client *redis.Client
	ttl    time.Duration
	logger logger.Logger
}

// NewRedisSubscriptionCache creates a subscription cache backed by Redis.
// A nil client yields a cache that always misses.
func NewRedisSubscriptionCache(client *redis.Client, ttl time.Duration, log logger.Logger) domain.SubscriptionCache {
	return &redisSubscriptionCache{
		client: client,
		ttl:    ttl,
		logger: log,
	}
}

func subscriptionCacheKey(id string) string {
	return fmt.Sprintf("subscription:%s", id)
}

func (c *redisSubscriptionCache) Get(ctx context.Context, id string) (*domain.Subscription, bool) {
	if c.client == nil {
		return nil, false
	}

	data, err := c.client.Get(ctx, subscriptionCacheKey(id)).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		c.logger.WithField("subscription_id", id).Warn(fmt.Sprintf("Subscription cache read failed: %v", err))
		return nil, false
	}

	var sub domain.Subscription
	if err := json.Unmarshal(data, &sub); err != nil {
		// A corrupt entry would poison every read until it expires, so
		// drop it and fall through to the repository.
		c.logger.WithField("subscription_id", id).Warn(fmt.Sprintf("Dropping corrupt subscription cache entry: %v", err))
		c.client.Del(ctx, subscriptionCacheKey(id))
		return nil, false
	}

	return &sub, true
}

func (c *redisSubscriptionCache) Set(ctx context.Context, sub *domain.Subscription) {
	if c.client == nil || sub == nil {
		return
	}

	data, err := json.Marshal(sub)
	if err != nil {
		c.logger.WithField("subscription_id", sub.ID).Warn(fmt.Sprintf("Failed to marshal subscription for cache: %v", err))
		return
	}

	if err := c.client.Set(ctx, subscriptionCacheKey(sub.ID), data, c.ttl).Err(); err != nil {
		c.logger.WithField("subscription_id", sub.ID).Warn(fmt.Sprintf("Subscription cache write failed: %v", err))
	}
}

func (c *redisSubscriptionCache) Delete(ctx context.Context, id string) {
	if c.client == nil {
		return
	}

	if err := c.client.Del(ctx, subscriptionCacheKey(id)).Err(); err != nil {
		c.logger.WithField("subscription_id", id).Warn(fmt.Sprintf("Subscription cache invalidation failed: %v", err))
	}
}

// noopSubscriptionCache is used when caching is disabled by configuration.
type noopSubscriptionCache struct{}

// NewNoopSubscriptionCache returns a cache that never stores anything.
func NewNoopSubscriptionCache() domain.SubscriptionCache {
	return noopSubscriptionCache{}
}

func (noopSubscriptionCache) Get(ctx context.Context, id string) (*domain.Subscription, bool) {
	return nil, false
}

func (noopSubscriptionCache) Set(ctx context.Context, sub *domain.Subscription) {}

func (noopSubscriptionCache) Delete(ctx context.Context, id string) {}
