package service

import (
	"context"
	"fmt"

	"github.com/hookline/hookline/internal/domain"
	"github.com/hookline/hookline/pkg/logger"
)

// SubscriptionService implements subscription management. Writes invalidate
// the cache entry rather than refreshing it, so the next delivery re-reads
// the row from the store.
type SubscriptionService struct {
	repo   domain.SubscriptionRepository
	cache  domain.SubscriptionCache
	logger logger.Logger
}

// NewSubscriptionService creates a new subscription service
func NewSubscriptionService(repo domain.SubscriptionRepository, cache domain.SubscriptionCache, log logger.Logger) *SubscriptionService {
	return &SubscriptionService{
		repo:   repo,
		cache:  cache,
		logger: log,
	}
}

// Create registers a new webhook subscription.
func (s *SubscriptionService) Create(ctx context.Context, sub *domain.Subscription) error {
	if err := sub.Validate(); err != nil {
		return err
	}

	if err := s.repo.Create(ctx, sub); err != nil {
		return fmt.Errorf("failed to create subscription: %w", err)
	}

	s.logger.WithField("subscription_id", sub.ID).Info("Subscription created")
	return nil
}

func (s *SubscriptionService) Get(ctx context.Context, id string) (*domain.Subscription, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *SubscriptionService) List(ctx context.Context, limit, offset int) ([]*domain.Subscription, int, error) {
	if limit <= 0 || limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.List(ctx, limit, offset)
}

// Update applies a partial update. Nil fields keep their current value; an
// explicit empty SecretKey removes the secret.
func (s *SubscriptionService) Update(ctx context.Context, id string, update *domain.SubscriptionUpdate) (*domain.Subscription, error) {
	sub, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if update.TargetURL != nil {
		sub.TargetURL = *update.TargetURL
	}
	if update.SecretKey != nil {
		sub.SecretKey = *update.SecretKey
	}

	if err := sub.Validate(); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, sub); err != nil {
		return nil, fmt.Errorf("failed to update subscription: %w", err)
	}

	// Invalidate so in-flight deliveries pick up the new target and secret
	// on their next cache miss.
	s.cache.Delete(ctx, id)

	s.logger.WithField("subscription_id", id).Info("Subscription updated")
	return sub, nil
}

// Delete removes a subscription. Deliveries already recorded for it will
// settle as failed when the worker finds the subscription gone.
func (s *SubscriptionService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.cache.Delete(ctx, id)

	s.logger.WithField("subscription_id", id).Info("Subscription deleted")
	return nil
}
