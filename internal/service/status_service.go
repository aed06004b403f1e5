package service

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/hookline/hookline/internal/domain"
	"github.com/hookline/hookline/pkg/logger"
)

// statsWindow is the lookback for the recent success/failure counters.
const statsWindow = 24 * time.Hour

// StatusService serves read-only observability views: per-delivery status,
// per-subscription attempt history, system stats and the activity feed.
type StatusService struct {
	deliveryRepo     domain.DeliveryRepository
	attemptRepo      domain.AttemptRepository
	subscriptionRepo domain.SubscriptionRepository
	logger           logger.Logger

	now func() time.Time
}

// NewStatusService creates a new status service
func NewStatusService(
	deliveryRepo domain.DeliveryRepository,
	attemptRepo domain.AttemptRepository,
	subscriptionRepo domain.SubscriptionRepository,
	log logger.Logger,
) *StatusService {
	return &StatusService{
		deliveryRepo:     deliveryRepo,
		attemptRepo:      attemptRepo,
		subscriptionRepo: subscriptionRepo,
		logger:           log,
		now:              time.Now,
	}
}

// GetDeliveryStatus returns a delivery with its full attempt history,
// ordered by attempt number.
func (s *StatusService) GetDeliveryStatus(ctx context.Context, deliveryID string) (*domain.DeliveryStatusReport, error) {
	delivery, err := s.deliveryRepo.GetByID(ctx, deliveryID)
	if err != nil {
		return nil, err
	}

	attempts, err := s.attemptRepo.ListByDelivery(ctx, deliveryID)
	if err != nil {
		return nil, fmt.Errorf("failed to list attempts: %w", err)
	}

	return &domain.DeliveryStatusReport{
		Delivery: delivery,
		Attempts: attempts,
	}, nil
}

// ListRecentAttempts returns the newest attempts across all deliveries of a
// subscription.
func (s *StatusService) ListRecentAttempts(ctx context.Context, subscriptionID string, limit int) ([]*domain.DeliveryAttempt, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	// Distinguish "no attempts yet" from "no such subscription".
	if _, err := s.subscriptionRepo.GetByID(ctx, subscriptionID); err != nil {
		return nil, err
	}

	attempts, err := s.attemptRepo.ListRecentBySubscription(ctx, subscriptionID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent attempts: %w", err)
	}

	return attempts, nil
}

// GetStats returns the dashboard counters.
func (s *StatusService) GetStats(ctx context.Context) (*domain.SystemStats, error) {
	total, err := s.subscriptionRepo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count subscriptions: %w", err)
	}

	since := s.now().UTC().Add(-statsWindow)

	succeeded, err := s.deliveryRepo.CountByStatusSince(ctx, domain.DeliveryStatusSuccess, since)
	if err != nil {
		return nil, fmt.Errorf("failed to count succeeded deliveries: %w", err)
	}

	failed, err := s.deliveryRepo.CountByStatusSince(ctx, domain.DeliveryStatusFailed, since)
	if err != nil {
		return nil, fmt.Errorf("failed to count failed deliveries: %w", err)
	}

	return &domain.SystemStats{
		TotalSubscriptions: total,
		RecentSuccessCount: succeeded,
		RecentFailedCount:  failed,
	}, nil
}

// GetActivity merges recent subscription creations and delivery attempts
// into one feed, newest first.
func (s *StatusService) GetActivity(ctx context.Context, limit int) ([]*domain.ActivityItem, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	subs, err := s.subscriptionRepo.ListRecent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent subscriptions: %w", err)
	}

	attempts, err := s.attemptRepo.ListRecent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent attempts: %w", err)
	}

	items := make([]*domain.ActivityItem, 0, len(subs)+len(attempts))
	for _, sub := range subs {
		items = append(items, &domain.ActivityItem{
			Type:      domain.ActivityTypeSubscriptionCreated,
			ID:        sub.ID,
			Timestamp: sub.CreatedAt,
			Details:   fmt.Sprintf("subscription for %s", sub.TargetURL),
		})
	}
	for _, attempt := range attempts {
		details := fmt.Sprintf("attempt %d for delivery %s: %s", attempt.AttemptNumber, attempt.DeliveryID, attempt.Outcome)
		items = append(items, &domain.ActivityItem{
			Type:      domain.ActivityTypeDeliveryAttempt,
			ID:        strconv.FormatInt(attempt.ID, 10),
			Timestamp: attempt.Timestamp,
			Details:   details,
		})
	}

	sort.Slice(items, func(i, j int) bool {
		return items[i].Timestamp.After(items[j].Timestamp)
	})

	if len(items) > limit {
		items = items[:limit]
	}

	return items, nil
}
