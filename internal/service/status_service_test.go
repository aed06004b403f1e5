package service

import (
	"context"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hookline/hookline/internal/domain"
	"github.com/hookline/hookline/internal/domain/mocks"
	"github.com/hookline/hookline/pkg/logger"
)

type statusFixture struct {
	deliveryRepo     *mocks.MockDeliveryRepository
	attemptRepo      *mocks.MockAttemptRepository
	subscriptionRepo *mocks.MockSubscriptionRepository
	service          *StatusService
}

func newStatusFixture(t *testing.T, ctrl *gomock.Controller) *statusFixture {
	f := &statusFixture{
		deliveryRepo:     mocks.NewMockDeliveryRepository(ctrl),
		attemptRepo:      mocks.NewMockAttemptRepository(ctrl),
		subscriptionRepo: mocks.NewMockSubscriptionRepository(ctrl),
	}
	f.service = NewStatusService(f.deliveryRepo, f.attemptRepo, f.subscriptionRepo, logger.NewTestLogger(t))
	return f
}

func TestStatusService_GetDeliveryStatus(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	f := newStatusFixture(t, ctrl)
	ctx := context.Background()

	t.Run("returns delivery with attempt history", func(t *testing.T) {
		delivery := &domain.WebhookDelivery{ID: "del-1", Status: domain.DeliveryStatusFailedAttempt}
		attempts := []*domain.DeliveryAttempt{
			{DeliveryID: "del-1", AttemptNumber: 1, Outcome: domain.AttemptOutcomeFailed},
			{DeliveryID: "del-1", AttemptNumber: 2, Outcome: domain.AttemptOutcomeFailed},
		}

		f.deliveryRepo.EXPECT().GetByID(ctx, "del-1").Return(delivery, nil)
		f.attemptRepo.EXPECT().ListByDelivery(ctx, "del-1").Return(attempts, nil)

		report, err := f.service.GetDeliveryStatus(ctx, "del-1")
		require.NoError(t, err)
		assert.Equal(t, delivery, report.Delivery)
		assert.Len(t, report.Attempts, 2)
	})

	t.Run("unknown delivery", func(t *testing.T) {
		f.deliveryRepo.EXPECT().GetByID(ctx, "missing").
			Return(nil, &domain.ErrNotFound{Entity: "delivery", ID: "missing"})

		_, err := f.service.GetDeliveryStatus(ctx, "missing")
		assert.True(t, domain.IsNotFound(err))
	})
}

func TestStatusService_ListRecentAttempts(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	f := newStatusFixture(t, ctrl)
	ctx := context.Background()

	t.Run("returns newest attempts", func(t *testing.T) {
		f.subscriptionRepo.EXPECT().GetByID(ctx, "sub-1").
			Return(&domain.Subscription{ID: "sub-1", TargetURL: "https://example.com"}, nil)
		f.attemptRepo.EXPECT().ListRecentBySubscription(ctx, "sub-1", 20).
			Return([]*domain.DeliveryAttempt{{DeliveryID: "del-1", AttemptNumber: 1}}, nil)

		attempts, err := f.service.ListRecentAttempts(ctx, "sub-1", 0)
		require.NoError(t, err)
		assert.Len(t, attempts, 1)
	})

	t.Run("unknown subscription", func(t *testing.T) {
		f.subscriptionRepo.EXPECT().GetByID(ctx, "missing").
			Return(nil, &domain.ErrNotFound{Entity: "subscription", ID: "missing"})

		_, err := f.service.ListRecentAttempts(ctx, "missing", 20)
		assert.True(t, domain.IsNotFound(err))
	})
}

func TestStatusService_GetStats(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	f := newStatusFixture(t, ctrl)
	ctx := context.Background()

	now := time.Date(2026, 8, 24, 12, 0, 0, 0, time.UTC)
	f.service.now = func() time.Time { return now }
	since := now.Add(-24 * time.Hour)

	f.subscriptionRepo.EXPECT().Count(ctx).Return(3, nil)
	f.deliveryRepo.EXPECT().CountByStatusSince(ctx, domain.DeliveryStatusSuccess, since).Return(17, nil)
	f.deliveryRepo.EXPECT().CountByStatusSince(ctx, domain.DeliveryStatusFailed, since).Return(2, nil)

	stats, err := f.service.GetStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.TotalSubscriptions)
	assert.Equal(t, 17, stats.RecentSuccessCount)
	assert.Equal(t, 2, stats.RecentFailedCount)
}

func TestStatusService_GetActivity(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	f := newStatusFixture(t, ctrl)
	ctx := context.Background()

	base := time.Date(2026, 8, 24, 12, 0, 0, 0, time.UTC)

	subs := []*domain.Subscription{
		{ID: "sub-1", TargetURL: "https://example.com/hook", CreatedAt: base.Add(-2 * time.Minute)},
	}
	attempts := []*domain.DeliveryAttempt{
		{ID: 7, DeliveryID: "del-1", AttemptNumber: 1, Outcome: domain.AttemptOutcomeSuccess, Timestamp: base.Add(-1 * time.Minute)},
		{ID: 6, DeliveryID: "del-2", AttemptNumber: 2, Outcome: domain.AttemptOutcomeFailed, Timestamp: base.Add(-3 * time.Minute)},
	}

	f.subscriptionRepo.EXPECT().ListRecent(ctx, 20).Return(subs, nil)
	f.attemptRepo.EXPECT().ListRecent(ctx, 20).Return(attempts, nil)

	items, err := f.service.GetActivity(ctx, 20)
	require.NoError(t, err)
	require.Len(t, items, 3)

	// Merged feed is newest first across both sources.
	assert.Equal(t, domain.ActivityTypeDeliveryAttempt, items[0].Type)
	assert.Equal(t, "7", items[0].ID)
	assert.Equal(t, domain.ActivityTypeSubscriptionCreated, items[1].Type)
	assert.Equal(t, "sub-1", items[1].ID)
	assert.Equal(t, domain.ActivityTypeDeliveryAttempt, items[2].Type)
	assert.Equal(t, "6", items[2].ID)
}

func TestStatusService_GetActivity_TruncatesToLimit(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	f := newStatusFixture(t, ctrl)
	ctx := context.Background()

	base := time.Now().UTC()
	subs := []*domain.Subscription{
		{ID: "sub-1", TargetURL: "https://a.example.com", CreatedAt: base},
		{ID: "sub-2", TargetURL: "https://b.example.com", CreatedAt: base.Add(-time.Minute)},
	}
	attempts := []*domain.DeliveryAttempt{
		{ID: 1, DeliveryID: "del-1", AttemptNumber: 1, Outcome: domain.AttemptOutcomeSuccess, Timestamp: base.Add(-2 * time.Minute)},
	}

	f.subscriptionRepo.EXPECT().ListRecent(ctx, 2).Return(subs, nil)
	f.attemptRepo.EXPECT().ListRecent(ctx, 2).Return(attempts, nil)

	items, err := f.service.GetActivity(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, items, 2)
}
