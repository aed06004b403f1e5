package service

import (
	"context"
	"errors"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hookline/hookline/internal/domain"
	"github.com/hookline/hookline/internal/domain/mocks"
	"github.com/hookline/hookline/pkg/logger"
	"github.com/hookline/hookline/pkg/signature"
)

type ingestionFixture struct {
	subscriptionRepo  *mocks.MockSubscriptionRepository
	subscriptionCache *mocks.MockSubscriptionCache
	deliveryRepo      *mocks.MockDeliveryRepository
	queue             *mocks.MockDeliveryQueue
	service           *IngestionService
}

func newIngestionFixture(t *testing.T) (*ingestionFixture, *gomock.Controller) {
	ctrl := gomock.NewController(t)

	f := &ingestionFixture{
		subscriptionRepo:  mocks.NewMockSubscriptionRepository(ctrl),
		subscriptionCache: mocks.NewMockSubscriptionCache(ctrl),
		deliveryRepo:      mocks.NewMockDeliveryRepository(ctrl),
		queue:             mocks.NewMockDeliveryQueue(ctrl),
	}
	f.service = NewIngestionService(
		f.subscriptionRepo,
		f.subscriptionCache,
		f.deliveryRepo,
		f.queue,
		nil,
		logger.NewTestLogger(t),
	)
	return f, ctrl
}

func TestIngestionService_Ingest_Success(t *testing.T) {
	f, ctrl := newIngestionFixture(t)
	defer ctrl.Finish()
	ctx := context.Background()

	sub := &domain.Subscription{ID: "sub-1", TargetURL: "https://example.com/hook"}
	body := []byte(`{"event":"order.created"}`)

	f.subscriptionCache.EXPECT().Get(ctx, "sub-1").Return(nil, false)
	f.subscriptionRepo.EXPECT().GetByID(ctx, "sub-1").Return(sub, nil)
	f.subscriptionCache.EXPECT().Set(ctx, sub)
	f.deliveryRepo.EXPECT().
		Insert(ctx, "sub-1", map[string]interface{}{"event": "order.created"}).
		Return(&domain.WebhookDelivery{ID: "del-1", SubscriptionID: "sub-1", Status: domain.DeliveryStatusPending}, nil)
	f.queue.EXPECT().Enqueue(ctx, "del-1", 0, gomock.Any()).Return(nil)

	delivery, err := f.service.Ingest(ctx, "sub-1", body, "")
	require.NoError(t, err)
	assert.Equal(t, "del-1", delivery.ID)
	assert.Equal(t, domain.DeliveryStatusPending, delivery.Status)
}

func TestIngestionService_Ingest_CacheHitSkipsRepository(t *testing.T) {
	f, ctrl := newIngestionFixture(t)
	defer ctrl.Finish()
	ctx := context.Background()

	sub := &domain.Subscription{ID: "sub-1", TargetURL: "https://example.com/hook"}

	f.subscriptionCache.EXPECT().Get(ctx, "sub-1").Return(sub, true)
	f.deliveryRepo.EXPECT().
		Insert(ctx, "sub-1", gomock.Any()).
		Return(&domain.WebhookDelivery{ID: "del-1"}, nil)
	f.queue.EXPECT().Enqueue(ctx, "del-1", 0, gomock.Any()).Return(nil)

	_, err := f.service.Ingest(ctx, "sub-1", []byte(`{}`), "")
	require.NoError(t, err)
}

func TestIngestionService_Ingest_UnknownSubscription(t *testing.T) {
	f, ctrl := newIngestionFixture(t)
	defer ctrl.Finish()
	ctx := context.Background()

	f.subscriptionCache.EXPECT().Get(ctx, "missing").Return(nil, false)
	f.subscriptionRepo.EXPECT().GetByID(ctx, "missing").
		Return(nil, &domain.ErrNotFound{Entity: "subscription", ID: "missing"})

	_, err := f.service.Ingest(ctx, "missing", []byte(`{}`), "")
	assert.True(t, domain.IsNotFound(err))
}

func TestIngestionService_Ingest_SignatureRequired(t *testing.T) {
	f, ctrl := newIngestionFixture(t)
	defer ctrl.Finish()
	ctx := context.Background()

	sub := &domain.Subscription{ID: "sub-1", TargetURL: "https://example.com/hook", SecretKey: "secret"}
	body := []byte(`{"event":"order.created"}`)

	t.Run("missing signature rejected", func(t *testing.T) {
		f.subscriptionCache.EXPECT().Get(ctx, "sub-1").Return(sub, true)

		_, err := f.service.Ingest(ctx, "sub-1", body, "")
		assert.ErrorIs(t, err, domain.ErrInvalidSignature)
	})

	t.Run("wrong signature rejected", func(t *testing.T) {
		f.subscriptionCache.EXPECT().Get(ctx, "sub-1").Return(sub, true)

		_, err := f.service.Ingest(ctx, "sub-1", body, "sha256=deadbeef")
		assert.ErrorIs(t, err, domain.ErrInvalidSignature)
	})

	t.Run("valid signature accepted", func(t *testing.T) {
		f.subscriptionCache.EXPECT().Get(ctx, "sub-1").Return(sub, true)
		f.deliveryRepo.EXPECT().
			Insert(ctx, "sub-1", gomock.Any()).
			Return(&domain.WebhookDelivery{ID: "del-1"}, nil)
		f.queue.EXPECT().Enqueue(ctx, "del-1", 0, gomock.Any()).Return(nil)

		_, err := f.service.Ingest(ctx, "sub-1", body, signature.Compute("secret", body))
		require.NoError(t, err)
	})
}

func TestIngestionService_Ingest_EmptyBodyBecomesEmptyObject(t *testing.T) {
	f, ctrl := newIngestionFixture(t)
	defer ctrl.Finish()
	ctx := context.Background()

	sub := &domain.Subscription{ID: "sub-1", TargetURL: "https://example.com/hook"}

	f.subscriptionCache.EXPECT().Get(ctx, "sub-1").Return(sub, true)
	f.deliveryRepo.EXPECT().
		Insert(ctx, "sub-1", map[string]interface{}{}).
		Return(&domain.WebhookDelivery{ID: "del-1"}, nil)
	f.queue.EXPECT().Enqueue(ctx, "del-1", 0, gomock.Any()).Return(nil)

	_, err := f.service.Ingest(ctx, "sub-1", nil, "")
	require.NoError(t, err)
}

func TestIngestionService_Ingest_InvalidJSON(t *testing.T) {
	f, ctrl := newIngestionFixture(t)
	defer ctrl.Finish()
	ctx := context.Background()

	sub := &domain.Subscription{ID: "sub-1", TargetURL: "https://example.com/hook"}

	f.subscriptionCache.EXPECT().Get(ctx, "sub-1").Return(sub, true)

	_, err := f.service.Ingest(ctx, "sub-1", []byte(`{not json`), "")

	var invalidPayload *domain.InvalidPayloadError
	assert.True(t, errors.As(err, &invalidPayload))
}

func TestIngestionService_Ingest_EnqueueFailureSurfaces(t *testing.T) {
	f, ctrl := newIngestionFixture(t)
	defer ctrl.Finish()
	ctx := context.Background()

	sub := &domain.Subscription{ID: "sub-1", TargetURL: "https://example.com/hook"}

	f.subscriptionCache.EXPECT().Get(ctx, "sub-1").Return(sub, true)
	f.deliveryRepo.EXPECT().
		Insert(ctx, "sub-1", gomock.Any()).
		Return(&domain.WebhookDelivery{ID: "del-1"}, nil)
	f.queue.EXPECT().Enqueue(ctx, "del-1", 0, gomock.Any()).Return(errors.New("redis down"))

	_, err := f.service.Ingest(ctx, "sub-1", []byte(`{}`), "")
	assert.Error(t, err)
}
