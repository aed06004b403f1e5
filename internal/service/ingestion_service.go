package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hookline/hookline/internal/domain"
	"github.com/hookline/hookline/internal/metrics"
	"github.com/hookline/hookline/pkg/logger"
	"github.com/hookline/hookline/pkg/signature"
)

// IngestionService accepts raw webhook bodies, persists them as deliveries
// and hands them to the queue. Acceptance is decoupled from delivery: a 202
// only means the payload is durably recorded and scheduled.
type IngestionService struct {
	subscriptionRepo  domain.SubscriptionRepository
	subscriptionCache domain.SubscriptionCache
	deliveryRepo      domain.DeliveryRepository
	queue             domain.DeliveryQueue
	metrics           *metrics.Metrics
	logger            logger.Logger
}

// NewIngestionService creates a new ingestion service
func NewIngestionService(
	subscriptionRepo domain.SubscriptionRepository,
	subscriptionCache domain.SubscriptionCache,
	deliveryRepo domain.DeliveryRepository,
	queue domain.DeliveryQueue,
	m *metrics.Metrics,
	log logger.Logger,
) *IngestionService {
	return &IngestionService{
		subscriptionRepo:  subscriptionRepo,
		subscriptionCache: subscriptionCache,
		deliveryRepo:      deliveryRepo,
		queue:             queue,
		metrics:           m,
		logger:            log,
	}
}

// Ingest validates and records one incoming webhook for a subscription.
// signatureHeader is the raw X-Webhook-Signature-256 header value, empty
// when absent. The signature is verified over the raw body bytes before any
// JSON parsing so re-serialization differences cannot break verification.
func (s *IngestionService) Ingest(ctx context.Context, subscriptionID string, body []byte, signatureHeader string) (*domain.WebhookDelivery, error) {
	sub, err := s.getSubscription(ctx, subscriptionID)
	if err != nil {
		return nil, err
	}

	if sub.SecretKey != "" && !signature.Verify(sub.SecretKey, body, signatureHeader) {
		s.logger.WithField("subscription_id", subscriptionID).Warn("Rejected webhook with invalid signature")
		return nil, domain.ErrInvalidSignature
	}

	// An empty body is accepted as an empty event.
	if len(body) == 0 {
		body = []byte("{}")
	}

	var payload interface{}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, &domain.InvalidPayloadError{Message: err.Error()}
	}

	delivery, err := s.deliveryRepo.Insert(ctx, subscriptionID, payload)
	if err != nil {
		return nil, fmt.Errorf("failed to record delivery: %w", err)
	}

	if err := s.queue.Enqueue(ctx, delivery.ID, 0, 0); err != nil {
		// The row stays pending; without a queue message nothing will pick
		// it up, so surface the failure to the caller.
		s.logger.WithFields(map[string]interface{}{
			"delivery_id":     delivery.ID,
			"subscription_id": subscriptionID,
		}).Error(fmt.Sprintf("Failed to enqueue delivery: %v", err))
		return nil, fmt.Errorf("failed to enqueue delivery: %w", err)
	}

	if s.metrics != nil {
		s.metrics.WebhooksIngested.Inc()
	}

	s.logger.WithFields(map[string]interface{}{
		"delivery_id":     delivery.ID,
		"subscription_id": subscriptionID,
	}).Info("Webhook accepted")

	return delivery, nil
}

// getSubscription reads through the cache, falling back to the repository
// and repopulating the cache on a miss.
func (s *IngestionService) getSubscription(ctx context.Context, id string) (*domain.Subscription, error) {
	if sub, found := s.subscriptionCache.Get(ctx, id); found {
		return sub, nil
	}

	sub, err := s.subscriptionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	s.subscriptionCache.Set(ctx, sub)
	return sub, nil
}
