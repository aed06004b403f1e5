package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/hookline/hookline/config"
	"github.com/hookline/hookline/internal/domain"
	"github.com/hookline/hookline/internal/metrics"
	"github.com/hookline/hookline/pkg/logger"
	"github.com/hookline/hookline/pkg/signature"
)

// maxStoredResponseBytes caps the response body kept in the attempt log.
const maxStoredResponseBytes = 1024

// DeliveryWorker consumes queue messages and executes webhook deliveries.
// It runs a fixed pool of goroutines; each processes one delivery at a time
// with at-least-once semantics, so every step tolerates redelivery.
type DeliveryWorker struct {
	deliveryRepo      domain.DeliveryRepository
	subscriptionRepo  domain.SubscriptionRepository
	subscriptionCache domain.SubscriptionCache
	attemptRepo       domain.AttemptRepository
	queue             domain.DeliveryQueue
	client            *http.Client
	cfg               config.DeliveryConfig
	metrics           *metrics.Metrics
	logger            logger.Logger

	// now and jitter are swapped in tests.
	now    func() time.Time
	jitter func() float64

	wg sync.WaitGroup
}

// NewDeliveryWorker creates a new delivery worker pool
func NewDeliveryWorker(
	deliveryRepo domain.DeliveryRepository,
	subscriptionRepo domain.SubscriptionRepository,
	subscriptionCache domain.SubscriptionCache,
	attemptRepo domain.AttemptRepository,
	queue domain.DeliveryQueue,
	cfg config.DeliveryConfig,
	m *metrics.Metrics,
	log logger.Logger,
) *DeliveryWorker {
	return &DeliveryWorker{
		deliveryRepo:      deliveryRepo,
		subscriptionRepo:  subscriptionRepo,
		subscriptionCache: subscriptionCache,
		attemptRepo:       attemptRepo,
		queue:             queue,
		client:            &http.Client{Timeout: cfg.RequestTimeout},
		cfg:               cfg,
		metrics:           m,
		logger:            log,
		now:               time.Now,
		jitter:            rand.Float64,
	}
}

// Start launches the worker pool. Workers run until ctx is cancelled; call
// Wait to block until they drain.
func (w *DeliveryWorker) Start(ctx context.Context) {
	w.logger.WithField("concurrency", w.cfg.Concurrency).Info("Starting delivery workers")

	for i := 0; i < w.cfg.Concurrency; i++ {
		w.wg.Add(1)
		go func(id int) {
			defer w.wg.Done()
			w.run(ctx, id)
		}(i)
	}
}

// Wait blocks until all workers have exited.
func (w *DeliveryWorker) Wait() {
	w.wg.Wait()
}

func (w *DeliveryWorker) run(ctx context.Context, workerID int) {
	log := w.logger.WithField("worker_id", workerID)

	for {
		msg, err := w.queue.Consume(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("Delivery worker stopping")
				return
			}
			log.Error(fmt.Sprintf("Failed to consume delivery message: %v", err))
			continue
		}

		if err := w.Process(ctx, msg); err != nil {
			log.WithField("delivery_id", msg.DeliveryID).Error(fmt.Sprintf("Failed to process delivery: %v", err))
		}
	}
}

// Process executes one dispatch of a delivery. Returning an error means the
// message could not be handled at all; attempt failures are handled inside
// and are not errors.
func (w *DeliveryWorker) Process(ctx context.Context, msg *domain.DeliveryMessage) error {
	log := w.logger.WithField("delivery_id", msg.DeliveryID)

	delivery, err := w.deliveryRepo.GetByID(ctx, msg.DeliveryID)
	if err != nil {
		if domain.IsNotFound(err) {
			// The delivery row is gone; nothing to do for this message.
			log.Warn("Dropping message for unknown delivery")
			return nil
		}
		return fmt.Errorf("failed to load delivery: %w", err)
	}

	// A redelivered message for an already settled delivery is a no-op.
	// Terminal statuses are monotonic.
	if domain.IsTerminalDeliveryStatus(delivery.Status) {
		log.WithField("status", delivery.Status).Debug("Skipping settled delivery")
		return nil
	}

	sub, err := w.getSubscription(ctx, delivery.SubscriptionID)
	if err != nil {
		if domain.IsNotFound(err) {
			// The subscription was deleted after ingestion; there is no
			// target left to deliver to. The dead end still gets an
			// attempt row so the delivery history explains the failure.
			log.Warn("Subscription gone, marking delivery failed")
			return w.failMissingSubscription(ctx, delivery.ID)
		}
		return fmt.Errorf("failed to load subscription: %w", err)
	}

	if delivery.Status != domain.DeliveryStatusProcessing {
		if err := w.deliveryRepo.UpdateStatus(ctx, delivery.ID, domain.DeliveryStatusProcessing, nil); err != nil {
			return fmt.Errorf("failed to mark delivery processing: %w", err)
		}
	}

	// Stamped before the request so it records when the attempt started.
	attemptedAt := w.now().UTC()
	result := w.attemptDelivery(ctx, sub, delivery)

	attempt := &domain.DeliveryAttempt{
		DeliveryID:   delivery.ID,
		Outcome:      result.outcome(),
		StatusCode:   result.statusCode,
		ResponseBody: result.responseBody,
		ErrorMessage: result.errorMessage,
		Timestamp:    attemptedAt,
	}
	if err := w.attemptRepo.Insert(ctx, attempt); err != nil {
		return fmt.Errorf("failed to record attempt: %w", err)
	}
	if w.metrics != nil {
		w.metrics.DeliveryAttempts.WithLabelValues(attempt.Outcome).Inc()
	}

	if result.success {
		log.WithField("attempt_number", attempt.AttemptNumber).Info("Delivery succeeded")
		return w.settle(ctx, delivery.ID, domain.DeliveryStatusSuccess, &attemptedAt)
	}

	attemptNumber := msg.AttemptCount + 1
	if attemptNumber >= w.cfg.MaxRetries+1 {
		log.WithField("attempt_number", attemptNumber).Warn("Retry budget exhausted, marking delivery failed")
		return w.settle(ctx, delivery.ID, domain.DeliveryStatusFailed, &attemptedAt)
	}

	if err := w.deliveryRepo.UpdateStatus(ctx, delivery.ID, domain.DeliveryStatusFailedAttempt, &attemptedAt); err != nil {
		return fmt.Errorf("failed to mark delivery failed_attempt: %w", err)
	}

	delay := w.retryDelay(attemptNumber)
	if err := w.queue.Enqueue(ctx, delivery.ID, attemptNumber, delay); err != nil {
		return fmt.Errorf("failed to schedule retry: %w", err)
	}

	log.WithFields(map[string]interface{}{
		"attempt_number": attemptNumber,
		"retry_delay":    delay.String(),
	}).Info("Delivery attempt failed, retry scheduled")

	return nil
}

// failMissingSubscription records a failed attempt for a delivery whose
// subscription no longer exists and settles the delivery as failed.
func (w *DeliveryWorker) failMissingSubscription(ctx context.Context, deliveryID string) error {
	now := w.now().UTC()
	errMsg := "subscription missing"

	attempt := &domain.DeliveryAttempt{
		DeliveryID:   deliveryID,
		Outcome:      domain.AttemptOutcomeFailed,
		ErrorMessage: &errMsg,
		Timestamp:    now,
	}
	if err := w.attemptRepo.Insert(ctx, attempt); err != nil {
		return fmt.Errorf("failed to record attempt: %w", err)
	}
	if w.metrics != nil {
		w.metrics.DeliveryAttempts.WithLabelValues(domain.AttemptOutcomeFailed).Inc()
	}

	return w.settle(ctx, deliveryID, domain.DeliveryStatusFailed, &now)
}

// settle writes a terminal status and records the settlement metric.
func (w *DeliveryWorker) settle(ctx context.Context, deliveryID, status string, lastAttemptAt *time.Time) error {
	if err := w.deliveryRepo.UpdateStatus(ctx, deliveryID, status, lastAttemptAt); err != nil {
		return fmt.Errorf("failed to settle delivery: %w", err)
	}
	if w.metrics != nil {
		w.metrics.DeliveriesSettled.WithLabelValues(status).Inc()
	}
	return nil
}

// attemptResult captures the outcome of one HTTP request to the target.
type attemptResult struct {
	success      bool
	statusCode   *int
	responseBody *string
	errorMessage *string
}

func (r attemptResult) outcome() string {
	if r.success {
		return domain.AttemptOutcomeSuccess
	}
	return domain.AttemptOutcomeFailed
}

// attemptDelivery POSTs the payload to the subscription target. Any 2xx
// response is success; everything else, including transport errors, is a
// failed attempt.
func (w *DeliveryWorker) attemptDelivery(ctx context.Context, sub *domain.Subscription, delivery *domain.WebhookDelivery) attemptResult {
	body, err := json.Marshal(delivery.Payload)
	if err != nil {
		msg := fmt.Sprintf("failed to marshal payload: %v", err)
		return attemptResult{errorMessage: &msg}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, sub.TargetURL, bytes.NewReader(body))
	if err != nil {
		msg := fmt.Sprintf("failed to build request: %v", err)
		return attemptResult{errorMessage: &msg}
	}
	req.Header.Set("Content-Type", "application/json")
	if sub.SecretKey != "" {
		req.Header.Set(signature.Header, signature.Compute(sub.SecretKey, body))
	}

	resp, err := w.client.Do(req)
	if err != nil {
		var msg string
		var netErr net.Error
		if errors.As(err, &netErr) && netErr.Timeout() {
			msg = fmt.Sprintf("request timed out after %s", w.cfg.RequestTimeout)
		} else {
			msg = fmt.Sprintf("connection error: %v", err)
		}
		return attemptResult{errorMessage: &msg}
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxStoredResponseBytes))
	bodyStr := string(respBody)

	result := attemptResult{
		statusCode:   &resp.StatusCode,
		responseBody: &bodyStr,
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		result.success = true
	} else {
		msg := fmt.Sprintf("target responded with status %d", resp.StatusCode)
		result.errorMessage = &msg
	}

	return result
}

// retryDelay computes the backoff before retry attemptNumber+1: the base
// delay doubles per failed attempt, capped, then spread with +/-50% jitter
// so synchronized failures do not retry in lockstep.
func (w *DeliveryWorker) retryDelay(attemptNumber int) time.Duration {
	delay := w.cfg.RetryBase
	for i := 1; i < attemptNumber; i++ {
		delay *= 2
		if delay >= w.cfg.RetryCap {
			delay = w.cfg.RetryCap
			break
		}
	}
	if delay > w.cfg.RetryCap {
		delay = w.cfg.RetryCap
	}

	factor := 0.5 + w.jitter()
	return time.Duration(float64(delay) * factor)
}

func (w *DeliveryWorker) getSubscription(ctx context.Context, id string) (*domain.Subscription, error) {
	if sub, found := w.subscriptionCache.Get(ctx, id); found {
		return sub, nil
	}

	sub, err := w.subscriptionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	w.subscriptionCache.Set(ctx, sub)
	return sub, nil
}
