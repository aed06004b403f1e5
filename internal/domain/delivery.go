package domain

//go:generate mockgen -destination mocks/mock_delivery_repository.go -package mocks github.com/hookline/hookline/internal/domain DeliveryRepository
//go:generate mockgen -destination mocks/mock_delivery_queue.go -package mocks github.com/hookline/hookline/internal/domain DeliveryQueue

import (
	"context"
	"time"
)

// WebhookDelivery is one payload-to-target task with an evolving status.
// Payload holds the parsed JSON value as received (object or array).
type WebhookDelivery struct {
	ID             string      `json:"id"`
	SubscriptionID string      `json:"subscription_id"`
	Payload        interface{} `json:"payload"`
	Status         string      `json:"status"`
	CreatedAt      time.Time   `json:"created_at"`
	LastAttemptAt  *time.Time  `json:"last_attempt_at,omitempty"`
}

// Delivery status constants
const (
	DeliveryStatusPending       = "pending"
	DeliveryStatusProcessing    = "processing"
	DeliveryStatusFailedAttempt = "failed_attempt"
	DeliveryStatusSuccess       = "success"
	DeliveryStatusFailed        = "failed"
)

// IsTerminalDeliveryStatus reports whether no transition may leave status.
func IsTerminalDeliveryStatus(status string) bool {
	return status == DeliveryStatusSuccess || status == DeliveryStatusFailed
}

// DeliveryRepository defines data access for webhook deliveries. The store
// is the source of truth; only the worker mutates a delivery after insert.
type DeliveryRepository interface {
	// Insert creates a delivery in status pending and returns the stored row.
	Insert(ctx context.Context, subscriptionID string, payload interface{}) (*WebhookDelivery, error)
	GetByID(ctx context.Context, id string) (*WebhookDelivery, error)
	// UpdateStatus writes status and, when non-nil, last_attempt_at.
	// Terminal rows are never overwritten; updating one affects zero rows
	// and returns nil.
	UpdateStatus(ctx context.Context, id, status string, lastAttemptAt *time.Time) error
	CountByStatusSince(ctx context.Context, status string, since time.Time) (int, error)
}

// DeliveryMessage is the queue envelope for one dispatch of a delivery.
// AttemptCount is 0 on first dispatch and incremented on each retry
// re-enqueue, so attempt numbers are AttemptCount+1.
type DeliveryMessage struct {
	DeliveryID   string `json:"delivery_id"`
	AttemptCount int    `json:"attempt_count"`
}

// DeliveryQueue is a FIFO work queue with per-message delivery delay.
// Semantics are at-least-once: consumers must tolerate redelivery.
type DeliveryQueue interface {
	// Enqueue schedules a dispatch after at least delay. delay <= 0 means
	// immediately.
	Enqueue(ctx context.Context, deliveryID string, attemptCount int, delay time.Duration) error
	// Consume blocks until a message is available or ctx is done.
	Consume(ctx context.Context) (*DeliveryMessage, error)
}
