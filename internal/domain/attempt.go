package domain

//go:generate mockgen -destination mocks/mock_attempt_repository.go -package mocks github.com/hookline/hookline/internal/domain AttemptRepository

import (
	"context"
	"time"
)

// DeliveryAttempt is one HTTP request executed against a target for a
// delivery. Rows are append-only; only the retention sweeper deletes them.
type DeliveryAttempt struct {
	ID            int64     `json:"id"`
	DeliveryID    string    `json:"delivery_id"`
	AttemptNumber int       `json:"attempt_number"`
	Outcome       string    `json:"outcome"`
	StatusCode    *int      `json:"status_code,omitempty"`
	ResponseBody  *string   `json:"response_body,omitempty"`
	ErrorMessage  *string   `json:"error_message,omitempty"`
	Timestamp     time.Time `json:"timestamp"`
}

// Attempt outcome constants
const (
	AttemptOutcomeSuccess = "success"
	AttemptOutcomeFailed  = "failed"
)

// AttemptRepository defines data access for delivery attempt logs.
type AttemptRepository interface {
	// Insert appends an attempt row and fills in the server-assigned ID and
	// AttemptNumber on the passed struct. The attempt number is assigned as
	// max(existing)+1 for the delivery under a unique constraint, so the
	// per-delivery sequence stays contiguous even if a crashed worker's
	// message is redelivered and double-logs a failure.
	Insert(ctx context.Context, attempt *DeliveryAttempt) error
	ListByDelivery(ctx context.Context, deliveryID string) ([]*DeliveryAttempt, error)
	// ListRecentBySubscription returns the newest attempts across all
	// deliveries of a subscription, ordered by timestamp descending.
	ListRecentBySubscription(ctx context.Context, subscriptionID string, limit int) ([]*DeliveryAttempt, error)
	// DeleteOlderThan removes attempts with timestamp before cutoff and
	// returns the number of rows deleted.
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
	ListRecent(ctx context.Context, limit int) ([]*DeliveryAttempt, error)
}
