package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/hookline/hookline/internal/domain"
)

// deliveryRepository implements domain.DeliveryRepository for PostgreSQL
type deliveryRepository struct {
	db *sql.DB
}

// NewDeliveryRepository creates a new PostgreSQL webhook delivery repository
func NewDeliveryRepository(db *sql.DB) domain.DeliveryRepository {
	return &deliveryRepository{db: db}
}

// Insert creates a delivery row in status pending and returns it.
func (r *deliveryRepository) Insert(ctx context.Context, subscriptionID string, payload interface{}) (*domain.WebhookDelivery, error) {
	payloadJSON, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}

	delivery := &domain.WebhookDelivery{
		ID:             uuid.New().String(),
		SubscriptionID: subscriptionID,
		Payload:        payload,
		Status:         domain.DeliveryStatusPending,
		CreatedAt:      time.Now().UTC(),
	}

	query := `
		INSERT INTO webhook_deliveries (id, subscription_id, payload, status, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err = r.db.ExecContext(ctx, query,
		delivery.ID,
		delivery.SubscriptionID,
		payloadJSON,
		delivery.Status,
		delivery.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create webhook delivery: %w", err)
	}

	return delivery, nil
}

func (r *deliveryRepository) GetByID(ctx context.Context, id string) (*domain.WebhookDelivery, error) {
	query := `
		SELECT id, subscription_id, payload, status, created_at, last_attempt_at
		FROM webhook_deliveries
		WHERE id = $1
	`

	var delivery domain.WebhookDelivery
	var payloadJSON []byte
	var lastAttemptAt sql.NullTime

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&delivery.ID,
		&delivery.SubscriptionID,
		&payloadJSON,
		&delivery.Status,
		&delivery.CreatedAt,
		&lastAttemptAt,
	)
	if err == sql.ErrNoRows {
		return nil, &domain.ErrNotFound{Entity: "delivery", ID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get webhook delivery: %w", err)
	}

	if err := json.Unmarshal(payloadJSON, &delivery.Payload); err != nil {
		return nil, fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	if lastAttemptAt.Valid {
		delivery.LastAttemptAt = &lastAttemptAt.Time
	}

	return &delivery, nil
}

// UpdateStatus writes the delivery status and, when non-nil, last_attempt_at.
// Rows already in a terminal status are left untouched: the status guard in
// the WHERE clause makes terminal transitions monotonic even if two workers
// race past the pre-check.
func (r *deliveryRepository) UpdateStatus(ctx context.Context, id, status string, lastAttemptAt *time.Time) error {
	query := `
		UPDATE webhook_deliveries
		SET status = $2, last_attempt_at = COALESCE($3, last_attempt_at)
		WHERE id = $1 AND status NOT IN ('success', 'failed')
	`

	_, err := r.db.ExecContext(ctx, query, id, status, nullableTime(lastAttemptAt))
	if err != nil {
		return fmt.Errorf("failed to update delivery status: %w", err)
	}

	return nil
}

func (r *deliveryRepository) CountByStatusSince(ctx context.Context, status string, since time.Time) (int, error) {
	query := `
		SELECT COUNT(*) FROM webhook_deliveries
		WHERE status = $1 AND created_at >= $2
	`

	var count int
	if err := r.db.QueryRowContext(ctx, query, status, since).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count deliveries: %w", err)
	}

	return count, nil
}

func nullableTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
