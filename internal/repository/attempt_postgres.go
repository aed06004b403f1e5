package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/hookline/hookline/internal/domain"
)

// attemptRepository implements domain.AttemptRepository for PostgreSQL
type attemptRepository struct {
	db *sql.DB
}

// NewAttemptRepository creates a new PostgreSQL delivery attempt repository
func NewAttemptRepository(db *sql.DB) domain.AttemptRepository {
	return &attemptRepository{db: db}
}

// Insert appends an attempt row. The attempt number is assigned in SQL as
// max(existing)+1 for the delivery, which keeps the per-delivery sequence
// contiguous under the unique constraint even when a redelivered queue
// message double-logs a failure.
func (r *attemptRepository) Insert(ctx context.Context, attempt *domain.DeliveryAttempt) error {
	if attempt.Timestamp.IsZero() {
		attempt.Timestamp = time.Now().UTC()
	}

	query := `
		INSERT INTO delivery_attempts
			(delivery_id, attempt_number, outcome, status_code, response_body, error_message, timestamp)
		SELECT $1, COALESCE(MAX(attempt_number), 0) + 1, $2, $3, $4, $5, $6
		FROM delivery_attempts
		WHERE delivery_id = $1
		RETURNING id, attempt_number
	`

	err := r.db.QueryRowContext(ctx, query,
		attempt.DeliveryID,
		attempt.Outcome,
		nullableInt(attempt.StatusCode),
		nullableStringPtr(attempt.ResponseBody),
		nullableStringPtr(attempt.ErrorMessage),
		attempt.Timestamp,
	).Scan(&attempt.ID, &attempt.AttemptNumber)
	if err != nil {
		return fmt.Errorf("failed to create delivery attempt: %w", err)
	}

	return nil
}

func (r *attemptRepository) ListByDelivery(ctx context.Context, deliveryID string) ([]*domain.DeliveryAttempt, error) {
	query := `
		SELECT id, delivery_id, attempt_number, outcome, status_code, response_body, error_message, timestamp
		FROM delivery_attempts
		WHERE delivery_id = $1
		ORDER BY attempt_number ASC
	`

	rows, err := r.db.QueryContext(ctx, query, deliveryID)
	if err != nil {
		return nil, fmt.Errorf("failed to query attempts: %w", err)
	}
	defer rows.Close()

	return collectAttempts(rows)
}

// ListRecentBySubscription returns the newest attempts across all deliveries
// of a subscription, via a join on the deliveries table.
func (r *attemptRepository) ListRecentBySubscription(ctx context.Context, subscriptionID string, limit int) ([]*domain.DeliveryAttempt, error) {
	query := `
		SELECT a.id, a.delivery_id, a.attempt_number, a.outcome, a.status_code, a.response_body, a.error_message, a.timestamp
		FROM delivery_attempts a
		JOIN webhook_deliveries d ON a.delivery_id = d.id
		WHERE d.subscription_id = $1
		ORDER BY a.timestamp DESC
		LIMIT $2
	`

	rows, err := r.db.QueryContext(ctx, query, subscriptionID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query attempts for subscription: %w", err)
	}
	defer rows.Close()

	return collectAttempts(rows)
}

func (r *attemptRepository) ListRecent(ctx context.Context, limit int) ([]*domain.DeliveryAttempt, error) {
	query := `
		SELECT id, delivery_id, attempt_number, outcome, status_code, response_body, error_message, timestamp
		FROM delivery_attempts
		ORDER BY timestamp DESC
		LIMIT $1
	`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent attempts: %w", err)
	}
	defer rows.Close()

	return collectAttempts(rows)
}

// DeleteOlderThan removes attempt logs with timestamp before cutoff and
// returns the number of rows deleted.
func (r *attemptRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM delivery_attempts WHERE timestamp < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to delete old attempts: %w", err)
	}

	deleted, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get affected rows: %w", err)
	}

	return deleted, nil
}

func collectAttempts(rows *sql.Rows) ([]*domain.DeliveryAttempt, error) {
	var attempts []*domain.DeliveryAttempt
	for rows.Next() {
		attempt, err := scanAttempt(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attempt: %w", err)
		}
		attempts = append(attempts, attempt)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating attempts: %w", err)
	}

	return attempts, nil
}

func scanAttempt(rows *sql.Rows) (*domain.DeliveryAttempt, error) {
	var attempt domain.DeliveryAttempt
	var statusCode sql.NullInt32
	var responseBody sql.NullString
	var errorMessage sql.NullString

	err := rows.Scan(
		&attempt.ID,
		&attempt.DeliveryID,
		&attempt.AttemptNumber,
		&attempt.Outcome,
		&statusCode,
		&responseBody,
		&errorMessage,
		&attempt.Timestamp,
	)
	if err != nil {
		return nil, err
	}

	if statusCode.Valid {
		code := int(statusCode.Int32)
		attempt.StatusCode = &code
	}
	if responseBody.Valid {
		attempt.ResponseBody = &responseBody.String
	}
	if errorMessage.Valid {
		attempt.ErrorMessage = &errorMessage.String
	}

	return &attempt, nil
}

func nullableInt(i *int) sql.NullInt32 {
	if i == nil {
		return sql.NullInt32{}
	}
	return sql.NullInt32{Int32: int32(*i), Valid: true}
}

func nullableStringPtr(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}
