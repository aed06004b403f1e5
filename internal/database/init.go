package database

import (
	"database/sql"
	"fmt"
)

// tableDefinitions holds the DDL for the service schema. Statements are
// idempotent so Initialize can run on every boot.
var tableDefinitions = []string{
	`CREATE TABLE IF NOT EXISTS subscriptions (
		id UUID PRIMARY KEY,
		target_url TEXT NOT NULL,
		secret_key TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS webhook_deliveries (
		id UUID PRIMARY KEY,
		subscription_id UUID NOT NULL,
		payload JSONB NOT NULL,
		status VARCHAR(20) NOT NULL DEFAULT 'pending',
		created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
		last_attempt_at TIMESTAMPTZ
	)`,
	`CREATE INDEX IF NOT EXISTS idx_webhook_deliveries_subscription
		ON webhook_deliveries(subscription_id, created_at DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_webhook_deliveries_status_created
		ON webhook_deliveries(status, created_at)`,
	`CREATE TABLE IF NOT EXISTS delivery_attempts (
		id BIGSERIAL PRIMARY KEY,
		delivery_id UUID NOT NULL,
		attempt_number INTEGER NOT NULL,
		outcome VARCHAR(10) NOT NULL,
		status_code INTEGER,
		response_body TEXT,
		error_message TEXT,
		timestamp TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
		UNIQUE (delivery_id, attempt_number)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_delivery_attempts_delivery
		ON delivery_attempts(delivery_id, attempt_number)`,
	`CREATE INDEX IF NOT EXISTS idx_delivery_attempts_timestamp
		ON delivery_attempts(timestamp)`,
}

// Initialize creates all necessary database tables if they don't exist.
func Initialize(db *sql.DB) error {
	for _, query := range tableDefinitions {
		if _, err := db.Exec(query); err != nil {
			return fmt.Errorf("failed to create table: %w", err)
		}
	}
	return nil
}
