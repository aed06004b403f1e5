package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hookline/hookline/internal/domain"
)

func TestDeliveryRepository_Insert(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewDeliveryRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO webhook_deliveries")).
		WithArgs(sqlmock.AnyArg(), "sub-1", []byte(`{"event":"order.created"}`), domain.DeliveryStatusPending, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	payload := map[string]interface{}{"event": "order.created"}
	delivery, err := repo.Insert(context.Background(), "sub-1", payload)
	require.NoError(t, err)

	assert.NotEmpty(t, delivery.ID)
	assert.Equal(t, "sub-1", delivery.SubscriptionID)
	assert.Equal(t, domain.DeliveryStatusPending, delivery.Status)
	assert.Nil(t, delivery.LastAttemptAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeliveryRepository_GetByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewDeliveryRepository(db)
	now := time.Now().UTC()

	t.Run("found", func(t *testing.T) {
		rows := sqlmock.NewRows([]string{"id", "subscription_id", "payload", "status", "created_at", "last_attempt_at"}).
			AddRow("del-1", "sub-1", []byte(`{"event":"order.created"}`), domain.DeliveryStatusFailedAttempt, now, now)

		mock.ExpectQuery(regexp.QuoteMeta("SELECT id, subscription_id, payload, status, created_at, last_attempt_at")).
			WithArgs("del-1").
			WillReturnRows(rows)

		delivery, err := repo.GetByID(context.Background(), "del-1")
		require.NoError(t, err)
		assert.Equal(t, "del-1", delivery.ID)
		assert.Equal(t, domain.DeliveryStatusFailedAttempt, delivery.Status)
		assert.Equal(t, map[string]interface{}{"event": "order.created"}, delivery.Payload)
		require.NotNil(t, delivery.LastAttemptAt)
	})

	t.Run("never attempted has nil last_attempt_at", func(t *testing.T) {
		rows := sqlmock.NewRows([]string{"id", "subscription_id", "payload", "status", "created_at", "last_attempt_at"}).
			AddRow("del-2", "sub-1", []byte(`[]`), domain.DeliveryStatusPending, now, nil)

		mock.ExpectQuery(regexp.QuoteMeta("SELECT id, subscription_id, payload, status, created_at, last_attempt_at")).
			WithArgs("del-2").
			WillReturnRows(rows)

		delivery, err := repo.GetByID(context.Background(), "del-2")
		require.NoError(t, err)
		assert.Nil(t, delivery.LastAttemptAt)
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta("SELECT id, subscription_id, payload, status, created_at, last_attempt_at")).
			WithArgs("missing").
			WillReturnRows(sqlmock.NewRows([]string{"id", "subscription_id", "payload", "status", "created_at", "last_attempt_at"}))

		_, err := repo.GetByID(context.Background(), "missing")
		assert.True(t, domain.IsNotFound(err))
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeliveryRepository_UpdateStatus(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewDeliveryRepository(db)

	t.Run("updates non-terminal row", func(t *testing.T) {
		now := time.Now().UTC()
		mock.ExpectExec(regexp.QuoteMeta("status NOT IN ('success', 'failed')")).
			WithArgs("del-1", domain.DeliveryStatusProcessing, sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, repo.UpdateStatus(context.Background(), "del-1", domain.DeliveryStatusProcessing, &now))
	})

	t.Run("terminal row affects zero rows without error", func(t *testing.T) {
		mock.ExpectExec(regexp.QuoteMeta("status NOT IN ('success', 'failed')")).
			WithArgs("del-2", domain.DeliveryStatusProcessing, sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 0))

		require.NoError(t, repo.UpdateStatus(context.Background(), "del-2", domain.DeliveryStatusProcessing, nil))
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeliveryRepository_CountByStatusSince(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewDeliveryRepository(db)
	since := time.Now().UTC().Add(-24 * time.Hour)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM webhook_deliveries")).
		WithArgs(domain.DeliveryStatusSuccess, since).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(42))

	count, err := repo.CountByStatusSince(context.Background(), domain.DeliveryStatusSuccess, since)
	require.NoError(t, err)
	assert.Equal(t, 42, count)
	assert.NoError(t, mock.ExpectationsWereMet())
}
