package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hookline/hookline/config"
	"github.com/hookline/hookline/internal/domain/mocks"
	"github.com/hookline/hookline/pkg/logger"
)

func TestRetentionSweeper_Sweep(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	attemptRepo := mocks.NewMockAttemptRepository(ctrl)
	cfg := config.RetentionConfig{AttemptLogHours: 72, SweepInterval: 24 * time.Hour}
	sweeper := NewRetentionSweeper(attemptRepo, cfg, nil, logger.NewTestLogger(t))

	now := time.Date(2026, 8, 24, 12, 0, 0, 0, time.UTC)
	sweeper.now = func() time.Time { return now }

	t.Run("prunes rows past the retention window", func(t *testing.T) {
		attemptRepo.EXPECT().
			DeleteOlderThan(gomock.Any(), now.Add(-72*time.Hour)).
			Return(int64(14), nil)

		require.NoError(t, sweeper.Sweep(context.Background()))
	})

	t.Run("propagates repository errors", func(t *testing.T) {
		attemptRepo.EXPECT().
			DeleteOlderThan(gomock.Any(), gomock.Any()).
			Return(int64(0), errors.New("db down"))

		assert.Error(t, sweeper.Sweep(context.Background()))
	})
}

func TestRetentionSweeper_StartDisabled(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	attemptRepo := mocks.NewMockAttemptRepository(ctrl)
	cfg := config.RetentionConfig{AttemptLogHours: 0, SweepInterval: time.Hour}
	sweeper := NewRetentionSweeper(attemptRepo, cfg, nil, logger.NewTestLogger(t))

	// With retention disabled Start returns immediately and never touches
	// the repository.
	done := make(chan struct{})
	go func() {
		sweeper.Start(context.Background())
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Start did not return with retention disabled")
	}
}
