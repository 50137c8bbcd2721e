package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/mikestefanello/backlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openshelf/openshelf/internal/config"
)

// nopEnqueuer satisfies TaskEnqueuer for tests that never fire a schedule.
type nopEnqueuer struct{}

func (nopEnqueuer) Add(tasks ...backlite.Task) *backlite.TaskAddOp {
	return &backlite.TaskAddOp{}
}

func testMaintenanceConfig() config.Maintenance {
	return config.Maintenance{
		OverdueScanEnabled:  true,
		OverdueScanSchedule: "0 * * * *",
		OverdueDailyRate:    0.5,
		PurgeSchedule:       "30 3 * * *",
		PurgeRetention:      720 * time.Hour,
	}
}

func TestMaintenanceScheduler_Lifecycle(t *testing.T) {
	t.Run("start and stop", func(t *testing.T) {
		s := NewMaintenanceScheduler(nopEnqueuer{}, testMaintenanceConfig())

		require.NoError(t, s.Start(context.Background()))
		assert.True(t, s.IsRunning())

		next := s.NextRun()
		require.NotNil(t, next)
		assert.True(t, next.After(time.Now()))

		s.Stop()
		assert.False(t, s.IsRunning())
		assert.Nil(t, s.NextRun())

		// Stopping again is a no-op
		s.Stop()
		assert.False(t, s.IsRunning())
	})

	t.Run("rejects a bad schedule", func(t *testing.T) {
		cfg := testMaintenanceConfig()
		cfg.OverdueScanSchedule = "not a schedule"

		s := NewMaintenanceScheduler(nopEnqueuer{}, cfg)
		assert.Error(t, s.Start(context.Background()))
		assert.False(t, s.IsRunning())
	})
}

func TestMaintenanceScheduler_ContextCancellation(t *testing.T) {
	t.Run("parent cancellation stops the scheduler", func(t *testing.T) {
		s := NewMaintenanceScheduler(nopEnqueuer{}, testMaintenanceConfig())

		ctx, cancel := context.WithCancel(context.Background())
		require.NoError(t, s.Start(ctx))
		require.True(t, s.IsRunning())

		cancel()
		assert.Eventually(t, func() bool { return !s.IsRunning() },
			time.Second, 10*time.Millisecond)
	})

	t.Run("stop detaches from the parent context", func(t *testing.T) {
		s := NewMaintenanceScheduler(nopEnqueuer{}, testMaintenanceConfig())

		ctx, cancel := context.WithCancel(context.Background())
		require.NoError(t, s.Start(ctx))
		s.Stop()

		// Restart independently; cancelling the old parent must not reach in.
		require.NoError(t, s.Start(context.Background()))
		cancel()
		time.Sleep(50 * time.Millisecond)
		assert.True(t, s.IsRunning())

		s.Stop()
	})
}
