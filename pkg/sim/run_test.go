package sim_test

import (
	"bytes"
	"context"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MacroPower/kwait/pkg/kerrors"
	"github.com/MacroPower/kwait/pkg/log"
	"github.com/MacroPower/kwait/pkg/proc"
	"github.com/MacroPower/kwait/pkg/sim"
)

func TestRun(t *testing.T) {
	t.Parallel()

	sc, err := sim.LoadFile(filepath.Join(testDataDir, "contention.yaml"))
	require.NoError(t, err)

	report, err := sim.Run(t.Context(), sc)
	require.NoError(t, err)

	assert.NotEmpty(t, report.RunID)
	assert.Zero(t, report.Violations)
	require.Len(t, report.Processes, 5)
	assert.Equal(t, 5, report.Completed(sim.RoleWorker))

	for _, p := range report.Processes {
		assert.False(t, p.Killed)
		assert.False(t, p.Interrupted)

		switch p.Group {
		case "fast":
			assert.Equal(t, 5, p.Acquisitions)
			assert.Equal(t, 5, p.Sleeps)
			assert.Zero(t, p.Nice)
		case "slow":
			assert.Equal(t, 3, p.Acquisitions)
			assert.Equal(t, 6, p.Sleeps)
			assert.Equal(t, proc.NiceMax, p.Nice)
		}
	}

	// Every slow process slept at least 3*(2+1) ticks.
	assert.GreaterOrEqual(t, report.Uptime, uint64(9))
}

func TestRunCompletesWithoutKilling(t *testing.T) {
	t.Parallel()

	sc := sim.DefaultScenario()
	sc.Processes[0].Iterations = 2

	for range 20 {
		logs := &bytes.Buffer{}
		logger := slog.New(log.CreateHandler(logs, slog.LevelWarn, log.FormatLogfmt))

		report, err := sim.Run(t.Context(), sc, sim.WithLogger(logger))
		require.NoError(t, err)

		assert.Empty(t, logs.String())
		assert.Equal(t, 4, report.Completed(sim.RoleWorker))

		for _, p := range report.Processes {
			assert.False(t, p.Killed, "pid %d", p.PID)
			assert.False(t, p.Interrupted, "pid %d", p.PID)
		}
	}
}

func TestRunWithKiller(t *testing.T) {
	t.Parallel()

	sc := &sim.Scenario{
		TickHz:  1000,
		CPUs:    1,
		Mutexes: 1,
		Processes: []sim.ProcessGroup{
			{
				Name:           "doomed",
				Count:          2,
				Iterations:     100_000,
				HoldTicks:      1,
				SleepTicks:     1,
				KillAfterTicks: 5,
			},
		},
	}

	report, err := sim.Run(t.Context(), sc)
	require.NoError(t, err)

	assert.Zero(t, report.Violations)
	assert.Equal(t, 2, report.Completed(sim.RoleKiller))
	assert.Zero(t, report.Completed(sim.RoleWorker))
	assert.GreaterOrEqual(t, report.Uptime, uint64(5))

	for _, p := range report.Processes {
		if p.Role != sim.RoleWorker {
			continue
		}

		assert.True(t, p.Killed)
		assert.True(t, p.Interrupted)
	}
}

func TestRunCancelled(t *testing.T) {
	t.Parallel()

	sc := sim.DefaultScenario()
	sc.Processes[0].Iterations = 1_000_000

	ctx, cancel := context.WithTimeout(t.Context(), 20*time.Millisecond)
	defer cancel()

	report, err := sim.Run(ctx, sc)
	require.ErrorIs(t, err, context.DeadlineExceeded)
	require.NotNil(t, report)
	assert.Zero(t, report.Violations)
	assert.Zero(t, report.Completed(sim.RoleWorker))
}

func TestRunInvalidScenario(t *testing.T) {
	t.Parallel()

	_, err := sim.Run(t.Context(), &sim.Scenario{})
	require.ErrorIs(t, err, kerrors.ErrInvalidScenario)
}
