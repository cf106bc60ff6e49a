package scheduler

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tradearena/backend/pkg/config"
	"github.com/tradearena/backend/pkg/logger"
)

// stubJob is a no-op job with a fixed name and schedule
type stubJob struct {
	name     string
	schedule string
}

func (j *stubJob) Name() string                  { return j.name }
func (j *stubJob) Schedule() string              { return j.schedule }
func (j *stubJob) Run(ctx context.Context) error { return nil }

func testLogger() *logger.Logger {
	return logger.New(&config.Config{
		Env:       "development",
		LogLevel:  "error",
		LogFormat: "json",
	})
}

func TestScheduler_AddJob(t *testing.T) {
	s := New(testLogger())

	job := &stubJob{name: "recompute", schedule: "0 5 0 * * 1"}
	require.NoError(t, s.AddJob(job))

	// Duplicate names are rejected
	assert.Error(t, s.AddJob(&stubJob{name: "recompute", schedule: "@daily"}))

	// Invalid cron expressions are rejected
	assert.Error(t, s.AddJob(&stubJob{name: "broken", schedule: "not a schedule"}))
}

func TestScheduler_GetAllJobs(t *testing.T) {
	s := New(testLogger())

	require.NoError(t, s.AddJob(&stubJob{name: "zeta", schedule: "@daily"}))
	require.NoError(t, s.AddJob(&stubJob{name: "alpha", schedule: "@weekly"}))

	// Sorted by name, independent of registration order
	assert.Equal(t, []string{"alpha", "zeta"}, s.GetAllJobs())
}

func TestScheduler_GetJobStats(t *testing.T) {
	s := New(testLogger())
	require.NoError(t, s.AddJob(&stubJob{name: "recompute", schedule: "0 5 0 * * 1"}))

	stats := s.GetJobStats()
	require.Contains(t, stats, "recompute")
	assert.Equal(t, "0 5 0 * * 1", stats["recompute"].Schedule)
	assert.Zero(t, stats["recompute"].TotalRuns)
}
