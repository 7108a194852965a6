package scheduler

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ksfraser/stock-analysis/pkg/logger"
)

func TestJobHistory_CapsAtHundred(t *testing.T) {
	history := &JobHistory{}

	for i := 0; i < 150; i++ {
		history.AddResult(JobResult{JobName: "scan", Success: true})
	}

	assert.Len(t, history.Results, 100)
}

func TestJobHistory_SuccessRate(t *testing.T) {
	history := &JobHistory{}
	assert.Equal(t, 0.0, history.SuccessRate())

	history.AddResult(JobResult{Success: true})
	history.AddResult(JobResult{Success: true})
	history.AddResult(JobResult{Success: false})

	assert.InDelta(t, 2.0/3.0, history.SuccessRate(), 0.001)
}

func TestJobHistory_LastResult(t *testing.T) {
	history := &JobHistory{}

	_, ok := history.LastResult()
	assert.False(t, ok)

	history.AddResult(JobResult{JobName: "scan", Error: "boom"})
	last, ok := history.LastResult()
	require.True(t, ok)
	assert.Equal(t, "boom", last.Error)
}

// stubJob is a Job for scheduler wiring tests.
type stubJob struct {
	name     string
	schedule string
	err      error
}

func (j *stubJob) Name() string     { return j.name }
func (j *stubJob) Schedule() string { return j.schedule }
func (j *stubJob) Run(ctx context.Context) error {
	return j.err
}

func TestScheduler_AddJob(t *testing.T) {
	sched := New(logger.Nop())

	job := &stubJob{name: "scan", schedule: "0 0 17 * * MON-FRI"}
	require.NoError(t, sched.AddJob(job))

	// Duplicate names are rejected
	assert.Error(t, sched.AddJob(job))

	// Invalid cron expressions are rejected
	bad := &stubJob{name: "bad", schedule: "not a schedule"}
	assert.Error(t, sched.AddJob(bad))
}

func TestScheduler_RunJobUnknown(t *testing.T) {
	sched := New(logger.Nop())
	assert.Error(t, sched.RunJob("missing"))
}

func TestScheduler_GetJobStats(t *testing.T) {
	sched := New(logger.Nop())
	require.NoError(t, sched.AddJob(&stubJob{name: "scan", schedule: "@daily"}))

	stats := sched.GetJobStats()
	require.Contains(t, stats, "scan")
	assert.Equal(t, "@daily", stats["scan"].Schedule)
	assert.Equal(t, 0, stats["scan"].TotalRuns)
}

func TestScheduler_GetJobHistory(t *testing.T) {
	sched := New(logger.Nop())
	require.NoError(t, sched.AddJob(&stubJob{name: "scan", schedule: "@daily"}))

	history, err := sched.GetJobHistory("scan")
	require.NoError(t, err)
	assert.Empty(t, history.Results)

	_, err = sched.GetJobHistory("missing")
	assert.Error(t, err)
}
