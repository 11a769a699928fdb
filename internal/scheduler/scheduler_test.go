package scheduler

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantweb/quantbot/pkg/logger"
)

type stubJob struct {
	name     string
	schedule string
	err      error
	runs     int
}

func (j *stubJob) Name() string     { return j.name }
func (j *stubJob) Schedule() string { return j.schedule }
func (j *stubJob) Run(ctx context.Context) error {
	j.runs++
	return j.err
}

func TestScheduler_AddJob(t *testing.T) {
	s := New(logger.Nop())
	job := &stubJob{name: "tick", schedule: "@every 1m"}

	require.NoError(t, s.AddJob(job))
	assert.Equal(t, []string{"tick"}, s.GetAllJobs())

	err := s.AddJob(&stubJob{name: "tick", schedule: "@every 1m"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}

func TestScheduler_AddJob_InvalidSchedule(t *testing.T) {
	s := New(logger.Nop())

	err := s.AddJob(&stubJob{name: "broken", schedule: "not a schedule"})
	require.Error(t, err)
	assert.Empty(t, s.GetAllJobs())
}

func TestScheduler_RunRecordsHistory(t *testing.T) {
	s := New(logger.Nop())
	job := &stubJob{name: "tick", schedule: "@every 1m"}
	require.NoError(t, s.AddJob(job))

	s.runJob(job)
	s.runJob(job)

	stats := s.GetJobStats()
	require.Contains(t, stats, "tick")
	assert.Equal(t, 2, stats["tick"].TotalRuns)
	assert.InDelta(t, 1.0, stats["tick"].SuccessRate, 1e-9)
	assert.Equal(t, "@every 1m", stats["tick"].Schedule)
	require.NotNil(t, stats["tick"].LastRun)
	assert.Empty(t, stats["tick"].LastError)
	assert.Equal(t, 2, job.runs)
}

func TestScheduler_RunRecordsFailure(t *testing.T) {
	s := New(logger.Nop())
	job := &stubJob{name: "tick", schedule: "@every 1m"}
	require.NoError(t, s.AddJob(job))

	s.runJob(job)
	job.err = errors.New("upstream down")
	s.runJob(job)

	stats := s.GetJobStats()
	assert.Equal(t, 2, stats["tick"].TotalRuns)
	assert.InDelta(t, 0.5, stats["tick"].SuccessRate, 1e-9)
	assert.Equal(t, "upstream down", stats["tick"].LastError)
}

func TestScheduler_RunJob_NotFound(t *testing.T) {
	s := New(logger.Nop())

	err := s.RunJob("missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestJobHistory(t *testing.T) {
	h := &JobHistory{}

	if _, ok := h.Latest(); ok {
		t.Fatal("empty history reported a latest result")
	}
	assert.Zero(t, h.SuccessRate())

	// Overflow the cap; only the newest 100 survive
	for i := 0; i < 105; i++ {
		h.AddResult(JobResult{JobName: fmt.Sprintf("run-%d", i), Success: i%2 == 0})
	}
	assert.Len(t, h.Results, 100)

	latest, ok := h.Latest()
	require.True(t, ok)
	assert.Equal(t, "run-104", latest.JobName)
}
