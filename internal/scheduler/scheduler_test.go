package scheduler

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestScheduler(at time.Time) *Scheduler {
	s := New(30*time.Second, zerolog.Nop())
	s.now = func() time.Time { return at }
	return s
}

func mustInterval(t *testing.T, d time.Duration) Trigger {
	t.Helper()
	trig, err := Interval(d)
	require.NoError(t, err)
	return trig
}

func TestRegisterAssignsSequentialIDs(t *testing.T) {
	s := newTestScheduler(time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC))
	trig := mustInterval(t, time.Minute)

	assert.Equal(t, 1, s.Register("first", trig, func() error { return nil }))
	assert.Equal(t, 2, s.Register("second", trig, func() error { return nil }))
	assert.Equal(t, 3, s.Register("third", trig, func() error { return nil }))

	tasks := s.Tasks()
	require.Len(t, tasks, 3)
	assert.Equal(t, "first", tasks[0].Name)
	assert.Equal(t, "third", tasks[2].Name)
	for _, task := range tasks {
		assert.True(t, task.Enabled)
		require.NotNil(t, task.NextRun)
	}
}

func TestTaskRunsOnlyWhenDue(t *testing.T) {
	start := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	s := newTestScheduler(start)

	runs := 0
	s.Register("counter", mustInterval(t, time.Minute), func() error {
		runs++
		return nil
	})

	// Not yet due.
	s.runTick(start.Add(30 * time.Second))
	assert.Equal(t, 0, runs)

	// Due exactly at the boundary.
	s.runTick(start.Add(time.Minute))
	assert.Equal(t, 1, runs)

	// Next run is last-run plus interval; half a period later is too soon.
	s.runTick(start.Add(90 * time.Second))
	assert.Equal(t, 1, runs)

	s.runTick(start.Add(2 * time.Minute))
	assert.Equal(t, 2, runs)
}

func TestIntervalCadenceAnchorsOnLastRun(t *testing.T) {
	start := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	s := newTestScheduler(start)
	s.Register("anchored", mustInterval(t, time.Minute), func() error { return nil })

	// The tick arrives late; the next run is still measured from the tick
	// that executed the task.
	late := start.Add(2*time.Minute + 17*time.Second)
	s.runTick(late)

	tasks := s.Tasks()
	require.NotNil(t, tasks[0].NextRun)
	assert.Equal(t, late.Add(time.Minute), *tasks[0].NextRun)
	require.NotNil(t, tasks[0].LastRun)
	assert.Equal(t, late, *tasks[0].LastRun)
}

func TestFailedTaskStillReschedules(t *testing.T) {
	start := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	s := newTestScheduler(start)
	s.Register("failing", mustInterval(t, time.Minute), func() error {
		return errors.New("boom")
	})

	tick := start.Add(time.Minute)
	s.runTick(tick)

	history := s.History()
	require.Len(t, history, 1)
	assert.Equal(t, OutcomeFailed, history[0].Outcome)
	assert.Equal(t, "boom", history[0].Error)

	tasks := s.Tasks()
	require.NotNil(t, tasks[0].NextRun)
	assert.Equal(t, tick.Add(time.Minute), *tasks[0].NextRun)
}

func TestPanickingTaskIsIsolated(t *testing.T) {
	start := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	s := newTestScheduler(start)

	ran := false
	s.Register("panics", mustInterval(t, time.Minute), func() error {
		panic("bad state")
	})
	s.Register("survives", mustInterval(t, time.Minute), func() error {
		ran = true
		return nil
	})

	s.runTick(start.Add(time.Minute))

	assert.True(t, ran, "a panicking task must not stop later tasks in the same tick")

	history := s.History()
	require.Len(t, history, 2)
	// Most recent first.
	assert.Equal(t, "survives", history[0].TaskName)
	assert.Equal(t, OutcomeSuccess, history[0].Outcome)
	assert.Equal(t, OutcomeFailed, history[1].Outcome)
	assert.Contains(t, history[1].Error, "panic")
}

func TestHistoryCappedAtHundred(t *testing.T) {
	start := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	s := newTestScheduler(start)

	var n int
	s.Register("ticker", mustInterval(t, time.Minute), func() error {
		n++
		if n%2 == 0 {
			return fmt.Errorf("run %d failed", n)
		}
		return nil
	})

	tick := start
	for i := 0; i < 130; i++ {
		tick = tick.Add(time.Minute)
		s.runTick(tick)
	}

	history := s.History()
	require.Len(t, history, maxHistory)

	// Oldest records are evicted: the newest run is first, and run 31 is
	// the oldest survivor of 130 executions.
	assert.Equal(t, tick, history[0].ExecutedAt)
	assert.Equal(t, start.Add(31*time.Minute), history[maxHistory-1].ExecutedAt)
}

func TestStartStopIdempotent(t *testing.T) {
	s := New(10*time.Millisecond, zerolog.Nop())
	s.Register("noop", mustInterval(t, time.Hour), func() error { return nil })

	s.Start()
	s.Start()
	s.Stop()
	s.Stop()
}
