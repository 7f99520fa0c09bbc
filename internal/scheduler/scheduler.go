package scheduler

import (
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Run outcome constants
const (
	OutcomeSuccess = "success"
	OutcomeFailed  = "failed"
)

// maxHistory bounds the run-record buffer; oldest entries are evicted
// first.
const maxHistory = 100

// RunRecord is one logged outcome of a task execution.
type RunRecord struct {
	TaskID          int       `json:"task_id"`
	TaskName        string    `json:"task_name"`
	ExecutedAt      time.Time `json:"executed_at"`
	DurationSeconds float64   `json:"execution_time"`
	Outcome         string    `json:"status"`
	Error           string    `json:"error,omitempty"`
}

// TaskStatus is the read-only snapshot of one registered task.
type TaskStatus struct {
	ID          int         `json:"id"`
	Name        string      `json:"name"`
	TriggerKind TriggerKind `json:"trigger_kind"`
	LastRun     *time.Time  `json:"last_run,omitempty"`
	NextRun     *time.Time  `json:"next_run,omitempty"`
	Enabled     bool        `json:"enabled"`
}

type task struct {
	id      int
	name    string
	trigger Trigger
	fn      func() error
	lastRun *time.Time
	nextRun *time.Time
	enabled bool
}

// Scheduler runs registered tasks on a fixed poll loop. The registry and
// history have a single writer (the loop); the mutex exists only for the
// status snapshot readers.
type Scheduler struct {
	mu      sync.Mutex
	tasks   []*task
	history []RunRecord

	pollInterval time.Duration
	now          func() time.Time
	log          zerolog.Logger

	stopCh   chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
	started  bool
}

// New creates a scheduler polling at the given interval.
func New(pollInterval time.Duration, log zerolog.Logger) *Scheduler {
	if pollInterval <= 0 {
		pollInterval = 30 * time.Second
	}
	return &Scheduler{
		pollInterval: pollInterval,
		now:          func() time.Time { return time.Now().UTC() },
		log:          log.With().Str("component", "scheduler").Logger(),
		stopCh:       make(chan struct{}),
	}
}

// Register adds a task and computes its initial next-run time. Task ids
// are assigned sequentially in registration order.
func (s *Scheduler) Register(name string, trigger Trigger, fn func() error) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := &task{
		id:      len(s.tasks) + 1,
		name:    name,
		trigger: trigger,
		fn:      fn,
		enabled: true,
	}
	next := trigger.Next(nil, s.now())
	t.nextRun = &next
	s.tasks = append(s.tasks, t)

	s.log.Info().Int("task_id", t.id).Str("task", name).
		Str("trigger", string(trigger.Kind)).Time("next_run", next).
		Msg("task registered")
	return t.id
}

// Start launches the poll loop.
func (s *Scheduler) Start() {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return
	}
	s.started = true
	s.mu.Unlock()

	s.wg.Add(1)
	go s.loop()
	s.log.Info().Dur("poll_interval", s.pollInterval).Msg("scheduler started")
}

// Stop signals the loop to exit and waits for the in-flight tick to
// finish.
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() { close(s.stopCh) })
	s.wg.Wait()
	s.log.Info().Msg("scheduler stopped")
}

// Tasks returns a snapshot of all registered tasks in registration order.
func (s *Scheduler) Tasks() []TaskStatus {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]TaskStatus, 0, len(s.tasks))
	for _, t := range s.tasks {
		status := TaskStatus{
			ID:          t.id,
			Name:        t.name,
			TriggerKind: t.trigger.Kind,
			Enabled:     t.enabled,
		}
		if t.lastRun != nil {
			lr := *t.lastRun
			status.LastRun = &lr
		}
		if t.nextRun != nil {
			nr := *t.nextRun
			status.NextRun = &nr
		}
		out = append(out, status)
	}
	return out
}

// History returns recent run records, most recent first.
func (s *Scheduler) History() []RunRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]RunRecord, len(s.history))
	for i, r := range s.history {
		out[len(s.history)-1-i] = r
	}
	return out
}

func (s *Scheduler) loop() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopCh:
			return
		case <-ticker.C:
			s.runTick(s.now())
		}
	}
}

// runTick executes every enabled, due task sequentially in registration
// order, then trims the history buffer.
func (s *Scheduler) runTick(now time.Time) {
	s.mu.Lock()
	due := make([]*task, 0, len(s.tasks))
	for _, t := range s.tasks {
		if t.enabled && t.nextRun != nil && !t.nextRun.After(now) {
			due = append(due, t)
		}
	}
	s.mu.Unlock()

	for _, t := range due {
		s.executeTask(t, now)
	}

	s.mu.Lock()
	if len(s.history) > maxHistory {
		s.history = s.history[len(s.history)-maxHistory:]
	}
	s.mu.Unlock()
}

func (s *Scheduler) executeTask(t *task, tickTime time.Time) {
	start := time.Now()
	err := runSafely(t.fn)
	duration := time.Since(start)

	record := RunRecord{
		TaskID:          t.id,
		TaskName:        t.name,
		ExecutedAt:      tickTime,
		DurationSeconds: math.Round(duration.Seconds()*100) / 100,
		Outcome:         OutcomeSuccess,
	}
	if err != nil {
		record.Outcome = OutcomeFailed
		record.Error = err.Error()
		s.log.Error().Int("task_id", t.id).Str("task", t.name).Err(err).
			Msg("scheduled task failed")
	} else {
		s.log.Info().Int("task_id", t.id).Str("task", t.name).
			Float64("seconds", record.DurationSeconds).Msg("scheduled task completed")
	}

	// Failure never stalls future scheduling: last-run and next-run are
	// updated exactly as on success.
	s.mu.Lock()
	lr := tickTime
	t.lastRun = &lr
	next := t.trigger.Next(t.lastRun, tickTime)
	t.nextRun = &next
	s.history = append(s.history, record)
	s.mu.Unlock()
}

func runSafely(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return fn()
}
