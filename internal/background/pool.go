package background

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
)

// Job is a unit of background work dispatched on demand.
type Job struct {
	Name string
	Run  func(ctx context.Context)
}

// Pool is a fixed-size worker pool with a bounded queue. Jobs run to
// completion independently; a full queue rejects instead of blocking the
// submitter.
type Pool struct {
	queue   chan Job
	workers int
	log     zerolog.Logger
	wg      sync.WaitGroup
	ctx     context.Context
	cancel  context.CancelFunc
}

// New starts a pool with the given number of workers.
func New(workers int, log zerolog.Logger) *Pool {
	if workers <= 0 {
		workers = 4
	}
	ctx, cancel := context.WithCancel(context.Background())
	p := &Pool{
		queue:   make(chan Job, workers*16),
		workers: workers,
		log:     log.With().Str("component", "workers").Logger(),
		ctx:     ctx,
		cancel:  cancel,
	}
	for i := 0; i < workers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
	return p
}

// Submit enqueues a job. Returns false when the pool is saturated or
// shutting down.
func (p *Pool) Submit(job Job) bool {
	select {
	case <-p.ctx.Done():
		return false
	default:
	}

	select {
	case p.queue <- job:
		return true
	default:
		p.log.Warn().Str("job", job.Name).Msg("worker queue full, rejecting job")
		return false
	}
}

// Workers returns the pool's worker count.
func (p *Pool) Workers() int { return p.workers }

// Stop drains in-flight jobs and shuts the workers down. Queued jobs not
// yet started are dropped.
func (p *Pool) Stop() {
	p.cancel()
	p.wg.Wait()
}

func (p *Pool) worker() {
	defer p.wg.Done()

	for {
		select {
		case <-p.ctx.Done():
			return
		case job := <-p.queue:
			p.runJob(job)
		}
	}
}

func (p *Pool) runJob(job Job) {
	defer func() {
		if r := recover(); r != nil {
			p.log.Error().Str("job", job.Name).Interface("panic", r).Msg("background job panicked")
		}
	}()
	job.Run(p.ctx)
}
