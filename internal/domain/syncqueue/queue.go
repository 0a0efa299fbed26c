// Package syncqueue runs the remote side of store mutations in the
// background. A job never blocks the mutation that scheduled it, and its
// failure never rolls the mutation back.
package syncqueue

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ecohabit/backend/internal/common"
	"github.com/ecohabit/backend/pkg/xcontext"
	"golang.org/x/time/rate"
)

const (
	statusSuccess = "success"
	statusError   = "error"
	statusDropped = "dropped"
)

type Job struct {
	Name string
	Do   func(ctx context.Context) error
}

type Queue struct {
	ctx     context.Context
	jobs    chan Job
	limiter *rate.Limiter
	timeout time.Duration
	workers sync.WaitGroup

	mu      sync.Mutex
	idle    *sync.Cond
	pending int
	stopped bool
}

// New starts the workers. ctx carries the logger and configs used by the
// jobs; its cancellation does not stop the queue, Stop does.
func New(ctx context.Context) *Queue {
	cfg := xcontext.Configs(ctx).Sync

	workers := cfg.Workers
	if workers <= 0 {
		workers = 1
	}

	q := &Queue{
		ctx:     xcontext.Detach(ctx),
		jobs:    make(chan Job, cfg.QueueSize),
		timeout: cfg.JobTimeout.Duration,
	}
	q.idle = sync.NewCond(&q.mu)

	if cfg.RateLimit > 0 {
		burst := cfg.RateBurst
		if burst <= 0 {
			burst = 1
		}
		q.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), burst)
	}

	for i := 0; i < workers; i++ {
		q.workers.Add(1)
		go q.worker()
	}

	return q
}

// Enqueue schedules a job and returns immediately. It reports false when
// the job was dropped because the queue is full or stopped.
func (q *Queue) Enqueue(name string, do func(ctx context.Context) error) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.stopped {
		xcontext.Logger(q.ctx).Warnf("Sync queue is stopped, drop job %s", name)
		common.PromCounters[common.SyncJobsTotal].WithLabelValues(name, statusDropped).Inc()
		return false
	}

	select {
	case q.jobs <- Job{Name: name, Do: do}:
		q.pending++
		return true
	default:
		xcontext.Logger(q.ctx).Warnf("Sync queue is full, drop job %s", name)
		common.PromCounters[common.SyncJobsTotal].WithLabelValues(name, statusDropped).Inc()
		return false
	}
}

// Wait blocks until every enqueued job has finished.
func (q *Queue) Wait() {
	q.mu.Lock()
	defer q.mu.Unlock()

	for q.pending > 0 {
		q.idle.Wait()
	}
}

// Stop runs the jobs already queued, then stops the workers.
func (q *Queue) Stop() {
	q.mu.Lock()
	if q.stopped {
		q.mu.Unlock()
		return
	}
	q.stopped = true
	close(q.jobs)
	q.mu.Unlock()

	q.workers.Wait()
}

func (q *Queue) worker() {
	defer q.workers.Done()

	for job := range q.jobs {
		q.process(job)

		q.mu.Lock()
		q.pending--
		if q.pending == 0 {
			q.idle.Broadcast()
		}
		q.mu.Unlock()
	}
}

func (q *Queue) process(job Job) {
	ctx := q.ctx
	if q.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, q.timeout)
		defer cancel()
	}

	start := time.Now()
	err := q.run(ctx, job)
	common.PromHistograms[common.SyncJobDurationSeconds].
		WithLabelValues(job.Name).
		Observe(time.Since(start).Seconds())

	status := statusSuccess
	if err != nil {
		status = statusError
		xcontext.Logger(ctx).Warnf("Sync job %s failed: %v", job.Name, err)
	}

	common.PromCounters[common.SyncJobsTotal].WithLabelValues(job.Name, status).Inc()
}

func (q *Queue) run(ctx context.Context, job Job) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()

	if q.limiter != nil {
		if err := q.limiter.Wait(ctx); err != nil {
			return err
		}
	}

	return job.Do(ctx)
}
