package tracking

import (
	"context"
	"sync"
	"time"

	"resumelink/internal/shared/metrics"
	"resumelink/internal/shared/telemetry"
)

const (
	DefaultWorkers    = 4
	DefaultQueueSize  = 256
	DefaultJobTimeout = 5 * time.Second
)

// Dispatcher hands a job off without waiting for its outcome.
type Dispatcher interface {
	Dispatch(job Job)
}

// Inline applies jobs on the calling goroutine with a detached context.
// Failures are logged like pooled jobs.
type Inline struct {
	Applier Applier
	Timeout time.Duration
}

// Dispatch applies job before returning.
func (d Inline) Dispatch(job Job) {
	run(d.Applier, job, orDefault(d.Timeout, DefaultJobTimeout))
}

// PoolOptions configures a Pool.
type PoolOptions struct {
	Workers    int
	QueueSize  int
	JobTimeout time.Duration
}

// Pool runs jobs on a fixed set of workers fed by a bounded queue. A full
// queue drops the job.
type Pool struct {
	applier Applier
	timeout time.Duration
	jobs    chan Job

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

// NewPool starts the workers.
func NewPool(applier Applier, opts PoolOptions) *Pool {
	workers := opts.Workers
	if workers <= 0 {
		workers = DefaultWorkers
	}
	size := opts.QueueSize
	if size <= 0 {
		size = DefaultQueueSize
	}

	p := &Pool{
		applier: applier,
		timeout: orDefault(opts.JobTimeout, DefaultJobTimeout),
		jobs:    make(chan Job, size),
	}
	p.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go p.work()
	}
	return p
}

// Dispatch enqueues job, or drops it when the queue is full or closed.
func (p *Pool) Dispatch(job Job) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		drop(job, "closed")
		return
	}
	select {
	case p.jobs <- job:
		metrics.SetTrackingQueueDepth(len(p.jobs))
	default:
		drop(job, "queue_full")
	}
}

// Close stops accepting jobs and waits for queued ones to finish or ctx to end.
func (p *Pool) Close(ctx context.Context) error {
	p.mu.Lock()
	if !p.closed {
		p.closed = true
		close(p.jobs)
	}
	p.mu.Unlock()

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		telemetry.Warn("tracking.drain_incomplete", map[string]any{"pending": len(p.jobs)})
		return ctx.Err()
	}
}

func (p *Pool) work() {
	defer p.wg.Done()
	for job := range p.jobs {
		metrics.SetTrackingQueueDepth(len(p.jobs))
		run(p.applier, job, p.timeout)
	}
}

func run(applier Applier, job Job, timeout time.Duration) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	start := time.Now()
	err := applier.Apply(ctx, job)
	metrics.ObserveTrackingJob(string(job.Kind), time.Since(start))
	if err != nil {
		metrics.IncTrackingJob(string(job.Kind), metrics.OutcomeFailed)
		telemetry.Error("tracking.job_failed", map[string]any{
			"kind":       string(job.Kind),
			"resume_id":  job.ResumeID,
			"request_id": job.RequestID,
			"error":      err.Error(),
		})
		return
	}
	metrics.IncTrackingJob(string(job.Kind), metrics.OutcomeApplied)
}

func drop(job Job, reason string) {
	metrics.IncTrackingJob(string(job.Kind), metrics.OutcomeDropped)
	telemetry.Error("tracking.job_dropped", map[string]any{
		"kind":       string(job.Kind),
		"resume_id":  job.ResumeID,
		"request_id": job.RequestID,
		"reason":     reason,
	})
}

func orDefault(d, def time.Duration) time.Duration {
	if d <= 0 {
		return def
	}
	return d
}

var (
	_ Dispatcher = Inline{}
	_ Dispatcher = (*Pool)(nil)
)
