// Package worker drains the check-in queue and drives the recorder.
package worker

import (
	"context"
	"fmt"
	"runtime"
	"strconv"
	"time"

	"github.com/okian/muster/internal/adapters/mq/queue"
	"github.com/okian/muster/internal/domain/model"
	"github.com/okian/muster/internal/domain/recorder"
	"github.com/okian/muster/pkg/logger"
	"github.com/okian/muster/pkg/metrics"
)

// Default worker configuration constants.
const (
	defaultWorkerCount    = 4
	workerShutdownTimeout = 5 * time.Second
)

// Job is what workers read off the queue.
type Job = model.CheckInJob

// Queue defines how workers receive jobs.
type Queue interface {
	Dequeue(ctx context.Context) <-chan Job
}

// Recorder submits one job against every open session.
type Recorder interface {
	Record(ctx context.Context, job Job) recorder.Outcome
}

// Completer releases the per-person in-flight marker.
type Completer interface {
	Complete(ctx context.Context, personID string)
}

// Worker processes check-in jobs until stopped.
type Worker struct {
	queue     Queue
	recorder  Recorder
	completer Completer
	name      string

	shutdown chan struct{}
	done     chan struct{}

	log logger.Logger
}

// NewWorker creates a worker with configuration options.
func NewWorker(q Queue, r Recorder, c Completer, opts ...Option) *Worker {
	w := &Worker{
		queue:     q,
		recorder:  r,
		completer: c,
		name:      "worker",
		shutdown:  make(chan struct{}),
		done:      make(chan struct{}),
		log:       logger.Get().Named("worker"),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.name != "worker" {
		w.log = w.log.Named(w.name)
	}
	return w
}

// Run starts the worker loop until ctx is cancelled or the queue closes.
func (w *Worker) Run(ctx context.Context) {
	defer close(w.done)

	jobs := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case job, ok := <-jobs:
			if !ok {
				return
			}
			w.process(ctx, job)
		}
	}
}

// Shutdown stops the worker and waits for the in-flight job to finish.
func (w *Worker) Shutdown(ctx context.Context) error {
	close(w.shutdown)
	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.log.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("worker shutdown: %w", ctx.Err())
	}
}

// process drives one job through the recorder. The debouncer's in-flight
// marker is released no matter how the attempt ends; only the cooldown
// stamp outlives the attempt.
func (w *Worker) process(ctx context.Context, job Job) {
	start := time.Now()
	defer func() {
		metrics.RecordWorkerLatency(float64(time.Since(start).Milliseconds()))
		w.completer.Complete(ctx, job.PersonID)
	}()

	outcome := w.recorder.Record(ctx, job)
	if outcome == recorder.OutcomeRecorded {
		metrics.RecordRecordLatency(float64(time.Since(job.DetectedAt).Milliseconds()))
	}
	if outcome == recorder.OutcomeTransientFailure {
		metrics.RecordWorkerError()
	}

	w.log.Debug(ctx, "job processed",
		logger.String("personID", job.PersonID),
		logger.String("outcome", outcome.String()),
	)
}

// Pool manages a fixed set of workers over one queue.
type Pool struct {
	workers []*Worker
	log     logger.Logger
}

// NewPool creates a pool of workerCount workers.
func NewPool(workerCount int, q Queue, r Recorder, c Completer) *Pool {
	if workerCount < 1 {
		workerCount = defaultWorkerCount
		if n := runtime.NumCPU(); n > workerCount {
			workerCount = n
		}
	}

	p := &Pool{
		workers: make([]*Worker, workerCount),
		log:     logger.Get().Named("worker-pool"),
	}
	for i := range p.workers {
		p.workers[i] = NewWorker(q, r, c, WithName("worker-"+strconv.Itoa(i)))
	}

	metrics.UpdateWorkerCount(workerCount)
	return p
}

// Start launches every worker in the pool.
func (p *Pool) Start(ctx context.Context) {
	for _, w := range p.workers {
		go w.Run(ctx)
	}
}

// Stop signals every worker and waits briefly for each to finish.
func (p *Pool) Stop() {
	for _, w := range p.workers {
		close(w.shutdown)
	}
	for _, w := range p.workers {
		select {
		case <-w.done:
		case <-time.After(workerShutdownTimeout):
		}
	}
	metrics.UpdateWorkerCount(0)
}

// Size returns the number of workers in the pool.
func (p *Pool) Size() int {
	return len(p.workers)
}

var _ Queue = (*queue.InMemoryQueue)(nil)
