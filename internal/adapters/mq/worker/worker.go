// Package worker parses queued result files concurrently.
//
// Files are independent, so any number of workers may parse in parallel
// without coordination; each produces a complete outcome or none at all.
// Cancellation abandons in-flight files without corrupting anything
// downstream, because no partial file ever leaves a worker.
package worker

import (
	"context"
	"fmt"
	"runtime"
	"strconv"
	"time"

	"github.com/clbarnes/ddrank/internal/adapters/mq/queue"
	"github.com/clbarnes/ddrank/internal/domain/model"
	"github.com/clbarnes/ddrank/internal/domain/parse"
	"github.com/clbarnes/ddrank/pkg/logger"
	"github.com/clbarnes/ddrank/pkg/metrics"
)

// Worker shutdown timeout constants.
const (
	workerShutdownTimeout = 5 * time.Second
	poolShutdownTimeout   = 30 * time.Second
)

// Job is what workers read off the queue.
type Job = queue.Job

// Outcome is the complete result of parsing one file: either a valid
// tournament, or the defect that kept it out of the pipeline. Malformed
// line diagnostics ride along in both cases.
type Outcome struct {
	Path       string
	Tournament model.Tournament
	Malformed  []parse.LineDefect
	// Err is nil on success, an I/O error if the file was unreadable, or a
	// *parse.TieConsistencyError if the file was rejected.
	Err error
}

// Sink receives per-file outcomes. Implementations must be safe for
// concurrent use; workers call Collect from many goroutines.
type Sink interface {
	Collect(ctx context.Context, o Outcome)
}

// Queue defines how workers receive jobs.
type Queue interface {
	Dequeue(ctx context.Context) <-chan Job
}

// Worker processes file jobs and delivers outcomes to the sink.
type Worker interface {
	// Run starts the worker loop until the queue drains or ctx is canceled.
	Run(ctx context.Context)

	// Shutdown gracefully stops the worker.
	Shutdown(ctx context.Context) error
}

// InMemoryWorker implements Worker for parsing result files.
type InMemoryWorker struct {
	queue Queue
	sink  Sink
	name  string

	// Shutdown control
	shutdown chan struct{}
	done     chan struct{}

	// Logging
	logger logger.Logger
}

// NewInMemoryWorker creates a new worker with configuration options.
func NewInMemoryWorker(queue Queue, sink Sink, opts ...Option) *InMemoryWorker {
	w := &InMemoryWorker{
		queue:    queue,
		sink:     sink,
		name:     "worker",
		shutdown: make(chan struct{}),
		done:     make(chan struct{}),
		logger:   logger.Get().Named("worker"),
	}

	for _, opt := range opts {
		opt(w)
	}

	if w.name != "worker" {
		w.logger = w.logger.Named(w.name)
	}

	return w
}

// Run starts the worker loop.
func (w *InMemoryWorker) Run(ctx context.Context) {
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
				// Queue drained, worker is finished.
				return
			}
			w.sink.Collect(ctx, w.processJob(ctx, job))
		}
	}
}

// Shutdown gracefully stops the worker.
func (w *InMemoryWorker) Shutdown(ctx context.Context) error {
	close(w.shutdown)

	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

// processJob opens and parses a single file.
func (w *InMemoryWorker) processJob(ctx context.Context, job Job) Outcome {
	start := time.Now()
	defer func() {
		metrics.RecordParseLatency(float64(time.Since(start).Milliseconds()))
	}()

	rc, err := job.Open()
	if err != nil {
		metrics.RecordFileUnreadable()
		w.logger.Warn(ctx, "file unreadable, skipping",
			logger.String("path", job.Path),
			logger.Error(err),
		)
		return Outcome{Path: job.Path, Err: err}
	}
	defer rc.Close()

	tournament, defects, err := parse.Read(rc, job.Path, job.Level, job.Date)
	if len(defects) > 0 {
		metrics.RecordMalformedLines(len(defects))
	}
	if err != nil {
		metrics.RecordFileRejected()
		w.logger.Warn(ctx, "file rejected",
			logger.String("path", job.Path),
			logger.Error(err),
		)
		return Outcome{Path: job.Path, Malformed: defects, Err: err}
	}

	metrics.RecordFileParsed()
	w.logger.Debug(ctx, "file parsed",
		logger.String("path", job.Path),
		logger.Int("entries", len(tournament.Entries)),
	)
	return Outcome{Path: job.Path, Tournament: tournament, Malformed: defects}
}

// Pool manages multiple workers draining one queue.
type Pool struct {
	workers []*InMemoryWorker
	logger  logger.Logger
}

// NewPool creates a pool of workerCount workers. A count below one defaults
// to the number of CPUs.
func NewPool(workerCount int, queue Queue, sink Sink) *Pool {
	if workerCount < 1 {
		workerCount = runtime.NumCPU()
	}

	pool := &Pool{
		workers: make([]*InMemoryWorker, workerCount),
		logger:  logger.Get().Named("worker-pool"),
	}

	for i := 0; i < workerCount; i++ {
		pool.workers[i] = NewInMemoryWorker(queue, sink, WithName("worker-"+strconv.Itoa(i)))
	}

	metrics.UpdateWorkerCount(workerCount)

	return pool
}

// Start starts all workers in the pool.
func (p *Pool) Start(ctx context.Context) {
	for _, w := range p.workers {
		go w.Run(ctx)
	}
}

// Wait blocks until every worker has finished, which happens once the queue
// is closed and drained or the run context is canceled.
func (p *Pool) Wait() {
	for _, w := range p.workers {
		<-w.done
	}
}

// Shutdown stops the pool early, bounding how long it waits per worker.
func (p *Pool) Shutdown(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, poolShutdownTimeout)
	defer cancel()

	for i, w := range p.workers {
		select {
		case <-w.done:
		default:
			wctx, wcancel := context.WithTimeout(shutdownCtx, workerShutdownTimeout)
			if err := w.Shutdown(wctx); err != nil {
				p.logger.Warn(ctx, "worker shutdown timed out", logger.Int("worker_id", i))
			}
			wcancel()
		}
	}

	return nil
}
