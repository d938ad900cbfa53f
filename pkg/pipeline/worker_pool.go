package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/gnana997/uiimport/pkg/parser"
)

// FileJob is a file submitted to a WorkerPool.
type FileJob struct {
	FilePath string
	JobID    int
}

// FileOutcome is the successful result of one job.
type FileOutcome[T any] struct {
	FilePath string
	JobID    int
	Value    T
}

// FileError records a file that failed.
type FileError struct {
	FilePath string `json:"path"`
	JobID    int    `json:"-"`
	Err      error  `json:"-"`
	Message  string `json:"error"`
}

func (e FileError) Error() string {
	return fmt.Sprintf("%s: %v", e.FilePath, e.Err)
}

// WorkerPool processes files with a fixed number of goroutines.
//
// Results and errors arrive on separate channels that are closed by Stop.
// Consumers must drain both while jobs are being submitted.
//
//	pool := NewWorkerPool(0, process, logger)
//	pool.Start()
//	go func() {
//	    for _, f := range files {
//	        pool.Submit(ctx, FileJob{FilePath: f})
//	    }
//	    pool.Stop()
//	}()
//	for r := range pool.Results() { ... }
type WorkerPool[T any] struct {
	numWorkers int
	process    func(path string) (T, error)

	jobs    chan FileJob
	results chan FileOutcome[T]
	errors  chan FileError
	wg      sync.WaitGroup
	logger  *slog.Logger

	ctx        context.Context
	cancel     context.CancelFunc
	started    atomic.Bool
	stopped    atomic.Bool
	jobsClosed atomic.Bool

	jobsSubmitted atomic.Int64
	jobsProcessed atomic.Int64
	jobsFailed    atomic.Int64
}

// NewWorkerPool creates a pool of numWorkers goroutines running process.
// Zero workers selects parser.PoolSize, so workers do not queue on parsers.
func NewWorkerPool[T any](numWorkers int, process func(path string) (T, error), logger *slog.Logger) *WorkerPool[T] {
	numWorkers = parser.PoolSize(numWorkers)
	if logger == nil {
		logger = slog.Default()
	}
	ctx, cancel := context.WithCancel(context.Background())

	return &WorkerPool[T]{
		numWorkers: numWorkers,
		process:    process,
		jobs:       make(chan FileJob, numWorkers*2),
		results:    make(chan FileOutcome[T], numWorkers),
		errors:     make(chan FileError, numWorkers),
		logger:     logger,
		ctx:        ctx,
		cancel:     cancel,
	}
}

// Start spawns the workers. Must be called before Submit.
func (wp *WorkerPool[T]) Start() {
	if !wp.started.CompareAndSwap(false, true) {
		wp.logger.Warn("WorkerPool already started")
		return
	}
	wp.logger.Debug("starting worker pool", "workers", wp.numWorkers)

	for i := 0; i < wp.numWorkers; i++ {
		wp.wg.Add(1)
		go wp.worker(i)
	}
}

func (wp *WorkerPool[T]) worker(id int) {
	defer wp.wg.Done()

	for {
		select {
		case <-wp.ctx.Done():
			return
		case job, ok := <-wp.jobs:
			if !ok {
				return
			}
			wp.processJob(id, job)
		}
	}
}

func (wp *WorkerPool[T]) processJob(workerID int, job FileJob) {
	value, err := wp.process(job.FilePath)
	if err != nil {
		wp.logger.Debug("job failed", "worker_id", workerID, "file", job.FilePath, "error", err)
		wp.jobsFailed.Add(1)
		wp.errors <- FileError{FilePath: job.FilePath, JobID: job.JobID, Err: err, Message: err.Error()}
		return
	}
	wp.jobsProcessed.Add(1)
	wp.results <- FileOutcome[T]{FilePath: job.FilePath, JobID: job.JobID, Value: value}
}

// Submit enqueues a job, blocking while the queue is full. It must not be
// called concurrently with Stop.
func (wp *WorkerPool[T]) Submit(ctx context.Context, job FileJob) error {
	if wp.stopped.Load() || wp.jobsClosed.Load() {
		return fmt.Errorf("worker pool is stopped")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	wp.jobsSubmitted.Add(1)

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-wp.ctx.Done():
		return fmt.Errorf("worker pool cancelled")
	case wp.jobs <- job:
		return nil
	}
}

// Results returns the results channel.
func (wp *WorkerPool[T]) Results() <-chan FileOutcome[T] {
	return wp.results
}

// Errors returns the errors channel.
func (wp *WorkerPool[T]) Errors() <-chan FileError {
	return wp.errors
}

// Stop stops accepting jobs, waits for in-flight jobs and closes the result
// and error channels. Idempotent.
func (wp *WorkerPool[T]) Stop() {
	if !wp.stopped.CompareAndSwap(false, true) {
		return
	}
	if wp.jobsClosed.CompareAndSwap(false, true) {
		close(wp.jobs)
	}
	wp.wg.Wait()

	close(wp.results)
	close(wp.errors)
	wp.cancel()

	wp.logger.Debug("worker pool stopped",
		"jobs_submitted", wp.jobsSubmitted.Load(),
		"jobs_processed", wp.jobsProcessed.Load(),
		"jobs_failed", wp.jobsFailed.Load())
}

// GetStats returns current worker pool statistics.
func (wp *WorkerPool[T]) GetStats() WorkerPoolStats {
	return WorkerPoolStats{
		NumWorkers:    wp.numWorkers,
		JobsSubmitted: wp.jobsSubmitted.Load(),
		JobsProcessed: wp.jobsProcessed.Load(),
		JobsFailed:    wp.jobsFailed.Load(),
		QueueLength:   len(wp.jobs),
	}
}

// WorkerPoolStats contains statistics about the worker pool.
type WorkerPoolStats struct {
	NumWorkers    int
	JobsSubmitted int64
	JobsProcessed int64
	JobsFailed    int64
	QueueLength   int
}

// runPool processes every path and returns outcomes and failures in
// submission order. Cancelling ctx stops submission; jobs already queued
// still run.
func runPool[T any](ctx context.Context, workers int, paths []string, process func(string) (T, error), logger *slog.Logger) ([]FileOutcome[T], []FileError, error) {
	pool := NewWorkerPool(workers, process, logger)
	pool.Start()

	submitErr := make(chan error, 1)
	go func() {
		defer pool.Stop()
		for i, path := range paths {
			if err := pool.Submit(ctx, FileJob{FilePath: path, JobID: i}); err != nil {
				submitErr <- err
				return
			}
		}
		submitErr <- nil
	}()

	outcomes := make([]FileOutcome[T], 0, len(paths))
	var failures []FileError
	results, errs := pool.Results(), pool.Errors()
	for results != nil || errs != nil {
		select {
		case r, ok := <-results:
			if !ok {
				results = nil
				continue
			}
			outcomes = append(outcomes, r)
		case e, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			failures = append(failures, e)
		}
	}

	sort.Slice(outcomes, func(i, j int) bool { return outcomes[i].JobID < outcomes[j].JobID })
	sort.Slice(failures, func(i, j int) bool { return failures[i].JobID < failures[j].JobID })
	return outcomes, failures, <-submitErr
}
