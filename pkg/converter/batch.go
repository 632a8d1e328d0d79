package converter

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"sync"
	"sync/atomic"
	"time"
)

// BatchRunner applies the Dispatcher to a collection of requests through a
// bounded worker pool. Outcomes are written into an index-addressed slice, so
// the emitted order always matches the input order regardless of execution
// order, and the returned slice length always equals the input length. One
// request's failure never halts processing of subsequent requests unless
// OnErrorMode is "stop".
type BatchRunner struct {
	opts       *Options
	dispatcher *Dispatcher
	logger     *slog.Logger
	hooks      Hooks
}

// NewBatchRunner validates opts and creates a runner. The registry must be
// populated and frozen by the caller before the first RunBatch call.
func NewBatchRunner(opts Options) (*BatchRunner, error) {
	if opts.Logger == nil {
		return nil, fmt.Errorf("%w: Logger implementation (slog.Handler) cannot be nil", ErrConfigValidation)
	}
	if opts.Registry == nil {
		return nil, fmt.Errorf("%w: Registry cannot be nil", ErrConfigValidation)
	}
	if opts.Concurrency < 0 {
		return nil, fmt.Errorf("%w: concurrency cannot be negative", ErrConfigValidation)
	}
	if opts.EventHooks == nil {
		opts.EventHooks = &NoOpHooks{}
	}

	logger := slog.New(opts.Logger).With(slog.String("component", "batch"))
	if opts.Concurrency == 0 {
		opts.Concurrency = runtime.NumCPU()
		logger.Debug("Concurrency auto-detected", slog.Int("count", opts.Concurrency))
	}
	if opts.OnErrorMode == "" {
		opts.OnErrorMode = DefaultOnErrorMode
	}

	return &BatchRunner{
		opts:       &opts,
		dispatcher: NewDispatcher(opts.Registry, opts.Detector, opts.EventHooks, opts.Logger, opts.Timeout),
		logger:     logger,
		hooks:      opts.EventHooks,
	}, nil
}

// Dispatcher exposes the runner's dispatcher for single-request callers
// (e.g. the info command's kind resolution).
func (r *BatchRunner) Dispatcher() *Dispatcher {
	return r.dispatcher
}

// RunBatch processes every request and returns one outcome per request, in
// request order, together with the aggregated report. The context cancels
// requests that have not finished; cancelled requests still yield Failure
// outcomes so the output length invariant holds.
func (r *BatchRunner) RunBatch(ctx context.Context, requests []ConversionRequest) ([]ConversionOutcome, Report) {
	startTime := time.Now()
	outcomes := make([]ConversionOutcome, len(requests))

	workers := r.opts.Concurrency
	if workers > len(requests) && len(requests) > 0 {
		workers = len(requests)
	}
	r.logger.Info("Starting batch run",
		slog.Int("requests", len(requests)),
		slog.Int("concurrency", workers),
		slog.String("onError", string(r.opts.OnErrorMode)))

	for i, req := range requests {
		_ = r.hooks.OnRequestQueued(i, req)
	}

	batchCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	var stopped atomic.Bool
	jobs := make(chan int)
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			wLogger := r.logger.With(slog.Int("workerID", workerID))
			for i := range jobs {
				if batchCtx.Err() != nil && stopped.Load() {
					outcomes[i] = r.stoppedOutcome(requests[i])
					continue
				}
				wLogger.Debug("Dispatching request", slog.Int("index", i), slog.String("input", requests[i].InputPath))
				outcome := r.dispatcher.Execute(batchCtx, i, requests[i])
				outcomes[i] = outcome
				if !outcome.Succeeded() && r.opts.OnErrorMode == OnErrorStop && !stopped.Load() {
					wLogger.Info("Stopping batch on first failure",
						slog.Int("index", i), slog.String("input", requests[i].InputPath))
					stopped.Store(true)
					cancel()
				}
			}
		}(w)
	}

	for i := range requests {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	report := buildReport(r.opts, outcomes, startTime)
	r.logger.Info("Batch run finished",
		slog.Int("succeeded", report.Summary.SucceededCount),
		slog.Int("failed", report.Summary.FailedCount),
		slog.Duration("duration", time.Since(startTime)))

	if hookErr := r.hooks.OnBatchComplete(report); hookErr != nil {
		r.logger.Warn("OnBatchComplete hook returned an error", slog.String("error", hookErr.Error()))
	}
	return outcomes, report
}

// stoppedOutcome is emitted for requests skipped after a stop-on-error
// cancellation; the outcome slice must stay dense.
func (r *BatchRunner) stoppedOutcome(req ConversionRequest) ConversionOutcome {
	return ConversionOutcome{
		Request: req,
		Status:  StatusFailed,
		Failure: &FailureInfo{
			Kind:    ErrorKindConversionFailed,
			Message: "batch stopped after an earlier failure",
		},
	}
}
