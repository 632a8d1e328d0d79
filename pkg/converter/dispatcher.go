package converter

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"time"

	"github.com/Sujal-Gaha/file-forge/pkg/converter/kind"
	"github.com/Sujal-Gaha/file-forge/pkg/util"
)

// Dispatcher resolves a conversion request against the registry, validates
// preconditions, invokes the converter, and normalizes results and errors
// into a ConversionOutcome. Errors never escape Execute uncaught: every
// failure becomes a Failure outcome at request granularity.
type Dispatcher struct {
	registry *Registry
	detector kind.Detector
	hooks    Hooks
	logger   *slog.Logger
	timeout  time.Duration
}

// NewDispatcher creates a Dispatcher. hooks and loggerHandler may be nil;
// detector may be nil, in which case the default sniffing detector is used.
func NewDispatcher(registry *Registry, detector kind.Detector, hooks Hooks, loggerHandler slog.Handler, timeout time.Duration) *Dispatcher {
	if detector == nil {
		detector = kind.NewSniffingDetector(nil)
	}
	if hooks == nil {
		hooks = &NoOpHooks{}
	}
	if loggerHandler == nil {
		loggerHandler = slog.NewTextHandler(io.Discard, nil)
	}
	return &Dispatcher{
		registry: registry,
		detector: detector,
		hooks:    hooks,
		logger:   slog.New(loggerHandler).With(slog.String("component", "dispatcher")),
		timeout:  timeout,
	}
}

// ResolveKind inspects the file at path and returns its FileKind. The
// extension is consulted first; ambiguous or missing extensions fall back to
// content sniffing. Failure wraps ErrUnrecognizedFileKind, or ErrIO when the
// file cannot be read at all.
func (d *Dispatcher) ResolveKind(path string) (kind.FileKind, error) {
	if _, err := os.Stat(path); err != nil {
		return kind.Unknown, fmt.Errorf("%w: %v", ErrIO, err)
	}
	k, err := d.detector.DetectKind(path)
	if err != nil {
		return kind.Unknown, fmt.Errorf("%w: %v", ErrUnrecognizedFileKind, err)
	}
	return k, nil
}

// convResult carries a converter invocation's return values across the
// timeout select.
type convResult struct {
	warnings []string
	err      error
}

// Execute runs the full dispatch pipeline for one request and always returns
// exactly one outcome. The request index is only used for hook reporting.
func (d *Dispatcher) Execute(ctx context.Context, index int, req ConversionRequest) ConversionOutcome {
	startTime := time.Now()
	logArgs := []any{slog.String("input", req.InputPath), slog.String("target", string(req.TargetKind))}

	update := func(next Status, message string) {
		_ = d.hooks.OnRequestStatusUpdate(index, req.InputPath, next, message, time.Since(startTime))
	}

	fail := func(err error) ConversionOutcome {
		update(StatusFailed, err.Error())
		d.logger.Error("Request failed",
			append(logArgs, slog.String("kind", string(KindOfError(err))), slog.String("error", err.Error()))...)
		return ConversionOutcome{
			Request: req,
			Status:  StatusFailed,
			Failure: &FailureInfo{Kind: KindOfError(err), Message: err.Error()},
		}
	}

	// 1. Resolve the input kind if the caller deferred it.
	update(StatusResolving, "")
	if err := ctx.Err(); err != nil {
		return fail(fmt.Errorf("%w: %v", ErrConversionFailed, err))
	}
	if req.InputKind == kind.Unknown || req.InputKind == "" {
		resolved, err := d.ResolveKind(req.InputPath)
		if err != nil {
			return fail(err)
		}
		req.InputKind = resolved
	} else if _, err := os.Stat(req.InputPath); err != nil {
		return fail(fmt.Errorf("%w: %v", ErrIO, err))
	}
	if req.OutputPath == "" {
		return fail(fmt.Errorf("%w: outputPath must be set (explicitly or derived)", ErrInvalidOption))
	}

	// 2. Look up the converter. An unregistered pair fails fast; it is never
	// coerced to a "closest" conversion.
	conv, ok := d.registry.Lookup(req.InputKind, req.TargetKind)
	if !ok {
		return fail(fmt.Errorf("%w: %s -> %s", ErrUnsupportedConversion, req.InputKind, req.TargetKind))
	}

	// 3. Validate the option set against the converter's declared constraints.
	update(StatusValidating, "")
	if err := conv.ValidateOptions(req.Options); err != nil {
		if !errors.Is(err, ErrInvalidOption) {
			err = fmt.Errorf("%w: %v", ErrInvalidOption, err)
		}
		return fail(err)
	}

	// 4. Convert into a uniquely named temporary sibling of the final path,
	// then rename on success. A failed conversion never leaves a truncated
	// file at the final output path.
	update(StatusConverting, "")
	writePath, err := util.TempSibling(req.OutputPath)
	if err != nil {
		return fail(fmt.Errorf("%w: %v", ErrIO, err))
	}

	convCtx := ctx
	cancel := context.CancelFunc(func() {})
	timeout := req.Options.Timeout
	if timeout <= 0 {
		timeout = d.timeout
	}
	if timeout > 0 {
		convCtx, cancel = context.WithTimeout(ctx, timeout)
	}
	defer cancel()

	done := make(chan convResult, 1)
	go func() {
		warnings, convErr := conv.Convert(convCtx, req, writePath)
		done <- convResult{warnings: warnings, err: convErr}
	}()

	var res convResult
	select {
	case res = <-done:
	case <-convCtx.Done():
		// Abandon the still-running conversion; remove its scratch file once
		// it returns so no temporary is leaked.
		go func() {
			<-done
			_ = os.Remove(writePath)
		}()
		if errors.Is(convCtx.Err(), context.DeadlineExceeded) {
			return fail(fmt.Errorf("%w: after %s", ErrTimeout, timeout))
		}
		return fail(fmt.Errorf("%w: %v", ErrConversionFailed, convCtx.Err()))
	}

	if res.err != nil {
		_ = os.Remove(writePath)
		err := res.err
		if KindOfError(err) == ErrorKindConversionFailed && !errors.Is(err, ErrConversionFailed) {
			err = fmt.Errorf("%w: %v", ErrConversionFailed, err)
		}
		return fail(err)
	}

	info, statErr := os.Stat(writePath)
	if statErr != nil {
		return fail(fmt.Errorf("%w: converter produced no output: %v", ErrConversionFailed, statErr))
	}
	if renameErr := os.Rename(writePath, req.OutputPath); renameErr != nil {
		_ = os.Remove(writePath)
		return fail(fmt.Errorf("%w: %v", ErrIO, renameErr))
	}

	elapsed := time.Since(startTime)
	update(StatusSucceeded, "")
	d.logger.Debug("Request succeeded",
		append(logArgs,
			slog.String("output", req.OutputPath),
			slog.Int64("bytes", info.Size()),
			slog.Duration("duration", elapsed))...)

	return ConversionOutcome{
		Request: req,
		Status:  StatusSucceeded,
		Result: &ConversionResult{
			OutputPath:   req.OutputPath,
			BytesWritten: info.Size(),
			Elapsed:      elapsed,
			Warnings:     res.warnings,
		},
	}
}

// WrapFSError classifies err as ErrIO when it is a filesystem error,
// otherwise returns it unchanged. Converters use it so that unreadable
// inputs surface as io_error rather than conversion_failed.
func WrapFSError(err error) error {
	var pathErr *fs.PathError
	if errors.Is(err, fs.ErrNotExist) || errors.Is(err, fs.ErrPermission) || errors.As(err, &pathErr) {
		return fmt.Errorf("%w: %v", ErrIO, err)
	}
	return err
}
