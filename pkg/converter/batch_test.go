package converter

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sujal-Gaha/file-forge/pkg/converter/kind"
)

func discardHandler() slog.Handler {
	return slog.NewTextHandler(io.Discard, nil)
}

func batchOptions(t *testing.T, reg *Registry) Options {
	t.Helper()
	return Options{
		Logger:      discardHandler(),
		Registry:    reg,
		Concurrency: 2,
		OnErrorMode: OnErrorContinue,
	}
}

func TestNewBatchRunnerValidation(t *testing.T) {
	reg := textRegistry(t)

	_, err := NewBatchRunner(Options{Registry: reg})
	assert.ErrorIs(t, err, ErrConfigValidation, "nil logger must be rejected")

	_, err = NewBatchRunner(Options{Logger: discardHandler()})
	assert.ErrorIs(t, err, ErrConfigValidation, "nil registry must be rejected")

	_, err = NewBatchRunner(Options{Logger: discardHandler(), Registry: reg, Concurrency: -1})
	assert.ErrorIs(t, err, ErrConfigValidation, "negative concurrency must be rejected")

	r, err := NewBatchRunner(Options{Logger: discardHandler(), Registry: reg})
	require.NoError(t, err)
	assert.NotNil(t, r.Dispatcher())
}

func TestRunBatchPreservesOrderAndIsolatesFailures(t *testing.T) {
	dir := t.TempDir()
	good1 := writeInput(t, dir, "a.txt", "first")
	bad := filepath.Join(dir, "missing.txt")
	good2 := writeInput(t, dir, "c.txt", "third")

	conv := &fakeConverter{source: kind.PlainText, target: kind.PlainText}
	runner, err := NewBatchRunner(batchOptions(t, textRegistry(t, conv)))
	require.NoError(t, err)

	requests := []ConversionRequest{
		{InputPath: good1, TargetKind: kind.PlainText, OutputPath: filepath.Join(dir, "a.out")},
		{InputPath: bad, TargetKind: kind.PlainText, OutputPath: filepath.Join(dir, "b.out")},
		{InputPath: good2, TargetKind: kind.PlainText, OutputPath: filepath.Join(dir, "c.out")},
	}

	outcomes, report := runner.RunBatch(context.Background(), requests)

	require.Len(t, outcomes, 3, "one outcome per request, always")
	assert.Equal(t, good1, outcomes[0].Request.InputPath)
	assert.Equal(t, bad, outcomes[1].Request.InputPath)
	assert.Equal(t, good2, outcomes[2].Request.InputPath)

	assert.Equal(t, StatusSucceeded, outcomes[0].Status)
	assert.Equal(t, StatusFailed, outcomes[1].Status)
	assert.Equal(t, StatusSucceeded, outcomes[2].Status, "a failure must not poison later requests")

	assert.Equal(t, 2, report.Summary.SucceededCount)
	assert.Equal(t, 1, report.Summary.FailedCount)
	assert.FileExists(t, filepath.Join(dir, "a.out"))
	assert.NoFileExists(t, filepath.Join(dir, "b.out"))
	assert.FileExists(t, filepath.Join(dir, "c.out"))
}

func TestRunBatchStopMode(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "missing.txt")
	good := writeInput(t, dir, "b.txt", "content")

	conv := &fakeConverter{source: kind.PlainText, target: kind.PlainText}
	opts := batchOptions(t, textRegistry(t, conv))
	opts.Concurrency = 1
	opts.OnErrorMode = OnErrorStop

	runner, err := NewBatchRunner(opts)
	require.NoError(t, err)

	requests := []ConversionRequest{
		{InputPath: bad, TargetKind: kind.PlainText, OutputPath: filepath.Join(dir, "a.out")},
		{InputPath: good, TargetKind: kind.PlainText, OutputPath: filepath.Join(dir, "b.out")},
		{InputPath: good, TargetKind: kind.PlainText, OutputPath: filepath.Join(dir, "c.out")},
	}

	outcomes, report := runner.RunBatch(context.Background(), requests)

	require.Len(t, outcomes, 3, "stop mode still reports every request")
	assert.Equal(t, StatusFailed, outcomes[0].Status)
	for _, o := range outcomes[1:] {
		assert.Equal(t, StatusFailed, o.Status)
		require.NotNil(t, o.Failure)
		assert.Contains(t, o.Failure.Message, "stopped")
	}
	assert.Equal(t, 0, report.Summary.SucceededCount)
	assert.Equal(t, 3, report.Summary.FailedCount)
}

func TestRunBatchEmptyRequests(t *testing.T) {
	runner, err := NewBatchRunner(batchOptions(t, textRegistry(t)))
	require.NoError(t, err)

	outcomes, report := runner.RunBatch(context.Background(), nil)
	assert.Empty(t, outcomes)
	assert.Equal(t, 0, report.Summary.TotalRequests)
}

func TestRunBatchHooks(t *testing.T) {
	dir := t.TempDir()
	input := writeInput(t, dir, "a.txt", "content")

	conv := &fakeConverter{source: kind.PlainText, target: kind.PlainText}
	hooks := &recordingHooks{}
	opts := batchOptions(t, textRegistry(t, conv))
	opts.EventHooks = hooks

	runner, err := NewBatchRunner(opts)
	require.NoError(t, err)

	_, _ = runner.RunBatch(context.Background(), []ConversionRequest{
		{InputPath: input, TargetKind: kind.PlainText, OutputPath: filepath.Join(dir, "a.out")},
	})

	hooks.mu.Lock()
	defer hooks.mu.Unlock()
	assert.Equal(t, StatusSucceeded, hooks.statuses[len(hooks.statuses)-1])
}

func TestRunBatchAutoConcurrency(t *testing.T) {
	opts := batchOptions(t, textRegistry(t))
	opts.Concurrency = 0

	runner, err := NewBatchRunner(opts)
	require.NoError(t, err)
	assert.Equal(t, runtime.NumCPU(), runner.opts.Concurrency)
}

func TestRunBatchCancelledContext(t *testing.T) {
	dir := t.TempDir()
	input := writeInput(t, dir, "a.txt", "content")

	conv := &fakeConverter{
		source: kind.PlainText,
		target: kind.PlainText,
		convert: func(ctx context.Context, _ ConversionRequest, writePath string) ([]string, error) {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			return nil, os.WriteFile(writePath, []byte("converted"), 0o644)
		},
	}
	runner, err := NewBatchRunner(batchOptions(t, textRegistry(t, conv)))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	outcomes, _ := runner.RunBatch(ctx, []ConversionRequest{
		{InputPath: input, TargetKind: kind.PlainText, OutputPath: filepath.Join(dir, "a.out")},
	})
	require.Len(t, outcomes, 1)
	assert.Equal(t, StatusFailed, outcomes[0].Status)
}
