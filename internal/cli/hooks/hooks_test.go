package hooks

import (
	"bytes"
	"log/slog"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/schollz/progressbar/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sujal-Gaha/file-forge/pkg/converter"
)

type fakeTUIProgram struct {
	mu   sync.Mutex
	msgs []interface{}
}

func (f *fakeTUIProgram) Send(msg tea.Msg) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.msgs = append(f.msgs, msg)
}

func (f *fakeTUIProgram) sent() []interface{} {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]interface{}(nil), f.msgs...)
}

type fakeProgressBar struct {
	added  int
	closed bool
}

func (f *fakeProgressBar) Add(num int) error           { f.added += num; return nil }
func (f *fakeProgressBar) Describe(description string) {}
func (f *fakeProgressBar) Close() error                { f.closed = true; return nil }

// The concrete bar must satisfy the interface without an adapter.
var _ ProgressBar = (*progressbar.ProgressBar)(nil)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(&bytes.Buffer{}, &slog.HandlerOptions{Level: slog.LevelError + 4}))
}

func TestCLIHooksTUIRouting(t *testing.T) {
	prog := &fakeTUIProgram{}
	h := NewCLIHooks(discardLogger(), true, false, prog, nil)

	require.NoError(t, h.OnRequestQueued(0, converter.ConversionRequest{InputPath: "a.png"}))
	require.NoError(t, h.OnRequestStatusUpdate(0, "a.png", converter.StatusConverting, "", 0))
	require.NoError(t, h.OnRequestStatusUpdate(0, "a.png", converter.StatusSucceeded, "", 12*time.Millisecond))
	require.NoError(t, h.OnBatchComplete(converter.Report{}))

	msgs := prog.sent()
	require.Len(t, msgs, 4)
	assert.Equal(t, RequestQueuedMsg{Index: 0, Path: "a.png"}, msgs[0])

	update, ok := msgs[2].(RequestStatusUpdateMsg)
	require.True(t, ok)
	assert.Equal(t, converter.StatusSucceeded, update.Status)
	assert.Equal(t, 12*time.Millisecond, update.Duration)

	_, ok = msgs[3].(BatchCompleteMsg)
	assert.True(t, ok)
}

func TestCLIHooksSetTUIProgram(t *testing.T) {
	h := NewCLIHooks(discardLogger(), true, false, nil, nil)
	prog := &fakeTUIProgram{}
	h.SetTUIProgram(prog)

	require.NoError(t, h.OnRequestQueued(3, converter.ConversionRequest{InputPath: "b.pdf"}))
	require.Len(t, prog.sent(), 1)

	// nil is ignored, the existing program stays wired.
	h.SetTUIProgram(nil)
	require.NoError(t, h.OnRequestQueued(4, converter.ConversionRequest{InputPath: "c.pdf"}))
	assert.Len(t, prog.sent(), 2)
}

func TestCLIHooksProgressBarAdvancesOnTerminalStatus(t *testing.T) {
	bar := &fakeProgressBar{}
	h := NewCLIHooks(discardLogger(), false, false, nil, bar)

	require.NoError(t, h.OnRequestStatusUpdate(0, "a.png", converter.StatusResolving, "", 0))
	require.NoError(t, h.OnRequestStatusUpdate(0, "a.png", converter.StatusConverting, "", 0))
	assert.Equal(t, 0, bar.added, "non-terminal statuses do not advance the bar")

	require.NoError(t, h.OnRequestStatusUpdate(0, "a.png", converter.StatusSucceeded, "", 0))
	require.NoError(t, h.OnRequestStatusUpdate(1, "b.png", converter.StatusFailed, "boom", 0))
	assert.Equal(t, 2, bar.added)
}

func TestCLIHooksProgressBarClosedOnBatchComplete(t *testing.T) {
	bar := &fakeProgressBar{}
	h := NewCLIHooks(discardLogger(), false, false, nil, bar)

	require.NoError(t, h.OnBatchComplete(converter.Report{}))
	assert.True(t, bar.closed)
}

func TestCLIHooksVerboseLogsFailure(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	h := NewCLIHooks(logger, false, true, nil, nil)

	require.NoError(t, h.OnRequestStatusUpdate(0, "a.png", converter.StatusFailed, "unsupported pair", 0))

	out := buf.String()
	assert.Contains(t, out, "Conversion failed")
	assert.Contains(t, out, "unsupported pair")
	assert.Contains(t, out, "level=ERROR")
}

func TestCLIHooksNoOpDefaults(t *testing.T) {
	h := NewCLIHooks(discardLogger(), false, false, nil, nil)

	require.NoError(t, h.OnRequestQueued(0, converter.ConversionRequest{InputPath: "a.png"}))
	require.NoError(t, h.OnRequestStatusUpdate(0, "a.png", converter.StatusSucceeded, "", 0))
	assert.NoError(t, h.OnBatchComplete(converter.Report{}))
}
