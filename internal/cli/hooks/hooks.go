// Package hooks bridges converter batch events to the CLI's UI layer (TUI,
// logger, progress bar).
package hooks

import (
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Sujal-Gaha/file-forge/pkg/converter"
)

// --- TUI Message Structs ---

// RequestQueuedMsg signals that a conversion request entered the batch.
type RequestQueuedMsg struct {
	Index int
	Path  string
}

// RequestStatusUpdateMsg signals a change in a request's processing status.
type RequestStatusUpdateMsg struct {
	Index    int
	Path     string
	Status   converter.Status
	Message  string
	Duration time.Duration
}

// BatchCompleteMsg signals the completion of the entire batch run.
type BatchCompleteMsg struct{ Report converter.Report }

// TUIProgram defines the interface needed to interact with the Bubble Tea
// program.
type TUIProgram interface {
	Send(msg tea.Msg)
}

// ProgressBar defines the interface needed to interact with the progress bar.
// The method set mirrors *progressbar.ProgressBar so the concrete bar
// satisfies it directly.
type ProgressBar interface {
	Add(num int) error
	Describe(description string)
	Close() error
}

// NoOpTUIProgram provides a default null implementation.
type NoOpTUIProgram struct{}

// Send implements TUIProgram.
func (n *NoOpTUIProgram) Send(msg tea.Msg) {}

// NoOpProgressBar provides a default null implementation.
type NoOpProgressBar struct{}

// Add implements ProgressBar.
func (n *NoOpProgressBar) Add(num int) error { return nil }

// Describe implements ProgressBar.
func (n *NoOpProgressBar) Describe(description string) {}

// Close implements ProgressBar.
func (n *NoOpProgressBar) Close() error { return nil }

// CLIHooks implements the converter.Hooks interface, routing batch events to
// whichever frontend is active: the TUI, verbose logging, or a progress bar.
type CLIHooks struct {
	logger         *slog.Logger
	tuiEnabled     bool
	verboseEnabled bool
	tuiProgram     TUIProgram
	progressBar    ProgressBar
	mu             sync.Mutex
}

// NewCLIHooks creates a new CLIHooks instance. Pass nil for tuiProgram or
// progressBar if not applicable; NoOp versions will be used.
func NewCLIHooks(logger *slog.Logger, tuiEnabled, verboseEnabled bool, tuiProg TUIProgram, progBar ProgressBar) *CLIHooks {
	if tuiProg == nil {
		tuiProg = &NoOpTUIProgram{}
	}
	if progBar == nil {
		progBar = &NoOpProgressBar{}
	}
	return &CLIHooks{
		logger:         logger,
		tuiEnabled:     tuiEnabled,
		verboseEnabled: verboseEnabled,
		tuiProgram:     tuiProg,
		progressBar:    progBar,
	}
}

// SetTUIProgram wires a running Bubble Tea program into the hooks after
// construction. The program is created after the hooks because the model
// needs the request list first.
func (h *CLIHooks) SetTUIProgram(p TUIProgram) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if p != nil {
		h.tuiProgram = p
	}
}

// OnRequestQueued handles the event when a request is admitted to the batch.
func (h *CLIHooks) OnRequestQueued(index int, req converter.ConversionRequest) error {
	if h.tuiEnabled {
		h.tuiProgram.Send(RequestQueuedMsg{Index: index, Path: req.InputPath})
	} else if h.verboseEnabled {
		h.logger.Debug("Request queued", "index", index, "input", req.InputPath)
	}
	return nil
}

// OnRequestStatusUpdate handles events when a request's status changes.
// This method MUST be thread-safe.
func (h *CLIHooks) OnRequestStatusUpdate(index int, path string, status converter.Status, message string, duration time.Duration) error {
	if h.tuiEnabled {
		h.tuiProgram.Send(RequestStatusUpdateMsg{
			Index:    index,
			Path:     path,
			Status:   status,
			Message:  message,
			Duration: duration,
		})
		return nil
	}

	if h.verboseEnabled {
		logLevel := slog.LevelDebug
		logMsg := "Request status updated"
		attrs := []any{
			slog.Int("index", index),
			slog.String("path", path),
			slog.String("status", string(status)),
		}
		if duration > 0 {
			attrs = append(attrs, slog.Duration("duration", duration))
		}
		if message != "" {
			logKey := "message"
			if status == converter.StatusFailed {
				logKey = "error"
			}
			attrs = append(attrs, slog.String(logKey, message))
		}

		switch status {
		case converter.StatusSucceeded:
			logLevel = slog.LevelInfo
		case converter.StatusFailed:
			logLevel = slog.LevelError
			logMsg = "Conversion failed"
		}
		h.logger.Log(nil, logLevel, logMsg, attrs...)
		return nil
	}

	// Progress bar mode. Only terminal states advance the bar.
	h.mu.Lock()
	defer h.mu.Unlock()
	if status.Terminal() {
		_ = h.progressBar.Add(1)
	}
	if status == converter.StatusFailed {
		h.logger.Error("Conversion failed", "path", path, "error", message)
	}
	return nil
}

// OnBatchComplete handles the event when the entire batch finishes. Sends
// the final report to the TUI or finalizes the progress bar.
func (h *CLIHooks) OnBatchComplete(report converter.Report) error {
	if h.tuiEnabled {
		h.tuiProgram.Send(BatchCompleteMsg{Report: report})
		return nil
	}
	h.mu.Lock()
	_ = h.progressBar.Close()
	h.mu.Unlock()
	if _, ok := h.progressBar.(*NoOpProgressBar); !ok {
		// Newline after the bar so the report does not overlap it.
		_, _ = fmt.Fprintf(os.Stderr, "\n")
	}
	return nil
}
