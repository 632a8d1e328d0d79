package converter

import (
	"log/slog"
	"time"

	"github.com/Sujal-Gaha/file-forge/pkg/converter/kind"
	"github.com/Sujal-Gaha/file-forge/pkg/converter/textenc"
)

// OptionSet carries the recognized per-conversion options. Each converter
// family declares which fields it consumes and validates them; fields a
// converter does not consume are ignored. The zero value of a numeric field
// means "unset" except Quality, which callers must populate explicitly (the
// CLI applies per-command defaults).
type OptionSet struct {
	// Quality is the encode quality for lossy image targets, 1-100.
	// Lossless targets ignore it and record a warning instead of failing.
	Quality int `mapstructure:"quality"`

	// Width and Height are exact resize targets in pixels.
	Width  int `mapstructure:"width"`
	Height int `mapstructure:"height"`

	// MaxWidth and MaxHeight bound the output dimensions while preserving
	// aspect ratio (compress semantics).
	MaxWidth  int `mapstructure:"maxWidth"`
	MaxHeight int `mapstructure:"maxHeight"`

	// MaintainAspect controls whether resizing preserves the aspect ratio.
	MaintainAspect bool `mapstructure:"maintainAspect"`

	// Angle is a rotation in degrees, counter-clockwise.
	Angle float64 `mapstructure:"angle"`

	// PageStart and PageEnd select a 1-based inclusive page range for PDF
	// page extraction. PageEnd 0 means "through the last page".
	PageStart int `mapstructure:"pageStart"`
	PageEnd   int `mapstructure:"pageEnd"`

	// MergeInputs lists additional PDF paths appended after the request's
	// input during a PDF merge.
	MergeInputs []string `mapstructure:"-"`

	// Timeout overrides the run-level deadline for this request. 0 means
	// inherit.
	Timeout time.Duration `mapstructure:"-"`
}

// Hooks defines callbacks for status updates during a batch run.
// Implementations MUST be thread-safe; methods may be called concurrently
// from worker goroutines.
type Hooks interface {
	OnRequestQueued(index int, req ConversionRequest) error
	OnRequestStatusUpdate(index int, path string, status Status, message string, duration time.Duration) error
	OnBatchComplete(report Report) error
}

// NoOpHooks provides a default, do-nothing implementation of the Hooks
// interface.
type NoOpHooks struct{}

// OnRequestQueued implements the Hooks interface. It performs no action.
func (h *NoOpHooks) OnRequestQueued(index int, req ConversionRequest) error { return nil }

// OnRequestStatusUpdate implements the Hooks interface. It performs no action.
func (h *NoOpHooks) OnRequestStatusUpdate(index int, path string, status Status, message string, duration time.Duration) error {
	return nil
}

// OnBatchComplete implements the Hooks interface. It performs no action.
func (h *NoOpHooks) OnBatchComplete(report Report) error { return nil }

// Options holds all configuration for a batch run.
type Options struct {
	// --- Application Info ---
	AppVersion string `mapstructure:"-"` // Populated by the caller for reporting.

	// --- Behavior & Control ---
	ConfigFilePath string      `mapstructure:"-"`       // Path to the loaded config file (for reporting).
	ProfileName    string      `mapstructure:"-"`       // Name of the profile used (for reporting).
	Verbose        bool        `mapstructure:"verbose"` // Enable debug logging (disables TUI).
	Quiet          bool        `mapstructure:"quiet"`   // Suppress progress output.
	TuiEnabled     bool        `mapstructure:"tui"`     // Hint for the CLI to use the TUI.
	OnErrorMode    OnErrorMode `mapstructure:"onError"` // Behavior on request failure ("continue", "stop").

	// --- Performance ---
	Concurrency int           `mapstructure:"concurrency"` // Number of workers (0=auto).
	Timeout     time.Duration `mapstructure:"timeout"`     // Per-request deadline (0=none).

	// --- Detection & Text Handling ---
	KindMappings    map[string]kind.FileKind `mapstructure:"-"`               // Extension -> kind overrides (derived from kindMappings config).
	DefaultEncoding string                   `mapstructure:"defaultEncoding"` // Fallback charset for text inputs.

	// --- Output & Formatting ---
	OutputFormat OutputFormat `mapstructure:"outputFormat"` // ("text", "json", "yaml") for the final report.

	// --- Injected Dependencies ---
	EventHooks Hooks           `mapstructure:"-"` // Optional: status callbacks (NoOpHooks when nil).
	Logger     slog.Handler    `mapstructure:"-"` // Required: logging backend.
	Registry   *Registry       `mapstructure:"-"` // Required: frozen converter registry.
	Detector   kind.Detector   `mapstructure:"-"` // Optional: kind detection (default sniffing detector).
	Decoder    textenc.Decoder `mapstructure:"-"` // Optional: text decoding (default charset decoder).
}
