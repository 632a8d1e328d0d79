package converter

import (
	"context"
	"time"

	"github.com/Sujal-Gaha/file-forge/pkg/converter/kind"
)

// ConversionRequest is the immutable description of one requested operation.
// It is constructed once (per CLI invocation or batch item) and read-only
// thereafter; the dispatcher never mutates it.
type ConversionRequest struct {
	// InputPath is the source file.
	InputPath string `json:"inputPath"`

	// InputKind is the resolved kind of the input. kind.Unknown defers
	// resolution to the dispatcher's Resolving step.
	InputKind kind.FileKind `json:"inputKind"`

	// TargetKind is the requested output kind.
	TargetKind kind.FileKind `json:"targetKind"`

	// OutputPath is the final destination. The concrete encode format for
	// image targets is taken from its extension. Derived by the caller when
	// not supplied explicitly (same stem, new extension, input's directory).
	OutputPath string `json:"outputPath"`

	// Options is the per-request option set.
	Options OptionSet `json:"-"`
}

// ConversionResult describes a successful conversion. Produced only on
// success; a failed request never carries a partially populated result.
type ConversionResult struct {
	OutputPath   string        `json:"outputPath"`
	BytesWritten int64         `json:"bytesWritten"`
	Elapsed      time.Duration `json:"-"`
	Warnings     []string      `json:"warnings,omitempty"`
}

// FailureInfo describes a failed conversion at the outcome boundary.
type FailureInfo struct {
	Kind    ErrorKind `json:"kind"`
	Message string    `json:"message"`
}

// ConversionOutcome is the tagged success-or-failure result of dispatching
// one request. Exactly one of Result and Failure is non-nil.
type ConversionOutcome struct {
	Request ConversionRequest `json:"request"`
	Status  Status            `json:"status"`
	Result  *ConversionResult `json:"result,omitempty"`
	Failure *FailureInfo      `json:"failure,omitempty"`
}

// Succeeded reports whether the outcome is a success.
func (o ConversionOutcome) Succeeded() bool {
	return o.Status == StatusSucceeded
}

// Converter is implemented once per supported (source kind, target kind)
// pair. Converters are pure with respect to the registry: no side effects
// beyond reading the input and writing writePath. The dispatcher owns the
// atomic-write discipline, so writePath is a temporary sibling of the
// request's OutputPath; converters that need the intended format (e.g. the
// image encoder) read it from req.OutputPath's extension.
type Converter interface {
	// Pair returns the (source, target) kind pair this converter serves.
	Pair() (source, target kind.FileKind)

	// ValidateOptions checks req option constraints that do not require
	// opening the input. Violations wrap ErrInvalidOption and name the
	// offending option.
	ValidateOptions(opts OptionSet) error

	// Convert reads req.InputPath and writes the converted output to
	// writePath. It returns converter-level warnings (e.g. an ignored
	// quality option) and the first error encountered.
	Convert(ctx context.Context, req ConversionRequest, writePath string) (warnings []string, err error)
}
