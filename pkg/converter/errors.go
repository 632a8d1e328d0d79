package converter

import "errors"

// --- Exported Error Variables ---
// These errors represent the failure categories a conversion request can end
// in. Library users can check against these using errors.Is; the dispatcher
// maps them onto ErrorKind values at the outcome boundary.

var (
	// ErrUnrecognizedFileKind indicates that neither the file extension nor
	// content sniffing produced a usable FileKind for a request side.
	ErrUnrecognizedFileKind = errors.New("unrecognized file kind")

	// ErrUnsupportedConversion indicates that no converter is registered for
	// the request's (source kind, target kind) pair. The dispatcher reports
	// this to the caller; it never silently coerces to a "closest" pair.
	ErrUnsupportedConversion = errors.New("unsupported conversion")

	// ErrInvalidOption indicates that the request's option set violates the
	// selected converter's declared constraints (e.g. quality outside 1-100,
	// a page index outside the document's range). The message names the
	// offending option.
	ErrInvalidOption = errors.New("invalid option")

	// ErrConversionFailed wraps an underlying codec/library error raised
	// while a converter was running. Backend error types never escape past
	// this wrapper.
	ErrConversionFailed = errors.New("conversion failed")

	// ErrTimeout indicates that a caller-supplied deadline elapsed while the
	// conversion was still running. The request's temporary output is
	// discarded; other requests in the batch are unaffected.
	ErrTimeout = errors.New("conversion timed out")

	// ErrIO indicates a filesystem read/write/permission failure on the
	// request's input or output path.
	ErrIO = errors.New("i/o error")

	// ErrRegistryFrozen indicates an attempted registration after the
	// registry's initialization phase ended. Registration is only permitted
	// before Freeze is called.
	ErrRegistryFrozen = errors.New("registry is frozen")

	// ErrConfigValidation indicates that the provided Options failed the
	// validation checks performed before a batch run. This is returned
	// directly as a fatal error, never as a per-request outcome.
	ErrConfigValidation = errors.New("invalid configuration options provided")
)

// KindOfError maps an error produced during dispatch onto its ErrorKind.
// Unclassified errors normalize to ErrorKindConversionFailed.
func KindOfError(err error) ErrorKind {
	switch {
	case err == nil:
		return ErrorKindNone
	case errors.Is(err, ErrInvalidOption):
		return ErrorKindInvalidOption
	case errors.Is(err, ErrUnsupportedConversion):
		return ErrorKindUnsupportedConversion
	case errors.Is(err, ErrUnrecognizedFileKind):
		return ErrorKindUnrecognizedFileKind
	case errors.Is(err, ErrTimeout):
		return ErrorKindTimeout
	case errors.Is(err, ErrIO):
		return ErrorKindIO
	default:
		return ErrorKindConversionFailed
	}
}
