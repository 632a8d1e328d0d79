package converter

// Status defines the possible processing states of a single conversion
// request within the dispatcher. A request moves Pending -> Resolving ->
// Validating -> Converting and terminates in Succeeded or Failed; it never
// re-enters Pending.
type Status string

// Constants representing the defined request processing statuses.
const (
	StatusPending    Status = "pending"
	StatusResolving  Status = "resolving"
	StatusValidating Status = "validating"
	StatusConverting Status = "converting"
	StatusSucceeded  Status = "succeeded"
	StatusFailed     Status = "failed"
)

// Terminal reports whether s is one of the two terminal statuses.
func (s Status) Terminal() bool {
	return s == StatusSucceeded || s == StatusFailed
}

// ErrorKind classifies a conversion failure. Callers see exactly one kind per
// failed request; backend library errors are always normalized to
// ErrorKindConversionFailed so no caller depends on a backend's error
// taxonomy.
type ErrorKind string

// Constants representing the defined failure classifications.
const (
	ErrorKindNone                  ErrorKind = ""
	ErrorKindUnrecognizedFileKind  ErrorKind = "unrecognized_file_kind"
	ErrorKindUnsupportedConversion ErrorKind = "unsupported_conversion"
	ErrorKindInvalidOption         ErrorKind = "invalid_option"
	ErrorKindConversionFailed      ErrorKind = "conversion_failed"
	ErrorKindTimeout               ErrorKind = "timeout"
	ErrorKindIO                    ErrorKind = "io_error"
)

// OnErrorMode defines the batch behavior when a request fails.
type OnErrorMode string

const (
	OnErrorContinue OnErrorMode = "continue"
	OnErrorStop     OnErrorMode = "stop"
)

// OutputFormat defines the format for the final batch report printed to
// standard output.
type OutputFormat string

const (
	OutputFormatText OutputFormat = "text"
	OutputFormatJSON OutputFormat = "json"
	OutputFormatYAML OutputFormat = "yaml"
)
