package converter

import "time"

// Constants defining default values for various configuration options.
// These are used when setting up Viper defaults in the configuration loading
// process and as cobra flag defaults.
const (
	// DefaultConcurrency determines the default number of batch workers.
	// 0 means runtime.NumCPU().
	DefaultConcurrency = 0
	// DefaultOnErrorMode is the default batch behavior on a failed request.
	DefaultOnErrorMode = OnErrorContinue
	// DefaultOutputFormat is the default format for the final batch report.
	DefaultOutputFormat = OutputFormatText
	// DefaultTimeout is the default per-request deadline. 0 disables it.
	DefaultTimeout = time.Duration(0)
	// DefaultTuiEnabled is the default state for the Terminal UI.
	DefaultTuiEnabled = true
	// DefaultVerbose is the default state for verbose logging.
	DefaultVerbose = false
	// DefaultQuiet is the default state for suppressing the progress bar.
	DefaultQuiet = false
	// DefaultConvertQuality is the encode quality used by "image convert".
	DefaultConvertQuality = 95
	// DefaultCompressQuality is the encode quality used by "image compress".
	DefaultCompressQuality = 85
	// DefaultMaintainAspect is the default aspect handling for "image resize".
	DefaultMaintainAspect = true
)

// Constants related to report schema.
const (
	// ReportSchemaVersion indicates the version of the JSON/YAML report
	// structure. Increment on incompatible changes.
	ReportSchemaVersion = "1.0"
)

// Quality bounds accepted by lossy image encoders.
const (
	MinQuality = 1
	MaxQuality = 100
)
