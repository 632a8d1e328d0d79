package converter

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"gopkg.in/yaml.v3"
)

// Report summarizes the result of a single batch run.
type Report struct {
	Summary  ReportSummary `json:"summary" yaml:"summary"`
	Outcomes []OutcomeInfo `json:"outcomes" yaml:"outcomes"`
}

// ReportSummary contains aggregated statistics for a batch run.
type ReportSummary struct {
	TotalRequests   int       `json:"totalRequests" yaml:"totalRequests"`
	SucceededCount  int       `json:"succeededCount" yaml:"succeededCount"`
	FailedCount     int       `json:"failedCount" yaml:"failedCount"`
	WarningCount    int       `json:"warningCount" yaml:"warningCount"`
	DurationSeconds float64   `json:"durationSeconds" yaml:"durationSeconds"`
	Concurrency     int       `json:"concurrency" yaml:"concurrency"`
	ProfileUsed     string    `json:"profileUsed,omitempty" yaml:"profileUsed,omitempty"`
	ConfigFilePath  string    `json:"configFilePath,omitempty" yaml:"configFilePath,omitempty"`
	Timestamp       time.Time `json:"timestamp" yaml:"timestamp"`
	SchemaVersion   string    `json:"schemaVersion" yaml:"schemaVersion"`
}

// OutcomeInfo details a single request's outcome in report form.
type OutcomeInfo struct {
	Input        string   `json:"input" yaml:"input"`
	Output       string   `json:"output,omitempty" yaml:"output,omitempty"`
	SourceKind   string   `json:"sourceKind" yaml:"sourceKind"`
	TargetKind   string   `json:"targetKind" yaml:"targetKind"`
	Status       string   `json:"status" yaml:"status"`
	BytesWritten int64    `json:"bytesWritten,omitempty" yaml:"bytesWritten,omitempty"`
	DurationMs   int64    `json:"durationMs" yaml:"durationMs"`
	Warnings     []string `json:"warnings,omitempty" yaml:"warnings,omitempty"`
	ErrorKind    string   `json:"errorKind,omitempty" yaml:"errorKind,omitempty"`
	Error        string   `json:"error,omitempty" yaml:"error,omitempty"`
}

// buildReport compiles the final Report from the dense outcome slice.
func buildReport(opts *Options, outcomes []ConversionOutcome, startTime time.Time) Report {
	infos := make([]OutcomeInfo, 0, len(outcomes))
	succeeded, failed, warnings := 0, 0, 0

	for _, o := range outcomes {
		info := OutcomeInfo{
			Input:      o.Request.InputPath,
			SourceKind: string(o.Request.InputKind),
			TargetKind: string(o.Request.TargetKind),
			Status:     string(o.Status),
		}
		if o.Succeeded() && o.Result != nil {
			succeeded++
			info.Output = o.Result.OutputPath
			info.BytesWritten = o.Result.BytesWritten
			info.DurationMs = o.Result.Elapsed.Milliseconds()
			info.Warnings = o.Result.Warnings
			warnings += len(o.Result.Warnings)
		} else {
			failed++
			if o.Failure != nil {
				info.ErrorKind = string(o.Failure.Kind)
				info.Error = o.Failure.Message
			}
		}
		infos = append(infos, info)
	}

	return Report{
		Summary: ReportSummary{
			TotalRequests:   len(outcomes),
			SucceededCount:  succeeded,
			FailedCount:     failed,
			WarningCount:    warnings,
			DurationSeconds: time.Since(startTime).Seconds(),
			Concurrency:     opts.Concurrency,
			ProfileUsed:     opts.ProfileName,
			ConfigFilePath:  opts.ConfigFilePath,
			Timestamp:       time.Now().UTC(),
			SchemaVersion:   ReportSchemaVersion,
		},
		Outcomes: infos,
	}
}

// Render writes the report to w in the requested format. Text output lists
// each failure with its kind and message; a failing request never suppresses
// reporting of the successes around it.
func (rep Report) Render(w io.Writer, format OutputFormat) error {
	switch format {
	case OutputFormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(rep)
	case OutputFormatYAML:
		enc := yaml.NewEncoder(w)
		defer enc.Close()
		return enc.Encode(rep)
	case OutputFormatText, "":
		for _, o := range rep.Outcomes {
			if o.Status == string(StatusSucceeded) {
				fmt.Fprintf(w, "ok   %s -> %s (%d bytes)\n", o.Input, o.Output, o.BytesWritten)
				for _, warn := range o.Warnings {
					fmt.Fprintf(w, "     warning: %s\n", warn)
				}
			} else {
				fmt.Fprintf(w, "FAIL %s [%s]: %s\n", o.Input, o.ErrorKind, o.Error)
			}
		}
		fmt.Fprintf(w, "%d succeeded, %d failed (%.2fs)\n",
			rep.Summary.SucceededCount, rep.Summary.FailedCount, rep.Summary.DurationSeconds)
		return nil
	default:
		return fmt.Errorf("%w: unknown output format %q", ErrConfigValidation, format)
	}
}
