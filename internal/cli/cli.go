// Package cli wires the converter library to the terminal frontends and
// drives batch runs for the cobra commands.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/schollz/progressbar/v3"
	"golang.org/x/term"

	"github.com/Sujal-Gaha/file-forge/internal/cli/hooks"
	"github.com/Sujal-Gaha/file-forge/internal/cli/ui"
	"github.com/Sujal-Gaha/file-forge/pkg/converter"
	"github.com/Sujal-Gaha/file-forge/pkg/converter/document"
	"github.com/Sujal-Gaha/file-forge/pkg/converter/imageconv"
)

// BuildRegistry constructs the default converter registry with every
// built-in converter registered, then freezes it.
func BuildRegistry(opts *converter.Options) (*converter.Registry, error) {
	reg := converter.NewRegistry(opts.Logger)
	converters := []converter.Converter{
		imageconv.NewRasterConverter(),
		document.NewPDFToText(),
		document.NewPDFPages(),
		document.NewDocxToText(),
		document.NewTextToDocx(opts.Decoder),
	}
	for _, c := range converters {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	reg.Freeze()
	return reg, nil
}

// Run executes a batch of conversion requests with the frontend selected by
// the options and the environment: the TUI on an interactive terminal, a
// progress bar when the TUI is disabled but stderr is a TTY, plain logging
// otherwise. The final report is rendered to stdout. A non-nil error is
// returned when any request failed, so the command exits non-zero.
func Run(ctx context.Context, opts converter.Options, logger *slog.Logger, requests []converter.ConversionRequest) error {
	if len(requests) == 0 {
		return fmt.Errorf("%w: no conversion requests to run", converter.ErrConfigValidation)
	}

	if opts.Registry == nil {
		reg, err := BuildRegistry(&opts)
		if err != nil {
			return err
		}
		opts.Registry = reg
	}

	isTTY := term.IsTerminal(int(os.Stderr.Fd()))
	useTUI := opts.TuiEnabled && isTTY
	useBar := !useTUI && !opts.Verbose && !opts.Quiet && isTTY

	var bar hooks.ProgressBar
	if useBar {
		bar = progressbar.NewOptions(len(requests),
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionSetDescription("converting"),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
		)
	}
	cliHooks := hooks.NewCLIHooks(logger, useTUI, opts.Verbose, nil, bar)
	opts.EventHooks = cliHooks

	runner, err := converter.NewBatchRunner(opts)
	if err != nil {
		return err
	}

	var report converter.Report
	if useTUI {
		model := ui.NewModel(opts.AppVersion)
		program := tea.NewProgram(&model, tea.WithOutput(os.Stderr))
		cliHooks.SetTUIProgram(program)

		done := make(chan struct{})
		var runErr error
		go func() {
			defer close(done)
			_, report, runErr = runBatch(ctx, runner, requests)
			program.Quit()
		}()
		if _, teaErr := program.Run(); teaErr != nil {
			logger.Error("Terminal UI failed", slog.Any("error", teaErr))
		}
		<-done
		if runErr != nil {
			return runErr
		}
	} else {
		_, report, err = runBatch(ctx, runner, requests)
		if err != nil {
			return err
		}
	}

	if err := report.Render(os.Stdout, opts.OutputFormat); err != nil {
		return err
	}

	if report.Summary.FailedCount > 0 {
		return fmt.Errorf("%d of %d conversions failed", report.Summary.FailedCount, report.Summary.TotalRequests)
	}
	return nil
}

func runBatch(ctx context.Context, runner *converter.BatchRunner, requests []converter.ConversionRequest) ([]converter.ConversionOutcome, converter.Report, error) {
	outcomes, report := runner.RunBatch(ctx, requests)
	return outcomes, report, nil
}

// ExpandInputs resolves the positional input arguments into concrete file
// paths. Arguments containing glob metacharacters are expanded and sorted;
// plain paths are kept as given so a missing file surfaces as a per-request
// failure rather than a silent skip.
func ExpandInputs(args []string) ([]string, error) {
	var paths []string
	for _, arg := range args {
		if !containsGlobMeta(arg) {
			paths = append(paths, arg)
			continue
		}
		matches, err := filepath.Glob(arg)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid glob pattern %q: %w", converter.ErrConfigValidation, arg, err)
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("%w: pattern %q matched no files", converter.ErrConfigValidation, arg)
		}
		sort.Strings(matches)
		paths = append(paths, matches...)
	}
	return paths, nil
}

func containsGlobMeta(s string) bool {
	for _, r := range s {
		switch r {
		case '*', '?', '[':
			return true
		}
	}
	return false
}
