package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Sujal-Gaha/file-forge/pkg/converter"
)

var (
	// These are set during build time using -ldflags.
	version = "dev"
	commit  = "none"
	date    = "unknown"

	// Flags persistent across commands.
	cfgFile     string
	profileName string
	verbose     bool
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "file-forge",
	Short: "Converts files between image and document formats.",
	Long: `file-forge converts files between common image and document formats.

It features:
  - Image conversion, compression, resizing and rotation.
  - Text extraction from PDF and DOCX documents.
  - PDF page extraction and merging.
  - Parallel batch processing with per-request failure isolation.
  - An interactive Terminal UI (TUI) for monitoring progress.`,
	Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
	SilenceUsage:  true,
	SilenceErrors: false,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information.",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "file-forge version %s (commit: %s, built: %s)\n", version, commit, date)
	},
}

// commandContext creates a context that is cancelled on interrupt signals.
func commandContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// Execute adds all child commands to the root command and sets flags
// appropriately.
func Execute() {
	rootCmd.SetVersionTemplate(`{{.Use}} version {{.Version}}` + "\n")
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// init registers persistent flags for the root command.
func init() {
	rootCmd.AddCommand(versionCmd)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Configuration file path (default is search standard locations like ., $HOME/.config/file-forge/)")
	rootCmd.PersistentFlags().StringVar(&profileName, "profile", "", "Name of configuration profile to use")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose (debug) logging output (disables TUI)")
	rootCmd.PersistentFlags().Bool("quiet", false, "Suppress progress output (errors are still reported)")
	rootCmd.PersistentFlags().Bool("no-tui", false, "Disable interactive Terminal UI even if in a TTY")
	rootCmd.PersistentFlags().Int("concurrency", converter.DefaultConcurrency, "Number of parallel workers (0 for auto-detect CPU cores)")
	rootCmd.PersistentFlags().String("on-error", string(converter.DefaultOnErrorMode), `Behavior on request failures ("continue" or "stop")`)
	rootCmd.PersistentFlags().String("timeout", "", "Per-request deadline as a duration string (e.g. '30s'; empty for none)")
	rootCmd.PersistentFlags().String("output-format", string(converter.DefaultOutputFormat), `Final report format ("text", "json", "yaml")`)
}
