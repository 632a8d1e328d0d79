package main

import (
	"fmt"
	"image"
	"os"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/spf13/cobra"

	"github.com/Sujal-Gaha/file-forge/internal/cli"
	"github.com/Sujal-Gaha/file-forge/pkg/converter/kind"
	"github.com/Sujal-Gaha/file-forge/pkg/util"

	// Ensure image decoders are registered for dimension probing.
	_ "github.com/Sujal-Gaha/file-forge/pkg/converter/imageconv"
)

var infoCmd = &cobra.Command{
	Use:   "info INPUT...",
	Short: "Show detected kind, size and format details for files.",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, _, err := loadOptions(cmd)
		if err != nil {
			return err
		}

		paths, err := cli.ExpandInputs(args)
		if err != nil {
			return err
		}

		var firstErr error
		for _, path := range paths {
			if err := printInfo(cmd, opts.Detector, path); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", path, err)
				if firstErr == nil {
					firstErr = err
				}
			}
		}
		return firstErr
	},
}

func printInfo(cmd *cobra.Command, detector kind.Detector, path string) error {
	fi, err := os.Stat(path)
	if err != nil {
		return err
	}

	k, err := detector.DetectKind(path)
	if err != nil {
		k = kind.Unknown
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s\n", path)
	fmt.Fprintf(out, "  kind: %s\n", k)
	fmt.Fprintf(out, "  size: %s (%d bytes)\n", util.HumanSize(fi.Size()), fi.Size())

	switch k {
	case kind.ImageRaster:
		if cfg, format, err := decodeImageConfig(path); err == nil {
			fmt.Fprintf(out, "  format: %s\n", format)
			fmt.Fprintf(out, "  dimensions: %dx%d\n", cfg.Width, cfg.Height)
		}
	case kind.PDFDocument:
		if pages, err := api.PageCountFile(path); err == nil {
			fmt.Fprintf(out, "  pages: %d\n", pages)
		}
	}
	return nil
}

func decodeImageConfig(path string) (image.Config, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return image.Config{}, "", err
	}
	defer f.Close()
	cfg, format, err := image.DecodeConfig(f)
	return cfg, format, err
}

func init() {
	rootCmd.AddCommand(infoCmd)
}
