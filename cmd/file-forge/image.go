package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Sujal-Gaha/file-forge/internal/cli"
	"github.com/Sujal-Gaha/file-forge/internal/cli/config"
	"github.com/Sujal-Gaha/file-forge/pkg/converter"
	"github.com/Sujal-Gaha/file-forge/pkg/converter/kind"
	"github.com/Sujal-Gaha/file-forge/pkg/util"
)

var imageCmd = &cobra.Command{
	Use:   "image",
	Short: "Image conversion, compression, resizing and rotation.",
}

var imageConvertCmd = &cobra.Command{
	Use:   "convert INPUT... FORMAT",
	Short: "Convert images to another raster format.",
	Long: `Convert one or more images to the given target format. The format is the
target extension, e.g. "png" or "jpg". By default each output is written next
to its input with the extension swapped.`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		format := normalizeFormat(args[len(args)-1])
		if k, ok := kind.KindForExtension(format); !ok || k != kind.ImageRaster {
			return fmt.Errorf("%w: %q is not a known image format", converter.ErrInvalidOption, format)
		}

		opts, logger, err := loadOptions(cmd)
		if err != nil {
			return err
		}

		quality, _ := cmd.Flags().GetInt("quality")
		optSet := converter.OptionSet{Quality: quality, MaintainAspect: converter.DefaultMaintainAspect}

		requests, err := buildRequests(cmd, args[:len(args)-1], kind.ImageRaster, optSet, func(input string) string {
			return util.WithExtension(input, format)
		})
		if err != nil {
			return err
		}

		ctx, cancel := commandContext()
		defer cancel()
		return cli.Run(ctx, opts, logger, requests)
	},
}

var imageCompressCmd = &cobra.Command{
	Use:   "compress INPUT...",
	Short: "Re-encode images at a lower quality, optionally bounding dimensions.",
	Long: `Compress one or more images by re-encoding them at the given quality, and
optionally scale them down to fit within maximum dimensions. The format is
kept; by default each output gains a "_compressed" stem suffix.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, logger, err := loadOptions(cmd)
		if err != nil {
			return err
		}

		quality, _ := cmd.Flags().GetInt("quality")
		maxWidth, _ := cmd.Flags().GetInt("max-width")
		maxHeight, _ := cmd.Flags().GetInt("max-height")
		optSet := converter.OptionSet{
			Quality:        quality,
			MaxWidth:       maxWidth,
			MaxHeight:      maxHeight,
			MaintainAspect: converter.DefaultMaintainAspect,
		}

		requests, err := buildRequests(cmd, args, kind.ImageRaster, optSet, util.CompressedPath)
		if err != nil {
			return err
		}

		ctx, cancel := commandContext()
		defer cancel()
		runErr := cli.Run(ctx, opts, logger, requests)
		if !opts.Quiet && opts.OutputFormat == converter.OutputFormatText {
			printCompressionSavings(cmd, requests)
		}
		return runErr
	},
}

// printCompressionSavings prints the size reduction for each compressed file
// that made it to disk.
func printCompressionSavings(cmd *cobra.Command, requests []converter.ConversionRequest) {
	for _, req := range requests {
		in, err := os.Stat(req.InputPath)
		if err != nil {
			continue
		}
		out, err := os.Stat(req.OutputPath)
		if err != nil {
			continue
		}
		reduction := 0.0
		if in.Size() > 0 {
			reduction = 100 * (1 - float64(out.Size())/float64(in.Size()))
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %s -> %s (%.1f%% smaller)\n",
			req.InputPath, util.HumanSize(in.Size()), util.HumanSize(out.Size()), reduction)
	}
}

var imageResizeCmd = &cobra.Command{
	Use:   "resize INPUT...",
	Short: "Resize images to explicit dimensions.",
	Long: `Resize one or more images. At least one of --width and --height is
required; with aspect preservation enabled (the default) the missing
dimension is computed from the source aspect ratio. By default each output
gains a "_resized_WxH" stem suffix.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		width, _ := cmd.Flags().GetInt("width")
		height, _ := cmd.Flags().GetInt("height")
		if width <= 0 && height <= 0 {
			return fmt.Errorf("%w: at least one of --width and --height is required", converter.ErrInvalidOption)
		}

		opts, logger, err := loadOptions(cmd)
		if err != nil {
			return err
		}

		quality, _ := cmd.Flags().GetInt("quality")
		maintainAspect, _ := cmd.Flags().GetBool("maintain-aspect")
		optSet := converter.OptionSet{
			Quality:        quality,
			Width:          width,
			Height:         height,
			MaintainAspect: maintainAspect,
		}

		requests, err := buildRequests(cmd, args, kind.ImageRaster, optSet, func(input string) string {
			return util.ResizedPath(input, width, height)
		})
		if err != nil {
			return err
		}

		ctx, cancel := commandContext()
		defer cancel()
		return cli.Run(ctx, opts, logger, requests)
	},
}

var imageRotateCmd = &cobra.Command{
	Use:   "rotate INPUT...",
	Short: "Rotate images counter-clockwise by an angle in degrees.",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		angle, _ := cmd.Flags().GetFloat64("angle")
		if angle == 0 {
			return fmt.Errorf("%w: --angle is required and must be non-zero", converter.ErrInvalidOption)
		}

		opts, logger, err := loadOptions(cmd)
		if err != nil {
			return err
		}

		quality, _ := cmd.Flags().GetInt("quality")
		optSet := converter.OptionSet{
			Quality:        quality,
			Angle:          angle,
			MaintainAspect: converter.DefaultMaintainAspect,
		}

		requests, err := buildRequests(cmd, args, kind.ImageRaster, optSet, func(input string) string {
			return util.RotatedPath(input, angle)
		})
		if err != nil {
			return err
		}

		ctx, cancel := commandContext()
		defer cancel()
		return cli.Run(ctx, opts, logger, requests)
	},
}

// loadOptions runs the shared configuration pipeline for a subcommand.
func loadOptions(cmd *cobra.Command) (converter.Options, *slog.Logger, error) {
	return config.LoadAndValidate(cfgFile, profileName, version, cmd.Flags())
}

// buildRequests expands input arguments into conversion requests. The derive
// function computes the default output path per input; an explicit --output
// overrides it and is only valid with exactly one input.
func buildRequests(cmd *cobra.Command, inputs []string, target kind.FileKind, optSet converter.OptionSet, derive func(string) string) ([]converter.ConversionRequest, error) {
	paths, err := cli.ExpandInputs(inputs)
	if err != nil {
		return nil, err
	}

	output, _ := cmd.Flags().GetString("output")
	if output != "" && len(paths) != 1 {
		return nil, fmt.Errorf("%w: --output requires exactly one input, got %d", converter.ErrInvalidOption, len(paths))
	}

	requests := make([]converter.ConversionRequest, 0, len(paths))
	for _, input := range paths {
		out := output
		if out == "" {
			out = derive(input)
		}
		requests = append(requests, converter.ConversionRequest{
			InputPath:  input,
			TargetKind: target,
			OutputPath: out,
			Options:    optSet,
		})
	}
	return requests, nil
}

func normalizeFormat(s string) string {
	return strings.ToLower(strings.TrimPrefix(s, "."))
}

func init() {
	rootCmd.AddCommand(imageCmd)
	imageCmd.AddCommand(imageConvertCmd, imageCompressCmd, imageResizeCmd, imageRotateCmd)

	for _, c := range []*cobra.Command{imageConvertCmd, imageCompressCmd, imageResizeCmd, imageRotateCmd} {
		c.Flags().StringP("output", "o", "", "Output path (requires exactly one input)")
	}

	imageConvertCmd.Flags().IntP("quality", "q", converter.DefaultConvertQuality, "Encode quality for lossy targets (1-100)")
	imageCompressCmd.Flags().IntP("quality", "q", converter.DefaultCompressQuality, "Encode quality for lossy targets (1-100)")
	imageCompressCmd.Flags().Int("max-width", 0, "Maximum output width in pixels (0 for unbounded)")
	imageCompressCmd.Flags().Int("max-height", 0, "Maximum output height in pixels (0 for unbounded)")
	imageResizeCmd.Flags().IntP("quality", "q", converter.DefaultConvertQuality, "Encode quality for lossy targets (1-100)")
	imageResizeCmd.Flags().IntP("width", "w", 0, "Target width in pixels")
	imageResizeCmd.Flags().IntP("height", "H", 0, "Target height in pixels")
	imageResizeCmd.Flags().Bool("maintain-aspect", converter.DefaultMaintainAspect, "Preserve the aspect ratio when one dimension is missing")
	imageRotateCmd.Flags().IntP("quality", "q", converter.DefaultConvertQuality, "Encode quality for lossy targets (1-100)")
	imageRotateCmd.Flags().Float64("angle", 0, "Rotation angle in degrees, counter-clockwise")
}
