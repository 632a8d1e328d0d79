package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Sujal-Gaha/file-forge/internal/cli"
	"github.com/Sujal-Gaha/file-forge/pkg/converter"
	"github.com/Sujal-Gaha/file-forge/pkg/converter/kind"
	"github.com/Sujal-Gaha/file-forge/pkg/util"
)

var docCmd = &cobra.Command{
	Use:   "doc",
	Short: "Document format conversion.",
}

var docConvertCmd = &cobra.Command{
	Use:   "convert INPUT... FORMAT",
	Short: "Convert documents to another format.",
	Long: `Convert one or more documents to the given target format. Supported
conversions are PDF to text, DOCX to text, and text to DOCX. The format is
the target extension, e.g. "txt" or "docx". By default each output is written
next to its input with the extension swapped.`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		format := normalizeFormat(args[len(args)-1])
		target, ok := kind.KindForExtension(format)
		if !ok || target == kind.ImageRaster {
			return fmt.Errorf("%w: %q is not a known document format", converter.ErrInvalidOption, format)
		}

		opts, logger, err := loadOptions(cmd)
		if err != nil {
			return err
		}

		requests, err := buildRequests(cmd, args[:len(args)-1], target, converter.OptionSet{}, func(input string) string {
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

func init() {
	rootCmd.AddCommand(docCmd)
	docCmd.AddCommand(docConvertCmd)
	docConvertCmd.Flags().StringP("output", "o", "", "Output path (requires exactly one input)")
}
