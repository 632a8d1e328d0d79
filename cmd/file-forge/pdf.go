package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Sujal-Gaha/file-forge/internal/cli"
	"github.com/Sujal-Gaha/file-forge/pkg/converter"
	"github.com/Sujal-Gaha/file-forge/pkg/converter/kind"
	"github.com/Sujal-Gaha/file-forge/pkg/util"
)

var pdfCmd = &cobra.Command{
	Use:   "pdf",
	Short: "PDF page extraction and merging.",
}

var pdfExtractCmd = &cobra.Command{
	Use:   "extract INPUT",
	Short: "Extract a 1-based page range into a new PDF.",
	Long: `Extract an inclusive, 1-based page range from a PDF into a new document.
By default the output gains a "_pages_FROM-TO" stem suffix.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		from, _ := cmd.Flags().GetInt("from")
		to, _ := cmd.Flags().GetInt("to")
		if !cmd.Flags().Changed("to") {
			// Omitting --to extracts the single page named by --from.
			to = from
		}

		opts, logger, err := loadOptions(cmd)
		if err != nil {
			return err
		}

		optSet := converter.OptionSet{PageStart: from, PageEnd: to}
		requests, err := buildRequests(cmd, args, kind.PDFDocument, optSet, func(input string) string {
			return util.PagesPath(input, from, to)
		})
		if err != nil {
			return err
		}

		ctx, cancel := commandContext()
		defer cancel()
		return cli.Run(ctx, opts, logger, requests)
	},
}

var pdfMergeCmd = &cobra.Command{
	Use:   "merge INPUT... -o OUTPUT",
	Short: "Concatenate PDF documents in argument order.",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		output, _ := cmd.Flags().GetString("output")
		if output == "" {
			return fmt.Errorf("%w: --output is required for merge", converter.ErrInvalidOption)
		}

		opts, logger, err := loadOptions(cmd)
		if err != nil {
			return err
		}

		paths, err := cli.ExpandInputs(args)
		if err != nil {
			return err
		}
		if len(paths) < 2 {
			return fmt.Errorf("%w: merge requires at least two inputs, got %d", converter.ErrInvalidOption, len(paths))
		}

		// A merge is a single request: the first document is the request
		// input and the rest ride along as merge inputs.
		requests := []converter.ConversionRequest{{
			InputPath:  paths[0],
			TargetKind: kind.PDFDocument,
			OutputPath: output,
			Options:    converter.OptionSet{MergeInputs: paths[1:]},
		}}

		ctx, cancel := commandContext()
		defer cancel()
		return cli.Run(ctx, opts, logger, requests)
	},
}

func init() {
	rootCmd.AddCommand(pdfCmd)
	pdfCmd.AddCommand(pdfExtractCmd, pdfMergeCmd)

	pdfExtractCmd.Flags().StringP("output", "o", "", "Output path (defaults next to the input)")
	pdfExtractCmd.Flags().Int("from", 1, "First page of the range (1-based, inclusive)")
	pdfExtractCmd.Flags().Int("to", 0, "Last page of the range (1-based, inclusive; defaults to --from)")
	_ = pdfExtractCmd.MarkFlagRequired("from")

	pdfMergeCmd.Flags().StringP("output", "o", "", "Required. Output path for the merged document.")
	_ = pdfMergeCmd.MarkFlagRequired("output")
}
