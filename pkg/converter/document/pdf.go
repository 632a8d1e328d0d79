// Package document implements converters between document formats: PDF and
// DOCX text extraction, plain text to DOCX, and PDF page manipulation.
package document

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"rsc.io/pdf"

	"github.com/Sujal-Gaha/file-forge/pkg/converter"
	"github.com/Sujal-Gaha/file-forge/pkg/converter/kind"
)

// PDFToText extracts the text content of a PDF into a plain text file. Pages
// are separated by a form feed so downstream consumers can recover page
// boundaries; a page without extractable text yields an empty segment.
type PDFToText struct{}

// NewPDFToText returns a converter for the (pdf, text) pair.
func NewPDFToText() *PDFToText { return &PDFToText{} }

// Pair implements converter.Converter.
func (c *PDFToText) Pair() (kind.FileKind, kind.FileKind) {
	return kind.PDFDocument, kind.PlainText
}

// ValidateOptions implements converter.Converter. Text extraction takes no
// options.
func (c *PDFToText) ValidateOptions(converter.OptionSet) error { return nil }

// Convert implements converter.Converter.
func (c *PDFToText) Convert(ctx context.Context, req converter.ConversionRequest, writePath string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	doc, err := pdf.Open(req.InputPath)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", req.InputPath, err)
	}

	var warnings []string
	pages := make([]string, 0, doc.NumPage())
	for i := 1; i <= doc.NumPage(); i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		page := doc.Page(i)
		if page.V.IsNull() {
			pages = append(pages, "")
			continue
		}
		text, err := pageText(page)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("page %d: %v", i, err))
			pages = append(pages, "")
			continue
		}
		pages = append(pages, text)
	}

	content := strings.Join(pages, "\f")
	if err := os.WriteFile(writePath, []byte(content), 0o644); err != nil {
		return nil, converter.WrapFSError(err)
	}
	return warnings, nil
}

// pageText flattens a page's positioned text runs into a single string.
// Malformed content streams surface as a recovered error rather than a
// panic.
func pageText(page pdf.Page) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("malformed content stream: %v", r)
		}
	}()
	var words []string
	for _, t := range page.Content().Text {
		if t.S != "" {
			words = append(words, t.S)
		}
	}
	return strings.Join(words, " "), nil
}

// PDFPages rearranges PDF pages. With a page range set it extracts that range
// into a new document; with merge inputs set it concatenates the request
// input and the additional documents in order.
type PDFPages struct{}

// NewPDFPages returns a converter for the (pdf, pdf) pair.
func NewPDFPages() *PDFPages { return &PDFPages{} }

// Pair implements converter.Converter.
func (c *PDFPages) Pair() (kind.FileKind, kind.FileKind) {
	return kind.PDFDocument, kind.PDFDocument
}

// ValidateOptions implements converter.Converter. Page numbers are 1-based;
// range validation against the actual page count happens during conversion.
func (c *PDFPages) ValidateOptions(opts converter.OptionSet) error {
	if len(opts.MergeInputs) > 0 {
		if opts.PageStart != 0 || opts.PageEnd != 0 {
			return fmt.Errorf("%w: page range and merge inputs are mutually exclusive", converter.ErrInvalidOption)
		}
		return nil
	}
	if opts.PageStart < 1 {
		return fmt.Errorf("%w: start page must be at least 1, got %d", converter.ErrInvalidOption, opts.PageStart)
	}
	// PageEnd 0 means through the last page, resolved during conversion.
	if opts.PageEnd != 0 && opts.PageEnd < opts.PageStart {
		return fmt.Errorf("%w: end page %d is before start page %d", converter.ErrInvalidOption, opts.PageEnd, opts.PageStart)
	}
	return nil
}

// Convert implements converter.Converter.
func (c *PDFPages) Convert(ctx context.Context, req converter.ConversionRequest, writePath string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	conf := model.NewDefaultConfiguration()
	opts := req.Options

	if len(opts.MergeInputs) > 0 {
		inputs := append([]string{req.InputPath}, opts.MergeInputs...)
		if err := api.MergeCreateFile(inputs, writePath, false, conf); err != nil {
			return nil, fmt.Errorf("merging %d documents: %w", len(inputs), err)
		}
		return nil, nil
	}

	total, err := api.PageCountFile(req.InputPath)
	if err != nil {
		return nil, fmt.Errorf("counting pages of %s: %w", req.InputPath, err)
	}
	if opts.PageStart > total {
		return nil, fmt.Errorf("%w: start page %d is out of range (1-%d)", converter.ErrInvalidOption, opts.PageStart, total)
	}
	end := opts.PageEnd
	if end == 0 {
		end = total
	}
	if end > total {
		return nil, fmt.Errorf("%w: end page %d is out of range (1-%d)", converter.ErrInvalidOption, end, total)
	}

	selection := []string{fmt.Sprintf("%d-%d", opts.PageStart, end)}
	if err := api.TrimFile(req.InputPath, writePath, selection, conf); err != nil {
		return nil, fmt.Errorf("extracting pages %d-%d: %w", opts.PageStart, end, err)
	}
	return nil, nil
}
