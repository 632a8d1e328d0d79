package document

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/fumiama/go-docx"

	"github.com/Sujal-Gaha/file-forge/pkg/converter"
	"github.com/Sujal-Gaha/file-forge/pkg/converter/kind"
	"github.com/Sujal-Gaha/file-forge/pkg/converter/textenc"
)

// DocxToText extracts paragraph text from a DOCX document into a plain text
// file, one line per paragraph. Empty paragraphs are preserved as empty
// lines so the document's vertical structure survives the conversion.
type DocxToText struct{}

// NewDocxToText returns a converter for the (docx, text) pair.
func NewDocxToText() *DocxToText { return &DocxToText{} }

// Pair implements converter.Converter.
func (c *DocxToText) Pair() (kind.FileKind, kind.FileKind) {
	return kind.DocxDocument, kind.PlainText
}

// ValidateOptions implements converter.Converter.
func (c *DocxToText) ValidateOptions(converter.OptionSet) error { return nil }

// Convert implements converter.Converter.
func (c *DocxToText) Convert(ctx context.Context, req converter.ConversionRequest, writePath string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(req.InputPath)
	if err != nil {
		return nil, converter.WrapFSError(err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, converter.WrapFSError(err)
	}

	doc, err := docx.Parse(f, info.Size())
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", req.InputPath, err)
	}

	var lines []string
	for _, item := range doc.Document.Body.Items {
		para, ok := item.(*docx.Paragraph)
		if !ok {
			continue
		}
		lines = append(lines, paragraphText(para))
	}

	content := strings.Join(lines, "\n")
	if len(lines) > 0 {
		content += "\n"
	}
	if err := os.WriteFile(writePath, []byte(content), 0o644); err != nil {
		return nil, converter.WrapFSError(err)
	}
	return nil, nil
}

// paragraphText concatenates the text runs of a paragraph.
func paragraphText(para *docx.Paragraph) string {
	var sb strings.Builder
	for _, child := range para.Children {
		run, ok := child.(*docx.Run)
		if !ok {
			continue
		}
		for _, rc := range run.Children {
			if t, ok := rc.(*docx.Text); ok {
				sb.WriteString(t.Text)
			}
		}
	}
	return sb.String()
}

// TextToDocx builds a DOCX document from a plain text file, one paragraph per
// line. Input bytes are decoded to UTF-8 before the document is assembled, so
// legacy encodings survive the trip.
type TextToDocx struct {
	decoder textenc.Decoder
}

// NewTextToDocx returns a converter for the (text, docx) pair. A nil decoder
// falls back to charset detection with no configured default.
func NewTextToDocx(decoder textenc.Decoder) *TextToDocx {
	if decoder == nil {
		decoder = textenc.NewCharsetDecoder("")
	}
	return &TextToDocx{decoder: decoder}
}

// Pair implements converter.Converter.
func (c *TextToDocx) Pair() (kind.FileKind, kind.FileKind) {
	return kind.PlainText, kind.DocxDocument
}

// ValidateOptions implements converter.Converter.
func (c *TextToDocx) ValidateOptions(converter.OptionSet) error { return nil }

// Convert implements converter.Converter.
func (c *TextToDocx) Convert(ctx context.Context, req converter.ConversionRequest, writePath string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	raw, err := os.ReadFile(req.InputPath)
	if err != nil {
		return nil, converter.WrapFSError(err)
	}

	var warnings []string
	content, encoding, certain, err := c.decoder.DecodeToUTF8(raw)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", req.InputPath, err)
	}
	if !certain && encoding != "utf-8" {
		warnings = append(warnings, fmt.Sprintf("input encoding detected as %s with low confidence", encoding))
	}

	w := docx.New().WithDefaultTheme()
	for _, line := range splitLines(string(content)) {
		para := w.AddParagraph()
		if line != "" {
			para.AddText(line)
		}
	}

	out, err := os.Create(writePath)
	if err != nil {
		return nil, converter.WrapFSError(err)
	}
	if _, err := w.WriteTo(out); err != nil {
		out.Close()
		return nil, fmt.Errorf("writing %s: %w", req.OutputPath, err)
	}
	if err := out.Close(); err != nil {
		return nil, converter.WrapFSError(err)
	}
	return warnings, nil
}

// splitLines splits content on newlines, tolerating CRLF endings and
// dropping a single trailing newline so it does not become a spurious empty
// paragraph.
func splitLines(content string) []string {
	content = strings.TrimSuffix(content, "\n")
	lines := strings.Split(content, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}
