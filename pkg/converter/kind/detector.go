// Package kind classifies files into the logical format kinds the conversion
// registry dispatches on. Classification is independent of the on-disk
// extension: the extension is consulted first because it is cheap and matches
// user intent, but extension-less or ambiguous files fall back to magic-byte
// sniffing and finally to a text-vs-binary heuristic.
package kind

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-enry/go-enry/v2"
)

// FileKind is the classification tag for a file's logical format.
type FileKind string

// Constants representing the defined file kinds.
const (
	ImageRaster  FileKind = "image"
	PDFDocument  FileKind = "pdf"
	DocxDocument FileKind = "docx"
	PlainText    FileKind = "text"
	Unknown      FileKind = "unknown"
)

// ErrUndetected indicates that neither the extension, magic-byte sniffing,
// nor the plain-text heuristic produced a usable classification.
var ErrUndetected = errors.New("file kind could not be detected")

// sniffLen is the number of leading bytes read for the text-vs-binary check.
const sniffLen = 8192

// docxMIME is the OOXML WordprocessingML MIME type reported by sniffing.
const docxMIME = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

// extensionKinds maps lower-case extensions (without the leading dot) to kinds.
var extensionKinds = map[string]FileKind{
	"jpg":  ImageRaster,
	"jpeg": ImageRaster,
	"png":  ImageRaster,
	"gif":  ImageRaster,
	"webp": ImageRaster,
	"bmp":  ImageRaster,
	"tiff": ImageRaster,
	"tif":  ImageRaster,
	"pdf":  PDFDocument,
	"docx": DocxDocument,
	"txt":  PlainText,
	"text": PlainText,
	"md":   PlainText,
	"log":  PlainText,
	"csv":  PlainText,
}

// Detector resolves a file path to exactly one FileKind.
// Implementations must be safe for concurrent use.
type Detector interface {
	// DetectKind classifies the file at path. It returns Unknown together
	// with a non-nil error when no classification is possible; the error
	// wraps ErrUndetected unless the failure was an I/O problem.
	DetectKind(path string) (FileKind, error)
}

// sniffingDetector implements Detector using the extension table, mimetype
// magic-byte sniffing, and a go-enry binary heuristic, in that order.
type sniffingDetector struct {
	overrides map[string]FileKind
}

// NewSniffingDetector creates the default Detector. The overrides map extends
// or replaces entries of the built-in extension table; keys are extensions
// without the leading dot (e.g. "jxl": ImageRaster).
func NewSniffingDetector(overrides map[string]FileKind) Detector {
	normalized := make(map[string]FileKind, len(overrides))
	for ext, k := range overrides {
		normalized[strings.ToLower(strings.TrimPrefix(ext, "."))] = k
	}
	return &sniffingDetector{overrides: normalized}
}

// DetectKind implements the Detector interface.
func (d *sniffingDetector) DetectKind(path string) (FileKind, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	if ext != "" {
		if k, ok := d.overrides[ext]; ok {
			return k, nil
		}
		if k, ok := extensionKinds[ext]; ok {
			return k, nil
		}
	}

	// No (or unmapped) extension: sniff the content.
	mtype, err := mimetype.DetectFile(path)
	if err != nil {
		return Unknown, fmt.Errorf("sniffing %q: %w", path, err)
	}
	switch {
	case mtype.Is("application/pdf"):
		return PDFDocument, nil
	case mtype.Is(docxMIME):
		return DocxDocument, nil
	case strings.HasPrefix(mtype.String(), "image/"):
		return ImageRaster, nil
	case strings.HasPrefix(mtype.String(), "text/"):
		return PlainText, nil
	}

	// Last resort: treat anything that does not look binary as plain text.
	head, err := readHead(path, sniffLen)
	if err != nil {
		return Unknown, fmt.Errorf("reading %q: %w", path, err)
	}
	if !enry.IsBinary(head) {
		return PlainText, nil
	}
	return Unknown, fmt.Errorf("%w: %q (sniffed %s)", ErrUndetected, path, mtype.String())
}

// DefaultExtension returns the canonical extension (without dot) for a kind,
// or "" when the kind has no single canonical extension.
func DefaultExtension(k FileKind) string {
	switch k {
	case PDFDocument:
		return "pdf"
	case DocxDocument:
		return "docx"
	case PlainText:
		return "txt"
	default:
		return ""
	}
}

// KindForExtension maps a file extension (with or without the leading dot)
// to its kind using the built-in extension table.
func KindForExtension(ext string) (FileKind, bool) {
	k, ok := extensionKinds[strings.ToLower(strings.TrimPrefix(ext, "."))]
	return k, ok
}

// KindForName parses a user-supplied kind name (as accepted in config
// kindMappings values). The match is case-insensitive.
func KindForName(name string) (FileKind, error) {
	switch strings.ToLower(name) {
	case string(ImageRaster):
		return ImageRaster, nil
	case string(PDFDocument):
		return PDFDocument, nil
	case string(DocxDocument):
		return DocxDocument, nil
	case string(PlainText):
		return PlainText, nil
	}
	return Unknown, fmt.Errorf("unknown file kind name %q", name)
}

// readHead reads at most n leading bytes of the file at path.
func readHead(path string, n int) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	buf := make([]byte, n)
	read, err := io.ReadFull(f, buf)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, err
	}
	return buf[:read], nil
}
