package util

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
)

// TempSibling returns a temporary file path in the same directory as path.
// Writing there and renaming over path keeps the final move atomic on the
// same filesystem.
func TempSibling(path string) (string, error) {
	var buf [6]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return "", fmt.Errorf("generating temp suffix: %w", err)
	}
	dir, base := filepath.Split(path)
	return filepath.Join(dir, "."+base+".tmp-"+hex.EncodeToString(buf[:])), nil
}

// WithExtension swaps the extension of path for ext. The ext argument may be
// given with or without its leading dot.
func WithExtension(path, ext string) string {
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	old := filepath.Ext(path)
	return path[:len(path)-len(old)] + ext
}

// WithStemSuffix appends suffix to the file stem, keeping directory and
// extension intact: "a/b.png" + "_compressed" becomes "a/b_compressed.png".
func WithStemSuffix(path, suffix string) string {
	ext := filepath.Ext(path)
	return path[:len(path)-len(ext)] + suffix + ext
}

// CompressedPath derives the default output path of a compress operation.
func CompressedPath(path string) string {
	return WithStemSuffix(path, "_compressed")
}

// ResizedPath derives the default output path of a resize operation.
func ResizedPath(path string, width, height int) string {
	return WithStemSuffix(path, fmt.Sprintf("_resized_%dx%d", width, height))
}

// RotatedPath derives the default output path of a rotate operation.
func RotatedPath(path string, angle float64) string {
	deg := int(angle)
	if float64(deg) == angle {
		return WithStemSuffix(path, fmt.Sprintf("_rotated_%d", deg))
	}
	return WithStemSuffix(path, fmt.Sprintf("_rotated_%g", angle))
}

// PagesPath derives the default output path of a page extraction.
func PagesPath(path string, from, to int) string {
	return WithStemSuffix(path, fmt.Sprintf("_pages_%d-%d", from, to))
}

// HumanSize formats a byte count for display, e.g. "1.2 MB".
func HumanSize(n int64) string {
	return humanize.Bytes(uint64(n))
}
