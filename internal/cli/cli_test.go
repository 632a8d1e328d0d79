package cli

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sujal-Gaha/file-forge/pkg/converter"
	"github.com/Sujal-Gaha/file-forge/pkg/converter/document"
	"github.com/Sujal-Gaha/file-forge/pkg/converter/kind"
)

func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
}

func TestExpandInputsPlainPathsKeptVerbatim(t *testing.T) {
	paths, err := ExpandInputs([]string{"a.png", "dir/b.pdf"})
	require.NoError(t, err)
	assert.Equal(t, []string{"a.png", "dir/b.pdf"}, paths)
}

func TestExpandInputsGlobExpandsSorted(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "c.png"))
	touch(t, filepath.Join(dir, "a.png"))
	touch(t, filepath.Join(dir, "b.png"))
	touch(t, filepath.Join(dir, "skip.txt"))

	paths, err := ExpandInputs([]string{filepath.Join(dir, "*.png")})
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "a.png"),
		filepath.Join(dir, "b.png"),
		filepath.Join(dir, "c.png"),
	}, paths)
}

func TestExpandInputsGlobWithoutMatchesFails(t *testing.T) {
	_, err := ExpandInputs([]string{filepath.Join(t.TempDir(), "*.png")})
	require.Error(t, err)
	assert.ErrorIs(t, err, converter.ErrConfigValidation)
	assert.Contains(t, err.Error(), "matched no files")
}

func TestExpandInputsInvalidPattern(t *testing.T) {
	_, err := ExpandInputs([]string{"[unclosed"})
	assert.Error(t, err)
}

func TestContainsGlobMeta(t *testing.T) {
	assert.True(t, containsGlobMeta("*.png"))
	assert.True(t, containsGlobMeta("page?.pdf"))
	assert.True(t, containsGlobMeta("[ab].txt"))
	assert.False(t, containsGlobMeta("plain/path.png"))
}

func TestBuildRegistryCoversCorePairs(t *testing.T) {
	opts := &converter.Options{Logger: slog.NewTextHandler(os.Stderr, nil)}
	reg, err := BuildRegistry(opts)
	require.NoError(t, err)

	for _, pair := range [][2]kind.FileKind{
		{kind.ImageRaster, kind.ImageRaster},
		{kind.PDFDocument, kind.PlainText},
		{kind.PDFDocument, kind.PDFDocument},
		{kind.DocxDocument, kind.PlainText},
		{kind.PlainText, kind.DocxDocument},
	} {
		_, ok := reg.Lookup(pair[0], pair[1])
		assert.True(t, ok, "pair %s -> %s should be registered", pair[0], pair[1])
	}

	// BuildRegistry freezes the registry.
	err = reg.Register(document.NewPDFToText())
	assert.ErrorIs(t, err, converter.ErrRegistryFrozen)
}

func TestRunRejectsEmptyRequests(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	err := Run(context.Background(), converter.Options{}, logger, nil)
	assert.ErrorIs(t, err, converter.ErrConfigValidation)
}
