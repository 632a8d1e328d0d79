package converter

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sujal-Gaha/file-forge/pkg/converter/kind"
)

// stubConverter is a minimal Converter for registry tests.
type stubConverter struct {
	source, target kind.FileKind
	id             string
}

func (s *stubConverter) Pair() (kind.FileKind, kind.FileKind) { return s.source, s.target }
func (s *stubConverter) ValidateOptions(OptionSet) error      { return nil }
func (s *stubConverter) Convert(context.Context, ConversionRequest, string) ([]string, error) {
	return nil, nil
}

func TestRegistryRegisterAndLookup(t *testing.T) {
	reg := NewRegistry(nil)

	c := &stubConverter{source: kind.PDFDocument, target: kind.PlainText}
	require.NoError(t, reg.Register(c))

	got, ok := reg.Lookup(kind.PDFDocument, kind.PlainText)
	require.True(t, ok)
	assert.Same(t, c, got.(*stubConverter))

	_, ok = reg.Lookup(kind.PlainText, kind.PDFDocument)
	assert.False(t, ok, "lookup must be direction sensitive")
}

func TestRegistryLastRegistrationWins(t *testing.T) {
	reg := NewRegistry(nil)

	first := &stubConverter{source: kind.ImageRaster, target: kind.ImageRaster, id: "first"}
	second := &stubConverter{source: kind.ImageRaster, target: kind.ImageRaster, id: "second"}
	require.NoError(t, reg.Register(first))
	require.NoError(t, reg.Register(second))

	got, ok := reg.Lookup(kind.ImageRaster, kind.ImageRaster)
	require.True(t, ok)
	assert.Equal(t, "second", got.(*stubConverter).id)
}

func TestRegistryFreeze(t *testing.T) {
	reg := NewRegistry(nil)
	require.NoError(t, reg.Register(&stubConverter{source: kind.PDFDocument, target: kind.PlainText}))

	reg.Freeze()
	reg.Freeze() // idempotent

	err := reg.Register(&stubConverter{source: kind.PlainText, target: kind.DocxDocument})
	assert.ErrorIs(t, err, ErrRegistryFrozen)

	// Registered pairs stay resolvable after freezing.
	_, ok := reg.Lookup(kind.PDFDocument, kind.PlainText)
	assert.True(t, ok)
	_, ok = reg.Lookup(kind.PlainText, kind.DocxDocument)
	assert.False(t, ok, "a rejected registration must not be visible")
}

func TestRegistryPairs(t *testing.T) {
	reg := NewRegistry(nil)
	require.NoError(t, reg.Register(&stubConverter{source: kind.PDFDocument, target: kind.PlainText}))
	require.NoError(t, reg.Register(&stubConverter{source: kind.DocxDocument, target: kind.PlainText}))

	pairs := reg.Pairs()
	assert.Len(t, pairs, 2)
}
