package textenc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeToUTF8PassthroughASCII(t *testing.T) {
	d := NewCharsetDecoder("")
	in := []byte("plain ascii text\n")

	out, name, _, err := d.DecodeToUTF8(in)
	require.NoError(t, err)
	assert.Equal(t, string(in), string(out), "ASCII must survive decoding unchanged")
	assert.NotEmpty(t, name)
}

func TestDecodeToUTF8WithBOM(t *testing.T) {
	d := NewCharsetDecoder("")
	in := append([]byte{0xef, 0xbb, 0xbf}, []byte("bom content")...)

	out, name, certain, err := d.DecodeToUTF8(in)
	require.NoError(t, err)
	assert.True(t, certain, "a BOM makes detection certain")
	assert.Equal(t, "utf-8", name)
	assert.Contains(t, string(out), "bom content")
}

func TestDecodeToUTF8FallbackEncoding(t *testing.T) {
	d := NewCharsetDecoder("windows-1252")
	// "café" in windows-1252: é is 0xe9.
	in := []byte{'c', 'a', 'f', 0xe9}

	out, name, certain, err := d.DecodeToUTF8(in)
	require.NoError(t, err)
	assert.True(t, certain, "a configured default counts as certain")
	assert.Equal(t, "windows-1252", name)
	assert.Equal(t, "café", string(out))
}

func TestDecodeToUTF8UnknownDefaultIgnored(t *testing.T) {
	d := NewCharsetDecoder("no-such-charset")
	in := []byte("still fine")

	out, _, certain, err := d.DecodeToUTF8(in)
	require.NoError(t, err)
	assert.False(t, certain)
	assert.Equal(t, "still fine", string(out))
}
