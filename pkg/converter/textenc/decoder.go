// Package textenc converts text input of unknown character encoding to UTF-8
// before it is fed into a document converter. Detection relies on
// golang.org/x/net/html/charset; an optional configured default encoding is
// applied when detection is uncertain.
package textenc

import (
	"bytes"
	"fmt"
	"io"

	"golang.org/x/net/html/charset"
	"golang.org/x/text/transform"
)

// Decoder defines the interface for detecting a character encoding and
// converting content to UTF-8.
type Decoder interface {
	// DecodeToUTF8 attempts to detect the encoding of content and convert it
	// to UTF-8. It returns the UTF-8 bytes, the detected encoding name (IANA
	// name), a boolean indicating whether detection was certain, and any
	// conversion error. The configured fallback encoding is used when
	// detection is uncertain.
	DecodeToUTF8(content []byte) (utf8Content []byte, detectedEncoding string, certain bool, err error)
}

// charsetDecoder implements Decoder using golang.org/x/net/html/charset.
type charsetDecoder struct {
	defaultEncoding string
}

// NewCharsetDecoder creates a new Decoder. defaultEncoding may be "" to rely
// purely on detection.
func NewCharsetDecoder(defaultEncoding string) Decoder {
	return &charsetDecoder{defaultEncoding: defaultEncoding}
}

// DecodeToUTF8 implements the Decoder interface.
func (d *charsetDecoder) DecodeToUTF8(content []byte) ([]byte, string, bool, error) {
	enc, name, certain := charset.DetermineEncoding(content, "")

	// Apply the fallback if detection was uncertain and a default is set.
	if !certain && d.defaultEncoding != "" {
		if fallback, fallbackName := charset.Lookup(d.defaultEncoding); fallback != nil {
			enc = fallback
			name = fallbackName
			certain = true
		}
	}

	if enc == nil {
		if name == "" {
			name = "utf-8"
		}
		return content, name, certain, nil
	}

	reader := transform.NewReader(bytes.NewReader(content), enc.NewDecoder())
	utf8Content, err := io.ReadAll(reader)
	if err != nil {
		if name == "" {
			name = "unknown"
		}
		return content, name, certain, fmt.Errorf("failed to convert from %q: %w", name, err)
	}
	if name == "" {
		name = "unknown"
	}
	return utf8Content, name, certain, nil
}
