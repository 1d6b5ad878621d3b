// Package textio reads and writes source files while keeping their
// character encoding and line endings.
package textio

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// Encoding names the character encoding a file was decoded with.
type Encoding string

const (
	UTF8   Encoding = "utf-8"
	Latin1 Encoding = "latin-1"
)

// ErrBinary is returned for content that looks binary.
var ErrBinary = errors.New("binary content")

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Text is decoded file content plus what is needed to write it back.
type Text struct {
	Content  string
	Encoding Encoding
	CRLF     bool
	BOM      bool
}

// Decode decodes data as UTF-8, falling back to Latin-1. Content containing
// NUL bytes is rejected with ErrBinary.
func Decode(data []byte) (*Text, error) {
	if bytes.IndexByte(data, 0) >= 0 {
		return nil, ErrBinary
	}
	t := &Text{CRLF: bytes.Contains(data, []byte("\r\n"))}
	if bytes.HasPrefix(data, utf8BOM) {
		t.BOM = true
		data = data[len(utf8BOM):]
	}
	if utf8.Valid(data) {
		t.Content = string(data)
		t.Encoding = UTF8
		return t, nil
	}
	decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode as latin-1: %w", err)
	}
	t.Content = string(decoded)
	t.Encoding = Latin1
	return t, nil
}

// Encode converts content back to the original encoding and line endings.
// Content is expected to use either line ending; it is normalized to the
// original one.
func (t *Text) Encode(content string) ([]byte, error) {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	if t.CRLF {
		content = strings.ReplaceAll(content, "\n", "\r\n")
	}
	var out []byte
	switch t.Encoding {
	case Latin1:
		encoded, err := charmap.ISO8859_1.NewEncoder().String(content)
		if err != nil {
			return nil, fmt.Errorf("content cannot be written as latin-1: %w", err)
		}
		out = []byte(encoded)
	default:
		out = []byte(content)
	}
	if t.BOM {
		out = append(append([]byte{}, utf8BOM...), out...)
	}
	return out, nil
}

// ReadFile reads and decodes the file at path.
func ReadFile(path string) (*Text, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Decode(data)
}

// WriteFile encodes content like t and writes it to path, keeping the
// existing file mode.
func WriteFile(path string, t *Text, content string) error {
	data, err := t.Encode(content)
	if err != nil {
		return err
	}
	mode := os.FileMode(0644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}
	return os.WriteFile(path, data, mode)
}
