package sourcefs

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
)

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// Encoding is a named text encoding used to decode and re-encode files.
type Encoding struct {
	Name string
	enc  encoding.Encoding
}

var (
	UTF8        = Encoding{Name: "utf-8", enc: unicode.UTF8}
	UTF8BOM     = Encoding{Name: "utf-8-bom", enc: unicode.UTF8BOM}
	UTF16LE     = Encoding{Name: "utf-16le", enc: unicode.UTF16(unicode.LittleEndian, unicode.ExpectBOM)}
	UTF16BE     = Encoding{Name: "utf-16be", enc: unicode.UTF16(unicode.BigEndian, unicode.ExpectBOM)}
	Windows1252 = Encoding{Name: "windows-1252", enc: charmap.Windows1252}
)

// DefaultEncoding is used when detection fails.
var DefaultEncoding = Windows1252

// LookupEncoding resolves an encoding name. Besides the names above it
// accepts any WHATWG label, such as "latin1" or "shift_jis".
func LookupEncoding(name string) (Encoding, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "utf-8", "utf8":
		return UTF8, nil
	case "utf-8-bom", "utf8-bom":
		return UTF8BOM, nil
	case "utf-16le", "utf-16":
		return UTF16LE, nil
	case "utf-16be":
		return UTF16BE, nil
	}

	enc, err := htmlindex.Get(name)
	if err != nil {
		return Encoding{}, fmt.Errorf("unknown encoding %q: %w", name, err)
	}
	canonical, err := htmlindex.Name(enc)
	if err != nil {
		canonical = name
	}
	return Encoding{Name: canonical, enc: enc}, nil
}

// Decode converts raw file bytes to text.
func (e Encoding) Decode(data []byte) (string, error) {
	if e.enc == nil {
		return string(data), nil
	}
	out, err := e.enc.NewDecoder().Bytes(data)
	if err != nil {
		return "", fmt.Errorf("failed to decode %s text: %w", e.Name, err)
	}
	return string(out), nil
}

// Encode converts text to raw file bytes.
func (e Encoding) Encode(text string) ([]byte, error) {
	if e.enc == nil {
		return []byte(text), nil
	}
	out, err := e.enc.NewEncoder().Bytes([]byte(text))
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s text: %w", e.Name, err)
	}
	return out, nil
}

// DetectEncoding guesses the encoding of data from its byte order mark or
// UTF-8 validity. ok is false when it fell back to DefaultEncoding.
func DetectEncoding(data []byte) (enc Encoding, ok bool) {
	switch {
	case bytes.HasPrefix(data, bomUTF8):
		return UTF8BOM, true
	case bytes.HasPrefix(data, bomUTF16LE):
		return UTF16LE, true
	case bytes.HasPrefix(data, bomUTF16BE):
		return UTF16BE, true
	case utf8.Valid(data):
		return UTF8, true
	default:
		return DefaultEncoding, false
	}
}

// Text is decoded file content together with the encoding it came from.
type Text struct {
	Content  string
	Encoding Encoding
	// Fallback is set when the encoding could not be detected.
	Fallback bool
}

// DecodeText detects the encoding of data and decodes it.
func DecodeText(data []byte) (Text, error) {
	enc, ok := DetectEncoding(data)
	content, err := enc.Decode(data)
	if err != nil {
		return Text{}, err
	}
	return Text{Content: content, Encoding: enc, Fallback: !ok}, nil
}

// ReadText reads and decodes the file at path.
func ReadText(read ContentReader, path string) (Text, error) {
	data, err := read(path)
	if err != nil {
		return Text{}, fmt.Errorf("failed to read %s: %w", path, err)
	}
	text, err := DecodeText(data)
	if err != nil {
		return Text{}, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return text, nil
}

// WriteFile overwrites the file at path with data, creating any missing
// parent directories. An existing file keeps its permissions.
func WriteFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", path, err)
	}

	mode := os.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}

	if err := os.WriteFile(path, data, mode); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
