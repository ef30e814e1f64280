// Package encoding provides charset-tolerant reading of game and tool
// log files, which are frequently written in legacy Windows codepages
// rather than UTF-8.
package encoding

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/net/html/charset"
	"golang.org/x/text/transform"
)

// Handler detects the character encoding of raw file content and
// converts it to UTF-8.
type Handler interface {
	// DetectAndDecode attempts to detect the encoding of the input
	// content and convert it to UTF-8. It returns the UTF-8 bytes, the
	// detected IANA encoding name, whether detection was certain, and
	// any conversion error. The fallback encoding is used when
	// detection is uncertain and a valid default is configured.
	DetectAndDecode(content []byte) (utf8Content []byte, detectedEncoding string, certainty bool, err error)
}

type charsetHandler struct {
	defaultEncoding string
}

// NewCharsetHandler creates a handler backed by
// golang.org/x/net/html/charset detection. defaultEncoding names the
// charset assumed when detection is uncertain; empty keeps the
// detector's own guess.
func NewCharsetHandler(defaultEncoding string) Handler {
	return &charsetHandler{defaultEncoding: defaultEncoding}
}

func (h *charsetHandler) DetectAndDecode(content []byte) ([]byte, string, bool, error) {
	enc, name, certain := charset.DetermineEncoding(content, "")

	// Valid UTF-8 content keeps its own decoding even when the sniffer
	// is uncertain; the fallback only covers genuinely ambiguous bytes.
	if !certain && h.defaultEncoding != "" && name != "utf-8" {
		if fallback, fallbackName := charset.Lookup(h.defaultEncoding); fallback != nil {
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

	decoded, err := io.ReadAll(transform.NewReader(bytes.NewReader(content), enc.NewDecoder()))
	if err != nil {
		if name == "" {
			name = "unknown"
		}
		return content, name, certain, fmt.Errorf("failed to convert from '%s': %w", name, err)
	}
	if name == "" {
		name = "unknown"
	}
	return decoded, name, certain, nil
}

// ReadFileLines reads an entire file through the handler and splits it
// into lines, each keeping its trailing newline. Carriage returns are
// dropped so callers match against clean text.
func ReadFileLines(h Handler, path string) ([]string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	decoded, _, _, err := h.DetectAndDecode(raw)
	if err != nil {
		// Conversion failures still return the raw bytes; scan what we
		// can rather than losing the whole file.
		decoded = raw
	}

	text := strings.ReplaceAll(string(decoded), "\r\n", "\n")
	parts := strings.SplitAfter(text, "\n")
	lines := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			lines = append(lines, p)
		}
	}
	return lines, nil
}
