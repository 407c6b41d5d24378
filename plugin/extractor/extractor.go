// Package extractor provides the text-extraction capability for
// uploaded documents. Binary parsers are pluggable; a missing or
// failing parser yields an empty string, never an error.
package extractor

import (
	"log/slog"
	"strings"
	"unicode/utf8"
)

// Func extracts plain text from raw document bytes.
type Func func(data []byte) (string, error)

// Extractor maps declared document kinds to parser functions.
type Extractor struct {
	parsers map[string]Func
}

// New creates an extractor that handles "txt" natively. PDF and DOCX
// parsers can be registered by the caller.
func New() *Extractor {
	e := &Extractor{parsers: make(map[string]Func)}
	e.Register("txt", extractPlainText)
	return e
}

// Register installs a parser for a document kind ("pdf", "docx", ...).
func (e *Extractor) Register(kind string, fn Func) {
	e.parsers[strings.ToLower(kind)] = fn
}

// Extract returns the plain text of the document, or "" when the kind
// is unknown or the parser fails.
func (e *Extractor) Extract(data []byte, kind string) string {
	fn, ok := e.parsers[strings.ToLower(kind)]
	if !ok {
		slog.Warn("no extractor registered for document kind", "kind", kind)
		return ""
	}

	text, err := fn(data)
	if err != nil {
		slog.Error("text extraction failed", "kind", kind, "error", err)
		return ""
	}
	return text
}

// extractPlainText treats the bytes as UTF-8 text, dropping invalid
// sequences.
func extractPlainText(data []byte) (string, error) {
	if utf8.Valid(data) {
		return string(data), nil
	}
	return strings.ToValidUTF8(string(data), ""), nil
}
