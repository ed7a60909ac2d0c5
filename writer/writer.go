// Package writer serializes a semantic document into PDF bytes: header,
// indirect objects, cross-reference table, and trailer. Output is sealed;
// callers needing to revisit pages do so on the builder before writing.
package writer

import (
	"io"

	"docforge/ir/semantic"
)

// ContentFilter selects the encoding applied to content streams.
type ContentFilter int

const (
	// FilterNone leaves content streams as plain text. This is the default:
	// generated documents stay byte-inspectable.
	FilterNone ContentFilter = iota
	// FilterFlate compresses content streams with zlib (/FlateDecode).
	FilterFlate
)

// Config controls serialization.
type Config struct {
	ContentFilter ContentFilter
	// Deterministic suppresses the creation-date stamp so identical input
	// yields identical bytes.
	Deterministic bool
	// Producer overrides the default Producer info entry.
	Producer string
}

// Write serializes doc to w. The operation is terminal: it either writes a
// complete document or returns an error, never a usable partial output.
func Write(doc *semantic.Document, w io.Writer, cfg Config) error {
	return write(doc, w, cfg)
}

// Bytes is a convenience wrapper returning the serialized document.
func Bytes(doc *semantic.Document, cfg Config) ([]byte, error) {
	var buf sliceWriter
	if err := write(doc, &buf, cfg); err != nil {
		return nil, err
	}
	return buf.data, nil
}

type sliceWriter struct{ data []byte }

func (s *sliceWriter) Write(p []byte) (int, error) {
	s.data = append(s.data, p...)
	return len(p), nil
}
