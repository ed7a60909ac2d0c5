// Package extractor pulls text content and link annotations back out of
// generated documents. It reads the two layers independently, which is what
// makes it possible to check that a URL lives in the annotation layer
// without ever appearing in the visible character stream.
package extractor

import (
	"bytes"
	"compress/zlib"
	"fmt"
	"io"
	"strconv"
)

// Extractor scans one document's bytes.
type Extractor struct {
	data []byte
}

// New creates an Extractor after validating the magic header.
func New(data []byte) (*Extractor, error) {
	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		return nil, fmt.Errorf("extractor: missing document header")
	}
	return &Extractor{data: data}, nil
}

// ExtractText returns the visible text layer: every string shown by a text
// operator across all content streams, in stream order, joined by newlines.
// Annotation contents never appear here.
func (e *Extractor) ExtractText() (string, error) {
	var out []string
	for _, stream := range e.contentStreams() {
		out = append(out, shownStrings(stream)...)
	}
	return join(out), nil
}

// contentStreams returns every stream body, inflated when the owning object
// declares FlateDecode.
func (e *Extractor) contentStreams() [][]byte {
	var streams [][]byte
	data := e.data
	pos := 0
	for {
		i := bytes.Index(data[pos:], []byte("stream"))
		if i < 0 {
			return streams
		}
		start := pos + i + len("stream")
		// skip the EOL after the keyword
		for start < len(data) && (data[start] == '\r' || data[start] == '\n') {
			start++
		}
		end := bytes.Index(data[start:], []byte("endstream"))
		if end < 0 {
			return streams
		}
		body := data[start : start+end]
		// The object's dictionary sits between the previous "obj" and the
		// stream keyword; it declares the filter.
		dictStart := bytes.LastIndex(data[:pos+i], []byte(" obj"))
		if dictStart < 0 {
			dictStart = 0
		}
		dict := data[dictStart : pos+i]
		if bytes.Contains(dict, []byte("/FlateDecode")) {
			if inflated, err := inflate(body); err == nil {
				body = inflated
			}
		}
		if !bytes.Contains(dict, []byte("/Subtype /Image")) {
			streams = append(streams, bytes.TrimRight(body, "\r\n"))
		}
		pos = start + end + len("endstream")
	}
}

// shownStrings pulls the literal strings consumed by Tj operators out of a
// content stream.
func shownStrings(stream []byte) []string {
	var out []string
	pos := 0
	for {
		i := bytes.IndexByte(stream[pos:], '(')
		if i < 0 {
			return out
		}
		start := pos + i
		text, end, ok := readLiteralString(stream, start)
		if !ok {
			return out
		}
		rest := bytes.TrimLeft(stream[end:], " \r\n")
		if bytes.HasPrefix(rest, []byte("Tj")) {
			out = append(out, text)
		}
		pos = end
	}
}

// readLiteralString decodes one parenthesized string starting at open,
// handling backslash escapes, octal codes, and balanced nesting. Returns the
// decoded text and the offset just past the closing parenthesis.
func readLiteralString(data []byte, open int) (string, int, bool) {
	var sb bytes.Buffer
	depth := 0
	i := open
	for i < len(data) {
		c := data[i]
		switch c {
		case '(':
			depth++
			if depth > 1 {
				sb.WriteByte(c)
			}
			i++
		case ')':
			depth--
			if depth == 0 {
				return sb.String(), i + 1, true
			}
			sb.WriteByte(c)
			i++
		case '\\':
			if i+1 >= len(data) {
				return "", 0, false
			}
			i++
			switch data[i] {
			case 'n':
				sb.WriteByte('\n')
			case 'r':
				sb.WriteByte('\r')
			case 't':
				sb.WriteByte('\t')
			case 'b':
				sb.WriteByte('\b')
			case 'f':
				sb.WriteByte('\f')
			case '(', ')', '\\':
				sb.WriteByte(data[i])
			case '0', '1', '2', '3', '4', '5', '6', '7':
				oct := 0
				n := 0
				for n < 3 && i < len(data) && data[i] >= '0' && data[i] <= '7' {
					oct = oct*8 + int(data[i]-'0')
					i++
					n++
				}
				sb.WriteByte(byte(oct))
				continue
			default:
				sb.WriteByte(data[i])
			}
			i++
		default:
			sb.WriteByte(c)
			i++
		}
	}
	return "", 0, false
}

func inflate(data []byte) ([]byte, error) {
	zr, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("extractor: opening stream: %w", err)
	}
	defer zr.Close()
	out, err := io.ReadAll(zr)
	if err != nil {
		return nil, fmt.Errorf("extractor: inflating stream: %w", err)
	}
	return out, nil
}

func join(lines []string) string {
	var sb bytes.Buffer
	for i, line := range lines {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(line)
	}
	return sb.String()
}

func parseFloat(tok []byte) (float64, bool) {
	v, err := strconv.ParseFloat(string(tok), 64)
	return v, err == nil
}
