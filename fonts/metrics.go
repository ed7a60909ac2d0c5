// Package fonts carries metrics for the standard 14 Type1 fonts so text can
// be measured without embedding font programs. Widths are the published AFM
// values in glyph space (thousandths of the point size).
package fonts

import "strings"

// Metrics describes one standard font face.
type Metrics struct {
	Name      string
	Widths    map[rune]int
	Fixed     int // non-zero for monospaced faces; used for any rune
	Ascent    float64
	Descent   float64
	CapHeight float64
}

const defaultGlyphWidth = 556

// GlyphWidth returns the width of r in glyph space.
func (m Metrics) GlyphWidth(r rune) int {
	if m.Fixed > 0 {
		return m.Fixed
	}
	if w, ok := m.Widths[r]; ok {
		return w
	}
	return defaultGlyphWidth
}

// TextWidth returns the width of text in user units at the given size.
func (m Metrics) TextWidth(text string, size float64) float64 {
	total := 0
	for _, r := range text {
		total += m.GlyphWidth(r)
	}
	return float64(total) / 1000 * size
}

// Lookup resolves a base font name to its metrics. Oblique and italic
// variants share their upright widths; unknown names fall back to Helvetica.
func Lookup(name string) Metrics {
	switch strings.ToLower(name) {
	case "helvetica-bold", "helvetica-boldoblique":
		return helveticaBold
	case "times-roman", "times", "times-bold", "times-italic", "times-bolditalic":
		return timesRoman
	case "courier", "courier-bold", "courier-oblique", "courier-boldoblique":
		return courier
	default:
		return helvetica
	}
}

var helvetica = Metrics{
	Name:      "Helvetica",
	Ascent:    718,
	Descent:   -207,
	CapHeight: 718,
	Widths: map[rune]int{
		' ': 278, '!': 278, '"': 355, '#': 556, '$': 556, '%': 889, '&': 667,
		'\'': 191, '(': 333, ')': 333, '*': 389, '+': 584, ',': 278, '-': 333,
		'.': 278, '/': 278, '0': 556, '1': 556, '2': 556, '3': 556, '4': 556,
		'5': 556, '6': 556, '7': 556, '8': 556, '9': 556, ':': 278, ';': 278,
		'<': 584, '=': 584, '>': 584, '?': 556, '@': 1015, 'A': 667, 'B': 667,
		'C': 722, 'D': 722, 'E': 667, 'F': 611, 'G': 778, 'H': 722, 'I': 278,
		'J': 500, 'K': 667, 'L': 556, 'M': 833, 'N': 722, 'O': 778, 'P': 667,
		'Q': 778, 'R': 722, 'S': 667, 'T': 611, 'U': 722, 'V': 667, 'W': 944,
		'X': 667, 'Y': 667, 'Z': 611, '[': 278, '\\': 278, ']': 278, '^': 469,
		'_': 556, '`': 333, 'a': 556, 'b': 556, 'c': 500, 'd': 556, 'e': 556,
		'f': 278, 'g': 556, 'h': 556, 'i': 222, 'j': 222, 'k': 500, 'l': 222,
		'm': 833, 'n': 556, 'o': 556, 'p': 556, 'q': 556, 'r': 333, 's': 500,
		't': 278, 'u': 556, 'v': 500, 'w': 722, 'x': 500, 'y': 500, 'z': 500,
		'{': 334, '|': 260, '}': 334, '~': 584, '•': 350,
	},
}

var helveticaBold = Metrics{
	Name:      "Helvetica-Bold",
	Ascent:    718,
	Descent:   -207,
	CapHeight: 718,
	Widths: map[rune]int{
		' ': 278, '!': 333, '"': 474, '#': 556, '$': 556, '%': 889, '&': 722,
		'\'': 238, '(': 333, ')': 333, '*': 389, '+': 584, ',': 278, '-': 333,
		'.': 278, '/': 278, '0': 556, '1': 556, '2': 556, '3': 556, '4': 556,
		'5': 556, '6': 556, '7': 556, '8': 556, '9': 556, ':': 333, ';': 333,
		'<': 584, '=': 584, '>': 584, '?': 611, '@': 975, 'A': 722, 'B': 722,
		'C': 722, 'D': 722, 'E': 667, 'F': 611, 'G': 778, 'H': 722, 'I': 278,
		'J': 556, 'K': 722, 'L': 611, 'M': 833, 'N': 722, 'O': 778, 'P': 667,
		'Q': 778, 'R': 722, 'S': 667, 'T': 611, 'U': 722, 'V': 667, 'W': 944,
		'X': 667, 'Y': 667, 'Z': 611, '[': 333, '\\': 278, ']': 333, '^': 584,
		'_': 556, '`': 333, 'a': 556, 'b': 611, 'c': 556, 'd': 611, 'e': 556,
		'f': 333, 'g': 611, 'h': 611, 'i': 278, 'j': 278, 'k': 556, 'l': 278,
		'm': 889, 'n': 611, 'o': 611, 'p': 611, 'q': 611, 'r': 389, 's': 556,
		't': 333, 'u': 611, 'v': 556, 'w': 778, 'x': 556, 'y': 556, 'z': 500,
		'{': 389, '|': 280, '}': 389, '~': 584, '•': 350,
	},
}

var timesRoman = Metrics{
	Name:      "Times-Roman",
	Ascent:    683,
	Descent:   -217,
	CapHeight: 662,
	Widths: map[rune]int{
		' ': 250, '!': 333, '"': 408, '#': 500, '$': 500, '%': 833, '&': 778,
		'\'': 180, '(': 333, ')': 333, '*': 500, '+': 564, ',': 250, '-': 333,
		'.': 250, '/': 278, '0': 500, '1': 500, '2': 500, '3': 500, '4': 500,
		'5': 500, '6': 500, '7': 500, '8': 500, '9': 500, ':': 278, ';': 278,
		'<': 564, '=': 564, '>': 564, '?': 444, '@': 921, 'A': 722, 'B': 667,
		'C': 667, 'D': 722, 'E': 611, 'F': 556, 'G': 722, 'H': 722, 'I': 333,
		'J': 389, 'K': 722, 'L': 611, 'M': 889, 'N': 722, 'O': 722, 'P': 556,
		'Q': 722, 'R': 667, 'S': 556, 'T': 611, 'U': 722, 'V': 722, 'W': 944,
		'X': 722, 'Y': 722, 'Z': 611, '[': 333, '\\': 278, ']': 333, '^': 469,
		'_': 500, '`': 333, 'a': 444, 'b': 500, 'c': 444, 'd': 500, 'e': 444,
		'f': 333, 'g': 500, 'h': 500, 'i': 278, 'j': 278, 'k': 500, 'l': 278,
		'm': 778, 'n': 500, 'o': 500, 'p': 500, 'q': 500, 'r': 333, 's': 389,
		't': 278, 'u': 500, 'v': 500, 'w': 722, 'x': 500, 'y': 500, 'z': 444,
		'{': 480, '|': 200, '}': 480, '~': 541, '•': 350,
	},
}

var courier = Metrics{
	Name:      "Courier",
	Ascent:    629,
	Descent:   -157,
	CapHeight: 562,
	Fixed:     600,
}

// WidthTable returns the character-code width map serialized into the font
// dictionary (WinAnsi codes 32..126, which the generator's text sticks to).
func WidthTable(m Metrics) map[int]int {
	out := make(map[int]int, 95)
	for c := 32; c <= 126; c++ {
		out[c] = m.GlyphWidth(rune(c))
	}
	return out
}
