// Package docspec defines the declarative document specification: a page
// setup plus an ordered tree of typed elements describing what to render.
// The schema is plain JSON, friendly to both humans and programs. Every
// attribute is optional; renderers substitute documented defaults, and
// element kinds nobody recognizes are skipped rather than rejected.
//
// Example:
//
//	{
//	  "size": "A4",
//	  "meta": {"title": "Invoice #1"},
//	  "pageNumbers": {"prefix": "Page "},
//	  "elements": [
//	    {"type": "heading", "level": 1, "value": "Invoice #1"},
//	    {"type": "table", "headers": ["Item", "Price"],
//	     "rows": [["Widget", "$9.99"], ["Gadget", "$19.99"]]},
//	    {"type": "link", "value": "Pay", "url": "https://pay.example/1"}
//	  ]
//	}
package docspec

import (
	"encoding/json"
	"fmt"
)

// Spec is the root document specification. It is read-only once rendering
// begins.
type Spec struct {
	Size        string       `json:"size,omitempty"` // A4, Letter, Legal (default A4)
	Margins     *Margins     `json:"margins,omitempty"`
	Meta        Meta         `json:"meta,omitempty"`
	PageNumbers *PageNumbers `json:"pageNumbers,omitempty"`
	Elements    []Element    `json:"elements"`
}

// Margins defines the page margins in points.
type Margins struct {
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
	Left   float64 `json:"left"`
}

// Meta carries document metadata written to the output's info dictionary.
type Meta struct {
	Title   string `json:"title,omitempty"`
	Author  string `json:"author,omitempty"`
	Subject string `json:"subject,omitempty"`
	Creator string `json:"creator,omitempty"`
}

// PageNumbers requests a footer stamp on every page after layout completes.
type PageNumbers struct {
	Prefix   string  `json:"prefix,omitempty"` // default "Page "
	Align    string  `json:"align,omitempty"`  // left, center, right (default center)
	FontSize float64 `json:"fontSize,omitempty"`
	Color    *Color  `json:"color,omitempty"`
}

// Color is an RGB color with 0-255 components.
type Color struct {
	R int `json:"r"`
	G int `json:"g"`
	B int `json:"b"`
}

// Element is a single drawing element. Type selects the renderer; the other
// fields carry kind-specific attributes and default sensibly when absent.
type Element struct {
	Type string `json:"type"`

	// text, heading, link, stealthLink
	Value     string  `json:"value,omitempty"`
	Level     int     `json:"level,omitempty"` // heading level 1-6
	Font      string  `json:"font,omitempty"`
	FontSize  float64 `json:"fontSize,omitempty"`
	Color     *Color  `json:"color,omitempty"`
	Align     string  `json:"align,omitempty"` // left, center, right
	URL       string  `json:"url,omitempty"`
	Underline bool    `json:"underline,omitempty"`
	// MoveDown advances the cursor after the element, in points.
	MoveDown float64 `json:"moveDown,omitempty"`

	// list
	Items    []ListItem `json:"items,omitempty"`
	Numbered bool       `json:"numbered,omitempty"`
	Indent   float64    `json:"indent,omitempty"`

	// table
	Headers      []string      `json:"headers,omitempty"`
	Rows         [][]TableCell `json:"rows,omitempty"`
	ColumnWidths []float64     `json:"columnWidths,omitempty"`
	HeaderFill   *Color        `json:"headerFill,omitempty"`
	HeaderColor  *Color        `json:"headerColor,omitempty"`
	AltFill      *Color        `json:"altFill,omitempty"`
	CellPadding  float64       `json:"cellPadding,omitempty"`
	Gridlines    bool          `json:"gridlines,omitempty"`

	// image, rect. A nil Y means cursor-relative placement; a set Y is an
	// explicit top-origin page coordinate, zero included.
	Src       string   `json:"src,omitempty"`
	X         float64  `json:"x,omitempty"`
	Y         *float64 `json:"y,omitempty"`
	Width     float64 `json:"width,omitempty"`
	Height    float64 `json:"height,omitempty"`
	FillColor *Color  `json:"fillColor,omitempty"`
	Stroke    bool    `json:"stroke,omitempty"`
	LineWidth float64 `json:"lineWidth,omitempty"`

	// spacer
	Lines float64 `json:"lines,omitempty"`

	// columns
	Columns []Column `json:"columns,omitempty"`
	Gap     float64  `json:"gap,omitempty"`

	// overlay
	Bars      int     `json:"bars,omitempty"`
	Opacity   float64 `json:"opacity,omitempty"`
	Label     string  `json:"label,omitempty"`
	LabelSize float64 `json:"labelSize,omitempty"`
}

// Column is one vertical band inside a columns element, holding its own
// nested element sequence.
type Column struct {
	Elements []Element `json:"elements"`
}

// ListItem is a list entry: either a bare string or {text, link}.
type ListItem struct {
	Text string `json:"text"`
	Link string `json:"link,omitempty"`
}

// UnmarshalJSON accepts both the string and the object form.
func (li *ListItem) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		return json.Unmarshal(data, &li.Text)
	}
	type plain ListItem
	return json.Unmarshal(data, (*plain)(li))
}

// TableCell is one table cell: a bare string, null, or {text, link, color}.
type TableCell struct {
	Text  string `json:"text"`
	Link  string `json:"link,omitempty"`
	Color *Color `json:"color,omitempty"`
}

// UnmarshalJSON accepts the string, object, and null forms. A null cell
// renders as an empty string.
func (tc *TableCell) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*tc = TableCell{}
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		return json.Unmarshal(data, &tc.Text)
	}
	type plain TableCell
	return json.Unmarshal(data, (*plain)(tc))
}

// Parse decodes a JSON document specification.
func Parse(data []byte) (*Spec, error) {
	var spec Spec
	if err := json.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("docspec: parsing specification: %w", err)
	}
	return &spec, nil
}

// PaperSize holds page dimensions in points.
type PaperSize struct {
	Width  float64
	Height float64
}

// Standard paper sizes.
var (
	A4     = PaperSize{Width: 595.28, Height: 841.89}
	Letter = PaperSize{Width: 612, Height: 792}
	Legal  = PaperSize{Width: 612, Height: 1008}
)

// PageSize resolves the spec's size name; unknown names default to A4.
func (s *Spec) PageSize() PaperSize {
	switch s.Size {
	case "Letter", "letter":
		return Letter
	case "Legal", "legal":
		return Legal
	default:
		return A4
	}
}
