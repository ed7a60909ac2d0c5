// Package semantic is the document model the builder produces and the writer
// consumes: pages with content operations, resources, and annotations. It is
// the write-side subset needed by a generator; nothing here is parsed back.
package semantic

import (
	"time"

	"docforge/ir/raw"
)

// Document is the semantic representation of a PDF under construction.
type Document struct {
	Pages []*Page
	Info  *DocumentInfo
}

// Page models a single page.
type Page struct {
	Index       int
	MediaBox    Rectangle
	Resources   *Resources
	Contents    []ContentStream
	Annotations []Annotation
}

// Rectangle represents a PDF rectangle (lower-left / upper-right corners).
type Rectangle struct {
	LLX, LLY, URX, URY float64
}

// Width returns the horizontal extent of the rectangle.
func (r Rectangle) Width() float64 { return r.URX - r.LLX }

// Height returns the vertical extent of the rectangle.
func (r Rectangle) Height() float64 { return r.URY - r.LLY }

// ContentStream is a sequence of operations on a page.
type ContentStream struct {
	Operations []Operation
	RawBytes   []byte
}

// Operation represents a PDF operator and its operands.
type Operation struct {
	Operator string
	Operands []Operand
}

// Operand is a type-safe operand value.
type Operand interface {
	operand()
	Type() string
}

type NumberOperand struct{ Value float64 }

func (NumberOperand) operand()     {}
func (NumberOperand) Type() string { return "number" }

type NameOperand struct{ Value string }

func (NameOperand) operand()     {}
func (NameOperand) Type() string { return "name" }

type StringOperand struct{ Value []byte }

func (StringOperand) operand()     {}
func (StringOperand) Type() string { return "string" }

type ArrayOperand struct{ Values []Operand }

func (ArrayOperand) operand()     {}
func (ArrayOperand) Type() string { return "array" }

// Resources holds per-page resources.
type Resources struct {
	Fonts      map[string]*Font
	ExtGStates map[string]ExtGState
	XObjects   map[string]XObject
}

// Font represents a font resource. The generator emits standard-14 Type1
// fonts only; Widths carries the metric table used for measurement and is
// also serialized so viewers agree with the layout engine.
type Font struct {
	Subtype  string // Type1
	BaseFont string
	Encoding string
	Widths   map[int]int // character code -> width (glyph space, /1000)
}

// ExtGState captures graphics state defaults such as transparency.
type ExtGState struct {
	FillAlpha   *float64
	StrokeAlpha *float64
}

// ColorSpace references a named colorspace.
type ColorSpace interface {
	ColorSpaceName() string
}

// DeviceColorSpace is a device colorspace referenced by name.
type DeviceColorSpace struct {
	Name string
}

func (cs DeviceColorSpace) ColorSpaceName() string { return cs.Name }

// XObject describes a referenced object (limited to simple images).
type XObject struct {
	Subtype string // Image
	Width   int
	Height  int
	ColorSpace
	BitsPerComponent int
	Data             []byte
	Filter           string // DCTDecode or FlateDecode
	SMask            *XObject
	Interpolate      bool
}

// Image is an alias for XObject for image convenience APIs.
type Image = XObject

// DocumentInfo models /Info dictionary values.
type DocumentInfo struct {
	Title        string
	Author       string
	Subject      string
	Creator      string
	Producer     string
	Keywords     []string
	CreationDate time.Time
}

// Annotation represents a page annotation.
type Annotation interface {
	Type() string
	Rect() Rectangle
	SetRect(Rectangle)
	Base() *BaseAnnotation
}

// BaseAnnotation provides common fields for annotations.
type BaseAnnotation struct {
	Subtype  string
	RectVal  Rectangle
	Contents string
	Flags    int
	Border   []float64
	Ref      raw.ObjectRef
}

func (a *BaseAnnotation) Type() string          { return a.Subtype }
func (a *BaseAnnotation) Rect() Rectangle       { return a.RectVal }
func (a *BaseAnnotation) SetRect(r Rectangle)   { a.RectVal = r }
func (a *BaseAnnotation) Base() *BaseAnnotation { return a }

// Action is a behaviour attached to an annotation.
type Action interface {
	ActionType() string
}

// URIAction resolves to an external URI when activated.
type URIAction struct {
	URI string
}

func (URIAction) ActionType() string { return "URI" }

// LinkAnnotation binds a rectangular region to an action. The region is
// independent of any visible text on the page.
type LinkAnnotation struct {
	BaseAnnotation
	Action Action
}
