// Package builder provides a fluent API for assembling the semantic document
// a render session draws into. Pages stay buffered and addressable by index
// until Build, which is what allows a post-layout pass (page numbering) to
// revisit finished pages before the document is sealed.
package builder

import (
	"fmt"

	"docforge/fonts"
	"docforge/ir/semantic"
)

// DocBuilder accumulates pages and document-level state.
type DocBuilder interface {
	NewPage(width, height float64) PageBuilder
	// Page returns a builder for an already-created page. Pages are buffered
	// until Build, so earlier pages remain writable.
	Page(index int) PageBuilder
	PageCount() int
	SetInfo(info *semantic.DocumentInfo) DocBuilder
	// MeasureText returns the width of text in user units for the named
	// standard font at the given size.
	MeasureText(text string, size float64, font string) float64
	Build() (*semantic.Document, error)
}

// PageBuilder provides a fluent API for drawing on one page.
type PageBuilder interface {
	DrawText(text string, x, y float64, opts TextOptions) PageBuilder
	DrawRectangle(x, y, width, height float64, opts RectOptions) PageBuilder
	DrawLine(x1, y1, x2, y2 float64, opts LineOptions) PageBuilder
	DrawImage(img *semantic.Image, x, y, width, height float64) PageBuilder
	AddAnnotation(ann semantic.Annotation) PageBuilder
	Size() (width, height float64)
	Finish() DocBuilder
}

// TextOptions configures text drawing.
type TextOptions struct {
	Font     string
	FontSize float64
	Color    Color
}

// RectOptions configures rectangle drawing (defaults to stroke if neither
// fill nor stroke is set).
type RectOptions struct {
	FillColor   Color
	StrokeColor Color
	LineWidth   float64
	Fill        bool
	Stroke      bool
	// FillAlpha < 1 paints the fill translucently via an ExtGState resource.
	FillAlpha float64
}

// LineOptions configures line drawing.
type LineOptions struct {
	StrokeColor Color
	LineWidth   float64
	DashPattern []float64
}

// Color represents an RGB color with components in [0, 1].
type Color struct {
	R, G, B float64
}

// IsZero reports whether c is the zero value, treated as "unset" (black).
func (c Color) IsZero() bool { return c.R == 0 && c.G == 0 && c.B == 0 }

const defaultBaseFont = "Helvetica"

type builderImpl struct {
	pages        []*semantic.Page
	info         *semantic.DocumentInfo
	fontRes      map[string]string // base font -> resource name
	fontCount    int
	xobjectCount int
}

type pageBuilderImpl struct {
	parent *builderImpl
	page   *semantic.Page
}

// New constructs a DocBuilder.
func New() DocBuilder { return &builderImpl{fontRes: make(map[string]string)} }

func (b *builderImpl) NewPage(w, h float64) PageBuilder {
	p := &semantic.Page{
		Index:    len(b.pages),
		MediaBox: semantic.Rectangle{URX: w, URY: h},
	}
	b.pages = append(b.pages, p)
	return &pageBuilderImpl{parent: b, page: p}
}

func (b *builderImpl) Page(index int) PageBuilder {
	if index < 0 || index >= len(b.pages) {
		return &pageBuilderImpl{parent: b, page: &semantic.Page{}}
	}
	return &pageBuilderImpl{parent: b, page: b.pages[index]}
}

func (b *builderImpl) PageCount() int { return len(b.pages) }

func (b *builderImpl) SetInfo(info *semantic.DocumentInfo) DocBuilder {
	b.info = info
	return b
}

func (b *builderImpl) MeasureText(text string, size float64, font string) float64 {
	if size <= 0 {
		size = 12
	}
	return fonts.Lookup(b.baseFont(font)).TextWidth(text, size)
}

func (b *builderImpl) Build() (*semantic.Document, error) {
	for i, p := range b.pages {
		p.Index = i
	}
	return &semantic.Document{Pages: b.pages, Info: b.info}, nil
}

func (b *builderImpl) baseFont(name string) string {
	if name == "" {
		return defaultBaseFont
	}
	return name
}

// fontResource registers the base font in the builder-wide resource table and
// returns its stable resource name.
func (b *builderImpl) fontResource(base string) (string, *semantic.Font) {
	if name, ok := b.fontRes[base]; ok {
		return name, b.fontFor(base)
	}
	b.fontCount++
	name := fmt.Sprintf("F%d", b.fontCount)
	b.fontRes[base] = name
	return name, b.fontFor(base)
}

func (b *builderImpl) fontFor(base string) *semantic.Font {
	return &semantic.Font{
		Subtype:  "Type1",
		BaseFont: base,
		Encoding: "WinAnsiEncoding",
		Widths:   fonts.WidthTable(fonts.Lookup(base)),
	}
}

func (p *pageBuilderImpl) Size() (float64, float64) {
	return p.page.MediaBox.Width(), p.page.MediaBox.Height()
}

func (p *pageBuilderImpl) DrawText(text string, x, y float64, opts TextOptions) PageBuilder {
	ops := p.ensureContentOps()
	res := p.ensureResources()

	base := p.parent.baseFont(opts.Font)
	resName, font := p.parent.fontResource(base)
	if _, ok := res.Fonts[resName]; !ok {
		res.Fonts[resName] = font
	}
	size := opts.FontSize
	if size <= 0 {
		size = 12
	}

	*ops = append(*ops, semantic.Operation{Operator: "BT"})
	*ops = append(*ops, semantic.Operation{
		Operator: "Tf",
		Operands: []semantic.Operand{semantic.NameOperand{Value: resName}, semantic.NumberOperand{Value: size}},
	})
	*ops = append(*ops, semantic.Operation{
		Operator: "Tm",
		Operands: []semantic.Operand{
			semantic.NumberOperand{Value: 1},
			semantic.NumberOperand{Value: 0},
			semantic.NumberOperand{Value: 0},
			semantic.NumberOperand{Value: 1},
			semantic.NumberOperand{Value: x},
			semantic.NumberOperand{Value: y},
		},
	})
	if !opts.Color.IsZero() {
		*ops = append(*ops, semantic.Operation{Operator: "rg", Operands: colorOperands(opts.Color)})
	}
	*ops = append(*ops, semantic.Operation{
		Operator: "Tj",
		Operands: []semantic.Operand{semantic.StringOperand{Value: []byte(text)}},
	})
	*ops = append(*ops, semantic.Operation{Operator: "ET"})
	if !opts.Color.IsZero() {
		// restore non-stroking black for subsequent draws
		*ops = append(*ops, semantic.Operation{Operator: "rg", Operands: colorOperands(Color{})})
	}
	return p
}

func (p *pageBuilderImpl) DrawRectangle(x, y, width, height float64, opts RectOptions) PageBuilder {
	if !opts.Fill && !opts.Stroke {
		opts.Stroke = true
	}
	ops := p.ensureContentOps()
	*ops = append(*ops, semantic.Operation{Operator: "q"})
	if opts.Fill && opts.FillAlpha > 0 && opts.FillAlpha < 1 {
		gsName := p.ensureAlphaState(opts.FillAlpha)
		*ops = append(*ops, semantic.Operation{
			Operator: "gs",
			Operands: []semantic.Operand{semantic.NameOperand{Value: gsName}},
		})
	}
	if opts.Fill {
		*ops = append(*ops, semantic.Operation{Operator: "rg", Operands: colorOperands(opts.FillColor)})
	}
	if opts.Stroke {
		*ops = append(*ops, semantic.Operation{Operator: "RG", Operands: colorOperands(opts.StrokeColor)})
		if opts.LineWidth > 0 {
			*ops = append(*ops, semantic.Operation{Operator: "w", Operands: []semantic.Operand{semantic.NumberOperand{Value: opts.LineWidth}}})
		}
	}
	*ops = append(*ops, semantic.Operation{
		Operator: "re",
		Operands: []semantic.Operand{
			semantic.NumberOperand{Value: x},
			semantic.NumberOperand{Value: y},
			semantic.NumberOperand{Value: width},
			semantic.NumberOperand{Value: height},
		},
	})
	*ops = append(*ops, semantic.Operation{Operator: paintOperator(opts.Fill, opts.Stroke)})
	*ops = append(*ops, semantic.Operation{Operator: "Q"})
	return p
}

func (p *pageBuilderImpl) DrawLine(x1, y1, x2, y2 float64, opts LineOptions) PageBuilder {
	ops := p.ensureContentOps()
	*ops = append(*ops, semantic.Operation{Operator: "q"})
	*ops = append(*ops, semantic.Operation{Operator: "RG", Operands: colorOperands(opts.StrokeColor)})
	if opts.LineWidth > 0 {
		*ops = append(*ops, semantic.Operation{Operator: "w", Operands: []semantic.Operand{semantic.NumberOperand{Value: opts.LineWidth}}})
	}
	if len(opts.DashPattern) > 0 {
		vals := make([]semantic.Operand, 0, len(opts.DashPattern))
		for _, v := range opts.DashPattern {
			vals = append(vals, semantic.NumberOperand{Value: v})
		}
		*ops = append(*ops, semantic.Operation{
			Operator: "d",
			Operands: []semantic.Operand{semantic.ArrayOperand{Values: vals}, semantic.NumberOperand{Value: 0}},
		})
	}
	*ops = append(*ops, semantic.Operation{
		Operator: "m",
		Operands: []semantic.Operand{semantic.NumberOperand{Value: x1}, semantic.NumberOperand{Value: y1}},
	})
	*ops = append(*ops, semantic.Operation{
		Operator: "l",
		Operands: []semantic.Operand{semantic.NumberOperand{Value: x2}, semantic.NumberOperand{Value: y2}},
	})
	*ops = append(*ops, semantic.Operation{Operator: "S"})
	*ops = append(*ops, semantic.Operation{Operator: "Q"})
	return p
}

func (p *pageBuilderImpl) DrawImage(img *semantic.Image, x, y, width, height float64) PageBuilder {
	if img == nil {
		return p
	}
	res := p.ensureResources()
	p.parent.xobjectCount++
	name := fmt.Sprintf("Im%d", p.parent.xobjectCount)
	xobj := *img
	xobj.Subtype = "Image"
	res.XObjects[name] = xobj

	w := width
	if w == 0 {
		w = float64(img.Width)
	}
	h := height
	if h == 0 {
		h = float64(img.Height)
	}
	ops := p.ensureContentOps()
	*ops = append(*ops, semantic.Operation{Operator: "q"})
	*ops = append(*ops, semantic.Operation{
		Operator: "cm",
		Operands: []semantic.Operand{
			semantic.NumberOperand{Value: w},
			semantic.NumberOperand{Value: 0},
			semantic.NumberOperand{Value: 0},
			semantic.NumberOperand{Value: h},
			semantic.NumberOperand{Value: x},
			semantic.NumberOperand{Value: y},
		},
	})
	*ops = append(*ops, semantic.Operation{
		Operator: "Do",
		Operands: []semantic.Operand{semantic.NameOperand{Value: name}},
	})
	*ops = append(*ops, semantic.Operation{Operator: "Q"})
	return p
}

func (p *pageBuilderImpl) AddAnnotation(ann semantic.Annotation) PageBuilder {
	if ann != nil {
		p.page.Annotations = append(p.page.Annotations, ann)
	}
	return p
}

func (p *pageBuilderImpl) Finish() DocBuilder { return p.parent }

// ensureAlphaState registers (or reuses) an ExtGState with the given
// non-stroking alpha and returns its resource name.
func (p *pageBuilderImpl) ensureAlphaState(alpha float64) string {
	res := p.ensureResources()
	name := fmt.Sprintf("GS%d", int(alpha*100))
	if _, ok := res.ExtGStates[name]; !ok {
		a := alpha
		res.ExtGStates[name] = semantic.ExtGState{FillAlpha: &a}
	}
	return name
}

func (p *pageBuilderImpl) ensureResources() *semantic.Resources {
	if p.page.Resources == nil {
		p.page.Resources = &semantic.Resources{}
	}
	if p.page.Resources.Fonts == nil {
		p.page.Resources.Fonts = make(map[string]*semantic.Font)
	}
	if p.page.Resources.ExtGStates == nil {
		p.page.Resources.ExtGStates = make(map[string]semantic.ExtGState)
	}
	if p.page.Resources.XObjects == nil {
		p.page.Resources.XObjects = make(map[string]semantic.XObject)
	}
	return p.page.Resources
}

func (p *pageBuilderImpl) ensureContentOps() *[]semantic.Operation {
	if len(p.page.Contents) == 0 {
		p.page.Contents = append(p.page.Contents, semantic.ContentStream{})
	}
	return &p.page.Contents[0].Operations
}

func colorOperands(c Color) []semantic.Operand {
	return []semantic.Operand{
		semantic.NumberOperand{Value: c.R},
		semantic.NumberOperand{Value: c.G},
		semantic.NumberOperand{Value: c.B},
	}
}

func paintOperator(fill, stroke bool) string {
	switch {
	case fill && stroke:
		return "B"
	case fill:
		return "f"
	default:
		return "S"
	}
}
