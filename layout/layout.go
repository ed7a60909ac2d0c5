// Package layout walks a document specification and renders it into
// positioned drawing primitives through the builder. It owns the flowing
// cursor, page-break decisions, table and column geometry, clickable-region
// registration, and the final page-numbering pass.
package layout

import (
	"fmt"
	"math/rand"
	"time"

	"docforge/builder"
	"docforge/docspec"
	"docforge/observability"
	"docforge/writer"
)

// Engine is one render session. It is single-threaded: the cursor is shared
// mutable state threaded through every renderer, and renderers depend on the
// exact state left by the previous one. Independent sessions share nothing
// and may run in parallel.
type Engine struct {
	b   builder.DocBuilder
	log observability.Logger
	rng *rand.Rand

	DefaultFont     string
	DefaultFontSize float64
	LineHeight      float64 // multiplier, e.g. 1.2
	Margins         Margins

	writerCfg writer.Config

	// State
	currentPage builder.PageBuilder
	pageIndex   int
	cursorX     float64
	cursorY     float64
	pageWidth   float64
	pageHeight  float64

	// frame is the horizontal band child elements lay out into. The full
	// content area by default; the columns renderer narrows it per column
	// and restores it afterwards.
	frame frame
}

type frame struct {
	x     float64
	width float64
}

// Margins defines page margins in points.
type Margins struct {
	Top, Bottom, Left, Right float64
}

// Option configures the Engine.
type Option func(*Engine)

// WithDefaultFont sets the body font.
func WithDefaultFont(font string) Option {
	return func(e *Engine) { e.DefaultFont = font }
}

// WithDefaultFontSize sets the body font size.
func WithDefaultFontSize(size float64) Option {
	return func(e *Engine) { e.DefaultFontSize = size }
}

// WithLineHeight sets the line height multiplier.
func WithLineHeight(height float64) Option {
	return func(e *Engine) { e.LineHeight = height }
}

// WithMargins sets the page margins.
func WithMargins(m Margins) Option {
	return func(e *Engine) { e.Margins = m }
}

// WithPageSize sets the page dimensions in points.
func WithPageSize(width, height float64) Option {
	return func(e *Engine) {
		e.pageWidth = width
		e.pageHeight = height
	}
}

// WithLogger sets the session logger.
func WithLogger(log observability.Logger) Option {
	return func(e *Engine) { e.log = log }
}

// WithRandSource injects the randomness source used for cosmetic values
// (overlay bar widths). Tests substitute a seeded source; layout of
// surrounding elements never depends on it.
func WithRandSource(rng *rand.Rand) Option {
	return func(e *Engine) { e.rng = rng }
}

// WithWriterConfig sets the serialization options used by Render.
func WithWriterConfig(cfg writer.Config) Option {
	return func(e *Engine) { e.writerCfg = cfg }
}

// NewEngine creates a render session drawing into b.
func NewEngine(b builder.DocBuilder, opts ...Option) *Engine {
	e := &Engine{
		b:               b,
		log:             observability.NopLogger{},
		DefaultFont:     "Helvetica",
		DefaultFontSize: 12,
		LineHeight:      1.2,
		Margins:         Margins{Top: 50, Bottom: 50, Left: 50, Right: 50},
		pageWidth:       docspec.A4.Width,
		pageHeight:      docspec.A4.Height,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.rng == nil {
		e.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	e.frame = frame{x: e.Margins.Left, width: e.pageWidth - e.Margins.Left - e.Margins.Right}
	return e
}

// Render renders a document specification to sealed PDF bytes. It is the
// whole session: builder creation, element walk, page numbering, and
// serialization. Any failure aborts the session; partial output is never
// returned.
func Render(spec *docspec.Spec, opts ...Option) ([]byte, error) {
	b := builder.New()
	size := spec.PageSize()
	e := NewEngine(b, append([]Option{WithPageSize(size.Width, size.Height)}, opts...)...)
	if err := e.RenderSpec(spec); err != nil {
		return nil, err
	}
	doc, err := b.Build()
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	return writer.Bytes(doc, e.writerCfg)
}

// RenderSpec walks the top-level element sequence and stamps page numbers.
// The builder holds the result; callers seal it via Build and the writer.
func (e *Engine) RenderSpec(spec *docspec.Spec) error {
	if spec.Margins != nil {
		e.Margins = Margins{
			Top:    spec.Margins.Top,
			Bottom: spec.Margins.Bottom,
			Left:   spec.Margins.Left,
			Right:  spec.Margins.Right,
		}
		e.frame = frame{x: e.Margins.Left, width: e.pageWidth - e.Margins.Left - e.Margins.Right}
	}
	e.applyMeta(spec.Meta)

	e.ensurePage()
	for i, el := range spec.Elements {
		if err := e.renderElement(el); err != nil {
			return fmt.Errorf("layout: element %d (%s): %w", i, el.Type, err)
		}
	}
	if spec.PageNumbers != nil {
		e.stampPageNumbers(spec.PageNumbers)
	}
	return nil
}

// Cursor returns the current write position. Exposed for composition and
// verification; renderers use the fields directly.
func (e *Engine) Cursor() (x, y float64) { return e.cursorX, e.cursorY }

// ContentWidth returns the width of the current layout frame.
func (e *Engine) ContentWidth() float64 { return e.frame.width }

func (e *Engine) applyMeta(meta docspec.Meta) {
	info := metaInfo(meta)
	if info != nil {
		e.b.SetInfo(info)
	}
}

// ensurePage makes sure there is a current page and the cursor is valid.
func (e *Engine) ensurePage() {
	if e.currentPage == nil {
		e.newPage()
	}
}

// newPage starts a new page and resets the cursor to the top of the frame.
func (e *Engine) newPage() {
	if e.currentPage != nil {
		e.currentPage.Finish()
	}
	e.currentPage = e.b.NewPage(e.pageWidth, e.pageHeight)
	e.pageIndex = e.b.PageCount() - 1
	e.cursorX = e.frame.x
	e.cursorY = e.pageHeight - e.Margins.Top
	e.log.Debug("page started", observability.Int("page", e.pageIndex))
}

// checkPageBreak starts a new page if height does not fit above the bottom
// margin.
func (e *Engine) checkPageBreak(height float64) {
	if e.currentPage == nil {
		e.newPage()
		return
	}
	if e.cursorY-height < e.Margins.Bottom {
		e.newPage()
	}
}

func (e *Engine) contentBottom() float64 { return e.Margins.Bottom }

// indentFrame narrows the frame from the left for the duration of one
// renderer. The returned func restores the outer frame; call it deferred.
func (e *Engine) indentFrame(indent float64) func() {
	if indent <= 0 {
		return func() {}
	}
	outer := e.frame
	e.frame = frame{x: outer.x + indent, width: outer.width - indent}
	return func() { e.frame = outer }
}

func (e *Engine) lineHeightFor(size float64) float64 {
	return size * e.LineHeight
}

func (e *Engine) fontOrDefault(name string) string {
	if name == "" {
		return e.DefaultFont
	}
	return name
}

func (e *Engine) sizeOrDefault(size float64) float64 {
	if size <= 0 {
		return e.DefaultFontSize
	}
	return size
}
