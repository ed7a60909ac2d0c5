package layout

import (
	"docforge/builder"
	"docforge/docspec"
	"docforge/ir/semantic"
)

// renderDivider draws a horizontal rule across the frame and advances.
func (e *Engine) renderDivider(el docspec.Element) error {
	e.checkPageBreak(10)
	color := builder.Color{R: 0.8, G: 0.8, B: 0.8}
	if el.Color != nil {
		color = specColor(el.Color)
	}
	width := el.LineWidth
	if width <= 0 {
		width = 1
	}
	y := e.cursorY - 5
	e.currentPage.DrawLine(e.frame.x, y, e.frame.x+e.frame.width, y, builder.LineOptions{
		StrokeColor: color,
		LineWidth:   width,
	})
	e.cursorY -= 10
	e.cursorY -= el.MoveDown
	return nil
}

// renderSpacer advances the cursor by N line heights without drawing.
func (e *Engine) renderSpacer(el docspec.Element) error {
	lines := el.Lines
	if lines <= 0 {
		lines = 1
	}
	e.cursorY -= lines * e.lineHeightFor(e.DefaultFontSize)
	if e.cursorY < e.contentBottom() {
		e.cursorY = e.contentBottom()
	}
	return nil
}

// renderRect paints a rectangle. With an explicit Y it lands at that
// top-origin page coordinate; without one it flows at the cursor.
func (e *Engine) renderRect(el docspec.Element) error {
	w := el.Width
	if w <= 0 {
		w = e.frame.width
	}
	h := el.Height
	if h <= 0 {
		h = 20
	}
	x := e.frame.x + el.X
	cursorRelative := el.Y == nil
	var top float64
	if cursorRelative {
		e.checkPageBreak(h)
		top = e.cursorY
	} else {
		top = e.pageHeight - *el.Y
	}

	opts := builder.RectOptions{
		LineWidth: el.LineWidth,
		Stroke:    el.Stroke,
	}
	if el.FillColor != nil {
		opts.Fill = true
		opts.FillColor = specColor(el.FillColor)
	}
	if el.Color != nil {
		opts.StrokeColor = specColor(el.Color)
	}
	e.currentPage.DrawRectangle(x, top-h, w, h, opts)

	if el.URL != "" {
		e.currentPage.AddAnnotation(linkAnnotation(semantic.Rectangle{
			LLX: x, LLY: top - h, URX: x + w, URY: top,
		}, el.URL))
	}
	if cursorRelative {
		e.cursorY = top - h - 5
	}
	e.cursorY -= el.MoveDown
	return nil
}
