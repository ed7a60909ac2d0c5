package layout

import (
	"docforge/builder"
	"docforge/docspec"
	"docforge/ir/semantic"
)

// Overlay defaults.
const (
	defaultOverlayHeight  = 120.0
	defaultOverlayBars    = 5
	defaultOverlayOpacity = 0.9
	overlayBarMin         = 0.40
	overlayBarMax         = 0.85
)

var (
	overlayBarColor  = builder.Color{R: 0.82, G: 0.82, B: 0.82}
	overlayFillColor = builder.Color{R: 0.96, G: 0.96, B: 0.98}
)

// renderOverlay paints faint redacted-style bars of randomized width behind
// a translucent panel, with a centered clickable label on top. Bar widths
// come from the session's randomness source; they are cosmetic and never
// influence the layout of surrounding elements. If a URL is present the
// whole panel, not just the label, becomes the clickable region.
func (e *Engine) renderOverlay(el docspec.Element) error {
	height := el.Height
	if height <= 0 {
		height = defaultOverlayHeight
	}
	bars := el.Bars
	if bars <= 0 {
		bars = defaultOverlayBars
	}
	opacity := el.Opacity
	if opacity <= 0 || opacity > 1 {
		opacity = defaultOverlayOpacity
	}

	e.checkPageBreak(height)
	top := e.cursorY

	spacing := height / float64(bars+2)
	for i := 0; i < bars; i++ {
		frac := overlayBarMin + e.rng.Float64()*(overlayBarMax-overlayBarMin)
		barY := top - spacing*float64(i+1) - 6
		e.currentPage.DrawRectangle(e.frame.x, barY, e.frame.width*frac, 6, builder.RectOptions{
			FillColor: overlayBarColor,
			Fill:      true,
		})
	}

	e.currentPage.DrawRectangle(e.frame.x, top-height, e.frame.width, height, builder.RectOptions{
		FillColor: overlayFillColor,
		Fill:      true,
		FillAlpha: opacity,
	})

	if el.Label != "" {
		size := el.LabelSize
		if size <= 0 {
			size = 14
		}
		width := e.b.MeasureText(el.Label, size, "Helvetica-Bold")
		x := e.frame.x + (e.frame.width-width)/2
		baseline := top - height/2 - size/2
		e.currentPage.DrawText(el.Label, x, baseline, builder.TextOptions{
			Font:     "Helvetica-Bold",
			FontSize: size,
			Color:    linkBlue,
		})
		e.currentPage.DrawLine(x, baseline-2, x+width, baseline-2, builder.LineOptions{
			StrokeColor: linkBlue,
			LineWidth:   0.5,
		})
	}

	if el.URL != "" {
		e.currentPage.AddAnnotation(linkAnnotation(semantic.Rectangle{
			LLX: e.frame.x,
			LLY: top - height,
			URX: e.frame.x + e.frame.width,
			URY: top,
		}, el.URL))
	}

	e.cursorY = top - height - 10
	e.cursorY -= el.MoveDown
	return nil
}
