package layout

import (
	"fmt"

	"docforge/builder"
	"docforge/docspec"
)

// stampPageNumbers runs after the whole element walk, when the total is
// finally known. It revisits every buffered page and writes the footer into
// the bottom margin area, below the content box, so no laid-out content
// moves.
func (e *Engine) stampPageNumbers(cfg *docspec.PageNumbers) {
	total := e.b.PageCount()
	prefix := cfg.Prefix
	if prefix == "" {
		prefix = "Page "
	}
	size := cfg.FontSize
	if size <= 0 {
		size = 9
	}
	color := builder.Color{R: 0.5, G: 0.5, B: 0.5}
	if cfg.Color != nil {
		color = specColor(cfg.Color)
	}
	align := normalizeAlign(cfg.Align)
	if cfg.Align == "" {
		align = "center"
	}

	for i := 0; i < total; i++ {
		label := fmt.Sprintf("%s%d of %d", prefix, i+1, total)
		width := e.b.MeasureText(label, size, e.DefaultFont)
		x := e.Margins.Left
		contentWidth := e.pageWidth - e.Margins.Left - e.Margins.Right
		switch align {
		case "center":
			x += (contentWidth - width) / 2
		case "right":
			x += contentWidth - width
		}
		y := e.Margins.Bottom / 2
		e.b.Page(i).DrawText(label, x, y, builder.TextOptions{
			Font:     e.DefaultFont,
			FontSize: size,
			Color:    color,
		})
	}
	e.log.Debug("page numbers stamped")
}
