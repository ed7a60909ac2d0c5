package layout

import (
	"docforge/builder"
	"docforge/docspec"
	"docforge/ir/semantic"
)

// Table defaults.
var (
	defaultHeaderFill  = builder.Color{R: 63.0 / 255, G: 81.0 / 255, B: 181.0 / 255}
	defaultHeaderColor = builder.Color{R: 1, G: 1, B: 1}
	defaultAltFill     = builder.Color{R: 245.0 / 255, G: 245.0 / 255, B: 245.0 / 255}
)

type tableStyle struct {
	widths      []float64
	headerFill  builder.Color
	headerColor builder.Color
	altFill     builder.Color
	fontSize    float64
	font        string
	padding     float64
	rowHeight   float64
	gridlines   bool
}

// renderTable paints an optional header row then the body rows, breaking to
// a new page before any row that would overrun the bottom margin. The header
// is repainted at the top of every continuation page. Alternating-row
// striping keys off the global body-row index, so parity carries across page
// breaks.
func (e *Engine) renderTable(el docspec.Element) error {
	cols := len(el.Headers)
	for _, row := range el.Rows {
		if len(row) > cols {
			cols = len(row)
		}
	}
	if cols == 0 {
		return nil
	}

	st := e.tableStyle(el, cols)

	if len(el.Headers) > 0 {
		// A header alone at the bottom of a page would just be repainted on
		// the next one, so require room for the first body row too.
		reserve := st.rowHeight
		if len(el.Rows) > 0 {
			reserve *= 2
		}
		e.checkPageBreak(reserve)
		e.drawHeaderRow(el.Headers, st)
	}
	for i, row := range el.Rows {
		if e.cursorY-st.rowHeight < e.contentBottom() {
			e.newPage()
			if len(el.Headers) > 0 {
				e.drawHeaderRow(el.Headers, st)
			}
		}
		e.drawBodyRow(row, i, st)
	}

	// Bottom rule under the table. Full gridlines draw their own border
	// per row, so the extra rule is only needed in the default styling.
	if !st.gridlines {
		e.currentPage.DrawLine(e.frame.x, e.cursorY, e.frame.x+e.frame.width, e.cursorY, builder.LineOptions{
			StrokeColor: builder.Color{R: 0.5, G: 0.5, B: 0.5},
			LineWidth:   0.5,
		})
	}
	e.cursorX = e.frame.x
	e.cursorY -= 10
	e.cursorY -= el.MoveDown
	return nil
}

func (e *Engine) tableStyle(el docspec.Element, cols int) tableStyle {
	st := tableStyle{
		headerFill:  defaultHeaderFill,
		headerColor: defaultHeaderColor,
		altFill:     defaultAltFill,
		fontSize:    e.sizeOrDefault(el.FontSize),
		font:        e.fontOrDefault(el.Font),
		padding:     4,
		gridlines:   el.Gridlines,
	}
	if el.HeaderFill != nil {
		st.headerFill = specColor(el.HeaderFill)
	}
	if el.HeaderColor != nil {
		st.headerColor = specColor(el.HeaderColor)
	}
	if el.AltFill != nil {
		st.altFill = specColor(el.AltFill)
	}
	if el.CellPadding > 0 {
		st.padding = el.CellPadding
	}
	st.rowHeight = st.fontSize*e.LineHeight + 2*st.padding

	if len(el.ColumnWidths) == cols {
		st.widths = el.ColumnWidths
	} else {
		st.widths = make([]float64, cols)
		w := e.frame.width / float64(cols)
		for i := range st.widths {
			st.widths[i] = w
		}
	}
	return st
}

func (e *Engine) drawHeaderRow(headers []string, st tableStyle) {
	e.currentPage.DrawRectangle(e.frame.x, e.cursorY-st.rowHeight, e.frame.width, st.rowHeight, builder.RectOptions{
		FillColor: st.headerFill,
		Fill:      true,
	})
	x := e.frame.x
	for i, w := range st.widths {
		label := ""
		if i < len(headers) {
			label = headers[i]
		}
		e.drawCellText(label, x, w, st, st.headerColor, "Helvetica-Bold")
		if st.gridlines {
			e.strokeCellBox(x, w, st)
		}
		x += w
	}
	e.cursorY -= st.rowHeight
}

func (e *Engine) drawBodyRow(row []docspec.TableCell, index int, st tableStyle) {
	if index%2 == 1 && !st.altFill.IsZero() {
		e.currentPage.DrawRectangle(e.frame.x, e.cursorY-st.rowHeight, e.frame.width, st.rowHeight, builder.RectOptions{
			FillColor: st.altFill,
			Fill:      true,
		})
	}
	x := e.frame.x
	for i, w := range st.widths {
		var cell docspec.TableCell
		if i < len(row) {
			cell = row[i]
		}
		color := builder.Color{}
		if cell.Color != nil {
			color = specColor(cell.Color)
		}
		e.drawCellText(cell.Text, x, w, st, color, st.font)
		if cell.Link != "" {
			// Clickable region over the full padded cell box, not the
			// glyph extent.
			e.currentPage.AddAnnotation(linkAnnotation(semantic.Rectangle{
				LLX: x,
				LLY: e.cursorY - st.rowHeight,
				URX: x + w,
				URY: e.cursorY,
			}, cell.Link))
		}
		if st.gridlines {
			e.strokeCellBox(x, w, st)
		}
		x += w
	}
	e.cursorY -= st.rowHeight
}

// drawCellText writes one cell value inside its padded box, truncated to fit.
func (e *Engine) drawCellText(text string, x, width float64, st tableStyle, color builder.Color, font string) {
	if text == "" {
		return
	}
	avail := width - 2*st.padding
	runes := []rune(text)
	for len(runes) > 0 && e.b.MeasureText(string(runes), st.fontSize, font) > avail {
		runes = runes[:len(runes)-1]
	}
	text = string(runes)
	if text == "" {
		return
	}
	baseline := e.cursorY - st.padding - st.fontSize
	e.currentPage.DrawText(text, x+st.padding, baseline, builder.TextOptions{
		Font:     font,
		FontSize: st.fontSize,
		Color:    color,
	})
}

func (e *Engine) strokeCellBox(x, width float64, st tableStyle) {
	e.currentPage.DrawRectangle(x, e.cursorY-st.rowHeight, width, st.rowHeight, builder.RectOptions{
		StrokeColor: builder.Color{R: 0.5, G: 0.5, B: 0.5},
		LineWidth:   0.5,
		Stroke:      true,
	})
}
