package layout

import (
	"fmt"

	"docforge/docspec"
)

// renderList writes each item as one prefixed text run. Items carrying a
// link get a clickable region over the written line, same as linked text.
func (e *Engine) renderList(el docspec.Element) error {
	size := e.sizeOrDefault(el.FontSize)
	font := e.fontOrDefault(el.Font)
	indent := el.Indent
	if indent <= 0 {
		indent = 15
	}
	lh := e.lineHeightFor(size)

	// Narrow the frame for the duration of the list so wrapped continuation
	// lines stay aligned under the item text.
	defer e.indentFrame(indent)()

	for i, item := range el.Items {
		prefix := "• "
		if el.Numbered {
			prefix = fmt.Sprintf("%d. ", i+1)
		}
		e.checkPageBreak(lh)
		st := textStyle{
			font:  font,
			size:  size,
			color: specColor(el.Color),
			align: "left",
		}
		lines := e.writeParagraph(prefix+item.Text, st)
		if item.Link != "" {
			e.annotateLines(lines, item.Link)
		}
	}
	e.cursorY -= lh / 2
	e.cursorY -= el.MoveDown
	return nil
}
