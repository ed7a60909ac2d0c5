package layout

import (
	"docforge/docspec"
	"docforge/observability"
)

// renderColumns lays each column's nested elements into its own vertical
// band, all starting from the same Y, then reconverges the cursor at the
// lowest point any column reached. Columns are laid out independently; if
// one overflows the page its own children break pages, which desynchronizes
// the bands on the continuation page. That is accepted behavior, not
// something this renderer compensates for.
func (e *Engine) renderColumns(el docspec.Element) error {
	n := len(el.Columns)
	if n == 0 {
		return nil
	}
	gap := el.Gap
	if gap <= 0 {
		gap = 20
	}
	outer := e.frame
	colWidth := (outer.width - gap*float64(n-1)) / float64(n)

	startY := e.cursorY
	startPage := e.pageIndex
	lowestY := startY
	lastPage := startPage

	for i, col := range el.Columns {
		e.frame = frame{x: outer.x + float64(i)*(colWidth+gap), width: colWidth}
		e.cursorX = e.frame.x
		e.cursorY = startY
		// Every column starts over on the page the element started on.
		e.currentPage = e.b.Page(startPage)
		e.pageIndex = startPage
		for _, child := range col.Elements {
			if err := e.renderElement(child); err != nil {
				e.frame = outer
				return err
			}
		}
		switch {
		case e.pageIndex > lastPage:
			lastPage = e.pageIndex
			lowestY = e.cursorY
		case e.pageIndex == lastPage && e.cursorY < lowestY:
			lowestY = e.cursorY
		}
	}

	e.frame = outer
	e.currentPage = e.b.Page(lastPage)
	e.pageIndex = lastPage
	e.cursorX = e.frame.x
	e.cursorY = lowestY
	e.log.Debug("columns reconverged",
		observability.Int("columns", n),
		observability.Int("page", lastPage))
	e.cursorY -= el.MoveDown
	return nil
}
