package layout

import (
	"strings"

	"docforge/builder"
	"docforge/docspec"
	"docforge/ir/semantic"
)

// linkBlue is the default color for dedicated link elements.
var linkBlue = builder.Color{R: 0, G: 0, B: 238.0 / 255}

// headingSizes maps heading level to point size. Out-of-range levels clamp.
var headingSizes = map[int]float64{1: 26, 2: 22, 3: 18, 4: 16, 5: 14, 6: 12}

type textStyle struct {
	font      string
	size      float64
	color     builder.Color
	align     string
	underline bool
}

// placedLine records where one wrapped line landed, for clickable-region
// registration after the fact.
type placedLine struct {
	page    int
	x, y    float64 // baseline origin
	width   float64
	size    float64
	topY    float64 // cursor position before the line was written
	bottomY float64 // cursor position after
}

func (e *Engine) renderText(el docspec.Element) error {
	st := textStyle{
		font:      e.fontOrDefault(el.Font),
		size:      e.sizeOrDefault(el.FontSize),
		color:     specColor(el.Color),
		align:     normalizeAlign(el.Align),
		underline: el.Underline,
	}
	defer e.indentFrame(el.Indent)()
	lines := e.writeParagraph(el.Value, st)
	if el.URL != "" {
		e.annotateLines(lines, el.URL)
	}
	e.cursorY -= el.MoveDown
	return nil
}

func (e *Engine) renderHeading(el docspec.Element) error {
	size := el.FontSize
	if size <= 0 {
		level := el.Level
		if level < 1 {
			level = 1
		}
		if level > 6 {
			level = 6
		}
		size = headingSizes[level]
	}
	font := el.Font
	if font == "" {
		font = "Helvetica-Bold"
	}
	st := textStyle{
		font:      font,
		size:      size,
		color:     specColor(el.Color),
		align:     normalizeAlign(el.Align),
		underline: el.Underline,
	}
	defer e.indentFrame(el.Indent)()
	lines := e.writeParagraph(el.Value, st)
	if el.URL != "" {
		e.annotateLines(lines, el.URL)
	}
	e.cursorY -= el.MoveDown
	return nil
}

func (e *Engine) renderLink(el docspec.Element) error {
	color := linkBlue
	if el.Color != nil {
		color = specColor(el.Color)
	}
	st := textStyle{
		font:      e.fontOrDefault(el.Font),
		size:      e.sizeOrDefault(el.FontSize),
		color:     color,
		align:     normalizeAlign(el.Align),
		underline: true,
	}
	lines := e.writeParagraph(el.Value, st)
	if el.URL != "" {
		e.annotateLines(lines, el.URL)
	}
	e.cursorY -= el.MoveDown
	return nil
}

// renderStealthLink writes the display text as a plain, link-free run and
// registers the clickable region separately from the cursor delta. The URL
// never enters the text layer.
func (e *Engine) renderStealthLink(el docspec.Element) error {
	st := textStyle{
		font:      e.fontOrDefault(el.Font),
		size:      e.sizeOrDefault(el.FontSize),
		color:     specColor(el.Color),
		align:     normalizeAlign(el.Align),
		underline: el.Underline,
	}
	lines := e.writeParagraph(el.Value, st)
	if el.URL != "" {
		for _, box := range mergeLinesByPage(lines) {
			e.b.Page(box.page).AddAnnotation(linkAnnotation(box.rect, el.URL))
		}
	}
	e.cursorY -= el.MoveDown
	return nil
}

// writeParagraph wraps text into the current frame, draws line by line with
// page breaks between lines, and advances the cursor. Drawing only; clickable
// regions are the caller's concern.
func (e *Engine) writeParagraph(text string, st textStyle) []placedLine {
	lh := e.lineHeightFor(st.size)
	var placed []placedLine
	for _, line := range e.wrapText(text, st.font, st.size, e.frame.width) {
		e.checkPageBreak(lh)
		width := e.b.MeasureText(line, st.size, st.font)
		x := e.frame.x
		switch st.align {
		case "center":
			x += (e.frame.width - width) / 2
		case "right":
			x += e.frame.width - width
		}
		baseline := e.cursorY - st.size
		e.currentPage.DrawText(line, x, baseline, builder.TextOptions{
			Font:     st.font,
			FontSize: st.size,
			Color:    st.color,
		})
		if st.underline && width > 0 {
			e.currentPage.DrawLine(x, baseline-2, x+width, baseline-2, builder.LineOptions{
				StrokeColor: st.color,
				LineWidth:   0.5,
			})
		}
		placed = append(placed, placedLine{
			page:    e.pageIndex,
			x:       x,
			y:       baseline,
			width:   width,
			size:    st.size,
			topY:    e.cursorY,
			bottomY: e.cursorY - lh,
		})
		e.cursorY -= lh
	}
	return placed
}

// wrapText splits text into lines that fit width, breaking greedily on
// spaces. Explicit newlines are respected. A single word wider than the
// frame is placed on its own line rather than broken.
func (e *Engine) wrapText(text string, font string, size, width float64) []string {
	var lines []string
	for _, para := range strings.Split(text, "\n") {
		words := strings.Fields(para)
		if len(words) == 0 {
			lines = append(lines, "")
			continue
		}
		current := words[0]
		for _, word := range words[1:] {
			candidate := current + " " + word
			if e.b.MeasureText(candidate, size, font) > width {
				lines = append(lines, current)
				current = word
				continue
			}
			current = candidate
		}
		lines = append(lines, current)
	}
	return lines
}

// annotateLines registers one clickable region per written line.
func (e *Engine) annotateLines(lines []placedLine, url string) {
	for _, ln := range lines {
		rect := semantic.Rectangle{
			LLX: ln.x,
			LLY: ln.y - 2,
			URX: ln.x + ln.width,
			URY: ln.y + ln.size,
		}
		e.b.Page(ln.page).AddAnnotation(linkAnnotation(rect, url))
	}
}

type pageBox struct {
	page int
	rect semantic.Rectangle
}

// mergeLinesByPage unions the per-line boxes into one region per page,
// covering exactly the vertical space the text consumed there.
func mergeLinesByPage(lines []placedLine) []pageBox {
	var boxes []pageBox
	for _, ln := range lines {
		rect := semantic.Rectangle{
			LLX: ln.x,
			LLY: ln.bottomY,
			URX: ln.x + ln.width,
			URY: ln.topY,
		}
		if n := len(boxes); n > 0 && boxes[n-1].page == ln.page {
			b := &boxes[n-1].rect
			if rect.LLX < b.LLX {
				b.LLX = rect.LLX
			}
			if rect.LLY < b.LLY {
				b.LLY = rect.LLY
			}
			if rect.URX > b.URX {
				b.URX = rect.URX
			}
			if rect.URY > b.URY {
				b.URY = rect.URY
			}
			continue
		}
		boxes = append(boxes, pageBox{page: ln.page, rect: rect})
	}
	return boxes
}

func linkAnnotation(rect semantic.Rectangle, url string) *semantic.LinkAnnotation {
	return &semantic.LinkAnnotation{
		BaseAnnotation: semantic.BaseAnnotation{Subtype: "Link", RectVal: rect},
		Action:         &semantic.URIAction{URI: url},
	}
}
