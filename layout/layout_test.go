package layout

import (
	"bytes"
	"math"
	"math/rand"
	"strings"
	"testing"

	"docforge/builder"
	"docforge/docspec"
	"docforge/extractor"
	"docforge/ir/semantic"
	"docforge/writer"
)

func renderBytes(t *testing.T, spec *docspec.Spec) []byte {
	t.Helper()
	out, err := Render(spec,
		WithRandSource(rand.New(rand.NewSource(1))),
		WithWriterConfig(writer.Config{Deterministic: true}))
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	return out
}

func extractedText(t *testing.T, pdf []byte) string {
	t.Helper()
	ex, err := extractor.New(pdf)
	if err != nil {
		t.Fatalf("New extractor failed: %v", err)
	}
	text, err := ex.ExtractText()
	if err != nil {
		t.Fatalf("ExtractText failed: %v", err)
	}
	return text
}

func TestRender_MagicHeaderAndTrailer(t *testing.T) {
	spec := &docspec.Spec{Elements: []docspec.Element{
		{Type: "text", Value: "hello"},
	}}
	out := renderBytes(t, spec)

	if !bytes.HasPrefix(out, []byte("%PDF-1.7")) {
		t.Fatalf("output does not start with magic header: %q", out[:16])
	}
	if !bytes.Contains(out[len(out)-16:], []byte("%%EOF")) {
		t.Fatalf("output does not end with EOF marker: %q", out[len(out)-16:])
	}
}

func TestDispatch_SkipsUnknownKinds(t *testing.T) {
	spec := &docspec.Spec{Elements: []docspec.Element{
		{Type: "text", Value: "before"},
		{Type: "hologram", Value: "ignored"},
		{Type: ""},
		{Type: "text", Value: "after"},
	}}
	out := renderBytes(t, spec)

	text := extractedText(t, out)
	if !strings.Contains(text, "before") || !strings.Contains(text, "after") {
		t.Fatalf("surrounding text lost: %q", text)
	}
	if strings.Contains(text, "ignored") {
		t.Fatalf("unknown kind was rendered: %q", text)
	}
}

func TestStealthLink_URLNeverInTextLayer(t *testing.T) {
	const url = "https://hidden.example/track"
	spec := &docspec.Spec{Elements: []docspec.Element{
		{Type: "stealthLink", Value: "click here", URL: url},
	}}
	out := renderBytes(t, spec)

	text := extractedText(t, out)
	if !strings.Contains(text, "click here") {
		t.Fatalf("display text missing: %q", text)
	}
	if strings.Contains(text, url) {
		t.Fatal("URL leaked into the text layer")
	}
	if !bytes.Contains(out, []byte("/URI")) {
		t.Fatal("no URI action in output")
	}

	ex, err := extractor.New(out)
	if err != nil {
		t.Fatalf("New extractor failed: %v", err)
	}
	annots, err := ex.ExtractAnnotations()
	if err != nil {
		t.Fatalf("ExtractAnnotations failed: %v", err)
	}
	if len(annots) != 1 {
		t.Fatalf("annotation count = %d, want 1", len(annots))
	}
	if annots[0].URI != url {
		t.Fatalf("annotation URI = %q, want %q", annots[0].URI, url)
	}
	if annots[0].Rect[2] <= annots[0].Rect[0] || annots[0].Rect[3] <= annots[0].Rect[1] {
		t.Fatalf("degenerate annotation rect: %v", annots[0].Rect)
	}
}

func TestStealthLink_NoURLMeansNoAnnotation(t *testing.T) {
	spec := &docspec.Spec{Elements: []docspec.Element{
		{Type: "stealthLink", Value: "plain"},
	}}
	out := renderBytes(t, spec)
	if bytes.Contains(out, []byte("/Annots")) {
		t.Fatal("annotation registered without a URL")
	}
}

func TestLink_DefaultsToBlueUnderlinedAnnotation(t *testing.T) {
	spec := &docspec.Spec{Elements: []docspec.Element{
		{Type: "link", Value: "pay now", URL: "https://pay.example/1"},
	}}
	out := renderBytes(t, spec)

	ex, _ := extractor.New(out)
	annots, err := ex.ExtractAnnotations()
	if err != nil {
		t.Fatalf("ExtractAnnotations failed: %v", err)
	}
	if len(annots) != 1 || annots[0].URI != "https://pay.example/1" {
		t.Fatalf("unexpected annotations: %+v", annots)
	}
	if !strings.Contains(extractedText(t, out), "pay now") {
		t.Fatal("link text missing from text layer")
	}
}

func buildSpecDoc(t *testing.T, spec *docspec.Spec) *semantic.Document {
	t.Helper()
	b := builder.New()
	size := spec.PageSize()
	e := NewEngine(b,
		WithPageSize(size.Width, size.Height),
		WithRandSource(rand.New(rand.NewSource(1))))
	if err := e.RenderSpec(spec); err != nil {
		t.Fatalf("RenderSpec failed: %v", err)
	}
	doc, err := b.Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	return doc
}

// countFillRects counts filled rectangles whose rg color matches (r, g, b).
func countFillRects(page *semantic.Page, r, g, b float64) int {
	count := 0
	for _, cs := range page.Contents {
		var lastColor [3]float64
		for _, op := range cs.Operations {
			switch op.Operator {
			case "rg":
				for i := 0; i < 3 && i < len(op.Operands); i++ {
					if n, ok := op.Operands[i].(semantic.NumberOperand); ok {
						lastColor[i] = n.Value
					}
				}
			case "f":
				if math.Abs(lastColor[0]-r) < 1e-6 && math.Abs(lastColor[1]-g) < 1e-6 && math.Abs(lastColor[2]-b) < 1e-6 {
					count++
				}
			}
		}
	}
	return count
}

func TestTable_BreaksPagesAndKeepsRowParity(t *testing.T) {
	rows := make([][]docspec.TableCell, 60)
	for i := range rows {
		rows[i] = []docspec.TableCell{{Text: "cell"}, {Text: "value"}}
	}
	spec := &docspec.Spec{Elements: []docspec.Element{
		{Type: "table", Headers: []string{"Name", "Amount"}, Rows: rows},
	}}
	doc := buildSpecDoc(t, spec)

	if len(doc.Pages) < 2 {
		t.Fatalf("expected table to break pages, got %d page(s)", len(doc.Pages))
	}

	// Header fill repaints at the top of every page the table touches.
	hr, hg, hb := 63.0/255, 81.0/255, 181.0/255
	for i, p := range doc.Pages {
		if countFillRects(p, hr, hg, hb) != 1 {
			t.Fatalf("page %d: header fill painted %d times, want 1", i, countFillRects(p, hr, hg, hb))
		}
	}

	// Striping follows the global row index: exactly the odd-indexed rows
	// are filled, regardless of where pages break.
	ar, ag, ab := 245.0/255, 245.0/255, 245.0/255
	total := 0
	for _, p := range doc.Pages {
		total += countFillRects(p, ar, ag, ab)
	}
	if total != 30 {
		t.Fatalf("alternating fills = %d, want 30", total)
	}
}

func TestTable_HeaderOnlyAndEmpty(t *testing.T) {
	spec := &docspec.Spec{Elements: []docspec.Element{
		{Type: "table", Headers: []string{"A", "B"}},
		{Type: "table"},
		{Type: "text", Value: "done"},
	}}
	out := renderBytes(t, spec)
	if !strings.Contains(extractedText(t, out), "done") {
		t.Fatal("rendering did not continue past degenerate tables")
	}
}

func TestTable_CellLinkCoversPaddedBox(t *testing.T) {
	spec := &docspec.Spec{Elements: []docspec.Element{
		{Type: "table", Headers: []string{"Item"}, Rows: [][]docspec.TableCell{
			{{Text: "open", Link: "https://docs.example"}},
		}},
	}}
	out := renderBytes(t, spec)

	ex, _ := extractor.New(out)
	annots, err := ex.ExtractAnnotations()
	if err != nil {
		t.Fatalf("ExtractAnnotations failed: %v", err)
	}
	if len(annots) != 1 {
		t.Fatalf("annotation count = %d, want 1", len(annots))
	}
	a := annots[0]
	// Full first-column cell box on an A4 page with 50pt margins.
	if a.Rect[0] != 50 {
		t.Fatalf("cell region left = %v, want 50", a.Rect[0])
	}
	width := a.Rect[2] - a.Rect[0]
	if math.Abs(width-(595.28-100)) > 0.01 {
		t.Fatalf("cell region width = %v, want full column", width)
	}
}

func TestColumns_ReconvergeAtTallestColumn(t *testing.T) {
	b := builder.New()
	e := NewEngine(b, WithRandSource(rand.New(rand.NewSource(1))))
	e.ensurePage()
	startY := e.cursorY

	el := docspec.Element{Type: "columns", Columns: []docspec.Column{
		{Elements: []docspec.Element{
			{Type: "text", Value: "one"},
			{Type: "text", Value: "two"},
			{Type: "text", Value: "three"},
		}},
		{Elements: []docspec.Element{
			{Type: "text", Value: "short"},
		}},
	}}
	if err := e.renderElement(el); err != nil {
		t.Fatalf("renderElement failed: %v", err)
	}

	_, y := e.Cursor()
	wantY := startY - 3*e.lineHeightFor(e.DefaultFontSize)
	if math.Abs(y-wantY) > 0.01 {
		t.Fatalf("cursor Y after columns = %v, want %v (tallest column)", y, wantY)
	}
	if x, _ := e.Cursor(); x != e.Margins.Left {
		t.Fatalf("cursor X after columns = %v, want left margin", x)
	}
	if math.Abs(e.frame.width-(595.28-100)) > 0.01 {
		t.Fatalf("frame not restored: width %v", e.frame.width)
	}
}

func TestPageNumbers_StampEveryBufferedPage(t *testing.T) {
	spec := &docspec.Spec{
		PageNumbers: &docspec.PageNumbers{},
		Elements: []docspec.Element{
			{Type: "text", Value: "p1"},
			{Type: "pageBreak"},
			{Type: "text", Value: "p2"},
			{Type: "pageBreak"},
			{Type: "text", Value: "p3"},
			{Type: "pageBreak"},
			{Type: "text", Value: "p4"},
		},
	}
	out := renderBytes(t, spec)
	text := extractedText(t, out)

	for _, want := range []string{"Page 1 of 4", "Page 2 of 4", "Page 3 of 4", "Page 4 of 4"} {
		if !strings.Contains(text, want) {
			t.Fatalf("missing footer %q in %q", want, text)
		}
	}
	if strings.Contains(text, "of 3") || strings.Contains(text, "of 5") {
		t.Fatalf("wrong total in footers: %q", text)
	}
}

func TestPageNumbers_CustomPrefix(t *testing.T) {
	spec := &docspec.Spec{
		PageNumbers: &docspec.PageNumbers{Prefix: "Sheet "},
		Elements:    []docspec.Element{{Type: "text", Value: "x"}},
	}
	text := extractedText(t, renderBytes(t, spec))
	if !strings.Contains(text, "Sheet 1 of 1") {
		t.Fatalf("custom prefix not applied: %q", text)
	}
}

func TestRender_DeterministicWithSeededSource(t *testing.T) {
	spec := &docspec.Spec{Elements: []docspec.Element{
		{Type: "heading", Level: 1, Value: "Report"},
		{Type: "overlay", Label: "Unlock", URL: "https://buy.example"},
		{Type: "text", Value: "trailing"},
	}}
	a := renderBytes(t, spec)
	b := renderBytes(t, spec)
	if !bytes.Equal(a, b) {
		t.Fatal("identical input and seed produced different bytes")
	}
}

func TestOverlay_RandomnessIsCosmeticOnly(t *testing.T) {
	spec := &docspec.Spec{Elements: []docspec.Element{
		{Type: "overlay", Label: "Unlock", URL: "https://buy.example"},
		{Type: "text", Value: "after overlay"},
	}}

	var texts []string
	var rects [][4]float64
	for _, seed := range []int64{1, 99} {
		out, err := Render(spec,
			WithRandSource(rand.New(rand.NewSource(seed))),
			WithWriterConfig(writer.Config{Deterministic: true}))
		if err != nil {
			t.Fatalf("Render failed: %v", err)
		}
		texts = append(texts, extractedText(t, out))
		ex, _ := extractor.New(out)
		annots, err := ex.ExtractAnnotations()
		if err != nil || len(annots) != 1 {
			t.Fatalf("annotations = %v, err = %v", annots, err)
		}
		rects = append(rects, annots[0].Rect)
	}

	if texts[0] != texts[1] {
		t.Fatal("bar randomness changed the text layer")
	}
	if rects[0] != rects[1] {
		t.Fatalf("bar randomness moved the overlay region: %v vs %v", rects[0], rects[1])
	}
}

func TestOverlay_RegionSpansFullPanel(t *testing.T) {
	spec := &docspec.Spec{Elements: []docspec.Element{
		{Type: "overlay", Label: "Unlock", URL: "https://buy.example"},
	}}
	out := renderBytes(t, spec)

	ex, _ := extractor.New(out)
	annots, _ := ex.ExtractAnnotations()
	if len(annots) != 1 {
		t.Fatalf("annotation count = %d, want 1", len(annots))
	}
	r := annots[0].Rect
	if math.Abs((r[2]-r[0])-(595.28-100)) > 0.01 {
		t.Fatalf("overlay region width = %v, want full content width", r[2]-r[0])
	}
	if math.Abs((r[3]-r[1])-120) > 0.01 {
		t.Fatalf("overlay region height = %v, want 120", r[3]-r[1])
	}
}

func TestText_WrapsToContentWidth(t *testing.T) {
	long := strings.Repeat("wrapping words flow across lines ", 20)
	spec := &docspec.Spec{Elements: []docspec.Element{
		{Type: "text", Value: long},
	}}
	doc := buildSpecDoc(t, spec)

	// Every Tm x origin stays inside the content area.
	for _, cs := range doc.Pages[0].Contents {
		for _, op := range cs.Operations {
			if op.Operator != "Tm" || len(op.Operands) < 6 {
				continue
			}
			x := op.Operands[4].(semantic.NumberOperand).Value
			if x < 50 || x > 595.28-50 {
				t.Fatalf("text origin %v outside content area", x)
			}
		}
	}
}

func TestSpacerAndDivider_AdvanceCursor(t *testing.T) {
	b := builder.New()
	e := NewEngine(b)
	e.ensurePage()
	startY := e.cursorY

	if err := e.renderElement(docspec.Element{Type: "spacer", Lines: 2}); err != nil {
		t.Fatalf("spacer failed: %v", err)
	}
	_, afterSpacer := e.Cursor()
	if want := startY - 2*e.lineHeightFor(e.DefaultFontSize); math.Abs(afterSpacer-want) > 0.01 {
		t.Fatalf("spacer advanced to %v, want %v", afterSpacer, want)
	}

	if err := e.renderElement(docspec.Element{Type: "divider"}); err != nil {
		t.Fatalf("divider failed: %v", err)
	}
	_, afterDivider := e.Cursor()
	if afterDivider >= afterSpacer {
		t.Fatal("divider did not advance the cursor")
	}
}

func TestHeading_LevelSizes(t *testing.T) {
	spec := &docspec.Spec{Elements: []docspec.Element{
		{Type: "heading", Level: 1, Value: "big"},
		{Type: "heading", Level: 6, Value: "small"},
	}}
	doc := buildSpecDoc(t, spec)

	var sizes []float64
	for _, cs := range doc.Pages[0].Contents {
		for _, op := range cs.Operations {
			if op.Operator == "Tf" && len(op.Operands) == 2 {
				sizes = append(sizes, op.Operands[1].(semantic.NumberOperand).Value)
			}
		}
	}
	if len(sizes) != 2 || sizes[0] != 26 || sizes[1] != 12 {
		t.Fatalf("heading sizes = %v, want [26 12]", sizes)
	}
}

func TestList_NumberedPrefixes(t *testing.T) {
	spec := &docspec.Spec{Elements: []docspec.Element{
		{Type: "list", Numbered: true, Items: []docspec.ListItem{
			{Text: "alpha"},
			{Text: "beta", Link: "https://b.example"},
		}},
	}}
	out := renderBytes(t, spec)
	text := extractedText(t, out)
	if !strings.Contains(text, "1. alpha") || !strings.Contains(text, "2. beta") {
		t.Fatalf("numbered prefixes missing: %q", text)
	}

	ex, _ := extractor.New(out)
	annots, _ := ex.ExtractAnnotations()
	if len(annots) != 1 || annots[0].URI != "https://b.example" {
		t.Fatalf("list item link not annotated: %+v", annots)
	}
}

func TestPageBreak_Unconditional(t *testing.T) {
	spec := &docspec.Spec{Elements: []docspec.Element{
		{Type: "pageBreak"},
		{Type: "pageBreak"},
		{Type: "text", Value: "x"},
	}}
	doc := buildSpecDoc(t, spec)
	if len(doc.Pages) != 3 {
		t.Fatalf("pages = %d, want 3", len(doc.Pages))
	}
}

func TestRenderSpec_HonorsMarginsAndSize(t *testing.T) {
	spec := &docspec.Spec{
		Size:     "Letter",
		Margins:  &docspec.Margins{Top: 30, Right: 40, Bottom: 30, Left: 40},
		Elements: []docspec.Element{{Type: "text", Value: "x"}},
	}
	doc := buildSpecDoc(t, spec)
	mb := doc.Pages[0].MediaBox
	if mb.Width() != 612 || mb.Height() != 792 {
		t.Fatalf("media box = %vx%v, want 612x792", mb.Width(), mb.Height())
	}
}

func TestText_IndentOffsetsAndRestoresFrame(t *testing.T) {
	spec := &docspec.Spec{Elements: []docspec.Element{
		{Type: "text", Value: "quoted", Indent: 30},
		{Type: "text", Value: "plain"},
	}}
	doc := buildSpecDoc(t, spec)

	var origins []float64
	for _, cs := range doc.Pages[0].Contents {
		for _, op := range cs.Operations {
			if op.Operator == "Tm" && len(op.Operands) >= 6 {
				origins = append(origins, op.Operands[4].(semantic.NumberOperand).Value)
			}
		}
	}
	if len(origins) != 2 {
		t.Fatalf("expected 2 text origins, got %d", len(origins))
	}
	if math.Abs(origins[0]-80) > 0.01 {
		t.Fatalf("indented text origin = %v, want 80", origins[0])
	}
	if math.Abs(origins[1]-50) > 0.01 {
		t.Fatalf("frame not restored after indented text: origin = %v, want 50", origins[1])
	}
}

func TestRect_ExplicitZeroYPaintsAtPageTop(t *testing.T) {
	y := 0.0
	spec := &docspec.Spec{Elements: []docspec.Element{
		{Type: "rect", Y: &y, Height: 40, FillColor: &docspec.Color{R: 200}},
	}}
	doc := buildSpecDoc(t, spec)

	var bottoms []float64
	for _, cs := range doc.Pages[0].Contents {
		for _, op := range cs.Operations {
			if op.Operator == "re" && len(op.Operands) >= 4 {
				bottoms = append(bottoms, op.Operands[1].(semantic.NumberOperand).Value)
			}
		}
	}
	if len(bottoms) != 1 {
		t.Fatalf("expected 1 rectangle, got %d", len(bottoms))
	}
	if want := 841.89 - 40; math.Abs(bottoms[0]-want) > 0.01 {
		t.Fatalf("rect bottom = %v, want %v (flush with the page top)", bottoms[0], want)
	}
}

func TestTable_HeaderNotOrphanedAtPageBottom(t *testing.T) {
	// Leave room for the header band but not for header plus first row:
	// 49 spacer lines put the cursor 36.29pt above the bottom margin, and a
	// default row is 22.4pt tall.
	spec := &docspec.Spec{Elements: []docspec.Element{
		{Type: "spacer", Lines: 49},
		{
			Type:    "table",
			Headers: []string{"Name", "Amount"},
			Rows:    [][]docspec.TableCell{{{Text: "a"}, {Text: "b"}}},
		},
	}}
	doc := buildSpecDoc(t, spec)

	if len(doc.Pages) != 2 {
		t.Fatalf("expected 2 pages, got %d", len(doc.Pages))
	}
	hr, hg, hb := 63.0/255, 81.0/255, 181.0/255
	if n := countFillRects(doc.Pages[0], hr, hg, hb); n != 0 {
		t.Fatalf("page 0: header fill painted %d times, want 0", n)
	}
	if n := countFillRects(doc.Pages[1], hr, hg, hb); n != 1 {
		t.Fatalf("page 1: header fill painted %d times, want 1", n)
	}
}
