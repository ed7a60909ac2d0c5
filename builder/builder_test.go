package builder

import (
	"testing"

	"docforge/ir/semantic"
)

func TestBuilder_PagesStayBufferedAndAddressable(t *testing.T) {
	b := New()
	b.NewPage(612, 792).DrawText("first", 50, 700, TextOptions{FontSize: 12})
	b.NewPage(612, 792).DrawText("second", 50, 700, TextOptions{FontSize: 12})

	if b.PageCount() != 2 {
		t.Fatalf("PageCount = %d, want 2", b.PageCount())
	}

	// Revisit the first page after the second was created.
	b.Page(0).DrawText("stamp", 50, 20, TextOptions{FontSize: 9})

	doc, err := b.Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	ops := doc.Pages[0].Contents[0].Operations
	found := false
	for _, op := range ops {
		if op.Operator == "Tj" {
			if s, ok := op.Operands[0].(semantic.StringOperand); ok && string(s.Value) == "stamp" {
				found = true
			}
		}
	}
	if !found {
		t.Fatal("late write to buffered page missing")
	}
	if doc.Pages[1].Index != 1 {
		t.Fatalf("page index = %d, want 1", doc.Pages[1].Index)
	}
}

func TestBuilder_PageOutOfRangeIsInert(t *testing.T) {
	b := New()
	b.NewPage(612, 792)
	// Must not panic or disturb real pages.
	b.Page(5).DrawText("nowhere", 0, 0, TextOptions{})
	doc, _ := b.Build()
	if len(doc.Pages) != 1 {
		t.Fatalf("pages = %d, want 1", len(doc.Pages))
	}
	if len(doc.Pages[0].Contents) != 0 {
		t.Fatal("stray content on real page")
	}
}

func TestBuilder_FontResourcesDeduplicated(t *testing.T) {
	b := New()
	p := b.NewPage(612, 792)
	p.DrawText("a", 10, 10, TextOptions{Font: "Helvetica", FontSize: 12})
	p.DrawText("b", 10, 30, TextOptions{Font: "Helvetica", FontSize: 14})
	p.DrawText("c", 10, 50, TextOptions{Font: "Times-Roman", FontSize: 12})

	doc, _ := b.Build()
	fonts := doc.Pages[0].Resources.Fonts
	if len(fonts) != 2 {
		t.Fatalf("font resources = %d, want 2", len(fonts))
	}
	for _, f := range fonts {
		if f.Subtype != "Type1" || f.Encoding != "WinAnsiEncoding" {
			t.Fatalf("unexpected font: %+v", f)
		}
		if len(f.Widths) == 0 {
			t.Fatal("font missing width table")
		}
	}
}

func TestBuilder_ColoredTextRestoresBlack(t *testing.T) {
	b := New()
	b.NewPage(612, 792).DrawText("red", 10, 10, TextOptions{
		FontSize: 12,
		Color:    Color{R: 1},
	})
	doc, _ := b.Build()
	ops := doc.Pages[0].Contents[0].Operations

	var rgValues [][]float64
	for _, op := range ops {
		if op.Operator != "rg" {
			continue
		}
		var vals []float64
		for _, o := range op.Operands {
			vals = append(vals, o.(semantic.NumberOperand).Value)
		}
		rgValues = append(rgValues, vals)
	}
	if len(rgValues) != 2 {
		t.Fatalf("rg operations = %d, want set+restore", len(rgValues))
	}
	if rgValues[1][0] != 0 || rgValues[1][1] != 0 || rgValues[1][2] != 0 {
		t.Fatalf("fill color not restored to black: %v", rgValues[1])
	}
}

func TestBuilder_AlphaRectangleUsesExtGState(t *testing.T) {
	b := New()
	b.NewPage(612, 792).DrawRectangle(10, 10, 100, 50, RectOptions{
		Fill:      true,
		FillColor: Color{R: 0.9, G: 0.9, B: 0.9},
		FillAlpha: 0.9,
	})
	doc, _ := b.Build()

	gs := doc.Pages[0].Resources.ExtGStates
	state, ok := gs["GS90"]
	if !ok {
		t.Fatalf("missing translucency state, have %v", gs)
	}
	if state.FillAlpha == nil || *state.FillAlpha != 0.9 {
		t.Fatalf("fill alpha = %v", state.FillAlpha)
	}

	found := false
	for _, op := range doc.Pages[0].Contents[0].Operations {
		if op.Operator == "gs" {
			found = true
		}
	}
	if !found {
		t.Fatal("gs operator not emitted")
	}
}

func TestBuilder_MeasureTextScalesWithSize(t *testing.T) {
	b := New()
	w12 := b.MeasureText("Hello", 12, "Helvetica")
	w24 := b.MeasureText("Hello", 24, "Helvetica")
	if w12 <= 0 {
		t.Fatalf("width = %v, want > 0", w12)
	}
	if w24 != 2*w12 {
		t.Fatalf("width at 24pt = %v, want %v", w24, 2*w12)
	}
	fixed := b.MeasureText("iii", 12, "Courier")
	wide := b.MeasureText("WWW", 12, "Courier")
	if fixed != wide {
		t.Fatal("courier is not fixed-pitch")
	}
}

func TestBuilder_DrawImageRegistersXObject(t *testing.T) {
	b := New()
	img := &semantic.Image{
		Width: 2, Height: 2,
		ColorSpace:       semantic.DeviceColorSpace{Name: "DeviceRGB"},
		BitsPerComponent: 8,
		Data:             []byte{0, 0, 0},
		Filter:           "FlateDecode",
	}
	b.NewPage(612, 792).DrawImage(img, 50, 600, 100, 100)
	doc, _ := b.Build()

	xo := doc.Pages[0].Resources.XObjects
	if len(xo) != 1 {
		t.Fatalf("xobjects = %d, want 1", len(xo))
	}
	hasDo := false
	for _, op := range doc.Pages[0].Contents[0].Operations {
		if op.Operator == "Do" {
			hasDo = true
		}
	}
	if !hasDo {
		t.Fatal("Do operator not emitted")
	}
}
