package docspec

import (
	"testing"
)

func TestParse_FlexibleItemForms(t *testing.T) {
	data := []byte(`{
		"size": "Letter",
		"margins": {"top": 40, "right": 40, "bottom": 40, "left": 40},
		"meta": {"title": "Invoice"},
		"pageNumbers": {"prefix": "Pg "},
		"elements": [
			{"type": "list", "items": ["plain", {"text": "linked", "link": "https://a.example"}]},
			{"type": "table",
			 "headers": ["A", "B"],
			 "rows": [
				["x", "y"],
				[{"text": "z", "link": "https://b.example", "color": {"r": 200, "g": 0, "b": 0}}, null]
			 ]}
		]
	}`)

	spec, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if spec.Size != "Letter" || spec.Meta.Title != "Invoice" {
		t.Fatalf("header fields = %+v", spec)
	}
	if spec.PageNumbers == nil || spec.PageNumbers.Prefix != "Pg " {
		t.Fatalf("pageNumbers = %+v", spec.PageNumbers)
	}

	list := spec.Elements[0]
	if list.Items[0].Text != "plain" || list.Items[0].Link != "" {
		t.Fatalf("string item = %+v", list.Items[0])
	}
	if list.Items[1].Text != "linked" || list.Items[1].Link != "https://a.example" {
		t.Fatalf("object item = %+v", list.Items[1])
	}

	table := spec.Elements[1]
	if table.Rows[0][0].Text != "x" {
		t.Fatalf("string cell = %+v", table.Rows[0][0])
	}
	cell := table.Rows[1][0]
	if cell.Text != "z" || cell.Link != "https://b.example" || cell.Color == nil || cell.Color.R != 200 {
		t.Fatalf("object cell = %+v", cell)
	}
	if table.Rows[1][1].Text != "" {
		t.Fatalf("null cell = %+v, want empty", table.Rows[1][1])
	}
}

func TestParse_RejectsMalformedJSON(t *testing.T) {
	if _, err := Parse([]byte(`{"elements": [`)); err == nil {
		t.Fatal("expected error for truncated input")
	}
}

func TestPageSize_Resolution(t *testing.T) {
	cases := []struct {
		name  string
		width float64
	}{
		{"", 595.28},
		{"A4", 595.28},
		{"Letter", 612},
		{"legal", 612},
		{"Tabloid", 595.28}, // unknown falls back to A4
	}
	for _, tc := range cases {
		s := &Spec{Size: tc.name}
		if got := s.PageSize().Width; got != tc.width {
			t.Fatalf("PageSize(%q).Width = %v, want %v", tc.name, got, tc.width)
		}
	}
}

func TestParse_UnknownElementKindsSurvive(t *testing.T) {
	spec, err := Parse([]byte(`{"elements": [{"type": "teleport", "value": "x"}]}`))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if spec.Elements[0].Type != "teleport" {
		t.Fatalf("kind = %q", spec.Elements[0].Type)
	}
}
