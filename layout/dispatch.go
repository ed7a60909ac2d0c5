package layout

import (
	"strings"
	"time"

	"docforge/builder"
	"docforge/docspec"
	"docforge/ir/semantic"
	"docforge/observability"
)

// renderElement routes one element to its renderer. Unknown kinds are
// skipped without error so newer documents keep rendering on older engines.
func (e *Engine) renderElement(el docspec.Element) error {
	e.ensurePage()
	switch el.Type {
	case "text":
		return e.renderText(el)
	case "heading":
		return e.renderHeading(el)
	case "link":
		return e.renderLink(el)
	case "stealthLink":
		return e.renderStealthLink(el)
	case "list":
		return e.renderList(el)
	case "table":
		return e.renderTable(el)
	case "image":
		return e.renderImage(el)
	case "divider":
		return e.renderDivider(el)
	case "spacer":
		return e.renderSpacer(el)
	case "rect":
		return e.renderRect(el)
	case "columns":
		return e.renderColumns(el)
	case "overlay":
		return e.renderOverlay(el)
	case "pageBreak":
		e.newPage()
		return nil
	default:
		e.log.Debug("skipping unknown element kind", observability.String("kind", el.Type))
		return nil
	}
}

func metaInfo(meta docspec.Meta) *semantic.DocumentInfo {
	if meta == (docspec.Meta{}) {
		return nil
	}
	return &semantic.DocumentInfo{
		Title:        meta.Title,
		Author:       meta.Author,
		Subject:      meta.Subject,
		Creator:      meta.Creator,
		CreationDate: time.Time{},
	}
}

// specColor converts a 0-255 spec color to builder coordinates. nil means
// unset and maps to the zero Color (black).
func specColor(c *docspec.Color) builder.Color {
	if c == nil {
		return builder.Color{}
	}
	return builder.Color{
		R: float64(c.R) / 255,
		G: float64(c.G) / 255,
		B: float64(c.B) / 255,
	}
}

func normalizeAlign(align string) string {
	switch strings.ToLower(align) {
	case "center", "centre":
		return "center"
	case "right":
		return "right"
	default:
		return "left"
	}
}
