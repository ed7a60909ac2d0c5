package layout

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"docforge/docspec"
)

// RenderMarkdown parses a markdown string with goldmark and renders it
// through the regular element dispatcher: headings, paragraphs, lists,
// links, and thematic breaks map onto their document-specification kinds.
func (e *Engine) RenderMarkdown(source string) error {
	elements, err := MarkdownElements(source)
	if err != nil {
		return err
	}
	e.ensurePage()
	for _, el := range elements {
		if err := e.renderElement(el); err != nil {
			return err
		}
	}
	return nil
}

// MarkdownElements translates markdown into an element sequence.
func MarkdownElements(source string) ([]docspec.Element, error) {
	md := goldmark.New()
	src := []byte(source)
	doc := md.Parser().Parse(text.NewReader(src))
	return markdownBlocks(doc, src), nil
}

func markdownBlocks(node ast.Node, src []byte) []docspec.Element {
	var out []docspec.Element
	for child := node.FirstChild(); child != nil; child = child.NextSibling() {
		switch n := child.(type) {
		case *ast.Heading:
			out = append(out, docspec.Element{
				Type:     "heading",
				Level:    n.Level,
				Value:    string(n.Text(src)),
				MoveDown: 4,
			})
		case *ast.Paragraph:
			el := docspec.Element{Type: "text", Value: inlineText(n, src), MoveDown: 6}
			if url := firstLinkDestination(n, src); url != "" {
				el.URL = url
			}
			out = append(out, el)
		case *ast.List:
			out = append(out, markdownList(n, src))
		case *ast.ThematicBreak:
			out = append(out, docspec.Element{Type: "divider"})
		case *ast.FencedCodeBlock, *ast.CodeBlock:
			out = append(out, docspec.Element{
				Type:     "text",
				Value:    codeBlockText(child, src),
				Font:     "Courier",
				MoveDown: 6,
			})
		case *ast.Blockquote:
			for _, el := range markdownBlocks(n, src) {
				el.Indent += 15
				out = append(out, el)
			}
		}
	}
	return out
}

func markdownList(n *ast.List, src []byte) docspec.Element {
	el := docspec.Element{Type: "list", Numbered: n.IsOrdered()}
	for item := n.FirstChild(); item != nil; item = item.NextSibling() {
		li := docspec.ListItem{Text: inlineText(item, src)}
		li.Link = firstLinkDestination(item, src)
		el.Items = append(el.Items, li)
	}
	return el
}

// inlineText flattens a block's inline children to plain text, joining soft
// line breaks with spaces.
func inlineText(node ast.Node, src []byte) string {
	var sb strings.Builder
	var walk func(ast.Node)
	walk = func(n ast.Node) {
		for c := n.FirstChild(); c != nil; c = c.NextSibling() {
			if t, ok := c.(*ast.Text); ok {
				sb.Write(t.Segment.Value(src))
				if t.SoftLineBreak() || t.HardLineBreak() {
					sb.WriteByte(' ')
				}
				continue
			}
			walk(c)
		}
	}
	walk(node)
	return strings.TrimSpace(sb.String())
}

func firstLinkDestination(node ast.Node, src []byte) string {
	var url string
	var walk func(ast.Node)
	walk = func(n ast.Node) {
		for c := n.FirstChild(); c != nil && url == ""; c = c.NextSibling() {
			switch l := c.(type) {
			case *ast.Link:
				url = string(l.Destination)
			case *ast.AutoLink:
				url = string(l.URL(src))
			default:
				walk(c)
			}
		}
	}
	walk(node)
	return url
}

func codeBlockText(node ast.Node, src []byte) string {
	var sb strings.Builder
	lines := node.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		sb.Write(seg.Value(src))
	}
	return strings.TrimRight(sb.String(), "\n")
}

