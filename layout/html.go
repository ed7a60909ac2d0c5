package layout

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"docforge/docspec"
)

// RenderHTML parses an HTML fragment and renders it through the regular
// element dispatcher. This is a structural mapping (headings, paragraphs,
// lists, tables, links, rules, images), not a browser-grade layout.
func (e *Engine) RenderHTML(source string) error {
	elements, err := HTMLElements(source)
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

// HTMLElements translates an HTML document or fragment into an element
// sequence.
func HTMLElements(source string) ([]docspec.Element, error) {
	doc, err := html.Parse(strings.NewReader(source))
	if err != nil {
		return nil, fmt.Errorf("parsing html: %w", err)
	}
	var out []docspec.Element
	walkHTML(doc, &out)
	return out, nil
}

func walkHTML(n *html.Node, out *[]docspec.Element) {
	if n.Type == html.ElementNode {
		switch n.DataAtom {
		case atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6:
			level := int(n.Data[1] - '0')
			*out = append(*out, docspec.Element{
				Type:     "heading",
				Level:    level,
				Value:    htmlText(n),
				MoveDown: 4,
			})
			return
		case atom.P:
			el := docspec.Element{Type: "text", Value: htmlText(n), MoveDown: 6}
			if a := findAnchor(n); a != nil {
				el.URL = attrValue(a, "href")
			}
			*out = append(*out, el)
			return
		case atom.A:
			*out = append(*out, docspec.Element{
				Type:  "link",
				Value: htmlText(n),
				URL:   attrValue(n, "href"),
			})
			return
		case atom.Ul, atom.Ol:
			*out = append(*out, htmlList(n))
			return
		case atom.Table:
			*out = append(*out, htmlTable(n))
			return
		case atom.Hr:
			*out = append(*out, docspec.Element{Type: "divider"})
			return
		case atom.Img:
			if src := attrValue(n, "src"); src != "" {
				*out = append(*out, docspec.Element{Type: "image", Src: src})
			}
			return
		case atom.Br:
			*out = append(*out, docspec.Element{Type: "spacer", Lines: 1})
			return
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walkHTML(c, out)
	}
}

func htmlList(n *html.Node) docspec.Element {
	el := docspec.Element{Type: "list", Numbered: n.DataAtom == atom.Ol}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.DataAtom != atom.Li {
			continue
		}
		item := docspec.ListItem{Text: htmlText(c)}
		if a := findAnchor(c); a != nil {
			item.Link = attrValue(a, "href")
		}
		el.Items = append(el.Items, item)
	}
	return el
}

func htmlTable(n *html.Node) docspec.Element {
	el := docspec.Element{Type: "table"}
	var visit func(*html.Node)
	visit = func(n *html.Node) {
		if n.Type == html.ElementNode && n.DataAtom == atom.Tr {
			var headers []string
			var row []docspec.TableCell
			isHeader := false
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				switch c.DataAtom {
				case atom.Th:
					isHeader = true
					headers = append(headers, htmlText(c))
				case atom.Td:
					cell := docspec.TableCell{Text: htmlText(c)}
					if a := findAnchor(c); a != nil {
						cell.Link = attrValue(a, "href")
					}
					row = append(row, cell)
				}
			}
			if isHeader && el.Headers == nil {
				el.Headers = headers
			} else if len(row) > 0 {
				el.Rows = append(el.Rows, row)
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			visit(c)
		}
	}
	visit(n)
	return el
}

func htmlText(n *html.Node) string {
	var sb strings.Builder
	var f func(*html.Node)
	f = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			f(c)
		}
	}
	f(n)
	return strings.Join(strings.Fields(sb.String()), " ")
}

func findAnchor(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == atom.A {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if a := findAnchor(c); a != nil {
			return a
		}
	}
	return nil
}

func attrValue(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}
