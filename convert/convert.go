// Package convert turns HTML — inline markup or a fetched URL — into a
// rendered document. Pages, margins, and metadata come from Options; markup
// is mapped structurally onto document elements rather than laid out like a
// browser would.
package convert

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"docforge/builder"
	"docforge/docspec"
	"docforge/layout"
	"docforge/writer"
)

// Options configures a conversion.
type Options struct {
	// Size names the page format: A4, Letter, Legal. Default A4.
	Size    string
	Margins *docspec.Margins
	Title   string
	Author  string
	// Timeout bounds URL fetching. Zero means no timeout beyond ctx.
	Timeout time.Duration
	// PrintBackground keeps decorative rectangles in the output.
	PrintBackground bool
	// PageNumbers requests a footer stamp on every page.
	PageNumbers *docspec.PageNumbers

	// HTTPClient overrides the fetching client. Defaults to
	// http.DefaultClient.
	HTTPClient *http.Client
}

// Converter converts HTML to document bytes.
type Converter interface {
	Convert(ctx context.Context, htmlOrURL string, opts Options) ([]byte, error)
}

// New returns the built-in structural converter.
func New() Converter { return &structural{} }

type structural struct{}

func (c *structural) Convert(ctx context.Context, htmlOrURL string, opts Options) ([]byte, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	source := htmlOrURL
	if isURL(htmlOrURL) {
		fetched, err := fetch(ctx, htmlOrURL, opts)
		if err != nil {
			return nil, err
		}
		source = fetched
	}

	spec := &docspec.Spec{
		Size:        opts.Size,
		Margins:     opts.Margins,
		Meta:        docspec.Meta{Title: opts.Title, Author: opts.Author},
		PageNumbers: opts.PageNumbers,
	}
	elements, err := layout.HTMLElements(source)
	if err != nil {
		return nil, fmt.Errorf("convert: %w", err)
	}
	if !opts.PrintBackground {
		elements = dropBackgrounds(elements)
	}
	spec.Elements = elements

	b := builder.New()
	size := spec.PageSize()
	engine := layout.NewEngine(b, layout.WithPageSize(size.Width, size.Height))
	if err := engine.RenderSpec(spec); err != nil {
		return nil, fmt.Errorf("convert: %w", err)
	}
	doc, err := b.Build()
	if err != nil {
		return nil, fmt.Errorf("convert: %w", err)
	}
	return writer.Bytes(doc, writer.Config{})
}

func isURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

func fetch(ctx context.Context, url string, opts Options) (string, error) {
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("convert: building request: %w", err)
	}
	client := opts.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("convert: fetching %s: %w", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("convert: fetching %s: unexpected status %s", url, resp.Status)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("convert: reading %s: %w", url, err)
	}
	return string(body), nil
}

func dropBackgrounds(elements []docspec.Element) []docspec.Element {
	out := elements[:0]
	for _, el := range elements {
		if el.Type == "rect" && el.FillColor != nil && !el.Stroke {
			continue
		}
		out = append(out, el)
	}
	return out
}
