// Command docforge renders a document specification to PDF. The input is a
// JSON specification, a JavaScript program producing one, a markdown file,
// or an HTML file or URL, selected by flag.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"docforge/convert"
	"docforge/docspec"
	"docforge/layout"
	"docforge/observability"
	"docforge/scripting"
	"docforge/writer"
)

type options struct {
	specPath string
	jsPath   string
	mdPath   string
	htmlSrc  string

	outPath  string
	size     string
	compress bool
	verbose  bool
	timeout  time.Duration
	title    string
	author   string
	pages    bool
}

func main() {
	opts, err := parseFlags()
	if err != nil {
		fmt.Fprintf(os.Stderr, "docforge: %v\n", err)
		os.Exit(2)
	}
	if err := run(opts); err != nil {
		fmt.Fprintf(os.Stderr, "docforge: %v\n", err)
		os.Exit(1)
	}
}

func parseFlags() (options, error) {
	var opts options
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: docforge [flags]\n")
		flag.PrintDefaults()
	}
	flag.StringVar(&opts.specPath, "spec", "", "JSON document specification file")
	flag.StringVar(&opts.jsPath, "js", "", "JavaScript program producing a specification")
	flag.StringVar(&opts.mdPath, "md", "", "Markdown input file")
	flag.StringVar(&opts.htmlSrc, "html", "", "HTML input file or http(s) URL")
	flag.StringVar(&opts.outPath, "o", "out.pdf", "Output file")
	flag.StringVar(&opts.size, "size", "", "Page size: A4, Letter, Legal")
	flag.BoolVar(&opts.compress, "compress", false, "Deflate content streams")
	flag.BoolVar(&opts.verbose, "v", false, "Verbose logging to stderr")
	flag.DurationVar(&opts.timeout, "timeout", 30*time.Second, "Script and fetch timeout")
	flag.StringVar(&opts.title, "title", "", "Document title metadata")
	flag.StringVar(&opts.author, "author", "", "Document author metadata")
	flag.BoolVar(&opts.pages, "pages", false, "Stamp a page-number footer on every page")
	flag.Parse()

	inputs := 0
	for _, p := range []string{opts.specPath, opts.jsPath, opts.mdPath, opts.htmlSrc} {
		if p != "" {
			inputs++
		}
	}
	if inputs != 1 {
		flag.Usage()
		return options{}, fmt.Errorf("exactly one of -spec, -js, -md, -html is required")
	}
	return opts, nil
}

func run(opts options) error {
	log := observability.Logger(observability.NopLogger{})
	if opts.verbose {
		log = observability.NewWriterLogger(os.Stderr, observability.LevelDebug)
	}
	wcfg := writer.Config{}
	if opts.compress {
		wcfg.ContentFilter = writer.FilterFlate
	}

	var out []byte
	var err error
	switch {
	case opts.specPath != "":
		out, err = renderSpecFile(opts, log, wcfg)
	case opts.jsPath != "":
		out, err = renderScript(opts, log, wcfg)
	case opts.mdPath != "":
		out, err = renderMarkdown(opts, log, wcfg)
	case opts.htmlSrc != "":
		out, err = renderHTML(opts)
	}
	if err != nil {
		return err
	}
	if err := os.WriteFile(opts.outPath, out, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", opts.outPath, err)
	}
	log.Info("wrote output",
		observability.String("path", opts.outPath),
		observability.Int("bytes", len(out)))
	return nil
}

func renderSpecFile(opts options, log observability.Logger, wcfg writer.Config) ([]byte, error) {
	data, err := os.ReadFile(opts.specPath)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", opts.specPath, err)
	}
	spec, err := docspec.Parse(data)
	if err != nil {
		return nil, err
	}
	applyOverrides(spec, opts)
	return layout.Render(spec,
		layout.WithLogger(log),
		layout.WithWriterConfig(wcfg))
}

func renderScript(opts options, log observability.Logger, wcfg writer.Config) ([]byte, error) {
	program, err := os.ReadFile(opts.jsPath)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", opts.jsPath, err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), opts.timeout)
	defer cancel()
	spec, err := scripting.NewEngine().EvaluateSpec(ctx, string(program))
	if err != nil {
		return nil, err
	}
	applyOverrides(spec, opts)
	return layout.Render(spec,
		layout.WithLogger(log),
		layout.WithWriterConfig(wcfg))
}

func renderMarkdown(opts options, log observability.Logger, wcfg writer.Config) ([]byte, error) {
	source, err := os.ReadFile(opts.mdPath)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", opts.mdPath, err)
	}
	elements, err := layout.MarkdownElements(string(source))
	if err != nil {
		return nil, err
	}
	spec := &docspec.Spec{Size: opts.size, Elements: elements}
	applyOverrides(spec, opts)
	return layout.Render(spec,
		layout.WithLogger(log),
		layout.WithWriterConfig(wcfg))
}

func renderHTML(opts options) ([]byte, error) {
	source := opts.htmlSrc
	if !strings.HasPrefix(source, "http://") && !strings.HasPrefix(source, "https://") {
		data, err := os.ReadFile(source)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", source, err)
		}
		source = string(data)
	}
	ctx, cancel := context.WithTimeout(context.Background(), opts.timeout)
	defer cancel()
	conv := convert.Options{
		Size:    opts.size,
		Title:   opts.title,
		Author:  opts.author,
		Timeout: opts.timeout,
	}
	if opts.pages {
		conv.PageNumbers = &docspec.PageNumbers{}
	}
	return convert.New().Convert(ctx, source, conv)
}

func applyOverrides(spec *docspec.Spec, opts options) {
	if opts.size != "" {
		spec.Size = opts.size
	}
	if opts.title != "" {
		spec.Meta.Title = opts.title
	}
	if opts.author != "" {
		spec.Meta.Author = opts.author
	}
	if opts.pages && spec.PageNumbers == nil {
		spec.PageNumbers = &docspec.PageNumbers{}
	}
}

