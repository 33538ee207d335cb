package markdown

import (
	"bytes"
	"fmt"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
)

// Result is a rendered document.
type Result struct {
	HTML     string
	Headings []Heading
	Diagrams int
}

type options struct {
	highlightStyle string
	hardWraps      bool
}

// Option configures an Engine.
type Option func(*options)

// WithHighlighting enables chroma syntax highlighting with the named style.
// An empty style leaves code blocks unhighlighted.
func WithHighlighting(style string) Option {
	return func(o *options) {
		o.highlightStyle = style
	}
}

// WithHardWraps renders soft line breaks as <br> when enabled.
func WithHardWraps(enabled bool) Option {
	return func(o *options) {
		o.hardWraps = enabled
	}
}

// Engine converts markdown documents to HTML. It holds no per-document state
// and is safe for concurrent use.
type Engine struct {
	md goldmark.Markdown
}

// New builds an Engine with GFM, automatic heading IDs and the mermaid
// extension enabled.
func New(opts ...Option) *Engine {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	exts := []goldmark.Extender{
		extension.GFM,
		Mermaid(),
	}
	if o.highlightStyle != "" {
		exts = append(exts, highlighting.NewHighlighting(
			highlighting.WithStyle(o.highlightStyle),
			highlighting.WithFormatOptions(
				chromahtml.WithLineNumbers(false),
			),
		))
	}

	rendererOptions := []renderer.Option{
		html.WithUnsafe(),
	}
	if o.hardWraps {
		rendererOptions = append(rendererOptions, html.WithHardWraps())
	}

	return &Engine{
		md: goldmark.New(
			goldmark.WithExtensions(exts...),
			goldmark.WithParserOptions(
				parser.WithAutoHeadingID(),
			),
			goldmark.WithRendererOptions(rendererOptions...),
		),
	}
}

// Convert parses and renders source. A malformed tree detected by the
// mermaid transformer aborts the conversion.
func (e *Engine) Convert(source []byte) (*Result, error) {
	pc := parser.NewContext()
	doc := e.md.Parser().Parse(text.NewReader(source), parser.WithContext(pc))
	if err := TransformError(pc); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := e.md.Renderer().Render(&buf, source, doc); err != nil {
		return nil, fmt.Errorf("render markdown: %w", err)
	}

	return &Result{
		HTML:     buf.String(),
		Headings: Headings(doc, source),
		Diagrams: DiagramCount(pc),
	}, nil
}
