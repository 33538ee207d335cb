package markdown

import (
	"errors"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

const (
	// MermaidLanguage is the fence info token that marks a diagram block.
	MermaidLanguage = "mermaid"

	mermaidOpen  = `<div class="mermaid">`
	mermaidClose = `</div>`
)

// ErrStructuralInconsistency is matched by every *StructuralError.
var ErrStructuralInconsistency = errors.New("structural inconsistency")

// StructuralError reports a mermaid block that cannot be replaced because the
// tree around it is malformed.
type StructuralError struct {
	Line   int
	Reason string
}

func (e *StructuralError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("markdown: %s: mermaid block at line %d %s", ErrStructuralInconsistency, e.Line, e.Reason)
	}
	return fmt.Sprintf("markdown: %s: mermaid block %s", ErrStructuralInconsistency, e.Reason)
}

func (e *StructuralError) Is(target error) bool {
	return target == ErrStructuralInconsistency
}

// KindRawMarkup is the NodeKind of RawMarkup.
var KindRawMarkup = ast.NewNodeKind("RawMarkup")

// RawMarkup is a block whose payload is written to the output verbatim.
type RawMarkup struct {
	ast.BaseBlock
	Payload string
}

// NewRawMarkup returns a RawMarkup node carrying payload.
func NewRawMarkup(payload string) *RawMarkup {
	return &RawMarkup{Payload: payload}
}

// Kind implements ast.Node.
func (n *RawMarkup) Kind() ast.NodeKind {
	return KindRawMarkup
}

// IsRaw implements ast.Node.
func (n *RawMarkup) IsRaw() bool {
	return true
}

// Dump implements ast.Node.
func (n *RawMarkup) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{"Payload": n.Payload}, nil)
}

// Rewrite replaces every fenced code block whose language is exactly
// MermaidLanguage with a RawMarkup node wrapping the block's literal text in
// a mermaid container. The tree is modified in place and the number of
// replaced blocks is returned. If any matched block cannot be located in its
// parent the tree is left untouched and a *StructuralError is returned.
func Rewrite(root ast.Node, source []byte) (int, error) {
	var blocks []*ast.FencedCodeBlock

	// Collect first; swapping nodes during the walk would break its cursor.
	err := ast.Walk(root, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		cb, ok := node.(*ast.FencedCodeBlock)
		if !ok {
			return ast.WalkContinue, nil
		}
		if string(cb.Language(source)) == MermaidLanguage {
			blocks = append(blocks, cb)
		}
		return ast.WalkContinue, nil
	})
	if err != nil {
		return 0, err
	}

	if len(blocks) == 0 {
		return 0, nil
	}

	for _, cb := range blocks {
		if err := checkAttached(cb, source); err != nil {
			return 0, err
		}
	}

	for _, cb := range blocks {
		parent := cb.Parent()
		parent.ReplaceChild(parent, cb, NewRawMarkup(mermaidOpen+literal(cb, source)+mermaidClose))
	}
	return len(blocks), nil
}

func checkAttached(cb *ast.FencedCodeBlock, source []byte) error {
	parent := cb.Parent()
	if parent == nil {
		return &StructuralError{Line: line(cb, source), Reason: "has no parent"}
	}
	for c := parent.FirstChild(); c != nil; c = c.NextSibling() {
		if c == cb {
			return nil
		}
	}
	return &StructuralError{Line: line(cb, source), Reason: "is not among its parent's children"}
}

// literal returns the block content without its final line break, which may
// be CRLF.
func literal(cb *ast.FencedCodeBlock, source []byte) string {
	var b strings.Builder
	lines := cb.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		b.Write(seg.Value(source))
	}
	s := b.String()
	if trimmed, ok := strings.CutSuffix(s, "\r\n"); ok {
		return trimmed
	}
	return strings.TrimSuffix(s, "\n")
}

func line(cb *ast.FencedCodeBlock, source []byte) int {
	if cb.Info == nil {
		return 0
	}
	start := cb.Info.Segment.Start
	if start > len(source) {
		return 0
	}
	return strings.Count(string(source[:start]), "\n") + 1
}

var (
	diagramsKey   = parser.NewContextKey()
	rewriteErrKey = parser.NewContextKey()
)

// TransformError returns the error recorded by the mermaid transformer while
// parsing with pc, if any. goldmark transformers cannot return errors, so
// callers driving the parser themselves must check this before rendering.
func TransformError(pc parser.Context) error {
	if err, ok := pc.Get(rewriteErrKey).(error); ok {
		return err
	}
	return nil
}

// DiagramCount returns how many mermaid blocks were replaced while parsing
// with pc.
func DiagramCount(pc parser.Context) int {
	n, _ := pc.Get(diagramsKey).(int)
	return n
}

type mermaidTransformer struct{}

func (t *mermaidTransformer) Transform(doc *ast.Document, reader text.Reader, pc parser.Context) {
	n, err := Rewrite(doc, reader.Source())
	if err != nil {
		pc.Set(rewriteErrKey, err)
		return
	}
	pc.Set(diagramsKey, n)
}

type rawMarkupRenderer struct{}

func (r *rawMarkupRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(KindRawMarkup, r.renderRawMarkup)
}

func (r *rawMarkupRenderer) renderRawMarkup(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	n := node.(*RawMarkup)
	_, _ = w.WriteString(n.Payload)
	_ = w.WriteByte('\n')
	return ast.WalkSkipChildren, nil
}

type mermaid struct{}

// Mermaid returns the goldmark extension that rewrites mermaid fences into
// diagram containers and renders them.
func Mermaid() goldmark.Extender {
	return &mermaid{}
}

func (e *mermaid) Extend(m goldmark.Markdown) {
	m.Parser().AddOptions(parser.WithASTTransformers(
		util.Prioritized(&mermaidTransformer{}, 100),
	))
	m.Renderer().AddOptions(renderer.WithNodeRenderers(
		util.Prioritized(&rawMarkupRenderer{}, 100),
	))
}
