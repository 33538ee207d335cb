package markdown

import (
	"strings"

	"github.com/yuin/goldmark/ast"
)

// Heading is a table of contents entry.
type Heading struct {
	Level int
	ID    string
	Text  string
}

// Headings lists the document's headings in order.
func Headings(doc ast.Node, source []byte) []Heading {
	var out []Heading
	_ = ast.Walk(doc, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		h, ok := node.(*ast.Heading)
		if !ok {
			return ast.WalkContinue, nil
		}

		var id string
		if v, ok := h.AttributeString("id"); ok {
			if b, ok := v.([]byte); ok {
				id = string(b)
			}
		}
		out = append(out, Heading{
			Level: h.Level,
			ID:    id,
			Text:  plainText(h, source),
		})
		return ast.WalkSkipChildren, nil
	})
	return out
}

func plainText(n ast.Node, source []byte) string {
	var b strings.Builder
	_ = ast.Walk(n, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch t := node.(type) {
		case *ast.Text:
			b.Write(t.Segment.Value(source))
			if t.SoftLineBreak() {
				b.WriteByte(' ')
			}
		case *ast.String:
			b.Write(t.Value)
		}
		return ast.WalkContinue, nil
	})
	return strings.TrimSpace(b.String())
}
