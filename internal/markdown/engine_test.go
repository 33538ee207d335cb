package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEngineConvertEmitsMermaidContainerVerbatim(t *testing.T) {
	e := New()

	res, err := e.Convert([]byte("intro\n\n```mermaid\ngraph TD; A-->B;\n```\n\noutro\n"))
	require.NoError(t, err)

	assert.Equal(t, "<p>intro</p>\n<div class=\"mermaid\">graph TD; A-->B;</div>\n<p>outro</p>\n", res.HTML)
	assert.Equal(t, 1, res.Diagrams)
}

func TestEngineConvertWithoutDiagrams(t *testing.T) {
	res, err := New().Convert([]byte("```js\nconsole.log(1)\n```\n"))
	require.NoError(t, err)

	assert.Zero(t, res.Diagrams)
	assert.Contains(t, res.HTML, `<code class="language-js">`)
	assert.NotContains(t, res.HTML, "mermaid")
}

func TestEngineHighlightingSkipsMermaid(t *testing.T) {
	e := New(WithHighlighting("github"))

	res, err := e.Convert([]byte("```go\nfunc main() {}\n```\n\n```mermaid\nflowchart LR\n```\n"))
	require.NoError(t, err)

	assert.Contains(t, res.HTML, "<div class=\"mermaid\">flowchart LR</div>")
	assert.Contains(t, res.HTML, "<pre")
	assert.Equal(t, 1, res.Diagrams)
}

func TestEngineHeadings(t *testing.T) {
	res, err := New().Convert([]byte("# Data Is Dead\n\nbody\n\n## Long Live *Value*\n"))
	require.NoError(t, err)

	require.Len(t, res.Headings, 2)
	assert.Equal(t, Heading{Level: 1, ID: "data-is-dead", Text: "Data Is Dead"}, res.Headings[0])
	assert.Equal(t, 2, res.Headings[1].Level)
	assert.Equal(t, "Long Live Value", res.Headings[1].Text)
}

func TestEngineIsReusable(t *testing.T) {
	e := New()

	first, err := e.Convert([]byte("```mermaid\nA\n```\n"))
	require.NoError(t, err)
	second, err := e.Convert([]byte("plain\n"))
	require.NoError(t, err)

	assert.Equal(t, 1, first.Diagrams)
	assert.Zero(t, second.Diagrams)
}

func TestEngineHardWraps(t *testing.T) {
	src := []byte("first\nsecond\n")

	soft, err := New().Convert(src)
	require.NoError(t, err)
	assert.Equal(t, "<p>first\nsecond</p>\n", soft.HTML)

	hard, err := New(WithHardWraps(true)).Convert(src)
	require.NoError(t, err)
	assert.Equal(t, "<p>first<br>\nsecond</p>\n", hard.HTML)
}
