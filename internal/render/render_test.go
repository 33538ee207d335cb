package render

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PsiACE/psiace/internal/content"
	"github.com/PsiACE/psiace/internal/markdown"
	"github.com/PsiACE/psiace/internal/site"
)

func loadFixture(t *testing.T) *content.Set {
	t.Helper()
	return loadContent(t, map[string]string{
		"posts/diagrams.md": "---\ntitle: Diagrams\npublishDate: 2024-01-02\n---\n## Flow\n\n```mermaid\ngraph TD; A-->B;\n```\n",
		"posts/plain.md":    "---\ntitle: Plain\npublishDate: 2023-06-01\n---\nJust text.\n",
		"slides/talk.md":    "---\ntitle: Talk\ndescription: Conference talk\npublishDate: 2023-11-20\n---\nSlides.\n",
		"about.md":          "Extra about text.\n",
	})
}

func loadContent(t *testing.T, files map[string]string) *content.Set {
	t.Helper()
	root := t.TempDir()
	for rel, body := range files {
		p := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	}

	set, err := content.Load(context.Background(), root, markdown.New(), content.Options{})
	require.NoError(t, err)
	return set
}

func readPage(t *testing.T, out string, parts ...string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(append([]string{out}, append(parts, "index.html")...)...))
	require.NoError(t, err)
	return string(data)
}

func TestRenderSiteWithBuiltInLayouts(t *testing.T) {
	set := loadFixture(t)
	out := t.TempDir()

	r, err := New(filepath.Join(t.TempDir(), "missing"), site.Default(), zerolog.Nop())
	require.NoError(t, err)
	require.NoError(t, r.RenderSite(out, set))

	home := readPage(t, out)
	assert.Contains(t, home, "Hey, World!")
	assert.Contains(t, home, `href="https://github.com/psiace"`)
	assert.Contains(t, home, `<a href="/posts/diagrams/">Diagrams</a>`)
	assert.Contains(t, home, "2 Jan 2024")
	assert.Contains(t, home, `href="/slides/rss.xml"`)
	assert.NotContains(t, home, "mermaid.initialize")

	about := readPage(t, out, "about")
	assert.Contains(t, about, "Hi, I&#39;m Chojan Shang.")
	assert.Contains(t, about, "Extra about text.")
	assert.Contains(t, about, `<p class="current">Currently GenAI Team Member at Vesoft Inc. (NebulaGraph).</p>`)
	assert.Contains(t, about, "Huazhong Agricultural University")
	assert.Contains(t, about, "RiteRaft")

	post := readPage(t, out, "posts", "diagrams")
	assert.Contains(t, post, `<div class="mermaid">graph TD; A-->B;</div>`)
	assert.Contains(t, post, "mermaid.initialize")
	assert.Contains(t, post, `<a href="#flow">Flow</a>`)
	assert.Contains(t, post, "1 min read")
	assert.Contains(t, post, `data-repo="PsiACE/psiace"`)
	assert.Contains(t, post, `data-theme="preferred_color_scheme"`)

	plain := readPage(t, out, "posts", "plain")
	assert.NotContains(t, plain, "mermaid.initialize")

	list := readPage(t, out, "posts")
	assert.Contains(t, list, "Diagrams")
	assert.Contains(t, list, "Plain")

	slides := readPage(t, out, "slides")
	assert.Contains(t, slides, "Conference talk")
	assert.Contains(t, readPage(t, out, "slides", "talk"), "<h1>Talk</h1>")
}

func TestRenderHonoursFeatureFlags(t *testing.T) {
	set := loadFixture(t)
	out := t.TempDir()

	cfg := site.Default()
	cfg.Custom.Comments.Enabled = false
	cfg.Custom.Features.EnableTOC = false
	cfg.Custom.Features.EnableReadingTime = false
	cfg.Custom.Features.EnableRSS = false

	r, err := New("", cfg, zerolog.Nop())
	require.NoError(t, err)
	require.NoError(t, r.RenderSite(out, set))

	post := readPage(t, out, "posts", "diagrams")
	assert.NotContains(t, post, "giscus")
	assert.NotContains(t, post, `class="toc"`)
	assert.NotContains(t, post, "min read")
	assert.NotContains(t, post, "application/rss+xml")
}

func TestRenderCustomLayoutsDir(t *testing.T) {
	dir := t.TempDir()
	layouts := map[string]string{
		"base.html":  `{{block "content" .}}{{end}}`,
		"home.html":  `{{define "content"}}HOME {{len .Entries}}{{end}}`,
		"about.html": `{{define "content"}}ABOUT{{end}}`,
		"list.html":  `{{define "content"}}LIST {{.Title}}{{end}}`,
		"entry.html": `{{define "content"}}ENTRY {{.Entry.Title}}{{end}}`,
	}
	for name, body := range layouts {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
	}

	out := t.TempDir()
	r, err := New(dir, site.Default(), zerolog.Nop())
	require.NoError(t, err)
	require.NoError(t, r.RenderSite(out, loadFixture(t)))

	assert.Equal(t, "HOME 2", readPage(t, out))
	assert.Equal(t, "LIST Blog", readPage(t, out, "posts"))
	assert.Equal(t, "LIST Slides", readPage(t, out, "slides"))
	assert.Equal(t, "ENTRY Talk", readPage(t, out, "slides", "talk"))
}

func TestNewFailsOnMissingLayout(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "base.html"), []byte(`{{block "content" .}}{{end}}`), 0o644))

	_, err := New(dir, site.Default(), zerolog.Nop())
	assert.Error(t, err)
}

func TestGiscusAttrs(t *testing.T) {
	attrs := giscusAttrs(&site.Giscus{Repo: "a/b", Category: `Q"A`})
	assert.Equal(t, `data-repo="a/b" data-category="Q&#34;A"`, string(attrs))
}

func writeLayouts(t *testing.T, layouts map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, body := range layouts {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
	}
	return dir
}

func TestRenderEntryFrontMatterLayout(t *testing.T) {
	dir := writeLayouts(t, map[string]string{
		"base.html":   `{{block "content" .}}{{end}}`,
		"home.html":   `{{define "content"}}HOME{{end}}`,
		"about.html":  `{{define "content"}}ABOUT{{end}}`,
		"list.html":   `{{define "content"}}LIST{{end}}`,
		"entry.html":  `{{define "content"}}ENTRY {{.Entry.Title}}{{end}}`,
		"slides.html": `{{define "content"}}DECK {{.Entry.Title}}{{end}}`,
	})
	set := loadContent(t, map[string]string{
		"slides/deck.md":  "---\ntitle: Deck\nlayout: slides.html\n---\nx\n",
		"slides/other.md": "---\ntitle: Other\nlayout: missing.html\n---\nx\n",
		"posts/plain.md":  "---\ntitle: Plain\n---\nx\n",
	})

	out := t.TempDir()
	r, err := New(dir, site.Default(), zerolog.Nop())
	require.NoError(t, err)
	require.NoError(t, r.RenderSite(out, set))

	assert.Equal(t, "DECK Deck", readPage(t, out, "slides", "deck"))
	assert.Equal(t, "ENTRY Other", readPage(t, out, "slides", "other"))
	assert.Equal(t, "ENTRY Plain", readPage(t, out, "posts", "plain"))
}

func TestRenderListTitleForMultibyteCollection(t *testing.T) {
	set := loadContent(t, map[string]string{
		"笔记/a.md":     "---\ntitle: A\n---\nx\n",
		"érudit/b.md": "---\ntitle: B\n---\nx\n",
	})

	out := t.TempDir()
	r, err := New("", site.Default(), zerolog.Nop())
	require.NoError(t, err)
	require.NoError(t, r.RenderSite(out, set))

	notes := readPage(t, out, "笔记")
	assert.True(t, utf8.ValidString(notes))
	assert.Contains(t, notes, "<title>笔记")

	assert.Equal(t, "笔记", titleFor("笔记", nil))
	assert.Equal(t, "Érudit", titleFor("érudit", nil))
	assert.Equal(t, "Slides", titleFor("slides", nil))
	assert.Equal(t, "Blog", titleFor("posts", nil))
}

func TestRenderRejectsPermalinkCollisions(t *testing.T) {
	cases := []struct {
		name  string
		files map[string]string
	}{
		{"page shadows list", map[string]string{
			"posts.md":   "x\n",
			"posts/a.md": "x\n",
		}},
		{"index page shadows list", map[string]string{
			"posts/index.md": "x\n",
			"posts/a.md":     "x\n",
		}},
		{"file and directory entry", map[string]string{
			"slides/talk.md":       "x\n",
			"slides/talk/index.md": "x\n",
		}},
		{"collection named about", map[string]string{
			"about/a.md": "x\n",
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			out := t.TempDir()
			r, err := New("", site.Default(), zerolog.Nop())
			require.NoError(t, err)

			err = r.RenderSite(out, loadContent(t, tc.files))
			assert.ErrorIs(t, err, ErrPermalinkCollision)
			assert.NoFileExists(t, filepath.Join(out, "index.html"))
		})
	}
}
