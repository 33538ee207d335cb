// Package render generates the HTML pages of the site from layouts.
package render

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"html"
	"html/template"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/PsiACE/psiace/internal/content"
	"github.com/PsiACE/psiace/internal/site"
)

const (
	baseLayout  = "base.html"
	homeLayout  = "home.html"
	aboutLayout = "about.html"
	listLayout  = "list.html"
	entryLayout = "entry.html"

	recentEntries  = 5
	postCollection = "posts"
)

var pageLayouts = []string{homeLayout, aboutLayout, listLayout, entryLayout}

// ErrPermalinkCollision is returned when two pages would be written to the
// same path.
var ErrPermalinkCollision = errors.New("permalink collision")

//go:embed layouts
var defaultLayouts embed.FS

// Renderer writes pages for a site.
type Renderer struct {
	site  *site.Config
	pages map[string]*template.Template
	log   zerolog.Logger
}

type positionList struct {
	Heading string
	Items   []site.Position
}

// pageData is passed to every layout.
type pageData struct {
	Site        *site.Config
	Path        string
	Title       string
	Description string
	Header      *site.PageHeader
	Entry       *content.Entry
	Entries     []*content.Entry
	Comments    *site.Giscus
	Diagrams    bool
	Feeds       []site.FeedConfig
}

// New parses layouts from layoutsDir, or the built-in layouts when the
// directory does not exist.
func New(layoutsDir string, cfg *site.Config, log zerolog.Logger) (*Renderer, error) {
	fsys, err := layoutsFS(layoutsDir, log)
	if err != nil {
		return nil, err
	}

	r := &Renderer{site: cfg, log: log}
	r.pages, err = parseLayouts(fsys, r.funcs())
	if err != nil {
		return nil, err
	}
	return r, nil
}

func layoutsFS(dir string, log zerolog.Logger) (fs.FS, error) {
	if dir != "" {
		info, err := os.Stat(dir)
		switch {
		case err == nil && info.IsDir():
			log.Debug().Str("dir", dir).Msg("using layouts directory")
			return os.DirFS(dir), nil
		case err != nil && !os.IsNotExist(err):
			return nil, fmt.Errorf("failed to stat layouts directory '%s': %w", dir, err)
		}
	}
	log.Debug().Msg("using built-in layouts")
	return fs.Sub(defaultLayouts, "layouts")
}

// parseLayouts parses base.html with the partials, then clones that set once
// per page layout so each page can define its own "content" block. Any other
// top-level *.html file becomes a layout entries can select in front matter.
func parseLayouts(fsys fs.FS, funcs template.FuncMap) (map[string]*template.Template, error) {
	base, err := template.New(baseLayout).Funcs(funcs).ParseFS(fsys, baseLayout)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", baseLayout, err)
	}

	partials, err := fs.Glob(fsys, "partials/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to list partials: %w", err)
	}
	if len(partials) > 0 {
		if base, err = base.ParseFS(fsys, partials...); err != nil {
			return nil, fmt.Errorf("failed to parse partials: %w", err)
		}
	}

	extra, err := fs.Glob(fsys, "*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to list layouts: %w", err)
	}
	names := slices.Clone(pageLayouts)
	for _, name := range extra {
		if name != baseLayout && !slices.Contains(pageLayouts, name) {
			names = append(names, name)
		}
	}

	pages := make(map[string]*template.Template, len(names))
	for _, name := range names {
		clone, err := base.Clone()
		if err != nil {
			return nil, fmt.Errorf("failed to clone base layout for %s: %w", name, err)
		}
		if pages[name], err = clone.ParseFS(fsys, name); err != nil {
			return nil, fmt.Errorf("failed to parse layout %s: %w", name, err)
		}
	}
	return pages, nil
}

func (r *Renderer) funcs() template.FuncMap {
	return template.FuncMap{
		"formatDate":  r.site.Metadata.FormatDate,
		"giscusAttrs": giscusAttrs,
		"positions": func(heading string, items []site.Position) positionList {
			return positionList{Heading: heading, Items: items}
		},
	}
}

// giscusAttrs renders the widget options as script tag attributes.
func giscusAttrs(g *site.Giscus) template.HTMLAttr {
	var b strings.Builder
	for i, a := range g.Attributes() {
		if i > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, `%s="%s"`, a.Name, html.EscapeString(a.Value))
	}
	return template.HTMLAttr(b.String())
}

// RenderSite writes the home, about, collection listing and entry pages into
// outputDir. Nothing is written when two pages share a permalink.
func (r *Renderer) RenderSite(outputDir string, set *content.Set) error {
	if err := checkPermalinks(set); err != nil {
		return err
	}
	if err := r.renderHome(outputDir, set); err != nil {
		return err
	}
	if err := r.renderAbout(outputDir, set); err != nil {
		return err
	}

	for _, collection := range set.Collections() {
		entries := set.Collection(collection)
		if collection != content.DefaultCollection {
			if err := r.renderList(outputDir, collection, entries); err != nil {
				return err
			}
		}
		for _, e := range entries {
			if isAboutEntry(e) {
				continue
			}
			if err := r.renderEntry(outputDir, e); err != nil {
				return err
			}
		}
	}
	return nil
}

// isAboutEntry reports whether e is merged into the about page rather than
// rendered on its own.
func isAboutEntry(e *content.Entry) bool {
	return e.Collection == content.DefaultCollection && e.ID == "about"
}

func checkPermalinks(set *content.Set) error {
	owners := map[string]string{
		"/":       "home page",
		"/about/": "about page",
	}
	claim := func(path, owner string) error {
		if prev, ok := owners[path]; ok {
			return fmt.Errorf("%w: %s and %s both render to %s", ErrPermalinkCollision, prev, owner, path)
		}
		owners[path] = owner
		return nil
	}

	for _, collection := range set.Collections() {
		if collection == content.DefaultCollection {
			continue
		}
		if err := claim("/"+collection+"/", "the "+collection+" list page"); err != nil {
			return err
		}
	}
	for _, e := range set.All() {
		if isAboutEntry(e) {
			continue
		}
		if err := claim(e.Permalink, e.SourcePath); err != nil {
			return err
		}
	}
	return nil
}

func (r *Renderer) newPage(path string) pageData {
	data := pageData{Site: r.site, Path: path}
	if r.site.Custom.Features.EnableRSS {
		data.Feeds = r.site.Feeds
	}
	return data
}

func (r *Renderer) header(key string) *site.PageHeader {
	if h, ok := r.site.Custom.PageHeader(key); ok {
		return &h
	}
	return nil
}

func (r *Renderer) renderHome(outputDir string, set *content.Set) error {
	data := r.newPage("/")
	data.Header = r.header("home")
	data.Entries = set.Collection(postCollection)
	if len(data.Entries) > recentEntries {
		data.Entries = data.Entries[:recentEntries]
	}
	return r.writePage(outputDir, "/", homeLayout, data)
}

func (r *Renderer) renderAbout(outputDir string, set *content.Set) error {
	data := r.newPage("/about/")
	data.Header = r.header("about")
	data.Title = "About"
	if data.Header != nil && data.Header.Title != "" {
		data.Title = data.Header.Title
	}
	if e, ok := set.Lookup(content.DefaultCollection, "about"); ok {
		data.Entry = e
		data.Diagrams = e.Diagrams > 0
	}
	return r.writePage(outputDir, "/about/", aboutLayout, data)
}

func (r *Renderer) renderList(outputDir, collection string, entries []*content.Entry) error {
	path := "/" + collection + "/"
	data := r.newPage(path)
	data.Header = r.header(collection)
	data.Title = titleFor(collection, data.Header)
	data.Entries = entries
	return r.writePage(outputDir, path, listLayout, data)
}

func (r *Renderer) renderEntry(outputDir string, e *content.Entry) error {
	data := r.newPage(e.Permalink)
	data.Title = e.Title
	data.Description = e.Description
	data.Entry = e
	data.Diagrams = e.Diagrams > 0
	data.Comments = r.site.Giscus()
	return r.writePage(outputDir, e.Permalink, r.entryLayout(e), data)
}

// entryLayout returns the layout named in the entry's front matter, or
// entry.html when none is set or the named one does not exist.
func (r *Renderer) entryLayout(e *content.Entry) string {
	if e.Layout == "" {
		return entryLayout
	}
	if _, ok := r.pages[e.Layout]; !ok {
		r.log.Warn().
			Str("layout", e.Layout).
			Str("path", e.SourcePath).
			Msgf("front matter layout not found, using %s", entryLayout)
		return entryLayout
	}
	return e.Layout
}

func titleFor(collection string, h *site.PageHeader) string {
	if h != nil && h.Title != "" {
		return h.Title
	}
	if collection == postCollection {
		return "Blog"
	}
	return cases.Title(language.English).String(collection)
}

// writePage renders layout into <outputDir>/<path>/index.html.
func (r *Renderer) writePage(outputDir, path, layout string, data pageData) error {
	tmpl, ok := r.pages[layout]
	if !ok {
		return fmt.Errorf("layout '%s' not found", layout)
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, baseLayout, data); err != nil {
		return fmt.Errorf("failed to execute template '%s' for '%s': %w", layout, path, err)
	}

	outDir := filepath.Join(outputDir, filepath.FromSlash(strings.Trim(path, "/")))
	if err := os.MkdirAll(outDir, os.ModePerm); err != nil {
		return fmt.Errorf("failed to create directory '%s': %w", outDir, err)
	}
	outPath := filepath.Join(outDir, "index.html")
	if err := os.WriteFile(outPath, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write '%s': %w", outPath, err)
	}
	r.log.Debug().Str("path", outPath).Str("layout", layout).Msg("generated page")
	return nil
}
