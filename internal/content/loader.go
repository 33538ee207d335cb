// Package content collects markdown documents from the content directory and
// renders them into entries grouped by collection.
package content

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"io/fs"
	"math"
	"os"
	"path"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/adrg/frontmatter"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/PsiACE/psiace/internal/markdown"
)

const wordsPerMinute = 200

// dateFormats are tried in order when parsing front matter dates.
var dateFormats = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"Jan 2 2006",
	"2 Jan 2006",
}

type Options struct {
	IncludeDrafts bool
	// Workers bounds parallel rendering; zero means GOMAXPROCS.
	Workers int
	Logger  zerolog.Logger
}

type frontMatter struct {
	Title       string   `yaml:"title"`
	Description string   `yaml:"description"`
	PublishDate string   `yaml:"publishDate"`
	UpdatedDate string   `yaml:"updatedDate"`
	Tags        []string `yaml:"tags"`
	Draft       bool     `yaml:"draft"`
	Collection  string   `yaml:"collection"`
	Layout      string   `yaml:"layout"`
}

// Load walks dir for markdown files and renders each one with engine. A
// failure on any document aborts the load.
func Load(ctx context.Context, dir string, engine *markdown.Engine, opts Options) (*Set, error) {
	var paths []string
	err := filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("error accessing path '%s' during walk: %w", p, err)
		}
		if d.IsDir() || !strings.HasSuffix(strings.ToLower(d.Name()), ".md") {
			return nil
		}
		paths = append(paths, p)
		return nil
	})
	if err != nil {
		return nil, err
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	entries := make([]*Entry, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, p := range paths {
		i, p := i, p
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			e, err := loadEntry(dir, p, engine)
			if err != nil {
				return err
			}
			entries[i] = e
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	kept := entries[:0]
	for _, e := range entries {
		if e.Draft && !opts.IncludeDrafts {
			opts.Logger.Debug().Str("path", e.SourcePath).Msg("skipping draft")
			continue
		}
		opts.Logger.Debug().
			Str("collection", e.Collection).
			Str("id", e.ID).
			Int("diagrams", e.Diagrams).
			Msg("loaded entry")
		kept = append(kept, e)
	}

	return newSet(kept), nil
}

func loadEntry(root, p string, engine *markdown.Engine) (*Entry, error) {
	data, err := os.ReadFile(p)
	if err != nil {
		return nil, fmt.Errorf("failed to read file '%s': %w", p, err)
	}

	var fm frontMatter
	body, err := frontmatter.Parse(bytes.NewReader(data), &fm)
	if err != nil {
		return nil, fmt.Errorf("failed to parse front matter of '%s': %w", p, err)
	}

	res, err := engine.Convert(body)
	if err != nil {
		return nil, fmt.Errorf("failed to convert markdown for '%s': %w", p, err)
	}

	rel, err := filepath.Rel(root, p)
	if err != nil {
		return nil, fmt.Errorf("failed to get relative path for %s: %w", p, err)
	}
	collection, id := splitPath(filepath.ToSlash(rel))
	if fm.Collection != "" {
		collection = fm.Collection
	}

	e := &Entry{
		ID:          id,
		Collection:  collection,
		Title:       fm.Title,
		Description: fm.Description,
		Tags:        fm.Tags,
		Draft:       fm.Draft,
		Layout:      fm.Layout,
		HTML:        template.HTML(res.HTML),
		Headings:    res.Headings,
		Diagrams:    res.Diagrams,
		ReadingTime: readingTime(body),
		SourcePath:  p,
		Permalink:   permalink(collection, id),
	}
	if e.Title == "" {
		e.Title = titleFromID(id)
	}
	if e.PublishDate, err = parseDate(fm.PublishDate); err != nil {
		return nil, fmt.Errorf("invalid publishDate in '%s': %w", p, err)
	}
	if e.UpdatedDate, err = parseDate(fm.UpdatedDate); err != nil {
		return nil, fmt.Errorf("invalid updatedDate in '%s': %w", p, err)
	}
	return e, nil
}

// splitPath maps "posts/2024/hello.md" to ("posts", "2024/hello") and
// "posts/hello/index.md" to ("posts", "hello").
func splitPath(rel string) (collection, id string) {
	rel = strings.TrimSuffix(rel, path.Ext(rel))
	if path.Base(rel) == "index" && path.Dir(rel) != "." {
		rel = path.Dir(rel)
	}
	collection, id, found := strings.Cut(rel, "/")
	if !found {
		return DefaultCollection, rel
	}
	return collection, id
}

func permalink(collection, id string) string {
	if collection == DefaultCollection {
		return "/" + id + "/"
	}
	return "/" + collection + "/" + id + "/"
}

func titleFromID(id string) string {
	base := path.Base(id)
	base = strings.ReplaceAll(strings.ReplaceAll(base, "-", " "), "_", " ")
	return cases.Title(language.English).String(base)
}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	for _, layout := range dateFormats {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised date %q, use YYYY-MM-DD or RFC3339", s)
}

func readingTime(body []byte) int {
	words := len(strings.Fields(string(body)))
	return int(math.Max(1, math.Ceil(float64(words)/wordsPerMinute)))
}
