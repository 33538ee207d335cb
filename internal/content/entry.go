package content

import (
	"html/template"
	"sort"
	"time"

	"github.com/PsiACE/psiace/internal/markdown"
)

// DefaultCollection holds documents placed directly in the content root.
const DefaultCollection = "page"

// Entry is a single rendered document (post, slide deck, page).
type Entry struct {
	ID          string
	Collection  string
	Title       string
	Description string
	PublishDate time.Time
	UpdatedDate time.Time
	Tags        []string
	Draft       bool
	Layout      string

	HTML        template.HTML
	Headings    []markdown.Heading
	Diagrams    int
	ReadingTime int

	SourcePath string
	Permalink  string
}

// Set is the loaded content, newest first.
type Set struct {
	entries      []*Entry
	byCollection map[string][]*Entry
}

func newSet(entries []*Entry) *Set {
	sortEntries(entries)
	s := &Set{
		entries:      entries,
		byCollection: make(map[string][]*Entry),
	}
	for _, e := range entries {
		s.byCollection[e.Collection] = append(s.byCollection[e.Collection], e)
	}
	return s
}

// All returns every entry.
func (s *Set) All() []*Entry {
	return s.entries
}

// Collection returns the entries of one collection.
func (s *Set) Collection(name string) []*Entry {
	return s.byCollection[name]
}

// Collections returns the collection names in lexical order.
func (s *Set) Collections() []string {
	names := make([]string, 0, len(s.byCollection))
	for name := range s.byCollection {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Lookup finds an entry by collection and ID.
func (s *Set) Lookup(collection, id string) (*Entry, bool) {
	for _, e := range s.byCollection[collection] {
		if e.ID == id {
			return e, true
		}
	}
	return nil, false
}

// sortEntries orders by publish date descending; undated entries go last
// ordered by source path.
func sortEntries(entries []*Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		switch {
		case a.PublishDate.IsZero() && b.PublishDate.IsZero():
			return a.SourcePath < b.SourcePath
		case a.PublishDate.IsZero():
			return false
		case b.PublishDate.IsZero():
			return true
		case a.PublishDate.Equal(b.PublishDate):
			return a.SourcePath < b.SourcePath
		}
		return a.PublishDate.After(b.PublishDate)
	})
}
