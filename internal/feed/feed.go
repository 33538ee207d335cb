// Package feed builds RSS feeds from content collections.
package feed

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/gorilla/feeds"

	"github.com/PsiACE/psiace/internal/content"
	"github.com/PsiACE/psiace/internal/site"
)

var ErrSiteURL = errors.New("feed: site URL must be absolute")

// Build maps entries into a feed, keeping their order. Each item links to
// linkPrefix + entry ID + "/" resolved against siteURL.
func Build(meta site.Metadata, siteURL string, entries []*content.Entry, linkPrefix string) (*feeds.Feed, error) {
	base, err := baseURL(siteURL)
	if err != nil {
		return nil, err
	}

	f := &feeds.Feed{
		Title:       meta.Title,
		Link:        &feeds.Link{Href: base.String()},
		Description: meta.Description,
		Author:      &feeds.Author{Name: meta.Author},
		Items:       make([]*feeds.Item, 0, len(entries)),
	}

	for _, e := range entries {
		link := ItemLink(base, linkPrefix, e.ID)
		f.Items = append(f.Items, &feeds.Item{
			Title:       e.Title,
			Link:        &feeds.Link{Href: link},
			Description: e.Description,
			Id:          link,
			Created:     e.PublishDate,
			Updated:     e.UpdatedDate,
		})
		if e.PublishDate.After(f.Created) {
			f.Created = e.PublishDate
		}
	}
	return f, nil
}

// ItemLink resolves linkPrefix + id + "/" against base.
func ItemLink(base *url.URL, linkPrefix, id string) string {
	return base.ResolveReference(&url.URL{Path: linkPrefix + id + "/"}).String()
}

// Write renders f as RSS 2.0 into outputDir at the site-relative path rel.
func Write(outputDir, rel string, f *feeds.Feed) error {
	out := filepath.Join(outputDir, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(out), os.ModePerm); err != nil {
		return fmt.Errorf("failed to create directory for feed '%s': %w", out, err)
	}

	file, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("failed to create feed file '%s': %w", out, err)
	}
	defer file.Close()

	if err := f.WriteRss(file); err != nil {
		return fmt.Errorf("failed to write feed '%s': %w", out, err)
	}
	return file.Close()
}

func baseURL(siteURL string) (*url.URL, error) {
	u, err := url.Parse(siteURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSiteURL, err)
	}
	if !u.IsAbs() || u.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrSiteURL, siteURL)
	}
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	return u, nil
}
