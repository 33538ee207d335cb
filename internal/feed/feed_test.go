package feed

import (
	"encoding/xml"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PsiACE/psiace/internal/content"
	"github.com/PsiACE/psiace/internal/site"
)

func slides() []*content.Entry {
	return []*content.Entry{
		{
			ID:          "data-is-dead",
			Collection:  "slides",
			Title:       "Data Is Dead",
			Description: "Long live value",
			PublishDate: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			ID:          "opendal-intro",
			Collection:  "slides",
			Title:       "OpenDAL",
			Description: "Unified data access",
			PublishDate: time.Date(2023, 7, 9, 0, 0, 0, 0, time.UTC),
		},
	}
}

func TestBuild(t *testing.T) {
	meta := site.Default().Metadata

	f, err := Build(meta, "https://psiace.me", slides(), "slides/")
	require.NoError(t, err)

	assert.Equal(t, meta.Title, f.Title)
	assert.Equal(t, meta.Description, f.Description)
	assert.Equal(t, "https://psiace.me/", f.Link.Href)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), f.Created)

	require.Len(t, f.Items, 2)
	assert.Equal(t, "Data Is Dead", f.Items[0].Title)
	assert.Equal(t, "https://psiace.me/slides/data-is-dead/", f.Items[0].Link.Href)
	assert.Equal(t, "Long live value", f.Items[0].Description)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), f.Items[0].Created)
	assert.Equal(t, "OpenDAL", f.Items[1].Title)
	assert.Equal(t, "https://psiace.me/slides/opendal-intro/", f.Items[1].Link.Href)
}

func TestBuildKeepsSubpath(t *testing.T) {
	f, err := Build(site.Default().Metadata, "https://example.com/blog", slides()[:1], "slides/")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/blog/slides/data-is-dead/", f.Items[0].Link.Href)
}

func TestBuildRejectsRelativeSite(t *testing.T) {
	for _, u := range []string{"", "/relative", "psiace.me"} {
		_, err := Build(site.Default().Metadata, u, slides(), "slides/")
		assert.ErrorIs(t, err, ErrSiteURL, u)
	}
}

func TestBuildEmpty(t *testing.T) {
	f, err := Build(site.Default().Metadata, "https://psiace.me/", nil, "slides/")
	require.NoError(t, err)
	assert.Empty(t, f.Items)
}

type rssDoc struct {
	Channel struct {
		Title string `xml:"title"`
		Items []struct {
			Title string `xml:"title"`
			Link  string `xml:"link"`
		} `xml:"item"`
	} `xml:"channel"`
}

func TestWrite(t *testing.T) {
	out := t.TempDir()
	f, err := Build(site.Default().Metadata, "https://psiace.me/", slides(), "slides/")
	require.NoError(t, err)

	require.NoError(t, Write(out, "slides/rss.xml", f))

	data, err := os.ReadFile(filepath.Join(out, "slides", "rss.xml"))
	require.NoError(t, err)

	var doc rssDoc
	require.NoError(t, xml.Unmarshal(data, &doc))
	assert.Equal(t, "Data Is Dead, Long Live Value.", doc.Channel.Title)
	require.Len(t, doc.Channel.Items, 2)
	assert.Equal(t, "https://psiace.me/slides/data-is-dead/", doc.Channel.Items[0].Link)
	assert.Equal(t, "https://psiace.me/slides/opendal-intro/", doc.Channel.Items[1].Link)
}
