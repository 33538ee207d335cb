// Package site holds the site-wide data consumed by page rendering and feed
// generation: metadata, navigation, profile tables and comment widget options.
package site

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"
)

// Config is the full site data file.
type Config struct {
	Metadata Metadata     `yaml:"site"`
	Menu     []MenuLink   `yaml:"menu"`
	Custom   Custom       `yaml:"custom"`
	Feeds    []FeedConfig `yaml:"feeds"`
}

// Metadata describes the site as a whole.
type Metadata struct {
	Author      string        `yaml:"author"`
	Title       string        `yaml:"title"`
	Description string        `yaml:"description"`
	Lang        string        `yaml:"lang"`
	OGLocale    string        `yaml:"ogLocale"`
	Date        DateFormat    `yaml:"date"`
	Comments    CommentWidget `yaml:"comments"`
}

// CommentWidget carries the widget options attached to the site metadata.
type CommentWidget struct {
	Giscus *Giscus `yaml:"giscus"`
}

type MenuLink struct {
	Title string `yaml:"title"`
	Path  string `yaml:"path"`
}

// Custom holds the profile data layered on top of the base theme.
type Custom struct {
	Comments    Comments              `yaml:"comments"`
	SocialLinks []SocialLink          `yaml:"socialLinks"`
	Experience  []Position            `yaml:"experience"`
	Education   []Position            `yaml:"education"`
	Projects    []Position            `yaml:"projects"`
	Features    Features              `yaml:"features"`
	PageHeaders map[string]PageHeader `yaml:"pageHeaders"`
}

type SocialLink struct {
	Name         string `yaml:"name"`
	FriendlyName string `yaml:"friendlyName"`
	Link         string `yaml:"link"`
	Icon         string `yaml:"icon"`
}

// Position is an entry of the experience, education or projects tables.
type Position struct {
	Title           string `yaml:"title"`
	Organization    string `yaml:"organization"`
	OrganizationURL string `yaml:"organizationUrl"`
	Description     string `yaml:"description"`
	Period          string `yaml:"period"`
	Current         bool   `yaml:"current"`
}

type Features struct {
	EnableReadingTime bool `yaml:"enableReadingTime"`
	EnableTOC         bool `yaml:"enableTOC"`
	EnableSearch      bool `yaml:"enableSearch"`
	EnableRSS         bool `yaml:"enableRSS"`
}

type PageHeader struct {
	Title           string `yaml:"title"`
	Subtitle        string `yaml:"subtitle"`
	Description     string `yaml:"description"`
	ShowSocialLinks bool   `yaml:"showSocialLinks"`
}

// FeedConfig binds a content collection to an RSS file.
type FeedConfig struct {
	Collection string `yaml:"collection"`
	Path       string `yaml:"path"`
	LinkPrefix string `yaml:"linkPrefix"`
}

// Load reads a YAML site file on top of Default.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading site file %s: %w", path, err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling site file %s: %w", path, err)
	}
	return cfg, nil
}

// PageHeader looks up the header for a page key.
func (c Custom) PageHeader(key string) (PageHeader, bool) {
	h, ok := c.PageHeaders[key]
	return h, ok
}

// CurrentExperience returns the positions flagged as current.
func (c Custom) CurrentExperience() []Position {
	var out []Position
	for _, p := range c.Experience {
		if p.Current {
			out = append(out, p)
		}
	}
	return out
}

// Giscus returns the widget options to embed, or nil when comments are off.
// The custom comments block wins over the one in the site metadata.
func (c *Config) Giscus() *Giscus {
	if !c.Custom.Comments.Enabled {
		return nil
	}
	if c.Custom.Comments.Giscus != nil {
		return c.Custom.Comments.Giscus
	}
	return c.Metadata.Comments.Giscus
}

// Feed returns the feed configured for a collection.
func (c *Config) Feed(collection string) (FeedConfig, bool) {
	for _, f := range c.Feeds {
		if f.Collection == collection {
			return f, true
		}
	}
	return FeedConfig{}, false
}
