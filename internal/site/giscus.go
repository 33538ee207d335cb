package site

// ProviderGiscus is the only supported comment provider.
const ProviderGiscus = "giscus"

// Comments toggles the comment widget.
type Comments struct {
	Enabled  bool    `yaml:"enabled"`
	Provider string  `yaml:"provider"`
	Giscus   *Giscus `yaml:"giscus"`
}

// Giscus options are handed to the widget script untouched.
type Giscus struct {
	Repo             string `yaml:"repo"`
	RepoID           string `yaml:"repoId"`
	Category         string `yaml:"category"`
	CategoryID       string `yaml:"categoryId"`
	Mapping          string `yaml:"mapping"`
	Strict           string `yaml:"strict"`
	ReactionsEnabled string `yaml:"reactionsEnabled"`
	EmitMetadata     string `yaml:"emitMetadata"`
	InputPosition    string `yaml:"inputPosition"`
	Theme            string `yaml:"theme"`
	Lang             string `yaml:"lang"`
	Loading          string `yaml:"loading"`
}

type Attribute struct {
	Name  string
	Value string
}

// Attributes lists the data-* attributes of the giscus script tag. Empty
// options are omitted so the widget falls back to its own defaults.
func (g *Giscus) Attributes() []Attribute {
	if g == nil {
		return nil
	}
	all := []Attribute{
		{"data-repo", g.Repo},
		{"data-repo-id", g.RepoID},
		{"data-category", g.Category},
		{"data-category-id", g.CategoryID},
		{"data-mapping", g.Mapping},
		{"data-strict", g.Strict},
		{"data-reactions-enabled", g.ReactionsEnabled},
		{"data-emit-metadata", g.EmitMetadata},
		{"data-input-position", g.InputPosition},
		{"data-theme", g.Theme},
		{"data-lang", g.Lang},
		{"data-loading", g.Loading},
	}
	out := all[:0]
	for _, a := range all {
		if a.Value != "" {
			out = append(out, a)
		}
	}
	return out
}
