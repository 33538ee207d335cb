package site

import (
	"errors"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"golang.org/x/text/language"
)

var dateStyles = []interface{}{"", "numeric", "2-digit"}

func (c Config) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Metadata),
		validation.Field(&c.Menu),
		validation.Field(&c.Custom),
		validation.Field(&c.Feeds),
	)
}

func (m Metadata) Validate() error {
	return validation.ValidateStruct(&m,
		validation.Field(&m.Author, validation.Required),
		validation.Field(&m.Title, validation.Required),
		validation.Field(&m.Lang, validation.Required, validation.By(languageTag)),
		validation.Field(&m.Date),
	)
}

func (d DateFormat) Validate() error {
	return validation.ValidateStruct(&d,
		validation.Field(&d.Locale, validation.By(languageTag)),
		validation.Field(&d.Options),
	)
}

func (o DateOptions) Validate() error {
	return validation.ValidateStruct(&o,
		validation.Field(&o.Day, validation.In(dateStyles...)),
		validation.Field(&o.Month, validation.In(append(dateStyles, "short", "long")...)),
		validation.Field(&o.Year, validation.In(dateStyles...)),
	)
}

func (l MenuLink) Validate() error {
	return validation.ValidateStruct(&l,
		validation.Field(&l.Title, validation.Required),
		validation.Field(&l.Path, validation.Required, validation.By(sitePath)),
	)
}

func (c Custom) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Comments),
		validation.Field(&c.SocialLinks),
	)
}

func (c Comments) Validate() error {
	active := c.Enabled && c.Provider == ProviderGiscus
	return validation.ValidateStruct(&c,
		validation.Field(&c.Provider, validation.When(c.Enabled, validation.Required, validation.In(ProviderGiscus))),
		validation.Field(&c.Giscus, validation.Skip.When(!active), validation.Required),
	)
}

func (g Giscus) Validate() error {
	return validation.ValidateStruct(&g,
		validation.Field(&g.Repo, validation.Required),
		validation.Field(&g.RepoID, validation.Required),
		validation.Field(&g.Category, validation.Required),
		validation.Field(&g.CategoryID, validation.Required),
	)
}

func (s SocialLink) Validate() error {
	return validation.ValidateStruct(&s,
		validation.Field(&s.Name, validation.Required),
		validation.Field(&s.Link, validation.Required),
	)
}

func (f FeedConfig) Validate() error {
	return validation.ValidateStruct(&f,
		validation.Field(&f.Collection, validation.Required),
		validation.Field(&f.Path, validation.Required, validation.By(relativePath)),
	)
}

func languageTag(value interface{}) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}
	if _, err := language.Parse(s); err != nil {
		return errors.New("must be a valid BCP 47 language tag")
	}
	return nil
}

func sitePath(value interface{}) error {
	s, _ := value.(string)
	if s != "" && !strings.HasPrefix(s, "/") {
		return errors.New("must start with /")
	}
	return nil
}

func relativePath(value interface{}) error {
	s, _ := value.(string)
	if strings.HasPrefix(s, "/") || strings.Contains(s, "..") {
		return errors.New("must be a site-relative path")
	}
	return nil
}
