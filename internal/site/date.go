package site

import (
	"strings"
	"time"

	"golang.org/x/text/language"
)

// DateFormat mirrors toLocaleDateString: a locale plus per-field styles.
type DateFormat struct {
	Locale  string      `yaml:"locale"`
	Options DateOptions `yaml:"options"`
}

// DateOptions styles: day and year take "numeric" or "2-digit"; month also
// takes "short" and "long".
type DateOptions struct {
	Day   string `yaml:"day"`
	Month string `yaml:"month"`
	Year  string `yaml:"year"`
}

var (
	dayLayouts   = map[string]string{"numeric": "2", "2-digit": "02"}
	monthLayouts = map[string]string{"numeric": "1", "2-digit": "01", "short": "Jan", "long": "January"}
	yearLayouts  = map[string]string{"numeric": "2006", "2-digit": "06"}
)

// Layout returns the time layout for the configured locale and options.
func (d DateFormat) Layout() string {
	day := dayLayouts[d.Options.Day]
	month := monthLayouts[d.Options.Month]
	year := yearLayouts[d.Options.Year]
	if day == "" && month == "" && year == "" {
		day, month, year = "2", "Jan", "2006"
	}

	monthFirst := d.monthFirst()
	textual := month == "Jan" || month == "January"

	if !textual {
		parts := []string{day, month, year}
		if monthFirst {
			parts = []string{month, day, year}
		}
		return join(parts, "/")
	}

	if !monthFirst {
		return join([]string{day, month, year}, " ")
	}

	layout := month
	if day != "" {
		layout += " " + day
		if year != "" {
			layout += ","
		}
	}
	if year != "" {
		layout += " " + year
	}
	return strings.TrimSpace(layout)
}

// Format renders t with Layout.
func (d DateFormat) Format(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(d.Layout())
}

// FormatDate renders t using the site's date settings.
func (m Metadata) FormatDate(t time.Time) string {
	return m.Date.Format(t)
}

func (d DateFormat) monthFirst() bool {
	tag, err := language.Parse(d.Locale)
	if err != nil {
		return false
	}
	region, _ := tag.Region()
	switch region.String() {
	case "US", "PH", "FM", "MH":
		return true
	}
	return false
}

func join(parts []string, sep string) string {
	var kept []string
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}
