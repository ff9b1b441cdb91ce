// Package category defines the closed-set content category catalog and a
// keyword-based classifier for inferring a category from free text.
package category

import "strings"

// Slug is a closed-set content category identifier.
type Slug string

// The full category catalog, in display order.
const (
	Science    Slug = "science"
	History    Slug = "history"
	Arts       Slug = "arts"
	Sports     Slug = "sports"
	Nature     Slug = "nature"
	Technology Slug = "technology"
	Culture    Slug = "culture"
	Travel     Slug = "travel"
)

// Slugs lists all known categories in display order.
var Slugs = []Slug{Science, History, Arts, Sports, Nature, Technology, Culture, Travel}

// labels maps each slug to its display label.
var labels = map[Slug]string{
	Science:    "Science",
	History:    "History",
	Arts:       "Arts",
	Sports:     "Sports",
	Nature:     "Nature",
	Technology: "Technology",
	Culture:    "Culture",
	Travel:     "Travel",
}

// IsSlug reports whether value is a known category slug.
func IsSlug(value string) bool {
	_, ok := labels[Slug(value)]
	return ok
}

// Label returns the display label for a category slug. Unknown slugs are
// returned unchanged.
func Label(slug Slug) string {
	if label, ok := labels[slug]; ok {
		return label
	}
	return string(slug)
}

// Normalize maps a raw user value (slug or display label, any casing) to a
// catalog slug. It returns "" when the value matches nothing.
func Normalize(value string) Slug {
	trimmed := strings.ToLower(strings.TrimSpace(value))
	if trimmed == "" {
		return ""
	}
	if IsSlug(trimmed) {
		return Slug(trimmed)
	}
	for slug, label := range labels {
		if strings.ToLower(label) == trimmed {
			return slug
		}
	}
	return ""
}

// MuseumLabel derives a museum display name from a category value, e.g.
// "technology" becomes "Technology Museum". An empty category yields the
// generic "Memory Museum".
func MuseumLabel(categoryValue string) string {
	trimmed := strings.TrimSpace(categoryValue)
	if trimmed == "" {
		return "Memory Museum"
	}
	spaced := strings.NewReplacer("-", " ", "_", " ").Replace(trimmed)
	return strings.ToUpper(spaced[:1]) + spaced[1:] + " Museum"
}
