// Package catalog models the published best-practice pattern catalog and
// its collaborators: a YAML/JSON parser, a disk cache, and an HTTP fetcher.
// The compliance engine itself only ever sees an already-materialized
// Catalog value.
package catalog

// Pattern is one immutable catalog entry describing a published
// best-practice configuration shape.
type Pattern struct {
	Slug       string `json:"slug" yaml:"slug"`
	Title      string `json:"title" yaml:"title"`
	MinVersion string `json:"minimumVersion,omitempty" yaml:"minimumVersion,omitempty"` // empty means no minimum
	Category   string `json:"category,omitempty" yaml:"category,omitempty"`
}

// Catalog is a read-only ordered sequence of patterns keyed by slug.
// Slug uniqueness is the supplier's responsibility, not validated here.
type Catalog struct {
	Patterns []Pattern
}

// Find returns the first pattern with the given slug.
func (c Catalog) Find(slug string) (Pattern, bool) {
	for _, p := range c.Patterns {
		if p.Slug == slug {
			return p, true
		}
	}
	return Pattern{}, false
}

// Len returns the number of published patterns.
func (c Catalog) Len() int { return len(c.Patterns) }
