// Package detect proves which published patterns are already reflected in
// an agent's configuration. Rules are declarative records evaluated in
// declaration order by a generic runner; each rule is a pure predicate over
// the config tree and never mutates it.
package detect

import "patrol/internal/catalog"

// Rule maps a configuration shape to the pattern it proves.
type Rule struct {
	Slug        string // Pattern identifier this rule proves
	Explanation string // Why the predicate fired, shown as provenance
	Match       func(tree map[string]any) bool
}

// AppliedPattern reports one pattern already satisfied by the config.
type AppliedPattern struct {
	Title      string `json:"title"`
	Slug       string `json:"slug"`
	Provenance string `json:"provenance"`
}

// Detect evaluates all built-in rules against the tree.
// Output order follows rule declaration order; rules whose slug is not
// published in the catalog are silently skipped, since the catalog is the
// source of truth for what is currently published.
func Detect(tree map[string]any, cat catalog.Catalog) []AppliedPattern {
	return DetectWith(Rules(), tree, cat)
}

// DetectWith evaluates an explicit rule set. Useful for testing rules in
// isolation; Detect is the production entry point.
func DetectWith(rules []Rule, tree map[string]any, cat catalog.Catalog) []AppliedPattern {
	applied := make([]AppliedPattern, 0, len(rules))
	for _, r := range rules {
		if !r.Match(tree) {
			continue
		}
		entry, published := cat.Find(r.Slug)
		if !published {
			continue
		}
		applied = append(applied, AppliedPattern{
			Title:      entry.Title,
			Slug:       r.Slug,
			Provenance: r.Explanation,
		})
	}
	return applied
}
