// Package update turns "pattern not detected" into structured, reviewable
// configuration edits. Rules are declarative records evaluated in
// declaration order; each contributes an output exactly when it is
// applicable to the installed version and the config still has the gap.
// Diff payloads are opaque text for human review and are never applied by
// this code.
package update

import "patrol/internal/catalog"

// Rule describes one recommendable configuration edit.
type Rule struct {
	// Slug identifies the target pattern.
	Slug string
	// Applies gates the rule, typically on a minimum agent version and
	// sometimes on a prerequisite key being configured at all.
	Applies func(tree map[string]any, installed string) bool
	// Gap reports whether the desired shape is still missing, plus a
	// human reason that may embed facts discovered during evaluation
	// (e.g. a count of non-conforming entries).
	Gap func(tree map[string]any) (bool, string)
	// Diff is an illustrative before/after config fragment.
	Diff string
}

// ConfigUpdate is one recommended edit. Pure data; never auto-applied.
type ConfigUpdate struct {
	Title  string `json:"title"`
	Slug   string `json:"slug"`
	Reason string `json:"reason"`
	Diff   string `json:"diff"`
}

// Recommend evaluates all built-in rules against the tree.
// Output order follows rule declaration order. Rules whose slug is not
// published in the catalog are skipped; outputs are never deduplicated or
// reordered across rules, even when they touch overlapping config sections.
func Recommend(tree map[string]any, cat catalog.Catalog, installed string) []ConfigUpdate {
	return RecommendWith(Rules(), tree, cat, installed)
}

// RecommendWith evaluates an explicit rule set. Useful for testing rules
// in isolation; Recommend is the production entry point.
func RecommendWith(rules []Rule, tree map[string]any, cat catalog.Catalog, installed string) []ConfigUpdate {
	updates := make([]ConfigUpdate, 0, len(rules))
	for _, r := range rules {
		entry, published := cat.Find(r.Slug)
		if !published {
			continue
		}
		if !r.Applies(tree, installed) {
			continue
		}
		gapped, reason := r.Gap(tree)
		if !gapped {
			continue
		}
		updates = append(updates, ConfigUpdate{
			Title:  entry.Title,
			Slug:   r.Slug,
			Reason: reason,
			Diff:   r.Diff,
		})
	}
	return updates
}
