// Package engine composes pattern detection and update recommendation into
// a single evaluation over a fully-materialized config tree, catalog, and
// agent version. Evaluation is a pure function: no I/O, no retained state,
// and no failure modes beyond what the inputs already are.
package engine

import (
	"patrol/internal/catalog"
	"patrol/internal/detect"
	"patrol/internal/update"
)

// Report is the complete result of one compliance evaluation.
type Report struct {
	Applied []detect.AppliedPattern `json:"applied"`
	Updates []update.ConfigUpdate   `json:"updates"`
}

// Compliant reports whether the evaluation produced no recommendations.
func (r Report) Compliant() bool { return len(r.Updates) == 0 }

// Evaluate audits the tree against the published catalog for the installed
// agent version. It is safe to call with an empty tree and an empty
// catalog, which yields an empty report. Output order is stable across
// calls for identical inputs.
func Evaluate(tree map[string]any, cat catalog.Catalog, installed string) Report {
	return Report{
		Applied: detect.Detect(tree, cat),
		Updates: update.Recommend(tree, cat, installed),
	}
}
