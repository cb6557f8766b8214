package history

import (
	"fmt"
	"strings"
)

// Delta describes how compliance moved between two audit runs.
type Delta struct {
	Changed      bool     `json:"changed"`
	NewlyApplied []string `json:"newlyApplied"` // patterns applied now but not before
	Regressed    []string `json:"regressed"`    // patterns applied before but not now
	NewGaps      []string `json:"newGaps"`      // updates recommended now but not before
	ResolvedGaps []string `json:"resolvedGaps"` // updates recommended before but not now
}

// Diff compares the previous run against the current one.
// Slug order within each bucket follows the current (or, for removals,
// the previous) run's report order.
func Diff(prev, cur Entry) Delta {
	d := Delta{
		NewlyApplied: missingFrom(prev.Applied, cur.Applied),
		Regressed:    missingFrom(cur.Applied, prev.Applied),
		NewGaps:      missingFrom(prev.Gaps, cur.Gaps),
		ResolvedGaps: missingFrom(cur.Gaps, prev.Gaps),
	}
	d.Changed = len(d.NewlyApplied)+len(d.Regressed)+len(d.NewGaps)+len(d.ResolvedGaps) > 0
	return d
}

// missingFrom returns the elements of candidates not present in base,
// preserving candidate order.
func missingFrom(base, candidates []string) []string {
	seen := make(map[string]bool, len(base))
	for _, s := range base {
		seen[s] = true
	}
	out := []string{}
	for _, s := range candidates {
		if !seen[s] {
			out = append(out, s)
		}
	}
	return out
}

// FormatCLI renders the delta for terminal output.
// Returns "" when nothing changed.
func FormatCLI(d Delta) string {
	if !d.Changed {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("Changes since last audit:\n")
	for _, slug := range d.NewlyApplied {
		sb.WriteString(fmt.Sprintf("  + %s: now applied\n", slug))
	}
	for _, slug := range d.Regressed {
		sb.WriteString(fmt.Sprintf("  - %s: no longer applied\n", slug))
	}
	for _, slug := range d.NewGaps {
		sb.WriteString(fmt.Sprintf("  ~ %s: new gap\n", slug))
	}
	for _, slug := range d.ResolvedGaps {
		sb.WriteString(fmt.Sprintf("  ~ %s: gap resolved\n", slug))
	}
	return sb.String()
}
