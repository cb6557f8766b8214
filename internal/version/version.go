// Package version compares dotted numeric version strings.
//
// Parsing is deliberately lenient: a malformed segment parses as zero
// rather than failing, so a garbled version string compares as very old.
// Misclassifying an update as inapplicable is safer than crashing an
// advisory tool.
package version

import (
	"strconv"
	"strings"
)

// Version is an ordered sequence of non-negative numeric components.
type Version []int

// Parse splits s on "." and converts each segment to an integer.
// Non-numeric or negative segments become 0. Parse never fails.
func Parse(s string) Version {
	segments := strings.Split(s, ".")
	v := make(Version, len(segments))
	for i, seg := range segments {
		n, err := strconv.Atoi(strings.TrimSpace(seg))
		if err != nil || n < 0 {
			n = 0
		}
		v[i] = n
	}
	return v
}

// Compare returns -1, 0, or 1 as a is less than, equal to, or greater
// than b. The shorter version is padded with trailing zeros, so
// "1.2" and "1.2.0" compare equal.
func Compare(a, b Version) int {
	n := len(a)
	if len(b) > n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		av, bv := 0, 0
		if i < len(a) {
			av = a[i]
		}
		if i < len(b) {
			bv = b[i]
		}
		if av != bv {
			if av < bv {
				return -1
			}
			return 1
		}
	}
	return 0
}

// IsAtLeast reports whether installed >= required.
func IsAtLeast(installed, required Version) bool {
	return Compare(installed, required) >= 0
}

// Satisfies reports whether the installed version string meets the
// required spec. A trailing "+" on the spec means "this value or any
// later value"; it documents inclusivity at the catalog level and is
// stripped before comparison. An empty spec means no minimum and is
// always satisfied.
func Satisfies(installed, requiredSpec string) bool {
	spec := strings.TrimSuffix(strings.TrimSpace(requiredSpec), "+")
	if spec == "" {
		return true
	}
	return IsAtLeast(Parse(installed), Parse(spec))
}
