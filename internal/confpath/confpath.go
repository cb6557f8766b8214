// Package confpath resolves dot-delimited paths into untyped config trees.
// Lookups never fail: a missing key, a scalar where a mapping was expected,
// or an empty path segment all resolve to an absent value.
package confpath

import "strings"

// Kind classifies the outcome of a path lookup.
// A present null is distinguishable from an absent key.
type Kind int

const (
	// Absent means a path segment was missing or traversal hit a non-mapping.
	Absent Kind = iota
	// Null means the path resolved to an explicit null leaf.
	Null
	// Present means the path resolved to a non-null value
	// (which may still be false, zero, or an empty collection).
	Present
)

// Value is the result of a path lookup.
type Value struct {
	kind Kind
	val  any
}

// Kind returns the lookup outcome classification.
func (v Value) Kind() Kind { return v.kind }

// Raw returns the resolved value. It is nil unless Kind is Present.
func (v Value) Raw() any { return v.val }

// IsPresent reports whether the path resolved to a non-null value.
func (v Value) IsPresent() bool { return v.kind == Present }

// Bool returns the resolved value as a bool.
// Non-bool and non-present values return false.
func (v Value) Bool() bool {
	b, ok := v.val.(bool)
	return v.kind == Present && ok && b
}

// String returns the resolved value as a string, or "" if it is not one.
func (v Value) String() string {
	s, _ := v.val.(string)
	return s
}

// Map returns the resolved value as a string-keyed mapping, or nil.
func (v Value) Map() map[string]any {
	m, _ := v.val.(map[string]any)
	return m
}

// Lookup descends through tree following the dot-delimited path and returns
// the resolved value. Traversal is case-sensitive and exact-match; there is
// no wildcard or index syntax. Every intermediate segment must resolve to a
// string-keyed mapping, otherwise the result is Absent.
func Lookup(tree map[string]any, path string) Value {
	segments := strings.Split(path, ".")

	var current any = tree
	for _, seg := range segments {
		if seg == "" {
			return Value{kind: Absent}
		}
		node, ok := current.(map[string]any)
		if !ok {
			return Value{kind: Absent}
		}
		next, ok := node[seg]
		if !ok {
			return Value{kind: Absent}
		}
		current = next
	}

	if current == nil {
		return Value{kind: Null}
	}
	return Value{kind: Present, val: current}
}

// Exists reports whether path resolves to a present, non-null value.
// It is true exactly when Lookup returns a Present value.
func Exists(tree map[string]any, path string) bool {
	return Lookup(tree, path).IsPresent()
}
