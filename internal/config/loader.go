// Package config loads the agent's configuration file into the untyped
// tree the compliance engine evaluates. The engine itself never reads
// files; failures here degrade to an empty tree so an audit can still run.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadTree reads and parses the config file at path into an untyped tree.
// YAML is a superset of JSON, so both config formats parse the same way.
// The returned tree is nil only alongside a non-nil error; callers that
// want the graceful-degradation behavior should fall back to EmptyTree.
func LoadTree(path string) (map[string]any, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var tree map[string]any
	if err := yaml.Unmarshal(content, &tree); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if tree == nil {
		// An empty document parses to nil; normalize to an empty tree.
		tree = map[string]any{}
	}
	return tree, nil
}

// EmptyTree returns the tree used when the config source is missing or
// unreadable: the audit still runs and reports every gap as open.
func EmptyTree() map[string]any {
	return map[string]any{}
}
