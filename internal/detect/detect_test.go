package detect

import (
	"reflect"
	"testing"

	"patrol/internal/catalog"
)

func fullCatalog() catalog.Catalog {
	return catalog.Catalog{Patterns: []catalog.Pattern{
		{Slug: "gateway-hardening", Title: "Bind the gateway to loopback"},
		{Slug: "cron-isolation", Title: "Run cron jobs in isolated sessions"},
		{Slug: "gateway-url-allowlist", Title: "Allowlist fetchable URLs"},
		{Slug: "hook-session-keys", Title: "Scope hook session keys"},
		{Slug: "redacted-logging", Title: "Redact secrets in logs"},
		{Slug: "browser-sandbox", Title: "Sandbox browser automation"},
	}}
}

func TestDetect_Rules(t *testing.T) {
	tests := []struct {
		name      string
		tree      map[string]any
		wantSlugs []string
	}{
		{
			name:      "empty tree fires nothing",
			tree:      map[string]any{},
			wantSlugs: []string{},
		},
		{
			name: "hardened gateway host",
			tree: map[string]any{
				"gateway": map[string]any{"host": "127.0.0.1"},
			},
			wantSlugs: []string{"gateway-hardening"},
		},
		{
			name: "wildcard gateway host does not fire",
			tree: map[string]any{
				"gateway": map[string]any{"host": "0.0.0.0"},
			},
			wantSlugs: []string{},
		},
		{
			name: "one isolated cron job is enough",
			tree: map[string]any{
				"cron": map[string]any{
					"jobs": map[string]any{
						"a": map[string]any{"isolated": true},
						"b": map[string]any{"isolated": false},
					},
				},
			},
			wantSlugs: []string{"cron-isolation"},
		},
		{
			name: "no isolated cron jobs",
			tree: map[string]any{
				"cron": map[string]any{
					"jobs": map[string]any{
						"a": map[string]any{"isolated": false},
					},
				},
			},
			wantSlugs: []string{},
		},
		{
			name: "malformed cron job entries are skipped",
			tree: map[string]any{
				"cron": map[string]any{
					"jobs": map[string]any{
						"a": "not a mapping",
						"b": map[string]any{"isolated": "yes"},
					},
				},
			},
			wantSlugs: []string{},
		},
		{
			name: "url allowlist may be empty and still count",
			tree: map[string]any{
				"gateway": map[string]any{
					"files": map[string]any{"urlAllowlist": []any{}},
				},
			},
			wantSlugs: []string{"gateway-url-allowlist"},
		},
		{
			name: "hook session key",
			tree: map[string]any{
				"hooks": map[string]any{"sessionKey": "hook:gmail"},
			},
			wantSlugs: []string{"hook-session-keys"},
		},
		{
			name: "redacted logging must be true",
			tree: map[string]any{
				"logging": map[string]any{"redactSecrets": false},
			},
			wantSlugs: []string{},
		},
		{
			name: "several patterns at once in declaration order",
			tree: map[string]any{
				"gateway": map[string]any{
					"host":  "127.0.0.1",
					"files": map[string]any{"urlAllowlist": []any{"https://example.com"}},
				},
				"logging": map[string]any{"redactSecrets": true},
				"browser": map[string]any{"sandbox": map[string]any{"enabled": true}},
			},
			wantSlugs: []string{"gateway-hardening", "gateway-url-allowlist", "redacted-logging", "browser-sandbox"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Detect(tt.tree, fullCatalog())
			gotSlugs := slugsOf(got)
			if !reflect.DeepEqual(gotSlugs, tt.wantSlugs) {
				t.Errorf("Detect() slugs = %v, want %v", gotSlugs, tt.wantSlugs)
			}
		})
	}
}

func TestDetect_UnpublishedSlugIsSkipped(t *testing.T) {
	tree := map[string]any{
		"gateway": map[string]any{"host": "127.0.0.1"},
		"logging": map[string]any{"redactSecrets": true},
	}
	// Catalog publishes only one of the two matching patterns.
	cat := catalog.Catalog{Patterns: []catalog.Pattern{
		{Slug: "redacted-logging", Title: "Redact secrets in logs"},
	}}

	got := Detect(tree, cat)
	if len(got) != 1 || got[0].Slug != "redacted-logging" {
		t.Fatalf("Detect() = %v, want only redacted-logging", got)
	}
}

func TestDetect_CarriesCatalogTitleAndprovenance(t *testing.T) {
	tree := map[string]any{
		"hooks": map[string]any{"sessionKey": "hook:calendar"},
	}

	got := Detect(tree, fullCatalog())
	if len(got) != 1 {
		t.Fatalf("Detect() returned %d results, want 1", len(got))
	}
	if got[0].Title != "Scope hook session keys" {
		t.Errorf("Title = %q, want catalog display title", got[0].Title)
	}
	if got[0].Provenance == "" {
		t.Error("Provenance is empty, want the rule explanation")
	}
}

func TestDetect_Idempotent(t *testing.T) {
	tree := map[string]any{
		"gateway": map[string]any{
			"host":  "127.0.0.1",
			"files": map[string]any{"urlAllowlist": []any{"https://example.com"}},
		},
		"cron": map[string]any{
			"jobs": map[string]any{"a": map[string]any{"isolated": true}},
		},
	}

	first := Detect(tree, fullCatalog())
	second := Detect(tree, fullCatalog())
	if !reflect.DeepEqual(first, second) {
		t.Errorf("Detect() is not idempotent: %v vs %v", first, second)
	}
}

func TestDetect_DoesNotMutateTree(t *testing.T) {
	tree := map[string]any{
		"gateway": map[string]any{"host": "127.0.0.1"},
	}
	Detect(tree, fullCatalog())

	inner := tree["gateway"].(map[string]any)
	if len(tree) != 1 || len(inner) != 1 || inner["host"] != "127.0.0.1" {
		t.Error("Detect() mutated the supplied tree")
	}
}

func slugsOf(applied []AppliedPattern) []string {
	slugs := make([]string, 0, len(applied))
	for _, a := range applied {
		slugs = append(slugs, a.Slug)
	}
	return slugs
}
