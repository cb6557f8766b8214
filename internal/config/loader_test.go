package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadTree_JSON(t *testing.T) {
	path := writeTemp(t, "agent.json", `{"gateway": {"host": "0.0.0.0", "port": 18789}}`)

	tree, err := LoadTree(path)
	if err != nil {
		t.Fatalf("LoadTree() error = %v", err)
	}

	gw, ok := tree["gateway"].(map[string]any)
	if !ok {
		t.Fatalf("gateway is %T, want map[string]any", tree["gateway"])
	}
	if gw["host"] != "0.0.0.0" {
		t.Errorf("host = %v, want 0.0.0.0", gw["host"])
	}
}

func TestLoadTree_YAML(t *testing.T) {
	path := writeTemp(t, "agent.yaml", "cron:\n  jobs:\n    backup:\n      isolated: true\n")

	tree, err := LoadTree(path)
	if err != nil {
		t.Fatalf("LoadTree() error = %v", err)
	}
	cron, _ := tree["cron"].(map[string]any)
	if cron == nil {
		t.Fatal("cron section missing")
	}
}

func TestLoadTree_EmptyDocument(t *testing.T) {
	path := writeTemp(t, "agent.yaml", "")

	tree, err := LoadTree(path)
	if err != nil {
		t.Fatalf("LoadTree() error = %v", err)
	}
	if tree == nil || len(tree) != 0 {
		t.Errorf("tree = %v, want empty non-nil tree", tree)
	}
}

func TestLoadTree_Missing(t *testing.T) {
	_, err := LoadTree(filepath.Join(t.TempDir(), "nope.json"))
	if !os.IsNotExist(err) {
		t.Errorf("error = %v, want not-exist", err)
	}
}

func TestLoadTree_Malformed(t *testing.T) {
	path := writeTemp(t, "agent.json", `{"gateway": [unclosed`)

	_, err := LoadTree(path)
	if err == nil {
		t.Error("LoadTree() = nil error for malformed document")
	}
}
