// Command patrol audits an agent's configuration against a catalog of
// versioned best-practice patterns, reporting which patterns are already
// satisfied and what configuration edits would close the remaining gaps.
// It never applies an edit itself.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fatih/color"

	"patrol/internal/catalog"
	"patrol/internal/cli"
	"patrol/internal/config"
	"patrol/internal/confpath"
	"patrol/internal/engine"
	"patrol/internal/history"
	"patrol/internal/report"
	"patrol/internal/watch"
)

// defaultCatalogURL is where the published pattern catalog lives when no
// --catalog or --catalog-url override is given.
const defaultCatalogURL = "https://patterns.patrol.dev/catalog.yaml"

// defaultConfigFile is the agent config audited when --config is not given.
const defaultConfigFile = "agent.json"

// Exit codes:
//
//	0 - configuration satisfies every applicable published pattern
//	1 - usage or internal error
//	2 - recommendations were produced
//	3 - no catalog could be obtained
const (
	exitOK            = 0
	exitError         = 1
	exitUpdates       = 2
	exitNoCatalog     = 3
	watchDebounceTime = 300 * time.Millisecond
)

func main() {
	os.Exit(run(os.Args[1:], os.Environ(), os.Stdout, os.Stderr))
}

// run orchestrates the full execution flow and returns an exit code.
// It is separated from main() to enable testing.
func run(args, environ []string, stdout, stderr io.Writer) int {
	cmd, err := cli.ParseArgs(args)
	if err != nil {
		fmt.Fprintln(stderr, "Error:", err)
		return exitError
	}

	ciMode := cmd.CIMode || getEnvBool(environ, "PATROL_CI") || getEnvBool(environ, "CI")
	if cmd.NoColor || ciMode || cmd.JSONOutput {
		color.NoColor = true
	}

	switch cmd.Subcommand {
	case cli.SubcommandCheck:
		return runCheck(cmd, environ, ciMode, stdout, stderr)
	case cli.SubcommandCatalog:
		return runCatalog(cmd, environ, stdout, stderr)
	case cli.SubcommandHistory:
		return runHistory(cmd, environ, stdout, stderr)
	case cli.SubcommandWatch:
		return runWatch(cmd, environ, ciMode, stdout, stderr)
	}
	return exitError
}

// runCheck performs one audit: load config, obtain catalog, evaluate,
// render, and optionally persist the artifact and history entry.
func runCheck(cmd cli.Command, environ []string, ciMode bool, stdout, stderr io.Writer) int {
	tree := loadTree(cmd, environ, stderr)

	cat, ok := resolveCatalog(cmd, environ, stderr)
	if !ok {
		return exitNoCatalog
	}

	installed := resolveAgentVersion(cmd, environ, tree, stderr)

	result := engine.Evaluate(tree, cat, installed)
	art := report.New(result, installed, time.Now())

	if code := emitArtifact(cmd, art, stdout, stderr); code != exitOK {
		return code
	}

	switch {
	case cmd.JSONOutput:
		out, err := report.FormatJSON(art)
		if err != nil {
			fmt.Fprintf(stderr, "Error: cannot format report: %v\n", err)
			return exitError
		}
		fmt.Fprintln(stdout, out)
	case ciMode:
		fmt.Fprint(stdout, report.FormatCI(art))
	default:
		fmt.Fprint(stdout, report.FormatCLI(art))
	}

	if cmd.Save {
		if code := saveHistory(cmd, environ, art, cmd.JSONOutput, stdout, stderr); code != exitOK {
			return code
		}
	}

	if !result.Compliant() {
		return exitUpdates
	}
	return exitOK
}

// loadTree reads the agent config, degrading to an empty tree when the
// source is missing or malformed so the audit still runs.
func loadTree(cmd cli.Command, environ []string, stderr io.Writer) map[string]any {
	path := cmd.ConfigPath
	if path == "" {
		path = getEnv(environ, "PATROL_CONFIG")
	}
	if path == "" {
		path = defaultConfigFile
	}

	tree, err := config.LoadTree(path)
	if err != nil {
		fmt.Fprintf(stderr, "warning: config %s unreadable (%v); auditing an empty tree\n", path, err)
		return config.EmptyTree()
	}
	return tree
}

// resolveCatalog obtains the pattern catalog: an explicit file wins, then
// a fresh cache, then a network fetch, then a stale cache as a last resort.
func resolveCatalog(cmd cli.Command, environ []string, stderr io.Writer) (catalog.Catalog, bool) {
	if cmd.CatalogPath != "" {
		cat, err := catalog.LoadFromPath(cmd.CatalogPath)
		if err != nil {
			fmt.Fprintf(stderr, "catalog file unusable: %v\n", err)
			return catalog.Catalog{}, false
		}
		return cat, true
	}

	store := catalog.NewStore(homeDir(cmd, environ))
	cached, cacheErr := store.Load()
	now := time.Now()

	if cacheErr == nil && cached.Fresh(now, cmd.MaxAge) {
		return cached.Catalog(), true
	}

	if cmd.Offline {
		if cacheErr == nil {
			fmt.Fprintln(stderr, "warning: offline with a stale catalog cache; results may lag the published catalog")
			return cached.Catalog(), true
		}
		fmt.Fprintln(stderr, "no cached catalog and --offline given")
		return catalog.Catalog{}, false
	}

	url := cmd.CatalogURL
	if url == "" {
		url = getEnv(environ, "PATROL_CATALOG_URL")
	}
	if url == "" {
		url = defaultCatalogURL
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cat, err := catalog.NewFetcher().Fetch(ctx, url)
	if err != nil {
		if cacheErr == nil {
			fmt.Fprintf(stderr, "warning: catalog fetch failed (%v); using stale cache\n", err)
			return cached.Catalog(), true
		}
		fmt.Fprintf(stderr, "catalog unavailable: %v\n", err)
		return catalog.Catalog{}, false
	}

	if err := store.Save(catalog.Cached{FetchedAt: now, Source: url, Patterns: cat.Patterns}); err != nil {
		fmt.Fprintf(stderr, "warning: could not cache catalog: %v\n", err)
	}
	return cat, true
}

// resolveAgentVersion picks the installed agent version from the flag, the
// environment, or the config tree itself, in that order.
func resolveAgentVersion(cmd cli.Command, environ []string, tree map[string]any, stderr io.Writer) string {
	if cmd.AgentVersion != "" {
		return cmd.AgentVersion
	}
	if v := getEnv(environ, "PATROL_AGENT_VERSION"); v != "" {
		return v
	}
	if v := confpath.Lookup(tree, "meta.agentVersion").String(); v != "" {
		return v
	}
	fmt.Fprintln(stderr, "warning: agent version unknown; version-gated patterns will not be recommended")
	return "0.0.0"
}

// emitArtifact writes the artifact JSON to a file and/or stdout if asked.
func emitArtifact(cmd cli.Command, art report.Artifact, stdout, stderr io.Writer) int {
	if cmd.ArtifactFile == "" && !cmd.ArtifactStdout {
		return exitOK
	}

	data, err := art.ToJSON()
	if err != nil {
		fmt.Fprintf(stderr, "Error: cannot serialize artifact: %v\n", err)
		return exitError
	}

	if cmd.ArtifactFile != "" {
		if err := os.WriteFile(cmd.ArtifactFile, data, 0644); err != nil {
			fmt.Fprintf(stderr, "Error: cannot write artifact: %v\n", err)
			return exitError
		}
	}
	if cmd.ArtifactStdout {
		fmt.Fprintln(stdout, string(data))
	}
	return exitOK
}

// saveHistory records the run and prints the delta against the previous one.
func saveHistory(cmd cli.Command, environ []string, art report.Artifact, quiet bool, stdout, stderr io.Writer) int {
	store := history.NewStore(historyDir(cmd, environ))

	prev, err := store.Latest()
	havePrev := err == nil
	if err != nil && !errors.Is(err, history.ErrNoHistory) {
		fmt.Fprintf(stderr, "Error: cannot read history: %v\n", err)
		return exitError
	}

	entry := history.EntryFrom(art)
	if err := store.Save(entry); err != nil {
		fmt.Fprintf(stderr, "Error: cannot save history: %v\n", err)
		return exitError
	}

	if havePrev && !quiet {
		if out := history.FormatCLI(history.Diff(prev, entry)); out != "" {
			fmt.Fprint(stdout, "\n"+out)
		}
	}
	return exitOK
}

// runCatalog shows or refreshes the cached catalog.
func runCatalog(cmd cli.Command, environ []string, stdout, stderr io.Writer) int {
	switch cmd.Action {
	case "show":
		cat, ok := resolveCatalog(cmd, environ, stderr)
		if !ok {
			return exitNoCatalog
		}
		if cmd.JSONOutput {
			out, err := json.MarshalIndent(struct {
				Patterns []catalog.Pattern `json:"patterns"`
			}{cat.Patterns}, "", "  ")
			if err != nil {
				fmt.Fprintf(stderr, "Error: %v\n", err)
				return exitError
			}
			fmt.Fprintln(stdout, string(out))
			return exitOK
		}
		for _, p := range cat.Patterns {
			min := p.MinVersion
			if min == "" {
				min = "any"
			}
			fmt.Fprintf(stdout, "%-24s %-40s min: %s\n", p.Slug, p.Title, min)
		}
		return exitOK

	case "refresh":
		refreshed := cmd
		refreshed.MaxAge = 0 // force a fetch
		refreshed.Offline = false
		cat, ok := resolveCatalog(refreshed, environ, stderr)
		if !ok {
			return exitNoCatalog
		}
		fmt.Fprintf(stdout, "catalog refreshed: %d pattern(s)\n", cat.Len())
		return exitOK

	default:
		fmt.Fprintf(stderr, "Error: unknown catalog action: %s\n", cmd.Action)
		return exitError
	}
}

// runHistory lists or clears stored audit runs.
func runHistory(cmd cli.Command, environ []string, stdout, stderr io.Writer) int {
	dir := historyDir(cmd, environ)
	store := history.NewStore(dir)

	switch cmd.Action {
	case "list":
		entries, err := store.List()
		if err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return exitError
		}
		if len(entries) == 0 {
			fmt.Fprintln(stdout, "no audit history")
			return exitOK
		}
		for _, e := range entries {
			fmt.Fprintf(stdout, "%s  %s  applied=%d gaps=%d  agent=%s\n",
				e.GeneratedAt.Format(time.RFC3339), shortFingerprint(e.Fingerprint),
				len(e.Applied), len(e.Gaps), e.AgentVersion)
		}
		return exitOK

	case "clear":
		if err := os.RemoveAll(dir); err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return exitError
		}
		fmt.Fprintln(stdout, "audit history cleared")
		return exitOK

	default:
		fmt.Fprintf(stderr, "Error: unknown history action: %s\n", cmd.Action)
		return exitError
	}
}

// runWatch audits once, then re-audits whenever the config file changes.
func runWatch(cmd cli.Command, environ []string, ciMode bool, stdout, stderr io.Writer) int {
	path := cmd.ConfigPath
	if path == "" {
		path = getEnv(environ, "PATROL_CONFIG")
	}
	if path == "" {
		path = defaultConfigFile
	}

	check := func() {
		fmt.Fprintf(stdout, "--- audit %s\n", time.Now().Format(time.RFC3339))
		runCheck(cmd, environ, ciMode, stdout, stderr)
	}
	check()

	if err := watch.Run(path, watchDebounceTime, check, nil); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitError
	}
	return exitOK
}

// homeDir resolves patrol's state directory (~/.patrol by default).
func homeDir(cmd cli.Command, environ []string) string {
	if cmd.HomeDir != "" {
		return cmd.HomeDir
	}
	if dir := getEnv(environ, "PATROL_HOME"); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".patrol"
	}
	return filepath.Join(home, ".patrol")
}

func historyDir(cmd cli.Command, environ []string) string {
	return filepath.Join(homeDir(cmd, environ), "history")
}

func shortFingerprint(fp string) string {
	const prefix = "sha256:"
	hex := strings.TrimPrefix(fp, prefix)
	if len(hex) > 12 {
		hex = hex[:12]
	}
	return hex
}

// getEnv looks up a key in an environ slice (format: "KEY=VALUE").
func getEnv(environ []string, key string) string {
	prefix := key + "="
	for _, env := range environ {
		if strings.HasPrefix(env, prefix) {
			return strings.TrimPrefix(env, prefix)
		}
	}
	return ""
}

// getEnvBool treats "1" and "true" as true.
func getEnvBool(environ []string, key string) bool {
	v := strings.ToLower(getEnv(environ, key))
	return v == "1" || v == "true"
}
