// Package history persists audit artifacts and computes run-over-run
// deltas: which patterns became applied, which regressed, and which gaps
// opened or closed since the previous run.
package history

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"patrol/internal/report"
)

// ErrNoHistory is returned when no prior run has been saved.
var ErrNoHistory = errors.New("no audit history")

// Entry is the persisted summary of one audit run.
type Entry struct {
	Fingerprint  string    `json:"fingerprint"`
	AgentVersion string    `json:"agentVersion"`
	GeneratedAt  time.Time `json:"generatedAt"`
	Applied      []string  `json:"applied"` // slugs, report order
	Gaps         []string  `json:"gaps"`    // slugs, report order
}

// EntryFrom summarizes an artifact for persistence.
func EntryFrom(a report.Artifact) Entry {
	return Entry{
		Fingerprint:  a.Fingerprint,
		AgentVersion: a.AgentVersion,
		GeneratedAt:  a.GeneratedAt,
		Applied:      a.AppliedSlugs(),
		Gaps:         a.GapSlugs(),
	}
}

// Store manages audit history persistence.
type Store struct {
	Dir string
}

// NewStore creates a store rooted at the given directory.
func NewStore(dir string) *Store {
	return &Store{Dir: dir}
}

// Save persists an entry, keyed by its timestamp.
func (s *Store) Save(e Entry) error {
	if err := os.MkdirAll(s.Dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(e, "", "  ")
	if err != nil {
		return fmt.Errorf("serializing history entry: %w", err)
	}

	name := e.GeneratedAt.UTC().Format("20060102T150405.000000000Z") + ".json"
	return os.WriteFile(filepath.Join(s.Dir, name), data, 0644)
}

// Latest returns the most recent entry.
func (s *Store) Latest() (Entry, error) {
	entries, err := s.List()
	if err != nil {
		return Entry{}, err
	}
	if len(entries) == 0 {
		return Entry{}, ErrNoHistory
	}
	return entries[len(entries)-1], nil
}

// List returns all stored entries, oldest first.
func (s *Store) List() ([]Entry, error) {
	dirEntries, err := os.ReadDir(s.Dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []Entry{}, nil
		}
		return nil, err
	}

	names := make([]string, 0, len(dirEntries))
	for _, de := range dirEntries {
		if de.IsDir() || !strings.HasSuffix(de.Name(), ".json") {
			continue
		}
		names = append(names, de.Name())
	}
	// Timestamp-derived names sort chronologically.
	sort.Strings(names)

	var entries []Entry
	for _, name := range names {
		data, err := os.ReadFile(filepath.Join(s.Dir, name))
		if err != nil {
			continue // Skip unreadable files
		}
		var e Entry
		if err := json.Unmarshal(data, &e); err != nil {
			continue // Skip corrupt files
		}
		entries = append(entries, e)
	}
	return entries, nil
}
