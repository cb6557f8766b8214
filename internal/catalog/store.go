package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// ErrCacheNotFound is returned when no cached catalog exists.
var ErrCacheNotFound = errors.New("cached catalog not found")

// Cached wraps a catalog with its provenance for freshness checks.
type Cached struct {
	FetchedAt time.Time `json:"fetchedAt"`
	Source    string    `json:"source"` // URL or file path the catalog came from
	Patterns  []Pattern `json:"patterns"`
}

// Catalog returns the cached patterns as a Catalog.
func (c Cached) Catalog() Catalog {
	return Catalog{Patterns: c.Patterns}
}

// Fresh reports whether the cache is younger than maxAge at the given time.
func (c Cached) Fresh(now time.Time, maxAge time.Duration) bool {
	return now.Sub(c.FetchedAt) < maxAge
}

// Store manages the on-disk catalog cache.
type Store struct {
	Dir string
}

// NewStore creates a store rooted at the given directory.
func NewStore(dir string) *Store {
	return &Store{Dir: dir}
}

const cacheFile = "catalog.json"

// Save persists the cached catalog, replacing any previous one.
// The write goes through a temp file and rename to stay atomic.
func (s *Store) Save(c Cached) error {
	if err := os.MkdirAll(s.Dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("serializing catalog cache: %w", err)
	}

	path := filepath.Join(s.Dir, cacheFile)
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return fmt.Errorf("writing catalog cache: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("committing catalog cache: %w", err)
	}
	return nil
}

// Load retrieves the cached catalog.
func (s *Store) Load() (Cached, error) {
	data, err := os.ReadFile(filepath.Join(s.Dir, cacheFile))
	if err != nil {
		if os.IsNotExist(err) {
			return Cached{}, ErrCacheNotFound
		}
		return Cached{}, err
	}

	var c Cached
	if err := json.Unmarshal(data, &c); err != nil {
		return Cached{}, fmt.Errorf("parsing catalog cache: %w", err)
	}
	return c, nil
}
