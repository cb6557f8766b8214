package catalog

import (
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"
)

// catalogFile represents the catalog document structure.
// YAML is a superset of JSON, so fetched JSON catalogs parse the same way.
type catalogFile struct {
	Patterns []patternEntry `yaml:"patterns"`
}

type patternEntry struct {
	Slug       string `yaml:"slug"`
	Title      string `yaml:"title"`
	MinVersion string `yaml:"minimumVersion"`
	Category   string `yaml:"category"`
}

// slugRegex validates pattern slugs: lowercase alphanumerics and hyphens.
var slugRegex = regexp.MustCompile(`^[a-z0-9][a-z0-9-]*$`)

// Parse parses catalog content into a Catalog, preserving document order.
func Parse(content []byte) (Catalog, error) {
	var cf catalogFile
	if err := yaml.Unmarshal(content, &cf); err != nil {
		return Catalog{}, fmt.Errorf("invalid catalog document: %w", err)
	}

	cat := Catalog{Patterns: make([]Pattern, 0, len(cf.Patterns))}

	for i, entry := range cf.Patterns {
		if entry.Slug == "" {
			return Catalog{}, fmt.Errorf("pattern at index %d: missing required field 'slug'", i)
		}
		if !slugRegex.MatchString(entry.Slug) {
			return Catalog{}, fmt.Errorf("pattern slug '%s' contains invalid characters", entry.Slug)
		}
		if entry.Title == "" {
			return Catalog{}, fmt.Errorf("pattern '%s': missing required field 'title'", entry.Slug)
		}

		cat.Patterns = append(cat.Patterns, Pattern{
			Slug:       entry.Slug,
			Title:      entry.Title,
			MinVersion: entry.MinVersion,
			Category:   entry.Category,
		})
	}

	return cat, nil
}

// LoadFromPath reads and parses a catalog file.
func LoadFromPath(path string) (Catalog, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Catalog{}, err
		}
		return Catalog{}, fmt.Errorf("failed to read catalog: %w", err)
	}
	return Parse(content)
}

// ToYAML serializes a Catalog back to YAML bytes.
func (c Catalog) ToYAML() ([]byte, error) {
	cf := catalogFile{Patterns: make([]patternEntry, 0, len(c.Patterns))}
	for _, p := range c.Patterns {
		cf.Patterns = append(cf.Patterns, patternEntry{
			Slug:       p.Slug,
			Title:      p.Title,
			MinVersion: p.MinVersion,
			Category:   p.Category,
		})
	}
	return yaml.Marshal(&cf)
}
