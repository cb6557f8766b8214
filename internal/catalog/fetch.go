package catalog

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// maxCatalogBytes caps the fetched body size. Published catalogs are a few
// kilobytes; anything larger is a misconfigured URL.
const maxCatalogBytes = 1 << 20

// Fetcher retrieves the published catalog from a remote source.
type Fetcher struct {
	Client *http.Client
}

// NewFetcher creates a fetcher with a sane default timeout.
func NewFetcher() *Fetcher {
	return &Fetcher{Client: &http.Client{Timeout: 15 * time.Second}}
}

// Fetch downloads and parses the catalog at url.
// Any network or parse failure surfaces here, before the engine runs.
func (f *Fetcher) Fetch(ctx context.Context, url string) (Catalog, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Catalog{}, fmt.Errorf("building catalog request: %w", err)
	}
	req.Header.Set("Accept", "application/yaml, application/json")

	resp, err := f.Client.Do(req)
	if err != nil {
		return Catalog{}, fmt.Errorf("fetching catalog: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Catalog{}, fmt.Errorf("fetching catalog: unexpected status %s", resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxCatalogBytes))
	if err != nil {
		return Catalog{}, fmt.Errorf("reading catalog response: %w", err)
	}

	return Parse(body)
}
