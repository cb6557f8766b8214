// Package report renders compliance evaluations for humans, CI logs, and
// machines, and fingerprints them for run-over-run comparison.
package report

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"patrol/internal/detect"
	"patrol/internal/engine"
	"patrol/internal/update"
)

// Artifact is the serializable result of one audit run.
type Artifact struct {
	Fingerprint  string                  `json:"fingerprint"`
	AgentVersion string                  `json:"agentVersion"`
	GeneratedAt  time.Time               `json:"generatedAt"`
	Applied      []detect.AppliedPattern `json:"applied"`
	Updates      []update.ConfigUpdate   `json:"updates"`
}

// New builds an artifact from an evaluation report. The fingerprint covers
// the agent version and the ordered evaluation output but not the
// timestamp, so identical inputs always fingerprint identically.
func New(r engine.Report, agentVersion string, now time.Time) Artifact {
	return Artifact{
		Fingerprint:  ComputeFingerprint(r, agentVersion),
		AgentVersion: agentVersion,
		GeneratedAt:  now.UTC(),
		Applied:      r.Applied,
		Updates:      r.Updates,
	}
}

// ComputeFingerprint hashes the canonical form of an evaluation.
// Returns the hash prefixed with "sha256:".
func ComputeFingerprint(r engine.Report, agentVersion string) string {
	// Struct field order and slice order are both fixed, so encoding/json
	// output is canonical here without any key sorting.
	canonical, err := json.Marshal(struct {
		AgentVersion string                  `json:"agentVersion"`
		Applied      []detect.AppliedPattern `json:"applied"`
		Updates      []update.ConfigUpdate   `json:"updates"`
	}{agentVersion, r.Applied, r.Updates})
	if err != nil {
		// Marshalling plain structs of strings cannot fail.
		panic(err)
	}
	hash := sha256.Sum256(canonical)
	return "sha256:" + hex.EncodeToString(hash[:])
}

// ToJSON serializes the artifact to pretty-printed JSON.
func (a Artifact) ToJSON() ([]byte, error) {
	return json.MarshalIndent(a, "", "  ")
}

// AppliedSlugs returns the slugs of applied patterns, in report order.
func (a Artifact) AppliedSlugs() []string {
	slugs := make([]string, 0, len(a.Applied))
	for _, p := range a.Applied {
		slugs = append(slugs, p.Slug)
	}
	return slugs
}

// GapSlugs returns the slugs of recommended updates, in report order.
func (a Artifact) GapSlugs() []string {
	slugs := make([]string, 0, len(a.Updates))
	for _, u := range a.Updates {
		slugs = append(slugs, u.Slug)
	}
	return slugs
}
