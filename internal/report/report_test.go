package report

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"patrol/internal/detect"
	"patrol/internal/engine"
	"patrol/internal/update"
)

func sampleReport() engine.Report {
	return engine.Report{
		Applied: []detect.AppliedPattern{
			{Title: "Allowlist fetchable URLs", Slug: "gateway-url-allowlist", Provenance: "file gateway restricts fetchable URLs"},
		},
		Updates: []update.ConfigUpdate{
			{Title: "Bind the gateway to loopback", Slug: "gateway-hardening", Reason: "gateway binds to 0.0.0.0", Diff: "-   host: 0.0.0.0\n+   host: 127.0.0.1"},
		},
	}
}

func TestComputeFingerprint_Deterministic(t *testing.T) {
	r := sampleReport()

	a := ComputeFingerprint(r, "2026.2.14")
	b := ComputeFingerprint(r, "2026.2.14")
	if a != b {
		t.Errorf("fingerprints differ for identical input: %s vs %s", a, b)
	}
	if !strings.HasPrefix(a, "sha256:") {
		t.Errorf("fingerprint %q missing sha256: prefix", a)
	}
}

func TestComputeFingerprint_SensitiveToContent(t *testing.T) {
	r := sampleReport()
	base := ComputeFingerprint(r, "2026.2.14")

	if got := ComputeFingerprint(r, "2026.2.15"); got == base {
		t.Error("fingerprint unchanged when agent version changed")
	}

	changed := sampleReport()
	changed.Updates[0].Reason = "different reason"
	if got := ComputeFingerprint(changed, "2026.2.14"); got == base {
		t.Error("fingerprint unchanged when update reason changed")
	}
}

func TestNew_TimestampExcludedFromFingerprint(t *testing.T) {
	r := sampleReport()

	early := New(r, "2026.2.14", time.Date(2026, 2, 14, 9, 0, 0, 0, time.UTC))
	late := New(r, "2026.2.14", time.Date(2026, 2, 15, 9, 0, 0, 0, time.UTC))
	if early.Fingerprint != late.Fingerprint {
		t.Error("fingerprint depends on timestamp")
	}
}

func TestFormatCLI(t *testing.T) {
	a := New(sampleReport(), "2026.2.14", time.Now())

	out := FormatCLI(a)
	for _, want := range []string{
		"Applied patterns (1):",
		"Allowlist fetchable URLs",
		"Recommended updates (1):",
		"gateway binds to 0.0.0.0",
		"+   host: 127.0.0.1",
		a.Fingerprint,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("FormatCLI() missing %q in output:\n%s", want, out)
		}
	}
}

func TestFormatCLI_Compliant(t *testing.T) {
	a := New(engine.Report{}, "2026.2.14", time.Now())

	out := FormatCLI(a)
	if !strings.Contains(out, "fully compliant") {
		t.Errorf("FormatCLI() for empty report should note compliance:\n%s", out)
	}
}

func TestFormatCI(t *testing.T) {
	a := New(sampleReport(), "2026.2.14", time.Now())

	out := FormatCI(a)
	if !strings.Contains(out, "::notice::Pattern applied: Allowlist fetchable URLs") {
		t.Errorf("FormatCI() missing notice annotation:\n%s", out)
	}
	if !strings.Contains(out, "::warning::Pattern gap: Bind the gateway to loopback") {
		t.Errorf("FormatCI() missing warning annotation:\n%s", out)
	}
}

func TestFormatJSON_RoundTrip(t *testing.T) {
	a := New(sampleReport(), "2026.2.14", time.Date(2026, 2, 14, 9, 0, 0, 0, time.UTC))

	out, err := FormatJSON(a)
	if err != nil {
		t.Fatalf("FormatJSON() error = %v", err)
	}

	var parsed Artifact
	if err := json.Unmarshal([]byte(out), &parsed); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if parsed.Fingerprint != a.Fingerprint {
		t.Errorf("round-tripped fingerprint = %q, want %q", parsed.Fingerprint, a.Fingerprint)
	}
	if len(parsed.Updates) != 1 || parsed.Updates[0].Slug != "gateway-hardening" {
		t.Errorf("round-tripped updates = %v", parsed.Updates)
	}
}

func TestSlugAccessors(t *testing.T) {
	a := New(sampleReport(), "2026.2.14", time.Now())

	if got := a.AppliedSlugs(); len(got) != 1 || got[0] != "gateway-url-allowlist" {
		t.Errorf("AppliedSlugs() = %v", got)
	}
	if got := a.GapSlugs(); len(got) != 1 || got[0] != "gateway-hardening" {
		t.Errorf("GapSlugs() = %v", got)
	}
}
