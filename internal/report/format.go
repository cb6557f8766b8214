package report

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/fatih/color"
)

// FormatCLI renders the artifact for terminal output.
// Color is controlled globally via color.NoColor, set by the caller.
func FormatCLI(a Artifact) string {
	green := color.New(color.FgGreen).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()
	cyan := color.New(color.FgCyan, color.Bold).SprintFunc()
	gray := color.New(color.FgHiBlack).SprintFunc()

	var sb strings.Builder

	sb.WriteString(cyan(fmt.Sprintf("Applied patterns (%d):", len(a.Applied))) + "\n")
	if len(a.Applied) == 0 {
		sb.WriteString(gray("  none detected") + "\n")
	}
	for _, p := range a.Applied {
		sb.WriteString(fmt.Sprintf("  %s %s %s\n", green("✓"), p.Title, gray("["+p.Slug+"]")))
		sb.WriteString(gray("      "+p.Provenance) + "\n")
	}

	sb.WriteString("\n")
	sb.WriteString(cyan(fmt.Sprintf("Recommended updates (%d):", len(a.Updates))) + "\n")
	if len(a.Updates) == 0 {
		sb.WriteString(green("  configuration is fully compliant") + "\n")
	}
	for _, u := range a.Updates {
		sb.WriteString(fmt.Sprintf("  %s %s %s\n", yellow("!"), u.Title, gray("["+u.Slug+"]")))
		sb.WriteString(fmt.Sprintf("      %s\n", u.Reason))
		for _, line := range strings.Split(u.Diff, "\n") {
			sb.WriteString(gray("      "+line) + "\n")
		}
	}

	sb.WriteString("\n" + gray("fingerprint: "+a.Fingerprint) + "\n")
	return sb.String()
}

// FormatCI renders the artifact as GitHub Actions annotations: a notice
// per applied pattern and a warning per recommended update.
func FormatCI(a Artifact) string {
	var sb strings.Builder

	for _, p := range a.Applied {
		sb.WriteString(fmt.Sprintf("::notice::Pattern applied: %s (%s)\n", p.Title, p.Provenance))
	}
	for _, u := range a.Updates {
		sb.WriteString(fmt.Sprintf("::warning::Pattern gap: %s - %s\n", u.Title, u.Reason))
	}

	if len(a.Updates) > 0 {
		sb.WriteString(fmt.Sprintf("\n⚠️  %d recommended update(s); run patrol check locally for diffs\n", len(a.Updates)))
	} else {
		sb.WriteString("\n✅ Configuration satisfies all published patterns\n")
	}
	return sb.String()
}

// FormatJSON renders the artifact as pretty-printed JSON.
func FormatJSON(a Artifact) (string, error) {
	data, err := json.MarshalIndent(a, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}
