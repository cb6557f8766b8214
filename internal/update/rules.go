package update

import (
	"fmt"

	"patrol/internal/confpath"
	"patrol/internal/version"
)

// Rules returns the built-in update rule set in declaration order.
func Rules() []Rule {
	return []Rule{
		{
			Slug: "gateway-hardening",
			Applies: func(tree map[string]any, installed string) bool {
				return true
			},
			Gap: func(tree map[string]any) (bool, string) {
				host := confpath.Lookup(tree, "gateway.host")
				if host.IsPresent() && host.String() == "0.0.0.0" {
					return true, "gateway binds to 0.0.0.0, exposing it on every interface; bind loopback and front it with a reverse proxy"
				}
				return false, ""
			},
			Diff: `  gateway:
-   host: 0.0.0.0
+   host: 127.0.0.1`,
		},
		{
			Slug: "cron-isolation",
			Applies: func(tree map[string]any, installed string) bool {
				return version.Satisfies(installed, "2026.2.12+")
			},
			Gap: func(tree map[string]any) (bool, string) {
				n := countUnisolatedCronJobs(tree)
				if n == 0 {
					return false, ""
				}
				return true, fmt.Sprintf("%d cron job(s) missing isolated sessions", n)
			},
			Diff: `  cron:
    jobs:
      <job>:
+       isolated: true`,
		},
		{
			Slug: "gateway-url-allowlist",
			Applies: func(tree map[string]any, installed string) bool {
				// Only meaningful once the file gateway is configured.
				return confpath.Exists(tree, "gateway.files")
			},
			Gap: func(tree map[string]any) (bool, string) {
				if confpath.Exists(tree, "gateway.files.urlAllowlist") {
					return false, ""
				}
				return true, "file gateway fetches URLs without an allowlist"
			},
			Diff: `  gateway:
    files:
+     urlAllowlist:
+       - https://docs.example.com
+       - https://artifacts.example.com`,
		},
		{
			Slug: "hook-session-keys",
			Applies: func(tree map[string]any, installed string) bool {
				// Only recommend hook hardening if hooks are configured at all.
				return confpath.Exists(tree, "hooks")
			},
			Gap: func(tree map[string]any) (bool, string) {
				if confpath.Exists(tree, "hooks.sessionKey") {
					return false, ""
				}
				return true, "hooks share the main session; a dedicated session key contains their blast radius"
			},
			Diff: `  hooks:
+   sessionKey: hook:inbound`,
		},
		{
			Slug: "redacted-logging",
			Applies: func(tree map[string]any, installed string) bool {
				return version.Satisfies(installed, "2026.1.0+")
			},
			Gap: func(tree map[string]any) (bool, string) {
				if confpath.Lookup(tree, "logging.redactSecrets").Bool() {
					return false, ""
				}
				return true, "log lines may carry raw credentials; enable logging.redactSecrets"
			},
			Diff: `  logging:
+   redactSecrets: true`,
		},
		{
			Slug: "browser-sandbox",
			Applies: func(tree map[string]any, installed string) bool {
				return confpath.Exists(tree, "browser") &&
					version.Satisfies(installed, "2026.2.0+")
			},
			Gap: func(tree map[string]any) (bool, string) {
				if confpath.Lookup(tree, "browser.sandbox.enabled").Bool() {
					return false, ""
				}
				return true, "browser automation runs in the default profile; sandbox it"
			},
			Diff: `  browser:
+   sandbox:
+     enabled: true`,
		},
	}
}

// countUnisolatedCronJobs counts entries under cron.jobs that do not set
// isolated to true. Malformed entries count as unisolated.
func countUnisolatedCronJobs(tree map[string]any) int {
	jobs := confpath.Lookup(tree, "cron.jobs").Map()
	n := 0
	for _, job := range jobs {
		j, ok := job.(map[string]any)
		if !ok {
			n++
			continue
		}
		if isolated, ok := j["isolated"].(bool); !ok || !isolated {
			n++
		}
	}
	return n
}
