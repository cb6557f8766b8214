package detect

import "patrol/internal/confpath"

// Rules returns the built-in detection rule set in declaration order.
// Order matters only for output stability; rules are independent and may
// all fire.
func Rules() []Rule {
	return []Rule{
		{
			Slug:        "gateway-hardening",
			Explanation: "gateway binds to an explicit non-wildcard host",
			Match: func(tree map[string]any) bool {
				host := confpath.Lookup(tree, "gateway.host")
				return host.IsPresent() && host.String() != "0.0.0.0"
			},
		},
		{
			Slug:        "cron-isolation",
			Explanation: "at least one cron job runs in an isolated session",
			Match:       anyCronJobIsolated,
		},
		{
			Slug:        "gateway-url-allowlist",
			Explanation: "file gateway restricts fetchable URLs via gateway.files.urlAllowlist",
			Match: func(tree map[string]any) bool {
				return confpath.Exists(tree, "gateway.files.urlAllowlist")
			},
		},
		{
			Slug:        "hook-session-keys",
			Explanation: "hooks are scoped to a dedicated session key",
			Match: func(tree map[string]any) bool {
				return confpath.Exists(tree, "hooks.sessionKey")
			},
		},
		{
			Slug:        "redacted-logging",
			Explanation: "logging.redactSecrets is enabled",
			Match: func(tree map[string]any) bool {
				return confpath.Lookup(tree, "logging.redactSecrets").Bool()
			},
		},
		{
			Slug:        "browser-sandbox",
			Explanation: "browser automation runs inside a sandboxed profile",
			Match: func(tree map[string]any) bool {
				return confpath.Lookup(tree, "browser.sandbox.enabled").Bool()
			},
		},
	}
}

// anyCronJobIsolated reports whether at least one entry under cron.jobs
// sets isolated to true.
func anyCronJobIsolated(tree map[string]any) bool {
	jobs := confpath.Lookup(tree, "cron.jobs").Map()
	for _, job := range jobs {
		j, ok := job.(map[string]any)
		if !ok {
			continue
		}
		if isolated, ok := j["isolated"].(bool); ok && isolated {
			return true
		}
	}
	return false
}
