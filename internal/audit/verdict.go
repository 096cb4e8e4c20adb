package audit

import "fmt"

// Verdict is the aggregate outcome of one run. Findings never fail the
// process; the worst verdict is PASS_WITH_WARNINGS.
type Verdict string

const (
	VerdictPass             Verdict = "PASS"
	VerdictPassWithWarnings Verdict = "PASS_WITH_WARNINGS"
)

// VerdictInputs is the completed set of check outcomes a verdict is computed from.
type VerdictInputs struct {
	SSLPass          bool
	RedirectsPass    bool
	LatencyPass      bool
	SecurityFindings int
	NotFoundPass     bool
	NotFoundStatus   int
}

// ComputeVerdict folds check outcomes into a verdict and the list of reasons
// it was degraded.
func ComputeVerdict(in VerdictInputs) (Verdict, []string) {
	warnings := []string{}

	if !in.SSLPass {
		warnings = append(warnings, "ssl: certificate authority or domain coverage check failed")
	}
	if !in.RedirectsPass {
		warnings = append(warnings, "redirects: one or more entry points did not resolve to the canonical URL")
	}
	if !in.LatencyPass {
		warnings = append(warnings, "latency: one or more sample pages were slow or failed")
	}
	if in.SecurityFindings > 0 {
		warnings = append(warnings, fmt.Sprintf("security: %d finding(s)", in.SecurityFindings))
	}
	if !in.NotFoundPass {
		warnings = append(warnings, fmt.Sprintf("not found: expected status 404, got %d", in.NotFoundStatus))
	}

	if len(warnings) == 0 {
		return VerdictPass, warnings
	}
	return VerdictPassWithWarnings, warnings
}
