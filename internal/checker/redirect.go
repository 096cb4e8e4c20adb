package checker

import (
	"context"
	"net/http"
)

// RedirectCase is one declared entry point and the canonical URL it must
// resolve to. Scheme upgrades and bare-domain-to-www normalization are both
// expressed as plain cases.
type RedirectCase struct {
	Name     string `mapstructure:"name" json:"name"`
	Source   string `mapstructure:"source" json:"source"`
	Expected string `mapstructure:"expected" json:"expected"`
}

// RedirectResult is the outcome of one RedirectCase. A chain that fails
// mid-flight has Err set and Success false.
type RedirectResult struct {
	Case    RedirectCase
	Actual  string
	Status  int
	Success bool
	Err     error
}

// VerifyRedirect follows the redirect chain from c.Source and compares the
// final URL to c.Expected by exact string equality. The final hop must also
// answer with a 2xx status.
func (p *Prober) VerifyRedirect(ctx context.Context, c RedirectCase) RedirectResult {
	result := RedirectResult{Case: c}

	probe := p.do(ctx, c.Source, false)
	if !probe.OK() {
		result.Err = probe.Err
		return result
	}

	result.Actual = probe.Response.FinalURL
	result.Status = probe.Response.Status
	result.Success = result.Actual == c.Expected &&
		result.Status >= http.StatusOK && result.Status < http.StatusMultipleChoices
	return result
}

// VerifyRedirects runs every case in order. Cases share the prober's
// per-origin pacing, so running them sequentially costs little.
func (p *Prober) VerifyRedirects(ctx context.Context, cases []RedirectCase) []RedirectResult {
	results := make([]RedirectResult, 0, len(cases))
	for _, c := range cases {
		results = append(results, p.VerifyRedirect(ctx, c))
	}
	return results
}

// RedirectsPass reports whether every case resolved as expected. Errored
// cases count as failures.
func RedirectsPass(results []RedirectResult) bool {
	for _, r := range results {
		if r.Err != nil || !r.Success {
			return false
		}
	}
	return true
}
