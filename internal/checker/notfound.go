package checker

import (
	"context"
	"net/http"
)

// NotFoundResult records whether an unknown path is answered with exactly 404.
type NotFoundResult struct {
	URL      string
	Status   int
	Expected int
	Pass     bool
	Err      error
}

// ProbeNotFound requests rawURL, which is expected not to exist.
func (p *Prober) ProbeNotFound(ctx context.Context, rawURL string) NotFoundResult {
	result := NotFoundResult{URL: rawURL, Expected: http.StatusNotFound}

	probe := p.do(ctx, rawURL, false)
	if !probe.OK() {
		result.Err = probe.Err
		return result
	}

	result.Status = probe.Response.Status
	result.Pass = result.Status == http.StatusNotFound
	return result
}
