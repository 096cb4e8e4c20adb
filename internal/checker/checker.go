package checker

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"sync"

	consts "github.com/khanhnv2901/siteverify/internal/shared/constants"
	"go.uber.org/zap"
)

// PageSample is one externally chosen page of the comparison set.
type PageSample struct {
	ID   string `mapstructure:"id" json:"id"`
	Path string `mapstructure:"path" json:"path"`
}

// PageResult pairs a sample with its probe outcome and, for successfully
// fetched pages, the extracted signals.
type PageResult struct {
	Sample  PageSample
	URL     string
	Probe   ProbeResult
	Signals *PageSignals
}

// Fetched reports whether the page was retrieved with a 2xx status. Only
// fetched pages take part in cross-page comparison.
func (r PageResult) Fetched() bool {
	status := r.Probe.Status()
	return r.Probe.OK() && status >= 200 && status < 300
}

// Failure describes why the page is not Fetched, or returns "".
func (r PageResult) Failure() string {
	switch {
	case !r.Probe.OK():
		return r.Probe.Error()
	case !r.Fetched():
		return fmt.Sprintf("unexpected status %d", r.Probe.Status())
	}
	return ""
}

// Body returns the fetched body as text, or "" for failed pages.
func (r PageResult) Body() string {
	if !r.Probe.OK() {
		return ""
	}
	return string(r.Probe.Response.Body)
}

// Runner fetches sample pages through a fixed-size worker pool. Workers pull
// indexes from a task queue and write into their own result slot, so no
// state is shared between them; the per-origin throttle inside the Prober
// keeps the pool from hammering a single host.
type Runner struct {
	Prober      *Prober
	Concurrency int
	Logger      *zap.SugaredLogger
	// OnResult is called once per page as soon as it completes.
	OnResult func(PageResult)
}

// SamplePages fetches and extracts every sample, returning results in sample order.
func (r *Runner) SamplePages(ctx context.Context, baseURL string, samples []PageSample) []PageResult {
	results := make([]PageResult, len(samples))
	if len(samples) == 0 {
		return results
	}

	workers := ClampConcurrency(r.Concurrency)
	if workers > len(samples) {
		workers = len(samples)
	}

	tasks := make(chan int)
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range tasks {
				results[i] = r.samplePage(ctx, baseURL, samples[i])
				if r.OnResult != nil {
					r.OnResult(results[i])
				}
			}
		}()
	}

	for i := range samples {
		tasks <- i
	}
	close(tasks)
	wg.Wait()

	return results
}

func (r *Runner) samplePage(ctx context.Context, baseURL string, sample PageSample) PageResult {
	log := r.logger()
	pageURL := JoinPath(baseURL, sample.Path)
	log.Debugw("fetching sample page", "page", sample.ID, "url", pageURL)

	result := PageResult{
		Sample: sample,
		URL:    pageURL,
		Probe:  r.Prober.Fetch(ctx, pageURL),
	}

	if result.Fetched() {
		signals := ExtractSignals(bytes.NewReader(result.Probe.Response.Body))
		result.Signals = &signals
		log.Infow("sample page fetched",
			"page", sample.ID,
			"status", result.Probe.Status(),
			"elapsed_ms", result.Probe.Response.Elapsed.Milliseconds(),
			"nav_items", len(signals.NavItems),
			"footer_fragments", len(signals.FooterFragments),
		)
	} else {
		log.Warnw("sample page failed", "page", sample.ID, "url", pageURL, "error", result.Failure())
	}

	return result
}

func (r *Runner) logger() *zap.SugaredLogger {
	if r.Logger == nil {
		return zap.NewNop().Sugar()
	}
	return r.Logger
}

// ClampConcurrency bounds a configured worker count to the supported range.
func ClampConcurrency(n int) int {
	switch {
	case n <= 0:
		return consts.DefaultConcurrency
	case n < consts.MinConcurrency:
		return consts.MinConcurrency
	case n > consts.MaxConcurrency:
		return consts.MaxConcurrency
	}
	return n
}

// JoinPath appends a site-relative path to a base URL.
func JoinPath(baseURL, path string) string {
	base := strings.TrimSuffix(baseURL, "/")
	if path == "" {
		return base + "/"
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return base + path
}
