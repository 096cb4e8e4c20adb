package checker

import (
	"context"
	"net/url"
	"path"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"
)

// AssetResult is the reachability of one stylesheet or script.
type AssetResult struct {
	Ref          string
	URL          string
	Status       int
	ContentType  string
	CacheControl string
	OK           bool
	Err          error
}

// AssetReport lists same-site asset reachability and off-site dependencies.
type AssetReport struct {
	Assets   []AssetResult
	External []string
}

// Failed counts assets that did not answer 200.
func (r AssetReport) Failed() int {
	n := 0
	for _, a := range r.Assets {
		if !a.OK {
			n++
		}
	}
	return n
}

var assetExtensions = map[string]struct{}{
	".css": {},
	".js":  {},
}

// CollectAssets gathers the stylesheet and script references of every fetched
// page. Same-site references are resolved against base and deduplicated;
// off-site ones are returned as external dependencies.
func CollectAssets(base *url.URL, pages []PageResult) (local map[string]string, external []string) {
	local = make(map[string]string)
	seenExternal := make(map[string]struct{})

	for _, p := range pages {
		if !p.Fetched() || p.Signals == nil {
			continue
		}
		for _, ref := range p.Signals.Resources {
			if !isAssetRef(ref) {
				continue
			}
			u := resolveRef(base, ref.URL)
			if u == nil {
				continue
			}
			key := u.String()
			if sameHost(base, u) {
				if _, ok := local[key]; !ok {
					local[key] = ref.URL
				}
				continue
			}
			if _, ok := seenExternal[key]; !ok {
				seenExternal[key] = struct{}{}
				external = append(external, key)
			}
		}
	}
	sort.Strings(external)
	return local, external
}

func isAssetRef(ref ResourceRef) bool {
	if !(ref.Tag == "script" && ref.Attr == "src") && !(ref.Tag == "link" && ref.Attr == "href") {
		return false
	}
	u, err := url.Parse(strings.TrimSpace(ref.URL))
	if err != nil {
		return false
	}
	_, ok := assetExtensions[strings.ToLower(path.Ext(u.Path))]
	return ok
}

// CheckAssets probes every same-site asset with bounded concurrency. Probes
// go through the prober's per-origin throttle like any other request.
func (p *Prober) CheckAssets(ctx context.Context, base *url.URL, pages []PageResult, concurrency int) AssetReport {
	local, external := CollectAssets(base, pages)

	urls := make([]string, 0, len(local))
	for u := range local {
		urls = append(urls, u)
	}
	sort.Strings(urls)

	report := AssetReport{
		Assets:   make([]AssetResult, len(urls)),
		External: external,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(ClampConcurrency(concurrency))
	for i, u := range urls {
		i, u := i, u
		g.Go(func() error {
			report.Assets[i] = p.probeAsset(gctx, local[u], u)
			return nil
		})
	}
	_ = g.Wait()

	return report
}

func (p *Prober) probeAsset(ctx context.Context, ref, rawURL string) AssetResult {
	result := AssetResult{Ref: ref, URL: rawURL}
	probe := p.do(ctx, rawURL, false)
	if !probe.OK() {
		result.Err = probe.Err
		return result
	}
	result.Status = probe.Response.Status
	result.ContentType = probe.Response.ContentType
	result.CacheControl = probe.Response.CacheControl
	result.OK = result.Status == 200
	return result
}
