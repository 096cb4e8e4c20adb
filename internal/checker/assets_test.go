package checker

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"reflect"
	"testing"
)

const assetPage = `<html><head>
<link rel="stylesheet" href="/css/site.css">
<link rel="icon" href="/favicon.ico">
<link rel="stylesheet" href="https://fonts.example.net/font.css">
<script src="/js/app.js?v=2"></script>
<script src="/js/missing.js"></script>
</head><body><a href="/about.html">About</a></body></html>`

func TestCollectAssets(t *testing.T) {
	base, _ := url.Parse("https://example.com/")
	pages := []PageResult{
		fetchedPage("home", "nginx", assetPage),
		fetchedPage("about", "nginx", assetPage),
		failedPage("broken", errors.New("down")),
	}

	local, external := CollectAssets(base, pages)
	wantLocal := map[string]string{
		"https://example.com/css/site.css":  "/css/site.css",
		"https://example.com/js/app.js?v=2": "/js/app.js?v=2",
		"https://example.com/js/missing.js": "/js/missing.js",
	}
	if !reflect.DeepEqual(local, wantLocal) {
		t.Fatalf("local assets = %v, want %v", local, wantLocal)
	}
	if !reflect.DeepEqual(external, []string{"https://fonts.example.net/font.css"}) {
		t.Fatalf("unexpected external dependencies %v", external)
	}
}

func TestCheckAssets(t *testing.T) {
	p := newMockProber(func(req *http.Request) (*http.Response, error) {
		if req.URL.Path == "/js/missing.js" {
			return newMockResponse(req, http.StatusNotFound, "", nil), nil
		}
		return newMockResponse(req, http.StatusOK, "/* asset */", map[string]string{
			"Content-Type":  "text/css",
			"Cache-Control": "public, max-age=3600",
		}), nil
	})
	base, _ := url.Parse("https://example.com/")

	report := p.CheckAssets(context.Background(), base, []PageResult{fetchedPage("home", "nginx", assetPage)}, 2)
	if len(report.Assets) != 3 {
		t.Fatalf("expected 3 assets, got %+v", report.Assets)
	}
	if report.Failed() != 1 {
		t.Fatalf("expected one failed asset, got %d", report.Failed())
	}
	for _, a := range report.Assets {
		if a.URL == "https://example.com/js/missing.js" {
			if a.OK || a.Status != 404 {
				t.Fatalf("missing asset reported as %+v", a)
			}
			continue
		}
		if !a.OK || a.CacheControl == "" {
			t.Fatalf("asset %s should be reachable with headers, got %+v", a.URL, a)
		}
	}
	if len(report.External) != 1 {
		t.Fatalf("unexpected external list %v", report.External)
	}
}
