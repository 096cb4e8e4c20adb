package audit

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/khanhnv2901/siteverify/internal/checker"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

const sitePage = `<html><head><link rel="stylesheet" href="/css/site.css"></head><body>
<header><img src="/img/logo.png" alt="Example logo"><nav><a href="/">Home</a><a href="/about.html">About</a></nav></header>
<main><p>BODY-MARKER-%s</p></main>
<footer><p>© 2024 Example</p></footer>
</body></html>`

// newTestSite serves example.com over TLS and redirects plain HTTP to it.
// The returned prober dials both servers in place of the real host.
func newTestSite(t *testing.T, handler http.HandlerFunc) *checker.Prober {
	t.Helper()

	tlsSrv := httptest.NewTLSServer(handler)
	t.Cleanup(tlsSrv.Close)
	plainSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "https://example.com"+r.URL.RequestURI(), http.StatusMovedPermanently)
	}))
	t.Cleanup(plainSrv.Close)

	pool := x509.NewCertPool()
	pool.AddCert(tlsSrv.Certificate())

	p := checker.NewProber(5*time.Second, nil)
	p.RootCAs = pool
	p.TrustedIssuers = []string{"Acme Co"}
	p.DialContext = func(ctx context.Context, network, addr string) (net.Conn, error) {
		target := tlsSrv.Listener.Addr().String()
		if strings.HasSuffix(addr, ":80") {
			target = plainSrv.Listener.Addr().String()
		}
		var d net.Dialer
		return d.DialContext(ctx, network, target)
	}
	// no proxy from the environment may intercept the fake host
	p.Transport = &http.Transport{
		DialContext:     p.DialContext,
		TLSClientConfig: &tls.Config{RootCAs: pool},
	}
	return p
}

func siteHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Server", "nginx")
	switch r.URL.Path {
	case "/", "/about.html":
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(strings.Replace(sitePage, "%s", strings.Trim(r.URL.Path, "/"), 1)))
	case "/css/site.css":
		w.Header().Set("Content-Type", "text/css")
		_, _ = w.Write([]byte("body{}"))
	case "/contact.html":
		http.Error(w, "upstream failure", http.StatusInternalServerError)
	default:
		http.NotFound(w, r)
	}
}

func TestAuditorRunEndToEnd(t *testing.T) {
	prober := newTestSite(t, siteHandler)

	auditor := NewAuditor(Config{
		Host: "example.com",
		Samples: []checker.PageSample{
			{ID: "home", Path: "/"},
			{ID: "about", Path: "/about.html"},
			{ID: "contact", Path: "/contact.html"},
		},
		Concurrency: 2,
		CheckAssets: true,
	}, prober, nil)

	var completed atomic.Int32
	auditor.OnPage(func(checker.PageResult) { completed.Add(1) })

	rep, err := auditor.Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if n := completed.Load(); n != 3 {
		t.Fatalf("expected 3 page callbacks, got %d", n)
	}

	if !rep.SSL.Pass || !rep.SSL.CertFound || rep.SSL.Issuer["organizationName"] != "Acme Co" {
		t.Fatalf("unexpected ssl section %+v", rep.SSL)
	}
	if len(rep.Redirects) != 1 || !rep.Redirects[0].Success || rep.Redirects[0].Actual != "https://example.com/" {
		t.Fatalf("unexpected redirects %+v", rep.Redirects)
	}

	if len(rep.Pages) != 3 {
		t.Fatalf("expected 3 pages, got %d", len(rep.Pages))
	}
	if home := rep.Pages["home"]; home.Status != 200 || home.Server != "nginx" || home.PageSignals == nil || home.LogoSrc != "/img/logo.png" {
		t.Fatalf("unexpected home entry %+v", home)
	}
	if contact := rep.Pages["contact"]; contact.Status != 500 || contact.Error == "" || contact.PageSignals != nil {
		t.Fatalf("unexpected contact entry %+v", contact)
	}

	if !rep.Consistency.Pass || rep.Consistency.SampleSize != 2 {
		t.Fatalf("unexpected consistency %+v", rep.Consistency)
	}
	if len(rep.Consistency.Excluded) != 1 || rep.Consistency.Excluded[0] != "contact" {
		t.Fatalf("contact should be excluded, got %v", rep.Consistency.Excluded)
	}

	if len(rep.SecurityIssues) != 0 {
		t.Fatalf("unexpected security issues %+v", rep.SecurityIssues)
	}
	if !rep.NotFound.Pass || rep.NotFound.Status != 404 {
		t.Fatalf("unexpected not found result %+v", rep.NotFound)
	}
	if rep.Assets == nil || rep.Assets.Checked != 1 || rep.Assets.Failed != 0 {
		t.Fatalf("unexpected asset section %+v", rep.Assets)
	}

	if rep.FinalVerdict != VerdictPassWithWarnings {
		t.Fatalf("failed page should degrade the verdict, got %s", rep.FinalVerdict)
	}
	if len(rep.Warnings) != 1 || !strings.HasPrefix(rep.Warnings[0], "latency:") {
		t.Fatalf("expected only the latency warning, got %q", rep.Warnings)
	}

	if len(rep.StageLog) != len(stageOrder) || rep.StageLog[len(rep.StageLog)-1].Stage != StageFinalized {
		t.Fatalf("unexpected stage log %+v", rep.StageLog)
	}

	encoded, err := json.Marshal(rep)
	if err != nil {
		t.Fatalf("marshal report: %v", err)
	}
	if strings.Contains(string(encoded), "BODY-MARKER") {
		t.Fatal("raw page bodies must not appear in the report")
	}
	for _, key := range []string{`"ssl_results"`, `"redirect_results"`, `"pages_info"`, `"security_issues"`, `"not_found_result"`, `"final_verdict"`} {
		if !strings.Contains(string(encoded), key) {
			t.Fatalf("report JSON missing %s", key)
		}
	}
}

func TestAuditorRunAllPass(t *testing.T) {
	prober := newTestSite(t, siteHandler)

	rep, err := NewAuditor(Config{
		Host:    "example.com",
		Samples: []checker.PageSample{{ID: "home", Path: "/"}, {ID: "about", Path: "/about.html"}},
	}, prober, nil).Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if rep.FinalVerdict != VerdictPass || len(rep.Warnings) != 0 {
		t.Fatalf("expected clean pass, got %s %q", rep.FinalVerdict, rep.Warnings)
	}
	if rep.Assets != nil {
		t.Fatal("asset section should be omitted unless requested")
	}
}

func TestAuditorRunUnreachableSite(t *testing.T) {
	p := checker.NewProber(time.Second, nil)
	p.DialContext = func(ctx context.Context, network, addr string) (net.Conn, error) {
		return nil, errors.New("connection refused")
	}

	rep, err := NewAuditor(Config{Host: "www.example.com"}, p, nil).Run(context.Background())
	if err != nil {
		t.Fatalf("transport failures must not abort the run: %v", err)
	}
	if rep.FinalVerdict != VerdictPassWithWarnings {
		t.Fatalf("unexpected verdict %s", rep.FinalVerdict)
	}
	if rep.SSL.Error == "" || rep.SSL.Pass {
		t.Fatalf("expected ssl error, got %+v", rep.SSL)
	}
	// default cases for a www host: scheme upgrade and bare domain
	if len(rep.Redirects) != 2 || rep.Redirects[0].Error == "" {
		t.Fatalf("unexpected redirects %+v", rep.Redirects)
	}
	if !rep.Consistency.LowConfidence || !rep.Consistency.Pass {
		t.Fatalf("no fetched pages should give a low-confidence pass, got %+v", rep.Consistency)
	}
	if len(rep.Notes) == 0 {
		t.Fatal("expected consistency notes")
	}
	if rep.StageLog[len(rep.StageLog)-1].Stage != StageFinalized {
		t.Fatal("run must still finalize")
	}
}

func TestAuditorRunLogsPacingAndServerDrift(t *testing.T) {
	prober := newTestSite(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/about.html" {
			siteHandler(w, r)
			return
		}
		w.Header().Set("Server", "apache")
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(strings.Replace(sitePage, "%s", "about.html", 1)))
	})
	prober.Throttle = checker.NewOriginThrottle(time.Millisecond)

	core, logs := observer.New(zapcore.InfoLevel)
	auditor := NewAuditor(Config{
		Host: "example.com",
		Samples: []checker.PageSample{
			{ID: "home", Path: "/"},
			{ID: "about", Path: "/about.html"},
		},
		Concurrency: 2,
	}, prober, zap.New(core).Sugar())

	if _, err := auditor.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}

	started := logs.FilterMessage("audit started").All()
	if len(started) != 1 {
		t.Fatalf("expected one start entry, got %d", len(started))
	}
	if got := started[0].ContextMap()["pacing"]; got != time.Millisecond {
		t.Fatalf("pacing = %v, want %v", got, time.Millisecond)
	}

	drift := logs.FilterMessage("origin servers differ").All()
	if len(drift) != 1 {
		t.Fatalf("expected one server drift warning, got %d", len(drift))
	}
	servers, _ := json.Marshal(drift[0].ContextMap()["servers"])
	if !strings.Contains(string(servers), "apache") || !strings.Contains(string(servers), "nginx") {
		t.Fatalf("drift warning should list both servers, got %s", servers)
	}
}
