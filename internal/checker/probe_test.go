package checker

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	sharedErrors "github.com/khanhnv2901/siteverify/internal/shared/errors"
)

func TestFetchCapturesResponse(t *testing.T) {
	var gotUA string
	p := newMockProber(func(req *http.Request) (*http.Response, error) {
		gotUA = req.Header.Get("User-Agent")
		return newMockResponse(req, http.StatusOK, "<html>hello</html>", map[string]string{
			"Server":        "nginx",
			"Content-Type":  "text/html",
			"Cache-Control": "max-age=60",
		}), nil
	})

	res := p.Fetch(context.Background(), "https://example.com/")
	if !res.OK() {
		t.Fatalf("expected successful probe, got %v", res.Err)
	}
	if res.Err != nil {
		t.Fatal("a successful probe must not carry an error")
	}
	r := res.Response
	if r.Status != 200 || r.Server != "nginx" || r.ContentType != "text/html" || r.CacheControl != "max-age=60" {
		t.Fatalf("unexpected response %+v", r)
	}
	if string(r.Body) != "<html>hello</html>" || r.ContentLength != len(r.Body) {
		t.Fatalf("unexpected body %q (%d)", r.Body, r.ContentLength)
	}
	if r.FinalURL != "https://example.com/" {
		t.Fatalf("unexpected final URL %q", r.FinalURL)
	}
	if gotUA == "" {
		t.Fatal("expected a User-Agent header")
	}
}

func TestFetchErrorStatusIsSuccessfulProbe(t *testing.T) {
	p := newMockProber(func(req *http.Request) (*http.Response, error) {
		return newMockResponse(req, http.StatusInternalServerError, "boom", nil), nil
	})

	res := p.Fetch(context.Background(), "https://example.com/")
	if !res.OK() || res.Status() != 500 {
		t.Fatalf("origin errors are probe successes, got ok=%v status=%d", res.OK(), res.Status())
	}
}

func TestFetchTransportFailure(t *testing.T) {
	p := newMockProber(func(req *http.Request) (*http.Response, error) {
		return nil, errors.New("connection refused")
	})

	res := p.Fetch(context.Background(), "https://example.com/")
	if res.OK() || res.Response != nil {
		t.Fatal("transport failure must not carry a response")
	}
	if !errors.Is(res.Err, sharedErrors.ErrTransport) {
		t.Fatalf("expected ErrTransport, got %v", res.Err)
	}
	if res.Status() != 0 || !strings.Contains(res.Error(), "connection refused") {
		t.Fatalf("unexpected status/error: %d %q", res.Status(), res.Error())
	}
}

func TestFetchInvalidURL(t *testing.T) {
	p := newMockProber(func(req *http.Request) (*http.Response, error) {
		t.Fatal("transport must not be reached")
		return nil, nil
	})

	res := p.Fetch(context.Background(), "https://exa mple.com/\x7f")
	if !errors.Is(res.Err, sharedErrors.ErrInvalidURL) {
		t.Fatalf("expected ErrInvalidURL, got %v", res.Err)
	}
}

func TestFetchBodyCap(t *testing.T) {
	p := newMockProber(func(req *http.Request) (*http.Response, error) {
		return newMockResponse(req, http.StatusOK, strings.Repeat("a", 100), nil), nil
	})
	p.MaxBodyBytes = 10

	res := p.Fetch(context.Background(), "https://example.com/")
	if len(res.Response.Body) != 10 {
		t.Fatalf("expected body capped at 10 bytes, got %d", len(res.Response.Body))
	}
}
