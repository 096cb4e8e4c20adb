package checker

import (
	"io"
	"net/http"
	"strings"
	"time"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func newMockResponse(req *http.Request, status int, body string, headers map[string]string) *http.Response {
	h := make(http.Header)
	for k, v := range headers {
		h.Set(k, v)
	}
	return &http.Response{
		StatusCode: status,
		Header:     h,
		Body:       io.NopCloser(strings.NewReader(body)),
		Request:    req,
	}
}

func newMockProber(rt roundTripFunc) *Prober {
	p := NewProber(2*time.Second, nil)
	p.Transport = rt
	return p
}

func fetchedPage(id, server, body string) PageResult {
	signals := ExtractSignalsString(body)
	return PageResult{
		Sample: PageSample{ID: id, Path: "/" + id},
		URL:    "https://example.com/" + id,
		Probe: ProbeResult{
			URL: "https://example.com/" + id,
			Response: &Response{
				Status:  200,
				Elapsed: 100 * time.Millisecond,
				Server:  server,
				Body:    []byte(body),
			},
		},
		Signals: &signals,
	}
}

func failedPage(id string, err error) PageResult {
	return PageResult{
		Sample: PageSample{ID: id, Path: "/" + id},
		URL:    "https://example.com/" + id,
		Probe:  ProbeResult{URL: "https://example.com/" + id, Err: err},
	}
}
