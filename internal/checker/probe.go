package checker

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"io"
	"net"
	"net/http"
	"sync"
	"time"

	consts "github.com/khanhnv2901/siteverify/internal/shared/constants"
	sharedErrors "github.com/khanhnv2901/siteverify/internal/shared/errors"
)

// Response is the success shape of a probe.
type Response struct {
	Status        int
	Elapsed       time.Duration
	Server        string
	ContentType   string
	CacheControl  string
	ContentLength int
	FinalURL      string
	Body          []byte
	// Note carries a non-fatal problem, such as a body read cut short.
	Note string
}

// ProbeResult is the outcome of one HTTPS fetch: either Response or Err is
// set, never both. Origin error statuses (4xx/5xx) are successful probes.
type ProbeResult struct {
	URL      string
	Response *Response
	Err      error
}

// OK reports whether the request completed at the transport level.
func (r ProbeResult) OK() bool {
	return r.Err == nil && r.Response != nil
}

// Status returns the HTTP status, or 0 when the transport failed.
func (r ProbeResult) Status() int {
	if !r.OK() {
		return 0
	}
	return r.Response.Status
}

// Error returns the transport error text, or "".
func (r ProbeResult) Error() string {
	if r.Err == nil {
		return ""
	}
	return r.Err.Error()
}

// Prober performs read-only network probes against the audited site.
type Prober struct {
	Timeout        time.Duration
	UserAgent      string
	MaxBodyBytes   int64
	Throttle       *OriginThrottle
	TrustedIssuers []string
	TLSPort        string

	// Transport replaces the HTTP transport (mock transports in tests).
	Transport http.RoundTripper
	// DialContext replaces TCP dialing for HTTP and raw TLS inspection.
	DialContext func(ctx context.Context, network, addr string) (net.Conn, error)
	// RootCAs replaces the system roots used to verify certificates.
	RootCAs *x509.CertPool

	clientOnce sync.Once
	client     *http.Client
}

// NewProber creates a Prober with calibrated defaults.
func NewProber(timeout time.Duration, throttle *OriginThrottle) *Prober {
	if timeout <= 0 {
		timeout = consts.DefaultTimeout
	}
	return &Prober{
		Timeout:        timeout,
		UserAgent:      consts.DefaultUserAgent,
		MaxBodyBytes:   consts.MaxBodyBytes,
		Throttle:       throttle,
		TrustedIssuers: consts.DefaultTrustedIssuers,
		TLSPort:        consts.DefaultTLSPort,
	}
}

// Fetch issues a GET following redirects and captures status, headers,
// timing and body. It never returns an error: transport failures are carried
// in ProbeResult.Err.
func (p *Prober) Fetch(ctx context.Context, rawURL string) ProbeResult {
	return p.do(ctx, rawURL, true)
}

func (p *Prober) do(ctx context.Context, rawURL string, keepBody bool) ProbeResult {
	result := ProbeResult{URL: rawURL}

	if err := p.Throttle.Wait(ctx, rawURL); err != nil {
		result.Err = fmt.Errorf("%w: pacing wait: %v", sharedErrors.ErrTransport, err)
		return result
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout())
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		result.Err = fmt.Errorf("%w: %v", sharedErrors.ErrInvalidURL, err)
		return result
	}
	req.Header.Set("User-Agent", p.userAgent())

	start := time.Now()
	resp, err := p.httpClient().Do(req)
	if err != nil {
		result.Err = fmt.Errorf("%w: %v", sharedErrors.ErrTransport, err)
		return result
	}
	elapsed := time.Since(start)
	defer resp.Body.Close()

	out := &Response{
		Status:       resp.StatusCode,
		Elapsed:      elapsed,
		Server:       resp.Header.Get("Server"),
		ContentType:  resp.Header.Get("Content-Type"),
		CacheControl: resp.Header.Get("Cache-Control"),
		FinalURL:     resp.Request.URL.String(),
	}

	if keepBody {
		body, err := io.ReadAll(io.LimitReader(resp.Body, p.maxBodyBytes()))
		if err != nil {
			// partial body is still usable for extraction
			out.Note = fmt.Sprintf("body read incomplete: %v", err)
		}
		out.Body = body
		out.ContentLength = len(body)
	} else {
		n, _ := io.Copy(io.Discard, io.LimitReader(resp.Body, p.maxBodyBytes()))
		out.ContentLength = int(n)
	}

	result.Response = out
	return result
}

func (p *Prober) httpClient() *http.Client {
	p.clientOnce.Do(func() {
		transport := p.Transport
		if transport == nil {
			transport = &http.Transport{
				Proxy:               http.ProxyFromEnvironment,
				DialContext:         p.dial,
				TLSHandshakeTimeout: p.timeout(),
				TLSClientConfig: &tls.Config{
					InsecureSkipVerify: false,
					MinVersion:         tls.VersionTLS12,
					RootCAs:            p.RootCAs,
				},
			}
		}
		p.client = &http.Client{
			Timeout:       p.timeout(),
			Transport:     transport,
			CheckRedirect: p.checkRedirect,
		}
	})
	return p.client
}

// checkRedirect paces every hop of a redirect chain through the throttle.
func (p *Prober) checkRedirect(req *http.Request, via []*http.Request) error {
	if len(via) >= consts.MaxRedirects {
		return fmt.Errorf("%w: stopped after %d", sharedErrors.ErrRedirectLimit, len(via))
	}
	return p.Throttle.Wait(req.Context(), req.URL.String())
}

func (p *Prober) dial(ctx context.Context, network, addr string) (net.Conn, error) {
	if p.DialContext != nil {
		return p.DialContext(ctx, network, addr)
	}
	d := &net.Dialer{Timeout: p.timeout()}
	return d.DialContext(ctx, network, addr)
}

func (p *Prober) timeout() time.Duration {
	if p.Timeout <= 0 {
		return consts.DefaultTimeout
	}
	return p.Timeout
}

func (p *Prober) userAgent() string {
	if p.UserAgent == "" {
		return consts.DefaultUserAgent
	}
	return p.UserAgent
}

func (p *Prober) maxBodyBytes() int64 {
	if p.MaxBodyBytes <= 0 {
		return consts.MaxBodyBytes
	}
	return p.MaxBodyBytes
}

func (p *Prober) tlsPort() string {
	if p.TLSPort == "" {
		return consts.DefaultTLSPort
	}
	return p.TLSPort
}
