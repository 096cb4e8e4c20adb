package checker

import (
	"net/url"
	"strings"
)

// NormalizeHost reduces a target to a bare lowercase hostname. It accepts
// the usual operator inputs:
//   - www.example.com
//   - https://www.example.com/
//   - www.example.com:443
func NormalizeHost(target string) string {
	target = strings.TrimSpace(target)
	if target == "" {
		return ""
	}

	parsed, err := url.Parse(target)
	// "example.com:443" parses with scheme "example.com", so treat any scheme
	// containing a dot as a missing scheme.
	if err != nil || parsed.Scheme == "" || strings.Contains(parsed.Scheme, ".") {
		parsed, err = url.Parse("https://" + target)
		if err != nil {
			return ""
		}
	}
	return strings.ToLower(strings.TrimSuffix(parsed.Hostname(), "."))
}

// BaseURL is the secure origin every sample path is resolved against.
func BaseURL(host string) string {
	return "https://" + host
}

// DefaultRedirects returns the canonicalization cases for host: plain to
// secure transport, plus bare domain to www when host is a www name.
func DefaultRedirects(host string) []RedirectCase {
	canonical := BaseURL(host) + "/"
	cases := []RedirectCase{
		{Name: "HTTP → HTTPS", Source: "http://" + host + "/", Expected: canonical},
	}
	if bare, ok := strings.CutPrefix(host, "www."); ok && bare != "" {
		cases = append(cases, RedirectCase{
			Name:     "bare → www",
			Source:   BaseURL(bare) + "/",
			Expected: canonical,
		})
	}
	return cases
}

// DefaultSamples is used when no sample pages are configured.
func DefaultSamples() []PageSample {
	return []PageSample{{ID: "home", Path: "/"}}
}

// resolveRef resolves a page reference against base, dropping references
// that cannot be fetched (fragments, javascript:, mailto:, data: ...).
func resolveRef(base *url.URL, raw string) *url.URL {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.HasPrefix(raw, "#") {
		return nil
	}

	lower := strings.ToLower(raw)
	for _, prefix := range []string{"javascript:", "mailto:", "tel:", "data:"} {
		if strings.HasPrefix(lower, prefix) {
			return nil
		}
	}

	ref, err := url.Parse(raw)
	if err != nil {
		return nil
	}
	resolved := base.ResolveReference(ref)
	if resolved.Scheme != "http" && resolved.Scheme != "https" {
		return nil
	}
	resolved.Fragment = ""
	return resolved
}

func sameHost(a, b *url.URL) bool {
	return a != nil && b != nil && a.Hostname() != "" && strings.EqualFold(a.Hostname(), b.Hostname())
}
