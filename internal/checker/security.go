package checker

import (
	"fmt"
	"net"
	"net/url"
	"strings"

	consts "github.com/khanhnv2901/siteverify/internal/shared/constants"
)

// SecurityFindingKind classifies a security finding.
type SecurityFindingKind string

const (
	KindMixedContent     SecurityFindingKind = "mixed-content"
	KindSensitivePattern SecurityFindingKind = "sensitive-pattern"
)

// SecurityFinding is one security deviation on one page.
type SecurityFinding struct {
	Page     string
	Kind     SecurityFindingKind
	Snippets []string
	// Remaining counts offenders beyond those listed in Snippets.
	Remaining int
	// Pattern is the matched vocabulary word for sensitive-pattern findings.
	Pattern string
}

// AuditSecurity scans every fetched page for mixed content and sensitive
// tokens. Pages that failed to fetch have nothing to scan.
func AuditSecurity(pages []PageResult) []SecurityFinding {
	findings := []SecurityFinding{}
	for _, p := range pages {
		if !p.Fetched() {
			continue
		}
		if p.Signals != nil {
			if f, ok := DetectMixedContent(p.Sample.ID, p.Signals.Resources); ok {
				findings = append(findings, f)
			}
		}
		findings = append(findings, DetectSensitivePatterns(p.Sample.ID, p.Body())...)
	}
	return findings
}

// DetectMixedContent lists the first few insecure references on a page.
func DetectMixedContent(page string, refs []ResourceRef) (SecurityFinding, bool) {
	var offenders []string
	total := 0
	for _, ref := range refs {
		if !IsMixedContent(ref.URL) {
			continue
		}
		total++
		if len(offenders) < consts.MixedContentListLimit {
			offenders = append(offenders, fmt.Sprintf("<%s> %s", ref.Tag, strings.TrimSpace(ref.URL)))
		}
	}
	if total == 0 {
		return SecurityFinding{}, false
	}
	return SecurityFinding{
		Page:      page,
		Kind:      KindMixedContent,
		Snippets:  offenders,
		Remaining: total - len(offenders),
	}, true
}

// IsMixedContent reports whether rawURL uses plain http to a non-loopback host.
func IsMixedContent(rawURL string) bool {
	rawURL = strings.TrimSpace(rawURL)
	const prefix = "http://"
	if len(rawURL) < len(prefix) || !strings.EqualFold(rawURL[:len(prefix)], prefix) {
		return false
	}
	return !isLoopback(rawURL)
}

func isLoopback(rawURL string) bool {
	var host string
	if u, err := url.Parse(rawURL); err == nil {
		host = u.Hostname()
	} else {
		host = rawURL[len("http://"):]
		if i := strings.IndexAny(host, "/:?#"); i >= 0 {
			host = host[:i]
		}
	}
	host = strings.ToLower(host)
	if host == "localhost" {
		return true
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}

// DetectSensitivePatterns searches body case-insensitively for the sensitive
// vocabulary. Occurrences inside an HTML comment are ignored; one finding is
// emitted per pattern with context around the first live occurrence.
func DetectSensitivePatterns(page, body string) []SecurityFinding {
	var findings []SecurityFinding
	if body == "" {
		return findings
	}

	lower := asciiLower(body)
	comments := commentSpans(lower)
	for _, pattern := range consts.SensitivePatterns {
		idx := firstOutsideComment(lower, pattern, comments)
		if idx < 0 {
			continue
		}
		findings = append(findings, SecurityFinding{
			Page:     page,
			Kind:     KindSensitivePattern,
			Pattern:  pattern,
			Snippets: []string{contextAround(body, idx)},
		})
	}
	return findings
}

// commentSpan covers the bytes after a "<!--" up to the end of its "-->".
// An unclosed comment runs to the end of the document.
type commentSpan struct {
	start, end int
}

// commentSpans lists comment bodies in document order in a single pass.
func commentSpans(doc string) []commentSpan {
	var spans []commentSpan
	from := 0
	for {
		i := strings.Index(doc[from:], "<!--")
		if i < 0 {
			return spans
		}
		start := from + i + len("<!--")
		j := strings.Index(doc[start:], "-->")
		if j < 0 {
			return append(spans, commentSpan{start: start, end: len(doc)})
		}
		end := start + j + len("-->")
		spans = append(spans, commentSpan{start: start, end: end})
		from = end
	}
}

// firstOutsideComment returns the offset of the first pattern match that
// falls outside every comment span, or -1.
func firstOutsideComment(doc, pattern string, comments []commentSpan) int {
	from, k := 0, 0
	for from <= len(doc) {
		i := strings.Index(doc[from:], pattern)
		if i < 0 {
			return -1
		}
		pos := from + i
		for k < len(comments) && comments[k].end <= pos {
			k++
		}
		if k == len(comments) || pos < comments[k].start {
			return pos
		}
		// Skip the rest of the enclosing comment.
		from = comments[k].end
	}
	return -1
}

func contextAround(body string, idx int) string {
	start := idx - consts.SensitiveContextRadius
	if start < 0 {
		start = 0
	}
	end := idx + consts.SensitiveContextRadius
	if end > len(body) {
		end = len(body)
	}
	if end-start > consts.SensitiveContextLimit {
		end = start + consts.SensitiveContextLimit
	}
	return strings.ToValidUTF8(body[start:end], "")
}

// asciiLower lowercases ASCII letters only, keeping byte offsets aligned
// with the original text.
func asciiLower(s string) string {
	b := []byte(s)
	for i, c := range b {
		if 'A' <= c && c <= 'Z' {
			b[i] = c + ('a' - 'A')
		}
	}
	return string(b)
}
