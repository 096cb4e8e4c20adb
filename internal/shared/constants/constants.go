package constants

import (
	"io/fs"
	"time"
)

const (
	// DefaultDirPerm is the default permission used when creating directories.
	DefaultDirPerm fs.FileMode = 0o755
	// DefaultFilePerm is the default permission used when creating files.
	DefaultFilePerm fs.FileMode = 0o644
)

const (
	// DefaultTimeout bounds every network operation (HTTP fetch, TLS handshake).
	DefaultTimeout = 10 * time.Second
	// DefaultPacing is the minimum interval between two requests to the same origin.
	DefaultPacing = 500 * time.Millisecond
	// DefaultConcurrency is the sample-page worker count.
	DefaultConcurrency = 4
	// MinConcurrency and MaxConcurrency clamp the configured worker count.
	MinConcurrency = 1
	MaxConcurrency = 8
	// MaxRedirects caps how many hops a single fetch follows.
	MaxRedirects = 10
	// MaxBodyBytes caps how much of a response body is kept for extraction.
	MaxBodyBytes = 2 << 20
	// DefaultUserAgent is sent on every request; some origins reject Go's default agent.
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) siteverify/1.0"
	// DefaultNotFoundPath is requested to confirm the origin answers unknown paths with 404.
	DefaultNotFoundPath = "/nonexistent-page-12345.html"
	// DefaultTLSPort is the port used for raw certificate inspection.
	DefaultTLSPort = "443"
)

// DefaultTrustedIssuers lists issuer organizations treated as the known free CA.
var DefaultTrustedIssuers = []string{"Let's Encrypt"}

const (
	// LatencyWarnThreshold is the first elapsed time graded WARN.
	LatencyWarnThreshold = 2000 * time.Millisecond
	// LatencyFailThreshold is the first elapsed time graded FAIL.
	LatencyFailThreshold = 3000 * time.Millisecond
)

// Consistency tolerances: the maximum number of distinct values an axis may
// show across the sample before it is judged inconsistent.
const (
	ServerHeaderTolerance = 1
	LogoSourceTolerance   = 2
	NavItemCountTolerance = 1
	FooterCountTolerance  = 2
)

const (
	// MixedContentListLimit is how many offending references are listed per page.
	MixedContentListLimit = 5
	// SensitiveContextRadius is how many bytes around a match are kept as context.
	SensitiveContextRadius = 50
	// SensitiveContextLimit caps the stored context snippet.
	SensitiveContextLimit = 100
)

// SensitivePatterns is the fixed vocabulary searched in fetched bodies.
var SensitivePatterns = []string{"api_key", "apikey", "password", "secret", "token"}
