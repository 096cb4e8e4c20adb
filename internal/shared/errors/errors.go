package errors

import "errors"

var (
	// Transport errors: DNS, connect, timeout, TLS handshake. Recorded as findings.
	ErrTransport     = errors.New("transport error")
	ErrTLSHandshake  = errors.New("tls handshake failed")
	ErrNoCertificate = errors.New("no peer certificate presented")
	ErrRedirectLimit = errors.New("too many redirects")

	// Configuration errors
	ErrInvalidConfig = errors.New("invalid configuration")
	ErrMissingTarget = errors.New("target host is required")
	ErrInvalidPath   = errors.New("path must start with /")
	ErrDuplicatePage = errors.New("duplicate sample page id")
	ErrInvalidFormat = errors.New("unsupported report format")
	ErrInvalidURL    = errors.New("invalid url")

	// Run errors
	ErrInvalidTransition = errors.New("invalid audit stage transition")
	ErrRunFinalized      = errors.New("audit run already finalized")

	// Report errors
	ErrPathEscape = errors.New("path escapes base directory")
)
