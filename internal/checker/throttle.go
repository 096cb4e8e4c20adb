package checker

import (
	"context"
	"net/url"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// OriginThrottle enforces a minimum interval between requests to the same
// origin host. Each host gets its own limiter with a burst of one, so
// concurrent workers hitting one origin are serialized at the configured pace
// while requests to different hosts proceed independently.
type OriginThrottle struct {
	interval time.Duration

	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

// NewOriginThrottle returns a throttle pacing each origin at one request per
// interval. A non-positive interval disables pacing.
func NewOriginThrottle(interval time.Duration) *OriginThrottle {
	return &OriginThrottle{
		interval: interval,
		limiters: make(map[string]*rate.Limiter),
	}
}

// Wait blocks until a request to rawURL's origin is allowed or ctx is done.
func (t *OriginThrottle) Wait(ctx context.Context, rawURL string) error {
	if t == nil || t.interval <= 0 {
		return nil
	}
	return t.limiter(OriginKey(rawURL)).Wait(ctx)
}

// Interval reports the configured per-origin interval.
func (t *OriginThrottle) Interval() time.Duration {
	if t == nil {
		return 0
	}
	return t.interval
}

func (t *OriginThrottle) limiter(key string) *rate.Limiter {
	t.mu.Lock()
	defer t.mu.Unlock()

	l, ok := t.limiters[key]
	if !ok {
		l = rate.NewLimiter(rate.Every(t.interval), 1)
		t.limiters[key] = l
	}
	return l
}

// OriginKey maps a URL to the key used for pacing. Scheme and port are
// ignored: http://host and https://host land on the same server and share a
// rate limit budget.
func OriginKey(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Hostname() == "" {
		return strings.ToLower(rawURL)
	}
	return strings.ToLower(u.Hostname())
}
