package web

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// HeaderRetryAfter is the retry-after header (seconds or HTTP date).
const HeaderRetryAfter = "Retry-After"

// RateLimiter throttles requests to the archive host. A token bucket caps
// the steady rate; a Retry-After on a 429 or 503 response pauses every
// later request until the server's deadline.
type RateLimiter struct {
	mu          sync.Mutex
	bucket      *rate.Limiter // nil when unlimited
	pausedUntil time.Time
	now         func() time.Time
}

// NewRateLimiter creates a limiter allowing perSecond requests per second.
// Zero or less means no proactive throttling.
func NewRateLimiter(perSecond float64) *RateLimiter {
	r := &RateLimiter{now: time.Now}
	if perSecond > 0 {
		burst := int(perSecond)
		if burst < 1 {
			burst = 1
		}
		r.bucket = rate.NewLimiter(rate.Limit(perSecond), burst)
	}
	return r
}

// Wait blocks until it's safe to make a request.
func (r *RateLimiter) Wait(ctx context.Context) error {
	if r.bucket != nil {
		if err := r.bucket.Wait(ctx); err != nil {
			return err
		}
	}

	r.mu.Lock()
	until := r.pausedUntil
	r.mu.Unlock()

	if wait := until.Sub(r.now()); wait > 0 {
		timer := time.NewTimer(wait)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	}
	return nil
}

// UpdateFromResponse records a server-requested pause.
func (r *RateLimiter) UpdateFromResponse(resp *http.Response) {
	if resp == nil {
		return
	}
	if resp.StatusCode != http.StatusTooManyRequests && resp.StatusCode != http.StatusServiceUnavailable {
		return
	}

	until, ok := parseRetryAfter(resp.Header.Get(HeaderRetryAfter), r.now())
	if !ok {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if until.After(r.pausedUntil) {
		r.pausedUntil = until
	}
}

// PausedUntil returns the current server-requested deadline.
func (r *RateLimiter) PausedUntil() time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pausedUntil
}

func parseRetryAfter(value string, now time.Time) (time.Time, bool) {
	if value == "" {
		return time.Time{}, false
	}
	if secs, err := strconv.Atoi(value); err == nil && secs >= 0 {
		return now.Add(time.Duration(secs) * time.Second), true
	}
	if t, err := http.ParseTime(value); err == nil {
		return t, true
	}
	return time.Time{}, false
}
