package twitter

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"sync/atomic"
	"time"
)

// Rate-limit response headers.
const (
	HeaderRateLimitLimit     = "X-Rate-Limit-Limit"
	HeaderRateLimitRemaining = "X-Rate-Limit-Remaining"
	HeaderRateLimitReset     = "X-Rate-Limit-Reset"

	legacyRateLimitLimit     = "X-RateLimit-Limit"
	legacyRateLimitRemaining = "X-RateLimit-Remaining"
	legacyRateLimitReset     = "X-RateLimit-Reset"
)

// RateLimitInfo is one observation of the rate-limit headers.
type RateLimitInfo struct {
	Limit     int       `json:"limit"`
	Remaining int       `json:"remaining"`
	ResetAt   time.Time `json:"reset_at"`
	// UpdatedAt is when the observation was recorded.
	UpdatedAt time.Time `json:"updated_at"`
}

// Known reports whether any observation has been recorded.
func (i RateLimitInfo) Known() bool {
	return !i.UpdatedAt.IsZero()
}

// ResetIn returns the time left until the window resets, or 0.
func (i RateLimitInfo) ResetIn(now time.Time) time.Duration {
	if i.ResetAt.IsZero() || !i.ResetAt.After(now) {
		return 0
	}
	return i.ResetAt.Sub(now)
}

// ParseRateLimit reads the rate-limit headers from h. It reports false
// when none of them is present. A missing or malformed header leaves its
// field at zero. Legacy X-RateLimit-* names are accepted as a fallback.
func ParseRateLimit(h http.Header, now time.Time) (RateLimitInfo, bool) {
	limit, okLimit := headerValue(h, HeaderRateLimitLimit, legacyRateLimitLimit)
	remaining, okRemaining := headerValue(h, HeaderRateLimitRemaining, legacyRateLimitRemaining)
	reset, okReset := headerValue(h, HeaderRateLimitReset, legacyRateLimitReset)
	if !okLimit && !okRemaining && !okReset {
		return RateLimitInfo{}, false
	}

	info := RateLimitInfo{UpdatedAt: now}
	info.Limit, _ = strconv.Atoi(limit)
	info.Remaining, _ = strconv.Atoi(remaining)
	if epoch, err := strconv.ParseInt(reset, 10, 64); err == nil && epoch > 0 {
		info.ResetAt = time.Unix(epoch, 0)
	}
	return info, true
}

func headerValue(h http.Header, names ...string) (string, bool) {
	for _, name := range names {
		if vs, ok := h[http.CanonicalHeaderKey(name)]; ok && len(vs) > 0 {
			return strings.TrimSpace(vs[0]), true
		}
	}
	return "", false
}

// RateLimit holds the latest rate-limit observation. Updates replace the
// whole value atomically, so the last response to complete wins. The zero
// value is ready to use.
type RateLimit struct {
	info atomic.Pointer[RateLimitInfo]
	now  func() time.Time
}

// NewRateLimit returns an empty RateLimit.
func NewRateLimit() *RateLimit {
	return &RateLimit{}
}

// DefaultRateLimit is the process-wide state updated by every Client that
// was not given its own.
var DefaultRateLimit = NewRateLimit()

// CurrentRateLimit returns the latest process-wide observation.
func CurrentRateLimit() RateLimitInfo {
	return DefaultRateLimit.Get()
}

// Get returns the latest observation, or the zero value.
func (r *RateLimit) Get() RateLimitInfo {
	if p := r.info.Load(); p != nil {
		return *p
	}
	return RateLimitInfo{}
}

// Set replaces the current observation.
func (r *RateLimit) Set(info RateLimitInfo) {
	r.info.Store(&info)
}

// Update records the rate-limit headers in h. Without any of them the
// state is left alone and Update reports false.
func (r *RateLimit) Update(h http.Header) bool {
	info, ok := ParseRateLimit(h, r.clock())
	if ok {
		r.Set(info)
	}
	return ok
}

// Reset forgets the current observation.
func (r *RateLimit) Reset() {
	r.info.Store(nil)
}

func (r *RateLimit) clock() time.Time {
	if r.now != nil {
		return r.now()
	}
	return time.Now()
}

type rateLimitKey struct{}

// ContextWithRateLimit makes RateLimitTracker record into rl for calls
// made with the returned context.
func ContextWithRateLimit(ctx context.Context, rl *RateLimit) context.Context {
	return context.WithValue(ctx, rateLimitKey{}, rl)
}

func rateLimitFromContext(ctx context.Context) *RateLimit {
	if rl, ok := ctx.Value(rateLimitKey{}).(*RateLimit); ok && rl != nil {
		return rl
	}
	return DefaultRateLimit
}

// RateLimitTracker records the rate-limit headers of every response,
// whatever its status, into State. With a nil State it records into the
// RateLimit carried by the context, or DefaultRateLimit. It never fails
// a call.
type RateLimitTracker struct {
	State *RateLimit
}

func (RateLimitTracker) Name() string { return "rate_limit" }

func (t RateLimitTracker) Wrap(next Handler) Handler {
	return passThrough(next, func(ctx context.Context, req *Request) (*Response, error) {
		resp, err := next.Execute(ctx, req)
		if resp != nil {
			state := t.State
			if state == nil {
				state = rateLimitFromContext(ctx)
			}
			state.Update(resp.Header)
		}
		return resp, err
	})
}
