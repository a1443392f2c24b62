package ratelimit

import (
	"math"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// KeyFunc extracts the bucket key of a request.
type KeyFunc func(r *http.Request) string

// RejectFunc writes the response for a throttled request.
type RejectFunc func(w http.ResponseWriter, r *http.Request, retryAfter time.Duration)

// Options configures Middleware.
type Options struct {
	Store  *Store
	KeyFn  KeyFunc
	Reject RejectFunc
}

// ClientIP keys requests by remote address. Put chi's RealIP in front of the
// middleware to honour proxy headers.
func ClientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(strings.TrimSpace(r.RemoteAddr))
	if err == nil && host != "" {
		return host
	}
	if r.RemoteAddr != "" {
		return r.RemoteAddr
	}
	return "unknown"
}

// RetryAfterSeconds formats d as a Retry-After value, at least one second.
func RetryAfterSeconds(d time.Duration) string {
	secs := int(math.Ceil(d.Seconds()))
	if secs < 1 {
		secs = 1
	}
	return strconv.Itoa(secs)
}

func defaultReject(w http.ResponseWriter, _ *http.Request, _ time.Duration) {
	http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
}

// Middleware rejects requests whose key has no token left. The Retry-After
// header is always set on rejection.
func Middleware(opts Options) func(next http.Handler) http.Handler {
	if opts.KeyFn == nil {
		opts.KeyFn = ClientIP
	}
	if opts.Reject == nil {
		opts.Reject = defaultReject
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if opts.Store == nil {
				next.ServeHTTP(w, r)
				return
			}
			res := opts.Store.Get(opts.KeyFn(r)).Reserve()
			if delay := res.Delay(); !res.OK() || delay > 0 {
				res.Cancel()
				if delay <= 0 || delay == rate.InfDuration {
					delay = time.Second
				}
				w.Header().Set("Retry-After", RetryAfterSeconds(delay))
				opts.Reject(w, r, delay)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
