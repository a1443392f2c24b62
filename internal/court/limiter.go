package court

import (
	"context"

	"github.com/hyperjump/juris/pkg/ratelimit"
)

// HostLimiter paces requests per court host so that concurrent runs do not
// hammer the same site.
type HostLimiter struct {
	store *ratelimit.Store
}

// NewHostLimiter creates a limiter allowing rps requests per second per host
// with the given burst. rps <= 0 disables limiting.
func NewHostLimiter(rps float64, burst int, opts ...ratelimit.StoreOption) *HostLimiter {
	return &HostLimiter{store: ratelimit.NewStore(rps, burst, opts...)}
}

// Wait blocks until a request to host is allowed or ctx is done.
func (h *HostLimiter) Wait(ctx context.Context, host string) error {
	return h.store.Get(host).Wait(ctx)
}

// Len returns the number of tracked hosts.
func (h *HostLimiter) Len() int {
	return h.store.Len()
}

// StartJanitor drops idle host buckets periodically until ctx is done.
func (h *HostLimiter) StartJanitor(ctx context.Context) {
	h.store.StartJanitor(ctx)
}
