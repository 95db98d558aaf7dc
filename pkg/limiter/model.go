package limiter

import (
	"context"
	"time"
)

// Limiter admits or denies calls for an identity under a quota. The identity
// is an opaque string supplied by the caller (a client address, a user id);
// the limiter assigns no meaning to its contents.
type Limiter interface {
	// Check reports whether this call is admitted. Denied calls are not
	// counted against the quota.
	Check(identity string) bool

	// Remaining returns the budget left for identity without consuming any.
	Remaining(identity string) int

	// Cleanup removes dead per-identity state. Purely memory bounding;
	// Check and Remaining are correct without it.
	Cleanup()
}

// Sweep runs l.Cleanup every interval until ctx is done. Run it on its own
// goroutine for long-lived limiters so idle identities do not accumulate:
//
//	go limiter.Sweep(ctx, l, time.Minute)
func Sweep(ctx context.Context, l Limiter, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			l.Cleanup()
		}
	}
}
