// Package limiter provides in-process, keyed rate limiting for callers
// identified by an opaque string.
//
// The primary entry point is the Limiter interface:
//
//	if !l.Check(identity) {
//		// deny, optionally with a Retry-After hint
//	}
//
// Check returns a plain boolean decision. Rate limiting here is never an
// error condition: a denied call returns false, and the caller decides how
// to surface that (for HTTP, typically 429 with a Retry-After header).
//
// # Strategies
//
// The package provides two implementations with the same Check API:
//
//   - FixedWindow: a counter per identity over a window of fixed duration.
//     The window starts at the identity's first request and expires at a
//     fixed offset; on expiry the next request starts a fresh window. Simple
//     to reason about and to explain to clients ("N requests per minute"),
//     at the cost of permitting up to 2N-1 requests across one window
//     boundary.
//
//   - TokenBucket: built on golang.org/x/time/rate. Each identity holds a
//     bucket that refills continuously; bursts up to the bucket capacity are
//     absorbed while the long-term average rate is enforced. Prefer this
//     when smoothing matters more than an explainable fixed quota.
//
// Both are process-local. State is not shared between replicas, so each
// instance enforces its own budget; put a distributed limiter in front when
// you need a single global quota.
//
// # Decision Semantics
//
//   - Check(identity) reports whether this call is admitted. A denied call
//     is not counted against the quota: once an identity recovers, it has
//     exactly as much budget as if the denied calls never happened.
//   - Remaining(identity) is a pure read of the budget left in the current
//     window (or bucket); it never mutates state. An identity with no live
//     state reports the full quota.
//
// # Expiry and Memory
//
// Expiry is lazy: Check and Remaining treat a window whose reset time has
// passed as absent, so correctness never depends on anything running in the
// background. What lazy expiry does not do is bound memory - an identity
// that stops sending requests leaves its entry in the map forever. Cleanup
// removes expired (or idle, for TokenBucket) entries; the Sweep helper runs
// Cleanup on an interval until its context is cancelled:
//
//	go limiter.Sweep(ctx, l, time.Minute)
//
// # Lifecycle and Concurrency
//
// Limiters are plain constructed values with no package-level state: build
// one at startup, pass it to the call sites that need it, and build as many
// independent instances in tests as you like. Both implementations are safe
// for concurrent use by multiple goroutines (a mutex guards the identity
// map); different identities are fully independent.
//
// # Configuration
//
// Constructors take the quota directly and accept Functional Options for
// the rest:
//
//	l := limiter.NewFixedWindow(100, time.Minute,
//		limiter.WithOnDenied(func(id string) { log.Printf("limited: %s", id) }),
//		limiter.WithRecorder(myMetrics),
//	)
//
// Supported options:
//
//   - WithClock(func() time.Time): Replaces the time source, for
//     deterministic tests.
//   - WithRecorder(MetricsRecorder): Injects a custom metrics backend.
//   - WithOnDenied(func(identity string)): Observation hook invoked on every
//     denied call, outside the limiter's lock.
//   - WithIdleTTL(time.Duration): How long TokenBucket keeps an idle
//     identity before Cleanup evicts it (default 5m). FixedWindow ignores
//     it; its entries expire with their window.
package limiter
