// Package loader provides a generic deferred batching and caching loader for
// coalescing concurrent point-lookups into bulk fetches.
//
// The primary entry point is Loader:
//
//	l := loader.New(ctx, fetchUsers)
//	thunk := l.Load("user_42")
//	user, err := thunk.Value()
//
// Load returns immediately with a Thunk (an asynchronous result handle); the
// actual fetch runs later, once, for every key requested since the previous
// dispatch.
//
// # Overview
//
// The classic N+1 problem: a request handler resolves a list of N records,
// then resolves one association per record, issuing N single-key queries
// where one bulk query would do. A Loader fixes this by deferring each
// single-key lookup:
//
//   - Load(key) enqueues the key and returns a Thunk without blocking.
//   - All keys enqueued within one unit of work are drained into a single
//     call to the caller-supplied BatchFunc.
//   - Each Thunk settles exactly once with its key's value or error.
//
// Settled results are cached for the lifetime of the Loader, so repeated
// Load calls for the same key cost nothing and contribute only one entry to
// the outgoing batch.
//
// # Lifecycle
//
// A Loader is cheap to construct and meant to be scoped to a single unit of
// work, typically one inbound request. Create one per request, discard it
// when the request completes. Do not share a Loader across requests: its
// cache never expires, so a long-lived instance serves stale data.
//
// # Scheduling
//
// When the first key of a batch is enqueued, the Loader asks its Scheduler
// to arrange a flush. The default scheduler fires after a short delay
// (After(time.Millisecond)), which in practice collects every Load issued by
// one resolution pass. Hosts that have an explicit "end of unit of work"
// boundary can install Manual() and call Dispatch themselves. Scheduling is
// idempotent: only the first Load of a pending batch arms the flush.
//
// # Error Semantics
//
// Two failure shapes, deliberately distinct:
//
//   - The BatchFunc returns a non-nil error: the whole dispatch failed, and
//     every Thunk in it settles with that same error.
//   - The BatchFunc succeeds but marks one position with Result.Err: only
//     that key's Thunk fails; the others settle normally.
//
// A nil/zero Result.Value with a nil Result.Err is a valid settled value
// ("not found"), never a failure.
//
// Failed Thunks stay cached like successful ones. Loading a key whose fetch
// already failed returns the same failed Thunk again; it is not retried.
// Retry requires an explicit Clear(key) first. This is intentional: within
// one request, a datum that failed to load once should not silently cost a
// second round trip per resolver that touches it.
//
// # Concurrency
//
// A Loader is safe for concurrent use by multiple goroutines. The pending
// queue and cache are guarded by a mutex; the BatchFunc itself runs outside
// the lock, so Load calls issued while a fetch is in flight simply start the
// next batch. There is no cancellation: abandoning a Thunk does not stop the
// underlying fetch.
//
// # Keys
//
// Cache identity and batch de-duplication use a normalized string form of
// the key, produced by the key function (default: fmt.Sprintf("%v", key)).
// Composite key types whose default formatting is ambiguous should install
// an explicit WithKeyFunc. The BatchFunc always receives original keys, not
// normalized ones.
package loader
