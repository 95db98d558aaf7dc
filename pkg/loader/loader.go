package loader

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// ErrLengthMismatch reports a BatchFunc that returned a result slice of the
// wrong length. Every key in the offending dispatch fails with an error
// wrapping it.
var ErrLengthMismatch = errors.New("loader: batch result length does not match key count")

// Result is one position of a batch-fetch response. Err set means this key
// (and only this key) failed. A zero Value with a nil Err is a valid "absent"
// result.
type Result[V any] struct {
	Value V
	Err   error
}

// BatchFunc resolves a batch of keys in one call. The returned slice must
// have the same length and order as keys. A non-nil error fails the whole
// dispatch; per-key failures go in the corresponding Result.Err instead.
type BatchFunc[K, V any] func(ctx context.Context, keys []K) ([]Result[V], error)

// Loader coalesces concurrent Load calls into batched fetches and caches the
// settled outcome per key. One instance per unit of work; safe for
// concurrent use within it.
type Loader[K, V any] struct {
	ctx     context.Context
	fetch   BatchFunc[K, V]
	keyFunc func(K) string
	sched   Scheduler
	rec     MetricsRecorder

	mu        sync.Mutex
	cache     map[string]*Thunk[V]
	pending   []pendingFetch[K, V]
	scheduled bool
}

// pendingFetch pairs an original key with the thunk awaiting its result.
// The queue holds at most one entry per normalized key; duplicates are
// absorbed by the cache before they reach it.
type pendingFetch[K, V any] struct {
	key   K
	thunk *Thunk[V]
}

// New constructs a Loader around the given batch function. The context is
// passed to every fetch the Loader dispatches; when it is cancelled,
// in-flight fetches see the cancellation but already-settled thunks are
// unaffected.
func New[K, V any](ctx context.Context, fetch BatchFunc[K, V], opts ...Option[K, V]) *Loader[K, V] {
	l := &Loader[K, V]{
		ctx:     ctx,
		fetch:   fetch,
		keyFunc: func(k K) string { return fmt.Sprintf("%v", k) },
		sched:   After(defaultDelay),
		rec:     &NoOpMetricsRecorder{},
		cache:   make(map[string]*Thunk[V]),
	}
	for _, o := range opts {
		o(l)
	}
	return l
}

// Load returns the handle for key, creating and enqueueing it if this is the
// first request for the key. It never blocks; the returned Thunk settles
// when the batch containing the key is dispatched.
func (l *Loader[K, V]) Load(key K) *Thunk[V] {
	ck := l.keyFunc(key)

	l.mu.Lock()
	if t, ok := l.cache[ck]; ok {
		l.mu.Unlock()
		l.rec.Add("loader.cache_hit", 1, nil)
		return t
	}
	t := newThunk[V]()
	l.cache[ck] = t
	l.pending = append(l.pending, pendingFetch[K, V]{key: key, thunk: t})
	arm := !l.scheduled
	l.scheduled = true
	l.mu.Unlock()

	if arm {
		l.sched.Schedule(l.Dispatch)
	}
	return t
}

// LoadMany issues Load for every key and returns a combined handle whose
// Results preserve input order. One key failing does not affect the others.
func (l *Loader[K, V]) LoadMany(keys []K) *ThunkMany[V] {
	thunks := make([]*Thunk[V], len(keys))
	for i, k := range keys {
		thunks[i] = l.Load(k)
	}
	return &ThunkMany[V]{thunks: thunks}
}

// Prime settles key with value immediately, without a fetch. It is a no-op
// when the key is already cached (settled or pending); use Clear first to
// overwrite.
func (l *Loader[K, V]) Prime(key K, value V) {
	ck := l.keyFunc(key)

	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.cache[ck]; ok {
		return
	}
	t := newThunk[V]()
	t.settle(value, nil)
	l.cache[ck] = t
}

// Clear drops the cached entry for key, so the next Load for it joins a
// fresh batch. Clearing a pending key does not cancel its in-flight fetch;
// the orphaned thunk still settles for any holder already waiting on it.
func (l *Loader[K, V]) Clear(key K) {
	ck := l.keyFunc(key)

	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.cache, ck)
}

// ClearAll empties the cache.
func (l *Loader[K, V]) ClearAll() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.cache = make(map[string]*Thunk[V])
}

// Dispatch drains every pending key accumulated since the previous dispatch
// and resolves them with a single call to the batch function. It is safe to
// call at any time, from any goroutine, and is a no-op when nothing is
// pending. Hosts using the Manual scheduler call this at their
// end-of-unit-of-work boundary; otherwise the scheduler calls it.
func (l *Loader[K, V]) Dispatch() {
	l.mu.Lock()
	batch := l.pending
	l.pending = nil
	l.scheduled = false
	l.mu.Unlock()

	if len(batch) == 0 {
		return
	}

	keys := make([]K, len(batch))
	for i, p := range batch {
		keys[i] = p.key
	}

	l.rec.Add("loader.dispatch", 1, nil)
	l.rec.Observe("loader.batch_size", float64(len(keys)), nil)

	results, err := l.fetch(l.ctx, keys)
	if err == nil && len(results) != len(keys) {
		err = fmt.Errorf("%w: got %d results for %d keys", ErrLengthMismatch, len(results), len(keys))
	}
	if err != nil {
		for _, p := range batch {
			var zero V
			p.thunk.settle(zero, err)
		}
		return
	}
	for i, p := range batch {
		p.thunk.settle(results[i].Value, results[i].Err)
	}
}
