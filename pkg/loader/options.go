package loader

// Option configures a Loader at construction time.
type Option[K, V any] func(*Loader[K, V])

// WithKeyFunc sets the normalization function used for cache identity and
// batch de-duplication. Keys whose normalized forms are equal are treated as
// the same key. The default is fmt.Sprintf("%v", key), which is fine for
// scalars; composite key types should install something unambiguous here.
func WithKeyFunc[K, V any](fn func(K) string) Option[K, V] {
	return func(l *Loader[K, V]) {
		l.keyFunc = fn
	}
}

// WithScheduler replaces the default delay-based scheduler. See After and
// Manual.
func WithScheduler[K, V any](s Scheduler) Option[K, V] {
	return func(l *Loader[K, V]) {
		l.sched = s
	}
}

// WithRecorder injects a metrics backend. The default recorder discards
// everything.
func WithRecorder[K, V any](r MetricsRecorder) Option[K, V] {
	return func(l *Loader[K, V]) {
		l.rec = r
	}
}
