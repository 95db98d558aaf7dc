package limiter

import "time"

type settings struct {
	clock    func() time.Time
	rec      MetricsRecorder
	onDenied func(identity string)
	idleTTL  time.Duration
}

func defaultSettings() settings {
	return settings{
		clock:   time.Now,
		rec:     &NoOpMetricsRecorder{},
		idleTTL: 5 * time.Minute,
	}
}

// Option configures a limiter at construction time.
type Option func(*settings)

// WithClock replaces the time source. Tests use this to advance time
// deterministically instead of sleeping.
func WithClock(now func() time.Time) Option {
	return func(s *settings) {
		s.clock = now
	}
}

// WithRecorder injects a metrics backend. The default recorder discards
// everything.
func WithRecorder(r MetricsRecorder) Option {
	return func(s *settings) {
		s.rec = r
	}
}

// WithOnDenied sets a hook invoked on every denied Check, outside the
// limiter's lock. Used for logging or counters keyed by offender.
func WithOnDenied(fn func(identity string)) Option {
	return func(s *settings) {
		s.onDenied = fn
	}
}

// WithIdleTTL controls how long TokenBucket keeps an identity that has
// stopped sending requests before Cleanup evicts it. FixedWindow ignores
// this; its entries carry their own expiry.
func WithIdleTTL(d time.Duration) Option {
	return func(s *settings) {
		s.idleTTL = d
	}
}
