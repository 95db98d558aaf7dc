package limiter

import (
	"sync"
	"time"
)

// window is one identity's live quota cycle. Expired means now is strictly
// after resetAt; an expired window is never read as active, it is replaced
// lazily on the next Check.
type window struct {
	count   int
	resetAt time.Time
}

// FixedWindow is an in-process fixed-window rate limiter: max calls per
// identity per window of the configured duration, counted from the
// identity's first call of the cycle.
//
// It is safe for concurrent use by multiple goroutines, but its state is
// local to the process and is not shared across replicas.
type FixedWindow struct {
	mu      sync.Mutex
	max     int
	length  time.Duration
	s       settings
	windows map[string]*window
}

// NewFixedWindow constructs a FixedWindow admitting max calls per identity
// per window of the given length.
func NewFixedWindow(max int, length time.Duration, opts ...Option) *FixedWindow {
	s := defaultSettings()
	for _, o := range opts {
		o(&s)
	}
	return &FixedWindow{
		max:     max,
		length:  length,
		s:       s,
		windows: make(map[string]*window),
	}
}

// Check admits or denies one call for identity. The first call of a cycle
// (no window yet, or the previous one expired) starts a fresh window with
// count 1. Within an active window calls are admitted until count reaches
// max; past that they are denied and the count stays put, so denied calls
// never eat into the next cycle's budget.
func (l *FixedWindow) Check(identity string) bool {
	l.mu.Lock()

	now := l.s.clock()
	w, ok := l.windows[identity]
	switch {
	case !ok || now.After(w.resetAt):
		l.windows[identity] = &window{count: 1, resetAt: now.Add(l.length)}
	case w.count < l.max:
		w.count++
	default:
		l.mu.Unlock()
		// hooks may do slow work, keep them off the lock
		l.s.rec.Add("ratelimit.denied", 1, nil)
		if l.s.onDenied != nil {
			l.s.onDenied(identity)
		}
		return false
	}

	l.mu.Unlock()
	l.s.rec.Add("ratelimit.allowed", 1, nil)
	return true
}

// Remaining returns how many calls identity has left in its current window.
// It is a pure read: no window is created, extended, or replaced. An
// identity with no window, or only an expired one, has the full budget.
func (l *FixedWindow) Remaining(identity string) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	w, ok := l.windows[identity]
	if !ok || l.s.clock().After(w.resetAt) {
		return l.max
	}
	return l.max - w.count
}

// Cleanup removes every expired window. Active windows and their counts are
// untouched.
func (l *FixedWindow) Cleanup() {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.s.clock()
	for identity, w := range l.windows {
		if now.After(w.resetAt) {
			delete(l.windows, identity)
		}
	}
}

// Len reports how many windows are currently held, expired ones included.
func (l *FixedWindow) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.windows)
}

// ResetAt returns the end of identity's current window and true, or the zero
// time and false when the identity has no active window. Callers use it to
// derive a Retry-After hint for denied requests.
func (l *FixedWindow) ResetAt(identity string) (time.Time, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	w, ok := l.windows[identity]
	if !ok || l.s.clock().After(w.resetAt) {
		return time.Time{}, false
	}
	return w.resetAt, true
}
