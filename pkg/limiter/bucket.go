package limiter

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// visitor tracks a single identity's bucket and last activity.
type visitor struct {
	lim      *rate.Limiter
	lastSeen time.Time
}

// TokenBucket is an in-process token-bucket rate limiter built on
// golang.org/x/time/rate: each identity refills at perSecond tokens per
// second up to a capacity of burst, and every admitted call costs one token.
//
// Same Check/Remaining/Cleanup contract as FixedWindow, but with continuous
// refill instead of hard window edges. Cleanup evicts identities idle longer
// than the configured IdleTTL, since buckets carry no expiry of their own.
type TokenBucket struct {
	mu       sync.Mutex
	limit    rate.Limit
	burst    int
	s        settings
	visitors map[string]*visitor
}

// NewTokenBucket constructs a TokenBucket refilling at perSecond with a
// capacity of burst.
func NewTokenBucket(perSecond float64, burst int, opts ...Option) *TokenBucket {
	s := defaultSettings()
	for _, o := range opts {
		o(&s)
	}
	return &TokenBucket{
		limit:    rate.Limit(perSecond),
		burst:    burst,
		s:        s,
		visitors: make(map[string]*visitor),
	}
}

// Check admits the call if identity's bucket holds at least one token, and
// consumes it. A denied call consumes nothing.
func (l *TokenBucket) Check(identity string) bool {
	l.mu.Lock()

	now := l.s.clock()
	v, ok := l.visitors[identity]
	if !ok {
		v = &visitor{lim: rate.NewLimiter(l.limit, l.burst)}
		l.visitors[identity] = v
	}
	v.lastSeen = now
	allowed := v.lim.AllowN(now, 1)

	l.mu.Unlock()

	if !allowed {
		l.s.rec.Add("ratelimit.denied", 1, nil)
		if l.s.onDenied != nil {
			l.s.onDenied(identity)
		}
		return false
	}
	l.s.rec.Add("ratelimit.allowed", 1, nil)
	return true
}

// Remaining returns the whole tokens identity has available right now,
// without consuming any. An unknown identity has a full bucket.
func (l *TokenBucket) Remaining(identity string) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	v, ok := l.visitors[identity]
	if !ok {
		return l.burst
	}
	tokens := int(v.lim.TokensAt(l.s.clock()))
	if tokens < 0 {
		return 0
	}
	if tokens > l.burst {
		return l.burst
	}
	return tokens
}

// Cleanup evicts identities that have been idle longer than the IdleTTL.
// Their next call simply recreates a full bucket.
func (l *TokenBucket) Cleanup() {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.s.clock()
	for identity, v := range l.visitors {
		if now.Sub(v.lastSeen) > l.s.idleTTL {
			delete(l.visitors, identity)
		}
	}
}

// Len reports how many identities are currently tracked.
func (l *TokenBucket) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.visitors)
}
