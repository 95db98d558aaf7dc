package limiter

import (
	"context"
	"sync"
	"testing"
	"time"
)

// fakeClock is a manually advanced time source for deterministic expiry
// tests.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func TestFixedWindow_Check_Basics(t *testing.T) {
	l := NewFixedWindow(3, time.Minute)

	for i := 0; i < 3; i++ {
		if !l.Check("ip1") {
			t.Fatalf("Request %d was unexpectedly denied", i)
		}
	}
	if l.Check("ip1") {
		t.Error("The 4th request should have been denied (max=3), but was allowed")
	}
	if !l.Check("ip2") {
		t.Error("ip2 should be independent of ip1's exhausted window")
	}
}

func TestFixedWindow_Remaining(t *testing.T) {
	l := NewFixedWindow(3, time.Minute)

	if got := l.Remaining("fresh"); got != 3 {
		t.Fatalf("Expected full budget before any Check, got %d", got)
	}
	// pure read: asking must not create a window
	if n := l.Len(); n != 0 {
		t.Fatalf("Remaining should not create state, found %d windows", n)
	}

	l.Check("fresh")
	if got := l.Remaining("fresh"); got != 2 {
		t.Fatalf("Expected 2 remaining after one Check, got %d", got)
	}
	// and asking twice changes nothing
	if got := l.Remaining("fresh"); got != 2 {
		t.Fatalf("Remaining mutated state: got %d on second read", got)
	}
}

func TestFixedWindow_DeniedCallsDoNotCount(t *testing.T) {
	clock := newFakeClock()
	l := NewFixedWindow(2, time.Minute, WithClock(clock.Now))

	l.Check("ip1")
	l.Check("ip1")
	for i := 0; i < 5; i++ {
		if l.Check("ip1") {
			t.Fatal("Expected denial past the max")
		}
	}
	if got := l.Remaining("ip1"); got != 0 {
		t.Fatalf("Denied calls must leave the count alone, remaining=%d", got)
	}

	// the hammering above must not have extended or poisoned the window
	clock.Advance(time.Minute + time.Second)
	if !l.Check("ip1") {
		t.Fatal("Expected a fresh window after expiry")
	}
	if got := l.Remaining("ip1"); got != 1 {
		t.Fatalf("New cycle must start at count 1, remaining=%d", got)
	}
}

func TestFixedWindow_ExpiryResetsCount(t *testing.T) {
	clock := newFakeClock()
	l := NewFixedWindow(3, time.Minute, WithClock(clock.Now))

	for i := 0; i < 3; i++ {
		l.Check("ip1")
	}
	if l.Check("ip1") {
		t.Fatal("Window should be exhausted")
	}

	clock.Advance(61 * time.Second)

	if !l.Check("ip1") {
		t.Fatal("Expected the first request of the new cycle to be allowed")
	}
	if got := l.Remaining("ip1"); got != 2 {
		t.Fatalf("Prior cycle's count leaked into the new window, remaining=%d", got)
	}
}

func TestFixedWindow_ExpiryBoundary(t *testing.T) {
	// a window is active through resetAt itself, expired only strictly after
	clock := newFakeClock()
	l := NewFixedWindow(1, time.Minute, WithClock(clock.Now))

	l.Check("ip1")

	clock.Advance(time.Minute)
	if l.Check("ip1") {
		t.Error("At exactly resetAt the window is still active and exhausted")
	}

	clock.Advance(time.Nanosecond)
	if !l.Check("ip1") {
		t.Error("Strictly past resetAt the window is expired")
	}
}

func TestFixedWindow_Cleanup(t *testing.T) {
	clock := newFakeClock()
	l := NewFixedWindow(5, time.Minute, WithClock(clock.Now))

	l.Check("old")
	clock.Advance(2 * time.Minute)
	l.Check("active")
	l.Check("active")

	l.Cleanup()

	if n := l.Len(); n != 1 {
		t.Fatalf("Expected only the expired window to be removed, %d windows left", n)
	}
	if got := l.Remaining("active"); got != 3 {
		t.Fatalf("Cleanup must not touch active windows' counts, remaining=%d", got)
	}
	if got := l.Remaining("old"); got != 5 {
		t.Fatalf("Evicted identity should read as a full budget, remaining=%d", got)
	}
}

func TestFixedWindow_ResetAt(t *testing.T) {
	clock := newFakeClock()
	l := NewFixedWindow(1, time.Minute, WithClock(clock.Now))

	if _, ok := l.ResetAt("ip1"); ok {
		t.Fatal("No window yet, ResetAt should report false")
	}

	l.Check("ip1")
	at, ok := l.ResetAt("ip1")
	if !ok {
		t.Fatal("Expected an active window")
	}
	if want := clock.Now().Add(time.Minute); !at.Equal(want) {
		t.Fatalf("Expected reset at %v, got %v", want, at)
	}

	clock.Advance(2 * time.Minute)
	if _, ok := l.ResetAt("ip1"); ok {
		t.Fatal("Expired window should read as absent")
	}
}

func TestFixedWindow_Sweep(t *testing.T) {
	l := NewFixedWindow(1, 5*time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	l.Check("ip1")
	go Sweep(ctx, l, 5*time.Millisecond)

	deadline := time.After(2 * time.Second)
	for l.Len() != 0 {
		select {
		case <-deadline:
			t.Fatal("Sweep never evicted the expired window")
		case <-time.After(5 * time.Millisecond):
		}
	}
}

// Race test
func TestFixedWindow_ThreadSafety(t *testing.T) {
	l := NewFixedWindow(100, time.Minute)

	var wg sync.WaitGroup
	wg.Add(100)
	for i := 0; i < 100; i++ {
		go func() {
			defer wg.Done()
			l.Check("ip1")
			l.Remaining("ip1")
		}()
	}
	wg.Wait()

	if l.Check("ip1") {
		t.Error("Expected the window to be exhausted after 100 concurrent requests, but the 101st was allowed")
	}
}

func BenchmarkFixedWindow_Check(b *testing.B) {
	l := NewFixedWindow(1<<30, time.Minute)

	for i := 0; i < b.N; i++ {
		l.Check("ip1")
	}
}
