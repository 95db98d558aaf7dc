package loader

import "time"

// defaultDelay is long enough to collect every Load issued by one resolution
// pass and short enough to be invisible next to any real backend round trip.
const defaultDelay = time.Millisecond

// Scheduler decides when a pending batch gets flushed. The Loader calls
// Schedule once per batch, when the batch's first key is enqueued; the
// scheduler must eventually invoke flush exactly once (or never, for manual
// dispatch).
type Scheduler interface {
	Schedule(flush func())
}

type afterScheduler struct {
	d time.Duration
}

// After returns a Scheduler that runs the flush on its own goroutine once d
// has elapsed. This is the default; it approximates "after the current unit
// of work finishes enqueueing".
func After(d time.Duration) Scheduler {
	return afterScheduler{d: d}
}

func (s afterScheduler) Schedule(flush func()) {
	time.AfterFunc(s.d, flush)
}

type manualScheduler struct{}

// Manual returns a Scheduler that never fires. The host owns the batch
// boundary and must call Loader.Dispatch itself.
func Manual() Scheduler {
	return manualScheduler{}
}

func (manualScheduler) Schedule(func()) {}
