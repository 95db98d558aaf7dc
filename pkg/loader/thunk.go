package loader

// Thunk is an asynchronous result handle. It settles exactly once, to either
// a value or an error, and stays settled; every holder observes the same
// outcome.
type Thunk[V any] struct {
	done  chan struct{}
	value V
	err   error
}

func newThunk[V any]() *Thunk[V] {
	return &Thunk[V]{done: make(chan struct{})}
}

// settle publishes the outcome. Must be called exactly once.
func (t *Thunk[V]) settle(v V, err error) {
	t.value = v
	t.err = err
	close(t.done)
}

// Value blocks until the thunk settles, then returns its outcome. Repeated
// calls return the same result without blocking.
func (t *Thunk[V]) Value() (V, error) {
	<-t.done
	return t.value, t.err
}

// Settled reports whether the thunk has an outcome, without blocking.
func (t *Thunk[V]) Settled() bool {
	select {
	case <-t.done:
		return true
	default:
		return false
	}
}

// ThunkMany is the handle returned by LoadMany: one position per input key,
// in input order.
type ThunkMany[V any] struct {
	thunks []*Thunk[V]
}

// Results blocks until every position settles, then returns them. A position
// whose key failed carries its error in Result.Err; the other positions are
// unaffected.
func (m *ThunkMany[V]) Results() []Result[V] {
	out := make([]Result[V], len(m.thunks))
	for i, t := range m.thunks {
		out[i].Value, out[i].Err = t.Value()
	}
	return out
}
