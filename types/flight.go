package types

/*
Flight is the handle for one in-flight computation.

Every caller that needs the same key while the computation is running
waits on the same Flight instead of invoking the producer again. The
handle settles exactly once; waiters that arrive after it settles observe
the outcome immediately.
*/
type Flight[V any] struct {
	done  chan struct{}
	value V
	err   error
}

// NewFlight returns an unsettled flight.
func NewFlight[V any]() *Flight[V] {
	return &Flight[V]{done: make(chan struct{})}
}

/*
Complete settles the flight with its outcome. It must be called exactly
once, by the goroutine that ran the producer.

The outcome fields are written before the done channel is closed, so any
waiter released by Done observes them fully.
*/
func (f *Flight[V]) Complete(value V, err error) {
	f.value = value
	f.err = err
	close(f.done)
}

// Done returns a channel that is closed when the flight settles. It is
// what callers race against their timeout.
func (f *Flight[V]) Done() <-chan struct{} {
	return f.done
}

// Result returns the flight's outcome. Valid only after Done is closed.
func (f *Flight[V]) Result() (V, error) {
	return f.value, f.err
}
