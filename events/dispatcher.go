package events

import (
	"sync"
	"sync/atomic"
)

/*
Dispatcher delivers events to an Observer asynchronously.

Emitting must never slow the cache down, so events are pushed into a
buffered channel and handed to the observer by a single background worker.
If the buffer is full, the event is DROPPED rather than blocking the
emitter. Observability loses a data point; the cache stays fast.
*/
type Dispatcher struct {

	// obs receives the events, on the worker goroutine.
	obs Observer

	// ch is the buffered queue between emitters and the worker.
	//
	// Buffering is important:
	// - Allows bursts of events without blocking
	// - Keeps emit a non-blocking operation
	ch chan Event

	// quit is closed once to begin shutdown. The send channel is never
	// closed: background computations may still emit after Close, and a
	// send on a closed channel would panic.
	quit chan struct{}

	// done is closed when the worker has drained and exited.
	done chan struct{}

	// dropped counts events discarded because the buffer was full.
	dropped atomic.Uint64

	closeOnce sync.Once
}

// DefaultBuffer is the queue size used when the caller does not pick one.
const DefaultBuffer = 256

/*
NewDispatcher creates a dispatcher and starts its worker. A nil observer
is replaced with one that ignores everything, for the same reason the
cache substitutes NoopMetrics: no nil checks on the emit path.
*/
func NewDispatcher(obs Observer, buffer int) *Dispatcher {
	if obs == nil {
		obs = func(Event) {}
	}
	if buffer < 1 {
		buffer = DefaultBuffer
	}

	d := &Dispatcher{
		obs:  obs,
		ch:   make(chan Event, buffer),
		quit: make(chan struct{}),
		done: make(chan struct{}),
	}

	// Start one background worker
	go d.worker()

	return d
}

/*
Emit queues an event for delivery. It never blocks:
- after Close, the event is discarded
- when the buffer is full, the event is dropped and counted
*/
func (d *Dispatcher) Emit(ev Event) {
	select {
	case <-d.quit:
		return
	default:
	}

	select {
	case d.ch <- ev:
		// queued successfully
	default:
		// intentional drop under pressure
		d.dropped.Add(1)
	}
}

/*
worker runs in the background and hands queued events to the observer,
one at a time, preserving emit order. On shutdown it drains whatever is
already queued before exiting.
*/
func (d *Dispatcher) worker() {
	defer close(d.done)

	for {
		select {
		case ev := <-d.ch:
			d.obs(ev)
		case <-d.quit:
			for {
				select {
				case ev := <-d.ch:
					d.obs(ev)
				default:
					return
				}
			}
		}
	}
}

// Dropped returns how many events were discarded because the buffer was
// full.
func (d *Dispatcher) Dropped() uint64 {
	return d.dropped.Load()
}

/*
Close shuts the dispatcher down gracefully: queued events are delivered,
then the worker exits. Events emitted after Close are silently discarded.
Close is idempotent and safe to call from multiple goroutines.
*/
func (d *Dispatcher) Close() {
	d.closeOnce.Do(func() {
		close(d.quit)
	})
	<-d.done
}
