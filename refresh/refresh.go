// This package owns the life of an in-flight computation.
// A computation is started because no fresh value existed; from that point
// on it belongs to the cache, not to the caller that triggered it. The goal
// is: "the producer's result reaches the store even if nobody is waiting".

package refresh

import (
	"fmt"
	"log/slog"

	"github.com/krisalay/swr-cache/clock"
	"github.com/krisalay/swr-cache/events"
	"github.com/krisalay/swr-cache/store"
	"github.com/krisalay/swr-cache/types"
)

/*
Engine starts, joins, and settles computations.

It guarantees:
- at most one computation per key under the normal flow (losers of the
  attach race join the winner's flight instead of invoking the producer)
- a forced computation always runs, replacing the pending handle so later
  joiners wait on the newest attempt
- a successful computation publishes to the store and clears its handle
  before waiters are released
- a failed computation clears its handle without writing, so the next
  call can retry
*/
type Engine[V any] struct {
	store   *store.Store[V]
	clock   clock.Clock
	metrics types.Metrics
	logger  *slog.Logger
	events  *events.Dispatcher
}

// NewEngine wires the engine to the store it publishes into. All
// collaborators must be non-nil; the cache constructor guarantees that.
func NewEngine[V any](
	st *store.Store[V],
	clk clock.Clock,
	metrics types.Metrics,
	logger *slog.Logger,
	dispatcher *events.Dispatcher,
) *Engine[V] {
	return &Engine[V]{
		store:   st,
		clock:   clk,
		metrics: metrics,
		logger:  logger,
		events:  dispatcher,
	}
}

/*
Launch returns the flight the caller should wait on.

Normal flow: try to attach a new handle. If another computation is already
pending for the key, that handle is returned instead and NO producer runs
for this call; the caller has joined the existing attempt.

Forced flow: the new handle unconditionally replaces whatever was pending.
A superseded computation keeps running; whichever settles later performs
the later store write.
*/
func (e *Engine[V]) Launch(key string, producer types.Producer[V], force bool) *types.Flight[V] {
	f := types.NewFlight[V]()

	if force {
		e.store.ReplacePending(key, f)
	} else {
		attached, started := e.store.AttachPending(key, f)
		if !started {
			return attached
		}
	}

	e.metrics.Refresh()
	e.events.Emit(events.Event{Type: events.RefreshStarted, Key: key})

	go e.run(key, f, producer)

	return f
}

/*
run executes the producer and settles the flight. It runs on its own
goroutine and never stops early: a caller abandoning its wait has no
effect here.

Order matters on success: the value is published and the handle detached
BEFORE the flight completes, so a waiter released by Done always finds the
store already updated and the pending slot already clear.
*/
func (e *Engine[V]) run(key string, f *types.Flight[V], producer types.Producer[V]) {
	value, err := e.call(producer)

	if err != nil {
		// No value is written. Detaching (identity-guarded) lets the
		// next call retry; if a forced flight replaced us meanwhile,
		// the detach is a no-op and the newer attempt keeps the slot.
		e.store.DetachPending(key, f)
		e.metrics.Failure()
		e.logger.Warn("swrcache: producer failed", "key", key, "error", err)
		e.events.Emit(events.Event{Type: events.RefreshFailed, Key: key, Err: err})

		var zero V
		f.Complete(zero, err)
		return
	}

	e.store.Set(key, value, e.clock.Now())
	e.store.DetachPending(key, f)
	e.events.Emit(events.Event{Type: events.RefreshSucceeded, Key: key})

	f.Complete(value, nil)
}

// call invokes the producer, converting a panic into an error so a
// misbehaving producer can never leave its flight unsettled and wedge the
// key forever.
func (e *Engine[V]) call(producer types.Producer[V]) (value V, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("producer panic: %v", r)
		}
	}()
	return producer()
}
