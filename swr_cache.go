package cache

import (
	"context"
	"log/slog"
	"time"

	"github.com/krisalay/swr-cache/api"
	"github.com/krisalay/swr-cache/clock"
	"github.com/krisalay/swr-cache/events"
	"github.com/krisalay/swr-cache/refresh"
	"github.com/krisalay/swr-cache/store"
	"github.com/krisalay/swr-cache/types"
)

/*
SWRCache is the main cache implementation: a keyed, asynchronous
memoization cache with stale-while-revalidate semantics.
This struct is the orchestrator that connects:
- the sharded entry store
- in-flight computation coordination
- the timeout race
- metrics, events and logging

It guarantees that a caller never blocks beyond its timeout, that
concurrent callers for the same key share one producer invocation, and
that a computation keeps running and publishes its result even after
every caller has given up waiting on it.
*/
type SWRCache[V any] struct {
	// store is the only shared mutable state: key → entry bookkeeping.
	store *store.Store[V]

	// refresh starts, joins and settles in-flight computations.
	refresh *refresh.Engine[V]

	// clock is the injectable time source for freshness and timeouts.
	clock clock.Clock

	metrics types.Metrics
	events  *events.Dispatcher
	logger  *slog.Logger
}

var _ api.Cache[string] = (*SWRCache[string])(nil)

// New assembles a cache. Defaults: system clock, no-op metrics, discarded
// logs, no observer. See the With* options.
func New[V any](opts ...Option) *SWRCache[V] {
	s := defaultSettings()
	for _, opt := range opts {
		opt(&s)
	}

	st := store.New[V](s.shards)
	dispatcher := events.NewDispatcher(s.observer, s.eventBuffer)

	return &SWRCache[V]{
		store:   st,
		refresh: refresh.NewEngine(st, s.clock, s.metrics, s.logger, dispatcher),
		clock:   s.clock,
		metrics: s.metrics,
		events:  dispatcher,
		logger:  s.logger,
	}
}

/*
GetOrCompute returns the value for key, invoking producer only when no
fresh value can be served.

Decision per call:
1. Validate options; negative durations fail fast, never clamped.
2. Fresh hit (value exists, within opts.ExpiresIn, no force): return it.
3. Otherwise join the pending computation or start a new one.
4. Race the computation against opts.Timeout and ctx. If the timeout wins,
   fall back to the pre-call snapshot: the old value (marked Expired when
   actually stale) or Found=false when the key held nothing. The
   computation is never cancelled; it publishes when it settles.

A producer failure is returned as an error only to callers actively
waiting on that attempt.
*/
func (c *SWRCache[V]) GetOrCompute(ctx context.Context, key string, producer types.Producer[V], opts api.Options) (types.Result[V], error) {
	if err := opts.Validate(); err != nil {
		return types.Result[V]{}, err
	}

	prior, ok := c.store.Get(key)

	// Fresh hit: serve from the store, producer never runs.
	if ok && !opts.ForceRefresh && prior.Fresh(opts.ExpiresIn, c.clock.Now()) {
		c.metrics.Hit()
		c.events.Emit(events.Event{Type: events.Hit, Key: key})
		return types.Result[V]{Value: prior.Value, Found: true}, nil
	}

	flight := c.refresh.Launch(key, producer, opts.ForceRefresh)

	// A nil channel never receives, so with no timeout configured the
	// select below waits on the flight (and ctx) alone.
	var timeout <-chan time.Time
	if opts.Timeout > 0 {
		timer := c.clock.NewTimer(opts.Timeout)
		defer timer.Stop()
		timeout = timer.C()
	}

	select {
	case <-flight.Done():
		value, err := flight.Result()
		if err != nil {
			return types.Result[V]{}, err
		}
		return types.Result[V]{Value: value, Found: true}, nil

	case <-timeout:
		return c.fallback(key, prior, opts), nil

	case <-ctx.Done():
		return types.Result[V]{}, ctx.Err()
	}
}

/*
fallback resolves a timed-out wait from the entry snapshot taken before
the computation was joined. Expired reflects the snapshot's actual
staleness at fallback time: under the normal flow a computation only
exists because the value was already stale, so it reads true; under force
a still-fresh value falls back as an ordinary hit.
*/
func (c *SWRCache[V]) fallback(key string, prior types.Entry[V], opts api.Options) types.Result[V] {
	if !prior.HasValue {
		c.metrics.Miss()
		c.events.Emit(events.Event{Type: events.Miss, Key: key})
		c.logger.Debug("swrcache: timed out with nothing to serve", "key", key)
		return types.Result[V]{}
	}

	expired := prior.Expired(opts.ExpiresIn, c.clock.Now())
	if expired {
		c.metrics.Stale()
		c.events.Emit(events.Event{Type: events.Stale, Key: key})
	} else {
		c.metrics.Hit()
		c.events.Emit(events.Event{Type: events.Hit, Key: key})
	}
	c.logger.Debug("swrcache: timed out, serving cached value", "key", key, "stale", expired)

	return types.Result[V]{Value: prior.Value, Found: true, Expired: expired}
}

/*
Peek returns the cached value for key without waiting and without ever
invoking a producer. Expired reflects staleness against expiresIn at the
time of the call.
*/
func (c *SWRCache[V]) Peek(key string, expiresIn time.Duration) (types.Result[V], bool) {
	ent, ok := c.store.Get(key)
	if !ok || !ent.HasValue {
		return types.Result[V]{}, false
	}
	return types.Result[V]{
		Value:   ent.Value,
		Found:   true,
		Expired: ent.Expired(expiresIn, c.clock.Now()),
	}, true
}

// Set primes the cache with a value, timestamped with the cache's clock.
// An in-flight computation for the key is unaffected.
func (c *SWRCache[V]) Set(key string, value V) {
	c.store.Set(key, value, c.clock.Now())
}

// Len returns how many keys currently have a record in the cache.
func (c *SWRCache[V]) Len() int {
	return c.store.Len()
}

/*
Close gracefully shuts down the cache: queued events are flushed and the
dispatcher stops. Computations still in flight are unaffected; they settle
and publish as usual, their events silently discarded.
*/
func (c *SWRCache[V]) Close() {
	c.events.Close()
}
