package types

// This file defines how the cache reports what it is doing.

/*
Metrics is an interface that defines what the cache wants to measure.
Each method represents an event in the cache lifecycle. The cache will call
these methods whenever something happens.
*/
type Metrics interface {

	// Hit is called when a fresh value is served straight from the store.
	Hit()

	// Stale is called when an expired value is served as a fallback while
	// a refresh is still pending.
	Stale()

	// Miss is called when a caller leaves empty-handed: no value existed
	// and the computation did not settle within the wait budget.
	Miss()

	// Refresh is called when a new producer invocation starts.
	Refresh()

	// Failure is called when a producer invocation fails.
	Failure()
}

/*
NoopMetrics is a "do nothing" implementation of Metrics.

Why do we need this?
--------------------
We don't want to force every user of the cache
to implement metrics.

If someone does not care about metrics,
we still want the cache to work without:
- nil pointer checks everywhere
- if metrics != nil conditions

So we provide a default implementation
that simply ignores all metric events.
*/
type NoopMetrics struct{}

// All methods below intentionally do nothing.
// This satisfies the Metrics interface without side effects.

func (NoopMetrics) Hit()     {}
func (NoopMetrics) Stale()   {}
func (NoopMetrics) Miss()    {}
func (NoopMetrics) Refresh() {}
func (NoopMetrics) Failure() {}
