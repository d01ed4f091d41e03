package types

/*
Producer is the computation being memoized: a zero-argument function that
yields a value or fails. The caller of GetOrCompute supplies a fresh one
per call.

Producers deliberately receive no context:
--------------------------------------------
Once started, a computation runs to natural completion and publishes its
result to the cache even when every caller has already given up waiting.
Handing it a caller's context would invite cancelling exactly the work the
cache is counting on. A producer that needs its own deadline can close
over a context of its own.
*/
type Producer[V any] func() (V, error)

/*
Result is what a cache lookup resolves to. It distinguishes the three
states a caller can observe:

1. Fresh value (or a value just computed): Found=true, Expired=false
2. Stale value served while a refresh is still running: Found=true, Expired=true
3. Nothing to serve yet: Found=false (Value is the zero value)
*/
type Result[V any] struct {

	// Value is the value to use now. Meaningful only when Found is true.
	Value V

	// Found is false when no entry existed and the computation did not
	// settle within the caller's wait budget.
	Found bool

	// Expired is true only when Value is a stale hit returned under
	// timeout pressure while a refresh is still pending.
	Expired bool
}
