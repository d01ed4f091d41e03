package types

import "time"

/*
Entry is a snapshot of everything the cache knows about one key.

The store hands out copies of this struct, never pointers into its own
maps, so a caller always observes a consistent Value/ComputedAt pair even
while another computation is publishing a replacement.
*/
type Entry[V any] struct {

	// Value is the last successfully computed result for the key.
	// The cache treats it as opaque.
	Value V

	// ComputedAt records when Value was produced.
	ComputedAt time.Time

	// HasValue is false until the first successful computation lands.
	// A record can exist with HasValue=false when the only thing known
	// about the key is an in-flight computation.
	HasValue bool

	// Pending is the in-flight computation for this key, shared by every
	// caller that joined it. Nil when nothing is in flight.
	Pending *Flight[V]
}

/*
Expired reports whether the value's age exceeds the window at the given
instant.

Freshness is always computed from ComputedAt and never stored, so it can
never drift from the timestamp it is derived from. A zero window means the
value never goes stale. An entry without a value is not expired; it is
simply empty.
*/
func (e Entry[V]) Expired(window time.Duration, now time.Time) bool {
	if !e.HasValue || window == 0 {
		return false
	}
	return now.Sub(e.ComputedAt) > window
}

// Fresh reports whether the entry holds a value young enough to serve
// without consulting the producer.
func (e Entry[V]) Fresh(window time.Duration, now time.Time) bool {
	return e.HasValue && !e.Expired(window, now)
}
