package events

// This file defines the events the cache announces and who listens to them.

// Type identifies what happened inside the cache.
type Type uint8

const (

	// Hit means a fresh value was served straight from the store.
	Hit Type = iota

	// Stale means an expired value was served as a fallback while a
	// refresh was still running.
	Stale

	// Miss means a caller left empty-handed: no value existed and the
	// computation did not settle within the wait budget.
	Miss

	// RefreshStarted means a new producer invocation began.
	RefreshStarted

	// RefreshSucceeded means a producer invocation published its value.
	RefreshSucceeded

	// RefreshFailed means a producer invocation failed; Err carries why.
	RefreshFailed
)

// String returns the event type's wire-friendly name.
func (t Type) String() string {
	switch t {
	case Hit:
		return "hit"
	case Stale:
		return "stale"
	case Miss:
		return "miss"
	case RefreshStarted:
		return "refresh_started"
	case RefreshSucceeded:
		return "refresh_succeeded"
	case RefreshFailed:
		return "refresh_failed"
	default:
		return "unknown"
	}
}

// Event is one cache occurrence, delivered to the configured Observer.
type Event struct {
	Type Type
	Key  string
	Err  error // set only for RefreshFailed
}

/*
Observer receives cache events asynchronously.

It runs on the dispatcher's worker goroutine, never on the caller's hot
path, so a slow observer delays other events but never a cache lookup.
*/
type Observer func(Event)
