package api

import (
	"context"
	"errors"
	"time"

	"github.com/krisalay/swr-cache/types"
)

// Common errors returned when per-call options are malformed. Durations
// are validated, never silently clamped.
var (
	ErrNegativeTimeout = errors.New("swrcache: timeout must not be negative")
	ErrNegativeExpiry  = errors.New("swrcache: expiry window must not be negative")
)

/*
Options configures a single GetOrCompute call.

All fields are optional. The zero value means: wait for the computation as
long as it takes, never consider the cached value stale, and reuse a fresh
value instead of recomputing.
*/
type Options struct {

	// Timeout is the maximum time the caller will wait for an in-flight
	// computation (new or joined) before falling back to the best value
	// available. Zero waits without bound. The computation itself is
	// never cancelled by this; it keeps running in the background.
	Timeout time.Duration

	// ExpiresIn is the window after which a previously computed value is
	// considered stale. Zero means the value never goes stale.
	ExpiresIn time.Duration

	// ForceRefresh bypasses the freshness check and always starts a new
	// computation for this call, even when a fresh value exists.
	ForceRefresh bool
}

// Validate fails fast on malformed options.
func (o Options) Validate() error {
	if o.Timeout < 0 {
		return ErrNegativeTimeout
	}
	if o.ExpiresIn < 0 {
		return ErrNegativeExpiry
	}
	return nil
}

/*
Cache defines the PUBLIC API of the stale-while-revalidate cache.
This is a contract that guarantees certain behaviors without exposing
internals. All of the details (sharding, in-flight coordination, timeout
racing, result publication) are hidden behind this interface.
*/
type Cache[V any] interface {

	/*
		GetOrCompute returns the value for key, computing it with producer
		when needed.

		BEHAVIOR:
		---------
		1. If a cached value exists, is within opts.ExpiresIn, and
		   ForceRefresh is off:
		   - Return it immediately (fresh hit; producer never runs)

		2. Otherwise a computation is needed:
		   - Join the in-flight computation for this key if one exists
		     and ForceRefresh is off
		   - Else start a new one with producer

		3. Wait for the computation, bounded by opts.Timeout:
		   - Settles in time with a value: return it
		   - Settles in time with an error: return that error
		   - Timeout elapses first: return the pre-existing value marked
		     Expired when one existed, or Found=false when none did. The
		     computation is NOT cancelled; it finishes in the background
		     and publishes into the cache for later calls.

		The error return is non-nil only for a validation failure, a
		producer failure observed while actively waiting, or ctx ending
		before anything else. A timeout is never an error.
	*/
	GetOrCompute(ctx context.Context, key string, producer types.Producer[V], opts Options) (types.Result[V], error)

	/*
		Peek returns the cached value for key without ever invoking a
		producer or waiting.

		BEHAVIOR:
		---------
		- No value cached: ok is false
		- Value cached: ok is true and Result.Expired reflects its
		  staleness against expiresIn at the time of the call
	*/
	Peek(key string, expiresIn time.Duration) (types.Result[V], bool)

	/*
		Set primes the cache with a value, timestamped now.

		USE CASES:
		----------
		- Warming known-good values at startup
		- Tests that need a populated cache without running producers
	*/
	Set(key string, value V)

	/*
		Close gracefully shuts down the cache.

		BEHAVIOR:
		---------
		- Flushes and stops the event dispatcher
		- Computations still in flight are unaffected; they settle and
		  publish as usual

		WHEN TO CALL:
		-------------
		- Application shutdown
		- Tests cleanup
	*/
	Close()
}
