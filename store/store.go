package store

import (
	"time"

	"github.com/krisalay/swr-cache/types"
)

/*
Store is the Entry Store: a sharded mapping from key to cache entry.

Its single responsibility is bookkeeping with atomicity guarantees. It
performs no I/O, runs no computations, and holds no policy; each operation
below is individually atomic under concurrent access so the coordinator
never needs to hold a lock across a producer's execution.
*/
type Store[V any] struct {
	shards []*shard[V]
}

// DefaultShards is used when the caller does not pick a shard count.
const DefaultShards = 8

// New creates a Store spread across n shards. Values of n below one fall
// back to DefaultShards.
func New[V any](n int) *Store[V] {
	if n < 1 {
		n = DefaultShards
	}
	shards := make([]*shard[V], n)
	for i := range shards {
		shards[i] = newShard[V]()
	}
	return &Store[V]{shards: shards}
}

/*
Get returns a snapshot of the entry for key.

The snapshot is a copy taken under the shard lock: its Value/ComputedAt
pair can never be torn by a concurrent publish, and its Pending handle
stays usable even if it is detached right after.
*/
func (s *Store[V]) Get(key string) (types.Entry[V], bool) {
	sh := s.shardFor(key)

	sh.mu.RLock()
	defer sh.mu.RUnlock()

	ent, ok := sh.entries[key]
	if !ok {
		return types.Entry[V]{}, false
	}
	return *ent, true
}

/*
Set replaces the value/timestamp pair for key as one atomic unit,
preserving an unrelated in-flight handle if present. The record is created
when the key was never seen.
*/
func (s *Store[V]) Set(key string, value V, computedAt time.Time) {
	sh := s.shardFor(key)

	sh.mu.Lock()
	defer sh.mu.Unlock()

	ent, ok := sh.entries[key]
	if !ok {
		ent = &types.Entry[V]{}
		sh.entries[key] = ent
	}
	ent.Value = value
	ent.ComputedAt = computedAt
	ent.HasValue = true
}

/*
AttachPending registers f as the in-flight computation for key, unless one
is already registered.

It returns the handle that is now pending and whether it is f. When the
second return is false the caller lost the race and must join the returned
handle instead of running its own producer. This is the de-duplication
primitive: check and attach happen under one lock acquisition.
*/
func (s *Store[V]) AttachPending(key string, f *types.Flight[V]) (*types.Flight[V], bool) {
	sh := s.shardFor(key)

	sh.mu.Lock()
	defer sh.mu.Unlock()

	ent, ok := sh.entries[key]
	if !ok {
		ent = &types.Entry[V]{}
		sh.entries[key] = ent
	}
	if ent.Pending != nil {
		return ent.Pending, false
	}
	ent.Pending = f
	return f, true
}

/*
ReplacePending registers f as the in-flight computation for key no matter
what was pending before. A superseded handle is not cancelled; its
computation keeps running and simply loses the right to clear the slot.

This is the force-refresh path.
*/
func (s *Store[V]) ReplacePending(key string, f *types.Flight[V]) {
	sh := s.shardFor(key)

	sh.mu.Lock()
	defer sh.mu.Unlock()

	ent, ok := sh.entries[key]
	if !ok {
		ent = &types.Entry[V]{}
		sh.entries[key] = ent
	}
	ent.Pending = f
}

/*
DetachPending clears the in-flight handle for key, but only if it still
points at f. A detach from a computation that has already been superseded
must not clear the newer attach, so the identity check and the clear
happen atomically. Reports whether the slot was cleared.

A record left with neither a value nor a pending handle is removed; it
represents a key the cache knows nothing about.
*/
func (s *Store[V]) DetachPending(key string, f *types.Flight[V]) bool {
	sh := s.shardFor(key)

	sh.mu.Lock()
	defer sh.mu.Unlock()

	ent, ok := sh.entries[key]
	if !ok || ent.Pending != f {
		return false
	}
	ent.Pending = nil

	if !ent.HasValue {
		delete(sh.entries, key)
	}
	return true
}

// Len returns how many records are resident across all shards.
func (s *Store[V]) Len() int {
	total := 0
	for _, sh := range s.shards {
		sh.mu.RLock()
		total += len(sh.entries)
		sh.mu.RUnlock()
	}
	return total
}
