package store

import (
	"sync"

	"github.com/krisalay/swr-cache/types"
)

/*
This file defines what a "shard" is. A shard is a small, independent piece
of the store. Instead of having one big map and one big lock, we split the
store into many shards. Each shard holds some portion of the keys and has
its own lock, so callers working on different keys rarely contend.

Entries are guarded by a read-write mutex rather than a copy-on-write map:
attach and detach are read-modify-write operations with an identity check,
and those have to happen atomically against concurrent attaches. Reads
still share the lock.
*/
type shard[V any] struct {
	mu      sync.RWMutex
	entries map[string]*types.Entry[V]
}

func newShard[V any]() *shard[V] {
	return &shard[V]{
		entries: make(map[string]*types.Entry[V]),
	}
}
