package store

import "hash/fnv"

/*
This file decides HOW a key is assigned to a shard.
If every key landed on the same shard, that shard's lock would become a
bottleneck. Shard selection is about spreading keys evenly so concurrent
callers mostly touch different locks.
*/

// hash converts a string key into a number. FNV is a fast,
// non-cryptographic hash commonly used for exactly this kind of placement.
func hash(s string) uint32 {
	h := fnv.New32a()
	h.Write([]byte(s))
	return h.Sum32()
}

// shardFor picks the shard responsible for a key.
func (s *Store[V]) shardFor(key string) *shard[V] {
	return s.shards[hash(key)%uint32(len(s.shards))]
}
