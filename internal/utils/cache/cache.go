// Sharded map cache with optional expiry. Based on https://github.com/fanjindong/go-cache
package cache

import (
	"fmt"
	"time"

	"github.com/cespare/xxhash/v2"
)

func keyToString[K comparable](key K) string {
	return fmt.Sprintf("%v", key)
}

type Cache[K comparable, V any] interface {
	Set(k K, v V)
	Get(k K) (V, bool)
	Del(keys ...K) int
	Len() int
	Clear()
}

// New returns a cache split into shards. Entries older than ttl are treated as missing;
// ttl <= 0 keeps entries until they are deleted.
func New[K comparable, V any](shards int, ttl time.Duration) Cache[K, V] {
	if shards <= 0 {
		shards = 16
	}
	c := &cache[K, V]{
		shards:    make([]*shard[K, V], shards),
		shardMask: uint64(shards - 1),
		ttl:       ttl,
		now:       time.Now,
	}
	for i := 0; i < shards; i++ {
		c.shards[i] = &shard[K, V]{items: map[K]entry[V]{}}
	}
	return c
}

type cache[K comparable, V any] struct {
	shards    []*shard[K, V]
	shardMask uint64
	ttl       time.Duration
	now       func() time.Time
}

func (c *cache[K, V]) Set(k K, v V) {
	e := entry[V]{value: v}
	if c.ttl > 0 {
		e.expireAt = c.now().Add(c.ttl)
	}
	c.shardFor(k).set(k, e)
}

func (c *cache[K, V]) Get(k K) (V, bool) {
	return c.shardFor(k).get(k, c.now())
}

func (c *cache[K, V]) Del(ks ...K) int {
	var count int
	for _, k := range ks {
		count += c.shardFor(k).del(k)
	}
	return count
}

// Len counts live entries.
func (c *cache[K, V]) Len() int {
	var count int
	now := c.now()
	for _, s := range c.shards {
		count += s.len(now)
	}
	return count
}

func (c *cache[K, V]) Clear() {
	for _, s := range c.shards {
		s.clear()
	}
}

func (c *cache[K, V]) shardFor(k K) *shard[K, V] {
	return c.shards[xxhash.Sum64String(keyToString(k))&c.shardMask]
}
