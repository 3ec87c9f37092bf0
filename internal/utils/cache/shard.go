package cache

import (
	"sync"
	"time"
)

type entry[V any] struct {
	value    V
	expireAt time.Time
}

func (e entry[V]) expired(now time.Time) bool {
	return !e.expireAt.IsZero() && !now.Before(e.expireAt)
}

type shard[K comparable, V any] struct {
	items map[K]entry[V]
	lock  sync.RWMutex
}

func (s *shard[K, V]) set(k K, e entry[V]) {
	s.lock.Lock()
	s.items[k] = e
	s.lock.Unlock()
}

func (s *shard[K, V]) get(k K, now time.Time) (V, bool) {
	s.lock.RLock()
	e, ok := s.items[k]
	s.lock.RUnlock()
	if !ok {
		var zero V
		return zero, false
	}
	if e.expired(now) {
		s.lock.Lock()
		if cur, ok := s.items[k]; ok && cur.expired(now) {
			delete(s.items, k)
		}
		s.lock.Unlock()
		var zero V
		return zero, false
	}
	return e.value, true
}

func (s *shard[K, V]) del(k K) int {
	s.lock.Lock()
	defer s.lock.Unlock()
	if _, ok := s.items[k]; ok {
		delete(s.items, k)
		return 1
	}
	return 0
}

func (s *shard[K, V]) clear() {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.items = map[K]entry[V]{}
}

func (s *shard[K, V]) len(now time.Time) int {
	s.lock.RLock()
	defer s.lock.RUnlock()
	n := 0
	for _, e := range s.items {
		if !e.expired(now) {
			n++
		}
	}
	return n
}
