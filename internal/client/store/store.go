// Package store is the client's in-process cache: a keyed set of values
// that the session and transaction services write and the CLI reads.
//
// A Store is created once by the composition root and handed to whoever
// needs it; there is no package-level instance. Typed access goes through
// Slot, which also lets readers subscribe to changes of a single key.
package store

import (
	"sort"
	"sync"
)

type Key string

const (
	KeyUser         Key = "user"
	KeyTransactions Key = "transactions"
)

type subscriber struct {
	id int
	fn func(value any, ok bool)
}

type Store struct {
	mu     sync.Mutex
	values map[Key]any
	subs   map[Key]map[int]func(any, bool)
	nextID int
}

func New() *Store {
	return &Store{
		values: make(map[Key]any),
		subs:   make(map[Key]map[int]func(any, bool)),
	}
}

func (s *Store) get(key Key) (any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.values[key]
	return v, ok
}

// update runs fn under the lock and notifies subscribers after releasing it.
// fn returns the new value and whether the key should remain present.
func (s *Store) update(key Key, fn func(cur any, ok bool) (any, bool)) (any, bool) {
	s.mu.Lock()
	cur, ok := s.values[key]
	next, keep := fn(cur, ok)
	if keep {
		s.values[key] = next
	} else {
		delete(s.values, key)
		next = nil
	}
	subs := s.snapshotSubs(key)
	s.mu.Unlock()

	for _, sub := range subs {
		sub.fn(next, keep)
	}
	return next, keep
}

// snapshotSubs must be called with s.mu held. Subscribers are returned in
// registration order.
func (s *Store) snapshotSubs(key Key) []subscriber {
	m := s.subs[key]
	out := make([]subscriber, 0, len(m))
	for id, fn := range m {
		out = append(out, subscriber{id: id, fn: fn})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].id < out[j].id })
	return out
}

func (s *Store) subscribe(key Key, fn func(any, bool)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	id := s.nextID
	if s.subs[key] == nil {
		s.subs[key] = make(map[int]func(any, bool))
	}
	s.subs[key][id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			delete(s.subs[key], id)
		})
	}
}
