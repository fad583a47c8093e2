// Package optimistic applies a local guess while an authoritative request is
// in flight, then either replaces the guess with the response or restores the
// exact value that was there before.
package optimistic

import (
	"context"
	"sync"
)

// Store is keyed local state, safe for concurrent use.
type Store[K comparable, V any] struct {
	mu     sync.RWMutex
	values map[K]V
}

func NewStore[K comparable, V any]() *Store[K, V] {
	return &Store[K, V]{values: make(map[K]V)}
}

func (s *Store[K, V]) Get(key K) (V, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	return v, ok
}

func (s *Store[K, V]) Set(key K, value V) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
}

func (s *Store[K, V]) Delete(key K) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, key)
}

// Replace swaps the whole state, used after a full refetch.
func (s *Store[K, V]) Replace(values map[K]V) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values = make(map[K]V, len(values))
	for k, v := range values {
		s.values[k] = v
	}
}

// Snapshot returns a copy of the current state.
func (s *Store[K, V]) Snapshot() map[K]V {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[K]V, len(s.values))
	for k, v := range s.values {
		out[k] = v
	}
	return out
}

// Apply stores guess(prior) under key, runs request, and reconciles:
// on success the response replaces the guess; on failure the prior value is
// restored (or the key removed again if it was absent) and the error returned.
//
// guess receives a copy of the prior value; V should not share mutable state
// with it (copy slices inside guess) or the restored value will be corrupted.
func Apply[K comparable, V any](
	ctx context.Context,
	store *Store[K, V],
	key K,
	guess func(prior V) V,
	request func(ctx context.Context) (V, error),
) (V, error) {
	prior, existed := store.Get(key)
	store.Set(key, guess(prior))

	result, err := request(ctx)
	if err != nil {
		if existed {
			store.Set(key, prior)
		} else {
			store.Delete(key)
		}
		var zero V
		return zero, err
	}

	store.Set(key, result)
	return result, nil
}
