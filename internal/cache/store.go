// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package cache

import (
	"context"
	"sync"
	"time"
)

// Store is the generic key/value service behind the cache facade.
// Every write fully replaces the value for its key; no read-modify-
// write is ever performed, so no locking discipline is required of
// implementations beyond per-key atomicity.
type Store interface {
	// Get returns the payload for key and whether it was present.
	Get(ctx context.Context, key string) (string, bool, error)

	// Set stores the payload under key with the given TTL.
	Set(ctx context.Context, key, value string, ttl time.Duration) error

	// Clear drops every key in this store's namespace.
	Clear(ctx context.Context) error
}

// memoryEntry is a cached payload with its expiration.
type memoryEntry struct {
	value     string
	expiresAt time.Time
}

// MemoryStore is a thread-safe in-memory Store with TTL support, used
// in tests and single-node deployments.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry

	hits   int64
	misses int64
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: map[string]memoryEntry{}}
}

func (s *MemoryStore) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	entry, ok := s.entries[key]
	s.mu.RUnlock()

	if !ok {
		s.miss()
		return "", false, nil
	}
	if time.Now().After(entry.expiresAt) {
		s.mu.Lock()
		delete(s.entries, key)
		s.mu.Unlock()
		s.miss()
		return "", false, nil
	}

	s.mu.Lock()
	s.hits++
	s.mu.Unlock()
	return entry.value, true, nil
}

func (s *MemoryStore) Set(_ context.Context, key, value string, ttl time.Duration) error {
	s.mu.Lock()
	s.entries[key] = memoryEntry{value: value, expiresAt: time.Now().Add(ttl)}
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Clear(_ context.Context) error {
	s.mu.Lock()
	s.entries = map[string]memoryEntry{}
	s.mu.Unlock()
	return nil
}

// Stats returns the hit and miss counters.
func (s *MemoryStore) Stats() (hits, misses int64) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.hits, s.misses
}

func (s *MemoryStore) miss() {
	s.mu.Lock()
	s.misses++
	s.mu.Unlock()
}
