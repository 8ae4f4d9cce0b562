// Package cache stores extracted passages keyed by a digest of their
// source, so re-adding the same document or URL skips extraction.
package cache

import (
	"context"
	"math/rand"
	"sync"
	"time"
)

// PassageCache is a key/value store for extracted passage text.
type PassageCache interface {
	// Get returns the cached passage and true on a hit.
	Get(ctx context.Context, key string) (string, bool, error)
	// Set stores passage under key.
	Set(ctx context.Context, key, passage string) error
}

// Nop never hits.
type Nop struct{}

func (Nop) Get(context.Context, string) (string, bool, error) { return "", false, nil }
func (Nop) Set(context.Context, string, string) error         { return nil }

// Memory is an in-process PassageCache with per-entry expiry.
type Memory struct {
	ttl   time.Duration
	clock func() time.Time
	rnd   *rand.Rand

	mu      sync.RWMutex
	entries map[string]memoryEntry
}

type memoryEntry struct {
	passage   string
	expiresAt time.Time
}

// NewMemory creates a Memory cache. A non-positive ttl keeps entries for
// the life of the process.
func NewMemory(ttl time.Duration) *Memory {
	return &Memory{
		ttl:     ttl,
		clock:   time.Now,
		rnd:     rand.New(rand.NewSource(time.Now().UnixNano())),
		entries: make(map[string]memoryEntry),
	}
}

func (m *Memory) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	entry, ok := m.entries[key]
	m.mu.RUnlock()
	if !ok {
		return "", false, nil
	}
	if !entry.expiresAt.IsZero() && !entry.expiresAt.After(m.clock()) {
		m.mu.Lock()
		delete(m.entries, key)
		m.mu.Unlock()
		return "", false, nil
	}
	return entry.passage, true, nil
}

func (m *Memory) Set(_ context.Context, key, passage string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry := memoryEntry{passage: passage}
	if ttl := ttlWithJitter(m.ttl, m.rnd); ttl > 0 {
		entry.expiresAt = m.clock().Add(ttl)
	}
	m.entries[key] = entry
	return nil
}

// Len reports the number of stored entries, expired or not.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

// ttlWithJitter spreads expiries by up to 10% so entries written together
// do not all expire together. The caller must serialize use of rnd.
func ttlWithJitter(ttl time.Duration, rnd *rand.Rand) time.Duration {
	if ttl <= 0 {
		return 0
	}
	jitterMax := int64(ttl) / 10
	return ttl + time.Duration(rnd.Int63n(jitterMax+1))
}
