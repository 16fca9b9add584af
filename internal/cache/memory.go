package cache

import (
	"context"
	"sync"
	"time"

	"github.com/canpolat/domainscout/internal/models"
)

type memoryEntry struct {
	verdict   models.Verdict
	expiresAt time.Time
}

type counterEntry struct {
	n         int64
	expiresAt time.Time
}

// Memory is an in-process Store for single-instance deployments.
// Expiration is checked at read time; there is no eviction sweep, as
// cardinality is bounded by batch size caps upstream.
type Memory struct {
	mu       sync.Mutex
	entries  map[string]memoryEntry
	counters map[string]counterEntry

	now func() time.Time // overridable in tests
}

func NewMemory() *Memory {
	return &Memory{
		entries:  make(map[string]memoryEntry),
		counters: make(map[string]counterEntry),
		now:      time.Now,
	}
}

func (m *Memory) Get(_ context.Context, key models.DomainKey) (models.Verdict, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.entries[key.FQDN()]
	if !ok {
		return models.Verdict{}, false, nil
	}
	if !m.now().Before(entry.expiresAt) {
		delete(m.entries, key.FQDN())
		return models.Verdict{}, false, nil
	}

	verdict := entry.verdict
	verdict.Cached = true
	return verdict, true, nil
}

func (m *Memory) Put(_ context.Context, key models.DomainKey, verdict models.Verdict, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries[key.FQDN()] = memoryEntry{
		verdict:   verdict,
		expiresAt: m.now().Add(ttl),
	}
	return nil
}

func (m *Memory) IncrWithTTL(_ context.Context, key string, ttl time.Duration) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	entry, ok := m.counters[key]
	if !ok || !now.Before(entry.expiresAt) {
		entry = counterEntry{n: 0, expiresAt: now.Add(ttl)}
	}
	entry.n++
	m.counters[key] = entry
	return entry.n, nil
}

// Len reports the number of live entries.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := 0
	now := m.now()
	for _, entry := range m.entries {
		if now.Before(entry.expiresAt) {
			n++
		}
	}
	return n
}
