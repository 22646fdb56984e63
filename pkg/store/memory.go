package store

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

type inMemory struct {
	mu      sync.RWMutex
	storage map[string]map[string]*Record
}

// NewMemoryStore returns an in-memory ResultStore, for tests and
// one-shot CLI runs.
func NewMemoryStore() ResultStore {
	return &inMemory{}
}

func (m *inMemory) Save(_ context.Context, rec *Record) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}
	if m.storage == nil {
		// create on first use
		m.storage = make(map[string]map[string]*Record)
	}
	byID := m.storage[rec.Tool]
	if byID == nil {
		byID = make(map[string]*Record)
		m.storage[rec.Tool] = byID
	}

	cp := *rec
	byID[rec.ID] = &cp
	return rec.ID, nil
}

func (m *inMemory) Get(_ context.Context, tool, id string) (*Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if rec, ok := m.storage[tool][id]; ok {
		cp := *rec
		return &cp, nil
	}
	return nil, ErrNotFound
}

func (m *inMemory) List(_ context.Context, tool string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ids := make([]string, 0, len(m.storage[tool]))
	for id := range m.storage[tool] {
		ids = append(ids, id)
	}
	return ids, nil
}

func (m *inMemory) Reset(_ context.Context, tool string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.storage, tool)
	return nil
}

func (m *inMemory) Cleanup(_ context.Context, tool string, olderThan time.Duration) (uint32, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := time.Now().Add(-olderThan)
	var deleted uint32
	for id, rec := range m.storage[tool] {
		if rec.CreatedAt.Before(cutoff) {
			delete(m.storage[tool], id)
			deleted++
		}
	}
	return deleted, nil
}
