package store

import (
	"context"
	"sort"
	"sync"

	"github.com/arbiterdev/arbiter"
	"github.com/arbiterdev/arbiter/strategy"
)

// Memory is an in-process Store for tests and ephemeral runs.
type Memory struct {
	mu      sync.RWMutex
	records map[string][]byte
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{records: make(map[string][]byte)}
}

func (m *Memory) Save(_ context.Context, j *arbiter.Judgment) error {
	data, err := encodeRecord(j)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[j.ID] = data
	return nil
}

func (m *Memory) Get(_ context.Context, id string) (*arbiter.Judgment, error) {
	m.mu.RLock()
	data, ok := m.records[id]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	return decodeRecord(data)
}

func (m *Memory) List(_ context.Context, kind strategy.Kind, limit int) ([]*arbiter.Judgment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []*arbiter.Judgment
	for _, data := range m.records {
		j, err := decodeRecord(data)
		if err != nil {
			return nil, err
		}
		if kind != "" && j.Kind != kind {
			continue
		}
		out = append(out, j)
	}
	sort.Slice(out, func(i, k int) bool {
		return out[i].CreatedAt.After(out[k].CreatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Len returns the number of stored judgments.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.records)
}

func (m *Memory) Close() error { return nil }
