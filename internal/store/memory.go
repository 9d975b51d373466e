package store

import (
	"context"
	"sync"
	"time"

	"github.com/JonMunkholm/dqi/internal/dqi"
)

type memoryEntry struct {
	data    []byte
	created time.Time
}

// Memory keeps reports in process memory. Documents are stored encoded so
// callers never share a *dqi.Report with the store.
type Memory struct {
	mu      sync.RWMutex
	reports map[string]memoryEntry
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{reports: make(map[string]memoryEntry)}
}

func (m *Memory) Put(ctx context.Context, key string, r *dqi.Report) error {
	if err := checkKey(key); err != nil {
		return err
	}
	data, err := encodeReport(r)
	if err != nil {
		return err
	}

	m.mu.Lock()
	m.reports[key] = memoryEntry{data: data, created: createdAt(r)}
	m.mu.Unlock()
	return nil
}

func (m *Memory) Get(ctx context.Context, key string) (*dqi.Report, error) {
	if err := checkKey(key); err != nil {
		return nil, err
	}

	m.mu.RLock()
	entry, ok := m.reports[key]
	m.mu.RUnlock()

	if !ok {
		return nil, ErrNotFound
	}
	return decodeReport(entry.data)
}

func (m *Memory) Delete(ctx context.Context, key string) error {
	if err := checkKey(key); err != nil {
		return err
	}

	m.mu.Lock()
	delete(m.reports, key)
	m.mu.Unlock()
	return nil
}

func (m *Memory) Prune(ctx context.Context, before time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var n int64
	for k, e := range m.reports {
		if e.created.Before(before) {
			delete(m.reports, k)
			n++
		}
	}
	return n, nil
}

// Len returns the number of stored reports.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.reports)
}

func (m *Memory) Close() error { return nil }
