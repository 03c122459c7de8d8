package storage

import (
	"context"
	"sync"
)

// MemoryMedium keeps blobs in a map. Values are copied on the way in and out.
type MemoryMedium struct {
	mu     sync.RWMutex
	values map[string][]byte
}

func CreateMemoryMedium() *MemoryMedium {
	return &MemoryMedium{
		values: make(map[string][]byte),
	}
}

func (m *MemoryMedium) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	v, ok := m.values[key]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), v...), nil
}

func (m *MemoryMedium) Set(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.values[key] = append([]byte(nil), value...)
	return nil
}

func (m *MemoryMedium) PingContext(_ context.Context) error {
	return nil
}

func (m *MemoryMedium) Close() error {
	return nil
}
