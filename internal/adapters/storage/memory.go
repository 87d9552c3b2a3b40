package storage

import (
	"context"
	"slices"
	"sync"
)

// MemoryBackend keeps the document in process memory.
type MemoryBackend struct {
	mu   sync.RWMutex
	data []byte
}

// NewMemoryBackend returns an empty in-memory backend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{}
}

func (m *MemoryBackend) Driver() Driver { return DriverMemory }

func (m *MemoryBackend) Read(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if len(m.data) == 0 {
		return nil, ErrEmpty
	}
	return slices.Clone(m.data), nil
}

func (m *MemoryBackend) Write(ctx context.Context, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	m.data = slices.Clone(data)
	m.mu.Unlock()
	return nil
}

func (m *MemoryBackend) Close() error { return nil }
