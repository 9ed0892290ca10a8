package storage

import (
	"context"
	"sync"
)

// MemorySlot is an in-process slot. It backs the "memory" data backend and
// keeps tests off the filesystem.
type MemorySlot struct {
	mu   sync.Mutex
	data []byte
	set  bool
}

func NewMemorySlot() *MemorySlot {
	return &MemorySlot{}
}

func (m *MemorySlot) Get(_ context.Context) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.set {
		return nil, nil
	}
	out := make([]byte, len(m.data))
	copy(out, m.data)
	return out, nil
}

func (m *MemorySlot) Put(_ context.Context, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = make([]byte, len(data))
	copy(m.data, data)
	m.set = true
	return nil
}

func (m *MemorySlot) Close() error {
	return nil
}
