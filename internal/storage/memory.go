package storage

import (
	"context"
	"sync"
)

type slotKey struct {
	scope string
	name  string
}

// MemorySlots keeps slots in process memory.
type MemorySlots struct {
	mu   sync.RWMutex
	data map[slotKey][]byte
}

func NewMemorySlots() *MemorySlots {
	return &MemorySlots{data: make(map[slotKey][]byte)}
}

func (m *MemorySlots) Get(_ context.Context, scope, name string) ([]byte, bool, error) {
	if err := validKey(scope, name); err != nil {
		return nil, false, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[slotKey{scope, name}]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), v...), true, nil
}

func (m *MemorySlots) Set(_ context.Context, scope, name string, value []byte) error {
	if err := validKey(scope, name); err != nil {
		return err
	}
	m.mu.Lock()
	m.data[slotKey{scope, name}] = append([]byte(nil), value...)
	m.mu.Unlock()
	return nil
}

func (m *MemorySlots) Ping(context.Context) error {
	return nil
}
