package db

import (
	"context"
	"sync"

	"github.com/pkg/errors"
)

// ErrNotFound is returned by Slots.Get when nothing is stored under the key.
var ErrNotFound = errors.New("slot not found")

// Slots is durable key-value storage for serialized client state.
type Slots interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// MemorySlots keeps values in process memory. Separate stores sharing one
// MemorySlots see each other's writes.
type MemorySlots struct {
	mu     sync.RWMutex
	values map[string][]byte
}

func NewMemorySlots() *MemorySlots {
	return &MemorySlots{values: make(map[string][]byte)}
}

func (m *MemorySlots) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	value, ok := m.values[key]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), value...), nil
}

func (m *MemorySlots) Set(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.values[key] = append([]byte(nil), value...)
	return nil
}

func (m *MemorySlots) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.values, key)
	return nil
}
