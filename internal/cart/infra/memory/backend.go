package memory

import (
	"context"
	"sync"

	"github.com/dwikikusuma/marki-secure/internal/cart/app"
)

// Backend is an in-memory implementation of app.Backend.
// It is safe for concurrent use via internal RWMutex.
type Backend struct {
	mu      sync.RWMutex
	entries map[string][]byte

	loads int
	saves int
}

func NewBackend() *Backend {
	return &Backend{entries: make(map[string][]byte)}
}

// Load returns a copy of the value stored under key, or app.ErrNotFound.
func (b *Backend) Load(ctx context.Context, key string) ([]byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.loads++
	v, ok := b.entries[key]
	if !ok {
		return nil, app.ErrNotFound
	}
	return append([]byte(nil), v...), nil
}

// Save stores a copy of data under key.
func (b *Backend) Save(ctx context.Context, key string, data []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.saves++
	b.entries[key] = append([]byte(nil), data...)
	return nil
}

// Put seeds a raw value, bypassing the save counter.
func (b *Backend) Put(key string, data []byte) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.entries[key] = append([]byte(nil), data...)
}

// Saves reports how many times Save was called.
func (b *Backend) Saves() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.saves
}

// Loads reports how many times Load was called.
func (b *Backend) Loads() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.loads
}
