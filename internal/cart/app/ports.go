package app

import (
	"context"
	"errors"

	"github.com/dwikikusuma/marki-secure/internal/cart/domain"
)

// ErrNotFound is returned by a Backend when nothing is stored under the key.
var ErrNotFound = errors.New("key not found")

// Backend is a key-value persistence layer. The cart lives under a single key.
type Backend interface {
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, data []byte) error
}

// Listener is notified with the new cart after every persisted mutation.
type Listener func(items []domain.CartItem)
