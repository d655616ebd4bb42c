package session

import (
	"context"
	"errors"
	"fmt"

	cartapp "github.com/dwikikusuma/marki-secure/internal/cart/app"
	"github.com/dwikikusuma/marki-secure/pkg/identity"
)

// Key is where the signed-in user reference is kept, next to the cart.
const Key = "xUser"

var ErrEmptyUser = errors.New("user must not be empty")

// Store remembers the current user reference. Credentials are never stored.
type Store struct {
	backend cartapp.Backend
}

func NewStore(backend cartapp.Backend) *Store {
	return &Store{backend: backend}
}

// Current returns the signed-in user, or "" when nobody is signed in.
func (s *Store) Current(ctx context.Context) (string, error) {
	raw, err := s.backend.Load(ctx, Key)
	if errors.Is(err, cartapp.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("load session: %w", err)
	}
	return identity.Normalize(string(raw)), nil
}

func (s *Store) SignIn(ctx context.Context, user string) (string, error) {
	user = identity.Normalize(user)
	if user == "" {
		return "", ErrEmptyUser
	}
	if err := s.backend.Save(ctx, Key, []byte(user)); err != nil {
		return "", fmt.Errorf("save session: %w", err)
	}
	return user, nil
}

func (s *Store) SignOut(ctx context.Context) error {
	if err := s.backend.Save(ctx, Key, nil); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// Resolve prefers an explicit override (flag or env) over the stored session.
func (s *Store) Resolve(ctx context.Context, override string) (string, error) {
	if u := identity.Normalize(override); u != "" {
		return u, nil
	}
	return s.Current(ctx)
}
