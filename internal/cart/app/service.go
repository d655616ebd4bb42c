package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/dwikikusuma/marki-secure/internal/cart/domain"
)

const DefaultKey = "marki.cart.v1"

var ErrInvalidItem = errors.New("invalid cart item")

type Store struct {
	backend Backend
	key     string
	log     *slog.Logger

	// write serializes read-modify-write cycles within this process.
	write sync.Mutex

	mu        sync.RWMutex
	listeners []Listener
}

func NewStore(backend Backend, key string, log *slog.Logger) *Store {
	if key == "" {
		key = DefaultKey
	}
	if log == nil {
		log = slog.Default()
	}
	return &Store{
		backend: backend,
		key:     key,
		log:     log.With("component", "cart"),
	}
}

func (s *Store) Key() string { return s.key }

func (s *Store) Subscribe(l Listener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, l)
}

// Read returns the persisted cart. A missing or unparsable value reads as an
// empty cart; only backend failures are returned.
func (s *Store) Read(ctx context.Context) ([]domain.CartItem, error) {
	raw, err := s.backend.Load(ctx, s.key)
	if errors.Is(err, ErrNotFound) {
		return []domain.CartItem{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}
	if len(raw) == 0 {
		return []domain.CartItem{}, nil
	}

	var items []domain.CartItem
	if err := json.Unmarshal(raw, &items); err != nil {
		s.log.Warn("stored cart is corrupt, treating as empty", slog.String("key", s.key), slog.Any("err", err))
		return []domain.CartItem{}, nil
	}
	if items == nil {
		return []domain.CartItem{}, nil
	}
	return domain.Dedupe(items), nil
}

func (s *Store) Add(ctx context.Context, item domain.CartItem) error {
	if item.ID <= 0 {
		return fmt.Errorf("%w: id must be positive, got %d", ErrInvalidItem, item.ID)
	}

	s.write.Lock()
	defer s.write.Unlock()

	items, err := s.Read(ctx)
	if err != nil {
		return err
	}
	if domain.Contains(items, item.ID) {
		return nil
	}
	return s.save(ctx, domain.Add(items, item))
}

func (s *Store) Remove(ctx context.Context, id domain.ProductID) error {
	s.write.Lock()
	defer s.write.Unlock()

	items, err := s.Read(ctx)
	if err != nil {
		return err
	}
	return s.save(ctx, domain.Remove(items, id))
}

func (s *Store) Clear(ctx context.Context) error {
	s.write.Lock()
	defer s.write.Unlock()

	return s.save(ctx, []domain.CartItem{})
}

// Replace overwrites the cart with items, dropping repeated ids.
func (s *Store) Replace(ctx context.Context, items []domain.CartItem) error {
	s.write.Lock()
	defer s.write.Unlock()

	return s.save(ctx, domain.Dedupe(items))
}

func (s *Store) Count(ctx context.Context) (int, error) {
	items, err := s.Read(ctx)
	if err != nil {
		return 0, err
	}
	return len(items), nil
}

func (s *Store) Exists(ctx context.Context, id domain.ProductID) (bool, error) {
	items, err := s.Read(ctx)
	if err != nil {
		return false, err
	}
	return domain.Contains(items, id), nil
}

func (s *Store) save(ctx context.Context, items []domain.CartItem) error {
	raw, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode cart: %w", err)
	}
	if err := s.backend.Save(ctx, s.key, raw); err != nil {
		return fmt.Errorf("save cart: %w", err)
	}

	s.log.Debug("cart saved", slog.Int("count", len(items)))
	s.notify(items)
	return nil
}

func (s *Store) notify(items []domain.CartItem) {
	s.mu.RLock()
	listeners := append([]Listener(nil), s.listeners...)
	s.mu.RUnlock()

	for _, l := range listeners {
		snapshot := make([]domain.CartItem, len(items))
		copy(snapshot, items)
		l(snapshot)
	}
}
