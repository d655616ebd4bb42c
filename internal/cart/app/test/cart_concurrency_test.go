package test

import (
	"context"
	"testing"

	"golang.org/x/sync/errgroup"

	"github.com/dwikikusuma/marki-secure/internal/cart/app"
	"github.com/dwikikusuma/marki-secure/internal/cart/domain"
	"github.com/dwikikusuma/marki-secure/internal/cart/infra/memory"
)

func newTestStore(t *testing.T) *app.Store {
	t.Helper()
	return app.NewStore(memory.NewBackend(), app.DefaultKey, nil)
}

func TestCart_ConcurrentAddDistinct_NoLostWrites(t *testing.T) {
	store := newTestStore(t)

	const N = 50
	g, ctx := errgroup.WithContext(context.Background())
	for i := 1; i <= N; i++ {
		id := domain.ProductID(i)
		g.Go(func() error {
			return store.Add(ctx, domain.CartItem{ID: id})
		})
	}

	if err := g.Wait(); err != nil {
		t.Fatalf("concurrent Add failed: %v", err)
	}

	n, err := store.Count(context.Background())
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if n != N {
		t.Fatalf("expected count=%d, got=%d", N, n)
	}
}

func TestCart_ConcurrentAddSame_SingleEntry(t *testing.T) {
	store := newTestStore(t)

	const N = 100
	g, ctx := errgroup.WithContext(context.Background())
	for i := 0; i < N; i++ {
		g.Go(func() error {
			return store.Add(ctx, domain.CartItem{ID: 42, Name: "Watch"})
		})
	}

	if err := g.Wait(); err != nil {
		t.Fatalf("concurrent Add failed: %v", err)
	}

	items, err := store.Read(context.Background())
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if len(items) != 1 || items[0].ID != 42 {
		t.Fatalf("expected a single item 42, got %+v", items)
	}
}
