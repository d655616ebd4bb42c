package adapter

import (
	"context"

	cartapp "github.com/dwikikusuma/marki-secure/internal/cart/app"
	cartdomain "github.com/dwikikusuma/marki-secure/internal/cart/domain"
	"github.com/dwikikusuma/marki-secure/internal/checkout/domain"
)

type CartStore struct {
	store *cartapp.Store
}

func NewCartStore(store *cartapp.Store) *CartStore {
	return &CartStore{store: store}
}

func (a *CartStore) Items(ctx context.Context) ([]domain.Item, error) {
	items, err := a.store.Read(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]domain.Item, 0, len(items))
	for _, it := range items {
		out = append(out, domain.Item{
			ID:     int64(it.ID),
			Name:   it.Name,
			Serial: it.Serial,
			Image:  it.Image,
			URL:    it.URL,
		})
	}
	return out, nil
}

func (a *CartStore) Clear(ctx context.Context) error {
	return a.store.Clear(ctx)
}

func (a *CartStore) Replace(ctx context.Context, items []domain.Item) error {
	out := make([]cartdomain.CartItem, 0, len(items))
	for _, it := range items {
		out = append(out, cartdomain.CartItem{
			ID:     cartdomain.ProductID(it.ID),
			Name:   it.Name,
			Serial: it.Serial,
			Image:  it.Image,
			URL:    it.URL,
		})
	}
	return a.store.Replace(ctx, out)
}
