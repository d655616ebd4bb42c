package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/dwikikusuma/marki-secure/internal/product/app"
	"github.com/dwikikusuma/marki-secure/internal/product/domain"
)

// ProductRepo is an in-memory implementation of app.ProductRepo.
// It is safe for concurrent use via internal RWMutex.
type ProductRepo struct {
	mu       sync.RWMutex
	products map[int64]domain.Product
	lastID   int64
}

func NewProductRepo() *ProductRepo {
	return &ProductRepo{products: make(map[int64]domain.Product)}
}

// Create stores p. A zero TokenID gets the next free id; an explicit one
// replaces whatever was stored under it.
func (r *ProductRepo) Create(ctx context.Context, p domain.Product) (domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if p.TokenID == 0 {
		p.TokenID = r.lastID + 1
	}
	if p.TokenID > r.lastID {
		r.lastID = p.TokenID
	}
	p.Owner = strings.ToLower(p.Owner)
	p.Seller = strings.ToLower(p.Seller)

	r.products[p.TokenID] = p
	return p, nil
}

// Get returns the product with the given id, or app.ErrNotFound.
func (r *ProductRepo) Get(ctx context.Context, id int64) (domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.products[id]
	if !ok {
		return domain.Product{}, app.ErrNotFound
	}
	return p, nil
}

// ListByOwner returns the owner's products ordered by token id.
func (r *ProductRepo) ListByOwner(ctx context.Context, owner string) ([]domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []domain.Product{}
	for _, p := range r.products {
		if strings.EqualFold(p.Owner, owner) {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TokenID < out[j].TokenID })
	return out, nil
}

func (r *ProductRepo) TransferOwner(ctx context.Context, id int64, newOwner string) (domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.products[id]
	if !ok {
		return domain.Product{}, app.ErrNotFound
	}
	if strings.EqualFold(p.Owner, newOwner) {
		return domain.Product{}, app.ErrAlreadyOwned
	}
	if p.State == domain.StateRevoked {
		return domain.Product{}, app.ErrNotAvailable
	}

	p.Owner = strings.ToLower(newOwner)
	p.State = domain.StatePurchased
	r.products[id] = p
	return p, nil
}
