package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/dwikikusuma/marki-secure/internal/product/app"
	"github.com/dwikikusuma/marki-secure/internal/product/domain"
)

// ManufacturerRepo keeps brands in insertion order.
type ManufacturerRepo struct {
	mu     sync.RWMutex
	bySlug map[string]domain.Manufacturer
	order  []string
}

func NewManufacturerRepo() *ManufacturerRepo {
	return &ManufacturerRepo{bySlug: make(map[string]domain.Manufacturer)}
}

func (r *ManufacturerRepo) CreateManufacturer(ctx context.Context, m domain.Manufacturer) (domain.Manufacturer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.bySlug[m.Slug]; ok {
		return domain.Manufacturer{}, app.ErrBrandExists
	}
	m.Owner = strings.ToLower(m.Owner)
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now().UTC()
	}
	r.bySlug[m.Slug] = m
	r.order = append(r.order, m.Slug)
	return m, nil
}

func (r *ManufacturerRepo) GetManufacturer(ctx context.Context, slug string) (domain.Manufacturer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	m, ok := r.bySlug[slug]
	if !ok {
		return domain.Manufacturer{}, app.ErrBrandNotFound
	}
	return m, nil
}

func (r *ManufacturerRepo) ListManufacturersByOwner(ctx context.Context, owner string) ([]domain.Manufacturer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []domain.Manufacturer{}
	for _, slug := range r.order {
		if m := r.bySlug[slug]; strings.EqualFold(m.Owner, owner) {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *ManufacturerRepo) MarkVerified(ctx context.Context, slug, by string, at time.Time) (domain.Manufacturer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	m, ok := r.bySlug[slug]
	if !ok {
		return domain.Manufacturer{}, app.ErrBrandNotFound
	}
	m.Verified = true
	m.VerifiedBy = strings.ToLower(by)
	m.VerifiedAt = &at
	r.bySlug[slug] = m
	return m, nil
}
