package app

import (
	"context"
	"time"

	"github.com/dwikikusuma/marki-secure/internal/product/domain"
)

type ProductRepo interface {
	// Create stores p, assigning the next token id when p.TokenID is zero.
	Create(ctx context.Context, p domain.Product) (domain.Product, error)
	Get(ctx context.Context, id int64) (domain.Product, error)
	ListByOwner(ctx context.Context, owner string) ([]domain.Product, error)
	// TransferOwner atomically hands the product to newOwner and marks it purchased.
	// It fails with ErrAlreadyOwned or ErrNotAvailable without changing anything.
	TransferOwner(ctx context.Context, id int64, newOwner string) (domain.Product, error)
}

type ManufacturerRepo interface {
	// CreateManufacturer fails with ErrBrandExists when the slug is taken.
	CreateManufacturer(ctx context.Context, m domain.Manufacturer) (domain.Manufacturer, error)
	GetManufacturer(ctx context.Context, slug string) (domain.Manufacturer, error)
	// ListManufacturersByOwner returns the owner's brands, oldest first.
	ListManufacturersByOwner(ctx context.Context, owner string) ([]domain.Manufacturer, error)
	MarkVerified(ctx context.Context, slug, by string, at time.Time) (domain.Manufacturer, error)
}
