package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dwikikusuma/marki-secure/internal/product/domain"
	"github.com/dwikikusuma/marki-secure/pkg/identity"
)

// CreateManufacturer registers a brand for owner. Creating a brand the owner
// already has returns it unchanged; a slug held by someone else is ErrBrandExists.
func (s *Service) CreateManufacturer(ctx context.Context, owner, name string) (domain.Manufacturer, error) {
	owner = identity.Normalize(owner)
	if owner == "" {
		return domain.Manufacturer{}, ErrUnauthenticated
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.Manufacturer{}, fmt.Errorf("%w: name required", ErrInvalidInput)
	}

	m, err := s.brands.CreateManufacturer(ctx, domain.Manufacturer{
		Name:      name,
		Slug:      Slugify(name),
		Owner:     owner,
		CreatedAt: s.now(),
	})
	if !errors.Is(err, ErrBrandExists) {
		return m, err
	}

	existing, getErr := s.brands.GetManufacturer(ctx, Slugify(name))
	if getErr != nil {
		return domain.Manufacturer{}, getErr
	}
	if existing.Owner != owner {
		return domain.Manufacturer{}, ErrBrandExists
	}
	return existing, nil
}

// GetManufacturer looks a brand up by slug; the slug is matched case-insensitively.
func (s *Service) GetManufacturer(ctx context.Context, slug string) (domain.Manufacturer, error) {
	return s.brands.GetManufacturer(ctx, Slugify(slug))
}

func (s *Service) ListManufacturers(ctx context.Context, owner string) ([]domain.Manufacturer, error) {
	owner = identity.Normalize(owner)
	if owner == "" {
		return nil, ErrUnauthenticated
	}
	return s.brands.ListManufacturersByOwner(ctx, owner)
}

// VerifyManufacturer marks a brand verified. Only admins may do this.
func (s *Service) VerifyManufacturer(ctx context.Context, slug, actor string) (domain.Manufacturer, error) {
	actor = identity.Normalize(actor)
	if actor == "" {
		return domain.Manufacturer{}, ErrUnauthenticated
	}
	if !s.IsAdmin(actor) {
		return domain.Manufacturer{}, ErrForbidden
	}
	return s.brands.MarkVerified(ctx, Slugify(slug), actor, s.now())
}

func (s *Service) Me(ctx context.Context, user string) (domain.Profile, error) {
	user = identity.Normalize(user)
	if user == "" {
		return domain.Profile{}, ErrUnauthenticated
	}

	brands, err := s.brands.ListManufacturersByOwner(ctx, user)
	if err != nil {
		return domain.Profile{}, err
	}
	if brands == nil {
		brands = []domain.Manufacturer{}
	}
	return domain.Profile{
		Email:          user,
		IsAdmin:        s.IsAdmin(user),
		IsManufacturer: len(brands) > 0,
		Brands:         brands,
	}, nil
}
