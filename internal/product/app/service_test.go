package app

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/dwikikusuma/marki-secure/internal/product/domain"
)

type fakeRepo struct {
	products map[int64]domain.Product
	next     int64
}

func newFakeRepo(ps ...domain.Product) *fakeRepo {
	r := &fakeRepo{products: map[int64]domain.Product{}}
	for _, p := range ps {
		r.products[p.TokenID] = p
		if p.TokenID > r.next {
			r.next = p.TokenID
		}
	}
	return r
}

func (r *fakeRepo) Create(ctx context.Context, p domain.Product) (domain.Product, error) {
	if p.TokenID == 0 {
		r.next++
		p.TokenID = r.next
	}
	r.products[p.TokenID] = p
	return p, nil
}

func (r *fakeRepo) Get(ctx context.Context, id int64) (domain.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return domain.Product{}, ErrNotFound
	}
	return p, nil
}

func (r *fakeRepo) ListByOwner(ctx context.Context, owner string) ([]domain.Product, error) {
	var out []domain.Product
	for _, p := range r.products {
		if p.Owner == owner {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *fakeRepo) TransferOwner(ctx context.Context, id int64, newOwner string) (domain.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return domain.Product{}, ErrNotFound
	}
	if p.Owner == newOwner {
		return domain.Product{}, ErrAlreadyOwned
	}
	p.Owner = newOwner
	p.State = domain.StatePurchased
	r.products[id] = p
	return p, nil
}

type fakeBrands struct {
	bySlug map[string]domain.Manufacturer
	order  []string
}

func newFakeBrands(ms ...domain.Manufacturer) *fakeBrands {
	b := &fakeBrands{bySlug: map[string]domain.Manufacturer{}}
	for _, m := range ms {
		_, _ = b.CreateManufacturer(context.Background(), m)
	}
	return b
}

func (b *fakeBrands) CreateManufacturer(ctx context.Context, m domain.Manufacturer) (domain.Manufacturer, error) {
	if _, ok := b.bySlug[m.Slug]; ok {
		return domain.Manufacturer{}, ErrBrandExists
	}
	b.bySlug[m.Slug] = m
	b.order = append(b.order, m.Slug)
	return m, nil
}

func (b *fakeBrands) GetManufacturer(ctx context.Context, slug string) (domain.Manufacturer, error) {
	m, ok := b.bySlug[slug]
	if !ok {
		return domain.Manufacturer{}, ErrBrandNotFound
	}
	return m, nil
}

func (b *fakeBrands) ListManufacturersByOwner(ctx context.Context, owner string) ([]domain.Manufacturer, error) {
	var out []domain.Manufacturer
	for _, slug := range b.order {
		if m := b.bySlug[slug]; m.Owner == owner {
			out = append(out, m)
		}
	}
	return out, nil
}

func (b *fakeBrands) MarkVerified(ctx context.Context, slug, by string, at time.Time) (domain.Manufacturer, error) {
	m, ok := b.bySlug[slug]
	if !ok {
		return domain.Manufacturer{}, ErrBrandNotFound
	}
	m.Verified, m.VerifiedBy, m.VerifiedAt = true, by, &at
	b.bySlug[slug] = m
	return m, nil
}

func seeded() *fakeRepo {
	return newFakeRepo(
		domain.Product{
			TokenID: 1,
			Meta:    domain.Metadata{Name: "Tote", Serial: "TOTE-2025-AAAA"},
			State:   domain.StateCreated,
			Owner:   "seller@example.com",
		},
		domain.Product{
			TokenID: 2,
			Meta:    domain.Metadata{Name: "Watch", Serial: "WATCH-2025-BBBB"},
			State:   domain.StateRevoked,
			Owner:   "seller@example.com",
		},
	)
}

func TestPurchase(t *testing.T) {
	svc := NewService(seeded(), newFakeBrands(), nil, "https://marki.example")
	ctx := context.Background()

	t.Run("no buyer -> unauthenticated", func(t *testing.T) {
		_, err := svc.Purchase(ctx, 1, "  ")
		if !errors.Is(err, ErrUnauthenticated) {
			t.Fatalf("expected ErrUnauthenticated, got %v", err)
		}
	})

	t.Run("bad id -> invalid", func(t *testing.T) {
		_, err := svc.Purchase(ctx, 0, "buyer@example.com")
		if !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("expected ErrInvalidInput, got %v", err)
		}
	})

	t.Run("buyer is normalized", func(t *testing.T) {
		p, err := svc.Purchase(ctx, 1, " Buyer@Example.COM ")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if p.Owner != "buyer@example.com" || p.State != domain.StatePurchased {
			t.Fatalf("unexpected product after purchase: %+v", p)
		}
	})

	t.Run("second purchase -> already owned", func(t *testing.T) {
		_, err := svc.Purchase(ctx, 1, "buyer@example.com")
		if !errors.Is(err, ErrAlreadyOwned) {
			t.Fatalf("expected ErrAlreadyOwned, got %v", err)
		}
	})

	t.Run("unknown id -> not found", func(t *testing.T) {
		_, err := svc.Purchase(ctx, 42, "buyer@example.com")
		if !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestVerify(t *testing.T) {
	svc := NewService(seeded(), newFakeBrands(), []string{"Admin@Example.com"}, "")
	ctx := context.Background()

	t.Run("anonymous sees public scope", func(t *testing.T) {
		v, err := svc.Verify(ctx, 1, "")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if v.Scope != domain.ScopePublic || v.Metadata.Serial != "" || v.CanAcquire {
			t.Fatalf("unexpected view: %+v", v)
		}
	})

	t.Run("stranger can acquire but not see serial", func(t *testing.T) {
		v, _ := svc.Verify(ctx, 1, "buyer@example.com")
		if v.Scope != domain.ScopePublic || v.Metadata.Serial != "" || !v.CanAcquire {
			t.Fatalf("unexpected view: %+v", v)
		}
	})

	t.Run("owner sees serial", func(t *testing.T) {
		v, _ := svc.Verify(ctx, 1, "SELLER@example.com")
		if v.Scope != domain.ScopeFull || v.Metadata.Serial != "TOTE-2025-AAAA" || v.CanAcquire {
			t.Fatalf("unexpected view: %+v", v)
		}
	})

	t.Run("admin sees serial", func(t *testing.T) {
		v, _ := svc.Verify(ctx, 1, "admin@example.com")
		if v.Scope != domain.ScopeFull || !v.CanAcquire {
			t.Fatalf("unexpected view: %+v", v)
		}
	})

	t.Run("revoked cannot be acquired", func(t *testing.T) {
		v, _ := svc.Verify(ctx, 2, "buyer@example.com")
		if v.CanAcquire {
			t.Fatalf("revoked product should not be acquirable")
		}
	})

	t.Run("unknown id -> not found", func(t *testing.T) {
		_, err := svc.Verify(ctx, 99, "")
		if !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestListMine(t *testing.T) {
	svc := NewService(seeded(), newFakeBrands(), nil, "")

	if _, err := svc.ListMine(context.Background(), ""); !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
	got, err := svc.ListMine(context.Background(), "Seller@Example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 products, got %d", len(got))
	}
}

func TestRegister(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, newFakeBrands(), nil, "https://marki.example/")
	svc.now = func() time.Time { return time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC) }
	ctx := context.Background()

	t.Run("empty name -> invalid", func(t *testing.T) {
		_, err := svc.Register(ctx, "seller@example.com", domain.RegisterRequest{Name: "   "})
		if !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("expected ErrInvalidInput, got %v", err)
		}
	})

	t.Run("too many editions -> invalid", func(t *testing.T) {
		_, err := svc.Register(ctx, "seller@example.com", domain.RegisterRequest{Name: "Tote", EditionCount: maxEditions + 1})
		if !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("expected ErrInvalidInput, got %v", err)
		}
	})

	t.Run("no seller -> unauthenticated", func(t *testing.T) {
		_, err := svc.Register(ctx, "", domain.RegisterRequest{Name: "Tote"})
		if !errors.Is(err, ErrUnauthenticated) {
			t.Fatalf("expected ErrUnauthenticated, got %v", err)
		}
	})

	t.Run("single edition", func(t *testing.T) {
		ps, err := svc.Register(ctx, "Seller@Example.com", domain.RegisterRequest{Name: "Leather Tote", SKU: " lt-01 "})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(ps) != 1 {
			t.Fatalf("expected 1 product, got %d", len(ps))
		}
		p := ps[0]
		if !strings.HasPrefix(p.Meta.Serial, "LEATHER-TOTE-2025-") {
			t.Fatalf("unexpected serial %q", p.Meta.Serial)
		}
		if p.SerialHash != SerialHash(p.Meta.Serial) {
			t.Fatalf("serial hash mismatch")
		}
		if len(p.IPFSHash) != 46 || p.IPFSHash != MetadataHash(p.Meta) {
			t.Fatalf("unexpected ipfs hash %q", p.IPFSHash)
		}
		if p.BrandSlug != "" {
			t.Fatalf("personal products carry no brand, got %q", p.BrandSlug)
		}
		if p.Owner != "seller@example.com" || p.SKU != "LT-01" || p.Meta.ManufacturedAt != "2025-03-01" {
			t.Fatalf("unexpected product: %+v", p)
		}
		if p.PublicURL != "https://marki.example/details.html?id=1" {
			t.Fatalf("unexpected public url %q", p.PublicURL)
		}
		stored, _ := repo.Get(ctx, p.TokenID)
		if stored.PublicURL != p.PublicURL {
			t.Fatalf("public url not persisted: %q", stored.PublicURL)
		}
	})

	t.Run("editions are numbered", func(t *testing.T) {
		ps, err := svc.Register(ctx, "seller@example.com", domain.RegisterRequest{Name: "Scarf", EditionCount: 3})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		for i, p := range ps {
			if p.EditionNo != i+1 || p.EditionTotal != 3 {
				t.Fatalf("edition %d: got %d/%d", i, p.EditionNo, p.EditionTotal)
			}
			if !strings.Contains(p.Meta.Serial, "-2025-") || !strings.Contains(p.Meta.Serial, "/3-") {
				t.Fatalf("unexpected serial %q", p.Meta.Serial)
			}
		}
	})
}

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Leather Tote":   "LEATHER-TOTE",
		"  silk--scarf ": "SILK-SCARF",
		"Café No.5":      "CAF-NO-5",
		"***":            "ITEM",
	}
	for in, want := range cases {
		if got := Slugify(in); got != want {
			t.Fatalf("Slugify(%q) = %q, want %q", in, got, want)
		}
	}
}
