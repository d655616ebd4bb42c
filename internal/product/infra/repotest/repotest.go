// Package repotest holds the behaviour every product repository must share.
package repotest

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dwikikusuma/marki-secure/internal/product/app"
	"github.com/dwikikusuma/marki-secure/internal/product/domain"
)

func product(name, owner string) domain.Product {
	return domain.Product{
		Meta:   domain.Metadata{Name: name, Serial: name + "-SN", Version: 1, Certificates: []string{"coa"}},
		State:  domain.StateCreated,
		Owner:  owner,
		Seller: owner,
	}
}

func Run(t *testing.T, repo app.ProductRepo) {
	t.Helper()
	ctx := context.Background()

	first, err := repo.Create(ctx, product("Tote", "Seller@Example.com"))
	require.NoError(t, err)
	second, err := repo.Create(ctx, product("Scarf", "seller@example.com"))
	require.NoError(t, err)
	revoked := product("Watch", "seller@example.com")
	revoked.State = domain.StateRevoked
	revoked, err = repo.Create(ctx, revoked)
	require.NoError(t, err)

	t.Run("create assigns increasing ids", func(t *testing.T) {
		assert.Positive(t, first.TokenID)
		assert.Greater(t, second.TokenID, first.TokenID)
	})

	t.Run("get returns stored product", func(t *testing.T) {
		got, err := repo.Get(ctx, first.TokenID)
		require.NoError(t, err)
		assert.Equal(t, "Tote", got.Meta.Name)
		assert.Equal(t, "seller@example.com", got.Owner)
		assert.Equal(t, []string{"coa"}, got.Meta.Certificates)
	})

	t.Run("missing id -> ErrNotFound", func(t *testing.T) {
		_, err := repo.Get(ctx, 999_999)
		require.ErrorIs(t, err, app.ErrNotFound)
		_, err = repo.TransferOwner(ctx, 999_999, "buyer@example.com")
		require.ErrorIs(t, err, app.ErrNotFound)
	})

	t.Run("create with id replaces", func(t *testing.T) {
		p, err := repo.Get(ctx, second.TokenID)
		require.NoError(t, err)
		p.PublicURL = "https://marki.example/details.html?id=2"
		_, err = repo.Create(ctx, p)
		require.NoError(t, err)

		got, err := repo.Get(ctx, second.TokenID)
		require.NoError(t, err)
		assert.Equal(t, p.PublicURL, got.PublicURL)
	})

	t.Run("transfer to buyer", func(t *testing.T) {
		got, err := repo.TransferOwner(ctx, first.TokenID, "Buyer@Example.com")
		require.NoError(t, err)
		assert.Equal(t, "buyer@example.com", got.Owner)
		assert.Equal(t, domain.StatePurchased, got.State)

		mine, err := repo.ListByOwner(ctx, "buyer@example.com")
		require.NoError(t, err)
		require.Len(t, mine, 1)
		assert.Equal(t, first.TokenID, mine[0].TokenID)
	})

	t.Run("transfer to current owner -> ErrAlreadyOwned", func(t *testing.T) {
		_, err := repo.TransferOwner(ctx, first.TokenID, "buyer@example.com")
		require.ErrorIs(t, err, app.ErrAlreadyOwned)
	})

	t.Run("revoked -> ErrNotAvailable", func(t *testing.T) {
		_, err := repo.TransferOwner(ctx, revoked.TokenID, "buyer@example.com")
		require.ErrorIs(t, err, app.ErrNotAvailable)

		got, err := repo.Get(ctx, revoked.TokenID)
		require.NoError(t, err)
		assert.Equal(t, "seller@example.com", got.Owner)
	})

	t.Run("list by owner is ordered", func(t *testing.T) {
		mine, err := repo.ListByOwner(ctx, "seller@example.com")
		require.NoError(t, err)
		require.Len(t, mine, 2)
		assert.Less(t, mine[0].TokenID, mine[1].TokenID)

		none, err := repo.ListByOwner(ctx, "nobody@example.com")
		require.NoError(t, err)
		assert.Empty(t, none)
	})

	t.Run("concurrent buyers -> one winner", func(t *testing.T) {
		p, err := repo.Create(ctx, product("Ring", "seller@example.com"))
		require.NoError(t, err)

		var (
			wg   sync.WaitGroup
			mu   sync.Mutex
			wins int
		)
		for i := 0; i < 8; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if _, err := repo.TransferOwner(ctx, p.TokenID, "racer@example.com"); err == nil {
					mu.Lock()
					wins++
					mu.Unlock()
				}
			}()
		}
		wg.Wait()
		assert.Equal(t, 1, wins)
	})
	t.Run("concurrent creates get distinct ids", func(t *testing.T) {
		const n = 16
		var (
			wg  sync.WaitGroup
			mu  sync.Mutex
			ids = make(map[int64]struct{}, n)
		)
		errs := make(chan error, n)
		for i := 0; i < n; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				p, err := repo.Create(ctx, product("Pin", "maker@example.com"))
				if err != nil {
					errs <- err
					return
				}
				mu.Lock()
				ids[p.TokenID] = struct{}{}
				mu.Unlock()
			}()
		}
		wg.Wait()
		close(errs)
		for err := range errs {
			require.NoError(t, err)
		}
		assert.Len(t, ids, n)

		mine, err := repo.ListByOwner(ctx, "maker@example.com")
		require.NoError(t, err)
		assert.Len(t, mine, n)
	})

	t.Run("explicit id moves the sequence", func(t *testing.T) {
		high := product("Crown", "seller@example.com")
		high.TokenID = 100_000
		_, err := repo.Create(ctx, high)
		require.NoError(t, err)

		next, err := repo.Create(ctx, product("Cape", "seller@example.com"))
		require.NoError(t, err)
		assert.Equal(t, int64(100_001), next.TokenID)
	})
}

// RunManufacturers exercises an app.ManufacturerRepo.
func RunManufacturers(t *testing.T, repo app.ManufacturerRepo) {
	t.Helper()
	ctx := context.Background()
	base := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

	acme, err := repo.CreateManufacturer(ctx, domain.Manufacturer{
		Name: "Acme", Slug: "ACME", Owner: "Owner@Example.com", CreatedAt: base,
	})
	require.NoError(t, err)
	_, err = repo.CreateManufacturer(ctx, domain.Manufacturer{
		Name: "Beta Works", Slug: "BETA-WORKS", Owner: "owner@example.com", CreatedAt: base.Add(time.Hour),
	})
	require.NoError(t, err)

	t.Run("create lowercases owner", func(t *testing.T) {
		assert.Equal(t, "owner@example.com", acme.Owner)
		assert.False(t, acme.Verified)
	})

	t.Run("duplicate slug -> ErrBrandExists", func(t *testing.T) {
		_, err := repo.CreateManufacturer(ctx, domain.Manufacturer{
			Name: "ACME", Slug: "ACME", Owner: "other@example.com", CreatedAt: base,
		})
		require.ErrorIs(t, err, app.ErrBrandExists)

		got, err := repo.GetManufacturer(ctx, "ACME")
		require.NoError(t, err)
		assert.Equal(t, "owner@example.com", got.Owner)
	})

	t.Run("missing slug -> ErrBrandNotFound", func(t *testing.T) {
		_, err := repo.GetManufacturer(ctx, "NOPE")
		require.ErrorIs(t, err, app.ErrBrandNotFound)
		_, err = repo.MarkVerified(ctx, "NOPE", "admin@example.com", base)
		require.ErrorIs(t, err, app.ErrBrandNotFound)
	})

	t.Run("list by owner is oldest first", func(t *testing.T) {
		got, err := repo.ListManufacturersByOwner(ctx, "OWNER@example.com")
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "ACME", got[0].Slug)
		assert.Equal(t, "BETA-WORKS", got[1].Slug)

		none, err := repo.ListManufacturersByOwner(ctx, "nobody@example.com")
		require.NoError(t, err)
		assert.Empty(t, none)
	})

	t.Run("mark verified", func(t *testing.T) {
		at := base.Add(24 * time.Hour)
		got, err := repo.MarkVerified(ctx, "BETA-WORKS", "Admin@Example.com", at)
		require.NoError(t, err)
		assert.True(t, got.Verified)
		assert.Equal(t, "admin@example.com", got.VerifiedBy)
		require.NotNil(t, got.VerifiedAt)
		assert.WithinDuration(t, at, *got.VerifiedAt, time.Second)
	})
}
