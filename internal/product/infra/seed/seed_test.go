package seed

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dwikikusuma/marki-secure/internal/product/domain"
	"github.com/dwikikusuma/marki-secure/internal/product/infra/memory"
)

const sample = `
manufacturers:
  - name: Marki Atelier
    owner: Atelier@Example.com
products:
  - token_id: 7
    brand_slug: marki
    owner: Seller@Example.com
    seller: seller@example.com
    meta:
      name: Leather Tote
      serial: TOTE-2025-ABC
      manufactured_at: "2025-01-02"
  - meta:
      name: Silk Scarf
    state: revoked
`

func TestParse(t *testing.T) {
	products, err := Parse([]byte(sample))
	require.NoError(t, err)
	require.Len(t, products, 2)

	assert.Equal(t, int64(7), products[0].TokenID)
	assert.Equal(t, domain.StateCreated, products[0].State)
	assert.Equal(t, 1, products[0].Meta.Version)
	assert.NotEmpty(t, products[0].SerialHash)

	assert.Equal(t, domain.StateRevoked, products[1].State)
	assert.Empty(t, products[1].SerialHash)
}

func TestParseRejectsNamelessProduct(t *testing.T) {
	_, err := Parse([]byte("products:\n  - token_id: 1\n"))
	require.Error(t, err)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "products.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o600))

	repo := memory.NewProductRepo()
	brands := memory.NewManufacturerRepo()
	n, err := Load(context.Background(), repo, brands, path)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	m, err := brands.GetManufacturer(context.Background(), "MARKI-ATELIER")
	require.NoError(t, err)
	assert.Equal(t, "atelier@example.com", m.Owner)

	// reloading is idempotent
	_, err = Load(context.Background(), repo, brands, path)
	require.NoError(t, err)

	p, err := repo.Get(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, "seller@example.com", p.Owner)

	// Ids continue after the highest seeded one.
	p, err = repo.Get(context.Background(), 8)
	require.NoError(t, err)
	assert.Equal(t, "Silk Scarf", p.Meta.Name)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(context.Background(), memory.NewProductRepo(), nil, filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestParseFileDefaultsSlug(t *testing.T) {
	f, err := ParseFile([]byte(sample))
	require.NoError(t, err)
	require.Len(t, f.Manufacturers, 1)
	assert.Equal(t, "MARKI-ATELIER", f.Manufacturers[0].Slug)

	_, err = ParseFile([]byte("manufacturers:\n  - owner: a@example.com\n"))
	require.Error(t, err)
}

func TestLoadManufacturersNeedStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "products.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o600))

	_, err := Load(context.Background(), memory.NewProductRepo(), nil, path)
	require.Error(t, err)
}
