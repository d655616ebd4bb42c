package seed

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/dwikikusuma/marki-secure/internal/product/app"
	"github.com/dwikikusuma/marki-secure/internal/product/domain"
)

// File is the layout of a products seed document.
type File struct {
	Manufacturers []domain.Manufacturer `yaml:"manufacturers"`
	Products      []domain.Product      `yaml:"products"`
}

func Parse(data []byte) ([]domain.Product, error) {
	f, err := ParseFile(data)
	if err != nil {
		return nil, err
	}
	return f.Products, nil
}

// ParseFile parses a whole seed document and fills in defaults.
func ParseFile(data []byte) (File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return File{}, fmt.Errorf("parse seed: %w", err)
	}
	for i, m := range f.Manufacturers {
		if strings.TrimSpace(m.Name) == "" {
			return File{}, fmt.Errorf("parse seed: manufacturer %d has no name", i)
		}
		if m.Slug == "" {
			f.Manufacturers[i].Slug = app.Slugify(m.Name)
		}
	}
	for i, p := range f.Products {
		if p.Meta.Name == "" {
			return File{}, fmt.Errorf("parse seed: product %d has no name", i)
		}
		if p.State == "" {
			f.Products[i].State = domain.StateCreated
		}
		if p.Meta.Version == 0 {
			f.Products[i].Meta.Version = 1
		}
		if p.SerialHash == "" && p.Meta.Serial != "" {
			f.Products[i].SerialHash = app.SerialHash(p.Meta.Serial)
		}
	}
	return f, nil
}

// Load reads the seed file at path into the stores and returns how many
// products it stored. Brands that already exist are left alone; brands may
// be nil when the file lists none.
func Load(ctx context.Context, repo app.ProductRepo, brands app.ManufacturerRepo, path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("read seed: %w", err)
	}
	f, err := ParseFile(data)
	if err != nil {
		return 0, err
	}

	if len(f.Manufacturers) > 0 && brands == nil {
		return 0, errors.New("seed lists manufacturers but no manufacturer store is configured")
	}
	for _, m := range f.Manufacturers {
		_, err := brands.CreateManufacturer(ctx, m)
		if err != nil && !errors.Is(err, app.ErrBrandExists) {
			return 0, fmt.Errorf("seed manufacturer %q: %w", m.Name, err)
		}
	}

	for _, p := range f.Products {
		if _, err := repo.Create(ctx, p); err != nil {
			return 0, fmt.Errorf("seed product %q: %w", p.Meta.Name, err)
		}
	}
	return len(f.Products), nil
}
