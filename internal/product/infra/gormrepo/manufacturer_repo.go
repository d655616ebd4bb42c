package gormrepo

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/dwikikusuma/marki-secure/internal/product/app"
	"github.com/dwikikusuma/marki-secure/internal/product/domain"
)

type manufacturerRow struct {
	Slug       string `gorm:"primaryKey;size:128"`
	Name       string
	Owner      string `gorm:"index"`
	Verified   bool
	VerifiedBy string
	VerifiedAt *time.Time
	CreatedAt  time.Time
}

func (manufacturerRow) TableName() string { return "manufacturers" }

type ManufacturerRepo struct {
	db *gorm.DB
}

func NewManufacturerRepo(db *gorm.DB) (*ManufacturerRepo, error) {
	if err := db.AutoMigrate(&manufacturerRow{}); err != nil {
		return nil, err
	}
	return &ManufacturerRepo{db: db}, nil
}

func (r *ManufacturerRepo) CreateManufacturer(ctx context.Context, m domain.Manufacturer) (domain.Manufacturer, error) {
	row := toManufacturerRow(m)
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now().UTC()
	}

	res := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&row)
	if res.Error != nil {
		return domain.Manufacturer{}, res.Error
	}
	if res.RowsAffected == 0 {
		return domain.Manufacturer{}, app.ErrBrandExists
	}
	return toManufacturer(row), nil
}

func (r *ManufacturerRepo) GetManufacturer(ctx context.Context, slug string) (domain.Manufacturer, error) {
	var row manufacturerRow
	err := r.db.WithContext(ctx).Where("slug = ?", slug).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.Manufacturer{}, app.ErrBrandNotFound
	}
	if err != nil {
		return domain.Manufacturer{}, err
	}
	return toManufacturer(row), nil
}

func (r *ManufacturerRepo) ListManufacturersByOwner(ctx context.Context, owner string) ([]domain.Manufacturer, error) {
	var rows []manufacturerRow
	err := r.db.WithContext(ctx).
		Where("owner = ?", strings.ToLower(owner)).
		Order("created_at, slug").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make([]domain.Manufacturer, 0, len(rows))
	for _, row := range rows {
		out = append(out, toManufacturer(row))
	}
	return out, nil
}

func (r *ManufacturerRepo) MarkVerified(ctx context.Context, slug, by string, at time.Time) (domain.Manufacturer, error) {
	res := r.db.WithContext(ctx).
		Model(&manufacturerRow{}).
		Where("slug = ?", slug).
		Updates(map[string]any{
			"verified":    true,
			"verified_by": strings.ToLower(by),
			"verified_at": at,
		})
	if res.Error != nil {
		return domain.Manufacturer{}, res.Error
	}
	if res.RowsAffected == 0 {
		return domain.Manufacturer{}, app.ErrBrandNotFound
	}
	return r.GetManufacturer(ctx, slug)
}

func toManufacturerRow(m domain.Manufacturer) manufacturerRow {
	return manufacturerRow{
		Slug:       m.Slug,
		Name:       m.Name,
		Owner:      strings.ToLower(m.Owner),
		Verified:   m.Verified,
		VerifiedBy: m.VerifiedBy,
		VerifiedAt: m.VerifiedAt,
		CreatedAt:  m.CreatedAt,
	}
}

func toManufacturer(row manufacturerRow) domain.Manufacturer {
	return domain.Manufacturer{
		Name:       row.Name,
		Slug:       row.Slug,
		Owner:      row.Owner,
		Verified:   row.Verified,
		VerifiedBy: row.VerifiedBy,
		VerifiedAt: row.VerifiedAt,
		CreatedAt:  row.CreatedAt,
	}
}
