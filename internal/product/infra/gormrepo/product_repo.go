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

// productRow is the products table layout.
type productRow struct {
	TokenID        int64 `gorm:"primaryKey;autoIncrement:false"`
	BrandSlug      string
	Name           string
	ManufacturedAt string
	Serial         string
	Certificates   string // newline separated
	Image          string
	Version        int
	IPFSHash       string `gorm:"column:ipfs_hash"`
	SerialHash     string
	State          string `gorm:"index"`
	PublicURL      string
	Owner          string `gorm:"index"`
	Seller         string
	EditionNo      int
	EditionTotal   int
	SKU            string
	BatchID        string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (productRow) TableName() string { return "products" }

// counterRow holds named sequences. Rows are locked while an id is taken.
type counterRow struct {
	Name   string `gorm:"primaryKey;size:64"`
	LastID int64
}

func (counterRow) TableName() string { return "counters" }

const productSeq = "product_seq"

type ProductRepo struct {
	db *gorm.DB
}

func NewProductRepo(db *gorm.DB) (*ProductRepo, error) {
	if err := db.AutoMigrate(&productRow{}, &counterRow{}); err != nil {
		return nil, err
	}

	var maxID int64
	if err := db.Model(&productRow{}).Select("COALESCE(MAX(token_id), 0)").Scan(&maxID).Error; err != nil {
		return nil, err
	}
	seq := counterRow{Name: productSeq, LastID: maxID}
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&seq).Error; err != nil {
		return nil, err
	}
	return &ProductRepo{db: db}, nil
}

// Create inserts p under the next id of the product sequence when p.TokenID
// is zero, and upserts it otherwise. The sequence row is locked for the whole
// transaction and never falls behind an explicitly stored id.
func (r *ProductRepo) Create(ctx context.Context, p domain.Product) (domain.Product, error) {
	row := toRow(p)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var seq counterRow
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("name = ?", productSeq).
			Take(&seq).Error
		if err != nil {
			return err
		}

		if row.TokenID == 0 {
			row.TokenID = seq.LastID + 1
			err = tx.Create(&row).Error
		} else {
			err = tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(&row).Error
		}
		if err != nil {
			return err
		}

		if row.TokenID <= seq.LastID {
			return nil
		}
		return tx.Model(&counterRow{}).
			Where("name = ?", productSeq).
			Update("last_id", row.TokenID).Error
	})
	if err != nil {
		return domain.Product{}, err
	}
	return toDomain(row), nil
}

func (r *ProductRepo) Get(ctx context.Context, id int64) (domain.Product, error) {
	var row productRow
	err := r.db.WithContext(ctx).Take(&row, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.Product{}, app.ErrNotFound
	}
	if err != nil {
		return domain.Product{}, err
	}
	return toDomain(row), nil
}

func (r *ProductRepo) ListByOwner(ctx context.Context, owner string) ([]domain.Product, error) {
	var rows []productRow
	err := r.db.WithContext(ctx).
		Where("owner = ?", strings.ToLower(owner)).
		Order("token_id").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make([]domain.Product, 0, len(rows))
	for _, row := range rows {
		out = append(out, toDomain(row))
	}
	return out, nil
}

func (r *ProductRepo) TransferOwner(ctx context.Context, id int64, newOwner string) (domain.Product, error) {
	newOwner = strings.ToLower(newOwner)

	var out domain.Product
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row productRow
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Take(&row, id).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return app.ErrNotFound
		}
		if err != nil {
			return err
		}
		if strings.EqualFold(row.Owner, newOwner) {
			return app.ErrAlreadyOwned
		}
		if row.State == string(domain.StateRevoked) {
			return app.ErrNotAvailable
		}

		row.Owner = newOwner
		row.State = string(domain.StatePurchased)
		if err := tx.Model(&row).Select("owner", "state", "updated_at").Updates(&row).Error; err != nil {
			return err
		}
		out = toDomain(row)
		return nil
	})
	return out, err
}

func toRow(p domain.Product) productRow {
	return productRow{
		TokenID:        p.TokenID,
		BrandSlug:      p.BrandSlug,
		Name:           p.Meta.Name,
		ManufacturedAt: p.Meta.ManufacturedAt,
		Serial:         p.Meta.Serial,
		Certificates:   strings.Join(p.Meta.Certificates, "\n"),
		Image:          p.Meta.Image,
		Version:        p.Meta.Version,
		IPFSHash:       p.IPFSHash,
		SerialHash:     p.SerialHash,
		State:          string(p.State),
		PublicURL:      p.PublicURL,
		Owner:          strings.ToLower(p.Owner),
		Seller:         strings.ToLower(p.Seller),
		EditionNo:      p.EditionNo,
		EditionTotal:   p.EditionTotal,
		SKU:            p.SKU,
		BatchID:        p.BatchID,
		CreatedAt:      p.CreatedAt,
	}
}

func toDomain(row productRow) domain.Product {
	var certs []string
	if row.Certificates != "" {
		certs = strings.Split(row.Certificates, "\n")
	}
	return domain.Product{
		TokenID:   row.TokenID,
		BrandSlug: row.BrandSlug,
		Meta: domain.Metadata{
			Name:           row.Name,
			ManufacturedAt: row.ManufacturedAt,
			Serial:         row.Serial,
			Certificates:   certs,
			Image:          row.Image,
			Version:        row.Version,
		},
		IPFSHash:     row.IPFSHash,
		SerialHash:   row.SerialHash,
		State:        domain.State(row.State),
		CreatedAt:    row.CreatedAt,
		PublicURL:    row.PublicURL,
		Owner:        row.Owner,
		Seller:       row.Seller,
		EditionNo:    row.EditionNo,
		EditionTotal: row.EditionTotal,
		SKU:          row.SKU,
		BatchID:      row.BatchID,
	}
}
