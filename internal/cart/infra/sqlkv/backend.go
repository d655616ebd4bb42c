package sqlkv

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/dwikikusuma/marki-secure/internal/cart/app"
	"github.com/dwikikusuma/marki-secure/pkg/database"
)

// Entry is one row of the kv_entries table.
type Entry struct {
	Key       string `gorm:"primaryKey;size:191"`
	Value     []byte
	UpdatedAt time.Time
}

func (Entry) TableName() string { return "kv_entries" }

type Backend struct {
	db *gorm.DB
}

// Open connects with the given dialect ("postgres" or "sqlite") and migrates the table.
func Open(dialect, dsn string) (*Backend, error) {
	db, err := database.Open(dialect, dsn)
	if err != nil {
		return nil, err
	}
	return NewBackend(db)
}

func NewBackend(db *gorm.DB) (*Backend, error) {
	if err := db.AutoMigrate(&Entry{}); err != nil {
		return nil, fmt.Errorf("migrate kv_entries: %w", err)
	}
	return &Backend{db: db}, nil
}

func (b *Backend) Load(ctx context.Context, key string) ([]byte, error) {
	var e Entry
	err := b.db.WithContext(ctx).Where(clause.Eq{Column: clause.Column{Name: "key"}, Value: key}).Take(&e).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, app.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return e.Value, nil
}

func (b *Backend) Save(ctx context.Context, key string, data []byte) error {
	e := Entry{Key: key, Value: data, UpdatedAt: time.Now().UTC()}
	return b.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&e).Error
}

func (b *Backend) Close() error {
	return database.Close(b.db)
}
