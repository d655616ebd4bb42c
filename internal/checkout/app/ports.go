package app

import (
	"context"
	"time"

	"github.com/dwikikusuma/marki-secure/internal/checkout/domain"
)

type CartStore interface {
	Items(ctx context.Context) ([]domain.Item, error)
	Clear(ctx context.Context) error
	Replace(ctx context.Context, items []domain.Item) error
}

// Purchaser claims one product for user. Any error marks the item failed.
type Purchaser interface {
	Purchase(ctx context.Context, productID int64, user string) error
}

type Recorder interface {
	ItemAttempted(outcome string)
	CheckoutFinished(d time.Duration, succeeded, failed int)
}

type nopRecorder struct{}

func (nopRecorder) ItemAttempted(string)                     {}
func (nopRecorder) CheckoutFinished(time.Duration, int, int) {}
