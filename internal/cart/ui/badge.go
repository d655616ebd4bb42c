package ui

import (
	"fmt"
	"io"
	"sync"

	"github.com/dwikikusuma/marki-secure/internal/cart/domain"
)

// Badge renders the cart count whenever the store reports a change.
type Badge struct {
	mu   sync.Mutex
	w    io.Writer
	last int
}

func NewBadge(w io.Writer) *Badge {
	return &Badge{w: w, last: -1}
}

// Listener is meant for app.Store.Subscribe.
func (b *Badge) Listener() func(items []domain.CartItem) {
	return func(items []domain.CartItem) { b.Render(len(items)) }
}

// Render writes the count, skipping repeats of the last value.
func (b *Badge) Render(n int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if n == b.last {
		return
	}
	b.last = n
	fmt.Fprintln(b.w, Label(n))
}

func Label(n int) string {
	if n == 1 {
		return "cart: 1 item"
	}
	return fmt.Sprintf("cart: %d items", n)
}
