// Package backendtest holds the behaviour every cart persistence backend must share.
package backendtest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dwikikusuma/marki-secure/internal/cart/app"
)

func Run(t *testing.T, b app.Backend) {
	t.Helper()
	ctx := context.Background()

	t.Run("missing key -> ErrNotFound", func(t *testing.T) {
		_, err := b.Load(ctx, "absent.key")
		require.ErrorIs(t, err, app.ErrNotFound)
	})

	t.Run("save then load", func(t *testing.T) {
		require.NoError(t, b.Save(ctx, "marki.cart.v1", []byte(`[{"id":1}]`)))
		got, err := b.Load(ctx, "marki.cart.v1")
		require.NoError(t, err)
		assert.Equal(t, `[{"id":1}]`, string(got))
	})

	t.Run("save overwrites", func(t *testing.T) {
		require.NoError(t, b.Save(ctx, "marki.cart.v1", []byte(`[]`)))
		got, err := b.Load(ctx, "marki.cart.v1")
		require.NoError(t, err)
		assert.Equal(t, `[]`, string(got))
	})

	t.Run("keys are isolated", func(t *testing.T) {
		require.NoError(t, b.Save(ctx, "xUser", []byte("a@example.com")))
		got, err := b.Load(ctx, "marki.cart.v1")
		require.NoError(t, err)
		assert.Equal(t, `[]`, string(got))
	})

	t.Run("store round trip", func(t *testing.T) {
		store := app.NewStore(b, "roundtrip.cart", nil)
		require.NoError(t, store.Clear(ctx))
		n, err := store.Count(ctx)
		require.NoError(t, err)
		assert.Zero(t, n)
	})
}
