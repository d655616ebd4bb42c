package app_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dwikikusuma/marki-secure/internal/cart/app"
	"github.com/dwikikusuma/marki-secure/internal/cart/domain"
	"github.com/dwikikusuma/marki-secure/internal/cart/infra/memory"
	"github.com/dwikikusuma/marki-secure/pkg/logger"
)

func newStore(t *testing.T) (*app.Store, *memory.Backend) {
	t.Helper()
	b := memory.NewBackend()
	return app.NewStore(b, app.DefaultKey, logger.Discard()), b
}

func bag(id domain.ProductID) domain.CartItem {
	return domain.CartItem{ID: id, Name: "Bag " + id.String(), Serial: "SN-" + id.String(), Image: "https://img/" + id.String(), URL: "https://p/" + id.String()}
}

func TestReadEmptyWhenAbsent(t *testing.T) {
	store, _ := newStore(t)

	items, err := store.Read(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []domain.CartItem{}, items)
}

func TestReadSwallowsCorruption(t *testing.T) {
	ctx := context.Background()
	store, b := newStore(t)

	for name, raw := range map[string]string{
		"not json":   "{{{",
		"wrong type": `{"id":1}`,
		"bad id":     `[{"id":"abc"}]`,
	} {
		t.Run(name, func(t *testing.T) {
			b.Put(app.DefaultKey, []byte(raw))
			items, err := store.Read(ctx)
			require.NoError(t, err)
			assert.Empty(t, items)

			n, err := store.Count(ctx)
			require.NoError(t, err)
			assert.Zero(t, n)
		})
	}
}

func TestReadNullIsEmpty(t *testing.T) {
	store, b := newStore(t)
	b.Put(app.DefaultKey, []byte("null"))

	items, err := store.Read(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []domain.CartItem{}, items)
}

func TestAddKeepsItemsStoredWithFloatIDs(t *testing.T) {
	ctx := context.Background()
	store, b := newStore(t)
	b.Put(app.DefaultKey, []byte(`[{"id":1.0,"name":"Tote"},{"id":"2","name":"Scarf"}]`))

	require.NoError(t, store.Add(ctx, bag(3)))

	items, err := store.Read(ctx)
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, domain.ProductID(1), items[0].ID)
	assert.Equal(t, "Tote", items[0].Name)
	assert.Equal(t, domain.ProductID(2), items[1].ID)
	assert.Equal(t, domain.ProductID(3), items[2].ID)
}

func TestAddIdempotent(t *testing.T) {
	ctx := context.Background()
	store, b := newStore(t)

	require.NoError(t, store.Add(ctx, bag(1)))
	once, err := store.Read(ctx)
	require.NoError(t, err)

	require.NoError(t, store.Add(ctx, bag(1)))
	twice, err := store.Read(ctx)
	require.NoError(t, err)

	assert.Equal(t, once, twice)
	assert.Equal(t, 1, b.Saves(), "re-adding a present id does not write")
}

func TestAddRejectsNonPositiveID(t *testing.T) {
	store, _ := newStore(t)
	err := store.Add(context.Background(), domain.CartItem{ID: 0})
	assert.ErrorIs(t, err, app.ErrInvalidItem)
}

func TestRemoveRestoresPriorCart(t *testing.T) {
	ctx := context.Background()
	store, _ := newStore(t)

	require.NoError(t, store.Add(ctx, bag(1)))
	require.NoError(t, store.Add(ctx, bag(2)))
	before, err := store.Read(ctx)
	require.NoError(t, err)

	require.NoError(t, store.Add(ctx, bag(3)))
	require.NoError(t, store.Remove(ctx, 3))

	after, err := store.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestCountMatchesRead(t *testing.T) {
	ctx := context.Background()
	store, _ := newStore(t)

	ops := []func() error{
		func() error { return store.Add(ctx, bag(1)) },
		func() error { return store.Add(ctx, bag(2)) },
		func() error { return store.Add(ctx, bag(1)) },
		func() error { return store.Remove(ctx, 7) },
		func() error { return store.Add(ctx, bag(3)) },
		func() error { return store.Remove(ctx, 2) },
		func() error { return store.Clear(ctx) },
		func() error { return store.Add(ctx, bag(4)) },
	}
	for i, op := range ops {
		require.NoError(t, op(), "op %d", i)

		items, err := store.Read(ctx)
		require.NoError(t, err)
		n, err := store.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, len(items), n, "after op %d", i)
		assert.Equal(t, domain.Dedupe(items), items, "no duplicate ids after op %d", i)
	}
}

func TestExists(t *testing.T) {
	ctx := context.Background()
	store, _ := newStore(t)
	require.NoError(t, store.Add(ctx, bag(5)))

	ok, err := store.Exists(ctx, 5)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = store.Exists(ctx, 6)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestReplaceDedupes(t *testing.T) {
	ctx := context.Background()
	store, _ := newStore(t)

	require.NoError(t, store.Replace(ctx, []domain.CartItem{bag(2), bag(1), bag(2)}))
	items, err := store.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, []domain.CartItem{bag(2), bag(1)}, items)
}

func TestSubscribeSeesEveryWrite(t *testing.T) {
	ctx := context.Background()
	store, _ := newStore(t)

	var counts []int
	store.Subscribe(func(items []domain.CartItem) { counts = append(counts, len(items)) })

	require.NoError(t, store.Add(ctx, bag(1)))
	require.NoError(t, store.Add(ctx, bag(2)))
	require.NoError(t, store.Add(ctx, bag(2)))
	require.NoError(t, store.Remove(ctx, 1))
	require.NoError(t, store.Clear(ctx))

	assert.Equal(t, []int{1, 2, 1, 0}, counts)
}

type failingBackend struct{}

var errDown = errors.New("backend down")

func (failingBackend) Load(context.Context, string) ([]byte, error) { return nil, errDown }
func (failingBackend) Save(context.Context, string, []byte) error   { return errDown }

func TestBackendErrorsSurface(t *testing.T) {
	ctx := context.Background()
	store := app.NewStore(failingBackend{}, "", logger.Discard())

	_, err := store.Read(ctx)
	assert.ErrorIs(t, err, errDown)
	assert.ErrorIs(t, store.Add(ctx, bag(1)), errDown)
	assert.ErrorIs(t, store.Clear(ctx), errDown)
}
