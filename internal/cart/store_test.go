package cart

import (
	"context"
	"errors"
	"testing"

	"github.com/angelmondragon/storefront/internal/storage"
	"github.com/angelmondragon/storefront/pkg/logger"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingSlots struct {
	getErr error
	setErr error
}

func (f failingSlots) Get(context.Context, string, string) ([]byte, bool, error) {
	return nil, false, f.getErr
}

func (f failingSlots) Set(context.Context, string, string, []byte) error {
	return f.setErr
}

func (failingSlots) Ping(context.Context) error { return nil }

func newTestStore(t *testing.T, slots storage.Slots) *Store {
	t.Helper()
	store, err := NewStore(slots, logger.Nop())
	require.NoError(t, err)
	return store
}

func TestStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t, storage.NewMemorySlots())

	assert.Empty(t, store.Load(ctx, "s1"), "absent slot loads empty")

	c, _ := Add(nil, product("a", 12000), 2)
	require.NoError(t, store.Save(ctx, "s1", c))

	got := store.Load(ctx, "s1")
	require.Len(t, got, 1)
	assert.Equal(t, "a", got[0].ItemID)
	assert.Equal(t, 2, got[0].Quantity)
	assert.True(t, got[0].Price.Equal(decimal.NewFromInt(12000)))
	assert.Equal(t, "XOF", got[0].Currency)

	assert.Empty(t, store.Load(ctx, "s2"), "scopes do not share carts")
}

func TestStoreNotifiesOncePerSave(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t, storage.NewMemorySlots())

	var calls int
	var lastScope string
	store.OnChange(func(_ context.Context, scope string, _ Cart) {
		calls++
		lastScope = scope
	})

	c, _ := Add(nil, product("a", 10), 1)
	require.NoError(t, store.Save(ctx, "s1", c))
	require.NoError(t, store.Save(ctx, "s1", c))
	assert.Equal(t, 2, calls, "unchanged content still notifies")
	assert.Equal(t, "s1", lastScope)

	failing := newTestStore(t, failingSlots{setErr: errors.New("down")})
	failing.OnChange(func(context.Context, string, Cart) { calls++ })
	require.Error(t, failing.Save(ctx, "s1", c))
	assert.Equal(t, 2, calls, "failed saves do not notify")
}

func TestStoreLoadSelfHeals(t *testing.T) {
	ctx := context.Background()

	cases := []struct {
		name  string
		raw   string
		check func(t *testing.T, c Cart)
	}{
		{"not json", `{oops`, func(t *testing.T, c Cart) { assert.Empty(t, c) }},
		{"not an array", `{"item_id":"a"}`, func(t *testing.T, c Cart) { assert.Empty(t, c) }},
		{"null", `null`, func(t *testing.T, c Cart) { assert.Empty(t, c) }},
		{
			"repairs fields",
			`[{"item_id":"","price":5,"quantity":1},{"item_id":"a","price":"-3","quantity":0},{"item_id":"b","price":"abc","quantity":"4","currency":"EUR"}]`,
			func(t *testing.T, c Cart) {
				require.Len(t, c, 2)
				assert.Equal(t, "a", c[0].ItemID)
				assert.True(t, c[0].Price.IsZero())
				assert.Equal(t, 1, c[0].Quantity)
				assert.Equal(t, "XOF", c[0].Currency)
				assert.True(t, c[1].Price.IsZero())
				assert.Equal(t, 4, c[1].Quantity)
				assert.Equal(t, "EUR", c[1].Currency)
			},
		},
		{
			"merges duplicate ids",
			`[{"item_id":"a","price":100,"quantity":2},{"item_id":"b","price":1,"quantity":1},{"item_id":"a","price":999,"quantity":3}]`,
			func(t *testing.T, c Cart) {
				require.Len(t, c, 2)
				assert.Equal(t, 5, c[0].Quantity)
				assert.True(t, c[0].Price.Equal(decimal.NewFromInt(100)))
			},
		},
		{
			"caps huge quantities",
			`[{"item_id":"a","price":1,"quantity":1e30},{"item_id":"b","price":1,"quantity":"-1e30"},{"item_id":"a","price":1,"quantity":"9223372036854775807"}]`,
			func(t *testing.T, c Cart) {
				require.Len(t, c, 2)
				assert.Equal(t, MaxQuantity, c[0].Quantity)
				assert.Equal(t, 1, c[1].Quantity)
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			slots := storage.NewMemorySlots()
			require.NoError(t, slots.Set(ctx, "s1", storage.CartSlot, []byte(tc.raw)))
			tc.check(t, newTestStore(t, slots).Load(ctx, "s1"))
		})
	}
}

func TestStoreLoadBackendErrorIsEmpty(t *testing.T) {
	store := newTestStore(t, failingSlots{getErr: errors.New("boom")})
	assert.Empty(t, store.Load(context.Background(), "s1"))
}

func TestStoreClear(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t, storage.NewMemorySlots())
	c, _ := Add(nil, product("a", 10), 1)
	require.NoError(t, store.Save(ctx, "s1", c))
	require.NoError(t, store.Clear(ctx, "s1"))
	assert.Empty(t, store.Load(ctx, "s1"))
}
