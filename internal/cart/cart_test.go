package cart

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fjod/shopfront/internal/store"
)

// memStore is an in-memory store.Store for tests.
type memStore struct {
	mu    sync.Mutex
	slots map[string][]byte
}

func newMemStore() *memStore {
	return &memStore{slots: make(map[string][]byte)}
}

func (m *memStore) Get(_ context.Context, slot string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.slots[slot]
	if !ok {
		return nil, store.ErrNotFound
	}
	return data, nil
}

func (m *memStore) Set(_ context.Context, slot string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slots[slot] = data
	return nil
}

func (m *memStore) Delete(_ context.Context, slot string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.slots, slot)
	return nil
}

func mug() Snapshot {
	return Snapshot{ProductID: 1, Name: "Mug", PriceCents: 999, ImageURL: "http://img/mug.jpg"}
}

func lamp() Snapshot {
	return Snapshot{ProductID: 2, Name: "Lamp", PriceCents: 2500}
}

func TestAdd_MergesSameProduct(t *testing.T) {
	c := New(newMemStore())
	ctx := context.Background()

	require.NoError(t, c.Add(ctx, mug(), 1))
	require.NoError(t, c.Add(ctx, mug(), 3))
	require.NoError(t, c.Add(ctx, mug(), 2))

	items := c.Items()
	require.Len(t, items, 1)
	assert.Equal(t, 6, items[0].Quantity)
	assert.Equal(t, int64(1), items[0].Product.ProductID)
}

func TestAdd_ClampsQuantityToOne(t *testing.T) {
	c := New(newMemStore())
	ctx := context.Background()

	require.NoError(t, c.Add(ctx, mug(), 0))
	require.NoError(t, c.Add(ctx, lamp(), -5))

	items := c.Items()
	require.Len(t, items, 2)
	assert.Equal(t, 1, items[0].Quantity)
	assert.Equal(t, 1, items[1].Quantity)
}

func TestAdd_SnapshotPriceIsFrozen(t *testing.T) {
	c := New(newMemStore())
	ctx := context.Background()

	require.NoError(t, c.Add(ctx, mug(), 1))

	// the catalog price changing later must not affect the cart line
	changed := mug()
	changed.PriceCents = 1500
	_ = changed

	items := c.Items()
	assert.Equal(t, int64(999), items[0].Product.PriceCents)
	assert.Equal(t, int64(999), c.SubtotalCents())
}

func TestUpdateQuantity_ZeroOrNegativeRemoves(t *testing.T) {
	for _, qty := range []int{0, -1, -100} {
		c := New(newMemStore())
		ctx := context.Background()

		require.NoError(t, c.Add(ctx, mug(), 2))
		require.NoError(t, c.UpdateQuantity(ctx, 1, qty))

		assert.Empty(t, c.Items(), "quantity %d should remove the line", qty)
	}
}

func TestUpdateQuantity_Overwrites(t *testing.T) {
	c := New(newMemStore())
	ctx := context.Background()

	require.NoError(t, c.Add(ctx, mug(), 2))
	require.NoError(t, c.UpdateQuantity(ctx, 1, 7))

	items := c.Items()
	require.Len(t, items, 1)
	assert.Equal(t, 7, items[0].Quantity)
}

func TestRemove_IsIdempotent(t *testing.T) {
	c := New(newMemStore())
	ctx := context.Background()

	require.NoError(t, c.Add(ctx, mug(), 1))
	require.NoError(t, c.Remove(ctx, 1))
	require.NoError(t, c.Remove(ctx, 1))
	require.NoError(t, c.Remove(ctx, 42))

	assert.Empty(t, c.Items())
}

func TestDerivedValues(t *testing.T) {
	c := New(newMemStore())
	ctx := context.Background()

	require.NoError(t, c.Add(ctx, mug(), 2))  //  2 x  999
	require.NoError(t, c.Add(ctx, lamp(), 1)) //  1 x 2500

	assert.Equal(t, 3, c.Count())
	assert.Equal(t, int64(4498), c.SubtotalCents())
}

func TestPersistence_RoundTrip(t *testing.T) {
	st := newMemStore()
	ctx := context.Background()

	c := New(st)
	require.NoError(t, c.Add(ctx, mug(), 2))
	require.NoError(t, c.Add(ctx, lamp(), 1))
	require.NoError(t, c.UpdateQuantity(ctx, 2, 4))
	_, err := c.ToggleWishlist(ctx, 9)
	require.NoError(t, err)

	// a fresh context hydrating from the same store sees identical state
	restored := New(st)
	restored.Hydrate(ctx)

	assert.Equal(t, c.Items(), restored.Items())
	assert.Equal(t, c.Wishlist(), restored.Wishlist())
	assert.Equal(t, c.SubtotalCents(), restored.SubtotalCents())
}

func TestHydrate_CorruptSlotsYieldEmptyState(t *testing.T) {
	st := newMemStore()
	ctx := context.Background()
	require.NoError(t, st.Set(ctx, store.SlotCart, []byte("{not json")))
	require.NoError(t, st.Set(ctx, store.SlotWishlist, []byte("also bad")))

	c := New(st)
	c.Hydrate(ctx)

	assert.Empty(t, c.Items())
	assert.Empty(t, c.Wishlist())
}

func TestHydrate_SanitizesInvalidPersistedState(t *testing.T) {
	st := newMemStore()
	ctx := context.Background()
	// duplicate lines and a zero quantity, as a hostile or stale writer
	// could have left them
	require.NoError(t, st.Set(ctx, store.SlotCart, []byte(
		`[{"product":{"product_id":1,"name":"Mug","price_cents":999},"quantity":2},
		  {"product":{"product_id":1,"name":"Mug","price_cents":999},"quantity":3},
		  {"product":{"product_id":2,"name":"Lamp","price_cents":2500},"quantity":0}]`)))

	c := New(st)
	c.Hydrate(ctx)

	items := c.Items()
	require.Len(t, items, 1)
	assert.Equal(t, 5, items[0].Quantity)
}

func TestToggleWishlist_PairLeavesMembershipUnchanged(t *testing.T) {
	c := New(newMemStore())
	ctx := context.Background()

	in, err := c.ToggleWishlist(ctx, 5)
	require.NoError(t, err)
	assert.True(t, in)
	assert.True(t, c.InWishlist(5))

	in, err = c.ToggleWishlist(ctx, 5)
	require.NoError(t, err)
	assert.False(t, in)
	assert.False(t, c.InWishlist(5))
}

func TestWishlist_PreservesInsertionOrder(t *testing.T) {
	c := New(newMemStore())
	ctx := context.Background()

	for _, id := range []int64{3, 1, 2} {
		_, err := c.ToggleWishlist(ctx, id)
		require.NoError(t, err)
	}

	assert.Equal(t, []int64{3, 1, 2}, c.Wishlist())
}

func TestCentsFromDollars(t *testing.T) {
	assert.Equal(t, int64(999), CentsFromDollars(9.99))
	assert.Equal(t, int64(5000), CentsFromDollars(50.00))
	assert.Equal(t, int64(4999), CentsFromDollars(49.99))
	assert.Equal(t, int64(0), CentsFromDollars(0))
}
