package catalog

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fjod/shopfront/internal/api"
)

type mockProductAPI struct {
	mu        sync.Mutex
	getCalls  int32
	listCalls int32
	product   *api.Product
	list      *api.ProductList
	err       error
	block     chan struct{} // when set, Get blocks until closed
}

func (m *mockProductAPI) GetProduct(context.Context, int64) (*api.Product, error) {
	atomic.AddInt32(&m.getCalls, 1)
	if m.block != nil {
		<-m.block
	}
	return m.product, m.err
}

func (m *mockProductAPI) ListProducts(context.Context, api.ProductQuery) (*api.ProductList, error) {
	atomic.AddInt32(&m.listCalls, 1)
	return m.list, m.err
}

func TestGetProduct_CachesWithinTTL(t *testing.T) {
	mock := &mockProductAPI{product: &api.Product{ID: 1, Name: "Mug", Price: 9.99}}
	c := New(mock, time.Minute)

	ctx := context.Background()
	for i := 0; i < 5; i++ {
		p, err := c.GetProduct(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, "Mug", p.Name)
	}

	assert.Equal(t, int32(1), atomic.LoadInt32(&mock.getCalls))
}

func TestGetProduct_ExpiresAfterTTL(t *testing.T) {
	mock := &mockProductAPI{product: &api.Product{ID: 1, Name: "Mug"}}
	c := New(mock, time.Minute)

	current := time.Now()
	c.now = func() time.Time { return current }

	ctx := context.Background()
	_, err := c.GetProduct(ctx, 1)
	require.NoError(t, err)

	current = current.Add(2 * time.Minute)
	_, err = c.GetProduct(ctx, 1)
	require.NoError(t, err)

	assert.Equal(t, int32(2), atomic.LoadInt32(&mock.getCalls))
}

func TestGetProduct_SingleflightCollapsesConcurrentMisses(t *testing.T) {
	block := make(chan struct{})
	mock := &mockProductAPI{product: &api.Product{ID: 1, Name: "Mug"}, block: block}
	c := New(mock, time.Minute)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := c.GetProduct(context.Background(), 1)
			assert.NoError(t, err)
		}()
	}

	// give the goroutines time to pile onto the same key
	time.Sleep(50 * time.Millisecond)
	close(block)
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&mock.getCalls))
}

func TestGetProduct_ErrorIsNotCached(t *testing.T) {
	mock := &mockProductAPI{err: assert.AnError}
	c := New(mock, time.Minute)

	_, err := c.GetProduct(context.Background(), 1)
	require.Error(t, err)

	mock.err = nil
	mock.product = &api.Product{ID: 1, Name: "Mug"}
	p, err := c.GetProduct(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "Mug", p.Name)
}

func TestListProducts_KeyedByQuery(t *testing.T) {
	mock := &mockProductAPI{list: &api.ProductList{Total: 2}}
	c := New(mock, time.Minute)

	ctx := context.Background()
	_, err := c.ListProducts(ctx, api.ProductQuery{Page: 1})
	require.NoError(t, err)
	_, err = c.ListProducts(ctx, api.ProductQuery{Page: 1})
	require.NoError(t, err)
	_, err = c.ListProducts(ctx, api.ProductQuery{Page: 2})
	require.NoError(t, err)

	assert.Equal(t, int32(2), atomic.LoadInt32(&mock.listCalls))
}

func TestInvalidate_DropsProductAndLists(t *testing.T) {
	mock := &mockProductAPI{
		product: &api.Product{ID: 1, Name: "Mug"},
		list:    &api.ProductList{Total: 1},
	}
	c := New(mock, time.Minute)

	ctx := context.Background()
	_, err := c.GetProduct(ctx, 1)
	require.NoError(t, err)
	_, err = c.ListProducts(ctx, api.ProductQuery{})
	require.NoError(t, err)

	c.Invalidate(1)

	_, err = c.GetProduct(ctx, 1)
	require.NoError(t, err)
	_, err = c.ListProducts(ctx, api.ProductQuery{})
	require.NoError(t, err)

	assert.Equal(t, int32(2), atomic.LoadInt32(&mock.getCalls))
	assert.Equal(t, int32(2), atomic.LoadInt32(&mock.listCalls))
}
