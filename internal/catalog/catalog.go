package catalog

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/fjod/shopfront/internal/api"
)

// ProductAPI is the slice of the API client the catalog cache reads from.
type ProductAPI interface {
	GetProduct(ctx context.Context, id int64) (*api.Product, error)
	ListProducts(ctx context.Context, q api.ProductQuery) (*api.ProductList, error)
}

type productEntry struct {
	product   *api.Product
	expiresAt time.Time
}

type listEntry struct {
	list      *api.ProductList
	expiresAt time.Time
}

// Cache is a read-through TTL cache over the product endpoints.
// Singleflight collapses concurrent misses for the same key so a burst of
// page loads issues one upstream call.
type Cache struct {
	api ProductAPI
	ttl time.Duration
	sfg singleflight.Group

	mu       sync.Mutex
	products map[int64]productEntry
	lists    map[string]listEntry
	now      func() time.Time
}

func New(a ProductAPI, ttl time.Duration) *Cache {
	return &Cache{
		api:      a,
		ttl:      ttl,
		products: make(map[int64]productEntry),
		lists:    make(map[string]listEntry),
		now:      time.Now,
	}
}

func (c *Cache) GetProduct(ctx context.Context, id int64) (*api.Product, error) {
	c.mu.Lock()
	if e, ok := c.products[id]; ok && c.now().Before(e.expiresAt) {
		c.mu.Unlock()
		return e.product, nil
	}
	c.mu.Unlock()

	v, err, _ := c.sfg.Do(fmt.Sprintf("product:%d", id), func() (interface{}, error) {
		p, err := c.api.GetProduct(ctx, id)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.products[id] = productEntry{product: p, expiresAt: c.now().Add(c.ttl)}
		c.mu.Unlock()
		return p, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*api.Product), nil
}

func (c *Cache) ListProducts(ctx context.Context, q api.ProductQuery) (*api.ProductList, error) {
	key := q.Encode()

	c.mu.Lock()
	if e, ok := c.lists[key]; ok && c.now().Before(e.expiresAt) {
		c.mu.Unlock()
		return e.list, nil
	}
	c.mu.Unlock()

	v, err, _ := c.sfg.Do("list:"+key, func() (interface{}, error) {
		list, err := c.api.ListProducts(ctx, q)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.lists[key] = listEntry{list: list, expiresAt: c.now().Add(c.ttl)}
		c.mu.Unlock()
		return list, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*api.ProductList), nil
}

// Invalidate drops a single product entry and all cached lists. The admin
// console calls this after a product mutation.
func (c *Cache) Invalidate(id int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.products, id)
	c.lists = make(map[string]listEntry)
}
