package cart

import (
	"context"
	"encoding/json"
	"log"
	"math"
	"sync"

	"github.com/fjod/shopfront/internal/store"
)

// Snapshot is the product as the customer saw it when adding: id, name,
// price and thumbnail are frozen at add time and never re-resolved, so
// the displayed cart total cannot change underneath the user.
type Snapshot struct {
	ProductID  int64  `json:"product_id"`
	Name       string `json:"name"`
	PriceCents int64  `json:"price_cents"`
	ImageURL   string `json:"image_url,omitempty"`
}

// CentsFromDollars converts an API price (float dollars) to integer cents.
func CentsFromDollars(d float64) int64 {
	return int64(math.Round(d * 100))
}

type LineItem struct {
	Product  Snapshot `json:"product"`
	Quantity int      `json:"quantity"`
}

// Context owns the cart line items and the wishlist. Every mutation is
// written through to the store before returning. At most one line item
// exists per product id, and quantities never drop below 1: a zero or
// negative quantity removes the line outright.
type Context struct {
	mu       sync.Mutex
	st       store.Store
	items    []LineItem
	wishlist []int64
}

func New(st store.Store) *Context {
	return &Context{st: st}
}

// Hydrate loads persisted cart and wishlist state. Missing or corrupt
// slots hydrate as empty state; corruption must never block startup.
func (c *Context) Hydrate(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = nil
	c.wishlist = nil

	if data, err := c.st.Get(ctx, store.SlotCart); err == nil {
		var items []LineItem
		if err := json.Unmarshal(data, &items); err != nil {
			log.Printf("discarding corrupt cart slot: %v", err)
		} else {
			c.items = sanitize(items)
		}
	}
	if data, err := c.st.Get(ctx, store.SlotWishlist); err == nil {
		var ids []int64
		if err := json.Unmarshal(data, &ids); err != nil {
			log.Printf("discarding corrupt wishlist slot: %v", err)
		} else {
			c.wishlist = dedupe(ids)
		}
	}
}

// sanitize re-establishes the invariants on state read back from disk:
// one line per product, quantity at least 1.
func sanitize(items []LineItem) []LineItem {
	out := make([]LineItem, 0, len(items))
	seen := make(map[int64]int)
	for _, it := range items {
		if it.Quantity < 1 {
			continue
		}
		if idx, ok := seen[it.Product.ProductID]; ok {
			out[idx].Quantity += it.Quantity
			continue
		}
		seen[it.Product.ProductID] = len(out)
		out = append(out, it)
	}
	return out
}

func dedupe(ids []int64) []int64 {
	out := make([]int64, 0, len(ids))
	seen := make(map[int64]bool)
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}

// Add merges the quantity into an existing line for the same product, or
// appends a new line with the given snapshot. A quantity below 1 is
// treated as 1.
func (c *Context) Add(ctx context.Context, p Snapshot, quantity int) error {
	if quantity < 1 {
		quantity = 1
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	found := false
	for i := range c.items {
		if c.items[i].Product.ProductID == p.ProductID {
			c.items[i].Quantity += quantity
			found = true
			break
		}
	}
	if !found {
		c.items = append(c.items, LineItem{Product: p, Quantity: quantity})
	}
	return c.persistCart(ctx)
}

// Remove deletes the line item for the product; no-op if absent.
func (c *Context) Remove(ctx context.Context, productID int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := c.items[:0]
	for _, it := range c.items {
		if it.Product.ProductID != productID {
			out = append(out, it)
		}
	}
	c.items = out
	return c.persistCart(ctx)
}

// UpdateQuantity overwrites the quantity; zero or negative removes the line.
func (c *Context) UpdateQuantity(ctx context.Context, productID int64, quantity int) error {
	if quantity <= 0 {
		return c.Remove(ctx, productID)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.items {
		if c.items[i].Product.ProductID == productID {
			c.items[i].Quantity = quantity
			break
		}
	}
	return c.persistCart(ctx)
}

func (c *Context) Clear(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = nil
	return c.persistCart(ctx)
}

// Items returns a copy of the line items in insertion order.
func (c *Context) Items() []LineItem {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]LineItem, len(c.items))
	copy(out, c.items)
	return out
}

// Count is the total number of units across all lines.
func (c *Context) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := 0
	for _, it := range c.items {
		n += it.Quantity
	}
	return n
}

// SubtotalCents is recomputed on every call from the snapshots.
func (c *Context) SubtotalCents() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	var sum int64
	for _, it := range c.items {
		sum += it.Product.PriceCents * int64(it.Quantity)
	}
	return sum
}

// ToggleWishlist adds the id if absent, removes it if present, and
// reports the resulting membership.
func (c *Context) ToggleWishlist(ctx context.Context, productID int64) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i, id := range c.wishlist {
		if id == productID {
			c.wishlist = append(c.wishlist[:i], c.wishlist[i+1:]...)
			return false, c.persistWishlist(ctx)
		}
	}
	c.wishlist = append(c.wishlist, productID)
	return true, c.persistWishlist(ctx)
}

func (c *Context) InWishlist(productID int64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, id := range c.wishlist {
		if id == productID {
			return true
		}
	}
	return false
}

// Wishlist returns the ids in insertion order.
func (c *Context) Wishlist() []int64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]int64, len(c.wishlist))
	copy(out, c.wishlist)
	return out
}

// persistCart and persistWishlist run under c.mu.

func (c *Context) persistCart(ctx context.Context) error {
	data, err := json.Marshal(c.items)
	if err != nil {
		return err
	}
	return c.st.Set(ctx, store.SlotCart, data)
}

func (c *Context) persistWishlist(ctx context.Context) error {
	data, err := json.Marshal(c.wishlist)
	if err != nil {
		return err
	}
	return c.st.Set(ctx, store.SlotWishlist, data)
}
