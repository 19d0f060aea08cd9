// Package catalog is the product controller: a product collection that can be
// sourced locally or remotely, plus the session cart.
package catalog

import (
	"context"
	"log/slog"
	"slices"
	"sort"
	"sync"

	"github.com/studiowebux/shopdemo/internal/source"
	"github.com/studiowebux/shopdemo/internal/types"
)

// LowStockThreshold separates the normal and warning stock badges
const LowStockThreshold = 20

// ProductFetcher is the slice of the gateway the catalog needs
type ProductFetcher interface {
	FetchProducts(ctx context.Context, limit, skip int) (*types.ProductPage, error)
}

// Controller owns the product collection and the cart of one view session
type Controller struct {
	*source.Collection[types.Product]

	mu   sync.RWMutex
	cart map[int]struct{}
}

// New creates a catalog in local mode
func New(fetcher ProductFetcher, pageSize int, logger *slog.Logger) *Controller {
	load := func(ctx context.Context, limit int) ([]types.Product, error) {
		page, err := fetcher.FetchProducts(ctx, limit, 0)
		if err != nil {
			return nil, err
		}
		return page.Products, nil
	}

	return &Controller{
		Collection: source.New("products", Sample, pageSize, load, logger),
		cart:       make(map[int]struct{}),
	}
}

// ToggleCart adds id to the cart if absent, otherwise removes it, and returns the
// new membership. Stock is not checked.
func (c *Controller) ToggleCart(id int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.cart[id]; ok {
		delete(c.cart, id)
		return false
	}
	c.cart[id] = struct{}{}
	return true
}

// InCart reports whether id is in the cart
func (c *Controller) InCart(id int) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.cart[id]
	return ok
}

// CartIDs returns the cart members in ascending order
func (c *Controller) CartIDs() []int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	ids := make([]int, 0, len(c.cart))
	for id := range c.cart {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// CartSize returns the number of ids in the cart, including ids not present in the
// current collection
func (c *Controller) CartSize() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.cart)
}

// Total sums the price of every product in the current collection whose id is in
// the cart. Recomputed on each call.
func (c *Controller) Total() float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var total float64
	c.View(func(products []types.Product) {
		for _, p := range products {
			if _, ok := c.cart[p.ID]; ok {
				total += p.Price
			}
		}
	})
	return total
}

// InCartProducts returns the products of the current collection that are in the cart
func (c *Controller) InCartProducts() []types.Product {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var out []types.Product
	c.View(func(products []types.Product) {
		for _, p := range products {
			if _, ok := c.cart[p.ID]; ok {
				out = append(out, p)
			}
		}
	})
	return out
}

// IndexOf returns the position of id in the current collection, or -1
func (c *Controller) IndexOf(id int) int {
	idx := -1
	c.View(func(products []types.Product) {
		idx = slices.IndexFunc(products, func(p types.Product) bool { return p.ID == id })
	})
	return idx
}

// LowStock reports whether a product gets the warning stock badge
func LowStock(p types.Product) bool {
	return p.Stock <= LowStockThreshold
}
