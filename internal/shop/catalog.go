package shop

import (
	"context"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/and161185/shopcart/internal/backend"
	"github.com/and161185/shopcart/internal/model"
)

// Catalog holds a read-only, refreshable copy of the backend item list.
type Catalog struct {
	api backend.API
	log *zap.Logger

	mu    sync.RWMutex
	items map[int64]model.Item
}

// NewCatalog constructs an empty catalog.
func NewCatalog(api backend.API, log *zap.Logger) *Catalog {
	return &Catalog{api: api, log: log, items: map[int64]model.Item{}}
}

// Refresh fetches the full item list and replaces the local mapping entirely.
// A fetch failure degrades to an empty catalog rather than propagating; the
// UI keeps working with nothing to show.
func (c *Catalog) Refresh(ctx context.Context) {
	items, err := c.api.Items(ctx)
	if err != nil {
		c.log.Warn("catalog refresh failed, showing empty catalog", zap.Error(err))
		c.replace(nil)
		return
	}
	c.replace(items)
}

func (c *Catalog) replace(items []model.Item) {
	m := make(map[int64]model.Item, len(items))
	for _, it := range items {
		m[it.ID] = it
	}
	c.mu.Lock()
	c.items = m
	c.mu.Unlock()
}

// Item looks up one item by id.
func (c *Catalog) Item(id int64) (model.Item, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	it, ok := c.items[id]
	return it, ok
}

// Items returns the current snapshot in ascending id order.
func (c *Catalog) Items() []model.Item {
	c.mu.RLock()
	out := make([]model.Item, 0, len(c.items))
	for _, it := range c.items {
		out = append(out, it)
	}
	c.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Len reports the number of items in the current snapshot.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}
