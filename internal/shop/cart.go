package shop

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/and161185/shopcart/internal/backend"
	"github.com/and161185/shopcart/internal/errs"
	"github.com/and161185/shopcart/internal/model"
	"github.com/and161185/shopcart/internal/visual"
)

// CartController owns the local cart snapshot. The snapshot is always a
// verbatim copy of the last server response; mutations replace it wholesale
// on success and leave it untouched on failure.
type CartController struct {
	api     backend.API
	catalog *Catalog
	log     *zap.Logger

	// busy serializes mutating operations (add/remove/checkout) so two
	// in-flight writes can never race and overwrite each other's snapshot.
	busy atomic.Bool

	mu   sync.RWMutex
	snap *model.CartSnapshot
}

// NewCartController constructs a controller with no cart loaded.
func NewCartController(api backend.API, catalog *Catalog, log *zap.Logger) *CartController {
	return &CartController{api: api, catalog: catalog, log: log}
}

// Refresh fetches the current cart. Any failure (including "no cart yet") is
// treated as an empty cart, not an error.
func (c *CartController) Refresh(ctx context.Context) {
	snap, err := c.api.MyCart(ctx)
	if err != nil {
		c.log.Warn("cart refresh failed, treating as empty cart", zap.Error(err))
		c.setSnapshot(nil)
		return
	}
	c.setSnapshot(snap)
}

// Add puts an item into the cart. Concurrent mutations fail with errs.ErrBusy.
func (c *CartController) Add(ctx context.Context, itemID int64) error {
	if !c.busy.CompareAndSwap(false, true) {
		return errs.ErrBusy
	}
	defer c.busy.Store(false)

	snap, err := c.api.AddItem(ctx, itemID)
	if err != nil {
		return fmt.Errorf("add item %d: %w", itemID, err)
	}
	c.setSnapshot(snap)
	return nil
}

// Remove takes an item out of the cart. Same contract as Add.
func (c *CartController) Remove(ctx context.Context, itemID int64) error {
	if !c.busy.CompareAndSwap(false, true) {
		return errs.ErrBusy
	}
	defer c.busy.Store(false)

	snap, err := c.api.RemoveItem(ctx, itemID)
	if err != nil {
		return fmt.Errorf("remove item %d: %w", itemID, err)
	}
	c.setSnapshot(snap)
	return nil
}

// Checkout places an order for the current cart. Without an active cart id it
// fails locally with errs.ErrEmptyCart and no network call is made. On
// success the local cart resets to empty and the caller is expected to
// refresh cart and order history for the post-checkout server state.
func (c *CartController) Checkout(ctx context.Context) (int64, error) {
	if !c.busy.CompareAndSwap(false, true) {
		return 0, errs.ErrBusy
	}
	defer c.busy.Store(false)

	cartID := c.CartID()
	if cartID == 0 {
		return 0, errs.ErrEmptyCart
	}

	orderID, err := c.api.PlaceOrder(ctx, cartID)
	if err != nil {
		return 0, fmt.Errorf("checkout cart %d: %w", cartID, err)
	}
	c.setSnapshot(nil)
	c.log.Info("order placed", zap.Int64("orderID", orderID), zap.Int64("cartID", cartID))
	return orderID, nil
}

// Total sums the display price hints of all resolvable cart lines. It is a
// pure function of (snapshot, catalog); unresolved items count as 0. The
// hints come from the client-side classification table because the backend
// item record exposes no price.
func (c *CartController) Total() int64 {
	var total int64
	for _, line := range c.Lines() {
		it, ok := c.catalog.Item(line.ItemID)
		if !ok {
			continue
		}
		total += visual.Classify(it.Name).PriceHint
	}
	return total
}

// Lines returns a copy of the current cart lines (nil when no cart is loaded).
func (c *CartController) Lines() []model.CartLine {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.snap == nil {
		return nil
	}
	out := make([]model.CartLine, len(c.snap.Lines))
	copy(out, c.snap.Lines)
	return out
}

// CartID returns the active cart id, 0 when none exists client-side.
func (c *CartController) CartID() int64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.snap == nil {
		return 0
	}
	return c.snap.Cart.ID
}

// Reset discards the in-memory cart (logout).
func (c *CartController) Reset() { c.setSnapshot(nil) }

func (c *CartController) setSnapshot(snap *model.CartSnapshot) {
	c.mu.Lock()
	c.snap = snap
	c.mu.Unlock()
}
