package shop

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/and161185/shopcart/internal/backend"
	"github.com/and161185/shopcart/internal/model"
)

// OrderHistory holds the read-only list of placed orders.
type OrderHistory struct {
	api backend.API
	log *zap.Logger

	mu     sync.RWMutex
	orders []model.Order
}

// NewOrderHistory constructs an empty history.
func NewOrderHistory(api backend.API, log *zap.Logger) *OrderHistory {
	return &OrderHistory{api: api, log: log}
}

// Refresh fetches the full order list. A failure degrades to an empty list,
// matching the cart's fetch policy.
func (h *OrderHistory) Refresh(ctx context.Context) {
	orders, err := h.api.Orders(ctx)
	if err != nil {
		h.log.Warn("order history refresh failed, showing no orders", zap.Error(err))
		orders = nil
	}
	h.mu.Lock()
	h.orders = orders
	h.mu.Unlock()
}

// Orders returns the history most-recently-placed first. The backend is
// assumed to deliver orders in creation order, so the fetched sequence is
// reversed rather than sorted by timestamp.
func (h *OrderHistory) Orders() []model.Order {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]model.Order, len(h.orders))
	for i, o := range h.orders {
		out[len(h.orders)-1-i] = o
	}
	return out
}

// Len reports the number of fetched orders.
func (h *OrderHistory) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.orders)
}

// Reset discards the in-memory history (logout).
func (h *OrderHistory) Reset() {
	h.mu.Lock()
	h.orders = nil
	h.mu.Unlock()
}
