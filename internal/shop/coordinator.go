package shop

import (
	"context"

	"go.uber.org/zap"

	"github.com/and161185/shopcart/internal/backend"
	"github.com/and161185/shopcart/internal/session"
)

// State is the root UI state, keyed solely on session presence.
type State string

const (
	StateUnauthenticated State = "unauthenticated"
	StateAuthenticated   State = "authenticated"
)

// Coordinator wires the services together and owns the two top-level
// transitions: auth success and logout.
type Coordinator struct {
	sess *session.Session
	log  *zap.Logger

	Auth    *AuthFlow
	Catalog *Catalog
	Cart    *CartController
	Orders  *OrderHistory
}

// NewCoordinator builds the full service graph over one backend API.
func NewCoordinator(api backend.API, sess *session.Session, log *zap.Logger) *Coordinator {
	catalog := NewCatalog(api, log)
	return &Coordinator{
		sess:    sess,
		log:     log,
		Auth:    NewAuthFlow(api, sess, log),
		Catalog: catalog,
		Cart:    NewCartController(api, catalog, log),
		Orders:  NewOrderHistory(api, log),
	}
}

// State reports which top-level view applies.
func (c *Coordinator) State() State {
	if c.sess.Active() {
		return StateAuthenticated
	}
	return StateUnauthenticated
}

// Bootstrap restores a persisted session and, if one exists, pulls the
// initial data. The three refreshes populate disjoint state; their relative
// order carries no invariant.
func (c *Coordinator) Bootstrap(ctx context.Context) {
	if _, err := c.sess.Load(); err != nil {
		c.log.Warn("restore session", zap.Error(err))
	}
	if !c.sess.Active() {
		return
	}
	c.RefreshAll(ctx)
}

// Login runs the auth flow and, on success, pulls fresh data for the
// authenticated views.
func (c *Coordinator) Login(ctx context.Context, username, password string) error {
	if err := c.Auth.Submit(ctx, username, password); err != nil {
		return err
	}
	c.RefreshAll(ctx)
	return nil
}

// Checkout places the order and then refreshes order history and cart so the
// views pick up the server's post-checkout state.
func (c *Coordinator) Checkout(ctx context.Context) (int64, error) {
	orderID, err := c.Cart.Checkout(ctx)
	if err != nil {
		return 0, err
	}
	c.Orders.Refresh(ctx)
	c.Cart.Refresh(ctx)
	return orderID, nil
}

// Logout clears the session and discards per-user cached state so a
// different user never sees a previous user's cart or orders.
func (c *Coordinator) Logout() error {
	err := c.sess.Clear()
	c.Cart.Reset()
	c.Orders.Reset()
	c.log.Info("logged out")
	return err
}

// RefreshAll pulls catalog, cart and order history.
func (c *Coordinator) RefreshAll(ctx context.Context) {
	c.Catalog.Refresh(ctx)
	c.Cart.Refresh(ctx)
	c.Orders.Refresh(ctx)
}
