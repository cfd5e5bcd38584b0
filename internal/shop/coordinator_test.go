package shop

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/and161185/shopcart/internal/backend"
	"github.com/and161185/shopcart/internal/session"
	"github.com/and161185/shopcart/internal/shoptest"
)

// newApp wires a coordinator against the in-memory fake backend over HTTP.
func newApp(t *testing.T) (*Coordinator, *session.Session, string) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	srv := httptest.NewServer(shoptest.New().Handler())
	t.Cleanup(srv.Close)

	sess := session.New()
	api := backend.New(srv.URL, 5*time.Second, sess, zap.NewNop())
	return NewCoordinator(api, sess, zap.NewNop()), sess, srv.URL
}

func TestState_KeyedOnSessionPresence(t *testing.T) {
	app, sess, _ := newApp(t)
	assert.Equal(t, StateUnauthenticated, app.State())

	require.NoError(t, sess.Set("tok"))
	assert.Equal(t, StateAuthenticated, app.State())

	require.NoError(t, sess.Clear())
	assert.Equal(t, StateUnauthenticated, app.State())
}

func TestFullShoppingScenario(t *testing.T) {
	app, _, _ := newApp(t)
	ctx := context.Background()

	app.Auth.SetMode(ModeSignup)
	require.NoError(t, app.Login(ctx, "alice", "secret1"))
	require.Equal(t, StateAuthenticated, app.State())

	// Seeded catalog came along with the login refresh.
	require.Equal(t, 5, app.Catalog.Len())

	// Apple (30) + Milk (55).
	require.NoError(t, app.Cart.Add(ctx, 1))
	require.NoError(t, app.Cart.Add(ctx, 2))
	require.Len(t, app.Cart.Lines(), 2)
	assert.Equal(t, int64(85), app.Cart.Total())

	cartID := app.Cart.CartID()
	require.NotZero(t, cartID)

	orderID, err := app.Checkout(ctx)
	require.NoError(t, err)
	require.NotZero(t, orderID)

	// Post-checkout refreshes picked up the server's fresh empty cart.
	assert.Empty(t, app.Cart.Lines())
	assert.Zero(t, app.Cart.Total())

	orders := app.Orders.Orders()
	require.Len(t, orders, 1)
	assert.Equal(t, orderID, orders[0].ID)
	assert.Equal(t, cartID, orders[0].CartID)
}

func TestCheckout_SecondOrderListedFirst(t *testing.T) {
	app, _, _ := newApp(t)
	ctx := context.Background()

	app.Auth.SetMode(ModeSignup)
	require.NoError(t, app.Login(ctx, "bob", "pw"))

	require.NoError(t, app.Cart.Add(ctx, 1))
	first, err := app.Checkout(ctx)
	require.NoError(t, err)

	require.NoError(t, app.Cart.Add(ctx, 2))
	second, err := app.Checkout(ctx)
	require.NoError(t, err)

	orders := app.Orders.Orders()
	require.Len(t, orders, 2)
	assert.Equal(t, second, orders[0].ID, "newest order shown first")
	assert.Equal(t, first, orders[1].ID)
}

func TestLogout_ResetsPerUserState(t *testing.T) {
	app, sess, _ := newApp(t)
	ctx := context.Background()

	app.Auth.SetMode(ModeSignup)
	require.NoError(t, app.Login(ctx, "carol", "pw"))
	require.NoError(t, app.Cart.Add(ctx, 1))
	_, err := app.Checkout(ctx)
	require.NoError(t, err)
	require.NoError(t, app.Cart.Add(ctx, 3))

	require.NoError(t, app.Logout())
	assert.Equal(t, StateUnauthenticated, app.State())
	assert.False(t, sess.Active())
	assert.Empty(t, app.Cart.Lines())
	assert.Empty(t, app.Orders.Orders())
}

func TestBootstrap_RestoresPersistedSession(t *testing.T) {
	app, _, url := newApp(t)
	ctx := context.Background()

	app.Auth.SetMode(ModeSignup)
	require.NoError(t, app.Login(ctx, "dave", "pw"))
	require.NoError(t, app.Cart.Add(ctx, 1))

	// A fresh process: same config dir, same backend.
	sess2 := session.New()
	api2 := backend.New(url, 5*time.Second, sess2, zap.NewNop())
	app2 := NewCoordinator(api2, sess2, zap.NewNop())

	app2.Bootstrap(ctx)
	require.Equal(t, StateAuthenticated, app2.State())
	assert.Equal(t, 5, app2.Catalog.Len())
	require.Len(t, app2.Cart.Lines(), 1)
}

func TestBootstrap_NoSessionStaysLoggedOut(t *testing.T) {
	app, _, _ := newApp(t)
	app.Bootstrap(context.Background())
	assert.Equal(t, StateUnauthenticated, app.State())
	assert.Zero(t, app.Catalog.Len())
}

func TestLogin_FailureStaysUnauthenticated(t *testing.T) {
	app, _, _ := newApp(t)
	ctx := context.Background()

	err := app.Login(ctx, "nobody", "nothing")
	require.Error(t, err)
	assert.Equal(t, StateUnauthenticated, app.State())
	assert.Zero(t, app.Catalog.Len(), "no data pulled on failed login")
}
