package shop

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/and161185/shopcart/internal/errs"
	"github.com/and161185/shopcart/internal/model"
)

func snapWithLines(cartID int64, itemIDs ...int64) *model.CartSnapshot {
	snap := &model.CartSnapshot{Cart: model.Cart{ID: cartID, Status: "ACTIVE"}}
	for i, id := range itemIDs {
		snap.Lines = append(snap.Lines, model.CartLine{ID: int64(i + 1), CartID: cartID, ItemID: id})
	}
	return snap
}

func newCartEnv(fake *fakeBackend) (*CartController, *Catalog) {
	catalog := NewCatalog(fake, zap.NewNop())
	return NewCartController(fake, catalog, zap.NewNop()), catalog
}

func TestCartRefresh_FailureMeansEmptyCart(t *testing.T) {
	fake := &fakeBackend{cartErr: errors.New("boom")}
	cart, _ := newCartEnv(fake)

	cart.Refresh(context.Background())
	assert.Nil(t, cart.Lines())
	assert.Zero(t, cart.CartID())
	assert.Zero(t, cart.Total())
}

func TestCartRefresh_ReplacesSnapshot(t *testing.T) {
	fake := &fakeBackend{cart: snapWithLines(7, 1)}
	cart, _ := newCartEnv(fake)

	cart.Refresh(context.Background())
	require.Len(t, cart.Lines(), 1)
	assert.Equal(t, int64(7), cart.CartID())

	// A later failed refresh degrades to empty rather than erroring.
	fake.cart, fake.cartErr = nil, errors.New("down")
	cart.Refresh(context.Background())
	assert.Nil(t, cart.Lines())
}

func TestAdd_ReplacesWithServerSnapshot(t *testing.T) {
	fake := &fakeBackend{addSnap: snapWithLines(7, 1)}
	cart, _ := newCartEnv(fake)

	require.NoError(t, cart.Add(context.Background(), 1))
	require.Len(t, cart.Lines(), 1)
	assert.Equal(t, int64(1), cart.Lines()[0].ItemID)
	assert.Equal(t, int64(7), cart.CartID())
}

func TestAdd_FailurePreservesPriorState(t *testing.T) {
	fake := &fakeBackend{cart: snapWithLines(7, 1, 2)}
	cart, _ := newCartEnv(fake)
	cart.Refresh(context.Background())
	before := cart.Lines()

	fake.addErr = errors.New("network down")
	err := cart.Add(context.Background(), 3)
	require.Error(t, err)
	assert.Equal(t, before, cart.Lines())
	assert.Equal(t, int64(7), cart.CartID())
}

func TestRemove_FailurePreservesPriorState(t *testing.T) {
	fake := &fakeBackend{cart: snapWithLines(7, 1)}
	cart, _ := newCartEnv(fake)
	cart.Refresh(context.Background())

	fake.removeErr = errors.New("network down")
	err := cart.Remove(context.Background(), 1)
	require.Error(t, err)
	require.Len(t, cart.Lines(), 1)
}

func TestTotal_SumsResolvedPriceHints(t *testing.T) {
	fake := &fakeBackend{
		items: []model.Item{
			{ID: 1, Name: "Banana"},
			{ID: 2, Name: "Milk"},
		},
		cart: snapWithLines(7, 1, 2, 99), // 99 is not in the catalog
	}
	cart, catalog := newCartEnv(fake)
	catalog.Refresh(context.Background())
	cart.Refresh(context.Background())

	// Banana 25 + Milk 55, unresolved line contributes 0.
	assert.Equal(t, int64(80), cart.Total())

	// Re-fetching the same snapshot leaves the total unchanged.
	cart.Refresh(context.Background())
	assert.Equal(t, int64(80), cart.Total())
}

func TestTotal_EmptyCartIsZero(t *testing.T) {
	fake := &fakeBackend{}
	cart, _ := newCartEnv(fake)
	assert.Zero(t, cart.Total())
}

func TestMutations_SingleFlight(t *testing.T) {
	fake := &fakeBackend{
		addSnap:    snapWithLines(7, 1),
		addStarted: make(chan struct{}, 2),
		addRelease: make(chan struct{}),
	}
	cart, _ := newCartEnv(fake)
	ctx := context.Background()

	done := make(chan error, 1)
	go func() { done <- cart.Add(ctx, 1) }()
	<-fake.addStarted

	// Every mutating operation is rejected while one is in flight.
	assert.ErrorIs(t, cart.Add(ctx, 2), errs.ErrBusy)
	assert.ErrorIs(t, cart.Remove(ctx, 1), errs.ErrBusy)
	_, err := cart.Checkout(ctx)
	assert.ErrorIs(t, err, errs.ErrBusy)

	close(fake.addRelease)
	require.NoError(t, <-done)
	assert.Equal(t, 1, fake.count("AddItem"))
	assert.Zero(t, fake.count("RemoveItem"))
	assert.Zero(t, fake.count("PlaceOrder"))
}

func TestCheckout_EmptyCartFailsLocally(t *testing.T) {
	fake := &fakeBackend{}
	cart, _ := newCartEnv(fake)

	_, err := cart.Checkout(context.Background())
	assert.ErrorIs(t, err, errs.ErrEmptyCart)
	assert.Zero(t, fake.count("PlaceOrder"))
}

func TestCheckout_SuccessClearsLocalCart(t *testing.T) {
	fake := &fakeBackend{cart: snapWithLines(7, 1), orderID: 42}
	cart, _ := newCartEnv(fake)
	cart.Refresh(context.Background())

	orderID, err := cart.Checkout(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(42), orderID)
	assert.Nil(t, cart.Lines())
	assert.Zero(t, cart.CartID())
}

func TestCheckout_FailureKeepsCartAndMessage(t *testing.T) {
	fake := &fakeBackend{cart: snapWithLines(7, 1), placeErr: errors.New("cart already ordered")}
	cart, _ := newCartEnv(fake)
	cart.Refresh(context.Background())

	_, err := cart.Checkout(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cart already ordered")
	assert.Equal(t, int64(7), cart.CartID())
	require.Len(t, cart.Lines(), 1)
}

func TestReset_DiscardsCart(t *testing.T) {
	fake := &fakeBackend{cart: snapWithLines(7, 1)}
	cart, _ := newCartEnv(fake)
	cart.Refresh(context.Background())
	require.NotZero(t, cart.CartID())

	cart.Reset()
	assert.Nil(t, cart.Lines())
	assert.Zero(t, cart.CartID())
}
