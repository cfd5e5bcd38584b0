package shop

import (
	"context"
	"sync"

	"github.com/and161185/shopcart/internal/backend"
	"github.com/and161185/shopcart/internal/model"
)

// fakeBackend is a hand-rolled backend.API test double. Channels allow tests
// to hold a call open so single-flight behavior is observable.
type fakeBackend struct {
	mu    sync.Mutex
	calls map[string]int

	lastCreds model.Credentials

	createErr error

	token        string
	loginErr     error
	loginStarted chan struct{}
	loginRelease chan struct{}

	items    []model.Item
	itemsErr error

	cart    *model.CartSnapshot
	cartErr error

	addSnap    *model.CartSnapshot
	addErr     error
	addStarted chan struct{}
	addRelease chan struct{}

	removeSnap *model.CartSnapshot
	removeErr  error

	orders    []model.Order
	ordersErr error

	orderID  int64
	placeErr error
}

var _ backend.API = (*fakeBackend)(nil)

func (f *fakeBackend) record(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.calls == nil {
		f.calls = map[string]int{}
	}
	f.calls[name]++
}

func (f *fakeBackend) count(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

func (f *fakeBackend) CreateUser(_ context.Context, creds model.Credentials) error {
	f.record("CreateUser")
	f.mu.Lock()
	f.lastCreds = creds
	f.mu.Unlock()
	return f.createErr
}

func (f *fakeBackend) Login(_ context.Context, creds model.Credentials) (string, error) {
	f.record("Login")
	f.mu.Lock()
	f.lastCreds = creds
	f.mu.Unlock()
	if f.loginStarted != nil {
		f.loginStarted <- struct{}{}
	}
	if f.loginRelease != nil {
		<-f.loginRelease
	}
	return f.token, f.loginErr
}

func (f *fakeBackend) Items(context.Context) ([]model.Item, error) {
	f.record("Items")
	return f.items, f.itemsErr
}

func (f *fakeBackend) MyCart(context.Context) (*model.CartSnapshot, error) {
	f.record("MyCart")
	return f.cart, f.cartErr
}

func (f *fakeBackend) AddItem(context.Context, int64) (*model.CartSnapshot, error) {
	f.record("AddItem")
	if f.addStarted != nil {
		f.addStarted <- struct{}{}
	}
	if f.addRelease != nil {
		<-f.addRelease
	}
	return f.addSnap, f.addErr
}

func (f *fakeBackend) RemoveItem(context.Context, int64) (*model.CartSnapshot, error) {
	f.record("RemoveItem")
	return f.removeSnap, f.removeErr
}

func (f *fakeBackend) Orders(context.Context) ([]model.Order, error) {
	f.record("Orders")
	return f.orders, f.ordersErr
}

func (f *fakeBackend) PlaceOrder(context.Context, int64) (int64, error) {
	f.record("PlaceOrder")
	return f.orderID, f.placeErr
}
