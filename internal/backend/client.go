// Package backend implements the HTTP client for the shopping backend REST API.
//
// All business logic lives server-side; this client only issues requests,
// attaches the session credential, and decodes JSON responses. Mutating calls
// return the server's full cart snapshot so callers can replace local state
// wholesale instead of patching it.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gofrs/uuid/v5"
	"go.uber.org/zap"

	"github.com/and161185/shopcart/internal/errs"
	"github.com/and161185/shopcart/internal/model"
	"github.com/and161185/shopcart/internal/session"
)

// API is the backend surface consumed by the client-side services.
type API interface {
	// CreateUser registers a new account. The backend rejects duplicates.
	CreateUser(ctx context.Context, creds model.Credentials) error
	// Login authenticates and returns an opaque session token.
	Login(ctx context.Context, creds model.Credentials) (string, error)
	// Items lists the full catalog.
	Items(ctx context.Context) ([]model.Item, error)
	// MyCart fetches the current user's cart snapshot.
	MyCart(ctx context.Context) (*model.CartSnapshot, error)
	// AddItem adds an item to the cart and returns the resulting snapshot.
	AddItem(ctx context.Context, itemID int64) (*model.CartSnapshot, error)
	// RemoveItem removes an item from the cart and returns the resulting snapshot.
	RemoveItem(ctx context.Context, itemID int64) (*model.CartSnapshot, error)
	// Orders lists the current user's placed orders.
	Orders(ctx context.Context) ([]model.Order, error)
	// PlaceOrder places an order for the given cart and returns the order id.
	PlaceOrder(ctx context.Context, cartID int64) (int64, error)
}

// APIError carries the backend's structured error payload for a non-2xx reply.
type APIError struct {
	Status   int
	Message  string
	sentinel error
}

// Error prefers the backend's own message so it can be shown verbatim.
func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("backend returned status %d", e.Status)
}

// Unwrap exposes the mapped sentinel (may be nil) for errors.Is matching.
func (e *APIError) Unwrap() error { return e.sentinel }

// Client talks to one backend over HTTP, applying the session credential to
// every request through the Session hook.
type Client struct {
	base string
	http *http.Client
	sess *session.Session
	log  *zap.Logger
}

var _ API = (*Client)(nil)

// New constructs a Client. timeout bounds every call at the transport level;
// no per-operation cancellation exists beyond the caller's context.
func New(baseURL string, timeout time.Duration, sess *session.Session, log *zap.Logger) *Client {
	return &Client{
		base: baseURL,
		http: &http.Client{Timeout: timeout},
		sess: sess,
		log:  log,
	}
}

// do issues one JSON request and decodes the response into out (if non-nil).
// Non-2xx replies become *APIError with the backend's error message and a
// status-mapped sentinel.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s %s: encode body: %w", method, path, err)
		}
		rd = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, rd)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if rid, err := uuid.NewV4(); err == nil {
		req.Header.Set("X-Request-Id", rid.String())
	}
	c.sess.Apply(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode, sentinel: sentinelFor(resp.StatusCode)}
		var payload struct {
			Error string `json:"error"`
		}
		if derr := json.NewDecoder(resp.Body).Decode(&payload); derr == nil {
			apiErr.Message = payload.Error
		}
		c.log.Debug("backend error",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", resp.StatusCode),
			zap.String("message", apiErr.Message),
		)
		return apiErr
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("%s %s: decode response: %w", method, path, err)
		}
	}
	return nil
}

func sentinelFor(status int) error {
	switch status {
	case http.StatusUnauthorized:
		return errs.ErrUnauthorized
	case http.StatusNotFound:
		return errs.ErrNotFound
	default:
		return nil
	}
}

// CreateUser registers an account via POST /users.
func (c *Client) CreateUser(ctx context.Context, creds model.Credentials) error {
	err := c.do(ctx, http.MethodPost, "/users", creds, nil)
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Status == http.StatusBadRequest {
		// The backend reports duplicate usernames as 400 with a message.
		apiErr.sentinel = errs.ErrAlreadyExists
	}
	return err
}

// Login authenticates via POST /users/login and returns the opaque token.
func (c *Client) Login(ctx context.Context, creds model.Credentials) (string, error) {
	var resp struct {
		Token string `json:"token"`
	}
	if err := c.do(ctx, http.MethodPost, "/users/login", creds, &resp); err != nil {
		return "", err
	}
	return resp.Token, nil
}

// Items lists the catalog via GET /items.
func (c *Client) Items(ctx context.Context) ([]model.Item, error) {
	var items []model.Item
	if err := c.do(ctx, http.MethodGet, "/items", nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// MyCart fetches the current cart via GET /carts/me.
func (c *Client) MyCart(ctx context.Context) (*model.CartSnapshot, error) {
	var snap model.CartSnapshot
	if err := c.do(ctx, http.MethodGet, "/carts/me", nil, &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

// AddItem adds one item via POST /carts.
func (c *Client) AddItem(ctx context.Context, itemID int64) (*model.CartSnapshot, error) {
	body := struct {
		ItemID int64 `json:"itemId"`
	}{ItemID: itemID}
	var snap model.CartSnapshot
	if err := c.do(ctx, http.MethodPost, "/carts", body, &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

// RemoveItem removes one item via DELETE /carts/items/{itemId}.
func (c *Client) RemoveItem(ctx context.Context, itemID int64) (*model.CartSnapshot, error) {
	var snap model.CartSnapshot
	path := fmt.Sprintf("/carts/items/%d", itemID)
	if err := c.do(ctx, http.MethodDelete, path, nil, &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

// Orders lists placed orders via GET /orders.
func (c *Client) Orders(ctx context.Context) ([]model.Order, error) {
	var orders []model.Order
	if err := c.do(ctx, http.MethodGet, "/orders", nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// PlaceOrder submits the cart via POST /orders and returns the new order id.
func (c *Client) PlaceOrder(ctx context.Context, cartID int64) (int64, error) {
	body := struct {
		CartID int64 `json:"cartId"`
	}{CartID: cartID}
	var resp struct {
		OrderID int64 `json:"orderId"`
	}
	if err := c.do(ctx, http.MethodPost, "/orders", body, &resp); err != nil {
		return 0, err
	}
	return resp.OrderID, nil
}
