// Package model defines domain entities shared by the backend client and services.
package model

import "time"

// Item is a catalog entry owned by the backend; the client holds a read-only copy.
type Item struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// Cart is the backend's cart header. Status is ACTIVE while open and ORDERED
// after checkout (the backend revives an ORDERED cart on the next add).
type Cart struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Name      string    `json:"name"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// CartLine is a single item reference inside a cart.
type CartLine struct {
	ID     int64 `json:"id"`
	CartID int64 `json:"cart_id"`
	ItemID int64 `json:"item_id"`
}

// CartSnapshot is the wire shape of GET /carts/me and of every cart mutation
// response. The client replaces its local copy with this wholesale; it never
// patches lines locally.
type CartSnapshot struct {
	Cart  Cart       `json:"cart"`
	Lines []CartLine `json:"cart_items"`
}

// Order is a placed order. Read-only history, never mutated client-side.
type Order struct {
	ID        int64     `json:"id"`
	CartID    int64     `json:"cart_id"`
	UserID    int64     `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

// Credentials carries a trimmed username/password pair for signup and login.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}
