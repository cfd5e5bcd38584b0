// Package shoptest provides an in-memory fake of the shopping backend for
// tests. It mirrors the real backend's REST surface and semantics: one cart
// per user, duplicate adds are no-ops, checkout flips the cart to ORDERED and
// the next cart access revives it empty.
package shoptest

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gofrs/uuid/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/and161185/shopcart/internal/model"
)

const (
	statusActive  = "ACTIVE"
	statusOrdered = "ORDERED"
)

type user struct {
	id      int64
	name    string
	pwdHash []byte
}

// Server is the fake backend. Mount its Handler on an httptest.Server.
type Server struct {
	mu     sync.Mutex
	users  map[string]*user // by username
	tokens map[string]int64 // token -> user id
	items  []model.Item
	carts  map[int64]*model.CartSnapshot // by user id
	orders []model.Order

	nextUserID  int64
	nextItemID  int64
	nextCartID  int64
	nextLineID  int64
	nextOrderID int64
}

// New returns a Server seeded with the standard grocery items.
func New() *Server {
	s := &Server{
		users:  map[string]*user{},
		tokens: map[string]int64{},
		carts:  map[int64]*model.CartSnapshot{},
	}
	for _, name := range []string{"Apple", "Milk", "Bread", "Eggs", "Rice"} {
		s.nextItemID++
		s.items = append(s.items, model.Item{
			ID:        s.nextItemID,
			Name:      name,
			Status:    statusActive,
			CreatedAt: time.Now().UTC(),
		})
	}
	return s
}

// Handler returns the REST routes.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Post("/users", s.postUsers)
	r.Post("/users/login", s.postLogin)
	r.Get("/items", s.getItems)

	r.Group(func(r chi.Router) {
		r.Use(s.auth)
		r.Get("/carts/me", s.getMyCart)
		r.Post("/carts", s.postCarts)
		r.Delete("/carts/items/{itemID}", s.deleteCartItem)
		r.Get("/orders", s.getOrders)
		r.Post("/orders", s.postOrders)
	})
	return r
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

type ctxKey struct{}

func (s *Server) auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := r.Header.Get("Authorization")
		if !strings.HasPrefix(h, "Bearer ") {
			writeError(w, http.StatusUnauthorized, "missing token")
			return
		}
		tok := strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))

		s.mu.Lock()
		uid, ok := s.tokens[tok]
		s.mu.Unlock()
		if !ok {
			writeError(w, http.StatusUnauthorized, "invalid token")
			return
		}
		next.ServeHTTP(w, r.WithContext(withUserID(r.Context(), uid)))
	})
}

func (s *Server) postUsers(w http.ResponseWriter, r *http.Request) {
	var body model.Credentials
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}
	body.Username = strings.TrimSpace(body.Username)
	body.Password = strings.TrimSpace(body.Password)
	if body.Username == "" || body.Password == "" {
		writeError(w, http.StatusBadRequest, "username and password required")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.users[body.Username]; exists {
		writeError(w, http.StatusBadRequest, "username already exists")
		return
	}
	hash, _ := bcrypt.GenerateFromPassword([]byte(body.Password), bcrypt.MinCost)
	s.nextUserID++
	u := &user{id: s.nextUserID, name: body.Username, pwdHash: hash}
	s.users[body.Username] = u

	writeJSON(w, http.StatusCreated, map[string]any{
		"id":         u.id,
		"username":   u.name,
		"created_at": time.Now().UTC(),
	})
}

func (s *Server) postLogin(w http.ResponseWriter, r *http.Request) {
	var body model.Credentials
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}
	body.Username = strings.TrimSpace(body.Username)
	body.Password = strings.TrimSpace(body.Password)

	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[body.Username]
	if !ok || bcrypt.CompareHashAndPassword(u.pwdHash, []byte(body.Password)) != nil {
		writeError(w, http.StatusUnauthorized, "invalid username/password")
		return
	}
	tok, _ := uuid.NewV4()
	s.tokens[tok.String()] = u.id

	writeJSON(w, http.StatusOK, map[string]string{"token": tok.String()})
}

func (s *Server) getItems(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	items := make([]model.Item, len(s.items))
	copy(items, s.items)
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, items)
}

// ensureActiveCart returns the user's cart, creating it or reviving an
// ORDERED one as an empty ACTIVE cart. Caller holds s.mu.
func (s *Server) ensureActiveCart(uid int64) *model.CartSnapshot {
	if snap, ok := s.carts[uid]; ok {
		if snap.Cart.Status == statusOrdered {
			snap.Cart.Status = statusActive
			snap.Cart.Name = ""
			snap.Lines = nil
		}
		return snap
	}
	s.nextCartID++
	snap := &model.CartSnapshot{
		Cart: model.Cart{
			ID:        s.nextCartID,
			UserID:    uid,
			Status:    statusActive,
			CreatedAt: time.Now().UTC(),
		},
	}
	s.carts[uid] = snap
	return snap
}

func snapshotCopy(snap *model.CartSnapshot) model.CartSnapshot {
	out := model.CartSnapshot{Cart: snap.Cart, Lines: make([]model.CartLine, len(snap.Lines))}
	copy(out.Lines, snap.Lines)
	if out.Lines == nil {
		out.Lines = []model.CartLine{}
	}
	return out
}

func (s *Server) getMyCart(w http.ResponseWriter, r *http.Request) {
	uid := userID(r.Context())
	s.mu.Lock()
	snap := snapshotCopy(s.ensureActiveCart(uid))
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) postCarts(w http.ResponseWriter, r *http.Request) {
	uid := userID(r.Context())
	var body struct {
		ItemID int64 `json:"itemId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.ItemID == 0 {
		writeError(w, http.StatusBadRequest, "itemId or itemIds required")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.itemExists(body.ItemID) {
		writeError(w, http.StatusBadRequest, "invalid item id")
		return
	}
	snap := s.ensureActiveCart(uid)
	if !hasLine(snap, body.ItemID) {
		s.nextLineID++
		snap.Lines = append(snap.Lines, model.CartLine{
			ID:     s.nextLineID,
			CartID: snap.Cart.ID,
			ItemID: body.ItemID,
		})
	}
	writeJSON(w, http.StatusOK, snapshotCopy(snap))
}

func (s *Server) deleteCartItem(w http.ResponseWriter, r *http.Request) {
	uid := userID(r.Context())
	itemID, err := strconv.ParseInt(chi.URLParam(r, "itemID"), 10, 64)
	if err != nil || itemID == 0 {
		writeError(w, http.StatusBadRequest, "invalid itemId")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snap, ok := s.carts[uid]
	if !ok || snap.Cart.Status != statusActive {
		writeError(w, http.StatusNotFound, "no active cart")
		return
	}
	idx := -1
	for i, line := range snap.Lines {
		if line.ItemID == itemID {
			idx = i
			break
		}
	}
	if idx < 0 {
		writeError(w, http.StatusNotFound, "item not found in cart")
		return
	}
	snap.Lines = append(snap.Lines[:idx], snap.Lines[idx+1:]...)
	writeJSON(w, http.StatusOK, snapshotCopy(snap))
}

func (s *Server) getOrders(w http.ResponseWriter, r *http.Request) {
	uid := userID(r.Context())
	s.mu.Lock()
	// Creation order (ascending id); clients derive display order themselves.
	var out []model.Order
	for _, o := range s.orders {
		if o.UserID == uid {
			out = append(out, o)
		}
	}
	s.mu.Unlock()
	if out == nil {
		out = []model.Order{}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) postOrders(w http.ResponseWriter, r *http.Request) {
	uid := userID(r.Context())
	var body struct {
		CartID int64 `json:"cartId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.CartID == 0 {
		writeError(w, http.StatusBadRequest, "cartId required")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var snap *model.CartSnapshot
	for _, c := range s.carts {
		if c.Cart.ID == body.CartID {
			snap = c
			break
		}
	}
	if snap == nil {
		writeError(w, http.StatusBadRequest, "cart not found")
		return
	}
	if snap.Cart.UserID != uid {
		writeError(w, http.StatusForbidden, "not your cart")
		return
	}
	if snap.Cart.Status == statusOrdered {
		writeError(w, http.StatusBadRequest, "cart already ordered")
		return
	}
	if len(snap.Lines) == 0 {
		writeError(w, http.StatusBadRequest, "cart is empty")
		return
	}

	s.nextOrderID++
	s.orders = append(s.orders, model.Order{
		ID:        s.nextOrderID,
		CartID:    snap.Cart.ID,
		UserID:    uid,
		CreatedAt: time.Now().UTC(),
	})
	snap.Cart.Status = statusOrdered

	writeJSON(w, http.StatusCreated, map[string]int64{"orderId": s.nextOrderID})
}

func (s *Server) itemExists(id int64) bool {
	for _, it := range s.items {
		if it.ID == id {
			return true
		}
	}
	return false
}

func hasLine(snap *model.CartSnapshot, itemID int64) bool {
	for _, line := range snap.Lines {
		if line.ItemID == itemID {
			return true
		}
	}
	return false
}
