package main

import (
	"bytes"
	"context"
	"io"
	"log"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/MikeMC777/pedidos-api/internal/auth"
	"github.com/MikeMC777/pedidos-api/internal/order"
	"github.com/MikeMC777/pedidos-api/internal/user"
)

//
// ---------- STUBS & FAKES ----------
//

// stubUserRepo implements user.Repository in memory.
type stubUserRepo struct {
	users map[string]*user.User
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*user.User)}
}

func (s *stubUserRepo) Create(ctx context.Context, u *user.User) error {
	for _, e := range s.users {
		if e.Email == u.Email {
			return user.ErrAlreadyExist
		}
	}
	cp := *u
	s.users[u.ID] = &cp
	return nil
}

func (s *stubUserRepo) GetByID(ctx context.Context, id string) (*user.User, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, user.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (s *stubUserRepo) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	for _, u := range s.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, user.ErrNotFound
}

// stubOrderRepo implements order.Repository in memory, recomputing the
// cached price on every item mutation like the real repo does in-tx.
type stubOrderRepo struct {
	orders map[string]*order.Order
	items  map[string]*order.Item
}

func newStubOrderRepo() *stubOrderRepo {
	return &stubOrderRepo{orders: make(map[string]*order.Order), items: make(map[string]*order.Item)}
}

func (s *stubOrderRepo) itemsOf(orderID string) []order.Item {
	var out []order.Item
	for _, it := range s.items {
		if it.OrderID == orderID {
			out = append(out, *it)
		}
	}
	return out
}

func (s *stubOrderRepo) recompute(orderID string) (string, error) {
	price, err := order.RecomputePrice(s.itemsOf(orderID))
	if err != nil {
		return "", err
	}
	s.orders[orderID].Price = price
	return price, nil
}

func (s *stubOrderRepo) Create(ctx context.Context, o *order.Order) error {
	cp := *o
	s.orders[o.ID] = &cp
	return nil
}

func (s *stubOrderRepo) GetByID(ctx context.Context, id string) (*order.Order, []order.Item, error) {
	o, ok := s.orders[id]
	if !ok {
		return nil, nil, order.ErrNotFound
	}
	cp := *o
	return &cp, s.itemsOf(id), nil
}

func (s *stubOrderRepo) GetItem(ctx context.Context, itemID string) (*order.Item, error) {
	it, ok := s.items[itemID]
	if !ok {
		return nil, order.ErrItemNotFound
	}
	cp := *it
	return &cp, nil
}

func (s *stubOrderRepo) AddItem(ctx context.Context, it *order.Item) (string, error) {
	if _, ok := s.orders[it.OrderID]; !ok {
		return "", order.ErrNotFound
	}
	cp := *it
	s.items[it.ID] = &cp
	return s.recompute(it.OrderID)
}

func (s *stubOrderRepo) RemoveItem(ctx context.Context, orderID, itemID string) (string, error) {
	it, ok := s.items[itemID]
	if !ok || it.OrderID != orderID {
		return "", order.ErrItemNotFound
	}
	delete(s.items, itemID)
	return s.recompute(orderID)
}

func (s *stubOrderRepo) UpdateStatus(ctx context.Context, id, status string) error {
	o, ok := s.orders[id]
	if !ok {
		return order.ErrNotFound
	}
	o.Status = status
	return nil
}

func (s *stubOrderRepo) ListAll(ctx context.Context, limit, offset int) ([]order.Order, error) {
	var out []order.Order
	for _, o := range s.orders {
		out = append(out, *o)
	}
	return out, nil
}

func (s *stubOrderRepo) ListByUser(ctx context.Context, userID string) ([]order.Order, error) {
	var out []order.Order
	for _, o := range s.orders {
		if o.UserID == userID {
			cp := *o
			cp.Items = s.itemsOf(o.ID)
			out = append(out, cp)
		}
	}
	return out, nil
}

func (s *stubOrderRepo) Delete(ctx context.Context, id string) (bool, error) {
	if _, ok := s.orders[id]; !ok {
		return false, nil
	}
	delete(s.orders, id)
	for iid, it := range s.items {
		if it.OrderID == id {
			delete(s.items, iid)
		}
	}
	return true, nil
}

//
// ---------- TEST APP ----------
//

type testApp struct {
	router *gin.Engine
	users  *stubUserRepo
	repo   *stubOrderRepo
	tokens *auth.Tokens
	store  auth.RefreshStore
}

func newTestApp(t *testing.T, strict bool) *testApp {
	t.Helper()
	users := newStubUserRepo()
	repo := newStubOrderRepo()
	tokens := auth.NewTokens("test-secret", 30*time.Minute, 24*time.Hour)
	store := auth.NewMemoryStore()
	userSvc := user.NewService(users)
	orderSvc := order.NewService(repo, users, strict)
	return &testApp{
		router: newRouter(userSvc, users, tokens, store, orderSvc),
		users:  users,
		repo:   repo,
		tokens: tokens,
		store:  store,
	}
}

// seedUser inserts a user directly and returns it with a valid access token.
func (a *testApp) seedUser(t *testing.T, admin bool) (*user.User, string) {
	t.Helper()
	hash, err := user.HashPassword("secret")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	u := &user.User{
		ID:           uuid.NewString(),
		Name:         "Test",
		Email:        uuid.NewString() + "@test",
		PasswordHash: hash,
		Active:       true,
		Admin:        admin,
	}
	if err := a.users.Create(context.Background(), u); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	tok, err := a.tokens.NewAccessToken(u.ID)
	if err != nil {
		t.Fatalf("token: %v", err)
	}
	return u, tok
}

func (a *testApp) seedOrder(t *testing.T, ownerID string) *order.Order {
	t.Helper()
	o := &order.Order{ID: uuid.NewString(), UserID: ownerID, Status: order.StatusPending, Price: "0.00"}
	if err := a.repo.Create(context.Background(), o); err != nil {
		t.Fatalf("seed order: %v", err)
	}
	return o
}

func newBody(s string) *bytes.Buffer { return bytes.NewBufferString(s) }

func doJSON(t *testing.T, r *gin.Engine, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req = httptest.NewRequest(method, path, nil)
	if body != "" {
		req = httptest.NewRequest(method, path, newBody(body))
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func init() {
	gin.SetMode(gin.TestMode)
	gin.DefaultWriter = io.Discard
	log.SetOutput(io.Discard)
}
