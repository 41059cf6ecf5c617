package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gorilla/sessions"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vish0020/Onlinemart--sub000/internal/checkout"
	"github.com/vish0020/Onlinemart--sub000/internal/models"
	"github.com/vish0020/Onlinemart--sub000/internal/payment"
	"github.com/vish0020/Onlinemart--sub000/internal/store"
)

type testEnv struct {
	store  *store.Store
	server *httptest.Server
	client *http.Client
}

// newTestEnv wires the API the way cmd/server does, minus the CSRF layer,
// which is exercised by the browser and not by these tests.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := store.NewStore(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	require.NoError(t, db.Migrate("../../migrations"))
	t.Cleanup(func() { db.Close() })

	sessionStore := sessions.NewCookieStore([]byte("test-session-key-0123456789abcdef"))
	auth := &AuthHandler{Store: db, SessionStore: sessionStore}
	catalog := &CatalogHandler{Store: db}
	cart := &CartHandler{Store: db}
	addresses := &AddressHandler{Store: db}
	submitter := &checkout.Submitter{Store: db}
	payments := payment.NewManager(payment.Config{
		QRCountdown:     50 * time.Millisecond,
		VerifyCountdown: 50 * time.Millisecond,
		PayeeVPA:        "store@upi",
		PayeeName:       "Onlinemart",
	})
	checkoutH := &CheckoutHandler{Store: db, Submitter: submitter, Payments: payments}
	orders := &OrderHandler{Store: db}
	admin := &AdminHandler{Store: db}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/register", auth.Register)
	mux.HandleFunc("POST /api/login", auth.Login)
	mux.HandleFunc("POST /api/logout", auth.Logout)
	mux.HandleFunc("GET /api/me", auth.Me)
	mux.HandleFunc("GET /api/products", catalog.ListProducts)
	mux.HandleFunc("GET /api/products/{id}", catalog.GetProduct)
	mux.HandleFunc("POST /api/products/{id}/reviews", auth.RequireUser(catalog.CreateReview))
	mux.HandleFunc("GET /api/cart", auth.RequireUser(cart.GetCart))
	mux.HandleFunc("POST /api/cart", auth.RequireUser(cart.SetItem))
	mux.HandleFunc("POST /api/addresses", auth.RequireUser(addresses.Create))
	mux.HandleFunc("POST /api/checkout/quote", auth.RequireUser(checkoutH.Quote))
	mux.HandleFunc("POST /api/orders", auth.RequireUser(checkoutH.PlaceCOD))
	mux.HandleFunc("POST /api/payment/sessions", auth.RequireUser(checkoutH.CreatePaymentSession))
	mux.HandleFunc("GET /api/payment/sessions/{id}", auth.RequireUser(checkoutH.GetPaymentSession))
	mux.HandleFunc("POST /api/payment/sessions/{id}/qr", auth.RequireUser(checkoutH.SessionQR))
	mux.HandleFunc("GET /api/orders", auth.RequireUser(orders.ListMine))
	mux.HandleFunc("GET /api/admin/stats", auth.RequireAdmin(admin.Dashboard))

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)

	return &testEnv{
		store:  db,
		server: server,
		client: &http.Client{Jar: jar},
	}
}

func (e *testEnv) do(t *testing.T, method, path string, body any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, e.server.URL+path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	resp, err := e.client.Do(req)
	require.NoError(t, err)
	return resp
}

func decodeBody[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func (e *testEnv) register(t *testing.T, email string) {
	t.Helper()
	resp := e.do(t, "POST", "/api/register", map[string]string{
		"name": "Test User", "email": email, "password": "secret99",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()
}

func TestRegisterLoginMe(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "asha@example.com")

	resp := env.do(t, "GET", "/api/me", nil)
	user := decodeBody[models.User](t, resp)
	assert.Equal(t, "asha@example.com", user.Email)

	resp = env.do(t, "POST", "/api/logout", nil)
	resp.Body.Close()

	resp = env.do(t, "GET", "/api/me", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	resp = env.do(t, "POST", "/api/login", map[string]string{
		"email": "asha@example.com", "password": "secret99",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
}

func TestLoginRejectsBadPassword(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "asha@example.com")

	resp := env.do(t, "POST", "/api/login", map[string]string{
		"email": "asha@example.com", "password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()
}

func TestRegisterValidation(t *testing.T) {
	env := newTestEnv(t)

	resp := env.do(t, "POST", "/api/register", map[string]string{
		"name": "X", "email": "not-an-email", "password": "secret99",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	resp = env.do(t, "POST", "/api/register", map[string]string{
		"name": "X", "email": "x@example.com", "password": "abc",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func TestReviewValidation(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "asha@example.com")

	p := &models.Product{Name: "Rice", Price: 200, Stock: 5}
	require.NoError(t, env.store.CreateProduct(context.Background(), p))
	path := fmt.Sprintf("/api/products/%d/reviews", p.ID)

	resp := env.do(t, "POST", path, map[string]any{"rating": 0, "text": "bad"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	resp = env.do(t, "POST", path, map[string]any{"rating": 4, "text": "   "})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	resp = env.do(t, "POST", path, map[string]any{"rating": 4, "text": "Good rice"})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	got, err := env.store.GetProductByID(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.RatingCount)
	assert.Equal(t, 4, got.RatingSum)
}

func TestCartCapsQuantityAtStock(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "asha@example.com")

	p := &models.Product{Name: "Rice", Price: 200, Stock: 3}
	require.NoError(t, env.store.CreateProduct(context.Background(), p))

	resp := env.do(t, "POST", "/api/cart", map[string]int{"product_id": p.ID, "quantity": 10})
	items := decodeBody[[]models.CartItem](t, resp)
	require.Len(t, items, 1)
	assert.Equal(t, 3, items[0].Quantity)
}

func TestCODOrderEndToEnd(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "asha@example.com")

	p := &models.Product{Name: "Rice", Price: 200, Stock: 5}
	require.NoError(t, env.store.CreateProduct(context.Background(), p))

	resp := env.do(t, "POST", "/api/cart", map[string]int{"product_id": p.ID, "quantity": 2})
	resp.Body.Close()

	resp = env.do(t, "POST", "/api/addresses", map[string]any{
		"name": "Asha", "phone": "9999999999", "line1": "12 MG Road",
		"city": "Pune", "pincode": "411001", "is_default": true,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	addr := decodeBody[models.Address](t, resp)

	resp = env.do(t, "POST", "/api/checkout/quote", map[string]int{"address_id": addr.ID})
	quote := decodeBody[checkout.Quote](t, resp)
	assert.Equal(t, 400.0, quote.Subtotal)
	assert.Equal(t, 100.0, quote.DeliveryCharge) // fallback distance of 5 km

	resp = env.do(t, "POST", "/api/orders", map[string]int{"address_id": addr.ID})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	order := decodeBody[models.Order](t, resp)
	assert.Equal(t, 500.0, order.TotalAmount)
	assert.Equal(t, models.PaymentCOD, order.PaymentMethod)

	// Cart cleared, stock down.
	resp = env.do(t, "GET", "/api/cart", nil)
	items := decodeBody[[]models.CartItem](t, resp)
	assert.Empty(t, items)

	got, err := env.store.GetProductByID(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, got.Stock)
}

func TestOnlinePaymentEndToEnd(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "asha@example.com")

	p := &models.Product{Name: "Rice", Price: 200, Stock: 5}
	require.NoError(t, env.store.CreateProduct(context.Background(), p))

	resp := env.do(t, "POST", "/api/cart", map[string]int{"product_id": p.ID, "quantity": 1})
	resp.Body.Close()
	resp = env.do(t, "POST", "/api/addresses", map[string]any{
		"name": "Asha", "phone": "9999999999", "line1": "12 MG Road",
		"city": "Pune", "pincode": "411001", "is_default": true,
	})
	addr := decodeBody[models.Address](t, resp)

	resp = env.do(t, "POST", "/api/payment/sessions", map[string]int{"address_id": addr.ID})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	session := decodeBody[payment.Status](t, resp)
	assert.Equal(t, payment.StateSelection, session.State)
	assert.Equal(t, 300.01, session.PayableAmount) // 200 + 100 delivery + 1p surcharge

	resp = env.do(t, "POST", "/api/payment/sessions/"+session.ID+"/qr", nil)
	st := decodeBody[payment.Status](t, resp)
	assert.Equal(t, payment.StateQRScan, st.State)

	// Wait out the short test countdowns: qr -> verifying -> done.
	require.Eventually(t, func() bool {
		resp := env.do(t, "GET", "/api/payment/sessions/"+session.ID, nil)
		st := decodeBody[payment.Status](t, resp)
		return st.State == payment.StateDone && st.OrderID != ""
	}, 2*time.Second, 25*time.Millisecond)

	resp = env.do(t, "GET", "/api/orders", nil)
	orders := decodeBody[[]models.Order](t, resp)
	require.Len(t, orders, 1)
	assert.Equal(t, models.PaymentOnline, orders[0].PaymentMethod)
	require.NotNil(t, orders[0].Payment)
	assert.Equal(t, 300.01, orders[0].Payment.VerifiedAmount)
}

func TestAdminGateRejectsNonAdmin(t *testing.T) {
	env := newTestEnv(t)

	resp := env.do(t, "GET", "/api/admin/stats", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	env.register(t, "asha@example.com")
	resp = env.do(t, "GET", "/api/admin/stats", nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()
}
