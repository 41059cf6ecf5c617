package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vish0020/Onlinemart--sub000/internal/models"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	require.NoError(t, s.Migrate("../../migrations"))
	t.Cleanup(func() { s.Close() })
	return s
}

func seedProduct(t *testing.T, s *Store, name string, price float64, stock int) *models.Product {
	t.Helper()
	p := &models.Product{Name: name, Category: "Grocery", Price: price, Stock: stock}
	require.NoError(t, s.CreateProduct(context.Background(), p))
	return p
}

func TestReserveStock(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	p := seedProduct(t, s, "Rice", 100, 3)

	require.NoError(t, s.ReserveStock(ctx, p.ID, 2))

	err := s.ReserveStock(ctx, p.ID, 2)
	assert.ErrorIs(t, err, ErrInsufficientStock)

	got, err := s.GetProductByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Stock)
}

func TestReserveStockUnknownProduct(t *testing.T) {
	s := newTestStore(t)
	assert.ErrorIs(t, s.ReserveStock(context.Background(), 999, 1), ErrNotFound)
}

func TestAddRating(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	p := seedProduct(t, s, "Chai", 145, 10)

	require.NoError(t, s.AddRating(ctx, p.ID, 5))
	require.NoError(t, s.AddRating(ctx, p.ID, 3))

	got, err := s.GetProductByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.RatingCount)
	assert.Equal(t, 8, got.RatingSum)
	assert.Equal(t, 4.0, got.AverageRating())
}

func TestSearchProducts(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seedProduct(t, s, "Basmati Rice", 499, 10)
	seedProduct(t, s, "Brown Rice", 350, 10)
	p3 := &models.Product{Name: "Bath Towel", Category: "Home", Price: 275, Stock: 5}
	require.NoError(t, s.CreateProduct(ctx, p3))

	all, err := s.SearchProducts(ctx, "", "")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	rice, err := s.SearchProducts(ctx, "rice", "")
	require.NoError(t, err)
	assert.Len(t, rice, 2)

	home, err := s.SearchProducts(ctx, "", "Home")
	require.NoError(t, err)
	require.Len(t, home, 1)
	assert.Equal(t, "Bath Towel", home[0].Name)
}

func TestDefaultAddressInvariant(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	a1 := &models.Address{UserID: 7, Name: "A", Phone: "1", Line1: "x", City: "Pune", Pincode: "411001", IsDefault: true}
	require.NoError(t, s.SaveAddress(ctx, a1))

	a2 := &models.Address{UserID: 7, Name: "B", Phone: "2", Line1: "y", City: "Pune", Pincode: "411002", IsDefault: true}
	require.NoError(t, s.SaveAddress(ctx, a2))

	addrs, err := s.GetAddresses(ctx, 7)
	require.NoError(t, err)
	require.Len(t, addrs, 2)

	var defaults []int
	for _, a := range addrs {
		if a.IsDefault {
			defaults = append(defaults, a.ID)
		}
	}
	require.Len(t, defaults, 1)
	assert.Equal(t, a2.ID, defaults[0])

	// Flipping the first one back keeps the invariant.
	a1.IsDefault = true
	require.NoError(t, s.SaveAddress(ctx, a1))
	addrs, err = s.GetAddresses(ctx, 7)
	require.NoError(t, err)
	count := 0
	for _, a := range addrs {
		if a.IsDefault {
			count++
			assert.Equal(t, a1.ID, a.ID)
		}
	}
	assert.Equal(t, 1, count)
}

func TestDefaultAddressOtherUserUntouched(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	mine := &models.Address{UserID: 1, Name: "A", Phone: "1", Line1: "x", City: "Pune", Pincode: "411001", IsDefault: true}
	require.NoError(t, s.SaveAddress(ctx, mine))
	theirs := &models.Address{UserID: 2, Name: "B", Phone: "2", Line1: "y", City: "Pune", Pincode: "411002", IsDefault: true}
	require.NoError(t, s.SaveAddress(ctx, theirs))

	addrs, err := s.GetAddresses(ctx, 1)
	require.NoError(t, err)
	require.Len(t, addrs, 1)
	assert.True(t, addrs[0].IsDefault)
}

func seedOrder(t *testing.T, s *Store, userID int, status string) *models.Order {
	t.Helper()
	o := &models.Order{
		ID:             models.NewOrderID(),
		UserID:         userID,
		Items:          []models.OrderItem{{ProductID: 1, Name: "Rice", Price: 100, Quantity: 2}},
		TotalAmount:    300,
		DeliveryCharge: 100,
		Status:         status,
		PaymentMethod:  models.PaymentCOD,
		Address:        models.AddressSnapshot{Name: "A", City: "Pune"},
	}
	require.NoError(t, s.CreateOrder(context.Background(), o))
	return o
}

func TestOrderRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	km := 7.5
	o := &models.Order{
		ID:             models.NewOrderID(),
		UserID:         3,
		Items: []models.OrderItem{
			{ProductID: 1, Name: "Rice", Price: 499, Quantity: 1},
			{ProductID: 2, Name: "Oil", Price: 310, Quantity: 2},
		},
		TotalAmount:    1119,
		DeliveryCharge: 0,
		Status:         models.StatusOrdered,
		PaymentMethod:  models.PaymentOnline,
		Payment:        &models.PaymentDetails{PayeeVPA: "store@upi", VerifiedAmount: 1119.04},
		Address:        models.AddressSnapshot{Name: "A", City: "Pune", Pincode: "411001", DistanceKm: &km},
	}
	require.NoError(t, s.CreateOrder(ctx, o))

	got, err := s.GetOrderByID(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, o.TotalAmount, got.TotalAmount)
	assert.Equal(t, o.Items, got.Items)
	require.NotNil(t, got.Payment)
	assert.Equal(t, 1119.04, got.Payment.VerifiedAmount)
	assert.Equal(t, "Pune", got.Address.City)
	require.NotNil(t, got.Address.DistanceKm)
	assert.Equal(t, 7.5, *got.Address.DistanceKm)
	assert.Nil(t, got.CancelRequest)
}

func TestDuplicateOrderIDRejected(t *testing.T) {
	s := newTestStore(t)
	o := seedOrder(t, s, 1, models.StatusOrdered)

	dup := *o
	err := s.CreateOrder(context.Background(), &dup)
	assert.Error(t, err)
}

func TestCancelRequestGate(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	o := seedOrder(t, s, 5, models.StatusOrdered)

	require.NoError(t, s.CreateCancelRequest(ctx, o.ID, "changed my mind"))

	// Filing twice before resolution is rejected.
	assert.ErrorIs(t, s.CreateCancelRequest(ctx, o.ID, "again"), ErrConflict)

	got, err := s.GetOrderByID(ctx, o.ID)
	require.NoError(t, err)
	require.NotNil(t, got.CancelRequest)
	assert.Equal(t, models.CancelPending, got.CancelRequest.Status)
	assert.Equal(t, "changed my mind", got.CancelRequest.Reason)
}

func TestCancelRequestBlockedOnDelivered(t *testing.T) {
	s := newTestStore(t)
	o := seedOrder(t, s, 5, models.StatusDelivered)
	assert.ErrorIs(t, s.CreateCancelRequest(context.Background(), o.ID, "too late"), ErrConflict)
}

func TestResolveCancelApprove(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	o := seedOrder(t, s, 5, models.StatusShipped)
	require.NoError(t, s.CreateCancelRequest(ctx, o.ID, "wrong size"))

	require.NoError(t, s.ResolveCancelRequest(ctx, o.ID, true))

	got, err := s.GetOrderByID(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCancelled, got.Status)
	assert.Equal(t, models.CancelApproved, got.CancelRequest.Status)
}

func TestResolveCancelReject(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	o := seedOrder(t, s, 5, models.StatusShipped)
	require.NoError(t, s.CreateCancelRequest(ctx, o.ID, "wrong size"))

	require.NoError(t, s.ResolveCancelRequest(ctx, o.ID, false))

	got, err := s.GetOrderByID(ctx, o.ID)
	require.NoError(t, err)
	// Order status unchanged, request closed.
	assert.Equal(t, models.StatusShipped, got.Status)
	assert.Equal(t, models.CancelRejected, got.CancelRequest.Status)

	// A rejected request cannot be resolved again.
	assert.ErrorIs(t, s.ResolveCancelRequest(ctx, o.ID, true), ErrNotFound)
}

func TestDeliverySettingsRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	// Unseeded: defaults.
	ds, err := s.GetDeliverySettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.DefaultDeliverySettings(), ds)

	ds.BaseCharge = 30
	ds.FreeDeliveryAbove = 750
	ds.CODEnabled = false
	require.NoError(t, s.SaveDeliverySettings(ctx, ds))

	got, err := s.GetDeliverySettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, ds, got)
}

func TestCartUpsertAndClear(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	p := seedProduct(t, s, "Rice", 100, 10)

	require.NoError(t, s.SetCartItem(ctx, 1, p.ID, 2))
	require.NoError(t, s.SetCartItem(ctx, 1, p.ID, 5))

	cart, err := s.GetCart(ctx, 1)
	require.NoError(t, err)
	require.Len(t, cart, 1)
	assert.Equal(t, 5, cart[0].Quantity)

	// Zero quantity removes the line.
	require.NoError(t, s.SetCartItem(ctx, 1, p.ID, 0))
	cart, err = s.GetCart(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, cart)
}

func TestWishlist(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	p := seedProduct(t, s, "Towel", 275, 10)

	require.NoError(t, s.AddToWishlist(ctx, 1, p.ID))
	require.NoError(t, s.AddToWishlist(ctx, 1, p.ID)) // idempotent

	list, err := s.GetWishlist(ctx, 1)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, p.ID, list[0].ID)

	require.NoError(t, s.RemoveFromWishlist(ctx, 1, p.ID))
	list, err = s.GetWishlist(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, list)
}
