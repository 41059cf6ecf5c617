// Package checkout turns a user's cart into a priced quote and, once payment
// is resolved (COD immediately, Online after verification), into a persisted
// order with reserved stock.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/vish0020/Onlinemart--sub000/internal/models"
	"github.com/vish0020/Onlinemart--sub000/internal/pricing"
	"github.com/vish0020/Onlinemart--sub000/internal/store"
)

var (
	ErrEmptyCart   = errors.New("cart is empty")
	ErrCODDisabled = errors.New("cash on delivery is disabled")
)

type Submitter struct {
	Store *store.Store
}

// Quote is the priced view of a cart against a chosen address. Item prices
// are frozen here; the same lines go verbatim into the order.
type Quote struct {
	Items          []models.OrderItem `json:"items"`
	Subtotal       float64            `json:"subtotal"`
	DistanceKm     float64            `json:"distance_km"`
	DeliveryCharge float64            `json:"delivery_charge"`
	Total          float64            `json:"total"`
	CODEnabled     bool               `json:"cod_enabled"`
	EstimatedDays  string             `json:"estimated_days"`
}

// BuildQuote loads the cart, freezes line prices, and prices delivery for the
// given address using the current settings.
func (s *Submitter) BuildQuote(ctx context.Context, userID int, addr *models.Address) (*Quote, error) {
	cart, err := s.Store.GetCart(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(cart) == 0 {
		return nil, ErrEmptyCart
	}

	settings, err := s.Store.GetDeliverySettings(ctx)
	if err != nil {
		return nil, err
	}

	q := &Quote{
		CODEnabled:    settings.CODEnabled,
		EstimatedDays: settings.EstimatedDays,
	}
	for _, it := range cart {
		q.Items = append(q.Items, models.OrderItem{
			ProductID: it.ProductID,
			Name:      it.Name,
			ImageURL:  it.ImageURL,
			Price:     it.Price,
			Quantity:  it.Quantity,
		})
		q.Subtotal += it.Price * float64(it.Quantity)
	}

	var distance *float64
	if addr != nil {
		distance = addr.DistanceKm
	}
	q.DistanceKm = pricing.DistanceOrFallback(distance)
	q.DeliveryCharge = pricing.DeliveryCharge(q.Subtotal, q.DistanceKm, pricing.Settings{
		BaseCharge:        settings.BaseCharge,
		PerKmCharge:       settings.PerKmCharge,
		FreeDeliveryAbove: settings.FreeDeliveryAbove,
	})
	q.Total = q.Subtotal + q.DeliveryCharge
	return q, nil
}

// Draft is a finalized order waiting to be submitted.
type Draft struct {
	UserID        int
	Quote         *Quote
	Address       models.AddressSnapshot
	PaymentMethod string
	Payment       *models.PaymentDetails
}

// Submit reserves stock for every line, then writes the order, then clears
// the cart. Reservation runs item by item; when a later item fails, earlier
// decrements are left in place and the whole submission fails. Rolling the
// earlier items back (or compensating) is an explicit product decision this
// implementation does not take.
func (s *Submitter) Submit(ctx context.Context, d Draft) (*models.Order, error) {
	if d.Quote == nil || len(d.Quote.Items) == 0 {
		return nil, ErrEmptyCart
	}
	if d.PaymentMethod == models.PaymentCOD && !d.Quote.CODEnabled {
		return nil, ErrCODDisabled
	}

	for _, it := range d.Quote.Items {
		if err := s.Store.ReserveStock(ctx, it.ProductID, it.Quantity); err != nil {
			return nil, fmt.Errorf("reserve stock for product %d: %w", it.ProductID, err)
		}
	}

	order := &models.Order{
		ID:             models.NewOrderID(),
		UserID:         d.UserID,
		Items:          d.Quote.Items,
		TotalAmount:    d.Quote.Total,
		DeliveryCharge: d.Quote.DeliveryCharge,
		Status:         models.StatusOrdered,
		PaymentMethod:  d.PaymentMethod,
		Payment:        d.Payment,
		Address:        d.Address,
	}

	if err := s.Store.CreateOrder(ctx, order); err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	// The cart is cleared only after the order write succeeded; a failed
	// clear is logged but does not undo the order.
	if err := s.Store.ClearCart(ctx, d.UserID); err != nil {
		slog.Error("Failed to clear cart after order", "order", order.ID, "error", err)
	}

	slog.Info("Order placed", "order", order.ID, "user", d.UserID,
		"total", order.TotalAmount, "payment", order.PaymentMethod)
	return order, nil
}
