package models

import (
	"crypto/rand"
	"strconv"
	"time"
)

// Order statuses. Transitions move forward only; Cancelled is reachable from
// any non-Delivered status via an approved cancellation request.
const (
	StatusOrdered        = "Ordered"
	StatusShipped        = "Shipped"
	StatusOutForDelivery = "Out for Delivery"
	StatusDelivered      = "Delivered"
	StatusCancelled      = "Cancelled"
)

const (
	PaymentCOD    = "COD"
	PaymentOnline = "Online"
)

// Cancellation request statuses.
const (
	CancelPending  = "pending"
	CancelApproved = "approved"
	CancelRejected = "rejected"
)

// OrderItem is a frozen snapshot of a product line at order time. Price is the
// unit price when the order was placed, never re-read from the catalog.
type OrderItem struct {
	ProductID int     `json:"product_id"`
	Name      string  `json:"name"`
	ImageURL  string  `json:"image_url"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
}

// PaymentDetails is present on Online orders only.
type PaymentDetails struct {
	PayeeVPA       string  `json:"payee_vpa"`
	VerifiedAmount float64 `json:"verified_amount"`
}

type CancelRequest struct {
	Reason      string    `json:"reason"`
	Status      string    `json:"status"`
	RequestedAt time.Time `json:"requested_at"`
}

// AddressSnapshot is the shipping destination frozen at order time.
type AddressSnapshot struct {
	Name       string   `json:"name"`
	Phone      string   `json:"phone"`
	Line1      string   `json:"line1"`
	Line2      string   `json:"line2"`
	City       string   `json:"city"`
	State      string   `json:"state"`
	Pincode    string   `json:"pincode"`
	DistanceKm *float64 `json:"distance_km,omitempty"`
}

type Order struct {
	ID             string          `json:"id"`
	UserID         int             `json:"user_id"`
	Items          []OrderItem     `json:"items"`
	TotalAmount    float64         `json:"total_amount"`
	DeliveryCharge float64         `json:"delivery_charge"`
	Status         string          `json:"status"`
	PaymentMethod  string          `json:"payment_method"`
	Payment        *PaymentDetails `json:"payment,omitempty"`
	CancelRequest  *CancelRequest  `json:"cancel_request,omitempty"`
	Address        AddressSnapshot `json:"address"`
	CreatedAt      time.Time       `json:"created_at"`
}

// NewOrderID builds an opaque order ID from the current time plus a random
// suffix. Not guaranteed globally unique; the primary key rejects the rare
// duplicate and the submission surfaces a generic failure.
func NewOrderID() string {
	const charset = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	b := make([]byte, 6)
	if _, err := rand.Read(b); err != nil {
		return "ORD" + strconv.FormatInt(time.Now().UnixNano(), 10)
	}
	for i := range b {
		b[i] = charset[int(b[i])%len(charset)]
	}
	return "ORD" + strconv.FormatInt(time.Now().UnixMilli(), 10) + string(b)
}

// ValidStatusTransition reports whether an admin may move an order from one
// status to another. Cancelled is only reachable through an approved
// cancellation request, which is why it is absent from the forward chain here.
func ValidStatusTransition(from, to string) bool {
	next := map[string]string{
		StatusOrdered:        StatusShipped,
		StatusShipped:        StatusOutForDelivery,
		StatusOutForDelivery: StatusDelivered,
	}
	if to == StatusCancelled {
		return from != StatusDelivered && from != StatusCancelled
	}
	return next[from] == to
}

// CanRequestCancel gates the user-facing cancellation path: non-terminal
// status and no request already on file.
func (o *Order) CanRequestCancel() bool {
	if o.Status == StatusDelivered || o.Status == StatusCancelled {
		return false
	}
	return o.CancelRequest == nil
}
