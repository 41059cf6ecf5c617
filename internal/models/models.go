package models

import (
	"time"
)

type Product struct {
	ID          int       `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Price       float64   `json:"price"`
	MRP         float64   `json:"mrp"` // strike-through price, 0 when absent
	Stock       int       `json:"stock"`
	ImageURL    string    `json:"image_url"`
	RatingCount int       `json:"rating_count"`
	RatingSum   int       `json:"rating_sum"`
	CreatedAt   time.Time `json:"created_at"`
}

// AverageRating returns 0 when the product has no reviews.
func (p *Product) AverageRating() float64 {
	if p.RatingCount == 0 {
		return 0
	}
	return float64(p.RatingSum) / float64(p.RatingCount)
}

type Banner struct {
	ID        int       `json:"id"`
	Title     string    `json:"title"`
	ImageURL  string    `json:"image_url"`
	LinkURL   string    `json:"link_url"`
	Active    bool      `json:"active"`
	Position  int       `json:"position"`
	CreatedAt time.Time `json:"created_at"`
}

type Review struct {
	ID        int       `json:"id"`
	ProductID int       `json:"product_id"`
	UserID    int       `json:"user_id"`
	UserName  string    `json:"user_name"`
	Rating    int       `json:"rating"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

type User struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Password  string    `json:"-"` // bcrypt hash
	AvatarURL string    `json:"avatar_url"`
	IsAdmin   bool      `json:"is_admin"`
	CreatedAt time.Time `json:"created_at"`
}

type Address struct {
	ID         int      `json:"id"`
	UserID     int      `json:"user_id"`
	Name       string   `json:"name"`
	Phone      string   `json:"phone"`
	Line1      string   `json:"line1"`
	Line2      string   `json:"line2"`
	City       string   `json:"city"`
	State      string   `json:"state"`
	Pincode    string   `json:"pincode"`
	Lat        *float64 `json:"lat,omitempty"`
	Lng        *float64 `json:"lng,omitempty"`
	DistanceKm *float64 `json:"distance_km,omitempty"`
	IsDefault  bool     `json:"is_default"`
}

// CartItem carries a live product snapshot for display; the price is re-read
// at checkout when the order line is frozen.
type CartItem struct {
	ProductID int     `json:"product_id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	ImageURL  string  `json:"image_url"`
	Stock     int     `json:"stock"`
	Quantity  int     `json:"quantity"`
}

// DeliverySettings is a singleton record, overwritten wholesale by an admin save.
type DeliverySettings struct {
	BaseCharge        float64 `json:"base_charge"`
	PerKmCharge       float64 `json:"per_km_charge"`
	FreeDeliveryAbove float64 `json:"free_delivery_above"`
	CODEnabled        bool    `json:"cod_enabled"`
	EstimatedDays     string  `json:"estimated_days"`
	StoreLat          float64 `json:"store_lat"`
	StoreLng          float64 `json:"store_lng"`
}

func DefaultDeliverySettings() DeliverySettings {
	return DeliverySettings{
		BaseCharge:        50,
		PerKmCharge:       10,
		FreeDeliveryAbove: 1000,
		CODEnabled:        true,
		EstimatedDays:     "2-4 days",
		StoreLat:          19.0760,
		StoreLng:          72.8777,
	}
}
