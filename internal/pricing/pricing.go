// Package pricing computes the delivery charge for a cart. It is a pure
// function of the cart subtotal, the buyer's distance from the store, and the
// current delivery settings.
package pricing

import "math"

// FallbackDistanceKm is assumed when an address has no resolved distance.
const FallbackDistanceKm = 5

type Settings struct {
	BaseCharge        float64
	PerKmCharge       float64
	FreeDeliveryAbove float64
}

// DeliveryCharge returns 0 when the subtotal reaches the free-delivery
// threshold (inclusive), otherwise base + distance*perKm rounded to the
// nearest integer currency unit. The result is never negative.
func DeliveryCharge(subtotal, distanceKm float64, s Settings) float64 {
	if subtotal >= s.FreeDeliveryAbove {
		return 0
	}
	if distanceKm < 0 {
		distanceKm = FallbackDistanceKm
	}
	charge := math.Round(s.BaseCharge + distanceKm*s.PerKmCharge)
	if charge < 0 {
		return 0
	}
	return charge
}

// DistanceOrFallback resolves an optional address distance to a usable value.
func DistanceOrFallback(km *float64) float64 {
	if km == nil || *km < 0 {
		return FallbackDistanceKm
	}
	return *km
}
