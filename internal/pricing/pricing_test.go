package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

var settings = Settings{
	BaseCharge:        50,
	PerKmCharge:       10,
	FreeDeliveryAbove: 1000,
}

func TestDeliveryCharge(t *testing.T) {
	// base=50, perKm=10, d=5, subtotal=400 -> round(50+50) = 100
	assert.Equal(t, 100.0, DeliveryCharge(400, 5, settings))
}

func TestDeliveryChargeRounding(t *testing.T) {
	assert.Equal(t, 74.0, DeliveryCharge(400, 2.4, settings))
	assert.Equal(t, 75.0, DeliveryCharge(400, 2.5, settings))
}

func TestFreeDeliveryAboveThreshold(t *testing.T) {
	assert.Equal(t, 0.0, DeliveryCharge(1500, 5, settings))
	assert.Equal(t, 0.0, DeliveryCharge(1500, 0, settings))
}

func TestFreeDeliveryBoundaryInclusive(t *testing.T) {
	// subtotal exactly at the threshold ships free
	assert.Equal(t, 0.0, DeliveryCharge(1000, 5, settings))
	assert.NotEqual(t, 0.0, DeliveryCharge(999.99, 5, settings))
}

func TestNegativeDistanceUsesFallback(t *testing.T) {
	assert.Equal(t, DeliveryCharge(400, FallbackDistanceKm, settings), DeliveryCharge(400, -1, settings))
}

func TestChargeNeverNegative(t *testing.T) {
	s := Settings{BaseCharge: -500, PerKmCharge: 10, FreeDeliveryAbove: 1000}
	assert.Equal(t, 0.0, DeliveryCharge(400, 2, s))
}

func TestDistanceOrFallback(t *testing.T) {
	assert.Equal(t, 5.0, DistanceOrFallback(nil))

	km := 12.5
	assert.Equal(t, 12.5, DistanceOrFallback(&km))

	neg := -3.0
	assert.Equal(t, 5.0, DistanceOrFallback(&neg))
}
