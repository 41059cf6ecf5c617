// Package geo wraps the distance and geocoding providers the checkout flow
// depends on. Every provider has a fallback: routing falls back to a
// straight-line Haversine distance, the keyed geocoder falls back to a free
// secondary service.
package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"time"
)

type Coord struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

const earthRadiusKm = 6371.0

// Haversine returns the great-circle distance between two coordinates in km.
func Haversine(a, b Coord) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLng := (b.Lng - a.Lng) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	return earthRadiusKm * 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

// Router resolves a driving distance in kilometers between two points.
type Router interface {
	Distance(ctx context.Context, from, to Coord) (float64, error)
}

// PostalAddress is the structured result of a reverse geocode.
type PostalAddress struct {
	Line1   string `json:"line1"`
	City    string `json:"city"`
	State   string `json:"state"`
	Pincode string `json:"pincode"`
}

// Geocoder resolves free text to a coordinate and a coordinate to a postal
// address.
type Geocoder interface {
	Forward(ctx context.Context, query string) (Coord, error)
	Reverse(ctx context.Context, c Coord) (PostalAddress, error)
}

// OSRMRouter calls an OSRM-compatible routing endpoint.
type OSRMRouter struct {
	BaseURL string
	Client  *http.Client
}

func NewOSRMRouter(baseURL string) *OSRMRouter {
	return &OSRMRouter{
		BaseURL: baseURL,
		Client:  &http.Client{Timeout: 10 * time.Second},
	}
}

func (r *OSRMRouter) Distance(ctx context.Context, from, to Coord) (float64, error) {
	u := fmt.Sprintf("%s/route/v1/driving/%f,%f;%f,%f?overview=false",
		r.BaseURL, from.Lng, from.Lat, to.Lng, to.Lat)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return 0, err
	}
	resp, err := r.Client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("routing request failed: %s", resp.Status)
	}

	var body struct {
		Routes []struct {
			Distance float64 `json:"distance"` // meters
		} `json:"routes"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return 0, err
	}
	if len(body.Routes) == 0 {
		return 0, fmt.Errorf("no route found")
	}
	return body.Routes[0].Distance / 1000, nil
}

// DistanceKm asks the router and falls back to Haversine on any error. With a
// nil router the fallback is used directly.
func DistanceKm(ctx context.Context, r Router, from, to Coord) float64 {
	if r != nil {
		if km, err := r.Distance(ctx, from, to); err == nil {
			return km
		}
	}
	return Haversine(from, to)
}
