package geo

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHaversine(t *testing.T) {
	mumbai := Coord{Lat: 19.0760, Lng: 72.8777}
	pune := Coord{Lat: 18.5204, Lng: 73.8567}

	km := Haversine(mumbai, pune)
	// Straight-line Mumbai-Pune is roughly 120 km.
	assert.InDelta(t, 120, km, 5)

	assert.Equal(t, 0.0, Haversine(mumbai, mumbai))
}

type failingRouter struct{}

func (failingRouter) Distance(context.Context, Coord, Coord) (float64, error) {
	return 0, errors.New("routing down")
}

func TestDistanceKmFallsBackToHaversine(t *testing.T) {
	a := Coord{Lat: 19.0760, Lng: 72.8777}
	b := Coord{Lat: 18.5204, Lng: 73.8567}

	assert.Equal(t, Haversine(a, b), DistanceKm(context.Background(), failingRouter{}, a, b))
	assert.Equal(t, Haversine(a, b), DistanceKm(context.Background(), nil, a, b))
}

func TestOSRMRouterParsesDistance(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"routes":[{"distance":148200.5}]}`))
	}))
	defer srv.Close()

	r := NewOSRMRouter(srv.URL)
	km, err := r.Distance(context.Background(), Coord{Lat: 1, Lng: 2}, Coord{Lat: 3, Lng: 4})
	require.NoError(t, err)
	assert.InDelta(t, 148.2, km, 0.01)
}

func TestOSRMRouterNoRoute(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"routes":[]}`))
	}))
	defer srv.Close()

	r := NewOSRMRouter(srv.URL)
	_, err := r.Distance(context.Background(), Coord{}, Coord{})
	assert.Error(t, err)
}

func TestLocationIQForwardRejectsMalformedCoordinates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"lat":"not-a-number","lon":"73.85"}]`))
	}))
	defer srv.Close()

	g := &LocationIQGeocoder{BaseURL: srv.URL, APIKey: "k", Client: srv.Client()}
	_, err := g.Forward(context.Background(), "Pune")
	assert.Error(t, err)
}

func TestLocationIQForward(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"lat":"18.52","lon":"73.85"}]`))
	}))
	defer srv.Close()

	g := &LocationIQGeocoder{BaseURL: srv.URL, APIKey: "k", Client: srv.Client()}
	c, err := g.Forward(context.Background(), "Pune")
	require.NoError(t, err)
	assert.InDelta(t, 18.52, c.Lat, 0.001)
	assert.InDelta(t, 73.85, c.Lng, 0.001)
}

func TestFallbackGeocoder(t *testing.T) {
	secondary := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"lat":"18.52","lon":"73.85"}]`))
	}))
	defer secondary.Close()

	g := &FallbackGeocoder{
		Primary:   nil,
		Secondary: &NominatimGeocoder{BaseURL: secondary.URL, UserAgent: "test", Client: secondary.Client()},
	}
	c, err := g.Forward(context.Background(), "Pune")
	require.NoError(t, err)
	assert.InDelta(t, 18.52, c.Lat, 0.001)
	assert.InDelta(t, 73.85, c.Lng, 0.001)
}
