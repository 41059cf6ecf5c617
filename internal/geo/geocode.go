package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// NominatimGeocoder is the free fallback geocoder. It needs no API key but
// requires a descriptive User-Agent.
type NominatimGeocoder struct {
	BaseURL   string
	UserAgent string
	Client    *http.Client
}

func NewNominatimGeocoder() *NominatimGeocoder {
	return &NominatimGeocoder{
		BaseURL:   "https://nominatim.openstreetmap.org",
		UserAgent: "onlinemart/1.0",
		Client:    &http.Client{Timeout: 10 * time.Second},
	}
}

func (g *NominatimGeocoder) get(ctx context.Context, u string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", g.UserAgent)
	resp, err := g.Client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("geocode request failed: %s", resp.Status)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (g *NominatimGeocoder) Forward(ctx context.Context, query string) (Coord, error) {
	u := g.BaseURL + "/search?format=json&limit=1&q=" + url.QueryEscape(query)
	var results []struct {
		Lat string `json:"lat"`
		Lon string `json:"lon"`
	}
	if err := g.get(ctx, u, &results); err != nil {
		return Coord{}, err
	}
	if len(results) == 0 {
		return Coord{}, fmt.Errorf("no match for %q", query)
	}
	var c Coord
	if _, err := fmt.Sscanf(results[0].Lat, "%f", &c.Lat); err != nil {
		return Coord{}, err
	}
	if _, err := fmt.Sscanf(results[0].Lon, "%f", &c.Lng); err != nil {
		return Coord{}, err
	}
	return c, nil
}

func (g *NominatimGeocoder) Reverse(ctx context.Context, c Coord) (PostalAddress, error) {
	u := fmt.Sprintf("%s/reverse?format=json&lat=%f&lon=%f", g.BaseURL, c.Lat, c.Lng)
	var result struct {
		Address struct {
			Road     string `json:"road"`
			Suburb   string `json:"suburb"`
			City     string `json:"city"`
			Town     string `json:"town"`
			State    string `json:"state"`
			Postcode string `json:"postcode"`
		} `json:"address"`
	}
	if err := g.get(ctx, u, &result); err != nil {
		return PostalAddress{}, err
	}
	city := result.Address.City
	if city == "" {
		city = result.Address.Town
	}
	line1 := result.Address.Road
	if result.Address.Suburb != "" {
		if line1 != "" {
			line1 += ", "
		}
		line1 += result.Address.Suburb
	}
	return PostalAddress{
		Line1:   line1,
		City:    city,
		State:   result.Address.State,
		Pincode: result.Address.Postcode,
	}, nil
}

// FallbackGeocoder tries a keyed primary first and falls back to the free
// secondary when the primary errors. Either side may be nil.
type FallbackGeocoder struct {
	Primary   Geocoder
	Secondary Geocoder
}

func (f *FallbackGeocoder) Forward(ctx context.Context, query string) (Coord, error) {
	if f.Primary != nil {
		if c, err := f.Primary.Forward(ctx, query); err == nil {
			return c, nil
		}
	}
	if f.Secondary == nil {
		return Coord{}, fmt.Errorf("no geocoder available")
	}
	return f.Secondary.Forward(ctx, query)
}

func (f *FallbackGeocoder) Reverse(ctx context.Context, c Coord) (PostalAddress, error) {
	if f.Primary != nil {
		if a, err := f.Primary.Reverse(ctx, c); err == nil {
			return a, nil
		}
	}
	if f.Secondary == nil {
		return PostalAddress{}, fmt.Errorf("no geocoder available")
	}
	return f.Secondary.Reverse(ctx, c)
}

// LocationIQGeocoder is the keyed primary geocoder.
type LocationIQGeocoder struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
}

func NewLocationIQGeocoder(apiKey string) *LocationIQGeocoder {
	return &LocationIQGeocoder{
		BaseURL: "https://us1.locationiq.com/v1",
		APIKey:  apiKey,
		Client:  &http.Client{Timeout: 10 * time.Second},
	}
}

func (g *LocationIQGeocoder) Forward(ctx context.Context, query string) (Coord, error) {
	u := fmt.Sprintf("%s/search?key=%s&format=json&limit=1&q=%s",
		g.BaseURL, url.QueryEscape(g.APIKey), url.QueryEscape(query))
	var results []struct {
		Lat string `json:"lat"`
		Lon string `json:"lon"`
	}
	if err := getJSON(ctx, g.Client, u, &results); err != nil {
		return Coord{}, err
	}
	if len(results) == 0 {
		return Coord{}, fmt.Errorf("no match for %q", query)
	}
	var c Coord
	if _, err := fmt.Sscanf(results[0].Lat, "%f", &c.Lat); err != nil {
		return Coord{}, err
	}
	if _, err := fmt.Sscanf(results[0].Lon, "%f", &c.Lng); err != nil {
		return Coord{}, err
	}
	return c, nil
}

func (g *LocationIQGeocoder) Reverse(ctx context.Context, c Coord) (PostalAddress, error) {
	u := fmt.Sprintf("%s/reverse?key=%s&format=json&lat=%f&lon=%f",
		g.BaseURL, url.QueryEscape(g.APIKey), c.Lat, c.Lng)
	var result struct {
		Address struct {
			Road     string `json:"road"`
			City     string `json:"city"`
			State    string `json:"state"`
			Postcode string `json:"postcode"`
		} `json:"address"`
	}
	if err := getJSON(ctx, g.Client, u, &result); err != nil {
		return PostalAddress{}, err
	}
	return PostalAddress{
		Line1:   result.Address.Road,
		City:    result.Address.City,
		State:   result.Address.State,
		Pincode: result.Address.Postcode,
	}, nil
}

func getJSON(ctx context.Context, client *http.Client, u string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("geocode request failed: %s", resp.Status)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
