package maps

import (
	"context"
	"fmt"

	"googlemaps.github.io/maps"

	"kart/internal/types"
)

// Address is a simplified geocoding result.
type Address struct {
	DisplayName string
	Position    types.Point
}

// GeocodeService handles interactions with the Google Maps Geocoding API.
type GeocodeService struct {
	client *maps.Client
}

// NewGeocodeService creates a new GeocodeService with the given API Key.
func NewGeocodeService(apiKey string) (*GeocodeService, error) {
	client, err := maps.NewClient(maps.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create maps client: %w", err)
	}
	return &GeocodeService{client: client}, nil
}

// Forward resolves free-text address input into candidate coordinates.
func (s *GeocodeService) Forward(ctx context.Context, address string) ([]Address, error) {
	results, err := s.client.Geocode(ctx, &maps.GeocodingRequest{Address: address})
	if err != nil {
		return nil, fmt.Errorf("geocode api error: %w", err)
	}
	out := make([]Address, 0, len(results))
	for _, r := range results {
		out = append(out, Address{
			DisplayName: r.FormattedAddress,
			Position:    types.Point{Lat: r.Geometry.Location.Lat, Lng: r.Geometry.Location.Lng},
		})
	}
	return out, nil
}

// Reverse resolves a coordinate into the nearest formatted address.
func (s *GeocodeService) Reverse(ctx context.Context, p types.Point) (Address, error) {
	results, err := s.client.ReverseGeocode(ctx, &maps.GeocodingRequest{
		LatLng: &maps.LatLng{Lat: p.Lat, Lng: p.Lng},
	})
	if err != nil {
		return Address{}, fmt.Errorf("reverse geocode api error: %w", err)
	}
	if len(results) == 0 {
		return Address{}, fmt.Errorf("no address found")
	}
	return Address{DisplayName: results[0].FormattedAddress, Position: p}, nil
}
