package maps

import (
	"context"
	"fmt"
	"time"

	"googlemaps.github.io/maps"

	"kart/internal/types"
)

// Route is a road-following path between two points with advisory estimates.
type Route struct {
	Waypoints []types.Point
	Distance  int // meters
	Duration  time.Duration
}

// RouteService handles interactions with the Google Maps Directions API.
type RouteService struct {
	client *maps.Client
}

// NewRouteService creates a new RouteService with the given API Key.
func NewRouteService(apiKey string) (*RouteService, error) {
	client, err := maps.NewClient(maps.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create maps client: %w", err)
	}
	return &RouteService{client: client}, nil
}

// Route returns the driving path from origin to destination as an ordered
// waypoint list decoded from the overview polyline, plus leg distance/duration.
func (s *RouteService) Route(ctx context.Context, origin, destination types.Point) (Route, error) {
	r := &maps.DirectionsRequest{
		Origin:      fmt.Sprintf("%f,%f", origin.Lat, origin.Lng),
		Destination: fmt.Sprintf("%f,%f", destination.Lat, destination.Lng),
		Mode:        maps.TravelModeDriving,
	}

	routes, _, err := s.client.Directions(ctx, r)
	if err != nil {
		return Route{}, fmt.Errorf("maps api error: %w", err)
	}
	if len(routes) == 0 || len(routes[0].Legs) == 0 {
		return Route{}, fmt.Errorf("no route found")
	}

	coords, err := routes[0].OverviewPolyline.Decode()
	if err != nil {
		return Route{}, fmt.Errorf("decode polyline: %w", err)
	}

	waypoints := make([]types.Point, len(coords))
	for i, c := range coords {
		waypoints[i] = types.Point{Lat: c.Lat, Lng: c.Lng}
	}

	leg := routes[0].Legs[0]
	return Route{
		Waypoints: waypoints,
		Distance:  leg.Distance.Meters,
		Duration:  leg.Duration,
	}, nil
}
