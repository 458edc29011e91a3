// Package geo contains pure path helpers for the simulated courier: route
// retrieval with a straight-line fallback, and segment interpolation.
package geo

import (
	"context"
	"log"

	"kart/internal/maps"
	"kart/internal/types"
)

// RouteProvider yields an ordered road path between two points. The production
// implementation is maps.RouteService; tests use stubs.
type RouteProvider interface {
	Route(ctx context.Context, origin, destination types.Point) (maps.Route, error)
}

// FetchRoute obtains the waypoint path from origin to destination. On any
// failure, or when the provider returns fewer than two points, it degrades to
// the two-point straight line so a motion loop always has a finite path to
// walk. It never returns an error.
func FetchRoute(ctx context.Context, provider RouteProvider, origin, destination types.Point) []types.Point {
	if provider != nil {
		res, err := provider.Route(ctx, origin, destination)
		if err == nil && len(res.Waypoints) >= 2 {
			return res.Waypoints
		}
		if err != nil {
			log.Printf("geo: route fetch failed, falling back to straight line: %v", err)
		}
	}
	return []types.Point{origin, destination}
}

// Interpolate returns the position at fraction t along the segment a->b.
// t is clamped to [0,1] so callers can never overshoot a waypoint.
func Interpolate(a, b types.Point, t float64) types.Point {
	if t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}
	return types.Point{
		Lat: a.Lat + (b.Lat-a.Lat)*t,
		Lng: a.Lng + (b.Lng-a.Lng)*t,
	}
}
