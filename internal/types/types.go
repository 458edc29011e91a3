// README: Shared value types used across modules.
package types

// ID is an opaque identifier (orders, customers, stores).
type ID string

// Point is a WGS84 coordinate pair.
type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// IsZero reports whether the point carries no coordinate. A real location of
// exactly (0,0) is open ocean and never a store or customer address.
func (p Point) IsZero() bool {
	return p.Lat == 0 && p.Lng == 0
}
