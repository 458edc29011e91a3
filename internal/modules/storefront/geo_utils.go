// README: Cheap geometric helpers for store selection. Distances here are
// squared-Euclidean on raw lat/lng, not geodesic: store grids are city-scale
// and the resolver only needs ordering.
package storefront

import "kart/internal/types"

// euclideanSq returns the squared planar distance between two coordinates.
func euclideanSq(a, b types.Point) float64 {
	dLat := a.Lat - b.Lat
	dLng := a.Lng - b.Lng
	return dLat*dLat + dLng*dLng
}

// sortByDistance performs an insertion sort (fine for small N) on any slice
// where each element exposes a distance via the accessor function.
func sortByDistance[T any](items []T, dist func(T) float64) {
	for i := 1; i < len(items); i++ {
		key := items[i]
		j := i - 1
		for j >= 0 && dist(items[j]) > dist(key) {
			items[j+1] = items[j]
			j--
		}
		items[j+1] = key
	}
}
