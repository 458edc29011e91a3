// README: Built-in store catalog, used as seed data and offline fallback.
package storefront

import "kart/internal/types"

// DefaultCatalog is the compiled-in store list. Production replaces it with a
// remote catalog fetch at startup; everything downstream only sees Registry.
func DefaultCatalog() []Store {
	return []Store{
		{
			ID:       "st_indiranagar",
			Name:     "GreenLeaf Grocers Indiranagar",
			UPIID:    "greenleaf.indiranagar@upi",
			Location: types.Point{Lat: 12.9719, Lng: 77.6412},
		},
		{
			ID:       "st_koramangala",
			Name:     "GreenLeaf Grocers Koramangala",
			UPIID:    "greenleaf.koramangala@upi",
			Location: types.Point{Lat: 12.9352, Lng: 77.6245},
		},
		{
			ID:       "st_whitefield",
			Name:     "GreenLeaf Grocers Whitefield",
			UPIID:    "greenleaf.whitefield@upi",
			Location: types.Point{Lat: 12.9698, Lng: 77.7500},
		},
		{
			ID:       "st_jayanagar",
			Name:     "GreenLeaf Grocers Jayanagar",
			UPIID:    "greenleaf.jayanagar@upi",
			Location: types.Point{Lat: 12.9308, Lng: 77.5838},
		},
	}
}
