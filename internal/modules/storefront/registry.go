// README: Store registry backed by Redis GEO with a compiled-in fallback list.
package storefront

import (
	"context"
	"log"
	"sync"

	"github.com/redis/go-redis/v9"

	"kart/internal/types"
)

const storeGeoKey = "storefront:stores"

// Registry is the source of eligible stores. The in-memory catalog is
// authoritative for metadata; Redis GEO answers radius queries and degrades
// to a full catalog scan when unreachable.
type Registry struct {
	redis *redis.Client

	mu     sync.RWMutex
	stores []Store
	byID   map[types.ID]Store
}

func NewRegistry(redis *redis.Client) *Registry {
	return &Registry{redis: redis, byID: make(map[types.ID]Store)}
}

// Seed loads the store catalog and mirrors coordinates into Redis
// best-effort. Safe to call again with a refreshed list.
func (r *Registry) Seed(ctx context.Context, stores []Store) {
	r.mu.Lock()
	r.stores = append([]Store(nil), stores...)
	r.byID = make(map[types.ID]Store, len(stores))
	for _, st := range stores {
		r.byID[st.ID] = st
	}
	r.mu.Unlock()

	if r.redis == nil {
		return
	}
	for _, st := range stores {
		err := r.redis.GeoAdd(ctx, storeGeoKey, &redis.GeoLocation{
			Name:      string(st.ID),
			Longitude: st.Location.Lng,
			Latitude:  st.Location.Lat,
		}).Err()
		if err != nil {
			// One bad entry must not keep the rest out of the GEO set.
			log.Printf("storefront: geo seed for %s: %v", st.ID, err)
			continue
		}
	}
}

// All returns the full catalog.
func (r *Registry) All() []Store {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]Store(nil), r.stores...)
}

// Get returns the store with the given id.
func (r *Registry) Get(id types.ID) (Store, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	st, ok := r.byID[id]
	return st, ok
}

// Nearby returns stores within radiusKm of p, nearest first. On any Redis
// failure it falls back to the full catalog sorted by planar distance, so
// store selection keeps working offline.
func (r *Registry) Nearby(ctx context.Context, p types.Point, radiusKm float64) []Store {
	if r.redis != nil {
		results, err := r.redis.GeoSearch(ctx, storeGeoKey, &redis.GeoSearchQuery{
			Longitude:  p.Lng,
			Latitude:   p.Lat,
			Radius:     radiusKm,
			RadiusUnit: "km",
			Sort:       "ASC",
		}).Result()
		if err == nil && len(results) > 0 {
			r.mu.RLock()
			out := make([]Store, 0, len(results))
			for _, id := range results {
				if st, ok := r.byID[types.ID(id)]; ok {
					out = append(out, st)
				}
			}
			r.mu.RUnlock()
			if len(out) > 0 {
				return out
			}
		}
		if err != nil {
			log.Printf("storefront: geo search failed, using catalog: %v", err)
		}
	}

	out := r.All()
	sortByDistance(out, func(st Store) float64 { return euclideanSq(st.Location, p) })
	return out
}
