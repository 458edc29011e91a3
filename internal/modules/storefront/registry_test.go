package storefront

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"kart/internal/types"
)

// countingHook counts issued commands; used to observe per-store GeoAdd
// attempts without a live server.
type countingHook struct {
	commands *int32
}

func (h countingHook) DialHook(next redis.DialHook) redis.DialHook {
	return next
}

func (h countingHook) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		atomic.AddInt32(h.commands, 1)
		return next(ctx, cmd)
	}
}

func (h countingHook) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return next
}

func TestRegistry_SeedAttemptsEveryStoreDespiteFailures(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1", // nothing listens here
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()

	var commands int32
	client.AddHook(countingHook{commands: &commands})

	r := NewRegistry(client)
	stores := []Store{
		{ID: "a", Name: "A", Location: types.Point{Lat: 12.97, Lng: 77.64}},
		{ID: "b", Name: "B", Location: types.Point{Lat: 12.93, Lng: 77.62}},
		{ID: "c", Name: "C", Location: types.Point{Lat: 12.96, Lng: 77.75}},
	}
	r.Seed(context.Background(), stores)

	// one failing entry must not cut the mirror loop short
	if got := atomic.LoadInt32(&commands); got != int32(len(stores)) {
		t.Errorf("GeoAdd attempted %d times, want %d", got, len(stores))
	}
	if len(r.All()) != len(stores) {
		t.Errorf("catalog holds %d stores, want %d", len(r.All()), len(stores))
	}
}
