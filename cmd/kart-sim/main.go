// README: In-process demo. Runs a two-store checkout through the full order
// lifecycle with a synthetic route provider and prints what the customer would
// see. No Postgres, Redis, or API keys needed.
package main

import (
	"context"
	"fmt"
	"time"

	"kart/internal/config"
	"kart/internal/maps"
	"kart/internal/modules/checkout"
	"kart/internal/modules/order"
	"kart/internal/modules/storefront"
	"kart/internal/notify"
	"kart/internal/types"
)

// zigzagRoutes fabricates a short road-like path between two points.
type zigzagRoutes struct{}

func (zigzagRoutes) Route(_ context.Context, origin, destination types.Point) (maps.Route, error) {
	const hops = 6
	waypoints := make([]types.Point, 0, hops+1)
	for i := 0; i <= hops; i++ {
		t := float64(i) / hops
		jitter := 0.0008
		if i%2 == 0 {
			jitter = -jitter
		}
		if i == 0 || i == hops {
			jitter = 0
		}
		waypoints = append(waypoints, types.Point{
			Lat: origin.Lat + (destination.Lat-origin.Lat)*t + jitter,
			Lng: origin.Lng + (destination.Lng-origin.Lng)*t,
		})
	}
	return maps.Route{Waypoints: waypoints, Distance: 4200, Duration: 9 * time.Minute}, nil
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store := order.NewStore(nil, nil)
	svc := order.NewService(store)

	cfg := config.LifecycleConfig{
		AcceptDelay:  2 * time.Second,
		PrepareDelay: 3 * time.Second,
		ScanInterval: 200 * time.Millisecond,
		MotionTick:   300 * time.Millisecond,
		SegmentStep:  0.2,
	}
	scheduler := order.NewScheduler(svc, zigzagRoutes{}, notify.LogNotifier{}, cfg)
	go scheduler.Run(ctx)

	catalog := storefront.DefaultCatalog()
	user := types.Point{Lat: 12.9611, Lng: 77.6387}

	cart := checkout.NewCart()
	for _, item := range []checkout.CartItem{
		{
			StoreID: catalog[0].ID, StoreName: catalog[0].Name, StoreUPIID: catalog[0].UPIID,
			StoreLocation: catalog[0].Location,
			Name:          "Basmati rice 5kg", UnitPrice: types.Money{Amount: 5000, Currency: "INR"}, Quantity: 2,
		},
		{
			StoreID: catalog[1].ID, StoreName: catalog[1].Name, StoreUPIID: catalog[1].UPIID,
			StoreLocation: catalog[1].Location,
			Name:          "Cold-pressed oil 1L", UnitPrice: types.Money{Amount: 10000, Currency: "INR"}, Quantity: 1,
		},
	} {
		cart.Add(item)
	}

	flow := checkout.NewService(cart, svc)
	ids, err := flow.Finalize(ctx, checkout.FinalizeCommand{
		CustomerID:    "demo_customer",
		Mode:          order.ModeDelivery,
		DeliveryType:  order.DeliveryInstant,
		PaymentMethod: "upi",
		UserLocation:  user,
		Fees: checkout.FeeConfig{
			DeliveryFee: types.Money{Amount: 3500, Currency: "INR"},
			HandlingFee: types.Money{Amount: 1500, Currency: "INR"},
		},
	})
	if err != nil {
		fmt.Println("checkout failed:", err)
		return
	}
	fmt.Printf("placed %d orders: %v\n", len(ids), ids)

	seen := make(map[types.ID]order.Status)
	for {
		time.Sleep(250 * time.Millisecond)

		done := true
		for _, id := range ids {
			o, ok := svc.Get(id)
			if !ok {
				continue
			}
			if seen[id] != o.Status {
				seen[id] = o.Status
				fmt.Printf("[%s] %s -> %s\n", time.Now().Format("15:04:05"), o.StoreName, o.Status)
			}
			if pos, live := svc.DriverPosition(id); live {
				fmt.Printf("    courier at %.5f,%.5f (%.0fm, %s left)\n",
					pos.Position.Lat, pos.Position.Lng, pos.DistanceRemaining, pos.TimeRemaining)
			}
			if !o.Status.Terminal() {
				done = false
			}
		}
		if done {
			break
		}
	}
	fmt.Println("all orders completed")
}
