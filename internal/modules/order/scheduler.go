// README: Lifecycle scheduler: the timed state machine and simulated courier.
//
// A single ticking driver sweeps the live order list. Pending stage
// transitions are data (deadline + target status keyed by order id), not
// timer closures, so a sweep pass can always reconstruct or discard them.
// Orders entering on_the_way get exactly one motion loop goroutine that walks
// the road path and publishes interpolated courier positions until the last
// waypoint, then completes the order.
package order

import (
	"context"
	"log"
	"sync"
	"time"

	"kart/internal/config"
	"kart/internal/geo"
	"kart/internal/types"
)

// Notifier posts transient user-visible notifications (FCM in production).
type Notifier interface {
	Notify(ctx context.Context, customerID types.ID, title, body string)
}

// stageTransition is a scheduled future transition, stored as data.
type stageTransition struct {
	from   Status
	target Status
	at     time.Time
}

type Scheduler struct {
	svc    *Service
	routes geo.RouteProvider
	notify Notifier
	cfg    config.LifecycleConfig

	mu        sync.Mutex
	deadlines map[types.ID]stageTransition
	loops     map[types.ID]struct{}
}

func NewScheduler(svc *Service, routes geo.RouteProvider, notify Notifier, cfg config.LifecycleConfig) *Scheduler {
	return &Scheduler{
		svc:       svc,
		routes:    routes,
		notify:    notify,
		cfg:       cfg,
		deadlines: make(map[types.ID]stageTransition),
		loops:     make(map[types.ID]struct{}),
	}
}

// Run sweeps the order list until the context is cancelled.
func (s *Scheduler) Run(ctx context.Context) {
	ticker := time.NewTicker(s.cfg.ScanInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Sweep(ctx, time.Now())
		}
	}
}

// Sweep evaluates every live order once against the transition rules.
// Exposed so tests can drive the scheduler deterministically.
func (s *Scheduler) Sweep(ctx context.Context, now time.Time) {
	for _, o := range s.svc.Store().List() {
		switch o.Status {
		case StatusPending:
			// Unpaid orders never auto-advance; the kitchen only
			// acknowledges once payment is settled.
			if o.PaymentStatus != PaymentPaid {
				s.dropDeadline(o.ID)
				continue
			}
			s.tickStage(ctx, o, StatusPreparing, s.cfg.AcceptDelay, now)

		case StatusPreparing:
			// Pickup orders skip the courier phase entirely: there is
			// nobody on the way to the customer.
			target := StatusOnTheWay
			if o.Mode == ModePickup {
				target = StatusReady
			}
			if s.tickStage(ctx, o, target, s.cfg.PrepareDelay, now) && target == StatusReady {
				s.notifyReady(ctx, o)
			}

		case StatusOnTheWay:
			s.dropDeadline(o.ID)
			// No courier simulation without both endpoints; the order
			// stays visually on the way until something external moves it.
			if o.StoreLocation.IsZero() || o.UserLocation.IsZero() {
				continue
			}
			s.startMotion(ctx, o)

		default:
			s.dropDeadline(o.ID)
		}
	}
}

// tickStage records or fires the pending stage transition for an order.
// Returns true when the transition fired this pass.
func (s *Scheduler) tickStage(ctx context.Context, o Order, target Status, delay time.Duration, now time.Time) bool {
	s.mu.Lock()
	tr, ok := s.deadlines[o.ID]
	if !ok || tr.from != o.Status || tr.target != target {
		// First sighting in this stage (or the stage changed under us,
		// e.g. a remote push): start the clock fresh.
		s.deadlines[o.ID] = stageTransition{from: o.Status, target: target, at: now.Add(delay)}
		s.mu.Unlock()
		return false
	}
	if now.Before(tr.at) {
		s.mu.Unlock()
		return false
	}
	delete(s.deadlines, o.ID)
	s.mu.Unlock()

	if err := s.svc.Advance(ctx, o.ID, target); err != nil {
		// The order moved concurrently (cancel or remote push). Nothing
		// to do; the next sweep re-evaluates from the new state.
		return false
	}
	return true
}

func (s *Scheduler) dropDeadline(orderID types.ID) {
	s.mu.Lock()
	delete(s.deadlines, orderID)
	s.mu.Unlock()
}

// startMotion launches the courier simulation for an order, exactly once per
// order id. Repeated sweeps while a loop is live are no-ops.
func (s *Scheduler) startMotion(ctx context.Context, o Order) {
	s.mu.Lock()
	if _, running := s.loops[o.ID]; running {
		s.mu.Unlock()
		return
	}
	s.loops[o.ID] = struct{}{}
	s.mu.Unlock()

	go s.runMotion(ctx, o)
}

// MotionLoopCount reports how many courier simulations are live.
func (s *Scheduler) MotionLoopCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.loops)
}

// runMotion walks the road path from store to customer on a fixed tick,
// publishing an interpolated position each step. It finishes by clearing the
// position and completing the order, or bails out early when the order leaves
// on_the_way (remote truth wins over the simulation).
func (s *Scheduler) runMotion(ctx context.Context, o Order) {
	defer func() {
		s.mu.Lock()
		delete(s.loops, o.ID)
		s.mu.Unlock()
	}()

	path := geo.FetchRoute(ctx, s.routes, o.StoreLocation, o.UserLocation)

	store := s.svc.Store()
	ticker := time.NewTicker(s.cfg.MotionTick)
	defer ticker.Stop()

	segIndex := 0
	progress := 0.0

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		cur, ok := store.Get(o.ID)
		if !ok || cur.Status != StatusOnTheWay {
			store.ClearDriverPosition(ctx, o.ID)
			return
		}

		progress += s.cfg.SegmentStep
		if progress >= 1 {
			progress = 0
			segIndex++
		}

		if segIndex >= len(path)-1 {
			store.ClearDriverPosition(ctx, o.ID)
			s.finishMotion(ctx, cur)
			return
		}

		pos := geo.Interpolate(path[segIndex], path[segIndex+1], progress)
		store.SetDriverPosition(ctx, o.ID, DriverPosition{
			Position:          pos,
			DistanceRemaining: remainingMeters(pos, path, segIndex),
			TimeRemaining:     s.remainingTime(path, segIndex, progress),
		})
	}
}

func (s *Scheduler) finishMotion(ctx context.Context, o Order) {
	target := StatusDelivered
	if o.Mode == ModePickup {
		target = StatusReady
	}
	if err := s.svc.Advance(ctx, o.ID, target); err != nil {
		log.Printf("order: motion finish for %s: %v", o.ID, err)
		return
	}
	if target == StatusReady {
		s.notifyReady(ctx, o)
		return
	}
	if s.notify != nil {
		s.notify.Notify(ctx, o.CustomerID, "Order delivered",
			"Your order from "+o.StoreName+" has arrived.")
	}
}

func (s *Scheduler) notifyReady(ctx context.Context, o Order) {
	if s.notify == nil {
		return
	}
	s.notify.Notify(ctx, o.CustomerID, "Order ready",
		"Your order from "+o.StoreName+" is ready for pickup.")
}

// remainingMeters sums the path length still ahead of the courier. Advisory
// only; the UI shows it next to the map.
func remainingMeters(pos types.Point, path []types.Point, segIndex int) float64 {
	total := geo.HaversineKm(pos.Lat, pos.Lng, path[segIndex+1].Lat, path[segIndex+1].Lng)
	for i := segIndex + 1; i < len(path)-1; i++ {
		total += geo.HaversineKm(path[i].Lat, path[i].Lng, path[i+1].Lat, path[i+1].Lng)
	}
	return total * 1000
}

// remainingTime estimates ticks left at the configured step rate.
func (s *Scheduler) remainingTime(path []types.Point, segIndex int, progress float64) time.Duration {
	ticksPerSegment := int(1/s.cfg.SegmentStep + 0.5)
	segmentsAhead := len(path) - 2 - segIndex
	ticksLeft := segmentsAhead*ticksPerSegment + int((1-progress)/s.cfg.SegmentStep+0.5)
	if ticksLeft < 0 {
		ticksLeft = 0
	}
	return time.Duration(ticksLeft) * s.cfg.MotionTick
}
