// README: Authoritative in-memory order store with ephemeral courier positions.
// Mutations are replace-in-place keyed by order id so racing writers (scheduler,
// realtime feed, user actions) commute; last write wins on the status field and
// unrelated fields are never dropped.
package order

import (
	"context"
	"log"
	"sync"
	"time"

	"kart/internal/types"
)

// Archiver persists orders remotely, best-effort. SaveOrder may hand back a
// server-assigned id that replaces the client-local one; UpdateStatus mirrors
// later mutations so history reads stay truthful.
type Archiver interface {
	SaveOrder(ctx context.Context, o Order) (types.ID, error)
	UpdateStatus(ctx context.Context, o Order) error
}

// Publisher fans mutations out to subscribers (the realtime feed). All calls
// are best-effort; implementations log and swallow failures.
type Publisher interface {
	PublishStatus(ctx context.Context, o Order)
	PublishPosition(ctx context.Context, orderID types.ID, p DriverPosition)
	PublishPositionCleared(ctx context.Context, orderID types.ID)
}

type Store struct {
	mu        sync.RWMutex
	orders    []Order
	positions map[types.ID]DriverPosition

	archiver  Archiver
	publisher Publisher
}

func NewStore(archiver Archiver, publisher Publisher) *Store {
	return &Store{
		positions: make(map[types.ID]DriverPosition),
		archiver:  archiver,
		publisher: publisher,
	}
}

// Create appends the order locally and kicks off best-effort remote
// persistence. The local append always happens first; the UI is never blocked
// on network success. If the archiver assigns a server id while the order is
// still pending, the local id is replaced.
func (s *Store) Create(ctx context.Context, o Order) {
	s.mu.Lock()
	s.orders = append(s.orders, o)
	s.mu.Unlock()

	if s.archiver == nil {
		return
	}
	go func() {
		serverID, err := s.archiver.SaveOrder(context.WithoutCancel(ctx), o)
		if err != nil {
			log.Printf("order: remote save failed, keeping local copy of %s: %v", o.ID, err)
			return
		}
		if serverID != "" && serverID != o.ID {
			s.replaceID(o.ID, serverID)
		}
	}()
}

// replaceID swaps a client-local id for the server-assigned one. Skipped once
// the order has left pending: the scheduler's bookkeeping is keyed by id and
// must not be pulled out from under an active simulation.
func (s *Store) replaceID(oldID, newID types.ID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.orders {
		if s.orders[i].ID == oldID && s.orders[i].Status == StatusPending {
			s.orders[i].ID = newID
			return
		}
	}
}

// SetStatus replaces the matching order's status. A completion status also
// forces the payment to PAID (cash/UPI settled on handover). Unknown ids are a
// no-op. No transition validation happens here; that is the service's job.
func (s *Store) SetStatus(ctx context.Context, orderID types.ID, status Status) {
	s.mu.Lock()
	var updated *Order
	for i := range s.orders {
		if s.orders[i].ID == orderID {
			s.orders[i].Status = status
			if status.Completion() {
				s.orders[i].PaymentStatus = PaymentPaid
				now := time.Now()
				s.orders[i].CompletedAt = &now
			}
			o := s.orders[i]
			updated = &o
			break
		}
	}
	s.mu.Unlock()

	if updated == nil {
		return
	}
	if s.publisher != nil {
		s.publisher.PublishStatus(ctx, *updated)
	}
	if s.archiver != nil {
		o := *updated
		go func() {
			if err := s.archiver.UpdateStatus(context.WithoutCancel(ctx), o); err != nil {
				log.Printf("order: remote status mirror for %s: %v", o.ID, err)
			}
		}()
	}
}

// SetCancelled records who asked for the cancellation and why, then applies
// the status change through SetStatus so the feed and archive mirror see it.
func (s *Store) SetCancelled(ctx context.Context, orderID types.ID, actor, reason string) {
	s.mu.Lock()
	for i := range s.orders {
		if s.orders[i].ID == orderID {
			s.orders[i].CancelledBy = actor
			s.orders[i].CancelReason = reason
			break
		}
	}
	s.mu.Unlock()

	s.SetStatus(ctx, orderID, StatusCancelled)
}

// SetPaymentStatus replaces the matching order's payment status (external
// payment confirmation callback path). Unknown ids are a no-op.
func (s *Store) SetPaymentStatus(_ context.Context, orderID types.ID, ps PaymentStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.orders {
		if s.orders[i].ID == orderID {
			s.orders[i].PaymentStatus = ps
			return
		}
	}
}

// SetDriverPosition updates the ephemeral courier position for an order.
func (s *Store) SetDriverPosition(ctx context.Context, orderID types.ID, p DriverPosition) {
	s.mu.Lock()
	s.positions[orderID] = p
	s.mu.Unlock()

	if s.publisher != nil {
		s.publisher.PublishPosition(ctx, orderID, p)
	}
}

// ClearDriverPosition removes the courier position entry for an order.
func (s *Store) ClearDriverPosition(ctx context.Context, orderID types.ID) {
	s.mu.Lock()
	delete(s.positions, orderID)
	s.mu.Unlock()

	if s.publisher != nil {
		s.publisher.PublishPositionCleared(ctx, orderID)
	}
}

// Get returns a copy of the order with the given id.
func (s *Store) Get(orderID types.ID) (Order, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.orders {
		if s.orders[i].ID == orderID {
			return s.orders[i], true
		}
	}
	return Order{}, false
}

// List returns a copy of the full order list, newest last.
func (s *Store) List() []Order {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Order, len(s.orders))
	copy(out, s.orders)
	return out
}

// ListByCustomer returns copies of a customer's orders, newest last.
func (s *Store) ListByCustomer(customerID types.ID) []Order {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Order
	for i := range s.orders {
		if s.orders[i].CustomerID == customerID {
			out = append(out, s.orders[i])
		}
	}
	return out
}

// DriverPosition returns the courier position for an order, if one is live.
func (s *Store) DriverPosition(orderID types.ID) (DriverPosition, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.positions[orderID]
	return p, ok
}

// DriverPositions returns a copy of the whole courier-position map.
func (s *Store) DriverPositions() map[types.ID]DriverPosition {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[types.ID]DriverPosition, len(s.positions))
	for k, v := range s.positions {
		out[k] = v
	}
	return out
}
