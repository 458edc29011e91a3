// README: Order service implements validated state transitions over the store.
package order

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"log"
	"time"

	"kart/internal/types"
)

var (
	ErrInvalidState = errors.New("invalid state transition")
	ErrNotFound     = errors.New("order not found")
	ErrBadRequest   = errors.New("bad request")
)

type Service struct {
	store *Store
}

func NewService(store *Store) *Service {
	return &Service{store: store}
}

// Store exposes the underlying store to collaborators that need raw reads
// (the lifecycle scheduler).
func (s *Service) Store() *Store {
	return s.store
}

type CreateCommand struct {
	CustomerID    types.ID
	StoreID       types.ID
	StoreName     string
	Mode          Mode
	DeliveryType  DeliveryType
	ScheduledAt   *time.Time
	Items         []LineItem
	Split         FeeSplit
	PaymentMethod string
	PayLater      bool
	StoreLocation types.Point
	UserLocation  types.Point
}

type CancelCommand struct {
	OrderID   types.ID
	ActorType string
	Reason    string
}

type ConfirmPickupCommand struct {
	OrderID types.ID
}

// Create builds the order record and appends it to the store. Totals and the
// fee split are stamped here once and never recomputed.
func (s *Service) Create(ctx context.Context, cmd CreateCommand) (types.ID, error) {
	if cmd.CustomerID == "" || cmd.StoreID == "" || len(cmd.Items) == 0 {
		return "", ErrBadRequest
	}
	if cmd.Mode != ModeDelivery && cmd.Mode != ModePickup {
		return "", ErrBadRequest
	}

	payment := PaymentPaid
	if cmd.PayLater {
		payment = PaymentPending
	}

	o := Order{
		ID:            newID(),
		CustomerID:    cmd.CustomerID,
		StoreID:       cmd.StoreID,
		StoreName:     cmd.StoreName,
		Mode:          cmd.Mode,
		Status:        StatusPending,
		PaymentStatus: payment,
		PaymentMethod: cmd.PaymentMethod,
		DeliveryType:  cmd.DeliveryType,
		ScheduledAt:   cmd.ScheduledAt,
		Items:         cmd.Items,
		Split:         cmd.Split,
		Total:         cmd.Split.Total(),
		StoreLocation: cmd.StoreLocation,
		UserLocation:  cmd.UserLocation,
		CreatedAt:     time.Now(),
	}
	s.store.Create(ctx, o)
	return o.ID, nil
}

// Advance moves an order to the given status after validating the transition
// graph. The scheduler and user actions both go through here; the raw store
// mutation is reserved for the remote feed funnel.
func (s *Service) Advance(ctx context.Context, orderID types.ID, to Status) error {
	o, ok := s.store.Get(orderID)
	if !ok {
		return ErrNotFound
	}
	if !CanTransition(o.Status, to) {
		return ErrInvalidState
	}
	s.store.SetStatus(ctx, orderID, to)
	return nil
}

// ConfirmPickup is the explicit user action at the counter: a ready PICKUP
// order becomes picked up and payment settles.
func (s *Service) ConfirmPickup(ctx context.Context, cmd ConfirmPickupCommand) error {
	o, ok := s.store.Get(cmd.OrderID)
	if !ok {
		return ErrNotFound
	}
	if o.Mode != ModePickup {
		return ErrBadRequest
	}
	if !CanTransition(o.Status, StatusPickedUp) {
		return ErrInvalidState
	}
	s.store.SetStatus(ctx, cmd.OrderID, StatusPickedUp)
	return nil
}

// Cancel is reachable from any non-terminal state. Who asked and why is kept
// on the order for history and support lookups.
func (s *Service) Cancel(ctx context.Context, cmd CancelCommand) error {
	o, ok := s.store.Get(cmd.OrderID)
	if !ok {
		return ErrNotFound
	}
	if !CanTransition(o.Status, StatusCancelled) {
		return ErrInvalidState
	}
	s.store.SetCancelled(ctx, cmd.OrderID, cmd.ActorType, cmd.Reason)
	return nil
}

// ApplyRemote funnels an out-of-band status push through the same mutation
// the local scheduler uses. Remote truth wins over the local simulation: the
// motion loop observes the status change and stops itself. Pushes that would
// move the order backwards are dropped.
func (s *Service) ApplyRemote(ctx context.Context, orderID types.ID, status Status) {
	o, ok := s.store.Get(orderID)
	if !ok {
		return
	}
	if o.Status == status {
		return
	}
	if !CanTransition(o.Status, status) {
		log.Printf("order: dropping remote push %s -> %s for %s", o.Status, status, orderID)
		return
	}
	s.store.SetStatus(ctx, orderID, status)
}

func (s *Service) Get(orderID types.ID) (Order, bool) {
	return s.store.Get(orderID)
}

func (s *Service) ListByCustomer(customerID types.ID) []Order {
	return s.store.ListByCustomer(customerID)
}

func (s *Service) DriverPosition(orderID types.ID) (DriverPosition, bool) {
	return s.store.DriverPosition(orderID)
}

func newID() types.ID {
	var b [16]byte
	_, _ = rand.Read(b[:])
	return types.ID(hex.EncodeToString(b[:]))
}
