// README: Order aggregate, status definitions, and the lifecycle transition graph.
package order

import (
	"time"

	"kart/internal/types"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusPreparing Status = "preparing"
	StatusOnTheWay  Status = "on_the_way"
	StatusReady     Status = "ready"
	StatusDelivered Status = "delivered"
	StatusPickedUp  Status = "picked_up"
	StatusCancelled Status = "cancelled"
)

type Mode string

const (
	ModeDelivery Mode = "DELIVERY"
	ModePickup   Mode = "PICKUP"
)

type PaymentStatus string

const (
	PaymentPaid    PaymentStatus = "PAID"
	PaymentPending PaymentStatus = "PENDING"
)

type DeliveryType string

const (
	DeliveryInstant   DeliveryType = "INSTANT"
	DeliveryScheduled DeliveryType = "SCHEDULED"
)

// LineItem is one cart entry carried into an order. All items of an order
// share the same originating store.
type LineItem struct {
	Name      string
	UnitPrice types.Money
	Quantity  int
}

func (li LineItem) Subtotal() types.Money {
	return types.Money{Amount: li.UnitPrice.Amount * int64(li.Quantity), Currency: li.UnitPrice.Currency}
}

// FeeSplit is the breakdown of an order total: store revenue, courier fee, and
// platform handling fee, plus the UPI handle the store amount settles to.
type FeeSplit struct {
	StoreAmount types.Money
	DeliveryFee types.Money
	HandlingFee types.Money
	StoreUPIID  string
}

func (f FeeSplit) Total() types.Money {
	return f.StoreAmount.Add(f.DeliveryFee).Add(f.HandlingFee)
}

type Order struct {
	ID            types.ID
	CustomerID    types.ID
	StoreID       types.ID
	StoreName     string
	Mode          Mode
	Status        Status
	PaymentStatus PaymentStatus
	PaymentMethod string
	DeliveryType  DeliveryType
	ScheduledAt   *time.Time
	Items         []LineItem
	Split         FeeSplit
	Total         types.Money
	StoreLocation types.Point
	UserLocation  types.Point
	CreatedAt     time.Time
	CompletedAt   *time.Time
	CancelledBy   string
	CancelReason  string
}

// Terminal reports whether no further automatic transition applies.
func (s Status) Terminal() bool {
	return s == StatusDelivered || s == StatusPickedUp || s == StatusCancelled
}

// Completion statuses force payment to PAID (cash/UPI settled on handover).
func (s Status) Completion() bool {
	return s == StatusDelivered || s == StatusPickedUp
}

// DriverPosition is the ephemeral simulated courier state for one order.
// It exists only while the order is on the way and is never persisted.
type DriverPosition struct {
	Position          types.Point
	DistanceRemaining float64 // meters, advisory
	TimeRemaining     time.Duration
}

// AllowedTransitions represents the order state flow (diagram) as code.
// Delivery orders take the courier branch (preparing -> on_the_way ->
// delivered); pickup orders skip it (preparing -> ready -> picked_up).
// Cancellation is reachable from every non-terminal state.
var AllowedTransitions = map[Status][]Status{
	StatusPending:   {StatusPreparing, StatusCancelled},
	StatusPreparing: {StatusOnTheWay, StatusReady, StatusCancelled},
	StatusOnTheWay:  {StatusDelivered, StatusReady, StatusCancelled},
	StatusReady:     {StatusPickedUp, StatusCancelled},
}

func CanTransition(from, to Status) bool {
	next, ok := AllowedTransitions[from]
	if !ok {
		return false
	}
	for _, s := range next {
		if s == to {
			return true
		}
	}
	return false
}
