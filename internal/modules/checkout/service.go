// README: Payment finalization flow. Partitions the cart by originating store,
// builds one order per partition with its own fee split, and clears the cart
// only after every partition has been submitted.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"time"

	"kart/internal/modules/order"
	"kart/internal/types"
)

var (
	ErrEmptyCart     = errors.New("cart is empty")
	ErrInvalidFees   = errors.New("invalid fee split")
	ErrMixedCurrency = errors.New("mixed currencies in checkout")
)

// OrderCreator is satisfied by order.Service.
type OrderCreator interface {
	Create(ctx context.Context, cmd order.CreateCommand) (types.ID, error)
}

// FeeConfig is the fee portion of a checkout, validated at this boundary
// rather than passed around as an untyped bag.
type FeeConfig struct {
	DeliveryFee types.Money
	HandlingFee types.Money
}

type Service struct {
	cart   *Cart
	orders OrderCreator
}

func NewService(cart *Cart, orders OrderCreator) *Service {
	return &Service{cart: cart, orders: orders}
}

func (s *Service) Cart() *Cart {
	return s.cart
}

type FinalizeCommand struct {
	CustomerID    types.ID
	Mode          order.Mode
	DeliveryType  order.DeliveryType
	ScheduledAt   *time.Time
	PaymentMethod string
	PayLater      bool
	UserLocation  types.Point
	Fees          FeeConfig

	// ExistingOrderID marks a payment retry for an order that already
	// exists. No new orders are created; payment completion arrives via the
	// external confirmation callback.
	ExistingOrderID types.ID
}

// partition groups contiguous-by-store cart lines, in first-seen cart order,
// so the resulting order sequence is deterministic per run.
type partition struct {
	storeID       types.ID
	storeName     string
	storeUPIID    string
	storeLocation types.Point
	items         []order.LineItem
	storeAmount   types.Money
}

// Finalize converts the cart into one order per originating store.
func (s *Service) Finalize(ctx context.Context, cmd FinalizeCommand) ([]types.ID, error) {
	if cmd.ExistingOrderID != "" {
		return []types.ID{cmd.ExistingOrderID}, nil
	}

	items := s.cart.Items()
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}
	if err := validate(items, cmd.Fees); err != nil {
		return nil, err
	}

	currency := items[0].UnitPrice.Currency
	deliveryFee := cmd.Fees.DeliveryFee
	deliveryFee.Currency = currency
	if cmd.Mode == order.ModePickup {
		// Nobody drives anywhere for a pickup order.
		deliveryFee.Amount = 0
	}
	handlingFee := cmd.Fees.HandlingFee
	handlingFee.Currency = currency

	parts := partitionByStore(items)
	ids := make([]types.ID, 0, len(parts))
	for _, p := range parts {
		id, err := s.orders.Create(ctx, order.CreateCommand{
			CustomerID:   cmd.CustomerID,
			StoreID:      p.storeID,
			StoreName:    p.storeName,
			Mode:         cmd.Mode,
			DeliveryType: cmd.DeliveryType,
			ScheduledAt:  cmd.ScheduledAt,
			Items:        p.items,
			Split: order.FeeSplit{
				StoreAmount: p.storeAmount,
				DeliveryFee: deliveryFee,
				HandlingFee: handlingFee,
				StoreUPIID:  p.storeUPIID,
			},
			PaymentMethod: cmd.PaymentMethod,
			PayLater:      cmd.PayLater,
			StoreLocation: p.storeLocation,
			UserLocation:  cmd.UserLocation,
		})
		if err != nil {
			return nil, fmt.Errorf("create order for store %s: %w", p.storeID, err)
		}
		ids = append(ids, id)
	}

	s.cart.Clear()
	return ids, nil
}

func partitionByStore(items []CartItem) []partition {
	index := make(map[types.ID]int)
	var parts []partition
	for _, item := range items {
		i, seen := index[item.StoreID]
		if !seen {
			i = len(parts)
			index[item.StoreID] = i
			parts = append(parts, partition{
				storeID:       item.StoreID,
				storeName:     item.StoreName,
				storeUPIID:    item.StoreUPIID,
				storeLocation: item.StoreLocation,
				storeAmount:   types.Money{Currency: item.UnitPrice.Currency},
			})
		}
		parts[i].items = append(parts[i].items, order.LineItem{
			Name:      item.Name,
			UnitPrice: item.UnitPrice,
			Quantity:  item.Quantity,
		})
		parts[i].storeAmount = parts[i].storeAmount.Add(item.Subtotal())
	}
	return parts
}

func validate(items []CartItem, fees FeeConfig) error {
	if fees.DeliveryFee.Amount < 0 || fees.HandlingFee.Amount < 0 {
		return ErrInvalidFees
	}
	currency := items[0].UnitPrice.Currency
	for _, item := range items {
		if item.UnitPrice.Amount < 0 || item.Quantity <= 0 {
			return ErrInvalidFees
		}
		if item.UnitPrice.Currency != currency {
			return ErrMixedCurrency
		}
	}
	for _, fee := range []types.Money{fees.DeliveryFee, fees.HandlingFee} {
		if fee.Currency != "" && fee.Currency != currency {
			return ErrMixedCurrency
		}
	}
	return nil
}
