// README: Per-customer session state: cart, checkout flow, proximity resolver.
// The reference client keeps this state on-device; server-side it lives for
// the lifetime of the process, keyed by customer id.
package handlers

import (
	"sync"

	"kart/internal/modules/checkout"
	"kart/internal/modules/storefront"
	"kart/internal/types"
)

type Session struct {
	Cart     *checkout.Cart
	Checkout *checkout.Service
	Resolver *storefront.Resolver
}

type Sessions struct {
	registry *storefront.Registry
	orders   checkout.OrderCreator

	mu         sync.Mutex
	byCustomer map[types.ID]*Session
}

func NewSessions(registry *storefront.Registry, orders checkout.OrderCreator) *Sessions {
	return &Sessions{
		registry:   registry,
		orders:     orders,
		byCustomer: make(map[types.ID]*Session),
	}
}

// Get returns the customer's session, creating it on first use.
func (s *Sessions) Get(customerID types.ID) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok := s.byCustomer[customerID]; ok {
		return sess
	}
	cart := checkout.NewCart()
	sess := &Session{
		Cart:     cart,
		Checkout: checkout.NewService(cart, s.orders),
		Resolver: storefront.NewResolver(s.registry, cart),
	}
	s.byCustomer[customerID] = sess
	return sess
}
