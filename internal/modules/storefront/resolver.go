// README: Store-proximity resolver. Tracks the user's live location, keeps the
// nearest eligible store, and raises a switch suggestion when a nearer store
// appears while a session is active.
package storefront

import (
	"errors"
	"sync"
	"time"

	"kart/internal/types"
)

var ErrNoPendingSwitch = errors.New("no pending store switch")

// CartClearer is satisfied by checkout.Cart. Accepting a store switch empties
// the cart so its contents stay store-homogeneous.
type CartClearer interface {
	Clear()
}

type Resolver struct {
	registry *Registry
	cart     CartClearer

	mu      sync.Mutex
	active  Store
	pinned  bool
	pending *PendingSwitch
}

func NewResolver(registry *Registry, cart CartClearer) *Resolver {
	return &Resolver{registry: registry, cart: cart}
}

// UpdateLocation recomputes the nearest store for the new user position.
// Distance is planar on purpose (see geo_utils). If the nearest store differs
// from the active one and the user has not pinned a store, a switch
// suggestion is raised, replacing any previous one.
func (r *Resolver) UpdateLocation(p types.Point) {
	stores := r.registry.All()
	if len(stores) == 0 {
		return
	}

	nearest := stores[0]
	best := euclideanSq(nearest.Location, p)
	for _, st := range stores[1:] {
		if d := euclideanSq(st.Location, p); d < best {
			nearest, best = st, d
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.active.ID == "" {
		// First fix: adopt the nearest store silently, nothing to confirm.
		r.active = nearest
		return
	}
	if r.pinned || nearest.ID == r.active.ID {
		return
	}
	r.pending = &PendingSwitch{Candidate: nearest, RaisedAt: time.Now()}
}

// Resolve settles the pending suggestion. Accept clears the cart and pins the
// candidate as the active store; decline discards the suggestion only.
func (r *Resolver) Resolve(accept bool) error {
	r.mu.Lock()
	pending := r.pending
	r.pending = nil
	if pending == nil {
		r.mu.Unlock()
		return ErrNoPendingSwitch
	}
	if !accept {
		r.mu.Unlock()
		return nil
	}
	r.active = pending.Candidate
	r.pinned = true
	r.mu.Unlock()

	r.cart.Clear()
	return nil
}

// Pin sets the active store by explicit user choice and suppresses automatic
// switch suggestions from then on.
func (r *Resolver) Pin(id types.ID) error {
	st, ok := r.registry.Get(id)
	if !ok {
		return errors.New("unknown store")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.active = st
	r.pinned = true
	r.pending = nil
	return nil
}

func (r *Resolver) Active() Store {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.active
}

// Pending returns a copy of the live suggestion, if any.
func (r *Resolver) Pending() (PendingSwitch, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.pending == nil {
		return PendingSwitch{}, false
	}
	return *r.pending, true
}
