package storefront

import (
	"context"
	"errors"
	"testing"

	"kart/internal/types"
)

type fakeCart struct {
	cleared int
}

func (c *fakeCart) Clear() { c.cleared++ }

func seededRegistry() *Registry {
	r := NewRegistry(nil)
	r.Seed(context.Background(), []Store{
		{ID: "north", Name: "North", Location: types.Point{Lat: 13.00, Lng: 77.64}},
		{ID: "south", Name: "South", Location: types.Point{Lat: 12.90, Lng: 77.64}},
		{ID: "east", Name: "East", Location: types.Point{Lat: 12.95, Lng: 77.70}},
	})
	return r
}

func TestResolver_FirstFixAdoptsNearestSilently(t *testing.T) {
	cart := &fakeCart{}
	r := NewResolver(seededRegistry(), cart)

	r.UpdateLocation(types.Point{Lat: 12.99, Lng: 77.64})

	if got := r.Active(); got.ID != "north" {
		t.Errorf("active = %s, want north", got.ID)
	}
	if _, ok := r.Pending(); ok {
		t.Error("first fix must not raise a suggestion")
	}
	if cart.cleared != 0 {
		t.Error("first fix must not clear the cart")
	}
}

func TestResolver_RaisesSwitchWhenNearerStoreAppears(t *testing.T) {
	r := NewResolver(seededRegistry(), &fakeCart{})

	r.UpdateLocation(types.Point{Lat: 12.99, Lng: 77.64}) // adopts north
	r.UpdateLocation(types.Point{Lat: 12.91, Lng: 77.64}) // south is now nearest

	if got := r.Active(); got.ID != "north" {
		t.Errorf("active changed without confirmation: %s", got.ID)
	}
	pending, ok := r.Pending()
	if !ok || pending.Candidate.ID != "south" {
		t.Errorf("pending = %+v, %v, want south", pending, ok)
	}
}

func TestResolver_NewerDetectionReplacesSuggestion(t *testing.T) {
	r := NewResolver(seededRegistry(), &fakeCart{})

	r.UpdateLocation(types.Point{Lat: 12.99, Lng: 77.64}) // north
	r.UpdateLocation(types.Point{Lat: 12.91, Lng: 77.64}) // suggests south
	r.UpdateLocation(types.Point{Lat: 12.95, Lng: 77.69}) // suggests east instead

	pending, ok := r.Pending()
	if !ok || pending.Candidate.ID != "east" {
		t.Errorf("pending = %+v, want east", pending.Candidate.ID)
	}
}

func TestResolver_AcceptClearsCartAndPins(t *testing.T) {
	cart := &fakeCart{}
	r := NewResolver(seededRegistry(), cart)

	r.UpdateLocation(types.Point{Lat: 12.99, Lng: 77.64})
	r.UpdateLocation(types.Point{Lat: 12.91, Lng: 77.64})

	if err := r.Resolve(true); err != nil {
		t.Fatal(err)
	}
	if got := r.Active(); got.ID != "south" {
		t.Errorf("active = %s, want south", got.ID)
	}
	if cart.cleared != 1 {
		t.Errorf("cart cleared %d times, want 1", cart.cleared)
	}
	if _, ok := r.Pending(); ok {
		t.Error("suggestion must be gone after accept")
	}

	// pinned: moving near another store raises nothing
	r.UpdateLocation(types.Point{Lat: 12.99, Lng: 77.64})
	if _, ok := r.Pending(); ok {
		t.Error("pinned session must not raise suggestions")
	}
}

func TestResolver_DeclineKeepsEverything(t *testing.T) {
	cart := &fakeCart{}
	r := NewResolver(seededRegistry(), cart)

	r.UpdateLocation(types.Point{Lat: 12.99, Lng: 77.64})
	r.UpdateLocation(types.Point{Lat: 12.91, Lng: 77.64})

	if err := r.Resolve(false); err != nil {
		t.Fatal(err)
	}
	if got := r.Active(); got.ID != "north" {
		t.Errorf("active = %s, want north", got.ID)
	}
	if cart.cleared != 0 {
		t.Error("decline must not clear the cart")
	}
	if _, ok := r.Pending(); ok {
		t.Error("suggestion must be dropped after decline")
	}
}

func TestResolver_ResolveWithoutPending(t *testing.T) {
	r := NewResolver(seededRegistry(), &fakeCart{})
	if err := r.Resolve(true); !errors.Is(err, ErrNoPendingSwitch) {
		t.Errorf("err = %v, want ErrNoPendingSwitch", err)
	}
}

func TestResolver_PinSuppressesSuggestions(t *testing.T) {
	r := NewResolver(seededRegistry(), &fakeCart{})

	if err := r.Pin("east"); err != nil {
		t.Fatal(err)
	}
	if got := r.Active(); got.ID != "east" {
		t.Errorf("active = %s, want east", got.ID)
	}

	r.UpdateLocation(types.Point{Lat: 12.99, Lng: 77.64})
	if _, ok := r.Pending(); ok {
		t.Error("pinned store must suppress suggestions")
	}

	if err := r.Pin("missing"); err == nil {
		t.Error("unknown store id must error")
	}
}

func TestRegistry_NearbyFallsBackToCatalog(t *testing.T) {
	r := seededRegistry() // nil redis client, catalog scan path

	got := r.Nearby(context.Background(), types.Point{Lat: 12.91, Lng: 77.64}, 50)
	if len(got) != 3 {
		t.Fatalf("expected full catalog, got %d", len(got))
	}
	if got[0].ID != "south" {
		t.Errorf("nearest first: got %s, want south", got[0].ID)
	}
}

func TestRegistry_Get(t *testing.T) {
	r := seededRegistry()
	if _, ok := r.Get("north"); !ok {
		t.Error("seeded store not found")
	}
	if _, ok := r.Get("missing"); ok {
		t.Error("unknown id should miss")
	}
}
