// README: Cart model. The cart is the only pre-order shared mutable state;
// items are tagged with their originating store so finalization can partition.
package checkout

import (
	"sync"

	"kart/internal/types"
)

// CartItem is one line in the cart, tagged with its originating store.
type CartItem struct {
	StoreID       types.ID
	StoreName     string
	StoreUPIID    string
	StoreLocation types.Point
	Name          string
	UnitPrice     types.Money
	Quantity      int
}

func (ci CartItem) Subtotal() types.Money {
	return types.Money{Amount: ci.UnitPrice.Amount * int64(ci.Quantity), Currency: ci.UnitPrice.Currency}
}

// Cart holds the current session's items. Safe for concurrent use: the
// proximity resolver clears it while handlers add to it.
type Cart struct {
	mu    sync.Mutex
	items []CartItem
}

func NewCart() *Cart {
	return &Cart{}
}

func (c *Cart) Add(item CartItem) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = append(c.items, item)
}

// Items returns a copy in insertion order.
func (c *Cart) Items() []CartItem {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]CartItem, len(c.items))
	copy(out, c.items)
	return out
}

func (c *Cart) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = nil
}

func (c *Cart) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}
