package client

import (
	"sort"
	"sync"

	"github.com/you/marketsvc/internal/wire"
)

// OrderBoard is the panel's order list. Pushes and reconciliation polls
// both merge into it by order id, so the same order never shows twice.
type OrderBoard struct {
	mu          sync.RWMutex
	orders      map[string]wire.Order
	highlighted string
}

// NewOrderBoard creates an empty board
func NewOrderBoard() *OrderBoard {
	return &OrderBoard{orders: make(map[string]wire.Order)}
}

// Apply merges order and reports whether it was not on the board before.
// An older copy never replaces a newer one.
func (b *OrderBoard) Apply(order wire.Order) bool {
	if order.ID == "" {
		return false
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.applyLocked(order)
}

func (b *OrderBoard) applyLocked(order wire.Order) bool {
	current, ok := b.orders[order.ID]
	if !ok {
		b.orders[order.ID] = order
		return true
	}
	if order.UpdatedAt.After(current.UpdatedAt) {
		b.orders[order.ID] = order
	}
	return false
}

// Reconcile merges a full order list fetched from the server and returns
// how many orders were new
func (b *OrderBoard) Reconcile(orders []wire.Order) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	added := 0
	for _, o := range orders {
		if o.ID != "" && b.applyLocked(o) {
			added++
		}
	}
	return added
}

// Get returns one order
func (b *OrderBoard) Get(id string) (wire.Order, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	o, ok := b.orders[id]
	return o, ok
}

// Orders returns the board newest first
func (b *OrderBoard) Orders() []wire.Order {
	b.mu.RLock()
	out := make([]wire.Order, 0, len(b.orders))
	for _, o := range b.orders {
		out = append(out, o)
	}
	b.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

// Len returns the number of orders on the board
func (b *OrderBoard) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.orders)
}

// Highlight marks the order the user navigated to
func (b *OrderBoard) Highlight(id string) {
	b.mu.Lock()
	b.highlighted = id
	b.mu.Unlock()
}

// Highlighted returns the highlighted order id
func (b *OrderBoard) Highlighted() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.highlighted
}

// Clear empties the board, e.g. after logout
func (b *OrderBoard) Clear() {
	b.mu.Lock()
	b.orders = make(map[string]wire.Order)
	b.highlighted = ""
	b.mu.Unlock()
}
