package realtime

import (
	"context"
	"log"
	"sync"

	"github.com/you/marketsvc/domain"
)

// Subscriber is one live connection. Deliver must not block; it returns
// false when the event was dropped.
type Subscriber interface {
	Deliver(event domain.OrderEvent) bool
}

// Forwarder copies published events beyond this process (relay, log mirror)
type Forwarder interface {
	Forward(ctx context.Context, event *domain.OrderEvent) error
}

// Hub is the room-scoped notification bus. Each subscriber is in at most
// one room; delivery is at-most-once and never retried.
type Hub struct {
	mu          sync.RWMutex
	rooms       map[string]map[Subscriber]struct{}
	joined      map[Subscriber]string
	legacyNames bool
	forwarders  []Forwarder
}

// NewHub creates a hub. With legacyNames every order-created event is also
// emitted under the historical new-order and newOrder names.
func NewHub(legacyNames bool, forwarders ...Forwarder) *Hub {
	return &Hub{
		rooms:       make(map[string]map[Subscriber]struct{}),
		joined:      make(map[Subscriber]string),
		legacyNames: legacyNames,
		forwarders:  forwarders,
	}
}

var _ domain.OrderPublisher = (*Hub)(nil)

// Join moves sub into room, leaving any room it was in before
func (h *Hub) Join(room string, sub Subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.leaveLocked(sub)
	members, ok := h.rooms[room]
	if !ok {
		members = make(map[Subscriber]struct{})
		h.rooms[room] = members
	}
	members[sub] = struct{}{}
	h.joined[sub] = room
}

// Leave removes sub from its room; unknown subscribers are ignored
func (h *Hub) Leave(sub Subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.leaveLocked(sub)
}

func (h *Hub) leaveLocked(sub Subscriber) {
	room, ok := h.joined[sub]
	if !ok {
		return
	}
	delete(h.joined, sub)
	if members := h.rooms[room]; members != nil {
		delete(members, sub)
		if len(members) == 0 {
			delete(h.rooms, room)
		}
	}
}

// RoomOf returns the room sub is joined to
func (h *Hub) RoomOf(sub Subscriber) (string, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	room, ok := h.joined[sub]
	return room, ok
}

// Members counts subscribers currently in room
func (h *Hub) Members(room string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[room])
}

// PublishOrderCreated implements domain.OrderPublisher. Local delivery
// happens before it returns; forwarder failures are logged and dropped.
func (h *Hub) PublishOrderCreated(ctx context.Context, event *domain.OrderEvent) (int, error) {
	delivered := h.Deliver(*event)
	for _, f := range h.forwarders {
		if err := f.Forward(ctx, event); err != nil {
			log.Printf("[realtime] forward of order %s failed: %v", orderID(event), err)
		}
	}
	return delivered, nil
}

// Deliver pushes event to the local members of its room only and returns
// how many of them accepted it.
func (h *Hub) Deliver(event domain.OrderEvent) int {
	h.mu.RLock()
	members := make([]Subscriber, 0, len(h.rooms[event.Room()]))
	for sub := range h.rooms[event.Room()] {
		members = append(members, sub)
	}
	h.mu.RUnlock()

	names := []domain.EventName{event.Name}
	if h.legacyNames && event.Name == domain.EventOrderCreated {
		names = append(names, domain.EventLegacyNewOrder, domain.EventLegacyNewOrderCamel)
	}

	delivered := 0
	for _, sub := range members {
		accepted := false
		for _, name := range names {
			e := event
			e.Name = name
			if sub.Deliver(e) {
				accepted = true
			}
		}
		if accepted {
			delivered++
		}
	}
	return delivered
}

func orderID(e *domain.OrderEvent) string {
	if e.Order == nil {
		return ""
	}
	return e.Order.ID
}
