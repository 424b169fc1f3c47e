package domain

import "time"

// EventName is the name a realtime event is emitted under
type EventName string

const (
	// EventOrderCreated is the canonical order-created event
	EventOrderCreated EventName = "order:created"

	// Legacy names still understood by older restaurant panels
	EventLegacyNewOrder      EventName = "new-order"
	EventLegacyNewOrderCamel EventName = "newOrder"

	// EventRestaurantConnect is sent by a client to join its restaurant room
	EventRestaurantConnect EventName = "restaurant-connect"
	// EventJoined acknowledges a room join
	EventJoined EventName = "joined"
)

// OrderEvent is published to the room of the restaurant that received the order
type OrderEvent struct {
	Name         EventName `json:"event"`
	RestaurantID string    `json:"restaurant_id"`
	Order        *Order    `json:"order"`
	Message      string    `json:"message,omitempty"`
	Timestamp    time.Time `json:"timestamp"`
}

// NewOrderCreatedEvent creates the event announcing order
func NewOrderCreatedEvent(order *Order) *OrderEvent {
	return &OrderEvent{
		Name:         EventOrderCreated,
		RestaurantID: order.RestaurantID,
		Order:        order,
		Timestamp:    time.Now().UTC(),
	}
}

// WithMessage sets a human readable message on the event
func (e *OrderEvent) WithMessage(msg string) *OrderEvent {
	e.Message = msg
	return e
}

// Room returns the room the event is scoped to
func (e *OrderEvent) Room() string {
	return e.RestaurantID
}
