package domain

// OrderStatus is a state of the order lifecycle
type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderConfirmed OrderStatus = "confirmed"
	OrderReady     OrderStatus = "ready"
	OrderCompleted OrderStatus = "completed"
	OrderCancelled OrderStatus = "cancelled"
)

// orderTransitions is the complete table of legal edges.
var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderPending:   {OrderConfirmed, OrderCancelled},
	OrderConfirmed: {OrderReady},
	OrderReady:     {OrderCompleted},
}

// ParseOrderStatus returns the status named by s
func ParseOrderStatus(s string) (OrderStatus, error) {
	switch st := OrderStatus(s); st {
	case OrderPending, OrderConfirmed, OrderReady, OrderCompleted, OrderCancelled:
		return st, nil
	}
	return "", ErrUnknownOrderStatus
}

// CanTransition reports whether an order may move from one status to another
func CanTransition(from, to OrderStatus) bool {
	for _, next := range orderTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no transition leaves the status
func (s OrderStatus) IsTerminal() bool {
	return len(orderTransitions[s]) == 0
}
