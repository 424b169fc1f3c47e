package domain

import "testing"

func TestCanTransition(t *testing.T) {
	all := []OrderStatus{OrderPending, OrderConfirmed, OrderReady, OrderCompleted, OrderCancelled}
	legal := map[[2]OrderStatus]bool{
		{OrderPending, OrderConfirmed}:  true,
		{OrderConfirmed, OrderReady}:    true,
		{OrderReady, OrderCompleted}:    true,
		{OrderPending, OrderCancelled}:  true,
	}

	for _, from := range all {
		for _, to := range all {
			want := legal[[2]OrderStatus{from, to}]
			if got := CanTransition(from, to); got != want {
				t.Errorf("CanTransition(%s, %s) = %v, want %v", from, to, got, want)
			}
		}
	}
}

func TestOrderStatus_IsTerminal(t *testing.T) {
	tests := []struct {
		status   OrderStatus
		terminal bool
	}{
		{OrderPending, false},
		{OrderConfirmed, false},
		{OrderReady, false},
		{OrderCompleted, true},
		{OrderCancelled, true},
	}
	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			if got := tt.status.IsTerminal(); got != tt.terminal {
				t.Errorf("expected terminal=%v, got %v", tt.terminal, got)
			}
		})
	}
}

func TestParseOrderStatus(t *testing.T) {
	if s, err := ParseOrderStatus("ready"); err != nil || s != OrderReady {
		t.Errorf("expected ready, got %q (%v)", s, err)
	}
	if _, err := ParseOrderStatus("delivering"); err != ErrUnknownOrderStatus {
		t.Errorf("expected ErrUnknownOrderStatus, got %v", err)
	}
}
