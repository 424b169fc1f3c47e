package domain

import (
	"testing"
	"time"
)

func TestPackage_Validate(t *testing.T) {
	tests := []struct {
		name        string
		pkg         *Package
		expectedErr error
	}{
		{
			name: "valid package",
			pkg: &Package{
				RestaurantID:      "rest-1",
				Name:              "Evening bag",
				OriginalPrice:     120,
				DiscountedPrice:   45,
				Quantity:          5,
				RemainingQuantity: 5,
			},
		},
		{
			name: "remaining above quantity",
			pkg: &Package{
				RestaurantID:      "rest-1",
				Name:              "Evening bag",
				Quantity:          2,
				RemainingQuantity: 3,
			},
			expectedErr: ErrQuantityOutOfRange,
		},
		{
			name: "negative remaining",
			pkg: &Package{
				RestaurantID:      "rest-1",
				Name:              "Evening bag",
				Quantity:          2,
				RemainingQuantity: -1,
			},
			expectedErr: ErrQuantityOutOfRange,
		},
		{
			name:        "missing restaurant",
			pkg:         &Package{Name: "Evening bag", Quantity: 1, RemainingQuantity: 1},
			expectedErr: ErrPackageInvalid,
		},
		{
			name: "window ends before it starts",
			pkg: &Package{
				RestaurantID:      "rest-1",
				Name:              "Evening bag",
				Quantity:          1,
				RemainingQuantity: 1,
				AvailableFrom:     time.Date(2026, 1, 2, 18, 0, 0, 0, time.UTC),
				AvailableUntil:    time.Date(2026, 1, 2, 17, 0, 0, 0, time.UTC),
			},
			expectedErr: ErrPackageInvalid,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.pkg.Validate()
			if err != tt.expectedErr {
				t.Errorf("expected error %v, got %v", tt.expectedErr, err)
			}
		})
	}
}

func TestPackage_Available(t *testing.T) {
	now := time.Date(2026, 3, 1, 18, 0, 0, 0, time.UTC)
	base := Package{
		Status:            PackageActive,
		Quantity:          4,
		RemainingQuantity: 2,
		AvailableUntil:    now.Add(time.Hour),
	}

	tests := []struct {
		name     string
		mutate   func(p *Package)
		qty      int
		expected bool
	}{
		{name: "within stock", qty: 2, expected: true},
		{name: "more than remaining", qty: 3, expected: false},
		{name: "zero quantity", qty: 0, expected: false},
		{name: "inactive package", qty: 1, mutate: func(p *Package) { p.Status = PackageInactive }, expected: false},
		{name: "window closed", qty: 1, mutate: func(p *Package) { p.AvailableUntil = now.Add(-time.Minute) }, expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := base
			if tt.mutate != nil {
				tt.mutate(&p)
			}
			if got := p.Available(tt.qty, now); got != tt.expected {
				t.Errorf("expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestSession_Expired(t *testing.T) {
	expiresAt := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	session := &Session{ID: "s1", ExpiresAt: expiresAt}

	if session.Expired(expiresAt) {
		t.Error("session must still be valid at exactly expiresAt")
	}
	if !session.Expired(expiresAt.Add(time.Nanosecond)) {
		t.Error("session must be expired strictly after expiresAt")
	}
	if session.Expired(expiresAt.Add(-time.Hour)) {
		t.Error("session must be valid before expiresAt")
	}
}

func TestNewOrderCreatedEvent(t *testing.T) {
	order := &Order{ID: "ord-1", RestaurantID: "rest-9", Status: OrderPending}

	event := NewOrderCreatedEvent(order).WithMessage("new order")

	if event.Name != EventOrderCreated {
		t.Errorf("expected event name %s, got %s", EventOrderCreated, event.Name)
	}
	if event.Room() != "rest-9" {
		t.Errorf("expected room rest-9, got %s", event.Room())
	}
	if event.Order != order {
		t.Error("expected event to carry the order")
	}
	if event.Message != "new order" {
		t.Errorf("unexpected message %q", event.Message)
	}
	if event.Timestamp.IsZero() {
		t.Error("expected timestamp to be set")
	}
}
