package wire

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/you/marketsvc/domain"
)

func TestFromOrderEvent_Shape(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	order := &domain.Order{
		ID:           "ord-1",
		RestaurantID: "rest-1",
		Customer:     domain.Customer{Name: "Ayse", Phone: "+90555"},
		Items:        []domain.OrderItem{{PackageID: "pkg-1", Name: "Bag", Price: 40, Quantity: 2, TotalPrice: 80}},
		TotalPrice:   80,
		Status:       domain.OrderPending,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	push := FromOrderEvent(domain.NewOrderCreatedEvent(order).WithMessage("new order"))

	raw, err := json.Marshal(push)
	require.NoError(t, err)

	var generic map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &generic))
	assert.Equal(t, "new order", generic["message"])

	o := generic["order"].(map[string]interface{})
	assert.Equal(t, "ord-1", o["id"])
	assert.Equal(t, "rest-1", o["restaurantId"])
	assert.Equal(t, "pending", o["status"])
	assert.Equal(t, 80.0, o["totalPrice"])
	assert.Equal(t, "+90555", o["customer"].(map[string]interface{})["phone"])
}

func TestFromUser_NeverCarriesPassword(t *testing.T) {
	raw, err := json.Marshal(FromUser(&domain.RestaurantUser{ID: "u1", Username: "x", PasswordHash: "secret-hash"}))
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "secret-hash")
}

func TestFromStatistics(t *testing.T) {
	s := FromStatistics(&domain.Statistics{TotalApplications: 3, PendingApplications: 1, TotalOrders: 9})
	assert.Equal(t, int64(3), s.TotalApplications)
	assert.Equal(t, int64(1), s.PendingApplications)
	assert.Equal(t, int64(9), s.TotalOrders)
}
