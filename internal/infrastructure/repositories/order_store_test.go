package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/you/marketsvc/domain"
	"gorm.io/gorm"
)

func seedPackage(t *testing.T, db *gorm.DB, id string, qty, remaining int) {
	t.Helper()
	now := time.Now()
	require.NoError(t, NewPackageRepository(db).Create(context.Background(), &domain.Package{
		ID: id, RestaurantID: "rest-1", Name: "Evening bag", OriginalPrice: 100, DiscountedPrice: 40,
		Quantity: qty, RemainingQuantity: remaining, Status: domain.PackageActive,
		AvailableUntil: now.Add(time.Hour), CreatedAt: now, UpdatedAt: now,
	}))
}

func TestOrderTx_ReserveAndRelease(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	seedPackage(t, db, "pkg-1", 3, 3)
	store := NewOrderStore(db)
	pkgs := NewPackageRepository(db)

	require.NoError(t, store.WithinOrder(ctx, func(tx domain.OrderTx) error {
		return tx.Reserve(ctx, "pkg-1", 2)
	}))
	pkg, _ := pkgs.FindByID(ctx, "pkg-1")
	assert.Equal(t, 1, pkg.RemainingQuantity)
	assert.Equal(t, domain.PackageActive, pkg.Status)

	err := store.WithinOrder(ctx, func(tx domain.OrderTx) error {
		return tx.Reserve(ctx, "pkg-1", 2)
	})
	assert.ErrorIs(t, err, domain.ErrPackageUnavailable)

	require.NoError(t, store.WithinOrder(ctx, func(tx domain.OrderTx) error {
		return tx.Reserve(ctx, "pkg-1", 1)
	}))
	pkg, _ = pkgs.FindByID(ctx, "pkg-1")
	assert.Equal(t, 0, pkg.RemainingQuantity)
	assert.Equal(t, domain.PackageSoldOut, pkg.Status)

	require.NoError(t, store.WithinOrder(ctx, func(tx domain.OrderTx) error {
		return tx.Release(ctx, "pkg-1", 3)
	}))
	pkg, _ = pkgs.FindByID(ctx, "pkg-1")
	assert.Equal(t, 3, pkg.RemainingQuantity)
	assert.Equal(t, domain.PackageActive, pkg.Status)

	require.NoError(t, store.WithinOrder(ctx, func(tx domain.OrderTx) error {
		return tx.Release(ctx, "pkg-1", 1)
	}))
	pkg, _ = pkgs.FindByID(ctx, "pkg-1")
	assert.Equal(t, 3, pkg.RemainingQuantity, "release is capped at quantity")

	err = store.WithinOrder(ctx, func(tx domain.OrderTx) error {
		return tx.Release(ctx, "pkg-1", 0)
	})
	assert.ErrorIs(t, err, domain.ErrQuantityOutOfRange)
}

func TestOrderTx_CreateAndSaveStatus(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	store := NewOrderStore(db)
	now := time.Now()

	order := &domain.Order{
		ID:           "ord-1",
		RestaurantID: "rest-1",
		Customer:     domain.Customer{ID: "c1", Name: "Ayse", Email: "ayse@example.com", Phone: "+90555"},
		Items:        []domain.OrderItem{{PackageID: "pkg-1", Name: "Evening bag", Price: 40, Quantity: 2, TotalPrice: 80}},
		TotalPrice:   80,
		Status:       domain.OrderPending,
		StatusHistory: []domain.StatusChange{
			{Status: domain.OrderPending, Note: "created", At: now},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, store.WithinOrder(ctx, func(tx domain.OrderTx) error {
		return tx.CreateOrder(ctx, order)
	}))

	require.NoError(t, store.WithinOrder(ctx, func(tx domain.OrderTx) error {
		return tx.SaveStatus(ctx, "ord-1", domain.OrderPending, domain.StatusChange{Status: domain.OrderConfirmed, At: now})
	}))

	stored, err := NewOrderRepository(db).FindByID(ctx, "ord-1")
	require.NoError(t, err)
	assert.Equal(t, domain.OrderConfirmed, stored.Status)
	require.Len(t, stored.StatusHistory, 2)
	assert.Equal(t, domain.OrderConfirmed, stored.StatusHistory[1].Status)
	require.Len(t, stored.Items, 1)
	assert.Equal(t, 2, stored.Items[0].Quantity)
	assert.Equal(t, "Ayse", stored.Customer.Name)

	// stale "from" status loses the race
	err = store.WithinOrder(ctx, func(tx domain.OrderTx) error {
		return tx.SaveStatus(ctx, "ord-1", domain.OrderPending, domain.StatusChange{Status: domain.OrderCancelled, At: now})
	})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	list, err := NewOrderRepository(db).List(ctx, domain.OrderFilter{RestaurantID: "rest-1"})
	require.NoError(t, err)
	assert.Len(t, list, 1)
}
