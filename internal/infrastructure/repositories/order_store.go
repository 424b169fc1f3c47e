package repositories

import (
	"context"

	"github.com/you/marketsvc/domain"
	"gorm.io/gorm"
)

// OrderStoreImpl implements domain.OrderStore with a single database transaction
type OrderStoreImpl struct {
	db *gorm.DB
}

// NewOrderStore creates a new order store
func NewOrderStore(db *gorm.DB) domain.OrderStore {
	return &OrderStoreImpl{db: db}
}

// WithinOrder implements domain.OrderStore
func (s *OrderStoreImpl) WithinOrder(ctx context.Context, fn func(tx domain.OrderTx) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&orderTx{tx: tx})
	})
}

type orderTx struct {
	tx *gorm.DB
}

func (o *orderTx) Package(ctx context.Context, id string) (*domain.Package, error) {
	return findPackage(ctx, o.tx, id)
}

// Reserve decrements remaining stock only while it stays >= 0.
func (o *orderTx) Reserve(ctx context.Context, packageID string, qty int) error {
	if qty <= 0 {
		return domain.ErrQuantityOutOfRange
	}
	res := o.tx.WithContext(ctx).Model(&DBPackage{}).
		Where("id = ? AND status = ? AND remaining_quantity >= ?", packageID, string(domain.PackageActive), qty).
		Update("remaining_quantity", gorm.Expr("remaining_quantity - ?", qty))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrPackageUnavailable
	}
	return o.tx.WithContext(ctx).Model(&DBPackage{}).
		Where("id = ? AND remaining_quantity = 0", packageID).
		Update("status", string(domain.PackageSoldOut)).Error
}

// Release returns stock, capped at the package's current quantity. It never
// fails on a shrunk or deleted package so that cancelling stays possible.
func (o *orderTx) Release(ctx context.Context, packageID string, qty int) error {
	if qty <= 0 {
		return domain.ErrQuantityOutOfRange
	}
	err := o.tx.WithContext(ctx).Model(&DBPackage{}).
		Where("id = ?", packageID).
		Update("remaining_quantity", gorm.Expr(
			"CASE WHEN remaining_quantity + ? > quantity THEN quantity ELSE remaining_quantity + ? END", qty, qty)).Error
	if err != nil {
		return err
	}
	return o.tx.WithContext(ctx).Model(&DBPackage{}).
		Where("id = ? AND status = ? AND remaining_quantity > 0", packageID, string(domain.PackageSoldOut)).
		Update("status", string(domain.PackageActive)).Error
}

func (o *orderTx) CreateOrder(ctx context.Context, order *domain.Order) error {
	return o.tx.WithContext(ctx).Create(orderToDB(order)).Error
}

func (o *orderTx) Order(ctx context.Context, id string) (*domain.Order, error) {
	return findOrder(ctx, o.tx, id)
}

// SaveStatus writes the new status only if the stored status is still from.
func (o *orderTx) SaveStatus(ctx context.Context, orderID string, from domain.OrderStatus, change domain.StatusChange) error {
	current, err := findOrder(ctx, o.tx, orderID)
	if err != nil {
		return err
	}
	history := append(current.StatusHistory, change)

	res := o.tx.WithContext(ctx).Model(&DBOrder{}).
		Where("id = ? AND status = ?", orderID, string(from)).
		Select("status", "status_history", "updated_at").
		Updates(&DBOrder{
			Status:        string(change.Status),
			StatusHistory: historyToDB(history),
			UpdatedAt:     change.At,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrInvalidTransition
	}
	return nil
}
