package repositories

import (
	"context"
	"errors"

	"github.com/you/marketsvc/domain"
	"gorm.io/gorm"
)

// OrderRepositoryImpl implements domain.OrderRepository using GORM
type OrderRepositoryImpl struct {
	db *gorm.DB
}

// NewOrderRepository creates a new order repository
func NewOrderRepository(db *gorm.DB) domain.OrderRepository {
	return &OrderRepositoryImpl{db: db}
}

// FindByID implements domain.OrderRepository
func (r *OrderRepositoryImpl) FindByID(ctx context.Context, id string) (*domain.Order, error) {
	return findOrder(ctx, r.db, id)
}

// List implements domain.OrderRepository, newest first
func (r *OrderRepositoryImpl) List(ctx context.Context, filter domain.OrderFilter) ([]*domain.Order, error) {
	q := r.db.WithContext(ctx)
	if filter.RestaurantID != "" {
		q = q.Where("restaurant_id = ?", filter.RestaurantID)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", string(filter.Status))
	}

	var rows []DBOrder
	if err := q.Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	orders := make([]*domain.Order, 0, len(rows))
	for i := range rows {
		orders = append(orders, orderToDomain(&rows[i]))
	}
	return orders, nil
}

// Count implements domain.OrderRepository
func (r *OrderRepositoryImpl) Count(ctx context.Context) (int64, error) {
	var n int64
	return n, r.db.WithContext(ctx).Model(&DBOrder{}).Count(&n).Error
}

func findOrder(ctx context.Context, db *gorm.DB, id string) (*domain.Order, error) {
	var row DBOrder
	err := db.WithContext(ctx).Where("id = ?", id).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, err
	}
	return orderToDomain(&row), nil
}
