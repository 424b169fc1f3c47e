package repositories

import (
	"context"
	"errors"

	"github.com/you/marketsvc/domain"
	"gorm.io/gorm"
)

// CustomerRepositoryImpl implements domain.CustomerRepository using GORM
type CustomerRepositoryImpl struct {
	db *gorm.DB
}

// NewCustomerRepository creates a new customer repository
func NewCustomerRepository(db *gorm.DB) domain.CustomerRepository {
	return &CustomerRepositoryImpl{db: db}
}

// FindByUsername implements domain.CustomerRepository
func (r *CustomerRepositoryImpl) FindByUsername(ctx context.Context, username string) (*domain.CustomerUser, error) {
	var row DBCustomerUser
	err := r.db.WithContext(ctx).Where("username = ?", username).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return customerToDomain(&row), nil
}

// Count implements domain.CustomerRepository
func (r *CustomerRepositoryImpl) Count(ctx context.Context) (int64, error) {
	var n int64
	return n, r.db.WithContext(ctx).Model(&DBCustomerUser{}).Count(&n).Error
}
