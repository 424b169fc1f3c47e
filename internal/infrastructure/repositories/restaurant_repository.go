package repositories

import (
	"context"
	"errors"

	"github.com/you/marketsvc/domain"
	"gorm.io/gorm"
)

// RestaurantRepositoryImpl implements domain.RestaurantRepository using GORM
type RestaurantRepositoryImpl struct {
	db *gorm.DB
}

// NewRestaurantRepository creates a new restaurant repository
func NewRestaurantRepository(db *gorm.DB) domain.RestaurantRepository {
	return &RestaurantRepositoryImpl{db: db}
}

// FindUserByUsername implements domain.RestaurantRepository
func (r *RestaurantRepositoryImpl) FindUserByUsername(ctx context.Context, username string) (*domain.RestaurantUser, error) {
	return r.findUser(ctx, "username = ?", username)
}

// FindUserByID implements domain.RestaurantRepository
func (r *RestaurantRepositoryImpl) FindUserByID(ctx context.Context, id string) (*domain.RestaurantUser, error) {
	return r.findUser(ctx, "id = ?", id)
}

// FindProfileByUserID implements domain.RestaurantRepository
func (r *RestaurantRepositoryImpl) FindProfileByUserID(ctx context.Context, userID string) (*domain.RestaurantProfile, error) {
	return r.findProfile(ctx, "user_id = ?", userID)
}

// FindProfileByID implements domain.RestaurantRepository
func (r *RestaurantRepositoryImpl) FindProfileByID(ctx context.Context, id string) (*domain.RestaurantProfile, error) {
	return r.findProfile(ctx, "id = ?", id)
}

// ListProfiles implements domain.RestaurantRepository
func (r *RestaurantRepositoryImpl) ListProfiles(ctx context.Context) ([]*domain.RestaurantProfile, error) {
	var rows []DBRestaurantProfile
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	profiles := make([]*domain.RestaurantProfile, 0, len(rows))
	for i := range rows {
		profiles = append(profiles, profileToDomain(&rows[i]))
	}
	return profiles, nil
}

// CountUsers implements domain.RestaurantRepository
func (r *RestaurantRepositoryImpl) CountUsers(ctx context.Context) (int64, error) {
	var n int64
	return n, r.db.WithContext(ctx).Model(&DBRestaurantUser{}).Count(&n).Error
}

// CountProfiles implements domain.RestaurantRepository; an empty status counts all
func (r *RestaurantRepositoryImpl) CountProfiles(ctx context.Context, status string) (int64, error) {
	var n int64
	q := r.db.WithContext(ctx).Model(&DBRestaurantProfile{})
	if status != "" {
		q = q.Where("status = ?", status)
	}
	return n, q.Count(&n).Error
}

func (r *RestaurantRepositoryImpl) findUser(ctx context.Context, query string, arg interface{}) (*domain.RestaurantUser, error) {
	var row DBRestaurantUser
	err := r.db.WithContext(ctx).Where(query, arg).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return restaurantUserToDomain(&row), nil
}

func (r *RestaurantRepositoryImpl) findProfile(ctx context.Context, query string, arg interface{}) (*domain.RestaurantProfile, error) {
	var row DBRestaurantProfile
	err := r.db.WithContext(ctx).Where(query, arg).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrRestaurantNotFound
		}
		return nil, err
	}
	return profileToDomain(&row), nil
}
