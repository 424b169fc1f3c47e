package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/you/marketsvc/domain"
	"gorm.io/gorm"
)

// PackageRepositoryImpl implements domain.PackageRepository using GORM
type PackageRepositoryImpl struct {
	db *gorm.DB
}

// NewPackageRepository creates a new package repository
func NewPackageRepository(db *gorm.DB) domain.PackageRepository {
	return &PackageRepositoryImpl{db: db}
}

// Create implements domain.PackageRepository
func (r *PackageRepositoryImpl) Create(ctx context.Context, pkg *domain.Package) error {
	return r.db.WithContext(ctx).Create(packageToDB(pkg)).Error
}

// FindByID implements domain.PackageRepository
func (r *PackageRepositoryImpl) FindByID(ctx context.Context, id string) (*domain.Package, error) {
	return findPackage(ctx, r.db, id)
}

// List implements domain.PackageRepository; deleted packages are never listed
func (r *PackageRepositoryImpl) List(ctx context.Context, filter domain.PackageFilter) ([]*domain.Package, error) {
	q := r.db.WithContext(ctx).Where("status <> ?", string(domain.PackageDeleted))
	if filter.RestaurantID != "" {
		q = q.Where("restaurant_id = ?", filter.RestaurantID)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", string(filter.Status))
	}

	var rows []DBPackage
	if err := q.Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	pkgs := make([]*domain.Package, 0, len(rows))
	for i := range rows {
		pkgs = append(pkgs, packageToDomain(&rows[i]))
	}
	return pkgs, nil
}

// Update implements domain.PackageRepository. A reservation or release that
// committed after the caller read the package makes it fail with ErrPackageChanged.
func (r *PackageRepositoryImpl) Update(ctx context.Context, pkg *domain.Package, readRemaining int) error {
	res := r.db.WithContext(ctx).Model(&DBPackage{}).
		Where("id = ? AND status <> ? AND remaining_quantity = ?", pkg.ID, string(domain.PackageDeleted), readRemaining).
		Select("name", "description", "original_price", "discounted_price", "quantity",
			"remaining_quantity", "available_from", "available_until", "status", "updated_at").
		Updates(packageToDB(pkg))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		if _, err := findPackage(ctx, r.db, pkg.ID); err != nil {
			return err
		}
		return domain.ErrPackageChanged
	}
	return nil
}

// Delete implements domain.PackageRepository as a soft delete
func (r *PackageRepositoryImpl) Delete(ctx context.Context, id string, at time.Time) error {
	res := r.db.WithContext(ctx).Model(&DBPackage{}).
		Where("id = ? AND status <> ?", id, string(domain.PackageDeleted)).
		Updates(map[string]interface{}{
			"status":     string(domain.PackageDeleted),
			"deleted_at": at,
			"updated_at": at,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrPackageNotFound
	}
	return nil
}

// Count implements domain.PackageRepository; an empty status counts all live packages
func (r *PackageRepositoryImpl) Count(ctx context.Context, status domain.PackageStatus) (int64, error) {
	var n int64
	q := r.db.WithContext(ctx).Model(&DBPackage{}).Where("status <> ?", string(domain.PackageDeleted))
	if status != "" {
		q = q.Where("status = ?", string(status))
	}
	return n, q.Count(&n).Error
}

func findPackage(ctx context.Context, db *gorm.DB, id string) (*domain.Package, error) {
	var row DBPackage
	err := db.WithContext(ctx).Where("id = ? AND status <> ?", id, string(domain.PackageDeleted)).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrPackageNotFound
		}
		return nil, err
	}
	return packageToDomain(&row), nil
}
