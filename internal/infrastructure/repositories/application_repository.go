package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/you/marketsvc/domain"
	"gorm.io/gorm"
)

// ApplicationRepositoryImpl implements domain.ApplicationRepository using GORM
type ApplicationRepositoryImpl struct {
	db *gorm.DB
}

// NewApplicationRepository creates a new application repository
func NewApplicationRepository(db *gorm.DB) domain.ApplicationRepository {
	return &ApplicationRepositoryImpl{db: db}
}

// Create implements domain.ApplicationRepository
func (r *ApplicationRepositoryImpl) Create(ctx context.Context, app *domain.Application) error {
	return r.db.WithContext(ctx).Create(applicationToDB(app)).Error
}

// FindByID implements domain.ApplicationRepository
func (r *ApplicationRepositoryImpl) FindByID(ctx context.Context, id string) (*domain.Application, error) {
	return findApplication(ctx, r.db, id)
}

// List implements domain.ApplicationRepository, newest first
func (r *ApplicationRepositoryImpl) List(ctx context.Context) ([]*domain.Application, error) {
	var rows []DBApplication
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	apps := make([]*domain.Application, 0, len(rows))
	for i := range rows {
		apps = append(apps, applicationToDomain(&rows[i]))
	}
	return apps, nil
}

// Reject implements domain.ApplicationRepository; only pending applications can be rejected
func (r *ApplicationRepositoryImpl) Reject(ctx context.Context, id, reason string, at time.Time) (*domain.Application, error) {
	res := r.db.WithContext(ctx).Model(&DBApplication{}).
		Where("id = ? AND status = ?", id, string(domain.ApplicationPending)).
		Updates(map[string]interface{}{
			"status":        string(domain.ApplicationRejected),
			"reject_reason": reason,
			"reviewed_at":   at,
			"updated_at":    at,
		})
	if res.Error != nil {
		return nil, res.Error
	}
	app, err := findApplication(ctx, r.db, id)
	if err != nil {
		return nil, err
	}
	if res.RowsAffected == 0 {
		return nil, domain.ErrApplicationNotPending
	}
	return app, nil
}

// Count implements domain.ApplicationRepository; an empty status counts all
func (r *ApplicationRepositoryImpl) Count(ctx context.Context, status domain.ApplicationStatus) (int64, error) {
	var n int64
	q := r.db.WithContext(ctx).Model(&DBApplication{})
	if status != "" {
		q = q.Where("status = ?", string(status))
	}
	return n, q.Count(&n).Error
}

func findApplication(ctx context.Context, db *gorm.DB, id string) (*domain.Application, error) {
	var row DBApplication
	err := db.WithContext(ctx).Where("id = ?", id).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrApplicationNotFound
		}
		return nil, err
	}
	return applicationToDomain(&row), nil
}
