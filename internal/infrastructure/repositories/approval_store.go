package repositories

import (
	"context"
	"time"

	"github.com/you/marketsvc/domain"
	"gorm.io/gorm"
)

// ApprovalStoreImpl implements domain.ApprovalStore with a single database transaction
type ApprovalStoreImpl struct {
	db *gorm.DB
}

// NewApprovalStore creates a new approval store
func NewApprovalStore(db *gorm.DB) domain.ApprovalStore {
	return &ApprovalStoreImpl{db: db}
}

// WithinApproval implements domain.ApprovalStore
func (s *ApprovalStoreImpl) WithinApproval(ctx context.Context, fn func(tx domain.ApprovalTx) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&approvalTx{tx: tx})
	})
}

type approvalTx struct {
	tx *gorm.DB
}

func (a *approvalTx) PendingApplication(ctx context.Context, id string) (*domain.Application, error) {
	app, err := findApplication(ctx, a.tx, id)
	if err != nil {
		return nil, err
	}
	if app.Status != domain.ApplicationPending {
		return nil, domain.ErrApplicationNotPending
	}
	return app, nil
}

func (a *approvalTx) UsernameExists(ctx context.Context, username string) (bool, error) {
	var n int64
	err := a.tx.WithContext(ctx).Model(&DBRestaurantUser{}).Where("username = ?", username).Count(&n).Error
	return n > 0, err
}

func (a *approvalTx) CreateUser(ctx context.Context, user *domain.RestaurantUser) error {
	return a.tx.WithContext(ctx).Create(restaurantUserToDB(user)).Error
}

func (a *approvalTx) CreateProfile(ctx context.Context, profile *domain.RestaurantProfile) error {
	return a.tx.WithContext(ctx).Create(profileToDB(profile)).Error
}

// MarkApproved flips the application only if it is still pending, so two
// concurrent approvals cannot both commit.
func (a *approvalTx) MarkApproved(ctx context.Context, applicationID, userID string, at time.Time) error {
	res := a.tx.WithContext(ctx).Model(&DBApplication{}).
		Where("id = ? AND status = ?", applicationID, string(domain.ApplicationPending)).
		Updates(map[string]interface{}{
			"status":             string(domain.ApplicationApproved),
			"restaurant_user_id": userID,
			"approved_at":        at,
			"reviewed_at":        at,
			"updated_at":         at,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrApplicationNotPending
	}
	return nil
}
