package services

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/you/marketsvc/domain"
	"github.com/you/marketsvc/internal/infrastructure/notifications"
)

// ApplicationServiceImpl implements domain.ApplicationService
type ApplicationServiceImpl struct {
	repo            domain.ApplicationRepository
	notificationSvc domain.NotificationService
	now             func() time.Time
}

// NewApplicationService creates a new application service
func NewApplicationService(repo domain.ApplicationRepository, notificationSvc domain.NotificationService) domain.ApplicationService {
	return &ApplicationServiceImpl{repo: repo, notificationSvc: notificationSvc, now: time.Now}
}

// Submit implements domain.ApplicationService; every new application starts pending
func (s *ApplicationServiceImpl) Submit(ctx context.Context, app *domain.Application) (*domain.Application, error) {
	app.BusinessName = strings.TrimSpace(app.BusinessName)
	app.Email = strings.TrimSpace(app.Email)
	if app.BusinessName == "" || app.Email == "" || !strings.Contains(app.Email, "@") {
		return nil, domain.ErrApplicationInvalid
	}

	now := s.now()
	app.ID = uuid.NewString()
	app.Status = domain.ApplicationPending
	app.RestaurantUserID = ""
	app.ApprovedAt = nil
	app.ReviewedAt = nil
	app.CreatedAt = now
	app.UpdatedAt = now

	if err := s.repo.Create(ctx, app); err != nil {
		return nil, err
	}
	log.Printf("[applications] received application %s for %q", app.ID, app.BusinessName)
	return app, nil
}

// List implements domain.ApplicationService
func (s *ApplicationServiceImpl) List(ctx context.Context) ([]*domain.Application, error) {
	return s.repo.List(ctx)
}

// Reject implements domain.ApplicationService
func (s *ApplicationServiceImpl) Reject(ctx context.Context, id, reason string) (*domain.Application, error) {
	if id == "" {
		return nil, domain.ErrInvalidPayload
	}
	app, err := s.repo.Reject(ctx, id, strings.TrimSpace(reason), s.now())
	if err != nil {
		return nil, err
	}

	msg := notifications.RejectionNotice(app)
	if app.Email != "" {
		if err := s.notificationSvc.SendEmail(app.Email, msg.Subject, msg.Body); err != nil {
			log.Printf("[applications] rejection email to %s failed: %v", app.Email, err)
		}
	}
	return app, nil
}
