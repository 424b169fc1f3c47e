package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/you/marketsvc/domain"
	"github.com/you/marketsvc/internal/infrastructure/notifications"
)

const maxUsernameAttempts = 5

// IdentityIssuerImpl implements domain.IdentityIssuer. User, profile and the
// application's approved flag are written in one ApprovalStore transaction.
type IdentityIssuerImpl struct {
	store           domain.ApprovalStore
	generator       domain.CredentialGenerator
	passwordSvc     domain.PasswordService
	notificationSvc domain.NotificationService
	now             func() time.Time
}

// NewIdentityIssuer creates a new identity issuer
func NewIdentityIssuer(
	store domain.ApprovalStore,
	generator domain.CredentialGenerator,
	passwordSvc domain.PasswordService,
	notificationSvc domain.NotificationService,
) domain.IdentityIssuer {
	return &IdentityIssuerImpl{
		store:           store,
		generator:       generator,
		passwordSvc:     passwordSvc,
		notificationSvc: notificationSvc,
		now:             time.Now,
	}
}

// Approve implements domain.IdentityIssuer
func (s *IdentityIssuerImpl) Approve(ctx context.Context, applicationID string, creds *domain.Credentials) (*domain.ApprovalResult, error) {
	if applicationID == "" {
		return nil, domain.ErrInvalidPayload
	}

	var result *domain.ApprovalResult
	err := s.store.WithinApproval(ctx, func(tx domain.ApprovalTx) error {
		app, err := tx.PendingApplication(ctx, applicationID)
		if err != nil {
			return err
		}

		credentials, err := s.credentialsFor(ctx, tx, app, creds)
		if err != nil {
			return err
		}
		hash, err := s.passwordSvc.Hash(credentials.Password)
		if err != nil {
			return fmt.Errorf("failed to hash password: %w", err)
		}

		now := s.now()
		user := &domain.RestaurantUser{
			ID:            uuid.NewString(),
			Username:      credentials.Username,
			PasswordHash:  hash,
			Role:          domain.RoleRestaurant,
			Status:        domain.StatusActive,
			Email:         app.Email,
			Phone:         app.Phone,
			ApplicationID: app.ID,
			CreatedAt:     now,
		}
		if err := tx.CreateUser(ctx, user); err != nil {
			return fmt.Errorf("failed to create restaurant user: %w", err)
		}

		profile := &domain.RestaurantProfile{
			ID:            uuid.NewString(),
			UserID:        user.ID,
			ApplicationID: app.ID,
			BusinessName:  app.BusinessName,
			Category:      app.Category,
			Address:       app.Address,
			Email:         app.Email,
			Phone:         app.Phone,
			Description:   app.Description,
			Status:        domain.StatusActive,
			IsVisible:     true,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		if err := tx.CreateProfile(ctx, profile); err != nil {
			return fmt.Errorf("failed to create restaurant profile: %w", err)
		}

		if err := tx.MarkApproved(ctx, app.ID, user.ID, now); err != nil {
			return err
		}
		app.Status = domain.ApplicationApproved
		app.RestaurantUserID = user.ID
		app.ApprovedAt = &now
		app.ReviewedAt = &now
		app.UpdatedAt = now

		result = &domain.ApprovalResult{
			Application: app,
			User:        user,
			Profile:     profile,
			Credentials: credentials,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("[approval] application %s approved as %s", result.Application.ID, result.User.Username)
	s.notifyApproved(result)
	return result, nil
}

// credentialsFor validates supplied credentials or generates fresh ones,
// retrying the generated username until it is unused.
func (s *IdentityIssuerImpl) credentialsFor(ctx context.Context, tx domain.ApprovalTx, app *domain.Application, supplied *domain.Credentials) (domain.Credentials, error) {
	if supplied != nil && supplied.Username != "" {
		if supplied.Password == "" {
			return domain.Credentials{}, fmt.Errorf("%w: password is required with a username", domain.ErrInvalidPayload)
		}
		taken, err := tx.UsernameExists(ctx, supplied.Username)
		if err != nil {
			return domain.Credentials{}, err
		}
		if taken {
			return domain.Credentials{}, domain.ErrUsernameTaken
		}
		return *supplied, nil
	}

	for attempt := 0; attempt < maxUsernameAttempts; attempt++ {
		creds, err := s.generator.Generate(app.BusinessName)
		if err != nil {
			return domain.Credentials{}, fmt.Errorf("failed to generate credentials: %w", err)
		}
		if supplied != nil && supplied.Password != "" {
			creds.Password = supplied.Password
		}
		taken, err := tx.UsernameExists(ctx, creds.Username)
		if err != nil {
			return domain.Credentials{}, err
		}
		if !taken {
			return creds, nil
		}
	}
	return domain.Credentials{}, domain.ErrUsernameTaken
}

// notifyApproved runs after commit; delivery failures never undo the approval
func (s *IdentityIssuerImpl) notifyApproved(result *domain.ApprovalResult) {
	msg := notifications.ApprovalNotice(result.Application, result.Credentials)
	if result.Application.Email != "" {
		if err := s.notificationSvc.SendEmail(result.Application.Email, msg.Subject, msg.Body); err != nil {
			log.Printf("[approval] approval email to %s failed: %v", result.Application.Email, err)
		}
	}
	if result.Application.Phone != "" {
		if err := s.notificationSvc.SendSMS(result.Application.Phone, msg.SMS); err != nil {
			log.Printf("[approval] approval SMS to %s failed: %v", result.Application.Phone, err)
		}
	}
}
