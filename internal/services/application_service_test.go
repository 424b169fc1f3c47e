package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/you/marketsvc/domain"
	"github.com/you/marketsvc/internal/infrastructure/repositories"
	"github.com/you/marketsvc/internal/mocks"
)

func TestApplicationServiceImpl_Submit(t *testing.T) {
	tests := []struct {
		name          string
		app           domain.Application
		expectedError error
	}{
		{"valid", domain.Application{BusinessName: " Moda Firin ", Email: "firin@x.com"}, nil},
		{"missing business name", domain.Application{Email: "firin@x.com"}, domain.ErrApplicationInvalid},
		{"missing email", domain.Application{BusinessName: "Moda Firin"}, domain.ErrApplicationInvalid},
		{"malformed email", domain.Application{BusinessName: "Moda Firin", Email: "firin"}, domain.ErrApplicationInvalid},
		{"client cannot pre-approve", domain.Application{BusinessName: "Moda Firin", Email: "firin@x.com", Status: domain.ApplicationApproved, RestaurantUserID: "usr-1"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := setupTestDB(t)
			repo := repositories.NewApplicationRepository(db)
			svc := NewApplicationService(repo, mocks.NewMockNotificationService())

			app := tt.app
			created, err := svc.Submit(context.Background(), &app)
			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				n, _ := repo.Count(context.Background(), "")
				assert.Zero(t, n)
				return
			}
			require.NoError(t, err)
			assert.NotEmpty(t, created.ID)
			assert.Equal(t, "Moda Firin", created.BusinessName)
			assert.Equal(t, domain.ApplicationPending, created.Status)
			assert.Empty(t, created.RestaurantUserID)

			stored, err := repo.FindByID(context.Background(), created.ID)
			require.NoError(t, err)
			assert.Equal(t, domain.ApplicationPending, stored.Status)
		})
	}
}

func TestApplicationServiceImpl_Reject(t *testing.T) {
	db := setupTestDB(t)
	app := createPendingApplication(t, db)

	var emailed []string
	notifier := mocks.NewMockNotificationService()
	notifier.SendEmailFunc = func(to, subject, body string) error {
		emailed = append(emailed, to)
		return errors.New("smtp down")
	}
	svc := NewApplicationService(repositories.NewApplicationRepository(db), notifier)

	rejected, err := svc.Reject(context.Background(), app.ID, "  incomplete documents ")
	require.NoError(t, err, "a failed email does not undo the rejection")
	assert.Equal(t, domain.ApplicationRejected, rejected.Status)
	assert.Equal(t, "incomplete documents", rejected.RejectReason)
	assert.NotNil(t, rejected.ReviewedAt)
	assert.Equal(t, []string{"a@x.com"}, emailed)

	_, err = svc.Reject(context.Background(), app.ID, "again")
	assert.ErrorIs(t, err, domain.ErrApplicationNotPending)

	_, err = svc.Reject(context.Background(), "missing", "")
	assert.ErrorIs(t, err, domain.ErrApplicationNotFound)

	_, err = svc.Reject(context.Background(), "", "")
	assert.ErrorIs(t, err, domain.ErrInvalidPayload)
}

func TestApplicationServiceImpl_List(t *testing.T) {
	db := setupTestDB(t)
	createPendingApplication(t, db)
	svc := NewApplicationService(repositories.NewApplicationRepository(db), mocks.NewMockNotificationService())

	apps, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, apps, 1)
	assert.Equal(t, "Ahmet Lokanta", apps[0].BusinessName)
}
