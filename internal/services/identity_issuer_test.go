package services

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/you/marketsvc/domain"
	"github.com/you/marketsvc/internal/infrastructure/repositories"
	"github.com/you/marketsvc/internal/mocks"
	"gorm.io/gorm"
)

// faultyStore wraps a real ApprovalStore and fails one step inside the transaction
type faultyStore struct {
	inner  domain.ApprovalStore
	failAt string
}

func (f *faultyStore) WithinApproval(ctx context.Context, fn func(tx domain.ApprovalTx) error) error {
	return f.inner.WithinApproval(ctx, func(tx domain.ApprovalTx) error {
		return fn(&faultyTx{ApprovalTx: tx, failAt: f.failAt})
	})
}

type faultyTx struct {
	domain.ApprovalTx
	failAt string
}

var errInjected = errors.New("injected failure")

func (f *faultyTx) CreateProfile(ctx context.Context, p *domain.RestaurantProfile) error {
	if f.failAt == "profile" {
		return errInjected
	}
	return f.ApprovalTx.CreateProfile(ctx, p)
}

func (f *faultyTx) MarkApproved(ctx context.Context, appID, userID string, at time.Time) error {
	if f.failAt == "mark" {
		return errInjected
	}
	return f.ApprovalTx.MarkApproved(ctx, appID, userID, at)
}

func countRows(t *testing.T, db *gorm.DB, model interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(model).Count(&n).Error)
	return n
}

func TestIdentityIssuerImpl_ApproveWithSuppliedCredentials(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	app := createPendingApplication(t, db)

	var emailed []string
	notifier := mocks.NewMockNotificationService()
	notifier.SendEmailFunc = func(to, subject, body string) error {
		emailed = append(emailed, to+"|"+body)
		return nil
	}
	issuer := NewIdentityIssuer(repositories.NewApprovalStore(db), NewCredentialGenerator(), mocks.NewMockPasswordService(), notifier)

	result, err := issuer.Approve(ctx, app.ID, &domain.Credentials{Username: "ahmetlok1234", Password: "Xk8pQ2vL"})
	require.NoError(t, err)

	stored, err := repositories.NewApplicationRepository(db).FindByID(ctx, app.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ApplicationApproved, stored.Status)
	assert.NotNil(t, stored.ApprovedAt)

	restaurants := repositories.NewRestaurantRepository(db)
	user, err := restaurants.FindUserByUsername(ctx, "ahmetlok1234")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleRestaurant, user.Role)
	assert.Equal(t, app.ID, user.ApplicationID)
	assert.Equal(t, "hashed_Xk8pQ2vL", user.PasswordHash, "only the hash is stored")
	assert.Equal(t, user.ID, stored.RestaurantUserID)

	profile, err := restaurants.FindProfileByUserID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ahmet Lokanta", profile.BusinessName)
	assert.Equal(t, app.Address, profile.Address)

	assert.Equal(t, int64(1), countRows(t, db, &repositories.DBRestaurantUser{}))
	assert.Equal(t, int64(1), countRows(t, db, &repositories.DBRestaurantProfile{}))

	assert.Equal(t, "Xk8pQ2vL", result.Credentials.Password)
	require.Len(t, emailed, 1)
	assert.Contains(t, emailed[0], "a@x.com|")
	assert.Contains(t, emailed[0], "ahmetlok1234")
}

func TestIdentityIssuerImpl_ApproveGeneratesCredentials(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	app := createPendingApplication(t, db)

	pwd := mocks.NewMockPasswordService()
	notifier := mocks.NewMockNotificationService()
	notifier.EmailFrom = "partners@market.test"
	issuer := NewIdentityIssuer(repositories.NewApprovalStore(db), NewCredentialGenerator(), pwd, notifier)
	result, err := issuer.Approve(ctx, app.ID, nil)
	require.NoError(t, err)

	assert.Regexp(t, regexp.MustCompile(`^ahmetlokan\d{4}$`), result.Credentials.Username)
	assert.Regexp(t, regexp.MustCompile(`^[A-Za-z0-9]{8}$`), result.Credentials.Password)
	assert.Equal(t, []string{result.Credentials.Password}, pwd.Hashed())

	emails := notifier.Emails()
	require.Len(t, emails, 1)
	assert.Equal(t, "partners@market.test", emails[0].From)
	assert.Equal(t, app.Email, emails[0].To)
	assert.Contains(t, emails[0].Body, result.Credentials.Password)

	texts := notifier.SMS()
	require.Len(t, texts, 1)
	assert.Equal(t, app.Phone, texts[0].To)
	assert.Contains(t, texts[0].Body, result.Credentials.Username)
}

func TestIdentityIssuerImpl_RollsBackOnInjectedFailure(t *testing.T) {
	for _, failAt := range []string{"profile", "mark"} {
		t.Run("fail at "+failAt, func(t *testing.T) {
			db := setupTestDB(t)
			ctx := context.Background()
			app := createPendingApplication(t, db)

			notified := false
			notifier := mocks.NewMockNotificationService()
			notifier.SendEmailFunc = func(string, string, string) error {
				notified = true
				return nil
			}
			store := &faultyStore{inner: repositories.NewApprovalStore(db), failAt: failAt}
			issuer := NewIdentityIssuer(store, NewCredentialGenerator(), mocks.NewMockPasswordService(), notifier)

			_, err := issuer.Approve(ctx, app.ID, &domain.Credentials{Username: "ahmetlok1234", Password: "Xk8pQ2vL"})
			assert.ErrorIs(t, err, errInjected)

			assert.Zero(t, countRows(t, db, &repositories.DBRestaurantUser{}), "no orphan user")
			assert.Zero(t, countRows(t, db, &repositories.DBRestaurantProfile{}), "no orphan profile")
			stored, err := repositories.NewApplicationRepository(db).FindByID(ctx, app.ID)
			require.NoError(t, err)
			assert.Equal(t, domain.ApplicationPending, stored.Status)
			assert.False(t, notified, "no notice for a rolled back approval")

			// the application is still approvable afterwards
			clean := NewIdentityIssuer(repositories.NewApprovalStore(db), NewCredentialGenerator(), mocks.NewMockPasswordService(), notifier)
			_, err = clean.Approve(ctx, app.ID, &domain.Credentials{Username: "ahmetlok1234", Password: "Xk8pQ2vL"})
			require.NoError(t, err)
		})
	}
}

func TestIdentityIssuerImpl_Failures(t *testing.T) {
	tests := []struct {
		name          string
		setup         func(t *testing.T, db *gorm.DB, issuer domain.IdentityIssuer)
		applicationID string
		creds         *domain.Credentials
		generator     domain.CredentialGenerator
		expectedError error
	}{
		{
			name:          "unknown application",
			applicationID: "missing",
			expectedError: domain.ErrApplicationNotFound,
		},
		{
			name:          "empty application id",
			applicationID: "",
			expectedError: domain.ErrInvalidPayload,
		},
		{
			name:          "already approved",
			applicationID: "app-1",
			setup: func(t *testing.T, db *gorm.DB, issuer domain.IdentityIssuer) {
				_, err := issuer.Approve(context.Background(), "app-1", &domain.Credentials{Username: "first", Password: "pw"})
				require.NoError(t, err)
			},
			creds:         &domain.Credentials{Username: "second", Password: "pw"},
			expectedError: domain.ErrApplicationNotPending,
		},
		{
			name:          "supplied username taken",
			applicationID: "app-1",
			setup: func(t *testing.T, db *gorm.DB, _ domain.IdentityIssuer) {
				require.NoError(t, db.Create(&repositories.DBRestaurantUser{ID: "other", Username: "ahmetlok1234", ApplicationID: "other-app"}).Error)
			},
			creds:         &domain.Credentials{Username: "ahmetlok1234", Password: "pw"},
			expectedError: domain.ErrUsernameTaken,
		},
		{
			name:          "supplied username without password",
			applicationID: "app-1",
			creds:         &domain.Credentials{Username: "ahmetlok1234"},
			expectedError: domain.ErrInvalidPayload,
		},
		{
			name:          "generator keeps colliding",
			applicationID: "app-1",
			setup: func(t *testing.T, db *gorm.DB, _ domain.IdentityIssuer) {
				require.NoError(t, db.Create(&repositories.DBRestaurantUser{ID: "other", Username: "same0000", ApplicationID: "other-app"}).Error)
			},
			generator: &mocks.MockCredentialGenerator{GenerateFunc: func(string) (domain.Credentials, error) {
				return domain.Credentials{Username: "same0000", Password: "pw"}, nil
			}},
			expectedError: domain.ErrUsernameTaken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := setupTestDB(t)
			createPendingApplication(t, db)

			generator := tt.generator
			if generator == nil {
				generator = NewCredentialGenerator()
			}
			issuer := NewIdentityIssuer(repositories.NewApprovalStore(db), generator, mocks.NewMockPasswordService(), mocks.NewMockNotificationService())
			if tt.setup != nil {
				tt.setup(t, db, issuer)
			}

			_, err := issuer.Approve(context.Background(), tt.applicationID, tt.creds)
			assert.ErrorIs(t, err, tt.expectedError)
		})
	}
}

func TestIdentityIssuerImpl_NotificationFailureKeepsApproval(t *testing.T) {
	db := setupTestDB(t)
	app := createPendingApplication(t, db)

	notifier := mocks.NewMockNotificationService()
	notifier.SendEmailFunc = func(string, string, string) error { return errors.New("smtp down") }
	notifier.SendSMSFunc = func(string, string) error { return errors.New("twilio down") }

	issuer := NewIdentityIssuer(repositories.NewApprovalStore(db), NewCredentialGenerator(), mocks.NewMockPasswordService(), notifier)
	_, err := issuer.Approve(context.Background(), app.ID, nil)
	require.NoError(t, err)

	stored, err := repositories.NewApplicationRepository(db).FindByID(context.Background(), app.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ApplicationApproved, stored.Status)
}
