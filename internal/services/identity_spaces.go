package services

import (
	"context"
	"errors"

	"github.com/you/marketsvc/domain"
)

// AdminSpace is the single administrator credential, taken from config
type AdminSpace struct {
	username     string
	passwordHash string
	passwordSvc  domain.PasswordService
}

// NewAdminSpace creates the admin identity space. An empty username or hash
// disables admin login.
func NewAdminSpace(username, passwordHash string, passwordSvc domain.PasswordService) domain.IdentitySpace {
	return &AdminSpace{username: username, passwordHash: passwordHash, passwordSvc: passwordSvc}
}

func (a *AdminSpace) Role() string { return domain.RoleAdmin }

// Resolve implements domain.IdentitySpace
func (a *AdminSpace) Resolve(_ context.Context, username, password string) (*domain.Identity, error) {
	if a.username == "" || a.passwordHash == "" || username != a.username {
		return nil, domain.ErrUserNotFound
	}
	if !a.passwordSvc.Verify(a.passwordHash, password) {
		return nil, domain.ErrInvalidCredentials
	}
	return &domain.Identity{
		UserID:      "admin",
		Username:    a.username,
		Role:        domain.RoleAdmin,
		DisplayName: "Administrator",
	}, nil
}

// RestaurantSpace resolves restaurant users issued by the approval pipeline
type RestaurantSpace struct {
	repo        domain.RestaurantRepository
	passwordSvc domain.PasswordService
}

// NewRestaurantSpace creates the restaurant identity space
func NewRestaurantSpace(repo domain.RestaurantRepository, passwordSvc domain.PasswordService) domain.IdentitySpace {
	return &RestaurantSpace{repo: repo, passwordSvc: passwordSvc}
}

func (r *RestaurantSpace) Role() string { return domain.RoleRestaurant }

// Resolve implements domain.IdentitySpace
func (r *RestaurantSpace) Resolve(ctx context.Context, username, password string) (*domain.Identity, error) {
	user, err := r.repo.FindUserByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if !r.passwordSvc.Verify(user.PasswordHash, password) {
		return nil, domain.ErrInvalidCredentials
	}
	if user.Status != domain.StatusActive {
		return nil, domain.ErrUserInactive
	}

	identity := &domain.Identity{
		UserID:   user.ID,
		Username: user.Username,
		Role:     domain.RoleRestaurant,
	}
	profile, err := r.repo.FindProfileByUserID(ctx, user.ID)
	switch {
	case err == nil:
		identity.RestaurantID = profile.ID
		identity.DisplayName = profile.BusinessName
	case errors.Is(err, domain.ErrRestaurantNotFound):
		// a user without a profile cannot own a room; treat as inactive
		return nil, domain.ErrUserInactive
	default:
		return nil, err
	}
	return identity, nil
}

// CustomerSpace resolves marketplace customers
type CustomerSpace struct {
	repo        domain.CustomerRepository
	passwordSvc domain.PasswordService
}

// NewCustomerSpace creates the customer identity space
func NewCustomerSpace(repo domain.CustomerRepository, passwordSvc domain.PasswordService) domain.IdentitySpace {
	return &CustomerSpace{repo: repo, passwordSvc: passwordSvc}
}

func (c *CustomerSpace) Role() string { return domain.RoleCustomer }

// Resolve implements domain.IdentitySpace
func (c *CustomerSpace) Resolve(ctx context.Context, username, password string) (*domain.Identity, error) {
	customer, err := c.repo.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if !c.passwordSvc.Verify(customer.PasswordHash, password) {
		return nil, domain.ErrInvalidCredentials
	}
	if customer.Status != "" && customer.Status != domain.StatusActive {
		return nil, domain.ErrUserInactive
	}
	return &domain.Identity{
		UserID:      customer.ID,
		Username:    customer.Username,
		Role:        domain.RoleCustomer,
		DisplayName: customer.Name,
	}, nil
}
