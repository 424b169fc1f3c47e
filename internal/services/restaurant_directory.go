package services

import (
	"context"
	"errors"

	"github.com/you/marketsvc/domain"
)

// RestaurantDirectoryImpl implements domain.RestaurantDirectory
type RestaurantDirectoryImpl struct {
	restaurants  domain.RestaurantRepository
	applications domain.ApplicationRepository
}

// NewRestaurantDirectory creates a new restaurant directory
func NewRestaurantDirectory(restaurants domain.RestaurantRepository, applications domain.ApplicationRepository) domain.RestaurantDirectory {
	return &RestaurantDirectoryImpl{restaurants: restaurants, applications: applications}
}

// List implements domain.RestaurantDirectory
func (d *RestaurantDirectoryImpl) List(ctx context.Context) ([]*domain.RestaurantView, error) {
	profiles, err := d.restaurants.ListProfiles(ctx)
	if err != nil {
		return nil, err
	}
	views := make([]*domain.RestaurantView, 0, len(profiles))
	for _, p := range profiles {
		view, err := d.join(ctx, p)
		if err != nil {
			return nil, err
		}
		views = append(views, view)
	}
	return views, nil
}

// ByUserID implements domain.RestaurantDirectory
func (d *RestaurantDirectoryImpl) ByUserID(ctx context.Context, userID string) (*domain.RestaurantView, error) {
	if userID == "" {
		return nil, domain.ErrInvalidPayload
	}
	profile, err := d.restaurants.FindProfileByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return d.join(ctx, profile)
}

// join attaches the user and source application; either may be missing
// for profiles created outside the approval pipeline
func (d *RestaurantDirectoryImpl) join(ctx context.Context, profile *domain.RestaurantProfile) (*domain.RestaurantView, error) {
	view := &domain.RestaurantView{Profile: profile}

	user, err := d.restaurants.FindUserByID(ctx, profile.UserID)
	switch {
	case err == nil:
		view.User = user
	case !errors.Is(err, domain.ErrUserNotFound):
		return nil, err
	}

	if profile.ApplicationID != "" {
		app, err := d.applications.FindByID(ctx, profile.ApplicationID)
		switch {
		case err == nil:
			view.Application = app
		case !errors.Is(err, domain.ErrApplicationNotFound):
			return nil, err
		}
	}
	return view, nil
}
