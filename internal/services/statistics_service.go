package services

import (
	"context"
	"fmt"

	"github.com/you/marketsvc/domain"
)

// StatisticsServiceImpl implements domain.StatisticsService
type StatisticsServiceImpl struct {
	applications domain.ApplicationRepository
	restaurants  domain.RestaurantRepository
	customers    domain.CustomerRepository
	packages     domain.PackageRepository
	orders       domain.OrderRepository
}

// NewStatisticsService creates a new statistics service
func NewStatisticsService(
	applications domain.ApplicationRepository,
	restaurants domain.RestaurantRepository,
	customers domain.CustomerRepository,
	packages domain.PackageRepository,
	orders domain.OrderRepository,
) domain.StatisticsService {
	return &StatisticsServiceImpl{
		applications: applications,
		restaurants:  restaurants,
		customers:    customers,
		packages:     packages,
		orders:       orders,
	}
}

// Collect implements domain.StatisticsService
func (s *StatisticsServiceImpl) Collect(ctx context.Context) (*domain.Statistics, error) {
	var (
		stats     domain.Statistics
		customers int64
		err       error
	)

	counters := []struct {
		name  string
		dst   *int64
		count func() (int64, error)
	}{
		{"applications", &stats.TotalApplications, func() (int64, error) { return s.applications.Count(ctx, "") }},
		{"pending applications", &stats.PendingApplications, func() (int64, error) { return s.applications.Count(ctx, domain.ApplicationPending) }},
		{"approved applications", &stats.ApprovedApplications, func() (int64, error) { return s.applications.Count(ctx, domain.ApplicationApproved) }},
		{"active restaurants", &stats.ActiveRestaurants, func() (int64, error) { return s.restaurants.CountProfiles(ctx, domain.StatusActive) }},
		{"restaurant users", &stats.TotalUsers, func() (int64, error) { return s.restaurants.CountUsers(ctx) }},
		{"customers", &customers, func() (int64, error) { return s.customers.Count(ctx) }},
		{"packages", &stats.TotalPackages, func() (int64, error) { return s.packages.Count(ctx, "") }},
		{"active packages", &stats.ActivePackages, func() (int64, error) { return s.packages.Count(ctx, domain.PackageActive) }},
		{"orders", &stats.TotalOrders, func() (int64, error) { return s.orders.Count(ctx) }},
	}
	for _, c := range counters {
		if *c.dst, err = c.count(); err != nil {
			return nil, fmt.Errorf("failed to count %s: %w", c.name, err)
		}
	}

	stats.TotalUsers += customers
	return &stats, nil
}
