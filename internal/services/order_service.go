package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/you/marketsvc/domain"
	"github.com/you/marketsvc/internal/infrastructure/notifications"
)

// OrderServiceImpl implements domain.OrderService
type OrderServiceImpl struct {
	store           domain.OrderStore
	orders          domain.OrderRepository
	restaurants     domain.RestaurantRepository
	publisher       domain.OrderPublisher
	notificationSvc domain.NotificationService
	now             func() time.Time
}

// NewOrderService creates a new order service
func NewOrderService(
	store domain.OrderStore,
	orders domain.OrderRepository,
	restaurants domain.RestaurantRepository,
	publisher domain.OrderPublisher,
	notificationSvc domain.NotificationService,
) domain.OrderService {
	return &OrderServiceImpl{
		store:           store,
		orders:          orders,
		restaurants:     restaurants,
		publisher:       publisher,
		notificationSvc: notificationSvc,
		now:             time.Now,
	}
}

// Get implements domain.OrderService
func (s *OrderServiceImpl) Get(ctx context.Context, id string) (*domain.Order, error) {
	return s.orders.FindByID(ctx, id)
}

// List implements domain.OrderService
func (s *OrderServiceImpl) List(ctx context.Context, filter domain.OrderFilter) ([]*domain.Order, error) {
	return s.orders.List(ctx, filter)
}

// Place implements domain.OrderLifecycle. Stock reservation and the order
// insert commit together; the realtime push happens after commit.
func (s *OrderServiceImpl) Place(ctx context.Context, req domain.PlaceOrderRequest) (*domain.Order, error) {
	lines, err := validatePlaceRequest(req)
	if err != nil {
		return nil, err
	}
	profile, err := s.restaurants.FindProfileByID(ctx, req.RestaurantID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	order := &domain.Order{
		ID:           uuid.NewString(),
		RestaurantID: req.RestaurantID,
		Customer:     req.Customer,
		Status:       domain.OrderPending,
		Notes:        req.Notes,
		StatusHistory: []domain.StatusChange{
			{Status: domain.OrderPending, Note: "order placed", At: now},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}

	err = s.store.WithinOrder(ctx, func(tx domain.OrderTx) error {
		order.Items = order.Items[:0]
		order.TotalPrice = 0
		for _, line := range lines {
			pkg, err := tx.Package(ctx, line.PackageID)
			if err != nil {
				return err
			}
			if pkg.RestaurantID != req.RestaurantID {
				return fmt.Errorf("%w: package %s belongs to another restaurant", domain.ErrOrderInvalid, pkg.ID)
			}
			if !pkg.Available(line.Quantity, now) {
				return fmt.Errorf("%w: %s", domain.ErrPackageUnavailable, pkg.Name)
			}
			if err := tx.Reserve(ctx, pkg.ID, line.Quantity); err != nil {
				return err
			}
			item := domain.OrderItem{
				PackageID:  pkg.ID,
				Name:       pkg.Name,
				Price:      pkg.DiscountedPrice,
				Quantity:   line.Quantity,
				TotalPrice: pkg.DiscountedPrice * float64(line.Quantity),
			}
			order.Items = append(order.Items, item)
			order.TotalPrice += item.TotalPrice
		}
		return tx.CreateOrder(ctx, order)
	})
	if err != nil {
		return nil, err
	}

	log.Printf("[orders] order %s placed for restaurant %s", order.ID, order.RestaurantID)
	s.announce(ctx, order, profile)
	return order, nil
}

// announce pushes the order to the restaurant room and texts the restaurant
// when nobody was listening. Failures are logged; the poll recovers them.
func (s *OrderServiceImpl) announce(ctx context.Context, order *domain.Order, profile *domain.RestaurantProfile) {
	event := domain.NewOrderCreatedEvent(order).WithMessage(fmt.Sprintf("New order from %s", order.Customer.Name))
	delivered, err := s.publisher.PublishOrderCreated(ctx, event)
	if err != nil {
		log.Printf("[orders] publish of order %s failed: %v", order.ID, err)
	}
	if delivered > 0 || profile.Phone == "" {
		return
	}
	msg := notifications.NewOrderNotice(order)
	if err := s.notificationSvc.SendSMS(profile.Phone, msg.SMS); err != nil {
		log.Printf("[orders] new-order SMS to %s failed: %v", profile.Phone, err)
	}
}

// UpdateStatus implements domain.OrderLifecycle
func (s *OrderServiceImpl) UpdateStatus(ctx context.Context, orderID string, status domain.OrderStatus, note string) (*domain.Order, error) {
	if orderID == "" {
		return nil, domain.ErrInvalidPayload
	}

	var updated *domain.Order
	err := s.store.WithinOrder(ctx, func(tx domain.OrderTx) error {
		order, err := tx.Order(ctx, orderID)
		if err != nil {
			return err
		}
		from := order.Status
		if !domain.CanTransition(from, status) {
			return fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, from, status)
		}

		if status == domain.OrderCancelled {
			for _, item := range order.Items {
				if err := tx.Release(ctx, item.PackageID, item.Quantity); err != nil {
					return fmt.Errorf("failed to release %s: %w", item.PackageID, err)
				}
			}
		}

		change := domain.StatusChange{Status: status, Note: note, At: s.now()}
		if err := tx.SaveStatus(ctx, order.ID, from, change); err != nil {
			return err
		}
		order.Status = status
		order.StatusHistory = append(order.StatusHistory, change)
		order.UpdatedAt = change.At
		updated = order
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("[orders] order %s is now %s", updated.ID, updated.Status)
	return updated, nil
}

// validatePlaceRequest checks the request shape and merges repeated packages
func validatePlaceRequest(req domain.PlaceOrderRequest) ([]domain.OrderLine, error) {
	if req.RestaurantID == "" || len(req.Items) == 0 || strings.TrimSpace(req.Customer.Name) == "" {
		return nil, domain.ErrOrderInvalid
	}

	merged := make([]domain.OrderLine, 0, len(req.Items))
	index := make(map[string]int, len(req.Items))
	for _, line := range req.Items {
		if line.PackageID == "" || line.Quantity <= 0 {
			return nil, domain.ErrOrderInvalid
		}
		if i, ok := index[line.PackageID]; ok {
			merged[i].Quantity += line.Quantity
			continue
		}
		index[line.PackageID] = len(merged)
		merged = append(merged, line)
	}
	return merged, nil
}
