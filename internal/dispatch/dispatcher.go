package dispatch

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/you/marketsvc/domain"
	"github.com/you/marketsvc/internal/infrastructure/auth"
	"github.com/you/marketsvc/internal/wire"
)

// Caller is who sent a request. Session is nil for guests.
type Caller struct {
	Token   string
	Session *domain.Session
}

// Role returns the caller's role; guests have domain.RoleGuest
func (c Caller) Role() string {
	if c.Session == nil {
		return domain.RoleGuest
	}
	return c.Session.Identity.Role
}

// UserID returns the authenticated user id, or "" for guests
func (c Caller) UserID() string {
	if c.Session == nil {
		return ""
	}
	return c.Session.Identity.UserID
}

// RestaurantID returns the restaurant a restaurant caller acts for
func (c Caller) RestaurantID() string {
	if c.Session == nil {
		return ""
	}
	return c.Session.Identity.RestaurantID
}

func (c Caller) isRestaurant() bool { return c.Role() == domain.RoleRestaurant }

// Services are the collaborators the dispatcher routes to
type Services struct {
	Sessions     domain.SessionManager
	Issuer       domain.IdentityIssuer
	Applications domain.ApplicationService
	Restaurants  domain.RestaurantDirectory
	Packages     domain.PackageService
	Orders       domain.OrderService
	Statistics   domain.StatisticsService
}

// Dispatcher resolves the caller, checks the action against policy and
// routes the request to its handler.
type Dispatcher struct {
	svc    Services
	policy domain.PolicyService
}

// NewDispatcher creates a dispatcher over svc guarded by policy
func NewDispatcher(svc Services, policy domain.PolicyService) *Dispatcher {
	return &Dispatcher{svc: svc, policy: policy}
}

var _ Handler = (*Dispatcher)(nil)

// Dispatch decodes and serves one action for the session token
func (d *Dispatcher) Dispatch(ctx context.Context, action string, data json.RawMessage, token string) (interface{}, error) {
	req, err := Decode(action, data)
	if err != nil {
		return nil, err
	}
	return d.Serve(ctx, req, token)
}

// Serve runs an already decoded request
func (d *Dispatcher) Serve(ctx context.Context, req Request, token string) (interface{}, error) {
	caller, sessionErr := d.caller(ctx, token)

	allowed, err := d.policy.CheckPermission(caller.Role(), string(req.Action()), auth.ActDispatch)
	if err != nil {
		return nil, fmt.Errorf("failed to check permission: %w", err)
	}
	if !allowed {
		switch {
		case sessionErr != nil:
			return nil, sessionErr
		case caller.Session == nil:
			return nil, domain.ErrUnauthorized
		}
		log.Printf("[dispatch] %s denied for %s %s", req.Action(), caller.Role(), caller.UserID())
		return nil, domain.ErrForbidden
	}

	result, err := req.visit(ctx, d, caller)
	if err != nil && domain.KindOf(err) == domain.KindInternal {
		log.Printf("[dispatch] %s failed: %v", req.Action(), err)
	}
	return result, err
}

// caller resolves token to a session. A bad token makes the caller a guest;
// the session error is kept for actions guests may not run.
func (d *Dispatcher) caller(ctx context.Context, token string) (Caller, error) {
	if token == "" {
		return Caller{}, nil
	}
	session, err := d.svc.Sessions.CurrentUser(ctx, token)
	if err != nil {
		return Caller{}, err
	}
	return Caller{Token: token, Session: session}, nil
}

// ownRestaurant confines restaurant callers to their own restaurant
func ownRestaurant(c Caller, restaurantID string) error {
	if c.isRestaurant() && restaurantID != c.RestaurantID() {
		return domain.ErrForbidden
	}
	return nil
}

func (d *Dispatcher) Authenticate(ctx context.Context, _ Caller, r *AuthenticateRequest) (interface{}, error) {
	result, err := d.svc.Sessions.Authenticate(ctx, strings.TrimSpace(r.Username), r.Password, r.Role)
	if err != nil {
		return nil, err
	}
	return wire.FromAuthResult(result), nil
}

func (d *Dispatcher) Logout(ctx context.Context, c Caller, _ *LogoutRequest) (interface{}, error) {
	if err := d.svc.Sessions.Logout(ctx, c.Token); err != nil {
		return nil, err
	}
	return map[string]bool{"loggedOut": true}, nil
}

func (d *Dispatcher) Me(_ context.Context, c Caller, _ *MeRequest) (interface{}, error) {
	if c.Session == nil {
		return nil, domain.ErrUnauthorized
	}
	return wire.FromSession(c.Session), nil
}

func (d *Dispatcher) AddApplication(ctx context.Context, _ Caller, r *AddApplicationRequest) (interface{}, error) {
	app, err := d.svc.Applications.Submit(ctx, &domain.Application{
		OwnerName:    strings.TrimSpace(r.OwnerName),
		Email:        r.Email,
		Phone:        strings.TrimSpace(r.Phone),
		BusinessName: r.BusinessName,
		Category:     r.Category,
		Address:      r.Address,
		City:         r.City,
		Description:  r.Description,
	})
	if err != nil {
		return nil, err
	}
	return wire.FromApplication(app), nil
}

func (d *Dispatcher) GetApplications(ctx context.Context, _ Caller, _ *GetApplicationsRequest) (interface{}, error) {
	apps, err := d.svc.Applications.List(ctx)
	if err != nil {
		return nil, err
	}
	return wire.FromApplications(apps), nil
}

func (d *Dispatcher) ApproveApplication(ctx context.Context, _ Caller, r *ApproveApplicationRequest) (interface{}, error) {
	if r.ApplicationID == "" {
		return nil, fmt.Errorf("%w: applicationId is required", domain.ErrInvalidPayload)
	}
	var creds *domain.Credentials
	if r.Credentials != nil && (r.Credentials.Username != "" || r.Credentials.Password != "") {
		creds = &domain.Credentials{
			Username: strings.TrimSpace(r.Credentials.Username),
			Password: r.Credentials.Password,
		}
	}
	result, err := d.svc.Issuer.Approve(ctx, r.ApplicationID, creds)
	if err != nil {
		return nil, err
	}
	return wire.FromApproval(result), nil
}

func (d *Dispatcher) RejectApplication(ctx context.Context, _ Caller, r *RejectApplicationRequest) (interface{}, error) {
	app, err := d.svc.Applications.Reject(ctx, r.ApplicationID, r.Reason)
	if err != nil {
		return nil, err
	}
	return wire.FromApplication(app), nil
}

func (d *Dispatcher) GetRestaurants(ctx context.Context, _ Caller, _ *GetRestaurantsRequest) (interface{}, error) {
	views, err := d.svc.Restaurants.List(ctx)
	if err != nil {
		return nil, err
	}
	return wire.FromRestaurants(views), nil
}

func (d *Dispatcher) GetRestaurantByUserID(ctx context.Context, c Caller, r *GetRestaurantByUserIDRequest) (interface{}, error) {
	userID := r.UserID
	if userID == "" && c.isRestaurant() {
		userID = c.UserID()
	}
	if userID == "" {
		return nil, fmt.Errorf("%w: userId is required", domain.ErrInvalidPayload)
	}
	view, err := d.svc.Restaurants.ByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return wire.FromRestaurant(view), nil
}

// GetPackages lists packages. Restaurants default to their own; everyone
// else only sees packages on sale unless a status is asked for.
func (d *Dispatcher) GetPackages(ctx context.Context, c Caller, r *GetPackagesRequest) (interface{}, error) {
	filter := domain.PackageFilter{RestaurantID: r.RestaurantID, Status: domain.PackageStatus(r.Status)}
	if c.isRestaurant() && filter.RestaurantID == "" {
		filter.RestaurantID = c.RestaurantID()
	}
	if filter.Status == "" && !c.isRestaurant() && c.Role() != domain.RoleAdmin {
		filter.Status = domain.PackageActive
	}
	pkgs, err := d.svc.Packages.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return wire.FromPackages(pkgs), nil
}

func (d *Dispatcher) AddPackage(ctx context.Context, c Caller, r *AddPackageRequest) (interface{}, error) {
	restaurantID := r.RestaurantID
	if c.isRestaurant() {
		if restaurantID == "" {
			restaurantID = c.RestaurantID()
		}
		if err := ownRestaurant(c, restaurantID); err != nil {
			return nil, err
		}
	}
	pkg := &domain.Package{
		RestaurantID:      restaurantID,
		Name:              strings.TrimSpace(r.Name),
		Description:       r.Description,
		OriginalPrice:     r.OriginalPrice,
		DiscountedPrice:   r.DiscountedPrice,
		Quantity:          r.Quantity,
		RemainingQuantity: r.RemainingQuantity,
	}
	if r.AvailableFrom != nil {
		pkg.AvailableFrom = *r.AvailableFrom
	}
	if r.AvailableUntil != nil {
		pkg.AvailableUntil = *r.AvailableUntil
	}
	created, err := d.svc.Packages.Add(ctx, pkg)
	if err != nil {
		return nil, err
	}
	return wire.FromPackage(created), nil
}

func (d *Dispatcher) UpdatePackage(ctx context.Context, c Caller, r *UpdatePackageRequest) (interface{}, error) {
	if err := d.checkPackageOwner(ctx, c, r.PackageID); err != nil {
		return nil, err
	}
	patch := domain.PackagePatch{
		Name:              r.Name,
		Description:       r.Description,
		OriginalPrice:     r.OriginalPrice,
		DiscountedPrice:   r.DiscountedPrice,
		Quantity:          r.Quantity,
		RemainingQuantity: r.RemainingQuantity,
		AvailableFrom:     r.AvailableFrom,
		AvailableUntil:    r.AvailableUntil,
	}
	if r.Status != nil {
		status := domain.PackageStatus(*r.Status)
		patch.Status = &status
	}
	updated, err := d.svc.Packages.Update(ctx, r.PackageID, patch)
	if err != nil {
		return nil, err
	}
	return wire.FromPackage(updated), nil
}

func (d *Dispatcher) DeletePackage(ctx context.Context, c Caller, r *DeletePackageRequest) (interface{}, error) {
	if err := d.checkPackageOwner(ctx, c, r.PackageID); err != nil {
		return nil, err
	}
	if err := d.svc.Packages.Delete(ctx, r.PackageID); err != nil {
		return nil, err
	}
	return map[string]string{"packageId": r.PackageID}, nil
}

func (d *Dispatcher) checkPackageOwner(ctx context.Context, c Caller, packageID string) error {
	if packageID == "" {
		return fmt.Errorf("%w: packageId is required", domain.ErrInvalidPayload)
	}
	pkg, err := d.svc.Packages.Get(ctx, packageID)
	if err != nil {
		return err
	}
	return ownRestaurant(c, pkg.RestaurantID)
}

func (d *Dispatcher) GetOrders(ctx context.Context, c Caller, r *GetOrdersRequest) (interface{}, error) {
	filter := domain.OrderFilter{RestaurantID: r.RestaurantID}
	if c.isRestaurant() {
		if filter.RestaurantID == "" {
			filter.RestaurantID = c.RestaurantID()
		}
		if err := ownRestaurant(c, filter.RestaurantID); err != nil {
			return nil, err
		}
	}
	if r.Status != "" {
		status, err := domain.ParseOrderStatus(r.Status)
		if err != nil {
			return nil, err
		}
		filter.Status = status
	}
	orders, err := d.svc.Orders.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return wire.FromOrders(orders), nil
}

func (d *Dispatcher) CreateOrder(ctx context.Context, c Caller, r *CreateOrderRequest) (interface{}, error) {
	customer := domain.Customer{
		ID:    c.UserID(),
		Name:  strings.TrimSpace(r.Customer.Name),
		Email: r.Customer.Email,
		Phone: r.Customer.Phone,
	}
	if customer.Name == "" && c.Session != nil {
		customer.Name = c.Session.Identity.DisplayName
	}
	lines := make([]domain.OrderLine, 0, len(r.Items))
	for _, item := range r.Items {
		lines = append(lines, domain.OrderLine{PackageID: item.PackageID, Quantity: item.Quantity})
	}
	order, err := d.svc.Orders.Place(ctx, domain.PlaceOrderRequest{
		RestaurantID: r.RestaurantID,
		Customer:     customer,
		Items:        lines,
		Notes:        r.Notes,
	})
	if err != nil {
		return nil, err
	}
	return wire.FromOrder(order), nil
}

func (d *Dispatcher) UpdateOrderStatus(ctx context.Context, c Caller, r *UpdateOrderStatusRequest) (interface{}, error) {
	if r.OrderID == "" {
		return nil, fmt.Errorf("%w: orderId is required", domain.ErrInvalidPayload)
	}
	status, err := domain.ParseOrderStatus(r.Status)
	if err != nil {
		return nil, err
	}
	if c.isRestaurant() {
		order, err := d.svc.Orders.Get(ctx, r.OrderID)
		if err != nil {
			return nil, err
		}
		if err := ownRestaurant(c, order.RestaurantID); err != nil {
			return nil, err
		}
	}
	order, err := d.svc.Orders.UpdateStatus(ctx, r.OrderID, status, r.Note)
	if err != nil {
		return nil, err
	}
	return wire.FromOrder(order), nil
}

func (d *Dispatcher) GetStatistics(ctx context.Context, _ Caller, _ *GetStatisticsRequest) (interface{}, error) {
	stats, err := d.svc.Statistics.Collect(ctx)
	if err != nil {
		return nil, err
	}
	return wire.FromStatistics(stats), nil
}
