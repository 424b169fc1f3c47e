// Package dispatch routes the closed set of marketplace actions. Every action
// is a Request variant and Handler has one method per variant, so a variant
// without a handler does not compile.
package dispatch

import (
	"context"
	"time"

	"github.com/you/marketsvc/internal/wire"
)

// Action names a dispatch request on the wire
type Action string

const (
	ActionAuthenticate          Action = "authenticate"
	ActionLogout                Action = "logout"
	ActionMe                    Action = "me"
	ActionAddApplication        Action = "addApplication"
	ActionGetApplications       Action = "getApplications"
	ActionApproveApplication    Action = "approveApplication"
	ActionRejectApplication     Action = "rejectApplication"
	ActionGetRestaurants        Action = "getRestaurants"
	ActionGetRestaurantByUserID Action = "getRestaurantByUserId"
	ActionGetPackages           Action = "getPackages"
	ActionAddPackage            Action = "addPackage"
	ActionUpdatePackage         Action = "updatePackage"
	ActionDeletePackage         Action = "deletePackage"
	ActionGetOrders             Action = "getOrders"
	ActionCreateOrder           Action = "createOrder"
	ActionUpdateOrderStatus     Action = "updateOrderStatus"
	ActionGetStatistics         Action = "getStatistics"
)

// Request is implemented only by the request types of this package
type Request interface {
	Action() Action
	visit(ctx context.Context, h Handler, c Caller) (interface{}, error)
}

// Handler serves every Request variant
type Handler interface {
	Authenticate(ctx context.Context, c Caller, r *AuthenticateRequest) (interface{}, error)
	Logout(ctx context.Context, c Caller, r *LogoutRequest) (interface{}, error)
	Me(ctx context.Context, c Caller, r *MeRequest) (interface{}, error)
	AddApplication(ctx context.Context, c Caller, r *AddApplicationRequest) (interface{}, error)
	GetApplications(ctx context.Context, c Caller, r *GetApplicationsRequest) (interface{}, error)
	ApproveApplication(ctx context.Context, c Caller, r *ApproveApplicationRequest) (interface{}, error)
	RejectApplication(ctx context.Context, c Caller, r *RejectApplicationRequest) (interface{}, error)
	GetRestaurants(ctx context.Context, c Caller, r *GetRestaurantsRequest) (interface{}, error)
	GetRestaurantByUserID(ctx context.Context, c Caller, r *GetRestaurantByUserIDRequest) (interface{}, error)
	GetPackages(ctx context.Context, c Caller, r *GetPackagesRequest) (interface{}, error)
	AddPackage(ctx context.Context, c Caller, r *AddPackageRequest) (interface{}, error)
	UpdatePackage(ctx context.Context, c Caller, r *UpdatePackageRequest) (interface{}, error)
	DeletePackage(ctx context.Context, c Caller, r *DeletePackageRequest) (interface{}, error)
	GetOrders(ctx context.Context, c Caller, r *GetOrdersRequest) (interface{}, error)
	CreateOrder(ctx context.Context, c Caller, r *CreateOrderRequest) (interface{}, error)
	UpdateOrderStatus(ctx context.Context, c Caller, r *UpdateOrderStatusRequest) (interface{}, error)
	GetStatistics(ctx context.Context, c Caller, r *GetStatisticsRequest) (interface{}, error)
}

type AuthenticateRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role,omitempty"`
}

type LogoutRequest struct{}

type MeRequest struct{}

type AddApplicationRequest struct {
	OwnerName    string `json:"ownerName"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	BusinessName string `json:"businessName"`
	Category     string `json:"category"`
	Address      string `json:"address"`
	City         string `json:"city"`
	Description  string `json:"description"`
}

type GetApplicationsRequest struct{}

// Credentials are optional on approval; missing ones are generated
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type ApproveApplicationRequest struct {
	ApplicationID string       `json:"applicationId"`
	Credentials   *Credentials `json:"credentials,omitempty"`
}

type RejectApplicationRequest struct {
	ApplicationID string `json:"applicationId"`
	Reason        string `json:"reason"`
}

type GetRestaurantsRequest struct{}

type GetRestaurantByUserIDRequest struct {
	UserID string `json:"userId"`
}

type GetPackagesRequest struct {
	RestaurantID string `json:"restaurantId,omitempty"`
	Status       string `json:"status,omitempty"`
}

type AddPackageRequest struct {
	RestaurantID      string     `json:"restaurantId"`
	Name              string     `json:"name"`
	Description       string     `json:"description"`
	OriginalPrice     float64    `json:"originalPrice"`
	DiscountedPrice   float64    `json:"discountedPrice"`
	Quantity          int        `json:"quantity"`
	RemainingQuantity int        `json:"remainingQuantity"`
	AvailableFrom     *time.Time `json:"availableFrom,omitempty"`
	AvailableUntil    *time.Time `json:"availableUntil,omitempty"`
}

type UpdatePackageRequest struct {
	PackageID         string     `json:"packageId"`
	Name              *string    `json:"name,omitempty"`
	Description       *string    `json:"description,omitempty"`
	OriginalPrice     *float64   `json:"originalPrice,omitempty"`
	DiscountedPrice   *float64   `json:"discountedPrice,omitempty"`
	Quantity          *int       `json:"quantity,omitempty"`
	RemainingQuantity *int       `json:"remainingQuantity,omitempty"`
	AvailableFrom     *time.Time `json:"availableFrom,omitempty"`
	AvailableUntil    *time.Time `json:"availableUntil,omitempty"`
	Status            *string    `json:"status,omitempty"`
}

type DeletePackageRequest struct {
	PackageID string `json:"packageId"`
}

type GetOrdersRequest struct {
	RestaurantID string `json:"restaurantId,omitempty"`
	Status       string `json:"status,omitempty"`
}

type OrderLine struct {
	PackageID string `json:"packageId"`
	Quantity  int    `json:"quantity"`
}

type CreateOrderRequest struct {
	RestaurantID string        `json:"restaurantId"`
	Customer     wire.Customer `json:"customer"`
	Items        []OrderLine   `json:"items"`
	Notes        string        `json:"notes,omitempty"`
}

type UpdateOrderStatusRequest struct {
	OrderID string `json:"orderId"`
	Status  string `json:"status"`
	Note    string `json:"note,omitempty"`
}

type GetStatisticsRequest struct{}

func (*AuthenticateRequest) Action() Action          { return ActionAuthenticate }
func (*LogoutRequest) Action() Action                { return ActionLogout }
func (*MeRequest) Action() Action                    { return ActionMe }
func (*AddApplicationRequest) Action() Action        { return ActionAddApplication }
func (*GetApplicationsRequest) Action() Action       { return ActionGetApplications }
func (*ApproveApplicationRequest) Action() Action    { return ActionApproveApplication }
func (*RejectApplicationRequest) Action() Action     { return ActionRejectApplication }
func (*GetRestaurantsRequest) Action() Action        { return ActionGetRestaurants }
func (*GetRestaurantByUserIDRequest) Action() Action { return ActionGetRestaurantByUserID }
func (*GetPackagesRequest) Action() Action           { return ActionGetPackages }
func (*AddPackageRequest) Action() Action            { return ActionAddPackage }
func (*UpdatePackageRequest) Action() Action         { return ActionUpdatePackage }
func (*DeletePackageRequest) Action() Action         { return ActionDeletePackage }
func (*GetOrdersRequest) Action() Action             { return ActionGetOrders }
func (*CreateOrderRequest) Action() Action           { return ActionCreateOrder }
func (*UpdateOrderStatusRequest) Action() Action     { return ActionUpdateOrderStatus }
func (*GetStatisticsRequest) Action() Action         { return ActionGetStatistics }

func (r *AuthenticateRequest) visit(ctx context.Context, h Handler, c Caller) (interface{}, error) {
	return h.Authenticate(ctx, c, r)
}

func (r *LogoutRequest) visit(ctx context.Context, h Handler, c Caller) (interface{}, error) {
	return h.Logout(ctx, c, r)
}

func (r *MeRequest) visit(ctx context.Context, h Handler, c Caller) (interface{}, error) {
	return h.Me(ctx, c, r)
}

func (r *AddApplicationRequest) visit(ctx context.Context, h Handler, c Caller) (interface{}, error) {
	return h.AddApplication(ctx, c, r)
}

func (r *GetApplicationsRequest) visit(ctx context.Context, h Handler, c Caller) (interface{}, error) {
	return h.GetApplications(ctx, c, r)
}

func (r *ApproveApplicationRequest) visit(ctx context.Context, h Handler, c Caller) (interface{}, error) {
	return h.ApproveApplication(ctx, c, r)
}

func (r *RejectApplicationRequest) visit(ctx context.Context, h Handler, c Caller) (interface{}, error) {
	return h.RejectApplication(ctx, c, r)
}

func (r *GetRestaurantsRequest) visit(ctx context.Context, h Handler, c Caller) (interface{}, error) {
	return h.GetRestaurants(ctx, c, r)
}

func (r *GetRestaurantByUserIDRequest) visit(ctx context.Context, h Handler, c Caller) (interface{}, error) {
	return h.GetRestaurantByUserID(ctx, c, r)
}

func (r *GetPackagesRequest) visit(ctx context.Context, h Handler, c Caller) (interface{}, error) {
	return h.GetPackages(ctx, c, r)
}

func (r *AddPackageRequest) visit(ctx context.Context, h Handler, c Caller) (interface{}, error) {
	return h.AddPackage(ctx, c, r)
}

func (r *UpdatePackageRequest) visit(ctx context.Context, h Handler, c Caller) (interface{}, error) {
	return h.UpdatePackage(ctx, c, r)
}

func (r *DeletePackageRequest) visit(ctx context.Context, h Handler, c Caller) (interface{}, error) {
	return h.DeletePackage(ctx, c, r)
}

func (r *GetOrdersRequest) visit(ctx context.Context, h Handler, c Caller) (interface{}, error) {
	return h.GetOrders(ctx, c, r)
}

func (r *CreateOrderRequest) visit(ctx context.Context, h Handler, c Caller) (interface{}, error) {
	return h.CreateOrder(ctx, c, r)
}

func (r *UpdateOrderStatusRequest) visit(ctx context.Context, h Handler, c Caller) (interface{}, error) {
	return h.UpdateOrderStatus(ctx, c, r)
}

func (r *GetStatisticsRequest) visit(ctx context.Context, h Handler, c Caller) (interface{}, error) {
	return h.GetStatistics(ctx, c, r)
}
