package domain

import (
	"context"
	"time"
)

// ApplicationRepository defines application data access operations
type ApplicationRepository interface {
	Create(ctx context.Context, app *Application) error
	FindByID(ctx context.Context, id string) (*Application, error)
	List(ctx context.Context) ([]*Application, error)
	Reject(ctx context.Context, id, reason string, at time.Time) (*Application, error)
	Count(ctx context.Context, status ApplicationStatus) (int64, error)
}

// RestaurantRepository defines read access to restaurant users and profiles
type RestaurantRepository interface {
	FindUserByUsername(ctx context.Context, username string) (*RestaurantUser, error)
	FindUserByID(ctx context.Context, id string) (*RestaurantUser, error)
	FindProfileByUserID(ctx context.Context, userID string) (*RestaurantProfile, error)
	FindProfileByID(ctx context.Context, id string) (*RestaurantProfile, error)
	ListProfiles(ctx context.Context) ([]*RestaurantProfile, error)
	CountUsers(ctx context.Context) (int64, error)
	CountProfiles(ctx context.Context, status string) (int64, error)
}

// CustomerRepository defines customer data access operations
type CustomerRepository interface {
	FindByUsername(ctx context.Context, username string) (*CustomerUser, error)
	Count(ctx context.Context) (int64, error)
}

// PackageFilter narrows package listings; zero fields match everything
type PackageFilter struct {
	RestaurantID string
	Status       PackageStatus
}

// PackageRepository defines package data access operations
type PackageRepository interface {
	Create(ctx context.Context, pkg *Package) error
	FindByID(ctx context.Context, id string) (*Package, error)
	List(ctx context.Context, filter PackageFilter) ([]*Package, error)
	// Update writes pkg only while the stored remaining quantity still equals readRemaining
	Update(ctx context.Context, pkg *Package, readRemaining int) error
	Delete(ctx context.Context, id string, at time.Time) error
	Count(ctx context.Context, status PackageStatus) (int64, error)
}

// OrderFilter narrows order listings; zero fields match everything
type OrderFilter struct {
	RestaurantID string
	Status       OrderStatus
}

// OrderRepository defines read access to orders
type OrderRepository interface {
	FindByID(ctx context.Context, id string) (*Order, error)
	List(ctx context.Context, filter OrderFilter) ([]*Order, error)
	Count(ctx context.Context) (int64, error)
}

// ApprovalTx is the set of writes the approval pipeline performs atomically
type ApprovalTx interface {
	PendingApplication(ctx context.Context, id string) (*Application, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
	CreateUser(ctx context.Context, user *RestaurantUser) error
	CreateProfile(ctx context.Context, profile *RestaurantProfile) error
	MarkApproved(ctx context.Context, applicationID, userID string, at time.Time) error
}

// ApprovalStore runs fn in one transaction; any error from fn rolls back every write
type ApprovalStore interface {
	WithinApproval(ctx context.Context, fn func(tx ApprovalTx) error) error
}

// OrderTx is the set of order and stock writes that must commit together
type OrderTx interface {
	Package(ctx context.Context, id string) (*Package, error)
	Reserve(ctx context.Context, packageID string, qty int) error
	Release(ctx context.Context, packageID string, qty int) error
	CreateOrder(ctx context.Context, order *Order) error
	Order(ctx context.Context, id string) (*Order, error)
	SaveStatus(ctx context.Context, orderID string, from OrderStatus, change StatusChange) error
}

// OrderStore runs fn in one transaction
type OrderStore interface {
	WithinOrder(ctx context.Context, fn func(tx OrderTx) error) error
}

// IdentitySpace resolves credentials against one population of users
type IdentitySpace interface {
	Role() string
	Resolve(ctx context.Context, username, password string) (*Identity, error)
}

// SessionManager defines authentication and memory-only session operations
type SessionManager interface {
	Authenticate(ctx context.Context, username, password, role string) (*AuthResult, error)
	CurrentUser(ctx context.Context, token string) (*Session, error)
	Logout(ctx context.Context, token string) error
}

// LoginThrottle limits repeated failed authentication per username
type LoginThrottle interface {
	Allow(ctx context.Context, username string) (bool, time.Duration, error)
	RecordFailure(ctx context.Context, username string) error
	Reset(ctx context.Context, username string) error
}

// CredentialGenerator derives short, human-typeable credentials from a business name
type CredentialGenerator interface {
	Generate(businessName string) (Credentials, error)
}

// IdentityIssuer converts a pending application into a restaurant identity
type IdentityIssuer interface {
	Approve(ctx context.Context, applicationID string, creds *Credentials) (*ApprovalResult, error)
}

// OrderLine is one requested package in a new order
type OrderLine struct {
	PackageID string
	Quantity  int
}

// PlaceOrderRequest carries everything needed to create an order
type PlaceOrderRequest struct {
	RestaurantID string
	Customer     Customer
	Items        []OrderLine
	Notes        string
}

// OrderLifecycle defines order creation and status transitions
type OrderLifecycle interface {
	Place(ctx context.Context, req PlaceOrderRequest) (*Order, error)
	UpdateStatus(ctx context.Context, orderID string, status OrderStatus, note string) (*Order, error)
}

// OrderService adds read access to the order lifecycle
type OrderService interface {
	OrderLifecycle
	Get(ctx context.Context, id string) (*Order, error)
	List(ctx context.Context, filter OrderFilter) ([]*Order, error)
}

// ApplicationService handles partner applications outside the approval pipeline
type ApplicationService interface {
	Submit(ctx context.Context, app *Application) (*Application, error)
	List(ctx context.Context) ([]*Application, error)
	Reject(ctx context.Context, id, reason string) (*Application, error)
}

// RestaurantDirectory reads restaurants joined with their user and application
type RestaurantDirectory interface {
	List(ctx context.Context) ([]*RestaurantView, error)
	ByUserID(ctx context.Context, userID string) (*RestaurantView, error)
}

// PackagePatch holds the fields an update may change; nil means unchanged
type PackagePatch struct {
	Name              *string
	Description       *string
	OriginalPrice     *float64
	DiscountedPrice   *float64
	Quantity          *int
	RemainingQuantity *int
	AvailableFrom     *time.Time
	AvailableUntil    *time.Time
	Status            *PackageStatus
}

// PackageService manages a restaurant's surplus packages
type PackageService interface {
	Get(ctx context.Context, id string) (*Package, error)
	List(ctx context.Context, filter PackageFilter) ([]*Package, error)
	Add(ctx context.Context, pkg *Package) (*Package, error)
	Update(ctx context.Context, id string, patch PackagePatch) (*Package, error)
	Delete(ctx context.Context, id string) error
}

// StatisticsService computes the admin dashboard counters
type StatisticsService interface {
	Collect(ctx context.Context) (*Statistics, error)
}

// OrderPublisher pushes order events to the restaurant's room
type OrderPublisher interface {
	PublishOrderCreated(ctx context.Context, event *OrderEvent) (int, error)
}

// PasswordService defines password operations
type PasswordService interface {
	Hash(password string) (string, error)
	Verify(hashedPassword, password string) bool
}

// TokenService defines session token operations
type TokenService interface {
	IssueSessionToken(identity Identity, sessionID string, expiresAt time.Time) (string, error)
	ValidateSessionToken(token string) (*TokenClaims, error)
}

// NotificationService defines notification operations
type NotificationService interface {
	SendSMS(to, message string) error
	SendEmail(to, subject, body string) error
}

// PolicyService defines authorization policy operations
type PolicyService interface {
	AddPolicy(role, resource, action string) error
	RemovePolicy(role, resource, action string) error
	CheckPermission(role, resource, action string) (bool, error)
	GetPolicies() [][]string
}

// TokenClaims represents session token claims
type TokenClaims struct {
	UserID    string `json:"user_id"`
	Role      string `json:"role"`
	SessionID string `json:"session_id"`
	IssuedAt  int64  `json:"iat"`
	ExpiresAt int64  `json:"exp"`
}

// CasbinEnforcer interface defines the methods we need from Casbin enforcer
type CasbinEnforcer interface {
	AddPolicy(params ...interface{}) (bool, error)
	RemovePolicy(params ...interface{}) (bool, error)
	Enforce(rvals ...interface{}) (bool, error)
	GetPolicy() ([][]string, error)
	SavePolicy() error
}
