package domain

import "time"

// Roles known to the identity spaces and the policy model
const (
	RoleAdmin      = "admin"
	RoleRestaurant = "restaurant"
	RoleCustomer   = "customer"
	RoleGuest      = "guest"
)

// Record status shared by users and profiles
const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

// ApplicationStatus is the review state of a partner application
type ApplicationStatus string

const (
	ApplicationPending  ApplicationStatus = "pending"
	ApplicationApproved ApplicationStatus = "approved"
	ApplicationRejected ApplicationStatus = "rejected"
)

// Application represents a prospective partner's onboarding request
type Application struct {
	ID               string
	OwnerName        string
	Email            string
	Phone            string
	BusinessName     string
	Category         string
	Address          string
	City             string
	Description      string
	Status           ApplicationStatus
	RestaurantUserID string
	RejectReason     string
	ApprovedAt       *time.Time
	ReviewedAt       *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// RestaurantUser is the login identity issued for an approved application
type RestaurantUser struct {
	ID            string
	Username      string
	PasswordHash  string
	Role          string
	Status        string
	Email         string
	Phone         string
	ApplicationID string
	CreatedAt     time.Time
}

// RestaurantProfile is the public business record paired with a RestaurantUser
type RestaurantProfile struct {
	ID            string
	UserID        string
	ApplicationID string
	BusinessName  string
	Category      string
	Address       string
	Email         string
	Phone         string
	Description   string
	BusinessHours string
	Status        string
	IsVisible     bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// RestaurantView joins a profile with its user and source application
type RestaurantView struct {
	Profile     *RestaurantProfile
	User        *RestaurantUser
	Application *Application
}

// CustomerUser represents an end customer of the marketplace
type CustomerUser struct {
	ID           string
	Username     string
	PasswordHash string
	Name         string
	Email        string
	Phone        string
	Status       string
	CreatedAt    time.Time
}

// PackageStatus is the sale state of a surplus package
type PackageStatus string

const (
	PackageActive   PackageStatus = "active"
	PackageInactive PackageStatus = "inactive"
	PackageSoldOut  PackageStatus = "sold_out"
	PackageExpired  PackageStatus = "expired"
	PackageDeleted  PackageStatus = "deleted"
)

// Package is a discounted bundle of surplus food offered by a restaurant
type Package struct {
	ID                string
	RestaurantID      string
	Name              string
	Description       string
	OriginalPrice     float64
	DiscountedPrice   float64
	Quantity          int
	RemainingQuantity int
	AvailableFrom     time.Time
	AvailableUntil    time.Time
	Status            PackageStatus
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Validate checks the quantity and price invariants of a package
func (p *Package) Validate() error {
	if p.RestaurantID == "" || p.Name == "" {
		return ErrPackageInvalid
	}
	if p.Quantity < 0 || p.RemainingQuantity < 0 || p.RemainingQuantity > p.Quantity {
		return ErrQuantityOutOfRange
	}
	if p.DiscountedPrice < 0 || p.OriginalPrice < 0 {
		return ErrPackageInvalid
	}
	if !p.AvailableFrom.IsZero() && !p.AvailableUntil.IsZero() && p.AvailableUntil.Before(p.AvailableFrom) {
		return ErrPackageInvalid
	}
	return nil
}

// Available reports whether qty units can be sold at time now
func (p *Package) Available(qty int, now time.Time) bool {
	if p.Status != PackageActive || qty <= 0 || qty > p.RemainingQuantity {
		return false
	}
	if !p.AvailableUntil.IsZero() && now.After(p.AvailableUntil) {
		return false
	}
	return true
}

// Customer holds the contact details copied into an order
type Customer struct {
	ID    string
	Name  string
	Email string
	Phone string
}

// OrderItem is one package line of an order
type OrderItem struct {
	PackageID  string
	Name       string
	Price      float64
	Quantity   int
	TotalPrice float64
}

// StatusChange records one lifecycle step of an order
type StatusChange struct {
	Status OrderStatus
	Note   string
	At     time.Time
}

// Order is a customer's reservation of one or more packages
type Order struct {
	ID            string
	RestaurantID  string
	Customer      Customer
	Items         []OrderItem
	TotalPrice    float64
	Status        OrderStatus
	Notes         string
	StatusHistory []StatusChange
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Identity is an authenticated principal resolved from one identity space
type Identity struct {
	UserID       string
	Username     string
	Role         string
	DisplayName  string
	RestaurantID string
}

// Credentials are the username and plaintext password handed to a new restaurant
type Credentials struct {
	Username string
	Password string
}

// Session represents an authenticated, memory-only session
type Session struct {
	ID        string
	Token     string
	Identity  Identity
	ExpiresAt time.Time
	CreatedAt time.Time
}

// Expired reports whether the session is past its deadline at now
func (s *Session) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}

// AuthResult represents authentication outcome
type AuthResult struct {
	Identity   Identity
	Restaurant *RestaurantProfile
	Token      string
	SessionID  string
	ExpiresAt  time.Time
}

// ApprovalResult is what the approval pipeline produced
type ApprovalResult struct {
	Application *Application
	User        *RestaurantUser
	Profile     *RestaurantProfile
	Credentials Credentials
}

// Statistics summarises the marketplace for the admin dashboard
type Statistics struct {
	TotalApplications    int64
	PendingApplications  int64
	ApprovedApplications int64
	ActiveRestaurants    int64
	TotalUsers           int64
	TotalPackages        int64
	ActivePackages       int64
	TotalOrders          int64
}
