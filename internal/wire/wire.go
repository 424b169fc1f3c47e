// Package wire holds the JSON shapes shared by the HTTP dispatcher, the
// realtime socket and the restaurant panel client.
package wire

import (
	"encoding/json"
	"time"
)

// Request is the dispatch request body
type Request struct {
	Action    string          `json:"action"`
	Data      json.RawMessage `json:"data,omitempty"`
	SessionID string          `json:"sessionId,omitempty"`
}

// Response is the dispatch response body
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Code    string      `json:"code,omitempty"`
}

// RawResponse is Response as seen by a client before Data is decoded
type RawResponse struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   string          `json:"error,omitempty"`
	Code    string          `json:"code,omitempty"`
}

// Envelope frames every realtime socket message
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// Connect is the payload of restaurant-connect
type Connect struct {
	RestaurantID string `json:"restaurantId"`
	SessionID    string `json:"sessionId"`
}

// OrderPush is the payload of an order-created event
type OrderPush struct {
	Order   Order  `json:"order"`
	Message string `json:"message,omitempty"`
}

type Customer struct {
	ID    string `json:"id,omitempty"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
}

type OrderItem struct {
	PackageID  string  `json:"packageId"`
	Name       string  `json:"name"`
	Price      float64 `json:"price"`
	Quantity   int     `json:"quantity"`
	TotalPrice float64 `json:"totalPrice"`
}

type StatusChange struct {
	Status string    `json:"status"`
	Note   string    `json:"note,omitempty"`
	At     time.Time `json:"at"`
}

type Order struct {
	ID            string         `json:"id"`
	RestaurantID  string         `json:"restaurantId"`
	Customer      Customer       `json:"customer"`
	Items         []OrderItem    `json:"items"`
	TotalPrice    float64        `json:"totalPrice"`
	Status        string         `json:"status"`
	Notes         string         `json:"notes,omitempty"`
	StatusHistory []StatusChange `json:"statusHistory,omitempty"`
	CreatedAt     time.Time      `json:"createdAt"`
	UpdatedAt     time.Time      `json:"updatedAt"`
}

type Application struct {
	ID               string     `json:"id"`
	OwnerName        string     `json:"ownerName"`
	Email            string     `json:"email"`
	Phone            string     `json:"phone,omitempty"`
	BusinessName     string     `json:"businessName"`
	Category         string     `json:"category,omitempty"`
	Address          string     `json:"address,omitempty"`
	City             string     `json:"city,omitempty"`
	Description      string     `json:"description,omitempty"`
	Status           string     `json:"status"`
	RestaurantUserID string     `json:"restaurantUserId,omitempty"`
	RejectReason     string     `json:"rejectReason,omitempty"`
	ApprovedAt       *time.Time `json:"approvedAt,omitempty"`
	ReviewedAt       *time.Time `json:"reviewedAt,omitempty"`
	CreatedAt        time.Time  `json:"createdAt"`
	UpdatedAt        time.Time  `json:"updatedAt"`
}

// User never carries the password hash
type User struct {
	ID            string    `json:"id"`
	Username      string    `json:"username"`
	Role          string    `json:"role"`
	Status        string    `json:"status"`
	Email         string    `json:"email,omitempty"`
	Phone         string    `json:"phone,omitempty"`
	ApplicationID string    `json:"applicationId,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
}

type Profile struct {
	ID            string    `json:"id"`
	UserID        string    `json:"userId"`
	ApplicationID string    `json:"applicationId,omitempty"`
	BusinessName  string    `json:"businessName"`
	Category      string    `json:"category,omitempty"`
	Address       string    `json:"address,omitempty"`
	Email         string    `json:"email,omitempty"`
	Phone         string    `json:"phone,omitempty"`
	Description   string    `json:"description,omitempty"`
	BusinessHours string    `json:"businessHours,omitempty"`
	Status        string    `json:"status"`
	IsVisible     bool      `json:"isVisible"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// Restaurant is a profile joined with its user and application
type Restaurant struct {
	Profile
	User        *User        `json:"user,omitempty"`
	Application *Application `json:"application,omitempty"`
}

type Package struct {
	ID                string    `json:"id"`
	RestaurantID      string    `json:"restaurantId"`
	Name              string    `json:"name"`
	Description       string    `json:"description,omitempty"`
	OriginalPrice     float64   `json:"originalPrice"`
	DiscountedPrice   float64   `json:"discountedPrice"`
	Quantity          int       `json:"quantity"`
	RemainingQuantity int       `json:"remainingQuantity"`
	AvailableFrom     time.Time `json:"availableFrom,omitempty"`
	AvailableUntil    time.Time `json:"availableUntil,omitempty"`
	Status            string    `json:"status"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

// Session is returned by authenticate and me
type Session struct {
	Token        string    `json:"token,omitempty"`
	SessionID    string    `json:"sessionId,omitempty"`
	ExpiresAt    time.Time `json:"expiresAt"`
	UserID       string    `json:"userId"`
	Username     string    `json:"username"`
	Role         string    `json:"role"`
	DisplayName  string    `json:"displayName,omitempty"`
	RestaurantID string    `json:"restaurantId,omitempty"`
	Restaurant   *Profile  `json:"restaurant,omitempty"`
}

// Approval is returned by approveApplication; credentials are shown once
type Approval struct {
	Application Application `json:"application"`
	User        User        `json:"user"`
	Profile     Profile     `json:"profile"`
	Username    string      `json:"username"`
	Password    string      `json:"password"`
}

type Statistics struct {
	TotalApplications    int64 `json:"totalApplications"`
	PendingApplications  int64 `json:"pendingApplications"`
	ApprovedApplications int64 `json:"approvedApplications"`
	ActiveRestaurants    int64 `json:"activeRestaurants"`
	TotalUsers           int64 `json:"totalUsers"`
	TotalPackages        int64 `json:"totalPackages"`
	ActivePackages       int64 `json:"activePackages"`
	TotalOrders          int64 `json:"totalOrders"`
}
