package repositories

import (
	"time"

	"github.com/you/marketsvc/domain"
)

// DBApplication represents the database model for Application (with GORM tags)
type DBApplication struct {
	ID               string `gorm:"primaryKey;size:36"`
	OwnerName        string `gorm:"size:255"`
	Email            string `gorm:"index;size:255"`
	Phone            string `gorm:"size:32"`
	BusinessName     string `gorm:"size:255"`
	Category         string `gorm:"size:64"`
	Address          string
	City             string `gorm:"size:128"`
	Description      string
	Status           string `gorm:"index;size:16"`
	RestaurantUserID string `gorm:"size:36"`
	RejectReason     string
	ApprovedAt       *time.Time
	ReviewedAt       *time.Time
	CreatedAt        time.Time `gorm:"index"`
	UpdatedAt        time.Time
}

// TableName returns the table name for GORM
func (DBApplication) TableName() string {
	return "applications"
}

// DBRestaurantUser represents the database model for RestaurantUser
type DBRestaurantUser struct {
	ID            string `gorm:"primaryKey;size:36"`
	Username      string `gorm:"uniqueIndex;size:64"`
	PasswordHash  string `gorm:"column:password"`
	Role          string `gorm:"size:32"`
	Status        string `gorm:"index;size:16"`
	Email         string `gorm:"size:255"`
	Phone         string `gorm:"size:32"`
	ApplicationID string `gorm:"uniqueIndex;size:36"`
	CreatedAt     time.Time
}

// TableName returns the table name for GORM
func (DBRestaurantUser) TableName() string {
	return "restaurant_users"
}

// DBRestaurantProfile represents the database model for RestaurantProfile
type DBRestaurantProfile struct {
	ID            string `gorm:"primaryKey;size:36"`
	UserID        string `gorm:"uniqueIndex;size:36"`
	ApplicationID string `gorm:"uniqueIndex;size:36"`
	BusinessName  string `gorm:"size:255"`
	Category      string `gorm:"size:64"`
	Address       string
	Email         string `gorm:"size:255"`
	Phone         string `gorm:"size:32"`
	Description   string
	BusinessHours string `gorm:"size:255"`
	Status        string `gorm:"index;size:16"`
	IsVisible     bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// TableName returns the table name for GORM
func (DBRestaurantProfile) TableName() string {
	return "restaurant_profiles"
}

// DBCustomerUser represents the database model for CustomerUser
type DBCustomerUser struct {
	ID           string `gorm:"primaryKey;size:36"`
	Username     string `gorm:"uniqueIndex;size:64"`
	PasswordHash string `gorm:"column:password"`
	Name         string `gorm:"size:255"`
	Email        string `gorm:"size:255"`
	Phone        string `gorm:"size:32"`
	Status       string `gorm:"index;size:16"`
	CreatedAt    time.Time
}

// TableName returns the table name for GORM
func (DBCustomerUser) TableName() string {
	return "customer_users"
}

// DBPackage represents the database model for Package
type DBPackage struct {
	ID                string `gorm:"primaryKey;size:36"`
	RestaurantID      string `gorm:"index;size:36"`
	Name              string `gorm:"size:255"`
	Description       string
	OriginalPrice     float64
	DiscountedPrice   float64
	Quantity          int
	RemainingQuantity int
	AvailableFrom     time.Time
	AvailableUntil    time.Time
	Status            string `gorm:"index;size:16"`
	DeletedAt         *time.Time
	CreatedAt         time.Time `gorm:"index"`
	UpdatedAt         time.Time
}

// TableName returns the table name for GORM
func (DBPackage) TableName() string {
	return "packages"
}

// DBOrder represents the database model for Order; items and history are stored as JSON
type DBOrder struct {
	ID            string `gorm:"primaryKey;size:36"`
	RestaurantID  string `gorm:"index;size:36"`
	CustomerID    string `gorm:"size:64"`
	CustomerName  string `gorm:"size:255"`
	CustomerEmail string `gorm:"size:255"`
	CustomerPhone string `gorm:"size:32"`
	Items         []dbOrderItem    `gorm:"serializer:json"`
	TotalPrice    float64
	Status        string           `gorm:"index;size:16"`
	Notes         string
	StatusHistory []dbStatusChange `gorm:"serializer:json"`
	CreatedAt     time.Time        `gorm:"index"`
	UpdatedAt     time.Time
}

// TableName returns the table name for GORM
func (DBOrder) TableName() string {
	return "orders"
}

type dbOrderItem struct {
	PackageID  string  `json:"package_id"`
	Name       string  `json:"name"`
	Price      float64 `json:"price"`
	Quantity   int     `json:"quantity"`
	TotalPrice float64 `json:"total_price"`
}

type dbStatusChange struct {
	Status string    `json:"status"`
	Note   string    `json:"note,omitempty"`
	At     time.Time `json:"at"`
}

// Models lists every table the service migrates
func Models() []interface{} {
	return []interface{}{
		&DBApplication{},
		&DBRestaurantUser{},
		&DBRestaurantProfile{},
		&DBCustomerUser{},
		&DBPackage{},
		&DBOrder{},
	}
}

func applicationToDB(a *domain.Application) *DBApplication {
	return &DBApplication{
		ID:               a.ID,
		OwnerName:        a.OwnerName,
		Email:            a.Email,
		Phone:            a.Phone,
		BusinessName:     a.BusinessName,
		Category:         a.Category,
		Address:          a.Address,
		City:             a.City,
		Description:      a.Description,
		Status:           string(a.Status),
		RestaurantUserID: a.RestaurantUserID,
		RejectReason:     a.RejectReason,
		ApprovedAt:       a.ApprovedAt,
		ReviewedAt:       a.ReviewedAt,
		CreatedAt:        a.CreatedAt,
		UpdatedAt:        a.UpdatedAt,
	}
}

func applicationToDomain(a *DBApplication) *domain.Application {
	return &domain.Application{
		ID:               a.ID,
		OwnerName:        a.OwnerName,
		Email:            a.Email,
		Phone:            a.Phone,
		BusinessName:     a.BusinessName,
		Category:         a.Category,
		Address:          a.Address,
		City:             a.City,
		Description:      a.Description,
		Status:           domain.ApplicationStatus(a.Status),
		RestaurantUserID: a.RestaurantUserID,
		RejectReason:     a.RejectReason,
		ApprovedAt:       a.ApprovedAt,
		ReviewedAt:       a.ReviewedAt,
		CreatedAt:        a.CreatedAt,
		UpdatedAt:        a.UpdatedAt,
	}
}

func restaurantUserToDB(u *domain.RestaurantUser) *DBRestaurantUser {
	return &DBRestaurantUser{
		ID:            u.ID,
		Username:      u.Username,
		PasswordHash:  u.PasswordHash,
		Role:          u.Role,
		Status:        u.Status,
		Email:         u.Email,
		Phone:         u.Phone,
		ApplicationID: u.ApplicationID,
		CreatedAt:     u.CreatedAt,
	}
}

func restaurantUserToDomain(u *DBRestaurantUser) *domain.RestaurantUser {
	return &domain.RestaurantUser{
		ID:            u.ID,
		Username:      u.Username,
		PasswordHash:  u.PasswordHash,
		Role:          u.Role,
		Status:        u.Status,
		Email:         u.Email,
		Phone:         u.Phone,
		ApplicationID: u.ApplicationID,
		CreatedAt:     u.CreatedAt,
	}
}

func profileToDB(p *domain.RestaurantProfile) *DBRestaurantProfile {
	return &DBRestaurantProfile{
		ID:            p.ID,
		UserID:        p.UserID,
		ApplicationID: p.ApplicationID,
		BusinessName:  p.BusinessName,
		Category:      p.Category,
		Address:       p.Address,
		Email:         p.Email,
		Phone:         p.Phone,
		Description:   p.Description,
		BusinessHours: p.BusinessHours,
		Status:        p.Status,
		IsVisible:     p.IsVisible,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

func profileToDomain(p *DBRestaurantProfile) *domain.RestaurantProfile {
	return &domain.RestaurantProfile{
		ID:            p.ID,
		UserID:        p.UserID,
		ApplicationID: p.ApplicationID,
		BusinessName:  p.BusinessName,
		Category:      p.Category,
		Address:       p.Address,
		Email:         p.Email,
		Phone:         p.Phone,
		Description:   p.Description,
		BusinessHours: p.BusinessHours,
		Status:        p.Status,
		IsVisible:     p.IsVisible,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

func customerToDomain(c *DBCustomerUser) *domain.CustomerUser {
	return &domain.CustomerUser{
		ID:           c.ID,
		Username:     c.Username,
		PasswordHash: c.PasswordHash,
		Name:         c.Name,
		Email:        c.Email,
		Phone:        c.Phone,
		Status:       c.Status,
		CreatedAt:    c.CreatedAt,
	}
}

func packageToDB(p *domain.Package) *DBPackage {
	return &DBPackage{
		ID:                p.ID,
		RestaurantID:      p.RestaurantID,
		Name:              p.Name,
		Description:       p.Description,
		OriginalPrice:     p.OriginalPrice,
		DiscountedPrice:   p.DiscountedPrice,
		Quantity:          p.Quantity,
		RemainingQuantity: p.RemainingQuantity,
		AvailableFrom:     p.AvailableFrom,
		AvailableUntil:    p.AvailableUntil,
		Status:            string(p.Status),
		CreatedAt:         p.CreatedAt,
		UpdatedAt:         p.UpdatedAt,
	}
}

func packageToDomain(p *DBPackage) *domain.Package {
	return &domain.Package{
		ID:                p.ID,
		RestaurantID:      p.RestaurantID,
		Name:              p.Name,
		Description:       p.Description,
		OriginalPrice:     p.OriginalPrice,
		DiscountedPrice:   p.DiscountedPrice,
		Quantity:          p.Quantity,
		RemainingQuantity: p.RemainingQuantity,
		AvailableFrom:     p.AvailableFrom,
		AvailableUntil:    p.AvailableUntil,
		Status:            domain.PackageStatus(p.Status),
		CreatedAt:         p.CreatedAt,
		UpdatedAt:         p.UpdatedAt,
	}
}

func orderToDB(o *domain.Order) *DBOrder {
	items := make([]dbOrderItem, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, dbOrderItem{
			PackageID:  it.PackageID,
			Name:       it.Name,
			Price:      it.Price,
			Quantity:   it.Quantity,
			TotalPrice: it.TotalPrice,
		})
	}
	return &DBOrder{
		ID:            o.ID,
		RestaurantID:  o.RestaurantID,
		CustomerID:    o.Customer.ID,
		CustomerName:  o.Customer.Name,
		CustomerEmail: o.Customer.Email,
		CustomerPhone: o.Customer.Phone,
		Items:         items,
		TotalPrice:    o.TotalPrice,
		Status:        string(o.Status),
		Notes:         o.Notes,
		StatusHistory: historyToDB(o.StatusHistory),
		CreatedAt:     o.CreatedAt,
		UpdatedAt:     o.UpdatedAt,
	}
}

func historyToDB(history []domain.StatusChange) []dbStatusChange {
	out := make([]dbStatusChange, 0, len(history))
	for _, h := range history {
		out = append(out, dbStatusChange{Status: string(h.Status), Note: h.Note, At: h.At})
	}
	return out
}

func orderToDomain(o *DBOrder) *domain.Order {
	items := make([]domain.OrderItem, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, domain.OrderItem{
			PackageID:  it.PackageID,
			Name:       it.Name,
			Price:      it.Price,
			Quantity:   it.Quantity,
			TotalPrice: it.TotalPrice,
		})
	}
	history := make([]domain.StatusChange, 0, len(o.StatusHistory))
	for _, h := range o.StatusHistory {
		history = append(history, domain.StatusChange{Status: domain.OrderStatus(h.Status), Note: h.Note, At: h.At})
	}
	return &domain.Order{
		ID:           o.ID,
		RestaurantID: o.RestaurantID,
		Customer: domain.Customer{
			ID:    o.CustomerID,
			Name:  o.CustomerName,
			Email: o.CustomerEmail,
			Phone: o.CustomerPhone,
		},
		Items:         items,
		TotalPrice:    o.TotalPrice,
		Status:        domain.OrderStatus(o.Status),
		Notes:         o.Notes,
		StatusHistory: history,
		CreatedAt:     o.CreatedAt,
		UpdatedAt:     o.UpdatedAt,
	}
}
