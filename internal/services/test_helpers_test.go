package services

import (
	"context"
	"testing"
	"time"

	"github.com/you/marketsvc/domain"
	"github.com/you/marketsvc/internal/infrastructure/repositories"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupTestDB creates an in-memory SQLite database with every marketplace table
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := db.AutoMigrate(repositories.Models()...); err != nil {
		t.Fatalf("failed to migrate database: %v", err)
	}
	return db
}

// createPendingApplication stores the application used across approval tests
func createPendingApplication(t *testing.T, db *gorm.DB) *domain.Application {
	t.Helper()

	now := time.Now()
	app := &domain.Application{
		ID:           "app-1",
		OwnerName:    "Ahmet Yilmaz",
		Email:        "a@x.com",
		Phone:        "+905551112233",
		BusinessName: "Ahmet Lokanta",
		Category:     "restaurant",
		Address:      "Moda Cd. 1, Kadikoy",
		Status:       domain.ApplicationPending,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := repositories.NewApplicationRepository(db).Create(context.Background(), app); err != nil {
		t.Fatalf("failed to create application: %v", err)
	}
	return app
}

// createRestaurant stores an approved restaurant user with its profile
func createRestaurant(t *testing.T, db *gorm.DB, profileID, phone string) {
	t.Helper()

	now := time.Now()
	if err := db.Create(&repositories.DBRestaurantUser{
		ID: "usr-" + profileID, Username: "user" + profileID, PasswordHash: "hashed_pw",
		Role: domain.RoleRestaurant, Status: domain.StatusActive, ApplicationID: "app-" + profileID, CreatedAt: now,
	}).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	if err := db.Create(&repositories.DBRestaurantProfile{
		ID: profileID, UserID: "usr-" + profileID, ApplicationID: "app-" + profileID,
		BusinessName: "Lokanta " + profileID, Phone: phone, Status: domain.StatusActive, IsVisible: true,
		CreatedAt: now, UpdatedAt: now,
	}).Error; err != nil {
		t.Fatalf("failed to create profile: %v", err)
	}
}

// createPackage stores an active package with qty units for restaurantID
func createPackage(t *testing.T, db *gorm.DB, id, restaurantID string, qty int, price float64) {
	t.Helper()

	now := time.Now()
	err := repositories.NewPackageRepository(db).Create(context.Background(), &domain.Package{
		ID: id, RestaurantID: restaurantID, Name: "Package " + id,
		OriginalPrice: price * 2, DiscountedPrice: price,
		Quantity: qty, RemainingQuantity: qty, Status: domain.PackageActive,
		AvailableFrom: now.Add(-time.Hour), AvailableUntil: now.Add(time.Hour),
		CreatedAt: now, UpdatedAt: now,
	})
	if err != nil {
		t.Fatalf("failed to create package: %v", err)
	}
}
