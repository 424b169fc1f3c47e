package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/you/marketsvc/internal/config"
	"github.com/you/marketsvc/internal/infrastructure/auth"
	"github.com/you/marketsvc/internal/infrastructure/database"
)

// Checks the configured database and migrates it; with -hash prints a bcrypt
// hash for admin.password_hash instead.
func main() {
	hash := flag.String("hash", "", "print the bcrypt hash of this password and exit")
	flag.Parse()

	if *hash != "" {
		h, err := auth.NewPasswordService().Hash(*hash)
		if err != nil {
			log.Fatalf("Failed to hash password: %v", err)
		}
		fmt.Println(h)
		return
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if envDSN := os.Getenv("TEST_DATABASE_DSN"); envDSN != "" {
		cfg.DSN = envDSN
	}

	fmt.Println("Marketplace database check")
	fmt.Println("==========================")

	db, err := database.Open(cfg.DSN, cfg.DBLogLevel)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("Failed to get underlying sql.DB: %v", err)
	}
	defer sqlDB.Close()

	if err := sqlDB.Ping(); err != nil {
		log.Fatalf("Failed to ping database: %v", err)
	}
	fmt.Println("✓ Database connection successful")

	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to run auto-migration: %v", err)
	}
	fmt.Println("✓ AutoMigrate completed successfully")

	for _, table := range []string{"applications", "restaurant_users", "restaurant_profiles", "customer_users", "packages", "orders", "casbin_rule"} {
		var count int64
		if err := db.Table(table).Count(&count).Error; err != nil {
			log.Fatalf("Failed to query %s table: %v", table, err)
		}
		fmt.Printf("✓ %s table accessible (current count: %d)\n", table, count)
	}

	if _, err := auth.NewEnforcer(db); err != nil {
		log.Fatalf("Failed to load policies: %v", err)
	}
	fmt.Println("✓ Casbin policies loaded")
}
