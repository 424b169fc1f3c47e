package app

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/cors"
	"gorm.io/gorm"

	"github.com/you/marketsvc/domain"
	"github.com/you/marketsvc/internal/config"
	"github.com/you/marketsvc/internal/dispatch"
	httpx "github.com/you/marketsvc/internal/http"
	"github.com/you/marketsvc/internal/http/handlers"
	"github.com/you/marketsvc/internal/http/middleware"
	"github.com/you/marketsvc/internal/infrastructure/auth"
	"github.com/you/marketsvc/internal/infrastructure/database"
	"github.com/you/marketsvc/internal/infrastructure/events"
	"github.com/you/marketsvc/internal/infrastructure/notifications"
	"github.com/you/marketsvc/internal/infrastructure/repositories"
	"github.com/you/marketsvc/internal/realtime"
	"github.com/you/marketsvc/internal/reports"
	"github.com/you/marketsvc/internal/services"
)

// sessionSweep is how often expired sessions are purged
const sessionSweep = 5 * time.Minute

// Container holds all dependencies
type Container struct {
	// Config
	Config *config.Config

	// Infrastructure
	DB          *gorm.DB
	RedisClient *redis.Client
	Relay       *events.RedisRelay
	Mirror      *events.KafkaMirror

	// Repositories
	ApplicationRepo domain.ApplicationRepository
	RestaurantRepo  domain.RestaurantRepository
	CustomerRepo    domain.CustomerRepository
	PackageRepo     domain.PackageRepository
	OrderRepo       domain.OrderRepository

	// Services
	PasswordSvc     domain.PasswordService
	TokenSvc        domain.TokenService
	NotificationSvc domain.NotificationService
	PolicySvc       domain.PolicyService
	Throttle        domain.LoginThrottle
	Sessions        *services.SessionManagerImpl
	Issuer          domain.IdentityIssuer
	Applications    domain.ApplicationService
	Restaurants     domain.RestaurantDirectory
	Packages        domain.PackageService
	Orders          domain.OrderService
	Statistics      domain.StatisticsService

	// Delivery
	Hub        *realtime.Hub
	Dispatcher *dispatch.Dispatcher
	Handler    http.Handler
}

// NewContainer connects to PostgreSQL and Redis and wires every component
func NewContainer(cfg *config.Config) (*Container, error) {
	db, err := database.Open(cfg.DSN, cfg.DBLogLevel)
	if err != nil {
		return nil, err
	}
	if err := database.AutoMigrate(db); err != nil {
		return nil, err
	}

	rdb, err := database.OpenRedis(context.Background(), cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		return nil, err
	}

	return NewContainerWith(cfg, db, rdb)
}

// NewContainerWith wires every component over an already migrated database
func NewContainerWith(cfg *config.Config, db *gorm.DB, rdb *redis.Client) (*Container, error) {
	container := &Container{Config: cfg, DB: db, RedisClient: rdb}

	container.initRepositories()
	if err := container.initServices(); err != nil {
		return nil, err
	}
	container.initHTTP()

	return container, nil
}

func (c *Container) initRepositories() {
	c.ApplicationRepo = repositories.NewApplicationRepository(c.DB)
	c.RestaurantRepo = repositories.NewRestaurantRepository(c.DB)
	c.CustomerRepo = repositories.NewCustomerRepository(c.DB)
	c.PackageRepo = repositories.NewPackageRepository(c.DB)
	c.OrderRepo = repositories.NewOrderRepository(c.DB)
}

func (c *Container) initServices() error {
	cfg := c.Config

	// Initialize basic services
	c.PasswordSvc = auth.NewPasswordService()
	c.TokenSvc = auth.NewJWTService(cfg.TokenSecret, cfg.TokenIssuer)
	c.NotificationSvc = notifications.NewTwilioService(cfg.TwilioSID, cfg.TwilioToken, cfg.TwilioFrom, cfg.EmailFrom)

	enforcer, err := auth.NewEnforcer(c.DB)
	if err != nil {
		return fmt.Errorf("failed to create enforcer: %w", err)
	}
	c.PolicySvc = services.NewPolicyService(enforcer)

	// Sessions live in this process only; Redis holds login failure counters
	c.Throttle = services.NewLoginThrottle(c.RedisClient, cfg.ThrottleFailures, cfg.ThrottleWindow)
	spaces := []domain.IdentitySpace{
		services.NewAdminSpace(cfg.AdminUsername, cfg.AdminPassHash, c.PasswordSvc),
		services.NewRestaurantSpace(c.RestaurantRepo, c.PasswordSvc),
		services.NewCustomerSpace(c.CustomerRepo, c.PasswordSvc),
	}
	c.Sessions = services.NewSessionManager(spaces, c.RestaurantRepo, c.TokenSvc, c.Throttle, cfg.SessionTTL)

	// Order events reach local sockets first, then other instances and the log
	c.Relay = events.NewRedisRelay(c.RedisClient, cfg.EventChannel)
	forwarders := []realtime.Forwarder{c.Relay}
	if len(cfg.KafkaBrokers) > 0 {
		c.Mirror = events.NewKafkaMirror(events.NewKafkaWriter(cfg.KafkaBrokers, cfg.KafkaTopic))
		forwarders = append(forwarders, c.Mirror)
	}
	c.Hub = realtime.NewHub(cfg.LegacyEventNames, forwarders...)

	c.Issuer = services.NewIdentityIssuer(
		repositories.NewApprovalStore(c.DB),
		services.NewCredentialGenerator(),
		c.PasswordSvc,
		c.NotificationSvc,
	)
	c.Applications = services.NewApplicationService(c.ApplicationRepo, c.NotificationSvc)
	c.Restaurants = services.NewRestaurantDirectory(c.RestaurantRepo, c.ApplicationRepo)
	c.Packages = services.NewPackageService(c.PackageRepo)
	c.Orders = services.NewOrderService(
		repositories.NewOrderStore(c.DB),
		c.OrderRepo,
		c.RestaurantRepo,
		c.Hub,
		c.NotificationSvc,
	)
	c.Statistics = services.NewStatisticsService(c.ApplicationRepo, c.RestaurantRepo, c.CustomerRepo, c.PackageRepo, c.OrderRepo)

	c.Dispatcher = dispatch.NewDispatcher(dispatch.Services{
		Sessions:     c.Sessions,
		Issuer:       c.Issuer,
		Applications: c.Applications,
		Restaurants:  c.Restaurants,
		Packages:     c.Packages,
		Orders:       c.Orders,
		Statistics:   c.Statistics,
	}, c.PolicySvc)

	return nil
}

func (c *Container) initHTTP() {
	cfg := c.Config

	router := httpx.BuildRouter(
		handlers.NewDispatchHandlers(c.Dispatcher),
		handlers.NewReportHandlers(c.Orders, c.Statistics, c.Packages, reports.NewPickupQR(cfg.PublicURL, 256)),
		handlers.NewPolicyHandlers(c.PolicySvc),
		realtime.NewServer(c.Hub, c.Sessions, cfg.AllowedOrigins),
		middleware.NewSessionMW(c.Sessions),
		middleware.NewPolicyMW(c.PolicySvc),
	)

	c.Handler = cors.New(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: true,
	}).Handler(router)
}

// Start subscribes to relayed events and sweeps expired sessions until ctx ends
func (c *Container) Start(ctx context.Context) error {
	if err := c.Relay.Start(ctx, c.Hub); err != nil {
		return err
	}

	go func() {
		ticker := time.NewTicker(sessionSweep)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n := c.Sessions.PurgeExpired(); n > 0 {
					log.Printf("[session] purged %d expired sessions", n)
				}
			}
		}
	}()
	return nil
}

// Close closes all connections
func (c *Container) Close() error {
	if c.Relay != nil {
		_ = c.Relay.Close()
	}
	if c.Mirror != nil {
		if err := c.Mirror.Writer.Close(); err != nil {
			log.Printf("[events] kafka writer close: %v", err)
		}
	}
	if c.RedisClient != nil {
		c.RedisClient.Close()
	}

	if c.DB != nil {
		sqlDB, err := c.DB.DB()
		if err != nil {
			return err
		}
		return sqlDB.Close()
	}

	return nil
}
