// Package main provides the main entry point for the open sales order review service
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/amirphl/open-so-review/app/handlers"
	"github.com/amirphl/open-so-review/app/router"
	"github.com/amirphl/open-so-review/app/services"
	businessflow "github.com/amirphl/open-so-review/business_flow"
	"github.com/amirphl/open-so-review/config"
	"github.com/amirphl/open-so-review/repository"
	"github.com/amirphl/open-so-review/utils"
	"github.com/gofiber/fiber/v3"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Application represents the main application structure
type Application struct {
	router    *router.FiberRouter
	config    *config.ProductionConfig
	server    *fiber.App
	stopFuncs []func()
}

func main() {
	// Load production configuration
	cfg, err := config.LoadProductionConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	closeLog := utils.SetupLogger(cfg.Logging.Level, cfg.Logging.Output, utils.LogFileOptions{
		Path:       cfg.Logging.FilePath,
		MaxSize:    cfg.Logging.MaxSize,
		MaxBackups: cfg.Logging.MaxBackups,
		MaxAge:     cfg.Logging.MaxAge,
		Compress:   cfg.Logging.Compress,
	})
	defer func() { _ = closeLog() }()

	log.Printf("Starting open sales order review %s (%s)...", cfg.Deployment.Version, cfg.Deployment.CommitHash)

	app, err := initializeApplication(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}

	app.router.SetupRoutes()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
		log.Printf("Server starting on %s", address)

		if err := app.server.Listen(address); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	<-sigChan
	log.Println("Shutting down gracefully...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := app.server.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("Error during shutdown: %v", err)
	}

	// Background workers and clients go after in-flight requests drained
	for _, fn := range app.stopFuncs {
		fn()
	}

	log.Println("Server stopped")
}

// initializeDatabase initializes the database connection with connection pooling
func initializeDatabase(cfg config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Name, cfg.SSLMode)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Printf("Database connection established with %d max open connections, %d max idle connections",
		cfg.MaxOpenConns, cfg.MaxIdleConns)

	return db, nil
}

// initializeCache initializes the Cache client and verifies connectivity
func initializeCache(cfg config.CacheConfig) (*redis.Client, error) {
	if !cfg.Enabled || cfg.Provider != "redis" {
		return nil, nil
	}

	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	opt.DB = cfg.RedisDB

	rc := redis.NewClient(opt)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rc.Ping(ctx).Err(); err != nil {
		_ = rc.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	log.Printf("Redis connection established (db=%d)", cfg.RedisDB)
	return rc, nil
}

// startCacheHealthMonitor periodically pings Redis to surface connectivity issues.
// The returned cancel function stops the monitor.
func startCacheHealthMonitor(parent context.Context, client *redis.Client, interval time.Duration) func() {
	monitorCtx, cancel := context.WithCancel(parent)
	if interval <= 0 {
		interval = 30 * time.Second
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-monitorCtx.Done():
				return
			case <-ticker.C:
				ctx, c := context.WithTimeout(context.Background(), 3*time.Second)
				if err := client.Ping(ctx).Err(); err != nil {
					log.Printf("Redis healthcheck failed: %v", err)
				}
				c()
			}
		}
	}()
	return cancel
}

// initializeNotificationService picks the email provider
func initializeNotificationService(cfg config.EmailConfig) services.NotificationService {
	var emailProvider services.EmailProvider

	switch cfg.Provider {
	case "smtp":
		emailProvider = services.NewSMTPEmailProvider(cfg)
	default:
		log.Println("Email provider is mock, notifications are only kept in memory")
		emailProvider = services.NewMockEmailProvider()
	}

	return services.NewNotificationService(emailProvider)
}

// initializeFileStore picks where export artifacts are kept
func initializeFileStore(cfg config.StorageConfig, repo repository.ExportFileRepository) (services.FileStore, func(), error) {
	switch cfg.Provider {
	case config.StorageProviderGCS:
		// credentials may keep the client context, so it must outlive startup
		store, err := services.NewGCSFileStore(context.Background(), cfg.GCSBucket, cfg.GCSCredentialsJSON, repo)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize GCS file store: %w", err)
		}
		log.Printf("Export files are stored in bucket %s", cfg.GCSBucket)
		return store, func() { _ = store.Close() }, nil
	default:
		return services.NewDatabaseFileStore(repo), func() {}, nil
	}
}

// initializeApplication initializes the main application components
func initializeApplication(cfg *config.ProductionConfig) (*Application, error) {
	var stopFuncs []func()

	db, err := initializeDatabase(cfg.Database)
	if err != nil {
		return nil, err
	}

	rc, err := initializeCache(cfg.Cache)
	if err != nil {
		return nil, err
	}
	if rc != nil {
		stopFuncs = append(stopFuncs, startCacheHealthMonitor(context.Background(), rc, cfg.Cache.CleanupInterval))
	}

	// Repositories
	employeeRepo := repository.NewEmployeeRepository(db)
	salesOrderRepo := repository.NewSalesOrderRepository(db)
	delayReasonRepo := repository.NewDelayReasonRepository(db)
	exportFileRepo := repository.NewExportFileRepository(db)
	sentEmailRepo := repository.NewSentEmailRepository(db)

	if err := checkFallbackRecipient(employeeRepo, cfg.Admin); err != nil {
		return nil, err
	}

	// Services
	fileStore, closeStore, err := initializeFileStore(cfg.Storage, exportFileRepo)
	if err != nil {
		return nil, err
	}
	stopFuncs = append(stopFuncs, closeStore)

	notificationService := initializeNotificationService(cfg.Email)

	pageTokenService, err := services.NewPageTokenService(cfg.JWT.PageTokenTTL, cfg.JWT.Issuer, cfg.JWT.Audience, cfg.JWT.SecretKey)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize page token service: %w", err)
	}

	locker := services.NewNoopSubmissionLocker()
	if cfg.Review.LockEnabled && rc != nil {
		locker = services.NewRedisSubmissionLocker(rc, cfg.Cache.RedisPrefix, cfg.Review.LockTTL)
	}

	// Business flows
	reviewFlow := businessflow.NewReviewFlow(
		employeeRepo,
		salesOrderRepo,
		delayReasonRepo,
		sentEmailRepo,
		fileStore,
		notificationService,
		pageTokenService,
		locker,
		rc,
		cfg.Review,
		cfg.Email,
		cfg.Admin,
		cfg.Cache,
		cfg.Storage,
	)
	delayReasonFlow := businessflow.NewDelayReasonFlow(employeeRepo, salesOrderRepo, delayReasonRepo, fileStore)
	employeeFlow := businessflow.NewEmployeeFlow(employeeRepo, cfg.Review.PublicBaseURL)

	// Handlers
	reviewHandler := handlers.NewReviewHandler(reviewFlow)
	employeeHandler := handlers.NewEmployeeHandler(employeeFlow)
	delayReasonHandler := handlers.NewDelayReasonHandler(delayReasonFlow)

	appRouter := router.NewFiberRouter(cfg, reviewHandler, employeeHandler, delayReasonHandler)

	if rc != nil {
		stopFuncs = append(stopFuncs, func() { _ = rc.Close() })
	}
	if sqlDB, err := db.DB(); err == nil {
		stopFuncs = append(stopFuncs, func() { _ = sqlDB.Close() })
	}

	fiberRouter := appRouter.(*router.FiberRouter)
	return &Application{
		router:    fiberRouter,
		config:    cfg,
		server:    fiberRouter.GetApp(),
		stopFuncs: stopFuncs,
	}, nil
}

// checkFallbackRecipient warns when the configured administrator is not a known employee.
// The configured address is still used, so this never blocks startup on a missing record.
func checkFallbackRecipient(employeeRepo repository.EmployeeRepository, admin config.AdminConfig) error {
	if admin.EmployeeID == 0 {
		log.Printf("ADMIN_EMPLOYEE_ID is not set; fallback emails go to %s", admin.Email)
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	employee, err := employeeRepo.ByID(ctx, admin.EmployeeID)
	if err != nil {
		return fmt.Errorf("failed to load fallback recipient %d: %w", admin.EmployeeID, err)
	}
	if employee == nil {
		log.Printf("Fallback recipient %d does not exist; emails go to %s", admin.EmployeeID, admin.Email)
	}
	return nil
}
