// Package main provides the main entry point for the Roofing Made Easy API
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/JohnConnorCode/roofing-made-easy/app/handlers"
	"github.com/JohnConnorCode/roofing-made-easy/app/middleware"
	"github.com/JohnConnorCode/roofing-made-easy/app/router"
	"github.com/JohnConnorCode/roofing-made-easy/app/services"
	businessflow "github.com/JohnConnorCode/roofing-made-easy/business_flow"
	"github.com/JohnConnorCode/roofing-made-easy/config"
	"github.com/JohnConnorCode/roofing-made-easy/models"
	"github.com/JohnConnorCode/roofing-made-easy/pricing"
	"github.com/JohnConnorCode/roofing-made-easy/repository"
	"github.com/JohnConnorCode/roofing-made-easy/utils"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Application represents the main application structure
type Application struct {
	router    router.Router
	config    *config.ProductionConfig
	stopFuncs []func()
}

func main() {
	log.Println("Starting Roofing Made Easy API...")

	// Load production configuration
	cfg, err := config.LoadProductionConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appLogger := utils.NewAppLogger(utils.LoggerOptions{
		Output:     cfg.Logging.Output,
		FilePath:   cfg.Logging.FilePath,
		MaxSizeMB:  cfg.Logging.MaxSize,
		MaxBackups: cfg.Logging.MaxBackups,
		MaxAgeDays: cfg.Logging.MaxAge,
		Compress:   cfg.Logging.Compress,
	})
	log.SetOutput(appLogger.Writer())

	// Initialize application
	app, err := initializeApplication(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}

	// Setup routes
	app.router.SetupRoutes()

	// Handle shutdown signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	// Start server in goroutine
	go func() {
		address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
		log.Printf("Server starting on %s", address)

		if err := app.router.Start(address); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for shutdown signal
	<-sigChan
	log.Println("Shutting down gracefully...")

	// Stop background workers
	for _, fn := range app.stopFuncs {
		fn()
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := app.router.GetApp().ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("Error during shutdown: %v", err)
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

	// Get underlying sql.DB for connection pooling configuration
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	// Configure connection pooling
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	// Test the connection
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Printf("Database connection established with %d max open connections, %d max idle connections",
		cfg.MaxOpenConns, cfg.MaxIdleConns)

	return db, nil
}

// runMigrations keeps the schema in sync with the model definitions.
func runMigrations(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Lead{},
		&models.Estimate{},
		&models.PricingRule{},
		&models.Settings{},
		&models.Invoice{},
		&models.Job{},
		&models.FinancingApplication{},
		&models.InsuranceClaim{},
		&models.Admin{},
		&models.AuditLog{},
	)
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
	// Override DB if provided in config
	opt.DB = cfg.RedisDB

	rc := redis.NewClient(opt)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rc.Ping(ctx).Err(); err != nil {
		_ = rc.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	log.Printf("Redis connection established to %s (db=%d)", cfg.RedisURL, cfg.RedisDB)
	return rc, nil
}

// startCacheHealthMonitor starts a background goroutine that periodically pings Redis
// to detect connectivity issues. The returned cancel function stops the monitor.
func startCacheHealthMonitor(parent context.Context, client *redis.Client, interval time.Duration) func() {
	monitorCtx, cancel := context.WithCancel(parent)
	if client == nil {
		return cancel
	}
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

// initializeNotificationService initializes the notification service
func initializeNotificationService(cfg *config.ProductionConfig) services.NotificationService {
	var emailProvider services.EmailProvider

	if cfg.Email.Host == "" || cfg.Email.Host == "mock" {
		emailProvider = services.NewMockEmailProvider()
	} else {
		emailProvider = services.NewSMTPEmailProvider(
			cfg.Email.Host,
			cfg.Email.Port,
			cfg.Email.Username,
			cfg.Email.Password,
			cfg.Email.FromEmail,
			cfg.Email.FromName,
		)
	}

	// SMS delivery stays on the mock provider until a carrier account exists.
	smsProvider := services.NewMockSMSProvider()

	return services.NewNotificationService(emailProvider, smsProvider)
}

// startMetricsServer exposes Prometheus metrics on a dedicated port.
// The returned stop function shuts the listener down.
func startMetricsServer(cfg config.MetricsConfig) func() {
	if !cfg.Enabled {
		return func() {}
	}

	path := cfg.Path
	if path == "" {
		path = "/metrics"
	}

	mux := http.NewServeMux()
	mux.Handle(path, promhttp.Handler())
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: mux,
	}

	go func() {
		log.Printf("Metrics server listening on %s%s", srv.Addr, path)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("Metrics server error: %v", err)
		}
	}()

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}
}

// initializeApplication initializes the main application components
func initializeApplication(cfg *config.ProductionConfig) (*Application, error) {
	var stopFuncs []func()

	// Initialize database
	db, err := initializeDatabase(cfg.Database)
	if err != nil {
		return nil, err
	}

	if err := runMigrations(db); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	rc, err := initializeCache(cfg.Cache)
	if err != nil {
		return nil, err
	}

	cancel := startCacheHealthMonitor(context.Background(), rc, 30*time.Second)
	stopFuncs = append(stopFuncs, cancel)

	stopFuncs = append(stopFuncs, startMetricsServer(cfg.Metrics))

	// Initialize repositories
	leadRepo := repository.NewLeadRepository(db)
	estimateRepo := repository.NewEstimateRepository(db)
	pricingRuleRepo := repository.NewPricingRuleRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)
	invoiceRepo := repository.NewInvoiceRepository(db)
	jobRepo := repository.NewJobRepository(db)
	financingRepo := repository.NewFinancingApplicationRepository(db)
	claimRepo := repository.NewInsuranceClaimRepository(db)
	adminRepo := repository.NewAdminRepository(db)
	auditRepo := repository.NewAuditLogRepository(db)

	// Seed the rule table and the first back office account
	if err := seedPricingRules(db, pricingRuleRepo); err != nil {
		return nil, err
	}
	if err := bootstrapAdmin(cfg, adminRepo); err != nil {
		return nil, err
	}

	// Initialize services
	notificationService := initializeNotificationService(cfg)

	// Initialize token service
	tokenService, err := services.NewTokenService(
		cfg.JWT.AccessTokenTTL,
		cfg.JWT.RefreshTokenTTL,
		cfg.JWT.Issuer,
		cfg.JWT.Audience,
		cfg.JWT.UseRSAKeys,
		cfg.JWT.PrivateKey,
		cfg.JWT.PublicKey,
		cfg.JWT.SecretKey,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize token service: %w", err)
	}

	log.Printf("Token service initialized with issuer: %s, audience: %s", cfg.JWT.Issuer, cfg.JWT.Audience)

	// Initialize flows
	estimateFlow := businessflow.NewEstimateFlow(
		leadRepo,
		estimateRepo,
		pricingRuleRepo,
		settingsRepo,
		auditRepo,
		notificationService,
		db,
	)

	leadAdminFlow := businessflow.NewLeadAdminFlow(
		leadRepo,
		estimateRepo,
		auditRepo,
		notificationService,
		db,
	)

	pricingRuleFlow := businessflow.NewPricingRuleFlow(pricingRuleRepo, auditRepo, db)

	settingsFlow := businessflow.NewSettingsFlow(
		settingsRepo,
		auditRepo,
		rc,
		cfg.Cache,
		db,
	)

	invoiceFlow := businessflow.NewInvoiceFlow(
		invoiceRepo,
		leadRepo,
		settingsRepo,
		auditRepo,
		notificationService,
		db,
	)

	jobFlow := businessflow.NewJobFlow(jobRepo, leadRepo, auditRepo, db)

	reportFlow := businessflow.NewReportFlow(
		leadRepo,
		estimateRepo,
		invoiceRepo,
		jobRepo,
	)

	financingFlow := businessflow.NewFinancingFlow(
		financingRepo,
		leadRepo,
		auditRepo,
		db,
	)

	claimFlow := businessflow.NewClaimFlow(
		claimRepo,
		leadRepo,
		auditRepo,
		db,
	)

	adminAuthFlow := businessflow.NewAdminAuthFlow(adminRepo, auditRepo, tokenService)

	// Initialize handlers
	h := router.Handlers{
		Estimate:    handlers.NewEstimateHandler(estimateFlow),
		LeadAdmin:   handlers.NewLeadAdminHandler(leadAdminFlow),
		PricingRule: handlers.NewPricingRuleHandler(pricingRuleFlow),
		Settings:    handlers.NewSettingsHandler(settingsFlow),
		Invoice:     handlers.NewInvoiceHandler(invoiceFlow),
		Job:         handlers.NewJobHandler(jobFlow),
		Report:      handlers.NewReportHandler(reportFlow),
		Financing:   handlers.NewFinancingHandler(financingFlow),
		Claim:       handlers.NewClaimHandler(claimFlow),
		AuthAdmin:   handlers.NewAuthAdminHandler(adminAuthFlow),
	}

	// Initialize auth middleware
	authMiddleware := middleware.NewAuthMiddleware(tokenService)

	// Initialize router
	appRouter := router.NewFiberRouter(h, authMiddleware, cfg)

	application := &Application{
		router:    appRouter,
		config:    cfg,
		stopFuncs: stopFuncs,
	}

	return application, nil
}

// seedPricingRules persists the default rule table on first boot so operators
// can edit rates without a deploy. Existing rows are never overwritten.
func seedPricingRules(db *gorm.DB, repo repository.PricingRuleRepository) error {
	ctx := context.Background()

	count, err := repo.Count(ctx, models.PricingRuleFilter{})
	if err != nil {
		return fmt.Errorf("failed to count pricing rules: %w", err)
	}
	if count > 0 {
		return nil
	}

	return repository.WithTransaction(ctx, db, func(txCtx context.Context) error {
		for _, rule := range pricing.DefaultRules() {
			row := pricingRuleRow(rule)
			if err := repo.Save(txCtx, row); err != nil {
				return fmt.Errorf("failed to seed rule %s: %w", rule.Key, err)
			}
		}
		log.Printf("Seeded %d default pricing rules", len(pricing.DefaultRules()))
		return nil
	})
}

func pricingRuleRow(rule pricing.Rule) *models.PricingRule {
	row := &models.PricingRule{
		RuleKey:      rule.Key,
		RuleCategory: string(rule.Category),
		Multiplier:   rule.Multiplier.InexactFloat64(),
		FlatFee:      rule.FlatFee.InexactFloat64(),
		IsActive:     utils.ToPtr(rule.Active),
		DisplayName:  rule.DisplayName,
	}
	if rule.BaseRate.Valid {
		row.BaseRate = utils.ToPtr(rule.BaseRate.Decimal.InexactFloat64())
	}
	if rule.MinCharge.Valid {
		row.MinCharge = utils.ToPtr(rule.MinCharge.Decimal.InexactFloat64())
	}
	if rule.Unit != "" {
		row.Unit = utils.ToPtr(string(rule.Unit))
	}
	return row
}

// bootstrapAdmin creates the first back office account from config when the
// admins table is empty. It never touches existing accounts.
func bootstrapAdmin(cfg *config.ProductionConfig, repo repository.AdminRepository) error {
	if cfg.Admin.BootstrapUsername == "" || cfg.Admin.BootstrapPassword == "" {
		return nil
	}

	ctx := context.Background()

	count, err := repo.Count(ctx, models.AdminFilter{})
	if err != nil {
		return fmt.Errorf("failed to count admins: %w", err)
	}
	if count > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.Admin.BootstrapPassword), cfg.Security.BcryptCost)
	if err != nil {
		return fmt.Errorf("failed to hash bootstrap password: %w", err)
	}

	admin := &models.Admin{
		Username:     cfg.Admin.BootstrapUsername,
		PasswordHash: string(hash),
		IsActive:     utils.ToPtr(true),
	}
	if err := repo.Save(ctx, admin); err != nil {
		return fmt.Errorf("failed to create bootstrap admin: %w", err)
	}

	log.Printf("Bootstrap admin %q created", cfg.Admin.BootstrapUsername)
	return nil
}
