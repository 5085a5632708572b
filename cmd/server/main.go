package main

import (
	"context"
	"database/sql"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	httpapi "locnos-backend/internal/api/http"
	"locnos-backend/internal/config"
	"locnos-backend/internal/logger"
	"locnos-backend/internal/repository/postgres"
	"locnos-backend/internal/security"
	"locnos-backend/internal/service"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting Locnos Backend...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "address", cfg.GetServerAddress())
	logger.Info("Database configuration", "host", cfg.Database.Host, "port", cfg.Database.Port, "database", cfg.Database.Database, "user", cfg.Database.User)
	logger.Info("SMTP configuration", "host", cfg.SMTP.Host, "port", cfg.SMTP.Port)

	// Initialize Database
	db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Test database connection
	if err := db.Ping(); err != nil {
		logger.Error("Failed to ping database", "error", err)
		log.Fatalf("Failed to ping database: %v", err)
	}
	logger.Info("Database connection established")

	// Initialize Repositories
	store := postgres.NewStore(db)

	// Initialize Security
	tokenManager := security.NewTokenManager(
		cfg.JWT.Secret,
		time.Duration(cfg.JWT.AccessTokenExpiry)*time.Minute,
		time.Duration(cfg.JWT.RefreshTokenExpiry)*time.Minute,
	)

	// Initialize Services
	emailSvc := service.NewEmailService(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.User,
		cfg.SMTP.Password,
		cfg.SMTP.From,
	)
	authSvc := service.NewAuthService(store.UserRepository, tokenManager)
	categorySvc := service.NewCategoryService(store.CategoryRepository)
	personSvc := service.NewPersonService(store.PersonRepository)
	equipmentSvc := service.NewEquipmentService(store.EquipmentRepository)
	contractSvc := service.NewContractService(
		store.ContractRepository,
		store.EquipmentRepository,
		store.PersonRepository,
		emailSvc,
		cfg.Rental.LateFeePerDayCents,
	)
	dashboardSvc := service.NewDashboardService(store.EquipmentRepository, store.ContractRepository)

	if cfg.Admin.Email != "" && cfg.Admin.Password != "" {
		if err := authSvc.EnsureAdmin(context.Background(), cfg.Admin.Email, cfg.Admin.Password); err != nil {
			logger.Error("Failed to seed admin account", "error", err)
			os.Exit(1)
		}
	}

	// Set up HTTP server
	router := httpapi.NewRouter(httpapi.Services{
		Auth:      authSvc,
		Category:  categorySvc,
		Person:    personSvc,
		Equipment: equipmentSvc,
		Contract:  contractSvc,
		Dashboard: dashboardSvc,
		Tokens:    tokenManager,
	})

	srv := &http.Server{
		Addr:         cfg.GetServerAddress(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("HTTP server listening", "address", cfg.GetServerAddress())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("HTTP server error", "error", err)
			log.Fatalf("Failed to serve: %v", err)
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	// Graceful shutdown
	logger.Info("Shutting down HTTP server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Forced shutdown", "error", err)
	}
	logger.Info("Server stopped. Goodbye!")
}
