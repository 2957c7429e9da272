package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"

	"github.com/voyage/server/internal/auth"
	"github.com/voyage/server/internal/cache"
	"github.com/voyage/server/internal/config"
	"github.com/voyage/server/internal/db"
	httpserver "github.com/voyage/server/internal/http"
	"github.com/voyage/server/internal/http/handlers"
	"github.com/voyage/server/internal/mail"
	"github.com/voyage/server/internal/otp"
	"github.com/voyage/server/internal/redis"
	"github.com/voyage/server/internal/repo"
)

func main() {
	// Load .env from CWD (env vars override)
	_ = godotenv.Load(".env")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Create context for startup operations
	ctx := context.Background()

	// Open database connection
	database, err := db.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer database.Close()

	// Run migrations
	if err := runMigrations(database); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Open Redis connection
	rdb, err := redis.Open(ctx, cfg.RedisAddr, cfg.RedisPassword)
	if err != nil {
		log.Fatalf("Failed to open redis: %v", err)
	}
	defer rdb.Close()

	// Initialize repositories
	clientRepo := repo.NewClientRepo(database)
	adminRepo := repo.NewAdminRepo(database)
	packageRepo := repo.NewPackageRepo(database)
	requestRepo := repo.NewRequestRepo(database)
	contactRepo := repo.NewContactRepo(database)
	teamRepo := repo.NewTeamRepo(database)
	testimonialRepo := repo.NewTestimonialRepo(database)

	// Initialize services
	mailer := mail.NewSMTPMailer(cfg.EmailHost, cfg.EmailPort, cfg.EmailUser, cfg.EmailPass)
	ledger := otp.NewLedger(rdb)
	store := cache.New(rdb)
	jwtService := auth.NewJWTService(cfg.JWTSecret)
	authService := auth.NewService(clientRepo, adminRepo, ledger, jwtService, mailer)

	// Initialize handlers
	h := httpserver.Handlers{
		Health:       handlers.NewHealthHandler(database, rdb),
		Auth:         handlers.NewAuthHandler(authService),
		Users:        handlers.NewUserHandler(authService, clientRepo),
		Profile:      handlers.NewProfileHandler(authService, clientRepo),
		Packages:     handlers.NewPackageHandler(packageRepo),
		Requests:     handlers.NewRequestHandler(requestRepo, clientRepo, mailer),
		Contact:      handlers.NewContactHandler(contactRepo, mailer),
		Teams:        handlers.NewTeamHandler(teamRepo, store),
		Testimonials: handlers.NewTestimonialHandler(testimonialRepo, store),
	}

	// Create router
	router := httpserver.NewRouter(h, jwtService, clientRepo)

	// Create HTTP server with timeouts
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Server starting on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}

// runMigrations runs database migrations using goose
func runMigrations(database *sql.DB) error {
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	migrationDir := "internal/db/migrations"
	if info, err := os.Stat(migrationDir); err != nil || !info.IsDir() {
		return fmt.Errorf("migrations directory not found (run from the module root)")
	}

	absDir, _ := filepath.Abs(migrationDir)
	log.Printf("Running migrations from %s", absDir)

	if err := goose.Up(database, migrationDir); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}
