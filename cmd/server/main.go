// Package main implements the entry point for the storely API server:
// user accounts, a product catalog, and per-user shopping carts.
package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/storely/storely-api/internal/config"
	"github.com/storely/storely-api/internal/platform/logger"
	"github.com/storely/storely-api/internal/platform/postgres"
	"github.com/storely/storely-api/internal/service"
	"github.com/storely/storely-api/internal/service/auth"
)

// application bundles the wired dependencies of a running server.
type application struct {
	config         *config.Config
	logger         *slog.Logger
	db             *sql.DB
	jwtService     auth.JWTService
	authService    service.AuthService
	productService service.ProductService
	cartService    service.CartService
}

func main() {
	migrateCmd := flag.String("migrate", "", "run database migrations (up, down, status) and exit")
	flag.Parse()

	if err := run(*migrateCmd); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}

func run(migrateCmd string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	appLogger := logger.Setup(cfg.Server)
	appLogger.Info("configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel)

	db, err := openDatabase(cfg.Database)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			appLogger.Error("failed to close database", "error", err)
		}
	}()

	if migrateCmd != "" {
		appLogger.Info("running migrations", "command", migrateCmd)
		return runMigrations(db, migrateCmd)
	}

	app, err := newApplication(cfg, appLogger, db)
	if err != nil {
		return err
	}

	return app.serve()
}

// newApplication wires stores, services, and handlers together.
func newApplication(cfg *config.Config, appLogger *slog.Logger, db *sql.DB) (*application, error) {
	jwtService, err := auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to create JWT service: %w", err)
	}

	hasher := auth.NewBcryptHasher(cfg.Auth.BcryptCost)

	userStore := postgres.NewUserStore(db, appLogger)
	productStore := postgres.NewProductStore(db, appLogger)
	cartStore := postgres.NewCartStore(db, appLogger)

	return &application{
		config:         cfg,
		logger:         appLogger,
		db:             db,
		jwtService:     jwtService,
		authService:    service.NewAuthService(userStore, hasher, hasher, jwtService, appLogger),
		productService: service.NewProductService(productStore, appLogger),
		cartService:    service.NewCartService(cartStore, productStore, appLogger),
	}, nil
}

// serve runs the HTTP server until SIGINT/SIGTERM, then shuts down
// gracefully.
func (app *application) serve() error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", app.config.Server.Port),
		Handler:           app.setupRouter(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}

	errCh := make(chan error, 1)
	go func() {
		app.logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case sig := <-stop:
		app.logger.Info("shutting down", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	app.logger.Info("server stopped")
	return nil
}
