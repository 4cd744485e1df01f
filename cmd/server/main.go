package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ikkim/storefront/config"
	"github.com/ikkim/storefront/internal/app/controller"
	"github.com/ikkim/storefront/internal/app/repository"
	"github.com/ikkim/storefront/internal/app/service"
	"github.com/ikkim/storefront/internal/db"
	"github.com/ikkim/storefront/internal/middleware"
	"github.com/ikkim/storefront/internal/router"
	"github.com/ikkim/storefront/internal/scheduler"
	"github.com/ikkim/storefront/internal/storage"
	ws "github.com/ikkim/storefront/internal/websocket"
	"github.com/ikkim/storefront/pkg/backend"
	"github.com/ikkim/storefront/pkg/logger"
	"github.com/ikkim/storefront/pkg/redis"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	// Initialize logger
	logLevel := "info"
	logFormat := "json"
	if cfg.Server.Environment == "development" {
		logLevel = "debug"
		logFormat = "console"
	}
	logger.Initialize(logger.Config{
		Level:       logLevel,
		Format:      logFormat,
		EnableColor: true,
	})

	logger.Info("Starting Storefront Server", map[string]interface{}{
		"environment":  cfg.Server.Environment,
		"port":         cfg.Server.Port,
		"log_level":    logLevel,
		"store_driver": cfg.Store.Driver,
		"backend_url":  cfg.Backend.BaseURL,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Session store
	store, closeStore := openStore(cfg)
	defer closeStore()

	// Backend API client
	client, err := backend.NewClient(backend.Config{
		BaseURL: cfg.Backend.BaseURL,
		Timeout: cfg.Backend.Timeout,
	})
	if err != nil {
		logger.Fatal("Failed to create backend client", err)
	}

	// Cart event hub
	hub := ws.NewHub()
	go hub.Run(ctx)

	// Initialize services
	sessions := service.NewSessionService(store, hub)
	catalogService := service.NewCatalogService(client)
	authService := service.NewAuthService(client, store)
	orderService := service.NewOrderService(client)
	favoriteService := service.NewFavoriteService(client, catalogService)
	adminService := service.NewAdminService(client)
	s3Storage := storage.NewS3Storage(ctx, cfg.S3)

	// Initialize controllers
	r := router.NewRouter(
		controller.NewCatalogController(catalogService),
		controller.NewCartController(sessions, catalogService),
		controller.NewCartEventsController(hub, sessions, cfg.CORS.AllowedOrigins),
		controller.NewOrderController(orderService, sessions),
		controller.NewAuthController(authService),
		controller.NewFavoriteController(favoriteService, sessions),
		controller.NewAdminController(adminService, authService),
		controller.NewUploadController(s3Storage),
		middleware.NewAuthMiddleware(authService),
		cfg,
	)

	// Idle carts leave memory; their state stays in the store
	sweeper := scheduler.NewSessionSweeper(sessions, cfg.Session.SweepSchedule, cfg.Session.IdleTTL)
	if err := sweeper.Start(); err != nil {
		logger.Fatal("Failed to start session sweeper", err)
	}
	defer sweeper.Stop()

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:           r.Setup(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Server started successfully", map[string]interface{}{
			"address": srv.Addr,
			"pid":     os.Getpid(),
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	<-ctx.Done()
	logger.Info("Shutting down server gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", err)
	}

	logger.Info("Server stopped successfully", map[string]interface{}{
		"open_sessions": sessions.Active(),
	})
}

// openStore connects the configured session store and returns its closer.
func openStore(cfg *config.Config) (repository.Store, func()) {
	switch cfg.Store.Driver {
	case "redis":
		client, err := redis.Init(&cfg.Redis)
		if err != nil {
			logger.Fatal("Failed to initialize Redis", err)
		}
		return repository.NewRedisStore(client, cfg.Store.TTL), func() {
			if err := redis.Close(); err != nil {
				logger.Error("Failed to close Redis connection", err)
			}
		}

	case "postgres":
		if err := db.Initialize(&cfg.Database); err != nil {
			logger.Fatal("Failed to initialize database", err)
		}
		if err := db.Migrate(); err != nil {
			logger.Fatal("Failed to run migrations", err)
		}
		return repository.NewGormStore(db.GetDB()), func() {
			if err := db.Close(); err != nil {
				logger.Error("Failed to close database connection", err)
			}
		}

	default:
		logger.Warn("Using in-memory session store; carts are lost on restart", nil)
		return repository.NewMemoryStore(), func() {}
	}
}
