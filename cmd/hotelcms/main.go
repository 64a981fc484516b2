// Package main is the entry point for the hotel CMS API server.
// It loads configuration, connects to services, sets up routing, and starts
// the HTTP server with graceful shutdown support.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"hotelcms/internal/config"
	"hotelcms/internal/database"
	"hotelcms/internal/handlers"
	"hotelcms/internal/router"
	"hotelcms/internal/service"
	"hotelcms/internal/session"
	"hotelcms/internal/storage"
	"hotelcms/internal/store"
)

func main() {
	// Load configuration from environment variables.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Structured logger: text in development, JSON everywhere else.
	opts := &slog.HandlerOptions{Level: cfg.SlogLevel()}
	var handler slog.Handler = slog.NewJSONHandler(os.Stdout, opts)
	if cfg.IsDev() {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(handler))

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Connect to PostgreSQL.
	db, err := database.Connect(ctx, cfg.DSN(), database.DefaultOptions())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// Run pending migrations.
	if err := database.Migrate(ctx, db); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Seed the admin account (no-op once it exists).
	if err := database.SeedAdmin(ctx, db, cfg.AdminUsername, cfg.AdminPassword); err != nil {
		slog.Error("failed to seed admin", "error", err)
		os.Exit(1)
	}

	// Connect to Valkey for sessions.
	valkeyClient, err := session.Connect(ctx, cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword)
	if err != nil {
		slog.Error("failed to connect to valkey", "error", err)
		os.Exit(1)
	}
	defer valkeyClient.Close()

	// In non-development environments, mark session cookies as Secure (HTTPS-only).
	sessionStore := session.NewStore(valkeyClient, !cfg.IsDev())

	// Connect to S3-compatible object storage.
	policy := storage.DefaultPolicy()
	storageClient, err := storage.New(ctx, storage.Options{
		Endpoint:  cfg.S3Endpoint,
		Region:    cfg.S3Region,
		AccessKey: cfg.S3AccessKey,
		SecretKey: cfg.S3SecretKey,
		Bucket:    cfg.S3Bucket,
		PublicURL: cfg.S3PublicURL,
		Policy:    policy,
	})
	if err != nil {
		slog.Error("failed to initialize S3 storage", "error", err)
		os.Exit(1)
	}
	slog.Info("s3 storage configured", "endpoint", cfg.S3Endpoint, "bucket", storageClient.Bucket())

	// Initialize data stores.
	adminStore := store.NewAdminStore(db)
	categoryStore := store.NewCategoryStore(db)
	priceStore := store.NewPriceStore(db)
	galleryStore := store.NewGalleryStore(db)

	// Services own the database and storage orchestration.
	categories := service.NewCategoryService(categoryStore, priceStore, storageClient)
	prices := service.NewPriceService(priceStore, categoryStore)
	gallery := service.NewGalleryService(galleryStore, categoryStore, storageClient)

	// Create handler groups with their dependencies.
	adminHandlers := handlers.NewAdmin(categories, prices, gallery, storageClient, policy.MaxSize())
	authHandlers := handlers.NewAuth(sessionStore, adminStore)
	publicHandlers := handlers.NewPublic(categories, prices, gallery)

	// Set up the Chi router with all middleware and routes.
	r := router.New(sessionStore, cfg.LoginRateLimit, adminHandlers, authHandlers, publicHandlers)

	// WriteTimeout must cover a 64 MB video upload relayed to storage.
	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	// Start the server in a goroutine so we can listen for shutdown signals.
	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown: wait for SIGINT or SIGTERM, then drain connections.
	<-ctx.Done()
	slog.Info("shutdown signal received")

	// Give active requests up to 30 seconds to complete.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
	}

	// Let background storage cleanups from deleted categories finish.
	categories.Wait()
	gallery.Wait()

	slog.Info("server stopped gracefully")
}
