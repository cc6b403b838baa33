package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dom/account-store/internal/api"
	"github.com/dom/account-store/internal/cache"
	"github.com/dom/account-store/internal/config"
	"github.com/dom/account-store/internal/repository/postgres"
	"github.com/dom/account-store/internal/service"
	"github.com/dom/account-store/internal/storage"
	"github.com/dom/account-store/internal/websocket"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Initialize database
	db, err := postgres.NewConnection(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	// Initialize repositories
	repos := postgres.NewRepositories(db)

	ctx := context.Background()

	// Outbound collaborators; anything left nil falls back to defaults
	var ext service.Externals
	if cfg.RedisURL != "" {
		redisCache, err := cache.NewRedisAvailabilityCache(ctx, cfg.RedisURL, cfg.AvailabilityTTL)
		if err != nil {
			log.Fatalf("failed to connect to redis: %v", err)
		}
		defer redisCache.Close()
		ext.Cache = redisCache
		log.Println("Availability cache: redis")
	}
	if cfg.UploadsEnabled() {
		uploader, err := storage.NewS3Uploader(ctx, storage.S3Options{
			Endpoint:        cfg.S3Endpoint,
			Region:          cfg.S3Region,
			AccessKeyID:     cfg.S3AccessKeyID,
			SecretAccessKey: cfg.S3SecretKey,
			Bucket:          cfg.S3Bucket,
			PublicBaseURL:   cfg.S3PublicBaseURL,
		})
		if err != nil {
			log.Fatalf("failed to configure uploads: %v", err)
		}
		ext.Uploader = uploader
		log.Printf("Image uploads: bucket %s", cfg.S3Bucket)
	}

	// Initialize services
	services := service.NewServices(repos, cfg, ext)

	if cfg.AdminEmail != "" && cfg.AdminPassword != "" {
		if err := services.Auth.EnsureAdmin(ctx, cfg.AdminEmail, cfg.AdminPassword); err != nil {
			log.Fatalf("failed to bootstrap admin: %v", err)
		}
	}

	// Initialize WebSocket hub
	hub := websocket.NewHub()
	go hub.Run()

	scheduler, err := services.Notification.Schedule(hub, cfg.NotificationMinInterval, cfg.NotificationMaxInterval)
	if err != nil {
		log.Fatalf("failed to schedule notifications: %v", err)
	}

	// Initialize router
	router := api.NewRouter(services, hub, cfg)

	// Create server
	srv := &http.Server{
		Addr:         "0.0.0.0:" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Printf("Server starting on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	if err := scheduler.Shutdown(); err != nil {
		log.Printf("ERROR [main] scheduler shutdown: %v", err)
	}

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}
	hub.Stop()

	log.Println("Server stopped")
}
