// Copyright (c) 2026 Manassa Platform Authors <platform@manassa.net>
// All rights reserved. See LICENSE for details.

// Package main is the entry point for the Manassa content platform API.
// It loads configuration, connects to services, sets up routing, and
// starts the HTTP server with graceful shutdown support.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"manassa/internal/cache"
	"manassa/internal/comments"
	"manassa/internal/config"
	"manassa/internal/contentkind"
	"manassa/internal/database"
	"manassa/internal/handlers"
	"manassa/internal/middleware"
	"manassa/internal/notify"
	"manassa/internal/router"
	"manassa/internal/session"
	"manassa/internal/storage"
	"manassa/internal/store"
	"manassa/internal/sweep"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
	)

	// PostgreSQL.
	db, err := database.Connect(cfg.DSN())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Seed development data (no-op if data already exists).
	if cfg.IsDev() {
		if err := database.Seed(db); err != nil {
			slog.Error("failed to seed database", "error", err)
			os.Exit(1)
		}
	}

	// Valkey backs sessions and the response cache.
	valkeyClient, err := cache.ConnectValkey(cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword)
	if err != nil {
		slog.Error("failed to connect to valkey", "error", err)
		os.Exit(1)
	}
	defer valkeyClient.Close()

	secureCookies := !cfg.IsDev()
	sessionStore := session.NewStore(valkeyClient, secureCookies)

	// Data stores.
	userStore := store.NewUserStore(db)
	contentStore := store.NewContentStore(db)
	categoryStore := store.NewCategoryStore(db)
	commentStore := store.NewCommentStore(db)
	counterStore := store.NewCounterStore(db)
	ratingStore := store.NewRatingStore(db)
	adStore := store.NewAdStore(db)
	mediaStore := store.NewMediaStore(db)
	cacheLogStore := store.NewCacheLogStore(db)

	// S3-compatible object storage (optional, uploads disabled without it).
	var storageClient *storage.Client
	if cfg.S3Endpoint != "" && cfg.S3AccessKey != "" {
		storageClient, err = storage.New(
			cfg.S3Endpoint, cfg.S3Region, cfg.S3AccessKey, cfg.S3SecretKey,
			cfg.S3Bucket, cfg.S3PrivateBucket, cfg.S3PublicURL,
		)
		if err != nil {
			slog.Error("failed to initialize S3 storage", "error", err)
			os.Exit(1)
		}
		if storageClient != nil {
			slog.Info("s3 storage connected",
				"endpoint", cfg.S3Endpoint,
				"media_bucket", cfg.S3Bucket,
				"private_bucket", cfg.S3PrivateBucket,
			)
		}
	} else {
		slog.Warn("s3 storage not configured, media uploads disabled")
	}

	// Response cache and the invalidation hook.
	responseCache := cache.NewResponseCache(valkeyClient, cache.DefaultTTL)
	invalidator := cache.NewInvalidator(responseCache, cacheLogStore)

	// Outbound email, best-effort.
	mailer := notify.NewMailer(notify.Config{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUsername,
		Password: cfg.SMTPPassword,
		From:     cfg.SMTPFrom,
		BaseURL:  cfg.BaseURL,
	})

	registry := contentkind.NewRegistry()
	commentSvc := comments.NewService(contentStore, userStore, commentStore, invalidator, mailer)

	// Scheduled-publication sweeper.
	sweeper := sweep.NewSweeper(contentStore, userStore, invalidator, mailer)
	if err := sweeper.Start(cfg.SweepSchedule); err != nil {
		slog.Error("failed to start sweeper", "error", err)
		os.Exit(1)
	}
	defer sweeper.Stop()

	// Handler groups.
	authHandlers := handlers.NewAuth(sessionStore, userStore)
	publicHandlers := handlers.NewPublic(registry, contentStore, categoryStore, counterStore, ratingStore, adStore, commentSvc, responseCache)
	adminHandlers := handlers.NewAdmin(registry, contentStore, counterStore, categoryStore, commentSvc, commentStore, adStore, userStore, cacheLogStore, invalidator)
	mediaHandlers := handlers.NewMedia(mediaStore, storageClient)

	rateLimiter := middleware.NewRateLimiter(300, time.Minute)
	defer rateLimiter.Stop()

	r := router.New(sessionStore, rateLimiter, authHandlers, publicHandlers, adminHandlers, mediaHandlers)

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown: wait for SIGINT or SIGTERM, then drain connections.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutdown signal received", "signal", sig)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped gracefully")
}
