// Copyright (c) 2026 Vidora. All rights reserved.
// Author: dev@vidora.app

// Command api is the entrypoint of the Vidora HTTP server.
//
// It composes the full dependency graph (config, postgres, redis, object
// storage, token service, domain services, handlers) and runs the server
// until an interrupt signal arrives.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/vidora/vidora/internal/api"
	"github.com/vidora/vidora/internal/media"
	"github.com/vidora/vidora/internal/platform/config"
	"github.com/vidora/vidora/internal/platform/constants"
	"github.com/vidora/vidora/internal/platform/migration"
	pgstore "github.com/vidora/vidora/internal/platform/postgres"
	redisstore "github.com/vidora/vidora/internal/platform/redis"
	"github.com/vidora/vidora/internal/platform/sec"
	"github.com/vidora/vidora/internal/users/account"
	"github.com/vidora/vidora/internal/users/auth"
	"github.com/vidora/vidora/internal/users/channel"
	"github.com/vidora/vidora/internal/videos"
)

func main() {
	ctx := context.Background()

	// ────────────────────── 1. Environment & Logging ──────────────────────

	// Local development loads variables from a .env file; in production the
	// environment is injected by the orchestrator and the file is absent.
	_ = godotenv.Load()

	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})).With(slog.String("app", constants.AppName))
	slog.SetDefault(log)

	cfg, err := config.Load()
	must(log, err, "failed to load configuration")

	if cfg.Debug {
		log = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})).With(slog.String("app", constants.AppName))
		slog.SetDefault(log)
	}

	log.Info("starting",
		slog.String("version", constants.AppVersion),
		slog.String("environment", cfg.Environment),
	)

	// ────────────────────── 2. Infrastructure ──────────────────────

	pool, err := pgstore.NewPool(ctx, cfg.DatabaseURL, log)
	must(log, err, "failed to connect to postgres")
	defer pool.Close()

	must(log, migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, log), "failed to run migrations")

	redisClient, err := redisstore.NewClient(ctx, cfg.RedisURL, log)
	must(log, err, "failed to connect to redis")
	defer redisClient.Close()

	uploader, err := media.NewMinioUploader(ctx, media.MinioConfig{
		Endpoint:      cfg.MediaEndpoint,
		AccessKey:     cfg.MediaAccessKey,
		SecretKey:     cfg.MediaSecretKey,
		Bucket:        cfg.MediaBucket,
		UseSSL:        cfg.MediaUseSSL,
		PublicBaseURL: cfg.MediaPublicURL,
	}, log)
	must(log, err, "failed to connect to media storage")

	// ────────────────────── 3. Security ──────────────────────

	tokenService, err := sec.NewTokenService(
		cfg.AccessTokenSecret,
		cfg.RefreshTokenSecret,
		cfg.AccessTokenTTL,
		cfg.RefreshTokenTTL,
		constants.AuthIssuer,
	)
	must(log, err, "failed to initialize token service")

	// ────────────────────── 4. Repositories ──────────────────────

	userRepository := auth.NewUserRepository(pool)
	historyRepository := account.NewHistoryRepository(pool)
	profileRepository := channel.NewProfileRepository(pool)
	subscriptionRepository := channel.NewSubscriptionRepository(pool)
	profileCache := channel.NewProfileCache(redisClient)
	videoRepository := videos.NewVideoRepository(pool)

	// ────────────────────── 5. Services ──────────────────────

	authService := auth.NewService(userRepository, tokenService, uploader)
	accountService := account.NewService(userRepository, historyRepository, uploader, log)
	channelService := channel.NewService(profileRepository, subscriptionRepository, userRepository, profileCache, log)
	videoService := videos.NewService(videoRepository, uploader, log)

	// ────────────────────── 6. HTTP Handlers ──────────────────────

	liveness, readiness := api.NewHealthHandlers(api.HealthDependencies{
		CheckDatabase: func() error { return pgstore.Ping(ctx, pool) },
		CheckCache:    func() error { return redisstore.Ping(ctx, redisClient) },
		CheckMedia:    func() error { return uploader.Ping(ctx) },
	}, log)

	handlers := api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Auth:      auth.NewHandler(authService, cfg.AccessTokenTTL, cfg.RefreshTokenTTL),
		Account:   account.NewHandler(accountService),
		Channel:   channel.NewHandler(channelService),
		Videos:    videos.NewHandler(videoService),
	}

	// ────────────────────── 7. Server & Graceful Shutdown ──────────────────────

	server := api.NewServer(ctx, cfg, log, tokenService, userRepository, handlers)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server_failed", slog.Any("error", err))
			os.Exit(1)
		}
	case sig := <-shutdown:
		log.Info("shutdown_signal_received", slog.String("signal", sig.String()))
		if err := server.Shutdown(constants.ShutdownTimeout); err != nil {
			log.Error("graceful_shutdown_failed", slog.Any("error", err))
			os.Exit(1)
		}
	}

	log.Info("server stopped")
}

// must terminates the process when a startup step fails. Only used during
// boot; once the server is running, errors flow through the normal paths.
func must(log *slog.Logger, err error, message string) {
	if err != nil {
		log.Error(message, slog.Any("error", err))
		os.Exit(1)
	}
}
