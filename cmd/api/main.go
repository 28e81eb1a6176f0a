// @title                       Fit Experts API
// @version                     1.0
// @description                 Expert directory: accounts, profiles with photos, and program listings.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/fitexperts/experts-api/internal/api"
	"github.com/fitexperts/experts-api/internal/api/handler"
	"github.com/fitexperts/experts-api/internal/core/service"
	"github.com/fitexperts/experts-api/internal/infrastructure/db/mongo"
	"github.com/fitexperts/experts-api/internal/infrastructure/db/redis"
	"github.com/fitexperts/experts-api/internal/infrastructure/queue"
	"github.com/fitexperts/experts-api/internal/infrastructure/storage/cloudinary"
	"github.com/fitexperts/experts-api/internal/infrastructure/tracing"
	"github.com/fitexperts/experts-api/internal/pkg/config"
	"github.com/fitexperts/experts-api/pkg/logger"
)

const (
	serviceName     = "experts-api"
	shutdownTimeout = 15 * time.Second
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		// The logger level comes from config, so fall back to a bare one here.
		l := zerolog.New(os.Stderr).With().Timestamp().Logger()
		l.Fatal().Err(err).Msg("invalid configuration")
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Service: serviceName,
		Pretty:  !cfg.IsProduction(),
	})

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	shutdownTracing, err := tracing.Setup(ctx, serviceName, cfg.Tracing.Endpoint)
	if err != nil {
		return err
	}

	tokens, err := service.NewTokenService(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	if err != nil {
		return err
	}

	store, err := cloudinary.NewAssetStore(cloudinary.Credentials{
		CloudName: cfg.Storage.CloudName,
		APIKey:    cfg.Storage.APIKey,
		APISecret: cfg.Storage.APISecret,
	}, cfg.Upload.Timeout, log.With().Str("component", "asset_store").Logger())
	if err != nil {
		return err
	}

	mongoClient, db, err := mongo.Connect(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		return err
	}
	rdb, err := redis.Connect(ctx, redis.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
	if err != nil {
		_ = mongoClient.Disconnect(context.Background())
		return err
	}

	users := mongo.NewUserRepository(db)
	programs := mongo.NewProgramRepository(db)
	if err := users.EnsureIndexes(ctx); err != nil {
		log.Warn().Err(err).Msg("users indexes not created")
	}
	if err := programs.EnsureIndexes(ctx); err != nil {
		log.Warn().Err(err).Msg("programs indexes not created")
	}

	orphans := redis.NewOrphanLedger(rdb)
	photos := service.NewProfilePhotoWorkflow(service.NewUploadIntake(cfg.Upload.MaxFileSize), store, orphans, log)

	authService := service.NewAuthService(users, tokens, photos, log)
	profileService := service.NewProfileService(users, photos, log)
	programService := service.NewProgramService(programs, log)

	sweepCtx, stopSweeper := context.WithCancel(context.Background())
	queue.NewSweeper(orphans, store, cfg.Storage.SweepInterval, log.With().Str("component", "sweeper").Logger()).Start(sweepCtx)

	e := api.NewRouter(api.Options{
		Log:         log,
		Production:  cfg.IsProduction(),
		ClientURL:   cfg.ClientURL,
		UserRPS:     cfg.RateLimit.RPS,
		MaxFileSize: cfg.Upload.MaxFileSize,
		Verifier:    tokens,
		Users: handler.NewUserHandler(authService, profileService, handler.CookieOptions{
			MaxAge: cfg.Auth.TokenTTL,
			Secure: cfg.IsProduction(),
		}),
		Programs: handler.NewProgramHandler(programService),
		Health: handler.NewHealthHandler(map[string]handler.Check{
			"mongodb": func(ctx context.Context) error { return mongo.Ping(ctx, mongoClient) },
			"redis":   func(ctx context.Context) error { return redis.Ping(ctx, rdb, 2*time.Second) },
		}),
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("server listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	var serveErr error
	select {
	case <-ctx.Done():
		log.Info().Msg("shutdown signal received")
	case serveErr = <-errCh:
	}

	stopSweeper()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown")
	}
	if err := mongoClient.Disconnect(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("mongo disconnect")
	}
	if err := rdb.Close(); err != nil {
		log.Error().Err(err).Msg("redis close")
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("tracer shutdown")
	}

	log.Info().Msg("server stopped")
	return serveErr
}
