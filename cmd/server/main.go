// @title        Account Service API
// @version      1.0
// @description  User registration, login and token-based session lifecycle.
// @BasePath     /api/v1
//
// @securityDefinitions.apikey  CookieAuth
// @in                          cookie
// @name                        accessToken
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/vidhub/account-service/internal/api"
	"github.com/vidhub/account-service/internal/api/handler"
	"github.com/vidhub/account-service/internal/core/ports"
	"github.com/vidhub/account-service/internal/core/service"
	mongodb "github.com/vidhub/account-service/internal/infrastructure/db/mongo"
	redisdb "github.com/vidhub/account-service/internal/infrastructure/db/redis"
	"github.com/vidhub/account-service/internal/infrastructure/media"
	"github.com/vidhub/account-service/internal/infrastructure/queue"
	"github.com/vidhub/account-service/internal/pkg/config"
	"github.com/vidhub/account-service/pkg/logger"
)

const (
	serviceName     = "account-service"
	shutdownTimeout = 10 * time.Second
)

func main() {
	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: serviceName,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Database
	client, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:         cfg.Mongo.URI,
		Database:    cfg.Mongo.Database,
		AppName:     serviceName,
		MaxPoolSize: cfg.Mongo.MaxPoolSize,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongo connection failed")
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = client.Disconnect(disconnectCtx)
	}()
	log.Info().Str("database", cfg.Mongo.Database).Msg("connected to mongo")

	userRepo := mongodb.NewUserRepository(db)
	if err := userRepo.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("ensure user indexes failed")
	}

	healthChecks := map[string]handler.HealthCheck{"mongodb": handler.MongoCheck(db)}

	// Rotation lock is optional: without Redis, rotation relies on the
	// store's compare-and-swap alone.
	var lock ports.RotationLock
	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		PoolSize: cfg.Redis.PoolSize,
	})
	if err != nil {
		log.Warn().Err(err).Msg("redis unavailable, refresh rotation runs without distributed lock")
	} else {
		defer rdb.Close()
		lock = redisdb.NewRotationLock(rdb)
		healthChecks["redis"] = handler.RedisCheck(rdb)
		log.Info().Str("addr", cfg.Redis.Addr).Msg("connected to redis")
	}

	// Media
	store, err := media.NewStore(ctx, media.Config{
		Bucket:        cfg.Media.Bucket,
		Region:        cfg.Media.Region,
		Endpoint:      cfg.Media.Endpoint,
		AccessKey:     cfg.Media.AccessKey,
		SecretKey:     cfg.Media.SecretKey,
		PublicBaseURL: cfg.Media.PublicBaseURL,
		KeyPrefix:     cfg.Media.KeyPrefix,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("media store setup failed")
	}

	// Audit trail
	dispatcherCtx, stopDispatcher := context.WithCancel(context.Background())
	dispatcher := queue.NewDispatcher(0, mongodb.NewSessionEventRepository(db), log)
	dispatcher.Start(dispatcherCtx)

	// Services
	tokens := service.NewTokenService(service.TokenConfig{
		AccessSecret:  cfg.Auth.AccessSecret,
		RefreshSecret: cfg.Auth.RefreshSecret,
		AccessTTL:     cfg.Auth.AccessTTL,
		RefreshTTL:    cfg.Auth.RefreshTTL,
	})
	credentials := service.NewCredentialStore(userRepo, cfg.Auth.BcryptCost)
	sessions := service.NewSessionService(credentials, tokens, store, lock, cfg.Auth.RefreshLockTTL, dispatcher, log)
	authenticator := service.NewAuthenticator(tokens, credentials)

	e := api.NewRouter(api.Deps{
		Sessions:      sessions,
		Authenticator: authenticator,
		Cookies: handler.CookieConfig{
			Secure:     cfg.Auth.CookieSecure,
			AccessTTL:  tokens.AccessTTL(),
			RefreshTTL: tokens.RefreshTTL(),
		},
		UploadDir:    cfg.UploadDir,
		HealthChecks: healthChecks,
		CORSOrigins:  cfg.CORSOrigin,
		BodyLimit:    cfg.BodyLimit,
		UploadLimit:  cfg.UploadLimit,
		Log:          log,
	})

	go func() {
		log.Info().Str("port", cfg.Port).Msg("starting server")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("server stopped")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}

	stopDispatcher()
	dispatcher.Wait()
}
