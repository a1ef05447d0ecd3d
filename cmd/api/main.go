// @title        Pizza Delivery API
// @version      1.0
// @description  Order pizzas, track their status and manage them as staff.
// @BasePath     /
//
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

	"github.com/sirpyerre/pizza-delivery-api/internal/api"
	"github.com/sirpyerre/pizza-delivery-api/internal/core/policy"
	"github.com/sirpyerre/pizza-delivery-api/internal/core/service"
	"github.com/sirpyerre/pizza-delivery-api/internal/infrastructure/config"
	"github.com/sirpyerre/pizza-delivery-api/internal/infrastructure/db/redis"
	"github.com/sirpyerre/pizza-delivery-api/internal/infrastructure/queue"
	"github.com/sirpyerre/pizza-delivery-api/internal/infrastructure/security"
	"github.com/sirpyerre/pizza-delivery-api/pkg/logger"
)

const shutdownTimeout = 15 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		boot := logger.Init(logger.Options{})
		boot.Fatal().Err(err).Msg("failed to load config")
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "pizza-delivery-api",
	})

	store, err := openStorage(ctx, cfg, logger.Component("storage"))
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.Storage.Driver).Msg("failed to open storage")
	}
	log.Info().Str("driver", cfg.Storage.Driver).Msg("storage ready")

	dispatcher := queue.NewDispatcher(cfg.Audit.Workers, store.audit, logger.Component("audit"))
	dispatcher.Start()

	orderOpts := []service.OrderOption{service.WithEventPublisher(dispatcher)}
	if cfg.Redis.Addr != "" {
		rdb, err := redis.Connect(ctx, redis.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
		if err != nil {
			log.Fatal().Err(err).Str("addr", cfg.Redis.Addr).Msg("failed to connect to redis")
		}
		defer rdb.Close()
		store.checks["redis"] = redis.Ping(rdb)
		orderOpts = append(orderOpts, service.WithIdempotency(redis.NewIdempotencyStore(rdb, cfg.Redis.IdempotencyTTL)))
		log.Info().Str("addr", cfg.Redis.Addr).Msg("idempotent order placement enabled")
	}

	tokens := service.NewTokenService(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTL, cfg.Auth.RefreshTokenTTL)
	authService := service.NewAuthService(
		store.users,
		security.NewBcryptHasher(cfg.Auth.BcryptCost),
		tokens,
		logger.Component("auth"),
	)
	orderService := service.NewOrderService(
		store.orders,
		policy.New(cfg.Auth.RestrictMutations),
		logger.Component("orders"),
		orderOpts...,
	)

	e := api.NewRouter(api.Dependencies{
		Auth:   authService,
		Orders: orderService,
		Checks: store.checks,
		Logger: logger.Component("http"),
	})

	go func() {
		log.Info().Str("port", cfg.Port).Msg("http server listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("http server stopped")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown")
	}
	if err := dispatcher.Close(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("audit events still queued at shutdown")
	}
	if err := store.close(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("storage close")
	}
	log.Info().Msg("stopped")
}
