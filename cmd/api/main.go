package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/binarcar/car-rental/internal/api"
	"github.com/binarcar/car-rental/internal/api/handler"
	"github.com/binarcar/car-rental/internal/core/ports"
	"github.com/binarcar/car-rental/internal/core/service"
	redisstore "github.com/binarcar/car-rental/internal/infrastructure/db/redis"
	"github.com/binarcar/car-rental/internal/pkg/config"
	"github.com/binarcar/car-rental/pkg/logger"
)

// @title          Car Rental API
// @version        1.0
// @description    REST API for customer registration, car inventory management and car rentals.
// @BasePath       /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the access token.
func main() {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "car-rental",
	})

	ctx := context.Background()

	store, err := openStore(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.StorageDriver).Msg("failed to open storage")
	}
	defer store.close()

	hasher := service.NewPasswordHasher(bcrypt.DefaultCost)
	if cfg.SeedUsers {
		if err := service.SeedDemoUsers(ctx, store.users, store.roles, hasher, logger.Component("seeder")); err != nil {
			log.Fatal().Err(err).Msg("failed to seed demo users")
		}
	}

	probes := map[string]handler.Pinger{cfg.StorageDriver: store.probe}

	var cache ports.CarCache
	if cfg.Redis.Addr != "" {
		rdb, err := redisstore.Connect(ctx, redisstore.Config{
			Addr:      cfg.Redis.Addr,
			DB:        cfg.Redis.DB,
			OpTimeout: cfg.Redis.Timeout,
		})
		if err != nil {
			log.Fatal().Err(err).Str("addr", cfg.Redis.Addr).Msg("failed to connect to redis")
		}
		defer rdb.Close()

		carCache := redisstore.NewCarCache(rdb, cfg.Redis.CacheTTL, logger.Component("car_cache"))
		cache = carCache
		probes["redis"] = carCache
		log.Info().Str("addr", cfg.Redis.Addr).Dur("ttl", cfg.Redis.CacheTTL).Msg("car cache enabled")
	}

	tokens := service.NewTokenService(cfg.JWT.Secret, cfg.JWT.TTL)
	authService := service.NewAuthService(store.users, store.roles, hasher, tokens, logger.Component("auth"))
	carService := service.NewCarService(store.cars, cache, logger.Component("cars"))
	policy := service.NewAccessPolicy(tokens, store.users, store.roles, logger.Component("access"))

	e := api.NewRouter(api.Deps{
		Auth:          authService,
		Cars:          carService,
		Policy:        policy,
		Probes:        probes,
		AuthRateLimit: cfg.AuthRateLimit,
		Log:           logger.Component("http"),
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      e,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Str("storage", cfg.StorageDriver).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited")
}
