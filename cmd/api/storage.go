package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/binarcar/car-rental/internal/api/handler"
	"github.com/binarcar/car-rental/internal/core/ports"
	mongostore "github.com/binarcar/car-rental/internal/infrastructure/db/mongo"
	mysqlstore "github.com/binarcar/car-rental/internal/infrastructure/db/mysql"
	"github.com/binarcar/car-rental/internal/pkg/config"
)

// store bundles the repositories of the configured backend.
type store struct {
	users ports.UserRepository
	roles ports.RoleRepository
	cars  ports.CarRepository
	probe handler.Pinger
	close func()
}

func openStore(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*store, error) {
	switch cfg.StorageDriver {
	case config.StorageMySQL:
		return openMySQL(ctx, cfg, log)
	default:
		return openMongo(ctx, cfg, log)
	}
}

func openMongo(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*store, error) {
	client, db, err := mongostore.Connect(ctx, mongostore.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		return nil, err
	}

	if err := mongostore.EnsureIndexes(ctx, db); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}

	roles := mongostore.NewRoleRepository(db)
	if err := roles.SeedRoles(ctx); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}
	log.Info().Str("database", cfg.Mongo.Database).Msg("connected to mongo")

	return &store{
		users: mongostore.NewUserRepository(db),
		roles: roles,
		cars:  mongostore.NewCarRepository(db),
		probe: mongostore.NewPinger(client),
		close: func() {
			if err := client.Disconnect(context.Background()); err != nil {
				log.Error().Err(err).Msg("mongo disconnect failed")
			}
		},
	}, nil
}

func openMySQL(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*store, error) {
	db, err := mysqlstore.Connect(ctx, mysqlstore.Config{DSN: cfg.MySQL.DSN})
	if err != nil {
		return nil, err
	}

	if err := mysqlstore.RunMigrations(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("mysql migrations: %w", err)
	}
	log.Info().Msg("connected to mysql, migrations applied")

	return &store{
		users: mysqlstore.NewUserRepository(db),
		roles: mysqlstore.NewRoleRepository(db),
		cars:  mysqlstore.NewCarRepository(db),
		probe: mysqlstore.NewPinger(db),
		close: func() {
			if err := db.Close(); err != nil {
				log.Error().Err(err).Msg("mysql close failed")
			}
		},
	}, nil
}
