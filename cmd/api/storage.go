package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/sirpyerre/pizza-delivery-api/internal/core/ports"
	"github.com/sirpyerre/pizza-delivery-api/internal/infrastructure/config"
	"github.com/sirpyerre/pizza-delivery-api/internal/infrastructure/db/memory"
	"github.com/sirpyerre/pizza-delivery-api/internal/infrastructure/db/mongo"
	"github.com/sirpyerre/pizza-delivery-api/internal/infrastructure/db/postgres"
	"github.com/sirpyerre/pizza-delivery-api/internal/infrastructure/db/sqlite"
	"github.com/sirpyerre/pizza-delivery-api/internal/infrastructure/http/handlers"
)

// storage bundles the repositories of one driver with its readiness check.
type storage struct {
	users  ports.UserRepository
	orders ports.OrderRepository
	audit  ports.AuditRepository
	checks map[string]handlers.Checker
	close  func(context.Context) error
}

func openStorage(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*storage, error) {
	switch cfg.Storage.Driver {
	case config.DriverMongo:
		client, db, err := mongo.Connect(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return nil, err
		}
		if err := mongo.EnsureIndexes(ctx, db); err != nil {
			_ = client.Disconnect(ctx)
			return nil, err
		}
		return &storage{
			users:  mongo.NewUserRepository(db),
			orders: mongo.NewOrderRepository(db),
			audit:  mongo.NewAuditRepository(db),
			checks: map[string]handlers.Checker{"mongodb": mongo.Ping(db)},
			close:  client.Disconnect,
		}, nil

	case config.DriverPostgres:
		db, err := postgres.Open(cfg.Storage.PostgresDSN, log)
		if err != nil {
			return nil, err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		return &storage{
			users:  postgres.NewUserRepository(db),
			orders: postgres.NewOrderRepository(db),
			audit:  postgres.NewAuditRepository(db),
			checks: map[string]handlers.Checker{"postgres": postgres.Ping(db)},
			close:  func(context.Context) error { return sqlDB.Close() },
		}, nil

	case config.DriverSQLite:
		db, err := sqlite.Open(ctx, cfg.Storage.SQLiteDSN)
		if err != nil {
			return nil, err
		}
		return &storage{
			users:  sqlite.NewUserRepository(db),
			orders: sqlite.NewOrderRepository(db),
			audit:  sqlite.NewAuditRepository(db),
			checks: map[string]handlers.Checker{"sqlite": sqlite.Ping(db)},
			close:  func(context.Context) error { return db.Close() },
		}, nil

	case config.DriverMemory:
		log.Warn().Msg("memory storage: data is lost on restart")
		return &storage{
			users:  memory.NewUserRepository(),
			orders: memory.NewOrderRepository(),
			audit:  memory.NewAuditRepository(),
			checks: map[string]handlers.Checker{},
			close:  func(context.Context) error { return nil },
		}, nil
	}
	return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
}
