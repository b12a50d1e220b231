// Package persistence selects the repository implementations for the configured storage driver.
package persistence

import (
	"marketplace/config"
	"marketplace/internal/errors"
	"marketplace/internal/infra/persistence/mongodb"
	"marketplace/internal/infra/persistence/postgres"

	"go.uber.org/fx"
)

// Module provides the store connection and the user, product and order repositories.
func Module(driver string) (fx.Option, error) {
	switch driver {
	case config.StorageMongoDB:
		return fx.Module("mongodb",
			fx.Provide(
				mongodb.New,
				mongodb.NewUserRepository,
				mongodb.NewProductRepository,
				mongodb.NewOrderRepository,
			),
		), nil
	case config.StoragePostgres:
		return fx.Module("postgres",
			fx.Provide(
				postgres.New,
				postgres.NewUserRepository,
				postgres.NewProductRepository,
				postgres.NewOrderRepository,
			),
		), nil
	default:
		return nil, errors.Errorf("unsupported storage driver %q", driver)
	}
}
