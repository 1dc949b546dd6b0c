package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/dm0114/capacitor-push-prototype/internal/config"
	"github.com/dm0114/capacitor-push-prototype/internal/domain/repositories"
	"github.com/dm0114/capacitor-push-prototype/internal/repository/memory"
	"github.com/dm0114/capacitor-push-prototype/internal/repository/postgres"
	"github.com/dm0114/capacitor-push-prototype/internal/seed"
)

// storage is the repository set the services run on.
type storage struct {
	seed.Repositories
	TxManager repositories.TransactionManager
	Close     func()
}

// openStorage connects to Postgres when DATABASE_URL is set and migrates it,
// otherwise keeps the workspace in memory.
func openStorage(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*storage, error) {
	if cfg.DatabaseURL == "" {
		logger.Warn("DATABASE_URL not set, using in-memory storage")
		store := memory.NewStore()
		return &storage{
			Repositories: seed.Repositories{
				Users:      memory.NewUserRepository(store),
				Pages:      memory.NewPageRepository(store),
				Blocks:     memory.NewBlockRepository(store),
				Properties: memory.NewPropertyRepository(store),
				Rows:       memory.NewRowRepository(store),
				Views:      memory.NewViewRepository(store),
			},
			TxManager: memory.NewTransactionManager(store),
			Close:     func() {},
		}, nil
	}

	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL, logger)
	if err != nil {
		return nil, err
	}

	tables := postgres.NewTableNames(cfg.TablePrefix)
	if err := postgres.Migrate(ctx, pool, tables, logger); err != nil {
		pool.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Tables: tables,
		Logger: logger,
	}
	return &storage{
		Repositories: seed.Repositories{
			Users:      postgres.NewUserRepository(repoConfig),
			Pages:      postgres.NewPageRepository(repoConfig),
			Blocks:     postgres.NewBlockRepository(repoConfig),
			Properties: postgres.NewPropertyRepository(repoConfig),
			Rows:       postgres.NewRowRepository(repoConfig),
			Views:      postgres.NewViewRepository(repoConfig),
		},
		TxManager: postgres.NewTransactionManager(pool, logger),
		Close:     pool.Close,
	}, nil
}
