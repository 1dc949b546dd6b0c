package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/dm0114/capacitor-push-prototype/internal/repository/postgres/migrations"
)

// goose keeps its settings in package globals
var gooseMu sync.Mutex

// Migrate applies the embedded migrations for the given table prefix. The
// prefix is exported as TABLE_PREFIX for the migrations' substitution and
// also names the goose version table, so environments migrate
// independently.
func Migrate(ctx context.Context, pool *pgxpool.Pool, tables *TableNames, logger *slog.Logger) error {
	gooseMu.Lock()
	defer gooseMu.Unlock()

	if err := os.Setenv("TABLE_PREFIX", tables.Prefix); err != nil {
		return fmt.Errorf("export table prefix: %w", err)
	}

	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()

	goose.SetBaseFS(migrations.FS)
	goose.SetTableName(tables.Prefix + "goose_db_version")
	goose.SetLogger(goose.NopLogger())
	if err := goose.SetDialect("pgx"); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}

	if err := goose.UpContext(ctx, db, "."); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	version, err := goose.GetDBVersionContext(ctx, db)
	if err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	logger.Info("database migrated", "version", version, "table_prefix", tables.Prefix)
	return nil
}
