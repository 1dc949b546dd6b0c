package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
)

// dataTables lists tables children first so deletes respect foreign keys.
func (t *TableNames) dataTables() []string {
	return []string{t.RowValues, t.Rows, t.Views, t.Properties, t.Blocks, t.Pages, t.Users}
}

// DropAll drops every workspace table of the prefix, including the goose
// version table, so the next Migrate starts from scratch.
func DropAll(ctx context.Context, pool *pgxpool.Pool, tables *TableNames) error {
	names := append(tables.dataTables(), tables.Prefix+"goose_db_version")
	query := fmt.Sprintf("DROP TABLE IF EXISTS %s CASCADE", strings.Join(names, ", "))
	if _, err := pool.Exec(ctx, query); err != nil {
		return fmt.Errorf("drop tables: %w", err)
	}
	return nil
}

// ClearData empties the workspace tables and keeps the schema.
func ClearData(ctx context.Context, pool *pgxpool.Pool, tables *TableNames) error {
	query := fmt.Sprintf("TRUNCATE %s", strings.Join(tables.dataTables(), ", "))
	if _, err := pool.Exec(ctx, query); err != nil {
		return fmt.Errorf("clear data: %w", err)
	}
	return nil
}
