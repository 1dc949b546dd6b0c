package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dm0114/capacitor-push-prototype/internal/domain"
	models "github.com/dm0114/capacitor-push-prototype/internal/domain/models/workspace"
	repos "github.com/dm0114/capacitor-push-prototype/internal/domain/repositories/workspace"
)

// encodeJSON marshals v for a JSONB parameter. Passing bytes keeps pgx from
// treating Go strings as raw JSON text.
func encodeJSON(v any) ([]byte, error) {
	return json.Marshal(v)
}

func decodeConfig(raw []byte) (map[string]any, error) {
	cfg := map[string]any{}
	if len(raw) == 0 {
		return cfg, nil
	}
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return nil, err
	}
	if cfg == nil {
		cfg = map[string]any{}
	}
	return cfg, nil
}

// PostgresPropertyRepository implements the PropertyRepository interface
type PostgresPropertyRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

func NewPropertyRepository(config *RepositoryConfig) repos.PropertyRepository {
	return &PostgresPropertyRepository{pool: config.Pool, tables: config.Tables}
}

const propertyColumns = `id, database_id, name, type, config, position, options`

func (r *PostgresPropertyRepository) ListByDatabase(ctx context.Context, databaseID string) ([]models.Property, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE database_id = $1
		ORDER BY seq
	`, propertyColumns, r.tables.Properties)

	rows, err := GetExecutor(ctx, r.pool).Query(ctx, query, databaseID)
	if err != nil {
		return nil, fmt.Errorf("list properties: %w", err)
	}
	defer rows.Close()

	props := []models.Property{}
	for rows.Next() {
		prop, err := scanProperty(rows)
		if err != nil {
			return nil, fmt.Errorf("scan property: %w", err)
		}
		props = append(props, *prop)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate properties: %w", err)
	}
	return props, nil
}

func (r *PostgresPropertyRepository) GetByID(ctx context.Context, id string) (*models.Property, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1`, propertyColumns, r.tables.Properties)

	prop, err := scanProperty(GetExecutor(ctx, r.pool).QueryRow(ctx, query, id))
	if err != nil {
		if isPgNoRowsError(err) {
			return nil, domain.NewNotFound("property", id)
		}
		return nil, fmt.Errorf("get property: %w", err)
	}
	return prop, nil
}

func (r *PostgresPropertyRepository) Create(ctx context.Context, prop *models.Property) error {
	if prop.ID == "" {
		prop.ID = uuid.NewString()
	}
	config, options, err := encodeProperty(prop)
	if err != nil {
		return err
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (%s)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, r.tables.Properties, propertyColumns)

	_, err = GetExecutor(ctx, r.pool).Exec(ctx, query,
		prop.ID, prop.DatabaseID, prop.Name, prop.Type, config, prop.Position, options)
	if err != nil {
		if isPgDuplicateError(err) {
			return &domain.ConflictError{
				Message:      fmt.Sprintf("property '%s' already exists", prop.ID),
				ResourceType: "property",
				ResourceID:   prop.ID,
			}
		}
		return fmt.Errorf("create property: %w", err)
	}
	return nil
}

func (r *PostgresPropertyRepository) Update(ctx context.Context, prop *models.Property) error {
	config, options, err := encodeProperty(prop)
	if err != nil {
		return err
	}

	query := fmt.Sprintf(`
		UPDATE %s
		SET name = $2, type = $3, config = $4, position = $5, options = $6
		WHERE id = $1
	`, r.tables.Properties)

	tag, err := GetExecutor(ctx, r.pool).Exec(ctx, query,
		prop.ID, prop.Name, prop.Type, config, prop.Position, options)
	if err != nil {
		return fmt.Errorf("update property: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NewNotFound("property", prop.ID)
	}
	return nil
}

func (r *PostgresPropertyRepository) Count(ctx context.Context) (int, error) {
	return count(ctx, r.pool, r.tables.Properties)
}

func encodeProperty(prop *models.Property) (config, options []byte, err error) {
	if config, err = encodeJSON(nonNilConfig(prop.Config)); err != nil {
		return nil, nil, fmt.Errorf("encode property config: %w", err)
	}
	if prop.Options != nil {
		if options, err = encodeJSON(prop.Options); err != nil {
			return nil, nil, fmt.Errorf("encode property options: %w", err)
		}
	}
	return config, options, nil
}

func scanProperty(row pgx.Row) (*models.Property, error) {
	var (
		p               models.Property
		config, options []byte
	)
	if err := row.Scan(&p.ID, &p.DatabaseID, &p.Name, &p.Type, &config, &p.Position, &options); err != nil {
		return nil, err
	}
	var err error
	if p.Config, err = decodeConfig(config); err != nil {
		return nil, fmt.Errorf("decode property config: %w", err)
	}
	if len(options) > 0 {
		if err := json.Unmarshal(options, &p.Options); err != nil {
			return nil, fmt.Errorf("decode property options: %w", err)
		}
	}
	return &p, nil
}

// PostgresRowRepository stores rows with one row_values entry per set
// property.
type PostgresRowRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

func NewRowRepository(config *RepositoryConfig) repos.RowRepository {
	return &PostgresRowRepository{pool: config.Pool, tables: config.Tables}
}

func (r *PostgresRowRepository) selectRows(where string) string {
	return fmt.Sprintf(`
		SELECT r.id, r.database_id, r.title,
		       COALESCE(jsonb_object_agg(v.property_id, v.value) FILTER (WHERE v.property_id IS NOT NULL), '{}'::jsonb)
		FROM %s r
		LEFT JOIN %s v ON v.row_id = r.id
		WHERE %s
		GROUP BY r.id
		ORDER BY r.seq
	`, r.tables.Rows, r.tables.RowValues, where)
}

func (r *PostgresRowRepository) ListByDatabase(ctx context.Context, databaseID string) ([]models.Row, error) {
	rows, err := GetExecutor(ctx, r.pool).Query(ctx, r.selectRows("r.database_id = $1"), databaseID)
	if err != nil {
		return nil, fmt.Errorf("list rows: %w", err)
	}
	defer rows.Close()

	out := []models.Row{}
	for rows.Next() {
		row, err := scanRow(rows)
		if err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		out = append(out, *row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return out, nil
}

func (r *PostgresRowRepository) GetByID(ctx context.Context, id string) (*models.Row, error) {
	row, err := scanRow(GetExecutor(ctx, r.pool).QueryRow(ctx, r.selectRows("r.id = $1"), id))
	if err != nil {
		if isPgNoRowsError(err) {
			return nil, domain.NewNotFound("row", id)
		}
		return nil, fmt.Errorf("get row: %w", err)
	}
	return row, nil
}

func (r *PostgresRowRepository) Create(ctx context.Context, row *models.Row) error {
	if row.ID == "" {
		row.ID = uuid.NewString()
	}

	query := fmt.Sprintf(`INSERT INTO %s (id, database_id, title) VALUES ($1, $2, $3)`, r.tables.Rows)
	if _, err := GetExecutor(ctx, r.pool).Exec(ctx, query, row.ID, row.DatabaseID, row.Title); err != nil {
		if isPgDuplicateError(err) {
			return &domain.ConflictError{
				Message:      fmt.Sprintf("row '%s' already exists", row.ID),
				ResourceType: "row",
				ResourceID:   row.ID,
			}
		}
		return fmt.Errorf("create row: %w", err)
	}
	return r.upsertValues(ctx, row.ID, row.Values)
}

func (r *PostgresRowRepository) MergeValues(ctx context.Context, id string, values map[string]any) (*models.Row, error) {
	query := fmt.Sprintf(`SELECT 1 FROM %s WHERE id = $1`, r.tables.Rows)
	var one int
	if err := GetExecutor(ctx, r.pool).QueryRow(ctx, query, id).Scan(&one); err != nil {
		if isPgNoRowsError(err) {
			return nil, domain.NewNotFound("row", id)
		}
		return nil, fmt.Errorf("get row: %w", err)
	}

	if err := r.upsertValues(ctx, id, values); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

func (r *PostgresRowRepository) upsertValues(ctx context.Context, rowID string, values map[string]any) error {
	if len(values) == 0 {
		return nil
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (row_id, property_id, value)
		VALUES ($1, $2, $3)
		ON CONFLICT (row_id, property_id) DO UPDATE SET value = EXCLUDED.value
	`, r.tables.RowValues)

	batch := &pgx.Batch{}
	for propID, v := range values {
		raw, err := encodeJSON(v)
		if err != nil {
			return fmt.Errorf("encode value for %s: %w", propID, err)
		}
		batch.Queue(query, rowID, propID, raw)
	}

	if err := GetExecutor(ctx, r.pool).SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("upsert row values: %w", err)
	}
	return nil
}

func (r *PostgresRowRepository) Delete(ctx context.Context, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, r.tables.Rows)
	tag, err := GetExecutor(ctx, r.pool).Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete row: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NewNotFound("row", id)
	}
	return nil
}

func scanRow(row pgx.Row) (*models.Row, error) {
	var (
		r      models.Row
		values []byte
	)
	if err := row.Scan(&r.ID, &r.DatabaseID, &r.Title, &values); err != nil {
		return nil, err
	}
	var err error
	if r.Values, err = decodeConfig(values); err != nil {
		return nil, fmt.Errorf("decode row values: %w", err)
	}
	return &r, nil
}

// PostgresViewRepository implements the ViewRepository interface
type PostgresViewRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

func NewViewRepository(config *RepositoryConfig) repos.ViewRepository {
	return &PostgresViewRepository{pool: config.Pool, tables: config.Tables}
}

const viewColumns = `id, database_id, name, type, config, position, created_at`

func (r *PostgresViewRepository) ListByDatabase(ctx context.Context, databaseID string) ([]models.View, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE database_id = $1
		ORDER BY seq
	`, viewColumns, r.tables.Views)

	rows, err := GetExecutor(ctx, r.pool).Query(ctx, query, databaseID)
	if err != nil {
		return nil, fmt.Errorf("list views: %w", err)
	}
	defer rows.Close()

	views := []models.View{}
	for rows.Next() {
		view, err := scanView(rows)
		if err != nil {
			return nil, fmt.Errorf("scan view: %w", err)
		}
		views = append(views, *view)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate views: %w", err)
	}
	return views, nil
}

func (r *PostgresViewRepository) GetByID(ctx context.Context, id string) (*models.View, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1`, viewColumns, r.tables.Views)

	view, err := scanView(GetExecutor(ctx, r.pool).QueryRow(ctx, query, id))
	if err != nil {
		if isPgNoRowsError(err) {
			return nil, domain.NewNotFound("view", id)
		}
		return nil, fmt.Errorf("get view: %w", err)
	}
	return view, nil
}

func (r *PostgresViewRepository) Create(ctx context.Context, view *models.View) error {
	if view.ID == "" {
		view.ID = uuid.NewString()
	}
	config, err := encodeJSON(nonNilConfig(view.Config))
	if err != nil {
		return fmt.Errorf("encode view config: %w", err)
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (%s)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, r.tables.Views, viewColumns)

	_, err = GetExecutor(ctx, r.pool).Exec(ctx, query,
		view.ID, view.DatabaseID, view.Name, view.Type, config, view.Position, view.CreatedAt)
	if err != nil {
		if isPgDuplicateError(err) {
			return &domain.ConflictError{
				Message:      fmt.Sprintf("view '%s' already exists", view.ID),
				ResourceType: "view",
				ResourceID:   view.ID,
			}
		}
		return fmt.Errorf("create view: %w", err)
	}
	return nil
}

func (r *PostgresViewRepository) Update(ctx context.Context, view *models.View) error {
	config, err := encodeJSON(nonNilConfig(view.Config))
	if err != nil {
		return fmt.Errorf("encode view config: %w", err)
	}

	query := fmt.Sprintf(`
		UPDATE %s
		SET name = $2, type = $3, config = $4, position = $5
		WHERE id = $1
	`, r.tables.Views)

	tag, err := GetExecutor(ctx, r.pool).Exec(ctx, query,
		view.ID, view.Name, view.Type, config, view.Position)
	if err != nil {
		return fmt.Errorf("update view: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NewNotFound("view", view.ID)
	}
	return nil
}

func (r *PostgresViewRepository) Count(ctx context.Context) (int, error) {
	return count(ctx, r.pool, r.tables.Views)
}

func scanView(row pgx.Row) (*models.View, error) {
	var (
		v      models.View
		config []byte
	)
	if err := row.Scan(&v.ID, &v.DatabaseID, &v.Name, &v.Type, &config, &v.Position, &v.CreatedAt); err != nil {
		return nil, err
	}
	var err error
	if v.Config, err = decodeConfig(config); err != nil {
		return nil, fmt.Errorf("decode view config: %w", err)
	}
	return &v, nil
}

func nonNilConfig(cfg map[string]any) map[string]any {
	if cfg == nil {
		return map[string]any{}
	}
	return cfg
}

func count(ctx context.Context, pool *pgxpool.Pool, table string) (int, error) {
	var n int
	query := fmt.Sprintf(`SELECT count(*) FROM %s`, table)
	if err := GetExecutor(ctx, pool).QueryRow(ctx, query).Scan(&n); err != nil {
		return 0, fmt.Errorf("count %s: %w", table, err)
	}
	return n, nil
}
