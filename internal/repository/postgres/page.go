package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dm0114/capacitor-push-prototype/internal/domain"
	models "github.com/dm0114/capacitor-push-prototype/internal/domain/models/workspace"
	repos "github.com/dm0114/capacitor-push-prototype/internal/domain/repositories/workspace"
)

const pageColumns = `id, user_id, parent_id, database_id, title, icon, cover_image,
	is_database, archived, position, created_at, updated_at`

// PostgresPageRepository implements the PageRepository interface
type PostgresPageRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewPageRepository creates a new page repository
func NewPageRepository(config *RepositoryConfig) repos.PageRepository {
	return &PostgresPageRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

func (r *PostgresPageRepository) Create(ctx context.Context, page *models.Page) error {
	if page.ID == "" {
		page.ID = uuid.NewString()
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (%s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`, r.tables.Pages, pageColumns)

	_, err := GetExecutor(ctx, r.pool).Exec(ctx, query,
		page.ID,
		page.UserID,
		page.ParentID,
		page.DatabaseID,
		page.Title,
		page.Icon,
		page.CoverImage,
		page.IsDatabase,
		page.Archived,
		page.Position,
		page.CreatedAt,
		page.UpdatedAt,
	)
	if err != nil {
		if isPgDuplicateError(err) {
			return &domain.ConflictError{
				Message:      fmt.Sprintf("page '%s' already exists", page.ID),
				ResourceType: "page",
				ResourceID:   page.ID,
			}
		}
		return fmt.Errorf("create page: %w", err)
	}
	return nil
}

func (r *PostgresPageRepository) GetByID(ctx context.Context, id string) (*models.Page, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1`, pageColumns, r.tables.Pages)

	page, err := scanPage(GetExecutor(ctx, r.pool).QueryRow(ctx, query, id))
	if err != nil {
		if isPgNoRowsError(err) {
			return nil, domain.NewNotFound("page", id)
		}
		return nil, fmt.Errorf("get page: %w", err)
	}
	return page, nil
}

// List orders by byte-wise position, then by insertion.
func (r *PostgresPageRepository) List(ctx context.Context, filter models.PageFilter) ([]models.Page, error) {
	var (
		where []string
		args  []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if !filter.IncludeArchived {
		where = append(where, "archived = FALSE")
	}
	if filter.Parent.Present {
		if filter.Parent.Value == nil {
			where = append(where, "parent_id IS NULL")
		} else {
			where = append(where, "parent_id = "+arg(*filter.Parent.Value))
		}
	}
	if filter.DatabaseID != "" {
		where = append(where, "database_id = "+arg(filter.DatabaseID))
	}

	query := fmt.Sprintf(`SELECT %s FROM %s`, pageColumns, r.tables.Pages)
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += ` ORDER BY position COLLATE "C", seq`

	rows, err := GetExecutor(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list pages: %w", err)
	}
	defer rows.Close()

	pages := []models.Page{}
	for rows.Next() {
		page, err := scanPage(rows)
		if err != nil {
			return nil, fmt.Errorf("scan page: %w", err)
		}
		pages = append(pages, *page)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate pages: %w", err)
	}
	return pages, nil
}

func (r *PostgresPageRepository) Update(ctx context.Context, page *models.Page) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET parent_id = $2, database_id = $3, title = $4, icon = $5, cover_image = $6,
		    is_database = $7, archived = $8, position = $9, updated_at = $10
		WHERE id = $1
	`, r.tables.Pages)

	tag, err := GetExecutor(ctx, r.pool).Exec(ctx, query,
		page.ID,
		page.ParentID,
		page.DatabaseID,
		page.Title,
		page.Icon,
		page.CoverImage,
		page.IsDatabase,
		page.Archived,
		page.Position,
		page.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update page: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NewNotFound("page", page.ID)
	}
	return nil
}

func scanPage(row pgx.Row) (*models.Page, error) {
	var p models.Page
	err := row.Scan(
		&p.ID,
		&p.UserID,
		&p.ParentID,
		&p.DatabaseID,
		&p.Title,
		&p.Icon,
		&p.CoverImage,
		&p.IsDatabase,
		&p.Archived,
		&p.Position,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// PostgresBlockRepository keeps each page's blocks as one JSONB document.
type PostgresBlockRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

func NewBlockRepository(config *RepositoryConfig) repos.BlockRepository {
	return &PostgresBlockRepository{pool: config.Pool, tables: config.Tables}
}

func (r *PostgresBlockRepository) Get(ctx context.Context, pageID string) (models.Blocks, error) {
	query := fmt.Sprintf(`SELECT blocks FROM %s WHERE page_id = $1`, r.tables.Blocks)

	var raw []byte
	err := GetExecutor(ctx, r.pool).QueryRow(ctx, query, pageID).Scan(&raw)
	if err != nil {
		if isPgNoRowsError(err) {
			return models.Blocks{}, nil
		}
		return nil, fmt.Errorf("get blocks: %w", err)
	}

	var blocks models.Blocks
	if err := json.Unmarshal(raw, &blocks); err != nil {
		return nil, fmt.Errorf("decode blocks: %w", err)
	}
	return blocks.Normalize(), nil
}

func (r *PostgresBlockRepository) Replace(ctx context.Context, pageID string, blocks models.Blocks) error {
	raw, err := json.Marshal(blocks.Normalize())
	if err != nil {
		return fmt.Errorf("encode blocks: %w", err)
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (page_id, blocks, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (page_id) DO UPDATE SET blocks = EXCLUDED.blocks, updated_at = now()
	`, r.tables.Blocks)

	if _, err := GetExecutor(ctx, r.pool).Exec(ctx, query, pageID, raw); err != nil {
		if isPgForeignKeyError(err) {
			return domain.NewNotFound("page", pageID)
		}
		return fmt.Errorf("replace blocks: %w", err)
	}
	return nil
}
