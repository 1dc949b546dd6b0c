package workspace

import (
	"context"

	models "github.com/dm0114/capacitor-push-prototype/internal/domain/models/workspace"
)

// PropertyRepository defines data access operations for database columns
type PropertyRepository interface {
	ListByDatabase(ctx context.Context, databaseID string) ([]models.Property, error)
	GetByID(ctx context.Context, id string) (*models.Property, error)
	Create(ctx context.Context, prop *models.Property) error
	Update(ctx context.Context, prop *models.Property) error
	Count(ctx context.Context) (int, error)
}

// RowRepository defines data access operations for database rows and their values
type RowRepository interface {
	ListByDatabase(ctx context.Context, databaseID string) ([]models.Row, error)
	GetByID(ctx context.Context, id string) (*models.Row, error)
	Create(ctx context.Context, row *models.Row) error

	// MergeValues upserts the given values and returns the row with its full value set
	MergeValues(ctx context.Context, id string, values map[string]any) (*models.Row, error)

	// Delete removes the row together with its values
	Delete(ctx context.Context, id string) error
}

// ViewRepository defines data access operations for saved views
type ViewRepository interface {
	ListByDatabase(ctx context.Context, databaseID string) ([]models.View, error)
	GetByID(ctx context.Context, id string) (*models.View, error)
	Create(ctx context.Context, view *models.View) error
	Update(ctx context.Context, view *models.View) error
	Count(ctx context.Context) (int, error)
}
