package workspace

import (
	"context"

	models "github.com/dm0114/capacitor-push-prototype/internal/domain/models/workspace"
)

// PageRepository defines data access operations for pages
type PageRepository interface {
	// Create inserts a page; the ID is assigned when empty
	Create(ctx context.Context, page *models.Page) error

	// GetByID returns a page regardless of its archived flag
	GetByID(ctx context.Context, id string) (*models.Page, error)

	// List returns pages passing the filter, ordered by position
	List(ctx context.Context, filter models.PageFilter) ([]models.Page, error)

	// Update overwrites every mutable column of the page
	Update(ctx context.Context, page *models.Page) error
}

// BlockRepository stores the editor document of each page
type BlockRepository interface {
	// Get returns the page's blocks, empty when nothing was saved yet
	Get(ctx context.Context, pageID string) (models.Blocks, error)

	// Replace swaps the page's blocks wholesale
	Replace(ctx context.Context, pageID string, blocks models.Blocks) error
}
