package workspace

import (
	"context"

	models "github.com/dm0114/capacitor-push-prototype/internal/domain/models/workspace"
)

// CreatePageRequest represents a request to create a page
type CreatePageRequest struct {
	UserID     string  `json:"-"`
	ParentID   *string `json:"parent_id,omitempty"`
	DatabaseID *string `json:"database_id,omitempty"`
	Title      *string `json:"title,omitempty"`
	Icon       *string `json:"icon,omitempty"`
	IsDatabase *bool   `json:"is_database,omitempty"`
}

// UpdatePageRequest is a partial update; nil fields are left unchanged.
// Parent is not decoded from JSON, the handler maps it from httputil.OptionalString.
type UpdatePageRequest struct {
	Title      *string               `json:"title,omitempty"`
	Icon       *string               `json:"icon,omitempty"`
	CoverImage *string               `json:"cover_image,omitempty"`
	Archived   *bool                 `json:"archived,omitempty"`
	Position   *string               `json:"position,omitempty"`
	Parent     models.OptionalParent `json:"-"`
}

// PageService defines business logic operations for pages
type PageService interface {
	// ListPages returns non-archived pages passing the filter, sorted by position
	ListPages(ctx context.Context, filter models.PageFilter) ([]models.Page, error)

	GetPage(ctx context.Context, id string) (*models.Page, error)

	// CreatePage appends the page after its last sibling
	CreatePage(ctx context.Context, req *CreatePageRequest) (*models.Page, error)

	UpdatePage(ctx context.Context, id string, req *UpdatePageRequest) (*models.Page, error)

	// DeletePage archives the page; it stays readable by id
	DeletePage(ctx context.Context, id string) error

	// GetPageTree returns the nested forest of non-archived pages
	GetPageTree(ctx context.Context) ([]models.PageTreeNode, error)

	GetBlocks(ctx context.Context, pageID string) (models.Blocks, error)
	SaveBlocks(ctx context.Context, pageID string, blocks models.Blocks) error
}
