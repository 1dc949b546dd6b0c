package workspace

import (
	"context"

	models "github.com/dm0114/capacitor-push-prototype/internal/domain/models/workspace"
)

// CreatePropertyRequest represents a request to add a column
type CreatePropertyRequest struct {
	Name    *string               `json:"name,omitempty"`
	Type    *models.PropertyType  `json:"type,omitempty"`
	Config  map[string]any        `json:"config,omitempty"`
	Options []models.SelectOption `json:"options,omitempty"`
}

// UpdatePropertyRequest is a partial property update
type UpdatePropertyRequest struct {
	Name     *string                `json:"name,omitempty"`
	Type     *models.PropertyType   `json:"type,omitempty"`
	Config   map[string]any         `json:"config,omitempty"`
	Position *string                `json:"position,omitempty"`
	Options  *[]models.SelectOption `json:"options,omitempty"`
}

// CreateRowRequest represents a request to add a row
type CreateRowRequest struct {
	Title  *string        `json:"title,omitempty"`
	Values map[string]any `json:"values,omitempty"`
}

// UpdateRowRequest carries the values to merge into a row
type UpdateRowRequest struct {
	Values map[string]any `json:"values,omitempty"`
}

// CreateViewRequest represents a request to add a view
type CreateViewRequest struct {
	Name   *string          `json:"name,omitempty"`
	Type   *models.ViewType `json:"type,omitempty"`
	Config map[string]any   `json:"config,omitempty"`
}

// UpdateViewRequest is a partial view update
type UpdateViewRequest struct {
	Name     *string          `json:"name,omitempty"`
	Type     *models.ViewType `json:"type,omitempty"`
	Config   map[string]any   `json:"config,omitempty"`
	Position *string          `json:"position,omitempty"`
}

// DatabaseService defines business logic for database properties, rows and views
type DatabaseService interface {
	ListProperties(ctx context.Context, databaseID string) ([]models.Property, error)
	CreateProperty(ctx context.Context, databaseID string, req *CreatePropertyRequest) (*models.Property, error)
	UpdateProperty(ctx context.Context, id string, req *UpdatePropertyRequest) (*models.Property, error)

	ListRows(ctx context.Context, databaseID string) ([]models.Row, error)
	CreateRow(ctx context.Context, databaseID string, req *CreateRowRequest) (*models.Row, error)
	// UpdateRow merges values and returns the row's full value set
	UpdateRow(ctx context.Context, id string, req *UpdateRowRequest) (*models.Row, error)
	DeleteRow(ctx context.Context, id string) error

	ListViews(ctx context.Context, databaseID string) ([]models.View, error)
	CreateView(ctx context.Context, databaseID string, req *CreateViewRequest) (*models.View, error)
	UpdateView(ctx context.Context, id string, req *UpdateViewRequest) (*models.View, error)
}
