package gateway

import (
	"context"
	"net/http"
	"net/url"

	models "github.com/dm0114/capacitor-push-prototype/internal/domain/models/workspace"
	svc "github.com/dm0114/capacitor-push-prototype/internal/domain/services/workspace"
)

func databasePath(databaseID, resource string) string {
	return "/api/databases/" + url.PathEscape(databaseID) + "/" + resource
}

func (c *Client) ListProperties(ctx context.Context, databaseID string) ([]models.Property, error) {
	props := []models.Property{}
	if err := c.call(ctx, http.MethodGet, databasePath(databaseID, "properties"), nil, nil, &props); err != nil {
		return nil, err
	}
	return props, nil
}

func (c *Client) CreateProperty(ctx context.Context, databaseID string, req *svc.CreatePropertyRequest) (*models.Property, error) {
	var prop models.Property
	if err := c.call(ctx, http.MethodPost, databasePath(databaseID, "properties"), nil, req, &prop); err != nil {
		return nil, err
	}
	return &prop, nil
}

func (c *Client) UpdateProperty(ctx context.Context, id string, req *svc.UpdatePropertyRequest) (*models.Property, error) {
	var prop models.Property
	if err := c.call(ctx, http.MethodPatch, "/api/properties/"+url.PathEscape(id), nil, req, &prop); err != nil {
		return nil, err
	}
	return &prop, nil
}

func (c *Client) ListRows(ctx context.Context, databaseID string) ([]models.Row, error) {
	rows := []models.Row{}
	if err := c.call(ctx, http.MethodGet, databasePath(databaseID, "rows"), nil, nil, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func (c *Client) CreateRow(ctx context.Context, databaseID string, req *svc.CreateRowRequest) (*models.Row, error) {
	var row models.Row
	if err := c.call(ctx, http.MethodPost, databasePath(databaseID, "rows"), nil, req, &row); err != nil {
		return nil, err
	}
	return &row, nil
}

// UpdateRow merges values into the row and returns its full value set.
func (c *Client) UpdateRow(ctx context.Context, id string, values map[string]any) (*models.Row, error) {
	var row models.Row
	body := svc.UpdateRowRequest{Values: values}
	if err := c.call(ctx, http.MethodPatch, "/api/rows/"+url.PathEscape(id), nil, body, &row); err != nil {
		return nil, err
	}
	return &row, nil
}

func (c *Client) DeleteRow(ctx context.Context, id string) error {
	return c.call(ctx, http.MethodDelete, "/api/rows/"+url.PathEscape(id), nil, nil, nil)
}

func (c *Client) ListViews(ctx context.Context, databaseID string) ([]models.View, error) {
	views := []models.View{}
	if err := c.call(ctx, http.MethodGet, databasePath(databaseID, "views"), nil, nil, &views); err != nil {
		return nil, err
	}
	return views, nil
}

func (c *Client) CreateView(ctx context.Context, databaseID string, req *svc.CreateViewRequest) (*models.View, error) {
	var view models.View
	if err := c.call(ctx, http.MethodPost, databasePath(databaseID, "views"), nil, req, &view); err != nil {
		return nil, err
	}
	return &view, nil
}

func (c *Client) UpdateView(ctx context.Context, id string, req *svc.UpdateViewRequest) (*models.View, error) {
	var view models.View
	if err := c.call(ctx, http.MethodPatch, "/api/views/"+url.PathEscape(id), nil, req, &view); err != nil {
		return nil, err
	}
	return &view, nil
}
