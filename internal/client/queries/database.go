package queries

import (
	"context"
	"fmt"

	"github.com/dm0114/capacitor-push-prototype/internal/client/querycache"
	models "github.com/dm0114/capacitor-push-prototype/internal/domain/models/workspace"
	svc "github.com/dm0114/capacitor-push-prototype/internal/domain/services/workspace"
)

func (c *Client) Properties(ctx context.Context, databaseID string) ([]models.Property, error) {
	return querycache.Fetch(ctx, c.cache, PropertiesKey(databaseID), c.readOptions(), func(ctx context.Context) ([]models.Property, error) {
		return c.api.ListProperties(ctx, databaseID)
	})
}

func (c *Client) Rows(ctx context.Context, databaseID string) ([]models.Row, error) {
	return querycache.Fetch(ctx, c.cache, RowsKey(databaseID), c.readOptions(), func(ctx context.Context) ([]models.Row, error) {
		return c.api.ListRows(ctx, databaseID)
	})
}

func (c *Client) Views(ctx context.Context, databaseID string) ([]models.View, error) {
	return querycache.Fetch(ctx, c.cache, ViewsKey(databaseID), c.readOptions(), func(ctx context.Context) ([]models.View, error) {
		return c.api.ListViews(ctx, databaseID)
	})
}

// CreateRow waits for the server and marks the row listing stale.
func (c *Client) CreateRow(ctx context.Context, databaseID string, req *svc.CreateRowRequest) (*models.Row, error) {
	row, err := c.api.CreateRow(ctx, databaseID, req)
	if err != nil {
		return nil, fmt.Errorf("create row: %w", err)
	}
	c.cache.InvalidateQueries(RowsKey(databaseID))
	return row, nil
}

// UpdateRow merges values into the cached row at once and restores the
// previous row list when the server rejects the change. Rows are not
// refetched afterwards.
func (c *Client) UpdateRow(ctx context.Context, databaseID, rowID string, values map[string]any) error {
	err := querycache.Optimistic(ctx, c.cache, querycache.Mutation[[]models.Row]{
		Key: RowsKey(databaseID),
		Update: func(rows []models.Row, ok bool) ([]models.Row, bool) {
			if !ok {
				return rows, false
			}
			return mergeRowValues(rows, rowID, values), true
		},
		Commit: func(ctx context.Context) error {
			_, err := c.api.UpdateRow(ctx, rowID, values)
			return err
		},
	})
	if err != nil {
		return fmt.Errorf("update row %s: %w", rowID, err)
	}
	return nil
}

// mergeRowValues copies rows, merging values into the one matching rowID.
// The input slice and its maps are left untouched.
func mergeRowValues(rows []models.Row, rowID string, values map[string]any) []models.Row {
	next := make([]models.Row, len(rows))
	copy(next, rows)
	for i := range next {
		if next[i].ID != rowID {
			continue
		}
		merged := next[i].Clone()
		for k, v := range values {
			merged.Values[k] = v
		}
		next[i] = merged
	}
	return next
}

// DeleteRow waits for the server and marks the row listing stale.
func (c *Client) DeleteRow(ctx context.Context, databaseID, rowID string) error {
	if err := c.api.DeleteRow(ctx, rowID); err != nil {
		return fmt.Errorf("delete row %s: %w", rowID, err)
	}
	c.cache.InvalidateQueries(RowsKey(databaseID))
	return nil
}

func (c *Client) CreateProperty(ctx context.Context, databaseID string, req *svc.CreatePropertyRequest) (*models.Property, error) {
	prop, err := c.api.CreateProperty(ctx, databaseID, req)
	if err != nil {
		return nil, fmt.Errorf("create property: %w", err)
	}
	c.cache.InvalidateQueries(PropertiesKey(databaseID))
	return prop, nil
}

func (c *Client) UpdateProperty(ctx context.Context, databaseID, id string, req *svc.UpdatePropertyRequest) (*models.Property, error) {
	prop, err := c.api.UpdateProperty(ctx, id, req)
	if err != nil {
		return nil, fmt.Errorf("update property %s: %w", id, err)
	}
	c.cache.InvalidateQueries(PropertiesKey(databaseID))
	return prop, nil
}

func (c *Client) CreateView(ctx context.Context, databaseID string, req *svc.CreateViewRequest) (*models.View, error) {
	view, err := c.api.CreateView(ctx, databaseID, req)
	if err != nil {
		return nil, fmt.Errorf("create view: %w", err)
	}
	c.cache.InvalidateQueries(ViewsKey(databaseID))
	return view, nil
}

func (c *Client) UpdateView(ctx context.Context, databaseID, id string, req *svc.UpdateViewRequest) (*models.View, error) {
	view, err := c.api.UpdateView(ctx, id, req)
	if err != nil {
		return nil, fmt.Errorf("update view %s: %w", id, err)
	}
	c.cache.InvalidateQueries(ViewsKey(databaseID))
	return view, nil
}
