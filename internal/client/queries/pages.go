package queries

import (
	"context"
	"fmt"

	"github.com/dm0114/capacitor-push-prototype/internal/client/gateway"
	"github.com/dm0114/capacitor-push-prototype/internal/client/querycache"
	models "github.com/dm0114/capacitor-push-prototype/internal/domain/models/workspace"
	svc "github.com/dm0114/capacitor-push-prototype/internal/domain/services/workspace"
)

// ListPages reads a filtered page listing.
func (c *Client) ListPages(ctx context.Context, filter gateway.PageFilter) ([]models.Page, error) {
	return querycache.Fetch(ctx, c.cache, PageListKey(filter), c.readOptions(), func(ctx context.Context) ([]models.Page, error) {
		return c.api.ListPages(ctx, filter)
	})
}

// GetPage reads a single page. A missing page matches domain.ErrNotFound.
func (c *Client) GetPage(ctx context.Context, id string) (models.Page, error) {
	return querycache.Fetch(ctx, c.cache, PageKey(id), c.readOptions(), func(ctx context.Context) (models.Page, error) {
		page, err := c.api.GetPage(ctx, id)
		if err != nil {
			return models.Page{}, err
		}
		return *page, nil
	})
}

// CreatePage waits for the server, then seeds the detail cache and marks
// every listing stale.
func (c *Client) CreatePage(ctx context.Context, req *svc.CreatePageRequest) (*models.Page, error) {
	page, err := c.api.CreatePage(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("create page: %w", err)
	}
	c.cache.InvalidateQueries(PageListsKey)
	c.cache.SetData(PageKey(page.ID), *page)

	c.logger.Info("page created", "id", page.ID, "parent_id", page.ParentID)
	return page, nil
}

// UpdatePage writes the change to the cached page before the server
// confirms it and restores the previous page when the server rejects it.
// Listings are marked stale once the call settles.
func (c *Client) UpdatePage(ctx context.Context, id string, update gateway.PageUpdate) (*models.Page, error) {
	var saved *models.Page
	err := querycache.Optimistic(ctx, c.cache, querycache.Mutation[models.Page]{
		Key: PageKey(id),
		Update: func(cur models.Page, ok bool) (models.Page, bool) {
			if !ok {
				return cur, false
			}
			next := update.Apply(cur)
			next.UpdatedAt = c.now()
			return next, true
		},
		Commit: func(ctx context.Context) error {
			var err error
			saved, err = c.api.UpdatePage(ctx, id, update)
			return err
		},
		InvalidateOnSettle: []querycache.Key{PageListsKey},
	})
	if err != nil {
		return nil, fmt.Errorf("update page %s: %w", id, err)
	}
	return saved, nil
}

// DeletePage archives the page, drops its cached detail and marks listings stale.
func (c *Client) DeletePage(ctx context.Context, id string) error {
	if err := c.api.DeletePage(ctx, id); err != nil {
		return fmt.Errorf("delete page %s: %w", id, err)
	}
	c.cache.RemoveQueries(PageKey(id))
	c.cache.InvalidateQueries(PageListsKey)

	c.logger.Info("page deleted", "id", id)
	return nil
}
