package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	models "github.com/dm0114/capacitor-push-prototype/internal/domain/models/workspace"
	svc "github.com/dm0114/capacitor-push-prototype/internal/domain/services/workspace"
	"github.com/dm0114/capacitor-push-prototype/internal/httputil"
)

// PageFilter selects pages for ListPages. Parent distinguishes "no filter"
// (absent) from "roots only" (null).
type PageFilter struct {
	Parent     httputil.OptionalString
	DatabaseID string
}

func (f PageFilter) query() url.Values {
	q := url.Values{}
	if v, ok := f.Parent.QueryValue(); ok {
		q.Set("parentId", v)
	}
	if f.DatabaseID != "" {
		q.Set("databaseId", f.DatabaseID)
	}
	return q
}

// PageUpdate is a partial page update. Nil fields are not sent; Parent is
// sent only when Present, null moving the page to the root.
type PageUpdate struct {
	Title      *string
	Icon       *string
	CoverImage *string
	Archived   *bool
	Position   *string
	Parent     httputil.OptionalString
}

func (u PageUpdate) MarshalJSON() ([]byte, error) {
	m := map[string]any{}
	if u.Title != nil {
		m["title"] = *u.Title
	}
	if u.Icon != nil {
		m["icon"] = *u.Icon
	}
	if u.CoverImage != nil {
		m["cover_image"] = *u.CoverImage
	}
	if u.Archived != nil {
		m["archived"] = *u.Archived
	}
	if u.Position != nil {
		m["position"] = *u.Position
	}
	if u.Parent.Present {
		m["parent_id"] = u.Parent
	}
	return json.Marshal(m)
}

// Apply returns page with the update's fields written over it.
func (u PageUpdate) Apply(page models.Page) models.Page {
	if u.Title != nil {
		page.Title = *u.Title
	}
	if u.Icon != nil {
		page.Icon = u.Icon
	}
	if u.CoverImage != nil {
		page.CoverImage = u.CoverImage
	}
	if u.Archived != nil {
		page.Archived = *u.Archived
	}
	if u.Position != nil {
		page.Position = *u.Position
	}
	if u.Parent.Present {
		page.ParentID = u.Parent.Value
	}
	return page
}

// ListPages returns the non-archived pages matching filter, ordered by position.
func (c *Client) ListPages(ctx context.Context, filter PageFilter) ([]models.Page, error) {
	var pages []models.Page
	if err := c.call(ctx, http.MethodGet, "/api/pages", filter.query(), nil, &pages); err != nil {
		return nil, err
	}
	if pages == nil {
		pages = []models.Page{}
	}
	return pages, nil
}

// GetPage returns a single page; a missing page matches domain.ErrNotFound.
func (c *Client) GetPage(ctx context.Context, id string) (*models.Page, error) {
	var page models.Page
	if err := c.call(ctx, http.MethodGet, "/api/pages/"+url.PathEscape(id), nil, nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func (c *Client) CreatePage(ctx context.Context, req *svc.CreatePageRequest) (*models.Page, error) {
	var page models.Page
	if err := c.call(ctx, http.MethodPost, "/api/pages", nil, req, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func (c *Client) UpdatePage(ctx context.Context, id string, update PageUpdate) (*models.Page, error) {
	var page models.Page
	if err := c.call(ctx, http.MethodPatch, "/api/pages/"+url.PathEscape(id), nil, update, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// DeletePage archives the page server side.
func (c *Client) DeletePage(ctx context.Context, id string) error {
	return c.call(ctx, http.MethodDelete, "/api/pages/"+url.PathEscape(id), nil, nil, nil)
}
