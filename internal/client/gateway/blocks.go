package gateway

import (
	"context"
	"net/http"
	"net/url"

	models "github.com/dm0114/capacitor-push-prototype/internal/domain/models/workspace"
)

type saveBlocksRequest struct {
	Blocks models.Blocks `json:"blocks"`
}

// GetBlocks returns the page's editor document, empty when none was saved.
func (c *Client) GetBlocks(ctx context.Context, pageID string) (models.Blocks, error) {
	var blocks models.Blocks
	if err := c.call(ctx, http.MethodGet, "/api/pages/"+url.PathEscape(pageID)+"/blocks", nil, nil, &blocks); err != nil {
		return nil, err
	}
	return blocks.Normalize(), nil
}

// SaveBlocks replaces the page's document wholesale.
func (c *Client) SaveBlocks(ctx context.Context, pageID string, blocks models.Blocks) error {
	body := saveBlocksRequest{Blocks: blocks.Normalize()}
	return c.call(ctx, http.MethodPut, "/api/pages/"+url.PathEscape(pageID)+"/blocks", nil, body, nil)
}
