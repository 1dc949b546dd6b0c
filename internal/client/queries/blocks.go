package queries

import (
	"context"
	"fmt"

	"github.com/dm0114/capacitor-push-prototype/internal/client/querycache"
	models "github.com/dm0114/capacitor-push-prototype/internal/domain/models/workspace"
)

// GetBlocks reads a page's editor document.
func (c *Client) GetBlocks(ctx context.Context, pageID string) (models.Blocks, error) {
	return querycache.Fetch(ctx, c.cache, PageBlocksKey(pageID), c.readOptions(), func(ctx context.Context) (models.Blocks, error) {
		return c.api.GetBlocks(ctx, pageID)
	})
}

// SaveBlocks replaces the cached document immediately and restores it when
// the save fails. The saved document is not refetched.
func (c *Client) SaveBlocks(ctx context.Context, pageID string, blocks models.Blocks) error {
	err := querycache.Optimistic(ctx, c.cache, querycache.Mutation[models.Blocks]{
		Key: PageBlocksKey(pageID),
		Update: func(models.Blocks, bool) (models.Blocks, bool) {
			return blocks.Normalize(), true
		},
		Commit: func(ctx context.Context) error {
			return c.api.SaveBlocks(ctx, pageID, blocks)
		},
	})
	if err != nil {
		return fmt.Errorf("save blocks of %s: %w", pageID, err)
	}
	return nil
}
