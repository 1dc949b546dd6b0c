package queries

import (
	"context"
	"fmt"

	"github.com/dm0114/capacitor-push-prototype/internal/client/querycache"
	models "github.com/dm0114/capacitor-push-prototype/internal/domain/models/workspace"
)

// CurrentUser resolves the signed-in user; nil means nobody is signed in,
// which is not an error. Failures are not retried.
func (c *Client) CurrentUser(ctx context.Context) (*models.User, error) {
	opts := c.readOptions()
	opts.Retry = 0
	return querycache.Fetch(ctx, c.cache, MeKey, opts, func(ctx context.Context) (*models.User, error) {
		return c.api.Me(ctx)
	})
}

// Login signs in and caches the returned user as the current user.
func (c *Client) Login(ctx context.Context, provider string) (*models.User, error) {
	session, err := c.api.Login(ctx, provider)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	c.cache.SetData(MeKey, session.User)
	c.logger.Info("logged in", "user_id", session.User.ID, "provider", provider)
	return session.User, nil
}

// Logout ends the session, caches "no user" and marks everything stale.
func (c *Client) Logout(ctx context.Context) error {
	if err := c.api.Logout(ctx); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	c.cache.SetData(MeKey, (*models.User)(nil))
	c.cache.InvalidateQueries(querycache.Key{})
	c.logger.Info("logged out")
	return nil
}
