package gateway

import (
	"context"
	"errors"
	"net/http"

	"github.com/dm0114/capacitor-push-prototype/internal/domain"
	models "github.com/dm0114/capacitor-push-prototype/internal/domain/models/workspace"
	svc "github.com/dm0114/capacitor-push-prototype/internal/domain/services/workspace"
)

// Me returns the signed-in user. A 401 means nobody is signed in and yields
// (nil, nil) rather than an error.
func (c *Client) Me(ctx context.Context) (*models.User, error) {
	var user models.User
	err := c.call(ctx, http.MethodGet, "/api/auth/me", nil, nil, &user)
	if errors.Is(err, domain.ErrUnauthorized) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Login signs in with the given provider and keeps the session token for
// subsequent requests.
func (c *Client) Login(ctx context.Context, provider string) (*svc.Session, error) {
	var session svc.Session
	if err := c.call(ctx, http.MethodPost, "/api/auth/login", nil, svc.LoginRequest{Provider: provider}, &session); err != nil {
		return nil, err
	}
	c.SetToken(session.Token)
	return &session, nil
}

// Logout ends the session. The local token is dropped even if the call fails.
func (c *Client) Logout(ctx context.Context) error {
	err := c.call(ctx, http.MethodPost, "/api/auth/logout", nil, nil, nil)
	c.SetToken("")
	return err
}
