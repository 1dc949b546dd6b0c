package workspace

import (
	"context"

	models "github.com/dm0114/capacitor-push-prototype/internal/domain/models/workspace"
)

// LoginRequest names the identity provider the user signs in with
type LoginRequest struct {
	Provider string `json:"provider"`
}

// Session is the result of a successful login
type Session struct {
	User  *models.User `json:"user"`
	Token string       `json:"token"`
}

// AuthService issues and resolves sessions
type AuthService interface {
	Login(ctx context.Context, req *LoginRequest) (*Session, error)

	// CurrentUser resolves the user behind a session subject
	CurrentUser(ctx context.Context, userID string) (*models.User, error)
}
