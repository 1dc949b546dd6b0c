package workspace

import (
	"context"

	models "github.com/dm0114/capacitor-push-prototype/internal/domain/models/workspace"
)

// UserRepository defines data access operations for accounts
type UserRepository interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
	Upsert(ctx context.Context, user *models.User) error
}
