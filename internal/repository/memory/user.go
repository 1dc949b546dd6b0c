package memory

import (
	"context"

	"github.com/dm0114/capacitor-push-prototype/internal/domain"
	models "github.com/dm0114/capacitor-push-prototype/internal/domain/models/workspace"
	repos "github.com/dm0114/capacitor-push-prototype/internal/domain/repositories/workspace"
)

type UserRepository struct {
	store *Store
}

func NewUserRepository(store *Store) repos.UserRepository {
	return &UserRepository{store: store}
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	var (
		user models.User
		ok   bool
	)
	r.store.read(func(s *state) { user, ok = s.users[id] })
	if !ok {
		return nil, domain.NewNotFound("user", id)
	}
	return &user, nil
}

func (r *UserRepository) Upsert(ctx context.Context, user *models.User) error {
	return r.store.write(func(s *state) error {
		s.users[user.ID] = *user
		return nil
	})
}
