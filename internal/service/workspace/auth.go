package workspace

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/dm0114/capacitor-push-prototype/internal/domain"
	models "github.com/dm0114/capacitor-push-prototype/internal/domain/models/workspace"
	repos "github.com/dm0114/capacitor-push-prototype/internal/domain/repositories/workspace"
	svc "github.com/dm0114/capacitor-push-prototype/internal/domain/services/workspace"
)

// SessionIssuer signs session tokens for a user.
type SessionIssuer interface {
	Issue(user *models.User) (string, error)
}

// DefaultUser is the account every provider login resolves to.
func DefaultUser() models.User {
	return models.User{
		ID:    DefaultUserID,
		Email: "user@example.com",
		Name:  "Test User",
	}
}

// authService implements the AuthService interface
type authService struct {
	userRepo repos.UserRepository
	sessions SessionIssuer
	logger   *slog.Logger
	now      func() time.Time
}

// NewAuthService creates a new auth service
func NewAuthService(userRepo repos.UserRepository, sessions SessionIssuer, logger *slog.Logger) svc.AuthService {
	return &authService{
		userRepo: userRepo,
		sessions: sessions,
		logger:   logger,
		now:      time.Now,
	}
}

// Login accepts any named provider and signs in the default user, creating
// the account on first use.
func (s *authService) Login(ctx context.Context, req *svc.LoginRequest) (*svc.Session, error) {
	err := validation.ValidateStruct(req,
		validation.Field(&req.Provider, validation.Required, validation.Length(1, 50)),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	user, err := s.userRepo.GetByID(ctx, DefaultUserID)
	if errors.Is(err, domain.ErrNotFound) {
		fixture := DefaultUser()
		fixture.CreatedAt = s.now().UTC()
		if err := s.userRepo.Upsert(ctx, &fixture); err != nil {
			return nil, err
		}
		user, err = &fixture, nil
	}
	if err != nil {
		return nil, err
	}

	token, err := s.sessions.Issue(user)
	if err != nil {
		return nil, fmt.Errorf("issue session: %w", err)
	}

	s.logger.Info("user logged in", "user_id", user.ID, "provider", req.Provider)
	return &svc.Session{User: user, Token: token}, nil
}

func (s *authService) CurrentUser(ctx context.Context, userID string) (*models.User, error) {
	if userID == "" {
		return nil, &domain.UnauthorizedError{Message: "not logged in"}
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, &domain.UnauthorizedError{Message: "unknown user"}
		}
		return nil, err
	}
	return user, nil
}
