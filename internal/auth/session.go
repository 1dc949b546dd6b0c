package auth

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/dm0114/capacitor-push-prototype/internal/domain"
	models "github.com/dm0114/capacitor-push-prototype/internal/domain/models/workspace"
)

const (
	// SessionCookie carries the session token for browser clients.
	SessionCookie = "arkilo_session"

	// DefaultSessionTTL is how long an issued session stays valid.
	DefaultSessionTTL = 7 * 24 * time.Hour

	sessionIssuer = "arkilo"
)

var errNoVerifier = fmt.Errorf("%w: no token verifier configured", domain.ErrUnauthorized)

// SessionManager issues and verifies HS256 session tokens.
type SessionManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
	logger *slog.Logger
}

func NewSessionManager(secret []byte, ttl time.Duration, logger *slog.Logger) (*SessionManager, error) {
	if len(secret) == 0 {
		return nil, errors.New("session secret cannot be empty")
	}
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &SessionManager{secret: secret, ttl: ttl, now: time.Now, logger: logger}, nil
}

// Issue signs a session token for user.
func (m *SessionManager) Issue(user *models.User) (string, error) {
	now := m.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    sessionIssuer,
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
		Email: user.Email,
		Name:  user.Name,
	})
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign session: %w", err)
	}
	return signed, nil
}

func (m *SessionManager) VerifyToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (any, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(sessionIssuer),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil || !token.Valid {
		m.logger.Debug("session token rejected", "error", err)
		return nil, domain.ErrUnauthorized
	}
	if claims.Subject == "" {
		return nil, domain.ErrUnauthorized
	}
	return claims, nil
}

func (m *SessionManager) Close() error { return nil }
