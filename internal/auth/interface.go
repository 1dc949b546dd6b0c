package auth

import "github.com/golang-jwt/jwt/v5"

// Claims are the token claims the backend relies on. Subject is the user id.
type Claims struct {
	jwt.RegisteredClaims
	Email string `json:"email,omitempty"`
	Name  string `json:"name,omitempty"`
}

// UserID returns the subject claim.
func (c *Claims) UserID() string {
	return c.Subject
}

// TokenVerifier validates a bearer or cookie token.
type TokenVerifier interface {
	// VerifyToken returns the claims of a valid token, or an error matching
	// domain.ErrUnauthorized.
	VerifyToken(tokenString string) (*Claims, error)

	// Close releases resources such as JWKS refresh goroutines.
	Close() error
}

// Chain accepts a token when any of its verifiers does, trying them in order.
type Chain []TokenVerifier

func (c Chain) VerifyToken(tokenString string) (*Claims, error) {
	var lastErr error
	for _, v := range c {
		claims, err := v.VerifyToken(tokenString)
		if err == nil {
			return claims, nil
		}
		lastErr = err
	}
	if lastErr == nil {
		lastErr = errNoVerifier
	}
	return nil, lastErr
}

func (c Chain) Close() error {
	for _, v := range c {
		if err := v.Close(); err != nil {
			return err
		}
	}
	return nil
}
