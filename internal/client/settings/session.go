package settings

import "context"

// SessionKey holds the session token of the signed-in CLI user.
const SessionKey = "arkilo_session_token"

// LoadToken returns the saved session token, or "" when signed out.
func (s *Store) LoadToken(ctx context.Context) (string, error) {
	raw, ok, err := s.Get(ctx, SessionKey)
	if err != nil || !ok {
		return "", err
	}
	return string(raw), nil
}

// SaveToken stores token; an empty token removes the saved session.
func (s *Store) SaveToken(ctx context.Context, token string) error {
	if token == "" {
		return s.Delete(ctx, SessionKey)
	}
	return s.Set(ctx, SessionKey, []byte(token))
}
