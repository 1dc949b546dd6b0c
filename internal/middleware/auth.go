package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/dm0114/capacitor-push-prototype/internal/auth"
	"github.com/dm0114/capacitor-push-prototype/internal/httputil"
)

// Authenticate resolves the caller from a bearer token or the session
// cookie. Requests without a valid token continue anonymously; handlers that
// need a user answer 401 themselves.
func Authenticate(verifier auth.TokenVerifier, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := TokenFromRequest(r)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := verifier.VerifyToken(token)
			if err != nil {
				logger.Debug("ignoring invalid token", "path", r.URL.Path, "error", err)
				next.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, httputil.WithUserID(r, claims.UserID()))
		})
	}
}

// TokenFromRequest returns the bearer token, falling back to the session cookie.
func TokenFromRequest(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		if token, ok := strings.CutPrefix(h, "Bearer "); ok {
			return strings.TrimSpace(token)
		}
	}
	if c, err := r.Cookie(auth.SessionCookie); err == nil {
		return c.Value
	}
	return ""
}
