package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/dm0114/capacitor-push-prototype/internal/auth"
	svc "github.com/dm0114/capacitor-push-prototype/internal/domain/services/workspace"
	"github.com/dm0114/capacitor-push-prototype/internal/httputil"
)

// AuthHandler handles login, logout and session lookups
type AuthHandler struct {
	authService  svc.AuthService
	sessionTTL   time.Duration
	secureCookie bool
	logger       *slog.Logger
}

// NewAuthHandler creates a new auth handler. secureCookie marks the session
// cookie Secure, for deployments behind TLS.
func NewAuthHandler(authService svc.AuthService, sessionTTL time.Duration, secureCookie bool, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		authService:  authService,
		sessionTTL:   sessionTTL,
		secureCookie: secureCookie,
		logger:       logger,
	}
}

// Login signs the user in and sets the session cookie
// POST /api/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req svc.LoginRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	session, err := h.authService.Login(r.Context(), &req)
	if err != nil {
		handleError(w, err)
		return
	}

	http.SetCookie(w, h.cookie(session.Token, int(h.sessionTTL.Seconds())))
	httputil.RespondJSON(w, http.StatusOK, session)
}

// Logout clears the session cookie. Issued tokens stay valid until they
// expire.
// POST /api/auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, h.cookie("", -1))
	h.logger.Info("user logged out", "user_id", httputil.GetUserID(r))
	httputil.RespondSuccess(w)
}

// Me returns the signed-in user, 401 without a session
// GET /api/auth/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, err := h.authService.CurrentUser(r.Context(), httputil.GetUserID(r))
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, user)
}

func (h *AuthHandler) cookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     auth.SessionCookie,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	}
}
