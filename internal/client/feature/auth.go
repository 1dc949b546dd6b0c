package feature

import (
	"context"
	"errors"
	"log/slog"

	"github.com/dm0114/capacitor-push-prototype/internal/client/gateway"
	"github.com/dm0114/capacitor-push-prototype/internal/client/queries"
	"github.com/dm0114/capacitor-push-prototype/internal/client/uistate"
	models "github.com/dm0114/capacitor-push-prototype/internal/domain/models/workspace"
)

// LoginRoute is where unauthenticated users are sent.
const LoginRoute = "/auth/login"

const defaultLoginError = "Login failed"

// Auth combines the current user from the cache with the login form state.
type Auth struct {
	queries *queries.Client
	ui      *uistate.AuthStore
	logger  *slog.Logger
}

func NewAuth(q *queries.Client, ui *uistate.AuthStore, logger *slog.Logger) *Auth {
	return &Auth{queries: q, ui: ui, logger: logger}
}

type AuthView struct {
	User          *models.User
	Authenticated bool
	LoggingIn     bool
	Error         string
}

// State reports the signed-in user and form flags. A failed user lookup is
// surfaced as Error rather than returned.
func (a *Auth) State(ctx context.Context) AuthView {
	ui := a.ui.Snapshot()
	view := AuthView{LoggingIn: ui.LoggingIn, Error: ui.LoginError}

	user, err := a.queries.CurrentUser(ctx)
	if err != nil {
		if view.Error == "" {
			view.Error = gateway.Message(err)
		}
		return view
	}
	view.User = user
	view.Authenticated = user != nil
	return view
}

// Login runs the login flow, recording progress and failure in the store.
func (a *Auth) Login(ctx context.Context, provider string) (*models.User, error) {
	a.ui.SetLoggingIn(true)
	a.ui.ClearError()
	defer a.ui.SetLoggingIn(false)

	user, err := a.queries.Login(ctx, provider)
	if err != nil {
		msg := gateway.Message(err)
		if msg == "" {
			msg = defaultLoginError
		}
		a.ui.SetLoginError(msg)
		return nil, err
	}
	return user, nil
}

// Logout ends the session. Failures are logged and returned.
func (a *Auth) Logout(ctx context.Context) error {
	if err := a.queries.Logout(ctx); err != nil {
		a.logger.Error("logout failed", "error", err)
		return err
	}
	return nil
}

// GateDecision tells a protected screen whether to render or redirect.
type GateDecision struct {
	Allow    bool
	Redirect string
	User     *models.User
}

// Gate guards protected screens: without a signed-in user, including when
// the lookup fails, the caller is redirected to LoginRoute. Cancellation is
// returned as an error.
func (a *Auth) Gate(ctx context.Context) (GateDecision, error) {
	user, err := a.queries.CurrentUser(ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return GateDecision{}, err
		}
		a.logger.Warn("current user lookup failed", "error", err)
		return GateDecision{Redirect: LoginRoute}, nil
	}
	if user == nil {
		return GateDecision{Redirect: LoginRoute}, nil
	}
	return GateDecision{Allow: true, User: user}, nil
}
