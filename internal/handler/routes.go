package handler

import (
	"net/http"

	"github.com/dm0114/capacitor-push-prototype/internal/httputil"
)

// Handlers bundles every API handler for route registration.
type Handlers struct {
	Pages     *PageHandler
	Databases *DatabaseHandler
	Auth      *AuthHandler
}

// Wrapper decorates a route's handler; the pattern is the mux pattern it is
// registered under.
type Wrapper func(pattern string, h http.Handler) http.Handler

// Register mounts the API on mux. wrap may be nil.
func (hs *Handlers) Register(mux *http.ServeMux, wrap Wrapper) {
	handle := func(pattern string, fn http.HandlerFunc) {
		var h http.Handler = fn
		if wrap != nil {
			h = wrap(pattern, h)
		}
		mux.Handle(pattern, h)
	}

	handle("GET /health", func(w http.ResponseWriter, r *http.Request) {
		httputil.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	handle("GET /api/pages", hs.Pages.ListPages)
	handle("POST /api/pages", hs.Pages.CreatePage)
	handle("GET /api/pages/tree", hs.Pages.GetTree)
	handle("GET /api/pages/{id}", hs.Pages.GetPage)
	handle("PATCH /api/pages/{id}", hs.Pages.UpdatePage)
	handle("DELETE /api/pages/{id}", hs.Pages.DeletePage)
	handle("GET /api/pages/{id}/blocks", hs.Pages.GetBlocks)
	handle("PUT /api/pages/{id}/blocks", hs.Pages.SaveBlocks)

	handle("GET /api/databases/{id}/properties", hs.Databases.ListProperties)
	handle("POST /api/databases/{id}/properties", hs.Databases.CreateProperty)
	handle("PATCH /api/properties/{id}", hs.Databases.UpdateProperty)
	handle("GET /api/databases/{id}/rows", hs.Databases.ListRows)
	handle("POST /api/databases/{id}/rows", hs.Databases.CreateRow)
	handle("PATCH /api/rows/{id}", hs.Databases.UpdateRow)
	handle("DELETE /api/rows/{id}", hs.Databases.DeleteRow)
	handle("GET /api/databases/{id}/views", hs.Databases.ListViews)
	handle("POST /api/databases/{id}/views", hs.Databases.CreateView)
	handle("PATCH /api/views/{id}", hs.Databases.UpdateView)

	handle("POST /api/auth/login", hs.Auth.Login)
	handle("POST /api/auth/logout", hs.Auth.Logout)
	handle("GET /api/auth/me", hs.Auth.Me)
}
