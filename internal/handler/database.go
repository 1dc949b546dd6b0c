package handler

import (
	"log/slog"
	"net/http"

	svc "github.com/dm0114/capacitor-push-prototype/internal/domain/services/workspace"
	"github.com/dm0114/capacitor-push-prototype/internal/httputil"
)

// DatabaseHandler handles property, row and view HTTP requests
type DatabaseHandler struct {
	databaseService svc.DatabaseService
	logger          *slog.Logger
}

// NewDatabaseHandler creates a new database handler
func NewDatabaseHandler(databaseService svc.DatabaseService, logger *slog.Logger) *DatabaseHandler {
	return &DatabaseHandler{
		databaseService: databaseService,
		logger:          logger,
	}
}

// ListProperties
// GET /api/databases/{id}/properties
func (h *DatabaseHandler) ListProperties(w http.ResponseWriter, r *http.Request) {
	databaseID, ok := pathID(w, r, "id", "Database")
	if !ok {
		return
	}

	props, err := h.databaseService.ListProperties(r.Context(), databaseID)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, props)
}

// CreateProperty adds a column, "New Property" of type text by default
// POST /api/databases/{id}/properties
func (h *DatabaseHandler) CreateProperty(w http.ResponseWriter, r *http.Request) {
	databaseID, ok := pathID(w, r, "id", "Database")
	if !ok {
		return
	}

	var req svc.CreatePropertyRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	prop, err := h.databaseService.CreateProperty(r.Context(), databaseID, &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, prop)
}

// UpdateProperty
// PATCH /api/properties/{id}
func (h *DatabaseHandler) UpdateProperty(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", "Property")
	if !ok {
		return
	}

	var req svc.UpdatePropertyRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	prop, err := h.databaseService.UpdateProperty(r.Context(), id, &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, prop)
}

// ListRows returns rows with their value maps
// GET /api/databases/{id}/rows
func (h *DatabaseHandler) ListRows(w http.ResponseWriter, r *http.Request) {
	databaseID, ok := pathID(w, r, "id", "Database")
	if !ok {
		return
	}

	rows, err := h.databaseService.ListRows(r.Context(), databaseID)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, rows)
}

// CreateRow
// POST /api/databases/{id}/rows
func (h *DatabaseHandler) CreateRow(w http.ResponseWriter, r *http.Request) {
	databaseID, ok := pathID(w, r, "id", "Database")
	if !ok {
		return
	}

	var req svc.CreateRowRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	row, err := h.databaseService.CreateRow(r.Context(), databaseID, &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, row)
}

// UpdateRow merges values and answers with the row's full value map
// PATCH /api/rows/{id}
func (h *DatabaseHandler) UpdateRow(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", "Row")
	if !ok {
		return
	}

	var req svc.UpdateRowRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	row, err := h.databaseService.UpdateRow(r.Context(), id, &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, row)
}

// DeleteRow
// DELETE /api/rows/{id}
func (h *DatabaseHandler) DeleteRow(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", "Row")
	if !ok {
		return
	}

	if err := h.databaseService.DeleteRow(r.Context(), id); err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondSuccess(w)
}

// ListViews
// GET /api/databases/{id}/views
func (h *DatabaseHandler) ListViews(w http.ResponseWriter, r *http.Request) {
	databaseID, ok := pathID(w, r, "id", "Database")
	if !ok {
		return
	}

	views, err := h.databaseService.ListViews(r.Context(), databaseID)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, views)
}

// CreateView adds a view, "New View" of type table by default
// POST /api/databases/{id}/views
func (h *DatabaseHandler) CreateView(w http.ResponseWriter, r *http.Request) {
	databaseID, ok := pathID(w, r, "id", "Database")
	if !ok {
		return
	}

	var req svc.CreateViewRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	view, err := h.databaseService.CreateView(r.Context(), databaseID, &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, view)
}

// UpdateView
// PATCH /api/views/{id}
func (h *DatabaseHandler) UpdateView(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", "View")
	if !ok {
		return
	}

	var req svc.UpdateViewRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	view, err := h.databaseService.UpdateView(r.Context(), id, &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, view)
}
