package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	models "github.com/dm0114/capacitor-push-prototype/internal/domain/models/workspace"
	svc "github.com/dm0114/capacitor-push-prototype/internal/domain/services/workspace"
	"github.com/dm0114/capacitor-push-prototype/internal/httputil"
)

// PageHandler handles page and block HTTP requests
type PageHandler struct {
	pageService svc.PageService
	logger      *slog.Logger
}

// NewPageHandler creates a new page handler
func NewPageHandler(pageService svc.PageService, logger *slog.Logger) *PageHandler {
	return &PageHandler{
		pageService: pageService,
		logger:      logger,
	}
}

// ListPages returns non-archived pages ordered by position
// GET /api/pages?parentId=&databaseId=
func (h *PageHandler) ListPages(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := models.PageFilter{
		Parent:     toOptionalParent(httputil.QueryParam(query, "parentId")),
		DatabaseID: query.Get("databaseId"),
	}

	pages, err := h.pageService.ListPages(r.Context(), filter)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, pages)
}

// GetTree returns the nested page hierarchy
// GET /api/pages/tree
func (h *PageHandler) GetTree(w http.ResponseWriter, r *http.Request) {
	tree, err := h.pageService.GetPageTree(r.Context())
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, tree)
}

// GetPage returns a page, archived or not
// GET /api/pages/{id}
func (h *PageHandler) GetPage(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", "Page")
	if !ok {
		return
	}

	page, err := h.pageService.GetPage(r.Context(), id)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, page)
}

// CreatePage creates a page after its last sibling
// POST /api/pages
func (h *PageHandler) CreatePage(w http.ResponseWriter, r *http.Request) {
	var req svc.CreatePageRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	req.UserID = httputil.GetUserID(r)

	page, err := h.pageService.CreatePage(r.Context(), &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, page)
}

// updatePageBody mirrors UpdatePageRequest with a tri-state parent_id
type updatePageBody struct {
	svc.UpdatePageRequest
	ParentID httputil.OptionalString `json:"parent_id"`
}

// UpdatePage applies a partial update
// PATCH /api/pages/{id}
func (h *PageHandler) UpdatePage(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", "Page")
	if !ok {
		return
	}

	var body updatePageBody
	if err := httputil.ParseJSON(w, r, &body); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	req := body.UpdatePageRequest
	req.Parent = toOptionalParent(body.ParentID)

	page, err := h.pageService.UpdatePage(r.Context(), id, &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, page)
}

// DeletePage archives a page
// DELETE /api/pages/{id}
func (h *PageHandler) DeletePage(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", "Page")
	if !ok {
		return
	}

	if err := h.pageService.DeletePage(r.Context(), id); err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondSuccess(w)
}

// GetBlocks returns the page's editor document
// GET /api/pages/{id}/blocks
func (h *PageHandler) GetBlocks(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", "Page")
	if !ok {
		return
	}

	blocks, err := h.pageService.GetBlocks(r.Context(), id)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, blocks)
}

// SaveBlocks replaces the page's editor document. The body is either a bare
// array or {"blocks": [...]}.
// PUT /api/pages/{id}/blocks
func (h *PageHandler) SaveBlocks(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", "Page")
	if !ok {
		return
	}

	var raw json.RawMessage
	if err := httputil.ParseJSON(w, r, &raw); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	blocks, err := decodeBlocks(raw)
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Blocks must be an array")
		return
	}

	if err := h.pageService.SaveBlocks(r.Context(), id, blocks); err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondSuccess(w)
}

func decodeBlocks(raw json.RawMessage) (models.Blocks, error) {
	var blocks models.Blocks
	if err := json.Unmarshal(raw, &blocks); err == nil {
		return blocks, nil
	}

	var wrapped struct {
		Blocks models.Blocks `json:"blocks"`
	}
	if err := json.Unmarshal(raw, &wrapped); err != nil {
		return nil, err
	}
	return wrapped.Blocks, nil
}
