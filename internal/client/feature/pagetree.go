// Package feature composes server data from the query layer with local UI
// state into the models screens and commands work against.
package feature

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/dm0114/capacitor-push-prototype/internal/client/gateway"
	"github.com/dm0114/capacitor-push-prototype/internal/client/pagetree"
	"github.com/dm0114/capacitor-push-prototype/internal/client/queries"
	"github.com/dm0114/capacitor-push-prototype/internal/client/uistate"
	"github.com/dm0114/capacitor-push-prototype/internal/domain"
	models "github.com/dm0114/capacitor-push-prototype/internal/domain/models/workspace"
	svc "github.com/dm0114/capacitor-push-prototype/internal/domain/services/workspace"
	"github.com/dm0114/capacitor-push-prototype/internal/httputil"
)

// PageTree is the sidebar model: the page forest plus selection and
// expansion.
type PageTree struct {
	queries *queries.Client
	ui      *uistate.PageStore
	logger  *slog.Logger
}

func NewPageTree(q *queries.Client, ui *uistate.PageStore, logger *slog.Logger) *PageTree {
	return &PageTree{queries: q, ui: ui, logger: logger}
}

// PageTreeView is what the sidebar renders.
type PageTreeView struct {
	Pages      []models.Page
	Tree       []models.PageTreeNode
	RootPages  []models.PageTreeNode
	Databases  []models.Page
	SelectedID string
}

// Load reads every live page and builds the forest.
func (m *PageTree) Load(ctx context.Context) (*PageTreeView, error) {
	pages, err := m.queries.ListPages(ctx, gateway.PageFilter{})
	if err != nil {
		return nil, fmt.Errorf("load pages: %w", err)
	}
	tree := pagetree.Build(pages)
	return &PageTreeView{
		Pages:      pages,
		Tree:       tree,
		RootPages:  pagetree.RootPages(tree),
		Databases:  pagetree.Databases(pages),
		SelectedID: m.ui.SelectedPageID(),
	}, nil
}

// NewPage describes a page to create from the sidebar.
type NewPage struct {
	Title      string
	ParentID   *string
	IsDatabase bool
}

// CreatePage creates the page, expands its parent and selects it.
func (m *PageTree) CreatePage(ctx context.Context, p NewPage) (*models.Page, error) {
	req := &svc.CreatePageRequest{Title: &p.Title, ParentID: p.ParentID}
	if p.IsDatabase {
		req.IsDatabase = &p.IsDatabase
	}
	page, err := m.queries.CreatePage(ctx, req)
	if err != nil {
		return nil, err
	}
	if p.ParentID != nil {
		m.ui.SetExpanded(*p.ParentID, true)
	}
	m.ui.SetSelectedPageID(page.ID)
	return page, nil
}

func (m *PageTree) UpdatePage(ctx context.Context, id string, update gateway.PageUpdate) (*models.Page, error) {
	return m.queries.UpdatePage(ctx, id, update)
}

// DeletePage archives the page and clears the selection if it pointed there.
func (m *PageTree) DeletePage(ctx context.Context, id string) error {
	if m.ui.SelectedPageID() == id {
		m.ui.SetSelectedPageID("")
	}
	return m.queries.DeletePage(ctx, id)
}

// Select marks a page as the one being viewed.
func (m *PageTree) Select(id string) { m.ui.SetSelectedPageID(id) }

func (m *PageTree) ToggleExpanded(id string) { m.ui.ToggleExpanded(id) }

func (m *PageTree) BeginDrag(id string) { m.ui.SetDraggingPageID(id) }

// Drop ends a drag by re-parenting the dragged page under newParentID, or
// at the root when it is nil. A page cannot be moved under itself or one
// of its descendants.
func (m *PageTree) Drop(ctx context.Context, newParentID *string) (*models.Page, error) {
	pageID := m.ui.DraggingPageID()
	m.ui.SetDraggingPageID("")
	if pageID == "" {
		return nil, nil
	}
	if newParentID != nil {
		if err := m.checkMove(ctx, pageID, *newParentID); err != nil {
			return nil, err
		}
		m.ui.SetExpanded(*newParentID, true)
	}
	return m.queries.UpdatePage(ctx, pageID, gateway.PageUpdate{Parent: httputil.FromPtr(newParentID)})
}

func (m *PageTree) checkMove(ctx context.Context, pageID, parentID string) error {
	if pageID == parentID {
		return fmt.Errorf("%w: a page cannot be its own parent", domain.ErrValidation)
	}
	pages, err := m.queries.ListPages(ctx, gateway.PageFilter{})
	if err != nil {
		return fmt.Errorf("load pages: %w", err)
	}
	node := pagetree.Find(pagetree.Build(pages), pageID)
	if node == nil {
		return nil
	}
	if pagetree.Find(node.Children, parentID) != nil {
		return fmt.Errorf("%w: cannot move a page under its own descendant", domain.ErrValidation)
	}
	return nil
}
