package feature

import (
	"context"
	"fmt"
	"sync"

	"github.com/dm0114/capacitor-push-prototype/internal/client/gateway"
	"github.com/dm0114/capacitor-push-prototype/internal/client/queries"
	"github.com/dm0114/capacitor-push-prototype/internal/domain"
	models "github.com/dm0114/capacitor-push-prototype/internal/domain/models/workspace"
	svc "github.com/dm0114/capacitor-push-prototype/internal/domain/services/workspace"
)

// memoryAPI is a small in-memory backend. Methods the tests never reach
// fall through to the nil embedded interface and panic.
type memoryAPI struct {
	queries.API

	mu        sync.Mutex
	pages     []models.Page
	props     []models.Property
	rows      []models.Row
	views     []models.View
	user      *models.User
	loginErr  error
	rowErr    error
	rowWrites int
	nextID    int
}

func (m *memoryAPI) id(prefix string) string {
	m.nextID++
	return fmt.Sprintf("%s-%d", prefix, m.nextID)
}

func (m *memoryAPI) ListPages(_ context.Context, _ gateway.PageFilter) ([]models.Page, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Page{}
	for _, p := range m.pages {
		if !p.Archived {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *memoryAPI) CreatePage(_ context.Context, req *svc.CreatePageRequest) (*models.Page, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p := models.Page{ID: m.id("page"), ParentID: req.ParentID}
	if req.Title != nil {
		p.Title = *req.Title
	}
	if req.IsDatabase != nil {
		p.IsDatabase = *req.IsDatabase
	}
	m.pages = append(m.pages, p)
	return &p, nil
}

func (m *memoryAPI) UpdatePage(_ context.Context, id string, u gateway.PageUpdate) (*models.Page, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.pages {
		if m.pages[i].ID == id {
			m.pages[i] = u.Apply(m.pages[i])
			p := m.pages[i]
			return &p, nil
		}
	}
	return nil, &gateway.APIError{Status: 404, Message: "page not found"}
}

func (m *memoryAPI) DeletePage(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.pages {
		if m.pages[i].ID == id {
			m.pages[i].Archived = true
			return nil
		}
	}
	return domain.NewNotFound("page", id)
}

func (m *memoryAPI) ListProperties(context.Context, string) ([]models.Property, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.Property(nil), m.props...), nil
}

func (m *memoryAPI) ListViews(context.Context, string) ([]models.View, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.View(nil), m.views...), nil
}

func (m *memoryAPI) ListRows(context.Context, string) ([]models.Row, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.Row, 0, len(m.rows))
	for _, r := range m.rows {
		out = append(out, r.Clone())
	}
	return out, nil
}

func (m *memoryAPI) CreateRow(_ context.Context, databaseID string, req *svc.CreateRowRequest) (*models.Row, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rowWrites++
	r := models.Row{ID: m.id("row"), DatabaseID: databaseID, Values: req.Values}.Clone()
	m.rows = append(m.rows, r)
	return &r, nil
}

func (m *memoryAPI) UpdateRow(_ context.Context, id string, values map[string]any) (*models.Row, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rowWrites++
	if m.rowErr != nil {
		return nil, m.rowErr
	}
	for i := range m.rows {
		if m.rows[i].ID == id {
			for k, v := range values {
				m.rows[i].Values[k] = v
			}
			r := m.rows[i].Clone()
			return &r, nil
		}
	}
	return nil, &gateway.APIError{Status: 404, Message: "row not found"}
}

func (m *memoryAPI) DeleteRow(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.rows {
		if m.rows[i].ID == id {
			m.rows = append(m.rows[:i], m.rows[i+1:]...)
			return nil
		}
	}
	return &gateway.APIError{Status: 404, Message: "row not found"}
}

func (m *memoryAPI) Me(context.Context) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.user, nil
}

func (m *memoryAPI) Login(context.Context, string) (*svc.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.loginErr != nil {
		return nil, m.loginErr
	}
	m.user = &models.User{ID: "1", Email: "user@example.com", Name: "Test User"}
	return &svc.Session{User: m.user, Token: "token"}, nil
}

func (m *memoryAPI) Logout(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.user = nil
	return nil
}
