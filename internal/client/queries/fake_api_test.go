package queries

import (
	"context"
	"sync/atomic"

	"github.com/dm0114/capacitor-push-prototype/internal/client/gateway"
	models "github.com/dm0114/capacitor-push-prototype/internal/domain/models/workspace"
	svc "github.com/dm0114/capacitor-push-prototype/internal/domain/services/workspace"
)

// fakeAPI answers with the configured funcs; unset funcs return zero values.
type fakeAPI struct {
	calls atomic.Int32

	listPages  func(gateway.PageFilter) ([]models.Page, error)
	getPage    func(string) (*models.Page, error)
	createPage func(*svc.CreatePageRequest) (*models.Page, error)
	updatePage func(string, gateway.PageUpdate) (*models.Page, error)
	deletePage func(string) error
	getBlocks  func(string) (models.Blocks, error)
	saveBlocks func(string, models.Blocks) error
	listProps  func(string) ([]models.Property, error)
	listRows   func(string) ([]models.Row, error)
	createRow  func(string, *svc.CreateRowRequest) (*models.Row, error)
	updateRow  func(string, map[string]any) (*models.Row, error)
	deleteRow  func(string) error
	listViews  func(string) ([]models.View, error)
	me         func() (*models.User, error)
	login      func(string) (*svc.Session, error)
	logout     func() error
}

func (f *fakeAPI) ListPages(_ context.Context, filter gateway.PageFilter) ([]models.Page, error) {
	f.calls.Add(1)
	if f.listPages == nil {
		return []models.Page{}, nil
	}
	return f.listPages(filter)
}

func (f *fakeAPI) GetPage(_ context.Context, id string) (*models.Page, error) {
	f.calls.Add(1)
	if f.getPage == nil {
		return &models.Page{ID: id}, nil
	}
	return f.getPage(id)
}

func (f *fakeAPI) CreatePage(_ context.Context, req *svc.CreatePageRequest) (*models.Page, error) {
	f.calls.Add(1)
	if f.createPage == nil {
		return &models.Page{ID: "new", ParentID: req.ParentID}, nil
	}
	return f.createPage(req)
}

func (f *fakeAPI) UpdatePage(_ context.Context, id string, u gateway.PageUpdate) (*models.Page, error) {
	f.calls.Add(1)
	if f.updatePage == nil {
		p := u.Apply(models.Page{ID: id})
		return &p, nil
	}
	return f.updatePage(id, u)
}

func (f *fakeAPI) DeletePage(_ context.Context, id string) error {
	f.calls.Add(1)
	if f.deletePage == nil {
		return nil
	}
	return f.deletePage(id)
}

func (f *fakeAPI) GetBlocks(_ context.Context, pageID string) (models.Blocks, error) {
	f.calls.Add(1)
	if f.getBlocks == nil {
		return models.Blocks{}, nil
	}
	return f.getBlocks(pageID)
}

func (f *fakeAPI) SaveBlocks(_ context.Context, pageID string, blocks models.Blocks) error {
	f.calls.Add(1)
	if f.saveBlocks == nil {
		return nil
	}
	return f.saveBlocks(pageID, blocks)
}

func (f *fakeAPI) ListProperties(_ context.Context, databaseID string) ([]models.Property, error) {
	f.calls.Add(1)
	if f.listProps == nil {
		return []models.Property{}, nil
	}
	return f.listProps(databaseID)
}

func (f *fakeAPI) CreateProperty(_ context.Context, databaseID string, req *svc.CreatePropertyRequest) (*models.Property, error) {
	f.calls.Add(1)
	return &models.Property{ID: "prop-new", DatabaseID: databaseID}, nil
}

func (f *fakeAPI) UpdateProperty(_ context.Context, id string, req *svc.UpdatePropertyRequest) (*models.Property, error) {
	f.calls.Add(1)
	return &models.Property{ID: id}, nil
}

func (f *fakeAPI) ListRows(_ context.Context, databaseID string) ([]models.Row, error) {
	f.calls.Add(1)
	if f.listRows == nil {
		return []models.Row{}, nil
	}
	return f.listRows(databaseID)
}

func (f *fakeAPI) CreateRow(_ context.Context, databaseID string, req *svc.CreateRowRequest) (*models.Row, error) {
	f.calls.Add(1)
	if f.createRow == nil {
		return &models.Row{ID: "row-new", DatabaseID: databaseID, Values: req.Values}, nil
	}
	return f.createRow(databaseID, req)
}

func (f *fakeAPI) UpdateRow(_ context.Context, id string, values map[string]any) (*models.Row, error) {
	f.calls.Add(1)
	if f.updateRow == nil {
		return &models.Row{ID: id, Values: values}, nil
	}
	return f.updateRow(id, values)
}

func (f *fakeAPI) DeleteRow(_ context.Context, id string) error {
	f.calls.Add(1)
	if f.deleteRow == nil {
		return nil
	}
	return f.deleteRow(id)
}

func (f *fakeAPI) ListViews(_ context.Context, databaseID string) ([]models.View, error) {
	f.calls.Add(1)
	if f.listViews == nil {
		return []models.View{}, nil
	}
	return f.listViews(databaseID)
}

func (f *fakeAPI) CreateView(_ context.Context, databaseID string, req *svc.CreateViewRequest) (*models.View, error) {
	f.calls.Add(1)
	return &models.View{ID: "view-new", DatabaseID: databaseID}, nil
}

func (f *fakeAPI) UpdateView(_ context.Context, id string, req *svc.UpdateViewRequest) (*models.View, error) {
	f.calls.Add(1)
	return &models.View{ID: id}, nil
}

func (f *fakeAPI) Me(context.Context) (*models.User, error) {
	f.calls.Add(1)
	if f.me == nil {
		return nil, nil
	}
	return f.me()
}

func (f *fakeAPI) Login(_ context.Context, provider string) (*svc.Session, error) {
	f.calls.Add(1)
	if f.login == nil {
		return &svc.Session{User: &models.User{ID: "1"}, Token: "tok"}, nil
	}
	return f.login(provider)
}

func (f *fakeAPI) Logout(context.Context) error {
	f.calls.Add(1)
	if f.logout == nil {
		return nil
	}
	return f.logout()
}
