package workspace

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dm0114/capacitor-push-prototype/internal/domain"
	models "github.com/dm0114/capacitor-push-prototype/internal/domain/models/workspace"
	svc "github.com/dm0114/capacitor-push-prototype/internal/domain/services/workspace"
	"github.com/dm0114/capacitor-push-prototype/internal/repository/memory"
)

func strPtr(s string) *string { return &s }

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newPageService(t *testing.T) (svc.PageService, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	return NewPageService(
		memory.NewPageRepository(store),
		memory.NewBlockRepository(store),
		memory.NewTransactionManager(store),
		testLogger(),
	), store
}

func TestCreatePage_PositionsAfterLastSibling(t *testing.T) {
	ctx := context.Background()
	s, _ := newPageService(t)

	first, err := s.CreatePage(ctx, &svc.CreatePageRequest{Title: strPtr("  First  ")})
	require.NoError(t, err)
	assert.Equal(t, "1", first.Position)
	assert.Equal(t, "First", first.Title)
	assert.Equal(t, DefaultUserID, first.UserID)
	assert.False(t, first.Archived)

	second, err := s.CreatePage(ctx, &svc.CreatePageRequest{Title: strPtr("Second")})
	require.NoError(t, err)
	assert.Equal(t, "2", second.Position)

	child, err := s.CreatePage(ctx, &svc.CreatePageRequest{ParentID: &first.ID, UserID: "u-9"})
	require.NoError(t, err)
	assert.Equal(t, "1", child.Position, "positions are per parent")
	assert.Equal(t, "u-9", child.UserID)
	assert.Equal(t, "", child.Title)

	// archived siblings still count
	require.NoError(t, s.DeletePage(ctx, second.ID))
	third, err := s.CreatePage(ctx, &svc.CreatePageRequest{})
	require.NoError(t, err)
	assert.Equal(t, "3", third.Position)
}

func TestNextPosition(t *testing.T) {
	tests := []struct {
		name      string
		positions []string
		want      string
	}{
		{name: "no siblings", want: "1"},
		{name: "integers", positions: []string{"1", "4", "2"}, want: "5"},
		{name: "fractional", positions: []string{"1.5"}, want: "2.5"},
		{name: "garbage counts as zero", positions: []string{"a0", ""}, want: "1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var pages []models.Page
			for _, p := range tt.positions {
				pages = append(pages, models.Page{Position: p})
			}
			assert.Equal(t, tt.want, nextPosition(pages))
		})
	}
}

func TestCreatePage_Validation(t *testing.T) {
	s, _ := newPageService(t)

	_, err := s.CreatePage(context.Background(), &svc.CreatePageRequest{Title: strPtr(strings.Repeat("x", 256))})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = s.CreatePage(context.Background(), &svc.CreatePageRequest{ParentID: strPtr("")})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestListPages_FiltersAndSorts(t *testing.T) {
	ctx := context.Background()
	s, _ := newPageService(t)

	a, err := s.CreatePage(ctx, &svc.CreatePageRequest{Title: strPtr("A")})
	require.NoError(t, err)
	b, err := s.CreatePage(ctx, &svc.CreatePageRequest{Title: strPtr("B")})
	require.NoError(t, err)
	c, err := s.CreatePage(ctx, &svc.CreatePageRequest{Title: strPtr("C"), ParentID: &a.ID})
	require.NoError(t, err)

	_, err = s.UpdatePage(ctx, a.ID, &svc.UpdatePageRequest{Position: strPtr("9")})
	require.NoError(t, err)

	all, err := s.ListPages(ctx, models.PageFilter{})
	require.NoError(t, err)
	assert.Equal(t, []string{c.ID, b.ID, a.ID}, pageIDs(all))

	roots, err := s.ListPages(ctx, models.PageFilter{Parent: models.OptionalParent{Present: true}})
	require.NoError(t, err)
	assert.Equal(t, []string{b.ID, a.ID}, pageIDs(roots))

	require.NoError(t, s.DeletePage(ctx, b.ID))
	roots, err = s.ListPages(ctx, models.PageFilter{Parent: models.OptionalParent{Present: true}, IncludeArchived: true})
	require.NoError(t, err)
	assert.Equal(t, []string{a.ID}, pageIDs(roots), "archived pages never listed")

	archived, err := s.GetPage(ctx, b.ID)
	require.NoError(t, err)
	assert.True(t, archived.Archived)
}

func TestUpdatePage_Partial(t *testing.T) {
	ctx := context.Background()
	s, _ := newPageService(t)

	parent, err := s.CreatePage(ctx, &svc.CreatePageRequest{Title: strPtr("Parent")})
	require.NoError(t, err)
	page, err := s.CreatePage(ctx, &svc.CreatePageRequest{Title: strPtr("Page"), Icon: strPtr("📄")})
	require.NoError(t, err)

	updated, err := s.UpdatePage(ctx, page.ID, &svc.UpdatePageRequest{
		Title:  strPtr("Renamed"),
		Parent: models.OptionalParent{Present: true, Value: &parent.ID},
	})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Title)
	require.NotNil(t, updated.ParentID)
	assert.Equal(t, parent.ID, *updated.ParentID)
	assert.Equal(t, "📄", *updated.Icon, "untouched fields survive")

	updated, err = s.UpdatePage(ctx, page.ID, &svc.UpdatePageRequest{Parent: models.OptionalParent{Present: true}})
	require.NoError(t, err)
	assert.Nil(t, updated.ParentID)
	assert.Equal(t, "Renamed", updated.Title)

	_, err = s.UpdatePage(ctx, "missing", &svc.UpdatePageRequest{Title: strPtr("x")})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUpdatePage_RejectsCycles(t *testing.T) {
	ctx := context.Background()
	s, _ := newPageService(t)

	a, err := s.CreatePage(ctx, &svc.CreatePageRequest{Title: strPtr("A")})
	require.NoError(t, err)
	b, err := s.CreatePage(ctx, &svc.CreatePageRequest{Title: strPtr("B"), ParentID: &a.ID})
	require.NoError(t, err)

	_, err = s.UpdatePage(ctx, a.ID, &svc.UpdatePageRequest{Parent: models.OptionalParent{Present: true, Value: &a.ID}})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = s.UpdatePage(ctx, a.ID, &svc.UpdatePageRequest{Parent: models.OptionalParent{Present: true, Value: &b.ID}})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = s.UpdatePage(ctx, a.ID, &svc.UpdatePageRequest{Parent: models.OptionalParent{Present: true, Value: strPtr("ghost")}})
	assert.ErrorIs(t, err, domain.ErrValidation)

	got, err := s.GetPage(ctx, a.ID)
	require.NoError(t, err)
	assert.Nil(t, got.ParentID)
}

func TestGetPageTree(t *testing.T) {
	ctx := context.Background()
	s, _ := newPageService(t)

	a, err := s.CreatePage(ctx, &svc.CreatePageRequest{Title: strPtr("A")})
	require.NoError(t, err)
	_, err = s.CreatePage(ctx, &svc.CreatePageRequest{Title: strPtr("B"), ParentID: &a.ID})
	require.NoError(t, err)

	tree, err := s.GetPageTree(ctx)
	require.NoError(t, err)
	require.Len(t, tree, 1)
	require.Len(t, tree[0].Children, 1)
	assert.Equal(t, 1, tree[0].Children[0].Depth)
}

func TestBlocks(t *testing.T) {
	ctx := context.Background()
	s, _ := newPageService(t)

	page, err := s.CreatePage(ctx, &svc.CreatePageRequest{Title: strPtr("Doc")})
	require.NoError(t, err)

	blocks, err := s.GetBlocks(ctx, page.ID)
	require.NoError(t, err)
	assert.NotNil(t, blocks)
	assert.Empty(t, blocks)

	doc := models.Blocks{json.RawMessage(`{"id":"b1","type":"paragraph"}`)}
	require.NoError(t, s.SaveBlocks(ctx, page.ID, doc))

	blocks, err = s.GetBlocks(ctx, page.ID)
	require.NoError(t, err)
	require.Len(t, blocks, 1)
	assert.JSONEq(t, `{"id":"b1","type":"paragraph"}`, string(blocks[0]))

	assert.ErrorIs(t, s.SaveBlocks(ctx, "missing", doc), domain.ErrNotFound)

	tooMany := make(models.Blocks, 5001)
	assert.ErrorIs(t, s.SaveBlocks(ctx, page.ID, tooMany), domain.ErrValidation)
}

func newDatabaseService() svc.DatabaseService {
	store := memory.NewStore()
	return NewDatabaseService(
		memory.NewPropertyRepository(store),
		memory.NewRowRepository(store),
		memory.NewViewRepository(store),
		memory.NewTransactionManager(store),
		testLogger(),
	)
}

func TestCreateProperty_Defaults(t *testing.T) {
	ctx := context.Background()
	s := newDatabaseService()

	prop, err := s.CreateProperty(ctx, "db-1", &svc.CreatePropertyRequest{})
	require.NoError(t, err)
	assert.Equal(t, DefaultPropertyName, prop.Name)
	assert.Equal(t, models.PropertyText, prop.Type)
	assert.Equal(t, "1", prop.Position)
	assert.NotNil(t, prop.Config)

	selectType := models.PropertySelect
	other, err := s.CreateProperty(ctx, "db-2", &svc.CreatePropertyRequest{
		Name:    strPtr("Status"),
		Type:    &selectType,
		Options: []models.SelectOption{{ID: "a", Name: "A", Color: "red"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "2", other.Position, "positions count every database")

	props, err := s.ListProperties(ctx, "db-2")
	require.NoError(t, err)
	require.Len(t, props, 1)
	assert.True(t, props[0].HasOption("a"))
}

func TestCreateProperty_Validation(t *testing.T) {
	s := newDatabaseService()
	bogus := models.PropertyType("formula")

	tests := []struct {
		name string
		req  *svc.CreatePropertyRequest
	}{
		{name: "unknown type", req: &svc.CreatePropertyRequest{Type: &bogus}},
		{name: "empty name", req: &svc.CreatePropertyRequest{Name: strPtr("")}},
		{name: "long name", req: &svc.CreatePropertyRequest{Name: strPtr(strings.Repeat("n", 101))}},
		{name: "duplicate options", req: &svc.CreatePropertyRequest{Options: []models.SelectOption{{ID: "a"}, {ID: "a"}}}},
		{name: "option without id", req: &svc.CreatePropertyRequest{Options: []models.SelectOption{{Name: "A"}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.CreateProperty(context.Background(), "db-1", tt.req)
			assert.ErrorIs(t, err, domain.ErrValidation)
		})
	}
}

func TestUpdateProperty(t *testing.T) {
	ctx := context.Background()
	s := newDatabaseService()

	prop, err := s.CreateProperty(ctx, "db-1", &svc.CreatePropertyRequest{Name: strPtr("Due")})
	require.NoError(t, err)

	dateType := models.PropertyDate
	updated, err := s.UpdateProperty(ctx, prop.ID, &svc.UpdatePropertyRequest{Type: &dateType})
	require.NoError(t, err)
	assert.Equal(t, "Due", updated.Name)
	assert.Equal(t, models.PropertyDate, updated.Type)

	_, err = s.UpdateProperty(ctx, "missing", &svc.UpdatePropertyRequest{})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRows_CreateMergeDelete(t *testing.T) {
	ctx := context.Background()
	s := newDatabaseService()

	row, err := s.CreateRow(ctx, "db-1", &svc.CreateRowRequest{
		Title:  strPtr("Task"),
		Values: map[string]any{"prop-status": "opt-1", "prop-title": "Task"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Task", row.Title)

	blank, err := s.CreateRow(ctx, "db-1", &svc.CreateRowRequest{})
	require.NoError(t, err)
	assert.Equal(t, "", blank.Title)
	assert.NotNil(t, blank.Values)

	merged, err := s.UpdateRow(ctx, row.ID, &svc.UpdateRowRequest{Values: map[string]any{"prop-status": "opt-2", "prop-due": "2025-01-15"}})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"prop-status": "opt-2",
		"prop-title":  "Task",
		"prop-due":    "2025-01-15",
	}, merged.Values)

	require.NoError(t, s.DeleteRow(ctx, row.ID))
	rows, err := s.ListRows(ctx, "db-1")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, blank.ID, rows[0].ID)

	assert.ErrorIs(t, s.DeleteRow(ctx, row.ID), domain.ErrNotFound)
	_, err = s.UpdateRow(ctx, row.ID, &svc.UpdateRowRequest{})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestViews(t *testing.T) {
	ctx := context.Background()
	s := newDatabaseService()

	view, err := s.CreateView(ctx, "db-1", &svc.CreateViewRequest{})
	require.NoError(t, err)
	assert.Equal(t, DefaultViewName, view.Name)
	assert.Equal(t, models.ViewTable, view.Type)
	assert.Equal(t, "1", view.Position)
	assert.WithinDuration(t, time.Now(), view.CreatedAt, time.Minute)

	board := models.ViewBoard
	updated, err := s.UpdateView(ctx, view.ID, &svc.UpdateViewRequest{
		Type:   &board,
		Config: map[string]any{models.ConfigGroupByProperty: "prop-status"},
	})
	require.NoError(t, err)
	assert.Equal(t, "prop-status", updated.GroupByProperty())

	bogus := models.ViewType("timeline")
	_, err = s.CreateView(ctx, "db-1", &svc.CreateViewRequest{Type: &bogus})
	assert.ErrorIs(t, err, domain.ErrValidation)

	views, err := s.ListViews(ctx, "db-1")
	require.NoError(t, err)
	assert.Len(t, views, 1)
}

type stubIssuer struct{ err error }

func (s stubIssuer) Issue(user *models.User) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return "token-" + user.ID, nil
}

func TestAuthService(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	s := NewAuthService(memory.NewUserRepository(store), stubIssuer{}, testLogger())

	_, err := s.Login(ctx, &svc.LoginRequest{})
	assert.ErrorIs(t, err, domain.ErrValidation)

	session, err := s.Login(ctx, &svc.LoginRequest{Provider: "google"})
	require.NoError(t, err)
	assert.Equal(t, "token-1", session.Token)
	assert.Equal(t, "user@example.com", session.User.Email)

	user, err := s.CurrentUser(ctx, session.User.ID)
	require.NoError(t, err)
	assert.Equal(t, "Test User", user.Name)

	_, err = s.CurrentUser(ctx, "")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	_, err = s.CurrentUser(ctx, "someone-else")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func pageIDs(pages []models.Page) []string {
	ids := make([]string, len(pages))
	for i, p := range pages {
		ids[i] = p.ID
	}
	return ids
}
