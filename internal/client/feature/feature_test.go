package feature

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dm0114/capacitor-push-prototype/internal/client/gateway"
	"github.com/dm0114/capacitor-push-prototype/internal/client/queries"
	"github.com/dm0114/capacitor-push-prototype/internal/client/querycache"
	"github.com/dm0114/capacitor-push-prototype/internal/client/uistate"
	"github.com/dm0114/capacitor-push-prototype/internal/client/views"
	"github.com/dm0114/capacitor-push-prototype/internal/domain"
	models "github.com/dm0114/capacitor-push-prototype/internal/domain/models/workspace"
)

func newQueries(api queries.API) (*queries.Client, *slog.Logger) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cache := querycache.New(logger, querycache.WithDefaults(querycache.QueryOptions{
		StaleTime: querycache.DefaultStaleTime,
	}))
	return queries.New(cache, api, logger), logger
}

func ptr[T any](v T) *T { return &v }

func TestPageTree_CreateExpandsParentAndSelects(t *testing.T) {
	api := &memoryAPI{pages: []models.Page{{ID: "root", Title: "Root"}}}
	q, logger := newQueries(api)
	ui := uistate.NewPageStore()
	tree := NewPageTree(q, ui, logger)
	ctx := context.Background()

	view, err := tree.Load(ctx)
	require.NoError(t, err)
	require.Len(t, view.Tree, 1)

	page, err := tree.CreatePage(ctx, NewPage{Title: "Child", ParentID: ptr("root")})
	require.NoError(t, err)
	assert.True(t, ui.IsExpanded("root"))
	assert.Equal(t, page.ID, ui.SelectedPageID())

	view, err = tree.Load(ctx)
	require.NoError(t, err)
	require.Len(t, view.Tree[0].Children, 1, "listing refetched after create")
	assert.Equal(t, "Child", view.Tree[0].Children[0].Title)
	assert.Equal(t, 1, view.Tree[0].Children[0].Depth)
	assert.Equal(t, page.ID, view.SelectedID)
}

func TestPageTree_DatabasesAndRootPages(t *testing.T) {
	api := &memoryAPI{pages: []models.Page{
		{ID: "p1", Title: "Welcome"},
		{ID: "db", Title: "Tasks", IsDatabase: true},
	}}
	q, logger := newQueries(api)
	view, err := NewPageTree(q, uistate.NewPageStore(), logger).Load(context.Background())
	require.NoError(t, err)

	require.Len(t, view.RootPages, 1)
	assert.Equal(t, "p1", view.RootPages[0].ID)
	require.Len(t, view.Databases, 1)
	assert.Equal(t, "db", view.Databases[0].ID)
}

func TestPageTree_DeleteClearsSelection(t *testing.T) {
	api := &memoryAPI{pages: []models.Page{{ID: "a"}, {ID: "b"}}}
	q, logger := newQueries(api)
	ui := uistate.NewPageStore()
	tree := NewPageTree(q, ui, logger)
	ctx := context.Background()

	tree.Select("a")
	require.NoError(t, tree.DeletePage(ctx, "b"))
	assert.Equal(t, "a", ui.SelectedPageID())

	require.NoError(t, tree.DeletePage(ctx, "a"))
	assert.Equal(t, "", ui.SelectedPageID())

	view, err := tree.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, view.Tree)
}

func TestPageTree_Drop(t *testing.T) {
	api := &memoryAPI{pages: []models.Page{
		{ID: "a"},
		{ID: "b", ParentID: ptr("a")},
		{ID: "c"},
	}}
	q, logger := newQueries(api)
	ui := uistate.NewPageStore()
	tree := NewPageTree(q, ui, logger)
	ctx := context.Background()

	tree.BeginDrag("a")
	_, err := tree.Drop(ctx, ptr("b"))
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Equal(t, "", ui.DraggingPageID())

	tree.BeginDrag("a")
	_, err = tree.Drop(ctx, ptr("a"))
	assert.ErrorIs(t, err, domain.ErrValidation)

	tree.BeginDrag("b")
	_, err = tree.Drop(ctx, nil)
	require.NoError(t, err)

	tree.BeginDrag("c")
	_, err = tree.Drop(ctx, ptr("a"))
	require.NoError(t, err)
	assert.True(t, ui.IsExpanded("a"))

	view, err := tree.Load(ctx)
	require.NoError(t, err)
	require.Len(t, view.Tree, 2)
	assert.Equal(t, "a", view.Tree[0].ID)
	require.Len(t, view.Tree[0].Children, 1)
	assert.Equal(t, "c", view.Tree[0].Children[0].ID)
	assert.Equal(t, "b", view.Tree[1].ID)

	page, err := tree.Drop(ctx, ptr("a"))
	assert.NoError(t, err)
	assert.Nil(t, page, "no drag in progress")
}

func TestAuth_GateRedirectsWithoutUser(t *testing.T) {
	api := &memoryAPI{}
	q, logger := newQueries(api)
	auth := NewAuth(q, uistate.NewAuthStore(), logger)
	ctx := context.Background()

	decision, err := auth.Gate(ctx)
	require.NoError(t, err)
	assert.Equal(t, GateDecision{Redirect: LoginRoute}, decision)
	assert.False(t, auth.State(ctx).Authenticated)

	user, err := auth.Login(ctx, "google")
	require.NoError(t, err)

	decision, err = auth.Gate(ctx)
	require.NoError(t, err)
	assert.True(t, decision.Allow)
	assert.Equal(t, user, decision.User)

	state := auth.State(ctx)
	assert.True(t, state.Authenticated)
	assert.False(t, state.LoggingIn)

	require.NoError(t, auth.Logout(ctx))
	decision, err = auth.Gate(ctx)
	require.NoError(t, err)
	assert.Equal(t, LoginRoute, decision.Redirect)
}

func TestAuth_LoginFailureRecordsError(t *testing.T) {
	api := &memoryAPI{loginErr: &gateway.APIError{Status: 500, Message: "provider unavailable"}}
	q, logger := newQueries(api)
	ui := uistate.NewAuthStore()
	auth := NewAuth(q, ui, logger)

	_, err := auth.Login(context.Background(), "google")
	require.Error(t, err)
	assert.Equal(t, uistate.AuthState{LoginError: "provider unavailable"}, ui.Snapshot())
	assert.Equal(t, "provider unavailable", auth.State(context.Background()).Error)
}

func taskDatabase() *memoryAPI {
	return &memoryAPI{
		props: []models.Property{
			{ID: "title", Name: "Task", Type: models.PropertyTitle},
			{ID: "status", Name: "Status", Type: models.PropertySelect, Options: []models.SelectOption{
				{ID: "todo", Name: "Todo", Color: "gray"},
				{ID: "done", Name: "Done", Color: "green"},
			}},
			{ID: "due", Name: "Due", Type: models.PropertyDate},
		},
		views: []models.View{
			{ID: "v-table", Type: models.ViewTable},
			{ID: "v-board", Type: models.ViewBoard, Config: map[string]any{"groupByProperty": "status"}},
			{ID: "v-cal", Type: models.ViewCalendar, Config: map[string]any{"dateProperty": "due"}},
		},
		rows: []models.Row{
			{ID: "r1", Values: map[string]any{"title": "Write", "status": "todo", "due": "2025-01-10"}},
			{ID: "r2", Values: map[string]any{"title": "Ship", "status": "gone"}},
		},
	}
}

func TestDatabaseView_LoadsActiveView(t *testing.T) {
	q, logger := newQueries(taskDatabase())
	db := NewDatabaseView(q, "db", logger)
	ctx := context.Background()

	screen, err := db.Load(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, "v-table", screen.Active.ID)
	require.NotNil(t, screen.Table)
	assert.Len(t, screen.Table.Rows, 2)

	screen, err = db.Load(ctx, "v-board")
	require.NoError(t, err)
	require.NotNil(t, screen.Board)
	assert.Nil(t, screen.Empty)
	assert.Equal(t, views.UnassignedColumnID, screen.Board.Columns[0].ID)
	assert.Equal(t, "r2", screen.Board.Columns[0].Rows[0].ID)

	screen, err = db.Load(ctx, "v-cal")
	require.NoError(t, err)
	require.NotNil(t, screen.Calendar)
	require.Len(t, screen.Calendar.Events, 1)
	assert.Equal(t, "Write", screen.Calendar.Events[0].Title)
}

func TestDatabaseView_BoardDropAndCalendarMove(t *testing.T) {
	api := taskDatabase()
	q, logger := newQueries(api)
	db := NewDatabaseView(q, "db", logger)
	ctx := context.Background()

	screen, err := db.Load(ctx, "v-board")
	require.NoError(t, err)

	sent, err := db.DropCard(ctx, screen.Board, "r2", "column-__unassigned__")
	require.NoError(t, err)
	assert.False(t, sent)
	assert.Equal(t, 0, api.rowWrites)

	sent, err = db.DropCard(ctx, screen.Board, "r2", "column-done")
	require.NoError(t, err)
	assert.True(t, sent)

	screen, err = db.Load(ctx, "v-board")
	require.NoError(t, err)
	assert.Equal(t, "r2", screen.Board.Columns[2].Rows[0].ID, "cached rows updated in place")

	screen, err = db.Load(ctx, "v-cal")
	require.NoError(t, err)
	require.NoError(t, db.MoveEvent(ctx, screen.Calendar, "r2", time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)))

	screen, err = db.Load(ctx, "v-cal")
	require.NoError(t, err)
	assert.Len(t, screen.Calendar.Events, 2)
}

func TestDatabaseView_FailedEditRollsBack(t *testing.T) {
	api := taskDatabase()
	api.rowErr = errors.New("boom")
	q, logger := newQueries(api)
	db := NewDatabaseView(q, "db", logger)
	ctx := context.Background()

	before, err := db.Load(ctx, "v-table")
	require.NoError(t, err)

	err = db.EditCell(ctx, "r1", "title", "Rewrite")
	require.Error(t, err)

	after, err := db.Load(ctx, "v-table")
	require.NoError(t, err)
	assert.Equal(t, before.Rows, after.Rows)
	assert.Equal(t, "Write", after.Table.Rows[0].Cells["title"])
}

func TestDatabaseView_AddCardAndDelete(t *testing.T) {
	api := taskDatabase()
	q, logger := newQueries(api)
	db := NewDatabaseView(q, "db", logger)
	ctx := context.Background()

	screen, err := db.Load(ctx, "v-board")
	require.NoError(t, err)

	row, err := db.AddCard(ctx, screen.Board, "done")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"status": "done"}, row.Values)

	screen, err = db.Load(ctx, "v-board")
	require.NoError(t, err)
	assert.Len(t, screen.Rows, 3, "rows refetched after create")

	require.NoError(t, db.DeleteRow(ctx, row.ID))
	screen, err = db.Load(ctx, "v-table")
	require.NoError(t, err)
	assert.Len(t, screen.Rows, 2)
}

func TestDatabaseView_EmptyStates(t *testing.T) {
	api := &memoryAPI{views: []models.View{{ID: "b", Type: models.ViewBoard}, {ID: "c", Type: models.ViewCalendar}}}
	q, logger := newQueries(api)
	db := NewDatabaseView(q, "db", logger)

	screen, err := db.Load(context.Background(), "b")
	require.NoError(t, err)
	require.NotNil(t, screen.Empty)
	assert.Equal(t, views.ReasonNoSelectProperty, screen.Empty.Reason)

	screen, err = db.Load(context.Background(), "c")
	require.NoError(t, err)
	require.NotNil(t, screen.Empty)
	assert.Equal(t, views.ReasonNoDateProperty, screen.Empty.Reason)
}
