package feature

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dm0114/capacitor-push-prototype/internal/client/queries"
	"github.com/dm0114/capacitor-push-prototype/internal/client/views"
	models "github.com/dm0114/capacitor-push-prototype/internal/domain/models/workspace"
	svc "github.com/dm0114/capacitor-push-prototype/internal/domain/services/workspace"
)

// DatabaseView composes one database's views, properties and rows into the
// active view model and applies edits made on it.
type DatabaseView struct {
	queries    *queries.Client
	databaseID string
	logger     *slog.Logger
}

func NewDatabaseView(q *queries.Client, databaseID string, logger *slog.Logger) *DatabaseView {
	return &DatabaseView{queries: q, databaseID: databaseID, logger: logger.With("database_id", databaseID)}
}

// Screen is the computed state of a database page. Exactly one of Table,
// Board, Calendar or Empty is set.
type Screen struct {
	Views      []models.View
	Active     models.View
	Properties []models.Property
	Rows       []models.Row

	Table    *views.Table
	Board    *views.Board
	Calendar *views.Calendar
	Empty    *views.EmptyState
}

// Load reads the three listings in parallel and builds the active view.
// Gallery and list views render as a table.
func (d *DatabaseView) Load(ctx context.Context, activeViewID string) (*Screen, error) {
	var s Screen
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		s.Views, err = d.queries.Views(gctx, d.databaseID)
		return err
	})
	g.Go(func() (err error) {
		s.Properties, err = d.queries.Properties(gctx, d.databaseID)
		return err
	})
	g.Go(func() (err error) {
		s.Rows, err = d.queries.Rows(gctx, d.databaseID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("load database %s: %w", d.databaseID, err)
	}

	s.Active = views.SelectView(s.Views, activeViewID)
	switch s.Active.Type {
	case models.ViewBoard:
		s.Board, s.Empty = views.BuildBoard(s.Properties, s.Rows, s.Active.GroupByProperty())
	case models.ViewCalendar:
		s.Calendar, s.Empty = views.BuildCalendar(s.Properties, s.Rows, s.Active.DateProperty())
	default:
		t := views.BuildTable(s.Properties, s.Rows)
		s.Table = &t
	}
	return &s, nil
}

// Apply sends a row edit produced by a view model.
func (d *DatabaseView) Apply(ctx context.Context, u views.RowUpdate) error {
	return d.queries.UpdateRow(ctx, d.databaseID, u.RowID, u.Values)
}

// Create sends a row creation produced by a view model.
func (d *DatabaseView) Create(ctx context.Context, c views.RowCreate) (*models.Row, error) {
	return d.queries.CreateRow(ctx, d.databaseID, &svc.CreateRowRequest{Values: c.Values})
}

func (d *DatabaseView) EditCell(ctx context.Context, rowID, propertyID string, value any) error {
	return d.Apply(ctx, views.CellEdit(rowID, propertyID, value))
}

func (d *DatabaseView) AppendRow(ctx context.Context) (*models.Row, error) {
	return d.Create(ctx, views.AppendRow())
}

func (d *DatabaseView) DeleteRow(ctx context.Context, rowID string) error {
	return d.queries.DeleteRow(ctx, d.databaseID, rowID)
}

// DropCard applies a board drag-end. It reports whether an update was sent.
func (d *DatabaseView) DropCard(ctx context.Context, board *views.Board, rowID, overID string) (bool, error) {
	u, ok := board.Drop(rowID, overID)
	if !ok {
		d.logger.Debug("card drop ignored", "row_id", rowID, "over_id", overID)
		return false, nil
	}
	return true, d.Apply(ctx, u)
}

func (d *DatabaseView) AddCard(ctx context.Context, board *views.Board, columnID string) (*models.Row, error) {
	return d.Create(ctx, board.AddCard(columnID))
}

func (d *DatabaseView) MoveEvent(ctx context.Context, cal *views.Calendar, rowID string, day time.Time) error {
	return d.Apply(ctx, cal.MoveEvent(rowID, day))
}

// AddView creates a view of the given type named after it.
func (d *DatabaseView) AddView(ctx context.Context, name string, typ models.ViewType, config map[string]any) (*models.View, error) {
	return d.queries.CreateView(ctx, d.databaseID, &svc.CreateViewRequest{Name: &name, Type: &typ, Config: config})
}

func (d *DatabaseView) AddProperty(ctx context.Context, name string, typ models.PropertyType, options []models.SelectOption) (*models.Property, error) {
	return d.queries.CreateProperty(ctx, d.databaseID, &svc.CreatePropertyRequest{Name: &name, Type: &typ, Options: options})
}
