package views

import (
	"strings"

	models "github.com/dm0114/capacitor-push-prototype/internal/domain/models/workspace"
)

// Unassigned column identity.
const (
	UnassignedColumnID    = "__unassigned__"
	UnassignedColumnName  = "No Status"
	UnassignedColumnColor = "gray"

	// ColumnDropPrefix prefixes a column id when it is a drop target.
	ColumnDropPrefix = "column-"
)

type BoardColumn struct {
	ID    string
	Name  string
	Color string
	Rows  []models.Row
}

// DropID is the drop-target id of the column.
func (c BoardColumn) DropID() string { return ColumnDropPrefix + c.ID }

// Board groups rows by a select property. The unassigned column is always
// Columns[0]; option columns follow in option order.
type Board struct {
	GroupBy models.Property
	Columns []BoardColumn
}

// BuildBoard groups rows into columns by groupByPropertyID, or by the first
// select property that has options when no id is configured or the id is
// unknown. A row whose value is absent or names no current option lands in
// the unassigned column.
func BuildBoard(props []models.Property, rows []models.Row, groupByPropertyID string) (*Board, *EmptyState) {
	group, ok := groupingProperty(props, groupByPropertyID)
	if !ok {
		return nil, &EmptyState{
			Reason:  ReasonNoSelectProperty,
			Message: "a board needs a select property with options",
		}
	}

	cols := make([]BoardColumn, 0, len(group.Options)+1)
	cols = append(cols, BoardColumn{ID: UnassignedColumnID, Name: UnassignedColumnName, Color: UnassignedColumnColor, Rows: []models.Row{}})
	index := make(map[string]int, len(group.Options))
	for _, opt := range group.Options {
		index[opt.ID] = len(cols)
		cols = append(cols, BoardColumn{ID: opt.ID, Name: opt.Name, Color: opt.Color, Rows: []models.Row{}})
	}

	for _, r := range rows {
		i, ok := index[r.StringValue(group.ID)]
		if !ok {
			i = 0
		}
		cols[i].Rows = append(cols[i].Rows, r)
	}
	return &Board{GroupBy: group, Columns: cols}, nil
}

func groupingProperty(props []models.Property, id string) (models.Property, bool) {
	if id != "" {
		if p, ok := findProperty(props, id); ok {
			return p, p.Type == models.PropertySelect && len(p.Options) > 0
		}
	}
	for _, p := range props {
		if p.Type == models.PropertySelect && len(p.Options) > 0 {
			return p, true
		}
	}
	return models.Property{}, false
}

// ColumnOf returns the id of the column holding rowID.
func (b *Board) ColumnOf(rowID string) (string, bool) {
	for _, c := range b.Columns {
		for _, r := range c.Rows {
			if r.ID == rowID {
				return c.ID, true
			}
		}
	}
	return "", false
}

// Drop resolves dropping card rowID onto overID, which is either a column
// drop id or another card's id. It reports false when nothing should change:
// an unknown card or target, the unassigned column, or the row's current
// value.
func (b *Board) Drop(rowID, overID string) (RowUpdate, bool) {
	row, ok := b.row(rowID)
	if !ok || overID == "" {
		return RowUpdate{}, false
	}

	var target string
	if strings.HasPrefix(overID, ColumnDropPrefix) {
		target = strings.TrimPrefix(overID, ColumnDropPrefix)
	} else if target, ok = b.ColumnOf(overID); !ok {
		return RowUpdate{}, false
	}

	if target == UnassignedColumnID || !b.GroupBy.HasOption(target) {
		return RowUpdate{}, false
	}
	if row.StringValue(b.GroupBy.ID) == target {
		return RowUpdate{}, false
	}
	return RowUpdate{RowID: rowID, Values: map[string]any{b.GroupBy.ID: target}}, true
}

// AddCard creates a row pre-assigned to columnID. Cards added to the
// unassigned column start with no values.
func (b *Board) AddCard(columnID string) RowCreate {
	if columnID == UnassignedColumnID || !b.GroupBy.HasOption(columnID) {
		return RowCreate{Values: map[string]any{}}
	}
	return RowCreate{Values: map[string]any{b.GroupBy.ID: columnID}}
}

func (b *Board) row(id string) (models.Row, bool) {
	for _, c := range b.Columns {
		if r, ok := findRow(c.Rows, id); ok {
			return r, true
		}
	}
	return models.Row{}, false
}
