package views

import (
	models "github.com/dm0114/capacitor-push-prototype/internal/domain/models/workspace"
)

// ActionsColumnID is the trailing column holding per-row actions.
const ActionsColumnID = "actions"

// EditorKind is the cell editor a column uses.
type EditorKind string

const (
	EditorText   EditorKind = "text"
	EditorSelect EditorKind = "select"
	EditorDate   EditorKind = "date"
	EditorNone   EditorKind = "none"
)

type Column struct {
	ID      string
	Name    string
	Type    models.PropertyType
	Editor  EditorKind
	Options []models.SelectOption
}

type TableRow struct {
	ID    string
	Cells map[string]any
}

type Table struct {
	Columns []Column
	Rows    []TableRow
}

// BuildTable produces one column per property, in the given order, plus a
// trailing actions column, and one row per database row.
func BuildTable(props []models.Property, rows []models.Row) Table {
	cols := make([]Column, 0, len(props)+1)
	for _, p := range props {
		cols = append(cols, Column{
			ID:      p.ID,
			Name:    p.Name,
			Type:    p.Type,
			Editor:  editorFor(p),
			Options: p.Options,
		})
	}
	cols = append(cols, Column{ID: ActionsColumnID, Editor: EditorNone})

	out := make([]TableRow, 0, len(rows))
	for _, r := range rows {
		cells := make(map[string]any, len(props))
		for _, p := range props {
			if v, ok := r.Value(p.ID); ok {
				cells[p.ID] = v
			}
		}
		out = append(out, TableRow{ID: r.ID, Cells: cells})
	}
	return Table{Columns: cols, Rows: out}
}

func editorFor(p models.Property) EditorKind {
	switch {
	case p.Type == models.PropertySelect && len(p.Options) > 0:
		return EditorSelect
	case p.Type == models.PropertyDate:
		return EditorDate
	default:
		return EditorText
	}
}

// CellEdit updates a single property of a single row.
func CellEdit(rowID, propertyID string, value any) RowUpdate {
	return RowUpdate{RowID: rowID, Values: map[string]any{propertyID: value}}
}

// AppendRow creates an empty row at the end of the table.
func AppendRow() RowCreate {
	return RowCreate{Values: map[string]any{}}
}
