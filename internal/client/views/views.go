// Package views turns a database's properties and rows into table, board
// and calendar view models, and translates user gestures on those models
// into row edits. Builders are pure; callers apply the returned edits
// through the query layer.
package views

import (
	models "github.com/dm0114/capacitor-push-prototype/internal/domain/models/workspace"
)

// EmptyReason explains why a view has nothing to render.
type EmptyReason string

const (
	ReasonNoSelectProperty EmptyReason = "no_select_property"
	ReasonNoDateProperty   EmptyReason = "no_date_property"
)

// EmptyState is returned in place of a board or calendar that cannot be
// drawn for the current schema.
type EmptyState struct {
	Reason  EmptyReason
	Message string
}

func (e *EmptyState) Error() string { return e.Message }

// RowUpdate is a partial update of one row: only keys in Values change.
type RowUpdate struct {
	RowID  string
	Values map[string]any
}

// RowCreate asks for a new row with the given initial values.
type RowCreate struct {
	Values map[string]any
}

// DefaultView is used when a database has no saved views.
var DefaultView = models.View{ID: "", Name: "Table", Type: models.ViewTable}

// SelectView picks the active view: activeID when it names one of views,
// otherwise the first view, otherwise DefaultView.
func SelectView(views []models.View, activeID string) models.View {
	if activeID != "" {
		for _, v := range views {
			if v.ID == activeID {
				return v
			}
		}
	}
	if len(views) > 0 {
		return views[0]
	}
	return DefaultView
}

// TitleProperty returns the first property of type title.
func TitleProperty(props []models.Property) (models.Property, bool) {
	return firstOfType(props, models.PropertyTitle)
}

func findProperty(props []models.Property, id string) (models.Property, bool) {
	for _, p := range props {
		if p.ID == id {
			return p, true
		}
	}
	return models.Property{}, false
}

func firstOfType(props []models.Property, t models.PropertyType) (models.Property, bool) {
	for _, p := range props {
		if p.Type == t {
			return p, true
		}
	}
	return models.Property{}, false
}

func findRow(rows []models.Row, id string) (models.Row, bool) {
	for _, r := range rows {
		if r.ID == id {
			return r, true
		}
	}
	return models.Row{}, false
}
