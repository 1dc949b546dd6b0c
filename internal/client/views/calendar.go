package views

import (
	"fmt"
	"time"

	models "github.com/dm0114/capacitor-push-prototype/internal/domain/models/workspace"
)

// DateLayout is the stored form of date property values.
const DateLayout = "2006-01-02"

// UntitledEvent labels events whose row has no title value.
const UntitledEvent = "Untitled"

// Event is a single-day calendar entry; Start and End are equal.
type Event struct {
	ID    string
	Title string
	Start time.Time
	End   time.Time
}

type Calendar struct {
	DateProperty models.Property
	Events       []Event
}

// BuildCalendar places each row with a parseable date on that day. The
// date property is datePropertyID when it resolves to a property, otherwise
// the first date property. A configured property that is not a date yields
// the empty state. Without a title property no events are built.
func BuildCalendar(props []models.Property, rows []models.Row, datePropertyID string) (*Calendar, *EmptyState) {
	date, ok := dateProperty(props, datePropertyID)
	if !ok {
		return nil, &EmptyState{
			Reason:  ReasonNoDateProperty,
			Message: "a calendar needs a date property",
		}
	}

	cal := &Calendar{DateProperty: date, Events: []Event{}}
	title, ok := TitleProperty(props)
	if !ok {
		return cal, nil
	}

	for _, r := range rows {
		raw := r.StringValue(date.ID)
		if raw == "" {
			continue
		}
		day, err := time.Parse(DateLayout, raw)
		if err != nil {
			continue
		}
		label := UntitledEvent
		if v, ok := r.Value(title.ID); ok && v != nil && fmt.Sprint(v) != "" {
			label = fmt.Sprint(v)
		}
		cal.Events = append(cal.Events, Event{ID: r.ID, Title: label, Start: day, End: day})
	}
	return cal, nil
}

func dateProperty(props []models.Property, id string) (models.Property, bool) {
	if id != "" {
		if p, ok := findProperty(props, id); ok {
			return p, p.Type == models.PropertyDate
		}
	}
	return firstOfType(props, models.PropertyDate)
}

// MoveEvent reschedules a row to day.
func (c *Calendar) MoveEvent(rowID string, day time.Time) RowUpdate {
	return RowUpdate{RowID: rowID, Values: map[string]any{c.DateProperty.ID: day.Format(DateLayout)}}
}
