package workspace

import "time"

// PropertyType is the data type of a database column.
type PropertyType string

const (
	PropertyTitle       PropertyType = "title"
	PropertyText        PropertyType = "text"
	PropertyNumber      PropertyType = "number"
	PropertySelect      PropertyType = "select"
	PropertyMultiSelect PropertyType = "multi_select"
	PropertyDate        PropertyType = "date"
	PropertyCheckbox    PropertyType = "checkbox"
	PropertyURL         PropertyType = "url"
	PropertyEmail       PropertyType = "email"
	PropertyRelation    PropertyType = "relation"
)

// ValidPropertyTypes lists every accepted PropertyType.
var ValidPropertyTypes = []interface{}{
	PropertyTitle, PropertyText, PropertyNumber, PropertySelect, PropertyMultiSelect,
	PropertyDate, PropertyCheckbox, PropertyURL, PropertyEmail, PropertyRelation,
}

// SelectOption is one choice of a select or multi_select property.
type SelectOption struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

// Property is a typed column of a database.
type Property struct {
	ID         string         `json:"id"`
	DatabaseID string         `json:"database_id"`
	Name       string         `json:"name"`
	Type       PropertyType   `json:"type"`
	Config     map[string]any `json:"config"`
	Position   string         `json:"position"`
	Options    []SelectOption `json:"options,omitempty"`
}

// HasOption reports whether id names one of the property's options.
func (p *Property) HasOption(id string) bool {
	for _, o := range p.Options {
		if o.ID == id {
			return true
		}
	}
	return false
}

// ViewType selects how a database is rendered.
type ViewType string

const (
	ViewTable    ViewType = "table"
	ViewBoard    ViewType = "board"
	ViewCalendar ViewType = "calendar"
	ViewGallery  ViewType = "gallery"
	ViewList     ViewType = "list"
)

// ValidViewTypes lists every accepted ViewType.
var ValidViewTypes = []interface{}{ViewTable, ViewBoard, ViewCalendar, ViewGallery, ViewList}

// View configuration keys.
const (
	ConfigGroupByProperty   = "groupByProperty"
	ConfigDateProperty      = "dateProperty"
	ConfigVisibleProperties = "visibleProperties"
)

// View is a saved presentation of a database.
type View struct {
	ID         string         `json:"id"`
	DatabaseID string         `json:"database_id"`
	Name       string         `json:"name"`
	Type       ViewType       `json:"type"`
	Config     map[string]any `json:"config"`
	Position   string         `json:"position"`
	CreatedAt  time.Time      `json:"created_at"`
}

// GroupByProperty returns the configured board grouping property id, if any.
func (v *View) GroupByProperty() string {
	return configString(v.Config, ConfigGroupByProperty)
}

// DateProperty returns the configured calendar date property id, if any.
func (v *View) DateProperty() string {
	return configString(v.Config, ConfigDateProperty)
}

// VisibleProperties returns the configured table column ids, if any.
func (v *View) VisibleProperties() []string {
	raw, ok := v.Config[ConfigVisibleProperties].([]any)
	if !ok {
		if ids, ok := v.Config[ConfigVisibleProperties].([]string); ok {
			return ids
		}
		return nil
	}
	ids := make([]string, 0, len(raw))
	for _, r := range raw {
		if s, ok := r.(string); ok {
			ids = append(ids, s)
		}
	}
	return ids
}

func configString(cfg map[string]any, key string) string {
	if cfg == nil {
		return ""
	}
	s, _ := cfg[key].(string)
	return s
}

// Row is a database entry. Values maps property id to the stored value;
// an absent key means the property is unset for this row.
type Row struct {
	ID         string         `json:"id"`
	DatabaseID string         `json:"database_id"`
	Title      string         `json:"title"`
	Values     map[string]any `json:"values"`
}

// Value returns the row's value for a property.
func (r *Row) Value(propertyID string) (any, bool) {
	if r.Values == nil {
		return nil, false
	}
	v, ok := r.Values[propertyID]
	return v, ok
}

// StringValue returns the value for a property when it is a string.
func (r *Row) StringValue(propertyID string) string {
	v, _ := r.Value(propertyID)
	s, _ := v.(string)
	return s
}

// Clone returns a copy whose Values map can be mutated independently.
func (r Row) Clone() Row {
	values := make(map[string]any, len(r.Values))
	for k, v := range r.Values {
		values[k] = v
	}
	r.Values = values
	return r
}
