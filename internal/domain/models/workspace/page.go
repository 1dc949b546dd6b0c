package workspace

import "time"

// Page is a node of the workspace hierarchy. A page with IsDatabase set acts
// as a database container; Archived pages are soft-deleted.
type Page struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	ParentID   *string   `json:"parent_id"`
	DatabaseID *string   `json:"database_id"`
	Title      string    `json:"title"`
	Icon       *string   `json:"icon,omitempty"`
	CoverImage *string   `json:"cover_image,omitempty"`
	IsDatabase bool      `json:"is_database"`
	Archived   bool      `json:"archived"`
	Position   string    `json:"position"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// IsRoot reports whether the page sits at the top of the hierarchy.
func (p *Page) IsRoot() bool {
	return p.ParentID == nil
}

// OptionalParent carries tri-state parent semantics.
// Transport-agnostic; handlers map it from httputil.OptionalString.
//   - Present=false: no constraint / don't change
//   - Present=true, Value=nil: root level
//   - Present=true, Value=&id: under that parent
type OptionalParent struct {
	Present bool
	Value   *string
}

// PageFilter narrows a page listing.
type PageFilter struct {
	Parent          OptionalParent
	DatabaseID      string
	IncludeArchived bool
}

// Matches reports whether the page passes the filter.
func (f PageFilter) Matches(p *Page) bool {
	if p.Archived && !f.IncludeArchived {
		return false
	}
	if f.Parent.Present {
		switch {
		case f.Parent.Value == nil && p.ParentID != nil:
			return false
		case f.Parent.Value != nil && (p.ParentID == nil || *p.ParentID != *f.Parent.Value):
			return false
		}
	}
	if f.DatabaseID != "" && (p.DatabaseID == nil || *p.DatabaseID != f.DatabaseID) {
		return false
	}
	return true
}
