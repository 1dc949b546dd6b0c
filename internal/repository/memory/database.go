package memory

import (
	"context"

	"github.com/google/uuid"

	"github.com/dm0114/capacitor-push-prototype/internal/domain"
	models "github.com/dm0114/capacitor-push-prototype/internal/domain/models/workspace"
	repos "github.com/dm0114/capacitor-push-prototype/internal/domain/repositories/workspace"
)

type PropertyRepository struct {
	store *Store
}

func NewPropertyRepository(store *Store) repos.PropertyRepository {
	return &PropertyRepository{store: store}
}

func (r *PropertyRepository) ListByDatabase(ctx context.Context, databaseID string) ([]models.Property, error) {
	out := []models.Property{}
	r.store.read(func(s *state) {
		for _, p := range s.props {
			if p.DatabaseID == databaseID {
				out = append(out, cloneProperty(p))
			}
		}
	})
	return out, nil
}

func (r *PropertyRepository) GetByID(ctx context.Context, id string) (*models.Property, error) {
	var (
		prop  models.Property
		found bool
	)
	r.store.read(func(s *state) {
		for _, p := range s.props {
			if p.ID == id {
				prop, found = cloneProperty(p), true
				return
			}
		}
	})
	if !found {
		return nil, domain.NewNotFound("property", id)
	}
	return &prop, nil
}

func (r *PropertyRepository) Create(ctx context.Context, prop *models.Property) error {
	if prop.ID == "" {
		prop.ID = uuid.NewString()
	}
	return r.store.write(func(s *state) error {
		for _, p := range s.props {
			if p.ID == prop.ID {
				return &domain.ConflictError{Message: "property already exists", ResourceType: "property", ResourceID: prop.ID}
			}
		}
		s.props = append(s.props, cloneProperty(*prop))
		return nil
	})
}

func (r *PropertyRepository) Update(ctx context.Context, prop *models.Property) error {
	return r.store.write(func(s *state) error {
		for i := range s.props {
			if s.props[i].ID == prop.ID {
				s.props[i] = cloneProperty(*prop)
				return nil
			}
		}
		return domain.NewNotFound("property", prop.ID)
	})
}

func (r *PropertyRepository) Count(ctx context.Context) (int, error) {
	var n int
	r.store.read(func(s *state) { n = len(s.props) })
	return n, nil
}

type RowRepository struct {
	store *Store
}

func NewRowRepository(store *Store) repos.RowRepository {
	return &RowRepository{store: store}
}

func (r *RowRepository) ListByDatabase(ctx context.Context, databaseID string) ([]models.Row, error) {
	out := []models.Row{}
	r.store.read(func(s *state) {
		for _, row := range s.rows {
			if row.DatabaseID == databaseID {
				out = append(out, row.Clone())
			}
		}
	})
	return out, nil
}

func (r *RowRepository) GetByID(ctx context.Context, id string) (*models.Row, error) {
	var (
		row   models.Row
		found bool
	)
	r.store.read(func(s *state) {
		for _, rw := range s.rows {
			if rw.ID == id {
				row, found = rw.Clone(), true
				return
			}
		}
	})
	if !found {
		return nil, domain.NewNotFound("row", id)
	}
	return &row, nil
}

func (r *RowRepository) Create(ctx context.Context, row *models.Row) error {
	if row.ID == "" {
		row.ID = uuid.NewString()
	}
	return r.store.write(func(s *state) error {
		for _, rw := range s.rows {
			if rw.ID == row.ID {
				return &domain.ConflictError{Message: "row already exists", ResourceType: "row", ResourceID: row.ID}
			}
		}
		s.rows = append(s.rows, row.Clone())
		return nil
	})
}

func (r *RowRepository) MergeValues(ctx context.Context, id string, values map[string]any) (*models.Row, error) {
	var merged models.Row
	err := r.store.write(func(s *state) error {
		for i := range s.rows {
			if s.rows[i].ID != id {
				continue
			}
			next := s.rows[i].Clone()
			for k, v := range values {
				next.Values[k] = v
			}
			s.rows[i] = next
			merged = next.Clone()
			return nil
		}
		return domain.NewNotFound("row", id)
	})
	if err != nil {
		return nil, err
	}
	return &merged, nil
}

func (r *RowRepository) Delete(ctx context.Context, id string) error {
	return r.store.write(func(s *state) error {
		for i := range s.rows {
			if s.rows[i].ID == id {
				s.rows = append(s.rows[:i], s.rows[i+1:]...)
				return nil
			}
		}
		return domain.NewNotFound("row", id)
	})
}

type ViewRepository struct {
	store *Store
}

func NewViewRepository(store *Store) repos.ViewRepository {
	return &ViewRepository{store: store}
}

func (r *ViewRepository) ListByDatabase(ctx context.Context, databaseID string) ([]models.View, error) {
	out := []models.View{}
	r.store.read(func(s *state) {
		for _, v := range s.views {
			if v.DatabaseID == databaseID {
				out = append(out, cloneView(v))
			}
		}
	})
	return out, nil
}

func (r *ViewRepository) GetByID(ctx context.Context, id string) (*models.View, error) {
	var (
		view  models.View
		found bool
	)
	r.store.read(func(s *state) {
		for _, v := range s.views {
			if v.ID == id {
				view, found = cloneView(v), true
				return
			}
		}
	})
	if !found {
		return nil, domain.NewNotFound("view", id)
	}
	return &view, nil
}

func (r *ViewRepository) Create(ctx context.Context, view *models.View) error {
	if view.ID == "" {
		view.ID = uuid.NewString()
	}
	return r.store.write(func(s *state) error {
		for _, v := range s.views {
			if v.ID == view.ID {
				return &domain.ConflictError{Message: "view already exists", ResourceType: "view", ResourceID: view.ID}
			}
		}
		s.views = append(s.views, cloneView(*view))
		return nil
	})
}

func (r *ViewRepository) Update(ctx context.Context, view *models.View) error {
	return r.store.write(func(s *state) error {
		for i := range s.views {
			if s.views[i].ID == view.ID {
				s.views[i] = cloneView(*view)
				return nil
			}
		}
		return domain.NewNotFound("view", view.ID)
	})
}

func (r *ViewRepository) Count(ctx context.Context) (int, error) {
	var n int
	r.store.read(func(s *state) { n = len(s.views) })
	return n, nil
}
