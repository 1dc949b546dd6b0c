package memory

import (
	"context"
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/dm0114/capacitor-push-prototype/internal/domain"
	models "github.com/dm0114/capacitor-push-prototype/internal/domain/models/workspace"
	repos "github.com/dm0114/capacitor-push-prototype/internal/domain/repositories/workspace"
)

type PageRepository struct {
	store *Store
}

func NewPageRepository(store *Store) repos.PageRepository {
	return &PageRepository{store: store}
}

func (r *PageRepository) Create(ctx context.Context, page *models.Page) error {
	if page.ID == "" {
		page.ID = uuid.NewString()
	}
	return r.store.write(func(s *state) error {
		for _, p := range s.pages {
			if p.ID == page.ID {
				return &domain.ConflictError{Message: "page already exists", ResourceType: "page", ResourceID: page.ID}
			}
		}
		s.pages = append(s.pages, *page)
		return nil
	})
}

func (r *PageRepository) GetByID(ctx context.Context, id string) (*models.Page, error) {
	var (
		page  models.Page
		found bool
	)
	r.store.read(func(s *state) {
		for _, p := range s.pages {
			if p.ID == id {
				page, found = p, true
				return
			}
		}
	})
	if !found {
		return nil, domain.NewNotFound("page", id)
	}
	return &page, nil
}

// List keeps insertion order among equal positions.
func (r *PageRepository) List(ctx context.Context, filter models.PageFilter) ([]models.Page, error) {
	out := []models.Page{}
	r.store.read(func(s *state) {
		for i := range s.pages {
			if filter.Matches(&s.pages[i]) {
				out = append(out, s.pages[i])
			}
		}
	})
	slices.SortStableFunc(out, func(a, b models.Page) int {
		return strings.Compare(a.Position, b.Position)
	})
	return out, nil
}

func (r *PageRepository) Update(ctx context.Context, page *models.Page) error {
	return r.store.write(func(s *state) error {
		for i := range s.pages {
			if s.pages[i].ID == page.ID {
				s.pages[i] = *page
				return nil
			}
		}
		return domain.NewNotFound("page", page.ID)
	})
}

type BlockRepository struct {
	store *Store
}

func NewBlockRepository(store *Store) repos.BlockRepository {
	return &BlockRepository{store: store}
}

func (r *BlockRepository) Get(ctx context.Context, pageID string) (models.Blocks, error) {
	var blocks models.Blocks
	r.store.read(func(s *state) {
		blocks = slices.Clone(s.blocks[pageID])
	})
	return blocks.Normalize(), nil
}

func (r *BlockRepository) Replace(ctx context.Context, pageID string, blocks models.Blocks) error {
	return r.store.write(func(s *state) error {
		s.blocks[pageID] = slices.Clone(blocks).Normalize()
		return nil
	})
}
