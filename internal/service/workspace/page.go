// Package workspace implements the reference backend's page, database and
// auth services on top of the repository interfaces.
package workspace

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/dm0114/capacitor-push-prototype/internal/client/pagetree"
	"github.com/dm0114/capacitor-push-prototype/internal/config"
	"github.com/dm0114/capacitor-push-prototype/internal/domain"
	models "github.com/dm0114/capacitor-push-prototype/internal/domain/models/workspace"
	"github.com/dm0114/capacitor-push-prototype/internal/domain/repositories"
	repos "github.com/dm0114/capacitor-push-prototype/internal/domain/repositories/workspace"
	svc "github.com/dm0114/capacitor-push-prototype/internal/domain/services/workspace"
)

// DefaultUserID owns pages created by anonymous requests.
const DefaultUserID = "1"

// pageService implements the PageService interface
type pageService struct {
	pageRepo  repos.PageRepository
	blockRepo repos.BlockRepository
	txManager repositories.TransactionManager
	logger    *slog.Logger
	now       func() time.Time
}

// NewPageService creates a new page service
func NewPageService(
	pageRepo repos.PageRepository,
	blockRepo repos.BlockRepository,
	txManager repositories.TransactionManager,
	logger *slog.Logger,
) svc.PageService {
	return &pageService{
		pageRepo:  pageRepo,
		blockRepo: blockRepo,
		txManager: txManager,
		logger:    logger,
		now:       time.Now,
	}
}

func (s *pageService) ListPages(ctx context.Context, filter models.PageFilter) ([]models.Page, error) {
	filter.IncludeArchived = false
	return s.pageRepo.List(ctx, filter)
}

func (s *pageService) GetPage(ctx context.Context, id string) (*models.Page, error) {
	return s.pageRepo.GetByID(ctx, id)
}

// CreatePage positions the page one past the highest sibling position.
// Archived siblings count, so positions are never reused.
func (s *pageService) CreatePage(ctx context.Context, req *svc.CreatePageRequest) (*models.Page, error) {
	if err := validateCreatePage(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	userID := req.UserID
	if userID == "" {
		userID = DefaultUserID
	}

	now := s.now().UTC()
	page := &models.Page{
		UserID:     userID,
		ParentID:   req.ParentID,
		DatabaseID: req.DatabaseID,
		Title:      strings.TrimSpace(deref(req.Title)),
		Icon:       req.Icon,
		IsDatabase: req.IsDatabase != nil && *req.IsDatabase,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	err := s.txManager.ExecTx(ctx, func(ctx context.Context) error {
		siblings, err := s.pageRepo.List(ctx, models.PageFilter{
			Parent:          models.OptionalParent{Present: true, Value: req.ParentID},
			IncludeArchived: true,
		})
		if err != nil {
			return err
		}
		page.Position = nextPosition(siblings)
		return s.pageRepo.Create(ctx, page)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("page created",
		"id", page.ID,
		"parent_id", deref(page.ParentID),
		"position", page.Position,
		"is_database", page.IsDatabase,
	)
	return page, nil
}

// nextPosition treats unparseable positions as 0.
func nextPosition(siblings []models.Page) string {
	highest := 0.0
	for _, p := range siblings {
		if v, err := strconv.ParseFloat(p.Position, 64); err == nil && v > highest {
			highest = v
		}
	}
	return strconv.FormatFloat(highest+1, 'f', -1, 64)
}

func (s *pageService) UpdatePage(ctx context.Context, id string, req *svc.UpdatePageRequest) (*models.Page, error) {
	if err := validateUpdatePage(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	var page *models.Page
	err := s.txManager.ExecTx(ctx, func(ctx context.Context) error {
		var err error
		if page, err = s.pageRepo.GetByID(ctx, id); err != nil {
			return err
		}

		if req.Parent.Present {
			if err := s.checkParent(ctx, id, req.Parent.Value); err != nil {
				return err
			}
			page.ParentID = req.Parent.Value
		}
		if req.Title != nil {
			page.Title = strings.TrimSpace(*req.Title)
		}
		if req.Icon != nil {
			page.Icon = req.Icon
		}
		if req.CoverImage != nil {
			page.CoverImage = req.CoverImage
		}
		if req.Archived != nil {
			page.Archived = *req.Archived
		}
		if req.Position != nil {
			page.Position = *req.Position
		}
		page.UpdatedAt = s.now().UTC()

		return s.pageRepo.Update(ctx, page)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("page updated", "id", id)
	return page, nil
}

// checkParent rejects moves that would make a page its own ancestor.
func (s *pageService) checkParent(ctx context.Context, id string, parentID *string) error {
	seen := map[string]bool{}
	for cur := parentID; cur != nil; {
		if *cur == id {
			return fmt.Errorf("%w: page cannot be moved under itself or a descendant", domain.ErrValidation)
		}
		if seen[*cur] {
			return nil
		}
		seen[*cur] = true

		parent, err := s.pageRepo.GetByID(ctx, *cur)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return fmt.Errorf("%w: parent page %s does not exist", domain.ErrValidation, *cur)
			}
			return err
		}
		cur = parent.ParentID
	}
	return nil
}

// DeletePage archives the page only; children keep their parent id.
func (s *pageService) DeletePage(ctx context.Context, id string) error {
	err := s.txManager.ExecTx(ctx, func(ctx context.Context) error {
		page, err := s.pageRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		page.Archived = true
		page.UpdatedAt = s.now().UTC()
		return s.pageRepo.Update(ctx, page)
	})
	if err != nil {
		return err
	}

	s.logger.Info("page archived", "id", id)
	return nil
}

func (s *pageService) GetPageTree(ctx context.Context) ([]models.PageTreeNode, error) {
	pages, err := s.ListPages(ctx, models.PageFilter{})
	if err != nil {
		return nil, err
	}
	return pagetree.Build(pages), nil
}

// GetBlocks returns an empty document for pages that never saved one.
func (s *pageService) GetBlocks(ctx context.Context, pageID string) (models.Blocks, error) {
	return s.blockRepo.Get(ctx, pageID)
}

func (s *pageService) SaveBlocks(ctx context.Context, pageID string, blocks models.Blocks) error {
	if len(blocks) > config.MaxBlocksPerPage {
		return &domain.ValidationError{
			Message: fmt.Sprintf("a page holds at most %d blocks", config.MaxBlocksPerPage),
		}
	}
	if _, err := s.pageRepo.GetByID(ctx, pageID); err != nil {
		return err
	}
	if err := s.blockRepo.Replace(ctx, pageID, blocks); err != nil {
		return err
	}

	s.logger.Debug("blocks saved", "page_id", pageID, "count", len(blocks))
	return nil
}

func validateCreatePage(req *svc.CreatePageRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.Title, validation.Length(0, config.MaxPageTitleLength)),
		validation.Field(&req.ParentID, validation.NilOrNotEmpty),
		validation.Field(&req.DatabaseID, validation.NilOrNotEmpty),
	)
}

func validateUpdatePage(req *svc.UpdatePageRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.Title, validation.Length(0, config.MaxPageTitleLength)),
		validation.Field(&req.Position, validation.NilOrNotEmpty),
	)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
