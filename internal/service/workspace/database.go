package workspace

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/dm0114/capacitor-push-prototype/internal/config"
	"github.com/dm0114/capacitor-push-prototype/internal/domain"
	models "github.com/dm0114/capacitor-push-prototype/internal/domain/models/workspace"
	"github.com/dm0114/capacitor-push-prototype/internal/domain/repositories"
	repos "github.com/dm0114/capacitor-push-prototype/internal/domain/repositories/workspace"
	svc "github.com/dm0114/capacitor-push-prototype/internal/domain/services/workspace"
)

// Names given to columns and views created without one.
const (
	DefaultPropertyName = "New Property"
	DefaultViewName     = "New View"
)

// databaseService implements the DatabaseService interface
type databaseService struct {
	propRepo  repos.PropertyRepository
	rowRepo   repos.RowRepository
	viewRepo  repos.ViewRepository
	txManager repositories.TransactionManager
	logger    *slog.Logger
	now       func() time.Time
}

// NewDatabaseService creates a new database service
func NewDatabaseService(
	propRepo repos.PropertyRepository,
	rowRepo repos.RowRepository,
	viewRepo repos.ViewRepository,
	txManager repositories.TransactionManager,
	logger *slog.Logger,
) svc.DatabaseService {
	return &databaseService{
		propRepo:  propRepo,
		rowRepo:   rowRepo,
		viewRepo:  viewRepo,
		txManager: txManager,
		logger:    logger,
		now:       time.Now,
	}
}

func (s *databaseService) ListProperties(ctx context.Context, databaseID string) ([]models.Property, error) {
	return s.propRepo.ListByDatabase(ctx, databaseID)
}

// CreateProperty numbers positions across all databases, so a new column
// always sorts after every existing one.
func (s *databaseService) CreateProperty(ctx context.Context, databaseID string, req *svc.CreatePropertyRequest) (*models.Property, error) {
	if err := validateCreateProperty(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	prop := &models.Property{
		DatabaseID: databaseID,
		Name:       DefaultPropertyName,
		Type:       models.PropertyText,
		Config:     nonNil(req.Config),
		Options:    req.Options,
	}
	if req.Name != nil {
		prop.Name = strings.TrimSpace(*req.Name)
	}
	if req.Type != nil {
		prop.Type = *req.Type
	}

	err := s.txManager.ExecTx(ctx, func(ctx context.Context) error {
		n, err := s.propRepo.Count(ctx)
		if err != nil {
			return err
		}
		prop.Position = strconv.Itoa(n + 1)
		return s.propRepo.Create(ctx, prop)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("property created",
		"id", prop.ID,
		"database_id", databaseID,
		"type", prop.Type,
	)
	return prop, nil
}

func (s *databaseService) UpdateProperty(ctx context.Context, id string, req *svc.UpdatePropertyRequest) (*models.Property, error) {
	if err := validateUpdateProperty(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	prop, err := s.propRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		prop.Name = strings.TrimSpace(*req.Name)
	}
	if req.Type != nil {
		prop.Type = *req.Type
	}
	if req.Config != nil {
		prop.Config = req.Config
	}
	if req.Position != nil {
		prop.Position = *req.Position
	}
	if req.Options != nil {
		prop.Options = *req.Options
	}

	if err := s.propRepo.Update(ctx, prop); err != nil {
		return nil, err
	}

	s.logger.Info("property updated", "id", id)
	return prop, nil
}

func (s *databaseService) ListRows(ctx context.Context, databaseID string) ([]models.Row, error) {
	return s.rowRepo.ListByDatabase(ctx, databaseID)
}

func (s *databaseService) CreateRow(ctx context.Context, databaseID string, req *svc.CreateRowRequest) (*models.Row, error) {
	row := &models.Row{
		DatabaseID: databaseID,
		Title:      deref(req.Title),
		Values:     nonNil(req.Values),
	}
	if err := s.rowRepo.Create(ctx, row); err != nil {
		return nil, err
	}

	s.logger.Info("row created", "id", row.ID, "database_id", databaseID)
	return row, nil
}

func (s *databaseService) UpdateRow(ctx context.Context, id string, req *svc.UpdateRowRequest) (*models.Row, error) {
	row, err := s.rowRepo.MergeValues(ctx, id, req.Values)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("row values merged", "id", id, "fields", len(req.Values))
	return row, nil
}

func (s *databaseService) DeleteRow(ctx context.Context, id string) error {
	if err := s.rowRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("row deleted", "id", id)
	return nil
}

func (s *databaseService) ListViews(ctx context.Context, databaseID string) ([]models.View, error) {
	return s.viewRepo.ListByDatabase(ctx, databaseID)
}

func (s *databaseService) CreateView(ctx context.Context, databaseID string, req *svc.CreateViewRequest) (*models.View, error) {
	if err := validateCreateView(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	view := &models.View{
		DatabaseID: databaseID,
		Name:       DefaultViewName,
		Type:       models.ViewTable,
		Config:     nonNil(req.Config),
		CreatedAt:  s.now().UTC(),
	}
	if req.Name != nil {
		view.Name = strings.TrimSpace(*req.Name)
	}
	if req.Type != nil {
		view.Type = *req.Type
	}

	err := s.txManager.ExecTx(ctx, func(ctx context.Context) error {
		n, err := s.viewRepo.Count(ctx)
		if err != nil {
			return err
		}
		view.Position = strconv.Itoa(n + 1)
		return s.viewRepo.Create(ctx, view)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("view created",
		"id", view.ID,
		"database_id", databaseID,
		"type", view.Type,
	)
	return view, nil
}

func (s *databaseService) UpdateView(ctx context.Context, id string, req *svc.UpdateViewRequest) (*models.View, error) {
	if err := validateUpdateView(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	view, err := s.viewRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		view.Name = strings.TrimSpace(*req.Name)
	}
	if req.Type != nil {
		view.Type = *req.Type
	}
	if req.Config != nil {
		view.Config = req.Config
	}
	if req.Position != nil {
		view.Position = *req.Position
	}

	if err := s.viewRepo.Update(ctx, view); err != nil {
		return nil, err
	}

	s.logger.Info("view updated", "id", id)
	return view, nil
}

func validateCreateProperty(req *svc.CreatePropertyRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.Name, validation.NilOrNotEmpty, validation.Length(1, config.MaxPropertyNameLength)),
		validation.Field(&req.Type, validation.In(models.ValidPropertyTypes...)),
		validation.Field(&req.Options, validation.Length(0, config.MaxSelectOptions), validation.By(uniqueOptions)),
	)
}

func validateUpdateProperty(req *svc.UpdatePropertyRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.Name, validation.NilOrNotEmpty, validation.Length(1, config.MaxPropertyNameLength)),
		validation.Field(&req.Type, validation.In(models.ValidPropertyTypes...)),
		validation.Field(&req.Position, validation.NilOrNotEmpty),
		validation.Field(&req.Options, validation.Length(0, config.MaxSelectOptions), validation.By(uniqueOptions)),
	)
}

func validateCreateView(req *svc.CreateViewRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.Name, validation.NilOrNotEmpty, validation.Length(1, config.MaxViewNameLength)),
		validation.Field(&req.Type, validation.In(models.ValidViewTypes...)),
	)
}

func validateUpdateView(req *svc.UpdateViewRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.Name, validation.NilOrNotEmpty, validation.Length(1, config.MaxViewNameLength)),
		validation.Field(&req.Type, validation.In(models.ValidViewTypes...)),
		validation.Field(&req.Position, validation.NilOrNotEmpty),
	)
}

// uniqueOptions requires every select option to carry a distinct id.
func uniqueOptions(value interface{}) error {
	var options []models.SelectOption
	switch v := value.(type) {
	case []models.SelectOption:
		options = v
	case *[]models.SelectOption:
		if v != nil {
			options = *v
		}
	}

	seen := make(map[string]bool, len(options))
	for _, o := range options {
		if o.ID == "" {
			return fmt.Errorf("option %q has no id", o.Name)
		}
		if seen[o.ID] {
			return fmt.Errorf("duplicate option id %q", o.ID)
		}
		seen[o.ID] = true
	}
	return nil
}

func nonNil(m map[string]any) map[string]any {
	if m == nil {
		return map[string]any{}
	}
	return m
}
