package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/dayplanhq/dayplan-api/internal/dto"
	"github.com/dayplanhq/dayplan-api/internal/models"
	appErrors "github.com/dayplanhq/dayplan-api/pkg/errors"
)

type catalogRepository interface {
	List(ctx context.Context, userID string) ([]models.CatalogTemplate, error)
	Create(ctx context.Context, template *models.CatalogTemplate) error
	IncrementUsage(ctx context.Context, id string) error
}

// CatalogService serves reusable task presets.
type CatalogService struct {
	repo      catalogRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewCatalogService constructs a CatalogService instance.
func NewCatalogService(repo catalogRepository, validate *validator.Validate, logger *zap.Logger) *CatalogService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &CatalogService{repo: repo, validator: validate, logger: logger}
}

// List returns global templates plus the user's own.
func (s *CatalogService) List(ctx context.Context, userID string) ([]models.CatalogTemplate, error) {
	templates, err := s.repo.List(ctx, userID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list templates")
	}
	return templates, nil
}

// Create saves a user template.
func (s *CatalogService) Create(ctx context.Context, userID string, req dto.CreateTemplateRequest) (*models.CatalogTemplate, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid template payload")
	}
	template := &models.CatalogTemplate{
		UserID:           &userID,
		Title:            req.Title,
		Category:         req.Category,
		EstimatedMinutes: req.EstimatedMinutes,
		Priority:         req.Priority,
		MealType:         req.MealType,
	}
	if err := s.repo.Create(ctx, template); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create template")
	}
	return template, nil
}

// MarkUsed bumps the template usage counter. Failures only log.
func (s *CatalogService) MarkUsed(ctx context.Context, id string) {
	if err := s.repo.IncrementUsage(ctx, id); err != nil {
		s.logger.Warn("failed to bump template usage", zap.String("template_id", id), zap.Error(err))
	}
}
