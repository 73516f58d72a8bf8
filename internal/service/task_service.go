package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/dayplanhq/dayplan-api/internal/ai"
	"github.com/dayplanhq/dayplan-api/internal/dto"
	"github.com/dayplanhq/dayplan-api/internal/models"
	appErrors "github.com/dayplanhq/dayplan-api/pkg/errors"
)

type taskRepository interface {
	Create(ctx context.Context, task *models.Task) error
	FindByID(ctx context.Context, userID, id string) (*models.Task, error)
	List(ctx context.Context, userID string, filter models.TaskFilter) ([]models.Task, int, error)
	CountActive(ctx context.Context, userID string) (int, error)
	Update(ctx context.Context, task *models.Task) error
	Archive(ctx context.Context, userID, id string) error
}

// TaskService manages the user's task pool. Tasks created without a
// category are classified by the AI provider.
type TaskService struct {
	repo           taskRepository
	provider       ai.Provider
	validator      *validator.Validate
	logger         *zap.Logger
	maxTasksPerDay int
}

// NewTaskService constructs a TaskService instance.
func NewTaskService(repo taskRepository, provider ai.Provider, validate *validator.Validate, logger *zap.Logger, maxTasksPerDay int) *TaskService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	if provider == nil {
		provider = ai.NewMockProvider()
	}
	if maxTasksPerDay <= 0 {
		maxTasksPerDay = 50
	}
	return &TaskService{repo: repo, provider: provider, validator: validate, logger: logger, maxTasksPerDay: maxTasksPerDay}
}

// Create adds a task, enforcing the per-user active task cap.
func (s *TaskService) Create(ctx context.Context, userID string, req dto.CreateTaskRequest) (*models.Task, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid task payload")
	}

	active, err := s.repo.CountActive(ctx, userID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count tasks")
	}
	if active >= s.maxTasksPerDay {
		return nil, appErrors.Clone(appErrors.ErrTaskLimit, "")
	}

	category := req.Category
	if category == "" {
		result, err := s.provider.Categorize(ctx, ai.TaskText{Title: req.Title, Description: req.Description})
		if err != nil {
			s.logger.Warn("categorization failed", zap.Error(err))
			category = "Other"
		} else {
			category = result.Label
			s.logger.Debug("task categorized",
				zap.String("category", category),
				zap.Float64("confidence", result.Confidence),
				zap.String("provider", result.Provider))
		}
	}

	task := &models.Task{
		UserID:           userID,
		Title:            req.Title,
		Description:      req.Description,
		Category:         category,
		EstimatedMinutes: req.EstimatedMinutes,
		Priority:         req.Priority,
		Deadline:         req.Deadline,
		FixedStart:       req.FixedStart,
		MealType:         req.MealType,
		MinChunkMinutes:  req.MinChunkMinutes,
	}
	if err := s.repo.Create(ctx, task); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create task")
	}
	return task, nil
}

// Get returns one of the user's tasks.
func (s *TaskService) Get(ctx context.Context, userID, id string) (*models.Task, error) {
	task, err := s.repo.FindByID(ctx, userID, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "task not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load task")
	}
	return task, nil
}

// List returns the filtered task pool with pagination metadata.
func (s *TaskService) List(ctx context.Context, userID string, query dto.ListTasksQuery) ([]models.Task, *models.Pagination, error) {
	if err := s.validator.Struct(query); err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid list query")
	}

	filter := models.TaskFilter{
		Category:        query.Category,
		IncludeArchived: query.IncludeArchived,
		Page:            query.Page,
		PageSize:        query.PageSize,
	}
	tasks, total, err := s.repo.List(ctx, userID, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list tasks")
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}
	return tasks, &models.Pagination{Page: page, PageSize: pageSize, TotalCount: total}, nil
}

// Update applies a partial update to a task. Clear flags win over the
// corresponding value fields.
func (s *TaskService) Update(ctx context.Context, userID, id string, req dto.UpdateTaskRequest) (*models.Task, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid task payload")
	}

	task, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		task.Title = *req.Title
	}
	if req.Description != nil {
		task.Description = *req.Description
	}
	if req.Category != nil {
		task.Category = *req.Category
	}
	if req.EstimatedMinutes != nil {
		task.EstimatedMinutes = *req.EstimatedMinutes
	}
	if req.Priority != nil {
		task.Priority = *req.Priority
	}
	if req.Deadline != nil {
		task.Deadline = req.Deadline
	}
	if req.ClearDeadline {
		task.Deadline = nil
	}
	if req.FixedStart != nil {
		task.FixedStart = req.FixedStart
	}
	if req.ClearFixedStart {
		task.FixedStart = nil
	}
	if req.MealType != nil {
		task.MealType = *req.MealType
	}
	if req.MinChunkMinutes != nil {
		task.MinChunkMinutes = *req.MinChunkMinutes
	}

	if err := s.repo.Update(ctx, task); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "task not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update task")
	}
	return task, nil
}

// Archive soft-deletes a task.
func (s *TaskService) Archive(ctx context.Context, userID, id string) error {
	if err := s.repo.Archive(ctx, userID, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "task not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to archive task")
	}
	return nil
}
