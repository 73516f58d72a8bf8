package service

import (
	"context"
	"database/sql"
	"errors"
	"sync"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/dayplanhq/dayplan-api/internal/dto"
	"github.com/dayplanhq/dayplan-api/internal/models"
	"github.com/dayplanhq/dayplan-api/internal/scheduler"
	appErrors "github.com/dayplanhq/dayplan-api/pkg/errors"
)

type modelRepository interface {
	Get(ctx context.Context, userID string) (*models.UserModel, error)
	Upsert(ctx context.Context, model *models.UserModel) error
	Delete(ctx context.Context, userID string) error
}

type feedbackRepository interface {
	Create(ctx context.Context, feedback *models.Feedback) error
	CountByUser(ctx context.Context, userID string) (int, error)
}

type feedbackPlanRepository interface {
	FindByID(ctx context.Context, userID, id string) (*models.Plan, error)
}

// LearnerParams configure the online weight updates.
type LearnerParams struct {
	LearningRate     float64
	Regularization   float64
	MinFeedbackCount int
}

// ModelService owns the per-user weight vector: lazily seeding it from
// profile defaults, migrating stale vectors, and folding feedback in
// one SGD step at a time.
type ModelService struct {
	models    modelRepository
	feedback  feedbackRepository
	plans     feedbackPlanRepository
	validator *validator.Validate
	logger    *zap.Logger
	params    LearnerParams
	observer  LearnerObserver
	userLocks sync.Map
}

// LearnerObserver receives learner update notifications for metrics.
type LearnerObserver interface {
	LearnerUpdated(training bool)
}

// NewModelService constructs a ModelService instance.
func NewModelService(modelRepo modelRepository, feedbackRepo feedbackRepository, planRepo feedbackPlanRepository, validate *validator.Validate, logger *zap.Logger, params LearnerParams) *ModelService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	if params.LearningRate <= 0 {
		params.LearningRate = 0.05
	}
	if params.Regularization <= 0 {
		params.Regularization = 0.001
	}
	if params.MinFeedbackCount <= 0 {
		params.MinFeedbackCount = 20
	}
	return &ModelService{models: modelRepo, feedback: feedbackRepo, plans: planRepo, validator: validate, logger: logger, params: params}
}

// SetObserver attaches a metrics observer.
func (s *ModelService) SetObserver(observer LearnerObserver) {
	s.observer = observer
}

// EnsureWeights returns the user's current weight vector, seeding or
// migrating the stored model when its version is stale or the vector is
// shorter than the feature set.
func (s *ModelService) EnsureWeights(ctx context.Context, userID string, profile models.Profile) ([]float64, error) {
	stored, err := s.models.Get(ctx, userID)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load model")
		}
		weights := scheduler.DefaultWeights(schedulerProfile(profile))
		model := &models.UserModel{UserID: userID, Version: scheduler.ModelVersion, Weights: weights}
		if err := s.models.Upsert(ctx, model); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to seed model")
		}
		return weights, nil
	}

	if stored.Version == scheduler.ModelVersion && len(stored.Weights) == scheduler.FeatureCount {
		return stored.Weights, nil
	}

	merged := scheduler.MergeWeights(stored.Weights, schedulerProfile(profile))
	stored.Version = scheduler.ModelVersion
	stored.Weights = merged
	if err := s.models.Upsert(ctx, stored); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to migrate model")
	}
	s.logger.Info("migrated user model", zap.String("user_id", userID), zap.Int("version", scheduler.ModelVersion))
	return merged, nil
}

// SubmitFeedback records a slot verdict and applies one masked SGD step
// once enough feedback has accumulated. The feature snapshot comes from
// the stored plan.
func (s *ModelService) SubmitFeedback(ctx context.Context, userID string, profile models.Profile, req dto.SubmitFeedbackRequest) (*dto.ModelResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid feedback payload")
	}

	plan, err := s.plans.FindByID(ctx, userID, req.PlanID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "plan not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load plan")
	}

	var features []float64
	found := false
	for _, slot := range plan.Slots {
		if slot.TaskID == req.TaskID {
			features = slot.Features
			found = true
			break
		}
	}
	if !found {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "task not present in plan")
	}

	action := models.FeedbackAction(req.Action)
	label := 0
	if action == models.FeedbackKept {
		label = 1
	}

	// Weight updates for the same user are a read-modify-write of the
	// stored vector; concurrent feedback must not interleave them.
	lock := s.lockFor(userID)
	lock.Lock()
	defer lock.Unlock()

	priorCount, err := s.feedback.CountByUser(ctx, userID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count feedback")
	}

	if err := s.feedback.Create(ctx, &models.Feedback{
		UserID:   userID,
		TaskID:   req.TaskID,
		PlanID:   req.PlanID,
		Action:   action,
		Label:    label,
		Features: features,
	}); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record feedback")
	}

	weights, err := s.EnsureWeights(ctx, userID, profile)
	if err != nil {
		return nil, err
	}

	updated := scheduler.ApplyFeedback(weights, []scheduler.FeedbackExample{{Features: features, Label: label}}, scheduler.Hyperparams{
		LearningRate:        s.params.LearningRate,
		Regularization:      s.params.Regularization,
		MaskHardConstraints: true,
		MinFeedbackCount:    s.params.MinFeedbackCount,
		PriorFeedbackCount:  priorCount,
	})

	model := &models.UserModel{
		UserID:        userID,
		Version:       scheduler.ModelVersion,
		Weights:       updated,
		FeedbackCount: priorCount + 1,
	}
	if err := s.models.Upsert(ctx, model); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store model")
	}

	training := priorCount+1 >= s.params.MinFeedbackCount
	if s.observer != nil {
		s.observer.LearnerUpdated(training)
	}
	s.logger.Info("feedback recorded",
		zap.String("user_id", userID),
		zap.String("action", string(action)),
		zap.Int("feedback_count", priorCount+1),
		zap.Bool("training", training))

	return &dto.ModelResponse{
		Version:       model.Version,
		Weights:       model.Weights,
		FeedbackCount: model.FeedbackCount,
		Training:      training,
	}, nil
}

// GetModel describes the user's current model state.
func (s *ModelService) GetModel(ctx context.Context, userID string, profile models.Profile) (*dto.ModelResponse, error) {
	weights, err := s.EnsureWeights(ctx, userID, profile)
	if err != nil {
		return nil, err
	}
	count, err := s.feedback.CountByUser(ctx, userID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count feedback")
	}
	return &dto.ModelResponse{
		Version:       scheduler.ModelVersion,
		Weights:       weights,
		FeedbackCount: count,
		Training:      count >= s.params.MinFeedbackCount,
	}, nil
}

// Reset discards the learned weights so profile defaults apply again.
func (s *ModelService) Reset(ctx context.Context, userID string) error {
	if err := s.models.Delete(ctx, userID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to reset model")
	}
	s.logger.Info("model reset", zap.String("user_id", userID))
	return nil
}

func (s *ModelService) lockFor(userID string) *sync.Mutex {
	lock, _ := s.userLocks.LoadOrStore(userID, &sync.Mutex{})
	return lock.(*sync.Mutex)
}

func schedulerProfile(profile models.Profile) scheduler.Profile {
	if profile == models.ProfileChild {
		return scheduler.ProfileChild
	}
	return scheduler.ProfileAdult
}
