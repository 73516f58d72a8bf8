package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dayplanhq/dayplan-api/internal/dto"
	"github.com/dayplanhq/dayplan-api/internal/models"
	"github.com/dayplanhq/dayplan-api/internal/scheduler"
	appErrors "github.com/dayplanhq/dayplan-api/pkg/errors"
)

const testPlanID = "0b9fba84-6f7a-4b3d-8f2d-0c7c2f1f4a6e"

type mockModelRepo struct {
	stored      *models.UserModel
	upsertCalls int
}

func (m *mockModelRepo) Get(ctx context.Context, userID string) (*models.UserModel, error) {
	if m.stored == nil {
		return nil, sql.ErrNoRows
	}
	copied := *m.stored
	return &copied, nil
}

func (m *mockModelRepo) Upsert(ctx context.Context, model *models.UserModel) error {
	m.upsertCalls++
	copied := *model
	m.stored = &copied
	return nil
}

func (m *mockModelRepo) Delete(ctx context.Context, userID string) error {
	m.stored = nil
	return nil
}

type mockFeedbackRepo struct {
	count   int
	created []*models.Feedback
}

func (m *mockFeedbackRepo) Create(ctx context.Context, feedback *models.Feedback) error {
	m.created = append(m.created, feedback)
	return nil
}

func (m *mockFeedbackRepo) CountByUser(ctx context.Context, userID string) (int, error) {
	return m.count, nil
}

type mockPlanLookup struct {
	plan *models.Plan
}

func (m *mockPlanLookup) FindByID(ctx context.Context, userID, id string) (*models.Plan, error) {
	if m.plan == nil || m.plan.ID != id || m.plan.UserID != userID {
		return nil, sql.ErrNoRows
	}
	return m.plan, nil
}

func planWithSlot(taskID string, features []float64) *models.Plan {
	return &models.Plan{
		ID:     testPlanID,
		UserID: "u1",
		Slots: models.PlanSlots{
			{TaskID: taskID, Title: "Report", Category: "Deep work", Features: features},
		},
	}
}

func newModelService(modelRepo *mockModelRepo, feedbackRepo *mockFeedbackRepo, planRepo *mockPlanLookup) *ModelService {
	return NewModelService(modelRepo, feedbackRepo, planRepo, nil, nil, LearnerParams{MinFeedbackCount: 5})
}

func TestEnsureWeightsSeedsProfileDefaults(t *testing.T) {
	modelRepo := &mockModelRepo{}
	svc := newModelService(modelRepo, &mockFeedbackRepo{}, &mockPlanLookup{})

	weights, err := svc.EnsureWeights(context.Background(), "u1", models.ProfileAdult)
	require.NoError(t, err)
	assert.Equal(t, scheduler.DefaultWeights(scheduler.ProfileAdult), weights)
	require.NotNil(t, modelRepo.stored)
	assert.Equal(t, scheduler.ModelVersion, modelRepo.stored.Version)
}

func TestEnsureWeightsMigratesStaleVector(t *testing.T) {
	modelRepo := &mockModelRepo{stored: &models.UserModel{
		UserID:  "u1",
		Version: 2,
		Weights: models.FloatVector{0.1, 0.2, 0.3},
	}}
	svc := newModelService(modelRepo, &mockFeedbackRepo{}, &mockPlanLookup{})

	weights, err := svc.EnsureWeights(context.Background(), "u1", models.ProfileChild)
	require.NoError(t, err)
	require.Len(t, weights, scheduler.FeatureCount)
	assert.Equal(t, 0.1, weights[0], "learned components survive migration")
	assert.Equal(t, scheduler.DefaultWeights(scheduler.ProfileChild)[3], weights[3])
	assert.Equal(t, scheduler.ModelVersion, modelRepo.stored.Version)
}

func TestEnsureWeightsReturnsCurrentVector(t *testing.T) {
	custom := make(models.FloatVector, scheduler.FeatureCount)
	custom[0] = 0.77
	modelRepo := &mockModelRepo{stored: &models.UserModel{
		UserID:  "u1",
		Version: scheduler.ModelVersion,
		Weights: custom,
	}}
	svc := newModelService(modelRepo, &mockFeedbackRepo{}, &mockPlanLookup{})

	weights, err := svc.EnsureWeights(context.Background(), "u1", models.ProfileAdult)
	require.NoError(t, err)
	assert.Equal(t, 0.77, weights[0])
	assert.Zero(t, modelRepo.upsertCalls)
}

func TestSubmitFeedbackBelowThresholdRecordsWithoutTraining(t *testing.T) {
	features := make([]float64, scheduler.FeatureCount)
	features[0] = 0.9
	modelRepo := &mockModelRepo{}
	feedbackRepo := &mockFeedbackRepo{count: 0}
	planRepo := &mockPlanLookup{plan: planWithSlot("t1", features)}
	svc := newModelService(modelRepo, feedbackRepo, planRepo)

	resp, err := svc.SubmitFeedback(context.Background(), "u1", models.ProfileAdult, dto.SubmitFeedbackRequest{
		PlanID: testPlanID,
		TaskID: "t1",
		Action: "kept",
	})
	require.NoError(t, err)
	assert.False(t, resp.Training)
	assert.Equal(t, 1, resp.FeedbackCount)
	assert.Equal(t, scheduler.DefaultWeights(scheduler.ProfileAdult), resp.Weights)

	require.Len(t, feedbackRepo.created, 1)
	assert.Equal(t, 1, feedbackRepo.created[0].Label)
}

func TestSubmitFeedbackAboveThresholdUpdatesWeights(t *testing.T) {
	features := make([]float64, scheduler.FeatureCount)
	features[0] = 1.0
	modelRepo := &mockModelRepo{}
	feedbackRepo := &mockFeedbackRepo{count: 10}
	planRepo := &mockPlanLookup{plan: planWithSlot("t1", features)}
	svc := newModelService(modelRepo, feedbackRepo, planRepo)

	resp, err := svc.SubmitFeedback(context.Background(), "u1", models.ProfileAdult, dto.SubmitFeedbackRequest{
		PlanID: testPlanID,
		TaskID: "t1",
		Action: "moved",
	})
	require.NoError(t, err)
	assert.True(t, resp.Training)
	assert.Equal(t, 11, resp.FeedbackCount)
	assert.NotEqual(t, scheduler.DefaultWeights(scheduler.ProfileAdult)[0], resp.Weights[0])

	require.Len(t, feedbackRepo.created, 1)
	assert.Equal(t, 0, feedbackRepo.created[0].Label)
}

func TestSubmitFeedbackTaskNotInPlan(t *testing.T) {
	planRepo := &mockPlanLookup{plan: planWithSlot("t1", make([]float64, scheduler.FeatureCount))}
	svc := newModelService(&mockModelRepo{}, &mockFeedbackRepo{}, planRepo)

	_, err := svc.SubmitFeedback(context.Background(), "u1", models.ProfileAdult, dto.SubmitFeedbackRequest{
		PlanID: testPlanID,
		TaskID: "absent",
		Action: "kept",
	})
	require.Error(t, err)
	typed := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrNotFound.Code, typed.Code)
}

func TestSubmitFeedbackUnknownPlan(t *testing.T) {
	svc := newModelService(&mockModelRepo{}, &mockFeedbackRepo{}, &mockPlanLookup{})

	_, err := svc.SubmitFeedback(context.Background(), "u1", models.ProfileAdult, dto.SubmitFeedbackRequest{
		PlanID: testPlanID,
		TaskID: "t1",
		Action: "kept",
	})
	require.Error(t, err)
	typed := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrNotFound.Code, typed.Code)
}

func TestSubmitFeedbackRejectsUnknownAction(t *testing.T) {
	svc := newModelService(&mockModelRepo{}, &mockFeedbackRepo{}, &mockPlanLookup{})

	_, err := svc.SubmitFeedback(context.Background(), "u1", models.ProfileAdult, dto.SubmitFeedbackRequest{
		PlanID: testPlanID,
		TaskID: "t1",
		Action: "loved",
	})
	require.Error(t, err)
	typed := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, typed.Code)
}

func TestGetModelReportsTrainingState(t *testing.T) {
	feedbackRepo := &mockFeedbackRepo{count: 7}
	svc := newModelService(&mockModelRepo{}, feedbackRepo, &mockPlanLookup{})

	resp, err := svc.GetModel(context.Background(), "u1", models.ProfileAdult)
	require.NoError(t, err)
	assert.True(t, resp.Training)
	assert.Equal(t, 7, resp.FeedbackCount)
	assert.Equal(t, scheduler.ModelVersion, resp.Version)
}

func TestResetDiscardsModel(t *testing.T) {
	modelRepo := &mockModelRepo{stored: &models.UserModel{UserID: "u1", Version: scheduler.ModelVersion}}
	svc := newModelService(modelRepo, &mockFeedbackRepo{}, &mockPlanLookup{})

	require.NoError(t, svc.Reset(context.Background(), "u1"))
	assert.Nil(t, modelRepo.stored)
}
