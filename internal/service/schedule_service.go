package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/dayplanhq/dayplan-api/internal/ai"
	"github.com/dayplanhq/dayplan-api/internal/dto"
	"github.com/dayplanhq/dayplan-api/internal/models"
	"github.com/dayplanhq/dayplan-api/internal/scheduler"
	appErrors "github.com/dayplanhq/dayplan-api/pkg/errors"
)

type scheduleUserRepository interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
	GetSettings(ctx context.Context, userID string) (*models.UserSettings, error)
}

type scheduleTaskRepository interface {
	ListActive(ctx context.Context, userID string) ([]models.Task, error)
	FindByIDs(ctx context.Context, userID string, ids []string) ([]models.Task, error)
}

type schedulePlanRepository interface {
	Upsert(ctx context.Context, plan *models.Plan) error
	FindByDate(ctx context.Context, userID string, date time.Time) (*models.Plan, error)
	ListRecent(ctx context.Context, userID string, before time.Time, limit int) ([]models.Plan, error)
}

type weightsProvider interface {
	EnsureWeights(ctx context.Context, userID string, profile models.Profile) ([]float64, error)
}

// ScheduleConfig tunes one generation run.
type ScheduleConfig struct {
	CacheTTL           time.Duration
	HistoryDays        int
	ExplanationEnabled bool
}

// ScheduleService orchestrates plan generation: it assembles the run
// input from stored tasks, settings, learned weights, and recent plan
// history, runs the slot engine, attaches per-slot reasoning, and
// persists the result.
type ScheduleService struct {
	users     scheduleUserRepository
	tasks     scheduleTaskRepository
	plans     schedulePlanRepository
	weights   weightsProvider
	provider  ai.Provider
	cache     *CacheService
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
	config    ScheduleConfig
}

// NewScheduleService constructs a ScheduleService instance.
func NewScheduleService(users scheduleUserRepository, tasks scheduleTaskRepository, plans schedulePlanRepository, weights weightsProvider, provider ai.Provider, cache *CacheService, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger, config ScheduleConfig) *ScheduleService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	if provider == nil {
		provider = ai.NewMockProvider()
	}
	if config.HistoryDays <= 0 {
		config.HistoryDays = 5
	}
	if config.CacheTTL <= 0 {
		config.CacheTTL = 10 * time.Minute
	}
	return &ScheduleService{
		users: users, tasks: tasks, plans: plans, weights: weights,
		provider: provider, cache: cache, metrics: metrics,
		validator: validate, logger: logger, config: config,
	}
}

// Generate builds (or rebuilds) the plan for one day and persists it.
func (s *ScheduleService) Generate(ctx context.Context, userID string, req dto.GenerateScheduleRequest) (*dto.ScheduleResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid schedule payload")
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid date")
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "user not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load user")
	}

	tasks, err := s.loadTasks(ctx, userID, req.TaskIDs)
	if err != nil {
		return nil, err
	}

	weights, err := s.weights.EnsureWeights(ctx, userID, user.Profile)
	if err != nil {
		return nil, err
	}

	settings := s.loadSettings(ctx, userID)
	history := s.loadHistory(ctx, userID, date)

	input := scheduler.Input{
		Date:     date,
		Tasks:    schedulerTasks(tasks),
		Weights:  weights,
		Settings: settings,
		History:  history,
		Profile:  schedulerProfile(user.Profile),
	}

	started := time.Now()
	result := scheduler.Generate(input)
	if s.metrics != nil {
		s.metrics.RecordScheduleRun(len(result.Warnings), time.Since(started))
	}

	taskByID := make(map[string]models.Task, len(tasks))
	for _, task := range tasks {
		taskByID[task.ID] = task
	}

	slots := make(models.PlanSlots, 0, len(result.Segments))
	for _, segment := range result.Segments {
		slot := models.PlanSlot{
			TaskID:   segment.TaskID,
			Title:    segment.Title,
			Category: string(segment.Category),
			Start:    segment.Start,
			End:      segment.End,
			Score:    segment.Score,
			Features: segment.Features,
		}
		task, known := taskByID[segment.TaskID]
		slot.Reasoning = s.explainSlot(ctx, segment, task, known, user.Locale)
		slots = append(slots, slot)
	}

	plan := &models.Plan{
		UserID:   userID,
		Date:     date,
		Slots:    slots,
		Warnings: result.Warnings,
	}
	if err := s.plans.Upsert(ctx, plan); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store plan")
	}

	if err := s.cache.Set(ctx, planCacheKey(userID, req.Date), plan, s.config.CacheTTL); err != nil {
		s.logger.Warn("plan cache write failed", zap.Error(err))
	}

	s.logger.Info("plan generated",
		zap.String("user_id", userID),
		zap.String("date", req.Date),
		zap.Int("slots", len(slots)),
		zap.Int("warnings", len(result.Warnings)))

	return &dto.ScheduleResponse{
		Plan:     *plan,
		Unplaced: unplacedTitles(tasks, result.Segments),
	}, nil
}

// GetPlan returns the stored plan for a day, preferring the cache.
func (s *ScheduleService) GetPlan(ctx context.Context, userID, dateStr string) (*dto.ScheduleResponse, error) {
	date, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid date")
	}

	var cached models.Plan
	if hit, _ := s.cache.Get(ctx, planCacheKey(userID, dateStr), &cached); hit {
		return &dto.ScheduleResponse{Plan: cached, Cached: true}, nil
	}

	plan, err := s.plans.FindByDate(ctx, userID, date)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "no plan for this date")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load plan")
	}

	if err := s.cache.Set(ctx, planCacheKey(userID, dateStr), plan, s.config.CacheTTL); err != nil {
		s.logger.Warn("plan cache write failed", zap.Error(err))
	}
	return &dto.ScheduleResponse{Plan: *plan}, nil
}

// ListPlans pages through the user's stored plans, newest first.
func (s *ScheduleService) ListPlans(ctx context.Context, userID string, query dto.PlanListQuery) ([]models.Plan, error) {
	if err := s.validator.Struct(query); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid plan query")
	}
	limit := query.Limit
	if limit <= 0 {
		limit = 14
	}
	// Tomorrow as the cutoff keeps today's plan in the listing.
	cutoff := time.Now().UTC().Truncate(24 * time.Hour).AddDate(0, 0, 1)
	plans, err := s.plans.ListRecent(ctx, userID, cutoff, limit)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list plans")
	}
	return plans, nil
}

func (s *ScheduleService) loadTasks(ctx context.Context, userID string, taskIDs []string) ([]models.Task, error) {
	var (
		tasks []models.Task
		err   error
	)
	if len(taskIDs) > 0 {
		tasks, err = s.tasks.FindByIDs(ctx, userID, taskIDs)
	} else {
		tasks, err = s.tasks.ListActive(ctx, userID)
	}
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load tasks")
	}
	return tasks, nil
}

func (s *ScheduleService) loadSettings(ctx context.Context, userID string) scheduler.Settings {
	stored, err := s.users.GetSettings(ctx, userID)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			s.logger.Warn("failed to load settings, using defaults", zap.Error(err))
		}
		return scheduler.Settings{}
	}
	return scheduler.Settings{
		SleepStart: stored.SleepStart,
		SleepEnd:   stored.SleepEnd,
		WorkStart:  stored.WorkStart,
		WorkEnd:    stored.WorkEnd,
		MealOffsets: scheduler.MealOffsets{
			Breakfast: stored.BreakfastOffset,
			Lunch:     stored.LunchOffset,
			Dinner:    stored.DinnerOffset,
		},
		ActivityTargetMinutes: stored.ActivityTargetMinutes,
	}
}

// loadHistory turns the user's recent plans into per-category start
// minutes for the habit alignment feature.
func (s *ScheduleService) loadHistory(ctx context.Context, userID string, date time.Time) scheduler.History {
	history := scheduler.History{}
	plans, err := s.plans.ListRecent(ctx, userID, date, s.config.HistoryDays)
	if err != nil {
		s.logger.Warn("failed to load plan history", zap.Error(err))
		return history
	}
	for _, plan := range plans {
		for _, slot := range plan.Slots {
			category := scheduler.Category(slot.Category)
			minutes := slot.Start.Hour()*60 + slot.Start.Minute()
			history[category] = append(history[category], minutes)
		}
	}
	return history
}

func (s *ScheduleService) explainSlot(ctx context.Context, segment scheduler.Segment, task models.Task, known bool, locale string) string {
	startText := segment.Start.Format("15:04")
	endText := segment.End.Format("15:04")

	if !known {
		if locale == "ru" {
			return fmt.Sprintf("«%s» зарезервирован автоматически, чтобы соблюдать базовый распорядок дня.", segment.Title)
		}
		return fmt.Sprintf("%q is an automatic block that keeps the daily routine consistent.", segment.Title)
	}

	summaries := topFeatureSummaries(segment.Features, locale)

	if s.config.ExplanationEnabled {
		result, err := s.provider.Explain(ctx, ai.ExplainInput{
			TaskTitle:   task.Title,
			Start:       startText,
			End:         endText,
			TopFeatures: summaries,
			Locale:      locale,
		})
		if err == nil && strings.TrimSpace(result.Text) != "" {
			return result.Text
		}
		if err != nil {
			s.logger.Warn("explanation request failed", zap.String("task_id", task.ID), zap.Error(err))
		}
	}

	main := ai.TranslateSummary("it keeps the plan balanced", locale)
	if len(summaries) > 0 {
		main = summaries[0]
	}
	if locale == "ru" {
		return fmt.Sprintf("Мы запланировали «%s» на %s — %s, чтобы %s.", task.Title, startText, endText, main)
	}
	return fmt.Sprintf("We planned %q for %s to %s to %s.", task.Title, startText, endText, main)
}

// topFeatureSummaries picks the three strongest feature contributions
// and renders them as localized phrases.
func topFeatureSummaries(features []float64, locale string) []string {
	described := scheduler.DescribeFeatures(features)
	type contribution struct {
		key   string
		value float64
	}
	ranked := make([]contribution, 0, len(described))
	for key, value := range described {
		ranked = append(ranked, contribution{key: key, value: value})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		left, right := ranked[i], ranked[j]
		if absFloat(left.value) != absFloat(right.value) {
			return absFloat(left.value) > absFloat(right.value)
		}
		return left.key < right.key
	})
	if len(ranked) > 3 {
		ranked = ranked[:3]
	}
	summaries := make([]string, 0, len(ranked))
	for _, entry := range ranked {
		summaries = append(summaries, ai.TranslateSummary(ai.SummarizeFeature(entry.key, entry.value), locale))
	}
	return summaries
}

func schedulerTasks(tasks []models.Task) []scheduler.Task {
	converted := make([]scheduler.Task, 0, len(tasks))
	for _, task := range tasks {
		converted = append(converted, scheduler.Task{
			ID:               task.ID,
			Title:            task.Title,
			Description:      task.Description,
			Category:         scheduler.Category(task.Category),
			EstimatedMinutes: task.EstimatedMinutes,
			Priority:         task.Priority,
			Deadline:         task.Deadline,
			FixedStart:       task.FixedStart,
			MealType:         scheduler.MealType(task.MealType),
			MinChunkMinutes:  task.MinChunkMinutes,
		})
	}
	return converted
}

func unplacedTitles(tasks []models.Task, segments []scheduler.Segment) []string {
	scheduled := make(map[string]bool, len(segments))
	for _, segment := range segments {
		scheduled[segment.TaskID] = true
	}
	var titles []string
	for _, task := range tasks {
		if !scheduled[task.ID] {
			titles = append(titles, task.Title)
		}
	}
	return titles
}

func planCacheKey(userID, date string) string {
	return fmt.Sprintf("plan:%s:%s", userID, date)
}

func absFloat(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
