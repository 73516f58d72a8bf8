package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dayplanhq/dayplan-api/internal/dto"
	"github.com/dayplanhq/dayplan-api/internal/models"
	"github.com/dayplanhq/dayplan-api/internal/scheduler"
	appErrors "github.com/dayplanhq/dayplan-api/pkg/errors"
)

type fakeScheduleUserRepo struct {
	user     *models.User
	settings *models.UserSettings
}

func (f *fakeScheduleUserRepo) FindByID(ctx context.Context, id string) (*models.User, error) {
	if f.user == nil || f.user.ID != id {
		return nil, sql.ErrNoRows
	}
	return f.user, nil
}

func (f *fakeScheduleUserRepo) GetSettings(ctx context.Context, userID string) (*models.UserSettings, error) {
	if f.settings == nil {
		return nil, sql.ErrNoRows
	}
	return f.settings, nil
}

type fakeScheduleTaskRepo struct {
	active []models.Task
	byIDs  []models.Task
}

func (f *fakeScheduleTaskRepo) ListActive(ctx context.Context, userID string) ([]models.Task, error) {
	return f.active, nil
}

func (f *fakeScheduleTaskRepo) FindByIDs(ctx context.Context, userID string, ids []string) ([]models.Task, error) {
	return f.byIDs, nil
}

type fakeSchedulePlanRepo struct {
	upserted   *models.Plan
	byDate     *models.Plan
	recent     []models.Plan
	lastBefore time.Time
	lastLimit  int
}

func (f *fakeSchedulePlanRepo) Upsert(ctx context.Context, plan *models.Plan) error {
	plan.ID = "p1"
	f.upserted = plan
	return nil
}

func (f *fakeSchedulePlanRepo) FindByDate(ctx context.Context, userID string, date time.Time) (*models.Plan, error) {
	if f.byDate == nil {
		return nil, sql.ErrNoRows
	}
	return f.byDate, nil
}

func (f *fakeSchedulePlanRepo) ListRecent(ctx context.Context, userID string, before time.Time, limit int) ([]models.Plan, error) {
	f.lastBefore = before
	f.lastLimit = limit
	return f.recent, nil
}

type fakeWeightsProvider struct{}

func (f *fakeWeightsProvider) EnsureWeights(ctx context.Context, userID string, profile models.Profile) ([]float64, error) {
	return scheduler.DefaultWeights(scheduler.ProfileAdult), nil
}

type memoryCacheRepo struct {
	entries map[string][]byte
}

func newMemoryCacheRepo() *memoryCacheRepo {
	return &memoryCacheRepo{entries: make(map[string][]byte)}
}

func (m *memoryCacheRepo) Get(ctx context.Context, key string, dest interface{}) error {
	data, ok := m.entries[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(data, dest)
}

func (m *memoryCacheRepo) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.entries[key] = data
	return nil
}

func newScheduleService(users *fakeScheduleUserRepo, tasks *fakeScheduleTaskRepo, plans *fakeSchedulePlanRepo, cache *CacheService) *ScheduleService {
	return NewScheduleService(users, tasks, plans, &fakeWeightsProvider{}, nil, cache, nil, nil, nil, ScheduleConfig{})
}

func adultUser(locale string) *models.User {
	return &models.User{ID: "u1", Email: "user@example.com", Profile: models.ProfileAdult, Locale: locale, Active: true}
}

func TestGeneratePlacesTaskAndPersistsPlan(t *testing.T) {
	users := &fakeScheduleUserRepo{user: adultUser("ru")}
	tasks := &fakeScheduleTaskRepo{active: []models.Task{
		{ID: "t1", UserID: "u1", Title: "Отчёт", Category: "Deep work", EstimatedMinutes: 60, Priority: 0.9},
	}}
	plans := &fakeSchedulePlanRepo{}
	svc := newScheduleService(users, tasks, plans, nil)

	resp, err := svc.Generate(context.Background(), "u1", dto.GenerateScheduleRequest{Date: "2026-03-02"})
	require.NoError(t, err)
	require.NotNil(t, plans.upserted)
	assert.Equal(t, "2026-03-02", plans.upserted.Date.Format("2006-01-02"))
	require.NotEmpty(t, resp.Plan.Slots)

	var taskSlot *models.PlanSlot
	for i := range resp.Plan.Slots {
		if resp.Plan.Slots[i].TaskID == "t1" {
			taskSlot = &resp.Plan.Slots[i]
		}
	}
	require.NotNil(t, taskSlot, "the task must be placed on an empty day")
	assert.Contains(t, taskSlot.Reasoning, "Мы запланировали «Отчёт»")
	assert.NotEmpty(t, taskSlot.Features)
	assert.Empty(t, resp.Unplaced)
}

func TestGenerateExplainsAutoBlocks(t *testing.T) {
	users := &fakeScheduleUserRepo{user: adultUser("ru")}
	plans := &fakeSchedulePlanRepo{}
	svc := newScheduleService(users, &fakeScheduleTaskRepo{}, plans, nil)

	resp, err := svc.Generate(context.Background(), "u1", dto.GenerateScheduleRequest{Date: "2026-03-02"})
	require.NoError(t, err)

	autoSeen := false
	for _, slot := range resp.Plan.Slots {
		if strings.HasPrefix(slot.TaskID, "auto-") {
			autoSeen = true
			assert.Contains(t, slot.Reasoning, "зарезервирован автоматически")
		}
	}
	assert.True(t, autoSeen, "meal blocks are reserved even without tasks")
}

func TestGenerateEnglishFallbackReasoning(t *testing.T) {
	users := &fakeScheduleUserRepo{user: adultUser("en")}
	tasks := &fakeScheduleTaskRepo{active: []models.Task{
		{ID: "t1", UserID: "u1", Title: "Report", Category: "Deep work", EstimatedMinutes: 60, Priority: 0.9},
	}}
	svc := newScheduleService(users, tasks, &fakeSchedulePlanRepo{}, nil)

	resp, err := svc.Generate(context.Background(), "u1", dto.GenerateScheduleRequest{Date: "2026-03-02"})
	require.NoError(t, err)

	for _, slot := range resp.Plan.Slots {
		if slot.TaskID == "t1" {
			assert.Contains(t, slot.Reasoning, `We planned "Report" for`)
			return
		}
	}
	t.Fatal("task slot not found")
}

func TestGenerateBuildsHistoryFromRecentPlans(t *testing.T) {
	users := &fakeScheduleUserRepo{user: adultUser("ru")}
	plans := &fakeSchedulePlanRepo{recent: []models.Plan{
		{Slots: models.PlanSlots{{
			TaskID:   "old",
			Category: "Deep work",
			Start:    time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
			End:      time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
		}}},
	}}
	svc := newScheduleService(users, &fakeScheduleTaskRepo{}, plans, nil)

	_, err := svc.Generate(context.Background(), "u1", dto.GenerateScheduleRequest{Date: "2026-03-02"})
	require.NoError(t, err)
	assert.Equal(t, "2026-03-02", plans.lastBefore.Format("2006-01-02"))
	assert.Equal(t, 5, plans.lastLimit)
}

func TestGenerateUnknownUser(t *testing.T) {
	svc := newScheduleService(&fakeScheduleUserRepo{}, &fakeScheduleTaskRepo{}, &fakeSchedulePlanRepo{}, nil)

	_, err := svc.Generate(context.Background(), "ghost", dto.GenerateScheduleRequest{Date: "2026-03-02"})
	require.Error(t, err)
	typed := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrNotFound.Code, typed.Code)
}

func TestGenerateRejectsBadDate(t *testing.T) {
	svc := newScheduleService(&fakeScheduleUserRepo{user: adultUser("ru")}, &fakeScheduleTaskRepo{}, &fakeSchedulePlanRepo{}, nil)

	_, err := svc.Generate(context.Background(), "u1", dto.GenerateScheduleRequest{Date: "02.03.2026"})
	require.Error(t, err)
	typed := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, typed.Code)
}

func TestGetPlanPrefersCache(t *testing.T) {
	cacheRepo := newMemoryCacheRepo()
	cache := NewCacheService(cacheRepo, nil, time.Minute, nil, true)
	plans := &fakeSchedulePlanRepo{}
	svc := newScheduleService(&fakeScheduleUserRepo{user: adultUser("ru")}, &fakeScheduleTaskRepo{}, plans, cache)

	stored := &models.Plan{ID: "p1", UserID: "u1", Date: time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)}
	require.NoError(t, cacheRepo.Set(context.Background(), "plan:u1:2026-03-02", stored, time.Minute))

	resp, err := svc.GetPlan(context.Background(), "u1", "2026-03-02")
	require.NoError(t, err)
	assert.True(t, resp.Cached)
	assert.Equal(t, "p1", resp.Plan.ID)
}

func TestGetPlanFallsBackToStoreAndRecaches(t *testing.T) {
	cacheRepo := newMemoryCacheRepo()
	cache := NewCacheService(cacheRepo, nil, time.Minute, nil, true)
	plans := &fakeSchedulePlanRepo{byDate: &models.Plan{ID: "p2", UserID: "u1", Date: time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)}}
	svc := newScheduleService(&fakeScheduleUserRepo{user: adultUser("ru")}, &fakeScheduleTaskRepo{}, plans, cache)

	resp, err := svc.GetPlan(context.Background(), "u1", "2026-03-02")
	require.NoError(t, err)
	assert.False(t, resp.Cached)
	assert.Equal(t, "p2", resp.Plan.ID)
	assert.Contains(t, cacheRepo.entries, "plan:u1:2026-03-02")
}

func TestGetPlanMissing(t *testing.T) {
	svc := newScheduleService(&fakeScheduleUserRepo{user: adultUser("ru")}, &fakeScheduleTaskRepo{}, &fakeSchedulePlanRepo{}, nil)

	_, err := svc.GetPlan(context.Background(), "u1", "2026-03-02")
	require.Error(t, err)
	typed := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrNotFound.Code, typed.Code)
	assert.Contains(t, typed.Message, "no plan for this date")
}

func TestListPlansDefaultsAndCutoff(t *testing.T) {
	plans := &fakeSchedulePlanRepo{recent: []models.Plan{{ID: "p1"}}}
	svc := newScheduleService(&fakeScheduleUserRepo{user: adultUser("ru")}, &fakeScheduleTaskRepo{}, plans, nil)

	listed, err := svc.ListPlans(context.Background(), "u1", dto.PlanListQuery{})
	require.NoError(t, err)
	assert.Len(t, listed, 1)
	assert.Equal(t, 14, plans.lastLimit)
	assert.True(t, plans.lastBefore.After(time.Now().UTC()), "cutoff includes today's plan")
}
