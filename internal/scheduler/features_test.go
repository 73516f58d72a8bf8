package scheduler

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func featureContextAt(task Task, env Environment, hour, minute int) FeatureContext {
	day := time.Date(2024, 3, 13, 0, 0, 0, 0, time.UTC)
	start := day.Add(time.Duration(hour*60+minute) * time.Minute)
	return FeatureContext{
		Task:      task,
		Meta:      AnalyzeTask(task),
		SlotStart: start,
		SlotEnd:   start.Add(SlotMinutes * time.Minute),
		Env:       env,
	}
}

func TestAnalyzeTaskMealDetection(t *testing.T) {
	byTitle := AnalyzeTask(Task{Title: "Обед с коллегами", Category: CategorySocial})
	assert.Equal(t, MealLunch, byTitle.MealType)
	assert.True(t, byTitle.IsMealTask)
	assert.True(t, byTitle.Indivisible)

	explicit := AnalyzeTask(Task{Title: "Перекус", MealType: MealDinner, Category: CategoryOther})
	assert.Equal(t, MealDinner, explicit.MealType)

	none := AnalyzeTask(Task{Title: "Прогулка", Category: CategoryOutdoor})
	assert.False(t, none.IsMealTask)
	assert.True(t, none.QualifiesForActivity)
}

func TestAnalyzeTaskHomeworkAndSchool(t *testing.T) {
	homework := AnalyzeTask(Task{Title: "Домашняя работа по математике", Category: CategoryLearning})
	assert.True(t, homework.IsHomework)
	assert.False(t, homework.IsSchoolActivity)

	school := AnalyzeTask(Task{Title: "Школа", Category: CategoryLearning})
	assert.False(t, school.IsHomework)
	assert.True(t, school.IsSchoolActivity)
	assert.True(t, school.Indivisible)

	// A bare Learning task reads as school attendance, not homework.
	bare := AnalyzeTask(Task{Title: "Занятия", Category: CategoryLearning})
	assert.True(t, bare.IsSchoolActivity)

	outside := AnalyzeTask(Task{Title: "Домашняя работа", Category: CategoryDeepWork})
	assert.False(t, outside.IsHomework)
	assert.False(t, outside.IsSchoolActivity)
}

func TestAnalyzeTaskGamesDetection(t *testing.T) {
	assert.True(t, AnalyzeTask(Task{Title: "Вечер", Category: CategoryGames}).IsGamesTask)
	assert.True(t, AnalyzeTask(Task{Title: "Играть в Майнкрафт", Category: CategoryRelaxing}).IsGamesTask)
	assert.False(t, AnalyzeTask(Task{Title: "Чтение", Category: CategoryRelaxing}).IsGamesTask)
}

func TestExtractFeaturesDeterministic(t *testing.T) {
	env := NormalizeEnvironment(Settings{}, ProfileChild, time.Date(2024, 3, 13, 0, 0, 0, 0, time.UTC))
	deadline := time.Date(2024, 3, 13, 20, 0, 0, 0, time.UTC)
	task := Task{
		ID:               "t1",
		Title:            "Домашняя работа",
		Category:         CategoryLearning,
		EstimatedMinutes: 60,
		Priority:         0.8,
		Deadline:         &deadline,
	}
	ctx := featureContextAt(task, env, 16, 0)
	ctx.History = History{CategoryLearning: {16 * 60}}
	ctx.MinutesScheduled = 400

	first := ExtractFeatures(ctx)
	second := ExtractFeatures(ctx)
	require.Len(t, first, FeatureCount)
	assert.Equal(t, first, second)
}

func TestDeadlinePressureCurve(t *testing.T) {
	env := NormalizeEnvironment(Settings{}, ProfileAdult, time.Date(2024, 3, 13, 0, 0, 0, 0, time.UTC))
	deadline := time.Date(2024, 3, 13, 18, 0, 0, 0, time.UTC)
	task := Task{Category: CategoryDeepWork, Deadline: &deadline}

	near := deadlinePressure(featureContextAt(task, env, 17, 0))
	far := deadlinePressure(featureContextAt(task, env, 9, 0))
	assert.Greater(t, far, near, "pressure grows with remaining headroom until the deadline")
	assert.InDelta(t, 1-math.Exp(-1.0/6.0), near, 1e-9)

	past := deadlinePressure(featureContextAt(task, env, 19, 0))
	assert.Zero(t, past)

	noDeadline := deadlinePressure(featureContextAt(Task{Category: CategoryDeepWork}, env, 9, 0))
	assert.Zero(t, noDeadline)
}

func TestDailyLoad(t *testing.T) {
	ctx := FeatureContext{MinutesScheduled: 300}
	assert.Zero(t, dailyLoad(ctx))

	ctx.MinutesScheduled = 420
	assert.InDelta(t, -0.5, dailyLoad(ctx), 1e-9)

	ctx.MinutesScheduled = 600
	assert.InDelta(t, -1, dailyLoad(ctx), 1e-9)
}

func TestHabitAlignmentFalloff(t *testing.T) {
	env := NormalizeEnvironment(Settings{}, ProfileAdult, time.Date(2024, 3, 13, 0, 0, 0, 0, time.UTC))
	task := Task{Category: CategorySport}

	ctx := featureContextAt(task, env, 9, 0)
	ctx.History = History{CategorySport: {9 * 60}}
	assert.InDelta(t, 1, habitAlignment(ctx), 1e-9)

	ctx = featureContextAt(task, env, 11, 0)
	ctx.History = History{CategorySport: {9 * 60}}
	assert.InDelta(t, 0.5, habitAlignment(ctx), 1e-9)

	ctx = featureContextAt(task, env, 15, 0)
	ctx.History = History{CategorySport: {9 * 60}}
	assert.InDelta(t, -1, habitAlignment(ctx), 1e-9)

	ctx.History = nil
	assert.Zero(t, habitAlignment(ctx))
}

func TestMealConflictFeature(t *testing.T) {
	env := NormalizeEnvironment(Settings{}, ProfileAdult, time.Date(2024, 3, 13, 0, 0, 0, 0, time.UTC))

	lunch := Task{Title: "Обед", Category: CategoryOther}
	inWindow := featureContextAt(lunch, env, 12, 30)
	assert.InDelta(t, 1, mealConflict(inWindow), 1e-9)

	outOfWindow := featureContextAt(lunch, env, 16, 0)
	assert.InDelta(t, -1, mealConflict(outOfWindow), 1e-9)

	work := Task{Title: "Отчет", Category: CategoryDeepWork}
	overlapping := featureContextAt(work, env, 12, 30)
	assert.InDelta(t, -1, mealConflict(overlapping), 1e-9)
	clear := featureContextAt(work, env, 10, 0)
	assert.Zero(t, mealConflict(clear))
}

func TestSchoolConflictFeature(t *testing.T) {
	child := NormalizeEnvironment(Settings{}, ProfileChild, time.Date(2024, 3, 13, 0, 0, 0, 0, time.UTC))

	chores := Task{Title: "Уборка", Category: CategoryHousehold}
	assert.InDelta(t, -1, schoolConflict(featureContextAt(chores, child, 10, 0)), 1e-9)
	assert.Zero(t, schoolConflict(featureContextAt(chores, child, 15, 0)))

	school := Task{Title: "Школа", Category: CategoryLearning}
	assert.Zero(t, schoolConflict(featureContextAt(school, child, 10, 0)))

	adult := NormalizeEnvironment(Settings{}, ProfileAdult, time.Date(2024, 3, 13, 0, 0, 0, 0, time.UTC))
	assert.Zero(t, schoolConflict(featureContextAt(chores, adult, 10, 0)))
}

func TestSleepConflictFeature(t *testing.T) {
	env := NormalizeEnvironment(Settings{}, ProfileAdult, time.Date(2024, 3, 13, 0, 0, 0, 0, time.UTC))
	task := Task{Category: CategoryRelaxing}

	assert.InDelta(t, -1, sleepConflict(featureContextAt(task, env, 23, 0)), 1e-9)
	assert.InDelta(t, -1, sleepConflict(featureContextAt(task, env, 6, 0)), 1e-9)
	assert.Zero(t, sleepConflict(featureContextAt(task, env, 12, 0)))
}

func TestActivityTargetGapFeature(t *testing.T) {
	child := NormalizeEnvironment(Settings{}, ProfileChild, time.Date(2024, 3, 13, 0, 0, 0, 0, time.UTC))
	walk := Task{Title: "Прогулка", Category: CategoryOutdoor}

	below := featureContextAt(walk, child, 15, 0)
	below.ActivityMinutes = 30
	assert.InDelta(t, 1, activityTargetGap(below), 1e-9)

	met := featureContextAt(walk, child, 15, 0)
	met.ActivityMinutes = 60
	assert.Zero(t, activityTargetGap(met))

	adult := NormalizeEnvironment(Settings{}, ProfileAdult, time.Date(2024, 3, 13, 0, 0, 0, 0, time.UTC))
	assert.Zero(t, activityTargetGap(featureContextAt(walk, adult, 15, 0)))
}

func TestHomeworkEveningPenaltyBands(t *testing.T) {
	child := NormalizeEnvironment(Settings{}, ProfileChild, time.Date(2024, 3, 13, 0, 0, 0, 0, time.UTC))
	homework := Task{Title: "Домашняя работа", Category: CategoryLearning}

	assert.Zero(t, homeworkEveningPenalty(featureContextAt(homework, child, 16, 0)))
	assert.InDelta(t, -0.5, homeworkEveningPenalty(featureContextAt(homework, child, 19, 30)), 1e-9)
	assert.InDelta(t, -1, homeworkEveningPenalty(featureContextAt(homework, child, 20, 15)), 1e-9)

	adult := NormalizeEnvironment(Settings{}, ProfileAdult, time.Date(2024, 3, 13, 0, 0, 0, 0, time.UTC))
	assert.Zero(t, homeworkEveningPenalty(featureContextAt(homework, adult, 21, 0)))
}

func TestGamesMorningPenaltyBands(t *testing.T) {
	env := NormalizeEnvironment(Settings{}, ProfileChild, time.Date(2024, 3, 13, 0, 0, 0, 0, time.UTC))
	games := Task{Title: "Игра", Category: CategoryGames}

	assert.InDelta(t, -1, gamesMorningPenalty(featureContextAt(games, env, 9, 0)), 1e-9)
	assert.InDelta(t, -0.5, gamesMorningPenalty(featureContextAt(games, env, 13, 0)), 1e-9)
	assert.InDelta(t, 0.5, gamesMorningPenalty(featureContextAt(games, env, 18, 0)), 1e-9)
	assert.Zero(t, gamesMorningPenalty(featureContextAt(games, env, 16, 0)))
	assert.Zero(t, gamesMorningPenalty(featureContextAt(Task{Category: CategoryDeepWork}, env, 9, 0)))
}

func TestDescribeFeatures(t *testing.T) {
	described := DescribeFeatures([]float64{0.5, 0.25})
	assert.InDelta(t, 0.5, described["circadian_fit"], 1e-9)
	assert.InDelta(t, 0.25, described["deadline_pressure"], 1e-9)
	assert.Zero(t, described["sleep_conflict"], "missing trailing components read as zero")
	assert.Len(t, described, FeatureCount)
}
