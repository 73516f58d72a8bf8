package scheduler

import (
	"math"
	"regexp"
	"strings"
	"time"
)

// FeatureKeys names the feature vector components in extraction order.
var FeatureKeys = []string{
	"circadian_fit",
	"deadline_pressure",
	"priority",
	"context_switch",
	"daily_load",
	"habit_alignment",
	"meal_conflict",
	"school_conflict",
	"sleep_conflict",
	"activity_target_gap",
	"homework_evening_penalty",
	"games_morning_penalty",
}

// FeatureCount is the fixed feature vector length.
var FeatureCount = len(FeatureKeys)

// Indexes of the hard-constraint features masked by the learner.
const (
	featureMealConflict   = 6
	featureSchoolConflict = 7
	featureSleepConflict  = 8
)

// HardConstraintFeatureIndexes lists the feature slots representing hard
// rules (meal, school, sleep conflicts).
var HardConstraintFeatureIndexes = []int{featureMealConflict, featureSchoolConflict, featureSleepConflict}

// Title patterns used when the task carries no explicit metadata. The
// product ships with Russian-language task titles.
var (
	homeworkPattern = regexp.MustCompile(`(?i)домашн(яя|ее|ие)\s*(работа|задани)|дз\b|учить|задани`)
	gamesPattern    = regexp.MustCompile(`(?i)игра?(ть)?|майнкрафт|дота|кс\b|шутер|консоль`)
	schoolPattern   = regexp.MustCompile(`(?i)урок|школ|занят|репетиц`)
)

var mealPatterns = map[MealType]*regexp.Regexp{
	MealBreakfast: regexp.MustCompile(`(?i)завтрак`),
	MealLunch:     regexp.MustCompile(`(?i)обед`),
	MealDinner:    regexp.MustCompile(`(?i)ужин`),
}

// TaskMetadata captures the boolean sub-flags the feature extractor and
// placement engine key off.
type TaskMetadata struct {
	MealType             MealType
	IsMealTask           bool
	IsHomework           bool
	IsGamesTask          bool
	IsSchoolActivity     bool
	QualifiesForActivity bool
	Indivisible          bool
}

// AnalyzeTask derives metadata from the task's category, explicit meal
// type, and title/description patterns.
func AnalyzeTask(task Task) TaskMetadata {
	rawText := strings.ToLower(task.Title + " " + task.Description)
	rawText = strings.NewReplacer("ё", "е", "Ё", "е").Replace(rawText)

	mealType := task.MealType
	if mealType == "" {
		for _, meal := range MealTypes {
			if mealPatterns[meal].MatchString(task.Title) {
				mealType = meal
				break
			}
		}
	}

	isHomework := task.Category == CategoryLearning && homeworkPattern.MatchString(rawText)
	// A plain Learning task on the child profile stands in for the
	// school day itself unless the title marks it as homework.
	isSchool := task.Category == CategoryLearning &&
		(schoolPattern.MatchString(rawText) || !isHomework)

	meta := TaskMetadata{
		MealType:             mealType,
		IsMealTask:           mealType != "",
		IsHomework:           isHomework,
		IsGamesTask:          task.Category == CategoryGames || gamesPattern.MatchString(rawText),
		IsSchoolActivity:     isSchool,
		QualifiesForActivity: task.Category == CategoryRelaxing || task.Category == CategoryOutdoor,
	}
	meta.Indivisible = meta.IsMealTask || meta.IsSchoolActivity ||
		task.Category == CategorySport || task.Category == CategoryHousehold
	return meta
}

// FeatureContext is the full tuple one feature vector is computed from.
type FeatureContext struct {
	Task             Task
	Meta             TaskMetadata
	SlotStart        time.Time
	SlotEnd          time.Time
	Env              Environment
	History          History
	NeighborBefore   Category
	NeighborAfter    Category
	HasBefore        bool
	HasAfter         bool
	MinutesScheduled int
	ActivityMinutes  int
}

// ExtractFeatures computes the fixed-order 12-component feature vector
// for one (task, candidate slot) pair. Pure: identical inputs yield
// identical vectors.
func ExtractFeatures(ctx FeatureContext) []float64 {
	return []float64{
		circadianFit(ctx),
		deadlinePressure(ctx),
		clampFloat(ctx.Task.Priority, 0, 1),
		contextSwitch(ctx),
		dailyLoad(ctx),
		habitAlignment(ctx),
		mealConflict(ctx),
		schoolConflict(ctx),
		sleepConflict(ctx),
		activityTargetGap(ctx),
		homeworkEveningPenalty(ctx),
		gamesMorningPenalty(ctx),
	}
}

// DescribeFeatures maps a snapshot back onto named components. Vectors
// shorter than FeatureCount read as zero.
func DescribeFeatures(vector []float64) map[string]float64 {
	described := make(map[string]float64, FeatureCount)
	for i, key := range FeatureKeys {
		if i < len(vector) {
			described[key] = vector[i]
		} else {
			described[key] = 0
		}
	}
	return described
}

func circadianFit(ctx FeatureContext) float64 {
	start := minuteOfDay(ctx.SlotStart)
	end := minuteOfDay(ctx.SlotEnd)

	inOwnMealWindow := false
	if ctx.Meta.MealType != "" {
		if window, ok := ctx.Env.MealWindowFor(ctx.Meta.MealType); ok {
			inOwnMealWindow = insideWindow(start, end, window.Window)
		}
	}

	return clampFloat(circadianPreference(circadianContext{
		Category:        ctx.Task.Category,
		Hour:            decimalHour(ctx.SlotStart),
		IsHomework:      ctx.Meta.IsHomework,
		IsMealTask:      ctx.Meta.IsMealTask,
		InOwnMealWindow: inOwnMealWindow,
		IsGamesTask:     ctx.Meta.IsGamesTask,
	}), -1, 1)
}

// deadlinePressure follows 1 - e^(-Δh/τ) with τ of six hours; a passed
// deadline contributes nothing (the slot is already inadmissible).
func deadlinePressure(ctx FeatureContext) float64 {
	if ctx.Task.Deadline == nil {
		return 0
	}
	deltaHours := ctx.Task.Deadline.Sub(ctx.SlotStart).Hours()
	if deltaHours <= 0 {
		return 0
	}
	const tau = 6.0
	return clampFloat(1-math.Exp(-deltaHours/tau), 0, 1)
}

func contextSwitch(ctx FeatureContext) float64 {
	if !ctx.HasBefore && !ctx.HasAfter {
		return 0
	}
	mismatchBefore := ctx.HasBefore && ctx.NeighborBefore != ctx.Task.Category
	mismatchAfter := ctx.HasAfter && ctx.NeighborAfter != ctx.Task.Category
	if mismatchBefore || mismatchAfter {
		return -1
	}
	return 1
}

func dailyLoad(ctx FeatureContext) float64 {
	const comfortable = 360.0
	used := float64(ctx.MinutesScheduled)
	if used <= comfortable {
		return 0
	}
	return -math.Min(1, (used-comfortable)/120)
}

func habitAlignment(ctx FeatureContext) float64 {
	samples := ctx.History[ctx.Task.Category]
	if len(samples) == 0 {
		return 0
	}
	sum := 0
	for _, minutes := range samples {
		sum += minutes
	}
	average := float64(sum) / float64(len(samples))
	deviation := math.Abs(average - float64(minuteOfDay(ctx.SlotStart)))
	switch {
	case deviation <= SlotMinutes:
		return 1
	case deviation >= 240:
		return -1
	default:
		return clampFloat(1-deviation/240, -1, 1)
	}
}

func mealConflict(ctx FeatureContext) float64 {
	if len(ctx.Env.Meals) == 0 {
		return 0
	}
	start := minuteOfDay(ctx.SlotStart)
	end := minuteOfDay(ctx.SlotEnd)

	if ctx.Meta.IsMealTask {
		if window, ok := ctx.Env.MealWindowFor(ctx.Meta.MealType); ok && insideWindow(start, end, window.Window) {
			return 1
		}
		return -1
	}
	for _, meal := range ctx.Env.Meals {
		if insideWindow(start, end, meal.Window) {
			return -1
		}
	}
	return 0
}

func schoolConflict(ctx FeatureContext) float64 {
	if !ctx.Env.SchoolDay() || ctx.Meta.IsSchoolActivity {
		return 0
	}
	start := minuteOfDay(ctx.SlotStart)
	end := minuteOfDay(ctx.SlotEnd)
	for _, window := range ctx.Env.School {
		if insideWindow(start, end, window) {
			return -1
		}
	}
	return 0
}

func sleepConflict(ctx FeatureContext) float64 {
	start := minuteOfDay(ctx.SlotStart)
	end := minuteOfDay(ctx.SlotEnd)
	if wrappedOverlapMinutes(start, end, ctx.Env.Sleep.StartMinutes, ctx.Env.Sleep.EndMinutes) > 0 {
		return -1
	}
	return 0
}

func activityTargetGap(ctx FeatureContext) float64 {
	if !ctx.Meta.QualifiesForActivity || ctx.Env.Profile != ProfileChild {
		return 0
	}
	if ctx.ActivityMinutes < ctx.Env.ActivityTargetMinutes {
		return 1
	}
	return 0
}

func homeworkEveningPenalty(ctx FeatureContext) float64 {
	if !ctx.Meta.IsHomework || ctx.Env.Profile != ProfileChild {
		return 0
	}
	hour := decimalHour(ctx.SlotStart)
	switch {
	case hour >= 20:
		return -1
	case hour >= 19:
		return -0.5
	default:
		return 0
	}
}

func gamesMorningPenalty(ctx FeatureContext) float64 {
	if !ctx.Meta.IsGamesTask && ctx.Task.Category != CategoryGames {
		return 0
	}
	hour := decimalHour(ctx.SlotStart)
	switch {
	case hour < 12:
		return -1
	case hour >= 12 && hour < 15:
		return -0.5
	case hour >= 17 && hour <= 20:
		return 0.5
	default:
		return 0
	}
}
