package scheduler

import "time"

// Category classifies a task for circadian curves and habit tracking.
type Category string

const (
	CategoryHealthcare Category = "Healthcare"
	CategorySport      Category = "Sport activity"
	CategoryDeepWork   Category = "Deep work"
	CategoryErrands    Category = "Admin/Errands"
	CategoryLearning   Category = "Learning"
	CategorySocial     Category = "Social"
	CategoryHousehold  Category = "Household"
	CategoryCreative   Category = "Creative"
	CategoryRelaxing   Category = "Relaxing"
	CategoryGames      Category = "Games"
	CategoryOutdoor    Category = "Outdoor Play"
	CategoryCommute    Category = "Commute"
	CategoryOther      Category = "Other"
)

// Categories lists every supported task category.
var Categories = []Category{
	CategoryHealthcare,
	CategorySport,
	CategoryDeepWork,
	CategoryErrands,
	CategoryLearning,
	CategorySocial,
	CategoryHousehold,
	CategoryCreative,
	CategoryRelaxing,
	CategoryGames,
	CategoryOutdoor,
	CategoryCommute,
	CategoryOther,
}

// Valid reports whether c is one of the supported categories.
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// MealType identifies one of the three daily meals.
type MealType string

const (
	MealBreakfast MealType = "breakfast"
	MealLunch     MealType = "lunch"
	MealDinner    MealType = "dinner"
)

// MealTypes in chronological order.
var MealTypes = []MealType{MealBreakfast, MealLunch, MealDinner}

// Profile selects the rule set applied during scheduling.
type Profile string

const (
	ProfileAdult Profile = "adult"
	ProfileChild Profile = "child-school-age"
)

// Task is an immutable input to one scheduling run.
type Task struct {
	ID               string
	Title            string
	Description      string
	Category         Category
	EstimatedMinutes int
	Priority         float64
	Deadline         *time.Time
	FixedStart       *time.Time
	MealType         MealType
	MinChunkMinutes  int
}

// Segment is one scheduled contiguous block assigned to a task.
type Segment struct {
	TaskID   string
	Title    string
	Category Category
	Start    time.Time
	End      time.Time
	Score    float64
	Features []float64
}

// Minutes returns the segment duration in minutes.
func (s Segment) Minutes() int {
	return int(s.End.Sub(s.Start) / time.Minute)
}

// History carries per-category historical start minutes used by the
// habit alignment feature.
type History map[Category][]int

// MealOffsets shift the default meal windows, clamped to ±30 minutes.
type MealOffsets struct {
	Breakfast int
	Lunch     int
	Dinner    int
}

// Settings are the user preferences a run is normalized from.
type Settings struct {
	SleepStart            string // HH:MM
	SleepEnd              string // HH:MM
	WorkStart             string // HH:MM
	WorkEnd               string // HH:MM
	MealOffsets           MealOffsets
	ActivityTargetMinutes *int
}

// Input is the immutable snapshot one scheduling run computes from.
type Input struct {
	Date     time.Time // midnight of the scheduled day
	Tasks    []Task
	Weights  []float64
	Settings Settings
	History  History
	Profile  Profile
}

// Result is the outcome of one scheduling run. Warnings report tasks
// that could not be placed; they are never errors.
type Result struct {
	Segments []Segment
	Warnings []string
}

// FeedbackExample pairs a stored feature snapshot with a binary label:
// 1 means the user kept the placement, 0 means it was rejected or moved.
type FeedbackExample struct {
	Features []float64
	Label    int
}
