package scheduler

import (
	"strconv"
	"strings"
	"time"
)

// MealOffsetLimitMinutes bounds how far users may shift a meal window.
const MealOffsetLimitMinutes = 30

// Window is a normalized minute-of-day interval. Start may exceed End
// for windows that wrap midnight (sleep).
type Window struct {
	StartMinutes int
	EndMinutes   int
}

// MealWindow ties a normalized window to its meal.
type MealWindow struct {
	Type MealType
	Window
}

// Environment is the per-run normalization of user settings. Derived
// once, read-only afterwards.
type Environment struct {
	Profile               Profile
	Meals                 []MealWindow
	School                []Window
	Sleep                 Window
	Weekday               time.Weekday
	ActivityTargetMinutes int
}

// SchoolDay reports whether the school window applies on this run's day.
func (e Environment) SchoolDay() bool {
	return e.Profile == ProfileChild && e.Weekday != time.Saturday && e.Weekday != time.Sunday
}

// MealWindowFor returns the window configured for the given meal.
func (e Environment) MealWindowFor(meal MealType) (MealWindow, bool) {
	for _, w := range e.Meals {
		if w.Type == meal {
			return w, true
		}
	}
	return MealWindow{}, false
}

type mealWindowDefinition struct {
	Type              MealType
	BaseStartMinutes  int
	BaseEndMinutes    int
	SuggestedDuration int
}

var defaultMealWindows = []mealWindowDefinition{
	{Type: MealBreakfast, BaseStartMinutes: 7 * 60, BaseEndMinutes: 8*60 + 30, SuggestedDuration: 30},
	{Type: MealLunch, BaseStartMinutes: 12 * 60, BaseEndMinutes: 14 * 60, SuggestedDuration: 40},
	{Type: MealDinner, BaseStartMinutes: 18 * 60, BaseEndMinutes: 20*60 + 30, SuggestedDuration: 40},
}

var childSchoolWindow = Window{StartMinutes: 8*60 + 30, EndMinutes: 13*60 + 15}

var activityTargetByProfile = map[Profile]int{
	ProfileAdult: 0,
	ProfileChild: 60,
}

// NormalizeEnvironment converts raw user settings into minute-of-day
// windows for one calendar day.
func NormalizeEnvironment(settings Settings, profile Profile, date time.Time) Environment {
	if profile != ProfileChild {
		profile = ProfileAdult
	}
	env := Environment{
		Profile:               profile,
		Meals:                 normalizeMealWindows(settings.MealOffsets),
		Sleep:                 normalizeSleepWindow(settings),
		Weekday:               date.Weekday(),
		ActivityTargetMinutes: resolveActivityTarget(profile, settings),
	}
	if profile == ProfileChild {
		env.School = []Window{childSchoolWindow}
	}
	return env
}

func normalizeMealWindows(offsets MealOffsets) []MealWindow {
	shift := func(base mealWindowDefinition, offset int) MealWindow {
		offset = clampInt(offset, -MealOffsetLimitMinutes, MealOffsetLimitMinutes)
		return MealWindow{
			Type: base.Type,
			Window: Window{
				StartMinutes: clampInt(base.BaseStartMinutes+offset, 0, MinutesInDay),
				EndMinutes:   clampInt(base.BaseEndMinutes+offset, 0, MinutesInDay),
			},
		}
	}
	return []MealWindow{
		shift(defaultMealWindows[0], offsets.Breakfast),
		shift(defaultMealWindows[1], offsets.Lunch),
		shift(defaultMealWindows[2], offsets.Dinner),
	}
}

func normalizeSleepWindow(settings Settings) Window {
	return Window{
		StartMinutes: parseClockMinutes(settings.SleepStart, 22*60+30),
		EndMinutes:   parseClockMinutes(settings.SleepEnd, 7*60),
	}
}

func resolveActivityTarget(profile Profile, settings Settings) int {
	if settings.ActivityTargetMinutes != nil {
		return *settings.ActivityTargetMinutes
	}
	return activityTargetByProfile[profile]
}

func suggestedMealDuration(meal MealType) int {
	for _, def := range defaultMealWindows {
		if def.Type == meal {
			return def.SuggestedDuration
		}
	}
	return 30
}

// parseClockMinutes parses "HH:MM" into minutes since midnight, falling
// back when the value is missing or malformed.
func parseClockMinutes(raw string, fallback int) int {
	parts := strings.SplitN(strings.TrimSpace(raw), ":", 2)
	if len(parts) != 2 {
		return fallback
	}
	hours, err := strconv.Atoi(parts[0])
	if err != nil {
		return fallback
	}
	minutes, err := strconv.Atoi(parts[1])
	if err != nil {
		return fallback
	}
	if hours < 0 || hours > 23 || minutes < 0 || minutes > 59 {
		return fallback
	}
	return hours*60 + minutes
}

// wrappedOverlapMinutes handles windows that cross midnight.
func wrappedOverlapMinutes(aStart, aEnd, wrapStart, wrapEnd int) int {
	if wrapStart <= wrapEnd {
		return overlapMinutes(aStart, aEnd, wrapStart, wrapEnd)
	}
	return overlapMinutes(aStart, aEnd, wrapStart, MinutesInDay) +
		overlapMinutes(aStart, aEnd, 0, wrapEnd)
}

func insideWindow(start, end int, w Window) bool {
	return overlapMinutes(start, end, w.StartMinutes, w.EndMinutes) > 0
}

func clampInt(value, min, max int) int {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

func clampFloat(value, min, max float64) float64 {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}
