// Package scheduler implements the daily planning core: a two-phase
// greedy placement engine over a fixed-width slot grid, ranked by a
// linear model over per-slot features, plus the online learner that
// trains the model from user feedback.
//
// The package is pure: no I/O, no clocks, no shared state between runs.
// One call to Generate owns its slot grid and weight snapshot, so
// callers may schedule many users or days concurrently.
package scheduler

import (
	"fmt"
	"sort"
	"time"
)

// MaxTasksPerDay bounds one scheduling run.
const MaxTasksPerDay = 50

var autoMealTitles = map[MealType]string{
	MealBreakfast: "Завтрак",
	MealLunch:     "Обед",
	MealDinner:    "Ужин",
}

// Generate computes one user's schedule for one day from an immutable
// snapshot of inputs. Tasks that cannot be placed are reported in
// Result.Warnings, never as errors.
func Generate(input Input) Result {
	profile := input.Profile
	if profile != ProfileChild {
		profile = ProfileAdult
	}

	weights := input.Weights
	if len(weights) == 0 {
		weights = DefaultWeights(profile)
	} else {
		weights = ReconcileWeights(weights, FeatureCount)
	}

	if len(input.Tasks) == 0 {
		return Result{Warnings: []string{"no tasks available for scheduling"}}
	}

	env := NormalizeEnvironment(input.Settings, profile, input.Date)
	slots := BuildDayGrid(input.Date)

	tasks := append([]Task(nil), input.Tasks...)
	tasks = append(tasks, synthesizeMealTasks(tasks, env)...)

	metadata := make(map[string]TaskMetadata, len(tasks))
	for _, task := range tasks {
		metadata[task.ID] = AnalyzeTask(task)
	}

	phase0, phase1 := splitPhases(tasks, metadata, env)
	sortMandatory(phase0, metadata, env)

	var scheduled []Segment
	place := func(task Task) []Segment {
		meta := metadata[task.ID]
		minutes, activity := runningTotals(scheduled, metadata)
		return scheduleTask(task, meta, slots, env, weights, input.History, minutes, activity)
	}

	for _, task := range phase0 {
		scheduled = append(scheduled, place(task)...)
	}

	for _, entry := range orderByUrgency(phase1, metadata, slots, env) {
		scheduled = append(scheduled, place(entry.task)...)
	}

	sort.Slice(scheduled, func(i, j int) bool {
		return scheduled[i].Start.Before(scheduled[j].Start)
	})

	return Result{
		Segments: scheduled,
		Warnings: unplacedWarnings(input.Tasks, scheduled),
	}
}

// synthesizeMealTasks creates placeholder meal tasks for meal windows
// the user left uncovered, so meals always participate in the mandatory
// phase.
func synthesizeMealTasks(tasks []Task, env Environment) []Task {
	covered := make(map[MealType]bool, 3)
	for _, task := range tasks {
		meta := AnalyzeTask(task)
		if meta.MealType != "" {
			covered[meta.MealType] = true
		}
	}

	var synthesized []Task
	for _, meal := range MealTypes {
		if covered[meal] {
			continue
		}
		if _, ok := env.MealWindowFor(meal); !ok {
			continue
		}
		synthesized = append(synthesized, Task{
			ID:               fmt.Sprintf("auto-meal-%s", meal),
			Title:            autoMealTitles[meal],
			Category:         CategoryOther,
			EstimatedMinutes: suggestedMealDuration(meal),
			Priority:         1.0,
			MealType:         meal,
		})
	}
	return synthesized
}

// splitPhases separates mandatory tasks (fixed-time, school activity on
// school days, meals) from regular ones.
func splitPhases(tasks []Task, metadata map[string]TaskMetadata, env Environment) (phase0, phase1 []Task) {
	for _, task := range tasks {
		meta := metadata[task.ID]
		switch {
		case task.FixedStart != nil:
			phase0 = append(phase0, task)
		case meta.IsSchoolActivity && env.SchoolDay():
			phase0 = append(phase0, task)
		case meta.IsMealTask:
			phase0 = append(phase0, task)
		default:
			phase1 = append(phase1, task)
		}
	}
	return phase0, phase1
}

// sortMandatory orders the mandatory phase: fixed-time tasks by start,
// then the school activity, then meals by window start. Mandatory
// placements occupy slots immediately, so this order is the authority
// for contested slots.
func sortMandatory(tasks []Task, metadata map[string]TaskMetadata, env Environment) {
	rank := func(task Task) int {
		meta := metadata[task.ID]
		switch {
		case task.FixedStart != nil:
			return 0
		case meta.IsSchoolActivity && env.SchoolDay():
			return 1
		default:
			return 2
		}
	}

	sort.SliceStable(tasks, func(i, j int) bool {
		ri, rj := rank(tasks[i]), rank(tasks[j])
		if ri != rj {
			return ri < rj
		}
		if ri == 0 {
			return tasks[i].FixedStart.Before(*tasks[j].FixedStart)
		}
		if ri == 2 {
			wi, oki := env.MealWindowFor(metadata[tasks[i].ID].MealType)
			wj, okj := env.MealWindowFor(metadata[tasks[j].ID].MealType)
			if oki && okj {
				return wi.StartMinutes < wj.StartMinutes
			}
		}
		return false
	})
}

type urgencyEntry struct {
	task    Task
	urgency float64
}

// orderByUrgency ranks regular tasks by priority x maximum achievable
// deadline pressure, with deterministic tie-breaks down to the title.
func orderByUrgency(tasks []Task, metadata map[string]TaskMetadata, slots []Slot, env Environment) []urgencyEntry {
	entries := make([]urgencyEntry, 0, len(tasks))
	for _, task := range tasks {
		meta := metadata[task.ID]
		admissible := admissibleIndexes(task, meta, slots, env, task.FixedStart != nil)
		entries = append(entries, urgencyEntry{
			task:    task,
			urgency: task.Priority * maxDeadlinePressure(task, admissible, slots),
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.urgency != b.urgency {
			return a.urgency > b.urgency
		}
		if a.task.Priority != b.task.Priority {
			return a.task.Priority > b.task.Priority
		}
		da, db := deadlineOrInfinity(a.task), deadlineOrInfinity(b.task)
		if !da.Equal(db) {
			return da.Before(db)
		}
		return a.task.Title < b.task.Title
	})
	return entries
}

var farFuture = time.Unix(1<<40, 0)

func deadlineOrInfinity(task Task) time.Time {
	if task.Deadline == nil {
		return farFuture
	}
	return *task.Deadline
}

// maxDeadlinePressure evaluates the deadline pressure the task could
// reach at its earliest admissible slot.
func maxDeadlinePressure(task Task, admissible []int, slots []Slot) float64 {
	if task.Deadline == nil || len(admissible) == 0 {
		return 0
	}
	earliest := admissible[0]
	for _, index := range admissible[1:] {
		if index < earliest {
			earliest = index
		}
	}
	return deadlinePressure(FeatureContext{Task: task, SlotStart: slots[earliest].Start})
}

func runningTotals(segments []Segment, metadata map[string]TaskMetadata) (minutesScheduled, activityMinutes int) {
	for _, segment := range segments {
		minutes := segment.Minutes()
		minutesScheduled += minutes
		if metadata[segment.TaskID].QualifiesForActivity {
			activityMinutes += minutes
		}
	}
	return minutesScheduled, activityMinutes
}

// unplacedWarnings reports user tasks (not synthesized meals) that got
// zero segments.
func unplacedWarnings(tasks []Task, segments []Segment) []string {
	placed := make(map[string]bool, len(segments))
	for _, segment := range segments {
		placed[segment.TaskID] = true
	}
	var warnings []string
	for _, task := range tasks {
		if !placed[task.ID] {
			warnings = append(warnings, fmt.Sprintf("could not schedule %q", task.Title))
		}
	}
	return warnings
}
