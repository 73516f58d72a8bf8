package scheduler

import (
	"math"
	"sort"
	"time"
)

const (
	// DefaultMinChunkMinutes is the smallest piece a divisible task may
	// be split into when the task does not override it.
	DefaultMinChunkMinutes = 30

	// secondSegmentPenalty is subtracted from the raw average utility of
	// a split task's secondary block.
	secondSegmentPenalty = -0.2
)

type slotEvaluation struct {
	index    int
	features []float64
	utility  float64
}

type windowPlan struct {
	indexes        []int
	averageUtility float64
	features       []float64
}

// slotAdmissible applies every hard constraint to one candidate slot.
// Fixed-time tasks skip the soft-blocking windows: the user's explicit
// time wins over sleep, meal, and school exclusivity.
func slotAdmissible(task Task, meta TaskMetadata, slot *Slot, env Environment, fixed bool) bool {
	if task.FixedStart != nil {
		diff := task.FixedStart.Sub(slot.Start)
		if diff < 0 {
			diff = -diff
		}
		if diff >= SlotMinutes*time.Minute {
			return false
		}
	}

	if task.Deadline != nil && !slot.Start.Before(*task.Deadline) {
		return false
	}

	start := minuteOfDay(slot.Start)
	end := minuteOfDay(slot.End)

	// Meals are only ever admissible inside their own window.
	if meta.IsMealTask {
		window, ok := env.MealWindowFor(meta.MealType)
		if !ok || !insideWindow(start, end, window.Window) {
			return false
		}
	}

	// The school activity itself must stay inside the school window on
	// school days; the mandatory phase places it there before meals, so
	// it is exempt from meal-window exclusivity.
	if meta.IsSchoolActivity && env.SchoolDay() {
		inSchool := false
		for _, window := range env.School {
			if insideWindow(start, end, window) {
				inSchool = true
				break
			}
		}
		if !inSchool {
			return false
		}
	}

	if fixed {
		return true
	}

	if wrappedOverlapMinutes(start, end, env.Sleep.StartMinutes, env.Sleep.EndMinutes) > 0 {
		return false
	}

	if !meta.IsMealTask && !meta.IsSchoolActivity {
		for _, meal := range env.Meals {
			if insideWindow(start, end, meal.Window) {
				return false
			}
		}
	}

	if env.SchoolDay() && !meta.IsSchoolActivity {
		for _, window := range env.School {
			if insideWindow(start, end, window) {
				return false
			}
		}
	}

	return true
}

func admissibleIndexes(task Task, meta TaskMetadata, slots []Slot, env Environment, fixed bool) []int {
	indexes := make([]int, 0, len(slots))
	for i := range slots {
		if slotAdmissible(task, meta, &slots[i], env, fixed) {
			indexes = append(indexes, i)
		}
	}
	return indexes
}

func neighborCategory(slots []Slot, index int) (Category, bool) {
	if index < 0 || index >= len(slots) {
		return "", false
	}
	if !slots[index].Occupied() {
		return "", false
	}
	return slots[index].Category, true
}

// evaluateSlots scores every free admissible slot for one task and
// returns the evaluations sorted by utility descending (ties broken by
// earliest index) along with an index lookup map.
func evaluateSlots(
	task Task,
	meta TaskMetadata,
	slots []Slot,
	available []int,
	env Environment,
	weights []float64,
	history History,
	minutesScheduled int,
	activityMinutes int,
) ([]slotEvaluation, map[int]slotEvaluation) {
	evaluations := make([]slotEvaluation, 0, len(available))
	byIndex := make(map[int]slotEvaluation, len(available))

	for _, index := range available {
		slot := &slots[index]
		if slot.Occupied() {
			continue
		}
		before, hasBefore := neighborCategory(slots, index-1)
		after, hasAfter := neighborCategory(slots, index+1)

		features := ExtractFeatures(FeatureContext{
			Task:             task,
			Meta:             meta,
			SlotStart:        slot.Start,
			SlotEnd:          slot.End,
			Env:              env,
			History:          history,
			NeighborBefore:   before,
			NeighborAfter:    after,
			HasBefore:        hasBefore,
			HasAfter:         hasAfter,
			MinutesScheduled: minutesScheduled,
			ActivityMinutes:  activityMinutes,
		})

		evaluation := slotEvaluation{
			index:    index,
			features: features,
			utility:  Utility(weights, features),
		}
		evaluations = append(evaluations, evaluation)
		byIndex[index] = evaluation
	}

	sort.Slice(evaluations, func(i, j int) bool {
		if evaluations[i].utility != evaluations[j].utility {
			return evaluations[i].utility > evaluations[j].utility
		}
		return evaluations[i].index < evaluations[j].index
	})

	return evaluations, byIndex
}

// buildRuns partitions slot indexes into maximal contiguous ascending
// runs.
func buildRuns(indexes []int) [][]int {
	sorted := make([]int, len(indexes))
	copy(sorted, indexes)
	sort.Ints(sorted)

	var runs [][]int
	var current []int
	for _, index := range sorted {
		if len(current) == 0 || index == current[len(current)-1]+1 {
			current = append(current, index)
			continue
		}
		runs = append(runs, current)
		current = []int{index}
	}
	if len(current) > 0 {
		runs = append(runs, current)
	}
	return runs
}

// bestWindowWithinRun finds the window of exactly length consecutive
// slots inside one run maximizing average utility. Ties resolve to the
// earliest start. requireIndex < 0 disables the containment filter.
func bestWindowWithinRun(run []int, length int, byIndex map[int]slotEvaluation, requireIndex int) *windowPlan {
	if length <= 0 || len(run) < length {
		return nil
	}

	var best *windowPlan
	for start := 0; start+length <= len(run); start++ {
		window := run[start : start+length]
		if requireIndex >= 0 && !containsIndex(window, requireIndex) {
			continue
		}

		sum := 0.0
		featureSums := make([]float64, FeatureCount)
		valid := true
		for _, index := range window {
			evaluation, ok := byIndex[index]
			if !ok {
				valid = false
				break
			}
			sum += evaluation.utility
			for i, value := range evaluation.features {
				featureSums[i] += value
			}
		}
		if !valid {
			continue
		}

		average := sum / float64(length)
		if best != nil && average <= best.averageUtility {
			continue
		}
		features := make([]float64, FeatureCount)
		for i := range featureSums {
			features[i] = featureSums[i] / float64(length)
		}
		indexes := make([]int, length)
		copy(indexes, window)
		best = &windowPlan{indexes: indexes, averageUtility: average, features: features}
	}
	return best
}

func bestWindowAcrossRuns(runs [][]int, length int, byIndex map[int]slotEvaluation) *windowPlan {
	var best *windowPlan
	for _, run := range runs {
		candidate := bestWindowWithinRun(run, length, byIndex, -1)
		if candidate == nil {
			continue
		}
		if best == nil ||
			candidate.averageUtility > best.averageUtility ||
			(candidate.averageUtility == best.averageUtility && candidate.indexes[0] < best.indexes[0]) {
			best = candidate
		}
	}
	return best
}

func containsIndex(window []int, index int) bool {
	for _, candidate := range window {
		if candidate == index {
			return true
		}
	}
	return false
}

func markOccupied(slots []Slot, indexes []int, taskID string, category Category) {
	for _, index := range indexes {
		slots[index].TaskID = taskID
		slots[index].Category = category
	}
}

func requiredSlotCount(estimatedMinutes int) int {
	count := (estimatedMinutes + SlotMinutes - 1) / SlotMinutes
	if count < 1 {
		count = 1
	}
	return count
}

// placeFixed locates a fixed-start task at the slot nearest its anchor
// time and extends forward, checking hard constraints only. Fixed time
// is authoritative: no soft-preference ranking participates.
func placeFixed(
	task Task,
	meta TaskMetadata,
	slots []Slot,
	env Environment,
	weights []float64,
	history History,
	minutesScheduled int,
	activityMinutes int,
) []Segment {
	anchor := *task.FixedStart
	bestIndex := -1
	bestDistance := time.Duration(math.MaxInt64)
	for i := range slots {
		distance := anchor.Sub(slots[i].Start)
		if distance < 0 {
			distance = -distance
		}
		// The slot containing the timestamp beats nearest-by-distance.
		contains := !anchor.Before(slots[i].Start) && anchor.Before(slots[i].End)
		if contains {
			bestIndex = i
			break
		}
		if distance < bestDistance {
			bestDistance = distance
			bestIndex = i
		}
	}
	if bestIndex < 0 {
		return nil
	}
	offset := anchor.Sub(slots[bestIndex].Start)
	if offset < 0 {
		offset = -offset
	}
	if offset > SlotMinutes*time.Minute {
		return nil
	}

	required := requiredSlotCount(task.EstimatedMinutes)
	indexes := make([]int, 0, required)
	for index := bestIndex; index < len(slots) && len(indexes) < required; index++ {
		slot := &slots[index]
		if slot.Occupied() {
			return nil
		}
		if task.Deadline != nil && !slot.Start.Before(*task.Deadline) {
			return nil
		}
		if meta.IsMealTask {
			window, ok := env.MealWindowFor(meta.MealType)
			if !ok || !insideWindow(minuteOfDay(slot.Start), minuteOfDay(slot.End), window.Window) {
				return nil
			}
		}
		indexes = append(indexes, index)
	}
	if len(indexes) < required {
		return nil
	}

	_, byIndex := evaluateSlots(task, meta, slots, indexes, env, weights, history, minutesScheduled, activityMinutes)
	plan := bestWindowWithinRun(indexes, required, byIndex, -1)
	if plan == nil {
		return nil
	}

	markOccupied(slots, plan.indexes, task.ID, task.Category)
	return []Segment{buildSegment(task, slots, plan.indexes, plan.averageUtility, plan.features)}
}

// scheduleTask runs the greedy placement for one task against the
// shared slot grid, occupying consumed slots on success. Zero segments
// means the task could not be placed; the run continues.
func scheduleTask(
	task Task,
	meta TaskMetadata,
	slots []Slot,
	env Environment,
	weights []float64,
	history History,
	minutesScheduled int,
	activityMinutes int,
) []Segment {
	if task.FixedStart != nil {
		return placeFixed(task, meta, slots, env, weights, history, minutesScheduled, activityMinutes)
	}

	admissible := admissibleIndexes(task, meta, slots, env, false)
	available := admissible[:0:0]
	for _, index := range admissible {
		if !slots[index].Occupied() {
			available = append(available, index)
		}
	}
	if len(available) == 0 {
		return nil
	}

	evaluations, byIndex := evaluateSlots(task, meta, slots, available, env, weights, history, minutesScheduled, activityMinutes)
	if len(evaluations) == 0 {
		return nil
	}

	required := requiredSlotCount(task.EstimatedMinutes)
	runs := buildRuns(available)

	if meta.Indivisible {
		plan := bestWindowAcrossRuns(runs, required, byIndex)
		if plan == nil {
			return nil
		}
		markOccupied(slots, plan.indexes, task.ID, task.Category)
		return []Segment{buildSegment(task, slots, plan.indexes, plan.averageUtility, plan.features)}
	}

	minChunkMinutes := task.MinChunkMinutes
	if minChunkMinutes <= 0 {
		minChunkMinutes = DefaultMinChunkMinutes
	}
	minChunkSlots := (minChunkMinutes + SlotMinutes - 1) / SlotMinutes
	if minChunkSlots < 1 {
		minChunkSlots = 1
	}

	for _, candidate := range evaluations {
		run := runContaining(runs, candidate.index)
		if run == nil {
			continue
		}

		firstLength := len(run)
		if firstLength > required {
			firstLength = required
		}

		if required >= minChunkSlots {
			if firstLength < minChunkSlots {
				continue
			}
			// Shrink the first block so the remainder is either zero or
			// at least one full minimum chunk.
			for required-firstLength > 0 && required-firstLength < minChunkSlots {
				firstLength--
			}
			if firstLength < minChunkSlots {
				continue
			}
		}

		primary := bestWindowWithinRun(run, firstLength, byIndex, candidate.index)
		if primary == nil {
			continue
		}

		remaining := required - len(primary.indexes)
		var secondary *windowPlan
		if remaining > 0 {
			if required < minChunkSlots || remaining < minChunkSlots {
				continue
			}
			used := make(map[int]bool, len(primary.indexes))
			for _, index := range primary.indexes {
				used[index] = true
			}
			leftover := make([]int, 0, len(available))
			for _, index := range available {
				if !used[index] {
					leftover = append(leftover, index)
				}
			}
			secondary = bestWindowAcrossRuns(buildRuns(leftover), remaining, byIndex)
			if secondary == nil {
				continue
			}
		}

		markOccupied(slots, primary.indexes, task.ID, task.Category)
		segments := []Segment{buildSegment(task, slots, primary.indexes, primary.averageUtility, primary.features)}
		if secondary != nil {
			markOccupied(slots, secondary.indexes, task.ID, task.Category)
			segments = append(segments, buildSegment(task, slots, secondary.indexes, secondary.averageUtility+secondSegmentPenalty, secondary.features))
		}
		return segments
	}

	return nil
}

func runContaining(runs [][]int, index int) []int {
	for _, run := range runs {
		if len(run) > 0 && index >= run[0] && index <= run[len(run)-1] {
			return run
		}
	}
	return nil
}

func buildSegment(task Task, slots []Slot, indexes []int, score float64, features []float64) Segment {
	sorted := make([]int, len(indexes))
	copy(sorted, indexes)
	sort.Ints(sorted)
	start := slots[sorted[0]].Start
	return Segment{
		TaskID:   task.ID,
		Title:    task.Title,
		Category: task.Category,
		Start:    start,
		End:      start.Add(time.Duration(len(sorted)*SlotMinutes) * time.Minute),
		Score:    score,
		Features: features,
	}
}
