package scheduler

import "time"

// SlotMinutes is the fixed width of one timeline slot.
const SlotMinutes = 15

// MinutesInDay is the length of the scheduling horizon.
const MinutesInDay = 24 * 60

// Slot is one fixed-width cell of the day grid. Occupancy is mutated in
// place by the placement engine; index arithmetic encodes adjacency.
type Slot struct {
	Index    int
	Start    time.Time
	End      time.Time
	TaskID   string
	Category Category
}

// Occupied reports whether a task already claimed this slot.
func (s *Slot) Occupied() bool {
	return s.TaskID != ""
}

// BuildDayGrid partitions the calendar day starting at dayStart into
// contiguous SlotMinutes-wide slots. The result has no gaps and no
// overlaps and is safe to mutate by the caller.
func BuildDayGrid(dayStart time.Time) []Slot {
	count := MinutesInDay / SlotMinutes
	slots := make([]Slot, count)
	for i := 0; i < count; i++ {
		start := dayStart.Add(time.Duration(i*SlotMinutes) * time.Minute)
		slots[i] = Slot{
			Index: i,
			Start: start,
			End:   start.Add(SlotMinutes * time.Minute),
		}
	}
	return slots
}

func minuteOfDay(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}

func decimalHour(t time.Time) float64 {
	return float64(t.Hour()) + float64(t.Minute())/60
}

func overlapMinutes(aStart, aEnd, bStart, bEnd int) int {
	start := aStart
	if bStart > start {
		start = bStart
	}
	end := aEnd
	if bEnd < end {
		end = bEnd
	}
	if end <= start {
		return 0
	}
	return end - start
}
