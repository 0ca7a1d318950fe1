package schedule

import (
	"errors"
	"sort"
	"time"

	"github.com/harrisonrobin/timecoach/pkg/model"
)

// ErrNoFreeTime is returned by Pack when there is no free slot at all.
// The tasks are left untouched.
var ErrNoFreeTime = errors.New("no free time to schedule into")

// Result summarises one packing run.
type Result struct {
	// Free holds the gaps computed for the window before packing. Only set by Request.Run.
	Free []model.Interval
	// Remaining holds what is left of the free slots, in their post-packing order.
	Remaining []model.Interval

	Scheduled     int
	Unschedulable int
	// Skipped counts tasks that were not candidates: already scheduled or completed.
	Skipped int
}

// Prioritized returns the indexes of tasks in packing order: priority
// ascending, then duration descending. Ties keep the caller's order.
func Prioritized(tasks []model.Task) []int {
	order := make([]int, len(tasks))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		ta, tb := tasks[order[a]], tasks[order[b]]
		if ta.Priority != tb.Priority {
			return ta.Priority < tb.Priority
		}
		return ta.Duration > tb.Duration
	})
	return order
}

// Pack greedily assigns each unscheduled, uncompleted task to the first free
// slot wide enough for its duration plus buffer. Slots are ordered largest
// first once, up front, and are not re-sorted as they shrink. Tasks are
// mutated in place; tasks that fit nowhere stay unscheduled.
func Pack(tasks []model.Task, free []model.Interval, buffer time.Duration) (Result, error) {
	if len(free) == 0 {
		return Result{}, ErrNoFreeTime
	}

	slots := make([]model.Interval, len(free))
	copy(slots, free)
	sort.SliceStable(slots, func(i, j int) bool {
		return slots[i].Width() > slots[j].Width()
	})

	var res Result
	for _, idx := range Prioritized(tasks) {
		t := &tasks[idx]
		if t.Scheduled || t.Completed {
			res.Skipped++
			continue
		}

		needed := t.DurationTime() + buffer
		placed := false
		for i, slot := range slots {
			if slot.Width() < needed {
				continue
			}
			start := slot.Start
			end := start.Add(needed)
			t.StartTime = &start
			t.EndTime = &end
			t.Scheduled = true

			if !end.Before(slot.End) {
				slots = append(slots[:i], slots[i+1:]...)
			} else {
				slots[i] = model.Interval{Start: end, End: slot.End}
			}
			placed = true
			break
		}
		if placed {
			res.Scheduled++
		} else {
			res.Unschedulable++
		}
	}
	res.Remaining = slots
	return res, nil
}
