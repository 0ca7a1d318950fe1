// Package schedule fits tasks into the free time left between busy blocks
// of a single day.
package schedule

import (
	"sort"
	"time"

	"github.com/harrisonrobin/timecoach/pkg/model"
)

// FreeSlots returns the gaps in [dayStart, dayEnd] not covered by any busy
// interval, in ascending order. busy may be unsorted and overlapping; the
// caller's slice is not modified. Busy blocks reaching past dayEnd are clamped
// so no returned gap leaves the window.
func FreeSlots(busy []model.Interval, dayStart, dayEnd time.Time) []model.Interval {
	sorted := make([]model.Interval, len(busy))
	copy(sorted, busy)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Start.Before(sorted[j].Start)
	})

	var free []model.Interval
	cursor := dayStart
	for _, b := range sorted {
		start := b.Start
		if start.After(dayEnd) {
			start = dayEnd
		}
		if cursor.Before(start) {
			free = append(free, model.Interval{Start: cursor, End: start})
		}
		if b.End.After(cursor) {
			cursor = b.End
		}
	}
	if cursor.Before(dayEnd) {
		free = append(free, model.Interval{Start: cursor, End: dayEnd})
	}
	return free
}
