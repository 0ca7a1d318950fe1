package google

import (
	"time"

	"google.golang.org/api/calendar/v3"

	"github.com/harrisonrobin/timecoach/pkg/busy"
	"github.com/harrisonrobin/timecoach/pkg/model"
)

// EventsToBatch converts calendar events to busy intervals in loc.
// Cancelled and transparent ("show as free") events are ignored. Events
// without a usable dateTime start and end, such as all-day entries, are
// dropped and counted in Skipped.
func EventsToBatch(events []*calendar.Event, loc *time.Location) busy.Batch {
	var batch busy.Batch
	for _, e := range events {
		if e == nil {
			continue
		}
		if e.Status == "cancelled" || e.Transparency == "transparent" {
			continue
		}
		iv, ok := eventInterval(e, loc)
		if !ok {
			batch.Skipped++
			continue
		}
		batch.Intervals = append(batch.Intervals, iv)
	}
	return batch
}

func eventInterval(e *calendar.Event, loc *time.Location) (model.Interval, bool) {
	if e.Start == nil || e.End == nil || e.Start.DateTime == "" || e.End.DateTime == "" {
		return model.Interval{}, false
	}
	start, err := time.Parse(time.RFC3339, e.Start.DateTime)
	if err != nil {
		return model.Interval{}, false
	}
	end, err := time.Parse(time.RFC3339, e.End.DateTime)
	if err != nil {
		return model.Interval{}, false
	}
	return model.Interval{Start: start.In(loc), End: end.In(loc)}, true
}
