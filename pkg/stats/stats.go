// Package stats computes productivity figures over a task snapshot.
package stats

import "github.com/harrisonrobin/timecoach/pkg/model"

// Productivity summarises a task list.
type Productivity struct {
	Total     int
	Completed int
	// CompletionRate is a percentage in [0, 100].
	CompletionRate float64
	// PlannedMinutes sums the durations of scheduled tasks.
	PlannedMinutes int
	// ActualMinutes sums the durations of completed tasks.
	ActualMinutes int
}

func Compute(tasks []model.Task) Productivity {
	var p Productivity
	p.Total = len(tasks)
	if p.Total == 0 {
		return p
	}
	for _, t := range tasks {
		if t.Completed {
			p.Completed++
			p.ActualMinutes += t.Duration
		}
		if t.Scheduled {
			p.PlannedMinutes += t.Duration
		}
	}
	p.CompletionRate = float64(p.Completed) / float64(p.Total) * 100
	return p
}
