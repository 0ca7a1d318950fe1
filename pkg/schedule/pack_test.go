package schedule

import (
	"errors"
	"testing"
	"time"

	"github.com/matryer/is"

	"github.com/harrisonrobin/timecoach/pkg/model"
)

func task(title string, priority, minutes int) model.Task {
	return model.Task{ID: title, Title: title, Priority: priority, Duration: minutes, Category: model.CategoryWork}
}

func TestPack_PriorityOrdering(t *testing.T) {
	is := is.New(t)
	tasks := []model.Task{task("A", 1, 30), task("B", 2, 60), task("C", 1, 90)}

	res, err := Pack(tasks, []model.Interval{iv(8, 0, 10, 0)}, 0)
	is.NoErr(err)

	a, b, c := tasks[0], tasks[1], tasks[2]
	is.True(c.Scheduled)
	is.Equal(*c.StartTime, at(8, 0))
	is.Equal(*c.EndTime, at(9, 30))
	is.True(a.Scheduled)
	is.Equal(*a.StartTime, at(9, 30))
	is.Equal(*a.EndTime, at(10, 0))
	is.True(!b.Scheduled)
	is.True(b.StartTime == nil)

	is.Equal(res.Scheduled, 2)
	is.Equal(res.Unschedulable, 1)
	is.Equal(len(res.Remaining), 0)
}

func TestPack_Buffer(t *testing.T) {
	is := is.New(t)
	tasks := []model.Task{task("first", 1, 30), task("second", 1, 30)}

	res, err := Pack(tasks, []model.Interval{iv(8, 0, 9, 0)}, 5*time.Minute)
	is.NoErr(err)

	is.Equal(*tasks[0].StartTime, at(8, 0))
	is.Equal(*tasks[0].EndTime, at(8, 35)) // reservation includes the buffer
	is.True(!tasks[1].Scheduled)           // 25 minutes left, 35 needed
	is.Equal(res.Remaining, []model.Interval{iv(8, 35, 9, 0)})

	t.Run("second task starts after the buffer", func(t *testing.T) {
		is := is.New(t)
		tasks := []model.Task{task("first", 1, 30), task("second", 1, 30)}
		_, err := Pack(tasks, []model.Interval{iv(8, 0, 9, 10)}, 5*time.Minute)
		is.NoErr(err)
		is.Equal(*tasks[1].StartTime, at(8, 35))
		is.Equal(tasks[1].EndTime.Sub(*tasks[1].StartTime), 35*time.Minute)
	})
}

func TestPack_NoFreeTime(t *testing.T) {
	is := is.New(t)
	tasks := []model.Task{task("A", 1, 30)}
	before := tasks[0]

	_, err := Pack(tasks, nil, 5*time.Minute)
	is.True(errors.Is(err, ErrNoFreeTime))
	is.Equal(tasks[0], before)
}

func TestPack_Idempotent(t *testing.T) {
	is := is.New(t)
	tasks := []model.Task{task("A", 1, 30), task("B", 2, 45)}
	free := []model.Interval{iv(8, 0, 12, 0)}

	res, err := Pack(tasks, free, 5*time.Minute)
	is.NoErr(err)
	is.Equal(res.Scheduled, 2)

	snapshot := make([]model.Task, len(tasks))
	copy(snapshot, tasks)

	res, err = Pack(tasks, free, 5*time.Minute)
	is.NoErr(err)
	is.Equal(res.Scheduled, 0)
	is.Equal(res.Skipped, 2)
	is.Equal(tasks, snapshot)
	is.Equal(res.Remaining, free) // nothing consumed on the second run
}

func TestPack_GreedyNonBacktracking(t *testing.T) {
	is := is.New(t)
	tasks := []model.Task{task("large", 1, 100), task("small", 2, 10)}
	wide := iv(8, 0, 9, 30)     // 90 minutes
	narrow := iv(13, 0, 13, 20) // 20 minutes

	res, err := Pack(tasks, []model.Interval{narrow, wide}, 0)
	is.NoErr(err)

	is.True(!tasks[0].Scheduled)
	is.True(tasks[1].Scheduled)
	// Slots are tried widest first, so the small task lands in the 90 minute
	// gap. A narrative "leave the wide gap untouched" reading of this case
	// would contradict that ordering; the ordering wins.
	is.Equal(*tasks[1].StartTime, at(8, 0))
	is.Equal(res.Unschedulable, 1)
	is.Equal(res.Scheduled, 1)

	is.Equal(res.Remaining, []model.Interval{iv(8, 10, 9, 30), narrow})
}

func TestPack_SmallTaskUsesNarrowSlot(t *testing.T) {
	is := is.New(t)
	// The wide slot is consumed first, leaving the narrow 20 minute slot for the 10 minute task.
	tasks := []model.Task{task("large", 1, 100), task("filler", 1, 90), task("small", 2, 10)}
	wide := iv(8, 0, 9, 30)
	narrow := iv(13, 0, 13, 20)

	res, err := Pack(tasks, []model.Interval{wide, narrow}, 0)
	is.NoErr(err)

	is.True(!tasks[0].Scheduled)
	is.Equal(*tasks[1].StartTime, at(8, 0))
	is.Equal(*tasks[2].StartTime, at(13, 0))
	is.Equal(*tasks[2].EndTime, at(13, 10))
	is.Equal(res.Remaining, []model.Interval{iv(13, 10, 13, 20)})
}

func TestPack_SlotsNotResorted(t *testing.T) {
	is := is.New(t)
	// After the first task the 120 minute slot shrinks to 20 minutes but stays
	// first in the list, so the next 15 minute task still goes there.
	tasks := []model.Task{task("big", 1, 100), task("tiny", 2, 15)}
	free := []model.Interval{iv(14, 0, 15, 0), iv(8, 0, 10, 0)}

	res, err := Pack(tasks, free, 0)
	is.NoErr(err)
	is.Equal(*tasks[0].StartTime, at(8, 0))
	is.Equal(*tasks[1].StartTime, at(9, 40))
	is.Equal(res.Remaining, []model.Interval{iv(9, 55, 10, 0), iv(14, 0, 15, 0)})
}

func TestPack_SkipsCompleted(t *testing.T) {
	is := is.New(t)
	done := task("done", 1, 30)
	done.Completed = true
	tasks := []model.Task{done, task("open", 2, 30)}

	res, err := Pack(tasks, []model.Interval{iv(8, 0, 9, 0)}, 0)
	is.NoErr(err)
	is.True(!tasks[0].Scheduled)
	is.True(tasks[1].Scheduled)
	is.Equal(res.Skipped, 1)
}

func TestPack_NoOverlap(t *testing.T) {
	is := is.New(t)
	busy := []model.Interval{iv(9, 0, 10, 0), iv(12, 0, 13, 30), iv(16, 0, 17, 0)}
	free := FreeSlots(busy, at(8, 0), at(20, 0))
	var tasks []model.Task
	for i, d := range []int{45, 30, 90, 15, 60, 120, 20, 75} {
		tasks = append(tasks, task(string(rune('a'+i)), 1+i%3, d))
	}

	_, err := Pack(tasks, free, 10*time.Minute)
	is.NoErr(err)

	var reserved []model.Interval
	for _, tk := range tasks {
		r, ok := tk.Reservation()
		if !ok {
			continue
		}
		is.Equal(r.Width(), tk.DurationTime()+10*time.Minute)
		for _, b := range busy {
			is.True(!r.Overlaps(b))
		}
		for _, other := range reserved {
			is.True(!r.Overlaps(other))
		}
		reserved = append(reserved, r)
	}
	is.True(len(reserved) > 0)
}

func TestPrioritized(t *testing.T) {
	is := is.New(t)
	tasks := []model.Task{task("a", 3, 60), task("b", 1, 30), task("c", 1, 90), task("d", 2, 30), task("e", 1, 30)}
	is.Equal(Prioritized(tasks), []int{2, 1, 4, 3, 0})
}
