package schedule

import (
	"errors"
	"testing"
	"time"

	"github.com/matryer/is"

	"github.com/harrisonrobin/timecoach/pkg/model"
)

func TestRequest_Run(t *testing.T) {
	is := is.New(t)
	req := Request{
		Tasks:    []model.Task{task("write report", 1, 60), task("gym", 2, 45)},
		DayStart: at(8, 0),
		DayEnd:   at(12, 0),
		Busy:     []model.Interval{iv(9, 0, 10, 0), iv(9, 30, 11, 0)},
		Buffer:   5 * time.Minute,
	}

	res, err := req.Run()
	is.NoErr(err)
	is.Equal(res.Free, []model.Interval{iv(8, 0, 9, 0), iv(11, 0, 12, 0)})
	is.Equal(res.Scheduled, 1)
	is.Equal(res.Unschedulable, 1)

	// both gaps are 60 minutes; 65 are needed for the report, 50 for the gym
	is.True(!req.Tasks[0].Scheduled)
	is.Equal(*req.Tasks[1].StartTime, at(8, 0))
	is.Equal(*req.Tasks[1].EndTime, at(8, 50))
}

func TestRequest_RunFullyBusy(t *testing.T) {
	is := is.New(t)
	req := Request{
		Tasks:    []model.Task{task("A", 1, 30)},
		DayStart: at(8, 0),
		DayEnd:   at(20, 0),
		Busy:     []model.Interval{iv(0, 0, 23, 0)},
	}
	res, err := req.Run()
	is.True(errors.Is(err, ErrNoFreeTime))
	is.Equal(len(res.Free), 0)
	is.True(!req.Tasks[0].Scheduled)
}

func TestRequest_Validate(t *testing.T) {
	t.Run("end before start", func(t *testing.T) {
		is := is.New(t)
		req := Request{DayStart: at(20, 0), DayEnd: at(8, 0)}
		_, err := req.Run()
		is.True(errors.Is(err, ErrInvalidRequest))
	})
	t.Run("negative buffer", func(t *testing.T) {
		is := is.New(t)
		req := Request{DayStart: at(8, 0), DayEnd: at(20, 0), Buffer: -time.Minute}
		is.True(errors.Is(req.Validate(), ErrInvalidRequest))
	})
	t.Run("empty window is valid but has no free time", func(t *testing.T) {
		is := is.New(t)
		req := Request{Tasks: []model.Task{task("A", 1, 30)}, DayStart: at(8, 0), DayEnd: at(8, 0)}
		is.NoErr(req.Validate())
		_, err := req.Run()
		is.True(errors.Is(err, ErrNoFreeTime))
	})
}

func TestRequest_RunKeepsEarlierReservations(t *testing.T) {
	is := is.New(t)
	old := task("old", 1, 30)
	start, end := at(8, 0), at(8, 35)
	old.Scheduled, old.StartTime, old.EndTime = true, &start, &end

	req := Request{
		Tasks:    []model.Task{old, task("new", 1, 30)},
		DayStart: at(8, 0),
		DayEnd:   at(20, 0),
		Buffer:   5 * time.Minute,
	}
	res, err := req.Run()
	is.NoErr(err)
	is.Equal(res.Free, []model.Interval{iv(8, 35, 20, 0)})
	is.Equal(res.Scheduled, 1)
	is.Equal(res.Skipped, 1)

	is.Equal(*req.Tasks[0].StartTime, at(8, 0)) // untouched
	is.Equal(*req.Tasks[1].StartTime, at(8, 35))
	is.Equal(*req.Tasks[1].EndTime, at(9, 10))

	a, _ := req.Tasks[0].Reservation()
	b, _ := req.Tasks[1].Reservation()
	is.True(!a.Overlaps(b))
}
