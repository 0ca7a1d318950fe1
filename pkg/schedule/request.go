package schedule

import (
	"errors"
	"fmt"
	"time"

	"github.com/harrisonrobin/timecoach/pkg/model"
)

// ErrInvalidRequest is returned by Request.Validate.
var ErrInvalidRequest = errors.New("invalid scheduling request")

// Request holds everything a single scheduling run needs. The caller owns
// Tasks and is responsible for persisting them after Run.
type Request struct {
	Tasks    []model.Task
	DayStart time.Time
	DayEnd   time.Time
	Busy     []model.Interval
	Buffer   time.Duration
}

func (r *Request) Validate() error {
	if r.DayEnd.Before(r.DayStart) {
		return fmt.Errorf("%w: day end %s is before day start %s", ErrInvalidRequest,
			r.DayEnd.Format(time.RFC3339), r.DayStart.Format(time.RFC3339))
	}
	if r.Buffer < 0 {
		return fmt.Errorf("%w: negative buffer %s", ErrInvalidRequest, r.Buffer)
	}
	return nil
}

// Run computes the free slots of the window and packs r.Tasks into them.
// Reservations held by already scheduled tasks count as busy.
// On ErrNoFreeTime the returned Result still carries the (empty) Free list.
func (r *Request) Run() (Result, error) {
	if err := r.Validate(); err != nil {
		return Result{}, err
	}
	busy := make([]model.Interval, 0, len(r.Busy))
	busy = append(busy, r.Busy...)
	for _, t := range r.Tasks {
		if iv, ok := t.Reservation(); ok {
			busy = append(busy, iv)
		}
	}
	free := FreeSlots(busy, r.DayStart, r.DayEnd)
	res, err := Pack(r.Tasks, free, r.Buffer)
	res.Free = free
	return res, err
}
