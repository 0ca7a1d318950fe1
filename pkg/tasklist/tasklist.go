// Package tasklist manages a snapshot of tasks between loading it from a
// store and saving it back.
package tasklist

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/harrisonrobin/timecoach/pkg/model"
	"github.com/harrisonrobin/timecoach/pkg/schedule"
)

var (
	ErrNotFound    = errors.New("task not found")
	ErrAmbiguousID = errors.New("task id prefix matches more than one task")
)

// List is an ordered task snapshot. Order is insertion order.
type List struct {
	Tasks []model.Task
	now   func() time.Time
}

// New wraps an existing snapshot.
func New(tasks []model.Task) *List {
	return &List{Tasks: tasks, now: time.Now}
}

// Add validates and appends a new unscheduled task, returning it.
func (l *List) Add(title string, priority, duration int, category string) (model.Task, error) {
	cat, err := model.ParseCategory(category)
	if err != nil {
		return model.Task{}, err
	}
	t := model.Task{
		ID:        uuid.NewString(),
		Title:     strings.TrimSpace(title),
		Priority:  priority,
		Duration:  duration,
		Category:  cat,
		CreatedAt: l.now().UTC(),
	}
	if err := t.Validate(); err != nil {
		return model.Task{}, err
	}
	l.Tasks = append(l.Tasks, t)
	return t, nil
}

// Find resolves a full id or a unique id prefix to an index.
func (l *List) Find(ref string) (int, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return -1, ErrNotFound
	}
	found := -1
	for i, t := range l.Tasks {
		if t.ID == ref {
			return i, nil
		}
		if strings.HasPrefix(t.ID, ref) {
			if found >= 0 {
				return -1, fmt.Errorf("%w: %q", ErrAmbiguousID, ref)
			}
			found = i
		}
	}
	if found < 0 {
		return -1, fmt.Errorf("%w: %q", ErrNotFound, ref)
	}
	return found, nil
}

// Edit is a partial update of the user-editable fields. Nil fields are left as they are.
type Edit struct {
	Title    *string
	Priority *int
	Duration *int
	Category *string
}

// Update applies e to the task ref. A duration change drops the task's
// reservation; other edits keep it.
func (l *List) Update(ref string, e Edit) (model.Task, error) {
	i, err := l.Find(ref)
	if err != nil {
		return model.Task{}, err
	}
	t := l.Tasks[i]
	if e.Title != nil {
		t.Title = strings.TrimSpace(*e.Title)
	}
	if e.Priority != nil {
		t.Priority = *e.Priority
	}
	if e.Duration != nil && *e.Duration != t.Duration {
		t.Duration = *e.Duration
		// the old reservation no longer matches; the next schedule run places it again
		t.Scheduled = false
		t.StartTime = nil
		t.EndTime = nil
	}
	if e.Category != nil {
		cat, err := model.ParseCategory(*e.Category)
		if err != nil {
			return model.Task{}, err
		}
		t.Category = cat
	}
	if err := t.Validate(); err != nil {
		return model.Task{}, err
	}
	l.Tasks[i] = t
	return t, nil
}

// ToggleCompleted flips the completed flag. It never un-schedules the task.
func (l *List) ToggleCompleted(ref string) (model.Task, error) {
	i, err := l.Find(ref)
	if err != nil {
		return model.Task{}, err
	}
	l.Tasks[i].Completed = !l.Tasks[i].Completed
	return l.Tasks[i], nil
}

// HasOpen reports whether an uncompleted task already has this title,
// ignoring case and surrounding space.
func (l *List) HasOpen(title string) bool {
	title = strings.TrimSpace(title)
	for _, t := range l.Tasks {
		if !t.Completed && strings.EqualFold(t.Title, title) {
			return true
		}
	}
	return false
}

// Delete removes the task ref entirely.
func (l *List) Delete(ref string) (model.Task, error) {
	i, err := l.Find(ref)
	if err != nil {
		return model.Task{}, err
	}
	t := l.Tasks[i]
	l.Tasks = append(l.Tasks[:i], l.Tasks[i+1:]...)
	return t, nil
}

// Clear removes every task and returns how many were dropped.
func (l *List) Clear() int {
	n := len(l.Tasks)
	l.Tasks = nil
	return n
}

// Prioritized returns the open (not completed) tasks in packing order.
func (l *List) Prioritized() []model.Task {
	var out []model.Task
	for _, i := range schedule.Prioritized(l.Tasks) {
		if !l.Tasks[i].Completed {
			out = append(out, l.Tasks[i])
		}
	}
	return out
}

// Timeline returns the scheduled tasks ordered by start time.
func (l *List) Timeline() []model.Task {
	var out []model.Task
	for _, t := range l.Tasks {
		if _, ok := t.Reservation(); ok {
			out = append(out, t)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].StartTime.Before(*out[j].StartTime)
	})
	return out
}

// ShortID is the id prefix shown to users.
func ShortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
