package model

import (
	"errors"
	"testing"
	"time"

	"github.com/matryer/is"
)

func TestParseCategory(t *testing.T) {
	is := is.New(t)

	for in, want := range map[string]Category{
		"work":       CategoryWork,
		" LEARNING ": CategoryLearning,
		"Health":     CategoryHealth,
		"":           CategoryOther,
	} {
		got, err := ParseCategory(in)
		is.NoErr(err)
		is.Equal(got, want)
	}

	_, err := ParseCategory("General")
	is.True(errors.Is(err, ErrInvalidTask))
}

func TestTask_Validate(t *testing.T) {
	valid := Task{Title: "Read", Priority: 2, Duration: 30, Category: CategoryLearning}

	t.Run("valid", func(t *testing.T) {
		is := is.New(t)
		is.NoErr(valid.Validate())
	})

	for name, mutate := range map[string]func(*Task){
		"blank title":      func(t *Task) { t.Title = "   " },
		"priority zero":    func(t *Task) { t.Priority = 0 },
		"priority four":    func(t *Task) { t.Priority = 4 },
		"zero duration":    func(t *Task) { t.Duration = 0 },
		"unknown category": func(t *Task) { t.Category = "Chores" },
	} {
		t.Run(name, func(t *testing.T) {
			is := is.New(t)
			task := valid
			mutate(&task)
			is.True(errors.Is(task.Validate(), ErrInvalidTask))
		})
	}
}

func TestTask_Reservation(t *testing.T) {
	is := is.New(t)
	start := time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC)
	end := start.Add(35 * time.Minute)

	_, ok := Task{}.Reservation()
	is.True(!ok)

	r, ok := Task{Scheduled: true, StartTime: &start, EndTime: &end}.Reservation()
	is.True(ok)
	is.Equal(r.Width(), 35*time.Minute)
}

func TestInterval(t *testing.T) {
	is := is.New(t)
	base := time.Date(2024, 3, 4, 8, 0, 0, 0, time.UTC)
	a := Interval{Start: base, End: base.Add(time.Hour)}
	b := Interval{Start: base.Add(time.Hour), End: base.Add(2 * time.Hour)}
	c := Interval{Start: base.Add(30 * time.Minute), End: base.Add(45 * time.Minute)}

	is.True(!a.Overlaps(b)) // half-open: touching is not overlapping
	is.True(a.Overlaps(c))
	is.True(a.Contains(c))
	is.True(!b.Contains(c))
}
