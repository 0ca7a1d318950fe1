package model

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ErrInvalidTask is returned when a task fails validation.
var ErrInvalidTask = errors.New("invalid task")

const (
	PriorityHigh   = 1
	PriorityMedium = 2
	PriorityLow    = 3
)

// Category groups tasks for display.
type Category string

const (
	CategoryWork     Category = "Work"
	CategoryPersonal Category = "Personal"
	CategoryHealth   Category = "Health"
	CategoryLearning Category = "Learning"
	CategoryOther    Category = "Other"
)

// Categories lists every accepted category in display order.
var Categories = []Category{
	CategoryWork,
	CategoryPersonal,
	CategoryHealth,
	CategoryLearning,
	CategoryOther,
}

// ParseCategory normalises user input ("work", " LEARNING ") to a known category.
// Empty input maps to CategoryOther.
func ParseCategory(s string) (Category, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return CategoryOther, nil
	}
	c := Category(cases.Title(language.English).String(strings.ToLower(s)))
	for _, known := range Categories {
		if c == known {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: unknown category %q", ErrInvalidTask, s)
}

// PriorityLabel returns the human name for a priority value.
func PriorityLabel(p int) string {
	switch p {
	case PriorityHigh:
		return "High"
	case PriorityMedium:
		return "Medium"
	case PriorityLow:
		return "Low"
	}
	return fmt.Sprintf("P%d", p)
}

// Task is a unit of work to be fitted into the day.
//
// Duration is in minutes. When Scheduled is true, StartTime and EndTime are
// both set and the span between them includes the trailing buffer.
type Task struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	Priority  int        `json:"priority"`
	Duration  int        `json:"duration"`
	Category  Category   `json:"category"`
	Scheduled bool       `json:"scheduled"`
	StartTime *time.Time `json:"start_time"`
	EndTime   *time.Time `json:"end_time"`
	Completed bool       `json:"completed"`
	CreatedAt time.Time  `json:"created_at"`
}

// DurationTime returns the task's own duration as a time.Duration.
func (t Task) DurationTime() time.Duration {
	return time.Duration(t.Duration) * time.Minute
}

// Validate checks the user-editable fields.
func (t Task) Validate() error {
	if strings.TrimSpace(t.Title) == "" {
		return fmt.Errorf("%w: title can't be empty", ErrInvalidTask)
	}
	if t.Priority < PriorityHigh || t.Priority > PriorityLow {
		return fmt.Errorf("%w: priority must be 1, 2 or 3, got %d", ErrInvalidTask, t.Priority)
	}
	if t.Duration <= 0 {
		return fmt.Errorf("%w: duration must be positive, got %d", ErrInvalidTask, t.Duration)
	}
	if _, err := ParseCategory(string(t.Category)); err != nil {
		return err
	}
	return nil
}

// Reservation returns the reserved interval of a scheduled task.
func (t Task) Reservation() (Interval, bool) {
	if !t.Scheduled || t.StartTime == nil || t.EndTime == nil {
		return Interval{}, false
	}
	return Interval{Start: *t.StartTime, End: *t.EndTime}, true
}
