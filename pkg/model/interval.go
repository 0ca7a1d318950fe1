package model

import "time"

// Interval is a half-open time range [Start, End). It is used both for busy
// calendar blocks and for free gaps.
type Interval struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Width is End - Start.
func (i Interval) Width() time.Duration {
	return i.End.Sub(i.Start)
}

// Overlaps reports whether the two half-open intervals share any instant.
func (i Interval) Overlaps(o Interval) bool {
	return i.Start.Before(o.End) && o.Start.Before(i.End)
}

// Contains reports whether o lies entirely within i.
func (i Interval) Contains(o Interval) bool {
	return !o.Start.Before(i.Start) && !o.End.After(i.End)
}
