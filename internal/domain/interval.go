package domain

import "time"

// Interval is a half-open time span [Start, End)
type Interval struct {
	Start time.Time
	End   time.Time
}

// Overlaps reports whether two half-open intervals share any instant.
// Adjoining intervals (one ends exactly where the other starts) do not overlap.
func (i Interval) Overlaps(other Interval) bool {
	// не пересекаются, только если e1 <= s2 или s1 >= e2
	return i.Start.Before(other.End) && other.Start.Before(i.End)
}

// Duration returns the length of the interval
func (i Interval) Duration() time.Duration {
	return i.End.Sub(i.Start)
}

// TimeSlot is a fixed candidate interval offered for booking
type TimeSlot struct {
	Start time.Time
	End   time.Time
}

// Interval returns the slot as an interval
func (s TimeSlot) Interval() Interval {
	return Interval{Start: s.Start, End: s.End}
}

// Label returns the zero-padded 24-hour "HH:MM" label of the slot start
func (s TimeSlot) Label() string {
	return s.Start.Format(TimeFormat)
}
