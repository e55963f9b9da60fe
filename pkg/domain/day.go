package domain

import "time"

// DayOfWeek indexes days as the scheduling API does: 0=Monday through
// 6=Sunday. time.Weekday (0=Sunday) is converted once, at the calendar
// boundary, and never used directly anywhere else in the codebase.
type DayOfWeek int

const (
	Monday DayOfWeek = iota
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

var dayLabels = [7]string{
	"Monday",
	"Tuesday",
	"Wednesday",
	"Thursday",
	"Friday",
	"Saturday",
	"Sunday",
}

var dayShortLabels = [7]string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

// Valid reports whether d is within the 0..6 range.
func (d DayOfWeek) Valid() bool {
	return d >= Monday && d <= Sunday
}

// Label returns the full weekday name used across the UI. Server payloads
// may carry their own localized day_name, which takes precedence where
// present.
func (d DayOfWeek) Label() string {
	if !d.Valid() {
		return "Day"
	}
	return dayLabels[d]
}

// Short returns the abbreviated weekday name for narrow grid columns.
func (d DayOfWeek) Short() string {
	if !d.Valid() {
		return "?"
	}
	return dayShortLabels[d]
}

// DayOf converts a standard calendar weekday (0=Sunday) into the 0=Monday
// scheme. This is the only place the two conventions meet.
func DayOf(w time.Weekday) DayOfWeek {
	return DayOfWeek((int(w) + 6) % 7)
}

// NextDate returns the first calendar date on or after from that falls on d.
func (d DayOfWeek) NextDate(from time.Time) time.Time {
	if !d.Valid() {
		return from
	}
	delta := (int(d) - int(DayOf(from.Weekday())) + 7) % 7
	return from.AddDate(0, 0, delta)
}
