// Package timeline implements the Gantt timeline engine: visible-window
// calculation per zoom level, projection of task date ranges onto the
// window, the task filter/sort pipeline and drag-to-resize date math.
//
// All functions are pure and operate on plain calendar dates. Dates are
// normalized to UTC midnight so that day arithmetic never picks up
// timezone offsets.
package timeline

import (
	"fmt"
	"math"
	"time"
)

const DateLayout = "2006-01-02"

type Zoom string

const (
	ZoomDay     Zoom = "day"
	ZoomWeek    Zoom = "week"
	ZoomMonth   Zoom = "month"
	ZoomQuarter Zoom = "quarter"
	ZoomYear    Zoom = "year"
)

func (z Zoom) Valid() bool {
	switch z {
	case ZoomDay, ZoomWeek, ZoomMonth, ZoomQuarter, ZoomYear:
		return true
	}
	return false
}

// Step is the column spacing in days for the zoom level.
func (z Zoom) Step() int {
	switch z {
	case ZoomDay:
		return 1
	case ZoomWeek:
		return 7
	case ZoomMonth:
		return 30
	case ZoomQuarter:
		return 90
	case ZoomYear:
		return 365
	}
	return 1
}

// Window is the visible date range of the timeline together with the
// ordered column boundary dates. Columns are regenerated eagerly on every
// zoom or reference-date change.
type Window struct {
	Start   time.Time
	End     time.Time
	Columns []time.Time
}

// NewWindow computes the visible window around ref for the zoom level.
// Each level looks back a little and ahead a lot, so the reference date
// sits left of center. Quarter and year levels snap the window start to a
// quarter or year boundary instead of offsetting the raw reference date.
func NewWindow(ref time.Time, zoom Zoom) Window {
	ref = Midnight(ref)
	year, month, day := ref.Date()

	var start, end time.Time
	switch zoom {
	case ZoomDay:
		start = ref.AddDate(0, 0, -3)
		end = ref.AddDate(0, 0, 10)
	case ZoomWeek:
		start = ref.AddDate(0, 0, -(int(ref.Weekday()) + 14))
		end = start.AddDate(0, 0, 42)
	case ZoomMonth:
		start = time.Date(year, month-1, 1, 0, 0, 0, 0, time.UTC)
		end = time.Date(year, month+4, 1, 0, 0, 0, 0, time.UTC)
	case ZoomQuarter:
		quarterStart := (int(month)-1)/3*3 + 1
		start = time.Date(year, time.Month(quarterStart-3), 1, 0, 0, 0, 0, time.UTC)
		end = time.Date(year, time.Month(quarterStart+9), 1, 0, 0, 0, 0, time.UTC)
	case ZoomYear:
		start = time.Date(year-1, time.January, 1, 0, 0, 0, 0, time.UTC)
		end = time.Date(year+2, time.December, 31, 0, 0, 0, 0, time.UTC)
	default:
		start = time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
		end = start
	}

	step := zoom.Step()
	var columns []time.Time
	for current := start; !current.After(end); current = current.AddDate(0, 0, step) {
		columns = append(columns, current)
	}

	return Window{Start: start, End: end, Columns: columns}
}

// TotalDays is the visible-window length in days.
func (w Window) TotalDays() int {
	return DaysBetween(w.Start, w.End)
}

// Navigate shifts the reference date backward or forward by the zoom
// level's paging span and returns the new reference date.
func Navigate(ref time.Time, zoom Zoom, forward bool) time.Time {
	ref = Midnight(ref)
	sign := -1
	if forward {
		sign = 1
	}

	switch zoom {
	case ZoomDay:
		return ref.AddDate(0, 0, sign*7)
	case ZoomWeek:
		return ref.AddDate(0, 0, sign*21)
	case ZoomMonth:
		return ref.AddDate(0, sign*3, 0)
	case ZoomQuarter:
		return ref.AddDate(0, sign*12, 0)
	case ZoomYear:
		return ref.AddDate(sign*3, 0, 0)
	}
	return ref
}

// Label formats a column boundary date for the zoom level's header row.
func Label(date time.Time, zoom Zoom) string {
	switch zoom {
	case ZoomDay, ZoomWeek:
		return date.Format("Jan 02")
	case ZoomMonth:
		return date.Format("Jan 2006")
	case ZoomQuarter:
		quarter := (int(date.Month())-1)/3 + 1
		return fmt.Sprintf("Q%d %d", quarter, date.Year())
	case ZoomYear:
		return date.Format("2006")
	}
	return date.Format(DateLayout)
}

// Midnight truncates t to its calendar date at UTC midnight.
func Midnight(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// DaysBetween is the day distance from a to b, rounded up. Negative when b
// precedes a.
func DaysBetween(a, b time.Time) int {
	return int(math.Ceil(b.Sub(a).Hours() / 24))
}

func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return t, nil
}

func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}
