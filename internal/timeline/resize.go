package timeline

import "math"

type Handle string

const (
	HandleStart Handle = "start"
	HandleEnd   Handle = "end"
)

// Patch carries exactly one changed date field. The untouched endpoint is
// never present, so applying the patch cannot overwrite a concurrent edit
// to the other date.
type Patch struct {
	StartDate *string `json:"startDate,omitempty"`
	EndDate   *string `json:"endDate,omitempty"`
}

// PixelsPerDay is the drag scale: container pixel width over the visible
// window length in days.
func PixelsPerDay(containerWidth float64, totalDays int) float64 {
	if totalDays <= 0 {
		return 0
	}
	return containerWidth / float64(totalDays)
}

// PixelsToDays converts a horizontal drag distance to a whole day count.
func PixelsToDays(pixels, pixelsPerDay float64) int {
	if pixelsPerDay <= 0 {
		return 0
	}
	return int(math.Round(pixels / pixelsPerDay))
}

// Resize reinterprets a drag delta on one handle as a date change for that
// endpoint only, enforcing a minimum duration of one day. It returns nil
// when the drag rounds to zero days or the clamped date equals the
// original, so an already-clamped drag repeated is a no-op and no update
// is dispatched.
func Resize(start, end string, handle Handle, deltaPixels, pixelsPerDay float64) *Patch {
	daysDelta := PixelsToDays(deltaPixels, pixelsPerDay)
	if daysDelta == 0 {
		return nil
	}

	startDate, err := ParseDate(start)
	if err != nil {
		return nil
	}
	endDate, err := ParseDate(end)
	if err != nil {
		return nil
	}

	switch handle {
	case HandleStart:
		newStart := startDate.AddDate(0, 0, daysDelta)
		if !newStart.Before(endDate) {
			newStart = endDate.AddDate(0, 0, -1)
		}
		formatted := FormatDate(newStart)
		if formatted == start {
			return nil
		}
		return &Patch{StartDate: &formatted}
	case HandleEnd:
		newEnd := endDate.AddDate(0, 0, daysDelta)
		if !newEnd.After(startDate) {
			newEnd = startDate.AddDate(0, 0, 1)
		}
		formatted := FormatDate(newEnd)
		if formatted == end {
			return nil
		}
		return &Patch{EndDate: &formatted}
	}
	return nil
}
