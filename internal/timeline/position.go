package timeline

// BarPosition locates a task bar inside the visible window. Left and Width
// are percentages of the window width. Visible reports whether the task's
// date range overlaps the window at all; off-window tasks keep their
// degenerate projection but are flagged so renderers can suppress them.
type BarPosition struct {
	Left    float64 `json:"left"`
	Width   float64 `json:"width"`
	Visible bool    `json:"visible"`
}

// Position projects a task's date range onto the window. The width is
// clamped so the bar never extends past the right edge and is kept at a
// minimum of 1% so short tasks stay visible.
func (w Window) Position(taskStart, taskEnd string) BarPosition {
	start, err := ParseDate(taskStart)
	if err != nil {
		return BarPosition{}
	}
	end, err := ParseDate(taskEnd)
	if err != nil {
		return BarPosition{}
	}

	totalDays := w.TotalDays()
	if totalDays <= 0 {
		return BarPosition{}
	}

	startOffset := DaysBetween(w.Start, start)
	duration := DaysBetween(start, end)

	left := max(0, float64(startOffset)/float64(totalDays)*100)
	width := min(100-left, float64(duration)/float64(totalDays)*100)
	width = max(width, 1)

	visible := !end.Before(w.Start) && !start.After(w.End)
	return BarPosition{Left: left, Width: width, Visible: visible}
}
