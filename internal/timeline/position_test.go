package timeline

import (
	"testing"
	"time"
)

func window(start, end time.Time) Window {
	return Window{Start: start, End: end}
}

func TestPosition_HalfWindow(t *testing.T) {
	// 10-day task at the left edge of a 20-day window.
	w := window(date(2024, time.January, 1), date(2024, time.January, 21))

	pos := w.Position("2024-01-01", "2024-01-11")

	if pos.Left != 0 {
		t.Fatalf("left=%v", pos.Left)
	}
	if pos.Width != 50 {
		t.Fatalf("width=%v", pos.Width)
	}
	if !pos.Visible {
		t.Fatal("expected visible")
	}
}

func TestPosition_InsideWindowStaysBounded(t *testing.T) {
	w := window(date(2024, time.January, 1), date(2024, time.March, 1))

	cases := [][2]string{
		{"2024-01-05", "2024-01-20"},
		{"2024-01-01", "2024-03-01"},
		{"2024-02-10", "2024-02-11"},
	}
	for _, c := range cases {
		pos := w.Position(c[0], c[1])
		if pos.Left < 0 {
			t.Fatalf("%s..%s: left=%v", c[0], c[1], pos.Left)
		}
		if pos.Left+pos.Width > 100 {
			t.Fatalf("%s..%s: left+width=%v", c[0], c[1], pos.Left+pos.Width)
		}
	}
}

func TestPosition_MinimumWidth(t *testing.T) {
	// A one-day task in a year-long window projects below 1% and is
	// floored to stay visible.
	w := window(date(2024, time.January, 1), date(2024, time.December, 31))

	pos := w.Position("2024-06-01", "2024-06-02")

	if pos.Width != 1 {
		t.Fatalf("width=%v", pos.Width)
	}
}

func TestPosition_BeforeWindowClampsLeft(t *testing.T) {
	w := window(date(2024, time.February, 1), date(2024, time.March, 1))

	pos := w.Position("2024-01-01", "2024-02-15")

	if pos.Left != 0 {
		t.Fatalf("left=%v", pos.Left)
	}
	if !pos.Visible {
		t.Fatal("overlapping task should be visible")
	}
}

func TestPosition_OutsideWindowFlagged(t *testing.T) {
	w := window(date(2024, time.February, 1), date(2024, time.March, 1))

	before := w.Position("2024-01-01", "2024-01-15")
	if before.Visible {
		t.Fatal("task ending before the window should not be visible")
	}

	after := w.Position("2024-04-01", "2024-04-15")
	if after.Visible {
		t.Fatal("task starting after the window should not be visible")
	}
}

func TestPosition_MalformedDates(t *testing.T) {
	w := window(date(2024, time.February, 1), date(2024, time.March, 1))

	pos := w.Position("not-a-date", "2024-02-15")
	if pos.Visible || pos.Left != 0 || pos.Width != 0 {
		t.Fatalf("pos=%+v", pos)
	}
}
