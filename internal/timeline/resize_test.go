package timeline

import "testing"

func TestResize_StartHandlePatchesStartOnly(t *testing.T) {
	// 10 pixels per day, dragged 30 pixels left.
	patch := Resize("2024-02-10", "2024-02-20", HandleStart, -30, 10)

	if patch == nil {
		t.Fatal("expected a patch")
	}
	if patch.StartDate == nil || *patch.StartDate != "2024-02-07" {
		t.Fatalf("startDate=%v", patch.StartDate)
	}
	if patch.EndDate != nil {
		t.Fatalf("endDate must be absent, got %v", *patch.EndDate)
	}
}

func TestResize_EndHandleClampsToMinimumDuration(t *testing.T) {
	// Dragging the end 15 days left would cross the start; the end clamps
	// to start+1 day instead.
	patch := Resize("2024-02-10", "2024-02-20", HandleEnd, -150, 10)

	if patch == nil {
		t.Fatal("expected a patch")
	}
	if patch.EndDate == nil || *patch.EndDate != "2024-02-11" {
		t.Fatalf("endDate=%v", patch.EndDate)
	}
	if patch.StartDate != nil {
		t.Fatalf("startDate must be absent, got %v", *patch.StartDate)
	}
}

func TestResize_StartHandleClampsForwardDrag(t *testing.T) {
	patch := Resize("2024-02-10", "2024-02-12", HandleStart, 150, 10)

	if patch == nil {
		t.Fatal("expected a patch")
	}
	if patch.StartDate == nil || *patch.StartDate != "2024-02-11" {
		t.Fatalf("startDate=%v", patch.StartDate)
	}
}

func TestResize_RepeatedClampIsNoOp(t *testing.T) {
	first := Resize("2024-02-10", "2024-02-12", HandleStart, 150, 10)
	if first == nil || first.StartDate == nil {
		t.Fatal("first drag should produce a patch")
	}

	second := Resize(*first.StartDate, "2024-02-12", HandleStart, 150, 10)
	if second != nil {
		t.Fatalf("second identical drag should be a no-op, got %+v", second)
	}
}

func TestResize_SubDayDragIsNoOp(t *testing.T) {
	// 4 pixels at 10 px/day rounds to zero days.
	patch := Resize("2024-02-10", "2024-02-20", HandleStart, 4, 10)

	if patch != nil {
		t.Fatalf("expected no patch, got %+v", patch)
	}
}

func TestResize_ZeroScaleIsNoOp(t *testing.T) {
	patch := Resize("2024-02-10", "2024-02-20", HandleEnd, 100, 0)

	if patch != nil {
		t.Fatalf("expected no patch, got %+v", patch)
	}
}

func TestPixelsPerDay(t *testing.T) {
	if got := PixelsPerDay(800, 20); got != 40 {
		t.Fatalf("pixelsPerDay=%v", got)
	}
	if got := PixelsPerDay(800, 0); got != 0 {
		t.Fatalf("pixelsPerDay=%v", got)
	}
}

func TestPixelsToDays_Rounds(t *testing.T) {
	if got := PixelsToDays(25, 10); got != 3 {
		t.Fatalf("days=%d", got)
	}
	if got := PixelsToDays(-24, 10); got != -2 {
		t.Fatalf("days=%d", got)
	}
}
