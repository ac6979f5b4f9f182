package timeline

import (
	"testing"

	"planboard/internal/models"
)

func plannerTask(name, status, priority, assignee string) models.Task {
	return models.Task{
		ID:        name,
		Name:      name,
		StartDate: "2024-01-01",
		EndDate:   "2024-01-10",
		Status:    status,
		Priority:  priority,
		Assignee:  assignee,
	}
}

func TestApply_PriorityDescendingStable(t *testing.T) {
	tasks := []models.Task{
		plannerTask("a", models.TaskStatusInProgress, models.TaskPriorityLow, ""),
		plannerTask("b", models.TaskStatusInProgress, models.TaskPriorityHigh, ""),
		plannerTask("c", models.TaskStatusInProgress, models.TaskPriorityMedium, ""),
		plannerTask("d", models.TaskStatusInProgress, models.TaskPriorityHigh, ""),
	}

	got := Apply(tasks, nil, Filter{}, SortState{Key: SortByPriority, Direction: SortDesc})

	want := []string{"b", "d", "c", "a"}
	for i, name := range want {
		if got[i].Name != name {
			t.Fatalf("position %d: got %q, want %q", i, got[i].Name, name)
		}
	}
}

func TestApply_StatusAscendingUsesDomainRank(t *testing.T) {
	tasks := []models.Task{
		plannerTask("done", models.TaskStatusCompleted, models.TaskPriorityLow, ""),
		plannerTask("running", models.TaskStatusInProgress, models.TaskPriorityLow, ""),
		plannerTask("late", models.TaskStatusOverdue, models.TaskPriorityLow, ""),
		plannerTask("new", models.TaskStatusNotStarted, models.TaskPriorityLow, ""),
	}

	got := Apply(tasks, nil, Filter{}, SortState{Key: SortByStatus, Direction: SortAsc})

	want := []string{"late", "new", "running", "done"}
	for i, name := range want {
		if got[i].Name != name {
			t.Fatalf("position %d: got %q, want %q", i, got[i].Name, name)
		}
	}
}

func TestApply_UnassignedMatchesStaleReference(t *testing.T) {
	members := []models.TeamMember{{ID: "m1", Name: "Alice"}}
	tasks := []models.Task{
		plannerTask("assigned", models.TaskStatusInProgress, models.TaskPriorityLow, "m1"),
		plannerTask("stale", models.TaskStatusInProgress, models.TaskPriorityLow, "gone"),
	}

	got := Apply(tasks, members, Filter{Assignee: AssigneeUnassigned}, SortState{})

	if len(got) != 1 || got[0].Name != "stale" {
		t.Fatalf("got %d tasks: %+v", len(got), got)
	}
}

func TestApply_SearchMatchesNameAndDescription(t *testing.T) {
	tasks := []models.Task{
		plannerTask("Deploy API", models.TaskStatusInProgress, models.TaskPriorityLow, ""),
		plannerTask("Other", models.TaskStatusInProgress, models.TaskPriorityLow, ""),
	}
	tasks[1].Description = "deploy the frontend"

	got := Apply(tasks, nil, Filter{Search: "DEPLOY"}, SortState{})

	if len(got) != 2 {
		t.Fatalf("got %d tasks, want 2", len(got))
	}
}

func TestApply_StatusFilter(t *testing.T) {
	tasks := []models.Task{
		plannerTask("done", models.TaskStatusCompleted, models.TaskPriorityLow, ""),
		plannerTask("running", models.TaskStatusInProgress, models.TaskPriorityLow, ""),
	}

	got := Apply(tasks, nil, Filter{Status: models.TaskStatusCompleted}, SortState{})

	if len(got) != 1 || got[0].Name != "done" {
		t.Fatalf("got %+v", got)
	}
}

func TestApply_DoesNotMutateInput(t *testing.T) {
	tasks := []models.Task{
		plannerTask("b", models.TaskStatusInProgress, models.TaskPriorityLow, ""),
		plannerTask("a", models.TaskStatusInProgress, models.TaskPriorityLow, ""),
	}

	Apply(tasks, nil, Filter{}, SortState{Key: SortByName, Direction: SortAsc})

	if tasks[0].Name != "b" {
		t.Fatal("input snapshot was reordered")
	}
}

func TestSortState_Toggle(t *testing.T) {
	s := SortState{Key: SortByStartDate, Direction: SortAsc}

	s = s.Toggle(SortByStartDate)
	if s.Direction != SortDesc {
		t.Fatalf("direction=%s", s.Direction)
	}

	s = s.Toggle(SortByName)
	if s.Key != SortByName || s.Direction != SortAsc {
		t.Fatalf("state=%+v", s)
	}
}
