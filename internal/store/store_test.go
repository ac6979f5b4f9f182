package store

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"planboard/internal/models"
)

func TestFile_MissingFileLoadsZeroDocument(t *testing.T) {
	f := NewPlanner(filepath.Join(t.TempDir(), "planner.json"))

	doc, err := f.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(doc.Projects) != 0 || len(doc.Tasks) != 0 || len(doc.TeamMembers) != 0 {
		t.Fatalf("expected empty document, got %+v", doc)
	}
}

func TestFile_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "planner.json")
	f := NewPlanner(path)

	doc := &PlannerDocument{
		Projects: []models.Project{{ID: "p1", Name: "Website"}},
		Tasks: []models.Task{
			{ID: "t1", Name: "Design", ProjectID: "p1", StartDate: "2024-01-01", EndDate: "2024-01-10"},
		},
		TeamMembers: []models.TeamMember{{ID: "m1", Name: "John"}},
	}
	if err := f.Save(doc); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := f.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(loaded.Projects) != 1 || loaded.Projects[0].Name != "Website" {
		t.Fatalf("projects = %+v", loaded.Projects)
	}
	if len(loaded.Tasks) != 1 || loaded.Tasks[0].StartDate != "2024-01-01" {
		t.Fatalf("tasks = %+v", loaded.Tasks)
	}
	if len(loaded.TeamMembers) != 1 || loaded.TeamMembers[0].ID != "m1" {
		t.Fatalf("team members = %+v", loaded.TeamMembers)
	}
}

func TestFile_SaveCreatesParentDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "deeper", "bench.json")
	f := NewTestbench(path)

	if err := f.Save(&TestbenchDocument{}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("stat: %v", err)
	}
}

func TestFile_SaveWritesCamelCaseFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bench.json")
	f := NewTestbench(path)

	doc := &TestbenchDocument{
		RunCases: []models.RunCase{{ID: "rc1", RunID: "r1", CaseID: "c1"}},
	}
	if err := f.Save(doc); err != nil {
		t.Fatalf("Save: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	for _, want := range []string{`"run_cases"`, `"runId"`, `"caseId"`} {
		if !strings.Contains(string(data), want) {
			t.Fatalf("expected %s in output, got: %s", want, data)
		}
	}
}
