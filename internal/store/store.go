// Package store persists each application's state as a single JSON
// document on disk. Every operation reads the whole document before acting
// and writes the whole document after mutating. There is no locking and no
// partial write: concurrent writers race and the last write wins at the
// file level. That limitation is accepted; nothing above this layer relies
// on stronger guarantees.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"planboard/internal/models"
)

type PlannerDocument struct {
	Projects    []models.Project    `json:"projects"`
	Tasks       []models.Task       `json:"tasks"`
	TeamMembers []models.TeamMember `json:"teamMembers"`
}

type TestbenchDocument struct {
	Users      []models.User        `json:"users"`
	Projects   []models.TestProject `json:"projects"`
	Suites     []models.Suite       `json:"suites"`
	Sections   []models.Section     `json:"sections"`
	Cases      []models.Case        `json:"cases"`
	CaseSteps  []models.CaseStep    `json:"case_steps"`
	Runs       []models.Run         `json:"runs"`
	RunCases   []models.RunCase     `json:"run_cases"`
	Results    []models.Result      `json:"results"`
	Milestones []models.Milestone   `json:"milestones"`
	Plans      []models.Plan        `json:"plans"`
	PlanRuns   []models.PlanRun     `json:"plan_runs"`
	Webhooks   []models.Webhook     `json:"webhooks"`
	APITokens  []models.APIToken    `json:"api_tokens"`
}

// File is a whole-document JSON store for one backing file. A missing file
// reads as the zero document rather than an error.
type File[T any] struct {
	path string
}

func NewFile[T any](path string) *File[T] {
	return &File[T]{path: path}
}

func (f *File[T]) Path() string {
	return f.path
}

func (f *File[T]) Load() (*T, error) {
	doc := new(T)

	data, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return doc, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", f.path, err)
	}

	err = json.Unmarshal(data, doc)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", f.path, err)
	}
	return doc, nil
}

func (f *File[T]) Save(doc *T) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", f.path, err)
	}

	err = os.MkdirAll(filepath.Dir(f.path), 0o755)
	if err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	err = os.WriteFile(f.path, data, 0o644)
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", f.path, err)
	}
	return nil
}

type Planner = File[PlannerDocument]

type Testbench = File[TestbenchDocument]

func NewPlanner(path string) *Planner {
	return NewFile[PlannerDocument](path)
}

func NewTestbench(path string) *Testbench {
	return NewFile[TestbenchDocument](path)
}
