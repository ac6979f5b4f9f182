package models

import "time"

const (
	RoleAdmin   = "Admin"
	RoleManager = "Manager"
	RoleTester  = "Tester"
	RoleViewer  = "Viewer"
)

const (
	RunStatusDraft      = "draft"
	RunStatusInProgress = "in_progress"
	RunStatusCompleted  = "completed"
)

const (
	ResultStatusPassed   = "passed"
	ResultStatusFailed   = "failed"
	ResultStatusBlocked  = "blocked"
	ResultStatusRetest   = "retest"
	ResultStatusUntested = "untested"
)

const (
	MilestoneStatusPlanned = "planned"
	MilestoneStatusActive  = "active"
	MilestoneStatusDone    = "done"
)

const (
	PlanStatusDraft     = "draft"
	PlanStatusActive    = "active"
	PlanStatusCompleted = "completed"
)

type User struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	Name         string `json:"name"`
	Role         string `json:"role"`
	PasswordHash string `json:"passwordHash,omitempty"`
}

type TestProject struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Key         string    `json:"key"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

type Suite struct {
	ID          string `json:"id"`
	ProjectID   string `json:"projectId"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

type Section struct {
	ID       string `json:"id"`
	SuiteID  string `json:"suiteId"`
	ParentID string `json:"parentId,omitempty"`
	Name     string `json:"name"`
	Order    int    `json:"order"`
}

type Case struct {
	ID            string    `json:"id"`
	SuiteID       string    `json:"suiteId"`
	SectionID     string    `json:"sectionId,omitempty"`
	Title         string    `json:"title"`
	Description   string    `json:"description,omitempty"`
	Preconditions string    `json:"preconditions,omitempty"`
	Priority      string    `json:"priority,omitempty"`
	Type          string    `json:"type,omitempty"`
	Tags          []string  `json:"tags,omitempty"`
	Refs          []string  `json:"refs,omitempty"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// CaseStep ordering is index-based, starting at 1.
type CaseStep struct {
	ID       string `json:"id"`
	CaseID   string `json:"caseId"`
	Index    int    `json:"index"`
	Action   string `json:"action"`
	Expected string `json:"expected"`
}

type Run struct {
	ID          string     `json:"id"`
	ProjectID   string     `json:"projectId"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	AssigneeID  string     `json:"assigneeId,omitempty"`
	Status      string     `json:"status"`
	StartedAt   *time.Time `json:"startedAt,omitempty"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}

// RunCase joins a run to one case and owns that case's result history.
type RunCase struct {
	ID         string `json:"id"`
	RunID      string `json:"runId"`
	CaseID     string `json:"caseId"`
	AssigneeID string `json:"assigneeId,omitempty"`
}

// Result is an append-only status event. The current status of a run case
// is the most recently appended result.
type Result struct {
	ID          string    `json:"id"`
	RunCaseID   string    `json:"runCaseId"`
	Status      string    `json:"status"`
	Comment     string    `json:"comment,omitempty"`
	DurationSec int       `json:"durationSec,omitempty"`
	CreatedBy   string    `json:"createdBy"`
	CreatedAt   time.Time `json:"createdAt"`
}

type Milestone struct {
	ID        string `json:"id"`
	ProjectID string `json:"projectId"`
	Name      string `json:"name"`
	DueDate   string `json:"dueDate,omitempty"`
	Status    string `json:"status"`
}

type Plan struct {
	ID          string `json:"id"`
	ProjectID   string `json:"projectId"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	MilestoneID string `json:"milestoneId,omitempty"`
	Status      string `json:"status"`
}

type PlanRun struct {
	PlanID string `json:"planId"`
	RunID  string `json:"runId"`
}

type Webhook struct {
	ID        string   `json:"id"`
	ProjectID string   `json:"projectId"`
	URL       string   `json:"url"`
	Secret    string   `json:"secret"`
	Events    []string `json:"events"`
	Active    bool     `json:"active"`
}

type APIToken struct {
	ID         string     `json:"id"`
	UserID     string     `json:"userId"`
	Name       string     `json:"name"`
	TokenHash  string     `json:"tokenHash"`
	LastUsedAt *time.Time `json:"lastUsedAt,omitempty"`
}

func ValidResultStatus(s string) bool {
	switch s {
	case ResultStatusPassed, ResultStatusFailed, ResultStatusBlocked,
		ResultStatusRetest, ResultStatusUntested:
		return true
	}
	return false
}

func ValidRunStatus(s string) bool {
	switch s {
	case RunStatusDraft, RunStatusInProgress, RunStatusCompleted:
		return true
	}
	return false
}
