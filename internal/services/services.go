package services

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"planboard/internal/models"
)

var (
	ErrNotFound   = errors.New("not found")
	ErrValidation = errors.New("validation failed")

	ErrUserNotFound         = errors.New("user not found")
	ErrUserAlreadyExists    = errors.New("user already exists")
	ErrUserPasswordMismatch = errors.New("user password mismatch")
	ErrTokenInvalid         = errors.New("invalid api token")
)

// PlannerService owns the Gantt planner collections: projects, tasks and
// team members. Deleting a project cascades to its tasks. Assignee and
// project references are validated on write; an empty assignee means
// explicitly unassigned.
type PlannerService interface {
	ListProjects(ctx context.Context) ([]models.Project, error)
	GetProject(ctx context.Context, id string) (*models.Project, error)
	CreateProject(ctx context.Context, params CreateProjectParams) (*models.Project, error)
	UpdateProject(ctx context.Context, id string, patch ProjectPatch) (*models.Project, error)
	DeleteProject(ctx context.Context, id string) error

	// ListTasks returns every task, or only a project's tasks when
	// projectID is not empty.
	ListTasks(ctx context.Context, projectID string) ([]models.Task, error)
	GetTask(ctx context.Context, id string) (*models.Task, error)
	CreateTask(ctx context.Context, params CreateTaskParams) (*models.Task, error)
	UpdateTask(ctx context.Context, id string, patch TaskPatch) (*models.Task, error)
	DeleteTask(ctx context.Context, id string) error

	ListMembers(ctx context.Context) ([]models.TeamMember, error)
	GetMember(ctx context.Context, id string) (*models.TeamMember, error)
	CreateMember(ctx context.Context, params CreateMemberParams) (*models.TeamMember, error)
	UpdateMember(ctx context.Context, id string, patch MemberPatch) (*models.TeamMember, error)
	DeleteMember(ctx context.Context, id string) error

	// EnsureDefaults seeds empty collections at startup; Clean, Seed and
	// Reset back the database maintenance endpoint.
	EnsureDefaults(ctx context.Context) error
	Clean(ctx context.Context) error
	Seed(ctx context.Context) error
	Reset(ctx context.Context) error
	Stats(ctx context.Context) (*PlannerStats, error)
}

type CreateProjectParams struct {
	Name        string
	Description string
	StartDate   string
	EndDate     string
	Status      string
	TeamMembers []string
}

type ProjectPatch struct {
	Name        *string
	Description *string
	StartDate   *string
	EndDate     *string
	Status      *string
	TeamMembers *[]string
}

type CreateTaskParams struct {
	Name         string
	Description  string
	StartDate    string
	EndDate      string
	Status       string
	Assignee     string
	Dependencies []string
	Progress     int
	Priority     string
	ProjectID    string
}

type TaskPatch struct {
	Name         *string
	Description  *string
	StartDate    *string
	EndDate      *string
	Status       *string
	Assignee     *string
	Dependencies *[]string
	Progress     *int
	Priority     *string
	ProjectID    *string
}

type CreateMemberParams struct {
	Name   string
	Email  string
	Role   string
	Avatar string
}

type MemberPatch struct {
	Name   *string
	Email  *string
	Role   *string
	Avatar *string
}

type PlannerStats struct {
	Projects        int `json:"projects"`
	Tasks           int `json:"tasks"`
	TeamMembers     int `json:"teamMembers"`
	CompletedTasks  int `json:"completedTasks"`
	InProgressTasks int `json:"inProgressTasks"`
	NotStartedTasks int `json:"notStartedTasks"`
}

// SuiteService owns the test repository side of the testbench: projects,
// suites, sections, cases and their steps, including CSV export and
// import of cases. Parent deletes cascade through dependents
// (suite -> sections -> cases -> steps, run cases, results).
type SuiteService interface {
	ListProjects(ctx context.Context) ([]models.TestProject, error)
	GetProject(ctx context.Context, id string) (*models.TestProject, error)
	CreateProject(ctx context.Context, name, key, description string) (*models.TestProject, error)
	UpdateProject(ctx context.Context, id string, patch TestProjectPatch) (*models.TestProject, error)
	DeleteProject(ctx context.Context, id string) error

	ListSuites(ctx context.Context, projectID string) ([]models.Suite, error)
	GetSuite(ctx context.Context, id string) (*models.Suite, error)
	CreateSuite(ctx context.Context, projectID, name, description string) (*models.Suite, error)
	DeleteSuite(ctx context.Context, id string) error

	ListSections(ctx context.Context, suiteID string) ([]models.Section, error)
	CreateSection(ctx context.Context, suiteID, parentID, name string) (*models.Section, error)
	DeleteSection(ctx context.Context, id string) error

	ListCases(ctx context.Context, projectID, suiteID string) ([]models.Case, error)
	GetCase(ctx context.Context, id string) (*CaseWithSteps, error)
	CreateCase(ctx context.Context, suiteID, sectionID, title string) (*models.Case, error)
	UpdateCase(ctx context.Context, id string, patch CasePatch, steps []StepInput) (*CaseWithSteps, error)
	DeleteCase(ctx context.Context, id string) error

	ExportCasesCSV(ctx context.Context, projectID, suiteID string) ([]byte, error)
	ImportCasesCSV(ctx context.Context, suiteID string, data []byte) (int, error)

	EnsureDefaults(ctx context.Context) error
}

type TestProjectPatch struct {
	Name        *string
	Key         *string
	Description *string
}

type CasePatch struct {
	Title         *string
	Description   *string
	Preconditions *string
	Priority      *string
	Type          *string
	Tags          *[]string
	Refs          *[]string
	SectionID     *string
}

type StepInput struct {
	Action   string `json:"action"`
	Expected string `json:"expected"`
}

type CaseWithSteps struct {
	models.Case
	Steps []models.CaseStep `json:"steps"`
}

// RunService owns test execution: runs, run cases, their append-only
// results, milestones, plans, webhooks and the run CSV export. Recording
// a result notifies the project's active webhooks.
type RunService interface {
	ListRuns(ctx context.Context, projectID string) ([]models.Run, error)
	GetRun(ctx context.Context, id string) (*RunDetail, error)
	CreateRun(ctx context.Context, projectID, name, description string, caseIDs []string) (*models.Run, error)
	StartRun(ctx context.Context, id string) (*models.Run, error)
	CompleteRun(ctx context.Context, id string) (*models.Run, error)
	DeleteRun(ctx context.Context, id string) error

	RecordResult(ctx context.Context, runID string, params RecordResultParams) (*models.Result, error)
	ExportRunCSV(ctx context.Context, runID string) ([]byte, error)

	ListMilestones(ctx context.Context, projectID string) ([]models.Milestone, error)
	CreateMilestone(ctx context.Context, projectID, name, dueDate string) (*models.Milestone, error)
	UpdateMilestone(ctx context.Context, id string, patch MilestonePatch) (*models.Milestone, error)
	DeleteMilestone(ctx context.Context, id string) error

	ListPlans(ctx context.Context, projectID string) ([]models.Plan, error)
	CreatePlan(ctx context.Context, projectID, name, description, milestoneID string, runIDs []string) (*models.Plan, error)
	UpdatePlan(ctx context.Context, id string, patch PlanPatch) (*models.Plan, error)
	DeletePlan(ctx context.Context, id string) error

	ListWebhooks(ctx context.Context, projectID string) ([]models.Webhook, error)
	CreateWebhook(ctx context.Context, projectID, url string, events []string) (*models.Webhook, error)
	UpdateWebhook(ctx context.Context, id string, patch WebhookPatch) (*models.Webhook, error)
	DeleteWebhook(ctx context.Context, id string) error
}

type RecordResultParams struct {
	RunCaseID   string
	Status      string
	Comment     string
	DurationSec int
	CreatedBy   string
}

type MilestonePatch struct {
	Name    *string
	DueDate *string
	Status  *string
}

type PlanPatch struct {
	Name        *string
	Description *string
	MilestoneID *string
	Status      *string
}

type WebhookPatch struct {
	URL    *string
	Events *[]string
	Active *bool
}

// RunCaseDetail joins a run case with its case title and current status,
// the status of the most recently appended result.
type RunCaseDetail struct {
	models.RunCase
	CaseTitle     string `json:"caseTitle"`
	CurrentStatus string `json:"currentStatus"`
}

type RunDetail struct {
	models.Run
	Cases []RunCaseDetail `json:"cases"`
}

// AuthService owns testbench users and api tokens.
type AuthService interface {
	// Register creates a user with an argon2id password hash. It returns
	// ErrUserAlreadyExists if the email is taken.
	Register(ctx context.Context, params RegisterParams) (*models.User, error)

	// Login authenticates by email and password and returns a signed JWT
	// access token. It returns ErrUserNotFound if the email is unknown or
	// ErrUserPasswordMismatch if the password does not match.
	Login(ctx context.Context, email, password string) (*LoginResult, error)

	// ParseAccessToken validates a JWT access token and returns its claims.
	ParseAccessToken(token string) (*jwt.RegisteredClaims, error)

	// CreateToken mints an api token for a user. The bearer secret is
	// returned exactly once; only its argon2id hash is stored.
	CreateToken(ctx context.Context, userID, name string) (*TokenResult, error)
	ListTokens(ctx context.Context, userID string) ([]models.APIToken, error)
	DeleteToken(ctx context.Context, id string) error

	// VerifyAPIToken checks a presented "<id>.<secret>" bearer token and
	// returns its owner, refreshing the token's last-used timestamp.
	VerifyAPIToken(ctx context.Context, token string) (*models.User, error)
}

type RegisterParams struct {
	Email    string
	Name     string
	Role     string
	Password string
}

type LoginResult struct {
	UserID               string
	AccessToken          string
	AccessTokenExpiresAt time.Time
}

type TokenResult struct {
	Token  models.APIToken
	Secret string
}
