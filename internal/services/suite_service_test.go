package services

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"planboard/internal/models"
	"planboard/internal/store"
)

type benchFixture struct {
	store  *store.Testbench
	suites SuiteService
	runs   RunService
	auth   AuthService
}

func newBenchFixture(t *testing.T) *benchFixture {
	t.Helper()
	benchStore := store.NewTestbench(filepath.Join(t.TempDir(), "testbench.json"))
	logger := zerolog.Nop()
	return &benchFixture{
		store:  benchStore,
		suites: NewSuiteService(logger, benchStore),
		runs:   NewRunService(logger, benchStore, nil),
		auth:   NewAuthService(logger, benchStore, "planboard-test", []byte("test-signing-key"), 15*time.Minute),
	}
}

func (f *benchFixture) seedSuite(t *testing.T) (*models.TestProject, *models.Suite) {
	t.Helper()
	ctx := context.Background()
	project, err := f.suites.CreateProject(ctx, "Demo Project", "demo", "")
	if err != nil {
		t.Fatalf("CreateProject: %v", err)
	}
	suite, err := f.suites.CreateSuite(ctx, project.ID, "Main Suite", "")
	if err != nil {
		t.Fatalf("CreateSuite: %v", err)
	}
	return project, suite
}

func TestCreateTestProject_UppercasesKey(t *testing.T) {
	f := newBenchFixture(t)

	project, err := f.suites.CreateProject(context.Background(), "Demo", "demo", "")
	if err != nil {
		t.Fatalf("CreateProject: %v", err)
	}
	if project.Key != "DEMO" {
		t.Fatalf("key = %q, want DEMO", project.Key)
	}
}

func TestCreateTestProject_RequiresNameAndKey(t *testing.T) {
	f := newBenchFixture(t)

	if _, err := f.suites.CreateProject(context.Background(), "", "DEMO", ""); !errors.Is(err, ErrValidation) {
		t.Fatalf("missing name: err = %v, want ErrValidation", err)
	}
	if _, err := f.suites.CreateProject(context.Background(), "Demo", "  ", ""); !errors.Is(err, ErrValidation) {
		t.Fatalf("missing key: err = %v, want ErrValidation", err)
	}
}

func TestCreateSection_AssignsSequentialOrder(t *testing.T) {
	f := newBenchFixture(t)
	ctx := context.Background()
	_, suite := f.seedSuite(t)

	first, err := f.suites.CreateSection(ctx, suite.ID, "", "Login")
	if err != nil {
		t.Fatalf("CreateSection: %v", err)
	}
	second, err := f.suites.CreateSection(ctx, suite.ID, "", "Checkout")
	if err != nil {
		t.Fatalf("CreateSection: %v", err)
	}
	if first.Order != 1 || second.Order != 2 {
		t.Fatalf("orders = %d, %d; want 1, 2", first.Order, second.Order)
	}
}

func TestUpdateCase_ReplacesStepsReindexed(t *testing.T) {
	f := newBenchFixture(t)
	ctx := context.Background()
	_, suite := f.seedSuite(t)

	created, err := f.suites.CreateCase(ctx, suite.ID, "", "User can login")
	if err != nil {
		t.Fatalf("CreateCase: %v", err)
	}

	updated, err := f.suites.UpdateCase(ctx, created.ID, CasePatch{}, []StepInput{
		{Action: "Open page", Expected: "Page loads"},
		{Action: "Submit form", Expected: "Redirect"},
	})
	if err != nil {
		t.Fatalf("UpdateCase: %v", err)
	}
	if len(updated.Steps) != 2 {
		t.Fatalf("steps = %d, want 2", len(updated.Steps))
	}
	if updated.Steps[0].Index != 1 || updated.Steps[1].Index != 2 {
		t.Fatalf("indices = %d, %d; want 1, 2", updated.Steps[0].Index, updated.Steps[1].Index)
	}

	// Replacing with one step drops the old list entirely.
	updated, err = f.suites.UpdateCase(ctx, created.ID, CasePatch{}, []StepInput{
		{Action: "Only step", Expected: "Done"},
	})
	if err != nil {
		t.Fatalf("UpdateCase: %v", err)
	}
	if len(updated.Steps) != 1 || updated.Steps[0].Index != 1 {
		t.Fatalf("steps after replace = %+v", updated.Steps)
	}
}

func TestDeleteSuite_CascadesCaseData(t *testing.T) {
	f := newBenchFixture(t)
	ctx := context.Background()
	project, suite := f.seedSuite(t)

	testCase, err := f.suites.CreateCase(ctx, suite.ID, "", "Doomed case")
	if err != nil {
		t.Fatalf("CreateCase: %v", err)
	}
	if _, err = f.suites.UpdateCase(ctx, testCase.ID, CasePatch{}, []StepInput{
		{Action: "Step", Expected: "Result"},
	}); err != nil {
		t.Fatalf("UpdateCase: %v", err)
	}

	run, err := f.runs.CreateRun(ctx, project.ID, "Smoke", "", []string{testCase.ID})
	if err != nil {
		t.Fatalf("CreateRun: %v", err)
	}
	detail, err := f.runs.GetRun(ctx, run.ID)
	if err != nil {
		t.Fatalf("GetRun: %v", err)
	}
	if _, err = f.runs.RecordResult(ctx, run.ID, RecordResultParams{
		RunCaseID: detail.Cases[0].ID,
		Status:    models.ResultStatusPassed,
	}); err != nil {
		t.Fatalf("RecordResult: %v", err)
	}

	if err = f.suites.DeleteSuite(ctx, suite.ID); err != nil {
		t.Fatalf("DeleteSuite: %v", err)
	}

	doc, err := f.store.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(doc.Suites) != 0 || len(doc.Sections) != 0 || len(doc.Cases) != 0 {
		t.Fatalf("suite subtree survived: %+v", doc)
	}
	if len(doc.CaseSteps) != 0 || len(doc.RunCases) != 0 || len(doc.Results) != 0 {
		t.Fatalf("case data survived: steps=%d runCases=%d results=%d",
			len(doc.CaseSteps), len(doc.RunCases), len(doc.Results))
	}
	// The run row itself belongs to the project, not the suite.
	if len(doc.Runs) != 1 {
		t.Fatalf("runs = %d, want 1", len(doc.Runs))
	}
}

func TestExportCasesCSV_QuotesSpecialCharacters(t *testing.T) {
	f := newBenchFixture(t)
	ctx := context.Background()
	_, suite := f.seedSuite(t)

	if _, err := f.suites.CreateCase(ctx, suite.ID, "", `Login, then "verify" redirect`); err != nil {
		t.Fatalf("CreateCase: %v", err)
	}

	data, err := f.suites.ExportCasesCSV(ctx, "", suite.ID)
	if err != nil {
		t.Fatalf("ExportCasesCSV: %v", err)
	}

	out := string(data)
	if !strings.HasPrefix(out, "id,title,description") {
		t.Fatalf("unexpected header: %s", out)
	}
	if !strings.Contains(out, `"Login, then ""verify"" redirect"`) {
		t.Fatalf("title not quoted: %s", out)
	}
}

func TestImportCasesCSV_RequiresTitleHeader(t *testing.T) {
	f := newBenchFixture(t)
	_, suite := f.seedSuite(t)

	_, err := f.suites.ImportCasesCSV(context.Background(), suite.ID, []byte("id,name\n1,foo\n"))
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("err = %v, want ErrValidation", err)
	}
}

func TestImportCasesCSV_ImportsRows(t *testing.T) {
	f := newBenchFixture(t)
	ctx := context.Background()
	_, suite := f.seedSuite(t)

	csvData := strings.Join([]string{
		"id,title,description,preconditions,priority,type",
		",First case,desc,,P1,Smoke",
		",,missing title row,,,",
		"",
	}, "\n")

	imported, err := f.suites.ImportCasesCSV(ctx, suite.ID, []byte(csvData))
	if err != nil {
		t.Fatalf("ImportCasesCSV: %v", err)
	}
	if imported != 2 {
		t.Fatalf("imported = %d, want 2", imported)
	}

	cases, err := f.suites.ListCases(ctx, "", suite.ID)
	if err != nil {
		t.Fatalf("ListCases: %v", err)
	}
	if len(cases) != 2 {
		t.Fatalf("cases = %d, want 2", len(cases))
	}
	if cases[0].Title != "First case" || cases[0].Priority != "P1" || cases[0].Type != "Smoke" {
		t.Fatalf("first case = %+v", cases[0])
	}
	if cases[1].Title != "Imported Case" {
		t.Fatalf("fallback title = %q, want Imported Case", cases[1].Title)
	}
	if cases[1].Priority != "P2" || cases[1].Type != "Functional" {
		t.Fatalf("defaults = %q/%q, want P2/Functional", cases[1].Priority, cases[1].Type)
	}
}

func TestEnsureDefaults_SeedsDemoProject(t *testing.T) {
	f := newBenchFixture(t)
	ctx := context.Background()

	if err := f.suites.EnsureDefaults(ctx); err != nil {
		t.Fatalf("EnsureDefaults: %v", err)
	}

	doc, err := f.store.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(doc.Projects) != 1 || doc.Projects[0].Key != "DEMO" {
		t.Fatalf("projects = %+v", doc.Projects)
	}
	if len(doc.Users) != 1 || doc.Users[0].Email != "demo@example.com" {
		t.Fatalf("users = %+v", doc.Users)
	}
	if len(doc.Cases) != 1 || len(doc.CaseSteps) != 2 {
		t.Fatalf("cases = %d, steps = %d", len(doc.Cases), len(doc.CaseSteps))
	}

	// Seeding again is a no-op.
	if err = f.suites.EnsureDefaults(ctx); err != nil {
		t.Fatalf("EnsureDefaults again: %v", err)
	}
	doc, err = f.store.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(doc.Projects) != 1 {
		t.Fatalf("projects after rerun = %d, want 1", len(doc.Projects))
	}
}
