package services

import (
	"context"
	"time"

	"github.com/alexedwards/argon2id"

	"planboard/internal/models"
)

// EnsureDefaults seeds a demo project with one suite, section, case and a
// draft run when the testbench is empty.
func (s *suiteServiceImpl) EnsureDefaults(_ context.Context) error {
	doc, err := s.load()
	if err != nil {
		return err
	}
	if len(doc.Projects) > 0 {
		return nil
	}

	ids := make([]string, 8)
	for i := range ids {
		ids[i], err = newID()
		if err != nil {
			return err
		}
	}

	passwordHash, err := argon2id.CreateHash("demo1234", argon2id.DefaultParams)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to hash demo password")
		return err
	}

	now := time.Now()
	user := models.User{
		ID:           ids[0],
		Email:        "demo@example.com",
		Name:         "Demo",
		Role:         models.RoleAdmin,
		PasswordHash: passwordHash,
	}
	project := models.TestProject{
		ID:          ids[1],
		Name:        "Demo Project",
		Key:         "DEMO",
		Description: "Sample project",
		CreatedAt:   now,
	}
	suite := models.Suite{
		ID:          ids[2],
		ProjectID:   project.ID,
		Name:        "Main Suite",
		Description: "Default suite",
	}
	section := models.Section{
		ID:      ids[3],
		SuiteID: suite.ID,
		Name:    "Login",
		Order:   1,
	}
	demoCase := models.Case{
		ID:            ids[4],
		SuiteID:       suite.ID,
		SectionID:     section.ID,
		Title:         "User can login",
		Description:   "Valid creds",
		Preconditions: "User exists",
		Priority:      "P1",
		Type:          "Functional",
		Tags:          []string{"auth"},
		Refs:          []string{},
		UpdatedAt:     now,
	}
	run := models.Run{
		ID:          ids[5],
		ProjectID:   project.ID,
		Name:        "Smoke 1",
		Description: "Initial",
		Status:      models.RunStatusDraft,
	}
	runCase := models.RunCase{
		ID:     ids[6],
		RunID:  run.ID,
		CaseID: demoCase.ID,
	}

	stepIDs := make([]string, 2)
	for i := range stepIDs {
		stepIDs[i], err = newID()
		if err != nil {
			return err
		}
	}

	doc.Users = append(doc.Users, user)
	doc.Projects = append(doc.Projects, project)
	doc.Suites = append(doc.Suites, suite)
	doc.Sections = append(doc.Sections, section)
	doc.Cases = append(doc.Cases, demoCase)
	doc.CaseSteps = append(doc.CaseSteps,
		models.CaseStep{ID: stepIDs[0], CaseID: demoCase.ID, Index: 1, Action: "Open login page", Expected: "Page loads"},
		models.CaseStep{ID: stepIDs[1], CaseID: demoCase.ID, Index: 2, Action: "Enter valid creds and submit", Expected: "Redirect to dashboard"},
	)
	doc.Runs = append(doc.Runs, run)
	doc.RunCases = append(doc.RunCases, runCase)
	doc.Results = append(doc.Results, models.Result{
		ID:        ids[7],
		RunCaseID: runCase.ID,
		Status:    models.ResultStatusUntested,
		CreatedBy: user.ID,
		CreatedAt: now,
	})

	err = s.save(doc)
	if err != nil {
		return err
	}

	s.logger.Info().
		Str("project_id", project.ID).
		Msg("seeded demo testbench data")
	return nil
}
