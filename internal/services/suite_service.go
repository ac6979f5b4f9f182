package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"planboard/internal/models"
	"planboard/internal/store"
)

type suiteServiceImpl struct {
	logger zerolog.Logger
	store  *store.Testbench
}

func NewSuiteService(
	logger zerolog.Logger,
	benchStore *store.Testbench,
) SuiteService {
	return &suiteServiceImpl{
		logger: logger,
		store:  benchStore,
	}
}

func (s *suiteServiceImpl) ListProjects(_ context.Context) ([]models.TestProject, error) {
	doc, err := s.load()
	if err != nil {
		return nil, err
	}
	return doc.Projects, nil
}

func (s *suiteServiceImpl) GetProject(_ context.Context, id string) (*models.TestProject, error) {
	doc, err := s.load()
	if err != nil {
		return nil, err
	}

	for i := range doc.Projects {
		if doc.Projects[i].ID == id {
			return &doc.Projects[i], nil
		}
	}

	s.logger.Warn().
		Str("project_id", id).
		Msg("test project not found")
	return nil, ErrNotFound
}

func (s *suiteServiceImpl) CreateProject(_ context.Context, name, key, description string) (*models.TestProject, error) {
	name = strings.TrimSpace(name)
	key = strings.ToUpper(strings.TrimSpace(key))
	if name == "" || key == "" {
		return nil, fmt.Errorf("%w: name and key are required", ErrValidation)
	}

	doc, err := s.load()
	if err != nil {
		return nil, err
	}

	id, err := newID()
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to generate project id")
		return nil, err
	}

	project := models.TestProject{
		ID:          id,
		Name:        name,
		Key:         key,
		Description: strings.TrimSpace(description),
		CreatedAt:   time.Now(),
	}
	doc.Projects = append(doc.Projects, project)

	err = s.save(doc)
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("project_id", project.ID).
		Str("key", project.Key).
		Msg("created test project")
	return &project, nil
}

func (s *suiteServiceImpl) UpdateProject(_ context.Context, id string, patch TestProjectPatch) (*models.TestProject, error) {
	doc, err := s.load()
	if err != nil {
		return nil, err
	}

	index := -1
	for i := range doc.Projects {
		if doc.Projects[i].ID == id {
			index = i
			break
		}
	}
	if index == -1 {
		return nil, ErrNotFound
	}

	project := doc.Projects[index]
	if patch.Name != nil {
		project.Name = strings.TrimSpace(*patch.Name)
	}
	if patch.Key != nil {
		project.Key = strings.ToUpper(strings.TrimSpace(*patch.Key))
	}
	if patch.Description != nil {
		project.Description = *patch.Description
	}
	doc.Projects[index] = project

	err = s.save(doc)
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("project_id", project.ID).
		Msg("updated test project")
	return &project, nil
}

// DeleteProject cascades through the whole project subtree: suites with
// their sections, cases and case data, then runs, milestones, plans and
// webhooks.
func (s *suiteServiceImpl) DeleteProject(_ context.Context, id string) error {
	doc, err := s.load()
	if err != nil {
		return err
	}

	projects := doc.Projects[:0:0]
	for _, p := range doc.Projects {
		if p.ID != id {
			projects = append(projects, p)
		}
	}
	if len(projects) == len(doc.Projects) {
		return ErrNotFound
	}
	doc.Projects = projects

	for _, suite := range doc.Suites {
		if suite.ProjectID == id {
			cascadeSuite(doc, suite.ID)
		}
	}
	suites := doc.Suites[:0:0]
	for _, su := range doc.Suites {
		if su.ProjectID != id {
			suites = append(suites, su)
		}
	}
	doc.Suites = suites

	runIDs := map[string]bool{}
	runs := doc.Runs[:0:0]
	for _, r := range doc.Runs {
		if r.ProjectID != id {
			runs = append(runs, r)
		} else {
			runIDs[r.ID] = true
		}
	}
	doc.Runs = runs
	cascadeRuns(doc, runIDs)

	milestones := doc.Milestones[:0:0]
	for _, m := range doc.Milestones {
		if m.ProjectID != id {
			milestones = append(milestones, m)
		}
	}
	doc.Milestones = milestones

	planIDs := map[string]bool{}
	plans := doc.Plans[:0:0]
	for _, p := range doc.Plans {
		if p.ProjectID != id {
			plans = append(plans, p)
		} else {
			planIDs[p.ID] = true
		}
	}
	doc.Plans = plans

	planRuns := doc.PlanRuns[:0:0]
	for _, pr := range doc.PlanRuns {
		if !planIDs[pr.PlanID] && !runIDs[pr.RunID] {
			planRuns = append(planRuns, pr)
		}
	}
	doc.PlanRuns = planRuns

	webhooks := doc.Webhooks[:0:0]
	for _, w := range doc.Webhooks {
		if w.ProjectID != id {
			webhooks = append(webhooks, w)
		}
	}
	doc.Webhooks = webhooks

	err = s.save(doc)
	if err != nil {
		return err
	}

	s.logger.Info().
		Str("project_id", id).
		Msg("deleted test project")
	return nil
}

func (s *suiteServiceImpl) ListSuites(_ context.Context, projectID string) ([]models.Suite, error) {
	doc, err := s.load()
	if err != nil {
		return nil, err
	}

	if projectID == "" {
		return doc.Suites, nil
	}
	suites := make([]models.Suite, 0, len(doc.Suites))
	for _, su := range doc.Suites {
		if su.ProjectID == projectID {
			suites = append(suites, su)
		}
	}
	return suites, nil
}

func (s *suiteServiceImpl) GetSuite(_ context.Context, id string) (*models.Suite, error) {
	doc, err := s.load()
	if err != nil {
		return nil, err
	}

	for i := range doc.Suites {
		if doc.Suites[i].ID == id {
			return &doc.Suites[i], nil
		}
	}
	return nil, ErrNotFound
}

func (s *suiteServiceImpl) CreateSuite(_ context.Context, projectID, name, description string) (*models.Suite, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("%w: suite name is required", ErrValidation)
	}

	doc, err := s.load()
	if err != nil {
		return nil, err
	}

	if !testProjectExists(doc, projectID) {
		return nil, fmt.Errorf("%w: unknown project %q", ErrValidation, projectID)
	}

	id, err := newID()
	if err != nil {
		return nil, err
	}

	suite := models.Suite{
		ID:          id,
		ProjectID:   projectID,
		Name:        strings.TrimSpace(name),
		Description: description,
	}
	doc.Suites = append(doc.Suites, suite)

	err = s.save(doc)
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("suite_id", suite.ID).
		Str("project_id", projectID).
		Msg("created suite")
	return &suite, nil
}

// DeleteSuite cascades: sections, cases, case steps, run cases and their
// results all go with the suite.
func (s *suiteServiceImpl) DeleteSuite(_ context.Context, id string) error {
	doc, err := s.load()
	if err != nil {
		return err
	}

	suites := doc.Suites[:0:0]
	found := false
	for _, su := range doc.Suites {
		if su.ID != id {
			suites = append(suites, su)
		} else {
			found = true
		}
	}
	if !found {
		return ErrNotFound
	}
	doc.Suites = suites
	cascadeSuite(doc, id)

	err = s.save(doc)
	if err != nil {
		return err
	}

	s.logger.Info().
		Str("suite_id", id).
		Msg("deleted suite")
	return nil
}

func (s *suiteServiceImpl) ListSections(_ context.Context, suiteID string) ([]models.Section, error) {
	doc, err := s.load()
	if err != nil {
		return nil, err
	}

	sections := make([]models.Section, 0, len(doc.Sections))
	for _, sec := range doc.Sections {
		if suiteID == "" || sec.SuiteID == suiteID {
			sections = append(sections, sec)
		}
	}
	return sections, nil
}

func (s *suiteServiceImpl) CreateSection(_ context.Context, suiteID, parentID, name string) (*models.Section, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("%w: section name is required", ErrValidation)
	}

	doc, err := s.load()
	if err != nil {
		return nil, err
	}

	if !suiteExists(doc, suiteID) {
		return nil, fmt.Errorf("%w: unknown suite %q", ErrValidation, suiteID)
	}

	id, err := newID()
	if err != nil {
		return nil, err
	}

	// Order is one past the suite's current section count.
	order := 1
	for _, sec := range doc.Sections {
		if sec.SuiteID == suiteID {
			order++
		}
	}

	section := models.Section{
		ID:       id,
		SuiteID:  suiteID,
		ParentID: parentID,
		Name:     strings.TrimSpace(name),
		Order:    order,
	}
	doc.Sections = append(doc.Sections, section)

	err = s.save(doc)
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("section_id", section.ID).
		Str("suite_id", suiteID).
		Msg("created section")
	return &section, nil
}

// DeleteSection cascades to the section's cases the same way a suite
// delete does.
func (s *suiteServiceImpl) DeleteSection(_ context.Context, id string) error {
	doc, err := s.load()
	if err != nil {
		return err
	}

	sections := doc.Sections[:0:0]
	found := false
	for _, sec := range doc.Sections {
		if sec.ID != id {
			sections = append(sections, sec)
		} else {
			found = true
		}
	}
	if !found {
		return ErrNotFound
	}
	doc.Sections = sections

	caseIDs := map[string]bool{}
	for _, c := range doc.Cases {
		if c.SectionID == id {
			caseIDs[c.ID] = true
		}
	}
	cascadeCases(doc, caseIDs)

	err = s.save(doc)
	if err != nil {
		return err
	}

	s.logger.Info().
		Str("section_id", id).
		Msg("deleted section")
	return nil
}

func (s *suiteServiceImpl) ListCases(_ context.Context, projectID, suiteID string) ([]models.Case, error) {
	doc, err := s.load()
	if err != nil {
		return nil, err
	}
	return filterCases(doc, projectID, suiteID), nil
}

func (s *suiteServiceImpl) GetCase(_ context.Context, id string) (*CaseWithSteps, error) {
	doc, err := s.load()
	if err != nil {
		return nil, err
	}

	for i := range doc.Cases {
		if doc.Cases[i].ID == id {
			return &CaseWithSteps{
				Case:  doc.Cases[i],
				Steps: orderedSteps(doc, id),
			}, nil
		}
	}
	return nil, ErrNotFound
}

func (s *suiteServiceImpl) CreateCase(_ context.Context, suiteID, sectionID, title string) (*models.Case, error) {
	if strings.TrimSpace(title) == "" {
		return nil, fmt.Errorf("%w: case title is required", ErrValidation)
	}

	doc, err := s.load()
	if err != nil {
		return nil, err
	}

	if !suiteExists(doc, suiteID) {
		return nil, fmt.Errorf("%w: unknown suite %q", ErrValidation, suiteID)
	}

	id, err := newID()
	if err != nil {
		return nil, err
	}

	testCase := models.Case{
		ID:        id,
		SuiteID:   suiteID,
		SectionID: sectionID,
		Title:     strings.TrimSpace(title),
		Priority:  "P2",
		Type:      "Functional",
		Tags:      []string{},
		Refs:      []string{},
		UpdatedAt: time.Now(),
	}
	doc.Cases = append(doc.Cases, testCase)

	err = s.save(doc)
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("case_id", testCase.ID).
		Str("suite_id", suiteID).
		Msg("created case")
	return &testCase, nil
}

// UpdateCase patches case fields and, when steps is not nil, replaces the
// whole step list re-indexed from 1.
func (s *suiteServiceImpl) UpdateCase(_ context.Context, id string, patch CasePatch, steps []StepInput) (*CaseWithSteps, error) {
	doc, err := s.load()
	if err != nil {
		return nil, err
	}

	index := -1
	for i := range doc.Cases {
		if doc.Cases[i].ID == id {
			index = i
			break
		}
	}
	if index == -1 {
		return nil, ErrNotFound
	}

	testCase := doc.Cases[index]
	if patch.Title != nil {
		testCase.Title = *patch.Title
	}
	if patch.Description != nil {
		testCase.Description = *patch.Description
	}
	if patch.Preconditions != nil {
		testCase.Preconditions = *patch.Preconditions
	}
	if patch.Priority != nil {
		testCase.Priority = *patch.Priority
	}
	if patch.Type != nil {
		testCase.Type = *patch.Type
	}
	if patch.Tags != nil {
		testCase.Tags = *patch.Tags
	}
	if patch.Refs != nil {
		testCase.Refs = *patch.Refs
	}
	if patch.SectionID != nil {
		testCase.SectionID = *patch.SectionID
	}
	testCase.UpdatedAt = time.Now()
	doc.Cases[index] = testCase

	if steps != nil {
		kept := doc.CaseSteps[:0:0]
		for _, st := range doc.CaseSteps {
			if st.CaseID != id {
				kept = append(kept, st)
			}
		}
		doc.CaseSteps = kept

		for i, input := range steps {
			stepID, err := newID()
			if err != nil {
				return nil, err
			}
			doc.CaseSteps = append(doc.CaseSteps, models.CaseStep{
				ID:       stepID,
				CaseID:   id,
				Index:    i + 1,
				Action:   input.Action,
				Expected: input.Expected,
			})
		}
	}

	err = s.save(doc)
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("case_id", id).
		Msg("updated case")
	return &CaseWithSteps{Case: testCase, Steps: orderedSteps(doc, id)}, nil
}

func (s *suiteServiceImpl) DeleteCase(_ context.Context, id string) error {
	doc, err := s.load()
	if err != nil {
		return err
	}

	found := false
	for _, c := range doc.Cases {
		if c.ID == id {
			found = true
			break
		}
	}
	if !found {
		return ErrNotFound
	}
	cascadeCases(doc, map[string]bool{id: true})

	err = s.save(doc)
	if err != nil {
		return err
	}

	s.logger.Info().
		Str("case_id", id).
		Msg("deleted case")
	return nil
}

func (s *suiteServiceImpl) load() (*store.TestbenchDocument, error) {
	doc, err := s.store.Load()
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to load testbench document")
		return nil, err
	}
	return doc, nil
}

func (s *suiteServiceImpl) save(doc *store.TestbenchDocument) error {
	err := s.store.Save(doc)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to save testbench document")
		return err
	}
	return nil
}

func testProjectExists(doc *store.TestbenchDocument, id string) bool {
	for _, p := range doc.Projects {
		if p.ID == id {
			return true
		}
	}
	return false
}

func suiteExists(doc *store.TestbenchDocument, id string) bool {
	for _, su := range doc.Suites {
		if su.ID == id {
			return true
		}
	}
	return false
}

func filterCases(doc *store.TestbenchDocument, projectID, suiteID string) []models.Case {
	projectSuites := map[string]bool{}
	if projectID != "" {
		for _, su := range doc.Suites {
			if su.ProjectID == projectID {
				projectSuites[su.ID] = true
			}
		}
	}

	cases := make([]models.Case, 0, len(doc.Cases))
	for _, c := range doc.Cases {
		if projectID != "" && !projectSuites[c.SuiteID] {
			continue
		}
		if suiteID != "" && c.SuiteID != suiteID {
			continue
		}
		cases = append(cases, c)
	}
	return cases
}

func orderedSteps(doc *store.TestbenchDocument, caseID string) []models.CaseStep {
	steps := make([]models.CaseStep, 0, 4)
	for _, st := range doc.CaseSteps {
		if st.CaseID == caseID {
			steps = append(steps, st)
		}
	}
	for i := 1; i < len(steps); i++ {
		for j := i; j > 0 && steps[j].Index < steps[j-1].Index; j-- {
			steps[j], steps[j-1] = steps[j-1], steps[j]
		}
	}
	return steps
}

// cascadeSuite removes a deleted suite's sections, cases and dependent
// case data. The suite row itself is the caller's responsibility.
func cascadeSuite(doc *store.TestbenchDocument, suiteID string) {
	sections := doc.Sections[:0:0]
	for _, sec := range doc.Sections {
		if sec.SuiteID != suiteID {
			sections = append(sections, sec)
		}
	}
	doc.Sections = sections

	caseIDs := map[string]bool{}
	for _, c := range doc.Cases {
		if c.SuiteID == suiteID {
			caseIDs[c.ID] = true
		}
	}
	cascadeCases(doc, caseIDs)
}

// cascadeCases removes the given cases plus their steps, run cases and
// results.
func cascadeCases(doc *store.TestbenchDocument, caseIDs map[string]bool) {
	if len(caseIDs) == 0 {
		return
	}

	cases := doc.Cases[:0:0]
	for _, c := range doc.Cases {
		if !caseIDs[c.ID] {
			cases = append(cases, c)
		}
	}
	doc.Cases = cases

	steps := doc.CaseSteps[:0:0]
	for _, st := range doc.CaseSteps {
		if !caseIDs[st.CaseID] {
			steps = append(steps, st)
		}
	}
	doc.CaseSteps = steps

	runCaseIDs := map[string]bool{}
	runCases := doc.RunCases[:0:0]
	for _, rc := range doc.RunCases {
		if !caseIDs[rc.CaseID] {
			runCases = append(runCases, rc)
		} else {
			runCaseIDs[rc.ID] = true
		}
	}
	doc.RunCases = runCases

	results := doc.Results[:0:0]
	for _, r := range doc.Results {
		if !runCaseIDs[r.RunCaseID] {
			results = append(results, r)
		}
	}
	doc.Results = results
}

// cascadeRuns removes run cases and results belonging to deleted runs.
func cascadeRuns(doc *store.TestbenchDocument, runIDs map[string]bool) {
	if len(runIDs) == 0 {
		return
	}

	runCaseIDs := map[string]bool{}
	runCases := doc.RunCases[:0:0]
	for _, rc := range doc.RunCases {
		if !runIDs[rc.RunID] {
			runCases = append(runCases, rc)
		} else {
			runCaseIDs[rc.ID] = true
		}
	}
	doc.RunCases = runCases

	results := doc.Results[:0:0]
	for _, r := range doc.Results {
		if !runCaseIDs[r.RunCaseID] {
			results = append(results, r)
		}
	}
	doc.Results = results

	planRuns := doc.PlanRuns[:0:0]
	for _, pr := range doc.PlanRuns {
		if !runIDs[pr.RunID] {
			planRuns = append(planRuns, pr)
		}
	}
	doc.PlanRuns = planRuns
}
