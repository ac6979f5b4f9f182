package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"planboard/internal/models"
	"planboard/internal/store"
)

type runServiceImpl struct {
	logger   zerolog.Logger
	store    *store.Testbench
	notifier *WebhookNotifier
}

func NewRunService(
	logger zerolog.Logger,
	benchStore *store.Testbench,
	notifier *WebhookNotifier,
) RunService {
	return &runServiceImpl{
		logger:   logger,
		store:    benchStore,
		notifier: notifier,
	}
}

func (s *runServiceImpl) ListRuns(_ context.Context, projectID string) ([]models.Run, error) {
	doc, err := s.load()
	if err != nil {
		return nil, err
	}

	if projectID == "" {
		return doc.Runs, nil
	}
	runs := make([]models.Run, 0, len(doc.Runs))
	for _, r := range doc.Runs {
		if r.ProjectID == projectID {
			runs = append(runs, r)
		}
	}
	return runs, nil
}

func (s *runServiceImpl) GetRun(_ context.Context, id string) (*RunDetail, error) {
	doc, err := s.load()
	if err != nil {
		return nil, err
	}

	run := findRun(doc, id)
	if run == nil {
		s.logger.Warn().
			Str("run_id", id).
			Msg("run not found")
		return nil, ErrNotFound
	}

	detail := &RunDetail{Run: *run}
	for _, rc := range doc.RunCases {
		if rc.RunID != id {
			continue
		}
		detail.Cases = append(detail.Cases, RunCaseDetail{
			RunCase:       rc,
			CaseTitle:     caseTitle(doc, rc.CaseID),
			CurrentStatus: currentStatus(doc, rc.ID),
		})
	}
	return detail, nil
}

func (s *runServiceImpl) CreateRun(_ context.Context, projectID, name, description string, caseIDs []string) (*models.Run, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("%w: run name is required", ErrValidation)
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

	run := models.Run{
		ID:          id,
		ProjectID:   projectID,
		Name:        strings.TrimSpace(name),
		Description: description,
		Status:      models.RunStatusDraft,
	}
	doc.Runs = append(doc.Runs, run)

	for _, caseID := range caseIDs {
		runCaseID, err := newID()
		if err != nil {
			return nil, err
		}
		doc.RunCases = append(doc.RunCases, models.RunCase{
			ID:     runCaseID,
			RunID:  run.ID,
			CaseID: caseID,
		})
	}

	err = s.save(doc)
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("run_id", run.ID).
		Int("cases", len(caseIDs)).
		Msg("created run")
	return &run, nil
}

func (s *runServiceImpl) StartRun(_ context.Context, id string) (*models.Run, error) {
	return s.transitionRun(id, models.RunStatusInProgress)
}

func (s *runServiceImpl) CompleteRun(_ context.Context, id string) (*models.Run, error) {
	return s.transitionRun(id, models.RunStatusCompleted)
}

func (s *runServiceImpl) transitionRun(id, status string) (*models.Run, error) {
	doc, err := s.load()
	if err != nil {
		return nil, err
	}

	index := -1
	for i := range doc.Runs {
		if doc.Runs[i].ID == id {
			index = i
			break
		}
	}
	if index == -1 {
		s.logger.Warn().
			Str("run_id", id).
			Msg("run not found")
		return nil, ErrNotFound
	}

	now := time.Now()
	run := doc.Runs[index]
	run.Status = status
	switch status {
	case models.RunStatusInProgress:
		run.StartedAt = &now
	case models.RunStatusCompleted:
		run.CompletedAt = &now
	}
	doc.Runs[index] = run

	err = s.save(doc)
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("run_id", run.ID).
		Str("status", run.Status).
		Msg("updated run status")
	return &run, nil
}

func (s *runServiceImpl) DeleteRun(_ context.Context, id string) error {
	doc, err := s.load()
	if err != nil {
		return err
	}

	runs := doc.Runs[:0:0]
	found := false
	for _, r := range doc.Runs {
		if r.ID != id {
			runs = append(runs, r)
		} else {
			found = true
		}
	}
	if !found {
		return ErrNotFound
	}
	doc.Runs = runs
	cascadeRuns(doc, map[string]bool{id: true})

	err = s.save(doc)
	if err != nil {
		return err
	}

	s.logger.Info().
		Str("run_id", id).
		Msg("deleted run")
	return nil
}

// RecordResult appends a status event for one run case. Results are never
// updated in place; the newest event wins. Active webhooks subscribed to
// result.recorded are notified after the write.
func (s *runServiceImpl) RecordResult(_ context.Context, runID string, params RecordResultParams) (*models.Result, error) {
	if !models.ValidResultStatus(params.Status) {
		return nil, fmt.Errorf("%w: unknown result status %q", ErrValidation, params.Status)
	}

	doc, err := s.load()
	if err != nil {
		return nil, err
	}

	run := findRun(doc, runID)
	if run == nil {
		return nil, ErrNotFound
	}

	var runCase *models.RunCase
	for i := range doc.RunCases {
		if doc.RunCases[i].ID == params.RunCaseID && doc.RunCases[i].RunID == runID {
			runCase = &doc.RunCases[i]
			break
		}
	}
	if runCase == nil {
		s.logger.Warn().
			Str("run_id", runID).
			Str("run_case_id", params.RunCaseID).
			Msg("run case not found")
		return nil, ErrNotFound
	}

	id, err := newID()
	if err != nil {
		return nil, err
	}

	createdBy := params.CreatedBy
	if createdBy == "" {
		createdBy = "system"
	}

	result := models.Result{
		ID:          id,
		RunCaseID:   runCase.ID,
		Status:      params.Status,
		Comment:     params.Comment,
		DurationSec: params.DurationSec,
		CreatedBy:   createdBy,
		CreatedAt:   time.Now(),
	}
	doc.Results = append(doc.Results, result)

	err = s.save(doc)
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("run_id", runID).
		Str("run_case_id", runCase.ID).
		Str("status", result.Status).
		Msg("recorded result")

	s.notifyResultRecorded(doc, run, runCase, &result)
	return &result, nil
}

func (s *runServiceImpl) notifyResultRecorded(doc *store.TestbenchDocument, run *models.Run, runCase *models.RunCase, result *models.Result) {
	if s.notifier == nil {
		return
	}

	payload := ResultRecordedEvent{
		RunID:     run.ID,
		RunName:   run.Name,
		RunCaseID: runCase.ID,
		CaseID:    runCase.CaseID,
		CaseTitle: caseTitle(doc, runCase.CaseID),
		Status:    result.Status,
	}
	for _, hook := range doc.Webhooks {
		if hook.ProjectID != run.ProjectID || !hook.Active {
			continue
		}
		if !subscribed(hook, EventResultRecorded) {
			continue
		}
		go s.notifier.Notify(hook, EventResultRecorded, payload)
	}
}

func subscribed(hook models.Webhook, event string) bool {
	for _, e := range hook.Events {
		if e == event {
			return true
		}
	}
	return false
}

// ExportRunCSV serializes the run's cases with their current status using
// standard CSV quoting.
func (s *runServiceImpl) ExportRunCSV(_ context.Context, runID string) ([]byte, error) {
	doc, err := s.load()
	if err != nil {
		return nil, err
	}

	run := findRun(doc, runID)
	if run == nil {
		return nil, ErrNotFound
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	err = w.Write([]string{"run", "caseTitle", "status"})
	if err != nil {
		return nil, fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, rc := range doc.RunCases {
		if rc.RunID != runID {
			continue
		}
		err = w.Write([]string{run.Name, caseTitle(doc, rc.CaseID), currentStatus(doc, rc.ID)})
		if err != nil {
			return nil, fmt.Errorf("failed to write csv row: %w", err)
		}
	}

	w.Flush()
	err = w.Error()
	if err != nil {
		return nil, fmt.Errorf("failed to flush csv: %w", err)
	}

	s.logger.Info().
		Str("run_id", runID).
		Msg("exported run csv")
	return buf.Bytes(), nil
}

func (s *runServiceImpl) load() (*store.TestbenchDocument, error) {
	doc, err := s.store.Load()
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to load testbench document")
		return nil, err
	}
	return doc, nil
}

func (s *runServiceImpl) save(doc *store.TestbenchDocument) error {
	err := s.store.Save(doc)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to save testbench document")
		return err
	}
	return nil
}

func findRun(doc *store.TestbenchDocument, id string) *models.Run {
	for i := range doc.Runs {
		if doc.Runs[i].ID == id {
			return &doc.Runs[i]
		}
	}
	return nil
}

func caseTitle(doc *store.TestbenchDocument, caseID string) string {
	for _, c := range doc.Cases {
		if c.ID == caseID {
			return c.Title
		}
	}
	return "Unknown"
}

// currentStatus is the status of the most recently appended result for the
// run case, untested when no result exists.
func currentStatus(doc *store.TestbenchDocument, runCaseID string) string {
	for i := len(doc.Results) - 1; i >= 0; i-- {
		if doc.Results[i].RunCaseID == runCaseID {
			return doc.Results[i].Status
		}
	}
	return models.ResultStatusUntested
}
