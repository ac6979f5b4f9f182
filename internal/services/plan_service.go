package services

import (
	"context"
	"fmt"
	"strings"

	"planboard/internal/models"
	"planboard/internal/timeline"
)

func (s *runServiceImpl) ListMilestones(_ context.Context, projectID string) ([]models.Milestone, error) {
	doc, err := s.load()
	if err != nil {
		return nil, err
	}

	if projectID == "" {
		return doc.Milestones, nil
	}
	milestones := make([]models.Milestone, 0, len(doc.Milestones))
	for _, m := range doc.Milestones {
		if m.ProjectID == projectID {
			milestones = append(milestones, m)
		}
	}
	return milestones, nil
}

func (s *runServiceImpl) CreateMilestone(_ context.Context, projectID, name, dueDate string) (*models.Milestone, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("%w: milestone name is required", ErrValidation)
	}
	if dueDate != "" {
		_, err := timeline.ParseDate(dueDate)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid due date %q", ErrValidation, dueDate)
		}
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

	milestone := models.Milestone{
		ID:        id,
		ProjectID: projectID,
		Name:      strings.TrimSpace(name),
		DueDate:   dueDate,
		Status:    models.MilestoneStatusPlanned,
	}
	doc.Milestones = append(doc.Milestones, milestone)

	err = s.save(doc)
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("milestone_id", milestone.ID).
		Msg("created milestone")
	return &milestone, nil
}

func (s *runServiceImpl) UpdateMilestone(_ context.Context, id string, patch MilestonePatch) (*models.Milestone, error) {
	doc, err := s.load()
	if err != nil {
		return nil, err
	}

	index := -1
	for i := range doc.Milestones {
		if doc.Milestones[i].ID == id {
			index = i
			break
		}
	}
	if index == -1 {
		return nil, ErrNotFound
	}

	milestone := doc.Milestones[index]
	if patch.Name != nil {
		milestone.Name = *patch.Name
	}
	if patch.DueDate != nil {
		if *patch.DueDate != "" {
			_, err = timeline.ParseDate(*patch.DueDate)
			if err != nil {
				return nil, fmt.Errorf("%w: invalid due date %q", ErrValidation, *patch.DueDate)
			}
		}
		milestone.DueDate = *patch.DueDate
	}
	if patch.Status != nil {
		switch *patch.Status {
		case models.MilestoneStatusPlanned, models.MilestoneStatusActive, models.MilestoneStatusDone:
		default:
			return nil, fmt.Errorf("%w: unknown milestone status %q", ErrValidation, *patch.Status)
		}
		milestone.Status = *patch.Status
	}
	doc.Milestones[index] = milestone

	err = s.save(doc)
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("milestone_id", milestone.ID).
		Msg("updated milestone")
	return &milestone, nil
}

func (s *runServiceImpl) DeleteMilestone(_ context.Context, id string) error {
	doc, err := s.load()
	if err != nil {
		return err
	}

	milestones := doc.Milestones[:0:0]
	found := false
	for _, m := range doc.Milestones {
		if m.ID != id {
			milestones = append(milestones, m)
		} else {
			found = true
		}
	}
	if !found {
		return ErrNotFound
	}
	doc.Milestones = milestones

	// Plans keep working without their milestone.
	for i := range doc.Plans {
		if doc.Plans[i].MilestoneID == id {
			doc.Plans[i].MilestoneID = ""
		}
	}

	err = s.save(doc)
	if err != nil {
		return err
	}

	s.logger.Info().
		Str("milestone_id", id).
		Msg("deleted milestone")
	return nil
}

func (s *runServiceImpl) ListPlans(_ context.Context, projectID string) ([]models.Plan, error) {
	doc, err := s.load()
	if err != nil {
		return nil, err
	}

	if projectID == "" {
		return doc.Plans, nil
	}
	plans := make([]models.Plan, 0, len(doc.Plans))
	for _, p := range doc.Plans {
		if p.ProjectID == projectID {
			plans = append(plans, p)
		}
	}
	return plans, nil
}

func (s *runServiceImpl) CreatePlan(_ context.Context, projectID, name, description, milestoneID string, runIDs []string) (*models.Plan, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("%w: plan name is required", ErrValidation)
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

	plan := models.Plan{
		ID:          id,
		ProjectID:   projectID,
		Name:        strings.TrimSpace(name),
		Description: description,
		MilestoneID: milestoneID,
		Status:      models.PlanStatusDraft,
	}
	doc.Plans = append(doc.Plans, plan)

	for _, runID := range runIDs {
		if findRun(doc, runID) == nil {
			return nil, fmt.Errorf("%w: unknown run %q", ErrValidation, runID)
		}
		doc.PlanRuns = append(doc.PlanRuns, models.PlanRun{
			PlanID: plan.ID,
			RunID:  runID,
		})
	}

	err = s.save(doc)
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("plan_id", plan.ID).
		Int("runs", len(runIDs)).
		Msg("created plan")
	return &plan, nil
}

func (s *runServiceImpl) UpdatePlan(_ context.Context, id string, patch PlanPatch) (*models.Plan, error) {
	doc, err := s.load()
	if err != nil {
		return nil, err
	}

	index := -1
	for i := range doc.Plans {
		if doc.Plans[i].ID == id {
			index = i
			break
		}
	}
	if index == -1 {
		return nil, ErrNotFound
	}

	plan := doc.Plans[index]
	if patch.Name != nil {
		plan.Name = *patch.Name
	}
	if patch.Description != nil {
		plan.Description = *patch.Description
	}
	if patch.MilestoneID != nil {
		plan.MilestoneID = *patch.MilestoneID
	}
	if patch.Status != nil {
		switch *patch.Status {
		case models.PlanStatusDraft, models.PlanStatusActive, models.PlanStatusCompleted:
		default:
			return nil, fmt.Errorf("%w: unknown plan status %q", ErrValidation, *patch.Status)
		}
		plan.Status = *patch.Status
	}
	doc.Plans[index] = plan

	err = s.save(doc)
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("plan_id", plan.ID).
		Msg("updated plan")
	return &plan, nil
}

func (s *runServiceImpl) DeletePlan(_ context.Context, id string) error {
	doc, err := s.load()
	if err != nil {
		return err
	}

	plans := doc.Plans[:0:0]
	found := false
	for _, p := range doc.Plans {
		if p.ID != id {
			plans = append(plans, p)
		} else {
			found = true
		}
	}
	if !found {
		return ErrNotFound
	}
	doc.Plans = plans

	planRuns := doc.PlanRuns[:0:0]
	for _, pr := range doc.PlanRuns {
		if pr.PlanID != id {
			planRuns = append(planRuns, pr)
		}
	}
	doc.PlanRuns = planRuns

	err = s.save(doc)
	if err != nil {
		return err
	}

	s.logger.Info().
		Str("plan_id", id).
		Msg("deleted plan")
	return nil
}

func (s *runServiceImpl) ListWebhooks(_ context.Context, projectID string) ([]models.Webhook, error) {
	doc, err := s.load()
	if err != nil {
		return nil, err
	}

	if projectID == "" {
		return doc.Webhooks, nil
	}
	hooks := make([]models.Webhook, 0, len(doc.Webhooks))
	for _, h := range doc.Webhooks {
		if h.ProjectID == projectID {
			hooks = append(hooks, h)
		}
	}
	return hooks, nil
}

func (s *runServiceImpl) CreateWebhook(_ context.Context, projectID, url string, events []string) (*models.Webhook, error) {
	if strings.TrimSpace(url) == "" {
		return nil, fmt.Errorf("%w: webhook url is required", ErrValidation)
	}
	if len(events) == 0 {
		events = []string{EventResultRecorded}
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
	secret, err := newSecret()
	if err != nil {
		return nil, err
	}

	hook := models.Webhook{
		ID:        id,
		ProjectID: projectID,
		URL:       strings.TrimSpace(url),
		Secret:    secret,
		Events:    events,
		Active:    true,
	}
	doc.Webhooks = append(doc.Webhooks, hook)

	err = s.save(doc)
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("webhook_id", hook.ID).
		Str("url", hook.URL).
		Msg("created webhook")
	return &hook, nil
}

func (s *runServiceImpl) UpdateWebhook(_ context.Context, id string, patch WebhookPatch) (*models.Webhook, error) {
	doc, err := s.load()
	if err != nil {
		return nil, err
	}

	index := -1
	for i := range doc.Webhooks {
		if doc.Webhooks[i].ID == id {
			index = i
			break
		}
	}
	if index == -1 {
		return nil, ErrNotFound
	}

	hook := doc.Webhooks[index]
	if patch.URL != nil {
		hook.URL = *patch.URL
	}
	if patch.Events != nil {
		hook.Events = *patch.Events
	}
	if patch.Active != nil {
		hook.Active = *patch.Active
	}
	doc.Webhooks[index] = hook

	err = s.save(doc)
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("webhook_id", hook.ID).
		Msg("updated webhook")
	return &hook, nil
}

func (s *runServiceImpl) DeleteWebhook(_ context.Context, id string) error {
	doc, err := s.load()
	if err != nil {
		return err
	}

	hooks := doc.Webhooks[:0:0]
	found := false
	for _, h := range doc.Webhooks {
		if h.ID != id {
			hooks = append(hooks, h)
		} else {
			found = true
		}
	}
	if !found {
		return ErrNotFound
	}
	doc.Webhooks = hooks

	err = s.save(doc)
	if err != nil {
		return err
	}

	s.logger.Info().
		Str("webhook_id", id).
		Msg("deleted webhook")
	return nil
}
