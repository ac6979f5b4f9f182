package services

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"planboard/internal/models"
	"planboard/internal/store"
	"planboard/internal/timeline"
)

type plannerServiceImpl struct {
	logger zerolog.Logger
	store  *store.Planner
}

func NewPlannerService(
	logger zerolog.Logger,
	plannerStore *store.Planner,
) PlannerService {
	return &plannerServiceImpl{
		logger: logger,
		store:  plannerStore,
	}
}

func (s *plannerServiceImpl) ListProjects(_ context.Context) ([]models.Project, error) {
	doc, err := s.load()
	if err != nil {
		return nil, err
	}
	return doc.Projects, nil
}

func (s *plannerServiceImpl) GetProject(_ context.Context, id string) (*models.Project, error) {
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
		Msg("project not found")
	return nil, ErrNotFound
}

func (s *plannerServiceImpl) CreateProject(_ context.Context, params CreateProjectParams) (*models.Project, error) {
	err := validateDateRange(params.StartDate, params.EndDate)
	if err != nil {
		return nil, err
	}
	if params.Status != "" && !models.ValidProjectStatus(params.Status) {
		return nil, fmt.Errorf("%w: unknown project status %q", ErrValidation, params.Status)
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

	status := params.Status
	if status == "" {
		status = models.ProjectStatusActive
	}
	teamMembers := params.TeamMembers
	if teamMembers == nil {
		teamMembers = []string{}
	}

	now := time.Now()
	project := models.Project{
		ID:          id,
		Name:        params.Name,
		Description: params.Description,
		StartDate:   params.StartDate,
		EndDate:     params.EndDate,
		Status:      status,
		TeamMembers: teamMembers,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	doc.Projects = append(doc.Projects, project)

	err = s.save(doc)
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("project_id", project.ID).
		Msg("created project")
	return &project, nil
}

func (s *plannerServiceImpl) UpdateProject(_ context.Context, id string, patch ProjectPatch) (*models.Project, error) {
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
		s.logger.Warn().
			Str("project_id", id).
			Msg("project not found")
		return nil, ErrNotFound
	}

	project := doc.Projects[index]
	if patch.Name != nil {
		project.Name = *patch.Name
	}
	if patch.Description != nil {
		project.Description = *patch.Description
	}
	if patch.StartDate != nil {
		project.StartDate = *patch.StartDate
	}
	if patch.EndDate != nil {
		project.EndDate = *patch.EndDate
	}
	if patch.Status != nil {
		if !models.ValidProjectStatus(*patch.Status) {
			return nil, fmt.Errorf("%w: unknown project status %q", ErrValidation, *patch.Status)
		}
		project.Status = *patch.Status
	}
	if patch.TeamMembers != nil {
		project.TeamMembers = *patch.TeamMembers
	}

	err = validateDateRange(project.StartDate, project.EndDate)
	if err != nil {
		return nil, err
	}

	project.UpdatedAt = time.Now()
	doc.Projects[index] = project

	err = s.save(doc)
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("project_id", project.ID).
		Msg("updated project")
	return &project, nil
}

// DeleteProject removes the project and cascades to its tasks.
func (s *plannerServiceImpl) DeleteProject(_ context.Context, id string) error {
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
		s.logger.Warn().
			Str("project_id", id).
			Msg("project not found")
		return ErrNotFound
	}
	doc.Projects = projects

	tasks := doc.Tasks[:0:0]
	removed := 0
	for _, t := range doc.Tasks {
		if t.ProjectID != id {
			tasks = append(tasks, t)
		} else {
			removed++
		}
	}
	doc.Tasks = tasks

	err = s.save(doc)
	if err != nil {
		return err
	}

	s.logger.Info().
		Str("project_id", id).
		Int("cascaded_tasks", removed).
		Msg("deleted project")
	return nil
}

func (s *plannerServiceImpl) ListTasks(_ context.Context, projectID string) ([]models.Task, error) {
	doc, err := s.load()
	if err != nil {
		return nil, err
	}

	if projectID == "" {
		return doc.Tasks, nil
	}

	tasks := make([]models.Task, 0, len(doc.Tasks))
	for _, t := range doc.Tasks {
		if t.ProjectID == projectID {
			tasks = append(tasks, t)
		}
	}
	return tasks, nil
}

func (s *plannerServiceImpl) GetTask(_ context.Context, id string) (*models.Task, error) {
	doc, err := s.load()
	if err != nil {
		return nil, err
	}

	for i := range doc.Tasks {
		if doc.Tasks[i].ID == id {
			return &doc.Tasks[i], nil
		}
	}

	s.logger.Warn().
		Str("task_id", id).
		Msg("task not found")
	return nil, ErrNotFound
}

func (s *plannerServiceImpl) CreateTask(_ context.Context, params CreateTaskParams) (*models.Task, error) {
	err := validateDateRange(params.StartDate, params.EndDate)
	if err != nil {
		return nil, err
	}

	status := params.Status
	if status == "" {
		status = models.TaskStatusNotStarted
	}
	if !models.ValidTaskStatus(status) {
		return nil, fmt.Errorf("%w: unknown task status %q", ErrValidation, status)
	}

	priority := params.Priority
	if priority == "" {
		priority = models.TaskPriorityMedium
	}
	if !models.ValidTaskPriority(priority) {
		return nil, fmt.Errorf("%w: unknown task priority %q", ErrValidation, priority)
	}

	if params.Progress < 0 || params.Progress > 100 {
		return nil, fmt.Errorf("%w: progress must be between 0 and 100", ErrValidation)
	}

	doc, err := s.load()
	if err != nil {
		return nil, err
	}

	if !projectExists(doc, params.ProjectID) {
		return nil, fmt.Errorf("%w: unknown project %q", ErrValidation, params.ProjectID)
	}
	// An empty assignee means explicitly unassigned; a non-empty one must
	// reference a known team member at write time. References may still go
	// stale later when a member is deleted.
	if params.Assignee != "" && !memberExists(doc, params.Assignee) {
		return nil, fmt.Errorf("%w: unknown assignee %q", ErrValidation, params.Assignee)
	}

	id, err := newID()
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to generate task id")
		return nil, err
	}

	dependencies := params.Dependencies
	if dependencies == nil {
		dependencies = []string{}
	}

	now := time.Now()
	task := models.Task{
		ID:           id,
		Name:         params.Name,
		Description:  params.Description,
		StartDate:    params.StartDate,
		EndDate:      params.EndDate,
		Status:       status,
		Assignee:     params.Assignee,
		Dependencies: dependencies,
		Progress:     params.Progress,
		Priority:     priority,
		ProjectID:    params.ProjectID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	doc.Tasks = append(doc.Tasks, task)

	err = s.save(doc)
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("task_id", task.ID).
		Str("project_id", task.ProjectID).
		Msg("created task")
	return &task, nil
}

func (s *plannerServiceImpl) UpdateTask(_ context.Context, id string, patch TaskPatch) (*models.Task, error) {
	doc, err := s.load()
	if err != nil {
		return nil, err
	}

	index := -1
	for i := range doc.Tasks {
		if doc.Tasks[i].ID == id {
			index = i
			break
		}
	}
	if index == -1 {
		s.logger.Warn().
			Str("task_id", id).
			Msg("task not found")
		return nil, ErrNotFound
	}

	task := doc.Tasks[index]
	if patch.Name != nil {
		task.Name = *patch.Name
	}
	if patch.Description != nil {
		task.Description = *patch.Description
	}
	if patch.StartDate != nil {
		task.StartDate = *patch.StartDate
	}
	if patch.EndDate != nil {
		task.EndDate = *patch.EndDate
	}
	if patch.Status != nil {
		if !models.ValidTaskStatus(*patch.Status) {
			return nil, fmt.Errorf("%w: unknown task status %q", ErrValidation, *patch.Status)
		}
		task.Status = *patch.Status
	}
	if patch.Assignee != nil {
		if *patch.Assignee != "" && !memberExists(doc, *patch.Assignee) {
			return nil, fmt.Errorf("%w: unknown assignee %q", ErrValidation, *patch.Assignee)
		}
		task.Assignee = *patch.Assignee
	}
	if patch.Dependencies != nil {
		task.Dependencies = *patch.Dependencies
	}
	if patch.Progress != nil {
		if *patch.Progress < 0 || *patch.Progress > 100 {
			return nil, fmt.Errorf("%w: progress must be between 0 and 100", ErrValidation)
		}
		task.Progress = *patch.Progress
	}
	if patch.Priority != nil {
		if !models.ValidTaskPriority(*patch.Priority) {
			return nil, fmt.Errorf("%w: unknown task priority %q", ErrValidation, *patch.Priority)
		}
		task.Priority = *patch.Priority
	}
	if patch.ProjectID != nil {
		if !projectExists(doc, *patch.ProjectID) {
			return nil, fmt.Errorf("%w: unknown project %q", ErrValidation, *patch.ProjectID)
		}
		task.ProjectID = *patch.ProjectID
	}

	err = validateDateRange(task.StartDate, task.EndDate)
	if err != nil {
		return nil, err
	}

	task.UpdatedAt = time.Now()
	doc.Tasks[index] = task

	err = s.save(doc)
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("task_id", task.ID).
		Msg("updated task")
	return &task, nil
}

func (s *plannerServiceImpl) DeleteTask(_ context.Context, id string) error {
	doc, err := s.load()
	if err != nil {
		return err
	}

	tasks := doc.Tasks[:0:0]
	for _, t := range doc.Tasks {
		if t.ID != id {
			tasks = append(tasks, t)
		}
	}
	if len(tasks) == len(doc.Tasks) {
		s.logger.Warn().
			Str("task_id", id).
			Msg("task not found")
		return ErrNotFound
	}
	doc.Tasks = tasks

	err = s.save(doc)
	if err != nil {
		return err
	}

	s.logger.Info().
		Str("task_id", id).
		Msg("deleted task")
	return nil
}

func (s *plannerServiceImpl) ListMembers(_ context.Context) ([]models.TeamMember, error) {
	doc, err := s.load()
	if err != nil {
		return nil, err
	}
	return doc.TeamMembers, nil
}

func (s *plannerServiceImpl) GetMember(_ context.Context, id string) (*models.TeamMember, error) {
	doc, err := s.load()
	if err != nil {
		return nil, err
	}

	for i := range doc.TeamMembers {
		if doc.TeamMembers[i].ID == id {
			return &doc.TeamMembers[i], nil
		}
	}

	s.logger.Warn().
		Str("member_id", id).
		Msg("team member not found")
	return nil, ErrNotFound
}

func (s *plannerServiceImpl) CreateMember(_ context.Context, params CreateMemberParams) (*models.TeamMember, error) {
	doc, err := s.load()
	if err != nil {
		return nil, err
	}

	id, err := newID()
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to generate member id")
		return nil, err
	}

	member := models.TeamMember{
		ID:     id,
		Name:   params.Name,
		Email:  params.Email,
		Role:   params.Role,
		Avatar: params.Avatar,
	}
	doc.TeamMembers = append(doc.TeamMembers, member)

	err = s.save(doc)
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("member_id", member.ID).
		Msg("created team member")
	return &member, nil
}

func (s *plannerServiceImpl) UpdateMember(_ context.Context, id string, patch MemberPatch) (*models.TeamMember, error) {
	doc, err := s.load()
	if err != nil {
		return nil, err
	}

	index := -1
	for i := range doc.TeamMembers {
		if doc.TeamMembers[i].ID == id {
			index = i
			break
		}
	}
	if index == -1 {
		s.logger.Warn().
			Str("member_id", id).
			Msg("team member not found")
		return nil, ErrNotFound
	}

	member := doc.TeamMembers[index]
	if patch.Name != nil {
		member.Name = *patch.Name
	}
	if patch.Email != nil {
		member.Email = *patch.Email
	}
	if patch.Role != nil {
		member.Role = *patch.Role
	}
	if patch.Avatar != nil {
		member.Avatar = *patch.Avatar
	}
	doc.TeamMembers[index] = member

	err = s.save(doc)
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("member_id", member.ID).
		Msg("updated team member")
	return &member, nil
}

// DeleteMember does not touch tasks: assignee references simply go stale
// and are treated as unassigned from then on.
func (s *plannerServiceImpl) DeleteMember(_ context.Context, id string) error {
	doc, err := s.load()
	if err != nil {
		return err
	}

	members := doc.TeamMembers[:0:0]
	for _, m := range doc.TeamMembers {
		if m.ID != id {
			members = append(members, m)
		}
	}
	if len(members) == len(doc.TeamMembers) {
		s.logger.Warn().
			Str("member_id", id).
			Msg("team member not found")
		return ErrNotFound
	}
	doc.TeamMembers = members

	err = s.save(doc)
	if err != nil {
		return err
	}

	s.logger.Info().
		Str("member_id", id).
		Msg("deleted team member")
	return nil
}

func (s *plannerServiceImpl) Stats(_ context.Context) (*PlannerStats, error) {
	doc, err := s.load()
	if err != nil {
		return nil, err
	}

	stats := &PlannerStats{
		Projects:    len(doc.Projects),
		Tasks:       len(doc.Tasks),
		TeamMembers: len(doc.TeamMembers),
	}
	for _, t := range doc.Tasks {
		switch t.Status {
		case models.TaskStatusCompleted:
			stats.CompletedTasks++
		case models.TaskStatusInProgress:
			stats.InProgressTasks++
		case models.TaskStatusNotStarted:
			stats.NotStartedTasks++
		}
	}
	return stats, nil
}

func (s *plannerServiceImpl) load() (*store.PlannerDocument, error) {
	doc, err := s.store.Load()
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to load planner document")
		return nil, err
	}
	return doc, nil
}

func (s *plannerServiceImpl) save(doc *store.PlannerDocument) error {
	err := s.store.Save(doc)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to save planner document")
		return err
	}
	return nil
}

func validateDateRange(start, end string) error {
	startDate, err := timeline.ParseDate(start)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	endDate, err := timeline.ParseDate(end)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if endDate.Before(startDate) {
		return fmt.Errorf("%w: end date precedes start date", ErrValidation)
	}
	return nil
}

func projectExists(doc *store.PlannerDocument, id string) bool {
	for _, p := range doc.Projects {
		if p.ID == id {
			return true
		}
	}
	return false
}

func memberExists(doc *store.PlannerDocument, id string) bool {
	for _, m := range doc.TeamMembers {
		if m.ID == id {
			return true
		}
	}
	return false
}
