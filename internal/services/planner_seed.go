package services

import (
	"context"
	"time"

	"planboard/internal/models"
	"planboard/internal/store"
)

// EnsureDefaults seeds a starter team and a sample project into empty
// collections so a fresh install renders something. Existing data is never
// touched.
func (s *plannerServiceImpl) EnsureDefaults(_ context.Context) error {
	doc, err := s.load()
	if err != nil {
		return err
	}

	changed := false
	if len(doc.TeamMembers) == 0 {
		members, err := defaultMembers()
		if err != nil {
			return err
		}
		doc.TeamMembers = members
		changed = true
	}

	if len(doc.Projects) == 0 {
		err = seedSampleProject(doc)
		if err != nil {
			return err
		}
		changed = true
	}

	if !changed {
		return nil
	}

	err = s.save(doc)
	if err != nil {
		return err
	}

	s.logger.Info().
		Int("team_members", len(doc.TeamMembers)).
		Int("projects", len(doc.Projects)).
		Msg("seeded default planner data")
	return nil
}

func (s *plannerServiceImpl) Clean(_ context.Context) error {
	err := s.save(&store.PlannerDocument{
		Projects:    []models.Project{},
		Tasks:       []models.Task{},
		TeamMembers: []models.TeamMember{},
	})
	if err != nil {
		return err
	}

	s.logger.Info().Msg("cleaned planner database")
	return nil
}

// Seed replaces the document with the fixed sample dataset.
func (s *plannerServiceImpl) Seed(_ context.Context) error {
	doc := &store.PlannerDocument{
		Projects:    []models.Project{},
		Tasks:       []models.Task{},
		TeamMembers: []models.TeamMember{},
	}

	members, err := sampleMembers()
	if err != nil {
		return err
	}
	doc.TeamMembers = members

	err = seedSampleDataset(doc)
	if err != nil {
		return err
	}

	err = s.save(doc)
	if err != nil {
		return err
	}

	s.logger.Info().
		Int("projects", len(doc.Projects)).
		Int("tasks", len(doc.Tasks)).
		Int("team_members", len(doc.TeamMembers)).
		Msg("seeded planner database")
	return nil
}

func (s *plannerServiceImpl) Reset(ctx context.Context) error {
	err := s.Clean(ctx)
	if err != nil {
		return err
	}
	return s.Seed(ctx)
}

func defaultMembers() ([]models.TeamMember, error) {
	specs := []models.TeamMember{
		{Name: "John Doe", Email: "john@example.com", Role: "Project Manager"},
		{Name: "Jane Smith", Email: "jane@example.com", Role: "Developer"},
		{Name: "Mike Johnson", Email: "mike@example.com", Role: "Designer"},
	}
	return withMemberIDs(specs)
}

func sampleMembers() ([]models.TeamMember, error) {
	specs := []models.TeamMember{
		{Name: "Alice Johnson", Email: "alice@company.com", Role: "Project Manager"},
		{Name: "Bob Smith", Email: "bob@company.com", Role: "Senior Developer"},
		{Name: "Carol Williams", Email: "carol@company.com", Role: "UI/UX Designer"},
		{Name: "David Brown", Email: "david@company.com", Role: "Backend Developer"},
		{Name: "Eva Davis", Email: "eva@company.com", Role: "QA Engineer"},
	}
	return withMemberIDs(specs)
}

func withMemberIDs(members []models.TeamMember) ([]models.TeamMember, error) {
	for i := range members {
		id, err := newID()
		if err != nil {
			return nil, err
		}
		members[i].ID = id
	}
	return members, nil
}

func seedSampleProject(doc *store.PlannerDocument) error {
	projectID, err := newID()
	if err != nil {
		return err
	}

	memberIDs := make([]string, len(doc.TeamMembers))
	for i, m := range doc.TeamMembers {
		memberIDs[i] = m.ID
	}

	now := time.Now()
	doc.Projects = append(doc.Projects, models.Project{
		ID:          projectID,
		Name:        "Sample Project",
		Description: "A sample project to demonstrate the Gantt chart functionality",
		StartDate:   "2024-01-01",
		EndDate:     "2024-03-31",
		Status:      models.ProjectStatusActive,
		TeamMembers: memberIDs,
		CreatedAt:   now,
		UpdatedAt:   now,
	})

	tasks := []models.Task{
		{
			Name: "Project Planning", Description: "Initial project planning and requirements gathering",
			StartDate: "2024-01-01", EndDate: "2024-01-15",
			Status: models.TaskStatusCompleted, Assignee: doc.TeamMembers[0].ID,
			Progress: 100, Priority: models.TaskPriorityHigh,
		},
		{
			Name: "UI Design", Description: "Create user interface designs and mockups",
			StartDate: "2024-01-16", EndDate: "2024-02-15",
			Status: models.TaskStatusInProgress, Assignee: doc.TeamMembers[2].ID,
			Progress: 60, Priority: models.TaskPriorityMedium,
		},
		{
			Name: "Development", Description: "Implement the application features",
			StartDate: "2024-02-01", EndDate: "2024-03-15",
			Status: models.TaskStatusInProgress, Assignee: doc.TeamMembers[1].ID,
			Progress: 30, Priority: models.TaskPriorityHigh,
		},
		{
			Name: "Testing", Description: "Quality assurance and testing",
			StartDate: "2024-03-01", EndDate: "2024-03-25",
			Status: models.TaskStatusNotStarted, Assignee: doc.TeamMembers[1].ID,
			Progress: 0, Priority: models.TaskPriorityMedium,
		},
	}
	return appendSeedTasks(doc, projectID, tasks)
}

func seedSampleDataset(doc *store.PlannerDocument) error {
	members := doc.TeamMembers
	memberIDs := make([]string, len(members))
	for i, m := range members {
		memberIDs[i] = m.ID
	}

	now := time.Now()
	projects := []models.Project{
		{
			Name:        "E-commerce Platform Development",
			Description: "Complete overhaul of the company e-commerce platform with modern tech stack",
			StartDate:   "2024-01-01", EndDate: "2024-06-30",
			Status: models.ProjectStatusActive, TeamMembers: memberIDs,
		},
		{
			Name:        "Mobile App Launch",
			Description: "Development and launch of iOS and Android mobile applications",
			StartDate:   "2024-03-01", EndDate: "2024-09-30",
			Status: models.ProjectStatusActive, TeamMembers: memberIDs[:3],
		},
		{
			Name:        "Data Migration Project",
			Description: "Migrate legacy data to new cloud infrastructure",
			StartDate:   "2024-02-15", EndDate: "2024-05-15",
			Status: models.ProjectStatusCompleted, TeamMembers: []string{members[1].ID, members[3].ID},
		},
	}
	for i := range projects {
		id, err := newID()
		if err != nil {
			return err
		}
		projects[i].ID = id
		projects[i].CreatedAt = now
		projects[i].UpdatedAt = now
	}
	doc.Projects = append(doc.Projects, projects...)

	ecommerceTasks := []models.Task{
		{
			Name: "Project Planning & Requirements", Description: "Define project scope, requirements, and create project roadmap",
			StartDate: "2024-01-01", EndDate: "2024-01-15",
			Status: models.TaskStatusCompleted, Assignee: members[0].ID, Progress: 100, Priority: models.TaskPriorityHigh,
		},
		{
			Name: "System Architecture Design", Description: "Design the overall system architecture and technology stack",
			StartDate: "2024-01-10", EndDate: "2024-01-25",
			Status: models.TaskStatusCompleted, Assignee: members[1].ID, Progress: 100, Priority: models.TaskPriorityHigh,
		},
		{
			Name: "UI/UX Design & Wireframes", Description: "Create user interface designs, wireframes, and user experience flow",
			StartDate: "2024-01-15", EndDate: "2024-02-15",
			Status: models.TaskStatusCompleted, Assignee: members[2].ID, Progress: 100, Priority: models.TaskPriorityMedium,
		},
		{
			Name: "Frontend Development", Description: "Implement the user interface",
			StartDate: "2024-02-01", EndDate: "2024-04-15",
			Status: models.TaskStatusInProgress, Assignee: members[1].ID, Progress: 65, Priority: models.TaskPriorityHigh,
		},
		{
			Name: "Backend API Development", Description: "Develop RESTful APIs and database integration",
			StartDate: "2024-02-15", EndDate: "2024-05-01",
			Status: models.TaskStatusInProgress, Assignee: members[3].ID, Progress: 45, Priority: models.TaskPriorityHigh,
		},
		{
			Name: "Testing & Quality Assurance", Description: "Unit, integration and user acceptance testing",
			StartDate: "2024-04-01", EndDate: "2024-05-15",
			Status: models.TaskStatusNotStarted, Assignee: members[4].ID, Progress: 0, Priority: models.TaskPriorityMedium,
		},
		{
			Name: "Deployment & Launch", Description: "Deploy to production and coordinate launch activities",
			StartDate: "2024-06-15", EndDate: "2024-06-30",
			Status: models.TaskStatusNotStarted, Assignee: members[0].ID, Progress: 0, Priority: models.TaskPriorityHigh,
		},
	}
	err := appendSeedTasks(doc, projects[0].ID, ecommerceTasks)
	if err != nil {
		return err
	}

	mobileTasks := []models.Task{
		{
			Name: "Mobile App Concept & Planning", Description: "Define mobile app features, target platforms, and development strategy",
			StartDate: "2024-03-01", EndDate: "2024-03-15",
			Status: models.TaskStatusCompleted, Assignee: members[0].ID, Progress: 100, Priority: models.TaskPriorityHigh,
		},
		{
			Name: "Mobile UI/UX Design", Description: "Create mobile-specific designs and user experience flows",
			StartDate: "2024-03-15", EndDate: "2024-04-30",
			Status: models.TaskStatusInProgress, Assignee: members[2].ID, Progress: 70, Priority: models.TaskPriorityMedium,
		},
		{
			Name: "React Native Development", Description: "Develop the cross-platform mobile application",
			StartDate: "2024-05-01", EndDate: "2024-08-15",
			Status: models.TaskStatusNotStarted, Assignee: members[1].ID, Progress: 0, Priority: models.TaskPriorityHigh,
		},
	}
	return appendSeedTasks(doc, projects[1].ID, mobileTasks)
}

func appendSeedTasks(doc *store.PlannerDocument, projectID string, tasks []models.Task) error {
	now := time.Now()
	for i := range tasks {
		id, err := newID()
		if err != nil {
			return err
		}
		tasks[i].ID = id
		tasks[i].ProjectID = projectID
		tasks[i].Dependencies = []string{}
		tasks[i].CreatedAt = now
		tasks[i].UpdatedAt = now
	}
	doc.Tasks = append(doc.Tasks, tasks...)
	return nil
}
