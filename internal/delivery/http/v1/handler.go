package v1

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"planboard/internal/services"
)

type Handler interface {
	HandleListProjects(c *gin.Context)
	HandleGetProject(c *gin.Context)
	HandleCreateProject(c *gin.Context)
	HandleUpdateProject(c *gin.Context)
	HandleDeleteProject(c *gin.Context)

	HandleListTasks(c *gin.Context)
	HandleGetTask(c *gin.Context)
	HandleCreateTask(c *gin.Context)
	HandleUpdateTask(c *gin.Context)
	HandleDeleteTask(c *gin.Context)

	HandleListMembers(c *gin.Context)
	HandleGetMember(c *gin.Context)
	HandleCreateMember(c *gin.Context)
	HandleUpdateMember(c *gin.Context)
	HandleDeleteMember(c *gin.Context)

	HandleDatabaseStats(c *gin.Context)
	HandleDatabaseAction(c *gin.Context)
	HandleTimeline(c *gin.Context)

	HandleListTestProjects(c *gin.Context)
	HandleGetTestProject(c *gin.Context)
	HandleCreateTestProject(c *gin.Context)
	HandleUpdateTestProject(c *gin.Context)
	HandleDeleteTestProject(c *gin.Context)

	HandleListSuites(c *gin.Context)
	HandleGetSuite(c *gin.Context)
	HandleCreateSuite(c *gin.Context)
	HandleDeleteSuite(c *gin.Context)

	HandleListSections(c *gin.Context)
	HandleCreateSection(c *gin.Context)
	HandleDeleteSection(c *gin.Context)

	HandleListCases(c *gin.Context)
	HandleGetCase(c *gin.Context)
	HandleCreateCase(c *gin.Context)
	HandleUpdateCase(c *gin.Context)
	HandleDeleteCase(c *gin.Context)
	HandleExportCasesCSV(c *gin.Context)
	HandleImportCasesCSV(c *gin.Context)

	HandleListRuns(c *gin.Context)
	HandleGetRun(c *gin.Context)
	HandleCreateRun(c *gin.Context)
	HandleStartRun(c *gin.Context)
	HandleCompleteRun(c *gin.Context)
	HandleDeleteRun(c *gin.Context)
	HandleRecordResult(c *gin.Context)
	HandleExportRunCSV(c *gin.Context)

	HandleListMilestones(c *gin.Context)
	HandleCreateMilestone(c *gin.Context)
	HandleUpdateMilestone(c *gin.Context)
	HandleDeleteMilestone(c *gin.Context)

	HandleListPlans(c *gin.Context)
	HandleCreatePlan(c *gin.Context)
	HandleUpdatePlan(c *gin.Context)
	HandleDeletePlan(c *gin.Context)

	HandleListWebhooks(c *gin.Context)
	HandleCreateWebhook(c *gin.Context)
	HandleUpdateWebhook(c *gin.Context)
	HandleDeleteWebhook(c *gin.Context)

	HandleRegister(c *gin.Context)
	HandleLogin(c *gin.Context)
	HandleCreateToken(c *gin.Context)
	HandleListTokens(c *gin.Context)
	HandleDeleteToken(c *gin.Context)
	HandleAuthMiddleware(c *gin.Context)
}

type handlerImpl struct {
	logger  zerolog.Logger
	planner services.PlannerService
	suites  services.SuiteService
	runs    services.RunService
	auth    services.AuthService
}

func New(
	logger zerolog.Logger,
	plannerService services.PlannerService,
	suiteService services.SuiteService,
	runService services.RunService,
	authService services.AuthService,
) Handler {
	return &handlerImpl{
		logger:  logger,
		planner: plannerService,
		suites:  suiteService,
		runs:    runService,
		auth:    authService,
	}
}
