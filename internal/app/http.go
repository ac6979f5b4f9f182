package app

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/gin-gonic/gin"

	"planboard/internal/config"
	v1 "planboard/internal/delivery/http/v1"
)

func MustListenAndServeHTTP() {
	cfg := config.Global()
	if cfg.Env != config.EnvLocal {
		gin.SetMode(gin.ReleaseMode)
	}

	httpCfg := cfg.HTTP

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	registerRoutes(router)

	server := &http.Server{
		Addr:    net.JoinHostPort(httpCfg.Host, strconv.Itoa(httpCfg.Port)),
		Handler: router,
	}

	go func() {
		globalLogger.Info().
			Str("host", httpCfg.Host).
			Int("port", httpCfg.Port).
			Msg("setting up http server")
		err := server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			globalLogger.Error().
				Err(err).
				Msg("failed to listen and serve http")
			panic(err)
		}
	}()

	// Wait for the interrupt signal to gracefully
	// shut down the server with a timeout.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	globalLogger.Info().
		Msg("shutting down http server")

	ctx, cancel := context.WithTimeout(context.Background(), httpCfg.ShutdownTimeout)
	defer cancel()

	err := server.Shutdown(ctx)
	if err != nil {
		globalLogger.Error().
			Err(err).
			Msg("failed to shutdown http server")
		panic(err)
	}
	globalLogger.Info().Msg("shut down http server")
}

func registerRoutes(router gin.IRouter) {
	h := v1.New(
		globalLogger,
		globalPlannerService,
		globalSuiteService,
		globalRunService,
		globalAuthService,
	)
	router = router.Group("/api/v1")

	projects := router.Group("/projects")
	projects.GET("", h.HandleListProjects)
	projects.POST("", h.HandleCreateProject)
	projects.GET("/:id", h.HandleGetProject)
	projects.PATCH("/:id", h.HandleUpdateProject)
	projects.DELETE("/:id", h.HandleDeleteProject)

	tasks := router.Group("/tasks")
	tasks.GET("", h.HandleListTasks)
	tasks.POST("", h.HandleCreateTask)
	tasks.GET("/:id", h.HandleGetTask)
	tasks.PATCH("/:id", h.HandleUpdateTask)
	tasks.DELETE("/:id", h.HandleDeleteTask)

	team := router.Group("/team")
	team.GET("", h.HandleListMembers)
	team.POST("", h.HandleCreateMember)
	team.GET("/:id", h.HandleGetMember)
	team.PATCH("/:id", h.HandleUpdateMember)
	team.DELETE("/:id", h.HandleDeleteMember)

	router.GET("/database", h.HandleDatabaseStats)
	router.POST("/database", h.HandleDatabaseAction)
	router.GET("/timeline", h.HandleTimeline)

	testbench := router.Group("/testbench")

	auth := testbench.Group("/auth")
	auth.POST("/register", h.HandleRegister)
	auth.POST("/login", h.HandleLogin)

	tokens := testbench.Group("/tokens", h.HandleAuthMiddleware)
	tokens.GET("", h.HandleListTokens)
	tokens.POST("", h.HandleCreateToken)
	tokens.DELETE("/:id", h.HandleDeleteToken)

	testProjects := testbench.Group("/projects")
	testProjects.GET("", h.HandleListTestProjects)
	testProjects.POST("", h.HandleCreateTestProject)
	testProjects.GET("/:id", h.HandleGetTestProject)
	testProjects.PATCH("/:id", h.HandleUpdateTestProject)
	testProjects.DELETE("/:id", h.HandleDeleteTestProject)

	suites := testbench.Group("/suites")
	suites.GET("", h.HandleListSuites)
	suites.POST("", h.HandleCreateSuite)
	suites.GET("/:id", h.HandleGetSuite)
	suites.DELETE("/:id", h.HandleDeleteSuite)

	sections := testbench.Group("/sections")
	sections.GET("", h.HandleListSections)
	sections.POST("", h.HandleCreateSection)
	sections.DELETE("/:id", h.HandleDeleteSection)

	cases := testbench.Group("/cases")
	cases.GET("", h.HandleListCases)
	cases.POST("", h.HandleCreateCase)
	cases.GET("/export", h.HandleExportCasesCSV)
	cases.POST("/import", h.HandleImportCasesCSV)
	cases.GET("/:id", h.HandleGetCase)
	cases.PATCH("/:id", h.HandleUpdateCase)
	cases.DELETE("/:id", h.HandleDeleteCase)

	runs := testbench.Group("/runs")
	runs.GET("", h.HandleListRuns)
	runs.POST("", h.HandleCreateRun)
	runs.GET("/:id", h.HandleGetRun)
	runs.POST("/:id/start", h.HandleStartRun)
	runs.POST("/:id/complete", h.HandleCompleteRun)
	runs.DELETE("/:id", h.HandleDeleteRun)
	runs.POST("/:id/results", h.HandleRecordResult)
	runs.GET("/:id/export", h.HandleExportRunCSV)

	milestones := testbench.Group("/milestones")
	milestones.GET("", h.HandleListMilestones)
	milestones.POST("", h.HandleCreateMilestone)
	milestones.PATCH("/:id", h.HandleUpdateMilestone)
	milestones.DELETE("/:id", h.HandleDeleteMilestone)

	plans := testbench.Group("/plans")
	plans.GET("", h.HandleListPlans)
	plans.POST("", h.HandleCreatePlan)
	plans.PATCH("/:id", h.HandleUpdatePlan)
	plans.DELETE("/:id", h.HandleDeletePlan)

	webhooks := testbench.Group("/webhooks")
	webhooks.GET("", h.HandleListWebhooks)
	webhooks.POST("", h.HandleCreateWebhook)
	webhooks.PATCH("/:id", h.HandleUpdateWebhook)
	webhooks.DELETE("/:id", h.HandleDeleteWebhook)
}
