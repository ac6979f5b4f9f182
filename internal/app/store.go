package app

import (
	"context"

	"planboard/internal/config"
	"planboard/internal/services"
	"planboard/internal/store"
)

var (
	globalPlannerStore   *store.Planner
	globalTestbenchStore *store.Testbench

	globalPlannerService services.PlannerService
	globalSuiteService   services.SuiteService
	globalRunService     services.RunService
	globalAuthService    services.AuthService
)

// MustOpenStores opens both record files, wires the services on top of
// them and seeds empty collections.
func MustOpenStores() {
	cfg := config.Global()

	globalPlannerStore = store.NewPlanner(cfg.Store.PlannerFile)
	globalTestbenchStore = store.NewTestbench(cfg.Store.TestbenchFile)

	notifier := services.NewWebhookNotifier(globalLogger)

	globalPlannerService = services.NewPlannerService(globalLogger, globalPlannerStore)
	globalSuiteService = services.NewSuiteService(globalLogger, globalTestbenchStore)
	globalRunService = services.NewRunService(globalLogger, globalTestbenchStore, notifier)
	globalAuthService = services.NewAuthService(
		globalLogger,
		globalTestbenchStore,
		cfg.JWT.Issuer,
		[]byte(cfg.JWT.SigningKey),
		cfg.JWT.AccessTokenTTL,
	)

	ctx := context.Background()

	err := globalPlannerService.EnsureDefaults(ctx)
	if err != nil {
		globalLogger.Error().
			Err(err).
			Str("file", cfg.Store.PlannerFile).
			Msg("failed to seed planner store")
		panic(err)
	}

	err = globalSuiteService.EnsureDefaults(ctx)
	if err != nil {
		globalLogger.Error().
			Err(err).
			Str("file", cfg.Store.TestbenchFile).
			Msg("failed to seed testbench store")
		panic(err)
	}

	globalLogger.Info().
		Str("planner_file", cfg.Store.PlannerFile).
		Str("testbench_file", cfg.Store.TestbenchFile).
		Msg("opened stores")
}
