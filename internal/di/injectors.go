//go:build wireinject
// +build wireinject

package di

import (
	"ctad/internal"
	"ctad/internal/controllers"
	"ctad/internal/jobs"
	"ctad/internal/providers"
	"ctad/internal/repositories"
	"ctad/internal/services"
	"ctad/internal/structures"
	wire "github.com/google/wire"
)

func InitApp(cfg *structures.CliFlags) (*internal.App, error) {

	wire.Build(
		providers.NewConfigProvider,
		providers.NewLogProvider,
		providers.NewMetricsProvider,
		providers.NewInstrumentedCacheProvider,
		providers.NewRedisProvider,

		repositories.NewZstdCompressor,
		repositories.NewCTAStore,
		repositories.NewSnapshotRepository,
		repositories.NewBehaviourTagStore,

		services.NewStaticDataCache,
		services.NewCohortClient,
		services.NewServingService,
		services.NewLifecycleService,
		services.NewAdminService,
		services.NewBehaviourTagService,

		jobs.NewScheduler,
		controllers.NewSdkController,
		controllers.NewAdminController,
		controllers.NewHealthController,
		internal.InitRoutes,
		internal.NewApp,
	)

	return nil, nil
}
