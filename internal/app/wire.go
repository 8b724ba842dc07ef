//go:build wireinject
// +build wireinject

package app

import (
	"github.com/google/wire"

	"github.com/eslsoft/gradenet/internal/adapter/cache"
	"github.com/eslsoft/gradenet/internal/adapter/connectrpc"
	"github.com/eslsoft/gradenet/internal/adapter/repository"
	"github.com/eslsoft/gradenet/internal/infrastructure/config"
	"github.com/eslsoft/gradenet/internal/infrastructure/database"
	"github.com/eslsoft/gradenet/internal/infrastructure/server"
	"github.com/eslsoft/gradenet/internal/usecase"
	"github.com/eslsoft/gradenet/internal/usecase/backup"
)

var databaseSet = wire.NewSet(
	database.Open,
)

var repositorySet = wire.NewSet(
	repository.NewSemesterRepository,
	repository.NewCourseRepository,
	repository.NewSettingsRepository,
	repository.NewSnapshotStore,
	cache.NewReportCache,
)

var usecaseSet = wire.NewSet(
	provideSettingsDefaults,
	providePlanDefaults,
	usecase.NewValidator,
	usecase.NewSettingsUsecase,
	usecase.NewSemesterUsecase,
	usecase.NewCourseUsecase,
	usecase.NewReportUsecase,
	usecase.NewPlannerUsecase,
	backup.NewService,
)

var serviceSet = wire.NewSet(
	connectrpc.NewSemesterServiceServer,
	connectrpc.NewCourseServiceServer,
	connectrpc.NewSettingsServiceServer,
	connectrpc.NewReportServiceServer,
	connectrpc.NewBackupServiceServer,
	wire.Struct(new(server.Handlers), "*"),
)

var serverSet = wire.NewSet(
	server.NewLogger,
	server.NewServer,
)

// Initialize builds the application container from an already loaded config using Wire.
func Initialize(cfg *config.Config) (*Container, func(), error) {
	wire.Build(
		databaseSet,
		repositorySet,
		usecaseSet,
		serviceSet,
		serverSet,
		wire.Struct(new(Container), "*"),
	)
	return nil, nil, nil
}
