package app

import (
	"github.com/sirupsen/logrus"

	"github.com/eslsoft/gradenet/internal/entity"
	"github.com/eslsoft/gradenet/internal/gpa"
	"github.com/eslsoft/gradenet/internal/infrastructure/config"
	"github.com/eslsoft/gradenet/internal/infrastructure/database"
	"github.com/eslsoft/gradenet/internal/infrastructure/server"
	"github.com/eslsoft/gradenet/internal/usecase"
	"github.com/eslsoft/gradenet/internal/usecase/backup"
)

// Container aggregates the application dependencies produced by Wire.
type Container struct {
	Config    *config.Config
	Logger    *logrus.Logger
	DB        *database.DB
	Server    *server.Server
	Semesters usecase.SemesterUsecase
	Courses   usecase.CourseUsecase
	Settings  usecase.SettingsUsecase
	Reports   usecase.ReportUsecase
	Planner   usecase.PlannerUsecase
	Backup    *backup.Service
}

func provideSettingsDefaults(cfg *config.Config) usecase.SettingsDefaults {
	return usecase.SettingsDefaults{
		ScaleType:    entity.ParseScaleType(cfg.Grading.Scale),
		RetakePolicy: entity.ParseRetakePolicy(cfg.Grading.RetakePolicy),
		TargetCGPA:   cfg.Grading.TargetCGPA,
	}
}

func providePlanDefaults(cfg *config.Config) usecase.PlanDefaults {
	return usecase.PlanDefaults{
		RemainingSemesters: cfg.Planner.RemainingSemesters,
		UnitsPerSemester:   cfg.Planner.UnitsPerSemester,
		Clamp:              gpa.ParseClampMode(cfg.Planner.Clamp),
	}
}
