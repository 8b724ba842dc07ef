package app

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/eslsoft/gradenet/internal/entity"
	"github.com/eslsoft/gradenet/internal/gpa"
	"github.com/eslsoft/gradenet/internal/infrastructure/config"
	"github.com/eslsoft/gradenet/internal/infrastructure/database"
	"github.com/eslsoft/gradenet/internal/usecase"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Server:   config.ServerConfig{Host: "127.0.0.1", HTTPPort: 0, AllowedOrigins: []string{"*"}},
		Database: config.DatabaseConfig{Driver: "sqlite3", Path: filepath.Join(t.TempDir(), "app.db")},
		Log:      config.LogConfig{Level: "warn", Format: "json"},
		Grading:  config.GradingConfig{Scale: "4.0", RetakePolicy: "keep-both", TargetCGPA: 3.5},
		Planner:  config.PlannerConfig{RemainingSemesters: 3, UnitsPerSemester: 16, Clamp: "carry"},
	}
}

func TestInitialize(t *testing.T) {
	ctx := context.Background()
	container, cleanup, err := Initialize(testConfig(t))
	if err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	defer cleanup()
	if err := database.Migrate(ctx, container.DB); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	settings, err := container.Settings.GetSettings(ctx)
	if err != nil {
		t.Fatalf("GetSettings: %v", err)
	}
	if settings.ScaleType != entity.ScaleFourPoint || settings.RetakePolicy != entity.RetakeKeepBoth || settings.TargetCGPA != 3.5 {
		t.Fatalf("expected configured defaults, got %+v", settings)
	}

	sem, err := container.Semesters.CreateSemester(ctx, &entity.Semester{Term: 1, Level: 100})
	if err != nil {
		t.Fatalf("CreateSemester: %v", err)
	}
	score := 85.0
	if _, err := container.Courses.AddCourse(ctx, sem.ID, gpa.CourseDraft{Code: "CSC101", Units: 3, Score: &score}); err != nil {
		t.Fatalf("AddCourse: %v", err)
	}

	plan, err := container.Planner.Plan(ctx, usecase.PlanRequest{})
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	if plan.Input.RemainingSemesters != 3 || plan.Input.UnitsPerSemester != 16 || plan.Input.Clamp != gpa.ClampCarry {
		t.Fatalf("expected planner defaults from config, got %+v", plan.Input)
	}
	// 85 is a B (3.0) on the 4.0 scale.
	if plan.Input.CurrentCGPA != 3 || plan.Input.UnitsCompleted != 3 {
		t.Fatalf("unexpected standing %+v", plan.Input)
	}
}

func TestProvideSettingsDefaultsFallsBack(t *testing.T) {
	cfg := testConfig(t)
	cfg.Grading = config.GradingConfig{Scale: "7.0", RetakePolicy: "", TargetCGPA: 9}
	got := provideSettingsDefaults(cfg).Settings()
	if got.ScaleType != entity.ScaleFivePoint || got.RetakePolicy != entity.RetakeReplace || got.TargetCGPA != 4.0 {
		t.Fatalf("unexpected fallback settings %+v", got)
	}
}
