package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/eslsoft/gradenet/internal/entity"
	"github.com/eslsoft/gradenet/internal/gpa"
)

// seedThreePointRecord stores 20 units of C grades, a CGPA of exactly 3.0 on the 5.0 scale.
func seedThreePointRecord(t *testing.T, h *harness) {
	t.Helper()
	s := seedSemester(t, h)
	for _, code := range []string{"A101", "B101", "C101", "D101"} {
		if _, err := h.courses.AddCourse(context.Background(), s.ID, gpa.CourseDraft{Code: code, Units: 5, Score: ptr(55.0)}); err != nil {
			t.Fatalf("AddCourse: %v", err)
		}
	}
}

func TestPlanFromCurrentStanding(t *testing.T) {
	h := newHarness()
	seedThreePointRecord(t, h)

	plan, err := h.planner.Plan(context.Background(), PlanRequest{UnitsPerSemester: ptr(15)})
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	if plan.Input.CurrentCGPA != 3.0 || plan.Input.UnitsCompleted != 20 || plan.Input.TargetCGPA != 4.0 {
		t.Fatalf("unexpected standing %+v", plan.Input)
	}
	if plan.Input.RemainingSemesters != 2 || plan.Input.Clamp != gpa.ClampDisplay || plan.Input.ScaleMax != 5 {
		t.Fatalf("defaults not applied: %+v", plan.Input)
	}
	if plan.Projection.RequiredGPA != 4.67 || !plan.Projection.Achievable || !plan.Projection.AchievesTarget {
		t.Fatalf("unexpected projection %+v", plan.Projection)
	}
	if len(plan.Projection.Points) != 2 {
		t.Fatalf("expected two projected semesters, got %d", len(plan.Projection.Points))
	}
}

func TestPlanUnachievableOnFourPointScale(t *testing.T) {
	ctx := context.Background()
	h := newHarness()
	seedThreePointRecord(t, h)
	if _, err := h.settings.UpdateSettings(ctx, entity.SettingsPatch{ScaleType: ptr(entity.ScaleFourPoint)}); err != nil {
		t.Fatalf("UpdateSettings: %v", err)
	}
	// Stored grades keep their 5.0 points until recalculated, so standing is still 3.0.
	plan, err := h.planner.Plan(ctx, PlanRequest{TargetCGPA: ptr(4.0), UnitsPerSemester: ptr(15), Clamp: "carry"})
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	if plan.Projection.RequiredGPA != 4.67 || plan.Projection.Achievable {
		t.Fatalf("expected unachievable 4.67 on 4.0, got %+v", plan.Projection)
	}
	if plan.Input.Clamp != gpa.ClampCarry {
		t.Fatalf("expected carry clamp, got %q", plan.Input.Clamp)
	}
	for _, p := range plan.Projection.Points {
		if p.RequiredGPA > 4 || p.ProjectedCGPA > 4 {
			t.Fatalf("chart values must be clamped to 4.0, got %+v", p)
		}
	}
}

func TestPlanRejectsInvalidInput(t *testing.T) {
	h := newHarness()
	_, err := h.planner.Plan(context.Background(), PlanRequest{RemainingSemesters: ptr(-1)})
	if !errors.Is(err, entity.ErrInvalidPlanInput) {
		t.Fatalf("expected ErrInvalidPlanInput, got %v", err)
	}
}
