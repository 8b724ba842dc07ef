package usecase

import (
	"context"
	"fmt"

	"github.com/eslsoft/gradenet/internal/entity"
	"github.com/eslsoft/gradenet/internal/gpa"
)

// PlanDefaults fill plan requests that leave a field unset.
type PlanDefaults struct {
	RemainingSemesters int
	UnitsPerSemester   int
	Clamp              gpa.ClampMode
}

// PlanRequest holds the user's planning inputs. Nil fields fall back to settings and defaults.
type PlanRequest struct {
	TargetCGPA         *float64 `json:"target_cgpa,omitempty"`
	RemainingSemesters *int     `json:"remaining_semesters,omitempty"`
	UnitsPerSemester   *int     `json:"units_per_semester,omitempty"`
	WhatIfGPA          *float64 `json:"what_if_gpa,omitempty"`
	Clamp              string   `json:"clamp,omitempty"`
}

// Plan is a projection together with the standing and inputs it was computed from.
type Plan struct {
	Input      gpa.ProjectionInput `json:"input"`
	Projection gpa.Projection      `json:"projection"`
}

// PlannerUsecase answers "what do I need from here to reach my target".
type PlannerUsecase interface {
	Plan(ctx context.Context, req PlanRequest) (*Plan, error)
}

// NewPlannerUsecase wires the report source for the current standing.
func NewPlannerUsecase(reports ReportUsecase, settings SettingsUsecase, defaults PlanDefaults) PlannerUsecase {
	return &plannerUsecase{reports: reports, settings: settings, defaults: defaults}
}

type plannerUsecase struct {
	reports  ReportUsecase
	settings SettingsUsecase
	defaults PlanDefaults
}

func (u *plannerUsecase) Plan(ctx context.Context, req PlanRequest) (*Plan, error) {
	summary, err := u.reports.Dashboard(ctx)
	if err != nil {
		return nil, err
	}
	settings, err := u.settings.GetSettings(ctx)
	if err != nil {
		return nil, err
	}

	in := gpa.ProjectionInput{
		CurrentCGPA:        summary.CGPA,
		TargetCGPA:         valueOr(req.TargetCGPA, settings.TargetCGPA),
		UnitsCompleted:     summary.Totals.Units,
		RemainingSemesters: valueOr(req.RemainingSemesters, u.defaults.RemainingSemesters),
		UnitsPerSemester:   valueOr(req.UnitsPerSemester, u.defaults.UnitsPerSemester),
		WhatIfGPA:          req.WhatIfGPA,
		ScaleMax:           gpa.ScaleMax(settings.GradeMapping),
		Clamp:              u.defaults.Clamp,
	}
	if req.Clamp != "" {
		in.Clamp = gpa.ParseClampMode(req.Clamp)
	}
	if in.Clamp == "" {
		in.Clamp = gpa.ClampDisplay
	}
	if err := in.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", entity.ErrInvalidPlanInput, err)
	}

	return &Plan{Input: in, Projection: gpa.Project(in)}, nil
}

func valueOr[T any](p *T, fallback T) T {
	if p == nil {
		return fallback
	}
	return *p
}
