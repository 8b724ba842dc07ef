package gpa

import (
	"fmt"
	"math"
)

// RequiredGPA is the average GPA needed over the remaining semesters to finish at targetCGPA.
//
// The figure may exceed the scale maximum; callers compare it with the maximum to tell an
// unachievable target apart. No remaining work (no semesters or no units) yields 0.
func RequiredGPA(currentCGPA, targetCGPA float64, remainingSemesters, unitsCompleted, unitsPerSemester int) float64 {
	if remainingSemesters <= 0 {
		return 0
	}
	futureUnits := float64(remainingSemesters * unitsPerSemester)
	if futureUnits == 0 {
		return 0
	}
	needed := targetCGPA * (float64(unitsCompleted) + futureUnits)
	banked := currentCGPA * float64(unitsCompleted)
	return Round2((needed - banked) / futureUnits)
}

// ClampMode selects how the scale maximum is applied during projection.
type ClampMode string

const (
	// ClampDisplay clamps only the values handed back; the running state stays unclamped.
	ClampDisplay ClampMode = "display"
	// ClampCarry feeds each clamped projected CGPA into the next step.
	ClampCarry ClampMode = "carry"
)

// ParseClampMode maps "" and unknown values to ClampDisplay.
func ParseClampMode(raw string) ClampMode {
	if ClampMode(raw) == ClampCarry {
		return ClampCarry
	}
	return ClampDisplay
}

// ProjectionInput describes the current standing and the plan to simulate.
type ProjectionInput struct {
	CurrentCGPA        float64   `json:"current_cgpa"`
	TargetCGPA         float64   `json:"target_cgpa"`
	UnitsCompleted     int       `json:"units_completed"`
	RemainingSemesters int       `json:"remaining_semesters"`
	UnitsPerSemester   int       `json:"units_per_semester"`
	WhatIfGPA          *float64  `json:"what_if_gpa,omitempty"`
	ScaleMax           float64   `json:"scale_max"`
	Clamp              ClampMode `json:"clamp,omitempty"`
}

// Validate rejects inputs the simulation cannot interpret.
func (in ProjectionInput) Validate() error {
	for name, v := range map[string]float64{
		"current CGPA": in.CurrentCGPA,
		"target CGPA":  in.TargetCGPA,
		"scale max":    in.ScaleMax,
	} {
		if !finite(v) {
			return fmt.Errorf("%s must be a finite number, got %v", name, v)
		}
	}
	switch {
	case in.ScaleMax <= 0:
		return fmt.Errorf("scale max must be positive, got %v", in.ScaleMax)
	case in.UnitsCompleted < 0:
		return fmt.Errorf("units completed must not be negative, got %d", in.UnitsCompleted)
	case in.RemainingSemesters < 0:
		return fmt.Errorf("remaining semesters must not be negative, got %d", in.RemainingSemesters)
	case in.UnitsPerSemester < 0:
		return fmt.Errorf("units per semester must not be negative, got %d", in.UnitsPerSemester)
	case in.CurrentCGPA < 0 || in.TargetCGPA < 0:
		return fmt.Errorf("CGPA values must not be negative")
	case in.WhatIfGPA != nil && (*in.WhatIfGPA < 0 || !finite(*in.WhatIfGPA)):
		return fmt.Errorf("what-if GPA must be a finite, non-negative number")
	}
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// ProjectionPoint is one simulated future semester. GPA fields are clamped to the scale
// maximum; RawProjectedCGPA is the unclamped running value.
type ProjectionPoint struct {
	Semester         int     `json:"semester"`
	Label            string  `json:"label"`
	SemesterGPA      float64 `json:"semester_gpa"`
	ProjectedCGPA    float64 `json:"projected_cgpa"`
	RequiredGPA      float64 `json:"required_gpa"`
	TargetGPA        float64 `json:"target_gpa"`
	RawProjectedCGPA float64 `json:"raw_projected_cgpa"`
	ProjectedUnits   int     `json:"projected_units"`
}

// Projection is the outcome of a simulated plan.
type Projection struct {
	RequiredGPA    float64           `json:"required_gpa"`
	Achievable     bool              `json:"achievable"`
	FinalCGPA      float64           `json:"final_cgpa"`
	FinalUnits     int               `json:"final_units"`
	AchievesTarget bool              `json:"achieves_target"`
	Points         []ProjectionPoint `json:"points"`
}

// Project simulates the remaining semesters one by one.
//
// Each step assumes the required GPA, except the first when a what-if GPA is supplied, and
// recomputes the cumulative figure from the running unit total:
//
//	cgpa' = (cgpa * priorUnits + semesterGPA * unitsPerSemester) / (priorUnits + unitsPerSemester)
//
// AchievesTarget compares the final unclamped CGPA with the target.
func Project(in ProjectionInput) Projection {
	required := RequiredGPA(in.CurrentCGPA, in.TargetCGPA, in.RemainingSemesters, in.UnitsCompleted, in.UnitsPerSemester)
	clampMax := func(v float64) float64 { return math.Min(v, in.ScaleMax) }

	result := Projection{
		RequiredGPA: required,
		Achievable:  required <= in.ScaleMax,
		Points:      make([]ProjectionPoint, 0, max(in.RemainingSemesters, 0)),
	}

	cgpa := in.CurrentCGPA
	units := in.UnitsCompleted
	for i := 1; i <= in.RemainingSemesters; i++ {
		semesterGPA := required
		if i == 1 && in.WhatIfGPA != nil {
			semesterGPA = *in.WhatIfGPA
		}

		prior := units
		units += in.UnitsPerSemester
		if units > 0 {
			cgpa = (cgpa*float64(prior) + semesterGPA*float64(in.UnitsPerSemester)) / float64(units)
		}
		raw := cgpa
		if in.Clamp == ClampCarry {
			cgpa = clampMax(cgpa)
		}

		result.Points = append(result.Points, ProjectionPoint{
			Semester:         i,
			Label:            fmt.Sprintf("Sem %d", i),
			SemesterGPA:      clampMax(semesterGPA),
			ProjectedCGPA:    clampMax(raw),
			RequiredGPA:      clampMax(required),
			TargetGPA:        clampMax(in.TargetCGPA),
			RawProjectedCGPA: raw,
			ProjectedUnits:   units,
		})
	}

	result.FinalCGPA = cgpa
	result.FinalUnits = units
	result.AchievesTarget = cgpa >= in.TargetCGPA
	return result
}
