package gpa

import (
	"math"
	"testing"

	"github.com/eslsoft/gradenet/internal/entity"
)

func TestRequiredGPA(t *testing.T) {
	got := RequiredGPA(3.0, 4.0, 2, 20, 15)
	if got != 4.67 {
		t.Fatalf("required GPA = %v want 4.67", got)
	}
	if got <= ScaleMaxFor(entity.ScaleFourPoint) {
		t.Fatalf("4.67 must be flagged unachievable on the 4.0 scale")
	}
	if got > ScaleMaxFor(entity.ScaleFivePoint) {
		t.Fatalf("4.67 must be achievable on the 5.0 scale")
	}
}

func TestRequiredGPA_NoRemainingWork(t *testing.T) {
	cases := []struct {
		name      string
		remaining int
		perSem    int
	}{
		{"zero semesters", 0, 15},
		{"negative semesters", -3, 15},
		{"zero units per semester", 4, 0},
	}
	for _, c := range cases {
		if got := RequiredGPA(3.2, 4.5, c.remaining, 40, c.perSem); got != 0 {
			t.Fatalf("%s: got %v want 0", c.name, got)
		}
	}
}

func TestRequiredGPA_RoundTrip(t *testing.T) {
	cases := []struct {
		current float64
		done    int
		rem     int
		per     int
	}{
		{3.45, 40, 3, 15},
		{2.10, 18, 5, 21},
		{4.82, 100, 1, 24},
	}
	for _, c := range cases {
		if got := RequiredGPA(c.current, c.current, c.rem, c.done, c.per); math.Abs(got-c.current) > 0.005 {
			t.Fatalf("holding %v should require %v, got %v", c.current, c.current, got)
		}
	}
}

func TestProject_ReachesTargetWithRequiredGPA(t *testing.T) {
	p := Project(ProjectionInput{
		CurrentCGPA: 3.0, TargetCGPA: 4.0, UnitsCompleted: 20,
		RemainingSemesters: 2, UnitsPerSemester: 15, ScaleMax: 5.0,
	})
	if p.RequiredGPA != 4.67 || !p.Achievable {
		t.Fatalf("required = %v achievable = %v", p.RequiredGPA, p.Achievable)
	}
	if len(p.Points) != 2 || p.FinalUnits != 50 {
		t.Fatalf("points = %d final units = %d", len(p.Points), p.FinalUnits)
	}
	// (60 + 70.05) / 35, then (130.05 + 70.05) / 50
	if math.Abs(p.Points[0].RawProjectedCGPA-130.05/35) > 1e-9 {
		t.Fatalf("step 1 CGPA = %v", p.Points[0].RawProjectedCGPA)
	}
	if math.Abs(p.FinalCGPA-4.002) > 1e-9 || !p.AchievesTarget {
		t.Fatalf("final = %v achieves = %v", p.FinalCGPA, p.AchievesTarget)
	}
	if p.Points[1].Label != "Sem 2" || p.Points[1].ProjectedUnits != 50 {
		t.Fatalf("unexpected point %+v", p.Points[1])
	}
}

func TestProject_UnachievableOnFourPointScale(t *testing.T) {
	p := Project(ProjectionInput{
		CurrentCGPA: 3.0, TargetCGPA: 4.0, UnitsCompleted: 20,
		RemainingSemesters: 2, UnitsPerSemester: 15, ScaleMax: 4.0,
	})
	if p.Achievable {
		t.Fatalf("4.67 on a 4.0 scale must be unachievable")
	}
	for _, pt := range p.Points {
		if pt.RequiredGPA != 4.0 || pt.SemesterGPA != 4.0 || pt.ProjectedCGPA > 4.0 {
			t.Fatalf("point not clamped for display: %+v", pt)
		}
	}
}

func TestProject_WhatIfOnlyAffectsFirstSemester(t *testing.T) {
	whatIf := 3.5
	p := Project(ProjectionInput{
		CurrentCGPA: 3.0, TargetCGPA: 4.0, UnitsCompleted: 20,
		RemainingSemesters: 2, UnitsPerSemester: 15, ScaleMax: 5.0, WhatIfGPA: &whatIf,
	})
	if p.Points[0].SemesterGPA != 3.5 || p.Points[1].SemesterGPA != 4.67 {
		t.Fatalf("semester GPAs = %v, %v", p.Points[0].SemesterGPA, p.Points[1].SemesterGPA)
	}
	// (60 + 52.5 + 70.05) / 50
	if math.Abs(p.FinalCGPA-3.651) > 1e-9 || p.AchievesTarget {
		t.Fatalf("final = %v achieves = %v", p.FinalCGPA, p.AchievesTarget)
	}
}

// A target above the scale maximum makes the running CGPA overshoot mid-plan, which is where
// the two clamp modes part ways.
func TestProject_ClampModes(t *testing.T) {
	in := ProjectionInput{
		CurrentCGPA: 3.0, TargetCGPA: 4.5, UnitsCompleted: 10,
		RemainingSemesters: 2, UnitsPerSemester: 10, ScaleMax: 4.0,
	}

	display := Project(in)
	if display.RequiredGPA != 5.25 {
		t.Fatalf("required = %v want 5.25", display.RequiredGPA)
	}
	if display.Points[0].ProjectedCGPA != 4.0 || display.Points[0].RawProjectedCGPA != 4.125 {
		t.Fatalf("display step 1 = %+v", display.Points[0])
	}
	if display.FinalCGPA != 4.5 || !display.AchievesTarget {
		t.Fatalf("display final = %v achieves = %v", display.FinalCGPA, display.AchievesTarget)
	}

	in.Clamp = ClampCarry
	carry := Project(in)
	if carry.Points[0].RawProjectedCGPA != 4.125 {
		t.Fatalf("carry step 1 raw = %v", carry.Points[0].RawProjectedCGPA)
	}
	// (4.0*20 + 52.5) / 30
	if math.Abs(carry.Points[1].RawProjectedCGPA-132.5/30) > 1e-9 {
		t.Fatalf("carry step 2 raw = %v", carry.Points[1].RawProjectedCGPA)
	}
	if carry.FinalCGPA != 4.0 || carry.AchievesTarget {
		t.Fatalf("carry final = %v achieves = %v", carry.FinalCGPA, carry.AchievesTarget)
	}
}

// The required GPA is rounded to two decimals, so following it can land just under the target.
func TestProject_AchievesTargetUsesUnroundedCGPA(t *testing.T) {
	p := Project(ProjectionInput{
		CurrentCGPA: 3.0, TargetCGPA: 3.5, UnitsCompleted: 10,
		RemainingSemesters: 3, UnitsPerSemester: 15, ScaleMax: 5.0,
	})
	if p.RequiredGPA != 3.61 {
		t.Fatalf("required = %v want 3.61", p.RequiredGPA)
	}
	// (30 + 3.61*45) / 55
	if math.Abs(p.FinalCGPA-192.45/55) > 1e-9 {
		t.Fatalf("final = %v", p.FinalCGPA)
	}
	if Round2(p.FinalCGPA) != 3.5 || p.AchievesTarget {
		t.Fatalf("final %v rounds to the target but falls short of it, achieves = %v", p.FinalCGPA, p.AchievesTarget)
	}
}

func TestProject_NoRemainingSemesters(t *testing.T) {
	p := Project(ProjectionInput{CurrentCGPA: 3.8, TargetCGPA: 3.5, UnitsCompleted: 90, ScaleMax: 5.0})
	if len(p.Points) != 0 || p.FinalCGPA != 3.8 || p.FinalUnits != 90 || !p.AchievesTarget || p.RequiredGPA != 0 {
		t.Fatalf("unexpected projection %+v", p)
	}
}

func TestProjectionInputValidate(t *testing.T) {
	neg := -1.0
	nan := math.NaN()
	inf := math.Inf(1)
	bad := []ProjectionInput{
		{ScaleMax: 5, CurrentCGPA: nan},
		{ScaleMax: 5, TargetCGPA: nan},
		{ScaleMax: 5, TargetCGPA: inf},
		{ScaleMax: nan},
		{ScaleMax: inf},
		{ScaleMax: 5, WhatIfGPA: &nan},
		{ScaleMax: 5, WhatIfGPA: &inf},
		{ScaleMax: 0},
		{ScaleMax: 5, UnitsCompleted: -1},
		{ScaleMax: 5, RemainingSemesters: -1},
		{ScaleMax: 5, UnitsPerSemester: -1},
		{ScaleMax: 5, TargetCGPA: -2},
		{ScaleMax: 5, WhatIfGPA: &neg},
	}
	for i, in := range bad {
		if err := in.Validate(); err == nil {
			t.Fatalf("case %d: expected error", i)
		}
	}
	if err := (ProjectionInput{ScaleMax: 5, RemainingSemesters: 2, UnitsPerSemester: 15}).Validate(); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
}

func TestParseClampMode(t *testing.T) {
	if ParseClampMode("carry") != ClampCarry || ParseClampMode("") != ClampDisplay || ParseClampMode("bogus") != ClampDisplay {
		t.Fatalf("unexpected clamp parsing")
	}
}
