package gpa

import (
	"math"

	"github.com/samber/lo"

	"github.com/eslsoft/gradenet/internal/entity"
)

// Totals is the unit and quality point sum of a set of courses.
type Totals struct {
	Units         int     `json:"units"`
	QualityPoints float64 `json:"quality_points"`
}

// GPA returns the rounded units-weighted average, or 0 when there are no units.
func (t Totals) GPA() float64 {
	if t.Units == 0 {
		return 0
	}
	return Round2(t.QualityPoints / float64(t.Units))
}

// Round2 rounds half away from zero at the second decimal place.
func Round2(x float64) float64 {
	return math.Round(x*100) / 100
}

// SumTotals sums units and quality points across courses.
func SumTotals(courses []entity.Course) Totals {
	return Totals{
		Units:         lo.SumBy(courses, func(c entity.Course) int { return c.Units }),
		QualityPoints: lo.SumBy(courses, QualityPoints),
	}
}

// SemesterGPA is the GPA of the courses of a single semester.
func SemesterGPA(courses []entity.Course) float64 {
	return SumTotals(courses).GPA()
}

// CGPA is the GPA over the flattened course set of every semester, never an average of
// per-semester GPAs.
func CGPA(allCourses []entity.Course) float64 {
	return SumTotals(allCourses).GPA()
}
