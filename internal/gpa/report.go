package gpa

import (
	"github.com/samber/lo"

	"github.com/eslsoft/gradenet/internal/entity"
)

// GradeCount is the number of courses holding one letter.
type GradeCount struct {
	Letter string `json:"letter"`
	Count  int    `json:"count"`
}

// GradeDistribution counts courses per letter in the order of scale. Letters outside the scale
// (courses graded under a previous scale) are appended in first-seen order.
func GradeDistribution(courses []entity.Course, scale []entity.GradePoint) []GradeCount {
	counts := make(map[string]int)
	for _, course := range courses {
		counts[course.GradeLetter]++
	}
	out := make([]GradeCount, 0, len(scale))
	for _, band := range scale {
		out = append(out, GradeCount{Letter: band.Letter, Count: counts[band.Letter]})
		delete(counts, band.Letter)
	}
	for _, course := range courses {
		if n, ok := counts[course.GradeLetter]; ok {
			out = append(out, GradeCount{Letter: course.GradeLetter, Count: n})
			delete(counts, course.GradeLetter)
		}
	}
	return out
}

// Impact thresholds for flagging courses that drag a GPA down the most.
const (
	ImpactMinUnits = 3
	ImpactMaxPoint = 2.0
)

// ImpactfulCourses returns heavy courses with a low grade point.
func ImpactfulCourses(courses []entity.Course) []entity.Course {
	return lo.Filter(courses, func(c entity.Course, _ int) bool {
		return c.Units >= ImpactMinUnits && c.GradePoint <= ImpactMaxPoint
	})
}

// TrendPoint is the semester and cumulative GPA after one semester.
type TrendPoint struct {
	SemesterID string  `json:"semester_id"`
	Label      string  `json:"label"`
	GPA        float64 `json:"gpa"`
	CGPA       float64 `json:"cgpa"`
	Units      int     `json:"units"`
}

// Trend walks semesters in display order and reports each semester's GPA alongside the CGPA of
// every course up to and including it, with the retake policy applied to that prefix.
func Trend(semesters []entity.Semester, coursesBySemester map[string][]entity.Course, policy entity.RetakePolicy) []TrendPoint {
	ordered := OrderSemesters(semesters)
	points := make([]TrendPoint, 0, len(ordered))
	prefix := make(map[string][]entity.Course, len(ordered))
	for i, semester := range ordered {
		courses := coursesBySemester[semester.ID]
		prefix[semester.ID] = courses
		cumulative := ResolveCourses(ordered[:i+1], prefix, policy)
		points = append(points, TrendPoint{
			SemesterID: semester.ID,
			Label:      semester.Label(),
			GPA:        SemesterGPA(courses),
			CGPA:       CGPA(cumulative),
			Units:      SumTotals(courses).Units,
		})
	}
	return points
}

// LatestSemester returns the most recently created semester.
func LatestSemester(semesters []entity.Semester) (entity.Semester, bool) {
	if len(semesters) == 0 {
		return entity.Semester{}, false
	}
	ordered := OrderSemesters(semesters)
	return ordered[len(ordered)-1], true
}

// Summary is the dashboard view of a full record.
type Summary struct {
	CGPA              float64             `json:"cgpa"`
	Totals            Totals              `json:"totals"`
	AttemptedUnits    int                 `json:"attempted_units"`
	SemesterCount     int                 `json:"semester_count"`
	CourseCount       int                 `json:"course_count"`
	LatestSemesterID  string              `json:"latest_semester_id,omitempty"`
	LatestGPA         float64             `json:"latest_gpa"`
	LatestUnits       int                 `json:"latest_units"`
	Trend             []TrendPoint        `json:"trend"`
	Retakes           map[string][]string `json:"retakes"`
	Distribution      []GradeCount        `json:"distribution"`
	Impactful         []entity.Course     `json:"impactful"`
	RetakePolicy      entity.RetakePolicy `json:"retake_policy"`
	ScaleMax          float64             `json:"scale_max"`
	TargetCGPA        float64             `json:"target_cgpa"`
	TargetProgressPct float64             `json:"target_progress_pct"`
}

// Summarize computes every dashboard figure from raw records and settings.
func Summarize(semesters []entity.Semester, coursesBySemester map[string][]entity.Course, settings entity.Settings) Summary {
	all := Flatten(semesters, coursesBySemester)
	resolved := ResolveCourses(semesters, coursesBySemester, settings.RetakePolicy)
	totals := SumTotals(resolved)

	summary := Summary{
		CGPA:           totals.GPA(),
		Totals:         totals,
		AttemptedUnits: SumTotals(all).Units,
		SemesterCount:  len(semesters),
		CourseCount:    len(all),
		Trend:          Trend(semesters, coursesBySemester, settings.RetakePolicy),
		Retakes:        IdentifyRetakes(coursesBySemester),
		Distribution:   GradeDistribution(all, settings.GradeMapping),
		Impactful:      ImpactfulCourses(all),
		RetakePolicy:   settings.RetakePolicy,
		ScaleMax:       ScaleMax(settings.GradeMapping),
		TargetCGPA:     settings.TargetCGPA,
	}
	if latest, ok := LatestSemester(semesters); ok {
		courses := coursesBySemester[latest.ID]
		summary.LatestSemesterID = latest.ID
		summary.LatestGPA = SemesterGPA(courses)
		summary.LatestUnits = SumTotals(courses).Units
	}
	if settings.TargetCGPA > 0 {
		summary.TargetProgressPct = Round2(min(summary.CGPA/settings.TargetCGPA, 1) * 100)
	}
	return summary
}
