package usecase

import (
	"context"

	"github.com/samber/lo"

	"github.com/eslsoft/gradenet/internal/entity"
	"github.com/eslsoft/gradenet/internal/gpa"
	"github.com/eslsoft/gradenet/internal/repository"
)

// SemesterReport is the detail view of a single semester.
type SemesterReport struct {
	Semester     entity.Semester  `json:"semester"`
	Courses      []entity.Course  `json:"courses"`
	GPA          float64          `json:"gpa"`
	Totals       gpa.Totals       `json:"totals"`
	Distribution []gpa.GradeCount `json:"distribution"`
	Impactful    []entity.Course  `json:"impactful"`
	// RetakenCodes lists codes in this semester that also appear in another semester.
	RetakenCodes []string `json:"retaken_codes"`
}

// ReportUsecase computes dashboard figures from the stored records.
type ReportUsecase interface {
	Dashboard(ctx context.Context) (*gpa.Summary, error)
	SemesterReport(ctx context.Context, semesterID string) (*SemesterReport, error)
}

// NewReportUsecase wires the stores and the report cache.
func NewReportUsecase(semesters repository.SemesterRepository, courses repository.CourseRepository, settings SettingsUsecase, cache repository.ReportCache) ReportUsecase {
	return &reportUsecase{
		semesters: semesters,
		courses:   courses,
		settings:  settings,
		cache:     cache,
	}
}

type reportUsecase struct {
	semesters repository.SemesterRepository
	courses   repository.CourseRepository
	settings  SettingsUsecase
	cache     repository.ReportCache
}

const dashboardCacheKey = "dashboard"

func semesterCacheKey(id string) string { return "semester:" + id }

func (u *reportUsecase) Dashboard(ctx context.Context) (*gpa.Summary, error) {
	var cached gpa.Summary
	if hit, _ := u.cache.Get(ctx, dashboardCacheKey, &cached); hit {
		return &cached, nil
	}

	semesters, grouped, settings, err := u.load(ctx)
	if err != nil {
		return nil, err
	}
	summary := gpa.Summarize(semesters, grouped, *settings)

	_ = u.cache.Set(ctx, dashboardCacheKey, summary)
	return &summary, nil
}

func (u *reportUsecase) SemesterReport(ctx context.Context, semesterID string) (*SemesterReport, error) {
	if semesterID == "" {
		return nil, entity.ErrInvalidSemesterID
	}
	var cached SemesterReport
	if hit, _ := u.cache.Get(ctx, semesterCacheKey(semesterID), &cached); hit {
		return &cached, nil
	}

	semester, err := u.semesters.GetByID(ctx, semesterID)
	if err != nil {
		return nil, err
	}
	grouped, err := u.courses.ListGrouped(ctx)
	if err != nil {
		return nil, err
	}
	settings, err := u.settings.GetSettings(ctx)
	if err != nil {
		return nil, err
	}

	courses := grouped[semesterID]
	retakes := gpa.IdentifyRetakes(grouped)
	report := SemesterReport{
		Semester:     *semester,
		Courses:      lo.Ternary(courses == nil, []entity.Course{}, courses),
		GPA:          gpa.SemesterGPA(courses),
		Totals:       gpa.SumTotals(courses),
		Distribution: gpa.GradeDistribution(courses, settings.GradeMapping),
		Impactful:    gpa.ImpactfulCourses(courses),
		RetakenCodes: lo.Uniq(lo.FilterMap(courses, func(c entity.Course, _ int) (string, bool) {
			code := entity.NormalizeCourseCode(c.Code)
			_, ok := retakes[code]
			return code, ok
		})),
	}

	_ = u.cache.Set(ctx, semesterCacheKey(semesterID), report)
	return &report, nil
}

func (u *reportUsecase) load(ctx context.Context) ([]entity.Semester, map[string][]entity.Course, *entity.Settings, error) {
	semesters, err := u.semesters.List(ctx)
	if err != nil {
		return nil, nil, nil, err
	}
	grouped, err := u.courses.ListGrouped(ctx)
	if err != nil {
		return nil, nil, nil, err
	}
	settings, err := u.settings.GetSettings(ctx)
	if err != nil {
		return nil, nil, nil, err
	}
	return semesters, grouped, settings, nil
}
