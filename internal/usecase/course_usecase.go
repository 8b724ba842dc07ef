package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/eslsoft/gradenet/internal/entity"
	"github.com/eslsoft/gradenet/internal/gpa"
	"github.com/eslsoft/gradenet/internal/repository"
)

// CourseUsecase manages courses. Grades are always derived under the active settings scale.
type CourseUsecase interface {
	AddCourse(ctx context.Context, semesterID string, draft gpa.CourseDraft) (*entity.Course, error)
	UpdateCourse(ctx context.Context, id string, draft gpa.CourseDraft) (*entity.Course, error)
	DeleteCourse(ctx context.Context, id string) error
	ListCourses(ctx context.Context, semesterID string) ([]entity.Course, error)
	SearchCourses(ctx context.Context, query *repository.ListCourseQuery) ([]entity.Course, int64, error)
}

// NewCourseUsecase wires the course store with semester lookups and the active settings.
func NewCourseUsecase(repo repository.CourseRepository, semesters repository.SemesterRepository, settings SettingsUsecase, cache repository.ReportCache) CourseUsecase {
	return &courseUsecase{
		repo:      repo,
		semesters: semesters,
		settings:  settings,
		cache:     cache,
		clock:     time.Now,
		newID:     uuid.NewString,
	}
}

type courseUsecase struct {
	repo      repository.CourseRepository
	semesters repository.SemesterRepository
	settings  SettingsUsecase
	cache     repository.ReportCache
	clock     func() time.Time
	newID     func() string
}

var errDuplicateCode = entity.NewValidationError(entity.ErrDuplicateCourseCode, "code", "Course code already exists in this semester")

func (u *courseUsecase) AddCourse(ctx context.Context, semesterID string, draft gpa.CourseDraft) (*entity.Course, error) {
	semesterID = strings.TrimSpace(semesterID)
	if semesterID == "" {
		return nil, entity.ErrInvalidSemesterID
	}
	if _, err := u.semesters.GetByID(ctx, semesterID); err != nil {
		return nil, err
	}
	settings, err := u.settings.GetSettings(ctx)
	if err != nil {
		return nil, err
	}

	course, err := gpa.NewCourse(u.newID(), semesterID, draft, settings.GradeMapping, u.clock().UTC())
	if err != nil {
		return nil, err
	}

	siblings, err := u.repo.ListBySemester(ctx, semesterID)
	if err != nil {
		return nil, err
	}
	if gpa.HasDuplicateCourseCode(siblings, course.Code, "") {
		return nil, errDuplicateCode
	}

	created, err := u.repo.Create(ctx, &course)
	if err != nil {
		return nil, err
	}
	invalidateReports(ctx, u.cache)
	return created, nil
}

func (u *courseUsecase) UpdateCourse(ctx context.Context, id string, draft gpa.CourseDraft) (*entity.Course, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, entity.ErrInvalidCourseID
	}
	existing, err := u.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	settings, err := u.settings.GetSettings(ctx)
	if err != nil {
		return nil, err
	}

	revised, err := gpa.ReviseCourse(*existing, draft, settings.GradeMapping, u.clock().UTC())
	if err != nil {
		return nil, err
	}

	siblings, err := u.repo.ListBySemester(ctx, existing.SemesterID)
	if err != nil {
		return nil, err
	}
	if gpa.HasDuplicateCourseCode(siblings, revised.Code, revised.ID) {
		return nil, errDuplicateCode
	}

	updated, err := u.repo.Update(ctx, &revised)
	if err != nil {
		return nil, err
	}
	invalidateReports(ctx, u.cache)
	return updated, nil
}

func (u *courseUsecase) DeleteCourse(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return entity.ErrInvalidCourseID
	}
	if err := u.repo.Delete(ctx, id); err != nil {
		return err
	}
	invalidateReports(ctx, u.cache)
	return nil
}

func (u *courseUsecase) ListCourses(ctx context.Context, semesterID string) ([]entity.Course, error) {
	semesterID = strings.TrimSpace(semesterID)
	if semesterID == "" {
		return nil, entity.ErrInvalidSemesterID
	}
	if _, err := u.semesters.GetByID(ctx, semesterID); err != nil {
		return nil, err
	}
	return u.repo.ListBySemester(ctx, semesterID)
}

func (u *courseUsecase) SearchCourses(ctx context.Context, query *repository.ListCourseQuery) ([]entity.Course, int64, error) {
	if query == nil {
		query = &repository.ListCourseQuery{}
	}
	if query.PageSize <= 0 || query.PageSize > 200 {
		query.PageSize = 50
	}
	if query.PageNo <= 0 {
		query.PageNo = 1
	}
	return u.repo.List(ctx, query)
}
