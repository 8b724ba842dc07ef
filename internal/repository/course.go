package repository

import (
	"context"

	"github.com/eslsoft/gradenet/internal/entity"
)

// ListCourseQuery holds parameters for searching courses across semesters.
type ListCourseQuery struct {
	Pagination
	FilterOrder

	SemesterID string
}

// CourseRepository abstracts persistence for courses to keep usecases storage agnostic.
type CourseRepository interface {
	Create(ctx context.Context, course *entity.Course) (*entity.Course, error)
	Update(ctx context.Context, course *entity.Course) (*entity.Course, error)
	GetByID(ctx context.Context, id string) (*entity.Course, error)
	ListBySemester(ctx context.Context, semesterID string) ([]entity.Course, error)
	// ListGrouped returns every stored course keyed by semester ID.
	ListGrouped(ctx context.Context) (map[string][]entity.Course, error)
	List(ctx context.Context, query *ListCourseQuery) ([]entity.Course, int64, error)
	// UpdateGrades rewrites the derived grade fields of the given courses in one transaction.
	UpdateGrades(ctx context.Context, courses []entity.Course) error
	Delete(ctx context.Context, id string) error
}
