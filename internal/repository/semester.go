package repository

import (
	"context"

	"github.com/eslsoft/gradenet/internal/entity"
)

// SemesterRepository abstracts persistence for semesters.
type SemesterRepository interface {
	Create(ctx context.Context, semester *entity.Semester) (*entity.Semester, error)
	Update(ctx context.Context, semester *entity.Semester) (*entity.Semester, error)
	GetByID(ctx context.Context, id string) (*entity.Semester, error)
	// List returns every semester ordered by CreatedAt, then ID.
	List(ctx context.Context) ([]entity.Semester, error)
	// Delete removes the semester and all of its courses.
	Delete(ctx context.Context, id string) error
}
