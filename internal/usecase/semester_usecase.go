package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/eslsoft/gradenet/internal/entity"
	"github.com/eslsoft/gradenet/internal/repository"
)

// SemesterUsecase encapsulates business logic for managing semesters.
type SemesterUsecase interface {
	CreateSemester(ctx context.Context, semester *entity.Semester) (*entity.Semester, error)
	UpdateSemester(ctx context.Context, id string, patch entity.SemesterPatch) (*entity.Semester, error)
	GetSemester(ctx context.Context, id string) (*entity.Semester, error)
	ListSemesters(ctx context.Context) ([]entity.Semester, error)
	// DeleteSemester removes the semester together with its courses.
	DeleteSemester(ctx context.Context, id string) error
}

// NewSemesterUsecase wires the repository with default behaviour.
func NewSemesterUsecase(repo repository.SemesterRepository, cache repository.ReportCache, validator *Validator) SemesterUsecase {
	return &semesterUsecase{
		repo:      repo,
		cache:     cache,
		validator: validator,
		clock:     time.Now,
		newID:     uuid.NewString,
	}
}

type semesterUsecase struct {
	repo      repository.SemesterRepository
	cache     repository.ReportCache
	validator *Validator
	clock     func() time.Time
	newID     func() string
}

func (u *semesterUsecase) CreateSemester(ctx context.Context, semester *entity.Semester) (*entity.Semester, error) {
	if semester == nil {
		return nil, entity.ErrInvalidSemester
	}
	now := u.clock().UTC()

	s := *semester
	s.ID = u.newID()
	s.CreatedAt = time.Time{}
	if strings.TrimSpace(s.Session) == "" {
		s.Session = entity.DefaultSession(now)
	}
	s.Normalize(now)
	if err := u.validator.Struct(entity.ErrInvalidSemester, &s); err != nil {
		return nil, err
	}

	created, err := u.repo.Create(ctx, &s)
	if err != nil {
		return nil, err
	}
	invalidateReports(ctx, u.cache)
	return created, nil
}

func (u *semesterUsecase) UpdateSemester(ctx context.Context, id string, patch entity.SemesterPatch) (*entity.Semester, error) {
	existing, err := u.GetSemester(ctx, id)
	if err != nil {
		return nil, err
	}
	patch.Apply(existing)
	existing.Normalize(u.clock().UTC())
	if err := u.validator.Struct(entity.ErrInvalidSemester, existing); err != nil {
		return nil, err
	}

	updated, err := u.repo.Update(ctx, existing)
	if err != nil {
		return nil, err
	}
	invalidateReports(ctx, u.cache)
	return updated, nil
}

func (u *semesterUsecase) GetSemester(ctx context.Context, id string) (*entity.Semester, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, entity.ErrInvalidSemesterID
	}
	return u.repo.GetByID(ctx, id)
}

func (u *semesterUsecase) ListSemesters(ctx context.Context) ([]entity.Semester, error) {
	return u.repo.List(ctx)
}

func (u *semesterUsecase) DeleteSemester(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return entity.ErrInvalidSemesterID
	}
	if err := u.repo.Delete(ctx, id); err != nil {
		return err
	}
	invalidateReports(ctx, u.cache)
	return nil
}
