package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/eslsoft/gradenet/internal/entity"
	"github.com/eslsoft/gradenet/internal/infrastructure/database"
	"github.com/eslsoft/gradenet/internal/repository"
)

var semesterColumns = database.ColumnNames(database.SemestersTable)

type SemesterRepository struct {
	store
}

// NewSemesterRepository constructs a SQL-backed semester repository.
func NewSemesterRepository(db *database.DB) repository.SemesterRepository {
	return &SemesterRepository{store: store{db: db}}
}

func (r *SemesterRepository) Create(ctx context.Context, semester *entity.Semester) (*entity.Semester, error) {
	insert := r.builder().Insert(database.SemestersTableName).
		Columns(semesterColumns...).
		Values(semesterValues(semester)...)
	if _, err := r.exec(ctx, r.db, insert); err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%w: id %s already exists", entity.ErrInvalidSemester, semester.ID)
		}
		return nil, fmt.Errorf("create semester: %w", err)
	}
	return r.GetByID(ctx, semester.ID)
}

func (r *SemesterRepository) Update(ctx context.Context, semester *entity.Semester) (*entity.Semester, error) {
	update := r.builder().Update(database.SemestersTableName).
		Set("session", semester.Session).
		Set("term", semester.Term).
		Set("level", semester.Level).
		Set("updated_at", semester.UpdatedAt.UTC()).
		Where(entsql.EQ("id", semester.ID))
	res, err := r.exec(ctx, r.db, update)
	if err != nil {
		return nil, fmt.Errorf("update semester: %w", err)
	}
	if err := expectAffected(res, entity.ErrSemesterNotFound); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, semester.ID)
}

func (r *SemesterRepository) GetByID(ctx context.Context, id string) (*entity.Semester, error) {
	selector := r.builder().Select(semesterColumns...).
		From(r.builder().Table(database.SemestersTableName)).
		Where(entsql.EQ("id", id))
	semester, err := scanSemester(r.queryRow(ctx, r.db, selector))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, entity.ErrSemesterNotFound
		}
		return nil, fmt.Errorf("get semester: %w", err)
	}
	return &semester, nil
}

func (r *SemesterRepository) List(ctx context.Context) ([]entity.Semester, error) {
	selector := r.builder().Select(semesterColumns...).
		From(r.builder().Table(database.SemestersTableName)).
		OrderBy("created_at", "id")
	rows, err := r.query(ctx, r.db, selector)
	if err != nil {
		return nil, fmt.Errorf("list semesters: %w", err)
	}
	defer rows.Close()

	var semesters []entity.Semester
	for rows.Next() {
		semester, err := scanSemester(rows)
		if err != nil {
			return nil, fmt.Errorf("scan semester: %w", err)
		}
		semesters = append(semesters, semester)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate semesters: %w", err)
	}
	return semesters, nil
}

func (r *SemesterRepository) Delete(ctx context.Context, id string) error {
	return r.inTx(ctx, func(tx *sql.Tx) error {
		courses := r.builder().Delete(database.CoursesTableName).Where(entsql.EQ("semester_id", id))
		if _, err := r.exec(ctx, tx, courses); err != nil {
			return fmt.Errorf("delete semester courses: %w", err)
		}
		res, err := r.exec(ctx, tx, r.builder().Delete(database.SemestersTableName).Where(entsql.EQ("id", id)))
		if err != nil {
			return fmt.Errorf("delete semester: %w", err)
		}
		return expectAffected(res, entity.ErrSemesterNotFound)
	})
}

func semesterValues(s *entity.Semester) []any {
	return []any{s.ID, s.Session, s.Term, s.Level, s.CreatedAt.UTC(), s.UpdatedAt.UTC()}
}

func scanSemester(row rowScanner) (entity.Semester, error) {
	var s entity.Semester
	err := row.Scan(&s.ID, &s.Session, &s.Term, &s.Level, &s.CreatedAt, &s.UpdatedAt)
	return s, err
}
