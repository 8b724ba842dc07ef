package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/samber/lo"

	"github.com/eslsoft/gradenet/internal/entity"
	"github.com/eslsoft/gradenet/internal/infrastructure/database"
	"github.com/eslsoft/gradenet/internal/repository"
	"github.com/eslsoft/gradenet/pkg/filterexpr"
)

var courseColumns = database.ColumnNames(database.CoursesTable)

type CourseRepository struct {
	store
}

// NewCourseRepository constructs a SQL-backed course repository.
func NewCourseRepository(db *database.DB) repository.CourseRepository {
	return &CourseRepository{store: store{db: db}}
}

type listCoursesParams struct {
	Keyword       string
	Code          string
	CodePrefix    string
	Codes         []string
	SemesterID    string
	SemesterIDs   []string
	GradeLetter   string
	GradeLetters  []string
	Units         *int
	MinUnits      *int
	MaxUnits      *int
	MinScore      *float64
	MaxScore      *float64
	ScoreAbove    *float64
	ScoreBelow    *float64
	GradePoint    *float64
	MinGradePoint *float64
	MaxGradePoint *float64
	CreatedFrom   *time.Time
	CreatedTo     *time.Time
	PrimaryKey    string
	PrimaryDesc   bool
	SecondaryKey  string
	SecondaryDesc bool
}

func (r *CourseRepository) Create(ctx context.Context, course *entity.Course) (*entity.Course, error) {
	insert := r.builder().Insert(database.CoursesTableName).
		Columns(courseColumns...).
		Values(courseValues(course)...)
	if _, err := r.exec(ctx, r.db, insert); err != nil {
		return nil, translateCourseError(err, "create course")
	}
	return r.GetByID(ctx, course.ID)
}

func (r *CourseRepository) Update(ctx context.Context, course *entity.Course) (*entity.Course, error) {
	update := r.builder().Update(database.CoursesTableName).
		Set("code", course.Code).
		Set("title", course.Title).
		Set("units", course.Units).
		Set("score", course.Score).
		Set("grade_letter", course.GradeLetter).
		Set("grade_point", course.GradePoint).
		Set("updated_at", course.UpdatedAt.UTC()).
		Where(entsql.EQ("id", course.ID))
	res, err := r.exec(ctx, r.db, update)
	if err != nil {
		return nil, translateCourseError(err, "update course")
	}
	if err := expectAffected(res, entity.ErrCourseNotFound); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, course.ID)
}

func (r *CourseRepository) GetByID(ctx context.Context, id string) (*entity.Course, error) {
	selector := r.selectCourses().Where(entsql.EQ("id", id))
	course, err := scanCourse(r.queryRow(ctx, r.db, selector))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, entity.ErrCourseNotFound
		}
		return nil, fmt.Errorf("get course: %w", err)
	}
	return &course, nil
}

func (r *CourseRepository) ListBySemester(ctx context.Context, semesterID string) ([]entity.Course, error) {
	selector := r.selectCourses().
		Where(entsql.EQ("semester_id", semesterID)).
		OrderBy("created_at", "id")
	return r.collect(ctx, selector)
}

func (r *CourseRepository) ListGrouped(ctx context.Context) (map[string][]entity.Course, error) {
	courses, err := r.collect(ctx, r.selectCourses().OrderBy("created_at", "id"))
	if err != nil {
		return nil, err
	}
	return lo.GroupBy(courses, func(c entity.Course) string { return c.SemesterID }), nil
}

func (r *CourseRepository) List(ctx context.Context, query *repository.ListCourseQuery) ([]entity.Course, int64, error) {
	var params listCoursesParams
	if err := filterexpr.Bind(query, &params, listCoursesSchema); err != nil {
		return nil, 0, fmt.Errorf("%w: %v", entity.ErrInvalidCourse, err)
	}
	if query.SemesterID != "" {
		params.SemesterIDs = append(params.SemesterIDs, query.SemesterID)
	}

	predicates := courseFilters(params)

	counter := r.builder().Select().Count().From(r.builder().Table(database.CoursesTableName))
	if len(predicates) > 0 {
		counter.Where(entsql.And(predicates...))
	}
	var total int64
	if err := r.queryRow(ctx, r.db, counter).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count courses: %w", err)
	}

	selector := r.selectCourses()
	if len(predicates) > 0 {
		selector.Where(entsql.And(predicates...))
	}
	applyCourseOrdering(selector, params)
	if offset := query.Offset(); offset > 0 {
		selector.Offset(int(offset))
	}
	if query.PageSize > 0 {
		selector.Limit(int(query.PageSize))
	}

	courses, err := r.collect(ctx, selector)
	if err != nil {
		return nil, 0, err
	}
	return courses, total, nil
}

func (r *CourseRepository) UpdateGrades(ctx context.Context, courses []entity.Course) error {
	if len(courses) == 0 {
		return nil
	}
	return r.inTx(ctx, func(tx *sql.Tx) error {
		for _, course := range courses {
			update := r.builder().Update(database.CoursesTableName).
				Set("grade_letter", course.GradeLetter).
				Set("grade_point", course.GradePoint).
				Set("updated_at", course.UpdatedAt.UTC()).
				Where(entsql.EQ("id", course.ID))
			res, err := r.exec(ctx, tx, update)
			if err != nil {
				return fmt.Errorf("regrade course %s: %w", course.ID, err)
			}
			if err := expectAffected(res, entity.ErrCourseNotFound); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *CourseRepository) Delete(ctx context.Context, id string) error {
	res, err := r.exec(ctx, r.db, r.builder().Delete(database.CoursesTableName).Where(entsql.EQ("id", id)))
	if err != nil {
		return fmt.Errorf("delete course: %w", err)
	}
	return expectAffected(res, entity.ErrCourseNotFound)
}

func (r *CourseRepository) selectCourses() *entsql.Selector {
	return r.builder().Select(courseColumns...).From(r.builder().Table(database.CoursesTableName))
}

func (r *CourseRepository) collect(ctx context.Context, selector *entsql.Selector) ([]entity.Course, error) {
	rows, err := r.query(ctx, r.db, selector)
	if err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	defer rows.Close()

	var courses []entity.Course
	for rows.Next() {
		course, err := scanCourse(rows)
		if err != nil {
			return nil, fmt.Errorf("scan course: %w", err)
		}
		courses = append(courses, course)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate courses: %w", err)
	}
	return courses, nil
}

func courseFilters(params listCoursesParams) []*entsql.Predicate {
	var preds []*entsql.Predicate
	if kw := strings.TrimSpace(params.Keyword); kw != "" {
		preds = append(preds, entsql.Or(
			entsql.ContainsFold("code", kw),
			entsql.ContainsFold("title", kw),
		))
	}
	if params.Code != "" {
		preds = append(preds, entsql.EQ("code", entity.NormalizeCourseCode(params.Code)))
	}
	if params.CodePrefix != "" {
		preds = append(preds, entsql.HasPrefix("code", entity.NormalizeCourseCode(params.CodePrefix)))
	}
	if codes := normalizeCodes(params.Codes); len(codes) > 0 {
		preds = append(preds, entsql.In("code", toAny(codes)...))
	}
	if params.SemesterID != "" {
		preds = append(preds, entsql.EQ("semester_id", params.SemesterID))
	}
	if ids := lo.Uniq(params.SemesterIDs); len(ids) > 0 {
		preds = append(preds, entsql.In("semester_id", toAny(ids)...))
	}
	if params.GradeLetter != "" {
		preds = append(preds, entsql.EQ("grade_letter", strings.ToUpper(params.GradeLetter)))
	}
	if letters := normalizeCodes(params.GradeLetters); len(letters) > 0 {
		preds = append(preds, entsql.In("grade_letter", toAny(letters)...))
	}
	if params.Units != nil {
		preds = append(preds, entsql.EQ("units", *params.Units))
	}
	if params.MinUnits != nil {
		preds = append(preds, entsql.GTE("units", *params.MinUnits))
	}
	if params.MaxUnits != nil {
		preds = append(preds, entsql.LTE("units", *params.MaxUnits))
	}
	if params.MinScore != nil {
		preds = append(preds, entsql.GTE("score", *params.MinScore))
	}
	if params.MaxScore != nil {
		preds = append(preds, entsql.LTE("score", *params.MaxScore))
	}
	if params.ScoreAbove != nil {
		preds = append(preds, entsql.GT("score", *params.ScoreAbove))
	}
	if params.ScoreBelow != nil {
		preds = append(preds, entsql.LT("score", *params.ScoreBelow))
	}
	if params.GradePoint != nil {
		preds = append(preds, entsql.EQ("grade_point", *params.GradePoint))
	}
	if params.MinGradePoint != nil {
		preds = append(preds, entsql.GTE("grade_point", *params.MinGradePoint))
	}
	if params.MaxGradePoint != nil {
		preds = append(preds, entsql.LTE("grade_point", *params.MaxGradePoint))
	}
	if params.CreatedFrom != nil {
		preds = append(preds, entsql.GTE("created_at", params.CreatedFrom.UTC()))
	}
	if params.CreatedTo != nil {
		preds = append(preds, entsql.LTE("created_at", params.CreatedTo.UTC()))
	}
	return preds
}

func applyCourseOrdering(selector *entsql.Selector, params listCoursesParams) {
	seen := make(map[string]struct{}, 3)
	for _, term := range []struct {
		key  string
		desc bool
	}{
		{key: params.PrimaryKey, desc: params.PrimaryDesc},
		{key: params.SecondaryKey, desc: params.SecondaryDesc},
		{key: "id"},
	} {
		field, ok := listCoursesSchema.Order.Fields[term.key]
		if !ok {
			continue
		}
		if _, dup := seen[field.Expr]; dup {
			continue
		}
		seen[field.Expr] = struct{}{}
		if term.desc {
			selector.OrderBy(entsql.Desc(field.Expr))
		} else {
			selector.OrderBy(entsql.Asc(field.Expr))
		}
	}
}

func courseValues(c *entity.Course) []any {
	return []any{
		c.ID, c.Code, c.Title, c.Units, c.Score, c.GradeLetter, c.GradePoint,
		c.CreatedAt.UTC(), c.UpdatedAt.UTC(), c.SemesterID,
	}
}

func scanCourse(row rowScanner) (entity.Course, error) {
	var c entity.Course
	err := row.Scan(
		&c.ID, &c.Code, &c.Title, &c.Units, &c.Score, &c.GradeLetter, &c.GradePoint,
		&c.CreatedAt, &c.UpdatedAt, &c.SemesterID,
	)
	return c, err
}

func translateCourseError(err error, op string) error {
	if isUniqueViolation(err) {
		return entity.ErrDuplicateCourseCode
	}
	return fmt.Errorf("%s: %w", op, err)
}

func normalizeCodes(in []string) []string {
	codes := lo.FilterMap(in, func(code string, _ int) (string, bool) {
		normalized := entity.NormalizeCourseCode(code)
		return normalized, normalized != ""
	})
	return lo.Uniq(codes)
}

func toAny[T any](in []T) []any {
	return lo.Map(in, func(v T, _ int) any { return v })
}
