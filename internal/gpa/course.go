package gpa

import (
	"strings"
	"time"

	"github.com/samber/lo"

	"github.com/eslsoft/gradenet/internal/entity"
)

// Validation is the outcome of checking raw course input.
type Validation struct {
	Valid bool   `json:"valid"`
	Error string `json:"error,omitempty"`

	field string
}

// Err converts a failed validation into an *entity.ValidationError, or nil when valid.
func (v Validation) Err() error {
	if v.Valid {
		return nil
	}
	return entity.NewValidationError(entity.ErrInvalidCourse, v.field, v.Error)
}

var validCourse = Validation{Valid: true}

func invalid(field, msg string) Validation {
	return Validation{Valid: false, Error: msg, field: field}
}

// ValidateCourse checks code, units and score in that order and reports the first failure.
func ValidateCourse(code string, units int, score float64) Validation {
	if strings.TrimSpace(code) == "" {
		return invalid("code", "Course code is required")
	}
	if units <= 0 {
		return invalid("units", "Units must be greater than 0")
	}
	if score < 0 || score > 100 {
		return invalid("score", "Score must be between 0 and 100")
	}
	return validCourse
}

// HasDuplicateCourseCode reports whether code already exists among courses, ignoring case and
// the course identified by excludeID (the one being edited).
func HasDuplicateCourseCode(courses []entity.Course, code string, excludeID string) bool {
	normalized := entity.NormalizeCourseCode(code)
	return lo.ContainsBy(courses, func(c entity.Course) bool {
		return entity.NormalizeCourseCode(c.Code) == normalized && c.ID != excludeID
	})
}

// QualityPoints is units × grade point, the additive unit of every GPA figure.
func QualityPoints(course entity.Course) float64 {
	return float64(course.Units) * course.GradePoint
}

// CourseDraft is raw course input from a form, CLI or import.
// Exactly one of Score or Letter is used: Letter wins when Score is nil.
type CourseDraft struct {
	Code   string   `json:"code" yaml:"code"`
	Title  string   `json:"title,omitempty" yaml:"title,omitempty"`
	Units  int      `json:"units" yaml:"units"`
	Score  *float64 `json:"score,omitempty" yaml:"score,omitempty"`
	Letter string   `json:"letter,omitempty" yaml:"letter,omitempty"`
}

// LetterMode reports whether the draft was entered as a letter grade.
func (d CourseDraft) LetterMode() bool {
	return d.Score == nil
}

// resolveScore returns the score to store for the draft under scale.
func (d CourseDraft) resolveScore(scale []entity.GradePoint) (float64, Validation) {
	if !d.LetterMode() {
		return *d.Score, validCourse
	}
	score, ok := ScoreForLetter(d.Letter, scale)
	if !ok {
		return 0, invalid("letter", "Invalid grade letter")
	}
	return score, validCourse
}

// NewCourse builds a course from a draft, deriving the grade fields from the score under scale.
func NewCourse(id, semesterID string, draft CourseDraft, scale []entity.GradePoint, now time.Time) (entity.Course, error) {
	course := entity.Course{ID: id, SemesterID: semesterID, CreatedAt: now}
	return applyDraft(course, draft, scale, now)
}

// ReviseCourse applies an edit to an existing course and re-derives its grade.
// ID, SemesterID and CreatedAt are preserved.
func ReviseCourse(existing entity.Course, draft CourseDraft, scale []entity.GradePoint, now time.Time) (entity.Course, error) {
	return applyDraft(existing, draft, scale, now)
}

// Regrade re-derives the grade fields of course from its stored score under scale.
func Regrade(course entity.Course, scale []entity.GradePoint) entity.Course {
	grade := ResolveGrade(course.Score, scale)
	course.GradeLetter = grade.Letter
	course.GradePoint = grade.Point
	return course
}

// ConsistentGrade reports whether the stored grade fields match the score under scale.
func ConsistentGrade(course entity.Course, scale []entity.GradePoint) bool {
	return ResolveGrade(course.Score, scale) == course.Grade()
}

func applyDraft(course entity.Course, draft CourseDraft, scale []entity.GradePoint, now time.Time) (entity.Course, error) {
	score, v := draft.resolveScore(scale)
	if !v.Valid {
		return entity.Course{}, v.Err()
	}
	if v = ValidateCourse(draft.Code, draft.Units, score); !v.Valid {
		return entity.Course{}, v.Err()
	}

	course.Code = entity.NormalizeCourseCode(draft.Code)
	course.Title = strings.TrimSpace(draft.Title)
	course.Units = draft.Units
	course.Score = score
	course.UpdatedAt = now
	return Regrade(course, scale), nil
}
