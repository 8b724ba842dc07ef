package entity

import "errors"

// Domain errors for semesters, courses and settings.
var (
	ErrSemesterNotFound    = errors.New("semester not found")
	ErrInvalidSemesterID   = errors.New("invalid semester ID")
	ErrInvalidSemester     = errors.New("invalid semester")
	ErrCourseNotFound      = errors.New("course not found")
	ErrInvalidCourseID     = errors.New("invalid course ID")
	ErrInvalidCourse       = errors.New("invalid course")
	ErrDuplicateCourseCode = errors.New("duplicate course code in semester")
	ErrInvalidSettings     = errors.New("invalid settings")
	ErrInvalidPlanInput    = errors.New("invalid plan input")
	ErrInvalidSnapshot     = errors.New("invalid snapshot")
)

// ValidationError carries a human-readable message for a rejected input.
// It unwraps to one of the sentinel errors above so callers can branch with errors.Is.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// NewValidationError builds a ValidationError for the given field.
func NewValidationError(kind error, field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message, Err: kind}
}
