package mapping

import (
	"errors"

	"connectrpc.com/connect"

	"github.com/eslsoft/gradenet/internal/entity"
)

// FieldHeader names the response header carrying the rejected input field, when known.
const FieldHeader = "Gradenet-Field"

// ToConnectError translates domain errors into connect errors with a matching code.
func ToConnectError(err error) error {
	if err == nil {
		return nil
	}
	var connectErr *connect.Error
	if errors.As(err, &connectErr) {
		return err
	}

	cerr := connect.NewError(CodeOf(err), err)
	var verr *entity.ValidationError
	if errors.As(err, &verr) && verr.Field != "" {
		cerr.Meta().Set(FieldHeader, verr.Field)
	}
	return cerr
}

// CodeOf returns the connect code for a domain error.
func CodeOf(err error) connect.Code {
	switch {
	case errors.Is(err, entity.ErrDuplicateCourseCode):
		return connect.CodeAlreadyExists
	case errors.Is(err, entity.ErrSemesterNotFound), errors.Is(err, entity.ErrCourseNotFound):
		return connect.CodeNotFound
	case errors.Is(err, entity.ErrInvalidSemesterID), errors.Is(err, entity.ErrInvalidSemester),
		errors.Is(err, entity.ErrInvalidCourseID), errors.Is(err, entity.ErrInvalidCourse),
		errors.Is(err, entity.ErrInvalidSettings), errors.Is(err, entity.ErrInvalidPlanInput),
		errors.Is(err, entity.ErrInvalidSnapshot):
		return connect.CodeInvalidArgument
	default:
		return connect.CodeInternal
	}
}
