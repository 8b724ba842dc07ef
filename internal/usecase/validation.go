package usecase

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/eslsoft/gradenet/internal/entity"
)

var sessionPattern = regexp.MustCompile(`^(\d{4})/(\d{4})$`)

// Validator wraps go-playground/validator with the academic record tags registered.
type Validator struct {
	validate *validator.Validate
}

// NewValidator registers the "session" (YYYY/YYYY+1) and "level" (multiple of 100) tags.
func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("session", func(fl validator.FieldLevel) bool {
		return ValidSession(fl.Field().String())
	})
	_ = v.RegisterValidation("level", func(fl validator.FieldLevel) bool {
		return fl.Field().Int()%100 == 0
	})
	return &Validator{validate: v}
}

// ValidSession reports whether session reads "YYYY/YYYY" with consecutive years.
func ValidSession(session string) bool {
	m := sessionPattern.FindStringSubmatch(strings.TrimSpace(session))
	if m == nil {
		return false
	}
	start, _ := strconv.Atoi(m[1])
	end, _ := strconv.Atoi(m[2])
	return end == start+1
}

// Struct validates s and converts the first failure into an *entity.ValidationError of kind.
func (v *Validator) Struct(kind error, s any) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return fmt.Errorf("%w: %v", kind, err)
	}
	fe := fieldErrs[0]
	return entity.NewValidationError(kind, fe.Field(), fieldMessage(fe))
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "session":
		return "Session must look like 2024/2025"
	case "level":
		return "Level must be a multiple of 100"
	case "min":
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", fe.Field(), fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", fe.Field(), fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", fe.Field(), fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}
