package backup

import (
	"fmt"

	"github.com/eslsoft/gradenet/internal/entity"
	"github.com/eslsoft/gradenet/internal/gpa"
)

// validate checks a decoded snapshot against the same rules the usecases enforce on input.
func (s *Service) validate(snap *entity.Snapshot) error {
	if snap.Settings != nil {
		if err := s.validateSettings(snap.Settings); err != nil {
			return err
		}
	}

	semesterIDs := make(map[string]struct{}, len(snap.Semesters))
	for _, semester := range snap.Semesters {
		if semester.ID == "" {
			return invalidf("semester without id")
		}
		if _, dup := semesterIDs[semester.ID]; dup {
			return invalidf("semester %s appears twice", semester.ID)
		}
		semesterIDs[semester.ID] = struct{}{}
		if err := s.validator.Struct(entity.ErrInvalidSnapshot, semester); err != nil {
			return fmt.Errorf("semester %s: %w", semester.ID, err)
		}
	}

	courseIDs := make(map[string]struct{}, snap.CourseCount())
	for semesterID, courses := range snap.CoursesBySemester {
		if _, ok := semesterIDs[semesterID]; !ok {
			return invalidf("courses reference unknown semester %s", semesterID)
		}
		for i, course := range courses {
			if err := validateCourse(course, courses[:i], courseIDs); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *Service) validateSettings(settings *entity.Settings) error {
	if err := s.validator.Struct(entity.ErrInvalidSnapshot, settings); err != nil {
		return fmt.Errorf("settings: %w", err)
	}
	canonical, err := gpa.CanonicalScale(settings.ScaleType)
	if err != nil {
		return invalidf("settings: unknown scale %q", settings.ScaleType)
	}
	if !gpa.SameScale(settings.GradeMapping, canonical) {
		return invalidf("settings: grade mapping does not match the %s scale", settings.ScaleType)
	}
	if max := gpa.ScaleMax(canonical); settings.TargetCGPA > max {
		return invalidf("settings: target CGPA %.2f exceeds scale maximum %.1f", settings.TargetCGPA, max)
	}
	return nil
}

// validateCourse checks one course against the courses before it in the same semester.
// Stored grades may predate a scale switch, so they must agree with either built-in scale.
func validateCourse(course entity.Course, earlier []entity.Course, seen map[string]struct{}) error {
	if course.ID == "" {
		return invalidf("course %s without id", course.Code)
	}
	if _, dup := seen[course.ID]; dup {
		return invalidf("course %s appears twice", course.ID)
	}
	seen[course.ID] = struct{}{}

	if v := gpa.ValidateCourse(course.Code, course.Units, course.Score); !v.Valid {
		return invalidf("course %s: %s", course.ID, v.Error)
	}
	if course.Code != entity.NormalizeCourseCode(course.Code) {
		return invalidf("course %s: code %q is not normalized", course.ID, course.Code)
	}
	if gpa.HasDuplicateCourseCode(earlier, course.Code, course.ID) {
		return invalidf("course %s: code %s repeats within semester %s", course.ID, course.Code, course.SemesterID)
	}
	if !gpa.ConsistentGrade(course, gpa.FivePointScale()) && !gpa.ConsistentGrade(course, gpa.FourPointScale()) {
		return invalidf("course %s: grade %s/%.1f does not match score %.2f", course.ID, course.GradeLetter, course.GradePoint, course.Score)
	}
	return nil
}

func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", entity.ErrInvalidSnapshot, fmt.Sprintf(format, args...))
}
