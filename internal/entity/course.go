package entity

import "time"

// Course is one scored attempt at a course within a semester.
//
// GradeLetter and GradePoint are derived from Score under the scale active when the course
// was created or last revised; build and revise courses through the gpa package instead of
// setting them directly.
type Course struct {
	ID          string    `json:"id"`
	SemesterID  string    `json:"semester_id"`
	Code        string    `json:"code"`
	Title       string    `json:"title,omitempty"`
	Units       int       `json:"units"`
	Score       float64   `json:"score"`
	GradeLetter string    `json:"grade_letter"`
	GradePoint  float64   `json:"grade_point"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Grade returns the stored grade fields.
func (c Course) Grade() Grade {
	return Grade{Letter: c.GradeLetter, Point: c.GradePoint}
}
