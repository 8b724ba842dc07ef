package entity

// Snapshot is a full copy of a user's records, as exported and imported.
type Snapshot struct {
	Settings          *Settings           `json:"settings,omitempty"`
	Semesters         []Semester          `json:"semesters"`
	CoursesBySemester map[string][]Course `json:"courses_by_semester"`
}

// CourseCount returns the number of courses across every semester.
func (s *Snapshot) CourseCount() int {
	n := 0
	for _, courses := range s.CoursesBySemester {
		n += len(courses)
	}
	return n
}
