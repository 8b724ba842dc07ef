package entity

import (
	"fmt"
	"strings"
	"time"
)

// Semester groups the courses taken in one academic term.
type Semester struct {
	ID        string    `json:"id"`
	Session   string    `json:"session" validate:"required,session"`
	Term      int       `json:"term" validate:"min=1,max=3"`
	Level     int       `json:"level" validate:"gt=0,level"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Label renders the short "100L 1" label used on trend charts.
func (s Semester) Label() string {
	return fmt.Sprintf("%dL %d", s.Level, s.Term)
}

// Normalize ensures defaults & constraints before persistence.
func (s *Semester) Normalize(now time.Time) {
	s.Session = strings.TrimSpace(s.Session)
	if s.CreatedAt.IsZero() {
		s.CreatedAt = now
	}
	s.UpdatedAt = now
}

// DefaultSession returns the "YYYY/YYYY" session starting in the year of now.
func DefaultSession(now time.Time) string {
	return fmt.Sprintf("%d/%d", now.Year(), now.Year()+1)
}

// SemesterPatch carries optional semester updates.
type SemesterPatch struct {
	Session *string `json:"session,omitempty"`
	Term    *int    `json:"term,omitempty"`
	Level   *int    `json:"level,omitempty"`
}

// Apply copies the set fields of the patch onto s.
func (p SemesterPatch) Apply(s *Semester) {
	if p.Session != nil {
		s.Session = *p.Session
	}
	if p.Term != nil {
		s.Term = *p.Term
	}
	if p.Level != nil {
		s.Level = *p.Level
	}
}
