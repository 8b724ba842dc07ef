package connectrpc

import (
	"github.com/eslsoft/gradenet/internal/entity"
	"github.com/eslsoft/gradenet/internal/gpa"
)

type Empty struct{}

type IDRequest struct {
	ID string `json:"id"`
}

type PaginationRequest struct {
	PageNo   int32 `json:"page_no"`
	PageSize int32 `json:"page_size"`
}

type PaginationResponse struct {
	PageNo   int32 `json:"page_no"`
	PageSize int32 `json:"page_size"`
	Total    int64 `json:"total"`
}

type CreateSemesterRequest struct {
	Session string `json:"session"`
	Term    int    `json:"term"`
	Level   int    `json:"level"`
}

type UpdateSemesterRequest struct {
	ID string `json:"id"`
	entity.SemesterPatch
}

type ListSemestersResponse struct {
	Semesters []entity.Semester `json:"semesters"`
}

type AddCourseRequest struct {
	SemesterID string `json:"semester_id"`
	gpa.CourseDraft
}

type UpdateCourseRequest struct {
	ID string `json:"id"`
	gpa.CourseDraft
}

type ListCoursesRequest struct {
	SemesterID string `json:"semester_id"`
}

type SearchCoursesRequest struct {
	SemesterID string             `json:"semester_id,omitempty"`
	Filter     string             `json:"filter,omitempty"`
	OrderBy    string             `json:"order_by,omitempty"`
	Pagination *PaginationRequest `json:"pagination,omitempty"`
}

type ListCoursesResponse struct {
	Courses    []entity.Course     `json:"courses"`
	Pagination *PaginationResponse `json:"pagination,omitempty"`
}

type ValidateCourseRequest struct {
	Code  string  `json:"code"`
	Units int     `json:"units"`
	Score float64 `json:"score"`
}

type RecalculateResponse struct {
	Regraded int `json:"regraded"`
}

type ExportRequest struct {
	SemesterIDs []string `json:"semester_ids,omitempty"`
}

// ExportResponse carries the newline-delimited JSON backup as a string.
type ExportResponse struct {
	Snapshot string `json:"snapshot"`
}

type ImportRequest struct {
	Snapshot string `json:"snapshot"`
	Replace  bool   `json:"replace,omitempty"`
}

type ImportResponse struct {
	Semesters int  `json:"semesters"`
	Courses   int  `json:"courses"`
	Settings  bool `json:"settings"`
}
