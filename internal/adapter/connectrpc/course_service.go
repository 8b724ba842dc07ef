package connectrpc

import (
	"context"
	"net/http"

	"connectrpc.com/connect"

	"github.com/eslsoft/gradenet/internal/entity"
	"github.com/eslsoft/gradenet/internal/gpa"
	"github.com/eslsoft/gradenet/internal/repository"
	"github.com/eslsoft/gradenet/internal/usecase"
)

type CourseServiceServer struct {
	uc usecase.CourseUsecase
}

func NewCourseServiceServer(uc usecase.CourseUsecase) *CourseServiceServer {
	return &CourseServiceServer{uc: uc}
}

// NewCourseServiceHandler exposes the course procedures.
func NewCourseServiceHandler(s *CourseServiceServer, opts ...connect.HandlerOption) (string, http.Handler) {
	m := newServiceMux(CourseServiceName, opts)
	unary(m, "AddCourse", s.AddCourse)
	unary(m, "UpdateCourse", s.UpdateCourse)
	unary(m, "DeleteCourse", s.DeleteCourse)
	unary(m, "ListCourses", s.ListCourses, readOnly())
	unary(m, "SearchCourses", s.SearchCourses, readOnly())
	unary(m, "ValidateCourse", s.ValidateCourse, readOnly())
	return m.handler()
}

func (s *CourseServiceServer) AddCourse(ctx context.Context, req *AddCourseRequest) (*entity.Course, error) {
	return s.uc.AddCourse(ctx, req.SemesterID, req.CourseDraft)
}

func (s *CourseServiceServer) UpdateCourse(ctx context.Context, req *UpdateCourseRequest) (*entity.Course, error) {
	return s.uc.UpdateCourse(ctx, req.ID, req.CourseDraft)
}

func (s *CourseServiceServer) DeleteCourse(ctx context.Context, req *IDRequest) (*Empty, error) {
	if err := s.uc.DeleteCourse(ctx, req.ID); err != nil {
		return nil, err
	}
	return &Empty{}, nil
}

func (s *CourseServiceServer) ListCourses(ctx context.Context, req *ListCoursesRequest) (*ListCoursesResponse, error) {
	courses, err := s.uc.ListCourses(ctx, req.SemesterID)
	if err != nil {
		return nil, err
	}
	return &ListCoursesResponse{Courses: nonNil(courses)}, nil
}

func (s *CourseServiceServer) SearchCourses(ctx context.Context, req *SearchCoursesRequest) (*ListCoursesResponse, error) {
	query := &repository.ListCourseQuery{
		Pagination: convertPagination(req.Pagination),
		FilterOrder: repository.FilterOrder{
			Filter:  req.Filter,
			OrderBy: req.OrderBy,
		},
		SemesterID: req.SemesterID,
	}
	courses, total, err := s.uc.SearchCourses(ctx, query)
	if err != nil {
		return nil, err
	}
	return &ListCoursesResponse{
		Courses: nonNil(courses),
		Pagination: &PaginationResponse{
			PageNo:   query.PageNo,
			PageSize: query.PageSize,
			Total:    total,
		},
	}, nil
}

// ValidateCourse runs the form validation without storing anything.
func (s *CourseServiceServer) ValidateCourse(_ context.Context, req *ValidateCourseRequest) (*gpa.Validation, error) {
	v := gpa.ValidateCourse(req.Code, req.Units, req.Score)
	return &v, nil
}

func nonNil(courses []entity.Course) []entity.Course {
	if courses == nil {
		return []entity.Course{}
	}
	return courses
}
