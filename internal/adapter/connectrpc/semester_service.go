package connectrpc

import (
	"context"
	"net/http"

	"connectrpc.com/connect"

	"github.com/eslsoft/gradenet/internal/entity"
	"github.com/eslsoft/gradenet/internal/usecase"
)

type SemesterServiceServer struct {
	uc usecase.SemesterUsecase
}

func NewSemesterServiceServer(uc usecase.SemesterUsecase) *SemesterServiceServer {
	return &SemesterServiceServer{uc: uc}
}

// NewSemesterServiceHandler exposes the semester procedures.
func NewSemesterServiceHandler(s *SemesterServiceServer, opts ...connect.HandlerOption) (string, http.Handler) {
	m := newServiceMux(SemesterServiceName, opts)
	unary(m, "CreateSemester", s.CreateSemester)
	unary(m, "UpdateSemester", s.UpdateSemester)
	unary(m, "GetSemester", s.GetSemester, readOnly())
	unary(m, "ListSemesters", s.ListSemesters, readOnly())
	unary(m, "DeleteSemester", s.DeleteSemester)
	return m.handler()
}

func (s *SemesterServiceServer) CreateSemester(ctx context.Context, req *CreateSemesterRequest) (*entity.Semester, error) {
	return s.uc.CreateSemester(ctx, &entity.Semester{
		Session: req.Session,
		Term:    req.Term,
		Level:   req.Level,
	})
}

func (s *SemesterServiceServer) UpdateSemester(ctx context.Context, req *UpdateSemesterRequest) (*entity.Semester, error) {
	return s.uc.UpdateSemester(ctx, req.ID, req.SemesterPatch)
}

func (s *SemesterServiceServer) GetSemester(ctx context.Context, req *IDRequest) (*entity.Semester, error) {
	return s.uc.GetSemester(ctx, req.ID)
}

func (s *SemesterServiceServer) ListSemesters(ctx context.Context, _ *Empty) (*ListSemestersResponse, error) {
	semesters, err := s.uc.ListSemesters(ctx)
	if err != nil {
		return nil, err
	}
	if semesters == nil {
		semesters = []entity.Semester{}
	}
	return &ListSemestersResponse{Semesters: semesters}, nil
}

func (s *SemesterServiceServer) DeleteSemester(ctx context.Context, req *IDRequest) (*Empty, error) {
	if err := s.uc.DeleteSemester(ctx, req.ID); err != nil {
		return nil, err
	}
	return &Empty{}, nil
}
