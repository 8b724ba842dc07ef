package connectrpc

import (
	"context"
	"net/http"

	"connectrpc.com/connect"

	"github.com/eslsoft/gradenet/internal/gpa"
	"github.com/eslsoft/gradenet/internal/usecase"
)

type ReportServiceServer struct {
	reports usecase.ReportUsecase
	planner usecase.PlannerUsecase
}

func NewReportServiceServer(reports usecase.ReportUsecase, planner usecase.PlannerUsecase) *ReportServiceServer {
	return &ReportServiceServer{reports: reports, planner: planner}
}

// NewReportServiceHandler exposes the dashboard and semester report procedures.
func NewReportServiceHandler(s *ReportServiceServer, opts ...connect.HandlerOption) (string, http.Handler) {
	m := newServiceMux(ReportServiceName, opts)
	unary(m, "GetDashboard", s.GetDashboard, readOnly())
	unary(m, "GetSemesterReport", s.GetSemesterReport, readOnly())
	return m.handler()
}

// NewPlannerServiceHandler exposes the planner.
func NewPlannerServiceHandler(s *ReportServiceServer, opts ...connect.HandlerOption) (string, http.Handler) {
	m := newServiceMux(PlannerServiceName, opts)
	unary(m, "Plan", s.Plan, readOnly())
	return m.handler()
}

func (s *ReportServiceServer) GetDashboard(ctx context.Context, _ *Empty) (*gpa.Summary, error) {
	return s.reports.Dashboard(ctx)
}

func (s *ReportServiceServer) GetSemesterReport(ctx context.Context, req *IDRequest) (*usecase.SemesterReport, error) {
	return s.reports.SemesterReport(ctx, req.ID)
}

func (s *ReportServiceServer) Plan(ctx context.Context, req *usecase.PlanRequest) (*usecase.Plan, error) {
	return s.planner.Plan(ctx, *req)
}
