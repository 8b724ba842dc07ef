package connectrpc

import (
	"context"
	"net/http"

	"connectrpc.com/connect"

	"github.com/eslsoft/gradenet/internal/adapter/mapping"
	"github.com/eslsoft/gradenet/internal/repository"
)

const _maxPageSize = 200

// Service names, each served under "/<name>/".
const (
	SemesterServiceName = "gradenet.v1.SemesterService"
	CourseServiceName   = "gradenet.v1.CourseService"
	SettingsServiceName = "gradenet.v1.SettingsService"
	ReportServiceName   = "gradenet.v1.ReportService"
	PlannerServiceName  = "gradenet.v1.PlannerService"
	BackupServiceName   = "gradenet.v1.BackupService"
)

// Procedure returns the full procedure path of method on service.
func Procedure(service, method string) string {
	return "/" + service + "/" + method
}

// serviceMux collects the unary procedures of one service.
type serviceMux struct {
	name string
	mux  *http.ServeMux
	opts []connect.HandlerOption
}

func newServiceMux(name string, opts []connect.HandlerOption) *serviceMux {
	return &serviceMux{
		name: name,
		mux:  http.NewServeMux(),
		opts: append([]connect.HandlerOption{connect.WithCodec(jsonCodec{})}, opts...),
	}
}

// handler returns the service path prefix and its handler, the shape generated connect code uses.
func (m *serviceMux) handler() (string, http.Handler) {
	return "/" + m.name + "/", m.mux
}

func unary[Req, Res any](m *serviceMux, method string, fn func(context.Context, *Req) (*Res, error), opts ...connect.HandlerOption) {
	procedure := Procedure(m.name, method)
	options := append(append([]connect.HandlerOption{}, m.opts...), opts...)
	m.mux.Handle(procedure, connect.NewUnaryHandler(procedure,
		func(ctx context.Context, req *connect.Request[Req]) (*connect.Response[Res], error) {
			res, err := fn(ctx, req.Msg)
			if err != nil {
				return nil, mapping.ToConnectError(err)
			}
			return connect.NewResponse(res), nil
		},
		options...,
	))
}

// readOnly marks procedures that may also be called with GET.
func readOnly() connect.HandlerOption {
	return connect.WithIdempotency(connect.IdempotencyNoSideEffects)
}

func convertPagination(p *PaginationRequest) repository.Pagination {
	var pageNo, pageSize int32
	if p != nil {
		pageNo, pageSize = p.PageNo, p.PageSize
	}
	if pageNo <= 0 {
		pageNo = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	if pageSize > _maxPageSize {
		pageSize = _maxPageSize
	}

	return repository.Pagination{PageNo: pageNo, PageSize: pageSize}
}
