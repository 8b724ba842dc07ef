package connectrpc

import (
	"bytes"
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/eslsoft/gradenet/internal/usecase/backup"
)

type BackupServiceServer struct {
	svc *backup.Service
}

func NewBackupServiceServer(svc *backup.Service) *BackupServiceServer {
	return &BackupServiceServer{svc: svc}
}

// NewBackupServiceHandler exposes snapshot export and import.
func NewBackupServiceHandler(s *BackupServiceServer, opts ...connect.HandlerOption) (string, http.Handler) {
	m := newServiceMux(BackupServiceName, opts)
	unary(m, "Export", s.Export, readOnly())
	unary(m, "Import", s.Import)
	return m.handler()
}

func (s *BackupServiceServer) Export(ctx context.Context, req *ExportRequest) (*ExportResponse, error) {
	var buf bytes.Buffer
	if err := s.svc.Export(ctx, &buf, backup.WithSemesters(req.SemesterIDs)); err != nil {
		return nil, err
	}
	return &ExportResponse{Snapshot: buf.String()}, nil
}

func (s *BackupServiceServer) Import(ctx context.Context, req *ImportRequest) (*ImportResponse, error) {
	snap, err := s.svc.Import(ctx, strings.NewReader(req.Snapshot), backup.WithReplace(req.Replace))
	if err != nil {
		return nil, err
	}
	return &ImportResponse{
		Semesters: len(snap.Semesters),
		Courses:   snap.CourseCount(),
		Settings:  snap.Settings != nil,
	}, nil
}
