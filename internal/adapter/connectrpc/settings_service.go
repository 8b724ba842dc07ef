package connectrpc

import (
	"context"
	"net/http"

	"connectrpc.com/connect"

	"github.com/eslsoft/gradenet/internal/entity"
	"github.com/eslsoft/gradenet/internal/usecase"
)

type SettingsServiceServer struct {
	uc usecase.SettingsUsecase
}

func NewSettingsServiceServer(uc usecase.SettingsUsecase) *SettingsServiceServer {
	return &SettingsServiceServer{uc: uc}
}

// NewSettingsServiceHandler exposes the settings procedures.
func NewSettingsServiceHandler(s *SettingsServiceServer, opts ...connect.HandlerOption) (string, http.Handler) {
	m := newServiceMux(SettingsServiceName, opts)
	unary(m, "GetSettings", s.GetSettings, readOnly())
	unary(m, "UpdateSettings", s.UpdateSettings)
	unary(m, "Recalculate", s.Recalculate)
	return m.handler()
}

func (s *SettingsServiceServer) GetSettings(ctx context.Context, _ *Empty) (*entity.Settings, error) {
	return s.uc.GetSettings(ctx)
}

func (s *SettingsServiceServer) UpdateSettings(ctx context.Context, req *entity.SettingsPatch) (*entity.Settings, error) {
	return s.uc.UpdateSettings(ctx, *req)
}

// Recalculate regrades every stored course under the active scale.
func (s *SettingsServiceServer) Recalculate(ctx context.Context, _ *Empty) (*RecalculateResponse, error) {
	n, err := s.uc.Recalculate(ctx)
	if err != nil {
		return nil, err
	}
	return &RecalculateResponse{Regraded: n}, nil
}
