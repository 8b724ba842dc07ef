package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"connectrpc.com/connect"
	connectcors "connectrpc.com/cors"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/eslsoft/gradenet/internal/adapter/connectrpc"
	"github.com/eslsoft/gradenet/internal/adapter/mapping"
	"github.com/eslsoft/gradenet/internal/infrastructure/config"
	"github.com/eslsoft/gradenet/internal/infrastructure/database"
)

// Handlers groups the connect services mounted by the server.
type Handlers struct {
	Semesters *connectrpc.SemesterServiceServer
	Courses   *connectrpc.CourseServiceServer
	Settings  *connectrpc.SettingsServiceServer
	Reports   *connectrpc.ReportServiceServer
	Backup    *connectrpc.BackupServiceServer
}

// Server represents the application server
type Server struct {
	config     *config.Config
	httpServer *http.Server
	logger     *logrus.Logger
}

// NewServer creates a new server instance
func NewServer(cfg *config.Config, logger *logrus.Logger, db *database.DB, handlers Handlers) *Server {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/ready", func(w http.ResponseWriter, r *http.Request) {
		if db != nil {
			if err := db.PingContext(r.Context()); err != nil {
				logger.WithError(err).Warn("readiness check failed")
				http.Error(w, "database unavailable", http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	opts := []connect.HandlerOption{connect.WithInterceptors(Logger(logger))}
	mount := func(path string, handler http.Handler) {
		r.Handle(path+"*", handler)
	}
	mount(connectrpc.NewSemesterServiceHandler(handlers.Semesters, opts...))
	mount(connectrpc.NewCourseServiceHandler(handlers.Courses, opts...))
	mount(connectrpc.NewSettingsServiceHandler(handlers.Settings, opts...))
	mount(connectrpc.NewReportServiceHandler(handlers.Reports, opts...))
	mount(connectrpc.NewPlannerServiceHandler(handlers.Reports, opts...))
	mount(connectrpc.NewBackupServiceHandler(handlers.Backup, opts...))

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr(),
		Handler:           h2c.NewHandler(withCORS(cfg, r), &http2.Server{}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	return &Server{
		config:     cfg,
		httpServer: httpServer,
		logger:     logger,
	}
}

func withCORS(cfg *config.Config, h http.Handler) http.Handler {
	return cors.New(cors.Options{
		AllowedOrigins: cfg.Server.AllowedOrigins,
		AllowedMethods: connectcors.AllowedMethods(),
		AllowedHeaders: append(connectcors.AllowedHeaders(), "X-Request-Id"),
		ExposedHeaders: append(connectcors.ExposedHeaders(), mapping.FieldHeader),
		MaxAge:         7200,
	}).Handler(h)
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start serves HTTP until the server is shut down.
func (s *Server) Start() error {
	s.logger.Infof("HTTP server starting on %s", s.httpServer.Addr)

	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to serve HTTP: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down server...")

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown HTTP server: %w", err)
	}

	s.logger.Info("Server shutdown complete")
	return nil
}
