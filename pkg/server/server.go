package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/secwatch/sectest-insights/pkg/analyzer"
	"github.com/secwatch/sectest-insights/pkg/config"
	"github.com/secwatch/sectest-insights/pkg/reporter"
)

const (
	defaultDays     = 30
	maxDays         = 365
	shutdownTimeout = 10 * time.Second
)

// ReportService is the slice of the report assembler the API consumes.
type ReportService interface {
	TrendAnalysis(ctx context.Context, suite string, days int) (*analyzer.TrendAnalysisResult, error)
	SecurityAnalysis(ctx context.Context, days int) (*analyzer.SecurityTrendAnalysis, error)
	PerformanceAnalysis(ctx context.Context, suite string, days int) (*analyzer.PerformanceTrendAnalysis, error)
	Build(ctx context.Context, suite string, days int) (*reporter.Report, error)
}

// Pinger reports storage liveness.
type Pinger interface {
	Ping(ctx context.Context) error
}

// SourceChecker reports metrics datasource liveness.
type SourceChecker interface {
	IsAvailable(ctx context.Context) bool
	Name() string
}

// Server exposes the analyses over HTTP.
type Server struct {
	service ReportService
	db      Pinger
	source  SourceChecker
	logger  *zap.Logger
	httpSrv *http.Server
}

// New builds the server and its router. db and source may be nil when the
// corresponding backend is not configured.
func New(cfg config.ServerConfig, service ReportService, db Pinger, source SourceChecker, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		service: service,
		db:      db,
		source:  source,
		logger:  logger,
	}
	s.httpSrv = &http.Server{
		Addr:         cfg.Address,
		Handler:      s.Router(),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}
	return s
}

// Router returns the configured HTTP handler.
func (s *Server) Router() http.Handler {
	r := mux.NewRouter()
	r.Use(s.requestLogger)

	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)

	api := r.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/trends/{suite}", s.handleTrends).Methods(http.MethodGet)
	api.HandleFunc("/security", s.handleSecurity).Methods(http.MethodGet)
	api.HandleFunc("/performance/{suite}", s.handlePerformance).Methods(http.MethodGet)
	api.HandleFunc("/dashboard", s.handleDashboard).Methods(http.MethodGet)
	api.HandleFunc("/dashboard/html", s.handleDashboardHTML).Methods(http.MethodGet)

	return r
}

// Run serves until the context is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("dashboard API listening", zap.String("address", s.httpSrv.Addr))
		if err := s.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.httpSrv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	s.logger.Info("dashboard API stopped")
	return nil
}

type healthResponse struct {
	Status     string `json:"status"`
	Database   string `json:"database"`
	Datasource string `json:"datasource,omitempty"`
}

// handleHealth reports liveness. A down database is a 503; a down metrics
// source only degrades the response because analyses fall back to storage.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{Status: "ok", Database: "ok"}
	status := http.StatusOK

	if s.db == nil {
		resp.Database = "not configured"
	} else if err := s.db.Ping(r.Context()); err != nil {
		resp.Status = "degraded"
		resp.Database = "unreachable"
		status = http.StatusServiceUnavailable
	}

	if s.source != nil {
		if s.source.IsAvailable(r.Context()) {
			resp.Datasource = "ok"
		} else {
			resp.Datasource = "unavailable"
		}
	}

	s.writeJSON(w, status, resp)
}

func (s *Server) handleTrends(w http.ResponseWriter, r *http.Request) {
	days, err := queryDays(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	suite := mux.Vars(r)["suite"]
	result, err := s.service.TrendAnalysis(r.Context(), suite, days)
	if err != nil {
		s.logger.Error("trend analysis failed", zap.String("suite", suite), zap.Error(err))
		s.writeError(w, http.StatusInternalServerError, "trend analysis failed")
		return
	}
	s.writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleSecurity(w http.ResponseWriter, r *http.Request) {
	days, err := queryDays(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := s.service.SecurityAnalysis(r.Context(), days)
	if err != nil {
		s.logger.Error("security analysis failed", zap.Error(err))
		s.writeError(w, http.StatusInternalServerError, "security analysis failed")
		return
	}
	s.writeJSON(w, http.StatusOK, result)
}

func (s *Server) handlePerformance(w http.ResponseWriter, r *http.Request) {
	days, err := queryDays(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	suite := mux.Vars(r)["suite"]
	result, err := s.service.PerformanceAnalysis(r.Context(), suite, days)
	if err != nil {
		s.logger.Error("performance analysis failed", zap.String("suite", suite), zap.Error(err))
		s.writeError(w, http.StatusInternalServerError, "performance analysis failed")
		return
	}
	s.writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	report, ok := s.buildReport(w, r)
	if !ok {
		return
	}
	s.writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleDashboardHTML(w http.ResponseWriter, r *http.Request) {
	report, ok := s.buildReport(w, r)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := reporter.RenderHTML(&buf, report); err != nil {
		s.logger.Error("dashboard render failed", zap.Error(err))
		s.writeError(w, http.StatusInternalServerError, "dashboard render failed")
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

// buildReport assembles the report for dashboard handlers, writing the
// error response itself when assembly fails.
func (s *Server) buildReport(w http.ResponseWriter, r *http.Request) (*reporter.Report, bool) {
	days, err := queryDays(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return nil, false
	}

	suite := r.URL.Query().Get("suite")
	report, err := s.service.Build(r.Context(), suite, days)
	if err != nil {
		s.logger.Error("report assembly failed", zap.String("suite", suite), zap.Error(err))
		s.writeError(w, http.StatusInternalServerError, "report assembly failed")
		return nil, false
	}
	return report, true
}

// queryDays parses the days window, defaulting to 30 and capping at 365.
func queryDays(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("days")
	if raw == "" {
		return defaultDays, nil
	}

	days, err := strconv.Atoi(raw)
	if err != nil || days < 1 {
		return 0, fmt.Errorf("invalid days parameter %q", raw)
	}
	if days > maxDays {
		days = maxDays
	}
	return days, nil
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Warn("failed to write response", zap.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, map[string]string{"error": msg})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("duration", time.Since(start)))
	})
}
