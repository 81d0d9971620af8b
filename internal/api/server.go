package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"availability-bot/internal/service"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

// Config wires the services behind the HTTP API.
type Config struct {
	Addr         string
	APIKey       string
	Employees    *service.EmployeeService
	Vacations    *service.VacationService
	Availability *service.AvailabilityService
	// Ready reports whether the dependencies answer; nil means always ready.
	Ready  func(ctx context.Context) error
	Logger *logrus.Logger
}

type Server struct {
	employees    *service.EmployeeService
	vacations    *service.VacationService
	availability *service.AvailabilityService
	ready        func(ctx context.Context) error
	apiKey       string
	now          func() time.Time
	logger       *logrus.Logger
	server       *http.Server
}

func NewServer(cfg Config) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = logrus.New()
	}

	s := &Server{
		employees:    cfg.Employees,
		vacations:    cfg.Vacations,
		availability: cfg.Availability,
		ready:        cfg.Ready,
		apiKey:       cfg.APIKey,
		now:          time.Now,
		logger:       logger,
	}
	s.server = &http.Server{
		Addr:              cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Handler returns the routed API with logging and metrics.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.HandleFunc("GET /readyz", s.handleReady)
	mux.Handle("GET /metrics", promhttp.Handler())

	mux.Handle("GET /api/manager/employees/status", s.protect(s.handleStatus))
	mux.Handle("GET /api/manager/calendar", s.protect(s.handleCalendar))
	mux.Handle("GET /api/manager/calendar.xlsx", s.protect(s.handleCalendarExport))
	mux.Handle("GET /api/manager/requests", s.protect(s.handlePendingRequests))
	mux.Handle("POST /api/manager/requests/{id}/decision", s.protect(s.handleDecision))
	mux.Handle("POST /api/manager/requests/{id}/status", s.protect(s.handleCorrection))
	mux.Handle("GET /api/holidays", s.protect(s.handleHolidays))
	mux.Handle("POST /api/vacation-requests", s.protect(s.handleCreateVacationRequest))
	mux.Handle("GET /api/vacation-requests", s.protect(s.handleEmployeeRequests))

	return requestLogger(s.logger, mux)
}

func (s *Server) protect(h http.HandlerFunc) http.Handler {
	return requireAPIKey(s.apiKey, h)
}

// Run serves until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.server.Shutdown(ctxShutdown); err != nil {
			s.logger.WithError(err).Warn("HTTP shutdown")
		}
	}()

	s.logger.WithField("addr", s.server.Addr).Info("HTTP API listening")
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.ready != nil {
		ctx, cancel := context.WithTimeout(r.Context(), time.Second)
		defer cancel()
		if err := s.ready(ctx); err != nil {
			http.Error(w, "not ready", http.StatusServiceUnavailable)
			return
		}
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
