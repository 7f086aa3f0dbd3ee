package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/couchcryptid/google-geocoding/internal/domain"
	"github.com/couchcryptid/google-geocoding/internal/geocoding"
	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ReadinessChecker reports whether the service is ready to serve traffic.
type ReadinessChecker = sharedobs.ReadinessChecker

// ReadinessFunc adapts a function to ReadinessChecker.
type ReadinessFunc func(ctx context.Context) error

func (f ReadinessFunc) CheckReadiness(ctx context.Context) error { return f(ctx) }

// AllReady is ready when every check is.
func AllReady(checks ...ReadinessChecker) ReadinessChecker {
	return ReadinessFunc(func(ctx context.Context) error {
		for _, c := range checks {
			if err := c.CheckReadiness(ctx); err != nil {
				return err
			}
		}
		return nil
	})
}

// ClientFactory hands out a fresh geocoding client per request.
type ClientFactory interface {
	New() (*geocoding.Client[domain.AddressRecord], error)
}

// Server exposes the geocoding API alongside health, readiness, and metrics
// endpoints.
type Server struct {
	httpServer *http.Server
	clients    ClientFactory
	audit      domain.AuditReader
	validate   *validator.Validate
	logger     *slog.Logger
}

// NewServer creates an HTTP server with /healthz, /readyz, /metrics,
// /v1/geocode, /v1/reverse and /v1/audit routes.
func NewServer(addr string, clients ClientFactory, ready ReadinessChecker, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		clients:  clients,
		validate: validator.New(),
		logger:   logger,
	}

	mux.HandleFunc("GET /healthz", sharedobs.LivenessHandler())
	mux.HandleFunc("GET /readyz", sharedobs.ReadinessHandler(ready))
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("GET /v1/geocode", s.handleGeocode)
	mux.HandleFunc("GET /v1/reverse", s.handleReverse)
	mux.HandleFunc("GET /v1/audit", s.handleAudit)

	return s
}

// WithAuditReader serves /v1/audit lookups from r. Without one the route
// answers 404.
func (s *Server) WithAuditReader(r domain.AuditReader) *Server {
	s.audit = r
	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func (s *Server) handleGeocode(w http.ResponseWriter, r *http.Request) {
	req := parseGeocodeRequest(r.URL.Query())
	if err := s.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	client, ok := s.newClient(w)
	if !ok {
		return
	}
	client.Address(req.Address).AddParameter("region", req.Region)
	if req.Country != "" {
		client.Country(req.Country)
	}
	if req.Language != "" {
		client.Language(req.Language)
	}
	s.respond(w, r, client)
}

func (s *Server) handleReverse(w http.ResponseWriter, r *http.Request) {
	req, err := parseReverseRequest(r.URL.Query())
	if err == nil {
		err = s.validate.Struct(req)
	}
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	client, ok := s.newClient(w)
	if !ok {
		return
	}
	if req.Language != "" {
		client.Language(req.Language)
	}
	client.Coordinates(*req.Lat, *req.Lng, req.KeepComponents)
	s.respond(w, r, client)
}

func (s *Server) handleAudit(w http.ResponseWriter, r *http.Request) {
	url := r.URL.Query().Get("url")
	if url == "" {
		writeError(w, http.StatusBadRequest, errors.New("url is required"))
		return
	}
	if s.audit == nil {
		writeError(w, http.StatusNotFound, errors.New("audit log is not readable"))
		return
	}

	rec, err := s.audit.Latest(r.Context(), url)
	switch {
	case errors.Is(err, domain.ErrAuditRecordNotFound):
		writeError(w, http.StatusNotFound, err)
	case err != nil:
		s.logger.Error("audit lookup failed", "error", err)
		writeError(w, http.StatusInternalServerError, errors.New("audit lookup failed"))
	default:
		sharedobs.WriteJSON(w, http.StatusOK, rec)
	}
}

func (s *Server) newClient(w http.ResponseWriter) (*geocoding.Client[domain.AddressRecord], bool) {
	client, err := s.clients.New()
	if err != nil {
		s.logger.Error("geocoding client unavailable", "error", err)
		writeError(w, http.StatusInternalServerError, errors.New("geocoding is not configured"))
		return nil, false
	}
	return client, true
}

func (s *Server) respond(w http.ResponseWriter, r *http.Request, client *geocoding.Client[domain.AddressRecord]) {
	set, err := client.Get(r.Context())
	if err != nil {
		s.logger.Warn("geocoding transport failure", "error", err)
		writeError(w, http.StatusBadGateway, errors.New("geocoding service unreachable"))
		return
	}
	if set == nil {
		writeError(w, http.StatusBadGateway, errors.New("no result could be determined"))
		return
	}
	sharedobs.WriteJSON(w, http.StatusOK, resultsResponse{Count: set.Len(), Results: set})
}

type resultsResponse struct {
	Count   int                                     `json:"count"`
	Results *domain.ResultSet[domain.AddressRecord] `json:"results"`
}

func writeError(w http.ResponseWriter, status int, err error) {
	sharedobs.WriteJSON(w, status, map[string]string{"error": err.Error()})
}
