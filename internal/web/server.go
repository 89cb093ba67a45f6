package web

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/vbonduro/plantid/internal/domain"
	"github.com/vbonduro/plantid/internal/logging"
)

// plantService is the subset of service.PlantService the handlers require.
type plantService interface {
	IdentifyImage(ctx context.Context, data []byte, mimeType string) (*domain.PlantInfo, error)
	CareGuide(ctx context.Context, plantName string) domain.CareInstructions
}

// nurseryFinder is the subset of places.Gateway the handlers require.
type nurseryFinder interface {
	NearbyByCoordinate(ctx context.Context, lat, lng float64) ([]domain.Nursery, error)
	SearchByText(ctx context.Context, query string) ([]domain.Nursery, error)
}

type Server struct {
	plants    plantService
	nurseries nurseryFinder
	mux       *http.ServeMux
	logger    *slog.Logger
}

func NewServer(plants plantService, nurseries nurseryFinder, logger *slog.Logger) *Server {
	s := &Server{
		plants:    plants,
		nurseries: nurseries,
		mux:       http.NewServeMux(),
		logger:    logger,
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})
	s.mux.HandleFunc("POST /identify", s.handleIdentify)
	s.mux.HandleFunc("POST /plant-care", s.handlePlantCare)
	s.mux.HandleFunc("GET /buy-links", s.handleBuyLinks)
	s.mux.HandleFunc("GET /nurseries", s.handleNearbyNurseries)
	s.mux.HandleFunc("GET /nurseries/search", s.handleSearchNurseries)
}

// securityHeaders sets the browser hardening headers on every response.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		h.Set("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'")
		next.ServeHTTP(w, r)
	})
}

// statusRecorder wraps http.ResponseWriter to capture the written status code.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// requestLogger tags each request with an ID, exposes a request-scoped logger
// through the context and logs one line when the handler returns.
func requestLogger(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", requestID)

		reqLogger := logger.With("request_id", requestID)
		r = r.WithContext(logging.WithLogger(r.Context(), reqLogger))

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		reqLogger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	requestLogger(s.logger, securityHeaders(s.mux)).ServeHTTP(w, r)
}

// log returns the request-scoped logger.
func (s *Server) log(r *http.Request) *slog.Logger {
	return logging.FromContext(r.Context(), s.logger)
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info("starting server", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		s.logger.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
