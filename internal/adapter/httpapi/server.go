// Package httpapi exposes the crop advisory REST API plus health,
// readiness, and metrics endpoints.
package httpapi

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/krishimitra/crop-advisor/internal/domain"
	"github.com/krishimitra/crop-advisor/internal/knowledge"
	"github.com/krishimitra/crop-advisor/internal/observability"
	"github.com/krishimitra/crop-advisor/internal/recommend"
)

// ReadinessChecker reports whether the service is ready to serve traffic.
type ReadinessChecker interface {
	CheckReadiness(ctx context.Context) error
}

// Server hosts the API router.
type Server struct {
	httpServer *http.Server
	logger     *slog.Logger
}

// NewServer wires the API routes. weather may be nil when no provider is
// configured; the weather endpoint then reports 503 and recommendations
// are generated without a weather bonus.
func NewServer(addr string, store *knowledge.Store, engine *recommend.Engine, weather domain.WeatherProvider, metrics *observability.Metrics, logger *slog.Logger) *Server {
	h := &handlers{
		store:   store,
		engine:  engine,
		weather: weather,
		metrics: metrics,
		logger:  logger,
	}

	r := mux.NewRouter()
	r.HandleFunc("/healthz", handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/readyz", handleReady(store)).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/crops", h.instrument("/api/crops", h.listCrops)).Methods(http.MethodGet)
	api.HandleFunc("/market-prices", h.instrument("/api/market-prices", h.listMarketPrices)).Methods(http.MethodGet)
	api.HandleFunc("/weather", h.instrument("/api/weather", h.getWeather)).Methods(http.MethodGet)
	api.HandleFunc("/recommendations", h.instrument("/api/recommendations", h.generateRecommendations)).Methods(http.MethodPost)

	return &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      r,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		logger: logger,
	}
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

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func handleReady(checker ReadinessChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := checker.CheckReadiness(ctx); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "not ready",
				"error":  err.Error(),
			})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}
