package httpapi

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/krishimitra/crop-advisor/internal/domain"
	"github.com/krishimitra/crop-advisor/internal/knowledge"
	"github.com/krishimitra/crop-advisor/internal/market"
	"github.com/krishimitra/crop-advisor/internal/observability"
	"github.com/krishimitra/crop-advisor/internal/recommend"
)

type handlers struct {
	store   *knowledge.Store
	engine  *recommend.Engine
	weather domain.WeatherProvider // nil when unconfigured
	metrics *observability.Metrics
	logger  *slog.Logger
}

// recommendationResponse is the /api/recommendations payload.
type recommendationResponse struct {
	Recommendations []domain.Recommendation `json:"recommendations"`
	Weather         *domain.WeatherSnapshot `json:"weather,omitempty"`
	Location        string                  `json:"location"`
}

// instrument records per-endpoint request duration.
func (h *handlers) instrument(endpoint string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		defer func() {
			h.metrics.APIRequestDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
		}()
		next(w, r)
	}
}

// listCrops handles GET /api/crops.
func (h *handlers) listCrops(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.store.AllCrops())
}

// listMarketPrices handles GET /api/market-prices with optional state,
// district, and commodity filters.
func (h *handlers) listMarketPrices(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	records := h.store.PriceQuery(market.Filters{
		State:     q.Get("state"),
		District:  q.Get("district"),
		Commodity: q.Get("commodity"),
	})
	if records == nil {
		records = []domain.MarketPriceRecord{}
	}
	writeJSON(w, http.StatusOK, records)
}

// getWeather handles GET /api/weather?state=&district=.
func (h *handlers) getWeather(w http.ResponseWriter, r *http.Request) {
	if h.weather == nil {
		writeError(w, http.StatusServiceUnavailable, "weather provider is not configured")
		return
	}

	state := r.URL.Query().Get("state")
	district := r.URL.Query().Get("district")
	if state == "" || district == "" {
		writeError(w, http.StatusBadRequest, "state and district are required")
		return
	}

	snapshot, err := h.weather.CurrentWeather(r.Context(), state, district)
	if err != nil {
		h.logger.Warn("weather lookup failed", "state", state, "district", district, "error", err)
		writeError(w, http.StatusBadGateway, "weather lookup failed: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, snapshot)
}

// generateRecommendations handles POST /api/recommendations.
//
// A weather failure is not a request failure: scoring proceeds without
// the weather bonus and the response omits the weather block.
func (h *handlers) generateRecommendations(w http.ResponseWriter, r *http.Request) {
	var input domain.FarmInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if err := input.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var weather *domain.WeatherSnapshot
	if h.weather != nil {
		snapshot, err := h.weather.CurrentWeather(r.Context(), input.State, input.District)
		if err != nil {
			h.logger.Warn("scoring without weather", "location", input.Location(), "error", err)
		} else {
			weather = &snapshot
		}
	}

	recommendations := h.engine.Generate(r.Context(), input, weather)

	writeJSON(w, http.StatusOK, recommendationResponse{
		Recommendations: recommendations,
		Weather:         weather,
		Location:        input.Location(),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response write
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
