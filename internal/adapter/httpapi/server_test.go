package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/krishimitra/crop-advisor/internal/domain"
	"github.com/krishimitra/crop-advisor/internal/knowledge"
	"github.com/krishimitra/crop-advisor/internal/market"
	"github.com/krishimitra/crop-advisor/internal/observability"
	"github.com/krishimitra/crop-advisor/internal/recommend"
)

type stubWeather struct {
	snapshot domain.WeatherSnapshot
	err      error
}

func (s *stubWeather) CurrentWeather(_ context.Context, _, _ string) (domain.WeatherSnapshot, error) {
	return s.snapshot, s.err
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testServer(t *testing.T, weather domain.WeatherProvider) *Server {
	t.Helper()

	crops := []domain.Crop{
		{
			ID:               "paddy",
			Name:             "Paddy",
			SuitableSoils:    []string{domain.SoilClay},
			SuitableClimates: []string{domain.ClimateHumid},
			WaterUsage:       domain.LevelHigh,
			CarbonFootprint:  domain.LevelMedium,
			MarketValue:      domain.LevelHigh,
		},
		{
			ID:               "wheat",
			Name:             "Wheat",
			SuitableSoils:    []string{domain.SoilLoam},
			SuitableClimates: []string{domain.ClimateModerate},
			WaterUsage:       domain.LevelMedium,
			CarbonFootprint:  domain.LevelMedium,
			MarketValue:      domain.LevelMedium,
		},
	}
	records := []domain.MarketPriceRecord{
		{State: "Kerala", District: "Ernakulam", Market: "Aluva", Commodity: "Rice", ModalPrice: 2000},
		{State: "Punjab", District: "Ludhiana", Market: "Ludhiana", Commodity: "Wheat", ModalPrice: 2275},
	}

	store, err := knowledge.NewStore(crops, market.NewIndex(records))
	require.NoError(t, err)

	metrics := observability.NewMetricsForTesting()
	logger := testLogger()
	engine := recommend.New(store, nil, nil, logger, metrics)
	return NewServer(":0", store, engine, weather, metrics, logger)
}

func doRequest(t *testing.T, srv *Server, method, path string, body []byte) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

func TestServer_Health(t *testing.T) {
	srv := testServer(t, nil)

	rec := doRequest(t, srv, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"healthy"}`, rec.Body.String())
}

func TestServer_Ready(t *testing.T) {
	srv := testServer(t, nil)

	rec := doRequest(t, srv, http.MethodGet, "/readyz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ready"}`, rec.Body.String())
}

func TestServer_Metrics(t *testing.T) {
	srv := testServer(t, nil)

	rec := doRequest(t, srv, http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestServer_ListCrops(t *testing.T) {
	srv := testServer(t, nil)

	rec := doRequest(t, srv, http.MethodGet, "/api/crops", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var crops []domain.Crop
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &crops))
	require.Len(t, crops, 2)
	assert.Equal(t, "Paddy", crops[0].Name)
	assert.Equal(t, []string{domain.SoilClay}, crops[0].SuitableSoils)
}

func TestServer_ListMarketPrices(t *testing.T) {
	srv := testServer(t, nil)

	t.Run("unfiltered", func(t *testing.T) {
		rec := doRequest(t, srv, http.MethodGet, "/api/market-prices", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var records []domain.MarketPriceRecord
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &records))
		assert.Len(t, records, 2)
	})

	t.Run("filtered by state and commodity", func(t *testing.T) {
		rec := doRequest(t, srv, http.MethodGet, "/api/market-prices?state=kerala&commodity=rice", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var records []domain.MarketPriceRecord
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &records))
		require.Len(t, records, 1)
		assert.Equal(t, 2000, records[0].ModalPrice)
	})

	t.Run("no match returns empty array not null", func(t *testing.T) {
		rec := doRequest(t, srv, http.MethodGet, "/api/market-prices?state=Assam", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `[]`, rec.Body.String())
	})
}

func TestServer_GetWeather(t *testing.T) {
	t.Run("provider not configured", func(t *testing.T) {
		srv := testServer(t, nil)
		rec := doRequest(t, srv, http.MethodGet, "/api/weather?state=Kerala&district=Ernakulam", nil)
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})

	t.Run("missing params", func(t *testing.T) {
		srv := testServer(t, &stubWeather{})
		rec := doRequest(t, srv, http.MethodGet, "/api/weather?state=Kerala", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("success", func(t *testing.T) {
		srv := testServer(t, &stubWeather{snapshot: domain.WeatherSnapshot{Temperature: 31, Humidity: 78, Rainfall: 2, Description: "light rain"}})
		rec := doRequest(t, srv, http.MethodGet, "/api/weather?state=Kerala&district=Ernakulam", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var snapshot domain.WeatherSnapshot
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snapshot))
		assert.Equal(t, 78, snapshot.Humidity)
		assert.Equal(t, "light rain", snapshot.Description)
	})

	t.Run("provider failure", func(t *testing.T) {
		srv := testServer(t, &stubWeather{err: errors.New("geocode failed")})
		rec := doRequest(t, srv, http.MethodGet, "/api/weather?state=Kerala&district=Ernakulam", nil)
		assert.Equal(t, http.StatusBadGateway, rec.Code)
	})
}

func TestServer_GenerateRecommendations(t *testing.T) {
	validBody := []byte(`{"state":"Kerala","district":"Ernakulam","soilType":"Clay","climate":"Humid","farmSize":2.5}`)

	t.Run("success without weather provider", func(t *testing.T) {
		srv := testServer(t, nil)
		rec := doRequest(t, srv, http.MethodPost, "/api/recommendations", validBody)
		require.Equal(t, http.StatusOK, rec.Code)

		var resp struct {
			Recommendations []domain.Recommendation `json:"recommendations"`
			Weather         *domain.WeatherSnapshot `json:"weather"`
			Location        string                  `json:"location"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

		assert.Equal(t, "Ernakulam, Kerala", resp.Location)
		assert.Nil(t, resp.Weather)
		require.Len(t, resp.Recommendations, 1)

		paddy := resp.Recommendations[0]
		assert.Equal(t, "Paddy", paddy.CropName)
		assert.Equal(t, 80, paddy.SuitabilityScore)
		assert.Equal(t, 2000, paddy.MarketPrice)
		require.NotEmpty(t, paddy.Reasoning)
		assert.Contains(t, paddy.Reasoning[0], "Score breakdown")
	})

	t.Run("weather bonus applied when provider succeeds", func(t *testing.T) {
		srv := testServer(t, &stubWeather{snapshot: domain.WeatherSnapshot{Temperature: 30, Humidity: 82, Description: "humid"}})
		rec := doRequest(t, srv, http.MethodPost, "/api/recommendations", validBody)
		require.Equal(t, http.StatusOK, rec.Code)

		var resp struct {
			Recommendations []domain.Recommendation `json:"recommendations"`
			Weather         *domain.WeatherSnapshot `json:"weather"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

		require.NotNil(t, resp.Weather)
		assert.Equal(t, 82, resp.Weather.Humidity)
		require.Len(t, resp.Recommendations, 1)
		assert.Equal(t, 90, resp.Recommendations[0].SuitabilityScore)
	})

	t.Run("weather failure degrades to scoring without bonus", func(t *testing.T) {
		srv := testServer(t, &stubWeather{err: errors.New("upstream down")})
		rec := doRequest(t, srv, http.MethodPost, "/api/recommendations", validBody)
		require.Equal(t, http.StatusOK, rec.Code)

		var resp struct {
			Recommendations []domain.Recommendation `json:"recommendations"`
			Weather         *domain.WeatherSnapshot `json:"weather"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

		assert.Nil(t, resp.Weather)
		require.Len(t, resp.Recommendations, 1)
		assert.Equal(t, 80, resp.Recommendations[0].SuitabilityScore)
	})

	t.Run("malformed body", func(t *testing.T) {
		srv := testServer(t, nil)
		rec := doRequest(t, srv, http.MethodPost, "/api/recommendations", []byte("{not json"))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "invalid request body")
	})

	t.Run("validation failure", func(t *testing.T) {
		srv := testServer(t, nil)
		body := []byte(`{"state":"Kerala","district":"Ernakulam","soilType":"Chalky","climate":"Humid","farmSize":1}`)
		rec := doRequest(t, srv, http.MethodPost, "/api/recommendations", body)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "soilType")
	})

	t.Run("input case canonicalized", func(t *testing.T) {
		srv := testServer(t, nil)
		body := []byte(`{"state":"Kerala","district":"Ernakulam","soilType":"clay","climate":"HUMID","farmSize":1}`)
		rec := doRequest(t, srv, http.MethodPost, "/api/recommendations", body)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "Clay soil is optimal for Paddy")
	})

	t.Run("method not allowed on GET", func(t *testing.T) {
		srv := testServer(t, nil)
		rec := doRequest(t, srv, http.MethodGet, "/api/recommendations", nil)
		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	})
}
