package rest

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"gdpdash/application/dashboard"
	querybus "gdpdash/application/queries/bus"
	queries_handlers "gdpdash/application/queries/handlers"
	"gdpdash/domain/dataset"
	apperrors "gdpdash/pkg/errors"
	"gdpdash/pkg/observability"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type testServer struct {
	handler http.Handler
	metrics *observability.Collector
}

func setupServer(t *testing.T) *testServer {
	t.Helper()
	return setupServerWith(t, Options{EnableCORS: true})
}

// 1962 has a single reported value; 1963 has a zero, which has no logarithm.
func setupServerWith(t *testing.T, opts Options) *testServer {
	t.Helper()
	table, err := dataset.NewTable(1961, 3, []dataset.Row{
		{Code: "ABC", Name: "Landia", Values: []dataset.Value{dataset.Some(100), dataset.None(), dataset.Some(400)}},
		{Code: "PHL", Name: "Philippines", Values: []dataset.Value{dataset.Some(50), dataset.Some(60), dataset.Some(70)}},
		{Code: "ZRO", Name: "Zeroland", Values: []dataset.Value{dataset.Some(1000), dataset.None(), dataset.Some(0)}},
	})
	require.NoError(t, err)

	logger := zap.NewNop()
	b := querybus.NewQueryBus()
	require.NoError(t, queries_handlers.Register(b, queries_handlers.Registration{
		Table:          table,
		DefaultCountry: "PHL",
		Logger:         logger,
	}))
	controller := dashboard.NewController(b, table.YearMin(), table.YearMax(), logger)
	metrics := observability.NewCollector("test")

	router := NewRouter(b, controller, metrics, logger, opts)
	return &testServer{handler: router.Setup(), metrics: metrics}
}

func (s *testServer) do(t *testing.T, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) apperrors.ErrorResponse {
	t.Helper()
	var resp apperrors.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestHealthAndReady(t *testing.T) {
	s := setupServer(t)

	rec := s.do(t, "GET", "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"healthy"}`, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
	assert.Equal(t, "v1", rec.Header().Get("X-API-Version"))

	rec = s.do(t, "GET", "/ready", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ready","countries":3,"year_min":1961,"year_max":1963}`, rec.Body.String())
}

func TestRequestIDIsEchoed(t *testing.T) {
	s := setupServer(t)

	req := httptest.NewRequest("GET", "/api/v1/charts/map?year=1900", nil)
	req.Header.Set("X-Request-ID", "req-42")
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)

	assert.Equal(t, "req-42", rec.Header().Get("X-Request-ID"))
	assert.Equal(t, "req-42", decodeError(t, rec).RequestID)
}

func TestGetMap(t *testing.T) {
	s := setupServer(t)

	rec := s.do(t, "GET", "/api/v1/charts/map?year=1962&mode=1", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Type string `json:"type"`
		Year int    `json:"year"`
		Data struct {
			Locations []string   `json:"locations"`
			Z         []*float64 `json:"z"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "choropleth", body.Type)
	assert.Equal(t, []string{"ABC", "PHL", "ZRO"}, body.Data.Locations)
	require.Len(t, body.Data.Z, 3)
	assert.Nil(t, body.Data.Z[0])
	assert.Equal(t, 60.0, *body.Data.Z[1])
}

func TestGetMap_Errors(t *testing.T) {
	s := setupServer(t)

	tests := []struct {
		target string
		status int
		kind   apperrors.ErrorType
	}{
		{"/api/v1/charts/map", http.StatusBadRequest, apperrors.ErrorTypeValidation},
		{"/api/v1/charts/map?year=abc", http.StatusBadRequest, apperrors.ErrorTypeValidation},
		{"/api/v1/charts/map?year=1962&mode=x", http.StatusBadRequest, apperrors.ErrorTypeValidation},
		{"/api/v1/charts/map?year=1900", http.StatusBadRequest, apperrors.ErrorTypeRange},
		{"/api/v1/charts/map?year=1962&mode=2", http.StatusBadRequest, apperrors.ErrorTypeInvalidMode},
	}

	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			rec := s.do(t, "GET", tt.target, "")
			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, string(tt.kind), decodeError(t, rec).Type)
		})
	}
}

func TestGetHistogram(t *testing.T) {
	s := setupServer(t)

	rec := s.do(t, "GET", "/api/v1/charts/histogram?year_a=1961&year_b=1961", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"barmode":"overlay"`)

	rec = s.do(t, "GET", "/api/v1/charts/histogram?year_a=1961&year_b=1962", "")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, string(apperrors.ErrorTypeDegenerateDistribution), decodeError(t, rec).Type)

	rec = s.do(t, "GET", "/api/v1/charts/histogram?year_a=1961&year_b=1963", "")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, string(apperrors.ErrorTypeDomain), decodeError(t, rec).Type)

	rec = s.do(t, "GET", "/api/v1/charts/histogram?year_a=1961", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPNGEndpoints(t *testing.T) {
	s := setupServer(t)

	rec := s.do(t, "GET", "/api/v1/charts/histogram.png?year_a=1961&year_b=1961", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("\x89PNG")))

	rec = s.do(t, "GET", "/api/v1/charts/trend.png?code=abc", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
}

func TestPNGEndpoints_RateLimited(t *testing.T) {
	s := setupServerWith(t, Options{RenderRateLimit: 1})

	rec := s.do(t, "GET", "/api/v1/charts/trend.png", "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, "GET", "/api/v1/charts/histogram.png?year_a=1961&year_b=1961", "")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "RATE_LIMIT", decodeError(t, rec).Type)

	// JSON chart routes are not limited
	rec = s.do(t, "GET", "/api/v1/charts/trend", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestGetTrend(t *testing.T) {
	s := setupServer(t)

	rec := s.do(t, "GET", "/api/v1/charts/trend", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Philippines GDP per capita trend")

	rec = s.do(t, "GET", "/api/v1/charts/trend?code=abc", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"y":[100,null,400]`)

	rec = s.do(t, "GET", "/api/v1/charts/trend?code=NOPE", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDatasetEndpoints(t *testing.T) {
	s := setupServer(t)

	rec := s.do(t, "GET", "/api/v1/dataset", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"default_country":"PHL"`)

	rec = s.do(t, "GET", "/api/v1/countries", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Zeroland")

	rec = s.do(t, "GET", "/api/v1/countries/phl/series", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Philippines")

	rec = s.do(t, "GET", "/api/v1/countries/NOPE/series", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(t, "GET", "/api/v1/years/1962", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"ABC":null`)

	rec = s.do(t, "GET", "/api/v1/years/1800", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, "GET", "/api/v1/years/next", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDashboardLayout(t *testing.T) {
	s := setupServer(t)

	rec := s.do(t, "GET", "/api/v1/dashboard", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var layout dashboard.Layout
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &layout))
	assert.Len(t, layout.Sliders, 3)
	assert.Len(t, layout.Graphs, 5)
}

func TestYearChangedEvent(t *testing.T) {
	s := setupServer(t)

	rec := s.do(t, "POST", "/api/v1/events/year-changed",
		`{"slider_id":"year-slider-2","year":1962,"sliders":{"year-slider-3":1961}}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Updates []struct {
			Target string                 `json:"target"`
			Kind   string                 `json:"kind"`
			Text   string                 `json:"text"`
			Figure map[string]interface{} `json:"figure"`
			Error  *dashboard.UpdateError `json:"error"`
		} `json:"updates"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Updates, 3)
	assert.Equal(t, "1962", resp.Updates[0].Text)
	assert.Equal(t, "choropleth", resp.Updates[1].Figure["type"])
	require.NotNil(t, resp.Updates[2].Error)
	assert.Equal(t, apperrors.ErrorTypeDegenerateDistribution, resp.Updates[2].Error.Type)

	rec = s.do(t, "POST", "/api/v1/events/year-changed", `{"slider_id":"year-slider","year":1900}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, string(apperrors.ErrorTypeRange), decodeError(t, rec).Type)

	rec = s.do(t, "POST", "/api/v1/events/year-changed", `{"slider_id":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, "POST", "/api/v1/events/year-changed", `{"slider_id":"year-slider","year":1961,"extra":true}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMapClickedEvent(t *testing.T) {
	s := setupServer(t)

	rec := s.do(t, "POST", "/api/v1/events/map-clicked", `{"map_id":"world-map","country_code":"ABC"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Landia GDP per capita trend")
	assert.Contains(t, rec.Body.String(), `"target":"country-gdp-graph"`)

	rec = s.do(t, "POST", "/api/v1/events/map-clicked", `{"map_id":"world-map-3","country_code":"ABC"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	s := setupServer(t)

	s.do(t, "GET", "/api/v1/countries/ABC/series", "")
	s.do(t, "GET", "/api/v1/countries/PHL/series", "")

	assert.Equal(t, 2.0, testutil.ToFloat64(
		s.metrics.HTTPRequests.WithLabelValues("GET", "/api/v1/countries/{code}/series", "200")))

	rec := s.do(t, "GET", "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "test_http_requests_total")
}

func TestCORSPreflight(t *testing.T) {
	s := setupServer(t)

	req := httptest.NewRequest("OPTIONS", "/api/v1/charts/map", nil)
	req.Header.Set("Origin", "http://example.com")
	req.Header.Set("Access-Control-Request-Method", "GET")
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)

	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}
