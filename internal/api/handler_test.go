package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/cbamcalc/internal/engine"
	"github.com/rshade/cbamcalc/internal/tables"
)

func bench(code, ind string, val float64) tables.BenchmarkRow {
	col := tables.BenchmarkColumn{Value: tables.Of(val), Indicator: tables.ParseIndicator(ind)}
	return tables.BenchmarkRow{Code: code, Real: col, Default: col}
}

func testRouter(t *testing.T, defaultPrice float64) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	tbl := tables.New(
		[]tables.BenchmarkRow{
			bench("7203", "(1)", 1.142),
			bench("7203", "(2)", 1.100),
			bench("72071111", "(C)", 1.370),
			bench("72071111", "(D)", 0.890),
		},
		[]tables.DefaultRow{
			{Country: "China", Code: "7203", Values: map[int]tables.Number{2026: tables.Of(3.157)}},
			{Country: "Other Countries", Code: "7203", Values: map[int]tables.Number{2026: tables.Of(3.5)}},
		},
		tables.Options{Vintages: []int{2026}, RestOfWorld: "Other"},
	)
	calc := engine.NewCalculator(tbl,
		engine.WithClock(func() time.Time { return time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC) }),
		engine.WithIDGenerator(func() string { return "01TESTQUOTE" }),
	)
	return NewRouter(NewHandler(calc, tbl, defaultPrice), zerolog.Nop())
}

func do(t *testing.T, r http.Handler, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	w := do(t, testRouter(t, 0), http.MethodGet, "/healthz", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))
}

func TestRequestIDIsEchoed(t *testing.T) {
	r := testRouter(t, 0)
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(RequestIDHeader, "trace-123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, "trace-123", w.Header().Get(RequestIDHeader))
}

func TestListCountries(t *testing.T) {
	w := do(t, testRouter(t, 0), http.MethodGet, "/v1/countries", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var got struct {
		Countries   []string `json:"countries"`
		RestOfWorld []string `json:"rest_of_world"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.ElementsMatch(t, []string{"China", "Other Countries"}, got.Countries)
	assert.Equal(t, []string{"Other Countries"}, got.RestOfWorld)
}

func TestListRoutes(t *testing.T) {
	tests := []struct {
		name       string
		target     string
		wantStatus int
		wantRoutes int
	}{
		{name: "two routes", target: "/v1/routes?code=72071111&year=2026", wantStatus: http.StatusOK, wantRoutes: 2},
		{name: "single row in period", target: "/v1/routes?code=7203&year=2026&real=true", wantStatus: http.StatusOK, wantRoutes: 1},
		{name: "unknown code", target: "/v1/routes?code=9999&year=2026", wantStatus: http.StatusOK, wantRoutes: 0},
		{name: "missing code", target: "/v1/routes?year=2026", wantStatus: http.StatusBadRequest},
		{name: "bad year", target: "/v1/routes?code=7203&year=next", wantStatus: http.StatusBadRequest},
		{name: "bad real", target: "/v1/routes?code=7203&year=2026&real=maybe", wantStatus: http.StatusBadRequest},
	}

	r := testRouter(t, 0)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, r, http.MethodGet, tt.target, nil)
			require.Equal(t, tt.wantStatus, w.Code, w.Body.String())
			if tt.wantStatus != http.StatusOK {
				return
			}
			var got struct {
				Routes []engine.RouteOption `json:"routes"`
			}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
			assert.Len(t, got.Routes, tt.wantRoutes)
		})
	}
}

func TestCreateQuote(t *testing.T) {
	w := do(t, testRouter(t, 0), http.MethodPost, "/v1/quotes", map[string]any{
		"code": "7203", "country": "China", "year": 2026, "volume": 150, "carbon_price": 81,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var q engine.Quote
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &q))
	assert.Equal(t, "01TESTQUOTE", q.ID)
	assert.Equal(t, engine.ProvenanceCountryDefault, q.Emissions.Provenance)
	assert.InDelta(t, 24829.13, q.Cost.TotalCost, 0.01)
	assert.False(t, q.DataNotFound)
}

func TestCreateQuote_DefaultPrice(t *testing.T) {
	w := do(t, testRouter(t, 81), http.MethodPost, "/v1/quotes", map[string]any{
		"code": "7203", "country": "China", "year": 2026, "volume": 150,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var q engine.Quote
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &q))
	assert.InDelta(t, 81.0, q.Request.CarbonPrice, 1e-12)
}

func TestCreateQuote_RealEmissionsInKilograms(t *testing.T) {
	w := do(t, testRouter(t, 0), http.MethodPost, "/v1/quotes", map[string]any{
		"code": "7203", "year": 2026, "volume": 1, "carbon_price": 100,
		"real_emissions": 2100, "emissions_unit": "kgCO2e/t",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var q engine.Quote
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &q))
	assert.Equal(t, engine.ProvenanceReal, q.Emissions.Provenance)
	assert.InDelta(t, 2.1, q.Emissions.Value, 1e-9)
}

func TestCreateQuote_NonPositiveRealEmissionsUseDefaults(t *testing.T) {
	r := testRouter(t, 0)
	for _, v := range []float64{-1, 0} {
		w := do(t, r, http.MethodPost, "/v1/quotes", map[string]any{
			"code": "7203", "country": "China", "year": 2026, "volume": 150, "carbon_price": 81,
			"real_emissions": v,
		})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var q engine.Quote
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &q))
		assert.Equal(t, engine.ProvenanceCountryDefault, q.Emissions.Provenance)
		assert.InDelta(t, 24829.13, q.Cost.TotalCost, 0.01)
		assert.NotEmpty(t, q.Warnings)
	}
}

func TestCreateQuote_ZeroVolumeAccepted(t *testing.T) {
	w := do(t, testRouter(t, 0), http.MethodPost, "/v1/quotes", map[string]any{
		"code": "7203", "country": "China", "year": 2026, "volume": 0, "carbon_price": 81,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var q engine.Quote
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &q))
	assert.Equal(t, 0.0, q.Cost.TotalCost)
}

func TestCreateQuote_RouteRequired(t *testing.T) {
	w := do(t, testRouter(t, 0), http.MethodPost, "/v1/quotes", map[string]any{
		"code": "72071111", "country": "China", "year": 2026, "volume": 10, "carbon_price": 81,
	})
	require.Equal(t, http.StatusUnprocessableEntity, w.Code, w.Body.String())

	var got struct {
		Error   string   `json:"error"`
		Code    string   `json:"code"`
		Choices []string `json:"choices"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "72071111", got.Code)
	assert.Equal(t, []string{"C", "D"}, got.Choices)
	assert.NotEmpty(t, got.Error)
}

func TestCreateQuote_WithRoute(t *testing.T) {
	w := do(t, testRouter(t, 0), http.MethodPost, "/v1/quotes", map[string]any{
		"code": "72071111", "country": "China", "year": 2026, "volume": 10,
		"carbon_price": 81, "route": "D",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var q engine.Quote
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &q))
	assert.InDelta(t, 0.890, q.Benchmark.Value, 1e-9)
}

func TestCreateQuote_BadRequests(t *testing.T) {
	tests := []struct {
		name string
		body map[string]any
	}{
		{name: "missing volume", body: map[string]any{"code": "7203", "year": 2026, "carbon_price": 81}},
		{name: "missing code", body: map[string]any{"year": 2026, "volume": 1, "carbon_price": 81}},
		{name: "missing price without default", body: map[string]any{"code": "7203", "year": 2026, "volume": 1}},
		{name: "negative volume", body: map[string]any{"code": "7203", "year": 2026, "volume": -1, "carbon_price": 81}},
		{name: "year before scheme", body: map[string]any{"code": "7203", "year": 2020, "volume": 1, "carbon_price": 81}},
		{name: "unknown emissions unit", body: map[string]any{
			"code": "7203", "year": 2026, "volume": 1, "carbon_price": 81,
			"real_emissions": 2, "emissions_unit": "furlongs",
		}},
	}

	r := testRouter(t, 0)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, r, http.MethodPost, "/v1/quotes", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
			assert.Contains(t, w.Body.String(), `"error"`)
		})
	}
}

func TestCreateQuote_MalformedJSON(t *testing.T) {
	r := testRouter(t, 0)
	req := httptest.NewRequest(http.MethodPost, "/v1/quotes", bytes.NewBufferString("{not json"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
