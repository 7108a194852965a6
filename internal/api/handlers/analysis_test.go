package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ksfraser/stock-analysis/internal/engine"
	"github.com/ksfraser/stock-analysis/internal/scan"
	"github.com/ksfraser/stock-analysis/internal/store"
	"github.com/ksfraser/stock-analysis/pkg/logger"
)

// fakeProvider serves a deterministic uptrend.
type fakeProvider struct{}

func (fakeProvider) Name() string { return "fake" }

func (fakeProvider) PriceHistory(ctx context.Context, symbol string, days int) (engine.PriceSeries, error) {
	base := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	series := make(engine.PriceSeries, 120)
	for i := range series {
		price := 100 + float64(i)*0.5
		series[i] = engine.PriceBar{Date: base.AddDate(0, 0, i), Close: price, Volume: 1_000_000}
	}
	return series, nil
}

func (fakeProvider) Fundamentals(ctx context.Context, symbol string) (engine.FundamentalSnapshot, error) {
	pe := 18.0
	return engine.FundamentalSnapshot{PERatio: &pe}, nil
}

// fakeReader serves canned stored results.
type fakeReader struct {
	latest  map[string]engine.AnalysisResult
	history []engine.AnalysisResult
}

func (f *fakeReader) GetLatest(ctx context.Context, symbol string) (engine.AnalysisResult, error) {
	result, ok := f.latest[symbol]
	if !ok {
		return engine.AnalysisResult{}, store.ErrNotFound
	}
	return result, nil
}

func (f *fakeReader) GetHistory(ctx context.Context, symbol string, limit int) ([]engine.AnalysisResult, error) {
	if limit > len(f.history) {
		limit = len(f.history)
	}
	return f.history[:limit], nil
}

func (f *fakeReader) GetTopRated(ctx context.Context, date time.Time, limit int) ([]engine.AnalysisResult, error) {
	return f.history, nil
}

func newTestHandler(t *testing.T, reader ResultReader) *AnalysisHandler {
	t.Helper()
	analyzer, err := engine.NewAnalyzer(engine.DefaultWeights(), logger.Nop())
	require.NoError(t, err)
	service := scan.New(fakeProvider{}, analyzer, nil, logger.Nop(), 1, 400)
	return NewAnalysisHandler(service, reader, []string{"AAPL"}, logger.Nop())
}

func newTestRouter(handler *AnalysisHandler) *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/api/analysis/{symbol}", handler.Analyze).Methods("GET")
	r.HandleFunc("/api/results/top", handler.TopRated).Methods("GET")
	r.HandleFunc("/api/results/{symbol}", handler.Latest).Methods("GET")
	r.HandleFunc("/api/results/{symbol}/history", handler.History).Methods("GET")
	r.HandleFunc("/api/scan", handler.Scan).Methods("POST")
	return r
}

func TestAnalysisHandler_Analyze(t *testing.T) {
	router := newTestRouter(newTestHandler(t, &fakeReader{}))

	req := httptest.NewRequest(http.MethodGet, "/api/analysis/aapl", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"symbol":"AAPL"`)
	assert.Contains(t, rec.Body.String(), `"recommendation"`)
}

func TestAnalysisHandler_LatestNotFound(t *testing.T) {
	router := newTestRouter(newTestHandler(t, &fakeReader{}))

	req := httptest.NewRequest(http.MethodGet, "/api/results/MSFT", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAnalysisHandler_Latest(t *testing.T) {
	reader := &fakeReader{
		latest: map[string]engine.AnalysisResult{
			"MSFT": {Symbol: "MSFT", OverallScore: 72.5, Recommendation: engine.Buy},
		},
	}
	router := newTestRouter(newTestHandler(t, reader))

	req := httptest.NewRequest(http.MethodGet, "/api/results/msft", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"overall_score":72.5`)
}

func TestAnalysisHandler_History(t *testing.T) {
	reader := &fakeReader{
		history: []engine.AnalysisResult{
			{Symbol: "MSFT", OverallScore: 72.5},
			{Symbol: "MSFT", OverallScore: 70.1},
		},
	}
	router := newTestRouter(newTestHandler(t, reader))

	req := httptest.NewRequest(http.MethodGet, "/api/results/MSFT/history?limit=1", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"overall_score":72.5`)
	assert.NotContains(t, rec.Body.String(), `"overall_score":70.1`)
}

func TestAnalysisHandler_ScanAccepted(t *testing.T) {
	router := newTestRouter(newTestHandler(t, &fakeReader{}))

	req := httptest.NewRequest(http.MethodPost, "/api/scan", strings.NewReader(`{"symbols":["aapl","msft"]}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusAccepted, rec.Code)
	assert.Contains(t, rec.Body.String(), `"symbols":2`)
}

func TestAnalysisHandler_ScanBadBody(t *testing.T) {
	router := newTestRouter(newTestHandler(t, &fakeReader{}))

	req := httptest.NewRequest(http.MethodPost, "/api/scan", strings.NewReader(`{not json`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
