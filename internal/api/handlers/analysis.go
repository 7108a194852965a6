package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/ksfraser/stock-analysis/internal/engine"
	"github.com/ksfraser/stock-analysis/internal/scan"
	"github.com/ksfraser/stock-analysis/internal/store"
	"github.com/ksfraser/stock-analysis/pkg/logger"
)

// defaultHistoryLimit caps the history endpoint when no limit is given.
const defaultHistoryLimit = 30

// ResultReader serves stored analysis results. Satisfied by
// store.Repository.
type ResultReader interface {
	GetLatest(ctx context.Context, symbol string) (engine.AnalysisResult, error)
	GetHistory(ctx context.Context, symbol string, limit int) ([]engine.AnalysisResult, error)
	GetTopRated(ctx context.Context, date time.Time, limit int) ([]engine.AnalysisResult, error)
}

// AnalysisHandler serves analysis endpoints.
type AnalysisHandler struct {
	service   *scan.Service
	results   ResultReader
	watchlist []string
	logger    *logger.Logger
}

// NewAnalysisHandler creates a new analysis handler
func NewAnalysisHandler(service *scan.Service, results ResultReader, watchlist []string, log *logger.Logger) *AnalysisHandler {
	return &AnalysisHandler{
		service:   service,
		results:   results,
		watchlist: watchlist,
		logger:    log,
	}
}

// Analyze runs an on-demand analysis for one symbol.
// GET /api/analysis/{symbol}
func (h *AnalysisHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	symbol := normalizeSymbol(mux.Vars(r)["symbol"])
	if symbol == "" {
		respondError(w, http.StatusBadRequest, "symbol is required")
		return
	}

	result, err := h.service.AnalyzeSymbol(r.Context(), symbol)
	if err != nil {
		h.logger.WithFields(map[string]interface{}{
			"symbol": symbol,
			"error":  err.Error(),
		}).Error("On-demand analysis failed")
		respondError(w, http.StatusBadGateway, "analysis failed: "+err.Error())
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// Latest returns the most recent stored result for a symbol.
// GET /api/results/{symbol}
func (h *AnalysisHandler) Latest(w http.ResponseWriter, r *http.Request) {
	symbol := normalizeSymbol(mux.Vars(r)["symbol"])
	if symbol == "" {
		respondError(w, http.StatusBadRequest, "symbol is required")
		return
	}

	result, err := h.results.GetLatest(r.Context(), symbol)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respondError(w, http.StatusNotFound, "no analysis found for "+symbol)
			return
		}
		respondError(w, http.StatusInternalServerError, "failed to load result")
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// History returns stored results for a symbol, newest first.
// GET /api/results/{symbol}/history?limit=N
func (h *AnalysisHandler) History(w http.ResponseWriter, r *http.Request) {
	symbol := normalizeSymbol(mux.Vars(r)["symbol"])
	if symbol == "" {
		respondError(w, http.StatusBadRequest, "symbol is required")
		return
	}

	limit := queryInt(r, "limit", defaultHistoryLimit)

	results, err := h.results.GetHistory(r.Context(), symbol, limit)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load history")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"symbol":  symbol,
		"results": results,
	})
}

// TopRated returns the day's highest-scoring symbols.
// GET /api/results/top?date=YYYY-MM-DD&limit=N
func (h *AnalysisHandler) TopRated(w http.ResponseWriter, r *http.Request) {
	date := time.Now().UTC()
	if raw := r.URL.Query().Get("date"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			respondError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
			return
		}
		date = parsed
	}

	limit := queryInt(r, "limit", 20)

	results, err := h.results.GetTopRated(r.Context(), date, limit)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load top rated")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"date":    date.Format("2006-01-02"),
		"results": results,
	})
}

// Scan triggers a watchlist scan in the background.
// POST /api/scan
func (h *AnalysisHandler) Scan(w http.ResponseWriter, r *http.Request) {
	symbols := h.watchlist

	// An optional JSON body overrides the configured watchlist
	if r.Body != nil && r.ContentLength != 0 {
		var body struct {
			Symbols []string `json:"symbols"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			respondError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if len(body.Symbols) > 0 {
			symbols = make([]string, 0, len(body.Symbols))
			for _, s := range body.Symbols {
				if normalized := normalizeSymbol(s); normalized != "" {
					symbols = append(symbols, normalized)
				}
			}
		}
	}

	if len(symbols) == 0 {
		respondError(w, http.StatusBadRequest, "no symbols to scan")
		return
	}

	go func() {
		// Detached from the request context; the scan outlives it
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
		defer cancel()

		if _, err := h.service.Scan(ctx, symbols); err != nil {
			h.logger.WithError(err).Error("Background scan failed")
		}
	}()

	respondJSON(w, http.StatusAccepted, map[string]interface{}{
		"status":  "scan started",
		"symbols": len(symbols),
	})
}

// normalizeSymbol uppercases and trims a ticker.
func normalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}

// queryInt reads an integer query parameter with a default.
func queryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}

	v, err := strconv.Atoi(raw)
	if err != nil || v < 1 {
		return fallback
	}
	return v
}

// respondJSON writes a JSON response
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

// respondError writes a JSON error response
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
