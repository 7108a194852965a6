package scan

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ksfraser/stock-analysis/internal/engine"
	"github.com/ksfraser/stock-analysis/internal/marketdata"
	"github.com/ksfraser/stock-analysis/pkg/logger"
)

// ResultStore persists completed analyses. Satisfied by
// store.Repository.
type ResultStore interface {
	SaveResult(ctx context.Context, result engine.AnalysisResult) error
}

// Service fetches market data, runs the analysis engine and persists
// the results. A scan fans symbols out over a fixed worker pool.
type Service struct {
	provider marketdata.Provider
	analyzer *engine.Analyzer
	store    ResultStore
	logger   *logger.Logger

	workers      int
	lookbackDays int
}

// New creates a new scan service
func New(provider marketdata.Provider, analyzer *engine.Analyzer, store ResultStore, log *logger.Logger, workers, lookbackDays int) *Service {
	if workers < 1 {
		workers = 1
	}

	return &Service{
		provider:     provider,
		analyzer:     analyzer,
		store:        store,
		logger:       log,
		workers:      workers,
		lookbackDays: lookbackDays,
	}
}

// AnalyzeSymbol fetches data for one symbol, analyzes it and persists
// the result. Missing fundamentals degrade to an empty snapshot; the
// engine scores whatever is available.
func (s *Service) AnalyzeSymbol(ctx context.Context, symbol string) (engine.AnalysisResult, error) {
	series, err := s.provider.PriceHistory(ctx, symbol, s.lookbackDays)
	if err != nil {
		return engine.AnalysisResult{}, fmt.Errorf("price history fetch failed for %s: %w", symbol, err)
	}

	fundamentals, err := s.provider.Fundamentals(ctx, symbol)
	if err != nil {
		s.logger.WithFields(map[string]interface{}{
			"symbol": symbol,
			"error":  err.Error(),
		}).Warn("Fundamentals unavailable, scoring prices only")
		fundamentals = engine.FundamentalSnapshot{}
	}

	result := s.analyzer.Analyze(symbol, series, fundamentals)

	if s.store != nil {
		if err := s.store.SaveResult(ctx, result); err != nil {
			return result, fmt.Errorf("failed to persist result for %s: %w", symbol, err)
		}
	}

	return result, nil
}

// Summary tallies one scan run.
type Summary struct {
	Total     int           `json:"total"`
	Succeeded int           `json:"succeeded"`
	Failed    int           `json:"failed"`
	Duration  time.Duration `json:"duration"`
}

// Scan analyzes every symbol on the watchlist concurrently. Individual
// symbol failures are logged and counted; the scan itself only fails
// when the context is cancelled.
func (s *Service) Scan(ctx context.Context, symbols []string) (Summary, error) {
	start := time.Now()
	summary := Summary{Total: len(symbols)}

	jobs := make(chan string)
	var mu sync.Mutex
	var wg sync.WaitGroup

	for i := 0; i < s.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for symbol := range jobs {
				_, err := s.AnalyzeSymbol(ctx, symbol)

				mu.Lock()
				if err != nil {
					summary.Failed++
				} else {
					summary.Succeeded++
				}
				mu.Unlock()

				if err != nil {
					s.logger.WithFields(map[string]interface{}{
						"symbol": symbol,
						"error":  err.Error(),
					}).Error("Symbol analysis failed")
				}
			}
		}()
	}

	var cancelled bool
feed:
	for _, symbol := range symbols {
		select {
		case <-ctx.Done():
			cancelled = true
			break feed
		case jobs <- symbol:
		}
	}
	close(jobs)
	wg.Wait()

	summary.Duration = time.Since(start)

	s.logger.WithFields(map[string]interface{}{
		"total":     summary.Total,
		"succeeded": summary.Succeeded,
		"failed":    summary.Failed,
		"duration":  summary.Duration,
	}).Info("Scan completed")

	if cancelled {
		return summary, ctx.Err()
	}
	return summary, nil
}
