package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/ksfraser/stock-analysis/internal/engine"
	"github.com/ksfraser/stock-analysis/pkg/database"
	"github.com/ksfraser/stock-analysis/pkg/logger"
)

// ErrNotFound is returned when no stored result matches the query.
var ErrNotFound = errors.New("analysis result not found")

// Repository persists analysis results. One row per symbol per day;
// re-running a scan upserts the day's row.
type Repository struct {
	db     *database.DB
	logger *logger.Logger
}

// NewRepository creates a new analysis result repository
func NewRepository(db *database.DB, log *logger.Logger) *Repository {
	return &Repository{
		db:     db,
		logger: log,
	}
}

const upsertResultSQL = `
INSERT INTO analysis_results (
	symbol, analysis_date, computed_at,
	overall_score, fundamental_score, technical_score, momentum_score, sentiment_score,
	recommendation, risk_level, confidence,
	target_price, current_price, details, error
) VALUES (
	$1, $2, $3,
	$4, $5, $6, $7, $8,
	$9, $10, $11,
	$12, $13, $14, $15
)
ON CONFLICT (symbol, analysis_date) DO UPDATE SET
	computed_at       = EXCLUDED.computed_at,
	overall_score     = EXCLUDED.overall_score,
	fundamental_score = EXCLUDED.fundamental_score,
	technical_score   = EXCLUDED.technical_score,
	momentum_score    = EXCLUDED.momentum_score,
	sentiment_score   = EXCLUDED.sentiment_score,
	recommendation    = EXCLUDED.recommendation,
	risk_level        = EXCLUDED.risk_level,
	confidence        = EXCLUDED.confidence,
	target_price      = EXCLUDED.target_price,
	current_price     = EXCLUDED.current_price,
	details           = EXCLUDED.details,
	error             = EXCLUDED.error
`

// SaveResult stores an analysis result, replacing any earlier result
// for the same symbol and day.
func (r *Repository) SaveResult(ctx context.Context, result engine.AnalysisResult) error {
	details, err := json.Marshal(result.Details)
	if err != nil {
		return fmt.Errorf("failed to marshal details: %w", err)
	}

	analysisDate := result.ComputedAt.UTC().Truncate(24 * time.Hour)

	_, err = r.db.Pool.Exec(ctx, upsertResultSQL,
		result.Symbol, analysisDate, result.ComputedAt,
		result.OverallScore, result.FundamentalScore, result.TechnicalScore,
		result.MomentumScore, result.SentimentScore,
		string(result.Recommendation), string(result.RiskLevel), result.Confidence,
		result.TargetPrice, result.CurrentPrice, details, nullIfEmpty(result.Error),
	)
	if err != nil {
		return fmt.Errorf("failed to save analysis result: %w", err)
	}

	r.logger.WithFields(map[string]interface{}{
		"symbol": result.Symbol,
		"date":   analysisDate.Format("2006-01-02"),
	}).Debug("Saved analysis result")

	return nil
}

const selectResultSQL = `
SELECT
	symbol, computed_at,
	overall_score, fundamental_score, technical_score, momentum_score, sentiment_score,
	recommendation, risk_level, confidence,
	target_price, current_price, details, COALESCE(error, '')
FROM analysis_results
`

// GetLatest returns the most recent stored result for a symbol.
func (r *Repository) GetLatest(ctx context.Context, symbol string) (engine.AnalysisResult, error) {
	row := r.db.Pool.QueryRow(ctx,
		selectResultSQL+`WHERE symbol = $1 ORDER BY analysis_date DESC LIMIT 1`, symbol)

	result, err := scanResult(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return engine.AnalysisResult{}, ErrNotFound
		}
		return engine.AnalysisResult{}, fmt.Errorf("failed to load analysis result: %w", err)
	}

	return result, nil
}

// GetHistory returns up to `limit` results for a symbol, newest first.
func (r *Repository) GetHistory(ctx context.Context, symbol string, limit int) ([]engine.AnalysisResult, error) {
	rows, err := r.db.Pool.Query(ctx,
		selectResultSQL+`WHERE symbol = $1 ORDER BY analysis_date DESC LIMIT $2`, symbol, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query analysis history: %w", err)
	}
	defer rows.Close()

	var results []engine.AnalysisResult
	for rows.Next() {
		result, err := scanResult(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan analysis result: %w", err)
		}
		results = append(results, result)
	}

	return results, rows.Err()
}

// GetTopRated returns the highest-scoring result per symbol for the
// given day, ordered by overall score.
func (r *Repository) GetTopRated(ctx context.Context, date time.Time, limit int) ([]engine.AnalysisResult, error) {
	rows, err := r.db.Pool.Query(ctx,
		selectResultSQL+`WHERE analysis_date = $1 ORDER BY overall_score DESC LIMIT $2`,
		date.UTC().Truncate(24*time.Hour), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query top rated: %w", err)
	}
	defer rows.Close()

	var results []engine.AnalysisResult
	for rows.Next() {
		result, err := scanResult(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan analysis result: %w", err)
		}
		results = append(results, result)
	}

	return results, rows.Err()
}

// scanResult reads one result row.
func scanResult(row pgx.Row) (engine.AnalysisResult, error) {
	var result engine.AnalysisResult
	var recommendation, riskLevel string
	var details []byte

	err := row.Scan(
		&result.Symbol, &result.ComputedAt,
		&result.OverallScore, &result.FundamentalScore, &result.TechnicalScore,
		&result.MomentumScore, &result.SentimentScore,
		&recommendation, &riskLevel, &result.Confidence,
		&result.TargetPrice, &result.CurrentPrice, &details, &result.Error,
	)
	if err != nil {
		return result, err
	}

	result.Recommendation = engine.Recommendation(recommendation)
	result.RiskLevel = engine.RiskLevel(riskLevel)

	if len(details) > 0 {
		if err := json.Unmarshal(details, &result.Details); err != nil {
			return result, fmt.Errorf("failed to unmarshal details: %w", err)
		}
	}

	return result, nil
}

// nullIfEmpty maps the empty string onto SQL NULL.
func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
