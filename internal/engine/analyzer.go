package engine

import (
	"time"

	"github.com/ksfraser/stock-analysis/pkg/logger"
)

// minAnalysisBars is the minimum price history for a valid analysis.
const minAnalysisBars = 50

// Error strings carried on AnalysisResult.Error. No error ever
// propagates past the analyzer boundary; every invocation returns a
// well-formed result.
const (
	ErrNoPriceData      = "no price data"
	ErrInsufficientData = "insufficient price data"
)

// Analyzer orchestrates the four dimension scorers and assembles the
// final analysis result. It is stateless and safe for concurrent use
// across symbols.
type Analyzer struct {
	fundamental *FundamentalScorer
	technical   *TechnicalScorer
	momentum    *MomentumScorer
	sentiment   *SentimentScorer
	risk        *RiskAssessor
	confidence  *ConfidenceEstimator

	weights Weights
	logger  *logger.Logger
}

// NewAnalyzer creates a new analyzer with the given dimension weights
func NewAnalyzer(weights Weights, log *logger.Logger) (*Analyzer, error) {
	if err := weights.Validate(); err != nil {
		return nil, err
	}

	return &Analyzer{
		fundamental: NewFundamentalScorer(log),
		technical:   NewTechnicalScorer(log),
		momentum:    NewMomentumScorer(log),
		sentiment:   NewSentimentScorer(log),
		risk:        NewRiskAssessor(log),
		confidence:  NewConfidenceEstimator(),
		weights:     weights,
		logger:      log,
	}, nil
}

// Analyze runs the full multi-factor analysis for one symbol. The
// caller supplies the price series already sorted ascending by date;
// only the length invariant is checked here.
func (a *Analyzer) Analyze(symbol string, series PriceSeries, fundamentals FundamentalSnapshot) AnalysisResult {
	if len(series) == 0 {
		return a.errorResult(symbol, series, ErrNoPriceData)
	}
	if len(series) < minAnalysisBars {
		return a.errorResult(symbol, series, ErrInsufficientData)
	}

	// Score each dimension independently; a fault in one falls back to
	// that dimension's neutral default instead of aborting the analysis.
	details := DimensionDetails{
		Fundamental: a.safeScore(symbol, "fundamental", func() DimensionScore {
			return a.fundamental.Score(fundamentals)
		}),
		Technical: a.safeScore(symbol, "technical", func() DimensionScore {
			return a.technical.Score(series)
		}),
		Momentum: a.safeScore(symbol, "momentum", func() DimensionScore {
			return a.momentum.Score(series)
		}),
		Sentiment: a.safeScore(symbol, "sentiment", func() DimensionScore {
			return a.sentiment.Score(series, fundamentals)
		}),
	}

	overall := a.weights.Overall(details)
	currentPrice := series.LastClose()

	result := AnalysisResult{
		Symbol:           symbol,
		ComputedAt:       time.Now(),
		OverallScore:     overall,
		FundamentalScore: roundTo(details.Fundamental.Score, 2),
		TechnicalScore:   roundTo(details.Technical.Score, 2),
		MomentumScore:    roundTo(details.Momentum.Score, 2),
		SentimentScore:   roundTo(details.Sentiment.Score, 2),
		Recommendation:   Classify(overall),
		RiskLevel:        a.risk.Assess(series, fundamentals),
		Confidence:       roundTo(a.confidence.Estimate(details), 2),
		TargetPrice:      TargetPrice(currentPrice, fundamentals, overall),
		CurrentPrice:     currentPrice,
		Details:          details,
	}

	a.logger.WithFields(map[string]interface{}{
		"symbol":         symbol,
		"overall_score":  result.OverallScore,
		"recommendation": result.Recommendation,
		"risk_level":     result.RiskLevel,
	}).Info("Analysis completed")

	return result
}

// errorResult builds the terminal result for insufficient input.
func (a *Analyzer) errorResult(symbol string, series PriceSeries, errMsg string) AnalysisResult {
	a.logger.WithFields(map[string]interface{}{
		"symbol": symbol,
		"bars":   len(series),
		"error":  errMsg,
	}).Warn("Analysis rejected")

	return AnalysisResult{
		Symbol:         symbol,
		ComputedAt:     time.Now(),
		OverallScore:   50.0,
		Recommendation: Hold,
		RiskLevel:      RiskMedium,
		CurrentPrice:   series.LastClose(),
		Details: DimensionDetails{
			Fundamental: NeutralScore(),
			Technical:   NeutralScore(),
			Momentum:    NeutralScore(),
			Sentiment:   NeutralScore(),
		},
		Error: errMsg,
	}
}

// safeScore isolates a dimension computation: an unexpected fault is
// logged and that dimension falls back to its neutral default.
func (a *Analyzer) safeScore(symbol, dimension string, fn func() DimensionScore) (score DimensionScore) {
	defer func() {
		if r := recover(); r != nil {
			a.logger.WithFields(map[string]interface{}{
				"symbol":    symbol,
				"dimension": dimension,
				"panic":     r,
			}).Error("Dimension scorer fault, falling back to neutral")
			score = NeutralScore()
		}
	}()

	return fn()
}
