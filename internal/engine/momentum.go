package engine

import (
	"gonum.org/v1/gonum/stat"

	"github.com/ksfraser/stock-analysis/pkg/logger"
)

// minMomentumBars gates the momentum dimension as a whole.
const minMomentumBars = 20

// MomentumScorer scores trailing returns over 5, 20 and 60 bar
// horizons plus annualized return volatility over the trailing 30 bars.
type MomentumScorer struct {
	logger *logger.Logger
}

// NewMomentumScorer creates a new momentum scorer
func NewMomentumScorer(log *logger.Logger) *MomentumScorer {
	return &MomentumScorer{logger: log}
}

// Score computes the momentum dimension score for a price series.
func (c *MomentumScorer) Score(s PriceSeries) DimensionScore {
	result := NeutralScore()

	if len(s) < minMomentumBars {
		return result
	}

	var scoreFactors []float64
	var lastKey string

	// Short-term momentum (5 bars)
	if r5, ok := s.Return(5); ok {
		var score float64
		switch {
		case r5 > 5:
			score = 80
			result.Notes = append(result.Notes, "Strong 5-day momentum")
		case r5 > 2:
			score = 65
			result.Notes = append(result.Notes, "Positive 5-day momentum")
		case r5 < -5:
			score = 20
			result.Notes = append(result.Notes, "Weak 5-day momentum")
		case r5 < -2:
			score = 35
			result.Notes = append(result.Notes, "Negative 5-day momentum")
		default:
			score = 50
		}
		result.Factors["momentum_5d"] = score
		scoreFactors = append(scoreFactors, score)
		lastKey = "momentum_5d"
	}

	// Medium-term momentum (20 bars)
	r20, hasR20 := s.Return(20)
	if hasR20 {
		var score float64
		switch {
		case r20 > 10:
			score = 85
			result.Notes = append(result.Notes, "Strong 20-day momentum")
		case r20 > 5:
			score = 70
			result.Notes = append(result.Notes, "Positive 20-day momentum")
		case r20 < -10:
			score = 15
			result.Notes = append(result.Notes, "Weak 20-day momentum")
		case r20 < -5:
			score = 30
			result.Notes = append(result.Notes, "Negative 20-day momentum")
		default:
			score = 50
		}
		result.Factors["momentum_20d"] = score
		scoreFactors = append(scoreFactors, score)
		lastKey = "momentum_20d"
	}

	// Long-term momentum (60 bars)
	if r60, ok := s.Return(60); ok {
		var score float64
		switch {
		case r60 > 20:
			score = 90
			result.Notes = append(result.Notes, "Excellent 60-day momentum")
		case r60 > 10:
			score = 75
			result.Notes = append(result.Notes, "Strong 60-day momentum")
		case r60 < -20:
			score = 10
			result.Notes = append(result.Notes, "Poor 60-day momentum")
		case r60 < -10:
			score = 25
			result.Notes = append(result.Notes, "Negative 60-day momentum")
		default:
			score = 50
		}
		result.Factors["momentum_60d"] = score
		scoreFactors = append(scoreFactors, score)
		lastKey = "momentum_60d"
	}

	// Volatility, annualized over the trailing 30 bars. High volatility
	// degrades the most recent horizon's sub-score; low volatility with
	// positive medium-term momentum is a quality signal.
	if vol, ok := s.AnnualizedVolatility(30); ok && len(s) >= 30 {
		result.Factors["volatility"] = roundTo(vol*100, 2)

		switch {
		case vol > 0.50:
			if len(scoreFactors) > 0 {
				degraded := scoreFactors[len(scoreFactors)-1] * 0.8
				scoreFactors[len(scoreFactors)-1] = degraded
				result.Factors[lastKey] = degraded
			}
			result.Notes = append(result.Notes, "High volatility - increased risk")
		case vol < 0.25 && hasR20 && r20 > 0:
			result.Notes = append(result.Notes, "Low volatility with positive momentum")
		}
	}

	if len(scoreFactors) > 0 {
		result.Score = stat.Mean(scoreFactors, nil)
	}

	c.logger.WithFields(map[string]interface{}{
		"bars":    len(s),
		"factors": len(result.Factors),
		"score":   result.Score,
	}).Debug("Calculated momentum score")

	return result
}
