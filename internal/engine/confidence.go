package engine

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// Maximum sub-factor counts per dimension, used to express data
// completeness as a fraction of what each scorer could have produced.
const (
	maxFundamentalFactors = 7
	maxTechnicalFactors   = 5
	maxMomentumFactors    = 4
	maxSentimentFactors   = 5
)

// ConfidenceEstimator combines data completeness with cross-dimension
// agreement into a 0-100 confidence value for the recommendation.
type ConfidenceEstimator struct{}

// NewConfidenceEstimator creates a new confidence estimator
func NewConfidenceEstimator() *ConfidenceEstimator {
	return &ConfidenceEstimator{}
}

// Estimate computes confidence as 0.6·completeness + 0.4·agreement,
// clamped to [0, 100]. Completeness is the mean populated-factor
// fraction across the four dimensions; agreement falls off with the
// spread of the four dimension scores.
func (c *ConfidenceEstimator) Estimate(d DimensionDetails) float64 {
	completeness := stat.Mean([]float64{
		factorCompleteness(d.Fundamental, maxFundamentalFactors),
		factorCompleteness(d.Technical, maxTechnicalFactors),
		factorCompleteness(d.Momentum, maxMomentumFactors),
		factorCompleteness(d.Sentiment, maxSentimentFactors),
	}, nil)

	scores := []float64{
		d.Fundamental.Score,
		d.Technical.Score,
		d.Momentum.Score,
		d.Sentiment.Score,
	}
	agreement := math.Max(0, 100-2*stat.PopStdDev(scores, nil))

	confidence := 0.6*completeness + 0.4*agreement
	return math.Min(math.Max(confidence, 0), 100)
}

// factorCompleteness scales a dimension's populated factor count
// against its maximum, capped at 100.
func factorCompleteness(d DimensionScore, maxFactors int) float64 {
	fraction := float64(len(d.Factors)) / float64(maxFactors) * 100
	return math.Min(fraction, 100)
}
