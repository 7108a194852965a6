package engine

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

// fullFactors builds a factor map with n entries at the given score.
func fullFactors(n int, score float64) map[string]float64 {
	factors := make(map[string]float64, n)
	for i := 0; i < n; i++ {
		factors[fmt.Sprintf("factor_%d", i)] = score
	}
	return factors
}

func TestConfidenceEstimator_FullDataFullAgreement(t *testing.T) {
	estimator := NewConfidenceEstimator()

	details := DimensionDetails{
		Fundamental: DimensionScore{Score: 60, Factors: fullFactors(7, 60)},
		Technical:   DimensionScore{Score: 60, Factors: fullFactors(5, 60)},
		Momentum:    DimensionScore{Score: 60, Factors: fullFactors(4, 60)},
		Sentiment:   DimensionScore{Score: 60, Factors: fullFactors(5, 60)},
	}

	assert.InDelta(t, 100.0, estimator.Estimate(details), 0.001)
}

func TestConfidenceEstimator_NoData(t *testing.T) {
	estimator := NewConfidenceEstimator()

	details := DimensionDetails{
		Fundamental: NeutralScore(),
		Technical:   NeutralScore(),
		Momentum:    NeutralScore(),
		Sentiment:   NeutralScore(),
	}

	// Zero completeness, but the four neutral scores agree perfectly:
	// 0.6*0 + 0.4*100
	assert.InDelta(t, 40.0, estimator.Estimate(details), 0.001)
}

func TestConfidenceEstimator_DisagreementLowersConfidence(t *testing.T) {
	estimator := NewConfidenceEstimator()

	agreeing := DimensionDetails{
		Fundamental: DimensionScore{Score: 55, Factors: fullFactors(7, 55)},
		Technical:   DimensionScore{Score: 55, Factors: fullFactors(5, 55)},
		Momentum:    DimensionScore{Score: 55, Factors: fullFactors(4, 55)},
		Sentiment:   DimensionScore{Score: 55, Factors: fullFactors(5, 55)},
	}
	split := DimensionDetails{
		Fundamental: DimensionScore{Score: 90, Factors: fullFactors(7, 90)},
		Technical:   DimensionScore{Score: 10, Factors: fullFactors(5, 10)},
		Momentum:    DimensionScore{Score: 90, Factors: fullFactors(4, 90)},
		Sentiment:   DimensionScore{Score: 10, Factors: fullFactors(5, 10)},
	}

	// Same completeness, so the gap is pure disagreement:
	// pop std dev 40 -> agreement 20 -> 0.6*100 + 0.4*20
	assert.InDelta(t, 68.0, estimator.Estimate(split), 0.001)
	assert.Greater(t, estimator.Estimate(agreeing), estimator.Estimate(split))
}

func TestConfidenceEstimator_CompletenessCapped(t *testing.T) {
	estimator := NewConfidenceEstimator()

	// More factors than the dimension maximum must not push
	// completeness past 100
	details := DimensionDetails{
		Fundamental: DimensionScore{Score: 50, Factors: fullFactors(12, 50)},
		Technical:   DimensionScore{Score: 50, Factors: fullFactors(9, 50)},
		Momentum:    DimensionScore{Score: 50, Factors: fullFactors(8, 50)},
		Sentiment:   DimensionScore{Score: 50, Factors: fullFactors(9, 50)},
	}

	assert.InDelta(t, 100.0, estimator.Estimate(details), 0.001)
}

func TestConfidenceEstimator_WithinBounds(t *testing.T) {
	estimator := NewConfidenceEstimator()

	details := DimensionDetails{
		Fundamental: DimensionScore{Score: 100, Factors: fullFactors(2, 100)},
		Technical:   DimensionScore{Score: 0},
		Momentum:    DimensionScore{Score: 100, Factors: fullFactors(1, 100)},
		Sentiment:   DimensionScore{Score: 0},
	}

	confidence := estimator.Estimate(details)
	assert.GreaterOrEqual(t, confidence, 0.0)
	assert.LessOrEqual(t, confidence, 100.0)
}
