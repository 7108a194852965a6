package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMomentumScorer_ShortSeriesNeutral(t *testing.T) {
	scorer := NewMomentumScorer(testLogger())

	result := scorer.Score(flatSeries(15, 100, 1000))

	assert.Equal(t, 50.0, result.Score)
	assert.Empty(t, result.Factors)
}

func TestMomentumScorer_FlatSeries(t *testing.T) {
	scorer := NewMomentumScorer(testLogger())

	result := scorer.Score(flatSeries(60, 100, 1000))

	assert.Equal(t, 50.0, result.Factors["momentum_5d"])
	assert.Equal(t, 50.0, result.Factors["momentum_20d"])
	assert.Equal(t, 50.0, result.Factors["momentum_60d"])
	assert.Equal(t, 0.0, result.Factors["volatility"])
	assert.Equal(t, 50.0, result.Score)
	assert.Empty(t, result.Notes)
}

func TestMomentumScorer_SteadyUptrend(t *testing.T) {
	scorer := NewMomentumScorer(testLogger())

	// 100 -> 169 over 70 bars: ~2.4% over 5 bars, ~12.7% over 20,
	// ~53.6% over 60, with negligible return volatility.
	result := scorer.Score(trendSeries(70, 100, 1, 1000))

	assert.Equal(t, 65.0, result.Factors["momentum_5d"])
	assert.Equal(t, 85.0, result.Factors["momentum_20d"])
	assert.Equal(t, 90.0, result.Factors["momentum_60d"])
	assert.InDelta(t, 80.0, result.Score, 0.001)
	assert.Contains(t, result.Notes, "Low volatility with positive momentum")
}

func TestMomentumScorer_HighVolatilityDegradesLastHorizon(t *testing.T) {
	scorer := NewMomentumScorer(testLogger())

	// Alternating 100/120 closes: flat over 5 bars, +20% over 20 bars,
	// and annualized volatility far above the 50% threshold.
	result := scorer.Score(zigzagSeries(40, 100, 120, 1000))

	assert.Equal(t, 50.0, result.Factors["momentum_5d"])
	assert.InDelta(t, 68.0, result.Factors["momentum_20d"], 0.001) // 85 * 0.8
	assert.NotContains(t, result.Factors, "momentum_60d")
	assert.Greater(t, result.Factors["volatility"], 50.0)
	assert.InDelta(t, 59.0, result.Score, 0.001)
	assert.Contains(t, result.Notes, "High volatility - increased risk")
}

func TestMomentumScorer_SteadyDecline(t *testing.T) {
	scorer := NewMomentumScorer(testLogger())

	// 200 -> 131 over 70 bars
	result := scorer.Score(trendSeries(70, 200, -1, 1000))

	assert.Equal(t, 35.0, result.Factors["momentum_5d"])
	assert.Equal(t, 15.0, result.Factors["momentum_20d"])
	assert.Equal(t, 10.0, result.Factors["momentum_60d"])
	assert.Equal(t, 20.0, result.Score)
}
