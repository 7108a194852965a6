package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWeights_Validate(t *testing.T) {
	assert.NoError(t, DefaultWeights().Validate())

	custom := Weights{Fundamental: 0.25, Technical: 0.25, Momentum: 0.25, Sentiment: 0.25}
	assert.NoError(t, custom.Validate())

	bad := Weights{Fundamental: 0.5, Technical: 0.5, Momentum: 0.5, Sentiment: 0.5}
	assert.Error(t, bad.Validate())

	zero := Weights{}
	assert.Error(t, zero.Validate())
}

func TestWeights_Overall(t *testing.T) {
	details := DimensionDetails{
		Fundamental: DimensionScore{Score: 83.75},
		Technical:   DimensionScore{Score: 46.666667},
		Momentum:    DimensionScore{Score: 50},
		Sentiment:   DimensionScore{Score: 42.5},
	}

	overall := DefaultWeights().Overall(details)

	// 0.4*83.75 + 0.3*46.67 + 0.2*50 + 0.1*42.5
	assert.InDelta(t, 61.75, overall, 0.001)
}

func TestClassify_Bands(t *testing.T) {
	tests := []struct {
		score float64
		want  Recommendation
	}{
		{100, StrongBuy},
		{80, StrongBuy},
		{79.99, Buy},
		{65, Buy},
		{64.99, Hold},
		{50, Hold},
		{35, Hold},
		{34.99, Sell},
		{20, Sell},
		{19.99, StrongSell},
		{0, StrongSell},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Classify(tt.score), "score %.2f", tt.score)
	}
}

func TestTargetPrice_NoCurrentPrice(t *testing.T) {
	assert.Nil(t, TargetPrice(0, FundamentalSnapshot{}, 90))
}

func TestTargetPrice_ScoreBands(t *testing.T) {
	tests := []struct {
		name  string
		score float64
		want  float64
	}{
		{"strong buy band", 85, 125},
		{"buy band", 70, 115},
		{"hold band", 50, 105},
		{"sell band", 25, 95},
		{"strong sell band", 10, 85},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			target := TargetPrice(100, FundamentalSnapshot{}, tt.score)
			require.NotNil(t, target)
			assert.InDelta(t, tt.want, *target, 0.001)
		})
	}
}

func TestTargetPrice_PEAdjustments(t *testing.T) {
	cheap := TargetPrice(100, FundamentalSnapshot{PERatio: fptr(12)}, 70)
	require.NotNil(t, cheap)
	assert.InDelta(t, 120.75, *cheap, 0.001) // 1.15 * 1.05

	expensive := TargetPrice(100, FundamentalSnapshot{PERatio: fptr(40)}, 70)
	require.NotNil(t, expensive)
	assert.InDelta(t, 109.25, *expensive, 0.001) // 1.15 * 0.95

	// Negative P/E gets no adjustment
	negative := TargetPrice(100, FundamentalSnapshot{PERatio: fptr(-8)}, 70)
	require.NotNil(t, negative)
	assert.InDelta(t, 115, *negative, 0.001)
}
