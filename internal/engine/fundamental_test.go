package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFundamentalScorer_EmptySnapshot(t *testing.T) {
	scorer := NewFundamentalScorer(testLogger())

	result := scorer.Score(FundamentalSnapshot{})

	assert.Equal(t, 50.0, result.Score)
	assert.Empty(t, result.Factors)
	assert.Empty(t, result.Notes)
}

func TestFundamentalScorer_StrongFundamentals(t *testing.T) {
	scorer := NewFundamentalScorer(testLogger())

	result := scorer.Score(FundamentalSnapshot{
		PERatio:       fptr(12),
		DebtToEquity:  fptr(0.2),
		ProfitMargin:  fptr(0.25),
		RevenueGrowth: fptr(0.15),
	})

	assert.Equal(t, 85.0, result.Factors["pe_score"])
	assert.Equal(t, 85.0, result.Factors["de_score"])
	assert.Equal(t, 90.0, result.Factors["pm_score"])
	assert.Equal(t, 75.0, result.Factors["rg_score"])
	assert.InDelta(t, 83.75, result.Score, 0.001)
	assert.Contains(t, result.Notes, "Low P/E ratio suggests undervaluation")
}

func TestFundamentalScorer_PEBreakpoints(t *testing.T) {
	scorer := NewFundamentalScorer(testLogger())

	tests := []struct {
		name string
		pe   float64
		want float64
	}{
		{"deep value", 10, 85},
		{"fair value", 20, 70},
		{"expensive", 30, 45},
		{"very expensive", 40, 25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := scorer.Score(FundamentalSnapshot{PERatio: fptr(tt.pe)})
			assert.Equal(t, tt.want, result.Factors["pe_score"])
			assert.Equal(t, tt.want, result.Score)
		})
	}
}

func TestFundamentalScorer_NegativePESkipped(t *testing.T) {
	scorer := NewFundamentalScorer(testLogger())

	result := scorer.Score(FundamentalSnapshot{PERatio: fptr(-5)})

	assert.Equal(t, 50.0, result.Score)
	assert.NotContains(t, result.Factors, "pe_score")
}

func TestFundamentalScorer_RatioScaling(t *testing.T) {
	scorer := NewFundamentalScorer(testLogger())

	// ROE supplied as a fraction is treated as a percentage
	asFraction := scorer.Score(FundamentalSnapshot{ReturnOnEquity: fptr(0.18)})
	asPercent := scorer.Score(FundamentalSnapshot{ReturnOnEquity: fptr(18)})

	assert.Equal(t, 75.0, asFraction.Factors["roe_score"])
	assert.Equal(t, asPercent.Factors["roe_score"], asFraction.Factors["roe_score"])
}

func TestFundamentalScorer_WeakFundamentals(t *testing.T) {
	scorer := NewFundamentalScorer(testLogger())

	result := scorer.Score(FundamentalSnapshot{
		PERatio:      fptr(50),
		DebtToEquity: fptr(2.0),
		CurrentRatio: fptr(0.8),
	})

	assert.Equal(t, 25.0, result.Factors["pe_score"])
	assert.Equal(t, 25.0, result.Factors["de_score"])
	assert.Equal(t, 20.0, result.Factors["cr_score"])
	assert.Contains(t, result.Notes, "High debt-to-equity ratio")
	assert.Contains(t, result.Notes, "Poor liquidity position")
	assert.Less(t, result.Score, 30.0)
}

func TestFundamentalScorer_DebtToEquityZeroCounts(t *testing.T) {
	scorer := NewFundamentalScorer(testLogger())

	// Zero leverage is a meaningful, excellent value
	result := scorer.Score(FundamentalSnapshot{DebtToEquity: fptr(0)})

	assert.Equal(t, 85.0, result.Factors["de_score"])
}
