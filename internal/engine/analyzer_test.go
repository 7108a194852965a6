package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAnalyzer(t *testing.T) *Analyzer {
	t.Helper()
	analyzer, err := NewAnalyzer(DefaultWeights(), testLogger())
	require.NoError(t, err)
	return analyzer
}

func TestNewAnalyzer_RejectsInvalidWeights(t *testing.T) {
	_, err := NewAnalyzer(Weights{Fundamental: 1, Technical: 1}, testLogger())
	assert.Error(t, err)
}

func TestAnalyzer_NoPriceData(t *testing.T) {
	analyzer := newTestAnalyzer(t)

	result := analyzer.Analyze("AAPL", nil, FundamentalSnapshot{})

	assert.Equal(t, "no price data", result.Error)
	assert.Equal(t, 50.0, result.OverallScore)
	assert.Equal(t, Hold, result.Recommendation)
	assert.Equal(t, RiskMedium, result.RiskLevel)
	assert.Nil(t, result.TargetPrice)
	assert.Equal(t, 0.0, result.CurrentPrice)
	assert.Equal(t, 50.0, result.Details.Fundamental.Score)
	assert.Equal(t, 50.0, result.Details.Technical.Score)
}

func TestAnalyzer_InsufficientPriceData(t *testing.T) {
	analyzer := newTestAnalyzer(t)

	result := analyzer.Analyze("AAPL", flatSeries(30, 100, 1000), FundamentalSnapshot{})

	assert.Equal(t, "insufficient price data", result.Error)
	assert.Equal(t, 50.0, result.OverallScore)
	assert.Equal(t, 100.0, result.CurrentPrice)
}

func TestAnalyzer_StrongFundamentalsFlatPrices(t *testing.T) {
	analyzer := newTestAnalyzer(t)

	snapshot := FundamentalSnapshot{
		PERatio:       fptr(12),
		DebtToEquity:  fptr(0.2),
		ProfitMargin:  fptr(0.25),
		RevenueGrowth: fptr(0.15),
	}

	result := analyzer.Analyze("AAPL", flatSeries(252, 100, 1_000_000), snapshot)

	assert.Empty(t, result.Error)
	assert.Equal(t, "AAPL", result.Symbol)
	assert.InDelta(t, 83.75, result.FundamentalScore, 0.001)
	assert.InDelta(t, 46.67, result.TechnicalScore, 0.001)
	assert.InDelta(t, 50.0, result.MomentumScore, 0.001)
	assert.InDelta(t, 42.5, result.SentimentScore, 0.001)
	assert.InDelta(t, 61.75, result.OverallScore, 0.001)
	assert.Equal(t, Hold, result.Recommendation)
	assert.Equal(t, RiskLow, result.RiskLevel)
	assert.InDelta(t, 65.46, result.Confidence, 0.05)

	// Hold band multiplier with the cheap-P/E bump: 100 * 1.05 * 1.05
	require.NotNil(t, result.TargetPrice)
	assert.InDelta(t, 110.25, *result.TargetPrice, 0.001)
	assert.Equal(t, 100.0, result.CurrentPrice)
}

func TestAnalyzer_StrongUptrend(t *testing.T) {
	analyzer := newTestAnalyzer(t)

	snapshot := FundamentalSnapshot{
		PERatio:        fptr(14),
		ReturnOnEquity: fptr(0.22),
		DebtToEquity:   fptr(0.3),
		ProfitMargin:   fptr(0.28),
		RevenueGrowth:  fptr(0.18),
		MarketCap:      fptr(500_000_000_000.0),
		Sector:         sptr("Technology"),
		AnalystRating:  sptr("STRONG_BUY"),
	}

	result := analyzer.Analyze("MSFT", trendSeries(252, 100, 0.5, 1_000_000), snapshot)

	assert.Empty(t, result.Error)
	assert.Greater(t, result.OverallScore, 65.0)
	assert.Contains(t, []Recommendation{Buy, StrongBuy}, result.Recommendation)
	assert.Equal(t, RiskLow, result.RiskLevel)
	require.NotNil(t, result.TargetPrice)
	assert.Greater(t, *result.TargetPrice, result.CurrentPrice)
}

func TestAnalyzer_Deterministic(t *testing.T) {
	analyzer := newTestAnalyzer(t)

	series := trendSeries(120, 80, 0.3, 500_000)
	snapshot := FundamentalSnapshot{
		PERatio:   fptr(22),
		MarketCap: fptr(3_000_000_000.0),
	}

	first := analyzer.Analyze("TSLA", series, snapshot)
	second := analyzer.Analyze("TSLA", series, snapshot)

	first.ComputedAt = time.Time{}
	second.ComputedAt = time.Time{}
	assert.Equal(t, first, second)
}

func TestAnalyzer_ScoresWithinBounds(t *testing.T) {
	analyzer := newTestAnalyzer(t)

	fixtures := []PriceSeries{
		flatSeries(60, 10, 100),
		trendSeries(252, 400, -1.2, 2_000_000),
		zigzagSeries(90, 50, 65, 750_000),
	}

	for _, series := range fixtures {
		result := analyzer.Analyze("X", series, FundamentalSnapshot{})

		assert.GreaterOrEqual(t, result.OverallScore, 0.0)
		assert.LessOrEqual(t, result.OverallScore, 100.0)
		assert.GreaterOrEqual(t, result.Confidence, 0.0)
		assert.LessOrEqual(t, result.Confidence, 100.0)
		assert.NotEmpty(t, result.Recommendation)
		assert.NotEmpty(t, result.RiskLevel)
	}
}
