package engine

import (
	"github.com/ksfraser/stock-analysis/pkg/logger"
)

// FundamentalScorer scores valuation, profitability and leverage ratios.
// Missing fields are skipped; each present field contributes one factor
// from a fixed breakpoint table.
type FundamentalScorer struct {
	logger *logger.Logger
}

// NewFundamentalScorer creates a new fundamental scorer
func NewFundamentalScorer(log *logger.Logger) *FundamentalScorer {
	return &FundamentalScorer{logger: log}
}

// Score computes the fundamental dimension score for a snapshot.
// With zero computable factors the neutral default (50.0) is returned.
func (c *FundamentalScorer) Score(f FundamentalSnapshot) DimensionScore {
	result := NeutralScore()

	// P/E ratio
	if f.PERatio != nil && *f.PERatio > 0 {
		pe := *f.PERatio
		switch {
		case pe < 15:
			result.Factors["pe_score"] = 85
			result.Notes = append(result.Notes, "Low P/E ratio suggests undervaluation")
		case pe < 25:
			result.Factors["pe_score"] = 70
		case pe < 35:
			result.Factors["pe_score"] = 45
		default:
			result.Factors["pe_score"] = 25
			result.Notes = append(result.Notes, "High P/E ratio suggests overvaluation")
		}
	}

	// Price-to-book
	if f.PriceToBook != nil && *f.PriceToBook > 0 {
		pb := *f.PriceToBook
		switch {
		case pb < 1.5:
			result.Factors["pb_score"] = 80
			result.Notes = append(result.Notes, "Low P/B ratio indicates good value")
		case pb < 3:
			result.Factors["pb_score"] = 60
		case pb < 5:
			result.Factors["pb_score"] = 40
		default:
			result.Factors["pb_score"] = 20
			result.Notes = append(result.Notes, "High P/B ratio suggests premium valuation")
		}
	}

	// Return on equity
	if f.ReturnOnEquity != nil && *f.ReturnOnEquity != 0 {
		roe := asPercent(*f.ReturnOnEquity)
		switch {
		case roe > 20:
			result.Factors["roe_score"] = 90
			result.Notes = append(result.Notes, "Excellent return on equity")
		case roe > 15:
			result.Factors["roe_score"] = 75
			result.Notes = append(result.Notes, "Strong return on equity")
		case roe > 10:
			result.Factors["roe_score"] = 60
		default:
			result.Factors["roe_score"] = 30
			result.Notes = append(result.Notes, "Low return on equity")
		}
	}

	// Debt-to-equity; zero is a meaningful value here
	if f.DebtToEquity != nil {
		de := *f.DebtToEquity
		switch {
		case de < 0.3:
			result.Factors["de_score"] = 85
			result.Notes = append(result.Notes, "Low debt-to-equity ratio")
		case de < 0.6:
			result.Factors["de_score"] = 70
		case de < 1.0:
			result.Factors["de_score"] = 50
		default:
			result.Factors["de_score"] = 25
			result.Notes = append(result.Notes, "High debt-to-equity ratio")
		}
	}

	// Profit margin
	if f.ProfitMargin != nil && *f.ProfitMargin != 0 {
		pm := asPercent(*f.ProfitMargin)
		switch {
		case pm > 20:
			result.Factors["pm_score"] = 90
			result.Notes = append(result.Notes, "Excellent profit margin")
		case pm > 10:
			result.Factors["pm_score"] = 75
			result.Notes = append(result.Notes, "Strong profit margin")
		case pm > 5:
			result.Factors["pm_score"] = 60
		default:
			result.Factors["pm_score"] = 30
			result.Notes = append(result.Notes, "Low profit margin")
		}
	}

	// Revenue growth
	if f.RevenueGrowth != nil && *f.RevenueGrowth != 0 {
		rg := asPercent(*f.RevenueGrowth)
		switch {
		case rg > 20:
			result.Factors["rg_score"] = 90
			result.Notes = append(result.Notes, "Strong revenue growth")
		case rg > 10:
			result.Factors["rg_score"] = 75
		case rg > 5:
			result.Factors["rg_score"] = 60
		case rg > 0:
			result.Factors["rg_score"] = 45
		default:
			result.Factors["rg_score"] = 20
			result.Notes = append(result.Notes, "Negative revenue growth")
		}
	}

	// Current ratio (liquidity)
	if f.CurrentRatio != nil && *f.CurrentRatio > 0 {
		cr := *f.CurrentRatio
		switch {
		case cr > 2.5:
			result.Factors["cr_score"] = 80
			result.Notes = append(result.Notes, "Strong liquidity position")
		case cr > 1.5:
			result.Factors["cr_score"] = 70
		case cr > 1.0:
			result.Factors["cr_score"] = 50
		default:
			result.Factors["cr_score"] = 20
			result.Notes = append(result.Notes, "Poor liquidity position")
		}
	}

	if len(result.Factors) > 0 {
		result.Score = meanFactors(result.Factors)
	}

	c.logger.WithFields(map[string]interface{}{
		"factors": len(result.Factors),
		"score":   result.Score,
	}).Debug("Calculated fundamental score")

	return result
}

// asPercent normalizes ratio-style inputs: values below 1 in absolute
// terms are treated as fractions and scaled to percent.
func asPercent(v float64) float64 {
	if v < 1 && v > -1 {
		return v * 100
	}
	return v
}
