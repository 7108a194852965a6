package engine

import (
	"github.com/ksfraser/stock-analysis/pkg/logger"
)

// RiskAssessor classifies overall position risk by accumulating points
// from volatility, leverage, oscillator extremes and market-cap tier.
// Missing inputs contribute zero points.
type RiskAssessor struct {
	logger *logger.Logger
}

// NewRiskAssessor creates a new risk assessor
func NewRiskAssessor(log *logger.Logger) *RiskAssessor {
	return &RiskAssessor{logger: log}
}

// Assess computes the risk level for a security.
func (c *RiskAssessor) Assess(s PriceSeries, f FundamentalSnapshot) RiskLevel {
	points := 0

	// Volatility risk
	if len(s) >= 30 {
		if vol, ok := s.AnnualizedVolatility(30); ok {
			switch {
			case vol > 0.50:
				points += 30
			case vol > 0.35:
				points += 20
			case vol > 0.25:
				points += 10
			}
		}
	}

	// Leverage risk
	if f.DebtToEquity != nil {
		switch {
		case *f.DebtToEquity > 1.0:
			points += 20
		case *f.DebtToEquity > 0.5:
			points += 10
		}
	}

	// Oscillator extremes
	if rsi, ok := s.RSI(14); ok {
		if rsi > 75 || rsi < 25 {
			points += 15
		}
	}

	// Market-cap risk
	if f.MarketCap != nil {
		switch {
		case *f.MarketCap < 300_000_000:
			points += 25
		case *f.MarketCap < 2_000_000_000:
			points += 15
		}
	}

	level := classifyRisk(points)

	c.logger.WithFields(map[string]interface{}{
		"points": points,
		"level":  level,
	}).Debug("Assessed risk")

	return level
}

// classifyRisk maps accumulated risk points onto a discrete level.
func classifyRisk(points int) RiskLevel {
	switch {
	case points > 60:
		return RiskVeryHigh
	case points > 40:
		return RiskHigh
	case points > 20:
		return RiskMedium
	default:
		return RiskLow
	}
}
