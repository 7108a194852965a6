package engine

import (
	"gonum.org/v1/gonum/stat"

	"github.com/ksfraser/stock-analysis/pkg/logger"
)

// minTechnicalBars is the shortest history the technical scorer will
// look at; below this the dimension stays at its neutral default.
const minTechnicalBars = 20

// TechnicalScorer scores price-indicator state: moving averages, a
// 14-period oscillator, MACD momentum, Bollinger bands and volume.
// Each indicator contributes a factor only when its window is
// available, so short histories degrade instead of failing.
type TechnicalScorer struct {
	logger *logger.Logger
}

// NewTechnicalScorer creates a new technical scorer
func NewTechnicalScorer(log *logger.Logger) *TechnicalScorer {
	return &TechnicalScorer{logger: log}
}

// Score computes the technical dimension score for a price series.
func (c *TechnicalScorer) Score(s PriceSeries) DimensionScore {
	result := NeutralScore()

	if len(s) < minTechnicalBars {
		return result
	}

	var scoreFactors []float64
	currentPrice := s.LastClose()

	// Moving average alignment
	if sma20, ok20 := s.SMA(20); ok20 {
		if sma50, ok50 := s.SMA(50); ok50 {
			var maScore float64
			switch {
			case currentPrice > sma20 && sma20 > sma50:
				maScore = 80
				result.Notes = append(result.Notes, "Price above short and medium-term MAs - Bullish")
			case currentPrice > sma20:
				maScore = 65
				result.Notes = append(result.Notes, "Price above 20-day MA - Short-term bullish")
			case currentPrice < sma20 && sma20 < sma50:
				maScore = 20
				result.Notes = append(result.Notes, "Price below short and medium-term MAs - Bearish")
			default:
				maScore = 45
			}
			result.Factors["ma_score"] = maScore
			scoreFactors = append(scoreFactors, maScore)
		}
	}

	// Oscillator (RSI-style, 14 period)
	if rsi, ok := s.RSI(14); ok {
		var rsiScore float64
		switch {
		case rsi < 30:
			rsiScore = 75
			result.Notes = append(result.Notes, "RSI oversold - Potential buying opportunity")
		case rsi > 70:
			rsiScore = 25
			result.Notes = append(result.Notes, "RSI overbought - Potential selling pressure")
		case rsi >= 40 && rsi <= 60:
			rsiScore = 60
		default:
			rsiScore = 50
		}
		result.Factors["rsi_score"] = rsiScore
		scoreFactors = append(scoreFactors, rsiScore)
	}

	// MACD momentum differential
	if macd, prev, ok := s.MACDHist(); ok {
		var macdScore float64
		switch {
		case macd > 0 && macd > prev:
			macdScore = 75
			result.Notes = append(result.Notes, "MACD positive and rising - Bullish momentum")
		case macd > 0:
			macdScore = 60
		case macd < 0 && macd < prev:
			macdScore = 25
			result.Notes = append(result.Notes, "MACD negative and falling - Bearish momentum")
		default:
			macdScore = 40
		}
		result.Factors["macd_score"] = macdScore
		scoreFactors = append(scoreFactors, macdScore)
	}

	// Bollinger band position
	if position, ok := s.BollingerPosition(); ok {
		var bbScore float64
		switch {
		case position < 0.2:
			bbScore = 75
			result.Notes = append(result.Notes, "Price near lower Bollinger Band - Oversold")
		case position > 0.8:
			bbScore = 25
			result.Notes = append(result.Notes, "Price near upper Bollinger Band - Overbought")
		default:
			bbScore = 50
		}
		result.Factors["bb_score"] = bbScore
		scoreFactors = append(scoreFactors, bbScore)
	}

	// Volume trend, 10-day average against a 60-day baseline
	if ratio, ok := s.VolumeRatio(10, 60); ok {
		var volScore float64
		switch {
		case ratio > 1.5:
			volScore = 70
			result.Notes = append(result.Notes, "Above-average volume - Strong interest")
		case ratio < 0.5:
			volScore = 40
			result.Notes = append(result.Notes, "Below-average volume - Weak interest")
		default:
			volScore = 55
		}
		result.Factors["volume_score"] = volScore
		scoreFactors = append(scoreFactors, volScore)
	}

	if len(scoreFactors) > 0 {
		result.Score = stat.Mean(scoreFactors, nil)
	}

	c.logger.WithFields(map[string]interface{}{
		"bars":    len(s),
		"factors": len(result.Factors),
		"score":   result.Score,
	}).Debug("Calculated technical score")

	return result
}
