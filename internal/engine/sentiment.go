package engine

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/stat"

	"github.com/ksfraser/stock-analysis/pkg/logger"
)

// analystRatingScores maps normalized analyst consensus labels to
// sub-scores. Unrecognized labels fall back to neutral.
var analystRatingScores = map[string]float64{
	"STRONG_BUY":  90,
	"BUY":         75,
	"HOLD":        50,
	"SELL":        25,
	"STRONG_SELL": 10,
}

// sectorScores is a coarse sector-sentiment table.
var sectorScores = map[string]float64{
	"Technology":             70,
	"Healthcare":             65,
	"Consumer Discretionary": 60,
	"Consumer Staples":       60,
	"Communication Services": 60,
	"Financials":             55,
	"Industrials":            55,
	"Utilities":              50,
	"Real Estate":            50,
	"Materials":              50,
	"Energy":                 45,
}

// SentimentScorer scores analyst consensus, market-cap tier, sector
// and recent price/volume behavior.
type SentimentScorer struct {
	logger *logger.Logger
}

// NewSentimentScorer creates a new sentiment scorer
func NewSentimentScorer(log *logger.Logger) *SentimentScorer {
	return &SentimentScorer{logger: log}
}

// Score computes the sentiment dimension score.
func (c *SentimentScorer) Score(s PriceSeries, f FundamentalSnapshot) DimensionScore {
	result := NeutralScore()

	var scoreFactors []float64

	// Analyst consensus rating
	if f.AnalystRating != nil {
		rating := strings.ToUpper(strings.TrimSpace(*f.AnalystRating))
		rating = strings.ReplaceAll(rating, " ", "_")

		score, ok := analystRatingScores[rating]
		if !ok {
			score = 50
		}
		result.Factors["analyst_rating"] = score
		result.Notes = append(result.Notes, fmt.Sprintf("Analyst rating: %s", *f.AnalystRating))
		scoreFactors = append(scoreFactors, score)
	}

	// Market-cap tier
	if f.MarketCap != nil {
		mc := *f.MarketCap
		var score float64
		switch {
		case mc > 10_000_000_000:
			score = 70
			result.Notes = append(result.Notes, "Large cap - lower risk")
		case mc > 2_000_000_000:
			score = 60
		case mc > 300_000_000:
			score = 50
		default:
			score = 40
			result.Notes = append(result.Notes, "Micro cap - higher risk")
		}
		result.Factors["market_cap"] = score
		scoreFactors = append(scoreFactors, score)
	}

	// Sector sentiment
	if f.Sector != nil {
		score, ok := sectorScores[*f.Sector]
		if !ok {
			score = 50
		}
		result.Factors["sector"] = score
		result.Notes = append(result.Notes, fmt.Sprintf("Sector sentiment: %s", *f.Sector))
		scoreFactors = append(scoreFactors, score)
	}

	// Share of up days over the trailing two weeks
	if ratio, ok := s.PositiveDayRatio(10); ok {
		var score float64
		switch {
		case ratio > 0.7:
			score = 70
			result.Notes = append(result.Notes, "Mostly positive recent days")
		case ratio < 0.3:
			score = 30
			result.Notes = append(result.Notes, "Mostly negative recent days")
		default:
			score = 50
		}
		result.Factors["positive_days"] = score
		scoreFactors = append(scoreFactors, score)
	}

	// Volume interest, 10-day average against a 60-day baseline
	if ratio, ok := s.VolumeRatio(10, 60); ok {
		var score float64
		switch {
		case ratio > 1.5:
			score = 65
			result.Notes = append(result.Notes, "High volume - strong interest")
		case ratio < 0.7:
			score = 45
			result.Notes = append(result.Notes, "Low volume - weak interest")
		default:
			score = 55
		}
		result.Factors["volume_trend"] = score
		scoreFactors = append(scoreFactors, score)
	}

	if len(scoreFactors) > 0 {
		result.Score = stat.Mean(scoreFactors, nil)
	}

	c.logger.WithFields(map[string]interface{}{
		"factors": len(result.Factors),
		"score":   result.Score,
	}).Debug("Calculated sentiment score")

	return result
}
