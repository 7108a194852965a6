package engine

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
)

// Weights defines the contribution of each dimension to the overall
// score. The defaults follow the 40/30/20/10 split; any override must
// still sum to 1.0.
type Weights struct {
	Fundamental float64
	Technical   float64
	Momentum    float64
	Sentiment   float64
}

// DefaultWeights returns the standard dimension weighting
func DefaultWeights() Weights {
	return Weights{
		Fundamental: 0.40,
		Technical:   0.30,
		Momentum:    0.20,
		Sentiment:   0.10,
	}
}

// Validate checks that the weights sum to 1.0, allowing for a small
// floating point error.
func (w Weights) Validate() error {
	sum := w.Fundamental + w.Technical + w.Momentum + w.Sentiment
	if sum < 0.99 || sum > 1.01 {
		return fmt.Errorf("dimension weights must sum to 1.0, got %.4f", sum)
	}
	return nil
}

// Overall combines the four dimension scores into a single 0-100 score,
// rounded to two decimal places.
func (w Weights) Overall(d DimensionDetails) float64 {
	score := d.Fundamental.Score*w.Fundamental +
		d.Technical.Score*w.Technical +
		d.Momentum.Score*w.Momentum +
		d.Sentiment.Score*w.Sentiment
	return roundTo(score, 2)
}

// Classify maps an overall score onto a discrete recommendation.
// Bands are inclusive on their lower bound.
func Classify(overallScore float64) Recommendation {
	switch {
	case overallScore >= 80:
		return StrongBuy
	case overallScore >= 65:
		return Buy
	case overallScore >= 35:
		return Hold
	case overallScore >= 20:
		return Sell
	default:
		return StrongSell
	}
}

// TargetPrice projects a target from the current price, the overall
// score band and the P/E ratio. Returns nil when no current price is
// available.
func TargetPrice(currentPrice float64, f FundamentalSnapshot, overallScore float64) *float64 {
	if currentPrice == 0 {
		return nil
	}

	var multiplier float64
	switch {
	case overallScore >= 80:
		multiplier = 1.25 // 25% upside
	case overallScore >= 65:
		multiplier = 1.15 // 15% upside
	case overallScore >= 35:
		multiplier = 1.05 // 5% upside
	case overallScore >= 20:
		multiplier = 0.95 // 5% downside
	default:
		multiplier = 0.85 // 15% downside
	}

	// P/E adjustments are independent and multiplicative
	if f.PERatio != nil && *f.PERatio > 0 {
		if *f.PERatio < 15 {
			multiplier *= 1.05
		} else if *f.PERatio > 30 {
			multiplier *= 0.95
		}
	}

	target := roundTo(currentPrice*multiplier, 2)
	return &target
}

// meanFactors averages the sub-scores of a factor map.
func meanFactors(factors map[string]float64) float64 {
	values := make([]float64, 0, len(factors))
	for _, v := range factors {
		values = append(values, v)
	}
	return stat.Mean(values, nil)
}

// roundTo rounds to the given number of decimal places.
func roundTo(v float64, places int) float64 {
	shift := math.Pow(10, float64(places))
	return math.Round(v*shift) / shift
}
