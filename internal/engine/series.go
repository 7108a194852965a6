package engine

import (
	"math"

	talib "github.com/markcheno/go-talib"
	"gonum.org/v1/gonum/stat"
)

// tradingDaysPerYear is used to annualize daily return volatility.
const tradingDaysPerYear = 252

// Closes returns the close prices in chronological order.
func (s PriceSeries) Closes() []float64 {
	out := make([]float64, len(s))
	for i, b := range s {
		out[i] = b.Close
	}
	return out
}

// LastClose returns the most recent close price, or 0 for an empty series.
func (s PriceSeries) LastClose() float64 {
	if len(s) == 0 {
		return 0
	}
	return s[len(s)-1].Close
}

// Return computes the trailing percentage return over the given number
// of bars. The base price is the close `bars` bars before the latest.
func (s PriceSeries) Return(bars int) (float64, bool) {
	if len(s) < bars || bars < 1 {
		return 0, false
	}

	base := s[len(s)-bars].Close
	if base == 0 {
		return 0, false
	}

	return (s.LastClose() - base) / base * 100, true
}

// DailyReturns computes the day-over-day fractional returns.
func (s PriceSeries) DailyReturns() []float64 {
	if len(s) < 2 {
		return nil
	}

	out := make([]float64, 0, len(s)-1)
	for i := 1; i < len(s); i++ {
		prev := s[i-1].Close
		if prev == 0 {
			continue
		}
		out = append(out, (s[i].Close-prev)/prev)
	}
	return out
}

// AnnualizedVolatility computes the annualized standard deviation of
// daily returns over the trailing `bars` bars, as a fraction
// (0.25 == 25% annualized).
func (s PriceSeries) AnnualizedVolatility(bars int) (float64, bool) {
	if len(s) < bars {
		return 0, false
	}

	returns := s.DailyReturns()
	if len(returns) > bars {
		returns = returns[len(returns)-bars:]
	}
	if len(returns) < 2 {
		return 0, false
	}

	return stat.StdDev(returns, nil) * math.Sqrt(tradingDaysPerYear), true
}

// AverageVolume returns the mean volume over the trailing `bars` bars.
func (s PriceSeries) AverageVolume(bars int) float64 {
	if len(s) == 0 {
		return 0
	}
	if bars > len(s) {
		bars = len(s)
	}

	var sum int64
	for _, b := range s[len(s)-bars:] {
		sum += b.Volume
	}
	return float64(sum) / float64(bars)
}

// VolumeRatio compares recent average volume to a longer baseline.
func (s PriceSeries) VolumeRatio(short, long int) (float64, bool) {
	if len(s) < long {
		return 0, false
	}

	baseline := s.AverageVolume(long)
	if baseline == 0 {
		return 0, false
	}

	return s.AverageVolume(short) / baseline, true
}

// PositiveDayRatio returns the fraction of up days over the trailing
// `bars` daily returns.
func (s PriceSeries) PositiveDayRatio(bars int) (float64, bool) {
	if len(s) < bars+1 {
		return 0, false
	}

	returns := s.DailyReturns()
	if len(returns) < bars {
		return 0, false
	}

	positive := 0
	for _, r := range returns[len(returns)-bars:] {
		if r > 0 {
			positive++
		}
	}
	return float64(positive) / float64(bars), true
}

// SMA returns the simple moving average over the trailing window.
func (s PriceSeries) SMA(window int) (float64, bool) {
	if len(s) < window || window < 1 {
		return 0, false
	}

	sma := talib.Sma(s.Closes(), window)
	return sma[len(sma)-1], true
}

// RSI computes a Wilder-style relative strength index over the trailing
// `period` price changes, bounded [0, 100]. Returns false when the
// window is unavailable or the series shows no movement at all (the
// oscillator is undefined on a flat window).
func (s PriceSeries) RSI(period int) (float64, bool) {
	if len(s) < period+1 {
		return 0, false
	}

	var gains, losses float64
	for i := len(s) - period; i < len(s); i++ {
		change := s[i].Close - s[i-1].Close
		if change > 0 {
			gains += change
		} else {
			losses += -change
		}
	}

	if gains == 0 && losses == 0 {
		return 0, false
	}
	if losses == 0 {
		return 100, true
	}

	rs := (gains / float64(period)) / (losses / float64(period))
	return 100 - (100 / (1 + rs)), true
}

// MACDHist returns the latest and previous MACD histogram values
// (12/26 EMA differential against its 9-period signal line).
func (s PriceSeries) MACDHist() (current, previous float64, ok bool) {
	// 26-period slow EMA plus 9-period signal lookback
	if len(s) < 36 {
		return 0, 0, false
	}

	_, _, hist := talib.Macd(s.Closes(), 12, 26, 9)
	return hist[len(hist)-1], hist[len(hist)-2], true
}

// BollingerPosition returns the position of the latest close within
// 20-period, 2-sigma Bollinger bands: 0 at the lower band, 1 at the
// upper. Returns false when the bands collapse (zero width).
func (s PriceSeries) BollingerPosition() (float64, bool) {
	if len(s) < 20 {
		return 0, false
	}

	upper, _, lower := talib.BBands(s.Closes(), 20, 2.0, 2.0, talib.SMA)
	u, l := upper[len(upper)-1], lower[len(lower)-1]
	if u == l {
		return 0, false
	}

	return (s.LastClose() - l) / (u - l), true
}
