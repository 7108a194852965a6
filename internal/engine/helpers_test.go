package engine

import (
	"time"

	"github.com/ksfraser/stock-analysis/pkg/logger"
)

// testLogger discards output; scorer behavior is what's under test.
func testLogger() *logger.Logger {
	return logger.Nop()
}

// flatSeries builds n bars at a constant price and volume.
func flatSeries(n int, price float64, volume int64) PriceSeries {
	return trendSeries(n, price, 0, volume)
}

// trendSeries builds n bars starting at `start` with the close moving
// by `step` each bar. Dates ascend one day at a time.
func trendSeries(n int, start, step float64, volume int64) PriceSeries {
	base := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)

	series := make(PriceSeries, n)
	for i := 0; i < n; i++ {
		close := start + step*float64(i)
		series[i] = PriceBar{
			Date:   base.AddDate(0, 0, i),
			Open:   close - step,
			High:   close + 1,
			Low:    close - 1,
			Close:  close,
			Volume: volume,
		}
	}
	return series
}

// zigzagSeries alternates between two closes, producing large daily
// swings for volatility-sensitive tests.
func zigzagSeries(n int, low, high float64, volume int64) PriceSeries {
	base := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)

	series := make(PriceSeries, n)
	for i := 0; i < n; i++ {
		close := low
		if i%2 == 1 {
			close = high
		}
		series[i] = PriceBar{
			Date:   base.AddDate(0, 0, i),
			Open:   close,
			High:   high,
			Low:    low,
			Close:  close,
			Volume: volume,
		}
	}
	return series
}

func fptr(v float64) *float64 { return &v }

func sptr(v string) *string { return &v }
