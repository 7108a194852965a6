package marketdata

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/ksfraser/stock-analysis/internal/engine"
	"github.com/ksfraser/stock-analysis/pkg/config"
	"github.com/ksfraser/stock-analysis/pkg/httputil"
	"github.com/ksfraser/stock-analysis/pkg/logger"
)

// YahooProvider fetches daily bars from the chart endpoint and
// fundamentals from the quoteSummary endpoint.
type YahooProvider struct {
	client  *httputil.Client
	baseURL string
	logger  *logger.Logger
}

// NewYahooProvider creates a Yahoo Finance provider
func NewYahooProvider(cfg *config.Config, client *httputil.Client, log *logger.Logger) *YahooProvider {
	return &YahooProvider{
		client:  client,
		baseURL: cfg.Providers.YahooBaseURL,
		logger:  log,
	}
}

// Name implements Provider
func (p *YahooProvider) Name() string {
	return "yahoo"
}

// chartResponse is the subset of the chart payload we consume.
type chartResponse struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []*float64 `json:"open"`
					High   []*float64 `json:"high"`
					Low    []*float64 `json:"low"`
					Close  []*float64 `json:"close"`
					Volume []*int64   `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// PriceHistory implements Provider
func (p *YahooProvider) PriceHistory(ctx context.Context, symbol string, days int) (engine.PriceSeries, error) {
	endpoint := fmt.Sprintf("%s/v8/finance/chart/%s?range=%s&interval=1d",
		p.baseURL, url.PathEscape(symbol), rangeParam(days))

	resp, err := p.client.Get(ctx, endpoint)
	if err != nil {
		return nil, fmt.Errorf("yahoo chart request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrSymbolNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("yahoo chart returned status %d", resp.StatusCode)
	}

	var payload chartResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("yahoo chart decode failed: %w", err)
	}

	if payload.Chart.Error != nil {
		return nil, fmt.Errorf("yahoo chart error: %s", payload.Chart.Error.Description)
	}
	if len(payload.Chart.Result) == 0 || len(payload.Chart.Result[0].Indicators.Quote) == 0 {
		return nil, ErrSymbolNotFound
	}

	result := payload.Chart.Result[0]
	quote := result.Indicators.Quote[0]

	series := make(engine.PriceSeries, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		// Partially-traded days come back with null quote fields
		if i >= len(quote.Close) || quote.Close[i] == nil {
			continue
		}

		bar := engine.PriceBar{
			Date:  time.Unix(ts, 0).UTC().Truncate(24 * time.Hour),
			Close: *quote.Close[i],
		}
		if i < len(quote.Open) && quote.Open[i] != nil {
			bar.Open = *quote.Open[i]
		}
		if i < len(quote.High) && quote.High[i] != nil {
			bar.High = *quote.High[i]
		}
		if i < len(quote.Low) && quote.Low[i] != nil {
			bar.Low = *quote.Low[i]
		}
		if i < len(quote.Volume) && quote.Volume[i] != nil {
			bar.Volume = *quote.Volume[i]
		}
		series = append(series, bar)
	}

	if len(series) == 0 {
		return nil, ErrSymbolNotFound
	}

	p.logger.WithFields(map[string]interface{}{
		"symbol": symbol,
		"bars":   len(series),
	}).Debug("Fetched price history from Yahoo")

	return series, nil
}

// rawValue is Yahoo's number wrapper ({"raw": 1.23, "fmt": "1.23"}).
type rawValue struct {
	Raw *float64 `json:"raw"`
}

// quoteSummaryResponse is the subset of the quoteSummary payload we consume.
type quoteSummaryResponse struct {
	QuoteSummary struct {
		Result []struct {
			SummaryDetail *struct {
				TrailingPE rawValue `json:"trailingPE"`
				MarketCap  rawValue `json:"marketCap"`
			} `json:"summaryDetail"`
			FinancialData *struct {
				ReturnOnEquity    rawValue `json:"returnOnEquity"`
				DebtToEquity      rawValue `json:"debtToEquity"`
				ProfitMargins     rawValue `json:"profitMargins"`
				RevenueGrowth     rawValue `json:"revenueGrowth"`
				CurrentRatio      rawValue `json:"currentRatio"`
				RecommendationKey string   `json:"recommendationKey"`
			} `json:"financialData"`
			DefaultKeyStatistics *struct {
				PriceToBook rawValue `json:"priceToBook"`
			} `json:"defaultKeyStatistics"`
			AssetProfile *struct {
				Sector string `json:"sector"`
			} `json:"assetProfile"`
		} `json:"result"`
		Error *struct {
			Description string `json:"description"`
		} `json:"error"`
	} `json:"quoteSummary"`
}

// Fundamentals implements Provider
func (p *YahooProvider) Fundamentals(ctx context.Context, symbol string) (engine.FundamentalSnapshot, error) {
	endpoint := fmt.Sprintf("%s/v10/finance/quoteSummary/%s?modules=summaryDetail,financialData,defaultKeyStatistics,assetProfile",
		p.baseURL, url.PathEscape(symbol))

	var snapshot engine.FundamentalSnapshot

	resp, err := p.client.Get(ctx, endpoint)
	if err != nil {
		return snapshot, fmt.Errorf("yahoo quoteSummary request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return snapshot, ErrSymbolNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return snapshot, fmt.Errorf("yahoo quoteSummary returned status %d", resp.StatusCode)
	}

	var payload quoteSummaryResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return snapshot, fmt.Errorf("yahoo quoteSummary decode failed: %w", err)
	}

	if payload.QuoteSummary.Error != nil {
		return snapshot, fmt.Errorf("yahoo quoteSummary error: %s", payload.QuoteSummary.Error.Description)
	}
	if len(payload.QuoteSummary.Result) == 0 {
		return snapshot, ErrSymbolNotFound
	}

	result := payload.QuoteSummary.Result[0]

	if sd := result.SummaryDetail; sd != nil {
		snapshot.PERatio = sd.TrailingPE.Raw
		snapshot.MarketCap = sd.MarketCap.Raw
	}
	if fd := result.FinancialData; fd != nil {
		snapshot.ReturnOnEquity = fd.ReturnOnEquity.Raw
		snapshot.ProfitMargin = fd.ProfitMargins.Raw
		snapshot.RevenueGrowth = fd.RevenueGrowth.Raw
		snapshot.CurrentRatio = fd.CurrentRatio.Raw

		// Yahoo reports D/E as a percentage (e.g. 150.5 for 1.505)
		if fd.DebtToEquity.Raw != nil {
			de := *fd.DebtToEquity.Raw / 100
			snapshot.DebtToEquity = &de
		}

		if key := normalizeRecommendation(fd.RecommendationKey); key != "" {
			snapshot.AnalystRating = &key
		}
	}
	if ks := result.DefaultKeyStatistics; ks != nil {
		snapshot.PriceToBook = ks.PriceToBook.Raw
	}
	if ap := result.AssetProfile; ap != nil && ap.Sector != "" {
		sector := ap.Sector
		snapshot.Sector = &sector
	}

	p.logger.WithFields(map[string]interface{}{
		"symbol": symbol,
	}).Debug("Fetched fundamentals from Yahoo")

	return snapshot, nil
}

// normalizeRecommendation maps Yahoo recommendation keys onto the
// analyst rating labels the sentiment scorer understands.
func normalizeRecommendation(key string) string {
	switch key {
	case "strong_buy":
		return "STRONG_BUY"
	case "buy":
		return "BUY"
	case "hold":
		return "HOLD"
	case "sell", "underperform":
		return "SELL"
	case "strong_sell":
		return "STRONG_SELL"
	default:
		return ""
	}
}

// rangeParam maps a trailing day count onto the chart range buckets.
func rangeParam(days int) string {
	switch {
	case days <= 30:
		return "1mo"
	case days <= 90:
		return "3mo"
	case days <= 180:
		return "6mo"
	case days <= 365:
		return "1y"
	default:
		return "2y"
	}
}
