package marketdata

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/ksfraser/stock-analysis/internal/engine"
	"github.com/ksfraser/stock-analysis/pkg/config"
	"github.com/ksfraser/stock-analysis/pkg/httputil"
	"github.com/ksfraser/stock-analysis/pkg/logger"
)

// FinvizProvider scrapes the fundamentals snapshot table from a quote
// page. Finviz has no usable price history export, so that operation
// falls through to the next provider in the chain.
type FinvizProvider struct {
	client  *httputil.Client
	baseURL string
	logger  *logger.Logger
}

// NewFinvizProvider creates a Finviz provider
func NewFinvizProvider(cfg *config.Config, client *httputil.Client, log *logger.Logger) *FinvizProvider {
	return &FinvizProvider{
		client:  client,
		baseURL: cfg.Providers.FinvizBaseURL,
		logger:  log,
	}
}

// Name implements Provider
func (p *FinvizProvider) Name() string {
	return "finviz"
}

// PriceHistory implements Provider
func (p *FinvizProvider) PriceHistory(ctx context.Context, symbol string, days int) (engine.PriceSeries, error) {
	return nil, ErrUnsupported
}

// Fundamentals implements Provider
func (p *FinvizProvider) Fundamentals(ctx context.Context, symbol string) (engine.FundamentalSnapshot, error) {
	var snapshot engine.FundamentalSnapshot

	endpoint := fmt.Sprintf("%s/quote.ashx?t=%s", p.baseURL, url.QueryEscape(strings.ToUpper(symbol)))

	resp, err := p.client.Get(ctx, endpoint)
	if err != nil {
		return snapshot, fmt.Errorf("finviz request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return snapshot, ErrSymbolNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return snapshot, fmt.Errorf("finviz returned status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return snapshot, fmt.Errorf("finviz parse failed: %w", err)
	}

	// The snapshot table alternates label and value cells
	fields := make(map[string]string)
	var label string
	doc.Find("table.snapshot-table2 td").Each(func(i int, s *goquery.Selection) {
		text := strings.TrimSpace(s.Text())
		if i%2 == 0 {
			label = text
		} else if label != "" {
			fields[label] = text
		}
	})

	if len(fields) == 0 {
		return snapshot, ErrSymbolNotFound
	}

	snapshot.PERatio = parseFinvizNumber(fields["P/E"])
	snapshot.PriceToBook = parseFinvizNumber(fields["P/B"])
	snapshot.ReturnOnEquity = parseFinvizPercent(fields["ROE"])
	snapshot.DebtToEquity = parseFinvizNumber(fields["Debt/Eq"])
	snapshot.ProfitMargin = parseFinvizPercent(fields["Profit Margin"])
	snapshot.RevenueGrowth = parseFinvizPercent(fields["Sales Q/Q"])
	snapshot.CurrentRatio = parseFinvizNumber(fields["Current Ratio"])
	snapshot.MarketCap = parseFinvizMarketCap(fields["Market Cap"])

	if rating := recommendationFromRecom(fields["Recom"]); rating != "" {
		snapshot.AnalystRating = &rating
	}

	// Sector comes from the quote page's category links
	doc.Find("a.tab-link").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		href, ok := s.Attr("href")
		if ok && strings.Contains(href, "sec_") {
			sector := strings.TrimSpace(s.Text())
			if sector != "" {
				snapshot.Sector = &sector
			}
			return false
		}
		return true
	})

	p.logger.WithFields(map[string]interface{}{
		"symbol": symbol,
		"fields": len(fields),
	}).Debug("Fetched fundamentals from Finviz")

	return snapshot, nil
}

// parseFinvizNumber parses a plain numeric cell; "-" means no data.
func parseFinvizNumber(text string) *float64 {
	text = strings.TrimSpace(text)
	if text == "" || text == "-" {
		return nil
	}

	v, err := strconv.ParseFloat(strings.ReplaceAll(text, ",", ""), 64)
	if err != nil {
		return nil
	}
	return &v
}

// parseFinvizPercent parses a "12.34%" cell into a percentage value.
func parseFinvizPercent(text string) *float64 {
	return parseFinvizNumber(strings.TrimSuffix(strings.TrimSpace(text), "%"))
}

// parseFinvizMarketCap parses abbreviated market caps like "2.95T".
func parseFinvizMarketCap(text string) *float64 {
	text = strings.TrimSpace(text)
	if text == "" || text == "-" {
		return nil
	}

	multiplier := 1.0
	switch {
	case strings.HasSuffix(text, "T"):
		multiplier = 1e12
		text = strings.TrimSuffix(text, "T")
	case strings.HasSuffix(text, "B"):
		multiplier = 1e9
		text = strings.TrimSuffix(text, "B")
	case strings.HasSuffix(text, "M"):
		multiplier = 1e6
		text = strings.TrimSuffix(text, "M")
	case strings.HasSuffix(text, "K"):
		multiplier = 1e3
		text = strings.TrimSuffix(text, "K")
	}

	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return nil
	}

	mc := v * multiplier
	return &mc
}

// recommendationFromRecom maps the 1-5 consensus number onto an
// analyst rating label (1 is strongest buy).
func recommendationFromRecom(text string) string {
	v, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil {
		return ""
	}

	switch {
	case v <= 1.5:
		return "STRONG_BUY"
	case v <= 2.5:
		return "BUY"
	case v <= 3.5:
		return "HOLD"
	case v <= 4.5:
		return "SELL"
	default:
		return "STRONG_SELL"
	}
}
