package marketdata

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/ksfraser/stock-analysis/internal/engine"
	"github.com/ksfraser/stock-analysis/pkg/config"
	"github.com/ksfraser/stock-analysis/pkg/httputil"
	"github.com/ksfraser/stock-analysis/pkg/logger"
)

// StooqProvider fetches daily bars from the Stooq CSV export. Stooq
// serves prices only, so fundamentals fall through to the next
// provider in the chain.
type StooqProvider struct {
	client  *httputil.Client
	baseURL string
	logger  *logger.Logger
}

// NewStooqProvider creates a Stooq provider
func NewStooqProvider(cfg *config.Config, client *httputil.Client, log *logger.Logger) *StooqProvider {
	return &StooqProvider{
		client:  client,
		baseURL: cfg.Providers.StooqBaseURL,
		logger:  log,
	}
}

// Name implements Provider
func (p *StooqProvider) Name() string {
	return "stooq"
}

// PriceHistory implements Provider
func (p *StooqProvider) PriceHistory(ctx context.Context, symbol string, days int) (engine.PriceSeries, error) {
	to := time.Now().UTC()
	from := to.AddDate(0, 0, -days)

	endpoint := fmt.Sprintf("%s/q/d/l/?s=%s&d1=%s&d2=%s&i=d",
		p.baseURL,
		url.QueryEscape(stooqSymbol(symbol)),
		from.Format("20060102"),
		to.Format("20060102"))

	resp, err := p.client.Get(ctx, endpoint)
	if err != nil {
		return nil, fmt.Errorf("stooq request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("stooq returned status %d", resp.StatusCode)
	}

	series, err := parseStooqCSV(resp.Body)
	if err != nil {
		return nil, err
	}
	if len(series) == 0 {
		return nil, ErrSymbolNotFound
	}

	p.logger.WithFields(map[string]interface{}{
		"symbol": symbol,
		"bars":   len(series),
	}).Debug("Fetched price history from Stooq")

	return series, nil
}

// Fundamentals implements Provider
func (p *StooqProvider) Fundamentals(ctx context.Context, symbol string) (engine.FundamentalSnapshot, error) {
	return engine.FundamentalSnapshot{}, ErrUnsupported
}

// stooqSymbol maps plain US tickers onto Stooq's suffix convention.
func stooqSymbol(symbol string) string {
	s := strings.ToLower(symbol)
	if strings.Contains(s, ".") {
		return s
	}
	return s + ".us"
}

// parseStooqCSV reads the Date,Open,High,Low,Close,Volume export.
func parseStooqCSV(r io.Reader) (engine.PriceSeries, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("stooq csv parse failed: %w", err)
	}
	if len(records) < 2 {
		return nil, nil
	}

	series := make(engine.PriceSeries, 0, len(records)-1)
	for _, rec := range records[1:] {
		if len(rec) < 5 {
			continue
		}

		date, err := time.Parse("2006-01-02", rec[0])
		if err != nil {
			continue
		}

		open, err1 := strconv.ParseFloat(rec[1], 64)
		high, err2 := strconv.ParseFloat(rec[2], 64)
		low, err3 := strconv.ParseFloat(rec[3], 64)
		close, err4 := strconv.ParseFloat(rec[4], 64)
		if err1 != nil || err2 != nil || err3 != nil || err4 != nil {
			continue
		}

		var volume int64
		if len(rec) > 5 && rec[5] != "" {
			// Some instruments export fractional volume
			v, err := strconv.ParseFloat(rec[5], 64)
			if err == nil {
				volume = int64(v)
			}
		}

		series = append(series, engine.PriceBar{
			Date:   date,
			Open:   open,
			High:   high,
			Low:    low,
			Close:  close,
			Volume: volume,
		})
	}

	return series, nil
}
