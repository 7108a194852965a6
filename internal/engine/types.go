package engine

import "time"

// Recommendation is the discrete trading recommendation derived from
// the overall score.
type Recommendation string

const (
	StrongBuy  Recommendation = "STRONG_BUY"
	Buy        Recommendation = "BUY"
	Hold       Recommendation = "HOLD"
	Sell       Recommendation = "SELL"
	StrongSell Recommendation = "STRONG_SELL"
)

// RiskLevel classifies the overall risk of a position.
type RiskLevel string

const (
	RiskLow      RiskLevel = "LOW"
	RiskMedium   RiskLevel = "MEDIUM"
	RiskHigh     RiskLevel = "HIGH"
	RiskVeryHigh RiskLevel = "VERY_HIGH"
)

// PriceBar is a single day's OHLCV record.
type PriceBar struct {
	Date   time.Time `json:"date"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume int64     `json:"volume"`
}

// PriceSeries is an ordered chronological sequence of price bars,
// ascending by date. Callers supply it already deduplicated and sorted;
// the engine only checks the length invariant.
type PriceSeries []PriceBar

// FundamentalSnapshot is a point-in-time set of financial ratios and
// descriptive fields for a security. Every field is independently
// optional; nil means the upstream provider had no value.
type FundamentalSnapshot struct {
	PERatio        *float64 `json:"pe_ratio,omitempty"`
	PriceToBook    *float64 `json:"price_to_book,omitempty"`
	ReturnOnEquity *float64 `json:"return_on_equity,omitempty"`
	DebtToEquity   *float64 `json:"debt_to_equity,omitempty"`
	ProfitMargin   *float64 `json:"profit_margin,omitempty"`
	RevenueGrowth  *float64 `json:"revenue_growth,omitempty"`
	CurrentRatio   *float64 `json:"current_ratio,omitempty"`
	MarketCap      *float64 `json:"market_cap,omitempty"`
	Sector         *string  `json:"sector,omitempty"`
	AnalystRating  *string  `json:"analyst_rating,omitempty"`
}

// DimensionScore is the output of one of the four independent scorers.
// Factors maps sub-metric name to its numeric sub-score; Notes carries
// qualitative strengths, weaknesses and signals.
type DimensionScore struct {
	Score   float64            `json:"score"`
	Factors map[string]float64 `json:"factors"`
	Notes   []string           `json:"notes,omitempty"`
}

// NeutralScore is the fallback when a dimension has no computable
// factors: 50.0 with an empty factor map, never a null score.
func NeutralScore() DimensionScore {
	return DimensionScore{
		Score:   50.0,
		Factors: map[string]float64{},
	}
}

// DimensionDetails groups the four dimension scores for traceability.
type DimensionDetails struct {
	Fundamental DimensionScore `json:"fundamental"`
	Technical   DimensionScore `json:"technical"`
	Momentum    DimensionScore `json:"momentum"`
	Sentiment   DimensionScore `json:"sentiment"`
}

// AnalysisResult is the immutable outcome of one analysis invocation.
// Exactly one result is produced per call; Error is set instead of a
// returned error so every invocation yields a well-formed record.
type AnalysisResult struct {
	Symbol     string    `json:"symbol"`
	ComputedAt time.Time `json:"computed_at"`

	OverallScore     float64 `json:"overall_score"`
	FundamentalScore float64 `json:"fundamental_score"`
	TechnicalScore   float64 `json:"technical_score"`
	MomentumScore    float64 `json:"momentum_score"`
	SentimentScore   float64 `json:"sentiment_score"`

	Recommendation Recommendation `json:"recommendation"`
	RiskLevel      RiskLevel      `json:"risk_level"`
	Confidence     float64        `json:"confidence"`
	TargetPrice    *float64       `json:"target_price"`
	CurrentPrice   float64        `json:"current_price"`

	Details DimensionDetails `json:"details"`
	Error   string           `json:"error,omitempty"`
}
