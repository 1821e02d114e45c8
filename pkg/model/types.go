package model

import "time"

// PricePoint represents a single point of an asset's price history
type PricePoint struct {
	Date   time.Time `json:"date"`
	Price  float64   `json:"price"`
	Volume float64   `json:"volume,omitempty"`
}

// Indicators maps indicator names (sma_20, rsi, ...) to computed values.
// An absent key means insufficient history, not zero.
type Indicators map[string]float64

// Get returns the named indicator and whether it was computed
func (ind Indicators) Get(name string) (float64, bool) {
	if ind == nil {
		return 0, false
	}
	v, ok := ind[name]
	return v, ok
}

// GetOr returns the named indicator or the fallback when absent
func (ind Indicators) GetOr(name string, fallback float64) float64 {
	if v, ok := ind.Get(name); ok {
		return v
	}
	return fallback
}

// Asset is a point-in-time snapshot of one tracked asset.
// Snapshots are immutable once produced; each analysis run builds new ones.
type Asset struct {
	Symbol         string       `json:"symbol"`
	Name           string       `json:"name"`
	CurrentPrice   float64      `json:"current_price"`
	PriceChange    float64      `json:"price_change"`
	PriceChangePct float64      `json:"price_change_percentage"`
	Volume         float64      `json:"volume"`
	MarketCap      float64      `json:"market_cap,omitempty"`
	High24h        float64      `json:"high_24h,omitempty"`
	Low24h         float64      `json:"low_24h,omitempty"`
	Indicators     Indicators   `json:"technical_indicators,omitempty"`
	History        []PricePoint `json:"history"`
	LastUpdated    time.Time    `json:"last_updated"`
}

// TrendDirection classifies the primary price trend
type TrendDirection string

const (
	TrendStrongBullish TrendDirection = "strong_bullish"
	TrendBullish       TrendDirection = "bullish"
	TrendNeutral       TrendDirection = "neutral"
	TrendBearish       TrendDirection = "bearish"
	TrendStrongBearish TrendDirection = "strong_bearish"
)

// TrendStrength grades how pronounced the current trend is
type TrendStrength string

const (
	StrengthStrong   TrendStrength = "strong"
	StrengthModerate TrendStrength = "moderate"
	StrengthWeak     TrendStrength = "weak"
	StrengthVeryWeak TrendStrength = "very_weak"
)

// RiskLevel grades asset or market risk
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// Confidence grades how strongly a recommendation is held
type Confidence string

const (
	ConfidenceLow    Confidence = "low"
	ConfidenceMedium Confidence = "medium"
	ConfidenceHigh   Confidence = "high"
)

// MarketSentiment is the market-wide mood derived from average price change
type MarketSentiment string

const (
	SentimentBullish MarketSentiment = "bullish"
	SentimentBearish MarketSentiment = "bearish"
	SentimentNeutral MarketSentiment = "neutral"
)

// SupportResistance holds the nearest price levels derived from recent history
type SupportResistance struct {
	NearestResistance float64 `json:"nearest_resistance"`
	NearestSupport    float64 `json:"nearest_support"`
	RecentHigh        float64 `json:"recent_high"`
	RecentLow         float64 `json:"recent_low"`
}

// AssetAnalysis is the full classification of a single asset snapshot
type AssetAnalysis struct {
	Symbol            string             `json:"symbol"`
	Name              string             `json:"name"`
	CurrentPrice      float64            `json:"current_price"`
	PriceChangePct    float64            `json:"price_change_pct"`
	TrendDirection    TrendDirection     `json:"trend_direction"`
	Patterns          []string           `json:"pattern_detected"`
	Strength          TrendStrength      `json:"strength"`
	SupportResistance *SupportResistance `json:"support_resistance,omitempty"`
	SentimentScore    float64            `json:"sentiment_score"`
	RiskLevel         RiskLevel          `json:"risk_level"`
	Summary           string             `json:"summary"`
}

// MarketOverview aggregates market-wide statistics for one analysis run
type MarketOverview struct {
	TotalAssets       int             `json:"total_assets"`
	AverageChange     float64         `json:"average_change"`
	MedianChange      float64         `json:"median_change"`
	Volatility        float64         `json:"volatility"` // stdev of price changes
	Gainers           int             `json:"gainers"`
	Losers            int             `json:"losers"`
	Unchanged         int             `json:"unchanged"`
	Sentiment         MarketSentiment `json:"sentiment"`
	SentimentStrength string          `json:"sentiment_strength"`
	Momentum          float64         `json:"momentum"`
}

// PerformerStat names an asset with its price change
type PerformerStat struct {
	Symbol string  `json:"symbol"`
	Change float64 `json:"change"`
}

// StabilityStat names an asset with its volatility
type StabilityStat struct {
	Symbol     string  `json:"symbol"`
	Volatility float64 `json:"volatility"`
}

// ComparativeAnalysis ranks assets against each other
type ComparativeAnalysis struct {
	BestPerformer  PerformerStat `json:"best_performer"`
	WorstPerformer PerformerStat `json:"worst_performer"`
	MostStable     StabilityStat `json:"most_stable"`
	MostVolatile   StabilityStat `json:"most_volatile"`
}

// RiskAssessment summarizes overall market risk
type RiskAssessment struct {
	OverallRiskLevel  RiskLevel `json:"overall_risk_level"`
	AverageVolatility float64   `json:"average_volatility"`
	PriceDispersion   float64   `json:"price_dispersion"`
	RiskFactors       []string  `json:"risk_factors"`
}

// RecommendationScope distinguishes market-wide, per-asset, and risk entries
type RecommendationScope string

const (
	ScopeMarket RecommendationScope = "market_strategy"
	ScopeAsset  RecommendationScope = "asset_specific"
	ScopeRisk   RecommendationScope = "risk_management"
)

// Action is a discrete recommendation action
type Action string

const (
	ActionAggressiveGrowth Action = "aggressive_growth"
	ActionDefensive        Action = "defensive"
	ActionStrongBuy        Action = "strong_buy"
	ActionBuy              Action = "buy"
	ActionSellOrAvoid      Action = "sell_or_avoid"
	ActionHold             Action = "hold"
	ActionReduceExposure   Action = "reduce_exposure"
)

// Recommendation is a single discrete recommendation record
type Recommendation struct {
	Scope            RecommendationScope `json:"type"`
	Symbol           string              `json:"symbol,omitempty"`
	Action           Action              `json:"action"`
	Confidence       Confidence          `json:"confidence"`
	Reasoning        string              `json:"reasoning"`
	TargetAllocation string              `json:"target_allocation,omitempty"`
}

// AnalysisResult is the complete output of one analysis run
type AnalysisResult struct {
	RunID               string               `json:"run_id"`
	Timestamp           time.Time            `json:"timestamp"`
	MarketOverview      *MarketOverview      `json:"market_overview"`
	IndividualAnalysis  []AssetAnalysis      `json:"individual_analysis"`
	ComparativeAnalysis *ComparativeAnalysis `json:"comparative_analysis,omitempty"`
	RiskAssessment      *RiskAssessment      `json:"risk_assessment"`
	Recommendations     []Recommendation     `json:"recommendations"`
}
