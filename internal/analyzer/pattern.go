package analyzer

import (
	"marketmirror/internal/indicator"
	"marketmirror/pkg/model"
)

// PatternCategory groups patterns by the direction they suggest
type PatternCategory string

const (
	CategoryBullish PatternCategory = "bullish"
	CategoryBearish PatternCategory = "bearish"
	CategoryNeutral PatternCategory = "neutral"
)

// Condition is a closed numeric interval applied to a named field. The
// special fields price_vs_sma_20 (ratio of current price to sma_20) and
// volume_surge (boolean flag) are handled separately during matching.
type Condition struct {
	Field string
	Lo    float64
	Hi    float64
}

// Pattern is a named set of conditions that must all hold to match
type Pattern struct {
	Name       string
	Category   PatternCategory
	Conditions []Condition
}

const (
	fieldPriceChangePct = "price_change_percentage"
	fieldPriceVsSMA20   = "price_vs_sma_20"
	fieldVolumeSurge    = "volume_surge"
)

// patternTable is the fixed rule table, loaded once at startup and never
// mutated afterwards, so it is safe to share across concurrent readers.
var patternTable = []Pattern{
	{Name: "Strong Uptrend", Category: CategoryBullish, Conditions: []Condition{
		{Field: indicator.Momentum5d, Lo: 5, Hi: 100},
		{Field: indicator.RSI14, Lo: 50, Hi: 70},
	}},
	{Name: "Breakout", Category: CategoryBullish, Conditions: []Condition{
		{Field: fieldPriceVsSMA20, Lo: 1.05, Hi: 2.0},
	}},
	{Name: "Recovery Rally", Category: CategoryBullish, Conditions: []Condition{
		{Field: fieldPriceChangePct, Lo: 3, Hi: 15},
		{Field: indicator.Volatility, Lo: 0, Hi: 10},
	}},
	{Name: "Strong Downtrend", Category: CategoryBearish, Conditions: []Condition{
		{Field: indicator.Momentum5d, Lo: -100, Hi: -5},
		{Field: indicator.RSI14, Lo: 30, Hi: 50},
	}},
	{Name: "Breakdown", Category: CategoryBearish, Conditions: []Condition{
		{Field: fieldPriceVsSMA20, Lo: 0.5, Hi: 0.95},
	}},
	{Name: "Selloff", Category: CategoryBearish, Conditions: []Condition{
		{Field: fieldPriceChangePct, Lo: -20, Hi: -5},
		{Field: fieldVolumeSurge},
	}},
	{Name: "Sideways Consolidation", Category: CategoryNeutral, Conditions: []Condition{
		{Field: indicator.Volatility, Lo: 0, Hi: 5},
		{Field: indicator.Momentum5d, Lo: -2, Hi: 2},
	}},
	{Name: "Range Bound", Category: CategoryNeutral, Conditions: []Condition{
		{Field: indicator.RSI14, Lo: 40, Hi: 60},
		{Field: fieldPriceChangePct, Lo: -2, Hi: 2},
	}},
}

// DetectPatterns returns every pattern the asset matches across all
// categories. Contradictory matches are accepted, not deduplicated.
// Assets without computed indicators match nothing.
func DetectPatterns(asset *model.Asset) []string {
	if len(asset.Indicators) == 0 {
		return nil
	}

	var matched []string
	for _, p := range patternTable {
		if matchesPattern(asset, p) {
			matched = append(matched, p.Name)
		}
	}
	return matched
}

// matchesPattern reports whether every condition of the pattern holds.
// A missing required indicator fails its condition, failing the pattern.
func matchesPattern(asset *model.Asset, p Pattern) bool {
	for _, c := range p.Conditions {
		switch c.Field {
		case fieldPriceChangePct:
			v := asset.PriceChangePct
			if v < c.Lo || v > c.Hi {
				return false
			}

		case fieldPriceVsSMA20:
			sma20, ok := asset.Indicators.Get(indicator.SMA20)
			if !ok || sma20 == 0 {
				return false
			}
			ratio := asset.CurrentPrice / sma20
			if ratio < c.Lo || ratio > c.Hi {
				return false
			}

		case fieldVolumeSurge:
			// Volume surge detection needs a historical volume baseline that
			// the ingestion layer does not supply; the condition currently
			// matches unconditionally. Known limitation.
			continue

		default:
			v, ok := asset.Indicators.Get(c.Field)
			if !ok {
				return false
			}
			if v < c.Lo || v > c.Hi {
				return false
			}
		}
	}
	return true
}
