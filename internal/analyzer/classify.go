package analyzer

import (
	"math"

	"marketmirror/internal/indicator"
	"marketmirror/pkg/model"
)

// ClassifyTrend determines the primary trend direction. When indicators are
// available the threshold ladder below is checked in priority order (first
// match wins); otherwise classification falls back to price change alone.
func ClassifyTrend(asset *model.Asset) model.TrendDirection {
	pc := asset.PriceChangePct

	if len(asset.Indicators) > 0 {
		momentum := asset.Indicators.GetOr(indicator.Momentum5d, 0)
		rsi := asset.Indicators.GetOr(indicator.RSI14, 50)

		switch {
		case pc > 3 && momentum > 5 && rsi > 60:
			return model.TrendStrongBullish
		case pc > 1 || (momentum > 2 && rsi > 55):
			return model.TrendBullish
		case pc < -3 && momentum < -5 && rsi < 40:
			return model.TrendStrongBearish
		case pc < -1 || (momentum < -2 && rsi < 45):
			return model.TrendBearish
		}
	}

	switch {
	case pc > 2:
		return model.TrendBullish
	case pc < -2:
		return model.TrendBearish
	default:
		return model.TrendNeutral
	}
}

// ClassifyStrength grades the current trend. The strong and moderate tiers
// require indicators; without them evaluation skips to the price-only tiers.
func ClassifyStrength(asset *model.Asset) model.TrendStrength {
	pc := math.Abs(asset.PriceChangePct)

	if len(asset.Indicators) > 0 {
		volatility := asset.Indicators.GetOr(indicator.Volatility, 0)
		momentum := math.Abs(asset.Indicators.GetOr(indicator.Momentum5d, 0))

		if pc > 5 && volatility < 10 && momentum > 5 {
			return model.StrengthStrong
		}
		if pc > 2 && volatility < 15 {
			return model.StrengthModerate
		}
	}

	if pc > 1 {
		return model.StrengthWeak
	}
	return model.StrengthVeryWeak
}

// Risk factor names accumulated by ClassifyRisk
const (
	factorHighVolatility     = "high_volatility"
	factorModerateVolatility = "moderate_volatility"
	factorHighPriceMovement  = "high_price_movement"
)

// ClassifyRisk grades per-asset risk from accumulated risk factors.
// A high_volatility factor alone forces high risk regardless of count.
func ClassifyRisk(asset *model.Asset) model.RiskLevel {
	var factors []string

	if len(asset.Indicators) > 0 {
		volatility := asset.Indicators.GetOr(indicator.Volatility, 0)
		if volatility > 20 {
			factors = append(factors, factorHighVolatility)
		} else if volatility > 10 {
			factors = append(factors, factorModerateVolatility)
		}
	}

	if math.Abs(asset.PriceChangePct) > 10 {
		factors = append(factors, factorHighPriceMovement)
	}

	highVol := false
	for _, f := range factors {
		if f == factorHighVolatility {
			highVol = true
		}
	}

	switch {
	case highVol || len(factors) >= 2:
		return model.RiskHigh
	case len(factors) == 1:
		return model.RiskMedium
	default:
		return model.RiskLow
	}
}

// SentimentScore blends price change, RSI extremes, momentum, and volume
// presence into a continuous [0,1] score starting from a neutral 0.5.
func SentimentScore(asset *model.Asset) float64 {
	score := 0.5

	score += (asset.PriceChangePct / 100) * 0.3

	if len(asset.Indicators) > 0 {
		rsi := asset.Indicators.GetOr(indicator.RSI14, 50)
		if rsi > 70 {
			score += 0.1
		} else if rsi < 30 {
			score -= 0.1
		}

		momentum := asset.Indicators.GetOr(indicator.Momentum5d, 0)
		score += (momentum / 100) * 0.2
	}

	if asset.Volume > 0 {
		score += 0.05
	}

	return math.Max(0, math.Min(1, score))
}

// FindSupportResistance derives nearest support/resistance levels from the
// last 20 history points. Resistance is the lowest price at least 2% above
// current, support the highest price at least 2% below; each falls back to
// the window extreme when no price qualifies. Needs at least 10 points.
func FindSupportResistance(asset *model.Asset) *model.SupportResistance {
	if len(asset.History) < 10 {
		return nil
	}

	window := asset.History
	if len(window) > 20 {
		window = window[len(window)-20:]
	}
	prices := indicator.FromHistory(window)
	if len(prices) < 10 {
		return nil
	}

	current := asset.CurrentPrice
	if current == 0 {
		current = prices[len(prices)-1]
	}

	recentHigh := prices[0]
	recentLow := prices[0]
	for _, p := range prices {
		if p > recentHigh {
			recentHigh = p
		}
		if p < recentLow {
			recentLow = p
		}
	}

	resistance := recentHigh
	foundResistance := false
	for _, p := range prices {
		if p >= current*1.02 && (!foundResistance || p < resistance) {
			resistance = p
			foundResistance = true
		}
	}

	support := recentLow
	foundSupport := false
	for _, p := range prices {
		if p <= current*0.98 && (!foundSupport || p > support) {
			support = p
			foundSupport = true
		}
	}

	return &model.SupportResistance{
		NearestResistance: resistance,
		NearestSupport:    support,
		RecentHigh:        recentHigh,
		RecentLow:         recentLow,
	}
}
