package analyzer

import (
	"testing"
	"time"

	"marketmirror/internal/indicator"
	"marketmirror/pkg/model"
)

func assetWith(pc float64, ind model.Indicators) *model.Asset {
	return &model.Asset{
		Symbol:         "TEST",
		CurrentPrice:   100,
		PriceChangePct: pc,
		Indicators:     ind,
	}
}

func TestClassifyTrend(t *testing.T) {
	tests := []struct {
		name string
		pc   float64
		ind  model.Indicators
		want model.TrendDirection
	}{
		{
			name: "tier one wins over tier two",
			pc:   4,
			ind:  model.Indicators{indicator.Momentum5d: 6, indicator.RSI14: 65},
			want: model.TrendStrongBullish,
		},
		{
			name: "bullish on price change alone",
			pc:   1.5,
			ind:  model.Indicators{indicator.Momentum5d: 0, indicator.RSI14: 50},
			want: model.TrendBullish,
		},
		{
			name: "bullish on momentum and rsi",
			pc:   0.5,
			ind:  model.Indicators{indicator.Momentum5d: 3, indicator.RSI14: 58},
			want: model.TrendBullish,
		},
		{
			name: "strong bearish",
			pc:   -4,
			ind:  model.Indicators{indicator.Momentum5d: -6, indicator.RSI14: 35},
			want: model.TrendStrongBearish,
		},
		{
			name: "bearish on price change",
			pc:   -1.5,
			ind:  model.Indicators{indicator.Momentum5d: 0, indicator.RSI14: 50},
			want: model.TrendBearish,
		},
		{
			name: "neutral with indicators",
			pc:   0.2,
			ind:  model.Indicators{indicator.Momentum5d: 0.5, indicator.RSI14: 50},
			want: model.TrendNeutral,
		},
		{
			name: "no indicators falls back to price only",
			pc:   2.5,
			ind:  nil,
			want: model.TrendBullish,
		},
		{
			name: "no indicators neutral band",
			pc:   1.5,
			ind:  nil,
			want: model.TrendNeutral,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClassifyTrend(assetWith(tt.pc, tt.ind))
			if got != tt.want {
				t.Errorf("Expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestClassifyStrength(t *testing.T) {
	tests := []struct {
		name string
		pc   float64
		ind  model.Indicators
		want model.TrendStrength
	}{
		{
			name: "strong",
			pc:   6,
			ind:  model.Indicators{indicator.Volatility: 8, indicator.Momentum5d: 7},
			want: model.StrengthStrong,
		},
		{
			name: "moderate",
			pc:   3,
			ind:  model.Indicators{indicator.Volatility: 12, indicator.Momentum5d: 1},
			want: model.StrengthModerate,
		},
		{
			name: "weak without indicators",
			pc:   1.5,
			ind:  nil,
			want: model.StrengthWeak,
		},
		{
			name: "very weak",
			pc:   0.5,
			ind:  nil,
			want: model.StrengthVeryWeak,
		},
		{
			name: "high volatility blocks strong tier",
			pc:   6,
			ind:  model.Indicators{indicator.Volatility: 18, indicator.Momentum5d: 7},
			want: model.StrengthWeak,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClassifyStrength(assetWith(tt.pc, tt.ind))
			if got != tt.want {
				t.Errorf("Expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestClassifyRisk(t *testing.T) {
	tests := []struct {
		name string
		pc   float64
		ind  model.Indicators
		want model.RiskLevel
	}{
		{
			name: "high volatility alone forces high",
			pc:   0,
			ind:  model.Indicators{indicator.Volatility: 25},
			want: model.RiskHigh,
		},
		{
			name: "two factors force high",
			pc:   12,
			ind:  model.Indicators{indicator.Volatility: 15},
			want: model.RiskHigh,
		},
		{
			name: "single moderate factor is medium",
			pc:   0,
			ind:  model.Indicators{indicator.Volatility: 15},
			want: model.RiskMedium,
		},
		{
			name: "large move alone is medium",
			pc:   12,
			ind:  model.Indicators{indicator.Volatility: 5},
			want: model.RiskMedium,
		},
		{
			name: "calm asset is low",
			pc:   1,
			ind:  model.Indicators{indicator.Volatility: 5},
			want: model.RiskLow,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClassifyRisk(assetWith(tt.pc, tt.ind))
			if got != tt.want {
				t.Errorf("Expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestSentimentScoreClamps(t *testing.T) {
	// Extreme positive inputs saturate at 1
	bull := assetWith(200, model.Indicators{indicator.RSI14: 80, indicator.Momentum5d: 100})
	bull.Volume = 1000000
	if got := SentimentScore(bull); got != 1 {
		t.Errorf("Expected sentiment clamped to 1, got %f", got)
	}

	// Extreme negative inputs saturate at 0
	bear := assetWith(-200, model.Indicators{indicator.RSI14: 20, indicator.Momentum5d: -100})
	if got := SentimentScore(bear); got != 0 {
		t.Errorf("Expected sentiment clamped to 0, got %f", got)
	}

	// Neutral asset without volume stays at the baseline
	flat := assetWith(0, model.Indicators{indicator.RSI14: 50, indicator.Momentum5d: 0})
	if got := SentimentScore(flat); got != 0.5 {
		t.Errorf("Expected baseline sentiment 0.5, got %f", got)
	}
}

func historyOf(prices ...float64) []model.PricePoint {
	start := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	points := make([]model.PricePoint, 0, len(prices))
	for i, p := range prices {
		points = append(points, model.PricePoint{Date: start.AddDate(0, 0, i), Price: p})
	}
	return points
}

func TestFindSupportResistance(t *testing.T) {
	asset := &model.Asset{
		Symbol:       "TEST",
		CurrentPrice: 100,
		History:      historyOf(90, 92, 94, 96, 98, 100, 103, 105, 99, 100),
	}

	levels := FindSupportResistance(asset)
	if levels == nil {
		t.Fatal("Expected support/resistance levels, got nil")
	}

	// Lowest price at least 2% above current (>=102): 103
	if levels.NearestResistance != 103 {
		t.Errorf("Expected resistance 103, got %f", levels.NearestResistance)
	}
	// Highest price at least 2% below current (<=98): 98
	if levels.NearestSupport != 98 {
		t.Errorf("Expected support 98, got %f", levels.NearestSupport)
	}
	if levels.RecentHigh != 105 || levels.RecentLow != 90 {
		t.Errorf("Expected window extremes 105/90, got %f/%f", levels.RecentHigh, levels.RecentLow)
	}
}

func TestFindSupportResistanceShortHistory(t *testing.T) {
	asset := &model.Asset{
		Symbol:       "TEST",
		CurrentPrice: 100,
		History:      historyOf(99, 100, 101),
	}
	if levels := FindSupportResistance(asset); levels != nil {
		t.Errorf("Expected nil on short history, got %+v", levels)
	}
}

func TestFindSupportResistanceFallbacks(t *testing.T) {
	// Every price within 2% of current, both sides fall back to extremes
	asset := &model.Asset{
		Symbol:       "TEST",
		CurrentPrice: 100,
		History:      historyOf(99, 100, 101, 99.5, 100.5, 99, 101, 100, 99.5, 100.5),
	}

	levels := FindSupportResistance(asset)
	if levels == nil {
		t.Fatal("Expected levels, got nil")
	}
	if levels.NearestResistance != 101 {
		t.Errorf("Expected resistance fallback to window max 101, got %f", levels.NearestResistance)
	}
	if levels.NearestSupport != 99 {
		t.Errorf("Expected support fallback to window min 99, got %f", levels.NearestSupport)
	}
}
