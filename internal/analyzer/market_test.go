package analyzer

import (
	"errors"
	"math"
	"strings"
	"testing"

	"marketmirror/internal/indicator"
	"marketmirror/pkg/model"
)

func TestAnalyzeEmptyInput(t *testing.T) {
	_, err := Analyze(nil)
	if !errors.Is(err, ErrNoData) {
		t.Errorf("Expected ErrNoData, got %v", err)
	}
}

func TestAnalyzeSkipsMalformedAssets(t *testing.T) {
	assets := []model.Asset{
		{Symbol: "GOOD", CurrentPrice: 100, PriceChangePct: 1},
		{Symbol: "BAD", CurrentPrice: 0},
	}

	result, err := Analyze(assets)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if len(result.IndividualAnalysis) != 1 {
		t.Fatalf("Expected 1 analysis, got %d", len(result.IndividualAnalysis))
	}
	if result.IndividualAnalysis[0].Symbol != "GOOD" {
		t.Errorf("Expected GOOD to survive, got %s", result.IndividualAnalysis[0].Symbol)
	}
	if result.RunID == "" {
		t.Error("Expected a run ID")
	}
}

func TestBuildMarketOverview(t *testing.T) {
	assets := []model.Asset{
		{Symbol: "A", CurrentPrice: 100, PriceChangePct: 4},
		{Symbol: "B", CurrentPrice: 100, PriceChangePct: 3},
		{Symbol: "C", CurrentPrice: 100, PriceChangePct: -1},
		{Symbol: "D", CurrentPrice: 100, PriceChangePct: 0},
	}

	ov := BuildMarketOverview(assets)

	if ov.TotalAssets != 4 {
		t.Errorf("Expected 4 assets, got %d", ov.TotalAssets)
	}
	if ov.Gainers != 2 || ov.Losers != 1 || ov.Unchanged != 1 {
		t.Errorf("Expected 2/1/1 gainers/losers/unchanged, got %d/%d/%d", ov.Gainers, ov.Losers, ov.Unchanged)
	}
	if ov.AverageChange != 1.5 {
		t.Errorf("Expected average change 1.5, got %f", ov.AverageChange)
	}
	if ov.MedianChange != 1.5 {
		t.Errorf("Expected median change 1.5, got %f", ov.MedianChange)
	}
	if ov.Sentiment != model.SentimentNeutral {
		t.Errorf("Expected neutral sentiment, got %s", ov.Sentiment)
	}
}

func TestMarketSentimentThresholds(t *testing.T) {
	tests := []struct {
		name     string
		changes  []float64
		want     model.MarketSentiment
		strength string
	}{
		{"strong bullish", []float64{6, 7}, model.SentimentBullish, "strong"},
		{"moderate bullish", []float64{3, 3}, model.SentimentBullish, "moderate"},
		{"strong bearish", []float64{-6, -7}, model.SentimentBearish, "strong"},
		{"moderate bearish", []float64{-3, -3}, model.SentimentBearish, "moderate"},
		{"neutral", []float64{1, -1}, model.SentimentNeutral, "weak"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var assets []model.Asset
			for _, c := range tt.changes {
				assets = append(assets, model.Asset{Symbol: "X", CurrentPrice: 100, PriceChangePct: c})
			}
			ov := BuildMarketOverview(assets)
			if ov.Sentiment != tt.want || ov.SentimentStrength != tt.strength {
				t.Errorf("Expected %s/%s, got %s/%s", tt.want, tt.strength, ov.Sentiment, ov.SentimentStrength)
			}
		})
	}
}

func TestCompareAssets(t *testing.T) {
	assets := []model.Asset{
		{Symbol: "A", CurrentPrice: 100, PriceChangePct: 4, Indicators: model.Indicators{indicator.Volatility: 2}},
		{Symbol: "B", CurrentPrice: 100, PriceChangePct: -3, Indicators: model.Indicators{indicator.Volatility: 9}},
		{Symbol: "C", CurrentPrice: 100, PriceChangePct: 1, Indicators: model.Indicators{indicator.Volatility: 5}},
	}

	comp := CompareAssets(assets)

	if comp.BestPerformer.Symbol != "A" {
		t.Errorf("Expected best performer A, got %s", comp.BestPerformer.Symbol)
	}
	if comp.WorstPerformer.Symbol != "B" {
		t.Errorf("Expected worst performer B, got %s", comp.WorstPerformer.Symbol)
	}
	if comp.MostStable.Symbol != "A" {
		t.Errorf("Expected most stable A, got %s", comp.MostStable.Symbol)
	}
	if comp.MostVolatile.Symbol != "B" {
		t.Errorf("Expected most volatile B, got %s", comp.MostVolatile.Symbol)
	}
}

func TestAssessMarketRisk(t *testing.T) {
	calm := []model.Asset{
		{Symbol: "A", CurrentPrice: 100, PriceChangePct: 1, Indicators: model.Indicators{indicator.Volatility: 3}},
		{Symbol: "B", CurrentPrice: 100, PriceChangePct: 2, Indicators: model.Indicators{indicator.Volatility: 4}},
	}
	if got := AssessMarketRisk(calm); got.OverallRiskLevel != model.RiskLow {
		t.Errorf("Expected low risk, got %s", got.OverallRiskLevel)
	}

	hot := []model.Asset{
		{Symbol: "A", CurrentPrice: 100, PriceChangePct: 8, Indicators: model.Indicators{indicator.Volatility: 20}},
		{Symbol: "B", CurrentPrice: 100, PriceChangePct: 9, Indicators: model.Indicators{indicator.Volatility: 18}},
	}
	risk := AssessMarketRisk(hot)
	if risk.OverallRiskLevel != model.RiskHigh {
		t.Errorf("Expected high risk, got %s", risk.OverallRiskLevel)
	}
	if !containsFactor(risk.RiskFactors, "widespread_high_volatility") {
		t.Errorf("Expected widespread_high_volatility factor, got %v", risk.RiskFactors)
	}
	if !containsFactor(risk.RiskFactors, "overheating_market") {
		t.Errorf("Expected overheating_market factor, got %v", risk.RiskFactors)
	}

	crash := []model.Asset{
		{Symbol: "A", CurrentPrice: 100, PriceChangePct: -6},
		{Symbol: "B", CurrentPrice: 100, PriceChangePct: -8},
	}
	if got := AssessMarketRisk(crash); !containsFactor(got.RiskFactors, "market_selloff") {
		t.Errorf("Expected market_selloff factor, got %v", got.RiskFactors)
	}
}

func containsFactor(factors []string, want string) bool {
	for _, f := range factors {
		if f == want {
			return true
		}
	}
	return false
}

func TestAssetSummaryText(t *testing.T) {
	tests := []struct {
		name string
		pc   float64
		want string
	}{
		{"surge", 6.3, "surged 6.3%"},
		{"gain", 2.1, "gained 2.1%"},
		{"plummet", -7.5, "plummeted 7.5%"},
		{"decline", -2.2, "declined 2.2%"},
		{"stable", 0.4, "remained relatively stable"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			analysis := &model.AssetAnalysis{
				Symbol:         "BTC",
				PriceChangePct: tt.pc,
				TrendDirection: model.TrendNeutral,
				RiskLevel:      model.RiskMedium,
			}
			got := assetSummary(analysis)
			if !strings.Contains(got, tt.want) {
				t.Errorf("Expected summary to contain %q, got %q", tt.want, got)
			}
			if !strings.HasPrefix(got, "BTC ") {
				t.Errorf("Expected summary to start with symbol, got %q", got)
			}
		})
	}
}

func TestAssetSummaryContext(t *testing.T) {
	analysis := &model.AssetAnalysis{
		Symbol:         "ETH",
		PriceChangePct: 6,
		TrendDirection: model.TrendStrongBullish,
		Patterns:       []string{"Strong Uptrend"},
		RiskLevel:      model.RiskLow,
	}
	got := assetSummary(analysis)

	for _, want := range []string{"showing strong momentum", "Pattern detected: Strong Uptrend.", "Risk profile appears manageable."} {
		if !strings.Contains(got, want) {
			t.Errorf("Expected summary to contain %q, got %q", want, got)
		}
	}
}

// Full pipeline over a 20-point ascending history with a known step size,
// so the trailing 10-point volatility has a closed form.
func TestAnalyzeAscendingHistory(t *testing.T) {
	const step = 250.0
	prices := make([]float64, 20)
	for i := range prices {
		prices[i] = 60250 + step*float64(i)
	}

	asset := model.Asset{
		Symbol:         "BTC",
		CurrentPrice:   65000,
		PriceChangePct: 5.2,
		History:        historyOf(prices...),
	}
	asset.Indicators = indicator.Compute(prices)

	if got := asset.Indicators[indicator.SMA20]; math.Abs(got-62625) > 1e-6 {
		t.Errorf("Expected sma_20 62625, got %f", got)
	}

	// Evenly spaced values: sample stdev = step * sqrt(n(n+1)/12), n=10
	wantVol := step * math.Sqrt(10*11.0/12.0)
	if got := asset.Indicators[indicator.Volatility]; math.Abs(got-wantVol) > 1e-6 {
		t.Errorf("Expected volatility %f, got %f", wantVol, got)
	}

	if got := asset.Indicators[indicator.Momentum5d]; got <= 0 {
		t.Errorf("Expected positive momentum, got %f", got)
	}
	if got := asset.Indicators[indicator.RSI14]; got != 100 {
		t.Errorf("Expected RSI 100 on ascending history, got %f", got)
	}

	analysis, err := AnalyzeAsset(&asset)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if analysis.TrendDirection != model.TrendBullish && analysis.TrendDirection != model.TrendStrongBullish {
		t.Errorf("Expected bullish trend, got %s", analysis.TrendDirection)
	}
}
