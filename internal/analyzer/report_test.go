package analyzer

import (
	"strings"
	"testing"
	"time"

	"marketmirror/pkg/model"
)

func TestGenerateReport(t *testing.T) {
	result := &model.AnalysisResult{
		RunID:     "test-run",
		Timestamp: time.Date(2026, 8, 30, 10, 30, 0, 0, time.UTC),
		MarketOverview: &model.MarketOverview{
			TotalAssets:   3,
			AverageChange: 2.5,
			Gainers:       2,
			Losers:        1,
			Sentiment:     model.SentimentBullish,
		},
		IndividualAnalysis: []model.AssetAnalysis{
			{Symbol: "BTC", PriceChangePct: 5.5},
			{Symbol: "ETH", PriceChangePct: -1.2},
		},
		RiskAssessment: &model.RiskAssessment{
			OverallRiskLevel: model.RiskMedium,
			RiskFactors:      []string{"widespread_high_volatility"},
		},
		Recommendations: []model.Recommendation{
			{Scope: model.ScopeMarket, Action: model.ActionAggressiveGrowth},
			{Scope: model.ScopeAsset, Symbol: "BTC", Action: model.ActionBuy},
		},
	}

	report := GenerateReport(result)

	if !strings.HasPrefix(report, "# Market Analysis Report - 2026-08-30 10:30:00") {
		t.Errorf("Expected timestamp heading, got %q", report[:60])
	}

	for _, want := range []string{
		"**Market Overview**: Market sentiment is bullish with an average change of 2.50%.",
		"**Performance Highlights**: BTC leads with 5.50% gains, while ETH lags with -1.20% change.",
		"**Risk Assessment**: Current market risk level is medium. Key concerns include: widespread_high_volatility.",
		"**Recommendations**: Market strategy: aggressive growth. Consider buying: BTC.",
	} {
		if !strings.Contains(report, want) {
			t.Errorf("Expected report to contain %q\ngot:\n%s", want, report)
		}
	}

	if !strings.Contains(report, "\n\n**Performance Highlights**") {
		t.Error("Expected blank-line separated sections")
	}
}

func TestGenerateReportNil(t *testing.T) {
	if got := GenerateReport(nil); got != "No analysis data available." {
		t.Errorf("Unexpected nil report: %q", got)
	}
}

func TestGenerateReportNoRiskFactors(t *testing.T) {
	result := &model.AnalysisResult{
		Timestamp: time.Now(),
		RiskAssessment: &model.RiskAssessment{
			OverallRiskLevel: model.RiskLow,
		},
	}
	report := GenerateReport(result)
	if !strings.Contains(report, "No significant risk factors identified.") {
		t.Errorf("Expected no-factors text, got %q", report)
	}
}
