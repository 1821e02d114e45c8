// Package recommend turns classified market analysis into discrete
// recommendation records via an ordered rule table.
package recommend

import (
	"fmt"

	"marketmirror/pkg/model"
)

// Generate produces the recommendation list for one analysis run.
// Ordering is fixed: market strategy first, then one entry per asset in
// input order, then the risk-management entry when overall risk is high.
// Entries are not deduplicated.
func Generate(result *model.AnalysisResult) []model.Recommendation {
	if result == nil {
		return nil
	}

	var recs []model.Recommendation

	if result.MarketOverview != nil && result.RiskAssessment != nil {
		if r, ok := marketRecommendation(result.MarketOverview, result.RiskAssessment); ok {
			recs = append(recs, r)
		}
	}

	for i := range result.IndividualAnalysis {
		if r, ok := assetRecommendation(&result.IndividualAnalysis[i]); ok {
			recs = append(recs, r)
		}
	}

	if result.RiskAssessment != nil && result.RiskAssessment.OverallRiskLevel == model.RiskHigh {
		recs = append(recs, model.Recommendation{
			Scope:      model.ScopeRisk,
			Action:     model.ActionReduceExposure,
			Confidence: model.ConfidenceHigh,
			Reasoning:  "Elevated market risk warrants reduced position sizes and tighter stops",
		})
	}

	return recs
}

func marketRecommendation(overview *model.MarketOverview, risk *model.RiskAssessment) (model.Recommendation, bool) {
	switch {
	case overview.Sentiment == model.SentimentBullish && risk.OverallRiskLevel == model.RiskLow:
		return model.Recommendation{
			Scope:      model.ScopeMarket,
			Action:     model.ActionAggressiveGrowth,
			Confidence: model.ConfidenceHigh,
			Reasoning:  "Strong bullish sentiment with low risk environment favors growth strategies",
		}, true
	case overview.Sentiment == model.SentimentBearish:
		return model.Recommendation{
			Scope:      model.ScopeMarket,
			Action:     model.ActionDefensive,
			Confidence: model.ConfidenceMedium,
			Reasoning:  "Bearish sentiment suggests defensive positioning and risk management",
		}, true
	}
	return model.Recommendation{}, false
}

// assetRecommendation evaluates the per-asset rule ladder, first match wins
func assetRecommendation(a *model.AssetAnalysis) (model.Recommendation, bool) {
	switch {
	case a.TrendDirection == model.TrendStrongBullish && a.RiskLevel == model.RiskLow:
		return model.Recommendation{
			Scope:            model.ScopeAsset,
			Symbol:           a.Symbol,
			Action:           model.ActionStrongBuy,
			Confidence:       model.ConfidenceHigh,
			Reasoning:        fmt.Sprintf("%s shows strong bullish trend with low risk profile", a.Symbol),
			TargetAllocation: "5-10%",
		}, true

	case a.TrendDirection == model.TrendBullish && a.SentimentScore > 0.6:
		return model.Recommendation{
			Scope:            model.ScopeAsset,
			Symbol:           a.Symbol,
			Action:           model.ActionBuy,
			Confidence:       model.ConfidenceMedium,
			Reasoning:        fmt.Sprintf("%s trending higher with positive sentiment", a.Symbol),
			TargetAllocation: "3-5%",
		}, true

	case a.TrendDirection == model.TrendStrongBearish || a.RiskLevel == model.RiskHigh:
		return model.Recommendation{
			Scope:            model.ScopeAsset,
			Symbol:           a.Symbol,
			Action:           model.ActionSellOrAvoid,
			Confidence:       model.ConfidenceMedium,
			Reasoning:        fmt.Sprintf("%s shows concerning technical signals or high risk", a.Symbol),
			TargetAllocation: "0%",
		}, true

	case a.TrendDirection == model.TrendNeutral && a.RiskLevel == model.RiskLow:
		return model.Recommendation{
			Scope:      model.ScopeAsset,
			Symbol:     a.Symbol,
			Action:     model.ActionHold,
			Confidence: model.ConfidenceLow,
			Reasoning:  fmt.Sprintf("%s in consolidation phase with manageable risk", a.Symbol),
		}, true
	}
	return model.Recommendation{}, false
}
