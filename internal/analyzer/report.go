package analyzer

import (
	"fmt"
	"strings"

	"marketmirror/pkg/model"
)

// assetSummary builds the one-line natural language summary for an asset
func assetSummary(a *model.AssetAnalysis) string {
	pc := a.PriceChangePct

	var movement string
	switch {
	case pc > 5:
		movement = fmt.Sprintf("surged %.1f%%", pc)
	case pc > 1:
		movement = fmt.Sprintf("gained %.1f%%", pc)
	case pc < -5:
		movement = fmt.Sprintf("plummeted %.1f%%", -pc)
	case pc < -1:
		movement = fmt.Sprintf("declined %.1f%%", -pc)
	default:
		movement = fmt.Sprintf("remained relatively stable with %.1f%% change", pc)
	}

	var trendContext string
	trend := string(a.TrendDirection)
	if strings.Contains(trend, "strong") {
		trendContext = " showing strong momentum"
	} else if a.TrendDirection != model.TrendNeutral {
		trendContext = fmt.Sprintf(" in a %s trend", strings.ReplaceAll(trend, "_", " "))
	}

	var patternInfo string
	if len(a.Patterns) > 0 {
		patternInfo = fmt.Sprintf(" Pattern detected: %s.", strings.Join(a.Patterns, ", "))
	}

	var riskContext string
	switch a.RiskLevel {
	case model.RiskHigh:
		riskContext = " Exercise caution due to elevated risk levels."
	case model.RiskLow:
		riskContext = " Risk profile appears manageable."
	}

	return fmt.Sprintf("%s %s%s.%s%s", a.Symbol, movement, trendContext, patternInfo, riskContext)
}

// GenerateReport renders a full markdown market report from one analysis run
func GenerateReport(result *model.AnalysisResult) string {
	if result == nil {
		return "No analysis data available."
	}

	var sections []string

	if ov := result.MarketOverview; ov != nil {
		text := fmt.Sprintf("Market sentiment is %s with an average change of %.2f%%. ", ov.Sentiment, ov.AverageChange)
		text += fmt.Sprintf("Out of %d assets tracked, ", ov.TotalAssets)
		text += fmt.Sprintf("%d are showing gains while %d are in decline.", ov.Gainers, ov.Losers)
		sections = append(sections, "**Market Overview**: "+text)
	}

	if len(result.IndividualAnalysis) > 0 {
		best := result.IndividualAnalysis[0]
		worst := result.IndividualAnalysis[0]
		for _, a := range result.IndividualAnalysis[1:] {
			if a.PriceChangePct > best.PriceChangePct {
				best = a
			}
			if a.PriceChangePct < worst.PriceChangePct {
				worst = a
			}
		}
		highlights := fmt.Sprintf("**Performance Highlights**: %s leads with %.2f%% gains, while %s lags with %.2f%% change.",
			best.Symbol, best.PriceChangePct, worst.Symbol, worst.PriceChangePct)
		sections = append(sections, highlights)
	}

	if risk := result.RiskAssessment; risk != nil {
		text := fmt.Sprintf("**Risk Assessment**: Current market risk level is %s. ", risk.OverallRiskLevel)
		if len(risk.RiskFactors) > 0 {
			text += fmt.Sprintf("Key concerns include: %s.", strings.Join(risk.RiskFactors, ", "))
		} else {
			text += "No significant risk factors identified."
		}
		sections = append(sections, text)
	}

	if len(result.Recommendations) > 0 {
		text := "**Recommendations**: "
		for _, r := range result.Recommendations {
			if r.Scope == model.ScopeMarket {
				text += fmt.Sprintf("Market strategy: %s. ", strings.ReplaceAll(string(r.Action), "_", " "))
				break
			}
		}
		var buys []string
		for _, r := range result.Recommendations {
			if r.Scope == model.ScopeAsset && r.Action == model.ActionBuy {
				buys = append(buys, r.Symbol)
			}
		}
		if len(buys) > 0 {
			text += fmt.Sprintf("Consider buying: %s. ", strings.Join(buys, ", "))
		}
		sections = append(sections, text)
	}

	body := strings.Join(sections, "\n\n")
	heading := fmt.Sprintf("# Market Analysis Report - %s", result.Timestamp.Format("2006-01-02 15:04:05"))
	return heading + "\n\n" + body
}
