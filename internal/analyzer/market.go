package analyzer

import (
	"errors"
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/google/uuid"

	"marketmirror/internal/indicator"
	"marketmirror/pkg/model"
)

// ErrNoData is returned when an analysis run receives no assets
var ErrNoData = errors.New("no market data provided")

// ProcessError reports a per-asset failure during batch analysis
type ProcessError struct {
	Symbol string
	Reason string
}

func (e *ProcessError) Error() string {
	return fmt.Sprintf("processing %s: %s", e.Symbol, e.Reason)
}

// Analyze runs the full classification pipeline over the given snapshots.
// Assets that fail are logged and dropped; the rest of the batch continues.
// Recommendations are attached separately by the recommendation engine.
func Analyze(assets []model.Asset) (*model.AnalysisResult, error) {
	if len(assets) == 0 {
		return nil, ErrNoData
	}

	result := &model.AnalysisResult{
		RunID:          uuid.NewString(),
		Timestamp:      time.Now(),
		MarketOverview: BuildMarketOverview(assets),
		RiskAssessment: AssessMarketRisk(assets),
	}

	for i := range assets {
		analysis, err := AnalyzeAsset(&assets[i])
		if err != nil {
			log.Printf("[ANALYZER] skipping %s: %v", assets[i].Symbol, err)
			continue
		}
		result.IndividualAnalysis = append(result.IndividualAnalysis, *analysis)
	}

	if len(assets) >= 2 {
		result.ComparativeAnalysis = CompareAssets(assets)
	}

	return result, nil
}

// AnalyzeAsset classifies a single snapshot
func AnalyzeAsset(asset *model.Asset) (*model.AssetAnalysis, error) {
	if asset.Symbol == "" {
		return nil, &ProcessError{Symbol: "unknown", Reason: "missing symbol"}
	}
	if asset.CurrentPrice <= 0 {
		return nil, &ProcessError{Symbol: asset.Symbol, Reason: "non-positive current price"}
	}

	analysis := &model.AssetAnalysis{
		Symbol:            asset.Symbol,
		Name:              asset.Name,
		CurrentPrice:      asset.CurrentPrice,
		PriceChangePct:    asset.PriceChangePct,
		TrendDirection:    ClassifyTrend(asset),
		Patterns:          DetectPatterns(asset),
		Strength:          ClassifyStrength(asset),
		SupportResistance: FindSupportResistance(asset),
		SentimentScore:    SentimentScore(asset),
		RiskLevel:         ClassifyRisk(asset),
	}
	analysis.Summary = assetSummary(analysis)

	return analysis, nil
}

// BuildMarketOverview aggregates market-wide statistics
func BuildMarketOverview(assets []model.Asset) *model.MarketOverview {
	changes := make([]float64, 0, len(assets))
	for _, a := range assets {
		changes = append(changes, a.PriceChangePct)
	}

	overview := &model.MarketOverview{
		TotalAssets:   len(assets),
		AverageChange: indicator.Mean(changes),
		MedianChange:  median(changes),
		Volatility:    indicator.SampleStdev(changes),
	}

	for _, c := range changes {
		switch {
		case c > 0:
			overview.Gainers++
		case c < 0:
			overview.Losers++
		default:
			overview.Unchanged++
		}
	}

	switch {
	case overview.AverageChange > 2:
		overview.Sentiment = model.SentimentBullish
		overview.SentimentStrength = "moderate"
		if overview.AverageChange > 5 {
			overview.SentimentStrength = "strong"
		}
	case overview.AverageChange < -2:
		overview.Sentiment = model.SentimentBearish
		overview.SentimentStrength = "moderate"
		if overview.AverageChange < -5 {
			overview.SentimentStrength = "strong"
		}
	default:
		overview.Sentiment = model.SentimentNeutral
		overview.SentimentStrength = "weak"
	}

	var momentums []float64
	for _, a := range assets {
		if m, ok := a.Indicators.Get(indicator.Momentum5d); ok {
			momentums = append(momentums, m)
		}
	}
	if len(momentums) > 0 {
		overview.Momentum = indicator.Mean(momentums)
	}

	return overview
}

// CompareAssets ranks assets by performance and stability
func CompareAssets(assets []model.Asset) *model.ComparativeAnalysis {
	best := assets[0]
	worst := assets[0]
	for _, a := range assets[1:] {
		if a.PriceChangePct > best.PriceChangePct {
			best = a
		}
		if a.PriceChangePct < worst.PriceChangePct {
			worst = a
		}
	}

	type volEntry struct {
		symbol string
		vol    float64
	}
	vols := make([]volEntry, 0, len(assets))
	for _, a := range assets {
		vols = append(vols, volEntry{a.Symbol, a.Indicators.GetOr(indicator.Volatility, 0)})
	}
	sort.SliceStable(vols, func(i, j int) bool { return vols[i].vol < vols[j].vol })

	return &model.ComparativeAnalysis{
		BestPerformer:  model.PerformerStat{Symbol: best.Symbol, Change: best.PriceChangePct},
		WorstPerformer: model.PerformerStat{Symbol: worst.Symbol, Change: worst.PriceChangePct},
		MostStable:     model.StabilityStat{Symbol: vols[0].symbol, Volatility: vols[0].vol},
		MostVolatile:   model.StabilityStat{Symbol: vols[len(vols)-1].symbol, Volatility: vols[len(vols)-1].vol},
	}
}

// AssessMarketRisk grades overall market risk from mean volatility and
// the dispersion (stdev) of price changes across assets.
func AssessMarketRisk(assets []model.Asset) *model.RiskAssessment {
	changes := make([]float64, 0, len(assets))
	var volatilities []float64
	for _, a := range assets {
		changes = append(changes, a.PriceChangePct)
		if v, ok := a.Indicators.Get(indicator.Volatility); ok {
			volatilities = append(volatilities, v)
		}
	}

	avgVolatility := indicator.Mean(volatilities)
	dispersion := indicator.SampleStdev(changes)

	level := model.RiskLow
	switch {
	case avgVolatility > 15 || dispersion > 10:
		level = model.RiskHigh
	case avgVolatility > 8 || dispersion > 5:
		level = model.RiskMedium
	}

	return &model.RiskAssessment{
		OverallRiskLevel:  level,
		AverageVolatility: avgVolatility,
		PriceDispersion:   dispersion,
		RiskFactors:       marketRiskFactors(assets),
	}
}

func marketRiskFactors(assets []model.Asset) []string {
	var factors []string

	highVolCount := 0
	for _, a := range assets {
		if a.Indicators.GetOr(indicator.Volatility, 0) > 15 {
			highVolCount++
		}
	}
	if float64(highVolCount)/float64(len(assets)) > 0.5 {
		factors = append(factors, "widespread_high_volatility")
	}

	allUp, allDown := true, true
	for _, a := range assets {
		if a.PriceChangePct <= 5 {
			allUp = false
		}
		if a.PriceChangePct >= -5 {
			allDown = false
		}
	}
	if allUp {
		factors = append(factors, "overheating_market")
	} else if allDown {
		factors = append(factors, "market_selloff")
	}

	return factors
}

func median(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sorted := append([]float64(nil), xs...)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}
