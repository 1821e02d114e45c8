package recorder

import (
	"path/filepath"
	"testing"
	"time"

	"marketmirror/internal/alert"
	"marketmirror/pkg/model"
)

func openTestRecorder(t *testing.T) *SQLiteRecorder {
	t.Helper()
	rec, err := NewSQLiteRecorder(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Opening recorder: %v", err)
	}
	t.Cleanup(func() { rec.Close() })
	return rec
}

func TestRecordRun(t *testing.T) {
	rec := openTestRecorder(t)

	result := &model.AnalysisResult{
		RunID:     "run-1",
		Timestamp: time.Now(),
		MarketOverview: &model.MarketOverview{
			TotalAssets:   2,
			AverageChange: 1.5,
			Sentiment:     model.SentimentBullish,
			Gainers:       2,
		},
		RiskAssessment: &model.RiskAssessment{OverallRiskLevel: model.RiskLow},
		IndividualAnalysis: []model.AssetAnalysis{
			{Symbol: "BTC", CurrentPrice: 65000, PriceChangePct: 2, TrendDirection: model.TrendBullish, RiskLevel: model.RiskLow},
			{Symbol: "ETH", CurrentPrice: 3200, PriceChangePct: 1, TrendDirection: model.TrendNeutral, RiskLevel: model.RiskLow},
		},
	}

	if err := rec.RecordRun(result); err != nil {
		t.Fatalf("RecordRun: %v", err)
	}

	var runs, assets int
	if err := rec.db.QueryRow("SELECT COUNT(*) FROM analysis_runs").Scan(&runs); err != nil {
		t.Fatal(err)
	}
	if err := rec.db.QueryRow("SELECT COUNT(*) FROM asset_analyses WHERE run_id = 'run-1'").Scan(&assets); err != nil {
		t.Fatal(err)
	}
	if runs != 1 || assets != 2 {
		t.Errorf("Expected 1 run and 2 asset rows, got %d and %d", runs, assets)
	}
}

func TestRecordRunNilOverview(t *testing.T) {
	rec := openTestRecorder(t)
	if err := rec.RecordRun(&model.AnalysisResult{RunID: "x"}); err != nil {
		t.Errorf("Expected nil overview to be a no-op, got %v", err)
	}
}

func TestRecordTrigger(t *testing.T) {
	rec := openTestRecorder(t)

	trigger := alert.Trigger{
		AlertID:      "price_BTC_above_60000_123",
		Kind:         "price",
		Symbol:       "BTC",
		Message:      "BTC price above $60000.00",
		CurrentValue: 65000,
		TriggeredAt:  time.Now(),
	}
	if err := rec.RecordTrigger(trigger); err != nil {
		t.Fatalf("RecordTrigger: %v", err)
	}

	var symbol string
	if err := rec.db.QueryRow("SELECT symbol FROM alert_triggers").Scan(&symbol); err != nil {
		t.Fatal(err)
	}
	if symbol != "BTC" {
		t.Errorf("Expected BTC, got %s", symbol)
	}
}
