package recorder

import (
	"database/sql"
	"fmt"
	"log"
	"sync"

	_ "modernc.org/sqlite"

	"marketmirror/internal/alert"
	"marketmirror/pkg/model"
)

// SQLiteRecorder persists runs and triggers to a SQLite database
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode for better concurrent read performance
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("[RECORDER] sqlite recorder opened: %s", dbPath)
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS analysis_runs (
			id             INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id         TEXT NOT NULL,
			timestamp      INTEGER NOT NULL,
			total_assets   INTEGER,
			average_change REAL,
			sentiment      TEXT,
			risk_level     TEXT,
			gainers        INTEGER,
			losers         INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_ts ON analysis_runs(timestamp)`,

		`CREATE TABLE IF NOT EXISTS asset_analyses (
			id             INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id         TEXT NOT NULL,
			symbol         TEXT NOT NULL,
			current_price  REAL,
			change_pct     REAL,
			trend          TEXT,
			risk_level     TEXT,
			sentiment      REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_assets_run ON asset_analyses(run_id)`,

		`CREATE TABLE IF NOT EXISTS alert_triggers (
			id            INTEGER PRIMARY KEY AUTOINCREMENT,
			alert_id      TEXT NOT NULL,
			alert_type    TEXT,
			symbol        TEXT,
			message       TEXT,
			current_value REAL,
			triggered_at  INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_triggers_ts ON alert_triggers(triggered_at)`,
	}

	for _, stmt := range stmts {
		if _, err := r.db.Exec(stmt); err != nil {
			return fmt.Errorf("exec migration: %w", err)
		}
	}
	return nil
}

// RecordRun stores the run summary plus one row per analyzed asset
func (r *SQLiteRecorder) RecordRun(result *model.AnalysisResult) error {
	if result == nil || result.MarketOverview == nil {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	ov := result.MarketOverview
	riskLevel := ""
	if result.RiskAssessment != nil {
		riskLevel = string(result.RiskAssessment.OverallRiskLevel)
	}

	_, err := r.db.Exec(
		`INSERT INTO analysis_runs (run_id, timestamp, total_assets, average_change, sentiment, risk_level, gainers, losers)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		result.RunID, result.Timestamp.Unix(), ov.TotalAssets, ov.AverageChange,
		string(ov.Sentiment), riskLevel, ov.Gainers, ov.Losers,
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	for _, a := range result.IndividualAnalysis {
		_, err := r.db.Exec(
			`INSERT INTO asset_analyses (run_id, symbol, current_price, change_pct, trend, risk_level, sentiment)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			result.RunID, a.Symbol, a.CurrentPrice, a.PriceChangePct,
			string(a.TrendDirection), string(a.RiskLevel), a.SentimentScore,
		)
		if err != nil {
			return fmt.Errorf("insert asset analysis: %w", err)
		}
	}
	return nil
}

// RecordTrigger stores one triggered alert
func (r *SQLiteRecorder) RecordTrigger(t alert.Trigger) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(
		`INSERT INTO alert_triggers (alert_id, alert_type, symbol, message, current_value, triggered_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		t.AlertID, t.Kind, t.Symbol, t.Message, t.CurrentValue, t.TriggeredAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("insert trigger: %w", err)
	}
	return nil
}

// Close closes the underlying database
func (r *SQLiteRecorder) Close() error {
	return r.db.Close()
}
