// Package monitor runs the periodic alert-checking loop.
package monitor

import (
	"context"
	"log"
	"sync"
	"time"

	"marketmirror/internal/alert"
	"marketmirror/internal/analyzer"
	"marketmirror/internal/recommend"
	"marketmirror/internal/recorder"
	"marketmirror/pkg/model"
)

// Source supplies a fresh batch of asset snapshots for one check cycle
type Source func(ctx context.Context) ([]model.Asset, error)

// Monitor periodically pulls snapshots, checks alerts, and refreshes the
// analysis when alerts fire. Stop interrupts the wait immediately.
type Monitor struct {
	source   Source
	engine   *alert.Engine
	rec      recorder.Recorder
	interval time.Duration

	mu     sync.Mutex
	latest *model.AnalysisResult

	cancel context.CancelFunc
	done   chan struct{}
}

// New creates a monitor. A nil recorder records nothing.
func New(source Source, engine *alert.Engine, rec recorder.Recorder, interval time.Duration) *Monitor {
	if rec == nil {
		rec = recorder.Noop{}
	}
	if interval <= 0 {
		interval = 10 * time.Second
	}
	return &Monitor{
		source:   source,
		engine:   engine,
		rec:      rec,
		interval: interval,
	}
}

// Start launches the monitoring loop in a goroutine
func (m *Monitor) Start(ctx context.Context) {
	ctx, m.cancel = context.WithCancel(ctx)
	m.done = make(chan struct{})
	go m.run(ctx)
	log.Printf("[MONITOR] started, checking every %s", m.interval)
}

// Stop cancels the loop and waits for the current cycle to finish
func (m *Monitor) Stop() {
	if m.cancel == nil {
		return
	}
	m.cancel()
	<-m.done
	log.Printf("[MONITOR] stopped")
}

// Run executes the loop on the caller's goroutine until ctx is cancelled
func (m *Monitor) Run(ctx context.Context) {
	if m.done == nil {
		m.done = make(chan struct{})
	}
	m.run(ctx)
}

func (m *Monitor) run(ctx context.Context) {
	defer close(m.done)

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	m.cycle(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.cycle(ctx)
		}
	}
}

// cycle runs one check pass. Failures are logged and the loop continues.
func (m *Monitor) cycle(ctx context.Context) {
	assets, err := m.source(ctx)
	if err != nil {
		log.Printf("[MONITOR] snapshot fetch failed: %v", err)
		return
	}
	if len(assets) == 0 {
		return
	}

	fired := m.engine.Check(assets)
	for _, t := range fired {
		if err := m.rec.RecordTrigger(t); err != nil {
			log.Printf("[MONITOR] recording trigger failed: %v", err)
		}
	}

	m.mu.Lock()
	stale := m.latest == nil
	m.mu.Unlock()

	if len(fired) > 0 || stale {
		m.refresh(assets)
	}
}

// refresh reruns the analysis pipeline over the given snapshots
func (m *Monitor) refresh(assets []model.Asset) {
	result, err := analyzer.Analyze(assets)
	if err != nil {
		log.Printf("[MONITOR] analysis failed: %v", err)
		return
	}
	result.Recommendations = recommend.Generate(result)

	if err := m.rec.RecordRun(result); err != nil {
		log.Printf("[MONITOR] recording run failed: %v", err)
	}

	m.mu.Lock()
	m.latest = result
	m.mu.Unlock()
}

// Latest returns the most recent analysis result, or nil before the first
func (m *Monitor) Latest() *model.AnalysisResult {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.latest
}
