package alert

import (
	"errors"
	"log"
	"sync"
	"time"

	"marketmirror/pkg/model"
)

// ErrUnsupportedAlertType is returned for alert kinds the engine does not know
var ErrUnsupportedAlertType = errors.New("unsupported alert type")

// Trigger records one alert firing
type Trigger struct {
	AlertID      string    `json:"alert_id"`
	Kind         string    `json:"type"`
	Symbol       string    `json:"symbol"`
	Message      string    `json:"message"`
	CurrentValue float64   `json:"current_value"`
	TriggeredAt  time.Time `json:"triggered_at"`
}

type registration struct {
	alert    Alert
	active   bool
	triggers int
}

// Engine holds registered alerts and evaluates them against snapshots.
// Safe for concurrent use; alerts are checked in insertion order.
type Engine struct {
	mu        sync.Mutex
	alerts    []*registration
	history   []Trigger
	notifiers []Notifier
}

// NewEngine creates an engine with the default console and log notifiers
func NewEngine() *Engine {
	return &Engine{
		notifiers: []Notifier{&ConsoleNotifier{}, &LogNotifier{}},
	}
}

// Add registers an alert and returns its identifier
func (e *Engine) Add(a Alert) string {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.alerts = append(e.alerts, &registration{alert: a, active: true})
	log.Printf("[ALERTS] added: %s", a.Message())
	return a.ID()
}

// AddPrice registers a one-shot price threshold alert
func (e *Engine) AddPrice(symbol string, condition Condition, threshold float64) string {
	return e.Add(NewPriceAlert(symbol, condition, threshold))
}

// AddChange registers a one-shot percentage change alert
func (e *Engine) AddChange(symbol string, condition Condition, threshold float64, timeframe string) string {
	return e.Add(NewChangeAlert(symbol, condition, threshold, timeframe))
}

// AddVolume registers a recurring volume threshold alert
func (e *Engine) AddVolume(symbol string, condition Condition, threshold float64) string {
	return e.Add(NewVolumeAlert(symbol, condition, threshold))
}

// AddTechnical registers a recurring indicator threshold alert
func (e *Engine) AddTechnical(symbol, indicatorName string, condition Condition, threshold float64) string {
	return e.Add(NewTechnicalAlert(symbol, indicatorName, condition, threshold))
}

// Remove deletes an alert by identifier, reporting whether it existed
func (e *Engine) Remove(id string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	for i, reg := range e.alerts {
		if reg.alert.ID() == id {
			e.alerts = append(e.alerts[:i], e.alerts[i+1:]...)
			log.Printf("[ALERTS] removed: %s", reg.alert.Message())
			return true
		}
	}
	return false
}

// ActiveAlert describes a registered, still-active alert
type ActiveAlert struct {
	ID       string `json:"alert_id"`
	Kind     string `json:"type"`
	Symbol   string `json:"symbol"`
	Message  string `json:"message"`
	Triggers int    `json:"trigger_count"`
}

// Active lists alerts that have not been deactivated, in insertion order
func (e *Engine) Active() []ActiveAlert {
	e.mu.Lock()
	defer e.mu.Unlock()
	var out []ActiveAlert
	for _, reg := range e.alerts {
		if !reg.active {
			continue
		}
		out = append(out, ActiveAlert{
			ID:       reg.alert.ID(),
			Kind:     reg.alert.Kind(),
			Symbol:   reg.alert.Symbol(),
			Message:  reg.alert.Message(),
			Triggers: reg.triggers,
		})
	}
	return out
}

// History returns up to limit recent triggers, most recent last
func (e *Engine) History(limit int) []Trigger {
	e.mu.Lock()
	defer e.mu.Unlock()
	if limit <= 0 || limit > len(e.history) {
		limit = len(e.history)
	}
	out := make([]Trigger, limit)
	copy(out, e.history[len(e.history)-limit:])
	return out
}

// AddNotifier appends a custom notification handler
func (e *Engine) AddNotifier(n Notifier) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.notifiers = append(e.notifiers, n)
}

// Check evaluates every active alert against the given snapshots and
// returns the triggers this cycle. One-shot alerts deactivate after
// firing; notifier and evaluation failures are isolated per alert.
func (e *Engine) Check(assets []model.Asset) []Trigger {
	bySymbol := make(map[string]*model.Asset, len(assets))
	for i := range assets {
		bySymbol[assets[i].Symbol] = &assets[i]
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	var fired []Trigger
	for _, reg := range e.alerts {
		if !reg.active {
			continue
		}
		asset, ok := bySymbol[reg.alert.Symbol()]
		if !ok {
			continue
		}

		value, matched := reg.alert.Evaluate(asset)
		if !matched {
			continue
		}

		trigger := Trigger{
			AlertID:      reg.alert.ID(),
			Kind:         reg.alert.Kind(),
			Symbol:       reg.alert.Symbol(),
			Message:      reg.alert.Message(),
			CurrentValue: value,
			TriggeredAt:  time.Now(),
		}
		reg.triggers++
		if reg.alert.OneShot() {
			reg.active = false
		}

		fired = append(fired, trigger)
		e.history = append(e.history, trigger)
		e.notify(trigger)
	}

	return fired
}

func (e *Engine) notify(t Trigger) {
	for _, n := range e.notifiers {
		if err := n.Notify(t); err != nil {
			log.Printf("[ALERTS] notification handler failed: %v", err)
		}
	}
}
