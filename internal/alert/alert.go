// Package alert implements threshold alerts over asset snapshots.
// Each alert kind is its own type behind the Alert interface; the engine
// evaluates registered alerts in insertion order against incoming data.
package alert

import (
	"fmt"
	"time"

	"marketmirror/pkg/model"
)

// Condition compares an observed value against an alert threshold
type Condition string

const (
	Above  Condition = "above"
	Below  Condition = "below"
	Equals Condition = "equals"
)

// equalsTolerance absorbs float noise in equals comparisons
const equalsTolerance = 0.01

func (c Condition) evaluate(value, threshold float64) bool {
	switch c {
	case Above:
		return value > threshold
	case Below:
		return value < threshold
	case Equals:
		diff := value - threshold
		if diff < 0 {
			diff = -diff
		}
		return diff < equalsTolerance
	default:
		return false
	}
}

// Alert is one registered threshold alert. Evaluate reports the observed
// value and whether the alert condition holds for the given snapshot.
type Alert interface {
	ID() string
	Symbol() string
	Kind() string
	Message() string
	// OneShot alerts deactivate after their first trigger
	OneShot() bool
	Evaluate(asset *model.Asset) (value float64, matched bool)
}

type base struct {
	id        string
	symbol    string
	condition Condition
	threshold float64
	message   string
}

func (b *base) ID() string     { return b.id }
func (b *base) Symbol() string { return b.symbol }

func newBase(kind, symbol string, condition Condition, threshold float64, message string) base {
	return base{
		id:        fmt.Sprintf("%s_%s_%s_%v_%d", kind, symbol, condition, threshold, time.Now().Unix()),
		symbol:    symbol,
		condition: condition,
		threshold: threshold,
		message:   message,
	}
}

// PriceAlert fires on the current price crossing a threshold. One-shot.
type PriceAlert struct {
	base
}

func NewPriceAlert(symbol string, condition Condition, threshold float64) *PriceAlert {
	msg := fmt.Sprintf("%s price %s $%.2f", symbol, condition, threshold)
	return &PriceAlert{base: newBase("price", symbol, condition, threshold, msg)}
}

func (a *PriceAlert) Kind() string    { return "price" }
func (a *PriceAlert) Message() string { return a.message }
func (a *PriceAlert) OneShot() bool   { return true }

func (a *PriceAlert) Evaluate(asset *model.Asset) (float64, bool) {
	return asset.CurrentPrice, a.condition.evaluate(asset.CurrentPrice, a.threshold)
}

// ChangeAlert fires when the magnitude of the price change percentage
// exceeds the magnitude of the threshold, whatever the stored condition.
// One-shot.
type ChangeAlert struct {
	base
	Timeframe string
}

func NewChangeAlert(symbol string, condition Condition, threshold float64, timeframe string) *ChangeAlert {
	direction := "moves"
	if threshold > 0 && condition == Above {
		direction = "gains"
	} else if threshold < 0 || condition == Below {
		direction = "drops"
	}
	abs := threshold
	if abs < 0 {
		abs = -abs
	}
	msg := fmt.Sprintf("%s %s more than %.1f%% in %s", symbol, direction, abs, timeframe)
	a := &ChangeAlert{base: newBase("change", symbol, condition, threshold, msg), Timeframe: timeframe}
	return a
}

func (a *ChangeAlert) Kind() string    { return "change_percent" }
func (a *ChangeAlert) Message() string { return a.message }
func (a *ChangeAlert) OneShot() bool   { return true }

func (a *ChangeAlert) Evaluate(asset *model.Asset) (float64, bool) {
	change := asset.PriceChangePct
	absChange := change
	if absChange < 0 {
		absChange = -absChange
	}
	absThreshold := a.threshold
	if absThreshold < 0 {
		absThreshold = -absThreshold
	}
	return change, Above.evaluate(absChange, absThreshold)
}

// VolumeAlert fires on trading volume crossing a threshold. Recurring.
type VolumeAlert struct {
	base
}

func NewVolumeAlert(symbol string, condition Condition, threshold float64) *VolumeAlert {
	msg := fmt.Sprintf("%s volume %s %.0f", symbol, condition, threshold)
	return &VolumeAlert{base: newBase("volume", symbol, condition, threshold, msg)}
}

func (a *VolumeAlert) Kind() string    { return "volume" }
func (a *VolumeAlert) Message() string { return a.message }
func (a *VolumeAlert) OneShot() bool   { return false }

func (a *VolumeAlert) Evaluate(asset *model.Asset) (float64, bool) {
	return asset.Volume, a.condition.evaluate(asset.Volume, a.threshold)
}

// TechnicalAlert fires on a named indicator crossing a threshold.
// Recurring. An asset without the indicator computed never matches.
type TechnicalAlert struct {
	base
	Indicator string
}

func NewTechnicalAlert(symbol, indicatorName string, condition Condition, threshold float64) *TechnicalAlert {
	msg := fmt.Sprintf("%s %s %s %v", symbol, indicatorName, condition, threshold)
	a := &TechnicalAlert{Indicator: indicatorName}
	a.base = newBase("tech_"+indicatorName, symbol, condition, threshold, msg)
	return a
}

func (a *TechnicalAlert) Kind() string    { return "technical" }
func (a *TechnicalAlert) Message() string { return a.message }
func (a *TechnicalAlert) OneShot() bool   { return false }

func (a *TechnicalAlert) Evaluate(asset *model.Asset) (float64, bool) {
	v, ok := asset.Indicators.Get(a.Indicator)
	if !ok {
		return 0, false
	}
	return v, a.condition.evaluate(v, a.threshold)
}
