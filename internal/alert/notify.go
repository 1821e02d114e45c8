package alert

import (
	"fmt"
	"io"
	"log"
	"os"
)

// Notifier delivers a triggered alert somewhere
type Notifier interface {
	Notify(t Trigger) error
}

// ConsoleNotifier prints triggered alerts to stdout
type ConsoleNotifier struct {
	Out io.Writer
}

func (n *ConsoleNotifier) Notify(t Trigger) error {
	out := n.Out
	if out == nil {
		out = os.Stdout
	}
	_, err := fmt.Fprintf(out, "MARKET ALERT: %s: %s (Current: %g)\n", t.Symbol, t.Message, t.CurrentValue)
	return err
}

// LogNotifier writes triggered alerts to the process log
type LogNotifier struct{}

func (n *LogNotifier) Notify(t Trigger) error {
	log.Printf("[ALERTS] triggered: %s %s current=%g", t.Symbol, t.Message, t.CurrentValue)
	return nil
}

// FuncNotifier adapts a plain function to the Notifier interface
type FuncNotifier func(t Trigger) error

func (f FuncNotifier) Notify(t Trigger) error { return f(t) }
