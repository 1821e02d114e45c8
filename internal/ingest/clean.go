package ingest

import (
	"fmt"
	"log"
	"sort"

	"marketmirror/pkg/model"
)

// ValidationError reports one malformed asset dropped during cleaning
type ValidationError struct {
	Symbol string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid asset %s: %s", e.Symbol, e.Reason)
}

// Clean validates a batch of snapshots. Malformed assets are logged and
// dropped; the rest of the batch passes through with history sorted by date.
func Clean(assets []model.Asset) []model.Asset {
	out := make([]model.Asset, 0, len(assets))
	for _, a := range assets {
		if err := validate(&a); err != nil {
			log.Printf("[INGEST] dropping asset: %v", err)
			continue
		}
		sort.SliceStable(a.History, func(i, j int) bool {
			return a.History[i].Date.Before(a.History[j].Date)
		})
		out = append(out, a)
	}
	return out
}

func validate(a *model.Asset) error {
	if a.Symbol == "" {
		return &ValidationError{Symbol: "unknown", Reason: "missing symbol"}
	}
	if a.CurrentPrice <= 0 {
		return &ValidationError{Symbol: a.Symbol, Reason: "non-positive current price"}
	}
	if len(a.History) == 0 {
		return &ValidationError{Symbol: a.Symbol, Reason: "empty history"}
	}
	for _, p := range a.History {
		if p.Price <= 0 {
			return &ValidationError{Symbol: a.Symbol, Reason: "non-positive price in history"}
		}
		if p.Date.IsZero() {
			return &ValidationError{Symbol: a.Symbol, Reason: "missing date in history"}
		}
	}
	return nil
}
