// Package recorder persists analysis runs and alert triggers.
// The default Noop keeps everything process-lifetime in-memory only.
package recorder

import (
	"marketmirror/internal/alert"
	"marketmirror/pkg/model"
)

// Recorder receives analysis results and alert triggers as they happen
type Recorder interface {
	RecordRun(result *model.AnalysisResult) error
	RecordTrigger(t alert.Trigger) error
	Close() error
}

// Noop discards everything
type Noop struct{}

func (Noop) RecordRun(*model.AnalysisResult) error { return nil }
func (Noop) RecordTrigger(alert.Trigger) error     { return nil }
func (Noop) Close() error                          { return nil }
