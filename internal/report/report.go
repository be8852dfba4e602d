// Package report grades a finished command from the collected run data and
// renders a summary for the terminal.
package report

import (
	"time"

	"github.com/alexisbeaulieu97/rollout/internal/collector"
	"github.com/alexisbeaulieu97/rollout/internal/strategy"
)

// Grade is the overall result of a command.
type Grade string

const (
	GradeSuccess Grade = "success"
	// GradePartial means every host finished but degrading diagnostics were
	// logged along the way.
	GradePartial Grade = "partial"
	GradeFailure Grade = "failure"
)

// GradeRun derives the grade from collected run data. Any failure event
// outweighs any number of warnings.
func GradeRun(data *collector.EventData) Grade {
	switch {
	case data == nil:
		return GradeSuccess
	case data.FailedCount() > 0:
		return GradeFailure
	case data.DegradingLogCount() > 0:
		return GradePartial
	default:
		return GradeSuccess
	}
}

// ExitCode maps a grade to the process exit status.
func (g Grade) ExitCode() int {
	if g == GradeFailure {
		return 1
	}
	return 0
}

// Summary is everything Render prints about one command.
type Summary struct {
	Name     string
	Outcome  *strategy.Outcome
	Grade    Grade
	Failures []collector.Failure
	Warnings int
	// Phases sums the time spent handling each lifecycle event.
	Phases map[string]time.Duration
	Total  time.Duration
}

// NewSummary assembles a summary from the strategy outcome and collectors.
// Either collector may be nil.
func NewSummary(name string, out *strategy.Outcome, data *collector.EventData, profiler *collector.Profiler) Summary {
	s := Summary{Name: name, Outcome: out, Grade: GradeRun(data)}
	if data != nil {
		s.Failures = data.Failures()
		s.Warnings = data.DegradingLogCount()
	}
	if profiler != nil {
		s.Phases = profiler.ByName()
		s.Total = profiler.Total()
	}
	return s
}
