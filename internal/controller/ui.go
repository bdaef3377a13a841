// Package controller provides output adapters for displaying lint results.
package controller

import (
	"context"
	"fmt"
	"os"
	"time"

	m "laralint.dev/pkg/laralint/internal/model"
)

// Format selects how violations are rendered.
type Format string

// Supported output formats.
const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// ParseFormat converts a configuration string into a Format.
func ParseFormat(value string) (Format, error) {
	switch Format(value) {
	case FormatText, FormatJSON:
		return Format(value), nil
	}

	return FormatText, fmt.Errorf("unknown output format %q", value)
}

// Summary aggregates a finished run for display.
type Summary struct {
	Files    int
	Warnings int
	Errors   int
	PerRule  map[string]int
	Duration time.Duration
}

// Summarize builds a Summary from a run's results.
func Summarize(files int, violations []m.Violation, duration time.Duration) Summary {
	summary := Summary{
		Files:    files,
		PerRule:  make(map[string]int),
		Duration: duration,
	}

	for _, v := range violations {
		summary.PerRule[v.RuleID]++

		if v.Severity == m.SeverityError {
			summary.Errors++
		} else {
			summary.Warnings++
		}
	}

	return summary
}

// UI defines the interface for presenting lint results.
// Implementations can use different output methods (simple text, TUI, etc).
type UI interface {
	DisplayViolations(ctx context.Context, violations []m.Violation, format Format) error
	DisplaySummary(ctx context.Context, summary Summary) error
	DisplayRules(ctx context.Context, rules []m.Rule) error
	DisplayRuleDiff(ctx context.Context, rule m.Rule) error
	DisplayWatchRun(ctx context.Context, trigger m.Path)
}

// IsTTY reports whether the file is attached to a terminal.
func IsTTY(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}

	return info.Mode()&os.ModeCharDevice != 0
}
