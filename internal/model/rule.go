package model

import "fmt"

// Severity indicates how a violation affects the process exit code.
// Warnings alone never fail a run; a single error does.
type Severity int

const (
	// SeverityWarning marks an advisory violation.
	SeverityWarning Severity = iota
	// SeverityError marks a violation that fails the run.
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	}

	return "unknown"
}

// ParseSeverity converts a configuration string into a Severity.
func ParseSeverity(value string) (Severity, error) {
	switch value {
	case "warning", "warn":
		return SeverityWarning, nil
	case "error":
		return SeverityError, nil
	}

	return SeverityWarning, fmt.Errorf("unknown severity %q", value)
}

// CheckFunc is a pure predicate over a source unit. Implementations
// must not mutate the unit or keep state between invocations; the
// analyzer relies on this to fan out safely across workers.
type CheckFunc func(unit SourceUnit) []Violation

// Rule describes one checkable convention.
//
// The Bad and Good snippets illustrate the convention the way the
// style guide does; the rules command renders them as a diff.
type Rule struct {
	ID       string
	Severity Severity
	Summary  string
	Bad      string
	Good     string
	Check    CheckFunc
}
