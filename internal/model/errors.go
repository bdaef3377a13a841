package model

import (
	"errors"
	"fmt"
)

// Diagnostic rule ids reserved by the harness. They never appear in
// the registry; the builder and analyzer attach them directly.
const (
	// RuleParseError marks a file that could not be parsed. The scan
	// continues with the remaining files.
	RuleParseError = "parse-error"
	// RuleTimeout marks a run that hit the process-wide deadline and
	// reported partial results.
	RuleTimeout = "timeout"
)

// ErrViolationsFound signals that at least one error-severity
// violation was reported. The CLI maps it to a non-zero exit code.
var ErrViolationsFound = errors.New("violations found")

// DuplicateRuleError reports a rule id registered twice.
type DuplicateRuleError struct {
	ID string
}

func (e *DuplicateRuleError) Error() string {
	return fmt.Sprintf("rule %q is already registered", e.ID)
}

// ConfigurationError reports a configuration entry referencing an
// unknown rule id. Fatal at startup.
type ConfigurationError struct {
	Key string // configuration key, e.g. "rules.enabled"
	ID  string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("%s references unknown rule %q", e.Key, e.ID)
}
