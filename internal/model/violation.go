package model

import (
	"fmt"
	"sort"
)

// Violation is one detected breach of a rule at a specific location.
// Immutable value; created by a rule, consumed by reporters.
type Violation struct {
	RuleID   string
	Path     Path
	Line     int
	Column   int
	Severity Severity
	Message  string
}

// Less orders violations by (path, line, rule id) so reports are
// byte-identical regardless of worker scheduling.
func (v Violation) Less(other Violation) bool {
	if v.Path != other.Path {
		return v.Path < other.Path
	}

	if v.Line != other.Line {
		return v.Line < other.Line
	}

	return v.RuleID < other.RuleID
}

func (v Violation) String() string {
	return fmt.Sprintf("%s:%d: [%s] %s: %s", v.Path, v.Line, v.Severity, v.RuleID, v.Message)
}

// SortViolations normalizes violation order in place.
func SortViolations(violations []Violation) {
	sort.Slice(violations, func(i, j int) bool {
		return violations[i].Less(violations[j])
	})
}

// HasErrors reports whether any violation carries error severity.
func HasErrors(violations []Violation) bool {
	for _, v := range violations {
		if v.Severity == SeverityError {
			return true
		}
	}

	return false
}
