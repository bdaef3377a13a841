// Package rules provides the built-in convention rule catalog.
//
// Every rule is a pure predicate over a SourceUnit; the analyzer stamps the
// rule id and effective severity onto the returned violations.
package rules

import (
	"regexp"
	"strings"

	m "laralint.dev/pkg/laralint/internal/model"
)

// All returns the built-in rules in their canonical registration order.
func All() []m.Rule {
	return []m.Rule{
		NewEnvDirectReadRule(),
		NewValidationInControllerRule(),
		NewQueryInControllerRule(),
		NewQueryInLoopRule(),
		NewRawSQLRule(),
		NewRequestAllRule(),
		NewDebugCallRule(),
		NewControllerNamingRule(),
		NewModelNamingRule(),
		NewMethodNamingRule(),
		NewFatMethodRule(),
		NewRouteClosureRule(),
		NewRouteURIStyleRule(),
		NewRouteNameStyleRule(),
		NewDuplicateRouteNameRule(),
		NewQueryInBladeRule(),
		NewBladePHPBlockRule(),
	}
}

// eachCall visits every call in the unit: top-level calls first, then each
// class method's calls. Class and method are nil for top-level calls.
func eachCall(unit m.SourceUnit, fn func(class *m.ClassNode, method *m.MethodNode, call m.CallNode)) {
	for _, call := range unit.Calls {
		fn(nil, nil, call)
	}

	for c := range unit.Classes {
		class := &unit.Classes[c]
		for mi := range class.Methods {
			method := &class.Methods[mi]
			for _, call := range method.Calls {
				fn(class, method, call)
			}
		}
	}
}

var eloquentVerbs = map[string]bool{
	"where": true, "whereIn": true, "whereHas": true, "orderBy": true,
	"groupBy": true, "join": true, "get": true, "first": true,
	"firstOrFail": true, "find": true, "findOrFail": true, "pluck": true,
	"paginate": true, "count": true, "exists": true, "all": true,
	"with": true, "load": true, "create": true, "update": true,
	"delete": true, "save": true, "table": true, "select": true,
}

// isQueryCall reports whether a call looks like a database query: anything on
// the DB facade, a query-builder verb on a model class, or a query-builder
// verb inside a fluent chain.
func isQueryCall(call m.CallNode) bool {
	if call.Kind == m.CallStatic {
		if call.Receiver == "DB" {
			return true
		}

		return isStudlyCase(call.Receiver) && eloquentVerbs[call.Callee]
	}

	if call.Kind == m.CallMember && call.Receiver == "" {
		// Chained receiver, e.g. User::where(...)->get().
		return eloquentVerbs[call.Callee]
	}

	return false
}

var (
	studlyCasePattern = regexp.MustCompile(`^[A-Z][A-Za-z0-9]*$`)
	camelCasePattern  = regexp.MustCompile(`^[a-z][A-Za-z0-9]*$`)
	kebabCasePattern  = regexp.MustCompile(`^[a-z0-9-]+$`)
	dotSnakePattern   = regexp.MustCompile(`^[a-z0-9_.-]+$`)
)

func isStudlyCase(name string) bool {
	return studlyCasePattern.MatchString(name)
}

func isCamelCase(name string) bool {
	return camelCasePattern.MatchString(name)
}

// singularExceptions lists suffixes that end in 's' without being plural.
var singularExceptions = []string{"ss", "us", "is", "news", "status"}

// looksPlural applies the crude pluralization heuristic linters get away
// with: a trailing 's' that is not part of a known singular suffix.
func looksPlural(word string) bool {
	lower := strings.ToLower(word)
	if !strings.HasSuffix(lower, "s") {
		return false
	}

	for _, exception := range singularExceptions {
		if strings.HasSuffix(lower, exception) {
			return false
		}
	}

	return true
}

func violationAt(line, column int, message string) m.Violation {
	return m.Violation{Line: line, Column: column, Message: message}
}
