package rules

import (
	"fmt"
	"strings"

	m "laralint.dev/pkg/laralint/internal/model"
)

// NewRouteClosureRule flags routes registered with inline closures; closure
// routes cannot be cached and bury logic in the routes file.
func NewRouteClosureRule() m.Rule {
	return m.Rule{
		ID:       "route-closure",
		Severity: m.SeverityWarning,
		Summary:  "Register routes against controller actions, not closures",
		Bad: `Route::get('/articles', function () {
    return Article::all();
});`,
		Good: `Route::get('/articles', [ArticleController::class, 'index']);`,
		Check: func(unit m.SourceUnit) []m.Violation {
			if unit.Kind != m.UnitRoutes {
				return nil
			}

			var out []m.Violation

			for _, route := range unit.Routes {
				if route.Handler == m.HandlerClosure {
					out = append(out, violationAt(route.Line, 1,
						fmt.Sprintf("route %s %q uses a closure handler; point it at a controller action", route.Verb, route.URI)))
				}
			}

			return out
		},
	}
}

// NewRouteURIStyleRule checks that route URIs use kebab-case segments.
// Parameter segments ({id}) are skipped.
func NewRouteURIStyleRule() m.Rule {
	return m.Rule{
		ID:       "route-uri-style",
		Severity: m.SeverityWarning,
		Summary:  "Route URIs use kebab-case segments",
		Bad:      `Route::get('/user_profiles', ...);`,
		Good:     `Route::get('/user-profiles', ...);`,
		Check: func(unit m.SourceUnit) []m.Violation {
			if unit.Kind != m.UnitRoutes {
				return nil
			}

			var out []m.Violation

			for _, route := range unit.Routes {
				for _, segment := range strings.Split(strings.Trim(route.URI, "/"), "/") {
					if segment == "" || strings.HasPrefix(segment, "{") {
						continue
					}

					if !kebabCasePattern.MatchString(segment) {
						out = append(out, violationAt(route.Line, 1,
							fmt.Sprintf("route URI segment %q is not kebab-case", segment)))

						break
					}
				}
			}

			return out
		},
	}
}

// NewRouteNameStyleRule checks that route names use dotted snake_case
// (users.show, not usersShow).
func NewRouteNameStyleRule() m.Rule {
	return m.Rule{
		ID:       "route-name-style",
		Severity: m.SeverityWarning,
		Summary:  "Route names use dotted snake_case",
		Bad:      `Route::get('/users/{id}', ...)->name('showUser');`,
		Good:     `Route::get('/users/{id}', ...)->name('users.show');`,
		Check: func(unit m.SourceUnit) []m.Violation {
			if unit.Kind != m.UnitRoutes {
				return nil
			}

			var out []m.Violation

			for _, route := range unit.Routes {
				if route.Name == "" {
					continue
				}

				if !dotSnakePattern.MatchString(route.Name) {
					out = append(out, violationAt(route.Line, 1,
						fmt.Sprintf("route name %q is not dotted snake_case", route.Name)))
				}
			}

			return out
		},
	}
}

// NewDuplicateRouteNameRule flags a route name registered twice in the same
// file; the later registration silently wins at runtime.
func NewDuplicateRouteNameRule() m.Rule {
	return m.Rule{
		ID:       "duplicate-route-name",
		Severity: m.SeverityError,
		Summary:  "Route names must be unique",
		Bad: `Route::get('/a', ...)->name('home');
Route::get('/b', ...)->name('home');`,
		Good: `Route::get('/a', ...)->name('home');
Route::get('/b', ...)->name('about');`,
		Check: func(unit m.SourceUnit) []m.Violation {
			if unit.Kind != m.UnitRoutes {
				return nil
			}

			var out []m.Violation

			firstSeen := make(map[string]int)

			for _, route := range unit.Routes {
				if route.Name == "" {
					continue
				}

				if line, seen := firstSeen[route.Name]; seen {
					out = append(out, violationAt(route.Line, 1,
						fmt.Sprintf("route name %q already used on line %d", route.Name, line)))

					continue
				}

				firstSeen[route.Name] = route.Line
			}

			return out
		},
	}
}
