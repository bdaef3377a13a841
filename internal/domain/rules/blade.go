package rules

import (
	"regexp"
	"strings"

	m "laralint.dev/pkg/laralint/internal/model"
)

// Blade templates are not parsed structurally; template rules pattern-match
// the raw lines instead.

var bladeQueryPattern = regexp.MustCompile(`DB::|::where\(|->where\(|::all\(\)`)

// NewQueryInBladeRule flags database queries inside Blade templates; the
// controller should pass the data in.
func NewQueryInBladeRule() m.Rule {
	return m.Rule{
		ID:       "query-in-blade",
		Severity: m.SeverityError,
		Summary:  "Templates must not run database queries",
		Bad: `@foreach (User::where('active', 1)->get() as $user)
    {{ $user->name }}
@endforeach`,
		Good: `{{-- controller passes $activeUsers --}}
@foreach ($activeUsers as $user)
    {{ $user->name }}
@endforeach`,
		Check: func(unit m.SourceUnit) []m.Violation {
			if unit.Kind != m.UnitBlade {
				return nil
			}

			var out []m.Violation

			for i, line := range unit.Lines {
				if loc := bladeQueryPattern.FindStringIndex(line); loc != nil {
					out = append(out, violationAt(i+1, loc[0]+1,
						"database query in a Blade template; pass the data from the controller"))
				}
			}

			return out
		},
	}
}

// NewBladePHPBlockRule flags @php blocks; logic belongs in controllers,
// view composers or the model.
func NewBladePHPBlockRule() m.Rule {
	return m.Rule{
		ID:       "blade-php-block",
		Severity: m.SeverityWarning,
		Summary:  "Avoid @php blocks in templates",
		Bad: `@php
    $total = $items->sum('price');
@endphp`,
		Good: `{{-- compute $total in the controller --}}
{{ $total }}`,
		Check: func(unit m.SourceUnit) []m.Violation {
			if unit.Kind != m.UnitBlade {
				return nil
			}

			var out []m.Violation

			for i, line := range unit.Lines {
				idx := strings.Index(line, "@php")
				if idx < 0 {
					continue
				}

				// @@php is the escaped, literal form.
				if idx > 0 && line[idx-1] == '@' {
					continue
				}

				out = append(out, violationAt(i+1, idx+1,
					"@php block in a Blade template; move the logic to the controller"))
			}

			return out
		},
	}
}
