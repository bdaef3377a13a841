package rules

import (
	m "laralint.dev/pkg/laralint/internal/model"
)

// NewEnvDirectReadRule flags env() calls outside config files. Once the
// configuration is cached, env() returns null everywhere else.
func NewEnvDirectReadRule() m.Rule {
	return m.Rule{
		ID:       "env-direct-read",
		Severity: m.SeverityError,
		Summary:  "Do not read env() outside config files; use config() instead",
		Bad: `public function index()
{
    $key = env('API_KEY');
}`,
		Good: `// config/api.php
'key' => env('API_KEY'),

// controller
$key = config('api.key');`,
		Check: func(unit m.SourceUnit) []m.Violation {
			if unit.Kind == m.UnitConfig {
				return nil
			}

			var out []m.Violation

			eachCall(unit, func(_ *m.ClassNode, _ *m.MethodNode, call m.CallNode) {
				if call.Kind == m.CallFunction && call.Callee == "env" {
					out = append(out, violationAt(call.Line, call.Column,
						"env() call outside config/; cached configuration makes this return null"))
				}
			})

			return out
		},
	}
}
