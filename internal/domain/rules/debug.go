package rules

import (
	"fmt"

	m "laralint.dev/pkg/laralint/internal/model"
)

var debugCallees = map[string]bool{
	"dd": true, "dump": true, "var_dump": true, "print_r": true, "ray": true,
}

// NewDebugCallRule flags debug helpers left in committed code.
func NewDebugCallRule() m.Rule {
	return m.Rule{
		ID:       "debug-call",
		Severity: m.SeverityError,
		Summary:  "Remove debug calls (dd, dump, var_dump, print_r) before committing",
		Bad: `public function show(Order $order)
{
    dd($order);
}`,
		Good: `public function show(Order $order)
{
    return view('orders.show', ['order' => $order]);
}`,
		Check: func(unit m.SourceUnit) []m.Violation {
			var out []m.Violation

			eachCall(unit, func(_ *m.ClassNode, _ *m.MethodNode, call m.CallNode) {
				if call.Kind == m.CallFunction && debugCallees[call.Callee] {
					out = append(out, violationAt(call.Line, call.Column,
						fmt.Sprintf("debug call %s() left in code", call.Callee)))
				}
			})

			return out
		},
	}
}
