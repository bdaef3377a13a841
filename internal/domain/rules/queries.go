package rules

import (
	"fmt"

	m "laralint.dev/pkg/laralint/internal/model"
)

// NewValidationInControllerRule flags inline request validation in
// controllers; form request classes keep controller actions single-purpose.
func NewValidationInControllerRule() m.Rule {
	return m.Rule{
		ID:       "validation-in-controller",
		Severity: m.SeverityWarning,
		Summary:  "Move validation from controllers to form request classes",
		Bad: `public function store(Request $request)
{
    $request->validate(['title' => 'required']);
}`,
		Good: `public function store(StoreArticleRequest $request)
{
    // rules live in StoreArticleRequest::rules()
}`,
		Check: func(unit m.SourceUnit) []m.Violation {
			if unit.Kind != m.UnitController {
				return nil
			}

			var out []m.Violation

			eachCall(unit, func(_ *m.ClassNode, _ *m.MethodNode, call m.CallNode) {
				inlineValidation := (call.Kind == m.CallMember && call.Callee == "validate" && call.Receiver == "$request") ||
					(call.Kind == m.CallStatic && call.Receiver == "Validator" && call.Callee == "make")

				if inlineValidation {
					out = append(out, violationAt(call.Line, call.Column,
						"inline validation in a controller; extract a form request class"))
				}
			})

			return out
		},
	}
}

// NewQueryInControllerRule flags database queries in controller actions;
// query logic belongs in models or dedicated service classes.
func NewQueryInControllerRule() m.Rule {
	return m.Rule{
		ID:       "query-in-controller",
		Severity: m.SeverityWarning,
		Summary:  "Keep database queries out of controllers",
		Bad: `public function index()
{
    $clients = Client::where('verified', true)->get();
}`,
		Good: `public function index(ClientRepository $clients)
{
    $clients = $clients->verified();
}`,
		Check: func(unit m.SourceUnit) []m.Violation {
			if unit.Kind != m.UnitController {
				return nil
			}

			var out []m.Violation

			eachCall(unit, func(_ *m.ClassNode, method *m.MethodNode, call m.CallNode) {
				if method == nil || !isQueryCall(call) {
					return
				}

				out = append(out, violationAt(call.Line, call.Column,
					fmt.Sprintf("query call %s() in controller action %s; move it to a model or service", call.Callee, method.Name)))
			})

			return out
		},
	}
}

// NewQueryInLoopRule flags query calls executed inside loops, the classic
// N+1 shape that eager loading avoids.
func NewQueryInLoopRule() m.Rule {
	return m.Rule{
		ID:       "query-in-loop",
		Severity: m.SeverityWarning,
		Summary:  "Do not run queries inside loops; eager load instead",
		Bad: `foreach ($users as $user) {
    $posts = Post::where('user_id', $user->id)->get();
}`,
		Good: `$users = User::with('posts')->get();`,
		Check: func(unit m.SourceUnit) []m.Violation {
			var out []m.Violation

			eachCall(unit, func(_ *m.ClassNode, _ *m.MethodNode, call m.CallNode) {
				if call.LoopDepth > 0 && isQueryCall(call) {
					out = append(out, violationAt(call.Line, call.Column,
						fmt.Sprintf("query call %s() inside a loop; this is an N+1 query", call.Callee)))
				}
			})

			return out
		},
	}
}

var rawSQLCallees = map[string]bool{
	"raw": true, "whereRaw": true, "havingRaw": true,
	"orderByRaw": true, "selectRaw": true, "statement": true,
}

// NewRawSQLRule flags raw SQL fragments, which bypass the query builder's
// quoting and invite injection bugs.
func NewRawSQLRule() m.Rule {
	return m.Rule{
		ID:       "raw-sql",
		Severity: m.SeverityWarning,
		Summary:  "Prefer query builder methods over raw SQL fragments",
		Bad:      `$users = DB::select(DB::raw("SELECT * FROM users WHERE name = '$name'"));`,
		Good:     `$users = User::where('name', $name)->get();`,
		Check: func(unit m.SourceUnit) []m.Violation {
			var out []m.Violation

			eachCall(unit, func(_ *m.ClassNode, _ *m.MethodNode, call m.CallNode) {
				if call.Kind == m.CallFunction || !rawSQLCallees[call.Callee] {
					return
				}

				if call.Receiver != "" && call.Receiver != "DB" {
					return
				}

				out = append(out, violationAt(call.Line, call.Column,
					fmt.Sprintf("raw SQL via %s(); prefer query builder methods with bindings", call.Callee)))
			})

			return out
		},
	}
}

// NewRequestAllRule flags $request->all(), which hands every request field
// to mass assignment.
func NewRequestAllRule() m.Rule {
	return m.Rule{
		ID:       "request-all",
		Severity: m.SeverityWarning,
		Summary:  "Use $request->validated() or ->only() instead of ->all()",
		Bad:      `User::create($request->all());`,
		Good:     `User::create($request->validated());`,
		Check: func(unit m.SourceUnit) []m.Violation {
			var out []m.Violation

			eachCall(unit, func(_ *m.ClassNode, _ *m.MethodNode, call m.CallNode) {
				if call.Kind == m.CallMember && call.Callee == "all" && call.Receiver == "$request" {
					out = append(out, violationAt(call.Line, call.Column,
						"$request->all() exposes every field to mass assignment"))
				}
			})

			return out
		},
	}
}
