// Package model defines the data structures for convention linting.
package model

// Path represents a file system path.
type Path string

// UnitKind classifies a source file by the role it plays in a Laravel
// project layout. Rules use the kind to decide whether they apply.
type UnitKind string

const (
	// UnitController represents files under app/Http/Controllers.
	UnitController UnitKind = "controller"
	// UnitModel represents files under app/Models.
	UnitModel UnitKind = "model"
	// UnitRoutes represents route registration files under routes/.
	UnitRoutes UnitKind = "routes"
	// UnitConfig represents files under config/.
	UnitConfig UnitKind = "config"
	// UnitBlade represents *.blade.php templates.
	UnitBlade UnitKind = "blade"
	// UnitPHP represents any other PHP source file.
	UnitPHP UnitKind = "php"
)

// CallKind distinguishes the syntactic shape of a call expression.
type CallKind string

const (
	// CallFunction is a plain function call, e.g. env('APP_KEY').
	CallFunction CallKind = "function"
	// CallMember is an instance method call, e.g. $request->validate().
	CallMember CallKind = "member"
	// CallStatic is a static/scoped call, e.g. DB::table().
	CallStatic CallKind = "static"
)

// CallNode records a single call expression observed in a file.
type CallNode struct {
	Kind       CallKind
	Callee     string // called function or method name, e.g. "env", "validate"
	Receiver   string // receiver text for member/static calls ("$request", "DB"); empty for chained calls
	Line       int
	Column     int
	LoopDepth  int    // number of loops enclosing the call site
	ArgText    string // raw argument list text, truncated
	HasClosure bool   // true when an argument is a closure or arrow function
}

// MethodNode describes one method of a class. Used read-only by rules.
type MethodNode struct {
	Name       string
	Class      string // enclosing class name
	Visibility string // "public", "protected", "private" or "" when omitted
	StartLine  int
	EndLine    int
	Calls      []CallNode
}

// ClassNode describes one class declaration.
type ClassNode struct {
	Name      string
	StartLine int
	EndLine   int
	Methods   []MethodNode
}

// RouteHandlerKind describes how a route is wired to its handler.
type RouteHandlerKind string

const (
	// HandlerClosure is an inline closure passed to the route registration.
	HandlerClosure RouteHandlerKind = "closure"
	// HandlerController is a controller action reference.
	HandlerController RouteHandlerKind = "controller"
	// HandlerView is a Route::view shortcut.
	HandlerView RouteHandlerKind = "view"
)

// RouteNode describes one route registration in a routes file.
type RouteNode struct {
	Verb    string // lowercased HTTP verb or registration helper ("get", "resource", ...)
	URI     string
	Name    string // chained ->name(...) value, empty when unnamed
	Handler RouteHandlerKind
	Line    int
}

// SourceUnit is the structural representation of one parsed file.
// It is built once by the source model builder and never mutated
// afterwards; analysis is read-only.
type SourceUnit struct {
	Path      Path
	ShortPath Path // path relative to the scanned root, used in reports
	Hash      string
	Kind      UnitKind
	Lines     []string
	Classes   []ClassNode
	Routes    []RouteNode
	Calls     []CallNode // calls outside any class body
}
