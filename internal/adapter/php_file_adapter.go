package adapter

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/php"

	m "laralint.dev/pkg/laralint/internal/model"
)

// PHPFileAdapter encapsulates PHP-specific parsing so the domain layer can
// focus on convention rules while delegating language details to an
// infrastructure component.
type PHPFileAdapter interface {
	// Parse builds the structural model for one source file. Blade templates
	// keep raw lines only; every other file goes through tree-sitter.
	Parse(ctx context.Context, path m.Path, src []byte) (m.SourceUnit, error)
}

// TreeSitterPHPAdapter provides a concrete PHPFileAdapter backed by the
// tree-sitter PHP grammar.
type TreeSitterPHPAdapter struct{}

// NewTreeSitterPHPAdapter constructs a TreeSitterPHPAdapter.
func NewTreeSitterPHPAdapter() *TreeSitterPHPAdapter {
	return &TreeSitterPHPAdapter{}
}

const maxArgTextLen = 120

// Parse builds a SourceUnit for the provided path/source pair.
//
// A fresh parser is created per call; sitter.Parser is not safe for
// concurrent use and the builder fans out across workers.
func (a *TreeSitterPHPAdapter) Parse(ctx context.Context, path m.Path, src []byte) (m.SourceUnit, error) {
	unit := m.SourceUnit{
		Path:  path,
		Kind:  ClassifyPath(path),
		Lines: strings.Split(string(src), "\n"),
	}

	// Blade templates interleave HTML and directives; the structural model
	// keeps their raw lines and lets template rules pattern-match those.
	if unit.Kind == m.UnitBlade {
		return unit, nil
	}

	parser := sitter.NewParser()
	parser.SetLanguage(php.GetLanguage())

	tree, err := parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return unit, fmt.Errorf("parse %s: %w", path, err)
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.HasError() {
		line := firstErrorLine(root)
		return unit, fmt.Errorf("parse %s: syntax error near line %d", path, line)
	}

	ex := &extractor{src: src, unit: &unit}
	ex.walk(root, walkState{})

	return unit, nil
}

// ClassifyPath maps a file path onto the Laravel layout role it plays.
func ClassifyPath(path m.Path) m.UnitKind {
	p := filepath.ToSlash(string(path))

	switch {
	case strings.HasSuffix(p, ".blade.php"):
		return m.UnitBlade
	case strings.Contains(p, "app/Http/Controllers/"):
		return m.UnitController
	case strings.Contains(p, "app/Models/"):
		return m.UnitModel
	case strings.Contains(p, "routes/"):
		return m.UnitRoutes
	case strings.Contains(p, "config/"):
		return m.UnitConfig
	}

	return m.UnitPHP
}

// firstErrorLine locates the first ERROR node so parse diagnostics point at
// a concrete line.
func firstErrorLine(node *sitter.Node) int {
	if node.Type() == "ERROR" || node.IsMissing() {
		return int(node.StartPoint().Row) + 1
	}

	for i := 0; i < int(node.ChildCount()); i++ {
		if line := firstErrorLine(node.Child(i)); line > 0 {
			return line
		}
	}

	return 0
}

// walkState carries the structural context while descending the tree.
type walkState struct {
	class     *m.ClassNode
	method    *m.MethodNode
	loopDepth int
}

type extractor struct {
	src  []byte
	unit *m.SourceUnit
}

func (ex *extractor) walk(node *sitter.Node, state walkState) {
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)

		switch child.Type() {
		case "class_declaration":
			ex.extractClass(child, state)

		case "method_declaration":
			ex.extractMethod(child, state)

		case "for_statement", "foreach_statement", "while_statement", "do_statement":
			inner := state
			inner.loopDepth++
			ex.walk(child, inner)

		case "function_call_expression":
			ex.recordCall(child, state, m.CallFunction, "")
			ex.walk(child, state)

		case "member_call_expression", "nullsafe_member_call_expression":
			ex.recordCall(child, state, m.CallMember, ex.receiverText(child.ChildByFieldName("object")))
			ex.walk(child, state)

		case "scoped_call_expression":
			receiver := ex.receiverText(child.ChildByFieldName("scope"))
			ex.recordCall(child, state, m.CallStatic, receiver)

			if receiver == "Route" && ex.unit.Kind == m.UnitRoutes {
				ex.extractRoute(child)
			}

			ex.walk(child, state)

		default:
			ex.walk(child, state)
		}
	}
}

func (ex *extractor) extractClass(node *sitter.Node, state walkState) {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return
	}

	class := m.ClassNode{
		Name:      ex.text(nameNode),
		StartLine: int(node.StartPoint().Row) + 1,
		EndLine:   int(node.EndPoint().Row) + 1,
	}

	if body := node.ChildByFieldName("body"); body != nil {
		inner := state
		inner.class = &class
		inner.method = nil
		ex.walk(body, inner)
	}

	ex.unit.Classes = append(ex.unit.Classes, class)
}

func (ex *extractor) extractMethod(node *sitter.Node, state walkState) {
	if state.class == nil {
		return
	}

	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return
	}

	method := m.MethodNode{
		Name:       ex.text(nameNode),
		Class:      state.class.Name,
		Visibility: methodVisibility(node, ex.src),
		StartLine:  int(node.StartPoint().Row) + 1,
		EndLine:    int(node.EndPoint().Row) + 1,
	}

	if body := node.ChildByFieldName("body"); body != nil {
		inner := state
		inner.method = &method
		inner.loopDepth = 0
		ex.walk(body, inner)
	}

	state.class.Methods = append(state.class.Methods, method)
}

func methodVisibility(node *sitter.Node, src []byte) string {
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		if child.Type() == "visibility_modifier" {
			return string(src[child.StartByte():child.EndByte()])
		}
	}

	return ""
}

// recordCall appends a CallNode to the current method, or to the unit when
// the call sits outside any class body.
func (ex *extractor) recordCall(node *sitter.Node, state walkState, kind m.CallKind, receiver string) {
	callee := ex.calleeName(node)
	if callee == "" {
		return
	}

	args := node.ChildByFieldName("arguments")

	call := m.CallNode{
		Kind:       kind,
		Callee:     callee,
		Receiver:   receiver,
		Line:       int(node.StartPoint().Row) + 1,
		Column:     int(node.StartPoint().Column) + 1,
		LoopDepth:  state.loopDepth,
		ArgText:    truncate(ex.argText(args), maxArgTextLen),
		HasClosure: hasClosureArg(args),
	}

	if state.method != nil {
		state.method.Calls = append(state.method.Calls, call)
		return
	}

	ex.unit.Calls = append(ex.unit.Calls, call)
}

func (ex *extractor) calleeName(node *sitter.Node) string {
	var nameNode *sitter.Node

	if node.Type() == "function_call_expression" {
		nameNode = node.ChildByFieldName("function")
	} else {
		nameNode = node.ChildByFieldName("name")
	}

	if nameNode == nil || nameNode.Type() != "name" {
		return ""
	}

	return ex.text(nameNode)
}

// receiverText resolves the receiver of a member or scoped call. Chained
// receivers (the object is itself a call) yield an empty string; rules treat
// that as "part of a fluent chain".
func (ex *extractor) receiverText(node *sitter.Node) string {
	if node == nil {
		return ""
	}

	switch node.Type() {
	case "variable_name", "name", "qualified_name":
		return ex.text(node)
	}

	return ""
}

func (ex *extractor) argText(args *sitter.Node) string {
	if args == nil {
		return ""
	}

	return ex.text(args)
}

func hasClosureArg(args *sitter.Node) bool {
	if args == nil {
		return false
	}

	for i := 0; i < int(args.NamedChildCount()); i++ {
		arg := args.NamedChild(i)
		for j := 0; j < int(arg.NamedChildCount()); j++ {
			switch arg.NamedChild(j).Type() {
			case "anonymous_function_creation_expression", "anonymous_function", "arrow_function":
				return true
			}
		}
	}

	return false
}

var routeVerbs = map[string]bool{
	"get": true, "post": true, "put": true, "patch": true, "delete": true,
	"options": true, "any": true, "match": true, "resource": true,
	"apiResource": true, "view": true, "redirect": true,
}

func (ex *extractor) extractRoute(node *sitter.Node) {
	verb := ex.calleeName(node)
	if !routeVerbs[verb] {
		return
	}

	args := node.ChildByFieldName("arguments")

	route := m.RouteNode{
		Verb:    strings.ToLower(verb),
		URI:     firstStringArg(args, ex.src),
		Handler: routeHandlerKind(verb, args),
		Name:    chainedRouteName(node, ex.src),
		Line:    int(node.StartPoint().Row) + 1,
	}

	ex.unit.Routes = append(ex.unit.Routes, route)
}

func routeHandlerKind(verb string, args *sitter.Node) m.RouteHandlerKind {
	if verb == "view" {
		return m.HandlerView
	}

	if hasClosureArg(args) {
		return m.HandlerClosure
	}

	return m.HandlerController
}

// chainedRouteName follows the fluent chain upwards looking for a
// ->name('...') call, e.g. Route::get('/home', ...)->name('home').
func chainedRouteName(node *sitter.Node, src []byte) string {
	cur := node

	for {
		parent := cur.Parent()
		if parent == nil || parent.Type() != "member_call_expression" {
			return ""
		}

		nameNode := parent.ChildByFieldName("name")
		if nameNode != nil && string(src[nameNode.StartByte():nameNode.EndByte()]) == "name" {
			return firstStringArg(parent.ChildByFieldName("arguments"), src)
		}

		cur = parent
	}
}

// firstStringArg returns the unquoted value of the first string literal
// argument, or "" when the first argument is not a plain string.
func firstStringArg(args *sitter.Node, src []byte) string {
	if args == nil || args.NamedChildCount() == 0 {
		return ""
	}

	arg := args.NamedChild(0)

	str := arg
	if arg.Type() == "argument" && arg.NamedChildCount() > 0 {
		str = arg.NamedChild(0)
	}

	switch str.Type() {
	case "string", "encapsed_string":
		return strings.Trim(string(src[str.StartByte():str.EndByte()]), `'"`)
	}

	return ""
}

func (ex *extractor) text(node *sitter.Node) string {
	return node.Content(ex.src)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}

	return s[:max]
}
