package prune

import (
	"github.com/panbanda/jsprune/pkg/ast"
)

// Form is the syntactic shape that gives a candidate its name. It also
// decides how the candidate is detached.
type Form uint8

const (
	FormNone Form = iota
	// FormKeyed is an object-literal property value: {name: function() {}}.
	FormKeyed
	// FormAssigned is an assignment value: obj.name = function() {}.
	FormAssigned
	// FormDeclared is a standalone declaration: function name() {}.
	FormDeclared
)

// String returns the string representation.
func (f Form) String() string {
	switch f {
	case FormKeyed:
		return "keyed"
	case FormAssigned:
		return "assigned"
	case FormDeclared:
		return "declared"
	default:
		return "none"
	}
}

// Sink receives used names.
type Sink interface {
	Add(name string)
}

// up returns the parent of id, skipping parenthesized expressions.
func up(tree *ast.Tree, id ast.NodeID) ast.NodeID {
	p := tree.Parent(id)
	for p != ast.NoNode && tree.Kind(p) == ast.KindParen {
		p = tree.Parent(p)
	}
	return p
}

// down returns id with any wrapping parentheses removed.
func down(tree *ast.Tree, id ast.NodeID) ast.NodeID {
	for id != ast.NoNode && tree.Kind(id) == ast.KindParen {
		id = tree.FirstNamed(id)
	}
	return id
}

// isRightOf reports whether child is the value side of assign, looking
// through parentheses.
func isRightOf(tree *ast.Tree, assign, child ast.NodeID) bool {
	return down(tree, tree.Field(assign, "right")) == child
}

// keyName returns the name of an object-literal key. Only identifier and
// string keys name a function; computed and numeric keys do not.
func keyName(tree *ast.Tree, key ast.NodeID) (string, bool) {
	switch tree.Kind(key) {
	case ast.KindPropertyName, ast.KindString:
		name := tree.Text(key)
		return name, name != ""
	}
	return "", false
}

// propertyName returns the final segment of a member access.
func propertyName(tree *ast.Tree, member ast.NodeID) (string, bool) {
	if tree.Kind(member) != ast.KindMember {
		return "", false
	}
	name := tree.Text(tree.Field(member, "property"))
	return name, name != ""
}

// formOf classifies how fn is named.
func formOf(tree *ast.Tree, fn ast.NodeID) Form {
	node := tree.Node(fn)
	parent := up(tree, fn)

	if node.Type == "method_definition" {
		if tree.Kind(parent) == ast.KindObject && !isAccessor(tree, fn) {
			return FormKeyed
		}
		return FormNone
	}

	switch tree.Kind(parent) {
	case ast.KindPair:
		if down(tree, tree.Field(parent, "value")) == fn {
			return FormKeyed
		}
	case ast.KindAssign:
		if isRightOf(tree, parent, fn) {
			return FormAssigned
		}
	}

	switch node.Type {
	case "function_declaration", "generator_function_declaration":
		if tree.Text(tree.Field(fn, "name")) != "" {
			return FormDeclared
		}
	}
	return FormNone
}

func isAccessor(tree *ast.Tree, method ast.NodeID) bool {
	for _, c := range tree.Children(method) {
		n := tree.Node(c)
		if n.Kind == ast.KindPunct && (n.Text == "get" || n.Text == "set") {
			return true
		}
	}
	return false
}

// ResolveName returns the single canonical name of a function node.
// Bare-variable and computed-member assignment targets have no name.
func ResolveName(tree *ast.Tree, fn ast.NodeID) (string, bool) {
	switch formOf(tree, fn) {
	case FormAssigned:
		left := down(tree, tree.Field(up(tree, fn), "left"))
		return propertyName(tree, left)
	case FormKeyed:
		if tree.Node(fn).Type == "method_definition" {
			return keyName(tree, tree.Field(fn, "name"))
		}
		return keyName(tree, tree.Field(up(tree, fn), "key"))
	case FormDeclared:
		return tree.Text(tree.Field(fn, "name")), true
	}
	return "", false
}

// ResolveAllNames returns every alias of fn. For a chain such as
// a.b = a.c = function() {} each assignment link contributes its target's
// final property segment.
func ResolveAllNames(tree *ast.Tree, fn ast.NodeID) []string {
	var names []string
	seen := make(map[string]bool)
	add := func(name string) {
		if name != "" && !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}

	if name, ok := ResolveName(tree, fn); ok {
		add(name)
	}

	child := fn
	for parent := up(tree, child); tree.Kind(parent) == ast.KindAssign && isRightOf(tree, parent, child); parent = up(tree, child) {
		if name, ok := propertyName(tree, down(tree, tree.Field(parent, "left"))); ok {
			add(name)
		}
		child = parent
	}
	return names
}

// IsInteresting reports whether fn is a removal candidate: it has a
// trackable name and is not a returned, callback or function-local
// definition.
func IsInteresting(tree *ast.Tree, fn ast.NodeID) bool {
	if tree.Kind(fn) != ast.KindFunction {
		return false
	}
	parent := up(tree, fn)

	if tree.Kind(parent) == ast.KindAssign && tree.Kind(up(tree, parent)) == ast.KindReturn {
		return false
	}

	form := formOf(tree, fn)
	if form == FormNone {
		return false
	}

	if form == FormKeyed && isCallbackObject(tree, fn) {
		return false
	}

	if _, ok := ResolveName(tree, fn); !ok {
		return false
	}

	if tree.Kind(parent) == ast.KindBlock && tree.Kind(tree.Parent(parent)) == ast.KindFunction {
		return false
	}
	return true
}

// isCallbackObject reports whether the object literal holding fn is
// passed directly as a call or constructor argument.
func isCallbackObject(tree *ast.Tree, fn ast.NodeID) bool {
	obj := up(tree, fn)
	if tree.Kind(obj) == ast.KindPair {
		obj = up(tree, obj)
	}
	if tree.Kind(obj) != ast.KindObject {
		return false
	}
	args := up(tree, obj)
	if tree.Kind(args) != ast.KindArguments {
		return false
	}
	switch tree.Kind(tree.Parent(args)) {
	case ast.KindCall, ast.KindNew:
		return true
	}
	return false
}

// ExtractCalledNames adds the names a call, constructor invocation or
// assignment uses to sink. Other nodes add nothing.
func ExtractCalledNames(tree *ast.Tree, id ast.NodeID, sink Sink) {
	switch tree.Kind(id) {
	case ast.KindCall:
		extractCall(tree, id, tree.Field(id, "function"), sink)
	case ast.KindNew:
		extractCall(tree, id, tree.Field(id, "constructor"), sink)
	case ast.KindAssign:
		extractAssign(tree, id, sink)
	}
}

func extractCall(tree *ast.Tree, call, callee ast.NodeID, sink Sink) {
	callee = down(tree, callee)
	switch tree.Kind(callee) {
	case ast.KindIdent:
		sink.Add(tree.Text(callee))
	case ast.KindMember, ast.KindIndex:
		memberChain(tree, callee, sink)
		// Member-access arguments that directly follow a method callee are
		// treated as part of the chain: $.extend(a.b, c.d).
		for _, arg := range tree.NamedChildren(tree.Field(call, "arguments")) {
			if tree.Kind(arg) != ast.KindMember {
				break
			}
			memberChain(tree, arg, sink)
		}
	}
}

// memberChain adds the final segment of a.b.c, recursing leftward. A call
// at the base of the chain adds its own identifier callee.
func memberChain(tree *ast.Tree, member ast.NodeID, sink Sink) {
	switch tree.Kind(member) {
	case ast.KindMember:
		if name, ok := propertyName(tree, member); ok {
			sink.Add(name)
		}
	case ast.KindIndex:
		idx := down(tree, tree.Field(member, "index"))
		if tree.Kind(idx) != ast.KindString {
			return
		}
		sink.Add(tree.Text(idx))
	default:
		return
	}

	base := down(tree, tree.Field(member, "object"))
	switch tree.Kind(base) {
	case ast.KindCall:
		if callee := down(tree, tree.Field(base, "function")); tree.Kind(callee) == ast.KindIdent {
			sink.Add(tree.Text(callee))
		}
	case ast.KindMember, ast.KindIndex:
		memberChain(tree, base, sink)
	}
}

// extractAssign handles alias = fn and dict[key] = ns.name.
func extractAssign(tree *ast.Tree, assign ast.NodeID, sink Sink) {
	left := down(tree, tree.Field(assign, "left"))
	right := down(tree, tree.Field(assign, "right"))

	if tree.Kind(right) == ast.KindIdent {
		sink.Add(tree.Text(right))
		return
	}
	if tree.Kind(left) != ast.KindIndex {
		return
	}
	switch tree.Kind(right) {
	case ast.KindMember:
		if name, ok := propertyName(tree, right); ok {
			sink.Add(name)
		}
	case ast.KindIndex:
		if idx := down(tree, tree.Field(right, "index")); tree.Kind(idx) == ast.KindString {
			sink.Add(tree.Text(idx))
		}
	}
}

// scanUsages collects the usages inside fn's body, excluding fn itself.
func scanUsages(tree *ast.Tree, fn ast.NodeID) []usage {
	var list usageList
	for _, c := range tree.Children(fn) {
		tree.Walk(c, func(id ast.NodeID) bool {
			ExtractCalledNames(tree, id, &list)
			return true
		})
	}
	return list.items
}
