package ast

import (
	"fmt"
	"strings"
)

// NodeID addresses a node inside its Tree. IDs are stable for the
// lifetime of the tree, including after the node is detached.
type NodeID int32

// NoNode is the zero handle: no parent, no child, not found.
const NoNode NodeID = -1

// Node is a single syntax tree node.
type Node struct {
	Kind Kind
	// Type is the grammar node type, e.g. "function_declaration".
	Type string
	// Field is the grammar field under which the parent holds this node.
	Field string
	// Op is set on KindAssign nodes.
	Op AssignOp
	// Text is the literal text of leaves (identifiers, keys, strings
	// without quotes, punctuation). Empty for interior nodes.
	Text string

	Start  int
	End    int
	Line   int
	Column int

	Parent   NodeID
	Children []NodeID

	detached bool
}

// Removal records a detached byte range of the original source.
type Removal struct {
	Node  NodeID
	Start int
	End   int
	// Replacement is emitted in place of the removed range. It is ";"
	// when a statement is removed from a single-statement slot such as
	// an unbraced if body, and empty otherwise.
	Replacement string
}

// Tree is an arena of nodes rooted at a program node.
type Tree struct {
	Name   string
	Source []byte

	nodes    []Node
	root     NodeID
	removals []Removal
}

// NewTree creates an empty tree over source.
func NewTree(name string, source []byte) *Tree {
	return &Tree{Name: name, Source: source, root: NoNode}
}

// Add appends n as the last child of parent and returns its ID. Passing
// NoNode as parent makes n the root.
func (t *Tree) Add(parent NodeID, n Node) NodeID {
	id := NodeID(len(t.nodes))
	n.Parent = parent
	n.Children = nil
	t.nodes = append(t.nodes, n)
	if parent == NoNode {
		t.root = id
	} else {
		t.nodes[parent].Children = append(t.nodes[parent].Children, id)
	}
	return id
}

// Root returns the root node ID.
func (t *Tree) Root() NodeID {
	return t.root
}

// Len returns the number of nodes ever added, detached ones included.
func (t *Tree) Len() int {
	return len(t.nodes)
}

// Node returns the node for id. The pointer is valid until the next Add.
func (t *Tree) Node(id NodeID) *Node {
	return &t.nodes[id]
}

// Kind returns the kind of id, or KindOther for NoNode.
func (t *Tree) Kind(id NodeID) Kind {
	if id == NoNode {
		return KindOther
	}
	return t.nodes[id].Kind
}

// Parent returns the parent of id, or NoNode.
func (t *Tree) Parent(id NodeID) NodeID {
	if id == NoNode {
		return NoNode
	}
	return t.nodes[id].Parent
}

// Children returns the ordered children of id.
func (t *Tree) Children(id NodeID) []NodeID {
	if id == NoNode {
		return nil
	}
	return t.nodes[id].Children
}

// Field returns the first child of id held under the given grammar field.
func (t *Tree) Field(id NodeID, field string) NodeID {
	for _, c := range t.Children(id) {
		if t.nodes[c].Field == field {
			return c
		}
	}
	return NoNode
}

// FirstNamed returns the first child of id that is neither punctuation
// nor a comment.
func (t *Tree) FirstNamed(id NodeID) NodeID {
	for _, c := range t.Children(id) {
		if !t.nodes[c].trivial() {
			return c
		}
	}
	return NoNode
}

// NamedChildren returns the children of id that are neither punctuation
// nor comments.
func (t *Tree) NamedChildren(id NodeID) []NodeID {
	var out []NodeID
	for _, c := range t.Children(id) {
		if !t.nodes[c].trivial() {
			out = append(out, c)
		}
	}
	return out
}

// Text returns the literal text of a leaf, or "" for NoNode.
func (t *Tree) Text(id NodeID) string {
	if id == NoNode {
		return ""
	}
	return t.nodes[id].Text
}

// SourceText returns the original source slice spanned by id.
func (t *Tree) SourceText(id NodeID) string {
	if id == NoNode {
		return ""
	}
	n := &t.nodes[id]
	if n.Start < 0 || n.End > len(t.Source) || n.Start > n.End {
		return ""
	}
	return string(t.Source[n.Start:n.End])
}

// Attached reports whether id is still connected to the root.
func (t *Tree) Attached(id NodeID) bool {
	for cur := id; cur != NoNode; cur = t.nodes[cur].Parent {
		if cur == t.root {
			return true
		}
		if t.nodes[cur].detached {
			return false
		}
	}
	return false
}

// Detach removes id from its parent's child list and records the removed
// range. Detaching a node that is no longer attached is a no-op and
// returns false.
func (t *Tree) Detach(id NodeID) bool {
	if id == NoNode || id == t.root || !t.Attached(id) {
		return false
	}
	n := &t.nodes[id]
	parent := n.Parent
	siblings := t.nodes[parent].Children
	for i, c := range siblings {
		if c == id {
			t.nodes[parent].Children = append(siblings[:i:i], siblings[i+1:]...)
			break
		}
	}

	replacement := ""
	if isStatement(n) && !isStatementList(t.nodes[parent].Kind, t.nodes[parent].Type) {
		replacement = ";"
	}
	t.removals = append(t.removals, Removal{
		Node:        id,
		Start:       n.Start,
		End:         n.End,
		Replacement: replacement,
	})

	n.Parent = NoNode
	n.detached = true
	return true
}

// Removals returns the detached ranges in detach order.
func (t *Tree) Removals() []Removal {
	return t.removals
}

// Sibling returns the child of id's parent at the given offset from id
// (-1 for the previous sibling, +1 for the next), or NoNode.
func (t *Tree) Sibling(id NodeID, offset int) NodeID {
	parent := t.Parent(id)
	if parent == NoNode {
		return NoNode
	}
	siblings := t.nodes[parent].Children
	for i, c := range siblings {
		if c == id {
			j := i + offset
			if j < 0 || j >= len(siblings) {
				return NoNode
			}
			return siblings[j]
		}
	}
	return NoNode
}

// Walk visits id and its attached descendants in pre-order. Returning
// false from visit skips the node's children.
func (t *Tree) Walk(id NodeID, visit func(NodeID) bool) {
	if id == NoNode {
		return
	}
	if !visit(id) {
		return
	}
	for _, c := range t.nodes[id].Children {
		t.Walk(c, visit)
	}
}

// Dump renders id's subtree as an S-expression, for error reports.
func (t *Tree) Dump(id NodeID) string {
	var sb strings.Builder
	t.dump(&sb, id)
	return sb.String()
}

func (t *Tree) dump(sb *strings.Builder, id NodeID) {
	if id == NoNode {
		sb.WriteString("<nil>")
		return
	}
	n := &t.nodes[id]
	if n.trivial() {
		return
	}
	sb.WriteByte('(')
	sb.WriteString(n.Type)
	if n.Field != "" {
		fmt.Fprintf(sb, " @%s", n.Field)
	}
	if n.Text != "" {
		fmt.Fprintf(sb, " %q", n.Text)
	}
	fmt.Fprintf(sb, " [%d:%d]", n.Line, n.Column)
	for _, c := range n.Children {
		if t.nodes[c].trivial() {
			continue
		}
		sb.WriteByte(' ')
		t.dump(sb, c)
	}
	sb.WriteByte(')')
}

func (n *Node) trivial() bool {
	return n.Kind == KindPunct || n.Kind == KindComment
}

func isStatement(n *Node) bool {
	switch n.Kind {
	case KindExprStmt, KindVarDecl, KindExport:
		return true
	case KindFunction:
		return n.Type == "function_declaration" || n.Type == "generator_function_declaration"
	}
	return false
}

func isStatementList(k Kind, nodeType string) bool {
	switch k {
	case KindProgram, KindBlock:
		return true
	}
	return nodeType == "switch_case" || nodeType == "switch_default" || nodeType == "class_body"
}
