package prune

import (
	"github.com/panbanda/jsprune/pkg/ast"
)

// VarDecl is a variable declaration bound to a simple identifier.
type VarDecl struct {
	Name string
	Unit string
	Line int
}

// Collector populates the call table from every tree it walks and, for
// library trees, discovers candidates.
type Collector struct {
	table *CallTable
	vars  []VarDecl
}

// NewCollector creates a collector feeding table.
func NewCollector(table *CallTable) *Collector {
	return &Collector{table: table}
}

// Collect walks tree in pre-order. When reg is non-nil the tree is
// library code and interesting functions are registered with it.
func (c *Collector) Collect(tree *ast.Tree, reg *Registry) error {
	var err error
	tree.Walk(tree.Root(), func(id ast.NodeID) bool {
		if err != nil {
			return false
		}
		switch tree.Kind(id) {
		case ast.KindDeclarator:
			if name := tree.Field(id, "name"); tree.Kind(name) == ast.KindIdent {
				c.vars = append(c.vars, VarDecl{
					Name: tree.Text(name),
					Unit: tree.Name,
					Line: tree.Node(id).Line,
				})
			}
		case ast.KindCall, ast.KindNew, ast.KindAssign:
			ExtractCalledNames(tree, id, c.table)
		case ast.KindFunction:
			if tree.Parent(id) == ast.NoNode {
				err = &InvariantError{Unit: tree.Name, Node: tree.Node(id).Type, Line: tree.Node(id).Line, Dump: tree.Dump(id)}
				return false
			}
			if reg != nil && IsInteresting(tree, id) {
				reg.Register(id)
			}
		}
		return true
	})
	return err
}

// Vars returns the collected variable declarations.
func (c *Collector) Vars() []VarDecl {
	return c.vars
}
