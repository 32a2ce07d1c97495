package prune

import (
	"github.com/panbanda/jsprune/pkg/ast"
)

// Examined is the per-pass set of names already expanded by Mark.
type Examined map[string]bool

// Reachability computes which candidates are reachable from live calls.
type Reachability struct {
	tree   *ast.Tree
	reg    *Registry
	bodies map[ast.NodeID][]usage
}

// NewReachability creates an engine over a library tree and its registry.
// Body scans are memoized, so create a new engine whenever the tree has
// been mutated.
func NewReachability(tree *ast.Tree, reg *Registry) *Reachability {
	return &Reachability{
		tree:   tree,
		reg:    reg,
		bodies: make(map[ast.NodeID][]usage),
	}
}

// Compute runs Mark for every live record in table and returns a fresh
// kept set.
func (r *Reachability) Compute(table *CallTable) *KeptSet {
	kept := NewKeptSet()
	examined := make(Examined)
	for _, name := range table.Names() {
		if table.Live(name) {
			r.Mark(name, kept, examined)
		}
	}
	return kept
}

// Mark keeps every candidate aliased by name, then marks each name used
// inside the kept candidates' bodies.
func (r *Reachability) Mark(name string, kept *KeptSet, examined Examined) {
	if examined[name] {
		return
	}
	examined[name] = true

	for _, c := range r.reg.Match(name) {
		kept.Add(c)
		for _, u := range r.body(c) {
			r.Mark(u.name, kept, examined)
		}
	}
}

func (r *Reachability) body(c *Candidate) []usage {
	if b, ok := r.bodies[c.ID]; ok {
		return b
	}
	b := scanUsages(r.tree, c.ID)
	r.bodies[c.ID] = b
	return b
}
