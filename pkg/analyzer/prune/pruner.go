package prune

import (
	"log/slog"

	"github.com/panbanda/jsprune/pkg/ast"
)

// Pruner detaches candidates that are not kept and cascades their
// outgoing usages out of the call table.
type Pruner struct {
	tree   *ast.Tree
	reg    *Registry
	table  *CallTable
	logger *slog.Logger
}

// NewPruner creates a pruner over a library tree.
func NewPruner(tree *ast.Tree, reg *Registry, table *CallTable, logger *slog.Logger) *Pruner {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Pruner{tree: tree, reg: reg, table: table, logger: logger}
}

// Prune removes every registered candidate missing from kept, visiting
// candidates in reverse registration order, and returns what it removed.
// Cascading may shrink kept while the pass runs.
func (p *Pruner) Prune(kept *KeptSet) []*Candidate {
	var removed []*Candidate
	cands := p.reg.Candidates()

	for i := len(cands) - 1; i >= 0; i-- {
		c := cands[i]
		if kept.Has(c) || !p.reg.Contains(c) {
			continue
		}

		if !p.tree.Attached(c.ID) {
			// Already gone with an enclosing definition.
			p.reg.Remove(c)
			removed = append(removed, c)
			continue
		}

		targets, ok := p.detachTargets(c)
		if !ok {
			p.logger.Debug("candidate not detachable, keeping", "name", c.Name, "form", c.Form.String(), "line", c.Line)
			continue
		}

		p.cascade(c, kept)
		for _, t := range targets {
			p.tree.Detach(t)
		}
		p.reg.Remove(c)
		removed = append(removed, c)
		p.logger.Debug("removed function", "name", c.Name, "form", c.Form.String(), "line", c.Line)
	}

	// Kept candidates nested inside a removed one left with it.
	for _, c := range p.reg.Candidates() {
		if !p.tree.Attached(c.ID) {
			p.reg.Remove(c)
			removed = append(removed, c)
		}
	}
	return removed
}

// cascade subtracts c's outgoing usages from the table. A name whose
// count drops below one can no longer keep its candidates alive, so they
// leave the kept set unless another alias is still live.
func (p *Pruner) cascade(c *Candidate, kept *KeptSet) {
	for _, u := range scanUsages(p.tree, c.ID) {
		if p.table.Decrement(u.name, u.count) >= 1 || p.table.Live(u.name) {
			continue
		}
		for _, other := range p.reg.Match(u.name) {
			if other == c || !kept.Has(other) || p.hasLiveAlias(other) {
				continue
			}
			kept.Remove(other)
			p.logger.Debug("cascade dropped keeper", "name", other.Name, "caller", c.Name, "count", p.table.Count(u.name))
		}
	}
}

func (p *Pruner) hasLiveAlias(c *Candidate) bool {
	for _, a := range c.Aliases {
		if p.table.Live(a) {
			return true
		}
	}
	return false
}

// detachTargets returns the nodes to detach for c, or false when c's
// statement cannot be removed without touching unrelated code.
func (p *Pruner) detachTargets(c *Candidate) ([]ast.NodeID, bool) {
	t := p.tree
	switch c.Form {
	case FormKeyed:
		holder := c.ID
		if t.Node(c.ID).Type != "method_definition" {
			holder = up(t, c.ID)
		}
		if t.Kind(holder) != ast.KindPair && t.Node(holder).Type != "method_definition" {
			return nil, false
		}
		targets := []ast.NodeID{holder}
		if comma := adjacentComma(t, holder); comma != ast.NoNode {
			targets = append(targets, comma)
		}
		return targets, true

	case FormAssigned:
		cur := c.ID
		for {
			parent := t.Parent(cur)
			switch t.Kind(parent) {
			case ast.KindParen:
			case ast.KindAssign:
				if t.Field(parent, "right") != cur {
					return nil, false
				}
			case ast.KindExprStmt:
				return []ast.NodeID{parent}, true
			default:
				// Variable declarations, sequences, conditionals: the
				// statement binds more than this function.
				return nil, false
			}
			cur = parent
		}

	case FormDeclared:
		if parent := t.Parent(c.ID); t.Kind(parent) == ast.KindExport {
			return []ast.NodeID{parent}, true
		}
		return []ast.NodeID{c.ID}, true
	}
	return nil, false
}

// adjacentComma returns the separator after id, or before it when id is
// the last element, skipping comments.
func adjacentComma(t *ast.Tree, id ast.NodeID) ast.NodeID {
	for _, dir := range []int{1, -1} {
		for off := dir; ; off += dir {
			s := t.Sibling(id, off)
			if s == ast.NoNode {
				break
			}
			n := t.Node(s)
			if n.Kind == ast.KindComment {
				continue
			}
			if n.Kind == ast.KindPunct && n.Text == "," {
				return s
			}
			break
		}
	}
	return ast.NoNode
}
