package prune

import (
	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/traverse"

	"github.com/panbanda/jsprune/pkg/ast"
)

// rootID is the synthetic node standing for every usage outside a
// surviving candidate body: application code, library top-level code and
// externs. Candidate node IDs are their registration sequence numbers.
const rootID int64 = 1 << 40

// Stranded returns the names of surviving candidates that are reachable
// only from other surviving candidates that are themselves unreachable,
// such as the tail of a call chain longer than the pass count. Candidates
// retained because their statement could not be detached are reported too
// when no live usage reaches them.
func Stranded(tree *ast.Tree, reg *Registry, table *CallTable) []string {
	cands := reg.Candidates()
	if len(cands) == 0 {
		return nil
	}

	g := simple.NewDirectedGraph()
	g.AddNode(simple.Node(rootID))
	for _, c := range cands {
		g.AddNode(simple.Node(int64(c.Seq)))
	}

	// Usages inside outermost surviving bodies; nested bodies are already
	// part of their enclosing one.
	ids := make(map[ast.NodeID]bool, len(cands))
	for _, c := range cands {
		ids[c.ID] = true
	}
	inner := make(map[string]int)
	for _, c := range cands {
		body := scanUsages(tree, c.ID)
		if !nestedIn(tree, c.ID, ids) {
			for _, u := range body {
				inner[u.name] += u.count
			}
		}
		for _, u := range body {
			for _, callee := range reg.Match(u.name) {
				if callee == c {
					continue
				}
				g.SetEdge(simple.Edge{F: simple.Node(int64(c.Seq)), T: simple.Node(int64(callee.Seq))})
			}
		}
	}

	for _, c := range cands {
		for _, a := range c.Aliases {
			rec := table.Get(a)
			if rec == nil {
				continue
			}
			if rec.Extern || rec.Count-inner[a] >= 1 {
				g.SetEdge(simple.Edge{F: simple.Node(rootID), T: simple.Node(int64(c.Seq))})
				break
			}
		}
	}

	var bf traverse.BreadthFirst
	bf.Walk(g, simple.Node(rootID), func(graph.Node, int) bool { return false })

	var stranded []string
	for _, c := range cands {
		if !bf.Visited(simple.Node(int64(c.Seq))) {
			stranded = append(stranded, c.Name)
		}
	}
	return stranded
}

func nestedIn(tree *ast.Tree, id ast.NodeID, ids map[ast.NodeID]bool) bool {
	for p := tree.Parent(id); p != ast.NoNode; p = tree.Parent(p) {
		if ids[p] {
			return true
		}
	}
	return false
}
