package prune

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/panbanda/jsprune/pkg/ast"
	"github.com/panbanda/jsprune/pkg/ast/treesitter"
	"github.com/panbanda/jsprune/pkg/source"
)

func parseJS(t *testing.T, name, src string) *ast.Tree {
	t.Helper()
	p := treesitter.New()
	defer p.Close()
	tree, err := p.Parse(context.Background(), name, []byte(src))
	require.NoError(t, err)
	return tree
}

// functions returns every function node of tree in pre-order.
func functions(tree *ast.Tree) []ast.NodeID {
	var out []ast.NodeID
	tree.Walk(tree.Root(), func(id ast.NodeID) bool {
		if tree.Kind(id) == ast.KindFunction {
			out = append(out, id)
		}
		return true
	})
	return out
}

func runPrune(t *testing.T, lib, app string, opts ...Option) *Result {
	t.Helper()
	units := []source.Unit{{Name: "lib.js", Source: []byte(lib), Library: true}}
	if app != "" {
		units = append(units, source.Unit{Name: "app.js", Source: []byte(app)})
	}
	a := New(opts...)
	defer a.Close()
	result, err := a.Analyze(context.Background(), units)
	require.NoError(t, err)
	require.NotNil(t, result)
	return result
}

func removedNames(r *Result) []string {
	names := make([]string, len(r.RemovedFunctions))
	for i, rf := range r.RemovedFunctions {
		names[i] = rf.Name
	}
	return names
}
