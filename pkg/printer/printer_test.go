package printer

import (
	"context"
	"testing"

	"github.com/panbanda/jsprune/pkg/ast"
	"github.com/panbanda/jsprune/pkg/ast/treesitter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, source string) *ast.Tree {
	t.Helper()
	p := treesitter.New()
	defer p.Close()
	tree, err := p.Parse(context.Background(), "lib.js", []byte(source))
	require.NoError(t, err)
	return tree
}

func first(tree *ast.Tree, nodeType string) ast.NodeID {
	found := ast.NoNode
	tree.Walk(tree.Root(), func(id ast.NodeID) bool {
		if found == ast.NoNode && tree.Node(id).Type == nodeType {
			found = id
		}
		return found == ast.NoNode
	})
	return found
}

func TestPrintUnchanged(t *testing.T) {
	src := "// header\nfunction a() {}\n"
	assert.Equal(t, src, Print(parse(t, src)))
}

func TestPrintRemovesWholeLines(t *testing.T) {
	src := "function keep() {}\nfunction drop() {\n  return 1;\n}\nkeep();\n"
	tree := parse(t, src)

	var drop ast.NodeID
	tree.Walk(tree.Root(), func(id ast.NodeID) bool {
		if tree.Node(id).Type == "function_declaration" && tree.Text(tree.Field(id, "name")) == "drop" {
			drop = id
		}
		return true
	})
	require.True(t, tree.Detach(drop))

	assert.Equal(t, "function keep() {}\nkeep();\n", Print(tree))
}

func TestPrintKeepsSharedLines(t *testing.T) {
	src := "var x = 1; function drop() {} var y = 2;\n"
	tree := parse(t, src)
	require.True(t, tree.Detach(first(tree, "function_declaration")))
	assert.Equal(t, "var x = 1;  var y = 2;\n", Print(tree))
}

func TestPrintPairWithComma(t *testing.T) {
	src := "var o = {\n  a: function() {},\n  b: 1\n};\n"
	tree := parse(t, src)

	pair := first(tree, "pair")
	comma := tree.Sibling(pair, 1)
	require.Equal(t, ",", tree.Text(comma))
	require.True(t, tree.Detach(pair))
	require.True(t, tree.Detach(comma))

	assert.Equal(t, "var o = {\n  b: 1\n};\n", Print(tree))
}

func TestPrintNestedRemovals(t *testing.T) {
	src := "a.b = function() {\n  var o = {c: function() {}};\n};\nrest();\n"
	tree := parse(t, src)

	pair := first(tree, "pair")
	stmt := first(tree, "expression_statement")
	require.True(t, tree.Detach(pair))
	require.True(t, tree.Detach(stmt))

	assert.Equal(t, "rest();\n", Print(tree))
}

func TestPrintStatementSlot(t *testing.T) {
	src := "if (x) function f() {}\n"
	tree := parse(t, src)
	require.True(t, tree.Detach(first(tree, "function_declaration")))
	assert.Equal(t, "if (x) ;\n", Print(tree))
}

func TestMerge(t *testing.T) {
	cuts := merge([]ast.Removal{
		{Start: 10, End: 20},
		{Start: 0, End: 5},
		{Start: 12, End: 15},
		{Start: 20, End: 21},
		{Start: 30, End: 31, Replacement: ";"},
	})
	assert.Equal(t, []cut{
		{start: 0, end: 5},
		{start: 10, end: 21},
		{start: 30, end: 31, replacement: ";"},
	}, cuts)
	assert.Nil(t, merge(nil))
}

func TestWiden(t *testing.T) {
	src := []byte("a();\n  b();\nc(); d();\n")
	s, e := widen(src, 7, 11)
	assert.Equal(t, 5, s)
	assert.Equal(t, 12, e)

	s, e = widen(src, 12, 16)
	assert.Equal(t, 12, s)
	assert.Equal(t, 16, e)
}

func TestMinify(t *testing.T) {
	out, err := Minify("function keep ( a ) {\n  return a + 1 ;\n}\n")
	require.NoError(t, err)
	assert.NotContains(t, out, "\n  ")
	assert.Contains(t, out, "keep")
	assert.Less(t, len(out), 36)
}
