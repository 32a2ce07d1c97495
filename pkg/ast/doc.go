// Package ast provides the mutable syntax tree the pruner operates on.
//
// Trees are arenas: every node is addressed by a stable NodeID and stores
// its parent handle plus an ordered list of child handles. Detaching a
// node removes its handle from the parent's child list and clears its
// parent, so no pointer into the tree is ever left dangling. Removed
// byte ranges are recorded on the tree so a printer can reproduce the
// original source minus everything that was detached.
//
// The Provider interface abstracts the parser that builds trees. The
// tree-sitter implementation lives in the treesitter subpackage.
//
// Usage:
//
//	provider := treesitter.New(treesitter.WithStrict(true))
//	defer provider.Close()
//
//	tree, err := provider.Parse(ctx, "lib.js", source)
//	if err != nil {
//	    return err
//	}
//
//	tree.Walk(tree.Root(), func(id ast.NodeID) bool {
//	    fmt.Println(tree.Node(id).Kind)
//	    return true
//	})
package ast
