package treesitter

import (
	"context"

	"github.com/panbanda/jsprune/pkg/ast"
	"github.com/panbanda/jsprune/pkg/parser"
	sitter "github.com/smacker/go-tree-sitter"
)

// Provider implements ast.Provider using tree-sitter.
type Provider struct {
	parser *parser.Parser
	strict bool
}

// Option configures a Provider.
type Option func(*Provider)

// WithStrict rejects ES3-invalid trailing commas in literals.
func WithStrict(strict bool) Option {
	return func(p *Provider) {
		p.strict = strict
	}
}

// New creates a new tree-sitter based provider.
func New(opts ...Option) *Provider {
	p := &Provider{
		parser: parser.New(),
		strict: true,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse parses source and converts it to an ast.Tree. Sources with syntax
// problems yield a *parser.ParseFailure listing every diagnostic.
func (p *Provider) Parse(ctx context.Context, name string, source []byte) (*ast.Tree, error) {
	if parser.DetectLanguage(name) == parser.LangUnknown && name != "" && !isVirtual(name) {
		return nil, ast.ErrUnsupportedLanguage
	}

	result, err := p.parser.Parse(ctx, source, name)
	if err != nil {
		return nil, err
	}
	defer result.Close()

	if diags := parser.Diagnose(result, p.strict); len(diags) > 0 {
		return nil, &parser.ParseFailure{Path: name, Diagnostics: diags}
	}

	return Build(name, result.Tree.RootNode(), source), nil
}

// Close releases parser resources.
func (p *Provider) Close() {
	p.parser.Close()
}

// Build converts a tree-sitter tree into an arena tree. Anonymous tokens
// are kept as punctuation nodes so separators such as commas can be
// located later.
func Build(name string, root *sitter.Node, source []byte) *ast.Tree {
	tree := ast.NewTree(name, source)
	build(tree, ast.NoNode, "", root, source)
	return tree
}

func build(tree *ast.Tree, parent ast.NodeID, field string, node *sitter.Node, source []byte) {
	nodeType := node.Type()
	kind := ast.KindOf(nodeType, node.IsNamed())
	pt := node.StartPoint()

	n := ast.Node{
		Kind:   kind,
		Type:   nodeType,
		Field:  field,
		Start:  int(node.StartByte()),
		End:    int(node.EndByte()),
		Line:   int(pt.Row) + 1,
		Column: int(pt.Column) + 1,
	}

	switch kind {
	case ast.KindIdent, ast.KindPropertyName, ast.KindNumber, ast.KindPunct:
		n.Text = parser.GetNodeText(node, source)
	case ast.KindString:
		n.Text = unquote(parser.GetNodeText(node, source))
	case ast.KindAssign:
		n.Op = ast.OpAssign
		if op := node.ChildByFieldName("operator"); op != nil {
			n.Op = ast.ParseAssignOp(parser.GetNodeText(op, source))
		}
	}

	id := tree.Add(parent, n)

	for i := range int(node.ChildCount()) {
		child := node.Child(i)
		if child == nil {
			continue
		}
		build(tree, id, node.FieldNameForChild(i), child, source)
	}
}

// unquote strips the delimiters of a string literal. Escape sequences are
// left as written; names compared against string keys never contain them
// in practice.
func unquote(s string) string {
	if len(s) >= 2 {
		q := s[0]
		if (q == '"' || q == '\'') && s[len(s)-1] == q {
			return s[1 : len(s)-1]
		}
	}
	return s
}

// isVirtual reports names that do not come from disk, such as "<stdin>"
// or the concatenated library bundle.
func isVirtual(name string) bool {
	return len(name) > 1 && name[0] == '<' && name[len(name)-1] == '>'
}
