package parser

import (
	"errors"
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
)

// DiagnosticKind classifies a syntax problem.
type DiagnosticKind string

const (
	DiagParseError    DiagnosticKind = "PARSE_ERROR"
	DiagMissingToken  DiagnosticKind = "MISSING_TOKEN"
	DiagTrailingComma DiagnosticKind = "TRAILING_COMMA"
)

// Diagnostic is a single syntax problem found in a source file.
type Diagnostic struct {
	Kind    DiagnosticKind `json:"kind"`
	Message string         `json:"message"`
	File    string         `json:"file"`
	Line    int            `json:"line"`   // 1-based
	Column  int            `json:"column"` // 1-based
	Offset  int            `json:"offset"` // byte offset in File
}

// String returns the string representation.
func (d Diagnostic) String() string {
	return fmt.Sprintf("%s:%d:%d: %s: %s", d.File, d.Line, d.Column, d.Kind, d.Message)
}

// ParseFailure is returned when a source cannot be accepted by the pruner.
type ParseFailure struct {
	Path        string
	Diagnostics []Diagnostic
}

// AsParseFailure reports whether err carries syntax diagnostics.
func AsParseFailure(err error) (*ParseFailure, bool) {
	var pf *ParseFailure
	if errors.As(err, &pf) {
		return pf, true
	}
	return nil, false
}

// Error implements the error interface.
func (f *ParseFailure) Error() string {
	if len(f.Diagnostics) == 0 {
		return fmt.Sprintf("parse %s: invalid source", f.Path)
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "parse %s: %d diagnostic(s)", f.Path, len(f.Diagnostics))
	for _, d := range f.Diagnostics {
		sb.WriteString("\n  ")
		sb.WriteString(d.String())
	}
	return sb.String()
}

// Diagnose collects syntax problems from a parse result. In strict mode
// trailing commas in array and object literals are reported as well,
// matching ES3 rules.
func Diagnose(result *ParseResult, strict bool) []Diagnostic {
	if result == nil || result.Tree == nil {
		return nil
	}
	var diags []Diagnostic
	root := result.Tree.RootNode()

	Walk(root, result.Source, func(node *sitter.Node, source []byte) bool {
		if node.IsMissing() {
			diags = append(diags, newDiagnostic(result.Path, node, DiagMissingToken,
				fmt.Sprintf("missing %q", node.Type())))
			return false
		}
		if node.IsError() {
			diags = append(diags, newDiagnostic(result.Path, node, DiagParseError,
				fmt.Sprintf("unexpected %s", describe(node, source))))
			return false
		}
		if strict && hasTrailingComma(node) {
			comma := node.Child(int(node.ChildCount()) - 2)
			diags = append(diags, newDiagnostic(result.Path, comma, DiagTrailingComma,
				fmt.Sprintf("trailing comma in %s literal is not valid in ES3", literalName(node.Type()))))
		}
		return node.HasError() || strict
	})

	return diags
}

func newDiagnostic(path string, node *sitter.Node, kind DiagnosticKind, msg string) Diagnostic {
	pt := node.StartPoint()
	return Diagnostic{
		Kind:    kind,
		Message: msg,
		File:    path,
		Line:    int(pt.Row) + 1,
		Column:  int(pt.Column) + 1,
		Offset:  int(node.StartByte()),
	}
}

func hasTrailingComma(node *sitter.Node) bool {
	switch node.Type() {
	case "array", "object":
	default:
		return false
	}
	n := int(node.ChildCount())
	if n < 3 {
		return false
	}
	last := node.Child(n - 2)
	return last != nil && !last.IsNamed() && last.Type() == ","
}

func literalName(nodeType string) string {
	if nodeType == "array" {
		return "array"
	}
	return "object"
}

func describe(node *sitter.Node, source []byte) string {
	text := GetNodeText(node, source)
	if i := strings.IndexByte(text, '\n'); i >= 0 {
		text = text[:i]
	}
	if len(text) > 40 {
		text = text[:40] + "..."
	}
	if text == "" {
		return "end of input"
	}
	return fmt.Sprintf("%q", text)
}
