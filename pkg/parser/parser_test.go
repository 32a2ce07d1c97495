package parser

import (
	"context"
	"testing"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	p := New()
	if p == nil {
		t.Fatal("New() returned nil")
	}
	if p.parser == nil {
		t.Error("parser field is nil")
	}
	p.Close()
}

func TestDetectLanguage(t *testing.T) {
	tests := []struct {
		path string
		want Language
	}{
		{"script.js", LangJavaScript},
		{"lib/jquery.min.js", LangJavaScript},
		{"module.mjs", LangJavaScript},
		{"common.cjs", LangJavaScript},
		{"SCRIPT.JS", LangJavaScript},

		{"component.jsx", LangUnknown},
		{"app.ts", LangUnknown},
		{"file.txt", LangUnknown},
		{"file", LangUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := DetectLanguage(tt.path); got != tt.want {
				t.Errorf("DetectLanguage(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

func TestParse(t *testing.T) {
	p := New()
	defer p.Close()

	source := []byte("function func1() { return 1; }\nfunc1();\n")
	result, err := p.Parse(context.Background(), source, "app.js")
	require.NoError(t, err)
	defer result.Close()

	assert.Equal(t, LangJavaScript, result.Language)
	assert.Equal(t, "app.js", result.Path)

	root := result.Tree.RootNode()
	assert.Equal(t, "program", root.Type())
	assert.False(t, root.HasError())

	fn := root.NamedChild(0)
	require.Equal(t, "function_declaration", fn.Type())
	assert.Equal(t, "func1", GetNodeText(fn.ChildByFieldName("name"), source))
}

func TestWalkSkipsChildren(t *testing.T) {
	p := New()
	defer p.Close()

	source := []byte("function outer() { function inner() {} }")
	result, err := p.Parse(context.Background(), source, "a.js")
	require.NoError(t, err)
	defer result.Close()

	var names []string
	Walk(result.Tree.RootNode(), source, func(node *sitter.Node, src []byte) bool {
		if node.Type() == "function_declaration" {
			names = append(names, GetNodeText(node.ChildByFieldName("name"), src))
			return false
		}
		return true
	})
	assert.Equal(t, []string{"outer"}, names)
}

func TestGetNodeText(t *testing.T) {
	assert.Equal(t, "", GetNodeText(nil, []byte("x")))
}
