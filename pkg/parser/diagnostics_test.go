package parser

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func diagnose(t *testing.T, source string, strict bool) []Diagnostic {
	t.Helper()
	p := New()
	defer p.Close()
	result, err := p.Parse(context.Background(), []byte(source), "lib.js")
	require.NoError(t, err)
	defer result.Close()
	return Diagnose(result, strict)
}

func TestDiagnose(t *testing.T) {
	tests := []struct {
		name   string
		source string
		strict bool
		kinds  []DiagnosticKind
	}{
		{"valid", "function func1() {}\nfunc1();\n", true, nil},
		{"trailing comma object strict", "var a = {b: 1,};\n", true, []DiagnosticKind{DiagTrailingComma}},
		{"trailing comma array strict", "var a = [1, 2,];\n", true, []DiagnosticKind{DiagTrailingComma}},
		{"trailing comma lenient", "var a = {b: 1,};\n", false, nil},
		{"no trailing comma", "var a = {b: 1, c: [1, 2]};\n", true, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			diags := diagnose(t, tt.source, tt.strict)
			var kinds []DiagnosticKind
			for _, d := range diags {
				kinds = append(kinds, d.Kind)
			}
			assert.Equal(t, tt.kinds, kinds)
		})
	}
}

func TestDiagnoseTrailingCommaPosition(t *testing.T) {
	diags := diagnose(t, "var a = {\n  b: 1,\n};\n", true)
	require.Len(t, diags, 1)
	d := diags[0]
	assert.Equal(t, DiagTrailingComma, d.Kind)
	assert.Equal(t, "lib.js", d.File)
	assert.Equal(t, 2, d.Line)
	assert.Equal(t, 7, d.Column)
	assert.Contains(t, d.String(), "lib.js:2:7: TRAILING_COMMA")
}

func TestDiagnoseSyntaxError(t *testing.T) {
	diags := diagnose(t, "function (", false)
	require.NotEmpty(t, diags)
	for _, d := range diags {
		assert.Contains(t, []DiagnosticKind{DiagParseError, DiagMissingToken}, d.Kind)
	}
}

func TestParseFailureError(t *testing.T) {
	f := &ParseFailure{Path: "lib.js"}
	assert.Equal(t, "parse lib.js: invalid source", f.Error())

	f.Diagnostics = []Diagnostic{{Kind: DiagTrailingComma, Message: "x", File: "lib.js", Line: 1, Column: 2}}
	assert.Contains(t, f.Error(), "1 diagnostic(s)")
	assert.Contains(t, f.Error(), "lib.js:1:2: TRAILING_COMMA: x")
}
