package output

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/panbanda/jsprune/pkg/analyzer/prune"
	"github.com/panbanda/jsprune/pkg/parser"
)

func TestParseFormat(t *testing.T) {
	tests := map[string]Format{
		"json":     FormatJSON,
		"JSON":     FormatJSON,
		"markdown": FormatMarkdown,
		"md":       FormatMarkdown,
		"toon":     FormatTOON,
		"text":     FormatText,
		"":         FormatText,
		"xml":      FormatText,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseFormat(in), in)
	}
}

func TestNewFormatterFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")
	f, err := NewFormatter(FormatJSON, path, true)
	require.NoError(t, err)

	require.NoError(t, f.Output(map[string]int{"a": 1}))
	require.NoError(t, f.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `{"a": 1}`, string(data))
}

func TestTableFormats(t *testing.T) {
	table := NewTable("Removed", []string{"Function", "Pass"}, [][]string{{"f", "1"}, {"g", "2"}}, nil, nil)

	var text bytes.Buffer
	require.NoError(t, NewWriterFormatter(FormatText, &text, false).Output(table))
	assert.Contains(t, text.String(), "Removed")
	assert.Contains(t, text.String(), "FUNCTION")
	assert.Contains(t, text.String(), "g")

	var md bytes.Buffer
	require.NoError(t, NewWriterFormatter(FormatMarkdown, &md, false).Output(table))
	assert.Equal(t, "## Removed\n\n| Function | Pass |\n| --- | --- |\n| f | 1 |\n| g | 2 |\n\n", md.String())

	var js bytes.Buffer
	require.NoError(t, NewWriterFormatter(FormatJSON, &js, false).Output(table))
	assert.JSONEq(t, `[{"Function":"f","Pass":"1"},{"Function":"g","Pass":"2"}]`, js.String())
}

func TestTOONOutput(t *testing.T) {
	var buf bytes.Buffer
	data := struct {
		Name string `toon:"name"`
	}{"lib"}
	require.NoError(t, NewWriterFormatter(FormatTOON, &buf, false).Output(data))
	assert.Contains(t, buf.String(), "name")
	assert.Contains(t, buf.String(), "lib")
}

func TestWarning(t *testing.T) {
	var buf bytes.Buffer
	f := NewWriterFormatter(FormatText, &buf, false)
	f.Warning("careful %d", 1)

	assert.Equal(t, "WARNING: careful 1\n", buf.String())
	assert.Equal(t, FormatText, f.Format())
}

func sampleResult() *prune.Result {
	return &prune.Result{
		Output:         "function f() {}\n",
		TotalFunctions: 3,
		KeptFunctions:  []string{"f"},
		RemovedFunctions: []prune.RemovedFunction{
			{Name: "g", Form: "declared", Unit: "lib.js", Line: 2, Pass: 1},
			{Name: "h", Form: "keyed", Unit: "lib.js", Line: 5, Pass: 2},
		},
		Passes:   2,
		Stranded: []string{"f"},
	}
}

func TestPruneReportText(t *testing.T) {
	var buf bytes.Buffer
	report := &PruneReport{Result: sampleResult(), Verbose: true, InputBytes: 100, OutputBytes: 16}
	require.NoError(t, NewWriterFormatter(FormatText, &buf, false).Output(report))

	out := buf.String()
	assert.Contains(t, out, "1 of 3 named functions kept, 2 removed in 2 pass(es); 100 -> 16 bytes")
	assert.Contains(t, out, "lib.js:5")
	assert.Contains(t, out, "Stranded")
}

func TestPruneReportQuiet(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewWriterFormatter(FormatMarkdown, &buf, false).Output(&PruneReport{Result: sampleResult()}))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "# Prune\n\n1 of 3 named functions kept"))
	assert.NotContains(t, out, "## Removed")
	assert.Contains(t, out, "## Stranded")
}

func TestPruneReportJSONOmitsOutput(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewWriterFormatter(FormatJSON, &buf, false).Output(&PruneReport{Result: sampleResult()}))

	var got map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.NotContains(t, got, "output")
	assert.EqualValues(t, 3, got["total_functions"])
	assert.Len(t, got["removed_functions"], 2)
}

func TestPruneReportDiagnostics(t *testing.T) {
	result := &prune.Result{Diagnostics: []parser.Diagnostic{{
		Kind: parser.DiagTrailingComma, Message: "trailing comma", File: "lib.js", Line: 2, Column: 7,
	}}}

	var buf bytes.Buffer
	require.NoError(t, NewWriterFormatter(FormatMarkdown, &buf, false).Output(&PruneReport{Result: result}))
	assert.Contains(t, buf.String(), "1 diagnostic(s); nothing was pruned")
	assert.Contains(t, buf.String(), "| lib.js | 2 | 7 | TRAILING_COMMA | trailing comma |")

	summary := (&PruneReport{Result: result}).RenderData().(PruneSummary)
	require.Len(t, summary.Diagnostics, 1)
	assert.Equal(t, "TRAILING_COMMA", summary.Diagnostics[0].Kind)
}
