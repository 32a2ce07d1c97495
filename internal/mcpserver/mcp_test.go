package mcpserver

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/panbanda/jsprune/internal/output"
	"github.com/panbanda/jsprune/pkg/config"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Cache.Enabled = false
	return NewServer("1.0.0-test", cfg, nil)
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if result == nil || len(result.Content) == 0 {
		t.Fatal("empty tool result")
	}
	text, ok := result.Content[0].(*mcp.TextContent)
	if !ok {
		t.Fatalf("content is %T, want *mcp.TextContent", result.Content[0])
	}
	return text.Text
}

func TestServerCreation(t *testing.T) {
	s := newTestServer(t)
	if s.server == nil {
		t.Fatal("NewServer().server is nil")
	}
	if NewServer("", nil, nil) == nil {
		t.Fatal("NewServer with defaults returned nil")
	}
}

func TestToolDescriptions(t *testing.T) {
	for name, fn := range map[string]func() string{
		"prune":       describePrune,
		"list_unused": describeListUnused,
	} {
		desc := fn()
		if !strings.Contains(desc, "USE WHEN:") || !strings.Contains(desc, "INTERPRETING RESULTS:") {
			t.Errorf("%s description missing sections", name)
		}
	}
}

func TestGetFormat(t *testing.T) {
	tests := map[string]output.Format{
		"":         output.FormatTOON,
		"toon":     output.FormatTOON,
		"json":     output.FormatJSON,
		"markdown": output.FormatMarkdown,
		"md":       output.FormatMarkdown,
		"xml":      output.FormatTOON,
	}
	for in, want := range tests {
		if got := getFormat(in); got != want {
			t.Errorf("getFormat(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestToolError(t *testing.T) {
	result, _, err := toolError("boom")
	if err != nil {
		t.Fatalf("toolError returned error: %v", err)
	}
	if !result.IsError {
		t.Error("IsError should be true")
	}
	if got := resultText(t, result); got != "Error: boom" {
		t.Errorf("text = %q", got)
	}
}

func TestFormatOutput(t *testing.T) {
	data := map[string]any{"kept": 1}
	for _, f := range []output.Format{output.FormatTOON, output.FormatJSON, output.FormatMarkdown} {
		text, err := formatOutput(data, f)
		if err != nil {
			t.Fatalf("formatOutput(%s) error: %v", f, err)
		}
		if !strings.Contains(text, "kept") {
			t.Errorf("formatOutput(%s) = %q", f, text)
		}
	}
	text, _ := formatOutput(data, output.FormatMarkdown)
	if !strings.HasPrefix(text, "```\n") || !strings.HasSuffix(text, "```") {
		t.Errorf("markdown output not fenced: %q", text)
	}
}

func TestHandlePruneInline(t *testing.T) {
	s := newTestServer(t)
	result, _, err := s.handlePrune(context.Background(), nil, PruneInput{
		LibrarySource: "function used() {}\nfunction unused() {}\n",
		AppSource:     "used();\n",
		Format:        "json",
	})
	if err != nil {
		t.Fatalf("handlePrune error: %v", err)
	}
	if result.IsError {
		t.Fatalf("tool error: %s", resultText(t, result))
	}

	var got struct {
		Summary output.PruneSummary `json:"summary"`
		Output  string              `json:"output"`
	}
	if err := json.Unmarshal([]byte(resultText(t, result)), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Output != "function used() {}\n" {
		t.Errorf("output = %q", got.Output)
	}
	if got.Summary.TotalFunctions != 2 || len(got.Summary.RemovedFunctions) != 1 {
		t.Errorf("summary = %+v", got.Summary)
	}
	if got.Summary.RemovedFunctions[0].Name != "unused" {
		t.Errorf("removed = %+v", got.Summary.RemovedFunctions)
	}
}

func TestHandlePruneKeepAndMinify(t *testing.T) {
	s := newTestServer(t)
	result, _, _ := s.handlePrune(context.Background(), nil, PruneInput{
		LibrarySource: "function keep ( a ) {\n  return a + 1 ;\n}\nfunction drop() {}\n",
		Keep:          []string{"keep"},
		Minify:        true,
		Format:        "json",
	})
	text := resultText(t, result)
	if result.IsError {
		t.Fatalf("tool error: %s", text)
	}
	if strings.Contains(text, "drop()") {
		t.Errorf("drop should have been removed: %s", text)
	}
	// Parameter names may be shortened, so check shape only.
	if !strings.Contains(text, "function keep(") || !strings.Contains(text, "){return ") {
		t.Errorf("output not minified: %s", text)
	}
	if strings.Contains(text, "\\n  return") {
		t.Errorf("body still indented: %s", text)
	}
}

func TestHandleListUnusedFromPaths(t *testing.T) {
	dir := t.TempDir()
	lib := filepath.Join(dir, "lib.js")
	app := filepath.Join(dir, "app.js")
	if err := os.WriteFile(lib, []byte("a.x = function() {};\na.y = function() {};\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(app, []byte("a.y();\n"), 0644); err != nil {
		t.Fatal(err)
	}

	s := newTestServer(t)
	result, _, _ := s.handleListUnused(context.Background(), nil, PruneInput{
		LibraryPaths: []string{lib},
		AppPaths:     []string{app},
		Format:       "json",
	})
	text := resultText(t, result)
	if result.IsError {
		t.Fatalf("tool error: %s", text)
	}

	var summary output.PruneSummary
	if err := json.Unmarshal([]byte(text), &summary); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(summary.KeptFunctions) != 1 || summary.KeptFunctions[0] != "y" {
		t.Errorf("kept = %v", summary.KeptFunctions)
	}
}

func TestHandlePruneErrors(t *testing.T) {
	s := newTestServer(t)

	result, _, _ := s.handlePrune(context.Background(), nil, PruneInput{AppSource: "f();"})
	if !result.IsError {
		t.Error("missing library should be a tool error")
	}

	result, _, _ = s.handlePrune(context.Background(), nil, PruneInput{
		LibraryPaths: []string{filepath.Join(t.TempDir(), "missing.js")},
	})
	if !result.IsError {
		t.Error("missing path should be a tool error")
	}
}

func TestHandlePruneDiagnostics(t *testing.T) {
	s := newTestServer(t)
	source := "var a = [1,];\n"

	result, _, _ := s.handlePrune(context.Background(), nil, PruneInput{LibrarySource: source, Format: "json"})
	if !strings.Contains(resultText(t, result), "TRAILING_COMMA") {
		t.Errorf("expected trailing comma diagnostic: %s", resultText(t, result))
	}

	result, _, _ = s.handlePrune(context.Background(), nil, PruneInput{LibrarySource: source, Lax: true, Format: "json"})
	if strings.Contains(resultText(t, result), "TRAILING_COMMA") {
		t.Errorf("lax run should accept trailing commas: %s", resultText(t, result))
	}
}

func TestParseFrontmatter(t *testing.T) {
	fm, body := parseFrontmatter([]byte("---\ndescription: d\narguments:\n  - name: x\n    required: true\n---\nbody {{x}}\n"))
	if fm.Description != "d" || len(fm.Arguments) != 1 || !fm.Arguments[0].Required {
		t.Errorf("frontmatter = %+v", fm)
	}
	if body != "body {{x}}\n" {
		t.Errorf("body = %q", body)
	}

	fm, body = parseFrontmatter([]byte("no header"))
	if fm.Description != "" || body != "no header" {
		t.Errorf("plain content = %+v %q", fm, body)
	}

	_, body = parseFrontmatter([]byte("---\ndescription: unterminated\n"))
	if !strings.HasPrefix(body, "---") {
		t.Errorf("unterminated header should return content whole: %q", body)
	}
}

func TestSubstituteArgs(t *testing.T) {
	got := substituteArgs("prune {{library}} for {{app}}", map[string]string{"library": "lib.js", "app": ""})
	if got != "prune lib.js for {{app}}" {
		t.Errorf("substituteArgs = %q", got)
	}
}

func TestEmbeddedPrompts(t *testing.T) {
	entries, err := promptFiles.ReadDir("prompts")
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) == 0 {
		t.Fatal("no embedded prompts")
	}
	for _, e := range entries {
		content, _ := promptFiles.ReadFile("prompts/" + e.Name())
		fm, body := parseFrontmatter(content)
		if fm.Description == "" {
			t.Errorf("%s has no description", e.Name())
		}

		handler := makePromptHandler(fm.Description, body)
		result, err := handler(context.Background(), &mcp.GetPromptRequest{
			Params: &mcp.GetPromptParams{
				Name:      e.Name(),
				Arguments: map[string]string{"library": "vendor/lib.js", "app": "src"},
			},
		})
		if err != nil {
			t.Fatalf("%s handler error: %v", e.Name(), err)
		}
		text := result.Messages[0].Content.(*mcp.TextContent).Text
		if !strings.Contains(text, "vendor/lib.js") || strings.Contains(text, "{{library}}") {
			t.Errorf("%s: arguments not substituted: %s", e.Name(), text)
		}
	}
}

func TestGenerateManifest(t *testing.T) {
	data, err := GenerateManifest("1.2.3")
	if err != nil {
		t.Fatal(err)
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatal(err)
	}
	if m.Version != "1.2.3" || m.Packages[0].Identifier != "ghcr.io/panbanda/jsprune:1.2.3" {
		t.Errorf("manifest = %+v", m)
	}

	data, _ = GenerateManifest("")
	if !strings.Contains(string(data), `"version": "0.0.0"`) {
		t.Errorf("default version missing: %s", data)
	}
}
