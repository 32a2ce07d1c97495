package mcpserver

import (
	"context"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/panbanda/jsprune/internal/output"
	svc "github.com/panbanda/jsprune/internal/service/prune"
	"github.com/panbanda/jsprune/pkg/printer"
)

// PruneInput is the input of both prune tools.
type PruneInput struct {
	LibraryPaths  []string `json:"library_paths,omitempty" jsonschema:"Library files or directories to prune."`
	LibrarySource string   `json:"library_source,omitempty" jsonschema:"Inline library source, appended after library_paths."`
	AppPaths      []string `json:"app_paths,omitempty" jsonschema:"Application files or directories whose calls keep library functions alive."`
	AppSource     string   `json:"app_source,omitempty" jsonschema:"Inline application source."`
	Keep          []string `json:"keep,omitempty" jsonschema:"Function names that are always kept."`
	Passes        int      `json:"passes,omitempty" jsonschema:"Number of prune passes. Default 2."`
	FixedPoint    bool     `json:"fixed_point,omitempty" jsonschema:"Repeat passes until nothing more is removed."`
	Lax           bool     `json:"lax,omitempty" jsonschema:"Accept trailing commas in array and object literals."`
	Minify        bool     `json:"minify,omitempty" jsonschema:"Minify the pruned output."`
	Format        string   `json:"format,omitempty" jsonschema:"Output format: toon (default), json, or markdown."`
}

func getFormat(format string) output.Format {
	switch format {
	case "json":
		return output.FormatJSON
	case "markdown", "md":
		return output.FormatMarkdown
	default:
		return output.FormatTOON
	}
}

func (s *Server) request(input PruneInput) (svc.Request, *svc.Service) {
	cfg := *s.config
	if input.Passes > 0 {
		cfg.Prune.Passes = input.Passes
	}
	if input.FixedPoint {
		cfg.Prune.FixedPoint = true
	}
	if input.Lax {
		cfg.Prune.Strict = false
	}

	req := svc.Request{
		LibraryPaths: input.LibraryPaths,
		AppPaths:     input.AppPaths,
		Externs:      input.Keep,
	}
	if input.LibrarySource != "" {
		req.LibrarySources = map[string][]byte{"<library_source>": []byte(input.LibrarySource)}
	}
	if input.AppSource != "" {
		req.AppSources = map[string][]byte{"<app_source>": []byte(input.AppSource)}
	}
	return req, svc.New(svc.WithConfig(&cfg), svc.WithLogger(s.logger))
}

// pruneOutput is the tool payload: the run summary plus the pruned source.
type pruneOutput struct {
	Summary output.PruneSummary `json:"summary" toon:"summary"`
	Output  string              `json:"output" toon:"output"`
}

func (s *Server) handlePrune(ctx context.Context, req *mcp.CallToolRequest, input PruneInput) (*mcp.CallToolResult, any, error) {
	resp, err := s.run(ctx, input)
	if err != nil {
		return toolError(err.Error())
	}

	text := resp.Result.Output
	if input.Minify && text != "" {
		if text, err = printer.Minify(text); err != nil {
			return toolError(err.Error())
		}
	}

	summary := report(resp).RenderData().(output.PruneSummary)
	summary.OutputBytes = len(text)
	return toolResult(pruneOutput{Summary: summary, Output: text}, getFormat(input.Format))
}

func (s *Server) handleListUnused(ctx context.Context, req *mcp.CallToolRequest, input PruneInput) (*mcp.CallToolResult, any, error) {
	resp, err := s.run(ctx, input)
	if err != nil {
		return toolError(err.Error())
	}
	return toolResult(report(resp).RenderData(), getFormat(input.Format))
}

func (s *Server) run(ctx context.Context, input PruneInput) (*svc.Response, error) {
	r, service := s.request(input)
	return service.Run(ctx, r)
}

func report(resp *svc.Response) *output.PruneReport {
	return &output.PruneReport{
		Result:      resp.Result,
		Verbose:     true,
		InputBytes:  resp.InputBytes,
		OutputBytes: len(resp.Result.Output),
	}
}

func formatOutput(data any, format output.Format) (string, error) {
	var sb strings.Builder
	var err error
	switch format {
	case output.FormatJSON:
		err = output.WriteJSON(&sb, data)
	case output.FormatMarkdown:
		sb.WriteString("```\n")
		err = output.WriteTOON(&sb, data)
		sb.WriteString("```")
	default:
		err = output.WriteTOON(&sb, data)
	}
	if err != nil {
		return "", err
	}
	return sb.String(), nil
}

func toolResult(data any, format output.Format) (*mcp.CallToolResult, any, error) {
	text, err := formatOutput(data, format)
	if err != nil {
		return nil, nil, err
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: text},
		},
	}, nil, nil
}

func toolError(msg string) (*mcp.CallToolResult, any, error) {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: "Error: " + msg},
		},
		IsError: true,
	}, nil, nil
}
