package output

import (
	"fmt"
	"io"
	"strconv"

	"github.com/fatih/color"

	"github.com/panbanda/jsprune/pkg/analyzer/prune"
)

// PruneReport renders the summary of one prune run. The pruned source
// itself is written separately.
type PruneReport struct {
	Result  *prune.Result
	Verbose bool
	// InputBytes and OutputBytes describe the library before and after.
	InputBytes  int
	OutputBytes int
}

// PruneSummary is the serialized form of a PruneReport.
type PruneSummary struct {
	TotalFunctions   int                     `json:"total_functions" toon:"total_functions"`
	KeptFunctions    []string                `json:"kept_functions" toon:"kept_functions"`
	RemovedFunctions []prune.RemovedFunction `json:"removed_functions" toon:"removed_functions"`
	Passes           int                     `json:"passes" toon:"passes"`
	Stranded         []string                `json:"stranded,omitempty" toon:"stranded,omitempty"`
	Diagnostics      []DiagnosticRow         `json:"diagnostics,omitempty" toon:"diagnostics,omitempty"`
	InputBytes       int                     `json:"input_bytes" toon:"input_bytes"`
	OutputBytes      int                     `json:"output_bytes" toon:"output_bytes"`
}

// DiagnosticRow is a flattened parser diagnostic.
type DiagnosticRow struct {
	Kind    string `json:"kind" toon:"kind"`
	Message string `json:"message" toon:"message"`
	File    string `json:"file" toon:"file"`
	Line    int    `json:"line" toon:"line"`
	Column  int    `json:"column" toon:"column"`
}

// RenderData returns the run summary without the printed output.
func (p *PruneReport) RenderData() any {
	r := p.Result
	s := PruneSummary{
		TotalFunctions:   r.TotalFunctions,
		KeptFunctions:    r.KeptFunctions,
		RemovedFunctions: r.RemovedFunctions,
		Passes:           r.Passes,
		Stranded:         r.Stranded,
		InputBytes:       p.InputBytes,
		OutputBytes:      p.OutputBytes,
	}
	for _, d := range r.Diagnostics {
		s.Diagnostics = append(s.Diagnostics, DiagnosticRow{
			Kind: string(d.Kind), Message: d.Message, File: d.File, Line: d.Line, Column: d.Column,
		})
	}
	return s
}

func (p *PruneReport) summary() string {
	r := p.Result
	if r.Failed() {
		return fmt.Sprintf("%d diagnostic(s); nothing was pruned", len(r.Diagnostics))
	}
	s := fmt.Sprintf("%d of %d named functions kept, %d removed in %d pass(es)",
		len(r.KeptFunctions), r.TotalFunctions, r.RemovedCount(), r.Passes)
	if p.InputBytes > 0 {
		s += fmt.Sprintf("; %d -> %d bytes", p.InputBytes, p.OutputBytes)
	}
	return s
}

func (p *PruneReport) report() *Report {
	r := p.Result
	rep := &Report{Title: "Prune", Summary: p.summary()}

	if r.Failed() {
		rows := make([][]string, len(r.Diagnostics))
		for i, d := range r.Diagnostics {
			rows[i] = []string{d.File, strconv.Itoa(d.Line), strconv.Itoa(d.Column), string(d.Kind), d.Message}
		}
		rep.Sections = append(rep.Sections, NewTable("Diagnostics",
			[]string{"File", "Line", "Col", "Kind", "Message"}, rows, nil, nil))
		return rep
	}

	if p.Verbose && len(r.RemovedFunctions) > 0 {
		rows := make([][]string, len(r.RemovedFunctions))
		for i, rf := range r.RemovedFunctions {
			rows[i] = []string{rf.Name, rf.Form, fmt.Sprintf("%s:%d", rf.Unit, rf.Line), strconv.Itoa(rf.Pass)}
		}
		rep.Sections = append(rep.Sections, NewTable("Removed",
			[]string{"Function", "Form", "Location", "Pass"}, rows, nil, nil))
	}

	if len(r.Stranded) > 0 {
		rows := make([][]string, len(r.Stranded))
		for i, name := range r.Stranded {
			rows[i] = []string{name}
		}
		rep.Sections = append(rep.Sections, NewTable("Stranded",
			[]string{"Function"}, rows, []string{"unreachable from live code"}, nil))
	}
	return rep
}

// RenderText writes the report as tables, coloring the summary by outcome.
func (p *PruneReport) RenderText(w io.Writer, colored bool) error {
	rep := p.report()
	if colored {
		attr := color.FgGreen
		if p.Result.Failed() {
			attr = color.FgRed
		} else if len(p.Result.Stranded) > 0 {
			attr = color.FgYellow
		}
		rep.Summary = color.New(attr).Sprint(rep.Summary)
	}
	return rep.RenderText(w, colored)
}

// RenderMarkdown writes the report as markdown tables.
func (p *PruneReport) RenderMarkdown(w io.Writer) error {
	return p.report().RenderMarkdown(w)
}
