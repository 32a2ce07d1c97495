package prune

import (
	"github.com/panbanda/jsprune/pkg/parser"
)

// Result is the outcome of one prune run.
type Result struct {
	// Output is the printed library source after pruning. It is empty
	// when any unit failed to parse.
	Output string `json:"output" toon:"output"`

	TotalFunctions   int               `json:"total_functions" toon:"total_functions"`
	KeptFunctions    []string          `json:"kept_functions" toon:"kept_functions"`
	RemovedFunctions []RemovedFunction `json:"removed_functions" toon:"removed_functions"`
	Passes           int               `json:"passes" toon:"passes"`

	// Stranded lists kept functions that nothing outside dead code calls;
	// a further pass would remove them.
	Stranded []string `json:"stranded,omitempty" toon:"stranded,omitempty"`

	Diagnostics []parser.Diagnostic `json:"diagnostics,omitempty" toon:"diagnostics,omitempty"`

	// Vars is the number of simple variable declarations seen.
	Vars int `json:"vars" toon:"vars"`
}

// RemovedFunction describes one detached definition.
type RemovedFunction struct {
	Name string `json:"name" toon:"name"`
	Form string `json:"form" toon:"form"`
	Unit string `json:"unit" toon:"unit"`
	Line int    `json:"line" toon:"line"`
	Pass int    `json:"pass" toon:"pass"`

	offset int
}

// Failed reports whether the run was aborted by parse diagnostics.
func (r *Result) Failed() bool {
	return len(r.Diagnostics) > 0
}

// RemovedCount returns how many named functions were removed.
func (r *Result) RemovedCount() int {
	return r.TotalFunctions - len(r.KeptFunctions)
}
