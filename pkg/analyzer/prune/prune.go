// Package prune removes unused named function definitions from library
// JavaScript, guided by the calls an application makes into it.
//
// Every usage of a name, in application and library code alike, is
// counted in a single CallTable. Named library functions become
// candidates in a Registry. Each pass marks the candidates reachable
// from live calls and detaches the rest, subtracting the usages of every
// removed body so that callees kept alive only by it can go in the next
// pass. Two passes run by default.
package prune

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/panbanda/jsprune/internal/fileproc"
	"github.com/panbanda/jsprune/pkg/analyzer"
	"github.com/panbanda/jsprune/pkg/ast"
	"github.com/panbanda/jsprune/pkg/ast/treesitter"
	"github.com/panbanda/jsprune/pkg/parser"
	"github.com/panbanda/jsprune/pkg/printer"
	"github.com/panbanda/jsprune/pkg/source"
)

// DefaultPasses is the number of reachability and pruning passes.
const DefaultPasses = 2

// LibraryName names the concatenated library source in diagnostics.
const LibraryName = "<library>"

// Analyzer runs the prune over a set of source units.
type Analyzer struct {
	logger     *slog.Logger
	passes     int
	fixedPoint bool
	strict     bool
	externs    []string
	workers    int
}

// Compile-time check that Analyzer implements analyzer.UnitAnalyzer[*Result]
var _ analyzer.UnitAnalyzer[*Result] = (*Analyzer)(nil)

// Option is a functional option for configuring Analyzer.
type Option func(*Analyzer)

// WithLogger sets the logger for pass and removal records.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Analyzer) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// WithPasses sets the number of passes.
func WithPasses(n int) Option {
	return func(a *Analyzer) {
		if n > 0 {
			a.passes = n
		}
	}
}

// WithFixedPoint repeats passes until one removes nothing.
func WithFixedPoint() Option {
	return func(a *Analyzer) {
		a.fixedPoint = true
	}
}

// WithStrict controls ES3 trailing-comma rejection. Default true.
func WithStrict(strict bool) Option {
	return func(a *Analyzer) {
		a.strict = strict
	}
}

// WithExterns adds names that are always reachable.
func WithExterns(names ...string) Option {
	return func(a *Analyzer) {
		a.externs = append(a.externs, names...)
	}
}

// WithWorkers sets the number of parallel parsers (0 = 2x NumCPU).
func WithWorkers(n int) Option {
	return func(a *Analyzer) {
		a.workers = n
	}
}

// New creates a new prune analyzer.
func New(opts ...Option) *Analyzer {
	a := &Analyzer{
		logger: slog.New(slog.DiscardHandler),
		passes: DefaultPasses,
		strict: true,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// AddExtern registers name as always reachable for subsequent runs.
func (a *Analyzer) AddExtern(name string) {
	a.externs = append(a.externs, name)
}

// Close releases analyzer resources.
func (a *Analyzer) Close() {}

func (a *Analyzer) newProvider() ast.Provider {
	return treesitter.New(treesitter.WithStrict(a.strict))
}

// Analyze parses units, prunes the library units and prints the result.
// Syntax problems in any unit are reported in Result.Diagnostics with an
// empty Output and a nil error; only unexpected failures return an error.
func (a *Analyzer) Analyze(ctx context.Context, units []source.Unit) (*Result, error) {
	var libUnits, appUnits []source.Unit
	for _, u := range units {
		if u.Library {
			libUnits = append(libUnits, u)
		} else {
			appUnits = append(appUnits, u)
		}
	}

	tracker := analyzer.TrackerFromContext(ctx)
	if tracker != nil {
		tracker.Add(len(appUnits) + 1)
	}

	var onProgress fileproc.ProgressFunc
	if tracker != nil {
		onProgress = tracker.Tick
	}

	var diags []parser.Diagnostic
	appTrees, errs := fileproc.ParseUnits(ctx, appUnits, a.workers, a.newProvider, onProgress)
	if errs != nil {
		for _, pe := range errs.Errors {
			pf, ok := parser.AsParseFailure(pe.Err)
			if !ok {
				return nil, fmt.Errorf("parse %s: %w", pe.Path, pe.Err)
			}
			diags = append(diags, pf.Diagnostics...)
		}
	}

	bundle := source.Concat(LibraryName, libUnits)
	a.logger.Debug("library bundle", "units", bundle.Units(), "bytes", len(bundle.Source))
	prov := a.newProvider()
	defer prov.Close()
	libTree, err := prov.Parse(ctx, LibraryName, bundle.Source)
	if tracker != nil {
		tracker.Tick(LibraryName)
	}
	if err != nil {
		pf, ok := parser.AsParseFailure(err)
		if !ok {
			return nil, fmt.Errorf("parse library: %w", err)
		}
		for _, d := range pf.Diagnostics {
			d.File, d.Line, d.Column = bundle.Locate(d.Offset)
			diags = append(diags, d)
		}
	}

	if len(diags) > 0 {
		a.logger.Debug("parse failed, nothing pruned", "diagnostics", len(diags))
		return &Result{Diagnostics: diags}, nil
	}

	result, err := a.PruneTrees(ctx, libTree, appTrees)
	if err != nil {
		return nil, err
	}
	for i := range result.RemovedFunctions {
		rf := &result.RemovedFunctions[i]
		rf.Unit, rf.Line, _ = bundle.Locate(rf.offset)
	}
	return result, nil
}

// PruneTrees runs collection, reachability and pruning on already parsed
// trees. The library tree is mutated in place.
func (a *Analyzer) PruneTrees(ctx context.Context, lib *ast.Tree, apps []*ast.Tree) (*Result, error) {
	table := NewCallTable()
	for _, name := range a.externs {
		table.AddExtern(name)
	}

	collector := NewCollector(table)
	for _, tree := range apps {
		if err := collector.Collect(tree, nil); err != nil {
			return nil, err
		}
	}

	reg := NewRegistry(lib)
	if err := collector.Collect(lib, reg); err != nil {
		return nil, err
	}

	result := &Result{TotalFunctions: reg.Len()}
	pruner := NewPruner(lib, reg, table, a.logger)

	for pass := 1; ; pass++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !a.fixedPoint && pass > a.passes {
			break
		}

		kept := NewReachability(lib, reg).Compute(table)
		removed := pruner.Prune(kept)
		result.Passes = pass

		for _, c := range removed {
			result.RemovedFunctions = append(result.RemovedFunctions, RemovedFunction{
				Name:   c.Name,
				Form:   c.Form.String(),
				Line:   c.Line,
				Unit:   lib.Name,
				Pass:   pass,
				offset: lib.Node(c.ID).Start,
			})
		}
		a.logger.Debug("pass complete", "pass", pass, "kept", kept.Len(), "removed", len(removed))

		if a.fixedPoint && len(removed) == 0 {
			break
		}
	}

	result.KeptFunctions = reg.Names()
	result.Stranded = Stranded(lib, reg, table)
	result.Vars = len(collector.Vars())
	result.Output = printer.Print(lib)

	a.logger.Debug("prune complete",
		"total", result.TotalFunctions,
		"kept", len(result.KeptFunctions),
		"passes", result.Passes)
	return result, nil
}
