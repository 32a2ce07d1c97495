// Package fileproc provides concurrent unit processing utilities.
package fileproc

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"github.com/panbanda/jsprune/pkg/ast"
	"github.com/panbanda/jsprune/pkg/source"
	"github.com/sourcegraph/conc/pool"
)

// ProcessingError represents an error that occurred while processing a unit.
type ProcessingError struct {
	Path string
	Err  error
}

func (e ProcessingError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

// Unwrap returns the underlying error.
func (e ProcessingError) Unwrap() error {
	return e.Err
}

// ProcessingErrors collects multiple unit processing errors.
type ProcessingErrors struct {
	Errors []ProcessingError
	mu     sync.Mutex
}

// Add appends an error to the collection (thread-safe).
func (e *ProcessingErrors) Add(path string, err error) {
	e.mu.Lock()
	e.Errors = append(e.Errors, ProcessingError{Path: path, Err: err})
	e.mu.Unlock()
}

// HasErrors returns true if any errors were collected.
func (e *ProcessingErrors) HasErrors() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.Errors) > 0
}

// Error implements the error interface.
func (e *ProcessingErrors) Error() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.Errors) == 0 {
		return "no errors"
	}
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	return fmt.Sprintf("%d units failed to process (first: %v)", len(e.Errors), e.Errors[0])
}

// Unwrap exposes every collected error to errors.Is and errors.As.
func (e *ProcessingErrors) Unwrap() []error {
	e.mu.Lock()
	defer e.mu.Unlock()
	errs := make([]error, len(e.Errors))
	for i, pe := range e.Errors {
		errs[i] = pe
	}
	return errs
}

// DefaultWorkerMultiplier is the multiplier applied to NumCPU for worker count.
// 2x is optimal for mixed I/O and CGO workloads.
const DefaultWorkerMultiplier = 2

// ProgressFunc is called with the unit name after each unit is processed.
type ProgressFunc func(unit string)

// ProviderFactory creates a provider for a single worker task. Tree-sitter
// parsers are not safe for concurrent use, so each task gets its own.
type ProviderFactory func() ast.Provider

// MapUnits processes units in parallel and returns results index-aligned
// with units. A failed unit leaves the zero value in its slot and an entry
// in the returned errors. If maxWorkers is <= 0, defaults to 2x NumCPU.
func MapUnits[T any](
	ctx context.Context,
	units []source.Unit,
	maxWorkers int,
	newProvider ProviderFactory,
	fn func(context.Context, ast.Provider, source.Unit) (T, error),
	onProgress ProgressFunc,
) ([]T, *ProcessingErrors) {
	if len(units) == 0 {
		return nil, nil
	}

	if maxWorkers <= 0 {
		maxWorkers = runtime.NumCPU() * DefaultWorkerMultiplier
	}

	results := make([]T, len(units))
	errs := &ProcessingErrors{}

	p := pool.New().WithMaxGoroutines(maxWorkers).WithContext(ctx)
	for i, unit := range units {
		p.Go(func(ctx context.Context) error {
			if onProgress != nil {
				defer onProgress(unit.Name)
			}

			select {
			case <-ctx.Done():
				errs.Add(unit.Name, ctx.Err())
				return ctx.Err()
			default:
			}

			prov := newProvider()
			defer prov.Close()

			result, err := fn(ctx, prov, unit)
			if err != nil {
				errs.Add(unit.Name, err)
				return nil // Don't stop pool on individual unit errors
			}

			// Each goroutine owns its slot.
			results[i] = result
			return nil
		})
	}
	_ = p.Wait() // Context errors are already captured in errs

	if !errs.HasErrors() {
		return results, nil
	}
	return results, errs
}

// ParseUnits parses units in parallel, preserving order.
func ParseUnits(ctx context.Context, units []source.Unit, maxWorkers int, newProvider ProviderFactory, onProgress ProgressFunc) ([]*ast.Tree, *ProcessingErrors) {
	return MapUnits(ctx, units, maxWorkers, newProvider, func(ctx context.Context, prov ast.Provider, u source.Unit) (*ast.Tree, error) {
		return prov.Parse(ctx, u.Name, u.Source)
	}, onProgress)
}
