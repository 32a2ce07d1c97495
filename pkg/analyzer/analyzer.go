// Package analyzer holds the interfaces and progress plumbing shared by
// unit-based analyzers.
package analyzer

import (
	"context"

	"github.com/panbanda/jsprune/pkg/source"
)

// UnitAnalyzer is the interface that unit-based analyzers implement.
// The context can be used for cancellation and progress reporting.
type UnitAnalyzer[T any] interface {
	// Analyze processes a collection of source units and returns the
	// analysis result.
	Analyze(ctx context.Context, units []source.Unit) (T, error)

	// Close releases any resources held by the analyzer.
	Close()
}
