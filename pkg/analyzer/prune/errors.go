package prune

import (
	"errors"
	"fmt"
)

// ErrParseFailed is returned by callers that treat any syntax diagnostic
// in the inputs as a failed run.
var ErrParseFailed = errors.New("parse failed")

// InvariantError reports a tree shape no valid source can produce, such
// as a function node without a parent.
type InvariantError struct {
	Unit string
	Node string
	Line int
	Dump string
}

// Error implements the error interface.
func (e *InvariantError) Error() string {
	return fmt.Sprintf("invariant violated in %s:%d: %s has no syntactic parent: %s", e.Unit, e.Line, e.Node, e.Dump)
}
